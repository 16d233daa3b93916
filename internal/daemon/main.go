// Package daemon wires configuration, storage, token handling and the web
// service into the running server.
package daemon

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/clubdesk/clubdesk/internal/auth"
	"github.com/clubdesk/clubdesk/internal/auth/guard"
	"github.com/clubdesk/clubdesk/internal/config"
	"github.com/clubdesk/clubdesk/internal/db"
	"github.com/clubdesk/clubdesk/internal/web"
	"github.com/clubdesk/clubdesk/internal/web/handler"
)

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	db         *gorm.DB
	webService *web.Service
}

// Start serves http until a shutdown signal arrives.
func (d *Daemon) Start() error {
	go d.webService.WaitShutdown()

	return d.webService.Start(":" + strconv.Itoa(d.cfg.Webserver.Port))
}

// New creates a new Daemon instance with the provided configuration.
// It opens and migrates the database and seeds the system roles.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	conn, err := db.Open(cfg)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	if err = db.Migrate(conn); err != nil {
		return nil, err //nolint:wrapcheck
	}

	roles := auth.NewRoleStore(conn)
	local := auth.NewLocalProvider(conn)

	if err = Seed(context.Background(), cfg, roles, local); err != nil {
		return nil, err
	}

	issuer, err := auth.NewTokenIssuer(cfg.Token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create token issuer")
	}

	resolver, err := auth.NewScopeResolver(cfg.Token)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create scope resolver")
	}

	deps := &handler.Deps{
		Cfg:    cfg,
		DB:     conn,
		Roles:  roles,
		Authz:  auth.NewAuthorizer(roles),
		Issuer: issuer,
		Local:  local,
		Guards: guard.New(conn),
	}

	log.Info().
		Str("engine", cfg.DB.GormEngine).
		Int("port", cfg.Webserver.Port).
		Msg("daemon initialized")

	return &Daemon{
		cfg:        cfg,
		db:         conn,
		webService: web.New(deps, resolver),
	}, nil
}
