package handler

import (
	"github.com/gofiber/fiber/v3"
	"gorm.io/gorm"

	"github.com/clubdesk/clubdesk/internal/auth"
	"github.com/clubdesk/clubdesk/internal/auth/guard"
	"github.com/clubdesk/clubdesk/internal/config"
)

// Deps are the collaborators shared by all handlers.
type Deps struct {
	Cfg    *config.Config
	DB     *gorm.DB
	Roles  *auth.RoleStore
	Authz  *auth.Authorizer
	Issuer *auth.TokenIssuer
	Local  *auth.LocalProvider
	Guards *guard.Guards
}

// Valid reports whether all dependencies are set.
func (d *Deps) Valid() bool {
	return d != nil && d.Cfg != nil && d.DB != nil && d.Roles != nil && d.Authz != nil &&
		d.Issuer != nil && d.Local != nil && d.Guards != nil
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, deps *Deps) error
}
