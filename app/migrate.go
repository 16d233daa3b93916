package app

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/clubdesk/clubdesk/internal/auth"
	"github.com/clubdesk/clubdesk/internal/daemon"
	"github.com/clubdesk/clubdesk/internal/db"
)

func init() { //nolint: gochecknoinits
	migrateCmd.Flags().BoolVar(&skipSeed, "skip-seed", false, "Only migrate the schema, do not seed roles")

	rootCmd.AddCommand(migrateCmd)
}

var (
	skipSeed bool

	migrateCmd = &cobra.Command{
		Use:     "migrate",
		Short:   "Create or update the database schema and seed the system roles",
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn, err := db.Open(&cfg)
			if err != nil {
				return err //nolint:wrapcheck
			}

			if err = db.Migrate(conn); err != nil {
				return err //nolint:wrapcheck
			}

			if skipSeed {
				log.Info().Msg("schema migrated")
				return nil
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			err = daemon.Seed(ctx, &cfg, auth.NewRoleStore(conn), auth.NewLocalProvider(conn))
			if err != nil {
				return err //nolint:wrapcheck
			}

			log.Info().Msg("schema migrated and roles seeded")

			return nil
		},
	}
)
