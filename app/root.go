// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/clubdesk/clubdesk/internal/config"
	"github.com/clubdesk/clubdesk/internal/logger"
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./etc/", "Directory holding main.toml")
}

var (
	configPath string // Path to the configuration directory

	cfg config.Config

	rootCmd = &cobra.Command{
		Use:   "clubdesk",
		Short: "clubdesk is the booking backend for clubs, halls and seats",
		Long: `clubdesk serves the booking API of clubs, their halls and seats.
Access is controlled by roles carrying a permission matrix and a scope tier.`,
		Args:          cobra.OnlyValidArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the configuration and initializes the logger.
func loadConfig(_ *cobra.Command, _ []string) error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err //nolint:wrapcheck
	}

	if devMode {
		cfg.DevMode = true
	}

	return logger.Init(cfg.Log) //nolint:wrapcheck
}
