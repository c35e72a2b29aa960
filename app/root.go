// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/visonai/visonai-gateway/internal/config"
	"github.com/visonai/visonai-gateway/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "visonai-gateway",
	Short: "visonai-gateway serves the token gated vison-ai content API",
	Long: `visonai-gateway serves a small REST API for creating, reading, updating
and deleting posts and for listing users. Every call is checked against a
shared token and an allowed referring domain. It also renders the public
pages that carry the vison-ai analysis script and an admin settings form.`,
	Args:          cobra.OnlyValidArgs,
	SilenceUsage:  true,
	SilenceErrors: false,
}

var configPath string // directory holding main.toml

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./etc/", "configuration directory")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the configuration and initializes the global logger.
func loadConfig() (config.Config, error) {
	cfg, err := config.ReadConfig(configPath)
	if err != nil {
		return cfg, err
	}

	if err = logger.Init(cfg.Log); err != nil {
		return cfg, err
	}

	return cfg, nil
}
