package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/visonai/visonai-gateway/internal/daemon"
)

var devMode bool

func init() { //nolint: gochecknoinits
	startCmd.Flags().BoolVar(&devMode, "dev", false, "Enable dev mode")

	rootCmd.AddCommand(startCmd)
}

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the visonai-gateway web service",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if devMode {
			cfg.DevMode = true
		}

		d, err := daemon.New(&cfg)
		if err != nil {
			return err
		}

		go func() {
			if err := d.Start(); err != nil {
				log.Error().Err(err).Msg("web service stopped")
			}
		}()

		d.WaitShutdown()

		return nil
	},
}
