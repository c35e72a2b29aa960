package app

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/visonai/visonai-gateway/internal/config"
)

// Output formats of the config command.
const (
	FormatTOML = "toml"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrUnknownFormat is returned for an unsupported --format value.
var ErrUnknownFormat = errors.New("unknown format, use toml, json or yaml")

var dumpFormat string

func init() { //nolint: gochecknoinits
	configCmd.Flags().StringVar(&dumpFormat, "format", FormatTOML, "output format: toml, json or yaml")

	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.ReadConfig(configPath)
		if err != nil {
			return err
		}

		out, err := dumpConfig(&cfg, dumpFormat)
		if err != nil {
			return err
		}

		_, err = fmt.Fprint(cmd.OutOrStdout(), out)

		return err
	},
}

func dumpConfig(cfg *config.Config, format string) (string, error) {
	switch format {
	case FormatTOML:
		return config.DumpConfig(cfg)
	case FormatJSON:
		return config.DumpConfigJSON(cfg)
	case FormatYAML:
		return config.DumpConfigYAML(cfg)
	default:
		return "", errors.Wrap(ErrUnknownFormat, format)
	}
}
