package app

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/visonai/visonai-gateway/internal/config"
	"github.com/visonai/visonai-gateway/internal/db"
	"github.com/visonai/visonai-gateway/internal/db/controller/options"
	"github.com/visonai/visonai-gateway/internal/db/controller/setting"
	"github.com/visonai/visonai-gateway/internal/uniuri"
	"github.com/visonai/visonai-gateway/internal/visonai"
)

// settingsFlags are the values of "settings set". Only flags given on the
// command line replace stored values.
type settingsFlags struct {
	token         string
	domain        string
	analysisURL   string
	scriptOptions []string
}

var setFlags settingsFlags

func init() { //nolint: gochecknoinits
	f := settingsSetCmd.Flags()
	f.StringVar(&setFlags.token, "token", "", "API token")
	f.StringVar(&setFlags.domain, "domain", "", "allowed referring domain")
	f.StringVar(&setFlags.analysisURL, "analysis-url", "", "analysis script URL")
	f.StringSliceVar(&setFlags.scriptOptions, "script-option", nil, "pages to inject on: all, categories, post, page")

	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd, settingsRawCmd, settingsResetCmd, settingsRotateTokenCmd)
	rootCmd.AddCommand(settingsCmd)
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the gateway settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored settings as YAML",
	RunE: func(cmd *cobra.Command, _ []string) error {
		gdb, err := openSettingsDB()
		if err != nil {
			return err
		}

		return showSettings(cmd.OutOrStdout(), gdb)
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Sanitize and store settings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		gdb, err := openSettingsDB()
		if err != nil {
			return err
		}

		changed := func(name string) bool { return cmd.Flags().Changed(name) }
		if err = setSettings(gdb, setFlags, changed); err != nil {
			return err
		}

		return showSettings(cmd.OutOrStdout(), gdb)
	},
}

var settingsRawCmd = &cobra.Command{
	Use:   "raw [NAME]",
	Short: "Print stored setting rows as name=value, or the value of one row",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gdb, err := openSettingsDB()
		if err != nil {
			return err
		}

		return showRaw(cmd.OutOrStdout(), gdb, args)
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the stored gateway settings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		gdb, err := openSettingsDB()
		if err != nil {
			return err
		}

		if err = options.Reset(gdb); err != nil {
			return err
		}

		return showSettings(cmd.OutOrStdout(), gdb)
	},
}

var settingsRotateTokenCmd = &cobra.Command{
	Use:   "rotate-token",
	Short: "Replace the API token with a new random one and print it",
	RunE: func(cmd *cobra.Command, _ []string) error {
		gdb, err := openSettingsDB()
		if err != nil {
			return err
		}

		token, err := rotateToken(gdb)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), token)

		return err
	},
}

func openSettingsDB() (*gorm.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	return openDB(cfg.DB)
}

func openDB(cfg config.DB) (*gorm.DB, error) {
	gdb, err := db.Open(cfg, false)
	if err != nil {
		return nil, err
	}

	return gdb, db.Migrate(gdb)
}

func showSettings(w io.Writer, gdb *gorm.DB) error {
	current, err := options.Load(gdb)
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(current)
	if err != nil {
		return err //nolint: wrapcheck
	}

	_, err = fmt.Fprint(w, string(out))

	return err
}

// setSettings merges the changed flags over the stored settings and saves
// the result through the same sanitizer as the admin form.
func setSettings(gdb *gorm.DB, f settingsFlags, changed func(string) bool) error {
	current, err := options.Load(gdb)
	if err != nil {
		return err
	}

	if changed("token") {
		current.Token = f.token
	}

	if changed("domain") {
		current.AllowedDomain = f.domain
	}

	if changed("analysis-url") {
		current.AnalysisURL = f.analysisURL
	}

	if changed("script-option") {
		current.ScriptOptions = nil

		for _, o := range f.scriptOptions {
			current.ScriptOptions = append(current.ScriptOptions, visonai.ScriptOption(o))
		}
	}

	return options.Save(gdb, visonai.SanitizeSettings(current))
}

// showRaw prints every row of the settings table, or the value of the named row.
func showRaw(w io.Writer, gdb *gorm.DB, names []string) error {
	if len(names) == 1 {
		row, err := setting.Get(gdb, names[0])
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(w, string(row.Value))

		return err
	}

	rows, err := setting.GetAll(gdb)
	if err != nil {
		return err
	}

	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%s=%s\n", row.Name, row.Value); err != nil {
			return err
		}
	}

	return nil
}

func rotateToken(gdb *gorm.DB) (string, error) {
	token, err := uniuri.Token()
	if err != nil {
		return "", err
	}

	return token, options.SaveToken(gdb, token)
}
