// Package options maps visonai.Settings onto rows of the settings table.
package options

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/visonai/visonai-gateway/internal/db/controller/setting"
	"github.com/visonai/visonai-gateway/internal/visonai"
)

// Setting names.
const (
	KeyToken        = "vison_ai_token"
	KeyDomain       = "vison_ai_domain"
	KeyScriptOption = "vison_ai_script_option"
	KeyAnalysisURL  = "vison_ai_analysis_url"
)

// Keys lists every setting name owned by this package.
var Keys = []string{KeyToken, KeyDomain, KeyScriptOption, KeyAnalysisURL} //nolint:gochecknoglobals

// Load reads the current settings. Missing rows load as empty values.
func Load(db *gorm.DB) (visonai.Settings, error) {
	rows, err := setting.GetMany(db, Keys...)
	if err != nil {
		return visonai.Settings{}, errors.Wrap(err, "load vison-ai settings")
	}

	s := visonai.Settings{
		Token:         string(rows[KeyToken]),
		AllowedDomain: string(rows[KeyDomain]),
		AnalysisURL:   string(rows[KeyAnalysisURL]),
		ScriptOptions: []visonai.ScriptOption{},
	}

	if raw := rows[KeyScriptOption]; len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.ScriptOptions); err != nil {
			log.Warn().Err(err).Str("setting", KeyScriptOption).Msg("stored script options unreadable, using none")

			s.ScriptOptions = []visonai.ScriptOption{}
		}
	}

	return s, nil
}

// Save overwrites all four settings. Values are stored as given.
func Save(db *gorm.DB, s visonai.Settings) error {
	opts := s.ScriptOptions
	if opts == nil {
		opts = []visonai.ScriptOption{}
	}

	encoded, err := json.Marshal(opts)
	if err != nil {
		return errors.Wrap(err, "encode script options")
	}

	err = setting.SetMany(db, map[string][]byte{
		KeyToken:        []byte(s.Token),
		KeyDomain:       []byte(s.AllowedDomain),
		KeyScriptOption: encoded,
		KeyAnalysisURL:  []byte(s.AnalysisURL),
	})

	return errors.Wrap(err, "save vison-ai settings")
}

// SaveToken replaces only the API token.
func SaveToken(db *gorm.DB, token string) error {
	return errors.Wrap(setting.Set(db, KeyToken, []byte(token)), "save vison-ai token")
}

// Reset removes every stored setting so the next Load returns empty values.
func Reset(db *gorm.DB) error {
	if db == nil {
		return setting.ErrDBNil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for _, key := range Keys {
			if err := setting.DeleteByName(tx, key); err != nil && !errors.Is(err, setting.ErrSettingNotFound) {
				return err
			}
		}

		return nil
	})

	return errors.Wrap(err, "reset vison-ai settings")
}
