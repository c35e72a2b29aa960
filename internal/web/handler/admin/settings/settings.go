// Package settings serves the gateway settings form.
package settings

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/visonai/visonai-gateway/internal/auth"
	"github.com/visonai/visonai-gateway/internal/config"
	"github.com/visonai/visonai-gateway/internal/db/controller/options"
	"github.com/visonai/visonai-gateway/internal/uniuri"
	"github.com/visonai/visonai-gateway/internal/visonai"
	"github.com/visonai/visonai-gateway/internal/web/handler"
	authmw "github.com/visonai/visonai-gateway/internal/web/middleware/auth"
	"github.com/visonai/visonai-gateway/internal/web/navigation"
)

const (
	settingsTemplate = "admin/settings"
	pageTitle        = "Vison AI"
	pageName         = "vison-ai"

	fieldToken        = "token"
	fieldDomain       = "domain"
	fieldAnalysisURL  = "analysis_url"
	fieldScriptOption = "script_option"
	fieldGenerate     = "generate_token"
)

// Service is the settings form handler.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
}

var _ handler.Service = (*Service)(nil)

// option is one checkbox of the script option group.
type option struct {
	Value   string
	Label   string
	Checked bool
}

// Init registers GET and POST on handler.SettingsPath behind login and manage_options.
func (s *Service) Init(app *fiber.App, deps handler.Deps) error {
	if app == nil || deps.Validate() != nil || deps.Sessions == nil {
		return handler.ErrMissingDeps
	}

	s.cfg = deps.Cfg
	s.db = deps.DB

	app.Route(handler.SettingsPath, func(router fiber.Router) {
		router.Use(authmw.Middleware(deps.Sessions), auth.RequireCapability(auth.CapManageOptions))
		router.Get(handler.RootPath, s.Get)
		router.Post(handler.RootPath, s.Post)
	})

	return nil
}

// Get renders the form with the stored settings.
func (s *Service) Get(c *fiber.Ctx) error {
	current, err := options.Load(s.db.WithContext(c.UserContext()))
	if err != nil {
		log.Error().Err(err).Msg("failed to load settings")

		return s.render(c, visonai.Settings{}, "", "Settings could not be loaded.")
	}

	notice := ""
	if c.Query("updated") != "" {
		notice = "Settings saved."
	}

	return s.render(c, current, notice, "")
}

// Post sanitizes and stores the submitted settings.
func (s *Service) Post(c *fiber.Ctx) error {
	submitted := visonai.Settings{
		Token:         c.FormValue(fieldToken),
		AllowedDomain: c.FormValue(fieldDomain),
		AnalysisURL:   c.FormValue(fieldAnalysisURL),
	}

	clean := visonai.SanitizeSettings(submitted)
	clean.ScriptOptions = visonai.SanitizeScriptOptions(scriptOptionInput(c))

	if c.FormValue(fieldGenerate) != "" {
		token, err := uniuri.Token()
		if err != nil {
			log.Error().Err(err).Msg("failed to generate token")

			return s.render(c, clean, "", "A token could not be generated.")
		}

		clean.Token = token
	}

	if err := options.Save(s.db.WithContext(c.UserContext()), clean); err != nil {
		log.Error().Err(err).Msg("failed to save settings")

		return s.render(c, clean, "", "Settings could not be saved.")
	}

	log.Info().
		Str("domain", clean.AllowedDomain).
		Str("analysis_url", clean.AnalysisURL).
		Int("script_options", len(clean.ScriptOptions)).
		Msg("vison-ai settings saved")

	return c.Redirect(handler.SettingsPath + "?updated=true")
}

// scriptOptionInput returns the submitted checkbox values, or nil when the
// group was not submitted at all.
func scriptOptionInput(c *fiber.Ctx) any {
	args := c.Request().PostArgs()

	var values []string

	for _, key := range []string{fieldScriptOption, fieldScriptOption + "[]"} {
		for _, v := range args.PeekMulti(key) {
			values = append(values, string(v))
		}
	}

	if values == nil {
		return nil
	}

	return values
}

func (s *Service) render(c *fiber.Ctx, current visonai.Settings, notice, errMsg string) error {
	checkboxes := make([]option, 0, len(visonai.ScriptOptions))
	for _, o := range visonai.ScriptOptions {
		checkboxes = append(checkboxes, option{Value: string(o), Label: o.Label(), Checked: current.HasOption(o)})
	}

	data := fiber.Map{
		"Title":         s.cfg.Title,
		"Navigation":    navigation.Settings(pageTitle, pageName, handler.SettingsPath),
		"CurrentUser":   c.Locals(auth.LocalCurrentUser),
		"Settings":      current,
		"ScriptOptions": checkboxes,
		"Notice":        notice,
	}

	if errMsg != "" {
		data["error"] = errMsg
	}

	return c.Render(settingsTemplate, data, handler.AdminLayout)
}
