// Package login serves the admin login form.
package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/visonai/visonai-gateway/internal/auth"
	"github.com/visonai/visonai-gateway/internal/config"
	"github.com/visonai/visonai-gateway/internal/db/controller/user"
	"github.com/visonai/visonai-gateway/internal/web/handler"
	authmw "github.com/visonai/visonai-gateway/internal/web/middleware/auth"
	"github.com/visonai/visonai-gateway/internal/web/session"
)

const loginTemplate = "login"

// Service is the login handler service.
type Service struct {
	cfg      *config.Config
	provider *auth.LocalProvider
	sessions *session.Manager
}

var _ handler.Service = (*Service)(nil)

type form struct {
	Username string `form:"username"`
	Password string `form:"password"`
	Next     string `form:"next"`
}

// Init registers GET and POST on handler.LoginPath.
func (s *Service) Init(app *fiber.App, deps handler.Deps) error {
	if app == nil || deps.Validate() != nil || deps.Sessions == nil {
		return handler.ErrMissingDeps
	}

	s.cfg = deps.Cfg
	s.sessions = deps.Sessions
	s.provider = auth.NewLocalProvider(user.NewStore(deps.DB))

	app.Route(handler.LoginPath, func(router fiber.Router) {
		router.Get(handler.RootPath, s.Get)
		router.Post(handler.RootPath, s.Post)
	})

	return nil
}

// Get renders the form, or redirects when already logged in.
func (s *Service) Get(c *fiber.Ctx) error {
	if _, err := s.sessions.Load(c); err == nil {
		return c.Redirect(handler.SettingsPath)
	}

	return s.render(c, c.Query("next"), "", nil)
}

// Post checks the credentials and starts a session.
func (s *Service) Post(c *fiber.Ctx) error {
	f := new(form)
	if err := c.BodyParser(f); err != nil {
		return s.render(c, "", "", ErrInvalidFormData)
	}

	u, err := s.provider.Authenticate(c.UserContext(), f.Username, f.Password)

	switch {
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrInvalidPassword):
		log.Info().Str("username", f.Username).Msg("failed login")

		return s.render(c, f.Next, f.Username, ErrInvalidCredentials)
	case errors.Is(err, auth.ErrUserAccountDisabled):
		return s.render(c, f.Next, f.Username, ErrAccountDisabled)
	case err != nil:
		log.Error().Err(err).Msg("login failed")

		return s.render(c, f.Next, f.Username, ErrInternalServerError)
	}

	err = s.sessions.Save(c, session.Data{UserID: u.ID, Username: u.Username, Roles: u.RoleNames()})
	if err != nil {
		log.Error().Err(err).Msg("failed to write session")

		return s.render(c, f.Next, f.Username, ErrInternalServerError)
	}

	log.Info().Str("username", u.Username).Msg("login")

	return c.Redirect(authmw.SafeNext(f.Next, handler.SettingsPath))
}

func (s *Service) render(c *fiber.Ctx, next, username string, err error) error {
	data := fiber.Map{
		"Title":    s.cfg.Title,
		"Next":     next,
		"Username": username,
	}

	if err != nil {
		data["error"] = err.Error()
	}

	return c.Render(loginTemplate, data, handler.AdminLayout)
}
