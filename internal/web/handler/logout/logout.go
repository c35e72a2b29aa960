// Package logout ends admin sessions.
package logout

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/visonai/visonai-gateway/internal/web/handler"
	"github.com/visonai/visonai-gateway/internal/web/session"
)

// Service is the logout handler service.
type Service struct {
	sessions *session.Manager
}

var _ handler.Service = (*Service)(nil)

// Init registers GET and POST on handler.LogoutPath.
func (s *Service) Init(app *fiber.App, deps handler.Deps) error {
	if app == nil || deps.Sessions == nil {
		return handler.ErrMissingDeps
	}

	s.sessions = deps.Sessions

	app.Get(handler.LogoutPath, s.Logout)
	app.Post(handler.LogoutPath, s.Logout)

	return nil
}

// Logout handles user logout by clearing the session.
func (s *Service) Logout(c *fiber.Ctx) error {
	if err := s.sessions.Destroy(c); err != nil {
		log.Error().Err(err).Msg("failed to delete session")
	}

	return c.Redirect(handler.LoginPath)
}
