// Package auth provides the login check of the admin pages.
//
// Requests without a valid session are redirected to the login page with
// the requested path in the "next" query parameter. Logged in requests get
// their session data in fiber locals under auth.LocalCurrentUser.
package auth

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	coreauth "github.com/visonai/visonai-gateway/internal/auth"
	"github.com/visonai/visonai-gateway/internal/web/handler"
	"github.com/visonai/visonai-gateway/internal/web/session"
)

// Middleware returns the login check backed by sessions.
func Middleware(sessions *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, err := sessions.Load(c)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				log.Warn().Err(err).Msg("discarding unreadable session")
			}

			return c.Redirect(handler.LoginPath + "?next=" + url.QueryEscape(c.OriginalURL()))
		}

		c.Locals(coreauth.LocalCurrentUser, data)

		return c.Next()
	}
}

// SafeNext returns next when it is a local path, fallback otherwise.
func SafeNext(next, fallback string) string {
	if next == "" || next[0] != '/' {
		return fallback
	}

	if len(next) > 1 && (next[1] == '/' || next[1] == '\\') {
		return fallback
	}

	return next
}
