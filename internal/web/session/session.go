// Package session keeps admin logins in a fiber session store.
package session

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/pkg/errors"
)

// CookieName is the session cookie.
const CookieName = "session"

const dataKey = "data"

// ErrNoSession is returned by Load when the request carries no logged in session.
var ErrNoSession = errors.New("no session")

// Data is what a logged in session remembers about its user.
type Data struct {
	UserID   uint64   `json:"user_id"`
	Username string   `json:"username"`
	Roles    []string `json:"roles"`
}

// Config for New.
type Config struct {
	Expiration time.Duration
	Secure     bool
}

// Manager reads and writes Data through a fiber session store.
type Manager struct {
	store *session.Store
}

// New creates a Manager on storage. A nil storage keeps sessions in memory.
func New(storage fiber.Storage, cfg Config) *Manager {
	return &Manager{
		store: session.New(session.Config{
			Storage:        storage,
			Expiration:     cfg.Expiration,
			KeyLookup:      "cookie:" + CookieName,
			CookieSecure:   cfg.Secure,
			CookieHTTPOnly: true,
			CookieSameSite: fiber.CookieSameSiteLaxMode,
		}),
	}
}

// Load returns the session data of the request or ErrNoSession.
func (m *Manager) Load(c *fiber.Ctx) (*Data, error) {
	if c.Cookies(CookieName) == "" {
		return nil, ErrNoSession
	}

	sess, err := m.store.Get(c)
	if err != nil {
		return nil, errors.Wrap(err, "read session")
	}

	raw, ok := sess.Get(dataKey).([]byte)
	if !ok || len(raw) == 0 {
		return nil, ErrNoSession
	}

	var d Data
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, errors.Wrap(err, "decode session")
	}

	if d.UserID == 0 {
		return nil, ErrNoSession
	}

	return &d, nil
}

// Save starts a fresh session holding d.
func (m *Manager) Save(c *fiber.Ctx, d Data) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return errors.Wrap(err, "read session")
	}

	if err := sess.Regenerate(); err != nil {
		return errors.Wrap(err, "regenerate session")
	}

	raw, err := json.Marshal(d)
	if err != nil {
		return errors.Wrap(err, "encode session")
	}

	sess.Set(dataKey, raw)

	return errors.Wrap(sess.Save(), "save session")
}

// Destroy ends the session of the request.
func (m *Manager) Destroy(c *fiber.Ctx) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return errors.Wrap(err, "read session")
	}

	return errors.Wrap(sess.Destroy(), "destroy session")
}
