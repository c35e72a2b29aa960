package login

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visonai/visonai-gateway/internal/config"
	"github.com/visonai/visonai-gateway/internal/db/dbtest"
	"github.com/visonai/visonai-gateway/internal/db/models"
	"github.com/visonai/visonai-gateway/internal/web/handler"
	"github.com/visonai/visonai-gateway/internal/web/session"
)

// noOpViews writes the "error" field of the fiber.Map, or the template name.
type noOpViews struct{}

func (noOpViews) Load() error { return nil }

func (noOpViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	if m, ok := data.(fiber.Map); ok {
		if v, exists := m["error"]; exists && v != nil {
			_, _ = io.WriteString(w, v.(string))

			return nil
		}
	}

	_, _ = io.WriteString(w, name)

	return nil
}

func newTestApp(t *testing.T, secure bool) *fiber.App {
	t.Helper()

	gdb := dbtest.Open(t)

	hash, err := models.HashPassword("pw")
	require.NoError(t, err)
	require.NoError(t, gdb.Create(&models.User{Username: "disabled", Email: "d@example.com", Password: hash}).Error)

	app := fiber.New(fiber.Config{Views: noOpViews{}})

	var s Service
	require.NoError(t, s.Init(app, handler.Deps{
		Cfg:      &config.Config{Title: "Test"},
		DB:       gdb,
		Sessions: session.New(nil, session.Config{Expiration: time.Minute, Secure: secure}),
	}))

	return app
}

func performPost(t *testing.T, app *fiber.App, form url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, handler.LoginPath, strings.NewReader(form.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return string(b)
}

func TestInitRequiresDeps(t *testing.T) {
	var s Service
	assert.ErrorIs(t, s.Init(fiber.New(), handler.Deps{}), handler.ErrMissingDeps)
}

func TestGetRendersForm(t *testing.T) {
	app := newTestApp(t, true)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, handler.LoginPath, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, loginTemplate, body(t, resp))
}

func TestPostSuccessSetsCookieAndRedirects(t *testing.T) {
	testCases := []struct {
		name         string
		secure       bool
		next         string
		wantLocation string
	}{
		{name: "secure cookie", secure: true, wantLocation: handler.SettingsPath},
		{name: "dev mode cookie", secure: false, wantLocation: handler.SettingsPath},
		{name: "local next", secure: true, next: "/admin/settings/vison-ai?tab=1", wantLocation: "/admin/settings/vison-ai?tab=1"},
		{name: "foreign next ignored", secure: true, next: "//evil.example/", wantLocation: handler.SettingsPath},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(t, tc.secure)

			resp := performPost(t, app, url.Values{
				"username": {"admin"},
				"password": {dbtest.AdminPassword},
				"next":     {tc.next},
			})

			assert.Equal(t, http.StatusFound, resp.StatusCode)
			assert.Equal(t, tc.wantLocation, resp.Header.Get(fiber.HeaderLocation))

			setCookie := resp.Header.Get(fiber.HeaderSetCookie)
			assert.Contains(t, setCookie, session.CookieName+"=")
			assert.Equal(t, tc.secure, strings.Contains(strings.ToLower(setCookie), "secure"), setCookie)

			// logged in users are sent past the form
			req := httptest.NewRequest(http.MethodGet, handler.LoginPath, nil)
			for _, c := range resp.Cookies() {
				req.AddCookie(c)
			}

			again, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusFound, again.StatusCode)
		})
	}
}

func TestPostFailures(t *testing.T) {
	testCases := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{name: "wrong password", username: "admin", password: "nope", wantErr: ErrInvalidCredentials},
		{name: "unknown user", username: "ghost", password: "nope", wantErr: ErrInvalidCredentials},
		{name: "disabled account", username: "disabled", password: "pw", wantErr: ErrAccountDisabled},
	}

	app := newTestApp(t, true)

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := performPost(t, app, url.Values{"username": {tc.username}, "password": {tc.password}})

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Empty(t, resp.Header.Get(fiber.HeaderSetCookie))
			assert.Equal(t, tc.wantErr.Error(), body(t, resp))
		})
	}
}

func TestPostInvalidForm(t *testing.T) {
	app := newTestApp(t, true)

	req := httptest.NewRequest(http.MethodPost, handler.LoginPath, strings.NewReader("{"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, ErrInvalidFormData.Error(), body(t, resp))
}
