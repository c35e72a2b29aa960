package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang/mock/gomock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visonai/visonai-gateway/internal/config"
	"github.com/visonai/visonai-gateway/internal/db/controller/options"
	"github.com/visonai/visonai-gateway/internal/db/dbtest"
	"github.com/visonai/visonai-gateway/internal/db/models"
	"github.com/visonai/visonai-gateway/internal/visonai"
	"github.com/visonai/visonai-gateway/internal/visonai/mocks"
	"github.com/visonai/visonai-gateway/internal/web/handler"
)

const (
	testToken   = "abc123"
	testReferer = "https://app.example.com/page"
	base        = "/wp-json/vison-ai/v1"
)

var testSettings = visonai.Settings{Token: testToken, AllowedDomain: "example.com"} //nolint:gochecknoglobals

func testConfig() *config.Config {
	return &config.Config{API: config.API{Prefix: "/wp-json", Namespace: config.DefaultNamespace, DefaultAuthorID: 1}}
}

func fixedSettings(s visonai.Settings) SettingsLoader {
	return func(_ context.Context) (visonai.Settings, error) { return s, nil }
}

func newMockApp(t *testing.T, s visonai.Settings) (*fiber.App, *mocks.MockContentStore, *mocks.MockUserStore) {
	t.Helper()

	ctrl := gomock.NewController(t)
	posts := mocks.NewMockContentStore(ctrl)
	users := mocks.NewMockUserStore(ctrl)

	app := fiber.New()

	var svc Service
	svc.Setup(testConfig(), posts, users, NewGateMiddleware(visonai.Gate{}, fixedSettings(s), prometheus.NewRegistry()))
	svc.Register(app)

	return app, posts, users
}

func newDBApp(t *testing.T) *fiber.App {
	t.Helper()

	gdb := dbtest.Open(t)
	require.NoError(t, options.Save(gdb, testSettings))

	app := fiber.New()

	var svc Service
	require.NoError(t, svc.Init(app, handler.Deps{Cfg: testConfig(), DB: gdb, Registry: prometheus.NewRegistry()}))

	return app
}

func call(t *testing.T, app *fiber.App, method, path, body string, authorized bool) (int, map[string]any) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	if authorized {
		req.Header.Set(visonai.HeaderAuthorization, testToken)
		req.Header.Set(visonai.HeaderReferer, testReferer)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	defer resp.Body.Close()

	out := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	return resp.StatusCode, out
}

func TestGateDenials(t *testing.T) {
	tests := []struct {
		name     string
		settings visonai.Settings
		auth     string
		referer  string
		status   int
		code     string
	}{
		{"token not configured", visonai.Settings{AllowedDomain: "example.com"}, "x", testReferer, 400, "missing_token"},
		{"wrong token", testSettings, "nope", testReferer, 401, "unauthorized"},
		{"no authorization header", testSettings, "", testReferer, 401, "unauthorized"},
		{"domain not configured", visonai.Settings{Token: testToken}, testToken, testReferer, 400, "missing_domain"},
		{"foreign referer", testSettings, testToken, "https://evil.test/", 403, "forbidden"},
		{"no referer", testSettings, testToken, "", 403, "forbidden"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _, _ := newMockApp(t, tt.settings)

			req := httptest.NewRequest(http.MethodGet, base+"/users", nil)
			if tt.auth != "" {
				req.Header.Set(visonai.HeaderAuthorization, tt.auth)
			}

			if tt.referer != "" {
				req.Header.Set(visonai.HeaderReferer, tt.referer)
			}

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			var out errorBody
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
			assert.Equal(t, tt.code, out.Code)
			assert.Equal(t, tt.status, out.Data.Status)
		})
	}
}

func TestGateCountsDecisions(t *testing.T) {
	reg := prometheus.NewRegistry()
	gate := NewGateMiddleware(visonai.Gate{}, fixedSettings(testSettings), reg)

	app := fiber.New()
	app.Get("/", gate.Handler, func(c *fiber.Ctx) error { return c.SendString("ok") })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := app.Test(req, -1)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(visonai.HeaderAuthorization, testToken)
	req.Header.Set(visonai.HeaderReferer, testReferer)
	_, err = app.Test(req, -1)
	require.NoError(t, err)

	assert.InDelta(t, 1, testutil.ToFloat64(gate.decisions.WithLabelValues("unauthorized")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(gate.decisions.WithLabelValues(decisionAllowed)), 0)

	// a second middleware on the same registry shares the counter
	again := NewGateMiddleware(visonai.Gate{}, fixedSettings(testSettings), reg)
	assert.Same(t, gate.decisions, again.decisions)
}

func TestCreateMissingFieldsSkipsStores(t *testing.T) {
	for _, body := range []string{
		`{"title":"Hello"}`,
		`{"content":"Body"}`,
		`{"title":"","content":"Body"}`,
		`{"title":"0","content":"Body"}`,
		`{"title":"Hello","content":"0"}`,
		`{"title":0,"content":"Body"}`,
		`{"title":"Hello","content":0.0}`,
		`{"title":false,"content":"Body"}`,
		`{"title":null,"content":"Body"}`,
		`{"title":[],"content":"Body"}`,
		`not json`,
		`[1,2]`,
		``,
	} {
		t.Run(body, func(t *testing.T) {
			app, _, _ := newMockApp(t, testSettings)

			status, out := call(t, app, http.MethodPost, base+"/post", body, true)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, "missing_fields", out["code"])
		})
	}
}

func TestCreateWithMocks(t *testing.T) {
	t.Run("sanitized with default author", func(t *testing.T) {
		app, posts, _ := newMockApp(t, testSettings)

		posts.EXPECT().Create(gomock.Any(), visonai.ContentItem{
			Title:    "Hello",
			Content:  "line one\nline two",
			AuthorID: 1,
		}).Return(uint64(7), nil)

		status, out := call(t, app, http.MethodPost, base+"/post",
			`{"title":"<b>Hello</b>","content":"line one\nline two<script>x()</script>"}`, true)
		assert.Equal(t, http.StatusOK, status)
		assert.InDelta(t, 7, out["id"], 0)
		assert.InDelta(t, 1, out["author"], 0)
		assert.Equal(t, "Post created successfully", out["message"])
	})

	t.Run("user id as string", func(t *testing.T) {
		app, posts, users := newMockApp(t, testSettings)

		users.EXPECT().Exists(gomock.Any(), uint64(5)).Return(true, nil)
		posts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(uint64(8), nil)

		status, out := call(t, app, http.MethodPost, base+"/post", `{"title":"a","content":"b","user_id":"5"}`, true)
		assert.Equal(t, http.StatusOK, status)
		assert.InDelta(t, 5, out["author"], 0)
	})

	t.Run("unknown user", func(t *testing.T) {
		app, _, users := newMockApp(t, testSettings)

		users.EXPECT().Exists(gomock.Any(), uint64(42)).Return(false, nil)

		status, out := call(t, app, http.MethodPost, base+"/post", `{"title":"a","content":"b","user_id":42}`, true)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "invalid_user", out["code"])
	})

	t.Run("negative user", func(t *testing.T) {
		app, _, _ := newMockApp(t, testSettings)

		status, out := call(t, app, http.MethodPost, base+"/post", `{"title":"a","content":"b","user_id":-3}`, true)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "invalid_user", out["code"])
	})

	t.Run("store failure", func(t *testing.T) {
		app, posts, _ := newMockApp(t, testSettings)

		posts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(uint64(0), assert.AnError)

		status, out := call(t, app, http.MethodPost, base+"/post", `{"title":"a","content":"b"}`, true)
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, "post_creation_failed", out["code"])
	})
}

func TestCreateAcceptsNonZeroScalars(t *testing.T) {
	app, posts, _ := newMockApp(t, testSettings)

	posts.EXPECT().Create(gomock.Any(), visonai.ContentItem{Title: "00", Content: "1", AuthorID: 1}).Return(uint64(9), nil)

	status, out := call(t, app, http.MethodPost, base+"/post", `{"title":"00","content":true}`, true)
	assert.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 9, out["id"], 0)
}

func TestGateReadsHeadersCaseInsensitively(t *testing.T) {
	app, _, users := newMockApp(t, testSettings)

	users.EXPECT().List(gomock.Any(), defaultPerPage, defaultPage).
		Return([]visonai.UserRecord{{ID: 1, Username: "admin"}}, int64(1), nil)

	req := httptest.NewRequest(http.MethodGet, base+"/users", nil)
	req.Header["authorization"] = []string{testToken}
	req.Header["referer"] = []string{testReferer}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUpdateLeavesAbsentFields(t *testing.T) {
	app, posts, _ := newMockApp(t, testSettings)

	posts.EXPECT().Update(gomock.Any(), uint64(3), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ uint64, u visonai.ContentUpdate) error {
			require.NotNil(t, u.Title)
			assert.Equal(t, "New", *u.Title)
			assert.Nil(t, u.Content)

			return nil
		})

	status, out := call(t, app, http.MethodPut, base+"/post/3", `{"title":"New"}`, true)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Post updated successfully", out["message"])
}

func TestNoRoute(t *testing.T) {
	app, _, _ := newMockApp(t, visonai.Settings{})

	for _, path := range []string{base + "/post/abc", base + "/nothing", base + "/post/1/extra"} {
		status, out := call(t, app, http.MethodGet, path, "", false)
		assert.Equal(t, http.StatusNotFound, status, path)
		assert.Equal(t, "rest_no_route", out["code"], path)
	}
}

func TestPostLifecycle(t *testing.T) {
	app := newDBApp(t)

	status, out := call(t, app, http.MethodPost, base+"/post", `{"title":"Hello","content":"World"}`, true)
	require.Equal(t, http.StatusOK, status)

	id := int(out["id"].(float64))
	path := base + "/post/" + strconv.Itoa(id)

	status, out = call(t, app, http.MethodGet, path, "", true)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Hello", out["title"])
	assert.Equal(t, "World", out["content"])

	status, _ = call(t, app, http.MethodPut, path, `{"content":"Changed"}`, true)
	require.Equal(t, http.StatusOK, status)

	_, out = call(t, app, http.MethodGet, path, "", true)
	assert.Equal(t, "Hello", out["title"])
	assert.Equal(t, "Changed", out["content"])

	status, out = call(t, app, http.MethodDelete, path, "", true)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Post deleted successfully", out["message"])

	status, out = call(t, app, http.MethodGet, path, "", true)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "post_not_found", out["code"])

	status, out = call(t, app, http.MethodPut, path, `{"title":"x"}`, true)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "post_update_failed", out["code"])

	status, out = call(t, app, http.MethodDelete, path, "", true)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "post_deletion_failed", out["code"])
}

func TestGetMissingPost(t *testing.T) {
	app := newDBApp(t)

	status, out := call(t, app, http.MethodGet, base+"/post/999999", "", true)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "post_not_found", out["code"])
	assert.Equal(t, "Post not found", out["message"])
}

func TestListUsers(t *testing.T) {
	app := newDBApp(t)

	status, out := call(t, app, http.MethodGet, base+"/users", "", true)
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 1, out["total"], 0)
	assert.InDelta(t, 1, out["pages"], 0)

	list := out["users"].([]any)
	require.Len(t, list, 1)

	admin := list[0].(map[string]any)
	assert.Equal(t, "admin", admin["username"])
	assert.Equal(t, models.RoleAdministrator, admin["role"])

	status, out = call(t, app, http.MethodGet, base+"/users?per_page=10&page=2", "", true)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "no_users", out["code"])
}

func TestListUsersPaging(t *testing.T) {
	app, _, users := newMockApp(t, testSettings)

	users.EXPECT().List(gomock.Any(), 2, 1).Return([]visonai.UserRecord{
		{ID: 1, Username: "a", Roles: []string{"editor", "author"}},
		{ID: 2, Username: "b"},
	}, int64(5), nil)

	status, out := call(t, app, http.MethodGet, base+"/users?per_page=2", "", true)
	require.Equal(t, http.StatusOK, status)
	assert.InDelta(t, 5, out["total"], 0)
	assert.InDelta(t, 3, out["pages"], 0)
	assert.Equal(t, "editor, author", out["users"].([]any)[0].(map[string]any)["role"])
}

func TestPageCount(t *testing.T) {
	assert.Equal(t, int64(0), pageCount(0, 10))
	assert.Equal(t, int64(1), pageCount(4, -1))
	assert.Equal(t, int64(1), pageCount(4, 0))
	assert.Equal(t, int64(2), pageCount(11, 10))
	assert.Equal(t, int64(1), pageCount(10, 10))
}

func TestBasePath(t *testing.T) {
	assert.Equal(t, "/wp-json/vison-ai/v1", BasePath(config.API{Prefix: "/wp-json/", Namespace: "/vison-ai/v1/"}))
	assert.Equal(t, "/vison-ai/v1", BasePath(config.API{}))
	assert.Equal(t, "/api/x", BasePath(config.API{Prefix: "api", Namespace: "x"}))
}

func TestIntParam(t *testing.T) {
	assert.Equal(t, int64(5), intParam(json.Number("5")))
	assert.Equal(t, int64(5), intParam(" 5 "))
	assert.Equal(t, int64(2), intParam(json.Number("2.9")))
	assert.Equal(t, int64(0), intParam("abc"))
	assert.Equal(t, int64(0), intParam(true))
	assert.Equal(t, int64(0), intParam(nil))
}
