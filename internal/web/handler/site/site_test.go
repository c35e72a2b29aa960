package site

import (
	"html/template"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/visonai/visonai-gateway/internal/config"
	"github.com/visonai/visonai-gateway/internal/db/controller/options"
	"github.com/visonai/visonai-gateway/internal/db/dbtest"
	"github.com/visonai/visonai-gateway/internal/db/models"
	"github.com/visonai/visonai-gateway/internal/visonai"
	"github.com/visonai/visonai-gateway/internal/web/handler"
)

const scriptURL = "https://cdn.example.com/a.js"

type captureViews struct {
	name string
	last fiber.Map
}

func (*captureViews) Load() error { return nil }

func (v *captureViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	v.name = name
	v.last, _ = data.(fiber.Map)
	_, _ = io.WriteString(w, name)

	return nil
}

type fixture struct {
	app      *fiber.App
	db       *gorm.DB
	views    *captureViews
	post     models.Post
	page     models.Post
	category models.Category
}

func newFixture(t *testing.T, opts ...visonai.ScriptOption) *fixture {
	t.Helper()

	gdb := dbtest.Open(t)
	require.NoError(t, options.Save(gdb, visonai.Settings{AnalysisURL: scriptURL, ScriptOptions: opts}))

	f := &fixture{db: gdb, views: &captureViews{}}

	f.category = models.Category{Slug: "news", Name: "News"}
	require.NoError(t, gdb.Create(&f.category).Error)

	f.post = models.Post{
		Title: "Hello", Content: "Some *markdown*", AuthorID: 1,
		Status: models.PostStatusPublish, Type: models.PostTypePost, CategoryID: &f.category.ID,
	}
	require.NoError(t, gdb.Create(&f.post).Error)

	f.page = models.Post{Title: "About", Content: "about", Status: models.PostStatusPublish, Type: models.PostTypePage}
	require.NoError(t, gdb.Create(&f.page).Error)

	f.app = fiber.New(fiber.Config{Views: f.views})

	var s Service
	require.NoError(t, s.Init(f.app, handler.Deps{Cfg: &config.Config{Title: "Site"}, DB: gdb}))
	f.app.Use(s.NotFound)

	return f
}

func (f *fixture) get(t *testing.T, path string) int {
	t.Helper()

	resp, err := f.app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	require.NoError(t, err)

	return resp.StatusCode
}

func (f *fixture) script() template.HTML {
	tag, _ := f.views.last["AnalysisScript"].(template.HTML)

	return tag
}

func path(p models.Post) string {
	return "/post/" + strconv.FormatUint(p.ID, 10)
}

func TestPageKinds(t *testing.T) {
	f := newFixture(t)

	require.Equal(t, http.StatusOK, f.get(t, "/"))
	assert.Equal(t, homeTemplate, f.views.name)
	assert.Equal(t, string(visonai.PageKindOther), f.views.last["Kind"])

	require.Equal(t, http.StatusOK, f.get(t, path(f.post)))
	assert.Equal(t, string(visonai.PageKindPost), f.views.last["Kind"])
	assert.Equal(t, "admin", f.views.last["Author"])
	assert.Contains(t, string(f.views.last["Body"].(template.HTML)), "<em>markdown</em>")

	require.Equal(t, http.StatusOK, f.get(t, path(f.page)))
	assert.Equal(t, string(visonai.PageKindPage), f.views.last["Kind"])

	require.Equal(t, http.StatusOK, f.get(t, "/category/news"))
	assert.Equal(t, string(visonai.PageKindCategory), f.views.last["Kind"])
	assert.Len(t, f.views.last["Posts"], 1)
}

func TestNotFound(t *testing.T) {
	f := newFixture(t)

	for _, p := range []string{"/post/999999", "/post/abc", "/category/missing", "/nowhere"} {
		assert.Equal(t, http.StatusNotFound, f.get(t, p), p)
		assert.Equal(t, notFoundTemplate, f.views.name, p)
	}
}

func TestScriptInjection(t *testing.T) {
	want := template.HTML(`<script async src="` + scriptURL + `"></script>`)

	t.Run("post option only on posts", func(t *testing.T) {
		f := newFixture(t, visonai.ScriptOptionPost)

		f.get(t, path(f.post))
		assert.Equal(t, want, f.script())

		f.get(t, path(f.page))
		assert.Empty(t, f.script())

		f.get(t, "/category/news")
		assert.Empty(t, f.script())

		f.get(t, "/")
		assert.Empty(t, f.script())
	})

	t.Run("all covers the front page", func(t *testing.T) {
		f := newFixture(t, visonai.ScriptOptionAll)

		f.get(t, "/")
		assert.Equal(t, want, f.script())
	})

	t.Run("categories and page", func(t *testing.T) {
		f := newFixture(t, visonai.ScriptOptionCategories, visonai.ScriptOptionPage)

		f.get(t, "/category/news")
		assert.Equal(t, want, f.script())

		f.get(t, path(f.page))
		assert.Equal(t, want, f.script())

		f.get(t, path(f.post))
		assert.Empty(t, f.script())
	})

	t.Run("nothing without options", func(t *testing.T) {
		f := newFixture(t)

		f.get(t, path(f.post))
		assert.Empty(t, f.script())
	})
}
