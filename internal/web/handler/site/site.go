// Package site renders the public pages and injects the analysis script.
package site

import (
	"bytes"
	"errors"
	"html/template"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/yuin/goldmark"
	"gorm.io/gorm"

	"github.com/visonai/visonai-gateway/internal/config"
	"github.com/visonai/visonai-gateway/internal/db/controller/options"
	"github.com/visonai/visonai-gateway/internal/db/controller/post"
	"github.com/visonai/visonai-gateway/internal/db/controller/user"
	"github.com/visonai/visonai-gateway/internal/db/models"
	"github.com/visonai/visonai-gateway/internal/visonai"
	"github.com/visonai/visonai-gateway/internal/web/handler"
)

const (
	homeTemplate     = "site/home"
	postTemplate     = "site/post"
	categoryTemplate = "site/category"
	notFoundTemplate = "site/notfound"

	// RecentLimit caps the post lists of the home and category pages.
	RecentLimit = 20
)

// Service renders the public site.
type Service struct {
	cfg      *config.Config
	db       *gorm.DB
	posts    *post.Store
	users    *user.Store
	markdown goldmark.Markdown
}

var _ handler.Service = (*Service)(nil)

// Init registers the public routes.
func (s *Service) Init(app *fiber.App, deps handler.Deps) error {
	if app == nil || deps.Validate() != nil {
		return handler.ErrMissingDeps
	}

	s.cfg = deps.Cfg
	s.db = deps.DB
	s.posts = post.NewStore(deps.DB)
	s.users = user.NewStore(deps.DB)
	s.markdown = goldmark.New()

	app.Get(handler.RootPath, s.Home)
	app.Get(`/post/:id<regex(\d+)>`, s.Post)
	app.Get("/category/:slug", s.Category)

	return nil
}

// Home lists the newest posts.
func (s *Service) Home(c *fiber.Ctx) error {
	recent, err := s.posts.Recent(c.UserContext(), nil, RecentLimit)
	if err != nil {
		return err
	}

	return s.render(c, homeTemplate, visonai.PageKindOther, fiber.Map{"Posts": recent})
}

// Post renders a single post or page.
func (s *Service) Post(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return s.NotFound(c)
	}

	p, err := s.posts.Published(c.UserContext(), id)
	if errors.Is(err, visonai.ErrNotFound) {
		return s.NotFound(c)
	}

	if err != nil {
		return err
	}

	kind := visonai.PageKindPost
	if p.Type == models.PostTypePage {
		kind = visonai.PageKindPage
	}

	author, err := s.users.Author(c.UserContext(), p.AuthorID)
	if err != nil && !errors.Is(err, visonai.ErrNotFound) {
		log.Warn().Err(err).Uint64("author_id", p.AuthorID).Msg("author lookup failed")
	}

	return s.render(c, postTemplate, kind, fiber.Map{
		"Post":   p,
		"Author": author,
		"Body":   s.renderBody(p.Content),
	})
}

// Category lists the newest posts of a category.
func (s *Service) Category(c *fiber.Ctx) error {
	cat, err := s.posts.CategoryBySlug(c.UserContext(), c.Params("slug"))
	if errors.Is(err, visonai.ErrNotFound) {
		return s.NotFound(c)
	}

	if err != nil {
		return err
	}

	recent, err := s.posts.Recent(c.UserContext(), &cat.ID, RecentLimit)
	if err != nil {
		return err
	}

	return s.render(c, categoryTemplate, visonai.PageKindCategory, fiber.Map{
		"Category": cat,
		"Posts":    recent,
	})
}

// NotFound renders the 404 page.
func (s *Service) NotFound(c *fiber.Ctx) error {
	c.Status(fiber.StatusNotFound)

	return s.render(c, notFoundTemplate, visonai.PageKindOther, fiber.Map{})
}

// render loads one settings snapshot for the page and adds the script tag
// and the page list shown in the site navigation.
func (s *Service) render(c *fiber.Ctx, name string, kind visonai.PageKind, data fiber.Map) error {
	settings, err := options.Load(s.db.WithContext(c.UserContext()))
	if err != nil {
		log.Error().Err(err).Msg("failed to load settings, rendering without analysis script")
	}

	pages, err := s.posts.Pages(c.UserContext())
	if err != nil {
		log.Warn().Err(err).Msg("failed to load pages")
	}

	data["Title"] = s.cfg.Title
	data["Pages"] = pages
	data["Kind"] = string(kind)
	data["AnalysisScript"] = visonai.ScriptTag(settings, kind)

	return c.Render(name, data, handler.SiteLayout)
}

// renderBody turns stored Markdown into HTML. Raw HTML in the source is not
// passed through.
func (s *Service) renderBody(content string) template.HTML {
	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(content), &buf); err != nil {
		log.Warn().Err(err).Msg("markdown conversion failed, showing plain text")

		return template.HTML(template.HTMLEscapeString(content)) //nolint:gosec // escaped
	}

	return template.HTML(buf.String()) //nolint:gosec // goldmark omits raw HTML by default
}
