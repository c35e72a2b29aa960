// Package api serves the token gated REST routes.
package api

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/visonai/visonai-gateway/internal/config"
	"github.com/visonai/visonai-gateway/internal/db/controller/options"
	"github.com/visonai/visonai-gateway/internal/db/controller/post"
	"github.com/visonai/visonai-gateway/internal/db/controller/user"
	"github.com/visonai/visonai-gateway/internal/visonai"
	"github.com/visonai/visonai-gateway/internal/web/handler"
)

const idParam = "id"

// Service holds the API routes.
type Service struct {
	cfg      *config.Config
	posts    visonai.ContentStore
	users    visonai.UserStore
	gate     *GateMiddleware
	validate *validator.Validate
}

var _ handler.Service = (*Service)(nil)

// Init wires the gorm stores and registers the routes.
func (s *Service) Init(app *fiber.App, deps handler.Deps) error {
	if app == nil || deps.Validate() != nil {
		return handler.ErrMissingDeps
	}

	db := deps.DB
	load := func(ctx context.Context) (visonai.Settings, error) {
		return options.Load(db.WithContext(ctx))
	}

	s.Setup(deps.Cfg, post.NewStore(db), user.NewStore(db),
		NewGateMiddleware(GateFromConfig(deps.Cfg.API), load, deps.Registry))
	s.Register(app)

	return nil
}

// Setup sets the collaborators without touching the router.
func (s *Service) Setup(cfg *config.Config, posts visonai.ContentStore, users visonai.UserStore, gate *GateMiddleware) {
	s.cfg = cfg
	s.posts = posts
	s.users = users
	s.gate = gate
	s.validate = validator.New()
}

// Register mounts the routes under BasePath.
// Unknown paths below the base answer with rest_no_route before any gate check.
func (s *Service) Register(app *fiber.App) {
	base := BasePath(s.cfg.API)
	id := "/post/:" + idParam + `<regex(\d+)>`

	r := app.Group(base)
	r.Post("/post", s.gate.Handler, s.CreatePost)
	r.Get(id, s.gate.Handler, s.GetPost)
	r.Put(id, s.gate.Handler, s.UpdatePost)
	r.Delete(id, s.gate.Handler, s.DeletePost)
	r.Get("/users", s.gate.Handler, s.ListUsers)
	r.All("/*", NotFound)
}

// BasePath joins prefix and namespace, e.g. /wp-json/vison-ai/v1.
func BasePath(cfg config.API) string {
	ns := strings.Trim(cfg.Namespace, "/")
	if ns == "" {
		ns = config.DefaultNamespace
	}

	prefix := strings.TrimRight(cfg.Prefix, "/")
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}

	return prefix + "/" + ns
}

// GateFromConfig returns the gate with the configured hardening flags.
func GateFromConfig(cfg config.API) visonai.Gate {
	return visonai.Gate{
		ConstantTimeToken: cfg.ConstantTimeToken,
		StrictDomainMatch: cfg.StrictDomainMatch,
	}
}

func postID(c *fiber.Ctx) (uint64, bool) {
	id, err := strconv.ParseUint(c.Params(idParam), 10, 64)

	return id, err == nil
}
