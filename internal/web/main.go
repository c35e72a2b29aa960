package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/visonai/visonai-gateway/internal/config"
	fiberlog "github.com/visonai/visonai-gateway/internal/logger/adapter/fiber"
	"github.com/visonai/visonai-gateway/internal/web/handler"
	"github.com/visonai/visonai-gateway/internal/web/handler/admin/settings"
	"github.com/visonai/visonai-gateway/internal/web/handler/api"
	"github.com/visonai/visonai-gateway/internal/web/handler/login"
	"github.com/visonai/visonai-gateway/internal/web/handler/logout"
	"github.com/visonai/visonai-gateway/internal/web/handler/site"
	"github.com/visonai/visonai-gateway/internal/web/session"
)

// HealthPath answers 200 while serving and 503 while draining.
const HealthPath = "/healthz"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
}

// Options carries the optional collaborators of New.
type Options struct {
	// Storage backs admin sessions. Nil keeps them in memory.
	Storage fiber.Storage
	// Registry receives the gateway metrics and is served on MetricsPath.
	// Nil uses the prometheus default registry.
	Registry *prometheus.Registry
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown blocks until SIGINT or SIGTERM and shuts the server down.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so checkalive returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// Alive reports whether the service accepts traffic.
func (s *Service) Alive() bool {
	return s.alive.Load()
}

// New creates the web service with every handler registered.
func New(cfg *config.Config, db *gorm.DB, opts Options) (*Service, error) {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)

	if opts.Registry != nil {
		registerer, gatherer = opts.Registry, opts.Registry
	}

	templateEngine := html.NewFileSystem(subFS(embeddedTemplates, "templates"), ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	templateEngine.AddFunc("date", func(t time.Time) string {
		return t.Format("2006-01-02")
	})

	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        "visonai-gateway",
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          templateEngine,
		},
	)

	service := &Service{
		cfg: cfg,
		App: app,
	}
	service.alive.Store(true)

	app.Use(fiberlog.New(fiberlog.Config{
		Config:        cfg.Log,
		CheckAliveURI: HealthPath,
		LocalFields:   []string{api.LocalGate},
	}))
	app.Use(recover.New())

	app.Get(HealthPath, service.health)

	if cfg.Webserver.MetricsPath != "" {
		app.Get(cfg.Webserver.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root: subFS(embeddedStaticFiles, "static"),
			},
		),
	)

	deps := handler.Deps{
		Cfg: cfg,
		DB:  db,
		Sessions: session.New(opts.Storage, session.Config{
			Expiration: cfg.Webserver.Session.ExpiryTime,
			Secure:     !cfg.DevMode,
		}),
		Registry: registerer,
	}

	pages := &site.Service{}

	// the API group carries its own catch-all, so it goes before the site
	services := []handler.Service{
		&api.Service{},
		&login.Service{},
		&logout.Service{},
		&settings.Service{},
		pages,
	}

	for _, svc := range services {
		if err := svc.Init(app, deps); err != nil {
			return nil, err
		}
	}

	app.Use(pages.NotFound)

	return service, nil
}

func (s *Service) health(c *fiber.Ctx) error {
	if !s.alive.Load() {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	}

	return c.SendString("OK")
}
