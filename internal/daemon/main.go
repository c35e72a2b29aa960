// Package daemon wires database, sessions and web service together.
package daemon

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/visonai/visonai-gateway/internal/config"
	"github.com/visonai/visonai-gateway/internal/db"
	"github.com/visonai/visonai-gateway/internal/db/dsn"
	"github.com/visonai/visonai-gateway/internal/web"
)

// SessionTable holds admin sessions in the mysql and postgres engines.
const SessionTable = "sessions"

// Daemon represents the main application daemon.
type Daemon struct {
	cfg        *config.Config
	webService *web.Service
}

// Start serves on the configured port until the server stops.
func (d *Daemon) Start() error {
	return d.webService.Start(fmt.Sprintf(":%d", d.cfg.Webserver.Port))
}

// WaitShutdown blocks until a termination signal and drains the web service.
func (d *Daemon) WaitShutdown() {
	d.webService.WaitShutdown()
}

// New opens and prepares the database and builds the web service.
func New(cfg *config.Config) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	gdb, err := db.Open(cfg.DB, cfg.DevMode)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect database")
	}

	if err = db.Migrate(gdb); err != nil {
		return nil, err
	}

	if err = db.Seed(gdb, cfg.Admin); err != nil {
		return nil, errors.Wrap(err, "failed to seed database")
	}

	svc, err := web.New(cfg, gdb, web.Options{Storage: sessionStorage(cfg.DB)})
	if err != nil {
		return nil, errors.Wrap(err, "failed to init web service")
	}

	log.Info().
		Str("engine", cfg.DB.GormEngine).
		Int("port", cfg.Webserver.Port).
		Msg("daemon ready")

	return &Daemon{cfg: cfg, webService: svc}, nil
}

// sessionStorage keeps sessions in the application database. SQLite uses
// the in-memory store.
func sessionStorage(cfg config.DB) fiber.Storage {
	switch cfg.GormEngine {
	case config.EngineMySQL:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.MySQL(cfg),
			Table:         SessionTable,
		})
	case config.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Postgres(cfg),
			Table:         SessionTable,
		})
	default:
		return nil
	}
}
