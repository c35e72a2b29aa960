package config

import (
	"time"

	"github.com/visonai/visonai-gateway/internal/logger"
)

// Supported values of DB.GormEngine.
const (
	EngineMySQL    = "mysql"
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

// Session settings.
type Session struct {
	ExpiryTime time.Duration
}

// Config overall data structure.
type Config struct {
	DevMode   bool // enable dev mode for development
	DB        DB
	Log       logger.Log
	Title     string
	Webserver Webserver
	API       API
	Admin     Admin
}

// DB holds the database configuration settings.
type DB struct {
	GormEngine string // mysql, postgres or sqlite
	Extras     string // driver specific DSN options
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	Path       string // sqlite database file
}

// Webserver implement webserver settings.
type Webserver struct {
	Port         int     // listening port for the webserver
	ShutDownTime int     // wait time for shutdown
	URL          string  // base url for the webserver
	MetricsPath  string  // prometheus endpoint, disabled when empty
	Session      Session // session settings
}

// API configures the REST gateway.
type API struct {
	Prefix          string // path prefix in front of the namespace, e.g. /wp-json
	Namespace       string // route namespace, defaults to vison-ai/v1
	DefaultAuthorID uint64 // author of created posts when the body names none

	// Opt-in hardening of the request gate. Both default to the legacy behavior.
	ConstantTimeToken bool
	StrictDomainMatch bool
}

// Admin holds the account seeded into an empty user table.
type Admin struct {
	Username string
	Email    string
	Password string
}
