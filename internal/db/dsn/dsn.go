// Package dsn builds data source names for the supported database engines.
package dsn

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/visonai/visonai-gateway/internal/config"
)

// MySQL returns a go-sql-driver DSN: user:pass@tcp(host:port)/name?extras.
func MySQL(db config.DB) string {
	out := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s",
		db.User,
		db.Password,
		db.Host,
		db.Port,
		db.Name,
	)

	if db.Extras != "" {
		out += "?" + db.Extras
	}

	return out
}

// Postgres returns a postgres:// URL. Extras are appended as the query string.
func Postgres(db config.DB) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(db.User, db.Password),
		Host:     fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:     "/" + db.Name,
		RawQuery: strings.TrimPrefix(db.Extras, "?"),
	}

	return u.String()
}

// SQLite returns the database file path, defaulting to an in-memory database.
func SQLite(db config.DB) string {
	if db.Path == "" {
		return ":memory:"
	}

	return db.Path
}
