// Package dbtest opens migrated in-memory databases for tests.
package dbtest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/visonai/visonai-gateway/internal/config"
	"github.com/visonai/visonai-gateway/internal/db"
)

// AdminPassword is the password of the seeded admin account.
const AdminPassword = "changeme"

// Open returns a migrated and seeded in-memory sqlite database.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(config.DB{GormEngine: config.EngineSQLite}, false)
	require.NoError(t, err)

	require.NoError(t, db.Migrate(gdb))
	require.NoError(t, db.Seed(gdb, config.Admin{Username: "admin", Email: "admin@example.com", Password: AdminPassword}))

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return gdb
}
