// Package db opens, migrates and seeds the gateway database.
package db

import (
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/visonai/visonai-gateway/internal/config"
	"github.com/visonai/visonai-gateway/internal/db/dsn"
	"github.com/visonai/visonai-gateway/internal/db/models"
)

const dataDirMode = 0o750

// ErrAdminPasswordEmpty is returned when an admin account must be seeded without a password.
var ErrAdminPasswordEmpty = errors.New("config Admin.Password can not be empty on first start")

// Dialector returns the gorm dialector for the configured engine.
func Dialector(cfg config.DB) (gorm.Dialector, error) {
	switch cfg.GormEngine {
	case config.EngineMySQL:
		return mysql.Open(dsn.MySQL(cfg)), nil
	case config.EnginePostgres:
		return postgres.Open(dsn.Postgres(cfg)), nil
	case config.EngineSQLite, "":
		return sqlite.Open(dsn.SQLite(cfg)), nil
	default:
		return nil, errors.Wrap(config.ErrUnknownGormEngine, cfg.GormEngine)
	}
}

// Open connects to the configured database. SQLite uses a single connection.
func Open(cfg config.DB, devMode bool) (*gorm.DB, error) {
	if cfg.GormEngine == config.EngineSQLite && cfg.Path != "" {
		if err := mkdirFor(cfg.Path); err != nil {
			return nil, err
		}
	}

	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	level := gormlogger.Silent
	if devMode {
		level = gormlogger.Info
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Default.LogMode(level)})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect %s database", cfg.GormEngine)
	}

	if cfg.GormEngine == config.EngineSQLite || cfg.GormEngine == "" {
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, errors.Wrap(err, "sqlite handle")
		}

		sqlDB.SetMaxOpenConns(1)
	}

	return gdb, nil
}

// Migrate creates or updates all tables.
func Migrate(gdb *gorm.DB) error {
	return errors.Wrap(gdb.AutoMigrate(models.All()...), "failed to migrate database")
}

// Seed creates the admin account when no user exists and the default category when missing.
func Seed(gdb *gorm.DB, admin config.Admin) error {
	var count int64
	if err := gdb.Model(&models.User{}).Count(&count).Error; err != nil {
		return errors.Wrap(err, "count users")
	}

	if count == 0 {
		if admin.Password == "" {
			return ErrAdminPasswordEmpty
		}

		hash, err := models.HashPassword(admin.Password)
		if err != nil {
			return errors.Wrap(err, "hash admin password")
		}

		username := admin.Username
		if username == "" {
			username = "admin"
		}

		user := models.User{
			Username:    username,
			Email:       admin.Email,
			DisplayName: username,
			Password:    hash,
			Active:      true,
			Roles:       []models.UserRole{{Position: 0, Role: models.RoleAdministrator}},
		}

		if err := gdb.Create(&user).Error; err != nil {
			return errors.Wrap(err, "seed admin")
		}

		log.Info().Str("username", username).Msg("seeded admin account")
	}

	category := models.Category{Slug: models.DefaultCategorySlug, Name: "Uncategorized"}
	if err := gdb.Where(models.Category{Slug: category.Slug}).FirstOrCreate(&category).Error; err != nil {
		return errors.Wrap(err, "seed default category")
	}

	return nil
}

func mkdirFor(path string) error {
	if path == ":memory:" {
		return nil
	}

	return errors.Wrap(os.MkdirAll(filepath.Dir(path), dataDirMode), "create data directory")
}
