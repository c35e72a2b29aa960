// Package handler holds what the web handlers share.
package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/visonai/visonai-gateway/internal/config"
	"github.com/visonai/visonai-gateway/internal/web/session"
)

// ErrMissingDeps is returned by Init when a required dependency is nil.
var ErrMissingDeps = errors.New(ErrNilACDFatalLogMsg)

// Deps are the shared dependencies handed to every handler.
type Deps struct {
	Cfg      *config.Config
	DB       *gorm.DB
	Sessions *session.Manager
	Registry prometheus.Registerer
}

// Validate reports ErrMissingDeps when config or database are missing.
func (d Deps) Validate() error {
	if d.Cfg == nil || d.DB == nil {
		return ErrMissingDeps
	}

	return nil
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, deps Deps) error
}
