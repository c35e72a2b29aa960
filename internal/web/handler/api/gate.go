package api

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/visonai/visonai-gateway/internal/visonai"
)

// Fiber locals set by the gate.
const (
	LocalGate     = "gate"
	LocalSettings = "settings"
)

const decisionAllowed = "allowed"

// SettingsLoader returns the current settings snapshot.
type SettingsLoader func(ctx context.Context) (visonai.Settings, error)

// GateMiddleware runs visonai.Gate in front of an API route.
type GateMiddleware struct {
	gate      visonai.Gate
	load      SettingsLoader
	decisions *prometheus.CounterVec
}

// NewGateMiddleware creates the middleware and registers its counter on reg.
func NewGateMiddleware(gate visonai.Gate, load SettingsLoader, reg prometheus.Registerer) *GateMiddleware {
	return &GateMiddleware{
		gate:      gate,
		load:      load,
		decisions: decisionCounter(reg),
	}
}

// Handler loads one settings snapshot, authorizes the request and stores the
// snapshot in locals for the route. Denials end the request.
func (g *GateMiddleware) Handler(c *fiber.Ctx) error {
	settings, err := g.load(c.UserContext())
	if err != nil {
		log.Error().Err(err).Msg("failed to load settings")

		return fiber.ErrInternalServerError
	}

	header := func(key string) string { return c.Get(key) }
	decision := g.gate.Authorize(visonai.HeaderFunc(header), settings)

	code := decisionAllowed
	if !decision.Allowed() {
		code = decision.Reason
	}

	g.decisions.WithLabelValues(code).Inc()
	c.Locals(LocalGate, code)

	if !decision.Allowed() {
		return SendError(c, decision.Err())
	}

	c.Locals(LocalSettings, settings)

	return c.Next()
}

func decisionCounter(reg prometheus.Registerer) *prometheus.CounterVec {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "visonai_gate_decisions_total",
		Help: "Request gate decisions by outcome code.",
	}, []string{"code"})

	if reg == nil {
		return counter
	}

	if err := reg.Register(counter); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing
			}
		}

		log.Warn().Err(err).Msg("gate decision counter not registered")
	}

	return counter
}
