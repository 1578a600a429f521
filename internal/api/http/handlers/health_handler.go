package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/billing-portal/internal/observability"
)

// Dependency is a backing service the readiness check pings.
type Dependency interface {
	Ping(ctx context.Context) error
}

// OptionalDependency is a backing service that may be switched off.
type OptionalDependency interface {
	Dependency
	Enabled() bool
}

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	postgres    Dependency
	redis       OptionalDependency
	metrics     *observability.Metrics
	now         func() time.Time
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, postgres Dependency, redis OptionalDependency, metrics *observability.Metrics) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		postgres:    postgres,
		redis:       redis,
		metrics:     metrics,
		now:         time.Now,
	}
}

// Ping handles GET /api/ping.
func (h *HealthHandler) Ping(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"ok":        true,
		"message":   h.serviceName + " is running",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// Root handles GET / with a short API directory.
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": h.serviceName,
		"version": h.version,
		"endpoints": fiber.Map{
			"auth":   "/api/auth",
			"admin":  "/api/admin",
			"health": "/api/ping",
		},
	})
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports readiness. Postgres is required. Redis only backs the login
// throttle, which fails open, so a disabled or unreachable Redis is reported
// without making the service unready.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	ready := true

	switch {
	case h.postgres == nil:
		depStatus["postgres"] = "not configured"
		ready = false
	default:
		if err := h.postgres.Ping(ctx); err != nil {
			depStatus["postgres"] = err.Error()
			ready = false
		} else {
			depStatus["postgres"] = "ok"
		}
	}

	switch {
	case h.redis == nil || !h.redis.Enabled():
		depStatus["redis"] = "disabled"
	case h.redis.Ping(ctx) != nil:
		depStatus["redis"] = "unreachable"
	default:
		depStatus["redis"] = "ok"
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"message":      "One or more dependencies unavailable",
		"code":         "DEPENDENCY_UNAVAILABLE",
		"dependencies": depStatus,
	})
}

// Metrics exposes the in-memory request counters.
func (h *HealthHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(h.metrics.Snapshot())
}
