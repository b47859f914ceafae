package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const readyTimeout = 5 * time.Second

// HealthChecker is anything that can report its own reachability.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthCheckFunc adapts a function to HealthChecker.
type HealthCheckFunc func(ctx context.Context) error

func (f HealthCheckFunc) Ping(ctx context.Context) error { return f(ctx) }

type namedCheck struct {
	name    string
	checker HealthChecker
}

type HealthHandler struct {
	checks []namedCheck
	status map[string]func() string
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{status: make(map[string]func() string)}
}

// AddCheck adds a dependency that must answer for /ready to pass.
func (h *HealthHandler) AddCheck(name string, checker HealthChecker) *HealthHandler {
	h.checks = append(h.checks, namedCheck{name: name, checker: checker})
	return h
}

// AddStatus adds an informational value to /ready, such as a breaker state.
func (h *HealthHandler) AddStatus(name string, status func() string) *HealthHandler {
	h.status[name] = status
	return h
}

func (h *HealthHandler) Register(app fiber.Router) {
	app.Get("/health", h.Health)
	app.Get("/ready", h.Ready)
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readyTimeout)
	defer cancel()

	checks := make(map[string]string, len(h.checks)+len(h.status))
	allHealthy := true

	for _, check := range h.checks {
		if err := check.checker.Ping(ctx); err != nil {
			checks[check.name] = "unhealthy: " + err.Error()
			allHealthy = false
			continue
		}
		checks[check.name] = "healthy"
	}
	for name, status := range h.status {
		checks[name] = status()
	}

	status := "ready"
	statusCode := fiber.StatusOK
	if !allHealthy {
		status = "not ready"
		statusCode = fiber.StatusServiceUnavailable
	}

	return c.Status(statusCode).JSON(fiber.Map{
		"status":    status,
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
