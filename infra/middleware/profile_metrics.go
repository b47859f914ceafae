package middleware

import (
	"strconv"
	"time"

	"profile_server/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

const (
	// unmatchedRoute labels requests that no handler route matched.
	unmatchedRoute = "unmatched"

	routeUnmatchedKey = "route_unmatched"
)

// Metrics records request count, latency and the in-flight gauge. Register it
// before RequestLogger so errors are already rendered when the status is read.
func Metrics(m *metrics.HTTPMetrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		m.InFlight.Inc()
		defer m.InFlight.Dec()

		err := c.Next()

		route := unmatchedRoute
		if unmatched, _ := c.Locals(routeUnmatchedKey).(bool); !unmatched {
			if r := c.Route(); r != nil {
				route = r.Path
			}
		}
		status := strconv.Itoa(c.Response().StatusCode())

		m.Requests.WithLabelValues(c.Method(), route, status).Inc()
		m.Duration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())

		return err
	}
}

// NotFound must be registered after every route. It answers the requests no
// route took and marks them so Metrics labels them unmatched.
func NotFound() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(routeUnmatchedKey, true)
		return fiber.NewError(fiber.StatusNotFound, "Cannot "+c.Method()+" "+c.Path())
	}
}
