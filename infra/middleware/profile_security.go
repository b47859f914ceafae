package middleware

import (
	"strings"

	"profile_server/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// SecurityHeaders adds security headers to all responses
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		return c.Next()
	}
}

// RequireJSON rejects POST, PUT and PATCH bodies that are not application/json.
func RequireJSON() fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch:
		default:
			return c.Next()
		}

		if len(c.Body()) == 0 {
			return c.Next()
		}

		contentType := c.Get(fiber.HeaderContentType)
		if contentType == "" {
			return apperr.BadRequest("content-type header required")
		}
		if !strings.HasPrefix(strings.ToLower(contentType), fiber.MIMEApplicationJSON) {
			return apperr.New("UNSUPPORTED_MEDIA_TYPE", "unsupported content type", fiber.StatusUnsupportedMediaType)
		}

		return c.Next()
	}
}
