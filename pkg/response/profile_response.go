// Package response provides the success envelope shared by API handlers.
package response

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Response is the standard success body. Data is always present, null
// included, so clients can rely on the key.
type Response struct {
	Data      any    `json:"data"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp"`
}

func newResponse(data any, message string) Response {
	return Response{
		Data:      data,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// OK returns a 200 response.
func OK(c *fiber.Ctx, data any) error {
	return c.JSON(newResponse(data, ""))
}

// OKWithMessage returns a 200 response with a human readable message.
func OKWithMessage(c *fiber.Ctx, data any, message string) error {
	return c.JSON(newResponse(data, message))
}

// Created returns a 201 response.
func Created(c *fiber.Ctx, data any, message string) error {
	return c.Status(fiber.StatusCreated).JSON(newResponse(data, message))
}
