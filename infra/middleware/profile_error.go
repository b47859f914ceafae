package middleware

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"profile_server/pkg/apperr"
	"profile_server/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in and out.
const RequestIDHeader = "X-Request-ID"

// ErrorResponse is the standard error response format
type ErrorResponse struct {
	Success    bool        `json:"success"`
	Error      ErrorDetail `json:"error"`
	StatusCode int         `json:"statusCode"`
	RequestID  string      `json:"request_id,omitempty"`
	Timestamp  string      `json:"timestamp"`
}

type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func newErrorResponse(c *fiber.Ctx, status int, detail ErrorDetail) ErrorResponse {
	requestID, _ := c.Locals("request_id").(string)
	return ErrorResponse{
		Success:    false,
		Error:      detail,
		StatusCode: status,
		RequestID:  requestID,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
}

// ErrorHandler is a centralized error handler for Fiber
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		requestID, _ := c.Locals("request_id").(string)
		log := logger.WithField("request_id", requestID)

		var (
			status   int
			detail   ErrorDetail
			appErr   *apperr.AppError
			fiberErr *fiber.Error
		)

		switch {
		case errors.As(err, &appErr):
			status = apperr.GetHTTPStatus(err)
			detail = ErrorDetail{Code: appErr.Code, Message: appErr.Message, Details: appErr.Details}

			log = log.WithField("error_code", appErr.Code).WithError(appErr.Err)
			if status >= 500 {
				log.Error("Internal error: %s", appErr.Message)
			} else {
				log.Warn("Client error: %s", appErr.Message)
			}

		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			detail = ErrorDetail{Code: mapHTTPStatusToCode(fiberErr.Code), Message: fiberErr.Message}

		default:
			status = fiber.StatusInternalServerError
			detail = ErrorDetail{Code: apperr.CodeInternalError, Message: "An unexpected error occurred"}

			log.WithError(err).
				WithField("stack", string(debug.Stack())).
				Error("Unexpected error: %s", err.Error())
		}

		return c.Status(status).JSON(newErrorResponse(c, status, detail))
	}
}

// RequestID middleware adds a unique request ID to each request and exposes
// it to downstream code through the user context.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Locals("request_id", requestID)
		c.Set(RequestIDHeader, requestID)
		c.SetUserContext(logger.ContextWithRequestID(c.UserContext(), requestID))
		return c.Next()
	}
}

// RequestLogger logs incoming requests and their responses
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()
		if err != nil {
			// render now so the logged status is the one sent
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		requestID, _ := c.Locals("request_id").(string)
		status := c.Response().StatusCode()

		log := logger.WithFields(map[string]any{
			"request_id": requestID,
			"method":     c.Method(),
			"path":       c.Path(),
			"status":     status,
			"ip":         c.IP(),
			"user_agent": c.Get(fiber.HeaderUserAgent),
		}).WithDuration(time.Since(start))

		switch {
		case status >= 500:
			log.Error("Request failed: %s %s -> %d", c.Method(), c.Path(), status)
		case status >= 400:
			log.Warn("Request error: %s %s -> %d", c.Method(), c.Path(), status)
		default:
			log.Info("Request completed: %s %s -> %d", c.Method(), c.Path(), status)
		}

		return nil
	}
}

// Recover middleware recovers from panics
func Recover() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				requestID, _ := c.Locals("request_id").(string)

				logger.WithFields(map[string]any{
					"request_id": requestID,
					"panic":      fmt.Sprintf("%v", r),
					"path":       c.Path(),
					"method":     c.Method(),
					"stack":      string(debug.Stack()),
				}).Error("Panic recovered")

				status := fiber.StatusInternalServerError
				err = c.Status(status).JSON(newErrorResponse(c, status, ErrorDetail{
					Code:    apperr.CodeInternalError,
					Message: "An unexpected error occurred",
				}))
			}
		}()
		return c.Next()
	}
}

func mapHTTPStatusToCode(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return apperr.CodeBadRequest
	case fiber.StatusNotFound:
		return apperr.CodeNotFound
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case fiber.StatusUnsupportedMediaType:
		return "UNSUPPORTED_MEDIA_TYPE"
	case fiber.StatusInternalServerError:
		return apperr.CodeInternalError
	case fiber.StatusBadGateway, fiber.StatusServiceUnavailable, fiber.StatusGatewayTimeout:
		return apperr.CodeServiceUnavailable
	default:
		return "UNKNOWN_ERROR"
	}
}
