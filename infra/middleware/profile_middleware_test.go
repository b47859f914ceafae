package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"profile_server/pkg/apperr"
	"profile_server/pkg/logger"
	"profile_server/pkg/metrics"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.Init(logger.Config{Level: logger.LevelFatal, Output: io.Discard})
}

func newTestApp(m *metrics.HTTPMetrics) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})
	app.Use(Recover())
	app.Use(RequestID())
	if m != nil {
		app.Use(Metrics(m))
	}
	app.Use(RequestLogger())
	app.Use(SecurityHeaders())
	app.Use(RequireJSON())

	app.Get("/app-error", func(c *fiber.Ctx) error {
		return apperr.UserNotFound(7, nil)
	})
	app.Get("/fiber-error", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusServiceUnavailable, "down")
	})
	app.Get("/plain-error", func(c *fiber.Ctx) error {
		return errors.New("secret detail")
	})
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("boom")
	})
	app.Get("/request-id", func(c *fiber.Ctx) error {
		return c.SendString(logger.RequestIDFromContext(c.UserContext()))
	})
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Post("/echo", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Use(NotFound())
	return app
}

func decodeError(t *testing.T, resp *http.Response) ErrorResponse {
	t.Helper()
	defer resp.Body.Close()
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestErrorHandler(t *testing.T) {
	app := newTestApp(nil)

	tests := []struct {
		path       string
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{"/app-error", http.StatusNotFound, apperr.CodeUserNotFound, "user with id = 7 - not found"},
		{"/fiber-error", http.StatusServiceUnavailable, apperr.CodeServiceUnavailable, "down"},
		{"/plain-error", http.StatusInternalServerError, apperr.CodeInternalError, "An unexpected error occurred"},
		{"/panic", http.StatusInternalServerError, apperr.CodeInternalError, "An unexpected error occurred"},
		{"/missing", http.StatusNotFound, apperr.CodeNotFound, "Cannot GET /missing"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)

			body := decodeError(t, resp)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.False(t, body.Success)
			assert.Equal(t, tt.wantStatus, body.StatusCode)
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Equal(t, tt.wantMsg, body.Error.Message)
			assert.NotEmpty(t, body.RequestID)
			assert.NotEmpty(t, body.Timestamp)
		})
	}
}

func TestRequestID(t *testing.T) {
	app := newTestApp(nil)

	req := httptest.NewRequest(http.MethodGet, "/request-id", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	resp, err := app.Test(req)
	require.NoError(t, err)

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "fixed-id", string(body))
	assert.Equal(t, "fixed-id", resp.Header.Get(RequestIDHeader))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/request-id", nil))
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get(RequestIDHeader), 36)
}

func TestSecurityHeaders(t *testing.T) {
	resp, err := newTestApp(nil).Test(httptest.NewRequest(http.MethodGet, "/request-id", nil))
	require.NoError(t, err)

	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
}

func TestRequireJSON(t *testing.T) {
	app := newTestApp(nil)

	tests := []struct {
		name        string
		contentType string
		body        string
		wantStatus  int
	}{
		{"json", "application/json", `{}`, http.StatusNoContent},
		{"json with charset", "application/json; charset=utf-8", `{}`, http.StatusNoContent},
		{"empty body", "", "", http.StatusNoContent},
		{"missing header", "", `{}`, http.StatusBadRequest},
		{"form", "application/x-www-form-urlencoded", "a=b", http.StatusUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestMetrics(t *testing.T) {
	m := metrics.NewHTTPMetrics(prometheus.NewRegistry())
	app := newTestApp(m)

	for _, path := range []string{"/items/1", "/items/2", "/app-error", "/nowhere", "/"} {
		_, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "/items/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "/app-error", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", unmatchedRoute, "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "/", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "/", "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.InFlight))
}
