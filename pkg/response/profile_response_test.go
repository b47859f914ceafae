package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopes(t *testing.T) {
	app := fiber.New(fiber.Config{JSONEncoder: json.Marshal, JSONDecoder: json.Unmarshal})
	app.Get("/ok", func(c *fiber.Ctx) error { return OK(c, []int{1, 2}) })
	app.Get("/created", func(c *fiber.Ctx) error { return Created(c, fiber.Map{"id": 1}, "made") })
	app.Get("/null", func(c *fiber.Ctx) error { return OKWithMessage(c, nil, "gone") })

	tests := []struct {
		path       string
		wantStatus int
		wantData   any
		wantMsg    any
	}{
		{"/ok", http.StatusOK, []any{1.0, 2.0}, nil},
		{"/created", http.StatusCreated, map[string]any{"id": 1.0}, "made"},
		{"/null", http.StatusOK, nil, "gone"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Contains(t, body, "data")
			assert.Equal(t, tt.wantData, body["data"])
			assert.Equal(t, tt.wantMsg, body["message"])
			assert.NotEmpty(t, body["timestamp"])
		})
	}
}
