package http

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"profile_server/pkg/apperr"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
)

// timestampLayouts are tried in order. Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp accepts RFC3339, an ISO local date-time or a plain date.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Timestamp is a JSON date-time in any of the accepted layouts.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// parseID reads the :id path parameter.
func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, apperr.InvalidInput("id", "must be an integer")
	}
	return id, nil
}

// parseQueryTimestamp reads a required date-time query parameter.
func parseQueryTimestamp(c *fiber.Ctx, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, apperr.MissingField(name)
	}
	t, err := ParseTimestamp(raw)
	if err != nil {
		return time.Time{}, apperr.InvalidInput(name, "expected an ISO date or date-time")
	}
	return t, nil
}

// parseBody decodes the JSON body, reporting malformed input as a 400.
func parseBody(c *fiber.Ctx, dest any) error {
	if len(c.Body()) == 0 {
		return apperr.BadRequest("request body is required")
	}
	if err := c.BodyParser(dest); err != nil {
		return apperr.BadRequest("invalid request body").WithError(err)
	}
	return nil
}
