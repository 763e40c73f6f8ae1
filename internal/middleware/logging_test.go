package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"askme/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := Logger
	Logger = slog.New(&ctxHandler{slog.NewJSONHandler(&buf, nil)})
	t.Cleanup(func() { Logger = prev })
	return &buf
}

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var line map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &line))
		lines = append(lines, line)
	}
	return lines
}

func TestContextMiddleware_PropagatesRequestScope(t *testing.T) {
	buf := captureLogs(t)

	app := fiber.New()
	app.Use(requestid.New())
	app.Use(ContextMiddleware())
	app.Use(StructuredLogger())
	var correlation string
	app.Get("/api/questions", func(c *fiber.Ctx) error {
		correlation = observability.ExtractCorrelationID(c.UserContext())
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/questions", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-42")
	resp, err := app.Test(req)
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, "req-42", correlation)
	lines := logLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "request processed", lines[0]["msg"])
	assert.Equal(t, "req-42", lines[0]["request_id"])
	assert.EqualValues(t, 200, lines[0]["status"])
}

func TestStructuredLogger_LevelsAndProbes(t *testing.T) {
	buf := captureLogs(t)

	app := fiber.New()
	app.Use(StructuredLogger())
	app.Get("/health/live", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/missing", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNotFound) })
	app.Get("/broken", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusInternalServerError) })

	for _, path := range []string{"/health/live", "/missing", "/broken"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		_ = resp.Body.Close()
	}

	lines := logLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "/missing", lines[0]["path"])
	assert.Equal(t, "WARN", lines[0]["level"])
	assert.Equal(t, "/broken", lines[1]["path"])
	assert.Equal(t, "ERROR", lines[1]["level"])
}
