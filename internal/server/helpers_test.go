package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"askme/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePage(t *testing.T) {
	app := fiber.New()
	app.Get("/items", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"page": parsePage(c)})
	})

	tests := map[string]int{
		"/items":          1,
		"/items?page=3":   3,
		"/items?page=0":   1,
		"/items?page=-2":  1,
		"/items?page=two": 1,
	}
	for path, want := range tests {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)

		var body map[string]int
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		_ = resp.Body.Close()
		assert.Equal(t, want, body["page"], path)
	}
}

func TestParseLimit(t *testing.T) {
	app := fiber.New()
	app.Get("/items", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"limit": parseLimit(c, 20, 100)})
	})

	tests := map[string]int{
		"/items":           20,
		"/items?limit=5":   5,
		"/items?limit=0":   20,
		"/items?limit=500": 100,
	}
	for path, want := range tests {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp, err := app.Test(req)
		require.NoError(t, err)

		var body map[string]int
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		_ = resp.Body.Close()
		assert.Equal(t, want, body["limit"], path)
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		resource   string
		path       string
		wantStatus int
		wantMsg    string
	}{
		{resource: "question", path: "/items/42", wantStatus: http.StatusOK},
		{resource: "question", path: "/items/abc", wantStatus: http.StatusBadRequest, wantMsg: "Invalid question ID"},
		{resource: "user", path: "/items/0", wantStatus: http.StatusBadRequest, wantMsg: "Invalid user ID"},
		{resource: "answer", path: "/items/-1", wantStatus: http.StatusBadRequest, wantMsg: "Invalid answer ID"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			app := fiber.New()
			app.Get("/items/:id", func(c *fiber.Ctx) error {
				id, err := parseID(c, tt.resource)
				if err != nil {
					return nil
				}
				return c.JSON(fiber.Map{"id": id})
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			if tt.wantMsg != "" {
				var body models.ErrorResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, tt.wantMsg, body.Error)
				assert.Equal(t, "VALIDATION_ERROR", body.Code)
			}
		})
	}
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", models.NewNotFoundError("Question", 7), http.StatusNotFound, "NOT_FOUND"},
		{"forbidden", models.NewForbiddenError("no"), http.StatusForbidden, "FORBIDDEN"},
		{"conflict", models.NewConflictError("taken"), http.StatusConflict, "CONFLICT"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return respondError(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			var body models.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotContains(t, body.Error, "boom", "internal details stay in the logs")
		})
	}
}
