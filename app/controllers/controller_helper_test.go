package controllers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePaging(t *testing.T) {
	app := fiber.New()
	var gotOffset, gotLimit int
	app.Get("/items", func(c *fiber.Ctx) error {
		gotOffset, gotLimit = parsePaging(c)
		return c.SendStatus(fiber.StatusOK)
	})

	tests := []struct {
		name       string
		url        string
		wantOffset int
		wantLimit  int
	}{
		{name: "defaults", url: "/items", wantOffset: 0, wantLimit: 20},
		{name: "second page", url: "/items?page=2&limit=10", wantOffset: 10, wantLimit: 10},
		{name: "limit capped", url: "/items?limit=500", wantOffset: 0, wantLimit: 100},
		{name: "garbage falls back", url: "/items?page=abc&limit=xyz", wantOffset: 0, wantLimit: 20},
		{name: "zero page clamps", url: "/items?page=0&limit=5", wantOffset: 0, wantLimit: 5},
		{name: "negative limit falls back", url: "/items?limit=-1", wantOffset: 0, wantLimit: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.url, nil))
			require.NoError(t, err)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.wantOffset, gotOffset)
			assert.Equal(t, tt.wantLimit, gotLimit)
		})
	}
}

func TestJSONError(t *testing.T) {
	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return jsonError(c, fiber.StatusNotFound, "not_found", "booking not found")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "not_found", payload["error"])
	assert.Equal(t, "booking not found", payload["message"])
}

func TestParseDate(t *testing.T) {
	date, err := parseDate("2026-08-30")
	require.NoError(t, err)
	assert.Equal(t, 2026, date.Year())
	assert.Equal(t, time.August, date.Month())
	assert.Equal(t, 30, date.Day())

	_, err = parseDate("30/08/2026")
	assert.Error(t, err)
}

func TestFormatTimePtr(t *testing.T) {
	assert.Nil(t, formatTimePtr(nil))

	ts := time.Date(2026, 8, 30, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, "2026-08-30T10:30:00Z", formatTimePtr(&ts))
}
