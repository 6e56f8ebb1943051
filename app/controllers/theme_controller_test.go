package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nlzhang/homepage/internal/pkg/kvstore"
	"github.com/nlzhang/homepage/internal/pkg/middleware"
	"github.com/nlzhang/homepage/internal/pkg/theme"
)

func newThemeTestApp(store kvstore.Store) *fiber.App {
	InitializeThemeController(theme.NewService(store))

	app := fiber.New()
	app.Use("/api/theme", middleware.Cors("GET, POST, DELETE, OPTIONS"))
	app.Get("/api/theme", HandleThemeGet)
	app.Post("/api/theme", HandleThemePost)
	app.Delete("/api/theme", HandleThemeDelete)
	return app
}

func TestThemeLifecycle(t *testing.T) {
	app := newThemeTestApp(kvstore.NewMemoryStore())

	// Nothing stored yet
	req := httptest.NewRequest(http.MethodGet, "/api/theme", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Nil(t, decodeBody(t, resp)["data"])

	// Store a color
	req = httptest.NewRequest(http.MethodPost, "/api/theme", strings.NewReader(`{"r":255,"g":100,"b":0}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "theme-test")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, float64(255), data["r"])
	// Omitted HSL fields take their defaults
	assert.Equal(t, float64(100), data["saturation"])
	assert.Equal(t, float64(50), data["lightness"])
	assert.Equal(t, "theme-test", data["userAgent"])

	// Read it back
	req = httptest.NewRequest(http.MethodGet, "/api/theme", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	data = decodeBody(t, resp)["data"].(map[string]interface{})
	assert.Equal(t, float64(255), data["r"])

	// Reset
	req = httptest.NewRequest(http.MethodDelete, "/api/theme", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/theme", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Nil(t, decodeBody(t, resp)["data"])
}

func TestThemePostRejectsBadColor(t *testing.T) {
	app := newThemeTestApp(kvstore.NewMemoryStore())

	for _, body := range []string{
		`{"r":300,"g":0,"b":0}`,
		`{"r":-1,"g":0,"b":0}`,
		`{"r":10,"g":10,"b":10,"saturation":150}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/api/theme", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, "body: %s", body)
	}
}

func TestThemeNotConfiguredResponse(t *testing.T) {
	app := newThemeTestApp(nil)

	req := httptest.NewRequest(http.MethodGet, "/api/theme", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotImplemented, resp.StatusCode)
	assert.Equal(t, false, decodeBody(t, resp)["success"])
}

func TestThemeOptionsAdvertisesDelete(t *testing.T) {
	app := newThemeTestApp(kvstore.NewMemoryStore())

	req := httptest.NewRequest(http.MethodOptions, "/api/theme", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "GET, POST, DELETE, OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))
}
