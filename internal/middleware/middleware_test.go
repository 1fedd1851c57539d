package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tms/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.BearerToken())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(middleware.Token(c))
	})

	tests := map[string]string{
		"Bearer abc.def.ghi": "abc.def.ghi",
		"abc.def.ghi":        "abc.def.ghi",
		"":                   "",
	}
	for header, want := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, "missing tokens are not rejected")
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, want, string(body))
	}
}

func TestParseBearer(t *testing.T) {
	assert.Equal(t, "abc", middleware.ParseBearer("Bearer abc"))
	assert.Equal(t, "abc", middleware.ParseBearer("  Bearer abc  "))
	assert.Equal(t, "abc", middleware.ParseBearer("abc"))
	assert.Equal(t, "", middleware.ParseBearer(""))
}

func TestRateLimiter(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.RateLimiter(2, time.Minute, nil))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestRateLimiter_Disabled(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.RateLimiter(0, time.Minute, nil))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for i := 0; i < 5; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}
