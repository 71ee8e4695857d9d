package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func setupApp() *fiber.App {
	app := fiber.New()
	app.Use(New(Config{ApiKey: "secret-key", JWTSecret: "jwt-secret", PublicPrefixes: []string{"/ical/export", "/swagger"}}))
	handler := func(c *fiber.Ctx) error {
		if id := UserID(c); id != nil {
			return c.SendString(*id)
		}
		return c.SendString("anonymous")
	}
	app.Get("/ical/notifications", handler)
	app.Get("/ical/export/unit/:file", handler)
	return app
}

func TestNew(t *testing.T) {
	app := setupApp()

	t.Run("Missing Key", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/ical/notifications", nil))
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode)
	})

	t.Run("Valid Key Anonymous", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/ical/notifications", nil)
		req.Header.Set(HeaderAPIKey, "secret-key")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("Public Prefix", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/ical/export/unit/1.ics", nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("Bearer Token Identifies User", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/ical/notifications", nil)
		req.Header.Set(HeaderAPIKey, "secret-key")
		req.Header.Set("Authorization", "Bearer "+sign(t, "jwt-secret", jwt.MapClaims{
			"sub": "operator-9",
			"exp": time.Now().Add(time.Hour).Unix(),
		}))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		body := make([]byte, 32)
		n, _ := resp.Body.Read(body)
		assert.Equal(t, "operator-9", string(body[:n]))
	})

	t.Run("Bad Signature", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/ical/notifications", nil)
		req.Header.Set(HeaderAPIKey, "secret-key")
		req.Header.Set("Authorization", "Bearer "+sign(t, "other-secret", jwt.MapClaims{"sub": "x"}))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode)
	})

	t.Run("Expired Token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/ical/notifications", nil)
		req.Header.Set(HeaderAPIKey, "secret-key")
		req.Header.Set("Authorization", "Bearer "+sign(t, "jwt-secret", jwt.MapClaims{
			"sub": "x",
			"exp": time.Now().Add(-time.Hour).Unix(),
		}))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode)
	})
}

func TestNoKeyConfigured(t *testing.T) {
	app := fiber.New()
	app.Use(New(Config{}))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
}
