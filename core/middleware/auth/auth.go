package auth

import (
	"errors"
	"fmt"
	"strings"

	"calendar-reconciler/core/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Config holds configuration for the auth middleware.
type Config struct {
	// ApiKey is required in the X-API-Key header when set.
	ApiKey string
	// JWTSecret verifies optional bearer tokens. Empty disables token parsing.
	JWTSecret string
	// PublicPrefixes are path prefixes that skip authentication.
	PublicPrefixes []string
}

// HeaderAPIKey is the header carrying the API key.
const HeaderAPIKey = "X-API-Key"

// New returns a middleware that checks the API key and identifies the operator.
// A valid bearer token stores its claims in Locals("user") and its subject in
// Locals("user_id"). A request without a token stays anonymous.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		for _, prefix := range cfg.PublicPrefixes {
			if strings.HasPrefix(path, prefix) {
				return c.Next()
			}
		}

		if cfg.ApiKey != "" && c.Get(HeaderAPIKey) != cfg.ApiKey {
			return utils.Fail(c, fiber.StatusUnauthorized, "unauthorized", "missing or invalid API key")
		}

		header := c.Get(fiber.HeaderAuthorization)
		if header == "" || cfg.JWTSecret == "" {
			return c.Next()
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return utils.Fail(c, fiber.StatusUnauthorized, "unauthorized", "invalid authorization header format")
		}

		claims, err := Parse(parts[1], cfg.JWTSecret)
		if err != nil {
			return utils.Fail(c, fiber.StatusUnauthorized, "unauthorized", "invalid token")
		}

		c.Locals("user", claims)
		if sub, err := claims.GetSubject(); err == nil && sub != "" {
			c.Locals("user_id", sub)
		}
		return c.Next()
	}
}

// Parse verifies an HS256 token and returns its claims.
func Parse(token, secret string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("token is not valid")
	}
	return claims, nil
}

// UserID returns the operator id stored by the middleware, or nil.
func UserID(c *fiber.Ctx) *string {
	if id, ok := c.Locals("user_id").(string); ok && id != "" {
		return &id
	}
	return nil
}
