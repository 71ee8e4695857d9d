package utils

import "github.com/gofiber/fiber/v2"

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	OK      bool   `json:"ok"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Fail writes an error response with a machine-readable code.
func Fail(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(ErrorResponse{OK: false, Error: code, Message: message})
}

// NoStore marks a response as never cacheable.
func NoStore(c *fiber.Ctx) {
	c.Set(fiber.HeaderCacheControl, "no-store")
}
