package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/foundit/lostfound-service/internal/config"
)

// multipartOverhead covers form fields and boundaries around the image part.
const multipartOverhead = 1 << 20

// NewApp builds the fiber app. Values read from the request are copied out of
// fasthttp's pooled buffers so they stay valid after the handler returns.
func NewApp(cfg *config.Config) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		Immutable: true,
		BodyLimit: cfg.Upload.MaxBytes + multipartOverhead,
	})
}
