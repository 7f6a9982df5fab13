package handlers

import (
	_ "embed"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Viewer Page
// ============================================================

//go:embed web/index.html
var indexPage string

// Index отдаёт страницу three.js, которая рисует /api/v1/houses/:id/scene.
func Index(c fiber.Ctx) error {
	c.Type("html")
	return c.SendString(indexPage)
}
