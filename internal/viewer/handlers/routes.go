package handlers

import (
	"house-viewer/internal/viewer/models"

	"github.com/gofiber/fiber/v3"
)

// DefaultHouse - имя стартовых документов в хранилище.
const DefaultHouse = "default"

// Register вешает маршруты просмотрщика на приложение.
func Register(app *fiber.App, house *HouseHandler, health *HealthHandler) {
	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", health.LivenessProbe)
	app.Get("/health/ready", health.ReadinessProbe)
	app.Get("/health/startup", health.StartupProbe)

	// ============================================================
	// Page & Startup Documents
	// ============================================================

	app.Get("/", Index)
	app.Get("/house.json", house.StaticDocument(DefaultHouse, models.KindNamed))
	app.Get("/house01.json", house.StaticDocument(DefaultHouse, models.KindFlat))

	// ============================================================
	// API Routes
	// ============================================================

	api := app.Group("/api/v1")

	api.Get("/houses", house.List)
	api.Post("/houses", house.Upload)
	api.Get("/houses/:id", house.Document)
	api.Delete("/houses/:id", house.Delete)
	api.Get("/houses/:id/scene", house.Scene)
	api.Get("/houses/:id/scene.glb", house.ExportGLB)
	api.Get("/houses/:id/panel", house.Panel)
	api.Put("/houses/:id/parts/:part/visible", house.SetPartVisible)
	api.Put("/houses/:id/parts/:part/sections/:section/visible", house.SetSectionVisible)

	api.Post("/convert/flat", house.ConvertFlat)
}
