package handlers

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Health Check Handlers
// ============================================================

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db Pinger
}

func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// LivenessProbe проверяет, что приложение работает
func (h *HealthHandler) LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "alive",
	})
}

// ReadinessProbe проверяет доступность хранилища документов
func (h *HealthHandler) ReadinessProbe(c fiber.Ctx) error {
	if err := h.db.Ping(c.Context()); err != nil {
		log.Printf("[HEALTH] db ping failed: %v", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unavailable",
		})
	}
	return c.JSON(fiber.Map{
		"status": "ready",
	})
}

// StartupProbe проверяет, что приложение успешно запустилось
func (h *HealthHandler) StartupProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "started",
	})
}
