package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"

	"house-viewer/internal/viewer/export"
	"house-viewer/internal/viewer/models"
	"house-viewer/internal/viewer/scene"
	"house-viewer/internal/viewer/service"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// House Handler
// ============================================================

type HouseHandler struct {
	viewer *service.Viewer
}

func NewHouseHandler(viewer *service.Viewer) *HouseHandler {
	return &HouseHandler{viewer: viewer}
}

type visibilityRequest struct {
	Visible *bool `json:"visible"`
}

// List возвращает список сохранённых документов.
func (h *HouseHandler) List(c fiber.Ctx) error {
	houses, err := h.viewer.List(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(houses)
}

// Upload сохраняет новый документ house.json, имя берётся из ?name=.
func (h *HouseHandler) Upload(c fiber.Ctx) error {
	log.Printf("[VIEWER] Upload request, %d bytes", len(c.Body()))

	if len(c.Body()) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "body required", "kind": "decode"})
	}

	rec, err := h.viewer.Upload(c.Context(), c.Query("name"), c.Body())
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(http.StatusCreated).JSON(rec)
}

// Document отдаёт исходный документ.
func (h *HouseHandler) Document(c fiber.Ctx) error {
	p, ok := pathParams(c, "id")
	if !ok {
		return nil
	}
	return h.sendDocument(c, p["id"], models.KindNamed)
}

func (h *HouseHandler) Delete(c fiber.Ctx) error {
	p, ok := pathParams(c, "id")
	if !ok {
		return nil
	}
	if err := h.viewer.Delete(c.Context(), p["id"]); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Scene отдаёт собранную геометрию, цвета и флаги видимости.
func (h *HouseHandler) Scene(c fiber.Ctx) error {
	p, ok := pathParams(c, "id")
	if !ok {
		return nil
	}
	snap, err := h.viewer.Scene(c.Context(), p["id"])
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(snap)
}

// Panel отдаёт модель debug-панели.
func (h *HouseHandler) Panel(c fiber.Ctx) error {
	p, ok := pathParams(c, "id")
	if !ok {
		return nil
	}
	view, err := h.viewer.Panel(c.Context(), p["id"])
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(view)
}

func (h *HouseHandler) SetPartVisible(c fiber.Ctx) error {
	p, ok := pathParams(c, "id", "part")
	if !ok {
		return nil
	}
	visible, ok := h.parseVisibility(c)
	if !ok {
		return nil
	}
	if err := h.viewer.SetPartVisible(c.Context(), p["id"], p["part"], visible); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"part": p["part"], "visible": visible})
}

func (h *HouseHandler) SetSectionVisible(c fiber.Ctx) error {
	p, ok := pathParams(c, "id", "part", "section")
	if !ok {
		return nil
	}
	visible, ok := h.parseVisibility(c)
	if !ok {
		return nil
	}
	if err := h.viewer.SetSectionVisible(c.Context(), p["id"], p["part"], p["section"], visible); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"part": p["part"], "section": p["section"], "visible": visible})
}

// ExportGLB выгружает дом в glTF. ?drawn=1 оставляет только видимые секции.
func (h *HouseHandler) ExportGLB(c fiber.Ctx) error {
	p, ok := pathParams(c, "id")
	if !ok {
		return nil
	}
	house, err := h.viewer.House(c.Context(), p["id"])
	if err != nil {
		return h.fail(c, err)
	}

	onlyDrawn := c.Query("drawn") == "1" || c.Query("drawn") == "true"
	c.Set("Content-Type", "model/gltf-binary")
	if err := export.WriteGLB(c.Response().BodyWriter(), house, onlyDrawn); err != nil {
		log.Printf("[VIEWER] Export error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "export failed"})
	}
	return nil
}

// ConvertFlat собирает неиндексированный меш из документа house01.json.
func (h *HouseHandler) ConvertFlat(c fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "body required", "kind": "decode"})
	}
	mesh, err := h.viewer.BuildFlat(c.Body())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(mesh)
}

// StaticDocument отдаёт стартовый документ по имени, как файл рядом со страницей.
func (h *HouseHandler) StaticDocument(name, kind string) fiber.Handler {
	return func(c fiber.Ctx) error {
		return h.sendDocument(c, name, kind)
	}
}

func (h *HouseHandler) sendDocument(c fiber.Ctx, ref, kind string) error {
	body, err := h.viewer.Document(c.Context(), ref, kind)
	if err != nil {
		return h.fail(c, err)
	}
	c.Set("Content-Type", "application/json")
	return c.Send(body)
}

// pathParams декодирует параметры пути. Путь не раскодируется до
// маршрутизации, поэтому %2F в имени части или секции не ломает маршрут.
func pathParams(c fiber.Ctx, names ...string) (map[string]string, bool) {
	out := make(map[string]string, len(names))
	for _, name := range names {
		v, err := url.PathUnescape(c.Params(name))
		if err != nil {
			c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid path parameter " + name, "kind": "decode"})
			return nil, false
		}
		out[name] = v
	}
	return out, true
}

func (h *HouseHandler) parseVisibility(c fiber.Ctx) (bool, bool) {
	var req visibilityRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil || req.Visible == nil {
		c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": `body must be {"visible": bool}`, "kind": "decode"})
		return false, false
	}
	return *req.Visible, true
}

// ============================================================
// Errors
// ============================================================

func (h *HouseHandler) fail(c fiber.Ctx, err error) error {
	status, kind := classify(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[VIEWER] %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error(), "kind": kind})
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, models.ErrMissingVertex):
		return http.StatusUnprocessableEntity, "missing-vertex-reference"
	case errors.Is(err, models.ErrMalformedFace):
		return http.StatusUnprocessableEntity, "malformed-face"
	case errors.Is(err, models.ErrIndexOutOfRange):
		return http.StatusUnprocessableEntity, "index-out-of-range"
	case errors.Is(err, models.ErrUnnamed):
		return http.StatusUnprocessableEntity, "unnamed"
	case errors.Is(err, models.ErrDuplicateName):
		return http.StatusUnprocessableEntity, "duplicate-name"
	case errors.Is(err, models.ErrExists):
		return http.StatusConflict, "exists"
	case errors.Is(err, models.ErrDecode):
		return http.StatusBadRequest, "decode"
	case errors.Is(err, models.ErrNotFound),
		errors.Is(err, scene.ErrPartNotFound),
		errors.Is(err, scene.ErrSectionNotFound):
		return http.StatusNotFound, "not-found"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
