package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/smartlab-id/smartlab-api/internal/authz"
	"github.com/smartlab-id/smartlab-api/internal/dto"
	"github.com/smartlab-id/smartlab-api/internal/service"
	"github.com/smartlab-id/smartlab-api/internal/utils"
)

// MaterialHandler exposes the material tree: materials, chapters and
// sub-chapters.
type MaterialHandler struct {
	service service.MaterialService
	logger  zerolog.Logger
}

// NewMaterialHandler constructs a material handler.
func NewMaterialHandler(service service.MaterialService, logger zerolog.Logger) *MaterialHandler {
	return &MaterialHandler{
		service: service,
		logger:  logger.With().Str("component", "material_handler").Logger(),
	}
}

// Register wires material routes. Mutations require the teacher or admin
// role; ownership is enforced below in the service.
func (h *MaterialHandler) Register(router fiber.Router, teacherOnly fiber.Handler) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Get("/:id/tree", h.tree)
	router.Post("", teacherOnly, h.create)
	router.Put("/:id", teacherOnly, h.update)
	router.Delete("/:id", teacherOnly, h.delete)
}

// RegisterChapters wires chapter routes.
func (h *MaterialHandler) RegisterChapters(router fiber.Router, teacherOnly fiber.Handler) {
	router.Post("", teacherOnly, h.createChapter)
	router.Put("/:id", teacherOnly, h.updateChapter)
	router.Delete("/:id", teacherOnly, h.deleteChapter)
}

// RegisterSubChapters wires sub-chapter routes.
func (h *MaterialHandler) RegisterSubChapters(router fiber.Router, teacherOnly fiber.Handler) {
	router.Post("", teacherOnly, h.createSubChapter)
	router.Put("/:id", teacherOnly, h.updateSubChapter)
	router.Delete("/:id", teacherOnly, h.deleteSubChapter)
}

func (h *MaterialHandler) mapError(c *fiber.Ctx, err error, action string) error {
	switch {
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, authz.ErrForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "you do not own this material")
	case errors.Is(err, service.ErrMaterialNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "material not found")
	case errors.Is(err, service.ErrChapterNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "chapter not found")
	case errors.Is(err, service.ErrSubChapterNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "sub-chapter not found")
	default:
		requestLogger(h.logger, c).Error().Err(err).Str("action", action).Msg("material operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, action)
	}
}

func (h *MaterialHandler) list(c *fiber.Ctx) error {
	var filter dto.MaterialFilter
	if err := c.QueryParser(&filter); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	materials, err := h.service.List(c.Context(), filter)
	if err != nil {
		return h.mapError(c, err, "failed to list materials")
	}

	return utils.SendSuccess(c, "materials retrieved", materials)
}

func (h *MaterialHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid material id")
	}

	material, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.mapError(c, err, "failed to get material")
	}

	return utils.SendSuccess(c, "material retrieved", material)
}

func (h *MaterialHandler) tree(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid material id")
	}

	material, err := h.service.GetTree(c.Context(), id)
	if err != nil {
		return h.mapError(c, err, "failed to get material tree")
	}

	return utils.SendSuccess(c, "material tree retrieved", material)
}

func (h *MaterialHandler) create(c *fiber.Ctx) error {
	var payload dto.MaterialCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	material, err := h.service.Create(c.Context(), callerFromContext(c), payload)
	if err != nil {
		return h.mapError(c, err, "failed to create material")
	}

	return c.Status(fiber.StatusCreated).JSON(utils.APIResponse{
		Success: true,
		Data:    material,
		Message: "material created",
	})
}

func (h *MaterialHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid material id")
	}

	var payload dto.MaterialUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	material, err := h.service.Update(c.Context(), callerFromContext(c), id, payload)
	if err != nil {
		return h.mapError(c, err, "failed to update material")
	}

	return utils.SendSuccess(c, "material updated", material)
}

func (h *MaterialHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid material id")
	}

	if err := h.service.Delete(c.Context(), callerFromContext(c), id); err != nil {
		return h.mapError(c, err, "failed to delete material")
	}

	return utils.SendSuccess(c, "material deleted", nil)
}

func (h *MaterialHandler) createChapter(c *fiber.Ctx) error {
	var payload dto.ChapterCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	chapter, err := h.service.CreateChapter(c.Context(), callerFromContext(c), payload)
	if err != nil {
		return h.mapError(c, err, "failed to create chapter")
	}

	return c.Status(fiber.StatusCreated).JSON(utils.APIResponse{
		Success: true,
		Data:    chapter,
		Message: "chapter created",
	})
}

func (h *MaterialHandler) updateChapter(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid chapter id")
	}

	var payload dto.ChapterUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	chapter, err := h.service.UpdateChapter(c.Context(), callerFromContext(c), id, payload)
	if err != nil {
		return h.mapError(c, err, "failed to update chapter")
	}

	return utils.SendSuccess(c, "chapter updated", chapter)
}

func (h *MaterialHandler) deleteChapter(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid chapter id")
	}

	if err := h.service.DeleteChapter(c.Context(), callerFromContext(c), id); err != nil {
		return h.mapError(c, err, "failed to delete chapter")
	}

	return utils.SendSuccess(c, "chapter deleted", nil)
}

func (h *MaterialHandler) createSubChapter(c *fiber.Ctx) error {
	var payload dto.SubChapterCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	subChapter, err := h.service.CreateSubChapter(c.Context(), callerFromContext(c), payload)
	if err != nil {
		return h.mapError(c, err, "failed to create sub-chapter")
	}

	return c.Status(fiber.StatusCreated).JSON(utils.APIResponse{
		Success: true,
		Data:    subChapter,
		Message: "sub-chapter created",
	})
}

func (h *MaterialHandler) updateSubChapter(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid sub-chapter id")
	}

	var payload dto.SubChapterUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	subChapter, err := h.service.UpdateSubChapter(c.Context(), callerFromContext(c), id, payload)
	if err != nil {
		return h.mapError(c, err, "failed to update sub-chapter")
	}

	return utils.SendSuccess(c, "sub-chapter updated", subChapter)
}

func (h *MaterialHandler) deleteSubChapter(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid sub-chapter id")
	}

	if err := h.service.DeleteSubChapter(c.Context(), callerFromContext(c), id); err != nil {
		return h.mapError(c, err, "failed to delete sub-chapter")
	}

	return utils.SendSuccess(c, "sub-chapter deleted", nil)
}
