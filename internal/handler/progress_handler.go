package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/smartlab-id/smartlab-api/internal/dto"
	"github.com/smartlab-id/smartlab-api/internal/service"
	"github.com/smartlab-id/smartlab-api/internal/utils"
)

// ProgressHandler exposes material progress tracking and the student
// dashboard.
type ProgressHandler struct {
	progress   service.ProgressService
	dashboards service.DashboardService
	logger     zerolog.Logger
}

// NewProgressHandler constructs a progress handler.
func NewProgressHandler(progress service.ProgressService, dashboards service.DashboardService, logger zerolog.Logger) *ProgressHandler {
	return &ProgressHandler{
		progress:   progress,
		dashboards: dashboards,
		logger:     logger.With().Str("component", "progress_handler").Logger(),
	}
}

// Register wires progress routes. All of them operate on the caller's own
// progress.
func (h *ProgressHandler) Register(router fiber.Router) {
	router.Post("", h.update)
	router.Get("", h.listSubChapters)
	router.Get("/sub-bab/:id", h.getSubChapter)
	router.Get("/materi", h.listMaterials)
	router.Get("/materi/:id", h.getMaterial)
	router.Get("/dashboard", h.dashboard)
}

func (h *ProgressHandler) update(c *fiber.Ctx) error {
	var payload dto.ProgressUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.progress.Update(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrSubChapterNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "sub-chapter not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to update progress")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update progress")
		}
	}

	return utils.SendSuccess(c, "progress updated", result)
}

func (h *ProgressHandler) listSubChapters(c *fiber.Ctx) error {
	rows, err := h.progress.ListSubChapterProgress(c.Context(), userIDFromContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list progress")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list progress")
	}

	return utils.SendSuccess(c, "progress retrieved", rows)
}

func (h *ProgressHandler) getSubChapter(c *fiber.Ctx) error {
	subChapterID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid sub-chapter id")
	}

	row, err := h.progress.GetSubChapterProgress(c.Context(), userIDFromContext(c), subChapterID)
	if err != nil {
		if errors.Is(err, service.ErrSubChapterNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "sub-chapter not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to get progress")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to get progress")
	}

	return utils.SendSuccess(c, "progress retrieved", row)
}

func (h *ProgressHandler) listMaterials(c *fiber.Ctx) error {
	rows, err := h.progress.ListMaterialProgress(c.Context(), userIDFromContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list material progress")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list material progress")
	}

	return utils.SendSuccess(c, "material progress retrieved", rows)
}

func (h *ProgressHandler) getMaterial(c *fiber.Ctx) error {
	materialID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid material id")
	}

	row, err := h.progress.GetMaterialProgress(c.Context(), userIDFromContext(c), materialID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to get material progress")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to get material progress")
	}

	return utils.SendSuccess(c, "material progress retrieved", row)
}

func (h *ProgressHandler) dashboard(c *fiber.Ctx) error {
	dashboard, err := h.dashboards.Get(c.Context(), userIDFromContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to build dashboard")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to build dashboard")
	}

	return utils.SendSuccess(c, "dashboard retrieved", dashboard)
}
