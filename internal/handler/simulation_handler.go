package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/smartlab-id/smartlab-api/internal/dto"
	"github.com/smartlab-id/smartlab-api/internal/service"
	"github.com/smartlab-id/smartlab-api/internal/utils"
)

// SimulationHandler exposes the simulation catalog and stage tracking.
type SimulationHandler struct {
	service service.SimulationService
	logger  zerolog.Logger
}

// NewSimulationHandler constructs a simulation handler.
func NewSimulationHandler(service service.SimulationService, logger zerolog.Logger) *SimulationHandler {
	return &SimulationHandler{
		service: service,
		logger:  logger.With().Str("component", "simulation_handler").Logger(),
	}
}

// Register wires simulation routes. Stage writes are student actions.
func (h *SimulationHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/progress", h.listProgress)
	router.Post("/progress", h.advance)
	router.Get("/:slug/completed", h.checkCompleted)
	router.Post("/completed", h.markCompleted)
}

func (h *SimulationHandler) list(c *fiber.Ctx) error {
	simulations, err := h.service.ListSimulations(c.Context())
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list simulations")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list simulations")
	}

	return utils.SendSuccess(c, "simulations retrieved", simulations)
}

func (h *SimulationHandler) listProgress(c *fiber.Ctx) error {
	progress, err := h.service.ListProgress(c.Context(), userIDFromContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list simulation progress")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list simulation progress")
	}

	return utils.SendSuccess(c, "simulation progress retrieved", progress)
}

func (h *SimulationHandler) advance(c *fiber.Ctx) error {
	var payload dto.StageAdvanceRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	progress, err := h.service.Advance(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrStageOutOfRange):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrStageSkipped):
			return utils.SendError(c, fiber.StatusUnprocessableEntity, "stage not yet unlocked")
		case errors.Is(err, service.ErrSimulationNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "simulation not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to record stage")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to record stage")
		}
	}

	return utils.SendSuccess(c, "stage recorded", progress)
}

func (h *SimulationHandler) checkCompleted(c *fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid simulation slug")
	}

	result, err := h.service.CheckCompleted(c.Context(), userIDFromContext(c), slug)
	if err != nil {
		if errors.Is(err, service.ErrSimulationNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "simulation not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to check completion")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to check completion")
	}

	return utils.SendSuccess(c, "completion status retrieved", result)
}

func (h *SimulationHandler) markCompleted(c *fiber.Ctx) error {
	var payload dto.MarkCompletedRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	progress, err := h.service.MarkCompleted(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrSimulationNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "simulation not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to mark completion")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to mark completion")
		}
	}

	return utils.SendSuccess(c, "simulation completed", progress)
}
