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

// AttemptHandler exposes assessment delivery, submission, scores and resets.
type AttemptHandler struct {
	service service.AttemptService
	logger  zerolog.Logger
}

// NewAttemptHandler constructs an attempt handler.
func NewAttemptHandler(service service.AttemptService, logger zerolog.Logger) *AttemptHandler {
	return &AttemptHandler{
		service: service,
		logger:  logger.With().Str("component", "attempt_handler").Logger(),
	}
}

// Register wires attempt routes on the assessment group.
func (h *AttemptHandler) Register(router fiber.Router, studentOnly, teacherOnly fiber.Handler) {
	router.Get("/:id/attempt", studentOnly, h.deliver)
	router.Post("/:id/submit", studentOnly, h.submit)
	router.Get("/:id/score", studentOnly, h.latestScore)
	router.Get("/:id/scores", teacherOnly, h.listScores)
	router.Delete("/:id/attempts/:userId", teacherOnly, h.reset)
}

// RegisterScores wires the student-facing score history route.
func (h *AttemptHandler) RegisterScores(router fiber.Router) {
	router.Get("/me", h.myScores)
}

// deliver hands the question set to the student. When a standing attempt
// blocks entry, the previous score rides along on the conflict response.
func (h *AttemptHandler) deliver(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assessment id")
	}

	userID := userIDFromContext(c)
	delivery, err := h.service.Deliver(c.Context(), userID, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyAttempted):
			var data interface{}
			if score, scoreErr := h.service.LatestScore(c.Context(), userID, id); scoreErr == nil {
				data = score
			}
			return c.Status(fiber.StatusConflict).JSON(utils.APIResponse{
				Success: false,
				Data:    data,
				Message: "assessment already attempted",
			})
		case errors.Is(err, service.ErrAssessmentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "assessment not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to deliver assessment")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to deliver assessment")
		}
	}

	return utils.SendSuccess(c, "assessment delivered", delivery)
}

func (h *AttemptHandler) submit(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assessment id")
	}

	var payload dto.SubmissionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	score, err := h.service.Submit(c.Context(), userIDFromContext(c), id, payload)
	if err != nil {
		switch {
		case isValidationError(err), errors.Is(err, service.ErrUnknownQuestion):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrAlreadyAttempted):
			return utils.SendError(c, fiber.StatusConflict, "assessment already attempted")
		case errors.Is(err, service.ErrAssessmentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "assessment not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to score submission")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to score submission")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(utils.APIResponse{
		Success: true,
		Data:    score,
		Message: "submission scored",
	})
}

func (h *AttemptHandler) latestScore(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assessment id")
	}

	score, err := h.service.LatestScore(c.Context(), userIDFromContext(c), id)
	if err != nil {
		if errors.Is(err, service.ErrScoreNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "score not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to get score")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to get score")
	}

	return utils.SendSuccess(c, "score retrieved", score)
}

func (h *AttemptHandler) listScores(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assessment id")
	}

	scores, err := h.service.ListScores(c.Context(), callerFromContext(c), id)
	if err != nil {
		switch {
		case errors.Is(err, authz.ErrForbidden):
			return utils.SendError(c, fiber.StatusForbidden, "you do not own this assessment")
		case errors.Is(err, service.ErrAssessmentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "assessment not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to list scores")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to list scores")
		}
	}

	return utils.SendSuccess(c, "scores retrieved", scores)
}

func (h *AttemptHandler) myScores(c *fiber.Ctx) error {
	scores, err := h.service.MyScores(c.Context(), userIDFromContext(c))
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list scores")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list scores")
	}

	return utils.SendSuccess(c, "scores retrieved", scores)
}

func (h *AttemptHandler) reset(c *fiber.Ctx) error {
	assessmentID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assessment id")
	}
	userID, err := parseUintParam(c, "userId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid user id")
	}

	if err := h.service.Reset(c.Context(), callerFromContext(c), userID, assessmentID); err != nil {
		switch {
		case errors.Is(err, authz.ErrForbidden):
			return utils.SendError(c, fiber.StatusForbidden, "you do not own this assessment")
		case errors.Is(err, service.ErrAssessmentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "assessment not found")
		case errors.Is(err, service.ErrScoreNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "no attempt to reset")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to reset attempt")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to reset attempt")
		}
	}

	return utils.SendSuccess(c, "attempt reset", nil)
}
