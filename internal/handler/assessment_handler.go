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

// AssessmentHandler exposes assessment authoring and the question bank.
type AssessmentHandler struct {
	service service.AssessmentService
	logger  zerolog.Logger
}

// NewAssessmentHandler constructs an assessment handler.
func NewAssessmentHandler(service service.AssessmentService, logger zerolog.Logger) *AssessmentHandler {
	return &AssessmentHandler{
		service: service,
		logger:  logger.With().Str("component", "assessment_handler").Logger(),
	}
}

// Register wires assessment authoring routes.
func (h *AssessmentHandler) Register(router fiber.Router, teacherOnly fiber.Handler) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
	router.Post("", teacherOnly, h.create)
	router.Put("/:id", teacherOnly, h.update)
	router.Delete("/:id", teacherOnly, h.delete)

	router.Get("/:id/questions", teacherOnly, h.listQuestions)
	router.Post("/:id/questions", teacherOnly, h.createQuestion)
}

// RegisterQuestions wires direct question routes.
func (h *AssessmentHandler) RegisterQuestions(router fiber.Router, teacherOnly fiber.Handler) {
	router.Put("/:id", teacherOnly, h.updateQuestion)
	router.Delete("/:id", teacherOnly, h.deleteQuestion)
}

func (h *AssessmentHandler) mapError(c *fiber.Ctx, err error, action string) error {
	switch {
	case isValidationError(err):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrQuestionIncomplete):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, authz.ErrForbidden):
		return utils.SendError(c, fiber.StatusForbidden, "you do not own this assessment")
	case errors.Is(err, service.ErrAssessmentNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "assessment not found")
	case errors.Is(err, service.ErrQuestionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "question not found")
	default:
		requestLogger(h.logger, c).Error().Err(err).Str("action", action).Msg("assessment operation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, action)
	}
}

func (h *AssessmentHandler) list(c *fiber.Ctx) error {
	var filter service.AssessmentFilter
	if err := c.QueryParser(&filter); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	assessments, err := h.service.List(c.Context(), callerFromContext(c), filter)
	if err != nil {
		return h.mapError(c, err, "failed to list assessments")
	}

	return utils.SendSuccess(c, "assessments retrieved", assessments)
}

func (h *AssessmentHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assessment id")
	}

	assessment, err := h.service.Get(c.Context(), id)
	if err != nil {
		return h.mapError(c, err, "failed to get assessment")
	}

	return utils.SendSuccess(c, "assessment retrieved", assessment)
}

func (h *AssessmentHandler) create(c *fiber.Ctx) error {
	var payload dto.AssessmentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	assessment, err := h.service.Create(c.Context(), callerFromContext(c), payload)
	if err != nil {
		return h.mapError(c, err, "failed to create assessment")
	}

	return c.Status(fiber.StatusCreated).JSON(utils.APIResponse{
		Success: true,
		Data:    assessment,
		Message: "assessment created",
	})
}

func (h *AssessmentHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assessment id")
	}

	var payload dto.AssessmentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	assessment, err := h.service.Update(c.Context(), callerFromContext(c), id, payload)
	if err != nil {
		return h.mapError(c, err, "failed to update assessment")
	}

	return utils.SendSuccess(c, "assessment updated", assessment)
}

func (h *AssessmentHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assessment id")
	}

	if err := h.service.Delete(c.Context(), callerFromContext(c), id); err != nil {
		return h.mapError(c, err, "failed to delete assessment")
	}

	return utils.SendSuccess(c, "assessment deleted", nil)
}

func (h *AssessmentHandler) listQuestions(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assessment id")
	}

	questions, err := h.service.ListQuestions(c.Context(), callerFromContext(c), id)
	if err != nil {
		return h.mapError(c, err, "failed to list questions")
	}

	return utils.SendSuccess(c, "questions retrieved", questions)
}

func (h *AssessmentHandler) createQuestion(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid assessment id")
	}

	var payload dto.QuestionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	question, err := h.service.CreateQuestion(c.Context(), callerFromContext(c), id, payload)
	if err != nil {
		return h.mapError(c, err, "failed to create question")
	}

	return c.Status(fiber.StatusCreated).JSON(utils.APIResponse{
		Success: true,
		Data:    question,
		Message: "question created",
	})
}

func (h *AssessmentHandler) updateQuestion(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid question id")
	}

	var payload dto.QuestionUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	question, err := h.service.UpdateQuestion(c.Context(), callerFromContext(c), id, payload)
	if err != nil {
		return h.mapError(c, err, "failed to update question")
	}

	return utils.SendSuccess(c, "question updated", question)
}

func (h *AssessmentHandler) deleteQuestion(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid question id")
	}

	if err := h.service.DeleteQuestion(c.Context(), callerFromContext(c), id); err != nil {
		return h.mapError(c, err, "failed to delete question")
	}

	return utils.SendSuccess(c, "question deleted", nil)
}
