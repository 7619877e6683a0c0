package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/smartlab-id/smartlab-api/internal/dto"
	"github.com/smartlab-id/smartlab-api/internal/service"
	"github.com/smartlab-id/smartlab-api/internal/utils"
)

// AccountHandler exposes user listings and teacher provisioning.
type AccountHandler struct {
	service service.AccountService
	logger  zerolog.Logger
}

// NewAccountHandler constructs an account handler.
func NewAccountHandler(service service.AccountService, logger zerolog.Logger) *AccountHandler {
	return &AccountHandler{
		service: service,
		logger:  logger.With().Str("component", "account_handler").Logger(),
	}
}

// Register wires user routes. Listing and provisioning are admin-only.
func (h *AccountHandler) Register(router fiber.Router, adminOnly fiber.Handler) {
	router.Get("", adminOnly, h.list)
	router.Get("/me", h.me)
	router.Get("/:id", adminOnly, h.get)
	router.Post("/guru", adminOnly, h.provisionTeacher)
}

func (h *AccountHandler) list(c *fiber.Ctx) error {
	var filter dto.UserFilter
	if err := c.QueryParser(&filter); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid query parameters")
	}

	users, err := h.service.List(c.Context(), filter)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to list users")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list users")
	}

	return utils.SendSuccess(c, "users retrieved", users)
}

func (h *AccountHandler) me(c *fiber.Ctx) error {
	user, err := h.service.Get(c.Context(), userIDFromContext(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to load profile")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load profile")
	}

	return utils.SendSuccess(c, "profile retrieved", user)
}

func (h *AccountHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid user id")
	}

	user, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("failed to get user")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to get user")
	}

	return utils.SendSuccess(c, "user retrieved", user)
}

func (h *AccountHandler) provisionTeacher(c *fiber.Ctx) error {
	var payload dto.TeacherProvisionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	account, err := h.service.ProvisionTeacher(c.Context(), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEmailTaken):
			return utils.SendError(c, fiber.StatusConflict, "email address already in use")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("failed to provision teacher")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to provision teacher")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(utils.APIResponse{
		Success: true,
		Data:    account,
		Message: "teacher account created",
	})
}
