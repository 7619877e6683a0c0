package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/smartlab-id/smartlab-api/internal/dto"
	"github.com/smartlab-id/smartlab-api/internal/service"
	"github.com/smartlab-id/smartlab-api/internal/utils"
)

// ChatbotHandler relays questions to the external chatbot workflow.
type ChatbotHandler struct {
	service service.ChatbotService
	logger  zerolog.Logger
}

// NewChatbotHandler constructs a chatbot handler.
func NewChatbotHandler(service service.ChatbotService, logger zerolog.Logger) *ChatbotHandler {
	return &ChatbotHandler{
		service: service,
		logger:  logger.With().Str("component", "chatbot_handler").Logger(),
	}
}

// Register wires the chatbot route.
func (h *ChatbotHandler) Register(router fiber.Router) {
	router.Post("/ask", h.ask)
}

func (h *ChatbotHandler) ask(c *fiber.Ctx) error {
	var payload dto.ChatbotAskRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	answer, err := h.service.Ask(c.Context(), userIDFromContext(c), userNameFromContext(c), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("chatbot relay failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "chatbot relay failed")
	}

	return utils.SendSuccess(c, "answer retrieved", answer)
}
