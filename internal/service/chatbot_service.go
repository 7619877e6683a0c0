package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/smartlab-id/smartlab-api/internal/dto"
	"github.com/smartlab-id/smartlab-api/internal/observability"
)

// chatbotFallback is returned whenever the workflow cannot produce an
// answer. Relay failures never surface as API errors.
const chatbotFallback = "Maaf, saya sedang tidak dapat menjawab pertanyaan Anda. Silakan coba lagi nanti."

// ChatbotConfig wires the external workflow endpoint.
type ChatbotConfig struct {
	WorkflowURL string
	DocumentRef string
	Timeout     time.Duration
}

// ChatbotService relays student questions to the external chatbot workflow.
// The relay is stateless; no conversation history is kept on this side.
type ChatbotService interface {
	Ask(ctx context.Context, userID uint, userName string, payload dto.ChatbotAskRequest) (dto.ChatbotAskResponse, error)
}

type chatbotService struct {
	cfg       ChatbotConfig
	client    *http.Client
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewChatbotService builds a new chatbot relay.
func NewChatbotService(cfg ChatbotConfig, validate *validator.Validate, logger zerolog.Logger) ChatbotService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &chatbotService{
		cfg:       cfg,
		client:    &http.Client{Timeout: timeout},
		validator: validate,
		logger:    logger.With().Str("component", "chatbot_service").Logger(),
		tracer:    otel.Tracer("github.com/smartlab-id/smartlab-api/internal/service/chatbot"),
	}
}

func (s *chatbotService) Ask(ctx context.Context, userID uint, userName string, payload dto.ChatbotAskRequest) (dto.ChatbotAskResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ChatbotAskResponse{}, err
	}

	ctx, span := s.tracer.Start(ctx, "chatbot.ask", trace.WithAttributes(
		attribute.Int("chatbot.user_id", int(userID)),
	))
	defer span.End()

	if s.cfg.WorkflowURL == "" {
		observability.ChatbotRequests().WithLabelValues("unconfigured").Inc()
		span.SetStatus(codes.Error, "workflow url not configured")
		return dto.ChatbotAskResponse{Answer: chatbotFallback}, nil
	}

	body, err := json.Marshal(map[string]any{
		"document":  s.cfg.DocumentRef,
		"question":  payload.Question,
		"user_id":   userID,
		"user_name": userName,
	})
	if err != nil {
		return dto.ChatbotAskResponse{}, fmt.Errorf("encode chatbot payload: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.WorkflowURL, bytes.NewReader(body))
	if err != nil {
		return dto.ChatbotAskResponse{}, fmt.Errorf("build chatbot request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := s.client.Do(request)
	if err != nil {
		observability.ChatbotRequests().WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "workflow unreachable")
		s.logger.Warn().Err(err).Msg("chatbot workflow request failed")
		return dto.ChatbotAskResponse{Answer: chatbotFallback}, nil
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(response.Body, 1<<20))
	if err != nil {
		observability.ChatbotRequests().WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		s.logger.Warn().Err(err).Msg("chatbot workflow response unreadable")
		return dto.ChatbotAskResponse{Answer: chatbotFallback}, nil
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		observability.ChatbotRequests().WithLabelValues("error").Inc()
		span.SetStatus(codes.Error, "workflow error status")
		s.logger.Warn().Int("status", response.StatusCode).Msg("chatbot workflow returned error status")
		return dto.ChatbotAskResponse{Answer: chatbotFallback}, nil
	}

	answer, ok := extractAnswer(raw)
	if !ok {
		observability.ChatbotRequests().WithLabelValues("unparsed").Inc()
		span.SetStatus(codes.Error, "unrecognized response shape")
		s.logger.Warn().Msg("chatbot workflow response did not match any known shape")
		return dto.ChatbotAskResponse{Answer: chatbotFallback}, nil
	}

	observability.ChatbotRequests().WithLabelValues("ok").Inc()
	span.SetStatus(codes.Ok, "answered")

	return dto.ChatbotAskResponse{Answer: answer}, nil
}

// extractAnswer tries the known workflow response shapes in order: a
// content-parts array, then the response, answer and message fields, and
// finally a bare JSON string.
func extractAnswer(raw []byte) (string, bool) {
	var parts struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(raw, &parts); err == nil && len(parts.Content) > 0 {
		var builder strings.Builder
		for _, part := range parts.Content {
			if part.Type == "" || part.Type == "text" {
				builder.WriteString(part.Text)
			}
		}
		if text := strings.TrimSpace(builder.String()); text != "" {
			return text, true
		}
	}

	var fields struct {
		Response string `json:"response"`
		Answer   string `json:"answer"`
		Message  string `json:"message"`
	}
	if err := json.Unmarshal(raw, &fields); err == nil {
		for _, candidate := range []string{fields.Response, fields.Answer, fields.Message} {
			if text := strings.TrimSpace(candidate); text != "" {
				return text, true
			}
		}
	}

	var plain string
	if err := json.Unmarshal(raw, &plain); err == nil {
		if text := strings.TrimSpace(plain); text != "" {
			return text, true
		}
	}

	return "", false
}
