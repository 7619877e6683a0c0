package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/smartlab-id/smartlab-api/internal/authz"
	"github.com/smartlab-id/smartlab-api/internal/dto"
	"github.com/smartlab-id/smartlab-api/internal/handler"
	"github.com/smartlab-id/smartlab-api/internal/service"
	"github.com/smartlab-id/smartlab-api/internal/utils"
)

type stubAttemptService struct {
	delivery   dto.DeliveryResponse
	deliverErr error
	score      dto.ScoreResponse
	submitErr  error
	latest     dto.ScoreResponse
	latestErr  error
	resetErr   error
}

func (s stubAttemptService) Deliver(context.Context, uint, uint) (dto.DeliveryResponse, error) {
	return s.delivery, s.deliverErr
}

func (s stubAttemptService) Submit(context.Context, uint, uint, dto.SubmissionRequest) (dto.ScoreResponse, error) {
	return s.score, s.submitErr
}

func (s stubAttemptService) LatestScore(context.Context, uint, uint) (dto.ScoreResponse, error) {
	return s.latest, s.latestErr
}

func (s stubAttemptService) ListScores(context.Context, authz.Caller, uint) ([]dto.ScoreResponse, error) {
	return nil, nil
}

func (s stubAttemptService) MyScores(context.Context, uint) ([]dto.ScoreResponse, error) {
	return []dto.ScoreResponse{s.latest}, nil
}

func (s stubAttemptService) Reset(context.Context, authz.Caller, uint, uint) error {
	return s.resetErr
}

func passthrough(c *fiber.Ctx) error {
	return c.Next()
}

func newAttemptApp(svc service.AttemptService) *fiber.App {
	app := fiber.New()
	h := handler.NewAttemptHandler(svc, zerolog.Nop())
	h.Register(app.Group("/api/asesmen"), passthrough, passthrough)
	h.RegisterScores(app.Group("/api/nilai"))
	return app
}

func TestAttemptHandlerDeliver(t *testing.T) {
	app := newAttemptApp(stubAttemptService{
		delivery: dto.DeliveryResponse{AssessmentID: 1, Title: "Kuis", DurationMinutes: 30, DurationSeconds: 1800},
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/asesmen/1/attempt", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAttemptHandlerDeliverConflictCarriesScore(t *testing.T) {
	app := newAttemptApp(stubAttemptService{
		deliverErr: service.ErrAlreadyAttempted,
		latest:     dto.ScoreResponse{ID: 5, Score: 80},
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/asesmen/1/attempt", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var body utils.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.False(t, body.Success)
	require.NotNil(t, body.Data)
}

func TestAttemptHandlerSubmit(t *testing.T) {
	app := newAttemptApp(stubAttemptService{
		score: dto.ScoreResponse{ID: 1, Score: 90},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/asesmen/1/submit", strings.NewReader(`{"answers":[{"question_id":1,"answer":"a"}]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestAttemptHandlerSubmitConflict(t *testing.T) {
	app := newAttemptApp(stubAttemptService{submitErr: service.ErrAlreadyAttempted})

	req := httptest.NewRequest(http.MethodPost, "/api/asesmen/1/submit", strings.NewReader(`{"answers":[{"question_id":1,"answer":"a"}]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAttemptHandlerResetForbidden(t *testing.T) {
	app := newAttemptApp(stubAttemptService{resetErr: authz.ErrForbidden})

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/asesmen/1/attempts/2", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAttemptHandlerRejectsBadIDs(t *testing.T) {
	app := newAttemptApp(stubAttemptService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/asesmen/abc/attempt", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/asesmen/0/score", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
