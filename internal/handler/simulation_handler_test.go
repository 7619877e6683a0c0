package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/smartlab-id/smartlab-api/internal/dto"
	"github.com/smartlab-id/smartlab-api/internal/handler"
	"github.com/smartlab-id/smartlab-api/internal/models"
	"github.com/smartlab-id/smartlab-api/internal/service"
)

type stubSimulationService struct {
	progress   dto.SimulationProgressResponse
	advanceErr error
	check      dto.CompletionCheckResponse
	checkErr   error
}

func (s stubSimulationService) ListSimulations(context.Context) ([]models.Simulation, error) {
	return []models.Simulation{{ID: 1, Slug: "rangkaian-listrik", Title: "Rangkaian Listrik"}}, nil
}

func (s stubSimulationService) ListProgress(context.Context, uint) ([]dto.SimulationProgressResponse, error) {
	return []dto.SimulationProgressResponse{s.progress}, nil
}

func (s stubSimulationService) Advance(context.Context, uint, dto.StageAdvanceRequest) (dto.SimulationProgressResponse, error) {
	return s.progress, s.advanceErr
}

func (s stubSimulationService) CheckCompleted(context.Context, uint, string) (dto.CompletionCheckResponse, error) {
	return s.check, s.checkErr
}

func (s stubSimulationService) MarkCompleted(context.Context, uint, dto.MarkCompletedRequest) (dto.SimulationProgressResponse, error) {
	return s.progress, s.advanceErr
}

func newSimulationApp(svc service.SimulationService) *fiber.App {
	app := fiber.New()
	handler.NewSimulationHandler(svc, zerolog.Nop()).Register(app.Group("/api/simulasi"))
	return app
}

func TestSimulationHandlerAdvance(t *testing.T) {
	app := newSimulationApp(stubSimulationService{
		progress: dto.SimulationProgressResponse{SimulationID: 1, CurrentStage: 2},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/simulasi/progress", strings.NewReader(`{"simulasi_id":1,"next_stage":2}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSimulationHandlerAdvanceSkippedStage(t *testing.T) {
	app := newSimulationApp(stubSimulationService{advanceErr: service.ErrStageSkipped})

	req := httptest.NewRequest(http.MethodPost, "/api/simulasi/progress", strings.NewReader(`{"simulasi_id":1,"next_stage":4}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestSimulationHandlerAdvanceOutOfRange(t *testing.T) {
	app := newSimulationApp(stubSimulationService{advanceErr: service.ErrStageOutOfRange})

	req := httptest.NewRequest(http.MethodPost, "/api/simulasi/progress", strings.NewReader(`{"simulasi_id":1,"next_stage":9}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSimulationHandlerCheckCompleted(t *testing.T) {
	app := newSimulationApp(stubSimulationService{
		check: dto.CompletionCheckResponse{SimulationSlug: "rangkaian-listrik", Completed: true},
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/simulasi/rangkaian-listrik/completed", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSimulationHandlerUnknownSlug(t *testing.T) {
	app := newSimulationApp(stubSimulationService{checkErr: service.ErrSimulationNotFound})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/simulasi/tidak-ada/completed", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSimulationHandlerList(t *testing.T) {
	app := newSimulationApp(stubSimulationService{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/simulasi", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
