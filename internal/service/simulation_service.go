package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/smartlab-id/smartlab-api/internal/dto"
	"github.com/smartlab-id/smartlab-api/internal/models"
	"github.com/smartlab-id/smartlab-api/internal/observability"
	"github.com/smartlab-id/smartlab-api/internal/repository"
)

var (
	// ErrSimulationNotFound indicates the requested simulation does not exist.
	ErrSimulationNotFound = errors.New("simulation not found")
	// ErrStageOutOfRange indicates the requested stage is outside the valid
	// stage numbers.
	ErrStageOutOfRange = errors.New("stage out of range")
	// ErrStageSkipped indicates the requested stage jumps past the next
	// unlocked stage.
	ErrStageSkipped = errors.New("stage not yet unlocked")
)

// SimulationService tracks per-student stage progress through the fixed
// simulation catalog. Stages unlock strictly one at a time and the recorded
// stage never decreases.
type SimulationService interface {
	ListSimulations(ctx context.Context) ([]models.Simulation, error)
	ListProgress(ctx context.Context, userID uint) ([]dto.SimulationProgressResponse, error)
	Advance(ctx context.Context, userID uint, payload dto.StageAdvanceRequest) (dto.SimulationProgressResponse, error)
	CheckCompleted(ctx context.Context, userID uint, slug string) (dto.CompletionCheckResponse, error)
	MarkCompleted(ctx context.Context, userID uint, payload dto.MarkCompletedRequest) (dto.SimulationProgressResponse, error)
}

type simulationService struct {
	repo      repository.SimulationRepository
	validator *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewSimulationService builds a new simulation service.
func NewSimulationService(repo repository.SimulationRepository, validate *validator.Validate, logger zerolog.Logger) SimulationService {
	return &simulationService{
		repo:      repo,
		validator: validate,
		logger:    logger.With().Str("component", "simulation_service").Logger(),
		now:       time.Now,
	}
}

func (s *simulationService) ListSimulations(ctx context.Context) ([]models.Simulation, error) {
	return s.repo.ListSimulations(ctx)
}

func (s *simulationService) ListProgress(ctx context.Context, userID uint) ([]dto.SimulationProgressResponse, error) {
	rows, err := s.repo.ListProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.SimulationProgressResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, dto.NewSimulationProgressResponse(row))
	}
	return responses, nil
}

// Advance moves the student to the requested stage. The stage must lie in
// the valid range and may not jump past current+1; lower stages are allowed
// for revisits and leave the recorded maximum untouched. Reaching the final
// stage marks the simulation completed.
func (s *simulationService) Advance(ctx context.Context, userID uint, payload dto.StageAdvanceRequest) (dto.SimulationProgressResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SimulationProgressResponse{}, err
	}

	if payload.NextStage < models.SimulationMinStage || payload.NextStage > models.SimulationFinalStage {
		observability.SimulationAdvances().WithLabelValues("rejected").Inc()
		return dto.SimulationProgressResponse{}, ErrStageOutOfRange
	}

	if _, err := s.repo.GetSimulation(ctx, payload.SimulationID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SimulationProgressResponse{}, ErrSimulationNotFound
		}
		return dto.SimulationProgressResponse{}, err
	}

	currentStage := 0
	var completedAt *time.Time
	alreadyCompleted := false
	existing, err := s.repo.GetProgress(ctx, userID, payload.SimulationID)
	switch {
	case err == nil:
		currentStage = existing.CurrentStage
		completedAt = existing.CompletedAt
		alreadyCompleted = existing.Completed
	case errors.Is(err, gorm.ErrRecordNotFound):
		// First touch: only stage one is reachable.
	default:
		return dto.SimulationProgressResponse{}, err
	}

	if payload.NextStage > currentStage+1 {
		observability.SimulationAdvances().WithLabelValues("rejected").Inc()
		return dto.SimulationProgressResponse{}, ErrStageSkipped
	}

	now := s.now()
	stage := currentStage
	if payload.NextStage > stage {
		stage = payload.NextStage
	}

	completed := alreadyCompleted || stage == models.SimulationFinalStage
	if completed && completedAt == nil {
		completedAt = &now
	}

	row := models.SimulationProgress{
		UserID:         userID,
		SimulationID:   payload.SimulationID,
		CurrentStage:   stage,
		Completed:      completed,
		CompletedAt:    completedAt,
		LastAccessedAt: now,
		UpdatedAt:      now,
	}
	if err := s.repo.UpsertProgress(ctx, &row); err != nil {
		return dto.SimulationProgressResponse{}, err
	}

	observability.SimulationAdvances().WithLabelValues("advanced").Inc()
	s.logger.Debug().
		Uint("user_id", userID).
		Uint("simulation_id", payload.SimulationID).
		Int("stage", stage).
		Msg("simulation stage recorded")

	return dto.NewSimulationProgressResponse(row), nil
}

func (s *simulationService) CheckCompleted(ctx context.Context, userID uint, slug string) (dto.CompletionCheckResponse, error) {
	simulation, err := s.repo.GetSimulationBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CompletionCheckResponse{}, ErrSimulationNotFound
		}
		return dto.CompletionCheckResponse{}, err
	}

	response := dto.CompletionCheckResponse{SimulationSlug: simulation.Slug}

	progress, err := s.repo.GetProgress(ctx, userID, simulation.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response, nil
		}
		return dto.CompletionCheckResponse{}, err
	}

	response.Completed = progress.Completed
	return response, nil
}

// MarkCompleted is the unconditional completion shortcut used when the
// client finishes the final stage inside the simulation itself.
func (s *simulationService) MarkCompleted(ctx context.Context, userID uint, payload dto.MarkCompletedRequest) (dto.SimulationProgressResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SimulationProgressResponse{}, err
	}

	simulation, err := s.repo.GetSimulationBySlug(ctx, payload.SimulationSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SimulationProgressResponse{}, ErrSimulationNotFound
		}
		return dto.SimulationProgressResponse{}, err
	}

	now := s.now()
	completedAt := &now
	if existing, err := s.repo.GetProgress(ctx, userID, simulation.ID); err == nil && existing.CompletedAt != nil {
		completedAt = existing.CompletedAt
	}

	row := models.SimulationProgress{
		UserID:         userID,
		SimulationID:   simulation.ID,
		CurrentStage:   models.SimulationFinalStage,
		Completed:      true,
		CompletedAt:    completedAt,
		LastAccessedAt: now,
		UpdatedAt:      now,
	}
	if err := s.repo.UpsertProgress(ctx, &row); err != nil {
		return dto.SimulationProgressResponse{}, err
	}

	observability.SimulationAdvances().WithLabelValues("completed").Inc()
	s.logger.Info().
		Uint("user_id", userID).
		Str("slug", simulation.Slug).
		Msg("simulation marked completed")

	return dto.NewSimulationProgressResponse(row), nil
}
