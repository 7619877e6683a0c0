package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/smartlab-id/smartlab-api/internal/dto"
	"github.com/smartlab-id/smartlab-api/internal/models"
	"github.com/smartlab-id/smartlab-api/internal/observability"
	"github.com/smartlab-id/smartlab-api/internal/repository"
)

// ProgressService records sub-chapter completion and keeps the per-material
// aggregate in sync. The aggregate is always recomputed from the completion
// set, never patched incrementally, so a lost update can only under-report
// until the next write.
type ProgressService interface {
	Update(ctx context.Context, userID uint, payload dto.ProgressUpdateRequest) (dto.ProgressUpdateResponse, error)
	GetSubChapterProgress(ctx context.Context, userID, subChapterID uint) (dto.SubChapterProgressResponse, error)
	GetMaterialProgress(ctx context.Context, userID, materialID uint) (dto.MaterialProgressResponse, error)
	ListMaterialProgress(ctx context.Context, userID uint) ([]dto.MaterialProgressResponse, error)
	ListSubChapterProgress(ctx context.Context, userID uint) ([]dto.SubChapterProgressResponse, error)
}

type progressService struct {
	progress    repository.ProgressRepository
	subChapters repository.SubChapterRepository
	dashboards  DashboardInvalidator
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewProgressService builds a new progress service. The invalidator may be
// nil when no dashboard cache is configured.
func NewProgressService(
	progress repository.ProgressRepository,
	subChapters repository.SubChapterRepository,
	dashboards DashboardInvalidator,
	validate *validator.Validate,
	logger zerolog.Logger,
) ProgressService {
	return &progressService{
		progress:    progress,
		subChapters: subChapters,
		dashboards:  dashboards,
		validator:   validate,
		logger:      logger.With().Str("component", "progress_service").Logger(),
		now:         time.Now,
	}
}

func (s *progressService) Update(ctx context.Context, userID uint, payload dto.ProgressUpdateRequest) (dto.ProgressUpdateResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProgressUpdateResponse{}, err
	}

	if _, err := s.subChapters.GetByID(ctx, payload.SubChapterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ProgressUpdateResponse{}, ErrSubChapterNotFound
		}
		return dto.ProgressUpdateResponse{}, err
	}

	materialID, err := s.subChapters.ResolveMaterialID(ctx, payload.SubChapterID)
	if err != nil {
		return dto.ProgressUpdateResponse{}, err
	}

	now := s.now()
	flag := models.SubChapterProgress{
		UserID:       userID,
		SubChapterID: payload.SubChapterID,
		Completed:    *payload.Completed,
		UpdatedAt:    now,
	}
	if err := s.progress.UpsertSubChapterProgress(ctx, &flag); err != nil {
		return dto.ProgressUpdateResponse{}, err
	}

	aggregate, err := s.recomputeMaterialProgress(ctx, userID, materialID, now)
	if err != nil {
		return dto.ProgressUpdateResponse{}, err
	}

	observability.ProgressUpdates().Inc()
	if s.dashboards != nil {
		s.dashboards.Invalidate(ctx, userID)
	}

	s.logger.Debug().
		Uint("user_id", userID).
		Uint("sub_chapter_id", payload.SubChapterID).
		Int("percentage", aggregate.Percentage).
		Msg("progress updated")

	return dto.ProgressUpdateResponse{
		SubChapterProgress: dto.NewSubChapterProgressResponse(flag),
		MaterialProgress:   dto.NewMaterialProgressResponse(aggregate),
	}, nil
}

// recomputeMaterialProgress counts the material's sub-chapters and the
// student's completed set, then upserts the aggregate row. A material with no
// sub-chapters reports zero percent. CompletedAt is set only while the
// percentage is exactly 100 and keeps its original value across repeat
// writes at 100.
func (s *progressService) recomputeMaterialProgress(ctx context.Context, userID, materialID uint, now time.Time) (models.MaterialProgress, error) {
	total, err := s.progress.CountSubChapters(ctx, materialID)
	if err != nil {
		return models.MaterialProgress{}, err
	}
	completed, err := s.progress.CountCompleted(ctx, userID, materialID)
	if err != nil {
		return models.MaterialProgress{}, err
	}

	percentage := 0
	if total > 0 {
		percentage = int(math.Round(100 * float64(completed) / float64(total)))
	}

	var completedAt *time.Time
	if percentage == 100 {
		existing, err := s.progress.GetMaterialProgress(ctx, userID, materialID)
		if err == nil && existing.CompletedAt != nil {
			completedAt = existing.CompletedAt
		} else {
			completedAt = &now
		}
	}

	aggregate := models.MaterialProgress{
		UserID:               userID,
		MaterialID:           materialID,
		CompletedSubChapters: int(completed),
		TotalSubChapters:     int(total),
		Percentage:           percentage,
		LastReadAt:           now,
		CompletedAt:          completedAt,
		UpdatedAt:            now,
	}
	if err := s.progress.UpsertMaterialProgress(ctx, &aggregate); err != nil {
		return models.MaterialProgress{}, err
	}

	return aggregate, nil
}

func (s *progressService) GetSubChapterProgress(ctx context.Context, userID, subChapterID uint) (dto.SubChapterProgressResponse, error) {
	if _, err := s.subChapters.GetByID(ctx, subChapterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubChapterProgressResponse{}, ErrSubChapterNotFound
		}
		return dto.SubChapterProgressResponse{}, err
	}

	row, err := s.progress.GetSubChapterProgress(ctx, userID, subChapterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No writes yet: report the flag as not completed instead of 404.
			return dto.SubChapterProgressResponse{SubChapterID: subChapterID}, nil
		}
		return dto.SubChapterProgressResponse{}, err
	}

	return dto.NewSubChapterProgressResponse(row), nil
}

func (s *progressService) GetMaterialProgress(ctx context.Context, userID, materialID uint) (dto.MaterialProgressResponse, error) {
	row, err := s.progress.GetMaterialProgress(ctx, userID, materialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No writes yet: report an empty aggregate instead of 404.
			return dto.MaterialProgressResponse{MaterialID: materialID}, nil
		}
		return dto.MaterialProgressResponse{}, err
	}

	return dto.NewMaterialProgressResponse(row), nil
}

func (s *progressService) ListMaterialProgress(ctx context.Context, userID uint) ([]dto.MaterialProgressResponse, error) {
	rows, err := s.progress.ListMaterialProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	return dto.NewMaterialProgressResponseSlice(rows), nil
}

func (s *progressService) ListSubChapterProgress(ctx context.Context, userID uint) ([]dto.SubChapterProgressResponse, error) {
	rows, err := s.progress.ListSubChapterProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	return dto.NewSubChapterProgressResponseSlice(rows), nil
}
