package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/smartlab-id/smartlab-api/internal/dto"
	"github.com/smartlab-id/smartlab-api/internal/repository"
)

// DashboardInvalidator drops a student's cached dashboard after a progress
// write.
type DashboardInvalidator interface {
	Invalidate(ctx context.Context, userID uint)
}

// DashboardService aggregates a student's material progress. Results are
// cached in Redis for a short TTL because the dashboard is read far more
// often than progress changes.
type DashboardService interface {
	DashboardInvalidator
	Get(ctx context.Context, userID uint) (dto.DashboardResponse, error)
}

type dashboardService struct {
	progress repository.ProgressRepository
	cache    *redis.Client
	ttl      time.Duration
	logger   zerolog.Logger
}

// NewDashboardService builds a new dashboard service. The cache client may be
// nil, in which case every read recomputes.
func NewDashboardService(progress repository.ProgressRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		progress: progress,
		cache:    cache,
		ttl:      ttl,
		logger:   logger.With().Str("component", "dashboard_service").Logger(),
	}
}

func dashboardCacheKey(userID uint) string {
	return fmt.Sprintf("smartlab:dashboard:%d", userID)
}

func (s *dashboardService) Get(ctx context.Context, userID uint) (dto.DashboardResponse, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, dashboardCacheKey(userID)).Result()
		if err == nil {
			var cached dto.DashboardResponse
			if unmarshalErr := json.Unmarshal([]byte(raw), &cached); unmarshalErr == nil {
				return cached, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Uint("user_id", userID).Msg("dashboard cache read failed")
		}
	}

	rows, err := s.progress.ListMaterialProgress(ctx, userID)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	dashboard := dto.DashboardResponse{
		TotalMaterials: len(rows),
		Materials:      dto.NewMaterialProgressResponseSlice(rows),
	}

	sum := 0
	for _, row := range rows {
		sum += row.Percentage
		if row.Percentage == 100 {
			dashboard.CompletedMaterials++
		}
	}
	if len(rows) > 0 {
		dashboard.AveragePercentage = int(math.Round(float64(sum) / float64(len(rows))))
	}

	if s.cache != nil {
		payload, err := json.Marshal(dashboard)
		if err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey(userID), payload, s.ttl).Err(); err != nil {
				s.logger.Warn().Err(err).Uint("user_id", userID).Msg("dashboard cache write failed")
			}
		}
	}

	return dashboard, nil
}

func (s *dashboardService) Invalidate(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, dashboardCacheKey(userID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("user_id", userID).Msg("dashboard cache invalidation failed")
	}
}
