package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/smartlab-id/smartlab-api/internal/dto"
	"github.com/smartlab-id/smartlab-api/internal/repository"
	"github.com/smartlab-id/smartlab-api/internal/service"
)

func newCachedDashboard(t *testing.T, db *gorm.DB) (service.DashboardService, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc := service.NewDashboardService(
		repository.NewProgressRepository(db),
		client,
		time.Minute,
		testLogger(),
	)
	return svc, server
}

func TestDashboardService_Get_Aggregates(t *testing.T) {
	db := newTestDB(t)
	_, subChapters := seedMaterialTree(t, db, 2)
	progress := newProgressService(db)
	dashboard, _ := newCachedDashboard(t, db)

	ctx := context.Background()
	for _, subChapter := range subChapters {
		_, err := progress.Update(ctx, 7, dto.ProgressUpdateRequest{
			SubChapterID: subChapter.ID,
			Completed:    boolPtr(true),
		})
		require.NoError(t, err)
	}

	result, err := dashboard.Get(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, 1, result.TotalMaterials)
	require.Equal(t, 1, result.CompletedMaterials)
	require.Equal(t, 100, result.AveragePercentage)
	require.Len(t, result.Materials, 1)
}

func TestDashboardService_Get_EmptyForNewStudent(t *testing.T) {
	db := newTestDB(t)
	dashboard, _ := newCachedDashboard(t, db)

	result, err := dashboard.Get(context.Background(), 7)
	require.NoError(t, err)
	require.Zero(t, result.TotalMaterials)
	require.Zero(t, result.CompletedMaterials)
	require.Zero(t, result.AveragePercentage)
}

func TestDashboardService_Get_CachesResult(t *testing.T) {
	db := newTestDB(t)
	_, subChapters := seedMaterialTree(t, db, 2)
	progress := newProgressService(db)
	dashboard, server := newCachedDashboard(t, db)

	ctx := context.Background()
	_, err := progress.Update(ctx, 7, dto.ProgressUpdateRequest{
		SubChapterID: subChapters[0].ID,
		Completed:    boolPtr(true),
	})
	require.NoError(t, err)

	first, err := dashboard.Get(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, 50, first.AveragePercentage)
	require.True(t, server.Exists("smartlab:dashboard:7"))

	// A second progress write without invalidation still reads the stale
	// cached dashboard.
	_, err = progress.Update(ctx, 7, dto.ProgressUpdateRequest{
		SubChapterID: subChapters[1].ID,
		Completed:    boolPtr(true),
	})
	require.NoError(t, err)

	stale, err := dashboard.Get(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, 50, stale.AveragePercentage)

	dashboard.Invalidate(ctx, 7)
	require.False(t, server.Exists("smartlab:dashboard:7"))

	fresh, err := dashboard.Get(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, 100, fresh.AveragePercentage)
}

func TestDashboardService_ProgressWriteInvalidates(t *testing.T) {
	db := newTestDB(t)
	_, subChapters := seedMaterialTree(t, db, 2)
	dashboard, server := newCachedDashboard(t, db)
	progress := service.NewProgressService(
		repository.NewProgressRepository(db),
		repository.NewSubChapterRepository(db),
		dashboard,
		testValidator(),
		testLogger(),
	)

	ctx := context.Background()
	_, err := progress.Update(ctx, 7, dto.ProgressUpdateRequest{
		SubChapterID: subChapters[0].ID,
		Completed:    boolPtr(true),
	})
	require.NoError(t, err)

	_, err = dashboard.Get(ctx, 7)
	require.NoError(t, err)
	require.True(t, server.Exists("smartlab:dashboard:7"))

	_, err = progress.Update(ctx, 7, dto.ProgressUpdateRequest{
		SubChapterID: subChapters[1].ID,
		Completed:    boolPtr(true),
	})
	require.NoError(t, err)
	require.False(t, server.Exists("smartlab:dashboard:7"))

	fresh, err := dashboard.Get(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, 100, fresh.AveragePercentage)
}

func TestDashboardService_NilCacheRecomputes(t *testing.T) {
	db := newTestDB(t)
	_, subChapters := seedMaterialTree(t, db, 2)
	progress := newProgressService(db)
	dashboard := service.NewDashboardService(
		repository.NewProgressRepository(db),
		nil,
		time.Minute,
		testLogger(),
	)

	ctx := context.Background()
	_, err := progress.Update(ctx, 7, dto.ProgressUpdateRequest{
		SubChapterID: subChapters[0].ID,
		Completed:    boolPtr(true),
	})
	require.NoError(t, err)

	result, err := dashboard.Get(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, 50, result.AveragePercentage)

	// Invalidate is a no-op without a cache client.
	dashboard.Invalidate(ctx, 7)
}
