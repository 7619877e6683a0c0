package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/smartlab-id/smartlab-api/internal/dto"
	"github.com/smartlab-id/smartlab-api/internal/repository"
	"github.com/smartlab-id/smartlab-api/internal/service"
)

func newClassService(db *gorm.DB) service.ClassService {
	return service.NewClassService(repository.NewClassRepository(db), testValidator(), testLogger())
}

func newSubjectService(db *gorm.DB) service.SubjectService {
	return service.NewSubjectService(repository.NewSubjectRepository(db), testValidator(), testLogger())
}

func TestClassService_CRUD(t *testing.T) {
	db := newTestDB(t)
	svc := newClassService(db)

	ctx := context.Background()
	created, err := svc.Create(ctx, dto.ClassCreateRequest{Name: "X IPA 1"})
	require.NoError(t, err)
	require.Equal(t, "X IPA 1", created.Name)

	updated, err := svc.Update(ctx, created.ID, dto.ClassUpdateRequest{Name: strPtr("X IPA 2")})
	require.NoError(t, err)
	require.Equal(t, "X IPA 2", updated.Name)

	classes, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, classes, 1)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	require.ErrorIs(t, err, service.ErrClassNotFound)
}

func TestClassService_ValidatesName(t *testing.T) {
	db := newTestDB(t)
	svc := newClassService(db)

	_, err := svc.Create(context.Background(), dto.ClassCreateRequest{})
	require.Error(t, err)
}

func TestSubjectService_CRUD(t *testing.T) {
	db := newTestDB(t)
	svc := newSubjectService(db)

	ctx := context.Background()
	created, err := svc.Create(ctx, 10, dto.SubjectCreateRequest{Name: "Biologi", Code: "BIO"})
	require.NoError(t, err)
	require.Equal(t, "BIO", created.Code)

	updated, err := svc.Update(ctx, created.ID, dto.SubjectUpdateRequest{Description: strPtr("Biologi kelas X")})
	require.NoError(t, err)
	require.Equal(t, "Biologi kelas X", updated.Description)

	subjects, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, subjects, 1)

	require.NoError(t, svc.Delete(ctx, created.ID))
	err = svc.Delete(ctx, created.ID)
	require.ErrorIs(t, err, service.ErrSubjectNotFound)
}

func TestSubjectService_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newSubjectService(db)

	_, err := svc.Get(context.Background(), 999)
	require.ErrorIs(t, err, service.ErrSubjectNotFound)
}
