package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/smartlab-id/smartlab-api/internal/authz"
	"github.com/smartlab-id/smartlab-api/internal/dto"
	"github.com/smartlab-id/smartlab-api/internal/models"
	"github.com/smartlab-id/smartlab-api/internal/repository"
	"github.com/smartlab-id/smartlab-api/internal/service"
)

func newMaterialService(db *gorm.DB) service.MaterialService {
	return service.NewMaterialService(
		repository.NewMaterialRepository(db),
		repository.NewChapterRepository(db),
		repository.NewSubChapterRepository(db),
		authz.NewOwnerAuthorizer(),
		testValidator(),
		testLogger(),
	)
}

func seedSubject(t *testing.T, db *gorm.DB, ownerID uint) models.Subject {
	t.Helper()

	owner := models.User{FullName: "Guru Kimia", Email: "guru.kimia@smartlab.sch.id", Role: models.RoleGuru}
	owner.ID = ownerID
	require.NoError(t, db.Create(&owner).Error)

	subject := models.Subject{Name: "Kimia", Code: "KIM", CreatedByID: ownerID}
	require.NoError(t, db.Create(&subject).Error)
	return subject
}

func TestMaterialService_ChapterOrderIndexAppends(t *testing.T) {
	db := newTestDB(t)
	subject := seedSubject(t, db, 10)
	svc := newMaterialService(db)
	owner := authz.Caller{UserID: 10, Role: models.RoleGuru}

	ctx := context.Background()
	material, err := svc.Create(ctx, owner, dto.MaterialCreateRequest{
		Title:     "Struktur Atom",
		SubjectID: subject.ID,
	})
	require.NoError(t, err)

	first, err := svc.CreateChapter(ctx, owner, dto.ChapterCreateRequest{MaterialID: material.ID, Title: "Bab 1"})
	require.NoError(t, err)
	require.Equal(t, 0, first.OrderIndex)

	second, err := svc.CreateChapter(ctx, owner, dto.ChapterCreateRequest{MaterialID: material.ID, Title: "Bab 2"})
	require.NoError(t, err)
	require.Equal(t, 1, second.OrderIndex)

	third, err := svc.CreateChapter(ctx, owner, dto.ChapterCreateRequest{MaterialID: material.ID, Title: "Bab 3"})
	require.NoError(t, err)
	require.Equal(t, 2, third.OrderIndex)

	// Deleting a middle chapter leaves a gap; the next append continues past
	// the highest surviving index.
	require.NoError(t, svc.DeleteChapter(ctx, owner, second.ID))

	fourth, err := svc.CreateChapter(ctx, owner, dto.ChapterCreateRequest{MaterialID: material.ID, Title: "Bab 4"})
	require.NoError(t, err)
	require.Equal(t, 3, fourth.OrderIndex)
}

func TestMaterialService_MutationRequiresOwnership(t *testing.T) {
	db := newTestDB(t)
	subject := seedSubject(t, db, 10)
	svc := newMaterialService(db)
	owner := authz.Caller{UserID: 10, Role: models.RoleGuru}

	ctx := context.Background()
	material, err := svc.Create(ctx, owner, dto.MaterialCreateRequest{
		Title:     "Ikatan Kimia",
		SubjectID: subject.ID,
	})
	require.NoError(t, err)

	otherTeacher := authz.Caller{UserID: 11, Role: models.RoleGuru}
	_, err = svc.CreateChapter(ctx, otherTeacher, dto.ChapterCreateRequest{MaterialID: material.ID, Title: "Bab 1"})
	require.ErrorIs(t, err, authz.ErrForbidden)

	err = svc.Delete(ctx, otherTeacher, material.ID)
	require.ErrorIs(t, err, authz.ErrForbidden)

	// Admins bypass the ownership check.
	admin := authz.Caller{UserID: 1, Role: models.RoleAdmin}
	_, err = svc.Update(ctx, admin, material.ID, dto.MaterialUpdateRequest{Description: strPtr("direvisi")})
	require.NoError(t, err)
}

func TestMaterialService_SubChapterTextIsSanitized(t *testing.T) {
	db := newTestDB(t)
	subject := seedSubject(t, db, 10)
	svc := newMaterialService(db)
	owner := authz.Caller{UserID: 10, Role: models.RoleGuru}

	ctx := context.Background()
	material, err := svc.Create(ctx, owner, dto.MaterialCreateRequest{Title: "Larutan", SubjectID: subject.ID})
	require.NoError(t, err)
	chapter, err := svc.CreateChapter(ctx, owner, dto.ChapterCreateRequest{MaterialID: material.ID, Title: "Bab 1"})
	require.NoError(t, err)

	subChapter, err := svc.CreateSubChapter(ctx, owner, dto.SubChapterCreateRequest{
		ChapterID:   chapter.ID,
		Title:       "Pengantar",
		ContentType: models.ContentTypeText,
		Content:     `<p>Halo</p><script>alert("x")</script>`,
	})
	require.NoError(t, err)
	require.Equal(t, "<p>Halo</p>", subChapter.Content)

	// Link content passes through untouched.
	link, err := svc.CreateSubChapter(ctx, owner, dto.SubChapterCreateRequest{
		ChapterID:   chapter.ID,
		Title:       "Video",
		ContentType: models.ContentTypeLink,
		Content:     "https://video.example.com/watch?v=1",
	})
	require.NoError(t, err)
	require.Equal(t, "https://video.example.com/watch?v=1", link.Content)
	require.Equal(t, 1, link.OrderIndex)
}

func TestMaterialService_GetTree(t *testing.T) {
	db := newTestDB(t)
	subject := seedSubject(t, db, 10)
	svc := newMaterialService(db)
	owner := authz.Caller{UserID: 10, Role: models.RoleGuru}

	ctx := context.Background()
	material, err := svc.Create(ctx, owner, dto.MaterialCreateRequest{Title: "Stoikiometri", SubjectID: subject.ID})
	require.NoError(t, err)
	chapter, err := svc.CreateChapter(ctx, owner, dto.ChapterCreateRequest{MaterialID: material.ID, Title: "Bab 1"})
	require.NoError(t, err)
	_, err = svc.CreateSubChapter(ctx, owner, dto.SubChapterCreateRequest{
		ChapterID:   chapter.ID,
		Title:       "Mol",
		ContentType: models.ContentTypeText,
		Content:     "konsep mol",
	})
	require.NoError(t, err)

	tree, err := svc.GetTree(ctx, material.ID)
	require.NoError(t, err)
	require.Len(t, tree.Chapters, 1)
	require.Len(t, tree.Chapters[0].SubChapters, 1)
	require.Equal(t, "Mol", tree.Chapters[0].SubChapters[0].Title)
}

func TestMaterialService_NotFound(t *testing.T) {
	db := newTestDB(t)
	seedSubject(t, db, 10)
	svc := newMaterialService(db)
	owner := authz.Caller{UserID: 10, Role: models.RoleGuru}

	ctx := context.Background()
	_, err := svc.Get(ctx, 999)
	require.ErrorIs(t, err, service.ErrMaterialNotFound)

	_, err = svc.CreateChapter(ctx, owner, dto.ChapterCreateRequest{MaterialID: 999, Title: "Bab"})
	require.ErrorIs(t, err, service.ErrMaterialNotFound)

	_, err = svc.CreateSubChapter(ctx, owner, dto.SubChapterCreateRequest{
		ChapterID:   999,
		Title:       "Bagian",
		ContentType: models.ContentTypeText,
		Content:     "isi",
	})
	require.ErrorIs(t, err, service.ErrChapterNotFound)
}

func strPtr(v string) *string {
	return &v
}
