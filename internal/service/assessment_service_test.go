package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/smartlab-id/smartlab-api/internal/authz"
	"github.com/smartlab-id/smartlab-api/internal/dto"
	"github.com/smartlab-id/smartlab-api/internal/models"
	"github.com/smartlab-id/smartlab-api/internal/repository"
	"github.com/smartlab-id/smartlab-api/internal/service"
)

func newAssessmentService(db *gorm.DB) service.AssessmentService {
	return service.NewAssessmentService(
		repository.NewAssessmentRepository(db),
		authz.NewOwnerAuthorizer(),
		testValidator(),
		testLogger(),
	)
}

func TestAssessmentService_CreateQuestion_RequiresChoiceFields(t *testing.T) {
	db := newTestDB(t)
	svc := newAssessmentService(db)
	owner := authz.Caller{UserID: 10, Role: models.RoleGuru}

	ctx := context.Background()
	assessment, err := svc.Create(ctx, owner, dto.AssessmentCreateRequest{
		Title:           "Kuis Kimia",
		DurationMinutes: 20,
		PassingScore:    70,
	})
	require.NoError(t, err)

	_, err = svc.CreateQuestion(ctx, owner, assessment.ID, dto.QuestionCreateRequest{
		Type:   models.QuestionTypeMultipleChoice,
		Text:   "Lambang emas?",
		Points: 5,
	})
	require.ErrorIs(t, err, service.ErrQuestionIncomplete)

	_, err = svc.CreateQuestion(ctx, owner, assessment.ID, dto.QuestionCreateRequest{
		Type:    models.QuestionTypeMultipleChoice,
		Text:    "Lambang emas?",
		Options: datatypes.JSONMap{"a": "Au", "b": "Ag"},
		Points:  5,
	})
	require.ErrorIs(t, err, service.ErrQuestionIncomplete)

	question, err := svc.CreateQuestion(ctx, owner, assessment.ID, dto.QuestionCreateRequest{
		Type:          models.QuestionTypeMultipleChoice,
		Text:          "Lambang emas?",
		Options:       datatypes.JSONMap{"a": "Au", "b": "Ag"},
		CorrectAnswer: "a",
		Points:        5,
	})
	require.NoError(t, err)
	require.Equal(t, "a", question.CorrectAnswer)

	// Essay questions carry neither options nor a correct answer.
	essay, err := svc.CreateQuestion(ctx, owner, assessment.ID, dto.QuestionCreateRequest{
		Type:   models.QuestionTypeEssay,
		Text:   "Jelaskan sifat logam mulia.",
		Points: 10,
	})
	require.NoError(t, err)
	require.Empty(t, essay.CorrectAnswer)
}

func TestAssessmentService_ListQuestions_OwnerOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newAssessmentService(db)
	owner := authz.Caller{UserID: 10, Role: models.RoleGuru}

	ctx := context.Background()
	assessment, err := svc.Create(ctx, owner, dto.AssessmentCreateRequest{
		Title:           "Kuis Fisika",
		DurationMinutes: 15,
	})
	require.NoError(t, err)
	_, err = svc.CreateQuestion(ctx, owner, assessment.ID, dto.QuestionCreateRequest{
		Type:          models.QuestionTypeMultipleChoice,
		Text:          "Satuan gaya?",
		Options:       datatypes.JSONMap{"a": "Newton", "b": "Joule"},
		CorrectAnswer: "a",
		Points:        5,
	})
	require.NoError(t, err)

	questions, err := svc.ListQuestions(ctx, owner, assessment.ID)
	require.NoError(t, err)
	require.Len(t, questions, 1)

	otherTeacher := authz.Caller{UserID: 11, Role: models.RoleGuru}
	_, err = svc.ListQuestions(ctx, otherTeacher, assessment.ID)
	require.ErrorIs(t, err, authz.ErrForbidden)

	admin := authz.Caller{UserID: 1, Role: models.RoleAdmin}
	questions, err = svc.ListQuestions(ctx, admin, assessment.ID)
	require.NoError(t, err)
	require.Len(t, questions, 1)
}

func TestAssessmentService_List_MineFilter(t *testing.T) {
	db := newTestDB(t)
	svc := newAssessmentService(db)

	ctx := context.Background()
	first := authz.Caller{UserID: 10, Role: models.RoleGuru}
	second := authz.Caller{UserID: 11, Role: models.RoleGuru}

	_, err := svc.Create(ctx, first, dto.AssessmentCreateRequest{Title: "Kuis Satu", DurationMinutes: 10})
	require.NoError(t, err)
	_, err = svc.Create(ctx, second, dto.AssessmentCreateRequest{Title: "Kuis Dua", DurationMinutes: 10})
	require.NoError(t, err)

	all, err := svc.List(ctx, first, service.AssessmentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	mine, err := svc.List(ctx, first, service.AssessmentFilter{Mine: true})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "Kuis Satu", mine[0].Title)
}

func TestAssessmentService_Update_EnforcesOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := newAssessmentService(db)
	owner := authz.Caller{UserID: 10, Role: models.RoleGuru}

	ctx := context.Background()
	assessment, err := svc.Create(ctx, owner, dto.AssessmentCreateRequest{Title: "Ulangan Harian", DurationMinutes: 45})
	require.NoError(t, err)

	stranger := authz.Caller{UserID: 11, Role: models.RoleGuru}
	_, err = svc.Update(ctx, stranger, assessment.ID, dto.AssessmentUpdateRequest{Title: strPtr("Diganti")})
	require.ErrorIs(t, err, authz.ErrForbidden)

	err = svc.Delete(ctx, stranger, assessment.ID)
	require.ErrorIs(t, err, authz.ErrForbidden)

	updated, err := svc.Update(ctx, owner, assessment.ID, dto.AssessmentUpdateRequest{Title: strPtr("Ulangan Tengah Semester")})
	require.NoError(t, err)
	require.Equal(t, "Ulangan Tengah Semester", updated.Title)
}

func TestAssessmentService_Get_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newAssessmentService(db)

	_, err := svc.Get(context.Background(), 999)
	require.ErrorIs(t, err, service.ErrAssessmentNotFound)
}
