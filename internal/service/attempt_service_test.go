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

const (
	attemptOwnerID   = uint(10)
	attemptStudentID = uint(20)
)

func seedAssessment(t *testing.T, db *gorm.DB) (models.Assessment, []models.Question) {
	t.Helper()

	assessment := models.Assessment{
		Title:           "Ulangan Listrik",
		DurationMinutes: 30,
		PassingScore:    70,
		CreatedByID:     attemptOwnerID,
	}
	require.NoError(t, db.Create(&assessment).Error)

	questions := []models.Question{
		{
			AssessmentID:  assessment.ID,
			Type:          models.QuestionTypeMultipleChoice,
			Text:          "Satuan arus listrik?",
			Options:       datatypes.JSONMap{"a": "Ampere", "b": "Volt", "c": "Ohm"},
			CorrectAnswer: "a",
			Points:        5,
		},
		{
			AssessmentID:  assessment.ID,
			Type:          models.QuestionTypeMultipleChoice,
			Text:          "Satuan hambatan?",
			Options:       datatypes.JSONMap{"a": "Ampere", "b": "Volt", "c": "Ohm"},
			CorrectAnswer: "c",
			Points:        10,
		},
	}
	for i := range questions {
		require.NoError(t, db.Create(&questions[i]).Error)
	}

	return assessment, questions
}

func newAttemptService(db *gorm.DB) service.AttemptService {
	return service.NewAttemptService(
		repository.NewAssessmentRepository(db),
		repository.NewAttemptRepository(db),
		authz.NewOwnerAuthorizer(),
		testValidator(),
		testLogger(),
	)
}

func TestAttemptService_Deliver_StripsGradingFields(t *testing.T) {
	db := newTestDB(t)
	assessment, _ := seedAssessment(t, db)
	svc := newAttemptService(db)

	delivery, err := svc.Deliver(context.Background(), attemptStudentID, assessment.ID)
	require.NoError(t, err)
	require.Equal(t, assessment.ID, delivery.AssessmentID)
	require.Equal(t, 30, delivery.DurationMinutes)
	require.Equal(t, 1800, delivery.DurationSeconds)
	require.Len(t, delivery.Questions, 2)
	for _, question := range delivery.Questions {
		require.NotEmpty(t, question.Options)
	}
}

func TestAttemptService_Submit_PartialScore(t *testing.T) {
	db := newTestDB(t)
	assessment, questions := seedAssessment(t, db)
	svc := newAttemptService(db)

	// 5 of 15 points earned rounds to 33.
	score, err := svc.Submit(context.Background(), attemptStudentID, assessment.ID, dto.SubmissionRequest{
		Answers: []dto.AnswerDraft{
			{QuestionID: questions[0].ID, Answer: "a"},
			{QuestionID: questions[1].ID, Answer: "b"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 33, score.Score)

	var answers []models.Answer
	require.NoError(t, db.Order("question_id ASC").Find(&answers).Error)
	require.Len(t, answers, 2)
	require.NotNil(t, answers[0].IsCorrect)
	require.True(t, *answers[0].IsCorrect)
	require.Equal(t, 5, answers[0].PointsEarned)
	require.False(t, *answers[1].IsCorrect)
	require.Equal(t, 0, answers[1].PointsEarned)
}

func TestAttemptService_Submit_PaddedAnswerStillCorrect(t *testing.T) {
	db := newTestDB(t)
	assessment, questions := seedAssessment(t, db)
	svc := newAttemptService(db)

	// Leading/trailing whitespace around an option key is forgiven; the
	// comparison stays case and content sensitive otherwise.
	score, err := svc.Submit(context.Background(), attemptStudentID, assessment.ID, dto.SubmissionRequest{
		Answers: []dto.AnswerDraft{
			{QuestionID: questions[0].ID, Answer: " a "},
			{QuestionID: questions[1].ID, Answer: "c\n"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 100, score.Score)
}

func TestAttemptService_Submit_EssayLeftUngraded(t *testing.T) {
	db := newTestDB(t)
	assessment, questions := seedAssessment(t, db)
	essay := models.Question{
		AssessmentID: assessment.ID,
		Type:         models.QuestionTypeEssay,
		Text:         "Jelaskan hukum Ohm.",
		Points:       5,
	}
	require.NoError(t, db.Create(&essay).Error)
	svc := newAttemptService(db)

	// All choices correct (15) against a 20 point total rounds to 75.
	score, err := svc.Submit(context.Background(), attemptStudentID, assessment.ID, dto.SubmissionRequest{
		Answers: []dto.AnswerDraft{
			{QuestionID: questions[0].ID, Answer: "a"},
			{QuestionID: questions[1].ID, Answer: "c"},
			{QuestionID: essay.ID, Answer: "V = I x R"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 75, score.Score)

	var stored models.Answer
	require.NoError(t, db.Where("question_id = ?", essay.ID).First(&stored).Error)
	require.Nil(t, stored.IsCorrect)
	require.Equal(t, 0, stored.PointsEarned)
}

func TestAttemptService_EntryGuard(t *testing.T) {
	db := newTestDB(t)
	assessment, questions := seedAssessment(t, db)
	svc := newAttemptService(db)

	ctx := context.Background()
	_, err := svc.Submit(ctx, attemptStudentID, assessment.ID, dto.SubmissionRequest{
		Answers: []dto.AnswerDraft{{QuestionID: questions[0].ID, Answer: "a"}},
	})
	require.NoError(t, err)

	_, err = svc.Deliver(ctx, attemptStudentID, assessment.ID)
	require.ErrorIs(t, err, service.ErrAlreadyAttempted)

	_, err = svc.Submit(ctx, attemptStudentID, assessment.ID, dto.SubmissionRequest{
		Answers: []dto.AnswerDraft{{QuestionID: questions[0].ID, Answer: "b"}},
	})
	require.ErrorIs(t, err, service.ErrAlreadyAttempted)

	// Another student is unaffected.
	_, err = svc.Deliver(ctx, attemptStudentID+1, assessment.ID)
	require.NoError(t, err)
}

func TestAttemptService_Submit_UnknownQuestion(t *testing.T) {
	db := newTestDB(t)
	assessment, _ := seedAssessment(t, db)
	svc := newAttemptService(db)

	_, err := svc.Submit(context.Background(), attemptStudentID, assessment.ID, dto.SubmissionRequest{
		Answers: []dto.AnswerDraft{{QuestionID: 9999, Answer: "a"}},
	})
	require.ErrorIs(t, err, service.ErrUnknownQuestion)
}

func TestAttemptService_Reset_ReopensEntry(t *testing.T) {
	db := newTestDB(t)
	assessment, questions := seedAssessment(t, db)
	svc := newAttemptService(db)

	ctx := context.Background()
	first, err := svc.Submit(ctx, attemptStudentID, assessment.ID, dto.SubmissionRequest{
		Answers: []dto.AnswerDraft{{QuestionID: questions[0].ID, Answer: "b"}},
	})
	require.NoError(t, err)
	require.Equal(t, 0, first.Score)

	owner := authz.Caller{UserID: attemptOwnerID, Role: models.RoleGuru}
	require.NoError(t, svc.Reset(ctx, owner, attemptStudentID, assessment.ID))

	retake, err := svc.Submit(ctx, attemptStudentID, assessment.ID, dto.SubmissionRequest{
		Answers: []dto.AnswerDraft{
			{QuestionID: questions[0].ID, Answer: "a"},
			{QuestionID: questions[1].ID, Answer: "c"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 100, retake.Score)

	latest, err := svc.LatestScore(ctx, attemptStudentID, assessment.ID)
	require.NoError(t, err)
	require.Equal(t, 100, latest.Score)
}

func TestAttemptService_Reset_RequiresOwnership(t *testing.T) {
	db := newTestDB(t)
	assessment, questions := seedAssessment(t, db)
	svc := newAttemptService(db)

	ctx := context.Background()
	_, err := svc.Submit(ctx, attemptStudentID, assessment.ID, dto.SubmissionRequest{
		Answers: []dto.AnswerDraft{{QuestionID: questions[0].ID, Answer: "a"}},
	})
	require.NoError(t, err)

	stranger := authz.Caller{UserID: attemptOwnerID + 99, Role: models.RoleGuru}
	err = svc.Reset(ctx, stranger, attemptStudentID, assessment.ID)
	require.ErrorIs(t, err, authz.ErrForbidden)

	admin := authz.Caller{UserID: 1, Role: models.RoleAdmin}
	require.NoError(t, svc.Reset(ctx, admin, attemptStudentID, assessment.ID))
}

func TestAttemptService_ListScores_OwnerOnly(t *testing.T) {
	db := newTestDB(t)
	assessment, questions := seedAssessment(t, db)
	svc := newAttemptService(db)

	ctx := context.Background()
	_, err := svc.Submit(ctx, attemptStudentID, assessment.ID, dto.SubmissionRequest{
		Answers: []dto.AnswerDraft{{QuestionID: questions[0].ID, Answer: "a"}},
	})
	require.NoError(t, err)

	owner := authz.Caller{UserID: attemptOwnerID, Role: models.RoleGuru}
	scores, err := svc.ListScores(ctx, owner, assessment.ID)
	require.NoError(t, err)
	require.Len(t, scores, 1)

	stranger := authz.Caller{UserID: attemptOwnerID + 99, Role: models.RoleGuru}
	_, err = svc.ListScores(ctx, stranger, assessment.ID)
	require.ErrorIs(t, err, authz.ErrForbidden)
}
