package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/smartlab-id/smartlab-api/internal/authz"
	"github.com/smartlab-id/smartlab-api/internal/dto"
	"github.com/smartlab-id/smartlab-api/internal/models"
	"github.com/smartlab-id/smartlab-api/internal/observability"
	"github.com/smartlab-id/smartlab-api/internal/repository"
)

var (
	// ErrAlreadyAttempted indicates the student has a standing attempt for
	// this assessment. A teacher reset is required before a retake.
	ErrAlreadyAttempted = errors.New("assessment already attempted")
	// ErrUnknownQuestion indicates a submitted answer references a question
	// outside the assessment.
	ErrUnknownQuestion = errors.New("answer references an unknown question")
	// ErrScoreNotFound indicates no score exists for the pair.
	ErrScoreNotFound = errors.New("score not found")
)

// AttemptService delivers assessments to students, scores submissions and
// handles teacher-driven resets.
type AttemptService interface {
	Deliver(ctx context.Context, userID, assessmentID uint) (dto.DeliveryResponse, error)
	Submit(ctx context.Context, userID, assessmentID uint, payload dto.SubmissionRequest) (dto.ScoreResponse, error)
	LatestScore(ctx context.Context, userID, assessmentID uint) (dto.ScoreResponse, error)
	ListScores(ctx context.Context, caller authz.Caller, assessmentID uint) ([]dto.ScoreResponse, error)
	MyScores(ctx context.Context, userID uint) ([]dto.ScoreResponse, error)
	Reset(ctx context.Context, caller authz.Caller, userID, assessmentID uint) error
}

type attemptService struct {
	assessments repository.AssessmentRepository
	attempts    repository.AttemptRepository
	authorizer  authz.Authorizer
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAttemptService builds a new attempt service.
func NewAttemptService(
	assessments repository.AssessmentRepository,
	attempts repository.AttemptRepository,
	authorizer authz.Authorizer,
	validate *validator.Validate,
	logger zerolog.Logger,
) AttemptService {
	return &attemptService{
		assessments: assessments,
		attempts:    attempts,
		authorizer:  authorizer,
		validator:   validate,
		logger:      logger.With().Str("component", "attempt_service").Logger(),
		now:         time.Now,
	}
}

// Deliver returns the question set without grading fields. Entry is refused
// while answer rows exist for the pair; the standing score stays visible
// through LatestScore.
func (s *attemptService) Deliver(ctx context.Context, userID, assessmentID uint) (dto.DeliveryResponse, error) {
	assessment, err := s.getAssessment(ctx, assessmentID)
	if err != nil {
		return dto.DeliveryResponse{}, err
	}

	attempted, err := s.attempts.HasAnswers(ctx, userID, assessmentID)
	if err != nil {
		return dto.DeliveryResponse{}, err
	}
	if attempted {
		return dto.DeliveryResponse{}, ErrAlreadyAttempted
	}

	questions, err := s.assessments.ListQuestions(ctx, assessmentID)
	if err != nil {
		return dto.DeliveryResponse{}, err
	}

	delivery := dto.DeliveryResponse{
		AssessmentID:    assessment.ID,
		Title:           assessment.Title,
		DurationMinutes: assessment.DurationMinutes,
		DurationSeconds: assessment.DurationMinutes * 60,
		Questions:       make([]dto.DeliveryQuestion, 0, len(questions)),
	}
	for _, question := range questions {
		delivery.Questions = append(delivery.Questions, dto.NewDeliveryQuestion(question))
	}

	return delivery, nil
}

// Submit grades the drafts and records the attempt atomically. Multiple
// choice answers earn full points on an exact string match; essay answers
// are left ungraded at zero points. The final score is the earned share of
// the total points, rounded to the nearest integer.
func (s *attemptService) Submit(ctx context.Context, userID, assessmentID uint, payload dto.SubmissionRequest) (dto.ScoreResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ScoreResponse{}, err
	}

	if _, err := s.getAssessment(ctx, assessmentID); err != nil {
		return dto.ScoreResponse{}, err
	}

	attempted, err := s.attempts.HasAnswers(ctx, userID, assessmentID)
	if err != nil {
		return dto.ScoreResponse{}, err
	}
	if attempted {
		return dto.ScoreResponse{}, ErrAlreadyAttempted
	}

	questions, err := s.assessments.ListQuestions(ctx, assessmentID)
	if err != nil {
		return dto.ScoreResponse{}, err
	}

	bank := make(map[uint]models.Question, len(questions))
	totalPoints := 0
	for _, question := range questions {
		bank[question.ID] = question
		totalPoints += question.Points
	}

	now := s.now()
	earned := 0
	answers := make([]models.Answer, 0, len(payload.Answers))
	for _, draft := range payload.Answers {
		question, ok := bank[draft.QuestionID]
		if !ok {
			return dto.ScoreResponse{}, ErrUnknownQuestion
		}

		answer := models.Answer{
			UserID:       userID,
			QuestionID:   question.ID,
			AssessmentID: assessmentID,
			AnswerText:   draft.Answer,
			CreatedAt:    now,
		}

		if question.Type == models.QuestionTypeMultipleChoice {
			correct := strings.TrimSpace(draft.Answer) == strings.TrimSpace(question.CorrectAnswer)
			answer.IsCorrect = &correct
			if correct {
				answer.PointsEarned = question.Points
				earned += question.Points
			}
		}

		answers = append(answers, answer)
	}

	finalScore := 0
	if totalPoints > 0 {
		finalScore = int(math.Round(100 * float64(earned) / float64(totalPoints)))
	}

	score := models.Score{
		UserID:       userID,
		AssessmentID: assessmentID,
		Score:        finalScore,
		CompletedAt:  now,
	}

	if err := s.attempts.CreateAttempt(ctx, answers, &score); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return dto.ScoreResponse{}, ErrAlreadyAttempted
		}
		return dto.ScoreResponse{}, err
	}

	observability.SubmissionsScored().Inc()
	s.logger.Info().
		Uint("user_id", userID).
		Uint("assessment_id", assessmentID).
		Int("score", finalScore).
		Msg("submission scored")

	return dto.NewScoreResponse(score), nil
}

func (s *attemptService) LatestScore(ctx context.Context, userID, assessmentID uint) (dto.ScoreResponse, error) {
	score, err := s.attempts.LatestScore(ctx, userID, assessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ScoreResponse{}, ErrScoreNotFound
		}
		return dto.ScoreResponse{}, err
	}

	return dto.NewScoreResponse(score), nil
}

func (s *attemptService) ListScores(ctx context.Context, caller authz.Caller, assessmentID uint) ([]dto.ScoreResponse, error) {
	assessment, err := s.getAssessment(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizer.CanMutate(caller, assessment); err != nil {
		return nil, err
	}

	scores, err := s.attempts.ListScoresByAssessment(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	return dto.NewScoreResponseSlice(scores), nil
}

func (s *attemptService) MyScores(ctx context.Context, userID uint) ([]dto.ScoreResponse, error) {
	scores, err := s.attempts.ListScoresByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return dto.NewScoreResponseSlice(scores), nil
}

// Reset deletes the student's standing answers and latest score so the entry
// guard reopens. Older score rows from previous cycles are retained.
func (s *attemptService) Reset(ctx context.Context, caller authz.Caller, userID, assessmentID uint) error {
	assessment, err := s.getAssessment(ctx, assessmentID)
	if err != nil {
		return err
	}

	if err := s.authorizer.CanMutate(caller, assessment); err != nil {
		return err
	}

	score, err := s.attempts.LatestScore(ctx, userID, assessmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScoreNotFound
		}
		return err
	}

	if err := s.attempts.DeleteAttempt(ctx, score); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScoreNotFound
		}
		return err
	}

	s.logger.Info().
		Uint("user_id", userID).
		Uint("assessment_id", assessmentID).
		Uint("reset_by", caller.UserID).
		Msg("attempt reset")

	return nil
}

func (s *attemptService) getAssessment(ctx context.Context, id uint) (models.Assessment, error) {
	assessment, err := s.assessments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assessment{}, ErrAssessmentNotFound
		}
		return models.Assessment{}, err
	}
	return assessment, nil
}
