package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/smartlab-id/smartlab-api/internal/authz"
	"github.com/smartlab-id/smartlab-api/internal/dto"
	"github.com/smartlab-id/smartlab-api/internal/models"
	"github.com/smartlab-id/smartlab-api/internal/repository"
)

var (
	// ErrAssessmentNotFound indicates the requested assessment does not exist.
	ErrAssessmentNotFound = errors.New("assessment not found")
	// ErrQuestionNotFound indicates the requested question does not exist.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrQuestionIncomplete indicates a multiple-choice question is missing
	// its options or correct answer.
	ErrQuestionIncomplete = errors.New("multiple-choice question requires options and a correct answer")
)

// AssessmentFilter narrows assessment listings at the API boundary.
type AssessmentFilter struct {
	ClassID   *uint `query:"class_id" validate:"omitempty,gt=0"`
	SubjectID *uint `query:"subject_id" validate:"omitempty,gt=0"`
	Mine      bool  `query:"mine"`
}

// AssessmentService manages assessments and their question banks.
type AssessmentService interface {
	List(ctx context.Context, caller authz.Caller, filter AssessmentFilter) ([]dto.AssessmentResponse, error)
	Get(ctx context.Context, id uint) (dto.AssessmentResponse, error)
	Create(ctx context.Context, caller authz.Caller, payload dto.AssessmentCreateRequest) (dto.AssessmentResponse, error)
	Update(ctx context.Context, caller authz.Caller, id uint, payload dto.AssessmentUpdateRequest) (dto.AssessmentResponse, error)
	Delete(ctx context.Context, caller authz.Caller, id uint) error

	ListQuestions(ctx context.Context, caller authz.Caller, assessmentID uint) ([]dto.QuestionResponse, error)
	CreateQuestion(ctx context.Context, caller authz.Caller, assessmentID uint, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error)
	UpdateQuestion(ctx context.Context, caller authz.Caller, questionID uint, payload dto.QuestionUpdateRequest) (dto.QuestionResponse, error)
	DeleteQuestion(ctx context.Context, caller authz.Caller, questionID uint) error
}

type assessmentService struct {
	repo       repository.AssessmentRepository
	authorizer authz.Authorizer
	validator  *validator.Validate
	logger     zerolog.Logger
}

// NewAssessmentService builds a new assessment service.
func NewAssessmentService(repo repository.AssessmentRepository, authorizer authz.Authorizer, validate *validator.Validate, logger zerolog.Logger) AssessmentService {
	return &assessmentService{
		repo:       repo,
		authorizer: authorizer,
		validator:  validate,
		logger:     logger.With().Str("component", "assessment_service").Logger(),
	}
}

func (s *assessmentService) List(ctx context.Context, caller authz.Caller, filter AssessmentFilter) ([]dto.AssessmentResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	repoFilter := repository.AssessmentFilter{
		ClassID:   filter.ClassID,
		SubjectID: filter.SubjectID,
	}
	if filter.Mine {
		repoFilter.CreatedByID = &caller.UserID
	}

	assessments, err := s.repo.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}

	return dto.NewAssessmentResponseSlice(assessments), nil
}

func (s *assessmentService) Get(ctx context.Context, id uint) (dto.AssessmentResponse, error) {
	assessment, err := s.getAssessment(ctx, id)
	if err != nil {
		return dto.AssessmentResponse{}, err
	}

	return dto.NewAssessmentResponse(assessment), nil
}

func (s *assessmentService) Create(ctx context.Context, caller authz.Caller, payload dto.AssessmentCreateRequest) (dto.AssessmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssessmentResponse{}, err
	}

	assessment := models.Assessment{
		Title:           payload.Title,
		Description:     payload.Description,
		PassingScore:    payload.PassingScore,
		DurationMinutes: payload.DurationMinutes,
		ClassID:         payload.ClassID,
		SubjectID:       payload.SubjectID,
		CreatedByID:     caller.UserID,
	}

	if err := s.repo.Create(ctx, &assessment); err != nil {
		return dto.AssessmentResponse{}, err
	}

	s.logger.Info().Uint("assessment_id", assessment.ID).Uint("user_id", caller.UserID).Msg("assessment created")

	return dto.NewAssessmentResponse(assessment), nil
}

func (s *assessmentService) Update(ctx context.Context, caller authz.Caller, id uint, payload dto.AssessmentUpdateRequest) (dto.AssessmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssessmentResponse{}, err
	}

	assessment, err := s.getAssessment(ctx, id)
	if err != nil {
		return dto.AssessmentResponse{}, err
	}

	if err := s.authorizer.CanMutate(caller, assessment); err != nil {
		return dto.AssessmentResponse{}, err
	}

	if payload.Title != nil {
		assessment.Title = *payload.Title
	}
	if payload.Description != nil {
		assessment.Description = *payload.Description
	}
	if payload.PassingScore != nil {
		assessment.PassingScore = *payload.PassingScore
	}
	if payload.DurationMinutes != nil {
		assessment.DurationMinutes = *payload.DurationMinutes
	}
	if payload.ClassID != nil {
		assessment.ClassID = payload.ClassID
	}
	if payload.SubjectID != nil {
		assessment.SubjectID = payload.SubjectID
	}

	if err := s.repo.Update(ctx, &assessment); err != nil {
		return dto.AssessmentResponse{}, err
	}

	return dto.NewAssessmentResponse(assessment), nil
}

func (s *assessmentService) Delete(ctx context.Context, caller authz.Caller, id uint) error {
	assessment, err := s.getAssessment(ctx, id)
	if err != nil {
		return err
	}

	if err := s.authorizer.CanMutate(caller, assessment); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssessmentNotFound
		}
		return err
	}

	s.logger.Info().Uint("assessment_id", id).Uint("user_id", caller.UserID).Msg("assessment deleted")
	return nil
}

func (s *assessmentService) ListQuestions(ctx context.Context, caller authz.Caller, assessmentID uint) ([]dto.QuestionResponse, error) {
	assessment, err := s.getAssessment(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	// The full bank includes correct answers, so only the owner (or an
	// admin) may read it.
	if err := s.authorizer.CanMutate(caller, assessment); err != nil {
		return nil, err
	}

	questions, err := s.repo.ListQuestions(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	return dto.NewQuestionResponseSlice(questions), nil
}

func (s *assessmentService) CreateQuestion(ctx context.Context, caller authz.Caller, assessmentID uint, payload dto.QuestionCreateRequest) (dto.QuestionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuestionResponse{}, err
	}

	if payload.Type == models.QuestionTypeMultipleChoice {
		if len(payload.Options) == 0 || payload.CorrectAnswer == "" {
			return dto.QuestionResponse{}, ErrQuestionIncomplete
		}
	}

	assessment, err := s.getAssessment(ctx, assessmentID)
	if err != nil {
		return dto.QuestionResponse{}, err
	}

	if err := s.authorizer.CanMutate(caller, assessment); err != nil {
		return dto.QuestionResponse{}, err
	}

	question := models.Question{
		AssessmentID:  assessmentID,
		Type:          payload.Type,
		Text:          payload.Text,
		Options:       payload.Options,
		CorrectAnswer: payload.CorrectAnswer,
		Points:        payload.Points,
		AttachmentURL: payload.AttachmentURL,
	}

	if err := s.repo.CreateQuestion(ctx, &question); err != nil {
		return dto.QuestionResponse{}, err
	}

	return dto.NewQuestionResponse(question), nil
}

func (s *assessmentService) UpdateQuestion(ctx context.Context, caller authz.Caller, questionID uint, payload dto.QuestionUpdateRequest) (dto.QuestionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuestionResponse{}, err
	}

	question, err := s.repo.GetQuestion(ctx, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuestionResponse{}, ErrQuestionNotFound
		}
		return dto.QuestionResponse{}, err
	}

	assessment, err := s.getAssessment(ctx, question.AssessmentID)
	if err != nil {
		return dto.QuestionResponse{}, err
	}

	if err := s.authorizer.CanMutate(caller, assessment); err != nil {
		return dto.QuestionResponse{}, err
	}

	if payload.Text != nil {
		question.Text = *payload.Text
	}
	if payload.Options != nil {
		question.Options = *payload.Options
	}
	if payload.CorrectAnswer != nil {
		question.CorrectAnswer = *payload.CorrectAnswer
	}
	if payload.Points != nil {
		question.Points = *payload.Points
	}
	if payload.AttachmentURL != nil {
		question.AttachmentURL = *payload.AttachmentURL
	}

	if question.Type == models.QuestionTypeMultipleChoice {
		if len(question.Options) == 0 || question.CorrectAnswer == "" {
			return dto.QuestionResponse{}, ErrQuestionIncomplete
		}
	}

	if err := s.repo.UpdateQuestion(ctx, &question); err != nil {
		return dto.QuestionResponse{}, err
	}

	return dto.NewQuestionResponse(question), nil
}

func (s *assessmentService) DeleteQuestion(ctx context.Context, caller authz.Caller, questionID uint) error {
	question, err := s.repo.GetQuestion(ctx, questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		return err
	}

	assessment, err := s.getAssessment(ctx, question.AssessmentID)
	if err != nil {
		return err
	}

	if err := s.authorizer.CanMutate(caller, assessment); err != nil {
		return err
	}

	if err := s.repo.DeleteQuestion(ctx, questionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		return err
	}

	return nil
}

func (s *assessmentService) getAssessment(ctx context.Context, id uint) (models.Assessment, error) {
	assessment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assessment{}, ErrAssessmentNotFound
		}
		return models.Assessment{}, err
	}
	return assessment, nil
}
