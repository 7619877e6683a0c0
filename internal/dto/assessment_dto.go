package dto

import (
	"time"

	"gorm.io/datatypes"

	"github.com/smartlab-id/smartlab-api/internal/models"
)

// AssessmentCreateRequest describes the payload for creating an assessment.
type AssessmentCreateRequest struct {
	Title           string `json:"title" validate:"required,min=3,max=255"`
	Description     string `json:"description"`
	PassingScore    int    `json:"passing_score" validate:"gte=0,lte=100"`
	DurationMinutes int    `json:"duration" validate:"required,gt=0"`
	ClassID         *uint  `json:"class_id" validate:"omitempty,gt=0"`
	SubjectID       *uint  `json:"subject_id" validate:"omitempty,gt=0"`
}

// AssessmentUpdateRequest describes the payload for updating an assessment.
type AssessmentUpdateRequest struct {
	Title           *string `json:"title" validate:"omitempty,min=3,max=255"`
	Description     *string `json:"description"`
	PassingScore    *int    `json:"passing_score" validate:"omitempty,gte=0,lte=100"`
	DurationMinutes *int    `json:"duration" validate:"omitempty,gt=0"`
	ClassID         *uint   `json:"class_id" validate:"omitempty,gt=0"`
	SubjectID       *uint   `json:"subject_id" validate:"omitempty,gt=0"`
}

// AssessmentResponse is the serialized assessment representation.
type AssessmentResponse struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	PassingScore    int       `json:"passing_score"`
	DurationMinutes int       `json:"duration"`
	ClassID         *uint     `json:"class_id"`
	SubjectID       *uint     `json:"subject_id"`
	CreatedByID     uint      `json:"created_by_id"`
	QuestionCount   int       `json:"question_count"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewAssessmentResponse converts a model into a DTO.
func NewAssessmentResponse(model models.Assessment) AssessmentResponse {
	return AssessmentResponse{
		ID:              model.ID,
		Title:           model.Title,
		Description:     model.Description,
		PassingScore:    model.PassingScore,
		DurationMinutes: model.DurationMinutes,
		ClassID:         model.ClassID,
		SubjectID:       model.SubjectID,
		CreatedByID:     model.CreatedByID,
		QuestionCount:   len(model.Questions),
		CreatedAt:       model.CreatedAt,
	}
}

// NewAssessmentResponseSlice converts a slice of models into DTOs.
func NewAssessmentResponseSlice(assessments []models.Assessment) []AssessmentResponse {
	responses := make([]AssessmentResponse, 0, len(assessments))
	for _, assessment := range assessments {
		responses = append(responses, NewAssessmentResponse(assessment))
	}
	return responses
}

// QuestionCreateRequest describes the payload for creating a question.
type QuestionCreateRequest struct {
	Type          string            `json:"type" validate:"required,oneof=multiple_choice essay"`
	Text          string            `json:"text" validate:"required,min=1"`
	Options       datatypes.JSONMap `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
	Points        int               `json:"points" validate:"required,gt=0"`
	AttachmentURL string            `json:"attachment_url" validate:"omitempty,url"`
}

// QuestionUpdateRequest describes the payload for updating a question.
type QuestionUpdateRequest struct {
	Text          *string            `json:"text" validate:"omitempty,min=1"`
	Options       *datatypes.JSONMap `json:"options"`
	CorrectAnswer *string            `json:"correct_answer"`
	Points        *int               `json:"points" validate:"omitempty,gt=0"`
	AttachmentURL *string            `json:"attachment_url" validate:"omitempty,url"`
}

// QuestionResponse is the teacher-facing question representation.
type QuestionResponse struct {
	ID            uint              `json:"id"`
	AssessmentID  uint              `json:"assessment_id"`
	Type          string            `json:"type"`
	Text          string            `json:"text"`
	Options       datatypes.JSONMap `json:"options,omitempty"`
	CorrectAnswer string            `json:"correct_answer,omitempty"`
	Points        int               `json:"points"`
	AttachmentURL string            `json:"attachment_url,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// NewQuestionResponse converts a model into a DTO.
func NewQuestionResponse(model models.Question) QuestionResponse {
	return QuestionResponse{
		ID:            model.ID,
		AssessmentID:  model.AssessmentID,
		Type:          model.Type,
		Text:          model.Text,
		Options:       model.Options,
		CorrectAnswer: model.CorrectAnswer,
		Points:        model.Points,
		AttachmentURL: model.AttachmentURL,
		CreatedAt:     model.CreatedAt,
	}
}

// NewQuestionResponseSlice converts a slice of models into DTOs.
func NewQuestionResponseSlice(questions []models.Question) []QuestionResponse {
	responses := make([]QuestionResponse, 0, len(questions))
	for _, question := range questions {
		responses = append(responses, NewQuestionResponse(question))
	}
	return responses
}

// DeliveryQuestion is the student-facing question shape; the correct answer
// is never included.
type DeliveryQuestion struct {
	ID            uint              `json:"id"`
	Type          string            `json:"type"`
	Text          string            `json:"text"`
	Options       datatypes.JSONMap `json:"options,omitempty"`
	Points        int               `json:"points"`
	AttachmentURL string            `json:"attachment_url,omitempty"`
}

// NewDeliveryQuestion strips grading fields from a question.
func NewDeliveryQuestion(model models.Question) DeliveryQuestion {
	return DeliveryQuestion{
		ID:            model.ID,
		Type:          model.Type,
		Text:          model.Text,
		Options:       model.Options,
		Points:        model.Points,
		AttachmentURL: model.AttachmentURL,
	}
}

// DeliveryResponse is returned when a student starts an attempt.
type DeliveryResponse struct {
	AssessmentID    uint               `json:"assessment_id"`
	Title           string             `json:"title"`
	DurationMinutes int                `json:"duration"`
	DurationSeconds int                `json:"duration_seconds"`
	Questions       []DeliveryQuestion `json:"questions"`
}

// AnswerDraft is one captured answer inside a submission.
type AnswerDraft struct {
	QuestionID uint   `json:"question_id" validate:"required,gt=0"`
	Answer     string `json:"answer"`
}

// SubmissionRequest carries all drafts for one attempt.
type SubmissionRequest struct {
	Answers []AnswerDraft `json:"answers" validate:"required,min=1,dive"`
}

// ScoreResponse is the serialized score representation.
type ScoreResponse struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"user_id"`
	AssessmentID uint      `json:"assessment_id"`
	Score        int       `json:"score"`
	CompletedAt  time.Time `json:"completed_at"`
}

// NewScoreResponse converts a model into a DTO.
func NewScoreResponse(model models.Score) ScoreResponse {
	return ScoreResponse{
		ID:           model.ID,
		UserID:       model.UserID,
		AssessmentID: model.AssessmentID,
		Score:        model.Score,
		CompletedAt:  model.CompletedAt,
	}
}

// NewScoreResponseSlice converts a slice of models into DTOs.
func NewScoreResponseSlice(scores []models.Score) []ScoreResponse {
	responses := make([]ScoreResponse, 0, len(scores))
	for _, score := range scores {
		responses = append(responses, NewScoreResponse(score))
	}
	return responses
}
