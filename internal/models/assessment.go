package models

import (
	"time"

	"gorm.io/datatypes"
)

// Question types supported by the assessment module.
const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeEssay          = "essay"
)

// Assessment is a timed quiz owned by a teacher, optionally scoped to a
// class and/or subject.
type Assessment struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"size:255;not null" json:"title"`
	Description     string     `gorm:"type:text" json:"description"`
	PassingScore    int        `gorm:"not null;default:0" json:"passing_score"`
	DurationMinutes int        `gorm:"not null;default:0" json:"duration"`
	ClassID         *uint      `json:"class_id"`
	SubjectID       *uint      `json:"subject_id"`
	CreatedByID     uint       `gorm:"not null;index" json:"created_by_id"`
	Questions       []Question `gorm:"constraint:OnDelete:CASCADE" json:"questions,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// OwnedBy returns the owning teacher for authorization checks.
func (a Assessment) OwnedBy() uint {
	return a.CreatedByID
}

// Question belongs to one assessment. Options and CorrectAnswer are only
// meaningful for the multiple-choice type.
type Question struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	AssessmentID  uint              `gorm:"not null;index" json:"assessment_id"`
	Type          string            `gorm:"size:32;not null;default:multiple_choice" json:"type"`
	Text          string            `gorm:"type:text;not null" json:"text"`
	Options       datatypes.JSONMap `json:"options,omitempty"`
	CorrectAnswer string            `gorm:"size:512" json:"correct_answer,omitempty"`
	Points        int               `gorm:"not null;default:0" json:"points"`
	AttachmentURL string            `gorm:"size:512" json:"attachment_url"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// Answer is a write-once record of one student's answer to one question.
// The unique pair index is the guard against duplicate attempts: a second
// submission for the same question fails on insert.
type Answer struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_answer_pair" json:"user_id"`
	QuestionID   uint      `gorm:"not null;uniqueIndex:idx_answer_pair" json:"question_id"`
	AssessmentID uint      `gorm:"not null;index" json:"assessment_id"`
	AnswerText   string    `gorm:"type:text" json:"answer"`
	IsCorrect    *bool     `json:"is_correct"`
	PointsEarned int       `gorm:"not null;default:0" json:"points_earned"`
	CreatedAt    time.Time `json:"created_at"`
}

// Score records one completed attempt. Multiple rows may exist per
// (student, assessment) across reset-and-retake cycles; the current score is
// the most recent by CompletedAt.
type Score struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index:idx_score_pair" json:"user_id"`
	AssessmentID uint      `gorm:"not null;index:idx_score_pair" json:"assessment_id"`
	Score        int       `gorm:"not null;default:0" json:"score"`
	CompletedAt  time.Time `gorm:"not null" json:"completed_at"`
	CreatedAt    time.Time `json:"created_at"`
}
