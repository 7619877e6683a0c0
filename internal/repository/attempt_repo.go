package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/smartlab-id/smartlab-api/internal/models"
)

// AttemptRepository persists answers and scores for assessment attempts.
type AttemptRepository interface {
	HasAnswers(ctx context.Context, userID, assessmentID uint) (bool, error)
	CreateAttempt(ctx context.Context, answers []models.Answer, score *models.Score) error
	LatestScore(ctx context.Context, userID, assessmentID uint) (models.Score, error)
	GetScore(ctx context.Context, id uint) (models.Score, error)
	ListScoresByAssessment(ctx context.Context, assessmentID uint) ([]models.Score, error)
	ListScoresByUser(ctx context.Context, userID uint) ([]models.Score, error)
	ListAnswers(ctx context.Context, userID, assessmentID uint) ([]models.Answer, error)
	DeleteAttempt(ctx context.Context, score models.Score) error
}

type attemptRepository struct {
	db *gorm.DB
}

// NewAttemptRepository instantiates a GORM-backed repository.
func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) HasAnswers(ctx context.Context, userID, assessmentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Answer{}).
		Where("user_id = ? AND assessment_id = ?", userID, assessmentID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateAttempt inserts all answer rows and the score row in one
// transaction. The unique (user_id, question_id) index turns a concurrent
// duplicate submission into a constraint violation instead of a second
// scored attempt.
func (r *attemptRepository) CreateAttempt(ctx context.Context, answers []models.Answer, score *models.Score) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(answers) > 0 {
			if err := tx.Create(&answers).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return gorm.ErrDuplicatedKey
				}
				return err
			}
		}
		return tx.Create(score).Error
	})
}

func (r *attemptRepository) LatestScore(ctx context.Context, userID, assessmentID uint) (models.Score, error) {
	var score models.Score
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND assessment_id = ?", userID, assessmentID).
		Order("completed_at DESC").
		First(&score).Error
	if err != nil {
		return models.Score{}, err
	}

	return score, nil
}

func (r *attemptRepository) GetScore(ctx context.Context, id uint) (models.Score, error) {
	var score models.Score
	if err := r.db.WithContext(ctx).First(&score, id).Error; err != nil {
		return models.Score{}, err
	}

	return score, nil
}

func (r *attemptRepository) ListScoresByAssessment(ctx context.Context, assessmentID uint) ([]models.Score, error) {
	var scores []models.Score
	err := r.db.WithContext(ctx).
		Where("assessment_id = ?", assessmentID).
		Order("completed_at DESC").
		Find(&scores).Error
	if err != nil {
		return nil, err
	}

	return scores, nil
}

func (r *attemptRepository) ListScoresByUser(ctx context.Context, userID uint) ([]models.Score, error) {
	var scores []models.Score
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Find(&scores).Error
	if err != nil {
		return nil, err
	}

	return scores, nil
}

func (r *attemptRepository) ListAnswers(ctx context.Context, userID, assessmentID uint) ([]models.Answer, error) {
	var answers []models.Answer
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND assessment_id = ?", userID, assessmentID).
		Order("question_id ASC").
		Find(&answers).Error
	if err != nil {
		return nil, err
	}

	return answers, nil
}

// DeleteAttempt removes the score row and every answer row for the same
// (student, assessment) pair, re-opening the entry guard. The answer content
// is gone for good; there is no audit log.
func (r *attemptRepository) DeleteAttempt(ctx context.Context, score models.Score) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND assessment_id = ?", score.UserID, score.AssessmentID).
			Delete(&models.Answer{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Score{}, score.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
