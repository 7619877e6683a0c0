package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/smartlab-id/smartlab-api/internal/models"
)

// ProgressRepository defines persistence operations for both progress tables.
type ProgressRepository interface {
	UpsertSubChapterProgress(ctx context.Context, row *models.SubChapterProgress) error
	GetSubChapterProgress(ctx context.Context, userID, subChapterID uint) (models.SubChapterProgress, error)
	ListSubChapterProgress(ctx context.Context, userID uint) ([]models.SubChapterProgress, error)
	CountSubChapters(ctx context.Context, materialID uint) (int64, error)
	CountCompleted(ctx context.Context, userID, materialID uint) (int64, error)
	UpsertMaterialProgress(ctx context.Context, row *models.MaterialProgress) error
	GetMaterialProgress(ctx context.Context, userID, materialID uint) (models.MaterialProgress, error)
	ListMaterialProgress(ctx context.Context, userID uint) ([]models.MaterialProgress, error)
}

type progressRepository struct {
	db *gorm.DB
}

// NewProgressRepository instantiates a GORM-backed repository.
func NewProgressRepository(db *gorm.DB) ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) UpsertSubChapterProgress(ctx context.Context, row *models.SubChapterProgress) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "sub_chapter_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"completed", "updated_at"}),
		}).
		Create(row).Error
}

func (r *progressRepository) GetSubChapterProgress(ctx context.Context, userID, subChapterID uint) (models.SubChapterProgress, error) {
	var row models.SubChapterProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND sub_chapter_id = ?", userID, subChapterID).
		First(&row).Error
	if err != nil {
		return models.SubChapterProgress{}, err
	}

	return row, nil
}

func (r *progressRepository) ListSubChapterProgress(ctx context.Context, userID uint) ([]models.SubChapterProgress, error) {
	var rows []models.SubChapterProgress
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *progressRepository) CountSubChapters(ctx context.Context, materialID uint) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.SubChapter{}).
		Joins("JOIN chapters ON chapters.id = sub_chapters.chapter_id").
		Where("chapters.material_id = ?", materialID).
		Count(&total).Error
	return total, err
}

func (r *progressRepository) CountCompleted(ctx context.Context, userID, materialID uint) (int64, error) {
	var completed int64
	err := r.db.WithContext(ctx).
		Model(&models.SubChapterProgress{}).
		Joins("JOIN sub_chapters ON sub_chapters.id = sub_chapter_progresses.sub_chapter_id").
		Joins("JOIN chapters ON chapters.id = sub_chapters.chapter_id").
		Where("chapters.material_id = ? AND sub_chapter_progresses.user_id = ? AND sub_chapter_progresses.completed = ?", materialID, userID, true).
		Count(&completed).Error
	return completed, err
}

func (r *progressRepository) UpsertMaterialProgress(ctx context.Context, row *models.MaterialProgress) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "material_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"completed_sub_chapters",
				"total_sub_chapters",
				"percentage",
				"last_read_at",
				"completed_at",
				"updated_at",
			}),
		}).
		Create(row).Error
}

func (r *progressRepository) GetMaterialProgress(ctx context.Context, userID, materialID uint) (models.MaterialProgress, error) {
	var row models.MaterialProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND material_id = ?", userID, materialID).
		First(&row).Error
	if err != nil {
		return models.MaterialProgress{}, err
	}

	return row, nil
}

func (r *progressRepository) ListMaterialProgress(ctx context.Context, userID uint) ([]models.MaterialProgress, error) {
	var rows []models.MaterialProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("last_read_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	return rows, nil
}
