package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/smartlab-id/smartlab-api/internal/models"
)

// ChapterRepository defines persistence operations for chapters.
type ChapterRepository interface {
	ListByMaterial(ctx context.Context, materialID uint) ([]models.Chapter, error)
	GetByID(ctx context.Context, id uint) (models.Chapter, error)
	NextOrderIndex(ctx context.Context, materialID uint) (int, error)
	Create(ctx context.Context, chapter *models.Chapter) error
	Update(ctx context.Context, chapter *models.Chapter) error
	Delete(ctx context.Context, id uint) error
}

type chapterRepository struct {
	db *gorm.DB
}

// NewChapterRepository instantiates a GORM-backed repository.
func NewChapterRepository(db *gorm.DB) ChapterRepository {
	return &chapterRepository{db: db}
}

func (r *chapterRepository) ListByMaterial(ctx context.Context, materialID uint) ([]models.Chapter, error) {
	var chapters []models.Chapter
	err := r.db.WithContext(ctx).
		Where("material_id = ?", materialID).
		Order("order_index ASC").
		Find(&chapters).Error
	if err != nil {
		return nil, err
	}

	return chapters, nil
}

func (r *chapterRepository) GetByID(ctx context.Context, id uint) (models.Chapter, error) {
	var chapter models.Chapter
	if err := r.db.WithContext(ctx).First(&chapter, id).Error; err != nil {
		return models.Chapter{}, err
	}

	return chapter, nil
}

// NextOrderIndex returns max(sibling order_index)+1, or 0 when the material
// has no chapters yet. Deleted siblings leave gaps that stay open.
func (r *chapterRepository) NextOrderIndex(ctx context.Context, materialID uint) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&models.Chapter{}).
		Where("material_id = ?", materialID).
		Select("MAX(order_index)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max + 1, nil
}

func (r *chapterRepository) Create(ctx context.Context, chapter *models.Chapter) error {
	return r.db.WithContext(ctx).Create(chapter).Error
}

func (r *chapterRepository) Update(ctx context.Context, chapter *models.Chapter) error {
	return r.db.WithContext(ctx).Save(chapter).Error
}

// Delete removes the chapter with its sub-chapters and their progress rows.
func (r *chapterRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var subChapterIDs []uint
		if err := tx.Model(&models.SubChapter{}).Where("chapter_id = ?", id).Pluck("id", &subChapterIDs).Error; err != nil {
			return err
		}

		if len(subChapterIDs) > 0 {
			if err := tx.Where("sub_chapter_id IN ?", subChapterIDs).Delete(&models.SubChapterProgress{}).Error; err != nil {
				return err
			}
			if err := tx.Where("chapter_id = ?", id).Delete(&models.SubChapter{}).Error; err != nil {
				return err
			}
		}

		result := tx.Delete(&models.Chapter{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
