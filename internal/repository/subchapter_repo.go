package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/smartlab-id/smartlab-api/internal/models"
)

// SubChapterRepository defines persistence operations for sub-chapters.
type SubChapterRepository interface {
	ListByChapter(ctx context.Context, chapterID uint) ([]models.SubChapter, error)
	GetByID(ctx context.Context, id uint) (models.SubChapter, error)
	NextOrderIndex(ctx context.Context, chapterID uint) (int, error)
	ResolveMaterialID(ctx context.Context, subChapterID uint) (uint, error)
	Create(ctx context.Context, subChapter *models.SubChapter) error
	Update(ctx context.Context, subChapter *models.SubChapter) error
	Delete(ctx context.Context, id uint) error
}

type subChapterRepository struct {
	db *gorm.DB
}

// NewSubChapterRepository instantiates a GORM-backed repository.
func NewSubChapterRepository(db *gorm.DB) SubChapterRepository {
	return &subChapterRepository{db: db}
}

func (r *subChapterRepository) ListByChapter(ctx context.Context, chapterID uint) ([]models.SubChapter, error) {
	var subChapters []models.SubChapter
	err := r.db.WithContext(ctx).
		Where("chapter_id = ?", chapterID).
		Order("order_index ASC").
		Find(&subChapters).Error
	if err != nil {
		return nil, err
	}

	return subChapters, nil
}

func (r *subChapterRepository) GetByID(ctx context.Context, id uint) (models.SubChapter, error) {
	var subChapter models.SubChapter
	if err := r.db.WithContext(ctx).First(&subChapter, id).Error; err != nil {
		return models.SubChapter{}, err
	}

	return subChapter, nil
}

func (r *subChapterRepository) NextOrderIndex(ctx context.Context, chapterID uint) (int, error) {
	var max *int
	err := r.db.WithContext(ctx).
		Model(&models.SubChapter{}).
		Where("chapter_id = ?", chapterID).
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

// ResolveMaterialID walks sub-chapter → chapter → material.
func (r *subChapterRepository) ResolveMaterialID(ctx context.Context, subChapterID uint) (uint, error) {
	var materialID uint
	err := r.db.WithContext(ctx).
		Model(&models.SubChapter{}).
		Joins("JOIN chapters ON chapters.id = sub_chapters.chapter_id").
		Where("sub_chapters.id = ?", subChapterID).
		Select("chapters.material_id").
		Scan(&materialID).Error
	if err != nil {
		return 0, err
	}
	if materialID == 0 {
		return 0, gorm.ErrRecordNotFound
	}
	return materialID, nil
}

func (r *subChapterRepository) Create(ctx context.Context, subChapter *models.SubChapter) error {
	return r.db.WithContext(ctx).Create(subChapter).Error
}

func (r *subChapterRepository) Update(ctx context.Context, subChapter *models.SubChapter) error {
	return r.db.WithContext(ctx).Save(subChapter).Error
}

func (r *subChapterRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sub_chapter_id = ?", id).Delete(&models.SubChapterProgress{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.SubChapter{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
