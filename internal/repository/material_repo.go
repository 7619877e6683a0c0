package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/smartlab-id/smartlab-api/internal/models"
)

// MaterialFilter narrows material listings.
type MaterialFilter struct {
	SubjectID *uint
	Search    string
}

// MaterialRepository defines persistence operations for materials.
type MaterialRepository interface {
	List(ctx context.Context, filter MaterialFilter) ([]models.Material, error)
	GetByID(ctx context.Context, id uint) (models.Material, error)
	GetTree(ctx context.Context, id uint) (models.Material, error)
	Create(ctx context.Context, material *models.Material) error
	Update(ctx context.Context, material *models.Material) error
	Delete(ctx context.Context, id uint) error
}

type materialRepository struct {
	db *gorm.DB
}

// NewMaterialRepository instantiates a GORM-backed repository.
func NewMaterialRepository(db *gorm.DB) MaterialRepository {
	return &materialRepository{db: db}
}

func (r *materialRepository) List(ctx context.Context, filter MaterialFilter) ([]models.Material, error) {
	query := r.db.WithContext(ctx).Model(&models.Material{}).Preload("Subject")

	if filter.SubjectID != nil {
		query = query.Where("subject_id = ?", *filter.SubjectID)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(strings.TrimSpace(filter.Search)) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var materials []models.Material
	if err := query.Order("created_at DESC").Find(&materials).Error; err != nil {
		return nil, err
	}

	return materials, nil
}

func (r *materialRepository) GetByID(ctx context.Context, id uint) (models.Material, error) {
	var material models.Material
	if err := r.db.WithContext(ctx).Preload("Subject").First(&material, id).Error; err != nil {
		return models.Material{}, err
	}

	return material, nil
}

// GetTree loads the material with chapters and sub-chapters ordered by
// order_index. Indices may be non-contiguous after deletions, so ordering
// must never assume density.
func (r *materialRepository) GetTree(ctx context.Context, id uint) (models.Material, error) {
	var material models.Material
	err := r.db.WithContext(ctx).
		Preload("Subject").
		Preload("Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		Preload("Chapters.SubChapters", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		First(&material, id).Error
	if err != nil {
		return models.Material{}, err
	}

	return material, nil
}

func (r *materialRepository) Create(ctx context.Context, material *models.Material) error {
	return r.db.WithContext(ctx).Create(material).Error
}

func (r *materialRepository) Update(ctx context.Context, material *models.Material) error {
	return r.db.WithContext(ctx).Save(material).Error
}

func (r *materialRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var chapterIDs []uint
		if err := tx.Model(&models.Chapter{}).Where("material_id = ?", id).Pluck("id", &chapterIDs).Error; err != nil {
			return err
		}

		if len(chapterIDs) > 0 {
			var subChapterIDs []uint
			if err := tx.Model(&models.SubChapter{}).Where("chapter_id IN ?", chapterIDs).Pluck("id", &subChapterIDs).Error; err != nil {
				return err
			}
			if len(subChapterIDs) > 0 {
				if err := tx.Where("sub_chapter_id IN ?", subChapterIDs).Delete(&models.SubChapterProgress{}).Error; err != nil {
					return err
				}
				if err := tx.Where("chapter_id IN ?", chapterIDs).Delete(&models.SubChapter{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("material_id = ?", id).Delete(&models.Chapter{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("material_id = ?", id).Delete(&models.MaterialProgress{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Material{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
