package dto

import (
	"time"

	"github.com/smartlab-id/smartlab-api/internal/models"
)

// ProgressUpdateRequest toggles the completion flag for one sub-chapter.
type ProgressUpdateRequest struct {
	SubChapterID uint  `json:"sub_bab_id" validate:"required,gt=0"`
	Completed    *bool `json:"completed" validate:"required"`
}

// SubChapterProgressResponse is the serialized per-sub-chapter flag.
type SubChapterProgressResponse struct {
	SubChapterID uint      `json:"sub_bab_id"`
	Completed    bool      `json:"completed"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewSubChapterProgressResponse converts a model into a DTO.
func NewSubChapterProgressResponse(model models.SubChapterProgress) SubChapterProgressResponse {
	return SubChapterProgressResponse{
		SubChapterID: model.SubChapterID,
		Completed:    model.Completed,
		UpdatedAt:    model.UpdatedAt,
	}
}

// NewSubChapterProgressResponseSlice converts a slice of models into DTOs.
func NewSubChapterProgressResponseSlice(rows []models.SubChapterProgress) []SubChapterProgressResponse {
	responses := make([]SubChapterProgressResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, NewSubChapterProgressResponse(row))
	}
	return responses
}

// MaterialProgressResponse is the serialized per-material aggregate.
type MaterialProgressResponse struct {
	MaterialID           uint       `json:"materi_id"`
	CompletedSubChapters int        `json:"completed_sub_bab"`
	TotalSubChapters     int        `json:"total_sub_bab"`
	Percentage           int        `json:"percentage"`
	LastReadAt           time.Time  `json:"last_read_at"`
	CompletedAt          *time.Time `json:"completed_at"`
}

// NewMaterialProgressResponse converts a model into a DTO.
func NewMaterialProgressResponse(model models.MaterialProgress) MaterialProgressResponse {
	return MaterialProgressResponse{
		MaterialID:           model.MaterialID,
		CompletedSubChapters: model.CompletedSubChapters,
		TotalSubChapters:     model.TotalSubChapters,
		Percentage:           model.Percentage,
		LastReadAt:           model.LastReadAt,
		CompletedAt:          model.CompletedAt,
	}
}

// NewMaterialProgressResponseSlice converts a slice of models into DTOs.
func NewMaterialProgressResponseSlice(rows []models.MaterialProgress) []MaterialProgressResponse {
	responses := make([]MaterialProgressResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, NewMaterialProgressResponse(row))
	}
	return responses
}

// ProgressUpdateResponse bundles both progress rows after a write.
type ProgressUpdateResponse struct {
	SubChapterProgress SubChapterProgressResponse `json:"sub_chapter_progress"`
	MaterialProgress   MaterialProgressResponse   `json:"material_progress"`
}

// DashboardResponse summarises a student's progress across materials.
type DashboardResponse struct {
	TotalMaterials     int                        `json:"total_materials"`
	CompletedMaterials int                        `json:"completed_materials"`
	AveragePercentage  int                        `json:"average_percentage"`
	Materials          []MaterialProgressResponse `json:"materials"`
}
