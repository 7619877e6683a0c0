package dto

import (
	"time"

	"github.com/smartlab-id/smartlab-api/internal/models"
)

// MaterialCreateRequest describes the payload for creating a material.
type MaterialCreateRequest struct {
	Title        string `json:"title" validate:"required,min=3,max=255"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail_url" validate:"omitempty,url"`
	SubjectID    uint   `json:"subject_id" validate:"required,gt=0"`
}

// MaterialUpdateRequest describes the payload for updating a material.
type MaterialUpdateRequest struct {
	Title        *string `json:"title" validate:"omitempty,min=3,max=255"`
	Description  *string `json:"description"`
	ThumbnailURL *string `json:"thumbnail_url" validate:"omitempty,url"`
	SubjectID    *uint   `json:"subject_id" validate:"omitempty,gt=0"`
}

// MaterialFilter narrows material listings.
type MaterialFilter struct {
	SubjectID *uint  `query:"subject_id" validate:"omitempty,gt=0"`
	Search    string `query:"search" validate:"omitempty,max=100"`
}

// MaterialResponse is the serialized material representation.
type MaterialResponse struct {
	ID           uint              `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	ThumbnailURL string            `json:"thumbnail_url"`
	SubjectID    uint              `json:"subject_id"`
	Subject      string            `json:"subject,omitempty"`
	CreatedByID  uint              `json:"created_by_id"`
	Chapters     []ChapterResponse `json:"chapters,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// NewMaterialResponse converts a model into a DTO.
func NewMaterialResponse(model models.Material) MaterialResponse {
	response := MaterialResponse{
		ID:           model.ID,
		Title:        model.Title,
		Description:  model.Description,
		ThumbnailURL: model.ThumbnailURL,
		SubjectID:    model.SubjectID,
		CreatedByID:  model.CreatedByID,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
	if model.Subject != nil {
		response.Subject = model.Subject.Name
	}
	if len(model.Chapters) > 0 {
		response.Chapters = NewChapterResponseSlice(model.Chapters)
	}
	return response
}

// NewMaterialResponseSlice converts a slice of models into DTOs.
func NewMaterialResponseSlice(materials []models.Material) []MaterialResponse {
	responses := make([]MaterialResponse, 0, len(materials))
	for _, material := range materials {
		responses = append(responses, NewMaterialResponse(material))
	}
	return responses
}

// ChapterCreateRequest describes the payload for creating a chapter.
type ChapterCreateRequest struct {
	MaterialID  uint   `json:"materi_id" validate:"required,gt=0"`
	Title       string `json:"title" validate:"required,min=1,max=255"`
	Description string `json:"description"`
}

// ChapterUpdateRequest describes the payload for updating a chapter.
type ChapterUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
}

// ChapterResponse is the serialized chapter representation.
type ChapterResponse struct {
	ID          uint                 `json:"id"`
	MaterialID  uint                 `json:"materi_id"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	OrderIndex  int                  `json:"order_index"`
	SubChapters []SubChapterResponse `json:"sub_chapters,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

// NewChapterResponse converts a model into a DTO.
func NewChapterResponse(model models.Chapter) ChapterResponse {
	response := ChapterResponse{
		ID:          model.ID,
		MaterialID:  model.MaterialID,
		Title:       model.Title,
		Description: model.Description,
		OrderIndex:  model.OrderIndex,
		CreatedAt:   model.CreatedAt,
	}
	if len(model.SubChapters) > 0 {
		response.SubChapters = NewSubChapterResponseSlice(model.SubChapters)
	}
	return response
}

// NewChapterResponseSlice converts a slice of models into DTOs.
func NewChapterResponseSlice(chapters []models.Chapter) []ChapterResponse {
	responses := make([]ChapterResponse, 0, len(chapters))
	for _, chapter := range chapters {
		responses = append(responses, NewChapterResponse(chapter))
	}
	return responses
}

// SubChapterCreateRequest describes the payload for creating a sub-chapter.
type SubChapterCreateRequest struct {
	ChapterID       uint   `json:"bab_id" validate:"required,gt=0"`
	Title           string `json:"title" validate:"required,min=1,max=255"`
	ContentType     string `json:"content_type" validate:"required,oneof=text video file link"`
	Content         string `json:"content" validate:"required"`
	DurationMinutes int    `json:"duration_minutes" validate:"omitempty,gte=0"`
}

// SubChapterUpdateRequest describes the payload for updating a sub-chapter.
type SubChapterUpdateRequest struct {
	Title           *string `json:"title" validate:"omitempty,min=1,max=255"`
	ContentType     *string `json:"content_type" validate:"omitempty,oneof=text video file link"`
	Content         *string `json:"content"`
	DurationMinutes *int    `json:"duration_minutes" validate:"omitempty,gte=0"`
}

// SubChapterResponse is the serialized sub-chapter representation.
type SubChapterResponse struct {
	ID              uint      `json:"id"`
	ChapterID       uint      `json:"bab_id"`
	Title           string    `json:"title"`
	ContentType     string    `json:"content_type"`
	Content         string    `json:"content"`
	DurationMinutes int       `json:"duration_minutes"`
	OrderIndex      int       `json:"order_index"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewSubChapterResponse converts a model into a DTO.
func NewSubChapterResponse(model models.SubChapter) SubChapterResponse {
	return SubChapterResponse{
		ID:              model.ID,
		ChapterID:       model.ChapterID,
		Title:           model.Title,
		ContentType:     model.ContentType,
		Content:         model.Content,
		DurationMinutes: model.DurationMinutes,
		OrderIndex:      model.OrderIndex,
		CreatedAt:       model.CreatedAt,
	}
}

// NewSubChapterResponseSlice converts a slice of models into DTOs.
func NewSubChapterResponseSlice(subChapters []models.SubChapter) []SubChapterResponse {
	responses := make([]SubChapterResponse, 0, len(subChapters))
	for _, subChapter := range subChapters {
		responses = append(responses, NewSubChapterResponse(subChapter))
	}
	return responses
}
