package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/smartlab-id/smartlab-api/internal/authz"
	"github.com/smartlab-id/smartlab-api/internal/dto"
	"github.com/smartlab-id/smartlab-api/internal/models"
	"github.com/smartlab-id/smartlab-api/internal/repository"
)

var (
	// ErrMaterialNotFound indicates the requested material does not exist.
	ErrMaterialNotFound = errors.New("material not found")
	// ErrChapterNotFound indicates the requested chapter does not exist.
	ErrChapterNotFound = errors.New("chapter not found")
	// ErrSubChapterNotFound indicates the requested sub-chapter does not exist.
	ErrSubChapterNotFound = errors.New("sub-chapter not found")
)

// MaterialService manages the material tree: materials, chapters and
// sub-chapters. Every mutation below a material is authorized against the
// owner of that material.
type MaterialService interface {
	List(ctx context.Context, filter dto.MaterialFilter) ([]dto.MaterialResponse, error)
	Get(ctx context.Context, id uint) (dto.MaterialResponse, error)
	GetTree(ctx context.Context, id uint) (dto.MaterialResponse, error)
	Create(ctx context.Context, caller authz.Caller, payload dto.MaterialCreateRequest) (dto.MaterialResponse, error)
	Update(ctx context.Context, caller authz.Caller, id uint, payload dto.MaterialUpdateRequest) (dto.MaterialResponse, error)
	Delete(ctx context.Context, caller authz.Caller, id uint) error

	CreateChapter(ctx context.Context, caller authz.Caller, payload dto.ChapterCreateRequest) (dto.ChapterResponse, error)
	UpdateChapter(ctx context.Context, caller authz.Caller, id uint, payload dto.ChapterUpdateRequest) (dto.ChapterResponse, error)
	DeleteChapter(ctx context.Context, caller authz.Caller, id uint) error

	CreateSubChapter(ctx context.Context, caller authz.Caller, payload dto.SubChapterCreateRequest) (dto.SubChapterResponse, error)
	UpdateSubChapter(ctx context.Context, caller authz.Caller, id uint, payload dto.SubChapterUpdateRequest) (dto.SubChapterResponse, error)
	DeleteSubChapter(ctx context.Context, caller authz.Caller, id uint) error
}

type materialService struct {
	materials   repository.MaterialRepository
	chapters    repository.ChapterRepository
	subChapters repository.SubChapterRepository
	authorizer  authz.Authorizer
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
}

// NewMaterialService builds a new material service.
func NewMaterialService(
	materials repository.MaterialRepository,
	chapters repository.ChapterRepository,
	subChapters repository.SubChapterRepository,
	authorizer authz.Authorizer,
	validate *validator.Validate,
	logger zerolog.Logger,
) MaterialService {
	return &materialService{
		materials:   materials,
		chapters:    chapters,
		subChapters: subChapters,
		authorizer:  authorizer,
		validator:   validate,
		sanitizer:   bluemonday.UGCPolicy(),
		logger:      logger.With().Str("component", "material_service").Logger(),
	}
}

func (s *materialService) List(ctx context.Context, filter dto.MaterialFilter) ([]dto.MaterialResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	materials, err := s.materials.List(ctx, repository.MaterialFilter{
		SubjectID: filter.SubjectID,
		Search:    filter.Search,
	})
	if err != nil {
		return nil, err
	}

	return dto.NewMaterialResponseSlice(materials), nil
}

func (s *materialService) Get(ctx context.Context, id uint) (dto.MaterialResponse, error) {
	material, err := s.materials.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MaterialResponse{}, ErrMaterialNotFound
		}
		return dto.MaterialResponse{}, err
	}

	return dto.NewMaterialResponse(material), nil
}

func (s *materialService) GetTree(ctx context.Context, id uint) (dto.MaterialResponse, error) {
	material, err := s.materials.GetTree(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MaterialResponse{}, ErrMaterialNotFound
		}
		return dto.MaterialResponse{}, err
	}

	return dto.NewMaterialResponse(material), nil
}

func (s *materialService) Create(ctx context.Context, caller authz.Caller, payload dto.MaterialCreateRequest) (dto.MaterialResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.MaterialResponse{}, err
	}

	material := models.Material{
		Title:        payload.Title,
		Description:  payload.Description,
		ThumbnailURL: payload.ThumbnailURL,
		SubjectID:    payload.SubjectID,
		CreatedByID:  caller.UserID,
	}

	if err := s.materials.Create(ctx, &material); err != nil {
		return dto.MaterialResponse{}, err
	}

	s.logger.Info().Uint("material_id", material.ID).Uint("user_id", caller.UserID).Msg("material created")

	return dto.NewMaterialResponse(material), nil
}

func (s *materialService) Update(ctx context.Context, caller authz.Caller, id uint, payload dto.MaterialUpdateRequest) (dto.MaterialResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.MaterialResponse{}, err
	}

	material, err := s.materials.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.MaterialResponse{}, ErrMaterialNotFound
		}
		return dto.MaterialResponse{}, err
	}

	if err := s.authorizer.CanMutate(caller, material); err != nil {
		return dto.MaterialResponse{}, err
	}

	if payload.Title != nil {
		material.Title = *payload.Title
	}
	if payload.Description != nil {
		material.Description = *payload.Description
	}
	if payload.ThumbnailURL != nil {
		material.ThumbnailURL = *payload.ThumbnailURL
	}
	if payload.SubjectID != nil {
		material.SubjectID = *payload.SubjectID
	}

	if err := s.materials.Update(ctx, &material); err != nil {
		return dto.MaterialResponse{}, err
	}

	return dto.NewMaterialResponse(material), nil
}

func (s *materialService) Delete(ctx context.Context, caller authz.Caller, id uint) error {
	material, err := s.materials.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMaterialNotFound
		}
		return err
	}

	if err := s.authorizer.CanMutate(caller, material); err != nil {
		return err
	}

	if err := s.materials.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMaterialNotFound
		}
		return err
	}

	s.logger.Info().Uint("material_id", id).Uint("user_id", caller.UserID).Msg("material deleted")
	return nil
}

// authorizeMaterial resolves the material and checks the caller may mutate
// its subtree.
func (s *materialService) authorizeMaterial(ctx context.Context, caller authz.Caller, materialID uint) error {
	material, err := s.materials.GetByID(ctx, materialID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMaterialNotFound
		}
		return err
	}

	return s.authorizer.CanMutate(caller, material)
}

func (s *materialService) CreateChapter(ctx context.Context, caller authz.Caller, payload dto.ChapterCreateRequest) (dto.ChapterResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ChapterResponse{}, err
	}

	if err := s.authorizeMaterial(ctx, caller, payload.MaterialID); err != nil {
		return dto.ChapterResponse{}, err
	}

	// Append after the highest sibling index. Gaps left by deletions are
	// never reclaimed.
	orderIndex, err := s.chapters.NextOrderIndex(ctx, payload.MaterialID)
	if err != nil {
		return dto.ChapterResponse{}, err
	}

	chapter := models.Chapter{
		MaterialID:  payload.MaterialID,
		Title:       payload.Title,
		Description: payload.Description,
		OrderIndex:  orderIndex,
	}

	if err := s.chapters.Create(ctx, &chapter); err != nil {
		return dto.ChapterResponse{}, err
	}

	return dto.NewChapterResponse(chapter), nil
}

func (s *materialService) UpdateChapter(ctx context.Context, caller authz.Caller, id uint, payload dto.ChapterUpdateRequest) (dto.ChapterResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ChapterResponse{}, err
	}

	chapter, err := s.chapters.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ChapterResponse{}, ErrChapterNotFound
		}
		return dto.ChapterResponse{}, err
	}

	if err := s.authorizeMaterial(ctx, caller, chapter.MaterialID); err != nil {
		return dto.ChapterResponse{}, err
	}

	if payload.Title != nil {
		chapter.Title = *payload.Title
	}
	if payload.Description != nil {
		chapter.Description = *payload.Description
	}

	if err := s.chapters.Update(ctx, &chapter); err != nil {
		return dto.ChapterResponse{}, err
	}

	return dto.NewChapterResponse(chapter), nil
}

func (s *materialService) DeleteChapter(ctx context.Context, caller authz.Caller, id uint) error {
	chapter, err := s.chapters.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChapterNotFound
		}
		return err
	}

	if err := s.authorizeMaterial(ctx, caller, chapter.MaterialID); err != nil {
		return err
	}

	if err := s.chapters.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChapterNotFound
		}
		return err
	}

	return nil
}

func (s *materialService) CreateSubChapter(ctx context.Context, caller authz.Caller, payload dto.SubChapterCreateRequest) (dto.SubChapterResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubChapterResponse{}, err
	}

	chapter, err := s.chapters.GetByID(ctx, payload.ChapterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubChapterResponse{}, ErrChapterNotFound
		}
		return dto.SubChapterResponse{}, err
	}

	if err := s.authorizeMaterial(ctx, caller, chapter.MaterialID); err != nil {
		return dto.SubChapterResponse{}, err
	}

	orderIndex, err := s.subChapters.NextOrderIndex(ctx, payload.ChapterID)
	if err != nil {
		return dto.SubChapterResponse{}, err
	}

	subChapter := models.SubChapter{
		ChapterID:       payload.ChapterID,
		Title:           payload.Title,
		ContentType:     payload.ContentType,
		Content:         s.cleanContent(payload.ContentType, payload.Content),
		DurationMinutes: payload.DurationMinutes,
		OrderIndex:      orderIndex,
	}

	if err := s.subChapters.Create(ctx, &subChapter); err != nil {
		return dto.SubChapterResponse{}, err
	}

	return dto.NewSubChapterResponse(subChapter), nil
}

func (s *materialService) UpdateSubChapter(ctx context.Context, caller authz.Caller, id uint, payload dto.SubChapterUpdateRequest) (dto.SubChapterResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubChapterResponse{}, err
	}

	subChapter, err := s.subChapters.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubChapterResponse{}, ErrSubChapterNotFound
		}
		return dto.SubChapterResponse{}, err
	}

	materialID, err := s.subChapters.ResolveMaterialID(ctx, id)
	if err != nil {
		return dto.SubChapterResponse{}, err
	}
	if err := s.authorizeMaterial(ctx, caller, materialID); err != nil {
		return dto.SubChapterResponse{}, err
	}

	if payload.Title != nil {
		subChapter.Title = *payload.Title
	}
	if payload.ContentType != nil {
		subChapter.ContentType = *payload.ContentType
	}
	if payload.Content != nil {
		subChapter.Content = s.cleanContent(subChapter.ContentType, *payload.Content)
	}
	if payload.DurationMinutes != nil {
		subChapter.DurationMinutes = *payload.DurationMinutes
	}

	if err := s.subChapters.Update(ctx, &subChapter); err != nil {
		return dto.SubChapterResponse{}, err
	}

	return dto.NewSubChapterResponse(subChapter), nil
}

func (s *materialService) DeleteSubChapter(ctx context.Context, caller authz.Caller, id uint) error {
	if _, err := s.subChapters.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubChapterNotFound
		}
		return err
	}

	materialID, err := s.subChapters.ResolveMaterialID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorizeMaterial(ctx, caller, materialID); err != nil {
		return err
	}

	if err := s.subChapters.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubChapterNotFound
		}
		return err
	}

	return nil
}

// cleanContent strips unsafe markup from inline text content. URL content
// types pass through untouched.
func (s *materialService) cleanContent(contentType, content string) string {
	if contentType != models.ContentTypeText {
		return content
	}
	return s.sanitizer.Sanitize(content)
}
