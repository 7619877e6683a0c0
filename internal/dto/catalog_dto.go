package dto

import (
	"time"

	"github.com/smartlab-id/smartlab-api/internal/models"
)

// ClassCreateRequest describes the payload for creating a class.
type ClassCreateRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	WaliKelasID *uint  `json:"wali_kelas_id" validate:"omitempty,gt=0"`
}

// ClassUpdateRequest describes the payload for updating a class.
type ClassUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	WaliKelasID *uint   `json:"wali_kelas_id" validate:"omitempty,gt=0"`
}

// ClassResponse is the serialized representation returned to API clients.
type ClassResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	WaliKelasID *uint     `json:"wali_kelas_id"`
	WaliKelas   string    `json:"wali_kelas,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewClassResponse converts a model into a DTO.
func NewClassResponse(model models.Class) ClassResponse {
	response := ClassResponse{
		ID:          model.ID,
		Name:        model.Name,
		WaliKelasID: model.WaliKelasID,
		CreatedAt:   model.CreatedAt,
	}
	if model.WaliKelas != nil {
		response.WaliKelas = model.WaliKelas.FullName
	}
	return response
}

// NewClassResponseSlice converts a slice of models into DTOs.
func NewClassResponseSlice(classes []models.Class) []ClassResponse {
	responses := make([]ClassResponse, 0, len(classes))
	for _, class := range classes {
		responses = append(responses, NewClassResponse(class))
	}
	return responses
}

// SubjectCreateRequest describes the payload for creating a subject.
type SubjectCreateRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=150"`
	Code        string `json:"code" validate:"required,min=1,max=32"`
	Description string `json:"description"`
	GuruID      *uint  `json:"guru_id" validate:"omitempty,gt=0"`
}

// SubjectUpdateRequest describes the payload for updating a subject.
type SubjectUpdateRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=150"`
	Code        *string `json:"code" validate:"omitempty,min=1,max=32"`
	Description *string `json:"description"`
	GuruID      *uint   `json:"guru_id" validate:"omitempty,gt=0"`
}

// SubjectResponse is the serialized subject representation.
type SubjectResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	GuruID      *uint     `json:"guru_id"`
	Guru        string    `json:"guru,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewSubjectResponse converts a model into a DTO.
func NewSubjectResponse(model models.Subject) SubjectResponse {
	response := SubjectResponse{
		ID:          model.ID,
		Name:        model.Name,
		Code:        model.Code,
		Description: model.Description,
		GuruID:      model.GuruID,
		CreatedAt:   model.CreatedAt,
	}
	if model.Guru != nil {
		response.Guru = model.Guru.FullName
	}
	return response
}

// NewSubjectResponseSlice converts a slice of models into DTOs.
func NewSubjectResponseSlice(subjects []models.Subject) []SubjectResponse {
	responses := make([]SubjectResponse, 0, len(subjects))
	for _, subject := range subjects {
		responses = append(responses, NewSubjectResponse(subject))
	}
	return responses
}
