package dto

import (
	"time"

	"github.com/smartlab-id/smartlab-api/internal/models"
)

// TeacherProvisionRequest creates a teacher account. Email and password are
// generated when absent.
type TeacherProvisionRequest struct {
	FullName string `json:"full_name" validate:"required,min=3,max=255"`
	Phone    string `json:"no_telepon" validate:"required,min=6,max=32"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=8"`
}

// TeacherProvisionResponse returns the provisioned account together with the
// plaintext credentials. The credentials are shown exactly once.
type TeacherProvisionResponse struct {
	User     UserResponse `json:"user"`
	Email    string       `json:"email"`
	Password string       `json:"password"`
}

// UserFilter narrows user listings.
type UserFilter struct {
	Role    string `query:"role" validate:"omitempty,oneof=admin guru siswa"`
	ClassID *uint  `query:"class_id" validate:"omitempty,gt=0"`
	Search  string `query:"search" validate:"omitempty,max=100"`
}

// UserResponse is the serialized profile representation.
type UserResponse struct {
	ID        uint      `json:"id"`
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Gender    string    `json:"gender,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	ClassID   *uint     `json:"class_id"`
	ClassName string    `json:"class_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUserResponse converts a model into a DTO.
func NewUserResponse(model models.User) UserResponse {
	response := UserResponse{
		ID:        model.ID,
		FullName:  model.FullName,
		Email:     model.Email,
		Role:      model.Role,
		Gender:    model.Gender,
		Phone:     model.Phone,
		ClassID:   model.ClassID,
		CreatedAt: model.CreatedAt,
	}
	if model.Class != nil {
		response.ClassName = model.Class.Name
	}
	return response
}

// NewUserResponseSlice converts a slice of models into DTOs.
func NewUserResponseSlice(users []models.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, NewUserResponse(user))
	}
	return responses
}
