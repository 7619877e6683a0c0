package models

import "time"

// Roles recognised by the API. Tokens issued by the external auth provider
// carry one of these values in their role claim.
const (
	RoleAdmin = "admin"
	RoleGuru  = "guru"
	RoleSiswa = "siswa"
)

// User is the local profile projection of an externally managed identity.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AuthID       string    `gorm:"size:64;uniqueIndex" json:"auth_id"`
	FullName     string    `gorm:"size:255;not null" json:"full_name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role         string    `gorm:"size:16;not null;default:siswa" json:"role"`
	Gender       string    `gorm:"size:1" json:"gender"`
	Phone        string    `gorm:"size:32" json:"phone"`
	ClassID      *uint     `json:"class_id"`
	Class        *Class    `gorm:"foreignKey:ClassID" json:"class,omitempty"`
	PasswordHash string    `gorm:"size:128" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsGuru reports whether the user holds the teacher role.
func (u User) IsGuru() bool {
	return u.Role == RoleGuru
}
