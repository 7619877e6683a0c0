package models

import "time"

// Class represents a school class; the homeroom teacher is optional.
type Class struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	WaliKelasID *uint     `json:"wali_kelas_id"`
	WaliKelas   *User     `gorm:"foreignKey:WaliKelasID" json:"wali_kelas,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Subject represents a taught subject, optionally assigned to a teacher.
type Subject struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:150;not null" json:"name"`
	Code        string    `gorm:"size:32;not null" json:"code"`
	Description string    `gorm:"type:text" json:"description"`
	GuruID      *uint     `json:"guru_id"`
	Guru        *User     `gorm:"foreignKey:GuruID" json:"guru,omitempty"`
	CreatedByID uint      `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
