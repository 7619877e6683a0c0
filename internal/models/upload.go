package models

import "time"

// UploadRecord stores metadata about a file pushed to the object store.
type UploadRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FileName  string    `gorm:"size:255;not null" json:"file_name"`
	Path      string    `gorm:"size:512;not null" json:"path"`
	URL       string    `gorm:"size:512;not null" json:"url"`
	MimeType  string    `gorm:"size:100" json:"mime_type"`
	SizeBytes int64     `json:"size_bytes"`
	Checksum  string    `gorm:"size:64" json:"checksum"`
	UserID    *uint     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
