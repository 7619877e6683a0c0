package models

import "time"

// Content types supported by a sub-chapter.
const (
	ContentTypeText  = "text"
	ContentTypeVideo = "video"
	ContentTypeFile  = "file"
	ContentTypeLink  = "link"
)

// Material is the root of a learning-material tree owned by a teacher.
type Material struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:255;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	ThumbnailURL string    `gorm:"size:512" json:"thumbnail_url"`
	SubjectID    uint      `gorm:"not null;index" json:"subject_id"`
	Subject      *Subject  `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	CreatedByID  uint      `gorm:"not null;index" json:"created_by_id"`
	Chapters     []Chapter `gorm:"constraint:OnDelete:CASCADE" json:"chapters,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// OwnedBy returns the owning teacher for authorization checks.
func (m Material) OwnedBy() uint {
	return m.CreatedByID
}

// Chapter groups sub-chapters inside a material. Siblings are ordered by
// OrderIndex; deletions leave gaps that are never closed.
type Chapter struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	MaterialID  uint         `gorm:"not null;index" json:"materi_id"`
	Title       string       `gorm:"size:255;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	OrderIndex  int          `gorm:"not null;default:0" json:"order_index"`
	SubChapters []SubChapter `gorm:"constraint:OnDelete:CASCADE" json:"sub_chapters,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// SubChapter is a single unit of learning content. Content holds inline text
// for the text type and a URL for every other type.
type SubChapter struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ChapterID       uint      `gorm:"not null;index" json:"bab_id"`
	Title           string    `gorm:"size:255;not null" json:"title"`
	ContentType     string    `gorm:"size:16;not null;default:text" json:"content_type"`
	Content         string    `gorm:"type:text" json:"content"`
	DurationMinutes int       `json:"duration_minutes"`
	OrderIndex      int       `gorm:"not null;default:0" json:"order_index"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ValidContentType reports whether the value is one of the supported types.
func ValidContentType(value string) bool {
	switch value {
	case ContentTypeText, ContentTypeVideo, ContentTypeFile, ContentTypeLink:
		return true
	default:
		return false
	}
}
