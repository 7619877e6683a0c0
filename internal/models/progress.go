package models

import "time"

// SubChapterProgress stores the completion flag for one student and one
// sub-chapter. At most one row exists per pair.
type SubChapterProgress struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_subchapter_progress_pair" json:"user_id"`
	SubChapterID uint      `gorm:"not null;uniqueIndex:idx_subchapter_progress_pair" json:"sub_bab_id"`
	Completed    bool      `gorm:"not null;default:false" json:"completed"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MaterialProgress is the per-student aggregate over one material. It is
// recomputed from the completion set on every write, never patched
// incrementally.
type MaterialProgress struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	UserID               uint       `gorm:"not null;uniqueIndex:idx_material_progress_pair" json:"user_id"`
	MaterialID           uint       `gorm:"not null;uniqueIndex:idx_material_progress_pair" json:"materi_id"`
	CompletedSubChapters int        `gorm:"not null;default:0" json:"completed_sub_bab"`
	TotalSubChapters     int        `gorm:"not null;default:0" json:"total_sub_bab"`
	Percentage           int        `gorm:"not null;default:0" json:"percentage"`
	LastReadAt           time.Time  `json:"last_read_at"`
	CompletedAt          *time.Time `json:"completed_at"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}
