package models

import "time"

// Simulation stage bounds. Reaching the final stage marks completion.
const (
	SimulationMinStage   = 1
	SimulationFinalStage = 5
)

// Simulation is one entry in the fixed catalog of interactive simulations.
type Simulation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Slug      string    `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// SimulationProgress tracks the staged unlock state for one student and one
// simulation. Stage numbers never decrease through the advance path.
type SimulationProgress struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	UserID         uint       `gorm:"not null;uniqueIndex:idx_simulation_progress_pair" json:"user_id"`
	SimulationID   uint       `gorm:"not null;uniqueIndex:idx_simulation_progress_pair" json:"simulasi_id"`
	CurrentStage   int        `gorm:"not null;default:1" json:"current_stage"`
	Completed      bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt    *time.Time `json:"completed_at"`
	LastAccessedAt time.Time  `json:"last_accessed_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
