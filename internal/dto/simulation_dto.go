package dto

import (
	"time"

	"github.com/smartlab-id/smartlab-api/internal/models"
)

// StageAdvanceRequest moves a student to the next simulation stage.
type StageAdvanceRequest struct {
	SimulationID uint `json:"simulasi_id" validate:"required,gt=0"`
	NextStage    int  `json:"next_stage" validate:"required"`
}

// MarkCompletedRequest is the unconditional completion shortcut keyed by slug.
type MarkCompletedRequest struct {
	SimulationSlug string `json:"simulasi_slug" validate:"required,min=1,max=100"`
}

// SimulationProgressResponse is the serialized stage state.
type SimulationProgressResponse struct {
	SimulationID   uint       `json:"simulasi_id"`
	CurrentStage   int        `json:"current_stage"`
	Completed      bool       `json:"completed"`
	CompletedAt    *time.Time `json:"completed_at"`
	LastAccessedAt time.Time  `json:"last_accessed_at"`
}

// NewSimulationProgressResponse converts a model into a DTO.
func NewSimulationProgressResponse(model models.SimulationProgress) SimulationProgressResponse {
	return SimulationProgressResponse{
		SimulationID:   model.SimulationID,
		CurrentStage:   model.CurrentStage,
		Completed:      model.Completed,
		CompletedAt:    model.CompletedAt,
		LastAccessedAt: model.LastAccessedAt,
	}
}

// CompletionCheckResponse answers the check-completed query.
type CompletionCheckResponse struct {
	SimulationSlug string `json:"simulasi_slug"`
	Completed      bool   `json:"completed"`
}
