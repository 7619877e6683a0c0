package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/smartlab-id/smartlab-api/internal/models"
)

// SimulationRepository persists the simulation catalog and progress rows.
type SimulationRepository interface {
	GetSimulation(ctx context.Context, id uint) (models.Simulation, error)
	GetSimulationBySlug(ctx context.Context, slug string) (models.Simulation, error)
	ListSimulations(ctx context.Context) ([]models.Simulation, error)
	SeedSimulations(ctx context.Context, simulations []models.Simulation) error
	GetProgress(ctx context.Context, userID, simulationID uint) (models.SimulationProgress, error)
	ListProgress(ctx context.Context, userID uint) ([]models.SimulationProgress, error)
	UpsertProgress(ctx context.Context, row *models.SimulationProgress) error
}

type simulationRepository struct {
	db *gorm.DB
}

// NewSimulationRepository instantiates a GORM-backed repository.
func NewSimulationRepository(db *gorm.DB) SimulationRepository {
	return &simulationRepository{db: db}
}

func (r *simulationRepository) GetSimulation(ctx context.Context, id uint) (models.Simulation, error) {
	var simulation models.Simulation
	if err := r.db.WithContext(ctx).First(&simulation, id).Error; err != nil {
		return models.Simulation{}, err
	}

	return simulation, nil
}

func (r *simulationRepository) GetSimulationBySlug(ctx context.Context, slug string) (models.Simulation, error) {
	var simulation models.Simulation
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&simulation).Error; err != nil {
		return models.Simulation{}, err
	}

	return simulation, nil
}

func (r *simulationRepository) ListSimulations(ctx context.Context) ([]models.Simulation, error) {
	var simulations []models.Simulation
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&simulations).Error; err != nil {
		return nil, err
	}

	return simulations, nil
}

// SeedSimulations inserts the fixed catalog, skipping entries that exist.
func (r *simulationRepository) SeedSimulations(ctx context.Context, simulations []models.Simulation) error {
	if len(simulations) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoNothing: true,
		}).
		Create(&simulations).Error
}

func (r *simulationRepository) GetProgress(ctx context.Context, userID, simulationID uint) (models.SimulationProgress, error) {
	var row models.SimulationProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND simulation_id = ?", userID, simulationID).
		First(&row).Error
	if err != nil {
		return models.SimulationProgress{}, err
	}

	return row, nil
}

func (r *simulationRepository) ListProgress(ctx context.Context, userID uint) ([]models.SimulationProgress, error) {
	var rows []models.SimulationProgress
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *simulationRepository) UpsertProgress(ctx context.Context, row *models.SimulationProgress) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "simulation_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"current_stage",
				"completed",
				"completed_at",
				"last_accessed_at",
				"updated_at",
			}),
		}).
		Create(row).Error
}
