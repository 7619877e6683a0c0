package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/smartlab-id/smartlab-api/internal/config"
	"github.com/smartlab-id/smartlab-api/internal/utils"
)

// HealthResponse represents the payload returned by the health endpoint.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Service     string    `json:"service"`
	Environment string    `json:"environment"`
	Database    string    `json:"database"`
}

// HealthCheck returns a handler that reports service health. The database is
// probed with a trivial query; a failed probe returns 503 with the upstream
// error as detail.
func HealthCheck(cfg config.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := HealthResponse{
			Status:      "ok",
			Timestamp:   time.Now().UTC(),
			Service:     cfg.AppName,
			Environment: cfg.AppEnv,
			Database:    "up",
		}

		if db != nil {
			if err := db.WithContext(c.Context()).Exec("SELECT 1").Error; err != nil {
				payload.Status = "degraded"
				payload.Database = "down"
				return utils.SendErrorWithDetail(c, fiber.StatusServiceUnavailable, "service unhealthy", err.Error())
			}
		}

		return utils.SendSuccess(c, "service healthy", payload)
	}
}
