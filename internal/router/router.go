package router

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/smartlab-id/smartlab-api/internal/config"
	"github.com/smartlab-id/smartlab-api/internal/handler"
	"github.com/smartlab-id/smartlab-api/internal/middleware"
	"github.com/smartlab-id/smartlab-api/internal/models"
	"github.com/smartlab-id/smartlab-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	DB                *gorm.DB
	ClassHandler      *handler.ClassHandler
	SubjectHandler    *handler.SubjectHandler
	AccountHandler    *handler.AccountHandler
	MaterialHandler   *handler.MaterialHandler
	ProgressHandler   *handler.ProgressHandler
	AssessmentHandler *handler.AssessmentHandler
	AttemptHandler    *handler.AttemptHandler
	SimulationHandler *handler.SimulationHandler
	ChatbotHandler    *handler.ChatbotHandler
	UploadHandler     *handler.UploadHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})

	// Health and metrics stay outside authentication.
	api.Get("/health", handler.HealthCheck(cfg, deps.DB))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	adminOnly := middleware.RequireRole(models.RoleAdmin)
	teacherOnly := middleware.RequireRole(models.RoleAdmin, models.RoleGuru)
	studentOnly := middleware.RequireRole(models.RoleSiswa)

	protected := api.Group("", jwtMiddleware)

	if deps.ClassHandler != nil {
		deps.ClassHandler.Register(protected.Group("/kelas"), adminOnly)
	}
	if deps.SubjectHandler != nil {
		deps.SubjectHandler.Register(protected.Group("/mapel"), adminOnly)
	}
	if deps.AccountHandler != nil {
		deps.AccountHandler.Register(protected.Group("/users"), adminOnly)
	}

	if deps.MaterialHandler != nil {
		deps.MaterialHandler.Register(protected.Group("/materi"), teacherOnly)
		deps.MaterialHandler.RegisterChapters(protected.Group("/bab"), teacherOnly)
		deps.MaterialHandler.RegisterSubChapters(protected.Group("/sub-bab"), teacherOnly)
	}

	if deps.ProgressHandler != nil {
		deps.ProgressHandler.Register(protected.Group("/progress", studentOnly))
	}

	if deps.AssessmentHandler != nil {
		assessments := protected.Group("/asesmen")
		deps.AssessmentHandler.Register(assessments, teacherOnly)
		deps.AssessmentHandler.RegisterQuestions(protected.Group("/soal"), teacherOnly)

		if deps.AttemptHandler != nil {
			deps.AttemptHandler.Register(assessments, studentOnly, teacherOnly)
			deps.AttemptHandler.RegisterScores(protected.Group("/nilai", studentOnly))
		}
	}

	if deps.SimulationHandler != nil {
		deps.SimulationHandler.Register(protected.Group("/simulasi"))
	}

	if deps.ChatbotHandler != nil {
		deps.ChatbotHandler.Register(protected.Group("/chatbot"))
	}

	if deps.UploadHandler != nil {
		deps.UploadHandler.Register(protected.Group("/upload", teacherOnly))
	}
}
