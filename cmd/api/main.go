package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/smartlab-id/smartlab-api/internal/authz"
	"github.com/smartlab-id/smartlab-api/internal/config"
	"github.com/smartlab-id/smartlab-api/internal/database"
	"github.com/smartlab-id/smartlab-api/internal/handler"
	"github.com/smartlab-id/smartlab-api/internal/middleware"
	"github.com/smartlab-id/smartlab-api/internal/models"
	"github.com/smartlab-id/smartlab-api/internal/repository"
	"github.com/smartlab-id/smartlab-api/internal/router"
	"github.com/smartlab-id/smartlab-api/internal/service"
	"github.com/smartlab-id/smartlab-api/pkg/storage"
)

// simulationCatalog is the fixed set of interactive simulations. Seeding is
// idempotent; existing slugs are left untouched.
var simulationCatalog = []models.Simulation{
	{Slug: "rangkaian-listrik", Title: "Rangkaian Listrik"},
	{Slug: "hukum-newton", Title: "Hukum Newton"},
	{Slug: "reaksi-kimia", Title: "Reaksi Kimia"},
	{Slug: "sistem-tata-surya", Title: "Sistem Tata Surya"},
	{Slug: "fotosintesis", Title: "Fotosintesis"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL, database.PoolOptions{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Class{},
		&models.Subject{},
		&models.Material{},
		&models.Chapter{},
		&models.SubChapter{},
		&models.SubChapterProgress{},
		&models.MaterialProgress{},
		&models.Assessment{},
		&models.Question{},
		&models.Answer{},
		&models.Score{},
		&models.Simulation{},
		&models.SimulationProgress{},
		&models.UploadRecord{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, dashboard caching disabled")
	}

	var store service.FileStorage
	if cfg.StorageCloudName != "" {
		cloud, err := storage.New(storage.Config{
			CloudName: cfg.StorageCloudName,
			APIKey:    cfg.StorageAPIKey,
			APISecret: cfg.StorageAPISecret,
			Folder:    cfg.StorageBucket,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create storage client: %v", err)
		}
		store = cloud
	} else {
		logger.Warn().Msg("storage credentials not configured, uploads will fail")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	authorizer := authz.NewOwnerAuthorizer()

	userRepo := repository.NewUserRepository(db)
	classRepo := repository.NewClassRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	chapterRepo := repository.NewChapterRepository(db)
	subChapterRepo := repository.NewSubChapterRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	assessmentRepo := repository.NewAssessmentRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)
	simulationRepo := repository.NewSimulationRepository(db)
	uploadRepo := repository.NewUploadRepository(db)

	if err := simulationRepo.SeedSimulations(context.Background(), simulationCatalog); err != nil {
		log.Fatalf("failed to seed simulation catalog: %v", err)
	}

	classService := service.NewClassService(classRepo, validate, logger)
	subjectService := service.NewSubjectService(subjectRepo, validate, logger)
	accountService := service.NewAccountService(userRepo, validate, cfg.AccountEmailDomain, logger)
	materialService := service.NewMaterialService(materialRepo, chapterRepo, subChapterRepo, authorizer, validate, logger)
	dashboardService := service.NewDashboardService(progressRepo, redisClient, cfg.DashboardCacheTTL, logger)
	progressService := service.NewProgressService(progressRepo, subChapterRepo, dashboardService, validate, logger)
	assessmentService := service.NewAssessmentService(assessmentRepo, authorizer, validate, logger)
	attemptService := service.NewAttemptService(assessmentRepo, attemptRepo, authorizer, validate, logger)
	simulationService := service.NewSimulationService(simulationRepo, validate, logger)
	chatbotService := service.NewChatbotService(service.ChatbotConfig{
		WorkflowURL: cfg.ChatbotWorkflowURL,
		DocumentRef: cfg.ChatbotDocumentRef,
		Timeout:     cfg.ChatbotTimeout,
	}, validate, logger)
	uploadService := service.NewUploadService(store, uploadRepo, cfg.MaxUploadSizeMB, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    (cfg.MaxUploadSizeMB + 1) * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.CORSAllowOrigins,
	})
	router.Register(app, cfg, router.Dependencies{
		DB:                db,
		ClassHandler:      handler.NewClassHandler(classService, logger),
		SubjectHandler:    handler.NewSubjectHandler(subjectService, logger),
		AccountHandler:    handler.NewAccountHandler(accountService, logger),
		MaterialHandler:   handler.NewMaterialHandler(materialService, logger),
		ProgressHandler:   handler.NewProgressHandler(progressService, dashboardService, logger),
		AssessmentHandler: handler.NewAssessmentHandler(assessmentService, logger),
		AttemptHandler:    handler.NewAttemptHandler(attemptService, logger),
		SimulationHandler: handler.NewSimulationHandler(simulationService, logger),
		ChatbotHandler:    handler.NewChatbotHandler(chatbotService, logger),
		UploadHandler:     handler.NewUploadHandler(uploadService, logger),
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
