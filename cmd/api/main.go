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
	"github.com/rs/zerolog"

	"github.com/noah-isme/praxis-api/internal/config"
	"github.com/noah-isme/praxis-api/internal/database"
	"github.com/noah-isme/praxis-api/internal/handler"
	"github.com/noah-isme/praxis-api/internal/middleware"
	"github.com/noah-isme/praxis-api/internal/models"
	"github.com/noah-isme/praxis-api/internal/repository"
	"github.com/noah-isme/praxis-api/internal/router"
	"github.com/noah-isme/praxis-api/internal/service"
	"github.com/noah-isme/praxis-api/pkg/blob"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Program{},
		&models.Module{},
		&models.ModuleProgress{},
		&models.ModuleStaff{},
		&models.ProgramStaff{},
		&models.Assessment{},
		&models.AssessmentDomain{},
		&models.AssessmentQuestion{},
		&models.AssignmentType{},
		&models.Assignment{},
		&models.CapabilitySnapshot{},
		&models.SnapshotRating{},
		&models.SnapshotQuestionNote{},
		&models.SnapshotDomainNote{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NatsURL)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	store, err := blob.NewCloudinaryStore(blob.CloudinaryConfig{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create attachment store: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	assignmentRepo := repository.NewAssignmentRepository(db)
	assignmentTypeRepo := repository.NewAssignmentTypeRepository(db)
	progressRepo := repository.NewModuleProgressRepository(db)
	staffRepo := repository.NewStaffRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)
	rubricRepo := repository.NewRubricRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	gateway := service.NewNotificationGateway(notificationRepo, redisClient, natsConn, cfg.NotificationChannel, logger)
	rubricProvider := service.NewRubricProvider(rubricRepo, redisClient, cfg.RubricCacheTTL, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, assignmentTypeRepo, progressRepo, staffRepo, validate, gateway, logger)
	gradingService := service.NewGradingService(assignmentRepo, snapshotRepo, rubricProvider, gateway, validate, logger)

	assignmentHandler := handler.NewAssignmentHandler(assignmentService, gradingService, logger)
	gradingHandler := handler.NewGradingHandler(gradingService, logger)
	attachmentHandler := handler.NewAttachmentHandler(assignmentService, store, logger)
	rubricHandler := handler.NewRubricHandler(rubricProvider, logger)
	notificationHandler := handler.NewNotificationHandler(gateway, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app)
	router.Register(app, cfg, router.Dependencies{
		AssignmentHandler:   assignmentHandler,
		GradingHandler:      gradingHandler,
		AttachmentHandler:   attachmentHandler,
		RubricHandler:       rubricHandler,
		NotificationHandler: notificationHandler,
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
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
