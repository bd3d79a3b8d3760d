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
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gradebook-api/internal/catalog"
	"github.com/noah-isme/gradebook-api/internal/config"
	"github.com/noah-isme/gradebook-api/internal/database"
	"github.com/noah-isme/gradebook-api/internal/grading"
	"github.com/noah-isme/gradebook-api/internal/handler"
	"github.com/noah-isme/gradebook-api/internal/middleware"
	"github.com/noah-isme/gradebook-api/internal/models"
	"github.com/noah-isme/gradebook-api/internal/repository"
	"github.com/noah-isme/gradebook-api/internal/router"
	"github.com/noah-isme/gradebook-api/internal/service"
	"github.com/noah-isme/gradebook-api/pkg/advisor"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.GradeRecord{}, &models.User{}, &models.ActivityLog{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL, nats.Name(cfg.AppName))
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
	}

	subjects := catalog.Default()
	if cfg.CatalogPath != "" {
		subjects, err = catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			log.Fatalf("failed to load subject catalog: %v", err)
		}
	}

	var studyAdvisor advisor.Advisor
	if cfg.OpenAIAPIKey != "" {
		studyAdvisor, err = advisor.NewOpenAIAdvisor(advisor.OpenAIConfig{
			APIKey: cfg.OpenAIAPIKey,
			Model:  cfg.OpenAIModel,
			Logger: logger,
		})
		if err != nil {
			log.Fatalf("failed to create study advisor: %v", err)
		}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	classifier := grading.Classifier{ExcellentBand: cfg.ExcellentBand}

	gradeRepo := repository.NewGradeRepository(db)
	userRepo := repository.NewUserRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	activityService := service.NewActivityService(activityRepo, natsConn, cfg.NATSSubject, logger)
	gradeService := service.NewGradeService(gradeRepo, subjects, classifier, validate, activityService, logger)
	rankingService := service.NewRankingService(gradeRepo, classifier, grading.CombinedPolicy(cfg.RankingPolicy), logger)
	eligibilityService := service.NewEligibilityService(gradeRepo, cfg.EligibilitySubjects[0], cfg.EligibilitySubjects[1], logger)
	cleanupService := service.NewCleanupService(gradeRepo, subjects, classifier, activityService, logger)
	importService := service.NewImportService(gradeRepo, subjects, classifier, activityService, logger)
	dashboardService := service.NewDashboardService(gradeRepo, subjects, redisClient, cfg.DashboardCacheTTL, logger)
	suggestionService := service.NewSuggestionService(gradeRepo, subjects, studyAdvisor, logger)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.TokenTTL, cfg.AdminUsername, validate, logger)

	if cfg.AdminPassword != "" {
		if err := authService.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword, cfg.AdminFullName); err != nil {
			log.Fatalf("failed to seed admin account: %v", err)
		}
	} else {
		logger.Warn().Msg("admin password not configured, skipping admin seed")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:        handler.NewAuthHandler(authService, logger),
		UserHandler:        handler.NewUserHandler(authService, logger),
		GradeHandler:       handler.NewGradeHandler(gradeService, logger),
		ImportHandler:      handler.NewImportHandler(importService, logger),
		RankingHandler:     handler.NewRankingHandler(rankingService, logger),
		StudentHandler:     handler.NewStudentHandler(eligibilityService, suggestionService, logger),
		DashboardHandler:   handler.NewDashboardHandler(dashboardService, logger),
		MaintenanceHandler: handler.NewMaintenanceHandler(cleanupService, logger),
		ActivityHandler:    handler.NewActivityHandler(activityService, logger),
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
		TeacherOnly:        middleware.RequireRole(models.RoleTeacher),
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
