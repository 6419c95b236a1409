package main

import (
	"log"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"

	"edugrant/docs"

	"edugrant/internal/auth"
	"edugrant/internal/cache"
	"edugrant/internal/config"
	"edugrant/internal/db"
	"edugrant/internal/events"
	"edugrant/internal/handler"
	"edugrant/internal/model"
	"edugrant/internal/repository"
	"edugrant/internal/router"
	"edugrant/internal/service"
)

// @title EduGrant Scholarship Platform API
// @version 1.0
// @description Scholarship management API connecting students, donors, reviewers and administrators.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Review{},
			&model.Document{},
			&model.Application{},
			&model.Contribution{},
			&model.Notification{},
			&model.Announcement{},
			&model.Setting{},
			&model.UserRole{},
			&model.Role{},
			&model.Scholarship{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Role{},
		&model.UserRole{},
		&model.Scholarship{},
		&model.Application{},
		&model.Document{},
		&model.Review{},
		&model.Notification{},
		&model.Announcement{},
		&model.Contribution{},
		&model.Setting{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	producer := events.NewProducer(cfg.KafkaBroker, cfg.KafkaTopic)
	defer producer.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	roleRepo := repository.NewRoleRepository(gormDB)
	scholarshipRepo := repository.NewScholarshipRepository(gormDB)
	applicationRepo := repository.NewApplicationRepository(gormDB)
	reviewRepo := repository.NewReviewRepository(gormDB)
	notificationRepo := repository.NewNotificationRepository(gormDB)
	announcementRepo := repository.NewAnnouncementRepository(gormDB)
	contributionRepo := repository.NewContributionRepository(gormDB)
	settingRepo := repository.NewSettingRepository(gormDB)

	// Initialize services
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	authService := service.NewAuthService(userRepo, roleRepo, jwtService, producer)
	scholarshipService := service.NewScholarshipService(scholarshipRepo, applicationRepo, cacheClient)
	applicationService := service.NewApplicationService(applicationRepo, scholarshipRepo, userRepo, roleRepo, reviewRepo, notificationRepo, producer)
	notificationService := service.NewNotificationService(notificationRepo)
	announcementService := service.NewAnnouncementService(announcementRepo)
	contributionService := service.NewContributionService(contributionRepo, scholarshipRepo)
	settingService := service.NewSettingService(settingRepo)

	// Register routes
	router.Register(e, authService, router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Scholarship:  handler.NewScholarshipHandler(scholarshipService),
		Application:  handler.NewApplicationHandler(applicationService),
		Reviewer:     handler.NewReviewerHandler(applicationService),
		Announcement: handler.NewAnnouncementHandler(announcementService),
		Contribution: handler.NewContributionHandler(contributionService),
		Notification: handler.NewNotificationHandler(notificationService),
		Setting:      handler.NewSettingHandler(settingService),
	})

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
