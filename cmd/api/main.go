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
	"github.com/rs/zerolog"

	"github.com/communix/communix-api/internal/config"
	"github.com/communix/communix-api/internal/database"
	"github.com/communix/communix-api/internal/handler"
	"github.com/communix/communix-api/internal/middleware"
	"github.com/communix/communix-api/internal/models"
	"github.com/communix/communix-api/internal/observability"
	"github.com/communix/communix-api/internal/repository"
	"github.com/communix/communix-api/internal/router"
	"github.com/communix/communix-api/internal/service"
	cloud "github.com/communix/communix-api/pkg/cloudinary"
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
		&models.User{},
		&models.Community{},
		&models.Group{},
		&models.JoinRequest{},
		&models.Post{},
		&models.Report{},
		&models.Warning{},
		&models.Setting{},
		&models.Role{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL, cfg.AppName)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, activity events stay local")
		} else {
			defer natsConn.Close()
		}
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	observability.RegisterMetrics()

	userRepo := repository.NewUserRepository(db)
	communityRepo := repository.NewCommunityRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	joinRequestRepo := repository.NewJoinRequestRepository(db)
	postRepo := repository.NewPostRepository(db)
	reportRepo := repository.NewReportRepository(db)
	warningRepo := repository.NewWarningRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	activityService := service.NewActivityService(activityRepo, redisClient, cfg.ActivityChannel, natsConn, logger)
	authService := service.NewAuthService(userRepo, validate, cfg.JWTSecret, cfg.TokenTTL, logger)
	userService := service.NewUserService(userRepo, roleRepo, validate, activityService, logger)
	maxUploadSize := int64(cfg.UploadMaxSizeMB) << 20
	communityService := service.NewCommunityService(communityRepo, groupRepo, uploader, validate, activityService, maxUploadSize, logger)
	membershipService := service.NewMembershipService(joinRequestRepo, communityRepo, groupRepo, validate, activityService, logger)
	groupService := service.NewGroupService(groupRepo, communityRepo, validate, activityService, logger)
	dashboardService := service.NewDashboardService(dashboardRepo, redisClient, cfg.DashboardCacheTTL, logger)
	reportService := service.NewReportService(reportRepo, postRepo, userRepo, warningRepo, validate, activityService, logger)
	settingsService := service.NewSettingsService(settingsRepo, roleRepo, validate, activityService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AllowOrigins: cfg.CORSAllowOrigins})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:           handler.NewAuthHandler(authService, logger),
		UserHandler:           handler.NewUserHandler(userService, logger),
		CommunityHandler:      handler.NewCommunityHandler(communityService, membershipService, logger),
		GroupHandler:          handler.NewGroupHandler(groupService, logger),
		ReportHandler:         handler.NewReportHandler(reportService, logger),
		AdminUserHandler:      handler.NewAdminUserHandler(userService, logger),
		AdminCommunityHandler: handler.NewAdminCommunityHandler(communityService, membershipService, logger),
		AdminDashboardHandler: handler.NewAdminDashboardHandler(dashboardService, logger),
		AdminSettingsHandler:  handler.NewAdminSettingsHandler(settingsService, logger),
		AdminReportHandler:    handler.NewAdminReportHandler(reportService, logger),
		AdminActivityHandler:  handler.NewAdminActivityHandler(activityService, logger),
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
