package main

import (
	"log"
	"net/http"
	"os"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/projectdesk/projectdesk/internal/config"
	"github.com/projectdesk/projectdesk/internal/constants"
	"github.com/projectdesk/projectdesk/internal/database"
	"github.com/projectdesk/projectdesk/internal/handlers"
	"github.com/projectdesk/projectdesk/internal/logging"
	"github.com/projectdesk/projectdesk/internal/repository"
	"github.com/projectdesk/projectdesk/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, closer, err := logging.New(logging.Config{
		Level: cfg.LogLevel,
		Dir:   cfg.LogDir,
		JSON:  cfg.IsRelease(),
	})
	if err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer closer.Close()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,        // Redis pool size
		"tcp",     // network type
		redisAddr, // Redis address from config
		"",        // password (empty = no password)
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		logger.Error("failed to create redis session store", "addr", redisAddr, "error", err)
		os.Exit(1)
	}
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.IsRelease(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Initialize AI service
	var aiService *services.AIService
	if cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(cfg.OpenAIAPIKey)
	} else {
		logger.Warn("OPENAI_API_KEY is not set; task generation is disabled")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Initialize services and routes
	handlers.RegisterRoutes(r, db, handlers.Services{
		Auth:    services.NewAuthService(userRepo, roleRepo, settingsRepo),
		Project: services.NewProjectService(projectRepo, userRepo),
		Task:    services.NewTaskService(taskRepo, projectRepo, teamRepo, userRepo, activityRepo, aiService),
		Team:    services.NewTeamService(teamRepo, projectRepo, userRepo),
		User:    services.NewUserService(userRepo, roleRepo, settingsRepo),
		Report:  services.NewReportService(projectRepo, taskRepo, teamRepo, activityRepo, reportRepo, cfg.ReportDir),
	})

	// Start server
	logger.Info("server starting", "addr", cfg.HTTPAddr)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
