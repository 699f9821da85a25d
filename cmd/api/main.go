package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/joblane/joblane/internal/auth"
	"github.com/joblane/joblane/internal/config"
	"github.com/joblane/joblane/internal/database"
	"github.com/joblane/joblane/internal/handlers"
	"github.com/joblane/joblane/internal/notify"
	"github.com/joblane/joblane/internal/services"
	"github.com/joblane/joblane/internal/storage"
)

func main() {
	cfg := config.Load()

	zl, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer zl.Sync()
	logger := zl.Sugar()

	// Database connection + migrations
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalw("Database connection failed", "error", err)
	}

	// Document store for uploaded resumes
	docs, err := storage.NewDiskStore(cfg.FilesDir, cfg.PublicBaseURL)
	if err != nil {
		logger.Fatalw("Document store init failed", "dir", cfg.FilesDir, "error", err)
	}

	// Optional event publisher; the services run fine without a broker.
	var events *notify.Publisher
	if cfg.AMQPURL != "" {
		events, err = notify.NewPublisher(cfg.AMQPURL)
		if err != nil {
			logger.Fatalw("Event publisher init failed", "error", err)
		}
		defer events.Close()
	}

	// Record stores
	jobStore := database.NewJobStore(db)
	appStore := database.NewApplicationStore(db)
	viewStore := database.NewViewStore(db)

	// Core services
	intake := services.NewIntakeService(jobStore, appStore, docs, events, logger)
	review := services.NewReviewService(jobStore, appStore, events, logger)
	views := services.NewViewTrackingService(jobStore, viewStore, logger)

	// Handlers
	appHandler := handlers.NewApplicationHandler(intake, review, logger)
	viewHandler := handlers.NewViewHandler(views, logger)

	// Router, CORS, identity middleware
	r := gin.Default()
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", cfg.ActorHeader}
	r.Use(cors.New(corsCfg))
	r.Use(auth.Middleware(auth.HeaderProvider{Header: cfg.ActorHeader}))

	// Stored documents are served straight off the files directory.
	r.Static("/files", cfg.FilesDir)

	api := r.Group("/api/v1")
	{
		api.GET("/health", handlers.HealthCheck)

		api.POST("/jobs/:id/apply", appHandler.Apply)
		api.POST("/jobs/:id/view", viewHandler.Record)
		api.GET("/jobs/:id/applications", appHandler.ListForJob)
		api.GET("/jobs/:id/applications/:applicationId", appHandler.Get)
		api.PATCH("/jobs/:id/applications/:applicationId", appHandler.UpdateStatus)
		api.GET("/applications", appHandler.ListForApplicant)
	}

	logger.Infow("Server starting", "addr", cfg.Addr)
	if err := r.Run(cfg.Addr); err != nil {
		logger.Fatalw("Server failed", "error", err)
	}
}
