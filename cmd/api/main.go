package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"

	"go-jobpilot-backend/config"
	_ "go-jobpilot-backend/docs" // Important for Swagger
	"go-jobpilot-backend/internal/analyzer"
	v1 "go-jobpilot-backend/internal/delivery/http/v1"
	"go-jobpilot-backend/internal/repository/postgres"
	"go-jobpilot-backend/internal/usecase"
	"go-jobpilot-backend/internal/worker"
	"go-jobpilot-backend/pkg/database"
	"go-jobpilot-backend/pkg/logger"
)

// @title           JobPilot Backend API
// @version         1.0
// @description     Job-application orchestration engine: four-stage AI analysis pipeline and lifecycle tracking.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting jobpilot backend", "port", cfg.Port)

	// 3. Setup Database
	db, err := database.New(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	if err := postgres.Migrate(migrateCtx, db); err != nil {
		cancelMigrate()
		logger.Log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	cancelMigrate()

	// 4. Setup Repositories
	userRepo := postgres.NewUserRepository(db)
	resumeRepo := postgres.NewResumeRepository(db)
	applicationRepo := postgres.NewApplicationRepository(db)
	reminderRepo := postgres.NewReminderRepository(db)

	// 5. Setup Analyzer client
	analyzerClient := analyzer.New(cfg.AnalyzerURL, time.Duration(cfg.AnalyzerTimeoutSeconds)*time.Second)

	// 6. Setup UseCases
	validate := validator.New()
	authUC := usecase.NewAuthUsecase(userRepo)
	resumeUC := usecase.NewResumeUsecase(resumeRepo, cfg.CVStorageDir)
	applicationUC := usecase.NewApplicationUsecase(applicationRepo)
	pipelineUC := usecase.NewPipelineUsecase(applicationRepo, resumeRepo, userRepo, analyzerClient, validate, cfg.CVStorageDir)
	reminderUC := usecase.NewReminderUsecase(reminderRepo, applicationRepo)
	adminUC := usecase.NewAdminUsecase(resumeRepo, applicationRepo)

	// 7. Setup Reminder Worker
	reminderWorker := worker.NewReminderWorker(reminderUC, worker.LogNotifier{},
		time.Duration(cfg.ReminderPollSeconds)*time.Second)
	reminderWorker.Start(context.Background())

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        authUC,
		ResumeUC:      resumeUC,
		ApplicationUC: applicationUC,
		PipelineUC:    pipelineUC,
		ReminderUC:    reminderUC,
		AdminUC:       adminUC,
		Analyzer:      analyzerClient,
		Config:        cfg,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	reminderWorker.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
