package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nutrifit/backend/internal/api"
	"nutrifit/backend/internal/config"
	"nutrifit/backend/internal/repository/gormdb"
	"nutrifit/backend/internal/service"
	"nutrifit/backend/internal/storage"
	"nutrifit/backend/internal/ws"

	"github.com/gin-gonic/gin"
)

// @title NutriFit API
// @version 1.0
// @description API for managing clients, workout plans, diet plans and protocol goals.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	log.Println("Starting NutriFit server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database ---
	db, err := gormdb.Open(cfg.Database.Path, cfg.Database.Debug)
	if err != nil {
		log.Fatalf("FATAL: Could not open database: %v", err)
	}
	log.Printf("Database ready at %s", cfg.Database.Path)

	// --- File Storage ---
	var fileStorage storage.FileStorage
	if cfg.S3.BucketName != "" {
		fileStorage, err = storage.NewS3Storage(cfg.S3)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
		}
	} else {
		log.Println("S3 storage not configured, progress photos disabled.")
	}

	// --- Repositories ---
	userRepo := gormdb.NewUserRepository(db)
	clientRepo := gormdb.NewClientRepository(db)
	workoutRepo := gormdb.NewWorkoutRepository(db)
	dietRepo := gormdb.NewDietRepository(db)
	protocolRepo := gormdb.NewProtocolRepository(db)
	subscriptionRepo := gormdb.NewSubscriptionRepository(db)
	notificationRepo := gormdb.NewNotificationRepository(db)
	settingsRepo := gormdb.NewSettingsRepository(db)
	reportRepo := gormdb.NewReportRepository(db)

	// --- Notification Hub ---
	hub := ws.NewHub()
	go hub.Run()
	defer hub.Close()

	// --- Services ---
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	accessService := service.NewAccessService(clientRepo, workoutRepo, dietRepo, protocolRepo)
	quotaService := service.NewQuotaService(subscriptionRepo, clientRepo, workoutRepo, dietRepo)
	services := api.Services{
		Auth:         authService,
		Client:       service.NewClientService(clientRepo, accessService, quotaService),
		Workout:      service.NewWorkoutService(workoutRepo, accessService, quotaService),
		Diet:         service.NewDietService(dietRepo, accessService, quotaService),
		Protocol:     service.NewProtocolService(protocolRepo, accessService, fileStorage),
		Subscription: service.NewSubscriptionService(subscriptionRepo, service.NewStubPaymentProvider()),
		Notification: service.NewNotificationService(notificationRepo, hub),
		Settings:     service.NewSettingsService(settingsRepo),
		Report:       service.NewReportService(reportRepo),
	}

	// --- Bootstrap Admin ---
	if cfg.Admin.Email != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := authService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			log.Printf("ERROR: Failed to seed admin account: %v", err)
		}
		cancel()
	}

	// --- Router ---
	router := gin.Default() // Includes Logger and Recovery middleware
	api.SetupRoutes(router, cfg.CORS, services, hub)

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
