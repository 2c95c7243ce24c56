package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "libraflow-backend/internal/api/http"
	"libraflow-backend/internal/config"
	"libraflow-backend/internal/logger"
	"libraflow-backend/internal/repository/postgres"
	"libraflow-backend/internal/security"
	"libraflow-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting LibraFlow Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	// Apply schema migrations
	if err := postgres.RunMigrations(cfg.Database.MigrationsDir, cfg.GetDatabaseConnectionString()); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Database
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)

	// Initialize Email Service
	emailSvc := service.NewEmailService(cfg.Email)

	// Initialize Services
	circulationSvc := service.NewCirculationService(
		store.BorrowRepository,
		store.BookRepository,
		store.ReaderRepository,
		store.ViolationRepository,
		store.NotificationRepository,
		emailSvc,
		store,
		cfg.Circulation,
	)
	catalogSvc := service.NewCatalogService(store.BookRepository)
	membershipSvc := service.NewMembershipService(store.ReaderRepository, cfg.Circulation)
	authSvc := service.NewAuthService(store.ReaderRepository, store.StaffRepository, tokenManager, cfg.JWT)
	violationSvc := service.NewViolationService(
		store.ViolationRepository,
		store.ReaderRepository,
		store.BorrowRepository,
		store,
		cfg.Circulation,
	)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	// Build HTTP router
	router := httpapi.NewRouter(httpapi.Services{
		Auth:          authSvc,
		Membership:    membershipSvc,
		Catalog:       catalogSvc,
		Circulation:   circulationSvc,
		Violations:    violationSvc,
		Notifications: noteSvc,
	}, tokenManager)

	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
