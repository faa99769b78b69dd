package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/scamwatch/scamwatch/internal/api"
	"github.com/scamwatch/scamwatch/internal/archive"
	"github.com/scamwatch/scamwatch/internal/config"
	"github.com/scamwatch/scamwatch/internal/digest"
	"github.com/scamwatch/scamwatch/internal/graph"
	"github.com/scamwatch/scamwatch/internal/notifications"
	"github.com/scamwatch/scamwatch/internal/scheduler"
	"github.com/scamwatch/scamwatch/internal/storage"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set up logging
	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting ScamWatch")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the report store and apply migrations
	store, err := storage.NewPostgresStore(ctx, cfg.DatabaseURL)
	if err != nil {
		logrus.Fatalf("Failed to initialize report store: %v", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		logrus.Fatalf("Failed to migrate database: %v", err)
	}

	// Digest snapshot archive is optional
	var arc archive.Archive
	if cfg.StorageAccount != "" {
		azureArchive, err := archive.NewAzureArchive(cfg.StorageAccount, cfg.StorageContainer)
		if err != nil {
			logrus.Fatalf("Failed to initialize archive: %v", err)
		}
		arc = azureArchive
	} else {
		logrus.Info("No storage account configured, digest archiving disabled")
	}

	notificationService := notifications.NewService(cfg)
	digestService := digest.NewService(cfg, store, notificationService, arc)

	// Digests and sweeps only make sense with a notification channel
	if cfg.AlertWebhookURL != "" || cfg.NotificationEmail != "" {
		schedulerService := scheduler.NewService(cfg, digestService)
		if err := schedulerService.Start(); err != nil {
			logrus.Fatalf("Failed to start scheduler: %v", err)
		}
		defer schedulerService.Stop()
	} else {
		logrus.Info("No notification channel configured, scheduler disabled")
	}

	apiServer := api.NewServer(store, graph.NewBuilder(cfg.GraphPairGroupLimit))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server in a goroutine
	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
