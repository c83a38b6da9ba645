package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"chess-shop/cmd"
	"chess-shop/internal/data/repository"
	"chess-shop/internal/usecase"
	"chess-shop/internal/wire"
	"chess-shop/pkg/database"
	"chess-shop/pkg/metrics"
	"chess-shop/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.InitDB(ctx, config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully", db.Stats()...)

	if config.Database.AutoMigrate {
		if err := database.Migrate(ctx, db, logger); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, config, logger)

	go cleanSessions(ctx, app.Service.Auth, time.Duration(config.Session.CleanupIntervalMins)*time.Minute, logger)

	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}

	logger.Info("Shutting down", db.Stats()...)
}

// cleanSessions periodically deletes long-expired sessions.
func cleanSessions(ctx context.Context, auth usecase.AuthService, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := auth.CleanExpiredSessions(ctx)
			if err != nil {
				logger.Warn("Session cleanup failed", zap.Error(err))
				continue
			}
			metrics.RecordSessionsCleaned(n)
			if n > 0 {
				logger.Info("Expired sessions cleaned", zap.Int64("count", n))
			}
		}
	}
}
