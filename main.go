package main

import (
	"context"
	"time"

	"equipstats/adapters/postgres"
	"equipstats/internal"
	"equipstats/internal/config"
	"equipstats/internal/migration"
	"equipstats/ui"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	logger := internal.DefaultLogger

	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration: %v", err)
		return
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		logger.Error("failed to connect to database: %v", err)
		return
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		logger.Error("database ping failed: %v", err)
		return
	}

	runner := migration.NewRunner()
	if err := runner.Run(ctx, db); err != nil {
		logger.Error("database migration failed: %v", err)
		return
	}

	repo := postgres.NewDatasetRepository(db)
	server := ui.NewServer(cfg, repo, db, logger)

	logger.Info("Starting equipment statistics service (retaining last %d datasets)", cfg.Retention.MaxDatasets)
	if err := server.Run(); err != nil {
		logger.Error("server stopped: %v", err)
	}
}
