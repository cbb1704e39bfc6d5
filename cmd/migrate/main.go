// Command migrate applies the database schema without starting the server.
package main

import (
	"context"
	"time"

	"equipstats/internal"
	"equipstats/internal/config"
	"equipstats/internal/migration"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	logger := internal.DefaultLogger

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

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	runner := migration.NewRunner()
	if err := runner.Run(ctx, db); err != nil {
		logger.Error("migration failed: %v", err)
		return
	}
	logger.Info("Schema is up to date (version %s)", runner.Version())
}
