package migration

import (
	"context"

	"equipstats/internal"
	"equipstats/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createDatasetsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create datasets table")
	}

	if err := r.createSummariesTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create dataset_summaries table")
	}

	if err := r.createColumnsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create dataset_columns table")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	internal.DefaultLogger.Info("Database migrations completed (version %s)", r.version)
	return nil
}

func (r *MigrationRunner) createDatasetsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS datasets (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			description TEXT,

			file_name VARCHAR(255) NOT NULL,
			file_size BIGINT NOT NULL DEFAULT 0,
			file_type VARCHAR(10) NOT NULL,

			total_rows INTEGER NOT NULL DEFAULT 0,
			total_columns INTEGER NOT NULL DEFAULT 0,
			column_names JSONB NOT NULL DEFAULT '[]'::jsonb,
			column_types JSONB NOT NULL DEFAULT '{}'::jsonb,

			is_processed BOOLEAN NOT NULL DEFAULT false,
			processing_error TEXT,

			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createSummariesTable(ctx context.Context, db *sqlx.DB) error {
	// The full summary lives in the JSONB blob; the avg_* columns are
	// denormalized copies so combined-summary queries never unmarshal
	// every blob.
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS dataset_summaries (
			dataset_id UUID PRIMARY KEY REFERENCES datasets(id) ON DELETE CASCADE,
			summary JSONB NOT NULL,

			total_records INTEGER NOT NULL DEFAULT 0,
			avg_flowrate DOUBLE PRECISION,
			avg_pressure DOUBLE PRECISION,
			avg_temperature DOUBLE PRECISION,
			equipment_type_distribution JSONB NOT NULL DEFAULT '{}'::jsonb,

			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

func (r *MigrationRunner) createColumnsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS dataset_columns (
			id UUID PRIMARY KEY,
			dataset_id UUID NOT NULL REFERENCES datasets(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			data_type VARCHAR(50) NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,

			non_null_count INTEGER NOT NULL DEFAULT 0,
			null_count INTEGER NOT NULL DEFAULT 0,
			unique_count INTEGER NOT NULL DEFAULT 0,

			mean_value DOUBLE PRECISION,
			median_value DOUBLE PRECISION,
			std_value DOUBLE PRECISION,
			min_value DOUBLE PRECISION,
			max_value DOUBLE PRECISION,

			most_frequent_value TEXT,
			most_frequent_count INTEGER,

			UNIQUE (dataset_id, name)
		)
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_datasets_created_at ON datasets(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_datasets_is_processed ON datasets(is_processed)",
		"CREATE INDEX IF NOT EXISTS idx_columns_dataset_id ON dataset_columns(dataset_id)",
		"CREATE INDEX IF NOT EXISTS idx_columns_dataset_position ON dataset_columns(dataset_id, position)",
	}

	for _, idxSQL := range indexes {
		if _, err := db.ExecContext(ctx, idxSQL); err != nil {
			// Index creation failures are logged, never fatal.
			internal.DefaultLogger.Warn("failed to create index: %v", err)
		}
	}

	return nil
}
