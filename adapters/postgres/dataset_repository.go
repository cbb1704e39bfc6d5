// Package postgres implements the storage ports over PostgreSQL via sqlx.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"equipstats/domain/core"
	"equipstats/domain/equipment"
	"equipstats/internal/errors"

	"github.com/jmoiron/sqlx"
)

// DatasetRepository implements ports.DatasetRepository using PostgreSQL
type DatasetRepository struct {
	db *sqlx.DB
}

// NewDatasetRepository creates a new PostgreSQL dataset repository
func NewDatasetRepository(db *sqlx.DB) *DatasetRepository {
	return &DatasetRepository{db: db}
}

// datasetRow mirrors the datasets table; JSONB columns scan into raw bytes.
type datasetRow struct {
	ID              string    `db:"id"`
	Name            string    `db:"name"`
	Description     string    `db:"description"`
	FileName        string    `db:"file_name"`
	FileSize        int64     `db:"file_size"`
	FileType        string    `db:"file_type"`
	TotalRows       int       `db:"total_rows"`
	TotalColumns    int       `db:"total_columns"`
	ColumnNames     []byte    `db:"column_names"`
	ColumnTypes     []byte    `db:"column_types"`
	IsProcessed     bool      `db:"is_processed"`
	ProcessingError string    `db:"processing_error"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

const selectDatasetColumns = `
	id, name,
	COALESCE(description, '') AS description,
	file_name, file_size, file_type,
	total_rows, total_columns, column_names, column_types,
	is_processed,
	COALESCE(processing_error, '') AS processing_error,
	created_at, updated_at`

func (row *datasetRow) toDomain() (*equipment.Dataset, error) {
	ds := &equipment.Dataset{
		ID:              core.ID(row.ID),
		Name:            row.Name,
		Description:     row.Description,
		FileName:        row.FileName,
		FileSize:        row.FileSize,
		FileType:        row.FileType,
		TotalRows:       row.TotalRows,
		TotalColumns:    row.TotalColumns,
		IsProcessed:     row.IsProcessed,
		ProcessingError: row.ProcessingError,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	if len(row.ColumnNames) > 0 {
		if err := json.Unmarshal(row.ColumnNames, &ds.ColumnNames); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal column names")
		}
	}
	if len(row.ColumnTypes) > 0 {
		if err := json.Unmarshal(row.ColumnTypes, &ds.ColumnTypes); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal column types")
		}
	}
	return ds, nil
}

// CreateWithSummary stores the dataset, its summary and per-column details in
// one transaction, then prunes datasets beyond keep (oldest first) inside the
// same transaction so concurrent uploads cannot overshoot the retention cap.
func (r *DatasetRepository) CreateWithSummary(ctx context.Context, ds *equipment.Dataset, summary equipment.Summary, columns []equipment.ColumnDetail, keep int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if err := insertDataset(ctx, tx, ds); err != nil {
		return err
	}
	if err := insertSummary(ctx, tx, ds.ID, summary); err != nil {
		return err
	}
	for _, col := range columns {
		if err := insertColumn(ctx, tx, ds.ID, col); err != nil {
			return err
		}
	}
	if keep > 0 {
		if _, err := pruneOldest(ctx, tx, keep); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit dataset transaction")
	}
	return nil
}

func insertDataset(ctx context.Context, tx *sqlx.Tx, ds *equipment.Dataset) error {
	columnNames, err := json.Marshal(ds.ColumnNames)
	if err != nil {
		return errors.Wrap(err, "failed to marshal column names")
	}
	columnTypes, err := json.Marshal(ds.ColumnTypes)
	if err != nil {
		return errors.Wrap(err, "failed to marshal column types")
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO datasets (
			id, name, description, file_name, file_size, file_type,
			total_rows, total_columns, column_names, column_types,
			is_processed, processing_error, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`,
		ds.ID.String(), ds.Name, nullIfEmpty(ds.Description),
		ds.FileName, ds.FileSize, ds.FileType,
		ds.TotalRows, ds.TotalColumns, columnNames, columnTypes,
		ds.IsProcessed, nullIfEmpty(ds.ProcessingError),
		ds.CreatedAt, ds.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to insert dataset")
	}
	return nil
}

func insertSummary(ctx context.Context, tx *sqlx.Tx, id core.ID, summary equipment.Summary) error {
	blob, err := json.Marshal(summary)
	if err != nil {
		return errors.Wrap(err, "failed to marshal summary")
	}
	distribution, err := json.Marshal(summary.EquipmentAnalysis.EquipmentTypeDistribution)
	if err != nil {
		return errors.Wrap(err, "failed to marshal equipment distribution")
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO dataset_summaries (
			dataset_id, summary, total_records,
			avg_flowrate, avg_pressure, avg_temperature,
			equipment_type_distribution, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
	`,
		id.String(), blob, summary.TotalRecords,
		metricAverage(summary.OperationalMetrics.Flowrate),
		metricAverage(summary.OperationalMetrics.Pressure),
		metricAverage(summary.OperationalMetrics.Temperature),
		distribution,
	)
	if err != nil {
		return errors.Wrap(err, "failed to insert dataset summary")
	}
	return nil
}

func insertColumn(ctx context.Context, tx *sqlx.Tx, id core.ID, col equipment.ColumnDetail) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO dataset_columns (
			id, dataset_id, name, data_type, position,
			non_null_count, null_count, unique_count,
			mean_value, median_value, std_value, min_value, max_value,
			most_frequent_value, most_frequent_count
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`,
		core.NewID().String(), id.String(), col.Name, col.DataType, col.Position,
		col.NonNullCount, col.NullCount, col.UniqueCount,
		col.Mean, col.Median, col.Std, col.Min, col.Max,
		col.MostFrequentValue, col.MostFrequentCount,
	)
	if err != nil {
		return errors.Wrapf(err, "failed to insert column detail %q", col.Name)
	}
	return nil
}

// GetByID retrieves a dataset by its ID
func (r *DatasetRepository) GetByID(ctx context.Context, id core.ID) (*equipment.Dataset, error) {
	var row datasetRow
	err := r.db.GetContext(ctx, &row, `
		SELECT `+selectDatasetColumns+`
		FROM datasets WHERE id = $1
	`, id.String())
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("dataset")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get dataset")
	}
	return row.toDomain()
}

// List retrieves datasets ordered newest first
func (r *DatasetRepository) List(ctx context.Context, limit, offset int) ([]*equipment.Dataset, error) {
	var rows []datasetRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+selectDatasetColumns+`
		FROM datasets
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list datasets")
	}

	datasets := make([]*equipment.Dataset, 0, len(rows))
	for i := range rows {
		ds, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, ds)
	}
	return datasets, nil
}

// Delete removes a dataset; summary and column rows cascade
func (r *DatasetRepository) Delete(ctx context.Context, id core.ID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM datasets WHERE id = $1`, id.String())
	if err != nil {
		return errors.Wrap(err, "failed to delete dataset")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to get rows affected")
	}
	if rowsAffected == 0 {
		return errors.NotFound("dataset")
	}
	return nil
}

// Count returns the total number of stored datasets
func (r *DatasetRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM datasets`); err != nil {
		return 0, errors.Wrap(err, "failed to count datasets")
	}
	return count, nil
}

type summaryRow struct {
	DatasetID   string    `db:"dataset_id"`
	DatasetName string    `db:"dataset_name"`
	Summary     []byte    `db:"summary"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (row *summaryRow) toDomain() (*equipment.StoredSummary, error) {
	stored := &equipment.StoredSummary{
		DatasetID:   core.ID(row.DatasetID),
		DatasetName: row.DatasetName,
		UpdatedAt:   row.UpdatedAt,
	}
	if err := json.Unmarshal(row.Summary, &stored.Summary); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal stored summary")
	}
	return stored, nil
}

// GetSummary retrieves the stored summary for one dataset
func (r *DatasetRepository) GetSummary(ctx context.Context, id core.ID) (*equipment.StoredSummary, error) {
	var row summaryRow
	err := r.db.GetContext(ctx, &row, `
		SELECT s.dataset_id, d.name AS dataset_name, s.summary, s.updated_at
		FROM dataset_summaries s
		JOIN datasets d ON d.id = s.dataset_id
		WHERE s.dataset_id = $1
	`, id.String())
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("dataset summary")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get dataset summary")
	}
	return row.toDomain()
}

// GetLatestSummary retrieves the summary of the most recently uploaded dataset
func (r *DatasetRepository) GetLatestSummary(ctx context.Context) (*equipment.StoredSummary, error) {
	var row summaryRow
	err := r.db.GetContext(ctx, &row, `
		SELECT s.dataset_id, d.name AS dataset_name, s.summary, s.updated_at
		FROM dataset_summaries s
		JOIN datasets d ON d.id = s.dataset_id
		ORDER BY d.created_at DESC
		LIMIT 1
	`)
	if err == sql.ErrNoRows {
		return nil, errors.NoData("no processed datasets available")
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get latest summary")
	}
	return row.toDomain()
}

// ListSummaries retrieves every stored summary, newest dataset first
func (r *DatasetRepository) ListSummaries(ctx context.Context) ([]equipment.StoredSummary, error) {
	var rows []summaryRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT s.dataset_id, d.name AS dataset_name, s.summary, s.updated_at
		FROM dataset_summaries s
		JOIN datasets d ON d.id = s.dataset_id
		ORDER BY d.created_at DESC
	`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list summaries")
	}

	summaries := make([]equipment.StoredSummary, 0, len(rows))
	for i := range rows {
		stored, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *stored)
	}
	return summaries, nil
}

type columnRow struct {
	Name              string   `db:"name"`
	DataType          string   `db:"data_type"`
	Position          int      `db:"position"`
	NonNullCount      int      `db:"non_null_count"`
	NullCount         int      `db:"null_count"`
	UniqueCount       int      `db:"unique_count"`
	Mean              *float64 `db:"mean_value"`
	Median            *float64 `db:"median_value"`
	Std               *float64 `db:"std_value"`
	Min               *float64 `db:"min_value"`
	Max               *float64 `db:"max_value"`
	MostFrequentValue *string  `db:"most_frequent_value"`
	MostFrequentCount *int     `db:"most_frequent_count"`
}

// ListColumnDetails retrieves the per-column profile for one dataset
func (r *DatasetRepository) ListColumnDetails(ctx context.Context, id core.ID) ([]equipment.ColumnDetail, error) {
	var rows []columnRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT name, data_type, position,
			non_null_count, null_count, unique_count,
			mean_value, median_value, std_value, min_value, max_value,
			most_frequent_value, most_frequent_count
		FROM dataset_columns
		WHERE dataset_id = $1
		ORDER BY position ASC
	`, id.String())
	if err != nil {
		return nil, errors.Wrap(err, "failed to list column details")
	}

	details := make([]equipment.ColumnDetail, 0, len(rows))
	for _, row := range rows {
		details = append(details, equipment.ColumnDetail{
			Name:              row.Name,
			DataType:          row.DataType,
			Position:          row.Position,
			NonNullCount:      row.NonNullCount,
			NullCount:         row.NullCount,
			UniqueCount:       row.UniqueCount,
			Mean:              row.Mean,
			Median:            row.Median,
			Std:               row.Std,
			Min:               row.Min,
			Max:               row.Max,
			MostFrequentValue: row.MostFrequentValue,
			MostFrequentCount: row.MostFrequentCount,
		})
	}
	return details, nil
}

// ListOldest returns the datasets a prune to keep would remove, oldest first
func (r *DatasetRepository) ListOldest(ctx context.Context, keep int) ([]*equipment.Dataset, error) {
	var rows []datasetRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT `+selectDatasetColumns+`
		FROM datasets
		WHERE id NOT IN (
			SELECT id FROM datasets ORDER BY created_at DESC LIMIT $1
		)
		ORDER BY created_at ASC
	`, keep)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list prunable datasets")
	}

	datasets := make([]*equipment.Dataset, 0, len(rows))
	for i := range rows {
		ds, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, ds)
	}
	return datasets, nil
}

// DeleteOldest prunes datasets beyond keep and reports how many were removed
func (r *DatasetRepository) DeleteOldest(ctx context.Context, keep int) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	removed, err := pruneOldest(ctx, tx, keep)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "failed to commit prune transaction")
	}
	return removed, nil
}

func pruneOldest(ctx context.Context, tx *sqlx.Tx, keep int) (int, error) {
	result, err := tx.ExecContext(ctx, `
		DELETE FROM datasets
		WHERE id NOT IN (
			SELECT id FROM datasets ORDER BY created_at DESC LIMIT $1
		)
	`, keep)
	if err != nil {
		return 0, errors.Wrap(err, "failed to prune old datasets")
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "failed to get rows affected")
	}
	return int(rowsAffected), nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func metricAverage(m *equipment.MetricStats) *float64 {
	if m == nil {
		return nil
	}
	return &m.Average
}
