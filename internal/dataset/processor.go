// Package dataset runs the upload pipeline: parse, validate, clean,
// summarize, profile, persist.
package dataset

import (
	"context"
	"io"
	"strings"

	"equipstats/domain/core"
	"equipstats/domain/equipment"
	"equipstats/internal"
	"equipstats/internal/analysis"
	"equipstats/internal/errors"
	"equipstats/internal/ingest"
	"equipstats/ports"
)

// Processor ties the ingestion and analysis stages to the repository.
type Processor struct {
	repo        ports.DatasetRepository
	maxDatasets int
	previewRows int
	logger      *internal.Logger
}

// NewProcessor creates a processor enforcing the retention cap on every
// successful upload.
func NewProcessor(repo ports.DatasetRepository, maxDatasets, previewRows int, logger *internal.Logger) *Processor {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Processor{
		repo:        repo,
		maxDatasets: maxDatasets,
		previewRows: previewRows,
		logger:      logger,
	}
}

// UploadResult is the outcome of one processed upload. When validation fails
// Dataset and Summary are nil and Validation carries the reasons.
type UploadResult struct {
	Dataset    *equipment.Dataset          `json:"dataset,omitempty"`
	Summary    *equipment.Summary          `json:"summary,omitempty"`
	Validation *equipment.ValidationReport `json:"validation"`
}

// ValidationResult is the outcome of a validate-only run: the report plus a
// preview of the cleaned rows, without touching storage.
type ValidationResult struct {
	Validation  *equipment.ValidationReport `json:"validation"`
	PreviewRows []map[string]interface{}    `json:"preview_rows,omitempty"`
	RowCount    int                         `json:"row_count"`
}

// Process runs the full pipeline on one upload and persists the outcome.
// A schema-invalid file is not an error: the result carries the validation
// report and nothing is stored.
func (p *Processor) Process(ctx context.Context, filename string, size int64, r io.Reader, name, description string) (*UploadResult, error) {
	table, err := ingest.ReadTable(r, filename)
	if err != nil {
		return nil, err
	}

	report := analysis.ResolveColumns(table.ColumnNames())
	if !report.IsValid {
		p.logger.Warn("Upload %q rejected: %s", filename, strings.Join(report.Errors, "; "))
		return &UploadResult{Validation: &report}, nil
	}

	frame, err := analysis.Clean(table, report.ColumnMapping)
	if err != nil {
		return nil, err
	}

	summary := analysis.Summarize(frame)
	summary.FileInfo = equipment.FileInfo{
		Filename:            filename,
		OriginalColumns:     table.ColumnNames(),
		StandardizedColumns: frame.ColumnNames(),
		RowsProcessed:       frame.RowCount(),
	}
	summary.Validation = &report

	if name == "" {
		name = filename
	}
	ds := equipment.NewDataset(name, filename)
	ds.Description = description
	ds.FileSize = size
	ds.FileType = ingest.FileType(filename)
	ds.TotalRows = frame.RowCount()
	ds.TotalColumns = frame.ColumnCount()
	ds.ColumnNames = frame.ColumnNames()
	ds.ColumnTypes = analysis.InferColumnTypes(frame)
	ds.IsProcessed = true

	columns := analysis.ProfileColumns(frame)

	if err := p.repo.CreateWithSummary(ctx, ds, summary, columns, p.maxDatasets); err != nil {
		return nil, err
	}

	p.logger.Info("Processed dataset %s (%d rows, %d columns) from %q", ds.ID, ds.TotalRows, ds.TotalColumns, filename)
	return &UploadResult{Dataset: ds, Summary: &summary, Validation: &report}, nil
}

// Validate runs parsing, schema resolution and cleaning without persisting,
// returning the report and a short preview of the cleaned rows.
func (p *Processor) Validate(ctx context.Context, filename string, r io.Reader) (*ValidationResult, error) {
	table, err := ingest.ReadTable(r, filename)
	if err != nil {
		return nil, err
	}

	report := analysis.ResolveColumns(table.ColumnNames())
	result := &ValidationResult{Validation: &report, RowCount: table.RowCount()}
	if !report.IsValid {
		return result, nil
	}

	frame, err := analysis.Clean(table, report.ColumnMapping)
	if err != nil {
		return nil, err
	}

	limit := p.previewRows
	if limit > frame.RowCount() {
		limit = frame.RowCount()
	}
	for row := 0; row < limit; row++ {
		record := make(map[string]interface{}, frame.ColumnCount())
		for _, col := range frame.ColumnNames() {
			series, _ := frame.Column(col)
			record[col] = analysis.FormatCell(series, row)
		}
		result.PreviewRows = append(result.PreviewRows, record)
	}
	return result, nil
}

// DatasetPreview pairs dataset metadata with its column profiles and the
// quick-access numbers from its summary.
type DatasetPreview struct {
	Dataset      *equipment.Dataset       `json:"dataset"`
	Columns      []equipment.ColumnDetail `json:"columns"`
	TotalRecords int                      `json:"total_records"`
	Averages     map[string]*float64      `json:"averages"`
}

// Preview loads a stored dataset's metadata, column profiles and headline
// averages.
func (p *Processor) Preview(ctx context.Context, id string) (*DatasetPreview, error) {
	datasetID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	ds, err := p.repo.GetByID(ctx, datasetID)
	if err != nil {
		return nil, err
	}
	columns, err := p.repo.ListColumnDetails(ctx, datasetID)
	if err != nil {
		return nil, err
	}
	stored, err := p.repo.GetSummary(ctx, datasetID)
	if err != nil {
		return nil, err
	}

	metrics := stored.Summary.OperationalMetrics
	return &DatasetPreview{
		Dataset:      ds,
		Columns:      columns,
		TotalRecords: stored.Summary.TotalRecords,
		Averages: map[string]*float64{
			equipment.FieldFlowrate:    metricAverage(metrics.Flowrate),
			equipment.FieldPressure:    metricAverage(metrics.Pressure),
			equipment.FieldTemperature: metricAverage(metrics.Temperature),
		},
	}, nil
}

// Summary loads one stored summary by dataset ID.
func (p *Processor) Summary(ctx context.Context, id string) (*equipment.StoredSummary, error) {
	datasetID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return p.repo.GetSummary(ctx, datasetID)
}

// LatestSummary loads the summary of the most recent upload.
func (p *Processor) LatestSummary(ctx context.Context) (*equipment.StoredSummary, error) {
	return p.repo.GetLatestSummary(ctx)
}

// CombinedSummary aggregates every stored summary into one record.
func (p *Processor) CombinedSummary(ctx context.Context) (*equipment.CombinedSummary, error) {
	summaries, err := p.repo.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}
	return analysis.Combine(summaries)
}

func metricAverage(m *equipment.MetricStats) *float64 {
	if m == nil {
		return nil
	}
	return &m.Average
}

func parseID(raw string) (core.ID, error) {
	id, err := core.ParseID(raw)
	if err != nil {
		return "", errors.InvalidInput(err.Error())
	}
	return id, nil
}
