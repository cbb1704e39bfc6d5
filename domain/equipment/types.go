package equipment

import (
	"time"

	"equipstats/domain/core"
)

// Dataset holds the stored metadata for one uploaded file.
type Dataset struct {
	ID          core.ID `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`

	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
	FileType string `json:"file_type"`

	TotalRows    int               `json:"total_rows"`
	TotalColumns int               `json:"total_columns"`
	ColumnNames  []string          `json:"column_names"`
	ColumnTypes  map[string]string `json:"column_types"`

	IsProcessed     bool   `json:"is_processed"`
	ProcessingError string `json:"processing_error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewDataset creates a dataset record with a fresh ID and timestamps.
func NewDataset(name, fileName string) *Dataset {
	now := time.Now().UTC()
	return &Dataset{
		ID:        core.NewID(),
		Name:      name,
		FileName:  fileName,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// MetricStats describes one numeric operational metric over its non-missing
// values. A metric with zero non-missing values has no MetricStats at all;
// consumers must treat the absent block as "no data", not zeros.
type MetricStats struct {
	Average      float64 `json:"average"`
	Median       float64 `json:"median"`
	StdDeviation float64 `json:"std_deviation"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	Count        int     `json:"count"`
	MissingCount int     `json:"missing_count"`
}

// OperationalMetrics groups the per-metric stats blocks. Nil pointers mark
// metrics with no observed values and are omitted from JSON.
type OperationalMetrics struct {
	Flowrate    *MetricStats `json:"flowrate,omitempty"`
	Pressure    *MetricStats `json:"pressure,omitempty"`
	Temperature *MetricStats `json:"temperature,omitempty"`
}

// Metric returns the stats block for a canonical metric field name.
func (m OperationalMetrics) Metric(field string) *MetricStats {
	switch field {
	case FieldFlowrate:
		return m.Flowrate
	case FieldPressure:
		return m.Pressure
	case FieldTemperature:
		return m.Temperature
	}
	return nil
}

// EquipmentAnalysis describes the categorical breakdown by equipment type.
// Rows with a missing equipment type are excluded from the distribution but
// still count in the percentage denominator, so percentages may sum below
// 100. That reflects true data completeness and is intentional.
type EquipmentAnalysis struct {
	TotalEquipmentTypes       int                `json:"total_equipment_types"`
	EquipmentTypeDistribution map[string]int     `json:"equipment_type_distribution"`
	EquipmentTypePercentages  map[string]float64 `json:"equipment_type_percentages"`
	MostCommonEquipment       string             `json:"most_common_equipment,omitempty"`
}

// DataQuality summarizes completeness across every column of the cleaned
// record set, not just the operational metrics.
type DataQuality struct {
	TotalRows              int            `json:"total_rows"`
	CompleteRows           int            `json:"complete_rows"`
	MissingDataPercentage  float64        `json:"missing_data_percentage"`
	ColumnsWithMissingData []string       `json:"columns_with_missing_data"`
	MissingDataByColumn    map[string]int `json:"missing_data_by_column"`
}

// GroupStats is one metric's statistics restricted to one equipment type.
type GroupStats struct {
	Mean  float64 `json:"mean"`
	Count int     `json:"count"`
	Std   float64 `json:"std"`
}

// FileInfo records provenance of the upload the summary was computed from.
type FileInfo struct {
	Filename            string   `json:"filename"`
	OriginalColumns     []string `json:"original_columns"`
	StandardizedColumns []string `json:"standardized_columns"`
	RowsProcessed       int      `json:"rows_processed"`
}

// Summary is the statistics record computed once per upload. It is immutable
// after creation; recomputation replaces the whole record. The keys under
// DistributionAnalysis are "<metric>_by_equipment_type".
type Summary struct {
	TotalRecords         int                              `json:"total_records"`
	OperationalMetrics   OperationalMetrics               `json:"operational_metrics"`
	EquipmentAnalysis    EquipmentAnalysis                `json:"equipment_analysis"`
	DataQuality          DataQuality                      `json:"data_quality"`
	DistributionAnalysis map[string]map[string]GroupStats `json:"distribution_analysis"`
	FileInfo             FileInfo                         `json:"file_info"`
	Validation           *ValidationReport                `json:"validation,omitempty"`
}

// StoredSummary pairs a persisted summary with its owning dataset.
type StoredSummary struct {
	DatasetID   core.ID   `json:"dataset_id"`
	DatasetName string    `json:"dataset_name"`
	Summary     Summary   `json:"summary"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CombinedSummary is the aggregate over several stored summaries. It is
// derived on demand and never persisted.
type CombinedSummary struct {
	TotalRecordCount           int                `json:"total_record_count"`
	AverageFlowrate            *float64           `json:"average_flowrate"`
	AveragePressure            *float64           `json:"average_pressure"`
	AverageTemperature         *float64           `json:"average_temperature"`
	EquipmentTypeDistribution  map[string]int     `json:"equipment_type_distribution"`
	MostCommonEquipmentOverall string             `json:"most_common_equipment_overall,omitempty"`
	TotalEquipmentTypes        int                `json:"total_equipment_types"`
	DatasetsIncluded           []DatasetReference `json:"datasets_included"`
}

// DatasetReference identifies a dataset contributing to a combined summary.
type DatasetReference struct {
	ID   core.ID `json:"id"`
	Name string  `json:"name"`
}

// ColumnDetail is the persisted per-column profile. Numeric columns carry the
// five summary statistics; text columns carry the modal value. Nil pointers
// mean the statistic is undefined for the column.
type ColumnDetail struct {
	Name     string `json:"name"`
	DataType string `json:"data_type"`
	Position int    `json:"position"`

	NonNullCount int `json:"non_null_count"`
	NullCount    int `json:"null_count"`
	UniqueCount  int `json:"unique_count"`

	Mean   *float64 `json:"mean_value,omitempty"`
	Median *float64 `json:"median_value,omitempty"`
	Std    *float64 `json:"std_value,omitempty"`
	Min    *float64 `json:"min_value,omitempty"`
	Max    *float64 `json:"max_value,omitempty"`

	MostFrequentValue *string `json:"most_frequent_value,omitempty"`
	MostFrequentCount *int    `json:"most_frequent_count,omitempty"`
}
