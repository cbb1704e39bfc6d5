// Package equipment defines the canonical equipment-data schema and the
// records the analysis pipeline produces from uploaded datasets.
package equipment

// Canonical field names. Uploaded headers are resolved onto these via the
// alias lists below.
const (
	FieldEquipmentID   = "equipment_id"
	FieldEquipmentType = "equipment_type"
	FieldFlowrate      = "flowrate"
	FieldPressure      = "pressure"
	FieldTemperature   = "temperature"
	FieldTimestamp     = "timestamp"
	FieldLocation      = "location"
	FieldStatus        = "status"
	FieldOperator      = "operator"
)

// FieldAliases pairs a canonical field with its recognized header aliases in
// priority order. Matching is case-insensitive on trimmed header names.
type FieldAliases struct {
	Field   string
	Aliases []string
}

// RequiredFields lists the fields every equipment dataset must provide,
// in resolution order. The order matters: columns are claimed first come,
// first served when alias lists overlap.
var RequiredFields = []FieldAliases{
	{FieldEquipmentID, []string{"equipment_id", "id", "equipment_number"}},
	{FieldEquipmentType, []string{"equipment_type", "type", "category", "equipment_category"}},
	{FieldFlowrate, []string{"flowrate", "flow_rate", "flow", "rate"}},
	{FieldPressure, []string{"pressure", "press", "psi", "bar"}},
	{FieldTemperature, []string{"temperature", "temp", "celsius", "fahrenheit"}},
}

// OptionalFields lists fields that are mapped when present but never block
// validation.
var OptionalFields = []FieldAliases{
	{FieldTimestamp, []string{"timestamp", "date", "datetime", "time"}},
	{FieldLocation, []string{"location", "site", "facility", "plant"}},
	{FieldStatus, []string{"status", "state", "condition"}},
	{FieldOperator, []string{"operator", "technician", "user"}},
}

// MetricFields are the numeric operational metrics, in reporting order.
var MetricFields = []string{FieldFlowrate, FieldPressure, FieldTemperature}

// ValidationReport is the result of resolving a header set against the
// canonical schema. The shape is part of the API contract: both the
// validation-only endpoint and the upload endpoint return it verbatim.
type ValidationReport struct {
	IsValid        bool              `json:"is_valid"`
	ColumnMapping  map[string]string `json:"column_mapping"`
	MissingColumns []string          `json:"missing_columns"`
	FoundColumns   []string          `json:"found_columns"`
	Errors         []string          `json:"errors"`
}
