package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveColumns(t *testing.T) {
	tests := []struct {
		name        string
		headers     []string
		wantValid   bool
		wantMissing []string
		wantMapping map[string]string
	}{
		{
			name:      "canonical headers",
			headers:   []string{"equipment_id", "equipment_type", "flowrate", "pressure", "temperature"},
			wantValid: true,
			wantMapping: map[string]string{
				"equipment_id":   "equipment_id",
				"equipment_type": "equipment_type",
				"flowrate":       "flowrate",
				"pressure":       "pressure",
				"temperature":    "temperature",
			},
		},
		{
			name:      "aliased headers",
			headers:   []string{"id", "type", "flow", "pressure", "temp"},
			wantValid: true,
			wantMapping: map[string]string{
				"equipment_id":   "id",
				"equipment_type": "type",
				"flowrate":       "flow",
				"pressure":       "pressure",
				"temperature":    "temp",
			},
		},
		{
			name:      "mixed case and padding",
			headers:   []string{" Equipment_ID ", "CATEGORY", "Flow_Rate", "PSI", "Fahrenheit"},
			wantValid: true,
			wantMapping: map[string]string{
				"equipment_id":   " Equipment_ID ",
				"equipment_type": "CATEGORY",
				"flowrate":       "Flow_Rate",
				"pressure":       "PSI",
				"temperature":    "Fahrenheit",
			},
		},
		{
			name:        "missing pressure",
			headers:     []string{"id", "type", "flow", "temp"},
			wantValid:   false,
			wantMissing: []string{"pressure"},
		},
		{
			name:        "empty header row",
			headers:     []string{},
			wantValid:   false,
			wantMissing: []string{"equipment_id", "equipment_type", "flowrate", "pressure", "temperature"},
		},
		{
			name:      "optional fields resolved",
			headers:   []string{"id", "type", "flow", "pressure", "temp", "site", "technician"},
			wantValid: true,
			wantMapping: map[string]string{
				"equipment_id":   "id",
				"equipment_type": "type",
				"flowrate":       "flow",
				"pressure":       "pressure",
				"temperature":    "temp",
				"location":       "site",
				"operator":       "technician",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := ResolveColumns(tt.headers)

			assert.Equal(t, tt.wantValid, report.IsValid)
			if tt.wantMissing != nil {
				assert.Equal(t, tt.wantMissing, report.MissingColumns)
				assert.Len(t, report.Errors, len(tt.wantMissing))
			}
			if tt.wantMapping != nil {
				assert.Equal(t, tt.wantMapping, report.ColumnMapping)
			}
		})
	}
}

func TestResolveColumnsClaimsEachColumnOnce(t *testing.T) {
	// "type" could satisfy equipment_type; a second type-like header must not
	// steal the claimed column.
	report := ResolveColumns([]string{"id", "type", "category", "flow", "pressure", "temp"})

	require.True(t, report.IsValid)
	assert.Equal(t, "type", report.ColumnMapping["equipment_type"])
}

func TestResolveColumnsMissingColumnErrorText(t *testing.T) {
	report := ResolveColumns([]string{"id", "type", "flow", "temp"})

	require.False(t, report.IsValid)
	require.Len(t, report.Errors, 1)
	assert.Equal(t,
		"Required column 'pressure' not found. Expected one of: pressure, press, psi, bar",
		report.Errors[0])
}

func TestResolveColumnsReportsFoundColumns(t *testing.T) {
	headers := []string{"id", "type", "flow"}
	report := ResolveColumns(headers)

	assert.Equal(t, headers, report.FoundColumns)
}
