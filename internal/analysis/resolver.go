// Package analysis implements the upload processing pipeline: header
// resolution against the canonical schema, value cleaning, and descriptive
// statistics over the cleaned record set.
package analysis

import (
	"fmt"
	"strings"

	"equipstats/domain/equipment"
)

// ResolveColumns maps a header row onto the canonical equipment schema.
//
// Matching is exact (after trimming and lowercasing) against each field's
// alias list in priority order. Fields are processed in their declared order
// and every original column is claimed at most once, so overlapping alias
// lists resolve deterministically: the earlier field wins.
//
// Missing required fields never produce an error return; they are reported
// in the ValidationReport so callers can surface actionable feedback.
func ResolveColumns(headers []string) equipment.ValidationReport {
	report := equipment.ValidationReport{
		IsValid:        true,
		ColumnMapping:  make(map[string]string),
		MissingColumns: []string{},
		FoundColumns:   append([]string{}, headers...),
		Errors:         []string{},
	}

	lowered := make([]string, len(headers))
	for i, h := range headers {
		lowered[i] = strings.ToLower(strings.TrimSpace(h))
	}
	claimed := make([]bool, len(headers))

	claim := func(aliases []string) (string, bool) {
		for _, alias := range aliases {
			for i, name := range lowered {
				if claimed[i] || name != alias {
					continue
				}
				claimed[i] = true
				return headers[i], true
			}
		}
		return "", false
	}

	for _, field := range equipment.RequiredFields {
		if actual, ok := claim(field.Aliases); ok {
			report.ColumnMapping[field.Field] = actual
			continue
		}
		report.MissingColumns = append(report.MissingColumns, field.Field)
		report.Errors = append(report.Errors, fmt.Sprintf(
			"Required column '%s' not found. Expected one of: %s",
			field.Field, strings.Join(field.Aliases, ", ")))
	}

	for _, field := range equipment.OptionalFields {
		if actual, ok := claim(field.Aliases); ok {
			report.ColumnMapping[field.Field] = actual
		}
	}

	report.IsValid = len(report.MissingColumns) == 0
	return report
}
