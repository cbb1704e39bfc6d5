package analysis

import (
	"strconv"
	"strings"
	"unicode"

	"equipstats/domain/equipment"
	"equipstats/domain/tabular"
	"equipstats/internal/errors"
)

// Clean renames the table's columns to their canonical names and coerces
// values per the domain rules:
//
//  1. Operational metrics parse as numbers; unparsable cells become missing,
//     and a negative flowrate becomes missing after parsing (flow cannot be
//     negative).
//  2. equipment_type is trimmed and title-cased; empty strings become missing.
//  3. equipment_id is trimmed with its case preserved.
//
// Columns outside the mapping pass through untouched, rows are never dropped,
// and cleaning already-clean data changes nothing.
func Clean(t *tabular.Table, mapping map[string]string) (*tabular.Frame, error) {
	if t == nil || t.ColumnCount() == 0 {
		return nil, errors.ValidationError("cannot clean a table with no columns")
	}

	canonicalFor := make(map[string]string, len(mapping))
	for canonical, actual := range mapping {
		canonicalFor[actual] = canonical
	}

	frame := tabular.NewFrame(t.RowCount())
	for _, original := range t.ColumnNames() {
		cells, _ := t.Column(original)
		name := original
		if canonical, ok := canonicalFor[original]; ok {
			name = canonical
		}

		var series tabular.Series
		switch name {
		case equipment.FieldFlowrate, equipment.FieldPressure, equipment.FieldTemperature:
			series = cleanNumeric(cells, name == equipment.FieldFlowrate)
		case equipment.FieldEquipmentType:
			series = cleanText(cells, func(s string) string {
				return titleCase(strings.TrimSpace(s))
			})
		case equipment.FieldEquipmentID:
			series = cleanText(cells, strings.TrimSpace)
		default:
			series = cleanText(cells, func(s string) string { return s })
		}

		if err := frame.AddColumn(name, series); err != nil {
			return nil, errors.Wrap(err, "failed to assemble cleaned record set")
		}
	}

	return frame, nil
}

func cleanNumeric(cells []tabular.Cell, rejectNegative bool) tabular.Series {
	s := tabular.Series{
		Kind:  tabular.KindNumeric,
		Nums:  make([]float64, len(cells)),
		Valid: make([]bool, len(cells)),
	}
	for i, c := range cells {
		if !c.Valid {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(c.Raw), 64)
		if err != nil {
			// Coercion anomaly: one bad cell must not block the dataset.
			continue
		}
		if rejectNegative && v < 0 {
			continue
		}
		s.Nums[i] = v
		s.Valid[i] = true
	}
	return s
}

func cleanText(cells []tabular.Cell, normalize func(string) string) tabular.Series {
	s := tabular.Series{
		Kind:  tabular.KindText,
		Text:  make([]string, len(cells)),
		Valid: make([]bool, len(cells)),
	}
	for i, c := range cells {
		if !c.Valid {
			continue
		}
		v := normalize(c.Raw)
		if v == "" {
			continue
		}
		s.Text[i] = v
		s.Valid[i] = true
	}
	return s
}

// titleCase uppercases the first letter of every word and lowercases the
// rest, where a word starts after any non-letter.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	startOfWord := true
	for _, r := range s {
		if !unicode.IsLetter(r) {
			startOfWord = true
			b.WriteRune(r)
			continue
		}
		if startOfWord {
			b.WriteRune(unicode.ToUpper(r))
			startOfWord = false
		} else {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
