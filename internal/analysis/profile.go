package analysis

import (
	"equipstats/domain/equipment"
	"equipstats/domain/tabular"

	"github.com/montanaflynn/stats"
)

// ProfileColumns builds the persisted per-column detail rows for a cleaned
// record set. Numeric columns get the five summary statistics, text columns
// the modal value; the sample standard deviation needs two observations and
// stays nil below that.
func ProfileColumns(f *tabular.Frame) []equipment.ColumnDetail {
	details := make([]equipment.ColumnDetail, 0, f.ColumnCount())

	for position, name := range f.ColumnNames() {
		series, _ := f.Column(name)
		detail := equipment.ColumnDetail{
			Name:         name,
			DataType:     string(series.Kind),
			Position:     position,
			NonNullCount: series.NonMissing(),
			NullCount:    series.Missing(),
		}

		if series.Kind == tabular.KindNumeric {
			profileNumeric(series, &detail)
		} else {
			profileText(series, &detail)
		}

		details = append(details, detail)
	}

	return details
}

func profileNumeric(series tabular.Series, detail *equipment.ColumnDetail) {
	values := series.Values()

	unique := make(map[float64]struct{}, len(values))
	for _, v := range values {
		unique[v] = struct{}{}
	}
	detail.UniqueCount = len(unique)

	if len(values) == 0 {
		return
	}

	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)

	detail.Mean = &mean
	detail.Median = &median
	detail.Min = &min
	detail.Max = &max
	if len(values) >= 2 {
		std := sampleStd(values)
		detail.Std = &std
	}
}

func profileText(series tabular.Series, detail *equipment.ColumnDetail) {
	counts := make(map[string]int)
	for i, valid := range series.Valid {
		if valid {
			counts[series.Text[i]]++
		}
	}
	detail.UniqueCount = len(counts)

	if len(counts) == 0 {
		return
	}
	value := mostCommon(counts)
	count := counts[value]
	detail.MostFrequentValue = &value
	detail.MostFrequentCount = &count
}

// InferColumnTypes reports the cleaned dtype of every column, keyed by
// canonical column name.
func InferColumnTypes(f *tabular.Frame) map[string]string {
	types := make(map[string]string, f.ColumnCount())
	for _, name := range f.ColumnNames() {
		series, _ := f.Column(name)
		types[name] = string(series.Kind)
	}
	return types
}

// FormatCell renders a cleaned cell back to its serializable form; missing
// cells render as nil so JSON consumers see null, never "0.00".
func FormatCell(series tabular.Series, row int) interface{} {
	if row >= series.Len() || !series.Valid[row] {
		return nil
	}
	if series.Kind == tabular.KindNumeric {
		return series.Nums[row]
	}
	return series.Text[row]
}
