package analysis

import (
	"math"

	"equipstats/domain/equipment"
	"equipstats/domain/tabular"

	"github.com/montanaflynn/stats"
)

// Summarize computes the statistics record for a cleaned record set.
//
// Numeric blocks are computed over non-missing values only and omitted
// entirely when a metric has no values, so consumers can tell "no data" from
// "all zeros". A record set with zero rows is valid and yields total_records
// of 0 with no metric blocks.
func Summarize(f *tabular.Frame) equipment.Summary {
	summary := equipment.Summary{
		TotalRecords:         f.RowCount(),
		DistributionAnalysis: make(map[string]map[string]equipment.GroupStats),
	}

	summary.OperationalMetrics = equipment.OperationalMetrics{
		Flowrate:    metricStats(f, equipment.FieldFlowrate),
		Pressure:    metricStats(f, equipment.FieldPressure),
		Temperature: metricStats(f, equipment.FieldTemperature),
	}

	summary.EquipmentAnalysis = equipmentAnalysis(f)
	summary.DataQuality = dataQuality(f)

	for _, metric := range equipment.MetricFields {
		if groups := groupByType(f, metric); len(groups) > 0 {
			summary.DistributionAnalysis[metric+"_by_equipment_type"] = groups
		}
	}

	return summary
}

func metricStats(f *tabular.Frame, field string) *equipment.MetricStats {
	series, ok := f.Column(field)
	if !ok {
		return nil
	}
	values := series.Values()
	if len(values) == 0 {
		return nil
	}

	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)
	min, _ := stats.Min(values)
	max, _ := stats.Max(values)

	return &equipment.MetricStats{
		Average:      mean,
		Median:       median,
		StdDeviation: sampleStd(values),
		Min:          min,
		Max:          max,
		Count:        len(values),
		MissingCount: series.Len() - len(values),
	}
}

func equipmentAnalysis(f *tabular.Frame) equipment.EquipmentAnalysis {
	analysis := equipment.EquipmentAnalysis{
		EquipmentTypeDistribution: make(map[string]int),
		EquipmentTypePercentages:  make(map[string]float64),
	}

	series, ok := f.Column(equipment.FieldEquipmentType)
	if !ok {
		return analysis
	}

	for i, valid := range series.Valid {
		if valid {
			analysis.EquipmentTypeDistribution[series.Text[i]]++
		}
	}
	analysis.TotalEquipmentTypes = len(analysis.EquipmentTypeDistribution)

	// Percentages use total row count as the denominator, so rows with a
	// missing equipment type pull the sum below 100. That is intentional and
	// reflects true data completeness.
	if f.RowCount() > 0 {
		for name, count := range analysis.EquipmentTypeDistribution {
			analysis.EquipmentTypePercentages[name] = round2(float64(count) / float64(f.RowCount()) * 100)
		}
	}

	analysis.MostCommonEquipment = mostCommon(analysis.EquipmentTypeDistribution)
	return analysis
}

// mostCommon returns the key with the highest count, breaking ties by
// lexicographic order so the result is deterministic.
func mostCommon(counts map[string]int) string {
	best := ""
	bestCount := -1
	for name, count := range counts {
		if count > bestCount || (count == bestCount && name < best) {
			best = name
			bestCount = count
		}
	}
	return best
}

func dataQuality(f *tabular.Frame) equipment.DataQuality {
	quality := equipment.DataQuality{
		TotalRows:              f.RowCount(),
		ColumnsWithMissingData: []string{},
		MissingDataByColumn:    make(map[string]int),
	}

	totalMissing := 0
	for _, name := range f.ColumnNames() {
		series, _ := f.Column(name)
		missing := series.Missing()
		quality.MissingDataByColumn[name] = missing
		totalMissing += missing
		if missing > 0 {
			quality.ColumnsWithMissingData = append(quality.ColumnsWithMissingData, name)
		}
	}

	for row := 0; row < f.RowCount(); row++ {
		complete := true
		for _, name := range f.ColumnNames() {
			series, _ := f.Column(name)
			if !series.Valid[row] {
				complete = false
				break
			}
		}
		if complete {
			quality.CompleteRows++
		}
	}

	if cells := f.RowCount() * f.ColumnCount(); cells > 0 {
		quality.MissingDataPercentage = float64(totalMissing) / float64(cells) * 100
	}

	return quality
}

// groupByType computes mean, count, and std of one metric restricted to each
// equipment-type group. Groups without a single observed metric value are
// left out.
func groupByType(f *tabular.Frame, metric string) map[string]equipment.GroupStats {
	types, ok := f.Column(equipment.FieldEquipmentType)
	if !ok {
		return nil
	}
	series, ok := f.Column(metric)
	if !ok {
		return nil
	}

	grouped := make(map[string][]float64)
	for i, valid := range types.Valid {
		if valid && series.Valid[i] {
			grouped[types.Text[i]] = append(grouped[types.Text[i]], series.Nums[i])
		}
	}
	if len(grouped) == 0 {
		return nil
	}

	result := make(map[string]equipment.GroupStats, len(grouped))
	for name, values := range grouped {
		mean, _ := stats.Mean(values)
		result[name] = equipment.GroupStats{
			Mean:  round2(mean),
			Count: len(values),
			Std:   round2(sampleStd(values)),
		}
	}
	return result
}

// sampleStd is the n-1 standard deviation, reported as 0 for a single
// observation where the sample deviation is undefined.
func sampleStd(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	std, err := stats.StandardDeviationSample(values)
	if err != nil || math.IsNaN(std) {
		return 0
	}
	return std
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
