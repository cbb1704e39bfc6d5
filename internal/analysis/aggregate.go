package analysis

import (
	"equipstats/domain/equipment"
	"equipstats/internal/errors"

	"gonum.org/v1/gonum/stat"
)

// ErrNoData is returned when a combined summary is requested over an empty
// collection. Callers are expected to check for data before aggregating; an
// empty input is a precondition violation, not a zero-valued record.
var ErrNoData = errors.NoData("no processed datasets available")

// Combine merges stored summaries into one aggregate record.
//
// Each metric's combined average is the record-count-weighted mean over only
// the summaries that carry a value for that metric; when none do, the
// combined average is nil. Distributions merge by summing per-type counts.
func Combine(summaries []equipment.StoredSummary) (*equipment.CombinedSummary, error) {
	if len(summaries) == 0 {
		return nil, ErrNoData
	}

	combined := &equipment.CombinedSummary{
		EquipmentTypeDistribution: make(map[string]int),
		DatasetsIncluded:          make([]equipment.DatasetReference, 0, len(summaries)),
	}

	for _, s := range summaries {
		combined.TotalRecordCount += s.Summary.TotalRecords
		combined.DatasetsIncluded = append(combined.DatasetsIncluded, equipment.DatasetReference{
			ID:   s.DatasetID,
			Name: s.DatasetName,
		})
		for name, count := range s.Summary.EquipmentAnalysis.EquipmentTypeDistribution {
			combined.EquipmentTypeDistribution[name] += count
		}
	}

	combined.AverageFlowrate = weightedAverage(summaries, equipment.FieldFlowrate)
	combined.AveragePressure = weightedAverage(summaries, equipment.FieldPressure)
	combined.AverageTemperature = weightedAverage(summaries, equipment.FieldTemperature)

	combined.TotalEquipmentTypes = len(combined.EquipmentTypeDistribution)
	combined.MostCommonEquipmentOverall = mostCommon(combined.EquipmentTypeDistribution)

	return combined, nil
}

// weightedAverage combines one metric's per-dataset averages, weighting each
// by its dataset's record count. Summaries without the metric block do not
// participate in either the numerator or the denominator.
func weightedAverage(summaries []equipment.StoredSummary, field string) *float64 {
	var values, weights []float64
	for _, s := range summaries {
		block := s.Summary.OperationalMetrics.Metric(field)
		if block == nil || s.Summary.TotalRecords == 0 {
			continue
		}
		values = append(values, block.Average)
		weights = append(weights, float64(s.Summary.TotalRecords))
	}
	if len(values) == 0 {
		return nil
	}
	avg := stat.Mean(values, weights)
	return &avg
}
