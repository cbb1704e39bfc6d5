package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeNullsNegativeFlowAndCountsTypes(t *testing.T) {
	frame := cleanFixture(t,
		[]string{"id", "type", "flow", "pressure", "temp"},
		[][]string{
			{"EQ1", "Pump", "150.5", "45.2", "78.5"},
			{"EQ2", "Valve", "-5", "30.1", "72.0"},
		})

	summary := Summarize(frame)

	require.NotNil(t, summary.OperationalMetrics.Flowrate)
	assert.Equal(t, 1, summary.OperationalMetrics.Flowrate.Count)
	assert.Equal(t, 1, summary.OperationalMetrics.Flowrate.MissingCount)
	assert.Equal(t, 150.5, summary.OperationalMetrics.Flowrate.Average)

	assert.Equal(t, map[string]int{"Pump": 1, "Valve": 1}, summary.EquipmentAnalysis.EquipmentTypeDistribution)
	assert.Equal(t, 2, summary.EquipmentAnalysis.TotalEquipmentTypes)
}

func TestSummarizeMetricStats(t *testing.T) {
	frame := cleanFixture(t,
		[]string{"id", "type", "flow", "pressure", "temp"},
		[][]string{
			{"EQ1", "Pump", "100", "10", "50"},
			{"EQ2", "Pump", "200", "20", "60"},
			{"EQ3", "Valve", "300", "30", "70"},
		})

	summary := Summarize(frame)

	flow := summary.OperationalMetrics.Flowrate
	require.NotNil(t, flow)
	assert.Equal(t, 200.0, flow.Average)
	assert.Equal(t, 200.0, flow.Median)
	assert.Equal(t, 100.0, flow.Min)
	assert.Equal(t, 300.0, flow.Max)
	assert.InDelta(t, 100.0, flow.StdDeviation, 1e-9)
	assert.Equal(t, 3, flow.Count)
	assert.Equal(t, 0, flow.MissingCount)
}

func TestSummarizeCountPlusMissingEqualsTotal(t *testing.T) {
	frame := cleanFixture(t,
		[]string{"id", "type", "flow", "pressure", "temp"},
		[][]string{
			{"EQ1", "Pump", "100", "", "50"},
			{"EQ2", "Pump", "", "20", ""},
			{"EQ3", "Valve", "-1", "30", "70"},
			{"EQ4", "Valve", "bad", "40", "80"},
		})

	summary := Summarize(frame)

	metrics := summary.OperationalMetrics
	for name, stats := range map[string]int{
		"flowrate":    metrics.Flowrate.Count + metrics.Flowrate.MissingCount,
		"pressure":    metrics.Pressure.Count + metrics.Pressure.MissingCount,
		"temperature": metrics.Temperature.Count + metrics.Temperature.MissingCount,
	} {
		assert.Equal(t, summary.TotalRecords, stats, "count+missing for %s", name)
	}
}

func TestSummarizeAllTypesMissing(t *testing.T) {
	frame := cleanFixture(t,
		[]string{"id", "type", "flow", "pressure", "temp"},
		[][]string{
			{"EQ1", "", "100", "10", "50"},
			{"EQ2", "  ", "200", "20", "60"},
		})

	summary := Summarize(frame)

	assert.Empty(t, summary.EquipmentAnalysis.EquipmentTypeDistribution)
	assert.Equal(t, "", summary.EquipmentAnalysis.MostCommonEquipment)
	assert.Equal(t, 0, summary.EquipmentAnalysis.TotalEquipmentTypes)
	assert.Empty(t, summary.DistributionAnalysis)
}

func TestSummarizeZeroRows(t *testing.T) {
	frame := cleanFixture(t,
		[]string{"id", "type", "flow", "pressure", "temp"},
		nil)

	summary := Summarize(frame)

	assert.Equal(t, 0, summary.TotalRecords)
	assert.Nil(t, summary.OperationalMetrics.Flowrate)
	assert.Nil(t, summary.OperationalMetrics.Pressure)
	assert.Nil(t, summary.OperationalMetrics.Temperature)
	assert.Equal(t, 0, summary.DataQuality.TotalRows)
}

func TestSummarizePercentagesUseTotalRowDenominator(t *testing.T) {
	frame := cleanFixture(t,
		[]string{"id", "type", "flow", "pressure", "temp"},
		[][]string{
			{"EQ1", "Pump", "1", "1", "1"},
			{"EQ2", "Pump", "1", "1", "1"},
			{"EQ3", "Valve", "1", "1", "1"},
			{"EQ4", "", "1", "1", "1"},
		})

	summary := Summarize(frame)

	// 4 rows, one with a missing type: percentages sum to 75, not 100.
	assert.Equal(t, 50.0, summary.EquipmentAnalysis.EquipmentTypePercentages["Pump"])
	assert.Equal(t, 25.0, summary.EquipmentAnalysis.EquipmentTypePercentages["Valve"])

	total := 0
	for _, count := range summary.EquipmentAnalysis.EquipmentTypeDistribution {
		total += count
	}
	assert.LessOrEqual(t, total, summary.TotalRecords)
}

func TestSummarizeDataQuality(t *testing.T) {
	frame := cleanFixture(t,
		[]string{"id", "type", "flow", "pressure", "temp"},
		[][]string{
			{"EQ1", "Pump", "100", "10", "50"},
			{"EQ2", "Valve", "", "20", "60"},
		})

	summary := Summarize(frame)
	quality := summary.DataQuality

	assert.Equal(t, 2, quality.TotalRows)
	assert.Equal(t, 1, quality.CompleteRows)
	assert.Equal(t, []string{"flowrate"}, quality.ColumnsWithMissingData)
	assert.Equal(t, 1, quality.MissingDataByColumn["flowrate"])
	// 1 missing cell out of 10.
	assert.InDelta(t, 10.0, quality.MissingDataPercentage, 1e-9)
}

func TestSummarizeWhitespaceInUnmappedColumnIsNotMissing(t *testing.T) {
	frame := cleanFixture(t,
		[]string{"id", "type", "flow", "pressure", "temp", "notes"},
		[][]string{{"EQ1", "Pump", "100", "10", "50", " "}})

	summary := Summarize(frame)

	assert.Equal(t, 1, summary.DataQuality.CompleteRows)
	assert.Equal(t, 0.0, summary.DataQuality.MissingDataPercentage)
	assert.Empty(t, summary.DataQuality.ColumnsWithMissingData)
}

func TestSummarizeDistributionByType(t *testing.T) {
	frame := cleanFixture(t,
		[]string{"id", "type", "flow", "pressure", "temp"},
		[][]string{
			{"EQ1", "Pump", "100", "10", "50"},
			{"EQ2", "Pump", "200", "20", "60"},
			{"EQ3", "Valve", "300", "30", "70"},
		})

	summary := Summarize(frame)

	flowGroups, ok := summary.DistributionAnalysis["flowrate_by_equipment_type"]
	require.True(t, ok)

	pump := flowGroups["Pump"]
	assert.Equal(t, 150.0, pump.Mean)
	assert.Equal(t, 2, pump.Count)
	assert.InDelta(t, 70.71, pump.Std, 0.01)

	valve := flowGroups["Valve"]
	assert.Equal(t, 300.0, valve.Mean)
	assert.Equal(t, 1, valve.Count)
	assert.Equal(t, 0.0, valve.Std, "single observation has no sample deviation")
}

func TestMostCommonBreaksTiesLexicographically(t *testing.T) {
	counts := map[string]int{"Valve": 2, "Pump": 2, "Sensor": 1}
	assert.Equal(t, "Pump", mostCommon(counts))
}
