package report

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"equipstats/domain/equipment"
	"equipstats/internal/errors"

	"github.com/go-pdf/fpdf"
)

// PDF lays the stored summary out as an A4 report and returns the document
// bytes. Sections for absent data are skipped, never rendered as zeros.
func PDF(stored *equipment.StoredSummary) ([]byte, error) {
	s := stored.Summary

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 18)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Equipment Data Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, stored.DatasetName, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s from %s",
		time.Now().UTC().Format("2006-01-02 15:04 UTC"), s.FileInfo.Filename), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	sectionTitle(pdf, "Overview")
	keyValue(pdf, "Total records", fmt.Sprintf("%d", s.TotalRecords))
	keyValue(pdf, "Columns processed", fmt.Sprintf("%d", len(s.FileInfo.StandardizedColumns)))
	keyValue(pdf, "Equipment types", fmt.Sprintf("%d", s.EquipmentAnalysis.TotalEquipmentTypes))
	if s.EquipmentAnalysis.MostCommonEquipment != "" {
		keyValue(pdf, "Most common equipment", s.EquipmentAnalysis.MostCommonEquipment)
	}
	pdf.Ln(3)

	writeMetricsTable(pdf, s.OperationalMetrics)
	writeEquipmentTable(pdf, s.EquipmentAnalysis)
	writeQuality(pdf, s.DataQuality)
	writeDistribution(pdf, s.DistributionAnalysis)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to render PDF report")
	}
	return buf.Bytes(), nil
}

func sectionTitle(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
}

func keyValue(pdf *fpdf.Fpdf, key, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(55, 6, key, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, value, "", 1, "L", false, 0, "")
}

func tableHeader(pdf *fpdf.Fpdf, widths []float64, labels []string) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, label := range labels {
		pdf.CellFormat(widths[i], 6, label, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 9)
}

func writeMetricsTable(pdf *fpdf.Fpdf, m equipment.OperationalMetrics) {
	blocks := []struct {
		label string
		stats *equipment.MetricStats
	}{
		{"Flowrate", m.Flowrate},
		{"Pressure", m.Pressure},
		{"Temperature", m.Temperature},
	}

	any := false
	for _, block := range blocks {
		if block.stats != nil {
			any = true
		}
	}
	if !any {
		return
	}

	sectionTitle(pdf, "Operational Metrics")
	widths := []float64{28, 24, 24, 24, 24, 24, 21, 21}
	tableHeader(pdf, widths, []string{"Metric", "Average", "Median", "Std Dev", "Min", "Max", "Count", "Missing"})

	for _, block := range blocks {
		if block.stats == nil {
			continue
		}
		st := block.stats
		cells := []string{
			block.label,
			fmt.Sprintf("%.2f", st.Average),
			fmt.Sprintf("%.2f", st.Median),
			fmt.Sprintf("%.2f", st.StdDeviation),
			fmt.Sprintf("%.2f", st.Min),
			fmt.Sprintf("%.2f", st.Max),
			fmt.Sprintf("%d", st.Count),
			fmt.Sprintf("%d", st.MissingCount),
		}
		for i, cell := range cells {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(widths[i], 6, cell, "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

func writeEquipmentTable(pdf *fpdf.Fpdf, a equipment.EquipmentAnalysis) {
	if len(a.EquipmentTypeDistribution) == 0 {
		return
	}

	sectionTitle(pdf, "Equipment Analysis")
	widths := []float64{90, 45, 45}
	tableHeader(pdf, widths, []string{"Equipment Type", "Count", "Share"})

	for _, name := range sortedKeys(a.EquipmentTypeDistribution) {
		pdf.CellFormat(widths[0], 6, name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, fmt.Sprintf("%d", a.EquipmentTypeDistribution[name]), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 6, fmt.Sprintf("%.2f%%", a.EquipmentTypePercentages[name]), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}

func writeQuality(pdf *fpdf.Fpdf, q equipment.DataQuality) {
	sectionTitle(pdf, "Data Quality")
	keyValue(pdf, "Total rows", fmt.Sprintf("%d", q.TotalRows))
	keyValue(pdf, "Complete rows", fmt.Sprintf("%d", q.CompleteRows))
	keyValue(pdf, "Missing data", fmt.Sprintf("%.2f%%", q.MissingDataPercentage))
	if len(q.ColumnsWithMissingData) > 0 {
		keyValue(pdf, "Columns with missing values", strings.Join(q.ColumnsWithMissingData, ", "))
	}
	pdf.Ln(3)
}

func writeDistribution(pdf *fpdf.Fpdf, d map[string]map[string]equipment.GroupStats) {
	if len(d) == 0 {
		return
	}

	sectionTitle(pdf, "Distribution by Equipment Type")
	metrics := make([]string, 0, len(d))
	for metric := range d {
		metrics = append(metrics, metric)
	}
	sort.Strings(metrics)

	widths := []float64{70, 40, 35, 35}
	for _, metric := range metrics {
		label := strings.ReplaceAll(strings.TrimSuffix(metric, "_by_equipment_type"), "_", " ")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 7, titleWords(label), "", 1, "L", false, 0, "")
		tableHeader(pdf, widths, []string{"Equipment Type", "Mean", "Count", "Std"})

		groups := d[metric]
		for _, name := range sortedGroupKeys(groups) {
			g := groups[name]
			pdf.CellFormat(widths[0], 6, name, "1", 0, "L", false, 0, "")
			pdf.CellFormat(widths[1], 6, fmt.Sprintf("%.2f", g.Mean), "1", 0, "R", false, 0, "")
			pdf.CellFormat(widths[2], 6, fmt.Sprintf("%d", g.Count), "1", 0, "R", false, 0, "")
			pdf.CellFormat(widths[3], 6, fmt.Sprintf("%.2f", g.Std), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(3)
	}
}
