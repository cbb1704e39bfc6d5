// Package report renders stored summaries as downloadable reports: a
// Markdown body shared by every format, rendered to HTML for previews and
// laid out with fpdf for PDF downloads.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"equipstats/domain/equipment"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Markdown builds the report body for one stored summary.
func Markdown(stored *equipment.StoredSummary) string {
	s := stored.Summary
	var b strings.Builder

	fmt.Fprintf(&b, "# Equipment Data Report: %s\n\n", stored.DatasetName)
	fmt.Fprintf(&b, "Generated %s from `%s`.\n\n",
		time.Now().UTC().Format("2006-01-02 15:04 UTC"), s.FileInfo.Filename)

	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "- Total records: %d\n", s.TotalRecords)
	fmt.Fprintf(&b, "- Columns processed: %d\n", len(s.FileInfo.StandardizedColumns))
	fmt.Fprintf(&b, "- Equipment types: %d\n", s.EquipmentAnalysis.TotalEquipmentTypes)
	if s.EquipmentAnalysis.MostCommonEquipment != "" {
		fmt.Fprintf(&b, "- Most common equipment: %s\n", s.EquipmentAnalysis.MostCommonEquipment)
	}
	b.WriteString("\n")

	writeMetricsSection(&b, s.OperationalMetrics)
	writeEquipmentSection(&b, s.EquipmentAnalysis)
	writeQualitySection(&b, s.DataQuality)
	writeDistributionSection(&b, s.DistributionAnalysis)

	return b.String()
}

func writeMetricsSection(b *strings.Builder, m equipment.OperationalMetrics) {
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

	b.WriteString("## Operational Metrics\n\n")
	b.WriteString("| Metric | Average | Median | Std Dev | Min | Max | Count | Missing |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|\n")
	for _, block := range blocks {
		if block.stats == nil {
			continue
		}
		st := block.stats
		fmt.Fprintf(b, "| %s | %.2f | %.2f | %.2f | %.2f | %.2f | %d | %d |\n",
			block.label, st.Average, st.Median, st.StdDeviation, st.Min, st.Max, st.Count, st.MissingCount)
	}
	b.WriteString("\n")
}

func writeEquipmentSection(b *strings.Builder, a equipment.EquipmentAnalysis) {
	if len(a.EquipmentTypeDistribution) == 0 {
		return
	}

	b.WriteString("## Equipment Analysis\n\n")
	b.WriteString("| Equipment Type | Count | Share |\n")
	b.WriteString("|---|---|---|\n")
	for _, name := range sortedKeys(a.EquipmentTypeDistribution) {
		fmt.Fprintf(b, "| %s | %d | %.2f%% |\n",
			name, a.EquipmentTypeDistribution[name], a.EquipmentTypePercentages[name])
	}
	b.WriteString("\n")
}

func writeQualitySection(b *strings.Builder, q equipment.DataQuality) {
	b.WriteString("## Data Quality\n\n")
	fmt.Fprintf(b, "- Total rows: %d\n", q.TotalRows)
	fmt.Fprintf(b, "- Complete rows: %d\n", q.CompleteRows)
	fmt.Fprintf(b, "- Missing data: %.2f%%\n", q.MissingDataPercentage)
	if len(q.ColumnsWithMissingData) > 0 {
		fmt.Fprintf(b, "- Columns with missing values: %s\n", strings.Join(q.ColumnsWithMissingData, ", "))
	}
	b.WriteString("\n")
}

func writeDistributionSection(b *strings.Builder, d map[string]map[string]equipment.GroupStats) {
	if len(d) == 0 {
		return
	}

	b.WriteString("## Distribution by Equipment Type\n\n")
	metrics := make([]string, 0, len(d))
	for metric := range d {
		metrics = append(metrics, metric)
	}
	sort.Strings(metrics)

	for _, metric := range metrics {
		label := strings.ReplaceAll(strings.TrimSuffix(metric, "_by_equipment_type"), "_", " ")
		fmt.Fprintf(b, "### %s\n\n", titleWords(label))
		b.WriteString("| Equipment Type | Mean | Count | Std |\n")
		b.WriteString("|---|---|---|---|\n")

		groups := d[metric]
		for _, name := range sortedGroupKeys(groups) {
			g := groups[name]
			fmt.Fprintf(b, "| %s | %.2f | %d | %.2f |\n", name, g.Mean, g.Count, g.Std)
		}
		b.WriteString("\n")
	}
}

// HTML renders the Markdown report body to a standalone HTML fragment for
// in-browser previews.
func HTML(stored *equipment.StoredSummary) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	doc := p.Parse([]byte(Markdown(stored)))
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.Render(doc, renderer)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedGroupKeys(m map[string]equipment.GroupStats) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
