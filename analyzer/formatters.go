package analyzer

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// FormatBundle renders the full KPI bundle as terminal tables, one block
// per analysis section.
func FormatBundle(b *KPIBundle) string {
	var out strings.Builder

	out.WriteString(formatDatasetInfo(b.DatasetInfo))
	if len(b.Numeric) > 0 {
		out.WriteString("\n")
		out.WriteString(FormatNumericTable(b.Numeric))
	}
	if len(b.Categorical) > 0 {
		out.WriteString("\n")
		out.WriteString(formatCategoricalTable(b.Categorical))
	}
	if b.Correlation != nil && len(b.Correlation.TopCorrelations) > 0 {
		out.WriteString("\n")
		out.WriteString(formatCorrelationTable(b.Correlation))
	}
	out.WriteString("\n")
	out.WriteString(formatQuality(b.Quality))
	if b.Insights != nil {
		out.WriteString("\n")
		out.WriteString(FormatInsights(b.Insights))
	}
	return out.String()
}

func formatDatasetInfo(info DatasetInfo) string {
	t := table.NewWriter()
	t.SetTitle("Dataset")
	t.AppendHeader(table.Row{"Rows", "Columns", "Numeric", "Date", "Categorical"})
	t.AppendRow(table.Row{info.TotalRows, info.TotalColumns,
		info.NumericColumns, info.DateColumns, info.CategoricalColumns})
	t.SetStyle(table.StyleDefault)
	return t.Render()
}

// FormatNumericTable renders one row per numeric column.
func FormatNumericTable(numeric map[string]NumericStats) string {
	t := table.NewWriter()
	t.SetTitle("Numeric Columns")
	t.AppendHeader(table.Row{"Column", "Count", "Mean", "Median", "Std", "Min", "Max", "Sum", "IQR"})
	for name, s := range numeric {
		t.AppendRow(table.Row{
			name, s.Count,
			fmt.Sprintf("%.2f", s.Mean),
			fmt.Sprintf("%.2f", s.Median),
			fmt.Sprintf("%.2f", s.Std),
			fmt.Sprintf("%.2f", s.Min),
			fmt.Sprintf("%.2f", s.Max),
			fmt.Sprintf("%.2f", s.Sum),
			fmt.Sprintf("%.2f", s.IQR),
		})
	}
	t.SetStyle(table.StyleDefault)
	return t.Render()
}

func formatCategoricalTable(categorical map[string]CategoricalStats) string {
	t := table.NewWriter()
	t.SetTitle("Categorical Columns")
	t.AppendHeader(table.Row{"Column", "Unique", "Most Common", "Count", "Entropy"})
	for name, s := range categorical {
		t.AppendRow(table.Row{
			name, s.UniqueCount, s.MostCommon, s.MostCommonCount,
			fmt.Sprintf("%.3f", s.Entropy),
		})
	}
	t.SetStyle(table.StyleDefault)
	return t.Render()
}

func formatCorrelationTable(c *CorrelationAnalysis) string {
	t := table.NewWriter()
	t.SetTitle("Top Correlations")
	t.AppendHeader(table.Row{"Column 1", "Column 2", "Pearson r", "Strength"})
	for _, corr := range c.TopCorrelations {
		t.AppendRow(table.Row{
			corr.Column1, corr.Column2,
			fmt.Sprintf("%.3f", corr.Correlation),
			corr.Strength,
		})
	}
	t.SetStyle(table.StyleDefault)
	return t.Render()
}

func formatQuality(q QualityMetrics) string {
	t := table.NewWriter()
	t.SetTitle("Data Quality")
	t.AppendHeader(table.Row{"Completeness", "Null %", "Duplicate Rows", "Columns With Nulls", "Types Consistent"})
	t.AppendRow(table.Row{
		fmt.Sprintf("%.1f%%", q.Completeness),
		fmt.Sprintf("%.1f%%", q.NullPercentage),
		q.DuplicateRows,
		strings.Join(q.ColumnsWithNulls, ", "),
		q.DataTypesConsistent,
	})
	t.SetStyle(table.StyleDefault)
	return t.Render()
}

// FormatInsights renders the business insight block as plain text, the
// form the email body embeds.
func FormatInsights(ins *Insights) string {
	var out strings.Builder
	fmt.Fprintf(&out, "Insights for %s:\n", ins.Metric)
	fmt.Fprintf(&out, "  Growth rate: %+.1f%%\n", ins.GrowthRate)
	fmt.Fprintf(&out, "  Trend: %s\n", ins.Trend)
	fmt.Fprintf(&out, "  Performance score: %.1f/100\n", ins.PerformanceScore)
	for _, note := range ins.Notes {
		fmt.Fprintf(&out, "  - %s\n", note)
	}
	out.WriteString("Recommendations:\n")
	for _, rec := range ins.Recommendations {
		fmt.Fprintf(&out, "  - %s\n", rec)
	}
	return out.String()
}
