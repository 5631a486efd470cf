package analyzer

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/pivolan/etl_reporter/domain/models"
)

// Insights is the business-level reading of the first numeric column:
// growth, trend direction, a 0..100 performance score and the extreme rows.
type Insights struct {
	Metric           string   `json:"metric"`
	GrowthRate       float64  `json:"growth_rate"`
	Trend            string   `json:"trend"`
	PerformanceScore float64  `json:"performance_score"`
	BestRow          RowRef   `json:"best_row"`
	WorstRow         RowRef   `json:"worst_row"`
	Notes            []string `json:"notes"`
	Recommendations  []string `json:"recommendations"`
}

// RowRef points at a single extreme row, labelled by the first
// categorical column when one exists, else by row index.
type RowRef struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

func generateInsights(t *models.Table, numeric, categorical []string) *Insights {
	col := t.Column(numeric[0])
	values := nonNullNumbers(col)
	if len(values) == 0 {
		return nil
	}

	var labelCol *models.Column
	if len(categorical) > 0 {
		labelCol = t.Column(categorical[0])
	}

	ins := &Insights{
		Metric:           col.Name,
		GrowthRate:       growthRate(values),
		Trend:            trendLabel(values),
		PerformanceScore: performanceScore(values),
	}
	ins.BestRow, ins.WorstRow = extremeRows(col, labelCol)
	ins.Notes = insightNotes(ins)
	ins.Recommendations = recommendations(ins.GrowthRate)
	return ins
}

// growthRate is the percent change from the first to the last observation.
func growthRate(values []float64) float64 {
	if len(values) < 2 || values[0] == 0 {
		return 0
	}
	return (values[len(values)-1] - values[0]) / values[0] * 100
}

// trendLabel classifies the least-squares slope over the row index.
func trendLabel(values []float64) string {
	if len(values) < 2 {
		return "stable"
	}
	xs := make([]float64, len(values))
	for i := range xs {
		xs[i] = float64(i)
	}
	_, slope := stat.LinearRegression(xs, values, nil, false)

	switch {
	case slope > 50:
		return "strong_growth"
	case slope > 0:
		return "growing"
	case slope < -50:
		return "declining"
	}
	return "stable"
}

// performanceScore relates the mean to an ideal set 20% above the
// observed maximum, capped at 100.
func performanceScore(values []float64) float64 {
	mean := 0.0
	max := values[0]
	for _, v := range values {
		mean += v
		if v > max {
			max = v
		}
	}
	mean /= float64(len(values))

	if max == 0 {
		return 0
	}
	score := mean / (max * 1.2) * 100
	if score > 100 {
		score = 100
	}
	return score
}

func extremeRows(col *models.Column, labelCol *models.Column) (best, worst RowRef) {
	bestIdx, worstIdx := -1, -1
	for i, v := range col.Cells {
		if v.Kind != models.ValueNumber {
			continue
		}
		if bestIdx == -1 || v.Num > col.Cells[bestIdx].Num {
			bestIdx = i
		}
		if worstIdx == -1 || v.Num < col.Cells[worstIdx].Num {
			worstIdx = i
		}
	}
	if bestIdx == -1 {
		return
	}
	best = RowRef{Label: rowLabel(labelCol, bestIdx), Value: col.Cells[bestIdx].Num}
	worst = RowRef{Label: rowLabel(labelCol, worstIdx), Value: col.Cells[worstIdx].Num}
	return
}

func rowLabel(labelCol *models.Column, idx int) string {
	if labelCol != nil && idx < len(labelCol.Cells) && !labelCol.Cells[idx].IsNull() {
		return labelCol.Cells[idx].String()
	}
	return fmt.Sprintf("row %d", idx)
}

func insightNotes(ins *Insights) []string {
	var notes []string

	switch {
	case ins.PerformanceScore > 80:
		notes = append(notes, "Excellent performance, values are consistently strong.")
	case ins.PerformanceScore > 60:
		notes = append(notes, "Good performance with room for improvement.")
	default:
		notes = append(notes, "Performance needs attention, consider a strategic review.")
	}

	switch {
	case ins.GrowthRate > 20:
		notes = append(notes, "Strong growth trajectory detected.")
	case ins.GrowthRate > 0:
		notes = append(notes, "Positive growth trend observed.")
	default:
		notes = append(notes, "Declining trend requires action.")
	}

	notes = append(notes,
		fmt.Sprintf("Best: %s (%.2f)", ins.BestRow.Label, ins.BestRow.Value),
		fmt.Sprintf("Lowest: %s (%.2f)", ins.WorstRow.Label, ins.WorstRow.Value))
	return notes
}

func recommendations(growth float64) []string {
	if growth < 0 {
		return []string{
			"Analyze factors causing the decline",
			"Implement growth strategies",
		}
	}
	return []string{
		"Maintain current positive momentum",
		"Explore expansion opportunities",
	}
}

// VisualizationRecommendation suggests a chart for the dataset's column
// mix, capped at six suggestions in priority order.
type VisualizationRecommendation struct {
	Type        string `json:"type"`
	XColumn     string `json:"x_column,omitempty"`
	YColumn     string `json:"y_column,omitempty"`
	Column      string `json:"column,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

const recommendationLimit = 6

func recommendVisualizations(numeric, dates, categorical []string) []VisualizationRecommendation {
	var recs []VisualizationRecommendation

	for _, dateCol := range dates {
		for _, numCol := range numeric {
			recs = append(recs, VisualizationRecommendation{
				Type:        "time_series",
				XColumn:     dateCol,
				YColumn:     numCol,
				Title:       fmt.Sprintf("%s Over Time", numCol),
				Description: fmt.Sprintf("Shows trend of %s across %s", numCol, dateCol),
			})
		}
	}
	for _, catCol := range categorical {
		for _, numCol := range numeric {
			recs = append(recs, VisualizationRecommendation{
				Type:        "bar_chart",
				XColumn:     catCol,
				YColumn:     numCol,
				Title:       fmt.Sprintf("%s by %s", numCol, catCol),
				Description: fmt.Sprintf("Compares %s across different %s categories", numCol, catCol),
			})
		}
	}
	for _, numCol := range numeric {
		recs = append(recs, VisualizationRecommendation{
			Type:        "histogram",
			Column:      numCol,
			Title:       fmt.Sprintf("Distribution of %s", numCol),
			Description: fmt.Sprintf("Shows the frequency distribution of %s values", numCol),
		})
	}
	if len(numeric) > 2 {
		recs = append(recs, VisualizationRecommendation{
			Type:        "correlation_heatmap",
			Title:       "Correlation Matrix",
			Description: "Shows correlations between all numeric variables",
		})
	}

	if len(recs) > recommendationLimit {
		recs = recs[:recommendationLimit]
	}
	return recs
}
