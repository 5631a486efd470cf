package analyzer

import (
	"log"

	"github.com/pivolan/etl_reporter/domain/models"
)

// DatasetInfo is the header block of every KPI bundle.
type DatasetInfo struct {
	TotalRows          int `json:"total_rows"`
	TotalColumns       int `json:"total_columns"`
	NumericColumns     int `json:"numeric_columns"`
	DateColumns        int `json:"date_columns"`
	CategoricalColumns int `json:"categorical_columns"`
}

// KPIBundle groups every analysis the dataset's column mix allows.
// Sections whose preconditions are not met stay nil.
type KPIBundle struct {
	DatasetInfo DatasetInfo                    `json:"dataset_info"`
	Numeric     map[string]NumericStats        `json:"numeric_analysis,omitempty"`
	Categorical map[string]CategoricalStats    `json:"categorical_analysis,omitempty"`
	Temporal    map[string]TemporalStats       `json:"temporal_analysis,omitempty"`
	Correlation *CorrelationAnalysis           `json:"correlation_analysis,omitempty"`
	Quality     QualityMetrics                 `json:"data_quality"`
	Insights    *Insights                      `json:"insights,omitempty"`
	Recommended []VisualizationRecommendation  `json:"recommended_visualizations,omitempty"`
}

// Analyze computes the full KPI bundle for a classified table. Which
// sections appear depends only on the column kinds present.
func Analyze(t *models.Table) *KPIBundle {
	numeric := t.ColumnsOfKind(models.KindNumeric)
	dates := t.ColumnsOfKind(models.KindDate)
	categorical := t.ColumnsOfKind(models.KindCategorical)

	log.Printf("[analyzer] analyzing %d rows: %d numeric, %d date, %d categorical columns",
		t.Rows(), len(numeric), len(dates), len(categorical))

	bundle := &KPIBundle{
		DatasetInfo: DatasetInfo{
			TotalRows:          t.Rows(),
			TotalColumns:       t.Cols(),
			NumericColumns:     len(numeric),
			DateColumns:        len(dates),
			CategoricalColumns: len(categorical),
		},
		Quality: analyzeQuality(t),
	}

	if len(numeric) > 0 {
		bundle.Numeric = analyzeNumericColumns(t, numeric)
		bundle.Insights = generateInsights(t, numeric, categorical)
	}
	if len(categorical) > 0 {
		bundle.Categorical = analyzeCategoricalColumns(t, categorical)
	}
	if len(dates) > 0 {
		bundle.Temporal = analyzeTemporalColumns(t, dates)
	}
	if len(numeric) > 1 {
		bundle.Correlation = analyzeCorrelations(t, numeric)
	}
	bundle.Recommended = recommendVisualizations(numeric, dates, categorical)

	return bundle
}

// nonNullNumbers collects the numeric values of a column, nulls skipped.
func nonNullNumbers(col *models.Column) []float64 {
	out := make([]float64, 0, len(col.Cells))
	for _, v := range col.Cells {
		if v.Kind == models.ValueNumber {
			out = append(out, v.Num)
		}
	}
	return out
}
