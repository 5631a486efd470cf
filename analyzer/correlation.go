package analyzer

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pivolan/etl_reporter/domain/models"
)

// ColumnCorrelation is one Pearson coefficient between two numeric
// columns, with a named strength bucket for the report text.
type ColumnCorrelation struct {
	Column1     string  `json:"column1"`
	Column2     string  `json:"column2"`
	Correlation float64 `json:"correlation"`
	Strength    string  `json:"strength"`
}

type CorrelationAnalysis struct {
	TopCorrelations []ColumnCorrelation `json:"top_correlations"`
}

const topCorrelationLimit = 5

// analyzeCorrelations computes pairwise Pearson correlations over every
// numeric column pair, keeping only rows where both cells are non-null.
func analyzeCorrelations(t *models.Table, numeric []string) *CorrelationAnalysis {
	var correlations []ColumnCorrelation

	for i := 0; i < len(numeric); i++ {
		for j := i + 1; j < len(numeric); j++ {
			a := t.Column(numeric[i])
			b := t.Column(numeric[j])

			xs, ys := alignedPairs(a, b)
			if len(xs) < 2 {
				continue
			}
			r := stat.Correlation(xs, ys, nil)
			if math.IsNaN(r) {
				continue
			}
			correlations = append(correlations, ColumnCorrelation{
				Column1:     a.Name,
				Column2:     b.Name,
				Correlation: r,
				Strength:    correlationStrength(math.Abs(r)),
			})
		}
	}

	sort.Slice(correlations, func(i, j int) bool {
		return math.Abs(correlations[i].Correlation) > math.Abs(correlations[j].Correlation)
	})
	if len(correlations) > topCorrelationLimit {
		correlations = correlations[:topCorrelationLimit]
	}
	return &CorrelationAnalysis{TopCorrelations: correlations}
}

func alignedPairs(a, b *models.Column) ([]float64, []float64) {
	n := len(a.Cells)
	if len(b.Cells) < n {
		n = len(b.Cells)
	}
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if a.Cells[i].Kind == models.ValueNumber && b.Cells[i].Kind == models.ValueNumber {
			xs = append(xs, a.Cells[i].Num)
			ys = append(ys, b.Cells[i].Num)
		}
	}
	return xs, ys
}

func correlationStrength(abs float64) string {
	switch {
	case abs >= 0.8:
		return "very_strong"
	case abs >= 0.6:
		return "strong"
	case abs >= 0.4:
		return "moderate"
	case abs >= 0.2:
		return "weak"
	}
	return "very_weak"
}
