package analyzer

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/pivolan/etl_reporter/domain/models"
)

// NumericStats is the per-column descriptive block. Std is the sample
// standard deviation; CV is std over mean, zero when the mean is zero.
type NumericStats struct {
	Count     int                 `json:"count"`
	Mean      float64             `json:"mean"`
	Median    float64             `json:"median"`
	Std       float64             `json:"std"`
	Min       float64             `json:"min"`
	Max       float64             `json:"max"`
	Sum       float64             `json:"sum"`
	Range     float64             `json:"range"`
	CV        float64             `json:"cv"`
	Quantiles map[string]float64  `json:"quantiles,omitempty"`
	IQR       float64             `json:"iqr"`
	Outliers  []float64           `json:"outliers,omitempty"`
}

var quantileLevels = map[string]float64{
	"p01":  0.01,
	"p025": 0.025,
	"p10":  0.1,
	"p25":  0.25,
	"p75":  0.75,
	"p90":  0.9,
	"p975": 0.975,
	"p99":  0.99,
}

func analyzeNumericColumns(t *models.Table, numeric []string) map[string]NumericStats {
	out := make(map[string]NumericStats, len(numeric))
	for _, name := range numeric {
		values := nonNullNumbers(t.Column(name))
		if len(values) == 0 {
			continue
		}
		out[name] = describeNumbers(values)
	}
	return out
}

func describeNumbers(values []float64) NumericStats {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean, _ := stats.Mean(values)
	median, _ := stats.Median(values)
	sum, _ := stats.Sum(values)

	std := 0.0
	if len(values) > 1 {
		std, _ = stats.StandardDeviationSample(values)
	}
	cv := 0.0
	if mean != 0 {
		cv = std / mean
	}

	quantiles := make(map[string]float64, len(quantileLevels))
	for name, p := range quantileLevels {
		quantiles[name] = quantile(sorted, p)
	}
	iqr := quantiles["p75"] - quantiles["p25"]

	return NumericStats{
		Count:     len(values),
		Mean:      mean,
		Median:    median,
		Std:       std,
		Min:       sorted[0],
		Max:       sorted[len(sorted)-1],
		Sum:       sum,
		Range:     sorted[len(sorted)-1] - sorted[0],
		CV:        cv,
		Quantiles: quantiles,
		IQR:       iqr,
		Outliers:  findOutliers(values, quantiles["p25"], quantiles["p75"], iqr),
	}
}

// quantile interpolates linearly between the two nearest order statistics.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := p * float64(len(sorted)-1)
	floor := math.Floor(pos)
	ceil := math.Ceil(pos)
	if floor == ceil {
		return sorted[int(pos)]
	}
	lower := sorted[int(floor)]
	upper := sorted[int(ceil)]
	return lower + (pos-floor)*(upper-lower)
}

// findOutliers applies the 1.5*IQR fence around the quartiles.
func findOutliers(values []float64, q1, q3, iqr float64) []float64 {
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr
	var outliers []float64
	for _, v := range values {
		if v < lower || v > upper {
			outliers = append(outliers, v)
		}
	}
	return outliers
}
