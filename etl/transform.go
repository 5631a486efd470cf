package etl

import (
	"fmt"
	"log"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/pivolan/etl_reporter/domain/models"
)

// ApplyTransformations runs the named operations strictly in order. Each
// operation sees every column that is numeric at that moment, so chained
// operations observe the output of earlier ones; that ordering is part of
// the contract and must not be snapshot away.
func ApplyTransformations(t *models.Table, ops []models.Transformation) (*models.Table, []models.SkipNote) {
	out := t.Clone()
	var skipped []models.SkipNote

	for _, op := range ops {
		switch op {
		case models.Normalize:
			normalizeColumns(out)
		case models.Standardize:
			standardizeColumns(out)
		case models.LogTransform:
			skipped = append(skipped, logTransformColumns(out)...)
		default:
			log.Printf("[transform] unknown transformation %q, skipped", op)
			skipped = append(skipped, models.SkipNote{
				Column: string(op),
				Reason: "unknown transformation",
			})
		}
	}

	return out, skipped
}

// normalizeColumns rescales each numeric column to [0,1]. Zero-variance
// columns are left unchanged to avoid division by zero.
func normalizeColumns(t *models.Table) {
	for i := range t.Columns {
		col := &t.Columns[i]
		if col.Kind != models.KindNumeric {
			continue
		}
		values := nonNullNumbers(col)
		if len(values) == 0 {
			continue
		}
		sd, _ := stats.StandardDeviationSample(values)
		if sd == 0 || math.IsNaN(sd) {
			continue
		}
		min, _ := stats.Min(values)
		max, _ := stats.Max(values)
		mapNumeric(col, func(x float64) float64 {
			return (x - min) / (max - min)
		})
	}
}

// standardizeColumns centers each numeric column to mean 0 and sample
// standard deviation 1, with the same zero-variance guard.
func standardizeColumns(t *models.Table) {
	for i := range t.Columns {
		col := &t.Columns[i]
		if col.Kind != models.KindNumeric {
			continue
		}
		values := nonNullNumbers(col)
		if len(values) == 0 {
			continue
		}
		sd, _ := stats.StandardDeviationSample(values)
		if sd == 0 || math.IsNaN(sd) {
			continue
		}
		mean, _ := stats.Mean(values)
		mapNumeric(col, func(x float64) float64 {
			return (x - mean) / sd
		})
	}
}

// logTransformColumns applies log(1+x) to numeric columns whose values are
// all strictly positive. Columns with any non-positive value are left
// completely untouched and reported as skips; callers that expected a
// uniform rewrite can inspect the notes.
func logTransformColumns(t *models.Table) []models.SkipNote {
	var skipped []models.SkipNote
	for i := range t.Columns {
		col := &t.Columns[i]
		if col.Kind != models.KindNumeric {
			continue
		}
		values := nonNullNumbers(col)
		if len(values) == 0 {
			continue
		}
		positive := true
		for _, v := range values {
			if v <= 0 {
				positive = false
				break
			}
		}
		if !positive {
			log.Printf("[transform] column %q has non-positive values, log_transform skipped", col.Name)
			skipped = append(skipped, models.SkipNote{
				Column: col.Name,
				Reason: "log_transform requires strictly positive values",
			})
			continue
		}
		mapNumeric(col, math.Log1p)
	}
	return skipped
}

func nonNullNumbers(col *models.Column) []float64 {
	values := make([]float64, 0, len(col.Cells))
	for _, v := range col.Cells {
		if v.Kind == models.ValueNumber {
			values = append(values, v.Num)
		}
	}
	return values
}

// mapNumeric rewrites the numeric cells of a column in place, leaving
// nulls where they are.
func mapNumeric(col *models.Column, f func(float64) float64) {
	for i, v := range col.Cells {
		if v.Kind == models.ValueNumber {
			col.Cells[i] = models.Number(f(v.Num))
		}
	}
}

// ParseTransformations validates user-supplied operation names, keeping
// the known ones in order.
func ParseTransformations(names []string) ([]models.Transformation, error) {
	ops := make([]models.Transformation, 0, len(names))
	for _, name := range names {
		switch t := models.Transformation(name); t {
		case models.Normalize, models.Standardize, models.LogTransform:
			ops = append(ops, t)
		default:
			return nil, fmt.Errorf("unknown transformation %q", name)
		}
	}
	return ops, nil
}
