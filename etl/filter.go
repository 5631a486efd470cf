package etl

import (
	"fmt"
	"log"

	"github.com/pivolan/etl_reporter/domain/models"
)

// ApplyFilters reduces rows with the conjunctive per-column predicates in
// spec. Unknown columns are reported as skips and do not fail the run.
// The result never has more rows than the input.
func ApplyFilters(t *models.Table, spec models.FilterSpec) (*models.Table, []models.SkipNote) {
	if len(spec) == 0 {
		return t.Clone(), nil
	}

	var skipped []models.SkipNote
	mask := make([]bool, t.Rows())
	for i := range mask {
		mask[i] = true
	}

	for name, pred := range spec {
		col := t.Column(name)
		if col == nil {
			log.Printf("[filter] unknown column %q, condition skipped", name)
			skipped = append(skipped, models.SkipNote{Column: name, Reason: "unknown column"})
			continue
		}
		for i, cell := range col.Cells {
			if mask[i] && !matches(cell, pred) {
				mask[i] = false
			}
		}
	}

	return t.Select(mask), skipped
}

// matches checks one cell against one predicate. Null cells never satisfy
// a predicate, matching the NaN-comparison behavior of the original.
func matches(cell models.Value, pred models.Predicate) bool {
	if cell.IsNull() {
		return false
	}

	if pred.Min != nil || pred.Max != nil {
		f, ok := cell.AsNumber()
		if !ok {
			return false
		}
		if pred.Min != nil && f < *pred.Min {
			return false
		}
		if pred.Max != nil && f > *pred.Max {
			return false
		}
	}

	if pred.Values != nil {
		found := false
		for _, want := range pred.Values {
			if valueEqual(cell, want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if pred.Eq != nil && !valueEqual(cell, *pred.Eq) {
		return false
	}

	return true
}

// valueEqual compares cells across representations: a numeric cell equals
// a text value that parses to the same number, and vice versa.
func valueEqual(a, b models.Value) bool {
	if a == b {
		return true
	}
	af, aok := a.AsNumber()
	bf, bok := b.AsNumber()
	if aok && bok {
		return af == bf
	}
	return false
}

// DescribeSpec renders a filter spec for log lines.
func DescribeSpec(spec models.FilterSpec) string {
	if len(spec) == 0 {
		return "none"
	}
	return fmt.Sprintf("%d condition(s)", len(spec))
}
