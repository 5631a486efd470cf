package analyzer

import (
	"github.com/pivolan/etl_reporter/domain/models"
)

// QualityMetrics summarizes dataset health: how complete it is, where the
// nulls live, how many exact duplicates exist and whether numeric columns
// are internally consistent.
type QualityMetrics struct {
	Completeness        float64  `json:"completeness"`
	NullPercentage      float64  `json:"null_percentage"`
	DuplicateRows       int      `json:"duplicate_rows"`
	ColumnsWithNulls    []string `json:"columns_with_nulls"`
	DataTypesConsistent bool     `json:"data_types_consistent"`
}

func analyzeQuality(t *models.Table) QualityMetrics {
	totalCells := t.Rows() * t.Cols()
	nullCells := 0
	columnsWithNulls := []string{}

	for _, col := range t.Columns {
		nulls := 0
		for _, v := range col.Cells {
			if v.IsNull() {
				nulls++
			}
		}
		nullCells += nulls
		if nulls > 0 {
			columnsWithNulls = append(columnsWithNulls, col.Name)
		}
	}

	metrics := QualityMetrics{
		Completeness:        100,
		DuplicateRows:       countDuplicateRows(t),
		ColumnsWithNulls:    columnsWithNulls,
		DataTypesConsistent: typesConsistent(t),
	}
	if totalCells > 0 {
		metrics.Completeness = float64(totalCells-nullCells) / float64(totalCells) * 100
		metrics.NullPercentage = float64(nullCells) / float64(totalCells) * 100
	}
	return metrics
}

func countDuplicateRows(t *models.Table) int {
	seen := map[string]int{}
	duplicates := 0

	for r := 0; r < t.Rows(); r++ {
		key := ""
		for _, c := range t.Columns {
			v := c.Cells[r]
			key += string(rune('0'+int(v.Kind))) + v.String() + "\x1f"
		}
		if seen[key] > 0 {
			duplicates++
		}
		seen[key]++
	}
	return duplicates
}

// typesConsistent checks that every non-null cell of a numeric column
// actually carries a number.
func typesConsistent(t *models.Table) bool {
	for _, col := range t.Columns {
		if col.Kind != models.KindNumeric {
			continue
		}
		for _, v := range col.Cells {
			if v.IsNull() {
				continue
			}
			if _, ok := v.AsNumber(); !ok {
				return false
			}
		}
	}
	return true
}
