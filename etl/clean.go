package etl

import (
	"log"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/pivolan/etl_reporter/domain/models"
)

// MissingSentinel replaces nulls in non-numeric columns.
const MissingSentinel = "Unknown"

// CleanResult is the cleaned table plus what the stage did to it.
type CleanResult struct {
	Table             *models.Table
	DuplicatesRemoved int
}

// Clean deduplicates rows, imputes missing values and coerces fully
// numeric text columns. It never fails: the worst case is returning the
// table unchanged.
func Clean(t *models.Table) CleanResult {
	out, removed := dropDuplicateRows(t)
	if removed > 0 {
		log.Printf("[clean] removed %d duplicate rows", removed)
	}

	imputeMissing(out)
	coerceNumericColumns(out)

	return CleanResult{Table: out, DuplicatesRemoved: removed}
}

// dropDuplicateRows removes exact full-row duplicates, keeping the first
// occurrence in order.
func dropDuplicateRows(t *models.Table) (*models.Table, int) {
	rows := t.Rows()
	mask := make([]bool, rows)
	seen := make(map[string]struct{}, rows)
	removed := 0

	for i := 0; i < rows; i++ {
		key := rowKey(t, i)
		if _, dup := seen[key]; dup {
			removed++
			continue
		}
		seen[key] = struct{}{}
		mask[i] = true
	}

	return t.Select(mask), removed
}

// rowKey encodes a row so that distinct rows never collide: each cell is
// prefixed with its kind and terminated with a unit separator.
func rowKey(t *models.Table, row int) string {
	var b strings.Builder
	for _, c := range t.Columns {
		v := c.Cells[row]
		switch v.Kind {
		case models.ValueNull:
			b.WriteByte('0')
		case models.ValueNumber:
			b.WriteByte('1')
		case models.ValueText:
			b.WriteByte('2')
		}
		b.WriteString(v.String())
		b.WriteByte(0x1f)
	}
	return b.String()
}

// imputeMissing fills numeric nulls with the column median (computed after
// dedup, column by column) and non-numeric nulls with the sentinel.
func imputeMissing(t *models.Table) {
	for i := range t.Columns {
		col := &t.Columns[i]
		if col.Kind == models.KindNumeric {
			values := nonNullNumbers(col)
			if len(values) == 0 {
				continue
			}
			median, err := stats.Median(values)
			if err != nil {
				continue
			}
			for n, v := range col.Cells {
				if v.IsNull() {
					col.Cells[n] = models.Number(median)
				}
			}
			continue
		}
		for n, v := range col.Cells {
			if v.IsNull() {
				col.Cells[n] = models.Text(MissingSentinel)
			}
		}
	}
}

// coerceNumericColumns retypes a non-numeric column as numeric only when
// every single cell parses as a number; partial convertibility leaves the
// column alone.
func coerceNumericColumns(t *models.Table) {
	for i := range t.Columns {
		col := &t.Columns[i]
		if col.Kind == models.KindNumeric || col.Kind == models.KindEmpty {
			continue
		}

		converted := make([]models.Value, len(col.Cells))
		ok := true
		for n, v := range col.Cells {
			f, numeric := v.AsNumber()
			if !numeric {
				ok = false
				break
			}
			converted[n] = models.Number(f)
		}
		if !ok || len(col.Cells) == 0 {
			continue
		}

		log.Printf("[clean] column %q coerced to numeric", col.Name)
		col.Cells = converted
		col.Kind = models.KindNumeric
	}
}
