package etl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/etl_reporter/domain/models"
)

func salesTable() *models.Table {
	month := textColumn("Month", "Jan", "Feb", "Mar")
	month.Kind = models.KindCategorical
	sales := numberColumn("Sales", 1000, 1200, 900)
	sales.Kind = models.KindNumeric
	return &models.Table{Columns: []models.Column{month, sales}}
}

func floatPtr(f float64) *float64 { return &f }

func TestApplyFiltersRange(t *testing.T) {
	table := salesTable()
	spec := models.FilterSpec{"Sales": {Min: floatPtr(1000)}}

	got, skipped := ApplyFilters(table, spec)

	require.Empty(t, skipped)
	assert.Equal(t, 2, got.Rows())
	assert.Equal(t, models.Text("Jan"), got.Column("Month").Cells[0])
	assert.Equal(t, models.Text("Feb"), got.Column("Month").Cells[1])
	// source table untouched
	assert.Equal(t, 3, table.Rows())
}

func TestApplyFiltersMinMax(t *testing.T) {
	table := salesTable()
	spec := models.FilterSpec{"Sales": {Min: floatPtr(950), Max: floatPtr(1100)}}

	got, _ := ApplyFilters(table, spec)

	assert.Equal(t, 1, got.Rows())
	assert.Equal(t, models.Number(1000), got.Column("Sales").Cells[0])
}

func TestApplyFiltersValues(t *testing.T) {
	table := salesTable()
	spec := models.FilterSpec{"Month": {Values: []models.Value{
		models.Text("Jan"), models.Text("Mar"),
	}}}

	got, _ := ApplyFilters(table, spec)

	assert.Equal(t, 2, got.Rows())
	assert.Equal(t, models.Number(1000), got.Column("Sales").Cells[0])
	assert.Equal(t, models.Number(900), got.Column("Sales").Cells[1])
}

func TestApplyFiltersEquality(t *testing.T) {
	table := salesTable()
	feb := models.Text("Feb")
	spec := models.FilterSpec{"Month": {Eq: &feb}}

	got, _ := ApplyFilters(table, spec)

	assert.Equal(t, 1, got.Rows())
	assert.Equal(t, models.Number(1200), got.Column("Sales").Cells[0])
}

func TestApplyFiltersUnknownColumn(t *testing.T) {
	table := salesTable()
	spec := models.FilterSpec{"Missing": {Min: floatPtr(1)}}

	got, skipped := ApplyFilters(table, spec)

	assert.Equal(t, 3, got.Rows())
	require.Len(t, skipped, 1)
	assert.Equal(t, "Missing", skipped[0].Column)
	assert.Equal(t, "unknown column", skipped[0].Reason)
}

func TestApplyFiltersEmptySpec(t *testing.T) {
	table := salesTable()

	got, skipped := ApplyFilters(table, nil)

	assert.Nil(t, skipped)
	assert.Equal(t, 3, got.Rows())
}

func TestApplyFiltersConjunction(t *testing.T) {
	table := salesTable()
	jan := models.Text("Jan")
	spec := models.FilterSpec{
		"Sales": {Min: floatPtr(1000)},
		"Month": {Eq: &jan},
	}

	got, _ := ApplyFilters(table, spec)

	assert.Equal(t, 1, got.Rows())
	assert.Equal(t, models.Text("Jan"), got.Column("Month").Cells[0])
}

func TestMatchesNullAndNonNumeric(t *testing.T) {
	pred := models.Predicate{Min: floatPtr(0)}

	assert.False(t, matches(models.Null(), pred))
	assert.False(t, matches(models.Text("abc"), pred))
	// numeric text satisfies the range
	assert.True(t, matches(models.Text("5"), pred))
}

func TestValueEqualAcrossRepresentations(t *testing.T) {
	assert.True(t, valueEqual(models.Number(5), models.Text("5")))
	assert.True(t, valueEqual(models.Text("5.0"), models.Number(5)))
	assert.False(t, valueEqual(models.Text("abc"), models.Number(5)))
	assert.False(t, valueEqual(models.Text("abc"), models.Text("def")))
}
