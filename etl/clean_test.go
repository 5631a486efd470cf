package etl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/etl_reporter/domain/models"
)

func TestCleanDropDuplicates(t *testing.T) {
	month := textColumn("Month", "Jan", "Feb", "Jan", "Mar")
	month.Kind = models.KindCategorical
	sales := numberColumn("Sales", 100, 200, 100, 300)
	sales.Kind = models.KindNumeric
	table := &models.Table{Columns: []models.Column{month, sales}}

	got := Clean(table)

	assert.Equal(t, 1, got.DuplicatesRemoved)
	assert.Equal(t, 3, got.Table.Rows())
	assert.Equal(t, models.Text("Jan"), got.Table.Column("Month").Cells[0])
	assert.Equal(t, models.Text("Feb"), got.Table.Column("Month").Cells[1])
	assert.Equal(t, models.Text("Mar"), got.Table.Column("Month").Cells[2])
}

func TestCleanKeepsDistinctRowsWithSharedPrefix(t *testing.T) {
	a := textColumn("a", "x", "x")
	a.Kind = models.KindCategorical
	b := numberColumn("b", 1, 2)
	b.Kind = models.KindNumeric
	table := &models.Table{Columns: []models.Column{a, b}}

	got := Clean(table)

	assert.Equal(t, 0, got.DuplicatesRemoved)
	assert.Equal(t, 2, got.Table.Rows())
}

func TestCleanMedianImputation(t *testing.T) {
	col := models.Column{Name: "Sales", Kind: models.KindNumeric, Cells: []models.Value{
		models.Number(1), models.Number(2), models.Null(), models.Number(3),
	}}
	table := &models.Table{Columns: []models.Column{col}}

	got := Clean(table)

	cells := got.Table.Column("Sales").Cells
	require.Len(t, cells, 4)
	assert.Equal(t, models.Number(2), cells[2])
}

func TestCleanSentinelForNonNumeric(t *testing.T) {
	col := models.Column{Name: "Region", Kind: models.KindCategorical, Cells: []models.Value{
		models.Text("north"), models.Null(), models.Text("south"),
	}}
	table := &models.Table{Columns: []models.Column{col}}

	got := Clean(table)

	assert.Equal(t, models.Text(MissingSentinel), got.Table.Column("Region").Cells[1])
}

func TestCleanCoercesFullyNumericTextColumn(t *testing.T) {
	col := textColumn("Amount", "1", "2.5", "3")
	col.Kind = models.KindText
	table := &models.Table{Columns: []models.Column{col}}

	got := Clean(table)

	coerced := got.Table.Column("Amount")
	assert.Equal(t, models.KindNumeric, coerced.Kind)
	assert.Equal(t, models.Number(2.5), coerced.Cells[1])
}

func TestCleanLeavesPartiallyNumericColumnAlone(t *testing.T) {
	col := textColumn("Mixed", "1", "two", "3")
	col.Kind = models.KindText
	table := &models.Table{Columns: []models.Column{col}}

	got := Clean(table)

	mixed := got.Table.Column("Mixed")
	assert.Equal(t, models.KindText, mixed.Kind)
	assert.Equal(t, models.Text("two"), mixed.Cells[1])
}

func TestCleanIdempotent(t *testing.T) {
	month := textColumn("Month", "Jan", "Jan", "Feb")
	month.Kind = models.KindCategorical
	sales := models.Column{Name: "Sales", Kind: models.KindNumeric, Cells: []models.Value{
		models.Number(100), models.Number(100), models.Null(),
	}}
	table := &models.Table{Columns: []models.Column{month, sales}}

	first := Clean(table)
	second := Clean(first.Table)

	assert.Equal(t, 0, second.DuplicatesRemoved)
	assert.Equal(t, first.Table, second.Table)
}
