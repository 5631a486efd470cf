package chart

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/etl_reporter/domain/models"
)

func chartTable() *models.Table {
	month := models.Column{Name: "Month", Kind: models.KindCategorical, Cells: []models.Value{
		models.Text("Jan"), models.Text("Feb"), models.Text("Mar"),
	}}
	sales := models.Column{Name: "Sales", Kind: models.KindNumeric, Cells: []models.Value{
		models.Number(5), models.Number(10), models.Number(15),
	}}
	costs := models.Column{Name: "Costs", Kind: models.KindNumeric, Cells: []models.Value{
		models.Number(2), models.Number(4), models.Number(6),
	}}
	return &models.Table{Columns: []models.Column{month, sales, costs}}
}

func wideNumericTable(rows int) *models.Table {
	a := models.Column{Name: "a", Kind: models.KindNumeric}
	b := models.Column{Name: "b", Kind: models.KindNumeric}
	for i := 0; i < rows; i++ {
		a.Cells = append(a.Cells, models.Number(float64(i)))
		b.Cells = append(b.Cells, models.Number(float64(i*2)))
	}
	return &models.Table{Columns: []models.Column{a, b}}
}

func TestBuildBar(t *testing.T) {
	cfg, err := Build(chartTable(), "bar")

	require.NoError(t, err)
	assert.Equal(t, "bar", cfg.Kind)
	assert.Equal(t, "Sales - Bar Chart", cfg.Title)
	require.Len(t, cfg.Series, 1)
	assert.Equal(t, []float64{5, 10, 15}, cfg.Series[0].Values)
	assert.Equal(t, []string{"0", "1", "2"}, cfg.XAxis.Categories)
}

func TestBuildLine(t *testing.T) {
	cfg, err := Build(chartTable(), "line")

	require.NoError(t, err)
	assert.Equal(t, "Sales vs Costs - Line Chart", cfg.Title)
	require.Len(t, cfg.Series, 1)
	require.Len(t, cfg.Series[0].Points, 3)
	assert.Equal(t, "5", cfg.Series[0].Points[0].X)
	assert.Equal(t, float64(2), cfg.Series[0].Points[0].Y)
}

func TestBuildArea(t *testing.T) {
	cfg, err := Build(chartTable(), "area")

	require.NoError(t, err)
	assert.Equal(t, "area", cfg.Kind)
	assert.Equal(t, "Sales vs Costs - Area Chart", cfg.Title)
}

func TestBuildPieWithCategoricalLabels(t *testing.T) {
	cfg, err := Build(chartTable(), "pie")

	require.NoError(t, err)
	assert.Equal(t, []string{"Jan", "Feb", "Mar"}, cfg.Labels)
	assert.Equal(t, []float64{5, 10, 15}, cfg.Series[0].Values)
}

func TestBuildPieGeneratedLabels(t *testing.T) {
	cfg, err := Build(wideNumericTable(3), "pie")

	require.NoError(t, err)
	assert.Equal(t, []string{"Item 1", "Item 2", "Item 3"}, cfg.Labels)
}

func TestBuildScatter(t *testing.T) {
	cfg, err := Build(chartTable(), "scatter")

	require.NoError(t, err)
	require.Len(t, cfg.Series, 1)
	require.Len(t, cfg.Series[0].Points, 3)
	assert.Equal(t, float64(5), cfg.Series[0].Points[0].X)
	assert.Equal(t, float64(2), cfg.Series[0].Points[0].Y)
}

func TestBuildRowLimits(t *testing.T) {
	table := wideNumericTable(50)

	line, err := Build(table, "line")
	require.NoError(t, err)
	assert.Len(t, line.Series[0].Points, 20)

	bar, err := Build(table, "bar")
	require.NoError(t, err)
	assert.Len(t, bar.Series[0].Values, 10)

	pie, err := Build(table, "pie")
	require.NoError(t, err)
	assert.Len(t, pie.Series[0].Values, 8)
}

func TestBuildRequiresNumericColumns(t *testing.T) {
	table := &models.Table{Columns: []models.Column{
		{Name: "Month", Kind: models.KindCategorical, Cells: []models.Value{models.Text("Jan")}},
	}}

	for _, kind := range Kinds() {
		t.Run(kind, func(t *testing.T) {
			_, err := Build(table, kind)
			assert.ErrorIs(t, err, ErrNoNumericColumns)
		})
	}
}

func TestBuildPairedKindsNeedTwoColumns(t *testing.T) {
	table := &models.Table{Columns: []models.Column{
		{Name: "Sales", Kind: models.KindNumeric, Cells: []models.Value{models.Number(1)}},
	}}

	for _, kind := range []string{"line", "area", "scatter"} {
		_, err := Build(table, kind)
		assert.Error(t, err, kind)
	}
}

func TestBuildUnknownKind(t *testing.T) {
	_, err := Build(chartTable(), "heatmap")
	assert.EqualError(t, err, fmt.Sprintf("unknown chart kind %q", "heatmap"))
}

func TestDefaultTheme(t *testing.T) {
	cfg, err := Build(chartTable(), "bar")

	require.NoError(t, err)
	assert.Equal(t, "dark", cfg.Theme.Mode)
	assert.Equal(t, 350, cfg.Theme.Height)
	assert.Equal(t,
		[]string{"#00D4FF", "#0099CC", "#00FF88", "#FFB800", "#FF4444"},
		cfg.Theme.Colors)
}
