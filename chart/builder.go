package chart

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/pivolan/go_utils"

	"github.com/pivolan/etl_reporter/domain/models"
)

// ErrNoNumericColumns is raised for every chart kind when the table has
// nothing chartable.
var ErrNoNumericColumns = errors.New("no numeric columns available for charting")

// Row limits per chart kind, matching the dashboard front end.
const (
	pairedPointLimit = 20 // line, area, scatter
	barRowLimit      = 10
	pieSliceLimit    = 8
)

// Kinds lists every chart kind the builder understands.
func Kinds() []string {
	return []string{"line", "bar", "area", "pie", "scatter"}
}

// DefaultKinds is the fixed set a full pipeline run generates.
func DefaultKinds() []string {
	return []string{"line", "bar", "area", "pie"}
}

// defaultTheme is the fixed dark styling every descriptor carries. It is
// cosmetic only; renderers may override it.
func defaultTheme() models.Theme {
	return models.Theme{
		Mode:       "dark",
		Background: "transparent",
		ForeColor:  "#FFFFFF",
		Colors:     []string{"#00D4FF", "#0099CC", "#00FF88", "#FFB800", "#FF4444"},
		Height:     350,
	}
}

// Build derives a declarative chart descriptor of the given kind from the
// table. It fails when the table lacks the numeric columns the kind needs.
func Build(t *models.Table, kind string) (models.ChartConfig, error) {
	if !go_utils.InArray(kind, Kinds()) {
		return models.ChartConfig{}, fmt.Errorf("unknown chart kind %q", kind)
	}
	numeric := t.ColumnsOfKind(models.KindNumeric)
	if len(numeric) == 0 {
		return models.ChartConfig{}, ErrNoNumericColumns
	}

	switch kind {
	case "line", "area":
		return buildPaired(t, kind, numeric)
	case "bar":
		return buildBar(t, numeric)
	case "pie":
		return buildPie(t, numeric)
	case "scatter":
		return buildScatter(t, numeric)
	}
	return models.ChartConfig{}, fmt.Errorf("unknown chart kind %q", kind)
}

// buildPaired covers line and area charts: the first two numeric columns
// become the (x, y) series, truncated to the first rows in order.
func buildPaired(t *models.Table, kind string, numeric []string) (models.ChartConfig, error) {
	if len(numeric) < 2 {
		return models.ChartConfig{}, fmt.Errorf("%s chart requires at least 2 numeric columns", kind)
	}
	xCol := t.Column(numeric[0])
	yCol := t.Column(numeric[1])

	points := make([]models.Point, 0, pairedPointLimit)
	for i := 0; i < t.Rows() && i < pairedPointLimit; i++ {
		points = append(points, models.Point{
			X: xCol.Cells[i].String(),
			Y: yCol.Cells[i].Num,
		})
	}

	titleKind := "Line Chart"
	if kind == "area" {
		titleKind = "Area Chart"
	}
	return models.ChartConfig{
		Kind:   kind,
		Title:  fmt.Sprintf("%s vs %s - %s", xCol.Name, yCol.Name, titleKind),
		Series: []models.Series{{Name: yCol.Name, Points: points}},
		XAxis:  models.Axis{Title: xCol.Name},
		YAxis:  models.Axis{Title: yCol.Name},
		Theme:  defaultTheme(),
	}, nil
}

// buildBar charts the first numeric column over the first ten rows, keyed
// by row index.
func buildBar(t *models.Table, numeric []string) (models.ChartConfig, error) {
	col := t.Column(numeric[0])

	values := make([]float64, 0, barRowLimit)
	categories := make([]string, 0, barRowLimit)
	for i := 0; i < t.Rows() && i < barRowLimit; i++ {
		values = append(values, col.Cells[i].Num)
		categories = append(categories, strconv.Itoa(i))
	}

	return models.ChartConfig{
		Kind:   "bar",
		Title:  fmt.Sprintf("%s - Bar Chart", col.Name),
		Series: []models.Series{{Name: col.Name, Values: values}},
		XAxis:  models.Axis{Categories: categories},
		Theme:  defaultTheme(),
	}, nil
}

// buildPie slices the first numeric column over the first eight rows,
// labelled with the first categorical column when one exists.
func buildPie(t *models.Table, numeric []string) (models.ChartConfig, error) {
	col := t.Column(numeric[0])
	var labelCol *models.Column
	if cats := t.ColumnsOfKind(models.KindCategorical); len(cats) > 0 {
		labelCol = t.Column(cats[0])
	}

	values := make([]float64, 0, pieSliceLimit)
	labels := make([]string, 0, pieSliceLimit)
	for i := 0; i < t.Rows() && i < pieSliceLimit; i++ {
		values = append(values, col.Cells[i].Num)
		if labelCol != nil {
			labels = append(labels, labelCol.Cells[i].String())
		} else {
			labels = append(labels, fmt.Sprintf("Item %d", i+1))
		}
	}

	return models.ChartConfig{
		Kind:   "pie",
		Title:  fmt.Sprintf("%s - Pie Chart", col.Name),
		Series: []models.Series{{Name: col.Name, Values: values}},
		Labels: labels,
		Theme:  defaultTheme(),
	}, nil
}

// buildScatter emits up to twenty (x,y) points from the first two numeric
// columns.
func buildScatter(t *models.Table, numeric []string) (models.ChartConfig, error) {
	if len(numeric) < 2 {
		return models.ChartConfig{}, errors.New("scatter chart requires at least 2 numeric columns")
	}
	xCol := t.Column(numeric[0])
	yCol := t.Column(numeric[1])

	points := make([]models.Point, 0, pairedPointLimit)
	for i := 0; i < t.Rows() && i < pairedPointLimit; i++ {
		points = append(points, models.Point{
			X: xCol.Cells[i].Num,
			Y: yCol.Cells[i].Num,
		})
	}

	return models.ChartConfig{
		Kind:   "scatter",
		Title:  fmt.Sprintf("%s vs %s - Scatter Plot", xCol.Name, yCol.Name),
		Series: []models.Series{{Name: fmt.Sprintf("%s vs %s", xCol.Name, yCol.Name), Points: points}},
		XAxis:  models.Axis{Title: xCol.Name},
		YAxis:  models.Axis{Title: yCol.Name},
		Theme:  defaultTheme(),
	}, nil
}
