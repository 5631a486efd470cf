package chart

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/pivolan/etl_reporter/domain/models"
)

// WriteDashboard renders a static HTML dashboard of the standard chart
// set for the current table. This is a presentation convenience for the
// email report and the web view; the canonical output stays the
// ChartConfig descriptors.
func WriteDashboard(t *models.Table, title, path string) error {
	numeric := t.ColumnsOfKind(models.KindNumeric)
	if len(numeric) == 0 {
		return ErrNoNumericColumns
	}

	page := components.NewPage()
	page.PageTitle = title

	if len(numeric) >= 2 {
		page.AddCharts(dashboardLine(t, numeric))
	}
	page.AddCharts(dashboardBar(t, numeric))
	page.AddCharts(dashboardPie(t, numeric))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dashboard file: %w", err)
	}
	defer f.Close()
	return page.Render(f)
}

func dashboardLine(t *models.Table, numeric []string) *charts.Line {
	xCol := t.Column(numeric[0])
	yCol := t.Column(numeric[1])

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeChalk}),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("%s vs %s", xCol.Name, yCol.Name)}),
	)

	xAxis := make([]string, 0, pairedPointLimit)
	data := make([]opts.LineData, 0, pairedPointLimit)
	for i := 0; i < t.Rows() && i < pairedPointLimit; i++ {
		xAxis = append(xAxis, xCol.Cells[i].String())
		data = append(data, opts.LineData{Value: yCol.Cells[i].Num})
	}
	line.SetXAxis(xAxis).AddSeries(yCol.Name, data)
	return line
}

func dashboardBar(t *models.Table, numeric []string) *charts.Bar {
	col := t.Column(numeric[0])

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeChalk}),
		charts.WithTitleOpts(opts.Title{Title: col.Name}),
	)

	xAxis := make([]string, 0, barRowLimit)
	data := make([]opts.BarData, 0, barRowLimit)
	for i := 0; i < t.Rows() && i < barRowLimit; i++ {
		xAxis = append(xAxis, fmt.Sprintf("%d", i))
		data = append(data, opts.BarData{Value: col.Cells[i].Num})
	}
	bar.SetXAxis(xAxis).AddSeries(col.Name, data)
	return bar
}

func dashboardPie(t *models.Table, numeric []string) *charts.Pie {
	cfg, _ := buildPie(t, numeric)

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeChalk}),
		charts.WithTitleOpts(opts.Title{Title: cfg.Title}),
	)

	data := make([]opts.PieData, 0, len(cfg.Labels))
	for i, label := range cfg.Labels {
		data = append(data, opts.PieData{Name: label, Value: cfg.Series[0].Values[i]})
	}
	pie.AddSeries(cfg.Series[0].Name, data)
	return pie
}
