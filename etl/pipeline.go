package etl

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	uuid "github.com/satori/go.uuid"

	"github.com/pivolan/etl_reporter/chart"
	"github.com/pivolan/etl_reporter/domain/models"
)

// State tracks how far the current run has progressed. Loaded is
// informational only; load never blocks a repeated call.
type State int

const (
	StateIdle State = iota
	StateExtracted
	StateTransformed
	StateLoaded
)

var (
	ErrNoDataToTransform = errors.New("no data to transform, run extract first")
	ErrNoDataToLoad      = errors.New("no data to load, run transform first")
)

// Pipeline sequences extract, filter/transform/clean and load over one
// source file, and owns the run's metadata trail. A Pipeline instance is
// not safe for concurrent mutation; callers serialize extract/transform.
type Pipeline struct {
	dataDir   string
	outputDir string

	state     State
	raw       *models.Table
	processed *models.Table
	meta      models.RunMetadata
}

// NewPipeline prepares the output directory layout the reports land in.
func NewPipeline(dataDir, outputDir string) (*Pipeline, error) {
	for _, dir := range []string{outputDir, filepath.Join(outputDir, "charts"), filepath.Join(outputDir, "data")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	return &Pipeline{dataDir: dataDir, outputDir: outputDir}, nil
}

func (p *Pipeline) State() State { return p.state }

// Raw returns the table as extracted, before any filtering.
func (p *Pipeline) Raw() *models.Table { return p.raw }

// Processed returns the filtered/transformed/cleaned table, or nil before
// transform ran.
func (p *Pipeline) Processed() *models.Table { return p.processed }

func (p *Pipeline) Metadata() models.RunMetadata { return p.meta }

// resolveSource accepts absolute paths as-is and resolves relative ones
// against the configured data directory, falling back to the path as
// given (uploads land outside the data dir).
func (p *Pipeline) resolveSource(source string) string {
	if filepath.IsAbs(source) {
		return source
	}
	joined := filepath.Join(p.dataDir, source)
	if _, err := os.Stat(joined); err == nil {
		return joined
	}
	return source
}

// Extract loads and classifies the source table. Calling it again
// restarts the whole cycle: downstream state and metadata are reset.
func (p *Pipeline) Extract(source string) (*models.Table, error) {
	path := p.resolveSource(source)
	log.Printf("[pipeline] extracting data from %s", path)

	table, err := ReadCSVFile(path)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	p.raw = table
	p.processed = nil
	p.state = StateExtracted
	p.meta = models.RunMetadata{
		RunID:  uuid.NewV4().String(),
		Stages: map[string]models.StageMeta{},
	}
	p.meta.Stages["extract"] = models.StageMeta{
		File:        source,
		Rows:        table.Rows(),
		Columns:     table.Cols(),
		ColumnNames: table.ColumnNames(),
		Timestamp:   time.Now(),
	}

	log.Printf("[pipeline] extracted %d rows and %d columns", table.Rows(), table.Cols())
	return table, nil
}

// Transform runs FilterEngine, TransformEngine and Cleaner in that fixed
// order on a copy of the raw table. A failed call leaves the previously
// extracted table untouched.
func (p *Pipeline) Transform(filters models.FilterSpec, ops []models.Transformation) (*models.Table, []models.SkipNote, error) {
	if p.state < StateExtracted {
		return nil, nil, ErrNoDataToTransform
	}
	log.Printf("[pipeline] starting transformation, filters: %s", DescribeSpec(filters))

	filtered, skipped := ApplyFilters(p.raw, filters)
	transformed, opSkips := ApplyTransformations(filtered, ops)
	skipped = append(skipped, opSkips...)
	cleaned := Clean(transformed)

	p.processed = cleaned.Table
	p.state = StateTransformed
	p.meta.Stages["transform"] = models.StageMeta{
		Rows:              p.processed.Rows(),
		Columns:           p.processed.Cols(),
		Filters:           filters,
		Transformations:   ops,
		Skipped:           skipped,
		DuplicatesRemoved: cleaned.DuplicatesRemoved,
		Timestamp:         time.Now(),
	}

	log.Printf("[pipeline] transformation complete, %d rows remaining", p.processed.Rows())
	return p.processed, skipped, nil
}

// Load serializes the processed table in the requested format plus the
// JSON record list and the metadata sidecar.
func (p *Pipeline) Load(format string) (map[string]string, error) {
	if p.state < StateTransformed {
		return nil, ErrNoDataToLoad
	}
	files, err := writeOutputs(p.processed, p.meta, p.outputDir, format)
	if err != nil {
		return nil, err
	}
	p.state = StateLoaded
	log.Printf("[pipeline] data loaded to %d files", len(files))
	return files, nil
}

// FlowData describes the ETL process graph with the status of each stage.
func (p *Pipeline) FlowData() models.FlowData {
	status := func(done bool) string {
		if done {
			return "completed"
		}
		return "pending"
	}
	sourceFile := p.meta.Stages["extract"].File

	return models.FlowData{
		Nodes: []models.FlowNode{
			{ID: "extract", Label: "Extract", Type: "process",
				Description: fmt.Sprintf("Data extracted from %s", sourceFile),
				Status:      status(p.state >= StateExtracted)},
			{ID: "filter", Label: "Filter", Type: "process",
				Description: "Data filtering and cleaning applied",
				Status:      status(p.state >= StateTransformed)},
			{ID: "transform", Label: "Transform", Type: "process",
				Description: "Data transformations and normalization",
				Status:      status(p.state >= StateTransformed)},
			{ID: "visualize", Label: "Visualize", Type: "output",
				Description: "Chart descriptors generated",
				Status:      status(p.state >= StateLoaded)},
			{ID: "load", Label: "Load", Type: "output",
				Description: "Processed data saved to output files",
				Status:      status(p.state >= StateLoaded)},
		},
		Edges: []models.FlowEdge{
			{From: "extract", To: "filter"},
			{From: "filter", To: "transform"},
			{From: "transform", To: "visualize"},
			{From: "transform", To: "load"},
			{From: "visualize", To: "load"},
		},
		Metadata: p.meta,
	}
}

// Summary reports row/column counts before and after processing.
func (p *Pipeline) Summary() models.RunSummary {
	s := models.RunSummary{}
	if p.raw != nil {
		s.OriginalRows = p.raw.Rows()
	}
	if p.processed != nil {
		s.ProcessedRows = p.processed.Rows()
		s.Columns = p.processed.Cols()
	}
	return s
}

// BuildChart derives a chart descriptor from the processed table.
func (p *Pipeline) BuildChart(kind string) (models.ChartConfig, error) {
	if p.state < StateTransformed {
		return models.ChartConfig{}, ErrNoDataToLoad
	}
	return chart.Build(p.processed, kind)
}

// RunFull is the convenience composition extract → transform → load plus
// chart-config generation for the default chart kinds. A chart kind that
// cannot be built is skipped and reported, never fatal.
func (p *Pipeline) RunFull(source string, filters models.FilterSpec, ops []models.Transformation) (*models.RunResult, error) {
	log.Printf("[pipeline] starting full ETL run for %s", source)

	if _, err := p.Extract(source); err != nil {
		return nil, err
	}
	if _, _, err := p.Transform(filters, ops); err != nil {
		return nil, err
	}
	outputFiles, err := p.Load(FormatExcel)
	if err != nil {
		return nil, err
	}

	chartConfigs := map[string]models.ChartConfig{}
	var chartSkips []models.SkipNote
	for _, kind := range chart.DefaultKinds() {
		cfg, err := chart.Build(p.processed, kind)
		if err != nil {
			log.Printf("[pipeline] could not generate %s chart: %v", kind, err)
			chartSkips = append(chartSkips, models.SkipNote{Column: kind, Reason: err.Error()})
			continue
		}
		chartConfigs[kind] = cfg
	}

	result := &models.RunResult{
		OutputFiles:  outputFiles,
		ChartConfigs: chartConfigs,
		ChartSkips:   chartSkips,
		FlowData:     p.FlowData(),
		Summary:      p.Summary(),
	}

	dashboardPath := filepath.Join(p.outputDir, "charts",
		fmt.Sprintf("dashboard_%s.html", time.Now().Format("20060102_150405")))
	if err := chart.WriteDashboard(p.processed, "ETL Report", dashboardPath); err != nil {
		log.Printf("[pipeline] could not render dashboard: %v", err)
	} else {
		result.DashboardPath = dashboardPath
	}

	log.Printf("[pipeline] full ETL run completed")
	return result, nil
}
