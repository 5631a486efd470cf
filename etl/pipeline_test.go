package etl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/etl_reporter/domain/models"
)

func newTestPipeline(t *testing.T) (*Pipeline, string) {
	t.Helper()
	dataDir := t.TempDir()
	outputDir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dataDir, "sample.csv"),
		[]byte("Month,Sales\nJan,1000\nFeb,1200\nMar,900\n"), 0644))

	p, err := NewPipeline(dataDir, outputDir)
	require.NoError(t, err)
	return p, outputDir
}

func TestPipelineExtract(t *testing.T) {
	p, _ := newTestPipeline(t)

	table, err := p.Extract("sample.csv")

	require.NoError(t, err)
	assert.Equal(t, StateExtracted, p.State())
	assert.Equal(t, 3, table.Rows())
	assert.Equal(t, models.KindNumeric, table.Column("Sales").Kind)
	assert.NotEmpty(t, p.Metadata().RunID)
	assert.Equal(t, 3, p.Metadata().Stages["extract"].Rows)
}

func TestPipelineOrderingErrors(t *testing.T) {
	p, _ := newTestPipeline(t)

	_, _, err := p.Transform(nil, nil)
	assert.ErrorIs(t, err, ErrNoDataToTransform)

	_, err = p.Load(FormatCSV)
	assert.ErrorIs(t, err, ErrNoDataToLoad)
}

func TestPipelineTransform(t *testing.T) {
	p, _ := newTestPipeline(t)
	_, err := p.Extract("sample.csv")
	require.NoError(t, err)

	got, skipped, err := p.Transform(
		models.FilterSpec{"Sales": {Min: floatPtr(1000)}},
		[]models.Transformation{models.Normalize})

	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.Equal(t, StateTransformed, p.State())
	assert.Equal(t, 2, got.Rows())
	assert.Equal(t, models.Number(0), got.Column("Sales").Cells[0])
	assert.Equal(t, models.Number(1), got.Column("Sales").Cells[1])
	// raw data survives for re-transformation
	assert.Equal(t, 3, p.Raw().Rows())
}

func TestPipelineTransformTwice(t *testing.T) {
	p, _ := newTestPipeline(t)
	_, err := p.Extract("sample.csv")
	require.NoError(t, err)

	_, _, err = p.Transform(models.FilterSpec{"Sales": {Min: floatPtr(1000)}}, nil)
	require.NoError(t, err)

	// second transform starts from the raw table again
	got, _, err := p.Transform(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Rows())
}

func TestPipelineLoad(t *testing.T) {
	p, _ := newTestPipeline(t)
	_, err := p.Extract("sample.csv")
	require.NoError(t, err)
	_, _, err = p.Transform(nil, nil)
	require.NoError(t, err)

	files, err := p.Load(FormatCSV)

	require.NoError(t, err)
	assert.Equal(t, StateLoaded, p.State())
	for kind, path := range files {
		_, statErr := os.Stat(path)
		assert.NoError(t, statErr, "output %s missing", kind)
	}
	assert.Contains(t, files, FormatCSV)
	assert.Contains(t, files, FormatJSON)
	assert.Contains(t, files, "metadata")
}

func TestPipelineLoadUnknownFormat(t *testing.T) {
	p, _ := newTestPipeline(t)
	_, err := p.Extract("sample.csv")
	require.NoError(t, err)
	_, _, err = p.Transform(nil, nil)
	require.NoError(t, err)

	_, err = p.Load("parquet")
	assert.Error(t, err)
}

func TestPipelineExtractResetsState(t *testing.T) {
	p, _ := newTestPipeline(t)
	_, err := p.Extract("sample.csv")
	require.NoError(t, err)
	_, _, err = p.Transform(nil, nil)
	require.NoError(t, err)
	firstRun := p.Metadata().RunID

	_, err = p.Extract("sample.csv")
	require.NoError(t, err)

	assert.Equal(t, StateExtracted, p.State())
	assert.Nil(t, p.Processed())
	assert.NotEqual(t, firstRun, p.Metadata().RunID)
}

func TestPipelineRunFull(t *testing.T) {
	p, outputDir := newTestPipeline(t)

	result, err := p.RunFull("sample.csv", nil, nil)

	require.NoError(t, err)
	assert.Equal(t, 3, result.Summary.OriginalRows)
	assert.Equal(t, 3, result.Summary.ProcessedRows)
	assert.Equal(t, 2, result.Summary.Columns)

	// one numeric column: bar and pie build, line and area cannot
	assert.Contains(t, result.ChartConfigs, "bar")
	assert.Contains(t, result.ChartConfigs, "pie")
	assert.NotContains(t, result.ChartConfigs, "line")
	assert.NotEmpty(t, result.ChartSkips)

	for _, node := range result.FlowData.Nodes {
		assert.Equal(t, "completed", node.Status)
	}

	entries, err := os.ReadDir(outputDir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestPipelineFailedExtractKeepsNothing(t *testing.T) {
	p, _ := newTestPipeline(t)

	_, err := p.Extract("missing.csv")

	assert.Error(t, err)
	assert.Equal(t, StateIdle, p.State())
}
