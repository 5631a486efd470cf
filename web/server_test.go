package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pivolan/etl_reporter/config"
	"github.com/pivolan/etl_reporter/etl"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dataDir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dataDir, "sample.csv"),
		[]byte("Month,Sales\nJan,1000\nFeb,1200\nMar,900\n"), 0644))

	cfg := &config.Config{
		DataDir:     dataDir,
		OutputDir:   t.TempDir(),
		SampleFiles: []string{"sample.csv"},
	}
	pipeline, err := etl.NewPipeline(cfg.DataDir, cfg.OutputDir)
	require.NoError(t, err)
	return NewServer(cfg, pipeline), dataDir
}

func doRequest(t *testing.T, s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, false, body["data_available"])
}

func TestRunETL(t *testing.T) {
	s, _ := newTestServer(t)
	payload := []byte(`{"csv_file":"sample.csv","filters":{"Sales":{"min":1000}}}`)

	rec := doRequest(t, s, http.MethodPost, "/api/run-etl", payload)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body struct {
		Success bool `json:"success"`
		Results struct {
			Summary struct {
				OriginalRows  int `json:"original_rows"`
				ProcessedRows int `json:"processed_rows"`
			} `json:"summary"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 3, body.Results.Summary.OriginalRows)
	assert.Equal(t, 2, body.Results.Summary.ProcessedRows)
}

func TestRunETLRejectsUnknownTransformation(t *testing.T) {
	s, _ := newTestServer(t)
	payload := []byte(`{"csv_file":"sample.csv","transformations":["square"]}`)

	rec := doRequest(t, s, http.MethodPost, "/api/run-etl", payload)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChartBeforeData(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/chart/bar", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChartAfterRun(t *testing.T) {
	s, _ := newTestServer(t)
	doRequest(t, s, http.MethodPost, "/api/run-etl", []byte(`{"csv_file":"sample.csv"}`))

	rec := doRequest(t, s, http.MethodGet, "/api/chart/bar", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var cfg struct {
		Kind  string `json:"kind"`
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cfg))
	assert.Equal(t, "bar", cfg.Kind)
	assert.Equal(t, "Sales - Bar Chart", cfg.Title)
}

func TestETLDataAutoLoadsSample(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/etl-data", nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "chart_configs")
	assert.Contains(t, body, "flow_data")
	assert.Contains(t, body, "summary")
}

func TestETLDataWithoutSample(t *testing.T) {
	s, _ := newTestServer(t)
	s.cfg.SampleFiles = []string{"missing.csv"}

	rec := doRequest(t, s, http.MethodGet, "/api/etl-data", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestKPIs(t *testing.T) {
	s, _ := newTestServer(t)
	doRequest(t, s, http.MethodPost, "/api/run-etl", []byte(`{"csv_file":"sample.csv"}`))

	rec := doRequest(t, s, http.MethodGet, "/api/kpis", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		DatasetInfo struct {
			TotalRows int `json:"total_rows"`
		} `json:"dataset_info"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.DatasetInfo.TotalRows)
}

func TestExport(t *testing.T) {
	s, _ := newTestServer(t)
	doRequest(t, s, http.MethodPost, "/api/run-etl", []byte(`{"csv_file":"sample.csv"}`))

	rec := doRequest(t, s, http.MethodGet, "/api/data/export?format=csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Body.String(), "Month")
}
