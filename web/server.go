// Package web exposes the pipeline over a JSON API.
package web

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	uuid "github.com/satori/go.uuid"

	"github.com/pivolan/etl_reporter/analyzer"
	"github.com/pivolan/etl_reporter/chart"
	"github.com/pivolan/etl_reporter/config"
	"github.com/pivolan/etl_reporter/domain/models"
	"github.com/pivolan/etl_reporter/etl"
)

// Server wraps one shared pipeline behind an HTTP API. The mutex
// serializes runs; a Pipeline is not concurrency-safe by itself.
type Server struct {
	cfg      *config.Config
	pipeline *etl.Pipeline
	mu       sync.Mutex
}

func NewServer(cfg *config.Config, pipeline *etl.Pipeline) *Server {
	return &Server{cfg: cfg, pipeline: pipeline}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/etl-data", s.handleETLData)
	r.Post("/api/run-etl", s.handleRunETL)
	r.Get("/api/chart/{kind}", s.handleChart)
	r.Get("/api/flow-chart", s.handleFlowChart)
	r.Get("/api/kpis", s.handleKPIs)
	r.Get("/api/data/export", s.handleExport)
	r.Post("/upload", s.handleUpload)

	return r
}

func (s *Server) ListenAndServe() error {
	log.Printf("[web] listening on %s", s.cfg.ListenAddr)
	return http.ListenAndServe(s.cfg.ListenAddr, s.Router())
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[web] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	dataAvailable := s.pipeline.Processed() != nil
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"data_available": dataAvailable,
	})
}

// handleETLData returns chart configs, flow data and the run summary. If
// no run happened yet it auto-loads the first configured sample file.
func (s *Server) handleETLData(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pipeline.Processed() == nil {
		if err := s.autoLoadSample(); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
	}

	chartConfigs := map[string]models.ChartConfig{}
	for _, kind := range chart.DefaultKinds() {
		cfg, err := s.pipeline.BuildChart(kind)
		if err != nil {
			log.Printf("[web] could not generate %s chart: %v", kind, err)
			continue
		}
		chartConfigs[kind] = cfg
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"chart_configs": chartConfigs,
		"flow_data":     s.pipeline.FlowData(),
		"summary":       s.pipeline.Summary(),
		"metadata":      s.pipeline.Metadata(),
	})
}

func (s *Server) autoLoadSample() error {
	for _, sample := range s.cfg.SampleFiles {
		path := filepath.Join(s.cfg.DataDir, sample)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		log.Printf("[web] auto-loading sample data from %s", path)
		if _, err := s.pipeline.RunFull(path, nil, nil); err != nil {
			return err
		}
		return nil
	}
	return fmt.Errorf("no data available and no sample data found, run the pipeline first")
}

type runRequest struct {
	CSVFile         string            `json:"csv_file"`
	Filters         models.FilterSpec `json:"filters"`
	Transformations []string          `json:"transformations"`
}

func (s *Server) handleRunETL(w http.ResponseWriter, r *http.Request) {
	req := runRequest{CSVFile: "sample.csv"}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parse request: %w", err))
		return
	}
	ops, err := etl.ParseTransformations(req.Transformations)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	result, err := s.pipeline.RunFull(req.CSVFile, req.Filters, ops)
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "ETL process completed successfully",
		"results": result,
	})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")

	s.mu.Lock()
	cfg, err := s.pipeline.BuildChart(kind)
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleFlowChart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	flow := s.pipeline.FlowData()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, flow)
}

func (s *Server) handleKPIs(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	t := s.pipeline.Processed()
	s.mu.Unlock()
	if t == nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("no data available"))
		return
	}
	writeJSON(w, http.StatusOK, analyzer.Analyze(t))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = etl.FormatCSV
	}

	s.mu.Lock()
	files, err := s.pipeline.Load(format)
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	path, ok := files[format]
	if !ok {
		path = files[etl.FormatJSON]
	}
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}

// handleUpload saves a multipart CSV into an upload-scoped directory and
// runs the full pipeline over it.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("read upload: %w", err))
		return
	}
	defer file.Close()

	uploadID := uuid.NewV4().String()
	dir := filepath.Join("uploads", uploadID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	path := filepath.Join(dir, filepath.Base(header.Filename))
	dst, err := os.Create(path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	dst.Close()

	s.mu.Lock()
	result, err := s.pipeline.RunFull(path, nil, nil)
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"upload_id": uploadID,
		"results":   result,
	})
}
