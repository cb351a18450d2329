package reportserver

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"recallscore/internal/report"
	"recallscore/internal/runner"
)

// NewHandler routes the run index, per-run reports, and run downloads.
func NewHandler(cfg Config) (http.Handler, error) {
	if strings.TrimSpace(cfg.OutputDir) == "" {
		return nil, errors.New("reportserver: output dir is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &server{outputDir: cfg.OutputDir, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.serveIndex)
	mux.HandleFunc("GET /runs/{id}", s.serveReport)
	mux.HandleFunc("GET /runs/{id}/bonuses.csv", s.serveBonuses)
	mux.HandleFunc("GET /runs/{id}/results.json", s.serveResults)
	if cfg.DBPath != "" {
		mux.Handle("GET /data/db.duckdb", serveDatabase(cfg.DBPath))
	}
	return mux, nil
}

type server struct {
	outputDir string
	logger    *zap.Logger
}

func (s *server) serveIndex(w http.ResponseWriter, r *http.Request) {
	runIDs, err := report.ListRuns(s.outputDir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		s.fail(w, "list runs", err)
		return
	}
	entries := make([]runEntry, 0, len(runIDs))
	for i := len(runIDs) - 1; i >= 0; i-- {
		results, err := runner.LoadResults(s.resultsPath(runIDs[i]))
		if err != nil {
			s.logger.Warn("unreadable run", zap.String("run_id", runIDs[i]), zap.Error(err))
			continue
		}
		entries = append(entries, runEntry{results: results})
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexPage(entries).Render(r.Context(), w); err != nil {
		s.logger.Warn("render index", zap.Error(err))
	}
}

func (s *server) serveReport(w http.ResponseWriter, r *http.Request) {
	results, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.ReportPage(results).Render(r.Context(), w); err != nil {
		s.logger.Warn("render report", zap.String("run_id", results.RunID), zap.Error(err))
	}
}

func (s *server) serveBonuses(w http.ResponseWriter, r *http.Request) {
	results, ok := s.loadRun(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+results.RunID+`-bonuses.csv"`)
	if err := runner.WriteBonusCSV(w, runner.BonusRecords(results)); err != nil {
		s.logger.Warn("write bonuses", zap.String("run_id", results.RunID), zap.Error(err))
	}
}

func (s *server) serveResults(w http.ResponseWriter, r *http.Request) {
	id, ok := runID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	http.ServeFile(w, r, s.resultsPath(id))
}

// loadRun writes a 404 and reports false when the run does not exist.
func (s *server) loadRun(w http.ResponseWriter, r *http.Request) (runner.Results, bool) {
	id, ok := runID(r)
	if !ok {
		http.NotFound(w, r)
		return runner.Results{}, false
	}
	results, err := runner.LoadResults(s.resultsPath(id))
	if errors.Is(err, os.ErrNotExist) {
		http.NotFound(w, r)
		return runner.Results{}, false
	}
	if err != nil {
		s.fail(w, "load run", err)
		return runner.Results{}, false
	}
	return results, true
}

func (s *server) resultsPath(id string) string {
	return filepath.Join(s.outputDir, id, runner.ResultsFileName)
}

func (s *server) fail(w http.ResponseWriter, action string, err error) {
	s.logger.Error(action, zap.Error(err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}

// runID rejects ids that would leave the output directory.
func runID(r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return "", false
	}
	return id, true
}

// serveDatabase serves the DuckDB file for download.
func serveDatabase(dbPath string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		http.ServeFile(w, r, dbPath)
	})
}
