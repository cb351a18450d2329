package reportserver

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recallscore/internal/bonus"
	"recallscore/internal/runner"
)

func writeRun(t *testing.T, outputDir, runID string) {
	t.Helper()
	results := runner.Results{
		RunID:  runID,
		Source: runner.SourceMetadata{Path: "export.jsonl", Format: "jsonl"},
		Params: bonus.DefaultParams(),
		Sessions: []runner.SessionResult{{
			ParticipantID: "P-1",
			Status:        runner.StatusScored,
			Breakdown:     bonus.Breakdown{FreeRecallMatches: 2, BaseBonus: 0.0625, TotalBonus: 0.0625},
		}},
		Summary: runner.RunSummary{SessionsTotal: 1, SessionsScored: 1, TotalBonus: 0.0625, MeanBonus: 0.0625},
	}
	if _, err := runner.WriteRunOutputs(results, outputDir); err != nil {
		t.Fatalf("write run: %v", err)
	}
}

func newTestHandler(t *testing.T, cfg Config) http.Handler {
	t.Helper()
	handler, err := NewHandler(cfg)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return handler
}

func get(handler http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "http://example.com"+path, nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

// TestIndexListsRunsNewestFirst verifies the index links every run.
func TestIndexListsRunsNewestFirst(t *testing.T) {
	outputDir := t.TempDir()
	writeRun(t, outputDir, "20250101T000000Z-aaa")
	writeRun(t, outputDir, "20250601T000000Z-bbb")
	handler := newTestHandler(t, Config{OutputDir: outputDir})

	resp := get(handler, "/")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	newer := strings.Index(body, "/runs/20250601T000000Z-bbb")
	older := strings.Index(body, "/runs/20250101T000000Z-aaa")
	if newer < 0 || older < 0 || newer > older {
		t.Fatalf("expected newest run first:\n%s", body)
	}
}

// TestIndexWithoutRuns verifies a missing output directory renders an empty index.
func TestIndexWithoutRuns(t *testing.T) {
	handler := newTestHandler(t, Config{OutputDir: filepath.Join(t.TempDir(), "missing")})
	resp := get(handler, "/")
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), "No runs yet") {
		t.Fatalf("unexpected response %d: %s", resp.Code, resp.Body.String())
	}
}

// TestRunRoutes verifies the report, bonuses, and results of one run are served.
func TestRunRoutes(t *testing.T) {
	outputDir := t.TempDir()
	writeRun(t, outputDir, "run-1")
	handler := newTestHandler(t, Config{OutputDir: outputDir})

	resp := get(handler, "/runs/run-1")
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), "Recall scoring run-1") {
		t.Fatalf("unexpected report response %d", resp.Code)
	}

	resp = get(handler, "/runs/run-1/bonuses.csv")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if resp.Body.String() != "prolific_id,bonus\nP-1,0.0625\n" {
		t.Fatalf("unexpected csv: %q", resp.Body.String())
	}

	resp = get(handler, "/runs/run-1/results.json")
	if resp.Code != http.StatusOK || !strings.Contains(resp.Body.String(), `"run_id": "run-1"`) {
		t.Fatalf("unexpected results response %d: %s", resp.Code, resp.Body.String())
	}
}

// TestMissingRun verifies unknown runs are 404s.
func TestMissingRun(t *testing.T) {
	handler := newTestHandler(t, Config{OutputDir: t.TempDir()})
	for _, path := range []string{"/runs/nope", "/runs/nope/bonuses.csv", "/runs/nope/results.json", "/unknown"} {
		if resp := get(handler, path); resp.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, resp.Code)
		}
	}
}

// TestDatabaseRoute verifies the DuckDB file is served only when configured.
func TestDatabaseRoute(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "scores.duckdb")
	if err := os.WriteFile(dbPath, []byte("duckdb"), 0o644); err != nil {
		t.Fatalf("write db: %v", err)
	}
	handler := newTestHandler(t, Config{OutputDir: t.TempDir(), DBPath: dbPath})
	resp := get(handler, "/data/db.duckdb")
	if resp.Code != http.StatusOK || resp.Body.String() != "duckdb" {
		t.Fatalf("unexpected db response %d: %q", resp.Code, resp.Body.String())
	}

	handler = newTestHandler(t, Config{OutputDir: t.TempDir()})
	if resp := get(handler, "/data/db.duckdb"); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without db, got %d", resp.Code)
	}
}

// TestNewHandlerRequiresOutputDir verifies the output directory is required.
func TestNewHandlerRequiresOutputDir(t *testing.T) {
	if _, err := NewHandler(Config{}); err == nil {
		t.Fatalf("expected error")
	}
}
