package duckdb_test

import (
	"path/filepath"
	"testing"
	"time"

	"recallscore/internal/analysis"
	"recallscore/internal/bonus"
	"recallscore/internal/duckdb"
	duckdbtesting "recallscore/internal/duckdb/testing"
	"recallscore/internal/runner"
	"recallscore/internal/testutil"
)

const unitTimeout = 2 * time.Second

func sampleResults(runID string) runner.Results {
	reason := "bonus parameters invalid"
	return runner.Results{
		RunID:      runID,
		Source:     runner.SourceMetadata{Path: "export.jsonl", Format: "jsonl"},
		Params:     bonus.DefaultParams(),
		StartedAt:  time.Date(2025, 6, 17, 12, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2025, 6, 17, 12, 0, 1, 0, time.UTC),
		Sessions: []runner.SessionResult{
			{
				ParticipantID: "P-1",
				Line:          1,
				Status:        runner.StatusScored,
				Trials: []bonus.TrialScore{{
					Presented:       []string{"apple", "banana"},
					Recalled:        []string{"apple"},
					Targets:         []string{"apple"},
					FreeMatches:     1,
					TargetSuccesses: 1,
				}},
				Breakdown: bonus.Breakdown{
					FreeRecallMatches: 1,
					TargetPerformance: 1,
					TargetBonus:       0.15625,
					TotalBonus:        0.15625,
				},
				Events: []analysis.Row{
					{Subject: "P-1", List: 1, Phase: analysis.PhaseStudy, Position: 1, Item: "apple"},
					{Subject: "P-1", List: 1, Phase: analysis.PhaseStudy, Position: 2, Item: "banana"},
					{Subject: "P-1", List: 1, Phase: analysis.PhaseRecall, Position: 1, Item: "apple", SerialPosition: 1, Target: "apple", TargetSuccess: true},
				},
			},
			{ParticipantID: "P-2", Index: 1, Status: runner.StatusFailed, FailureReason: &reason},
		},
		Summary: runner.RunSummary{SessionsTotal: 2, SessionsScored: 1, SessionsFailed: 1, TotalBonus: 0.15625},
	}
}

// TestIngestResults verifies a run is written across all tables and views.
func TestIngestResults(t *testing.T) {
	ctx := testutil.Context(t, unitTimeout)
	db := duckdbtesting.Open(t, ":memory:")

	summary, err := duckdb.IngestResults(ctx, db, sampleResults("run-1"))
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if summary.Skipped || summary.Sessions != 2 || summary.Trials != 1 || summary.Events != 3 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if got := duckdbtesting.QueryInt(t, db, "SELECT COUNT(*) FROM sessions WHERE run_id = ?", "run-1"); got != 2 {
		t.Fatalf("expected 2 sessions, got %d", got)
	}
	if got := duckdbtesting.QueryInt(t, db, "SELECT COUNT(*) FROM v_participant_bonus"); got != 1 {
		t.Fatalf("expected 1 participant with a bonus, got %d", got)
	}
	if got := duckdbtesting.QueryInt(t, db, "SELECT recalls FROM v_serial_position WHERE serial_position = 1"); got != 1 {
		t.Fatalf("expected 1 recall at position 1, got %d", got)
	}
	if got := duckdbtesting.QueryInt(t, db, "SELECT COUNT(*) FROM sessions WHERE failure_reason IS NOT NULL"); got != 1 {
		t.Fatalf("expected 1 failed session, got %d", got)
	}
}

// TestIngestResultsIdempotent verifies re-ingesting a run id writes nothing.
func TestIngestResultsIdempotent(t *testing.T) {
	ctx := testutil.Context(t, unitTimeout)
	db := duckdbtesting.Open(t, ":memory:")

	if _, err := duckdb.IngestResults(ctx, db, sampleResults("run-1")); err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	summary, err := duckdb.IngestResults(ctx, db, sampleResults("run-1"))
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if !summary.Skipped {
		t.Fatalf("expected second ingest to be skipped")
	}
	if got := duckdbtesting.QueryInt(t, db, "SELECT COUNT(*) FROM events"); got != 3 {
		t.Fatalf("expected 3 events, got %d", got)
	}

	if _, err := duckdb.IngestResults(ctx, db, sampleResults("run-2")); err != nil {
		t.Fatalf("third ingest: %v", err)
	}
	if got := duckdbtesting.QueryInt(t, db, "SELECT COUNT(DISTINCT params_key) FROM runs"); got != 1 {
		t.Fatalf("expected runs to share a params key, got %d", got)
	}
}

// TestOpenFileDatabase verifies a file database keeps data across connections.
func TestOpenFileDatabase(t *testing.T) {
	ctx := testutil.Context(t, unitTimeout)
	path := filepath.Join(t.TempDir(), "results.duckdb")

	db, err := duckdb.Open(ctx, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := duckdb.IngestResults(ctx, db, sampleResults("run-1")); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened := duckdbtesting.Open(t, path)
	if got := duckdbtesting.QueryInt(t, reopened, "SELECT COUNT(*) FROM runs"); got != 1 {
		t.Fatalf("expected 1 run after reopen, got %d", got)
	}
}
