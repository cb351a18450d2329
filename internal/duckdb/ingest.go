package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"recallscore/internal/runner"
)

// IngestSummary counts the rows written for one run.
type IngestSummary struct {
	RunID    string
	Skipped  bool
	Sessions int
	Trials   int
	Events   int
}

// IngestResults writes a scoring run in one transaction. A run id that is already present is
// skipped, so ingesting the same results twice is harmless.
func IngestResults(ctx context.Context, db *sql.DB, results runner.Results) (IngestSummary, error) {
	if db == nil {
		return IngestSummary{}, errors.New("duckdb: db is nil")
	}
	if results.RunID == "" {
		return IngestSummary{}, errors.New("duckdb: run id is empty")
	}
	summary := IngestSummary{RunID: results.RunID}

	exists, err := rowExists(ctx, db, "runs", "run_id", results.RunID)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("lookup run: %w", err)
	}
	if exists {
		summary.Skipped = true
		return summary, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("begin ingest: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := insertRun(ctx, tx, results); err != nil {
		return IngestSummary{}, err
	}
	for _, session := range results.Sessions {
		sessionID := uuid.NewString()
		if err := insertSession(ctx, tx, results.RunID, sessionID, session); err != nil {
			return IngestSummary{}, err
		}
		trials, err := insertTrials(ctx, tx, sessionID, session)
		if err != nil {
			return IngestSummary{}, err
		}
		events, err := insertEvents(ctx, tx, sessionID, session)
		if err != nil {
			return IngestSummary{}, err
		}
		summary.Sessions++
		summary.Trials += trials
		summary.Events += events
	}
	if err := tx.Commit(); err != nil {
		return IngestSummary{}, fmt.Errorf("commit ingest: %w", err)
	}
	return summary, nil
}

func insertRun(ctx context.Context, tx *sql.Tx, results runner.Results) error {
	paramsJSON, err := CanonicalJSON(results.Params)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, source_path, source_format, params_json, params_key, started_at, finished_at, sessions_total, lines_skipped, total_bonus)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		results.RunID,
		results.Source.Path,
		results.Source.Format,
		string(paramsJSON),
		fingerprintBytes(paramsJSON),
		results.StartedAt,
		results.FinishedAt,
		results.Summary.SessionsTotal,
		results.Summary.LinesSkipped,
		results.Summary.TotalBonus,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

func insertSession(ctx context.Context, tx *sql.Tx, runID, sessionID string, session runner.SessionResult) error {
	breakdown := session.Breakdown
	diagnostics, err := jsonText(breakdown.Diagnostics)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (session_id, run_id, participant_id, session_index, line, status, failure_reason,
		   free_recall_matches, target_performance, base_performance, base_bonus, target_bonus, total_bonus, capped, diagnostics_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID,
		runID,
		session.ParticipantID,
		session.Index,
		nullableInt(session.Line),
		session.Status,
		nullableString(session.FailureReason),
		breakdown.FreeRecallMatches,
		breakdown.TargetPerformance,
		breakdown.BasePerformance,
		breakdown.BaseBonus,
		breakdown.TargetBonus,
		breakdown.TotalBonus,
		breakdown.Capped,
		diagnostics,
	); err != nil {
		return fmt.Errorf("insert session %s: %w", session.ParticipantID, err)
	}
	return nil
}

func insertTrials(ctx context.Context, tx *sql.Tx, sessionID string, session runner.SessionResult) (int, error) {
	if len(session.Trials) == 0 {
		return 0, nil
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO trials (session_id, trial_index, presented_json, recalled_json, targets_json, free_matches, target_successes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare trials: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, trial := range session.Trials {
		presented, err := listJSON(trial.Presented)
		if err != nil {
			return 0, err
		}
		recalled, err := listJSON(trial.Recalled)
		if err != nil {
			return 0, err
		}
		targets, err := jsonText(trial.Targets)
		if err != nil {
			return 0, err
		}
		if _, err := stmt.ExecContext(ctx, sessionID, trial.Trial, presented, recalled, targets, trial.FreeMatches, trial.TargetSuccesses); err != nil {
			return 0, fmt.Errorf("insert trial %d of %s: %w", trial.Trial, session.ParticipantID, err)
		}
	}
	return len(session.Trials), nil
}

func insertEvents(ctx context.Context, tx *sql.Tx, sessionID string, session runner.SessionResult) (int, error) {
	if len(session.Events) == 0 {
		return 0, nil
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO events (session_id, list_index, phase, item_position, item, serial_position, category_cue, target, target_success)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare events: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, row := range session.Events {
		if _, err := stmt.ExecContext(ctx,
			sessionID,
			row.List,
			row.Phase,
			row.Position,
			row.Item,
			row.SerialPosition,
			nullableString(&row.CategoryCue),
			nullableString(&row.Target),
			row.TargetSuccess,
		); err != nil {
			return 0, fmt.Errorf("insert event for %s: %w", session.ParticipantID, err)
		}
	}
	return len(session.Events), nil
}
