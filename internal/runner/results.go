package runner

import (
	"time"

	"recallscore/internal/analysis"
	"recallscore/internal/bonus"
	"recallscore/internal/triallog"
	"recallscore/internal/vcs"
)

// Session statuses recorded in results.
const (
	StatusScored = "scored"
	StatusFailed = "failed"
)

type Results struct {
	RunID      string                 `json:"run_id"`
	Source     SourceMetadata         `json:"source"`
	Params     bonus.Params           `json:"params"`
	StartedAt  time.Time              `json:"started_at"`
	FinishedAt time.Time              `json:"finished_at"`
	Sessions   []SessionResult        `json:"sessions"`
	Skipped    []triallog.SkippedLine `json:"skipped,omitempty"`
	Summary    RunSummary             `json:"summary"`
	Provenance *vcs.Provenance        `json:"provenance,omitempty"`
}

type SourceMetadata struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Strict bool   `json:"strict"`
}

type SessionResult struct {
	ParticipantID   string             `json:"participant_id"`
	Index           int                `json:"index"`
	Line            int                `json:"line,omitempty"`
	Status          string             `json:"status"`
	FailureReason   *string            `json:"failure_reason"`
	Trials          []bonus.TrialScore `json:"trials"`
	Breakdown       bonus.Breakdown    `json:"breakdown"`
	SerialPositions [][]int            `json:"serial_positions,omitempty"`
	Events          []analysis.Row     `json:"events,omitempty"`
}

type RunSummary struct {
	SessionsTotal     int     `json:"sessions_total"`
	SessionsScored    int     `json:"sessions_scored"`
	SessionsFailed    int     `json:"sessions_failed"`
	SessionsCapped    int     `json:"sessions_capped"`
	LinesSkipped      int     `json:"lines_skipped"`
	FreeRecallMatches int     `json:"free_recall_matches"`
	TargetPerformance int     `json:"target_performance"`
	Diagnostics       int     `json:"diagnostics"`
	TotalBonus        float64 `json:"total_bonus"`
	MeanBonus         float64 `json:"mean_bonus"`
}
