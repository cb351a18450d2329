package runner

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"recallscore/internal/experiment"
	"recallscore/internal/triallog"
	"recallscore/internal/vcs"
)

type RunDependencies struct {
	RunID    func() (string, error)
	Now      func() time.Time
	Logger   *zap.Logger
	// Describe reads project provenance; vcs.Describe when nil.
	Describe func(ctx context.Context, dir string) (vcs.Provenance, error)
}

type RunParams struct {
	ExportPath string
	// OutputDir overrides cfg.OutputDir when set.
	OutputDir  string
	// ProjectDir is recorded as provenance when it sits in a git checkout.
	ProjectDir string
	Deps       RunDependencies
}

// Run loads an export and scores every session in it.
func Run(ctx context.Context, cfg experiment.Config, params RunParams) (Results, error) {
	logger := params.Deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	runID, err := ensureRunID(params.Deps.RunID)
	if err != nil {
		return Results{}, err
	}
	now := params.Deps.Now
	if now == nil {
		now = time.Now
	}
	startedAt := now()

	opts := cfg.LoadOptions()
	export, err := triallog.LoadExport(params.ExportPath, opts)
	if err != nil {
		return Results{}, fmt.Errorf("load export %s: %w", params.ExportPath, err)
	}
	for _, skipped := range export.Skipped {
		logger.Warn("export line skipped",
			zap.String("path", params.ExportPath),
			zap.Int("line", skipped.Line),
			zap.String("reason", skipped.Reason),
		)
	}
	logger.Info("scoring sessions",
		zap.String("run_id", runID),
		zap.Int("sessions", len(export.Sessions)),
		zap.Int("workers", cfg.Workers),
	)

	sessions, err := ScoreSessions(ctx, cfg, export.Sessions, logger)
	if err != nil {
		return Results{}, err
	}
	finishedAt := now()
	results := Results{
		RunID: runID,
		Source: SourceMetadata{
			Path:   params.ExportPath,
			Format: exportFormat(params.ExportPath),
			Strict: opts.Strict,
		},
		Params:     cfg.BonusParams(),
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Sessions:   sessions,
		Skipped:    export.Skipped,
		Summary:    summarize(sessions, len(export.Skipped)),
		Provenance: describeProject(ctx, params, logger),
	}
	logger.Info("scoring finished",
		zap.String("run_id", runID),
		zap.Duration("elapsed", finishedAt.Sub(startedAt)),
		zap.Float64("total_bonus", results.Summary.TotalBonus),
	)
	return results, nil
}

// RunAndWrite runs scoring and writes results.json and bonuses.csv under the output directory.
func RunAndWrite(ctx context.Context, cfg experiment.Config, params RunParams) (Results, OutputPaths, error) {
	results, err := Run(ctx, cfg, params)
	if err != nil {
		return Results{}, OutputPaths{}, err
	}
	outputDir := params.OutputDir
	if strings.TrimSpace(outputDir) == "" {
		outputDir = cfg.OutputDir
	}
	paths, err := WriteRunOutputs(results, outputDir)
	if err != nil {
		return results, OutputPaths{}, err
	}
	return results, paths, nil
}

func describeProject(ctx context.Context, params RunParams, logger *zap.Logger) *vcs.Provenance {
	if strings.TrimSpace(params.ProjectDir) == "" {
		return nil
	}
	describe := params.Deps.Describe
	if describe == nil {
		describe = vcs.Describe
	}
	provenance, err := describe(ctx, params.ProjectDir)
	if err != nil {
		logger.Debug("project provenance unavailable", zap.String("dir", params.ProjectDir), zap.Error(err))
		return nil
	}
	return &provenance
}

func ensureRunID(factory func() (string, error)) (string, error) {
	if factory == nil {
		factory = NewRunID
	}
	runID, err := factory()
	if err != nil {
		return "", fmt.Errorf("run id: %w", err)
	}
	return runID, nil
}

func exportFormat(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return "json"
	}
	return "jsonl"
}
