package runner

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"recallscore/internal/analysis"
	"recallscore/internal/bonus"
	"recallscore/internal/experiment"
	"recallscore/internal/triallog"
)

// ScoreSessions scores sessions with at most cfg.Workers in flight. Results keep input order.
func ScoreSessions(ctx context.Context, cfg experiment.Config, sessions []triallog.Session, logger *zap.Logger) ([]SessionResult, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	params := cfg.BonusParams()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	results := make([]SessionResult, len(sessions))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(max(cfg.Workers, 1))
	for i, session := range sessions {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			targets := cfg.TargetsFor(session.ParticipantID)
			results[i] = scoreSession(session, targets, params, logger)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func scoreSession(session triallog.Session, targets bonus.CategoryTargets, params bonus.Params, logger *zap.Logger) SessionResult {
	result := SessionResult{
		ParticipantID: session.ParticipantID,
		Index:         session.Index,
		Line:          session.Line,
	}
	score, err := bonus.ScoreSession(session.Log, targets, params)
	if err != nil {
		reason := err.Error()
		result.Status = StatusFailed
		result.FailureReason = &reason
		logger.Error("session scoring failed",
			zap.String("participant", session.ParticipantID),
			zap.Error(err),
		)
		return result
	}

	result.Status = StatusScored
	result.Trials = score.Trials
	result.Breakdown = score.Breakdown
	result.SerialPositions = analysis.SessionPositions(session.Log, params.Threshold, false)
	result.Events = analysis.LongTable(session, targets, params.Threshold)

	for _, diagnostic := range score.Breakdown.Diagnostics {
		logger.Warn("scoring diagnostic",
			zap.String("participant", session.ParticipantID),
			zap.String("kind", diagnostic.Kind),
			zap.Int("trial", diagnostic.Trial),
			zap.String("message", diagnostic.Message),
		)
	}
	logger.Debug("session scored",
		zap.String("participant", session.ParticipantID),
		zap.Int("trials", len(score.Trials)),
		zap.Float64("bonus", score.Breakdown.TotalBonus),
		zap.Bool("capped", score.Breakdown.Capped),
	)
	return result
}
