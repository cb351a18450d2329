package bonus

import (
	"fmt"
	"math"

	"recallscore/internal/recall"
	"recallscore/internal/triallog"
)

// Breakdown is the bonus owed for one session and how it was reached.
type Breakdown struct {
	BasePerformance   int          `json:"base_performance"`
	TargetPerformance int          `json:"target_performance"`
	FreeRecallMatches int          `json:"free_recall_matches"`
	BaseBonus         float64      `json:"base_bonus"`
	TargetBonus       float64      `json:"target_bonus"`
	TotalBonus        float64      `json:"total_bonus"`
	Capped            bool         `json:"capped"`
	Diagnostics       []Diagnostic `json:"diagnostics,omitempty"`
}

// TrialScore records the scores of a single presentation.
type TrialScore struct {
	Trial           int      `json:"trial"`
	Presented       []string `json:"presented"`
	Recalled        []string `json:"recalled"`
	Targets         []string `json:"targets,omitempty"`
	FreeMatches     int      `json:"free_matches"`
	TargetSuccesses int      `json:"target_successes"`
}

// SessionScore combines the per-trial scores with the session breakdown.
type SessionScore struct {
	Trials    []TrialScore `json:"trials"`
	Breakdown Breakdown    `json:"breakdown"`
}

// Compute returns the bonus breakdown for a session log.
func Compute(log triallog.Log, targets CategoryTargets, params Params) (Breakdown, error) {
	score, err := ScoreSession(log, targets, params)
	if err != nil {
		return Breakdown{}, err
	}
	return score.Breakdown, nil
}

// ScoreSession scores every presentation of a log and derives the capped bonus.
//
// Recalls that hit their cue target are paid at the target rate and removed from the base count
// so they are not paid twice. When a target hit was not also a list match the base count would go
// negative; it is clamped at zero and reported as a diagnostic.
func ScoreSession(log triallog.Log, targets CategoryTargets, params Params) (SessionScore, error) {
	if err := params.Validate(); err != nil {
		return SessionScore{}, err
	}
	groups := triallog.Split(log).Groups

	trials := make([]TrialScore, 0, len(groups))
	freeMatches := 0
	for i, group := range groups {
		recalled := group.Flat()
		matches := recall.ScoreFreeRecall(recalled, group.Presented, params.Threshold)
		successes, _ := trialTargetSuccess(i, recalled, targets, params.Threshold)
		freeMatches += matches
		trials = append(trials, TrialScore{
			Trial:           i,
			Presented:       group.Presented,
			Recalled:        recalled,
			Targets:         targetRow(targets, i),
			FreeMatches:     matches,
			TargetSuccesses: successes,
		})
	}

	targetPerformance, diagnostics := targetedSuccess(groups, targets, params.Threshold)
	breakdown := Breakdown{
		TargetPerformance: targetPerformance,
		FreeRecallMatches: freeMatches,
		Diagnostics:       diagnostics,
	}
	breakdown.BasePerformance = freeMatches - targetPerformance
	if breakdown.BasePerformance < 0 {
		breakdown.Diagnostics = append(breakdown.Diagnostics, Diagnostic{
			Kind:    DiagnosticBaseClamped,
			Trial:   -1,
			Message: fmt.Sprintf("%d target hits exceed %d list matches", targetPerformance, freeMatches),
		})
		breakdown.BasePerformance = 0
	}

	breakdown.BaseBonus = float64(breakdown.BasePerformance) * params.PerTrialBonus
	breakdown.TargetBonus = float64(breakdown.TargetPerformance) * params.PerTrialBonus * params.TargetMultiple
	raw := breakdown.BaseBonus + breakdown.TargetBonus
	breakdown.TotalBonus = math.Max(0, math.Min(raw, params.Cap))
	breakdown.Capped = raw > params.Cap
	return SessionScore{Trials: trials, Breakdown: breakdown}, nil
}

func targetRow(targets CategoryTargets, trial int) []string {
	if trial >= len(targets) {
		return nil
	}
	return targets[trial]
}
