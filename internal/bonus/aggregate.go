package bonus

import (
	"fmt"

	"recallscore/internal/recall"
	"recallscore/internal/triallog"
)

// CategoryTargets holds, per presentation, the cue target expected at each recall position.
// An empty string means the position was not cued.
type CategoryTargets [][]string

// At returns the target for trial i and recall position j, or "" when none is configured.
func (t CategoryTargets) At(i, j int) string {
	if i < 0 || i >= len(t) || j < 0 || j >= len(t[i]) {
		return ""
	}
	return t[i][j]
}

// Diagnostic kinds reported alongside a breakdown.
const (
	DiagnosticTargetsMisaligned = "targets_misaligned"
	DiagnosticBaseClamped       = "base_clamped"
)

// Diagnostic describes a scoring anomaly that did not stop the computation.
type Diagnostic struct {
	Kind    string `json:"kind"`
	Trial   int    `json:"trial"`
	Message string `json:"message"`
}

// TotalFreeRecallPerformance sums free-recall matches over every presentation in the log.
// The threshold is not checked here; Compute validates it through Params.
func TotalFreeRecallPerformance(log triallog.Log, threshold int) int {
	total := 0
	for _, group := range triallog.Split(log).Groups {
		total += recall.ScoreFreeRecall(group.Flat(), group.Presented, threshold)
	}
	return total
}

// TotalTargetedSuccess counts recall positions whose response lies within threshold of the cue
// target configured for that position. Positions without a target or a response are skipped.
func TotalTargetedSuccess(log triallog.Log, targets CategoryTargets, threshold int) int {
	total, _ := targetedSuccess(triallog.Split(log).Groups, targets, threshold)
	return total
}

func targetedSuccess(groups []triallog.Group, targets CategoryTargets, threshold int) (int, []Diagnostic) {
	var diagnostics []Diagnostic
	if len(targets) > len(groups) {
		diagnostics = append(diagnostics, Diagnostic{
			Kind:    DiagnosticTargetsMisaligned,
			Trial:   len(groups),
			Message: fmt.Sprintf("%d target rows for %d presentations", len(targets), len(groups)),
		})
	}
	total := 0
	for i, group := range groups {
		successes, diagnostic := trialTargetSuccess(i, group.Flat(), targets, threshold)
		total += successes
		if diagnostic != nil {
			diagnostics = append(diagnostics, *diagnostic)
		}
	}
	return total, diagnostics
}

func trialTargetSuccess(trial int, recalls []string, targets CategoryTargets, threshold int) (int, *Diagnostic) {
	if trial >= len(targets) {
		return 0, nil
	}
	successes := 0
	unmatched := 0
	for j, target := range targets[trial] {
		if target == "" {
			continue
		}
		if j >= len(recalls) {
			unmatched++
			continue
		}
		if recall.ScoreTargetedRecall(recalls[j], target, threshold) {
			successes++
		}
	}
	if unmatched == 0 {
		return successes, nil
	}
	return successes, &Diagnostic{
		Kind:    DiagnosticTargetsMisaligned,
		Trial:   trial,
		Message: fmt.Sprintf("%d targets beyond %d recall entries", unmatched, len(recalls)),
	}
}
