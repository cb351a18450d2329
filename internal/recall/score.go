package recall

import (
	"errors"
	"fmt"
	"slices"
)

// DefaultThreshold is the edit distance tolerated between a response and its target.
const DefaultThreshold = 2

// ErrNegativeThreshold reports a matching threshold below zero.
var ErrNegativeThreshold = errors.New("threshold must not be negative")

// CheckThreshold rejects thresholds that could never match anything. The scoring functions
// below do not check it themselves; callers validate once before scoring.
func CheckThreshold(threshold int) error {
	if threshold < 0 {
		return fmt.Errorf("%w: %d", ErrNegativeThreshold, threshold)
	}
	return nil
}

// ScoreFreeRecall counts recalled tokens that can each be assigned to a distinct presented item
// within threshold. Tokens are assigned greedily in recall order to their closest remaining item.
// Category cues play no part here. A negative threshold matches nothing.
func ScoreFreeRecall(recalled, presented []string, threshold int) int {
	remaining := NormalizeAll(presented)
	matches := 0
	for _, token := range recalled {
		index, ok := Closest(Normalize(token), remaining, threshold)
		if !ok {
			continue
		}
		matches++
		remaining = slices.Delete(remaining, index, index+1)
	}
	return matches
}

// ScoreTargetedRecall reports whether a recalled word is within threshold of its cue target.
// An empty response or an empty target never succeeds.
func ScoreTargetedRecall(recalled, target string, threshold int) bool {
	word := Normalize(recalled)
	goal := Normalize(target)
	if word == "" || goal == "" {
		return false
	}
	return Distance(goal, word) <= threshold
}

// MatchPositions maps each recalled token to the 1-based serial position of its closest
// presented item within threshold, or -1 for an intrusion. Unlike ScoreFreeRecall the same
// position may be reported more than once.
func MatchPositions(recalled, presented []string, threshold int) []int {
	pool := NormalizeAll(presented)
	positions := make([]int, 0, len(recalled))
	for _, token := range recalled {
		index, ok := Closest(Normalize(token), pool, threshold)
		if !ok {
			positions = append(positions, -1)
			continue
		}
		positions = append(positions, index+1)
	}
	return positions
}
