package recall

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestScoreFreeRecallOneToOne verifies each presented item satisfies at most one token.
func TestScoreFreeRecallOneToOne(t *testing.T) {
	presented := []string{"apple", "apple"}
	recalled := []string{"apple", "apple", "apple"}
	if got := ScoreFreeRecall(recalled, presented, 0); got != 2 {
		t.Fatalf("expected 2 matches, got %d", got)
	}
}

// TestScoreFreeRecallNormalizesAndTolerates verifies case, whitespace and typos are tolerated.
func TestScoreFreeRecallNormalizesAndTolerates(t *testing.T) {
	presented := []string{"Apple", "banana ", "cherry"}
	recalled := []string{" APPLE\n", "bananna", "grape", ""}
	if got := ScoreFreeRecall(recalled, presented, DefaultThreshold); got != 2 {
		t.Fatalf("expected 2 matches, got %d", got)
	}
}

// TestScoreFreeRecallMonotonicOverlap verifies adding a matching item adds exactly one match.
func TestScoreFreeRecallMonotonicOverlap(t *testing.T) {
	recalled := []string{"lemon", "melon", "peach"}
	presented := []string{"lemon"}
	before := ScoreFreeRecall(recalled, presented, 0)
	after := ScoreFreeRecall(recalled, append(presented, "peach"), 0)
	if after != before+1 {
		t.Fatalf("expected %d matches after adding peach, got %d", before+1, after)
	}
}

// TestScoreFreeRecallDoesNotMutateInput verifies the presented list is left untouched.
func TestScoreFreeRecallDoesNotMutateInput(t *testing.T) {
	presented := []string{"Apple", "Pear"}
	ScoreFreeRecall([]string{"apple", "pear"}, presented, 2)
	if diff := cmp.Diff([]string{"Apple", "Pear"}, presented); diff != "" {
		t.Fatalf("presented list changed (-want +got):\n%s", diff)
	}
}

// TestScoreTargetedRecall verifies cue matching and its empty-input rules.
func TestScoreTargetedRecall(t *testing.T) {
	cases := []struct {
		recalled, target string
		want             bool
	}{
		{"Tiger", "tiger", true},
		{"tigr", "tiger", true},
		{"lion", "tiger", false},
		{"", "tiger", false},
		{"tiger", "", false},
		{"  \n", "tiger", false},
	}
	for _, tc := range cases {
		if got := ScoreTargetedRecall(tc.recalled, tc.target, DefaultThreshold); got != tc.want {
			t.Fatalf("ScoreTargetedRecall(%q, %q) = %v, want %v", tc.recalled, tc.target, got, tc.want)
		}
	}
}

// TestMatchPositions verifies serial positions and intrusion markers.
func TestMatchPositions(t *testing.T) {
	presented := []string{"apple", "banana", "cherry"}
	recalled := []string{"cherri", "kiwi", "apple", "apple", ""}
	want := []int{3, -1, 1, 1, -1}
	if diff := cmp.Diff(want, MatchPositions(recalled, presented, DefaultThreshold)); diff != "" {
		t.Fatalf("positions mismatch (-want +got):\n%s", diff)
	}
}

// TestCheckThreshold verifies negative thresholds are rejected and the scorers match nothing with them.
func TestCheckThreshold(t *testing.T) {
	if err := CheckThreshold(0); err != nil {
		t.Fatalf("expected zero threshold to pass, got %v", err)
	}
	if err := CheckThreshold(-1); !errors.Is(err, ErrNegativeThreshold) {
		t.Fatalf("expected ErrNegativeThreshold, got %v", err)
	}
	if got := ScoreFreeRecall([]string{"apple"}, []string{"apple"}, -1); got != 0 {
		t.Fatalf("expected no matches, got %d", got)
	}
	if ScoreTargetedRecall("apple", "apple", -1) {
		t.Fatalf("expected no targeted match")
	}
}
