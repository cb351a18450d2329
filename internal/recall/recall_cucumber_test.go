//go:build cucumber

package recall

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/google/go-cmp/cmp"
)

// TestRecallScenarios runs the recall matching feature scenarios.
func TestRecallScenarios(t *testing.T) {
	featurePath := filepath.Join("..", "..", "features", "recall.feature")
	suite := godog.TestSuite{
		Name:                "recall-matching",
		ScenarioInitializer: InitializeRecallScenario,
		Options: &godog.Options{
			Format:    "pretty",
			Paths:     []string{featurePath},
			Strict:    true,
			TestingT:  t,
			Randomize: 0,
		},
	}
	if suite.Run() != 0 {
		t.Fatalf("non-zero godog status")
	}
}

// InitializeRecallScenario wires steps for recall matching scenarios.
func InitializeRecallScenario(ctx *godog.ScenarioContext) {
	state := &recallScenarioState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		*state = recallScenarioState{}
		return ctx, nil
	})

	ctx.Step(`^the presented words "([^"]*)"$`, state.givenPresented)
	ctx.Step(`^the recalled words "([^"]*)"$`, state.givenRecalled)
	ctx.Step(`^free recall is scored with threshold (\d+)$`, state.whenFreeRecallScored)
	ctx.Step(`^serial positions are matched with threshold (\d+)$`, state.whenPositionsMatched)
	ctx.Step(`^the closest word to "([^"]*)" is found with threshold (\d+)$`, state.whenClosestFound)
	ctx.Step(`^"([^"]*)" is checked against target "([^"]*)" with threshold (\d+)$`, state.whenTargetChecked)
	ctx.Step(`^the match count is (\d+)$`, state.thenMatchCount)
	ctx.Step(`^the positions are "([^"]*)"$`, state.thenPositions)
	ctx.Step(`^the closest word is "([^"]*)"$`, state.thenClosest)
	ctx.Step(`^no closest word is found$`, state.thenNoClosest)
	ctx.Step(`^the targeted recall result is (true|false)$`, state.thenTargeted)
}

type recallScenarioState struct {
	presented []string
	recalled  []string
	matches   int
	positions []int
	closest   string
	found     bool
	hit       bool
}

func (s *recallScenarioState) givenPresented(words string) error {
	s.presented = strings.Split(words, ",")
	return nil
}

// givenRecalled keeps surrounding spaces so matching exercises normalization.
func (s *recallScenarioState) givenRecalled(words string) error {
	s.recalled = strings.Split(words, ",")
	return nil
}

func (s *recallScenarioState) whenFreeRecallScored(threshold int) error {
	s.matches = ScoreFreeRecall(s.recalled, s.presented, threshold)
	return nil
}

func (s *recallScenarioState) whenPositionsMatched(threshold int) error {
	s.positions = MatchPositions(s.recalled, s.presented, threshold)
	return nil
}

func (s *recallScenarioState) whenClosestFound(query string, threshold int) error {
	s.closest, s.found = ClosestString(Normalize(query), NormalizeAll(s.presented), threshold)
	return nil
}

func (s *recallScenarioState) whenTargetChecked(response, target string, threshold int) error {
	s.hit = ScoreTargetedRecall(response, target, threshold)
	return nil
}

func (s *recallScenarioState) thenMatchCount(expected int) error {
	if s.matches != expected {
		return fmt.Errorf("expected %d matches, got %d", expected, s.matches)
	}
	return nil
}

func (s *recallScenarioState) thenPositions(expected string) error {
	var want []int
	for _, field := range strings.Split(expected, ",") {
		value, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return err
		}
		want = append(want, value)
	}
	if diff := cmp.Diff(want, s.positions); diff != "" {
		return fmt.Errorf("positions mismatch (-want +got):\n%s", diff)
	}
	return nil
}

func (s *recallScenarioState) thenClosest(expected string) error {
	if !s.found || s.closest != expected {
		return fmt.Errorf("expected closest %q, got %q (found=%v)", expected, s.closest, s.found)
	}
	return nil
}

func (s *recallScenarioState) thenNoClosest() error {
	if s.found {
		return fmt.Errorf("expected no closest word, got %q", s.closest)
	}
	return nil
}

func (s *recallScenarioState) thenTargeted(expected string) error {
	want := expected == "true"
	if s.hit != want {
		return fmt.Errorf("expected targeted recall %v, got %v", want, s.hit)
	}
	return nil
}
