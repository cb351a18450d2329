//go:build cucumber

package bonus

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cucumber/godog"

	"recallscore/internal/triallog"
)

// TestBonusScenarios runs the bonus scoring feature scenarios.
func TestBonusScenarios(t *testing.T) {
	featurePath := filepath.Join("..", "..", "features", "bonus.feature")
	suite := godog.TestSuite{
		Name:                "bonus-scoring",
		ScenarioInitializer: InitializeBonusScenario,
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

// InitializeBonusScenario wires steps for bonus scoring scenarios.
func InitializeBonusScenario(ctx *godog.ScenarioContext) {
	state := &bonusScenarioState{}
	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		state.reset()
		return ctx, nil
	})

	ctx.Step(`^a presentation of "([^"]*)"$`, state.givenPresentation)
	ctx.Step(`^a presentation of (\d+) distinct words$`, state.givenDistinctPresentation)
	ctx.Step(`^a recall of "([^"]*)"$`, state.givenRecall)
	ctx.Step(`^a recall of every presented word$`, state.givenFullRecall)
	ctx.Step(`^an empty recall$`, state.givenEmptyRecall)
	ctx.Step(`^the targets for trial (\d+) are "([^"]*)"$`, state.givenTargets)
	ctx.Step(`^the session is scored$`, state.whenScored)
	ctx.Step(`^the free recall matches are (\d+)$`, state.thenFreeMatches)
	ctx.Step(`^the target performance is (\d+)$`, state.thenTargetPerformance)
	ctx.Step(`^the base performance is (\d+)$`, state.thenBasePerformance)
	ctx.Step(`^the total bonus is ([0-9.]+)$`, state.thenTotalBonus)
	ctx.Step(`^the bonus is capped$`, state.thenCapped)
}

type bonusScenarioState struct {
	log       triallog.Log
	presented []string
	targets   CategoryTargets
	breakdown Breakdown
}

// reset clears scenario state.
func (s *bonusScenarioState) reset() {
	s.log = nil
	s.presented = nil
	s.targets = nil
	s.breakdown = Breakdown{}
}

// splitWords keeps surrounding spaces so recalls exercise normalization.
func splitWords(value string) []string {
	return strings.Split(value, ",")
}

func (s *bonusScenarioState) givenPresentation(words string) error {
	s.presented = splitWords(words)
	for i := range s.presented {
		s.presented[i] = strings.TrimSpace(s.presented[i])
	}
	s.log = append(s.log, triallog.Event{TrialType: triallog.TypePresentation, WordList: s.presented})
	return nil
}

func (s *bonusScenarioState) givenDistinctPresentation(count int) error {
	words := make([]string, count)
	for i := range words {
		words[i] = fmt.Sprintf("item%03d", i)
	}
	s.presented = words
	s.log = append(s.log, triallog.Event{TrialType: triallog.TypePresentation, WordList: words})
	return nil
}

func (s *bonusScenarioState) givenRecall(words string) error {
	s.log = append(s.log, triallog.Event{TrialType: triallog.TypeRecall, RecallWords: splitWords(words)})
	return nil
}

func (s *bonusScenarioState) givenFullRecall() error {
	s.log = append(s.log, triallog.Event{TrialType: triallog.TypeRecall, RecallWords: append([]string(nil), s.presented...)})
	return nil
}

func (s *bonusScenarioState) givenEmptyRecall() error {
	s.log = append(s.log, triallog.Event{TrialType: triallog.TypeRecall})
	return nil
}

func (s *bonusScenarioState) givenTargets(trial int, words string) error {
	for len(s.targets) < trial {
		s.targets = append(s.targets, nil)
	}
	row := splitWords(words)
	for i := range row {
		row[i] = strings.TrimSpace(row[i])
	}
	s.targets[trial-1] = row
	return nil
}

func (s *bonusScenarioState) whenScored() error {
	breakdown, err := Compute(s.log, s.targets, DefaultParams())
	if err != nil {
		return err
	}
	s.breakdown = breakdown
	return nil
}

func (s *bonusScenarioState) thenFreeMatches(expected int) error {
	if s.breakdown.FreeRecallMatches != expected {
		return fmt.Errorf("expected %d free recall matches, got %d", expected, s.breakdown.FreeRecallMatches)
	}
	return nil
}

func (s *bonusScenarioState) thenTargetPerformance(expected int) error {
	if s.breakdown.TargetPerformance != expected {
		return fmt.Errorf("expected target performance %d, got %d", expected, s.breakdown.TargetPerformance)
	}
	return nil
}

func (s *bonusScenarioState) thenBasePerformance(expected int) error {
	if s.breakdown.BasePerformance != expected {
		return fmt.Errorf("expected base performance %d, got %d", expected, s.breakdown.BasePerformance)
	}
	return nil
}

func (s *bonusScenarioState) thenTotalBonus(expected float64) error {
	if math.Abs(s.breakdown.TotalBonus-expected) > 1e-9 {
		return fmt.Errorf("expected total bonus %v, got %v", expected, s.breakdown.TotalBonus)
	}
	return nil
}

func (s *bonusScenarioState) thenCapped() error {
	if !s.breakdown.Capped {
		return fmt.Errorf("expected capped bonus, got %+v", s.breakdown)
	}
	return nil
}
