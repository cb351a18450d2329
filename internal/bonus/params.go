package bonus

import (
	"math"

	"recallscore/internal/recall"
	"recallscore/internal/validation"
)

// Defaults used by the category-targeting experiments.
const (
	DefaultPerTrialBonus  = 0.03125
	DefaultTargetMultiple = 5.0
	DefaultCap            = 10.0
)

// Params controls matching tolerance and payment amounts.
type Params struct {
	// Threshold is the largest edit distance still counted as a match.
	Threshold int `json:"threshold" yaml:"threshold"`
	// PerTrialBonus is paid for every recalled list item.
	PerTrialBonus float64 `json:"per_trial_bonus" yaml:"per_trial"`
	// TargetMultiple scales PerTrialBonus for recalls that hit their cue target.
	TargetMultiple float64 `json:"target_multiple" yaml:"target_multiple"`
	// Cap is the most a session can earn.
	Cap float64 `json:"cap" yaml:"cap"`
}

// DefaultParams returns threshold 2, 0.03125 per item, a 5x target multiple and a 10.0 cap.
func DefaultParams() Params {
	return Params{
		Threshold:      recall.DefaultThreshold,
		PerTrialBonus:  DefaultPerTrialBonus,
		TargetMultiple: DefaultTargetMultiple,
		Cap:            DefaultCap,
	}
}

// Validate rejects negative or non-finite parameters.
func (p Params) Validate() error {
	collector := validation.NewCollector("bonus parameters")
	if recall.CheckThreshold(p.Threshold) != nil {
		collector.Addf("threshold", "must be >= 0, got %d", p.Threshold)
	}
	checkAmount(collector, "per_trial_bonus", p.PerTrialBonus)
	checkAmount(collector, "target_multiple", p.TargetMultiple)
	checkAmount(collector, "cap", p.Cap)
	return collector.Result()
}

func checkAmount(collector *validation.Collector, field string, value float64) {
	switch {
	case math.IsNaN(value) || math.IsInf(value, 0):
		collector.Add(field, "must be a finite number")
	case value < 0:
		collector.Addf(field, "must be >= 0, got %g", value)
	}
}
