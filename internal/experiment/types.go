package experiment

import (
	"slices"

	"recallscore/internal/bonus"
	"recallscore/internal/triallog"
)

// Config describes how an experiment's exports are scored and paid.
type Config struct {
	Version        int           `yaml:"version"`
	OutputDir      string        `yaml:"output_dir"`
	Workers        int           `yaml:"workers"`
	ParticipantKey string        `yaml:"participant_key"`
	StrictSchema   bool          `yaml:"strict_schema"`
	Scoring        ScoringConfig `yaml:"scoring"`
	Bonus          BonusConfig   `yaml:"bonus"`
	Targets        TargetsConfig `yaml:"targets"`
	Ledger         LedgerConfig  `yaml:"ledger"`
}

// ScoringConfig holds the matching tolerance. A nil threshold means the default.
type ScoringConfig struct {
	Threshold *int `yaml:"threshold"`
}

// BonusConfig holds payment amounts. Nil fields take the defaults.
type BonusConfig struct {
	PerTrial       *float64 `yaml:"per_trial"`
	TargetMultiple *float64 `yaml:"target_multiple"`
	Cap            *float64 `yaml:"cap"`
}

// TargetsConfig holds the category cue targets, optionally overridden per participant.
type TargetsConfig struct {
	Default      [][]string            `yaml:"default"`
	Participants map[string][][]string `yaml:"participants"`
}

// LedgerConfig locates the TigerBeetle cluster bonuses are posted to.
type LedgerConfig struct {
	ClusterID      uint32   `yaml:"cluster_id"`
	Addresses      []string `yaml:"addresses"`
	Ledger         uint32   `yaml:"ledger"`
	Code           uint16   `yaml:"code"`
	FundingAccount string   `yaml:"funding_account"`
	Scale          int64    `yaml:"scale"`
	Sessions       int      `yaml:"sessions"`
}

// BonusParams converts the scoring and bonus sections into calculator parameters.
func (c Config) BonusParams() bonus.Params {
	params := bonus.DefaultParams()
	if c.Scoring.Threshold != nil {
		params.Threshold = *c.Scoring.Threshold
	}
	if c.Bonus.PerTrial != nil {
		params.PerTrialBonus = *c.Bonus.PerTrial
	}
	if c.Bonus.TargetMultiple != nil {
		params.TargetMultiple = *c.Bonus.TargetMultiple
	}
	if c.Bonus.Cap != nil {
		params.Cap = *c.Bonus.Cap
	}
	return params
}

// TargetsFor returns the participant's targets, falling back to the default set.
func (c Config) TargetsFor(participantID string) bonus.CategoryTargets {
	if targets, ok := c.Targets.Participants[participantID]; ok {
		return bonus.CategoryTargets(targets)
	}
	return bonus.CategoryTargets(c.Targets.Default)
}

// ParticipantKeys lists the record fields searched for a participant id, configured key first.
func (c Config) ParticipantKeys() []string {
	keys := make([]string, 0, len(triallog.DefaultParticipantKeys)+1)
	if c.ParticipantKey != "" {
		keys = append(keys, c.ParticipantKey)
	}
	for _, key := range triallog.DefaultParticipantKeys {
		if !slices.Contains(keys, key) {
			keys = append(keys, key)
		}
	}
	return keys
}

// LoadOptions returns the export loading options implied by the config.
func (c Config) LoadOptions() triallog.LoadOptions {
	return triallog.LoadOptions{
		ParticipantKeys: c.ParticipantKeys(),
		Strict:          c.StrictSchema,
	}
}
