package config

import (
	"errors"
	"fmt"
	"strings"

	"recallscore/internal/experiment"
	"recallscore/internal/validation"
)

// bonusFields maps calculator parameter names to their config paths.
var bonusFields = map[string]string{
	"threshold":       "scoring.threshold",
	"per_trial_bonus": "bonus.per_trial",
	"target_multiple": "bonus.target_multiple",
	"cap":             "bonus.cap",
}

// Validate checks a normalized config for correctness.
func Validate(cfg *experiment.Config) error {
	collector := validation.NewCollector("config")

	if cfg.Version == 0 {
		collector.Add("version", "is required")
	} else if cfg.Version != 1 {
		collector.Addf("version", "unsupported version %d", cfg.Version)
	}

	if strings.TrimSpace(cfg.OutputDir) == "" {
		collector.Add("output_dir", "is required")
	}
	if cfg.Workers < 1 {
		collector.Addf("workers", "must be >= 1, got %d", cfg.Workers)
	}

	validateBonus(cfg, collector.Add)
	validateTargets(cfg, collector.Add)
	validateLedger(cfg, collector.Add)

	return collector.Result()
}

func validateBonus(cfg *experiment.Config, add validation.Adder) {
	err := cfg.BonusParams().Validate()
	if err == nil {
		return
	}
	var paramsErr *validation.Error
	if !errors.As(err, &paramsErr) {
		add("bonus", err.Error())
		return
	}
	for _, issue := range paramsErr.Issues {
		field, ok := bonusFields[issue.Field]
		if !ok {
			field = "bonus." + issue.Field
		}
		add(field, issue.Message)
	}
}

func validateTargets(cfg *experiment.Config, add validation.Adder) {
	for participant := range cfg.Targets.Participants {
		if strings.TrimSpace(participant) == "" {
			add("targets.participants", "participant id must not be blank")
		}
	}
}

func validateLedger(cfg *experiment.Config, add validation.Adder) {
	ledger := cfg.Ledger
	for i, address := range ledger.Addresses {
		if strings.TrimSpace(address) == "" {
			add(fmt.Sprintf("ledger.addresses[%d]", i), "must not be blank")
		}
	}
	if ledger.Scale < 1 {
		add("ledger.scale", fmt.Sprintf("must be >= 1, got %d", ledger.Scale))
	}
	if ledger.Sessions < 1 {
		add("ledger.sessions", fmt.Sprintf("must be >= 1, got %d", ledger.Sessions))
	}
	if ledger.Ledger == 0 {
		add("ledger.ledger", "must be non-zero")
	}
	if ledger.Code == 0 {
		add("ledger.code", "must be non-zero")
	}
	if ledger.FundingAccount == "" {
		add("ledger.funding_account", "is required")
	}
}
