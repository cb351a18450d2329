package config

import (
	"strings"

	"recallscore/internal/bonus"
	"recallscore/internal/experiment"
	"recallscore/internal/recall"
)

// Defaults filled in by Normalize.
const (
	DefaultWorkers        = 4
	DefaultParticipantKey = "PROLIFIC ID"
	DefaultLedgerAddress  = "3000"
	DefaultLedgerID       = 1
	DefaultLedgerCode     = 1
	DefaultFundingAccount = "experiment"
	DefaultScale          = 100
	DefaultLedgerSessions = 1
)

// Normalize fills unset fields with their defaults so later stages see explicit values.
func Normalize(cfg *experiment.Config) {
	cfg.OutputDir = strings.TrimSpace(cfg.OutputDir)
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers
	}
	cfg.ParticipantKey = strings.TrimSpace(cfg.ParticipantKey)
	if cfg.ParticipantKey == "" {
		cfg.ParticipantKey = DefaultParticipantKey
	}
	if cfg.Scoring.Threshold == nil {
		cfg.Scoring.Threshold = ptr(recall.DefaultThreshold)
	}
	if cfg.Bonus.PerTrial == nil {
		cfg.Bonus.PerTrial = ptr(bonus.DefaultPerTrialBonus)
	}
	if cfg.Bonus.TargetMultiple == nil {
		cfg.Bonus.TargetMultiple = ptr(bonus.DefaultTargetMultiple)
	}
	if cfg.Bonus.Cap == nil {
		cfg.Bonus.Cap = ptr(bonus.DefaultCap)
	}

	ledger := &cfg.Ledger
	if len(ledger.Addresses) == 0 {
		ledger.Addresses = []string{DefaultLedgerAddress}
	}
	if ledger.Ledger == 0 {
		ledger.Ledger = DefaultLedgerID
	}
	if ledger.Code == 0 {
		ledger.Code = DefaultLedgerCode
	}
	ledger.FundingAccount = strings.TrimSpace(ledger.FundingAccount)
	if ledger.FundingAccount == "" {
		ledger.FundingAccount = DefaultFundingAccount
	}
	if ledger.Scale == 0 {
		ledger.Scale = DefaultScale
	}
	if ledger.Sessions == 0 {
		ledger.Sessions = DefaultLedgerSessions
	}
}

func ptr[T any](value T) *T {
	return &value
}
