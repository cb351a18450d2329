package ledger

import (
	"context"
	"fmt"
	"math"

	"recallscore/internal/experiment"
	"recallscore/internal/runner"

	tbtypes "github.com/tigerbeetle/tigerbeetle-go/pkg/types"
)

// Payout is one planned bonus transfer.
type Payout struct {
	ParticipantID string          `json:"participant_id"`
	Bonus         float64         `json:"bonus"`
	Amount        uint64          `json:"amount"`
	AccountID     tbtypes.Uint128 `json:"-"`
	TransferID    tbtypes.Uint128 `json:"-"`
}

// Plan lists the payouts of a run along with participants it left out.
type Plan struct {
	RunID      string   `json:"run_id"`
	Payouts    []Payout `json:"payouts"`
	Total      uint64   `json:"total"`
	Zero       []string `json:"zero,omitempty"`
	Duplicates []string `json:"duplicates,omitempty"`
}

// Conflict is a payout the ledger refused.
type Conflict struct {
	ParticipantID string `json:"participant_id"`
	Result        string `json:"result"`
}

// PostSummary reports what a posting attempt did.
type PostSummary struct {
	Posted      int        `json:"posted"`
	AlreadyPaid int        `json:"already_paid"`
	Amount      uint64     `json:"amount"`
	Conflicts   []Conflict `json:"conflicts,omitempty"`
}

// PlanPayouts converts the scored sessions of a run to minor-unit payouts.
//
// Bonuses that round to zero are not paid. A participant scored more than once
// is paid for their first session only.
func PlanPayouts(cfg experiment.LedgerConfig, results runner.Results) (Plan, error) {
	if cfg.Scale < 1 {
		return Plan{}, fmt.Errorf("ledger scale must be >= 1, got %d", cfg.Scale)
	}
	plan := Plan{RunID: results.RunID}
	seen := map[string]bool{}
	for _, record := range runner.BonusRecords(results) {
		if seen[record.ParticipantID] {
			plan.Duplicates = append(plan.Duplicates, record.ParticipantID)
			continue
		}
		seen[record.ParticipantID] = true
		amount, err := MinorUnits(record.Bonus, cfg.Scale)
		if err != nil {
			return Plan{}, fmt.Errorf("participant %q: %w", record.ParticipantID, err)
		}
		if amount == 0 {
			plan.Zero = append(plan.Zero, record.ParticipantID)
			continue
		}
		plan.Payouts = append(plan.Payouts, Payout{
			ParticipantID: record.ParticipantID,
			Bonus:         record.Bonus,
			Amount:        amount,
			AccountID:     ParticipantAccountID(cfg.FundingAccount, record.ParticipantID),
			TransferID:    BonusTransferID(cfg.FundingAccount, record.ParticipantID),
		})
		plan.Total += amount
	}
	return plan, nil
}

// MinorUnits rounds a bonus to the nearest whole minor unit.
func MinorUnits(bonus float64, scale int64) (uint64, error) {
	if math.IsNaN(bonus) || math.IsInf(bonus, 0) || bonus < 0 {
		return 0, fmt.Errorf("bonus %v is not a payable amount", bonus)
	}
	return uint64(math.Round(bonus * float64(scale))), nil
}

// PostPayouts creates the accounts and transfers for a plan.
//
// Transfer ids are fixed per participant and funding account, so a payout the
// ledger already holds counts as already paid instead of paying twice.
func PostPayouts(ctx context.Context, l Ledger, cfg experiment.LedgerConfig, plan Plan) (PostSummary, error) {
	if err := ensureAccounts(ctx, l, cfg, plan.Payouts); err != nil {
		return PostSummary{}, err
	}
	funding := FundingAccountID(cfg.FundingAccount)
	runTag := ID128("run:" + plan.RunID)
	var summary PostSummary
	for _, batch := range chunks(plan.Payouts, MaxBatchEvents) {
		transfers := make([]tbtypes.Transfer, len(batch))
		for i, payout := range batch {
			transfers[i] = tbtypes.Transfer{
				ID:              payout.TransferID,
				DebitAccountID:  funding,
				CreditAccountID: payout.AccountID,
				Amount:          tbtypes.ToUint128(payout.Amount),
				UserData128:     runTag,
				Ledger:          cfg.Ledger,
				Code:            cfg.Code,
			}
		}
		results, err := l.CreateTransfers(ctx, transfers)
		if err != nil {
			return summary, fmt.Errorf("create transfers: %w", err)
		}
		failed := map[int]tbtypes.CreateTransferResult{}
		for _, result := range results {
			failed[int(result.Index)] = result.Result
		}
		for i, payout := range batch {
			result, ok := failed[i]
			switch {
			case !ok:
				summary.Posted++
				summary.Amount += payout.Amount
			case result == tbtypes.TransferExists:
				summary.AlreadyPaid++
			default:
				summary.Conflicts = append(summary.Conflicts, Conflict{
					ParticipantID: payout.ParticipantID,
					Result:        result.String(),
				})
			}
		}
	}
	return summary, nil
}

// ensureAccounts creates the funding account and one account per payout as needed.
func ensureAccounts(ctx context.Context, l Ledger, cfg experiment.LedgerConfig, payouts []Payout) error {
	accounts := []tbtypes.Account{{
		ID:     FundingAccountID(cfg.FundingAccount),
		Ledger: cfg.Ledger,
		Code:   cfg.Code,
	}}
	for _, payout := range payouts {
		accounts = append(accounts, tbtypes.Account{
			ID:     payout.AccountID,
			Ledger: cfg.Ledger,
			Code:   cfg.Code,
			Flags:  tbtypes.AccountFlags{DebitsMustNotExceedCredits: true}.ToUint16(),
		})
	}
	for _, batch := range chunks(accounts, MaxBatchEvents) {
		results, err := l.CreateAccounts(ctx, batch)
		if err != nil {
			return fmt.Errorf("create accounts: %w", err)
		}
		for _, result := range results {
			if result.Result == tbtypes.AccountExists {
				continue
			}
			return fmt.Errorf("create account error: %s", result.Result)
		}
	}
	return nil
}

// Balances returns the posted bonus balance of each participant with an account.
func Balances(ctx context.Context, l Ledger, cfg experiment.LedgerConfig, participantIDs []string) (map[string]uint64, error) {
	byID := make(map[tbtypes.Uint128]string, len(participantIDs))
	ids := make([]tbtypes.Uint128, 0, len(participantIDs))
	for _, participantID := range participantIDs {
		id := ParticipantAccountID(cfg.FundingAccount, participantID)
		if _, ok := byID[id]; ok {
			continue
		}
		byID[id] = participantID
		ids = append(ids, id)
	}
	balances := make(map[string]uint64, len(ids))
	for _, batch := range chunks(ids, MaxBatchEvents) {
		accounts, err := l.LookupAccounts(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("lookup accounts: %w", err)
		}
		for _, account := range accounts {
			balances[byID[account.ID]] = accountBalance(account)
		}
	}
	return balances, nil
}
