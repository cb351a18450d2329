// Package ledger posts participant bonuses as double-entry transfers.
package ledger

import (
	"context"

	tbtypes "github.com/tigerbeetle/tigerbeetle-go/pkg/types"
)

// MaxBatchEvents bounds the accounts or transfers sent in one request.
const MaxBatchEvents = 8000

// Ledger is the subset of the TigerBeetle client used for payouts.
//
// Create calls report only the events that did not succeed, indexed into the request.
type Ledger interface {
	CreateAccounts(ctx context.Context, accounts []tbtypes.Account) ([]tbtypes.AccountEventResult, error)
	CreateTransfers(ctx context.Context, transfers []tbtypes.Transfer) ([]tbtypes.TransferEventResult, error)
	LookupAccounts(ctx context.Context, ids []tbtypes.Uint128) ([]tbtypes.Account, error)
	Close() error
}

// accountBalance returns credits minus debits for an account that only receives.
func accountBalance(account tbtypes.Account) uint64 {
	credits := Uint128ToUint64(account.CreditsPosted)
	debits := Uint128ToUint64(account.DebitsPosted)
	if debits >= credits {
		return 0
	}
	return credits - debits
}

func chunks[T any](items []T, size int) [][]T {
	var out [][]T
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}
