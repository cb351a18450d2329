package ledger

import (
	"context"
	"sync"

	tbtypes "github.com/tigerbeetle/tigerbeetle-go/pkg/types"
)

// Memory is an in-process ledger with the same result codes as TigerBeetle
// for the accounts and transfers payouts create. Linked and pending events
// are not supported.
type Memory struct {
	mu        sync.Mutex
	accounts  map[tbtypes.Uint128]tbtypes.Account
	transfers map[tbtypes.Uint128]tbtypes.Transfer
	order     []tbtypes.Uint128
}

// NewMemory returns an empty in-memory ledger.
func NewMemory() *Memory {
	return &Memory{
		accounts:  map[tbtypes.Uint128]tbtypes.Account{},
		transfers: map[tbtypes.Uint128]tbtypes.Transfer{},
	}
}

// CreateAccounts stores new accounts and reports the ones that were refused.
func (m *Memory) CreateAccounts(ctx context.Context, accounts []tbtypes.Account) ([]tbtypes.AccountEventResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var results []tbtypes.AccountEventResult
	for i, account := range accounts {
		result, ok := m.createAccountLocked(account)
		if ok {
			continue
		}
		results = append(results, tbtypes.AccountEventResult{Index: uint32(i), Result: result})
	}
	return results, nil
}

func (m *Memory) createAccountLocked(account tbtypes.Account) (tbtypes.CreateAccountResult, bool) {
	var zero tbtypes.Uint128
	switch {
	case account.ID == zero:
		return tbtypes.AccountIDMustNotBeZero, false
	case account.Ledger == 0:
		return tbtypes.AccountLedgerMustNotBeZero, false
	case account.Code == 0:
		return tbtypes.AccountCodeMustNotBeZero, false
	}
	existing, ok := m.accounts[account.ID]
	if !ok {
		account.DebitsPosted = zero
		account.CreditsPosted = zero
		m.accounts[account.ID] = account
		return 0, true
	}
	switch {
	case existing.Flags != account.Flags:
		return tbtypes.AccountExistsWithDifferentFlags, false
	case existing.Ledger != account.Ledger:
		return tbtypes.AccountExistsWithDifferentLedger, false
	case existing.Code != account.Code:
		return tbtypes.AccountExistsWithDifferentCode, false
	}
	return tbtypes.AccountExists, false
}

// CreateTransfers applies transfers in order and reports the ones that were refused.
func (m *Memory) CreateTransfers(ctx context.Context, transfers []tbtypes.Transfer) ([]tbtypes.TransferEventResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var results []tbtypes.TransferEventResult
	for i, transfer := range transfers {
		result, ok := m.createTransferLocked(transfer)
		if ok {
			continue
		}
		results = append(results, tbtypes.TransferEventResult{Index: uint32(i), Result: result})
	}
	return results, nil
}

func (m *Memory) createTransferLocked(transfer tbtypes.Transfer) (tbtypes.CreateTransferResult, bool) {
	var zero tbtypes.Uint128
	if transfer.ID == zero {
		return tbtypes.TransferIDMustNotBeZero, false
	}
	if existing, ok := m.transfers[transfer.ID]; ok {
		switch {
		case existing.DebitAccountID != transfer.DebitAccountID:
			return tbtypes.TransferExistsWithDifferentDebitAccountID, false
		case existing.CreditAccountID != transfer.CreditAccountID:
			return tbtypes.TransferExistsWithDifferentCreditAccountID, false
		case existing.Amount != transfer.Amount:
			return tbtypes.TransferExistsWithDifferentAmount, false
		}
		return tbtypes.TransferExists, false
	}
	if transfer.DebitAccountID == transfer.CreditAccountID {
		return tbtypes.TransferAccountsMustBeDifferent, false
	}
	debit, ok := m.accounts[transfer.DebitAccountID]
	if !ok {
		return tbtypes.TransferDebitAccountNotFound, false
	}
	credit, ok := m.accounts[transfer.CreditAccountID]
	if !ok {
		return tbtypes.TransferCreditAccountNotFound, false
	}
	if debit.Ledger != credit.Ledger {
		return tbtypes.TransferAccountsMustHaveTheSameLedger, false
	}

	amount := Uint128ToUint64(transfer.Amount)
	debits := Uint128ToUint64(debit.DebitsPosted) + amount
	mustNotExceed := tbtypes.AccountFlags{DebitsMustNotExceedCredits: true}.ToUint16()
	if debit.Flags&mustNotExceed != 0 && debits > Uint128ToUint64(debit.CreditsPosted) {
		return tbtypes.TransferExceedsCredits, false
	}
	debit.DebitsPosted = tbtypes.ToUint128(debits)
	credit.CreditsPosted = tbtypes.ToUint128(Uint128ToUint64(credit.CreditsPosted) + amount)
	m.accounts[debit.ID] = debit
	m.accounts[credit.ID] = credit
	m.transfers[transfer.ID] = transfer
	m.order = append(m.order, transfer.ID)
	return 0, true
}

// LookupAccounts returns the accounts that exist, in request order.
func (m *Memory) LookupAccounts(ctx context.Context, ids []tbtypes.Uint128) ([]tbtypes.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	accounts := make([]tbtypes.Account, 0, len(ids))
	for _, id := range ids {
		if account, ok := m.accounts[id]; ok {
			accounts = append(accounts, account)
		}
	}
	return accounts, nil
}

// Transfers returns every applied transfer in creation order.
func (m *Memory) Transfers() []tbtypes.Transfer {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]tbtypes.Transfer, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.transfers[id])
	}
	return out
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}
