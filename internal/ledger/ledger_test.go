package ledger

import (
	"context"
	"testing"

	"recallscore/internal/bonus"
	"recallscore/internal/experiment"
	"recallscore/internal/runner"
	"recallscore/internal/testutil"

	"github.com/google/go-cmp/cmp"
	tbtypes "github.com/tigerbeetle/tigerbeetle-go/pkg/types"
)

func testLedgerConfig() experiment.LedgerConfig {
	return experiment.LedgerConfig{
		Addresses:      []string{"3000"},
		Ledger:         1,
		Code:           1,
		FundingAccount: "study-a",
		Scale:          100,
		Sessions:       1,
	}
}

func scoredSession(id string, total float64) runner.SessionResult {
	return runner.SessionResult{
		ParticipantID: id,
		Status:        runner.StatusScored,
		Breakdown:     bonus.Breakdown{TotalBonus: total},
	}
}

func testResults() runner.Results {
	reason := "no presentation"
	return runner.Results{
		RunID: "run-1",
		Sessions: []runner.SessionResult{
			scoredSession("P-1", 0.21875),
			scoredSession("P-2", 0),
			scoredSession("P-1", 3),
			{ParticipantID: "P-3", Status: runner.StatusFailed, FailureReason: &reason},
			scoredSession("P-4", 10),
		},
	}
}

// TestID128Deterministic verifies labels map to stable non-zero ids.
func TestID128Deterministic(t *testing.T) {
	first := ID128("acct:funding:study-a")
	second := ID128("acct:funding:study-a")
	if first != second {
		t.Fatalf("expected stable id")
	}
	var zero tbtypes.Uint128
	if first == zero {
		t.Fatalf("expected non-zero id")
	}
	if ParticipantAccountID("study-a", "P-1") == ParticipantAccountID("study-b", "P-1") {
		t.Fatalf("expected funding account to scope participant accounts")
	}
	if BonusTransferID("study-a", "P-1") == ParticipantAccountID("study-a", "P-1") {
		t.Fatalf("expected transfer and account ids to differ")
	}
}

// TestScopedIDsSeparateFundingFromParticipant verifies a separator inside either name
// cannot make two different pairs collide.
func TestScopedIDsSeparateFundingFromParticipant(t *testing.T) {
	if ParticipantAccountID("a:b", "c") == ParticipantAccountID("a", "b:c") {
		t.Fatalf("expected distinct participant accounts")
	}
	if BonusTransferID("a:b", "c") == BonusTransferID("a", "b:c") {
		t.Fatalf("expected distinct transfer ids")
	}
}

// TestMinorUnits verifies rounding to whole minor units.
func TestMinorUnits(t *testing.T) {
	cases := []struct {
		bonus    float64
		expected uint64
	}{
		{0.21875, 22},
		{0.0625, 6},
		{10, 1000},
		{0.004, 0},
	}
	for _, tc := range cases {
		got, err := MinorUnits(tc.bonus, 100)
		if err != nil {
			t.Fatalf("minor units %v: %v", tc.bonus, err)
		}
		if got != tc.expected {
			t.Fatalf("minor units %v: expected %d, got %d", tc.bonus, tc.expected, got)
		}
	}
	if _, err := MinorUnits(-1, 100); err == nil {
		t.Fatalf("expected negative bonus to fail")
	}
}

// TestPlanPayouts verifies zero, failed, and repeated sessions are left out.
func TestPlanPayouts(t *testing.T) {
	plan, err := PlanPayouts(testLedgerConfig(), testResults())
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	var ids []string
	for _, payout := range plan.Payouts {
		ids = append(ids, payout.ParticipantID)
	}
	if diff := cmp.Diff([]string{"P-1", "P-4"}, ids); diff != "" {
		t.Fatalf("unexpected payouts (-want +got):\n%s", diff)
	}
	if plan.Total != 1022 {
		t.Fatalf("expected total 1022, got %d", plan.Total)
	}
	if diff := cmp.Diff([]string{"P-2"}, plan.Zero); diff != "" {
		t.Fatalf("unexpected zero list (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"P-1"}, plan.Duplicates); diff != "" {
		t.Fatalf("unexpected duplicates (-want +got):\n%s", diff)
	}
}

// TestPlanPayoutsRejectsScale verifies a non-positive scale is an error.
func TestPlanPayoutsRejectsScale(t *testing.T) {
	cfg := testLedgerConfig()
	cfg.Scale = 0
	if _, err := PlanPayouts(cfg, testResults()); err == nil {
		t.Fatalf("expected scale error")
	}
}

// TestPostPayoutsIdempotent verifies posting twice pays each participant once.
func TestPostPayoutsIdempotent(t *testing.T) {
	ctx := testutil.Context(t, 0)
	cfg := testLedgerConfig()
	memory := NewMemory()
	plan, err := PlanPayouts(cfg, testResults())
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	summary, err := PostPayouts(ctx, memory, cfg, plan)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if summary.Posted != 2 || summary.Amount != 1022 || len(summary.Conflicts) != 0 {
		t.Fatalf("unexpected first summary: %+v", summary)
	}

	summary, err = PostPayouts(ctx, memory, cfg, plan)
	if err != nil {
		t.Fatalf("repost: %v", err)
	}
	if summary.Posted != 0 || summary.AlreadyPaid != 2 || summary.Amount != 0 {
		t.Fatalf("unexpected second summary: %+v", summary)
	}
	if len(memory.Transfers()) != 2 {
		t.Fatalf("expected 2 transfers, got %d", len(memory.Transfers()))
	}

	balances, err := Balances(ctx, memory, cfg, []string{"P-1", "P-4", "P-9"})
	if err != nil {
		t.Fatalf("balances: %v", err)
	}
	expected := map[string]uint64{"P-1": 22, "P-4": 1000}
	if diff := cmp.Diff(expected, balances); diff != "" {
		t.Fatalf("unexpected balances (-want +got):\n%s", diff)
	}
}

// TestPostPayoutsConflict verifies a changed amount is reported instead of paid.
func TestPostPayoutsConflict(t *testing.T) {
	ctx := testutil.Context(t, 0)
	cfg := testLedgerConfig()
	memory := NewMemory()
	plan, err := PlanPayouts(cfg, testResults())
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if _, err := PostPayouts(ctx, memory, cfg, plan); err != nil {
		t.Fatalf("post: %v", err)
	}

	rescored := testResults()
	rescored.RunID = "run-2"
	rescored.Sessions[0].Breakdown.TotalBonus = 1
	replan, err := PlanPayouts(cfg, rescored)
	if err != nil {
		t.Fatalf("replan: %v", err)
	}
	summary, err := PostPayouts(ctx, memory, cfg, replan)
	if err != nil {
		t.Fatalf("repost: %v", err)
	}
	if summary.AlreadyPaid != 1 || len(summary.Conflicts) != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	conflict := summary.Conflicts[0]
	if conflict.ParticipantID != "P-1" || conflict.Result != tbtypes.TransferExistsWithDifferentAmount.String() {
		t.Fatalf("unexpected conflict: %+v", conflict)
	}
}

// TestPostPayoutsCanceled verifies a canceled context stops posting.
func TestPostPayoutsCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(testutil.Context(t, 0))
	cancel()
	cfg := testLedgerConfig()
	plan, err := PlanPayouts(cfg, testResults())
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if _, err := PostPayouts(ctx, NewMemory(), cfg, plan); err == nil {
		t.Fatalf("expected canceled context error")
	}
}

// TestMemoryRejectsUnknownAccounts verifies transfers need both accounts.
func TestMemoryRejectsUnknownAccounts(t *testing.T) {
	ctx := testutil.Context(t, 0)
	memory := NewMemory()
	results, err := memory.CreateTransfers(ctx, []tbtypes.Transfer{{
		ID:              ID128("xfer"),
		DebitAccountID:  ID128("a"),
		CreditAccountID: ID128("b"),
		Amount:          tbtypes.ToUint128(1),
		Ledger:          1,
		Code:            1,
	}})
	if err != nil {
		t.Fatalf("create transfers: %v", err)
	}
	if len(results) != 1 || results[0].Result != tbtypes.TransferDebitAccountNotFound {
		t.Fatalf("unexpected results: %+v", results)
	}
}

// TestMemoryRejectsOverdraft verifies accounts flagged with DebitsMustNotExceedCredits
// cannot be debited past their credits.
func TestMemoryRejectsOverdraft(t *testing.T) {
	ctx := testutil.Context(t, 0)
	memory := NewMemory()
	flags := tbtypes.AccountFlags{DebitsMustNotExceedCredits: true}.ToUint16()
	accountResults, err := memory.CreateAccounts(ctx, []tbtypes.Account{
		{ID: ID128("limited"), Ledger: 1, Code: 1, Flags: flags},
		{ID: ID128("open"), Ledger: 1, Code: 1},
	})
	if err != nil {
		t.Fatalf("create accounts: %v", err)
	}
	if len(accountResults) != 0 {
		t.Fatalf("unexpected account results: %+v", accountResults)
	}

	transfer := func(id string, debit, credit string) tbtypes.Transfer {
		return tbtypes.Transfer{
			ID:              ID128(id),
			DebitAccountID:  ID128(debit),
			CreditAccountID: ID128(credit),
			Amount:          tbtypes.ToUint128(5),
			Ledger:          1,
			Code:            1,
		}
	}
	results, err := memory.CreateTransfers(ctx, []tbtypes.Transfer{
		transfer("overdraft", "limited", "open"),
		transfer("fund", "open", "limited"),
		transfer("spend", "limited", "open"),
	})
	if err != nil {
		t.Fatalf("create transfers: %v", err)
	}
	if len(results) != 1 || results[0].Index != 0 || results[0].Result != tbtypes.TransferExceedsCredits {
		t.Fatalf("unexpected results: %+v", results)
	}
}

// TestChunks verifies batch splitting.
func TestChunks(t *testing.T) {
	got := chunks([]int{1, 2, 3, 4, 5}, 2)
	if diff := cmp.Diff([][]int{{1, 2}, {3, 4}, {5}}, got); diff != "" {
		t.Fatalf("unexpected chunks (-want +got):\n%s", diff)
	}
}
