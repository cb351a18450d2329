package ledger

import (
	"context"
	"fmt"

	"recallscore/internal/experiment"

	tb "github.com/tigerbeetle/tigerbeetle-go"
	tbtypes "github.com/tigerbeetle/tigerbeetle-go/pkg/types"
)

// TigerBeetle is a Ledger backed by a pool of TigerBeetle client sessions.
type TigerBeetle struct {
	clients   []tb.Client
	available chan tb.Client
}

// Dial opens cfg.Sessions client sessions to the configured cluster.
func Dial(cfg experiment.LedgerConfig) (*TigerBeetle, error) {
	sessions := cfg.Sessions
	if sessions <= 0 {
		sessions = 1
	}
	clients := make([]tb.Client, 0, sessions)
	available := make(chan tb.Client, sessions)
	cluster := tbtypes.ToUint128(uint64(cfg.ClusterID))
	for i := 0; i < sessions; i++ {
		client, err := tb.NewClient(cluster, cfg.Addresses)
		if err != nil {
			for _, c := range clients {
				c.Close()
			}
			return nil, fmt.Errorf("create TB client: %w", err)
		}
		clients = append(clients, client)
		available <- client
	}
	return &TigerBeetle{clients: clients, available: available}, nil
}

// CreateAccounts implements Ledger.
func (t *TigerBeetle) CreateAccounts(ctx context.Context, accounts []tbtypes.Account) ([]tbtypes.AccountEventResult, error) {
	return withClient(ctx, t, func(client tb.Client) ([]tbtypes.AccountEventResult, error) {
		return client.CreateAccounts(accounts)
	})
}

// CreateTransfers implements Ledger.
func (t *TigerBeetle) CreateTransfers(ctx context.Context, transfers []tbtypes.Transfer) ([]tbtypes.TransferEventResult, error) {
	return withClient(ctx, t, func(client tb.Client) ([]tbtypes.TransferEventResult, error) {
		return client.CreateTransfers(transfers)
	})
}

// LookupAccounts implements Ledger.
func (t *TigerBeetle) LookupAccounts(ctx context.Context, ids []tbtypes.Uint128) ([]tbtypes.Account, error) {
	return withClient(ctx, t, func(client tb.Client) ([]tbtypes.Account, error) {
		return client.LookupAccounts(ids)
	})
}

// Close shuts down every client session.
func (t *TigerBeetle) Close() error {
	for _, client := range t.clients {
		client.Close()
	}
	return nil
}

func (t *TigerBeetle) acquire(ctx context.Context) (tb.Client, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case client := <-t.available:
		return client, nil
	}
}

func (t *TigerBeetle) release(client tb.Client) {
	if client == nil {
		return
	}
	t.available <- client
}

// withClient runs fn on a pooled client and returns early when ctx ends.
// The client goes back to the pool only once fn has returned.
func withClient[T any](ctx context.Context, t *TigerBeetle, fn func(tb.Client) (T, error)) (T, error) {
	var zero T
	client, err := t.acquire(ctx)
	if err != nil {
		return zero, err
	}
	type result struct {
		value T
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		defer t.release(client)
		value, err := fn(client)
		ch <- result{value: value, err: err}
	}()
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		return res.value, res.err
	}
}
