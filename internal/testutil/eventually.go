package testutil

import (
	"testing"
	"time"
)

// pollInterval is how often WaitFor re-runs its check.
const pollInterval = 20 * time.Millisecond

// WaitFor re-runs check until it returns nil, failing the test with the last
// error once timeout elapses.
func WaitFor(t testing.TB, timeout time.Duration, check func() error) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		err := check()
		if err == nil {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("still failing after %s: %v", timeout, err)
		}
		time.Sleep(pollInterval)
	}
}
