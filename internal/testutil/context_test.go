package testutil

import (
	"testing"
	"time"
)

// TestContextUsesDefaultTimeout verifies a zero timeout falls back to the default.
func TestContextUsesDefaultTimeout(t *testing.T) {
	ctx := Context(t, 0)
	deadline, ok := ctx.Deadline()
	if !ok {
		t.Fatalf("expected a deadline")
	}
	if remaining := time.Until(deadline); remaining > DefaultTimeout {
		t.Fatalf("deadline %s beyond default timeout", remaining)
	}
}

// TestContextAcceptsBenchmarks verifies callers without a test deadline still get a context.
func TestContextAcceptsBenchmarks(t *testing.T) {
	result := testing.Benchmark(func(b *testing.B) {
		ctx := Context(b, time.Second)
		if _, ok := ctx.Deadline(); !ok {
			b.Fatalf("expected a deadline")
		}
	})
	if result.N == 0 {
		t.Fatalf("benchmark did not run")
	}
}
