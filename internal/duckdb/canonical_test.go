package duckdb

import "testing"

// TestCanonicalJSONStable verifies canonical JSON output ignores map key order.
func TestCanonicalJSONStable(t *testing.T) {
	left, err := CanonicalJSON(map[string]any{"cap": 10.0, "threshold": 2, "nested": map[string]any{"b": 1, "a": 2}})
	if err != nil {
		t.Fatalf("canonical json a: %v", err)
	}
	right, err := CanonicalJSON([]byte(`{"nested":{"a":2,"b":1},"threshold":2,"cap":10}`))
	if err != nil {
		t.Fatalf("canonical json b: %v", err)
	}
	if string(left) != string(right) {
		t.Fatalf("canonical json mismatch: %s vs %s", left, right)
	}
}

// TestListJSONEmpty verifies empty word lists are stored as an empty array.
func TestListJSONEmpty(t *testing.T) {
	got, err := listJSON(nil)
	if err != nil || got != "[]" {
		t.Fatalf("expected [], got %q (%v)", got, err)
	}
}
