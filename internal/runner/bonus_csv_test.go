package runner

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestWriteBonusCSVQuotes verifies ids containing commas are quoted.
func TestWriteBonusCSVQuotes(t *testing.T) {
	var buf bytes.Buffer
	records := []BonusRecord{{ParticipantID: "a,b", Bonus: 10}, {ParticipantID: "c", Bonus: 0.21875}}
	if err := WriteBonusCSV(&buf, records); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	expected := "prolific_id,bonus\n\"a,b\",10\nc,0.21875\n"
	if buf.String() != expected {
		t.Fatalf("unexpected csv:\n%s", buf.String())
	}
}

// TestExtractRecordedBonuses verifies ids and bonuses are taken from the first usable records.
func TestExtractRecordedBonuses(t *testing.T) {
	input := strings.Join([]string{
		`[{"PROLIFIC ID":"A","trial_type":"consent"},{"bonus":"n/a"},{"bonus":"1.25"},{"bonus":3}]`,
		`[{"PROLIFIC ID":"B"}]`,
		`[{"bonus":2}]`,
		`{"PROLIFIC ID":42,"bonus":0.5}`,
		`oops`,
	}, "\n")
	records, skipped, err := ExtractRecordedBonuses(strings.NewReader(input), "PROLIFIC ID", "bonus")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	expected := []BonusRecord{{ParticipantID: "A", Bonus: 1.25}, {ParticipantID: "42", Bonus: 0.5}}
	if diff := cmp.Diff(expected, records); diff != "" {
		t.Fatalf("unexpected records (-want +got):\n%s", diff)
	}
	if len(skipped) != 1 || skipped[0].Line != 5 {
		t.Fatalf("unexpected skipped lines: %+v", skipped)
	}
}
