package triallog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Trial type tags written by the trial runner.
const (
	TypePresentation = "item-presentation"
	TypeRecall       = "free-recall"
)

// Event is one record of the chronological trial log.
type Event struct {
	TrialType   string `json:"trial_type"`
	WordList    Words  `json:"word_list,omitempty"`
	RecallWords Words  `json:"recall_words,omitempty"`
	CategoryCue string `json:"category_cue,omitempty"`
}

// IsPresentation reports whether the event displayed a word list.
func (e Event) IsPresentation() bool {
	return e.TrialType == TypePresentation
}

// IsRecall reports whether the event captured typed recall.
func (e Event) IsRecall() bool {
	return e.TrialType == TypeRecall
}

// Log is the full ordered history of one session.
type Log []Event

// Session is one participant's log taken from an export.
type Session struct {
	ParticipantID string `json:"participant_id"`
	Index         int    `json:"index"`
	Line          int    `json:"line,omitempty"`
	Log           Log    `json:"-"`
}

// Words is an ordered list of presented or recalled words. When decoded from JSON, nested
// arrays are flattened, a bare string becomes a single word and null means no words.
type Words []string

// UnmarshalJSON decodes strings, arrays and nested arrays into a flat word list.
func (w *Words) UnmarshalJSON(data []byte) error {
	flat, err := flattenWords(data, nil)
	if err != nil {
		return err
	}
	*w = flat
	return nil
}

func flattenWords(data []byte, out []string) ([]string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return out, nil
	}
	switch trimmed[0] {
	case '"':
		var word string
		if err := json.Unmarshal(trimmed, &word); err != nil {
			return nil, fmt.Errorf("decode word: %w", err)
		}
		return append(out, word), nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode words: %w", err)
		}
		for _, item := range items {
			var err error
			out, err = flattenWords(item, out)
			if err != nil {
				return nil, err
			}
		}
		return out, nil
	case '{':
		return nil, fmt.Errorf("decode words: unexpected object")
	default:
		// numbers and booleans keep their literal text
		return append(out, string(trimmed)), nil
	}
}
