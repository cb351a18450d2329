package triallog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultParticipantKeys are the record fields searched for a participant id.
var DefaultParticipantKeys = []string{"PROLIFIC ID", "subject_id"}

// maxLineBytes bounds a single JSONL line; one line holds a whole session.
const maxLineBytes = 64 << 20

// ErrEmptyExport indicates that an export contained no sessions.
var ErrEmptyExport = errors.New("export contains no sessions")

// LoadOptions controls how sessions are read from an export.
type LoadOptions struct {
	// ParticipantKeys are tried in order on each record; defaults to DefaultParticipantKeys.
	ParticipantKeys []string
	// Strict validates every record against the trial event schema and skips sessions that fail.
	Strict bool
}

// SkippedLine records an export line that could not be turned into a session.
type SkippedLine struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Export is the decoded content of an export file.
type Export struct {
	Sessions []Session
	Skipped  []SkippedLine
}

// LoadExport reads sessions from a JSONL export, or from a JSON file holding one session array
// or an array of session arrays.
func LoadExport(path string, opts LoadOptions) (Export, error) {
	file, err := os.Open(path)
	if err != nil {
		return Export{}, fmt.Errorf("open export: %w", err)
	}
	defer func() { _ = file.Close() }()

	var export Export
	if strings.EqualFold(filepath.Ext(path), ".json") {
		export, err = ReadJSON(file, opts)
	} else {
		export, err = ReadJSONL(file, opts)
	}
	if err != nil {
		return Export{}, err
	}
	if len(export.Sessions) == 0 {
		return export, ErrEmptyExport
	}
	return export, nil
}

// ReadJSONL reads one session per non-blank line. Undecodable lines are skipped and reported.
func ReadJSONL(r io.Reader, opts LoadOptions) (Export, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	var export Export
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		session, err := decodeSession(line, len(export.Sessions), opts)
		if err != nil {
			export.Skipped = append(export.Skipped, SkippedLine{Line: lineNo, Reason: err.Error()})
			continue
		}
		session.Line = lineNo
		export.Sessions = append(export.Sessions, session)
	}
	if err := scanner.Err(); err != nil {
		return Export{}, fmt.Errorf("read export: %w", err)
	}
	return export, nil
}

// ReadJSON reads a JSON document holding a single session or an array of sessions.
func ReadJSON(r io.Reader, opts LoadOptions) (Export, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Export{}, fmt.Errorf("read export: %w", err)
	}
	var items []json.RawMessage
	if isArray(data) {
		if err := json.Unmarshal(data, &items); err != nil {
			return Export{}, fmt.Errorf("parse json: %w", err)
		}
	}
	if len(items) == 0 || !isArray(items[0]) {
		session, err := decodeSession(data, 0, opts)
		if err != nil {
			return Export{}, err
		}
		return Export{Sessions: []Session{session}}, nil
	}
	var export Export
	for i, item := range items {
		session, err := decodeSession(item, len(export.Sessions), opts)
		if err != nil {
			export.Skipped = append(export.Skipped, SkippedLine{Line: i + 1, Reason: err.Error()})
			continue
		}
		export.Sessions = append(export.Sessions, session)
	}
	return export, nil
}

// decodeSession turns one JSON array (or a single record) into a session.
func decodeSession(data []byte, index int, opts LoadOptions) (Session, error) {
	var raws []json.RawMessage
	if isArray(data) {
		if err := json.Unmarshal(data, &raws); err != nil {
			return Session{}, fmt.Errorf("parse session: %w", err)
		}
	} else {
		raws = []json.RawMessage{json.RawMessage(data)}
	}

	keys := opts.ParticipantKeys
	if len(keys) == 0 {
		keys = DefaultParticipantKeys
	}

	session := Session{Index: index, Log: make(Log, 0, len(raws))}
	for i, raw := range raws {
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			return Session{}, fmt.Errorf("record %d: %w", i, err)
		}
		if opts.Strict {
			if err := ValidateRecord(fields); err != nil {
				return Session{}, fmt.Errorf("record %d: %w", i, err)
			}
		}
		if session.ParticipantID == "" {
			session.ParticipantID = FieldString(fields, keys)
		}
		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			trialType := stringField(fields, "trial_type")
			if opts.Strict || trialType == TypePresentation || trialType == TypeRecall {
				return Session{}, fmt.Errorf("record %d (%s): %w", i, trialType, err)
			}
			// records of other trial types only need their type to keep the log ordered
			event = Event{TrialType: trialType}
		}
		session.Log = append(session.Log, event)
	}
	if session.ParticipantID == "" {
		session.ParticipantID = "session-" + strconv.Itoa(index+1)
	}
	return session, nil
}

// FieldString returns the first non-blank value among keys, rendered as text.
func FieldString(fields Record, keys []string) string {
	for _, key := range keys {
		value, ok := fields[key]
		if !ok || value == nil {
			continue
		}
		var id string
		switch v := value.(type) {
		case string:
			id = strings.TrimSpace(v)
		case float64:
			id = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			id = fmt.Sprint(v)
		}
		if id != "" {
			return id
		}
	}
	return ""
}

func stringField(fields map[string]any, key string) string {
	value, _ := fields[key].(string)
	return value
}

func isArray(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '['
}
