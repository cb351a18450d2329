package triallog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Record is an undecoded export record.
type Record map[string]any

// ScanRecords calls fn with the object records of every decodable JSONL line.
// A line holding a single object is treated as a one-record session. Lines that are not JSON
// are returned as skipped; non-object array elements are ignored.
func ScanRecords(r io.Reader, fn func(line int, records []Record)) ([]SkippedLine, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	var skipped []SkippedLine
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var entry any
		if err := json.Unmarshal(line, &entry); err != nil {
			skipped = append(skipped, SkippedLine{Line: lineNo, Reason: err.Error()})
			continue
		}
		fn(lineNo, objectRecords(entry))
	}
	if err := scanner.Err(); err != nil {
		return skipped, fmt.Errorf("read export: %w", err)
	}
	return skipped, nil
}

func objectRecords(entry any) []Record {
	items, ok := entry.([]any)
	if !ok {
		items = []any{entry}
	}
	records := make([]Record, 0, len(items))
	for _, item := range items {
		if fields, ok := item.(map[string]any); ok {
			records = append(records, Record(fields))
		}
	}
	return records
}
