package runner

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"recallscore/internal/triallog"
)

// BonusRecord is one row of a bonus payment file.
type BonusRecord struct {
	ParticipantID string
	Bonus         float64
}

// BonusRecords lists the bonus of every scored session in run order.
func BonusRecords(results Results) []BonusRecord {
	records := make([]BonusRecord, 0, len(results.Sessions))
	for _, session := range results.Sessions {
		if session.Status != StatusScored {
			continue
		}
		records = append(records, BonusRecord{
			ParticipantID: session.ParticipantID,
			Bonus:         session.Breakdown.TotalBonus,
		})
	}
	return records
}

// WriteBonusCSV writes records with a prolific_id,bonus header.
func WriteBonusCSV(w io.Writer, records []BonusRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"prolific_id", "bonus"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, record := range records {
		row := []string{record.ParticipantID, strconv.FormatFloat(record.Bonus, 'f', -1, 64)}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ExtractRecordedBonuses reads the bonus the experiment itself recorded for each session line.
//
// The participant id comes from the first record carrying idKey and the bonus from the first
// record whose bonusKey holds a number or numeric string. Lines missing either are dropped.
func ExtractRecordedBonuses(r io.Reader, idKey, bonusKey string) ([]BonusRecord, []triallog.SkippedLine, error) {
	var records []BonusRecord
	skipped, err := triallog.ScanRecords(r, func(_ int, entries []triallog.Record) {
		id := ""
		foundID := false
		amount, foundBonus := 0.0, false
		for _, entry := range entries {
			if !foundID {
				if _, ok := entry[idKey]; ok {
					id = triallog.FieldString(entry, []string{idKey})
					foundID = true
				}
			}
			if !foundBonus {
				amount, foundBonus = numericField(entry[bonusKey])
			}
		}
		if id != "" && foundBonus {
			records = append(records, BonusRecord{ParticipantID: id, Bonus: amount})
		}
	})
	if err != nil {
		return nil, skipped, err
	}
	return records, skipped, nil
}

func numericField(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
