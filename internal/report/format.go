package report

import (
	"strconv"
	"strings"

	"recallscore/internal/runner"
)

// formatBonus renders an amount with two decimals, as paid.
func formatBonus(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

// formatPercent returns a percentage string for report output.
func formatPercent(part, total int) string {
	if total == 0 {
		return "0.0"
	}
	return strconv.FormatFloat(float64(part)*100/float64(total), 'f', 1, 64)
}

func formatCapped(capped bool) string {
	if capped {
		return "yes"
	}
	return ""
}

func formatWords(words []string) string {
	parts := make([]string, 0, len(words))
	for _, word := range words {
		if strings.TrimSpace(word) == "" {
			parts = append(parts, "-")
			continue
		}
		parts = append(parts, word)
	}
	return strings.Join(parts, ", ")
}

// sessionStatus returns the failure reason for failed sessions, or the status.
func sessionStatus(session runner.SessionResult) string {
	if session.FailureReason != nil {
		return *session.FailureReason
	}
	return session.Status
}
