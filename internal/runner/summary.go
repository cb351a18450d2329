package runner

// summarize aggregates session results into a summary.
func summarize(sessions []SessionResult, skipped int) RunSummary {
	summary := RunSummary{
		SessionsTotal: len(sessions),
		LinesSkipped:  skipped,
	}
	for _, session := range sessions {
		switch session.Status {
		case StatusScored:
			summary.SessionsScored++
		case StatusFailed:
			summary.SessionsFailed++
			continue
		}
		breakdown := session.Breakdown
		if breakdown.Capped {
			summary.SessionsCapped++
		}
		summary.FreeRecallMatches += breakdown.FreeRecallMatches
		summary.TargetPerformance += breakdown.TargetPerformance
		summary.Diagnostics += len(breakdown.Diagnostics)
		summary.TotalBonus += breakdown.TotalBonus
	}
	if summary.SessionsScored > 0 {
		summary.MeanBonus = summary.TotalBonus / float64(summary.SessionsScored)
	}
	return summary
}
