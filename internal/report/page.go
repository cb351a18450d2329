package report

import (
	"fmt"
	"strconv"

	"recallscore/internal/runner"
)

//go:generate templ generate

type summaryRow struct {
	label string
	value string
}

// summaryRows lists the run totals and scoring parameters shown at the top of the report.
func summaryRows(results runner.Results) []summaryRow {
	summary := results.Summary
	params := results.Params
	rows := []summaryRow{
		{"Export", results.Source.Path},
		{"Started", results.StartedAt.UTC().Format("2006-01-02 15:04:05 MST")},
		{"Sessions", strconv.Itoa(summary.SessionsTotal)},
		{"Scored", strconv.Itoa(summary.SessionsScored)},
		{"Failed", strconv.Itoa(summary.SessionsFailed)},
		{"Capped", fmt.Sprintf("%d (%s%%)", summary.SessionsCapped, formatPercent(summary.SessionsCapped, summary.SessionsScored))},
		{"Skipped lines", strconv.Itoa(summary.LinesSkipped)},
		{"Total bonus", formatBonus(summary.TotalBonus)},
		{"Mean bonus", formatBonus(summary.MeanBonus)},
		{"Threshold", strconv.Itoa(params.Threshold)},
		{"Per item", strconv.FormatFloat(params.PerTrialBonus, 'f', -1, 64)},
		{"Target multiple", strconv.FormatFloat(params.TargetMultiple, 'f', -1, 64)},
		{"Cap", formatBonus(params.Cap)},
	}
	if p := results.Provenance; p != nil {
		revision := p.Project + "@" + p.Commit
		if p.Dirty {
			revision += " (uncommitted changes)"
		}
		rows = append(rows, summaryRow{"Project", revision})
	}
	return rows
}

const (
	cellText = iota
	cellNumeric
	cellCapped
)

// sessionCellClass picks the styling of column j of the sessions table.
func sessionCellClass(j int, capped bool) int {
	switch {
	case j >= 1 && j <= 5:
		return cellNumeric
	case j == 6 && capped:
		return cellCapped
	}
	return cellText
}
