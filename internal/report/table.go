package report

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"recallscore/internal/runner"
)

// SessionColumns returns the columns of the session summary table.
func SessionColumns() []table.Column {
	return []table.Column{
		{Title: "Participant", Width: 26},
		{Title: "Trials", Width: 6},
		{Title: "Matches", Width: 7},
		{Title: "Targets", Width: 7},
		{Title: "Base", Width: 5},
		{Title: "Bonus", Width: 7},
		{Title: "Capped", Width: 6},
		{Title: "Diag", Width: 4},
		{Title: "Status", Width: 10},
	}
}

// SessionRows converts session results into table rows in run order.
func SessionRows(results runner.Results) []table.Row {
	rows := make([]table.Row, 0, len(results.Sessions))
	for _, session := range results.Sessions {
		breakdown := session.Breakdown
		rows = append(rows, table.Row{
			session.ParticipantID,
			strconv.Itoa(len(session.Trials)),
			strconv.Itoa(breakdown.FreeRecallMatches),
			strconv.Itoa(breakdown.TargetPerformance),
			strconv.Itoa(breakdown.BasePerformance),
			formatBonus(breakdown.TotalBonus),
			formatCapped(breakdown.Capped),
			strconv.Itoa(len(breakdown.Diagnostics)),
			sessionStatus(session),
		})
	}
	return rows
}

// TableStyles returns table styles, with a coloured header unless noColor is set.
func TableStyles(noColor bool) table.Styles {
	if noColor {
		return table.DefaultStyles()
	}
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	return styles
}

// SummaryTable renders the run header, totals, and one row per session.
func SummaryTable(results runner.Results, noColor bool) string {
	rows := SessionRows(results)
	columns := SessionColumns()
	// the header takes two lines: titles and a bottom border
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+2),
		table.WithWidth(TableWidth(columns)),
	)
	styles := TableStyles(noColor)
	// no row is selected in a static table
	styles.Selected = lipgloss.NewStyle()
	t.SetStyles(styles)
	return lipgloss.JoinVertical(lipgloss.Left,
		HeaderLine(results, noColor),
		TotalsLine(results, noColor),
		t.View(),
	)
}

// TableWidth returns the width needed to show every column with default cell padding.
func TableWidth(columns []table.Column) int {
	width := 0
	for _, column := range columns {
		width += column.Width + 2
	}
	return width
}

// HeaderLine describes the run and its source.
func HeaderLine(results runner.Results, noColor bool) string {
	line := "Run " + results.RunID
	if results.Source.Path != "" {
		line += " | Export: " + results.Source.Path
	}
	return stylize(line, noColor, lipgloss.Color("33"))
}

// TotalsLine summarizes counts and the bonus total.
func TotalsLine(results runner.Results, noColor bool) string {
	summary := results.Summary
	parts := []string{
		"Sessions: " + strconv.Itoa(summary.SessionsTotal),
		"Scored: " + strconv.Itoa(summary.SessionsScored),
		"Failed: " + strconv.Itoa(summary.SessionsFailed),
		"Capped: " + strconv.Itoa(summary.SessionsCapped),
		"Skipped lines: " + strconv.Itoa(summary.LinesSkipped),
		"Total bonus: " + formatBonus(summary.TotalBonus),
		"Mean: " + formatBonus(summary.MeanBonus),
	}
	return stylize(strings.Join(parts, " "), noColor, lipgloss.Color("242"))
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}
