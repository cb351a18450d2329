package analysis

import (
	"recallscore/internal/recall"
	"recallscore/internal/triallog"
)

// SerialPositions returns the 1-based presented position of each recall in a group.
// Intrusions are reported as -1 when includeIntrusions is set and dropped otherwise.
func SerialPositions(group triallog.Group, threshold int, includeIntrusions bool) []int {
	matched := recall.MatchPositions(group.Flat(), group.Presented, threshold)
	positions := make([]int, 0, len(matched))
	for _, position := range matched {
		if position == -1 && !includeIntrusions {
			continue
		}
		positions = append(positions, position)
	}
	return positions
}

// SessionPositions returns SerialPositions for every presentation of a log.
func SessionPositions(log triallog.Log, threshold int, includeIntrusions bool) [][]int {
	groups := triallog.Split(log).Groups
	rows := make([][]int, 0, len(groups))
	for _, group := range groups {
		rows = append(rows, SerialPositions(group, threshold, includeIntrusions))
	}
	return rows
}

// PadPositions right-pads every row with zeros to the wider of width and the longest row.
func PadPositions(rows [][]int, width int) [][]int {
	for _, row := range rows {
		width = max(width, len(row))
	}
	padded := make([][]int, 0, len(rows))
	for _, row := range rows {
		out := make([]int, width)
		copy(out, row)
		padded = append(padded, out)
	}
	return padded
}
