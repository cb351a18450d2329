package analysis

import (
	"recallscore/internal/bonus"
	"recallscore/internal/recall"
	"recallscore/internal/triallog"
)

// Phases of a long-table row.
const (
	PhaseStudy  = "study"
	PhaseRecall = "recall"
)

// Row is one studied or recalled item in long format.
type Row struct {
	Subject string `json:"subject"`
	// List is the 1-based presentation index.
	List  int    `json:"list"`
	Phase string `json:"phase"`
	// Position is the 1-based study position or output position.
	Position int    `json:"position"`
	Item     string `json:"item"`
	// SerialPosition is the matched study position of a recall, -1 for an intrusion, 0 for study rows.
	SerialPosition int    `json:"serial_position"`
	CategoryCue    string `json:"category_cue,omitempty"`
	Target         string `json:"target,omitempty"`
	TargetSuccess  bool   `json:"target_success"`
}

// LongTable flattens a session into study and recall rows.
//
// Recall positions follow the flattened recall words so they line up with category targets.
// Positions without a response produce no row but still advance the position.
func LongTable(session triallog.Session, targets bonus.CategoryTargets, threshold int) []Row {
	var rows []Row
	for i, group := range triallog.Split(session.Log).Groups {
		for j, item := range group.Presented {
			rows = append(rows, Row{
				Subject:  session.ParticipantID,
				List:     i + 1,
				Phase:    PhaseStudy,
				Position: j + 1,
				Item:     item,
			})
		}

		matched := recall.MatchPositions(group.Flat(), group.Presented, threshold)
		position := 0
		for event, words := range group.Recalls {
			for _, word := range words {
				index := position
				position++
				if recall.Normalize(word) == "" {
					continue
				}
				target := targets.At(i, index)
				rows = append(rows, Row{
					Subject:        session.ParticipantID,
					List:           i + 1,
					Phase:          PhaseRecall,
					Position:       index + 1,
					Item:           word,
					SerialPosition: matched[index],
					CategoryCue:    group.Cues[event],
					Target:         target,
					TargetSuccess:  recall.ScoreTargetedRecall(word, target, threshold),
				})
			}
		}
	}
	return rows
}
