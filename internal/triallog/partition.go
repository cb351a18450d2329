package triallog

// Group is one presentation together with the recall events that followed it.
type Group struct {
	// EventIndex is the position of the presentation event in the log.
	EventIndex int
	Presented  []string
	// Recalls holds one entry per recall event; an event without words is [""].
	Recalls [][]string
	// Cues holds the category cue shown for each recall event.
	Cues []string
}

// Flat returns the group's recall words in order as a single list.
func (g Group) Flat() []string {
	return flatten(g.Recalls)
}

// Partition is a log split at its presentation boundaries.
type Partition struct {
	// Leading holds recall entries logged before any presentation.
	Leading [][]string
	Groups  []Group
}

// Split partitions a log once so every derivation can reuse the result.
func Split(log Log) Partition {
	var partition Partition
	current := -1
	for index, event := range log {
		switch {
		case event.IsPresentation():
			partition.Groups = append(partition.Groups, Group{
				EventIndex: index,
				Presented:  append([]string(nil), event.WordList...),
				Recalls:    [][]string{},
				Cues:       []string{},
			})
			current = len(partition.Groups) - 1
		case event.IsRecall():
			entry := recallEntry(event)
			if current == -1 {
				partition.Leading = append(partition.Leading, entry)
				continue
			}
			group := &partition.Groups[current]
			group.Recalls = append(group.Recalls, entry)
			group.Cues = append(group.Cues, event.CategoryCue)
		}
	}
	return partition
}

// Latest returns the last presentation group.
func (p Partition) Latest() (Group, bool) {
	if len(p.Groups) == 0 {
		return Group{}, false
	}
	return p.Groups[len(p.Groups)-1], true
}

// Presentations returns every presented word list in log order.
func (p Partition) Presentations() [][]string {
	lists := make([][]string, 0, len(p.Groups))
	for _, group := range p.Groups {
		lists = append(lists, group.Presented)
	}
	return lists
}

// RecallGroups returns the flattened recall words of every group in log order.
func (p Partition) RecallGroups() [][]string {
	groups := make([][]string, 0, len(p.Groups))
	for _, group := range p.Groups {
		groups = append(groups, group.Flat())
	}
	return groups
}

// RecallsAfterLatest returns the flattened recall words logged after the last presentation.
// Without any presentation every recall event in the log counts.
func (p Partition) RecallsAfterLatest() []string {
	latest, ok := p.Latest()
	if !ok {
		return flatten(p.Leading)
	}
	return latest.Flat()
}

// recallEntry returns an event's words, or a single empty placeholder when it has none.
func recallEntry(event Event) []string {
	if len(event.RecallWords) == 0 {
		return []string{""}
	}
	return append([]string(nil), event.RecallWords...)
}

func flatten(entries [][]string) []string {
	flat := make([]string, 0, len(entries))
	for _, entry := range entries {
		flat = append(flat, entry...)
	}
	return flat
}
