package triallog

// LatestPresentation returns the word list of the last presentation event.
func LatestPresentation(log Log) ([]string, bool) {
	group, ok := Split(log).Latest()
	if !ok {
		return nil, false
	}
	return group.Presented, true
}

// AllPresentations returns one word list per presentation event, in log order.
func AllPresentations(log Log) [][]string {
	return Split(log).Presentations()
}

// RecallsAfterLatestPresentation returns the recall words logged after the last presentation.
// A recall event with no words contributes a single empty string.
func RecallsAfterLatestPresentation(log Log) []string {
	return Split(log).RecallsAfterLatest()
}

// AllRecallGroups returns, for every presentation, the recall words logged before the next one.
func AllRecallGroups(log Log) [][]string {
	return Split(log).RecallGroups()
}
