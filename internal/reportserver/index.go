package reportserver

import (
	"net/url"

	"github.com/a-h/templ"

	"recallscore/internal/runner"
)

//go:generate templ generate

type runEntry struct {
	results runner.Results
}

// link returns the URL of the run's report, or of one of its files when suffix is set.
func (e runEntry) link(suffix string) templ.SafeURL {
	return templ.SafeURL("/runs/" + url.PathEscape(e.results.RunID) + suffix)
}
