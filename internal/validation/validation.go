// Package validation collects field-level problems found while checking
// experiment config and bonus parameters.
package validation

import (
	"fmt"
	"strings"
)

// Issue captures a problem with a single field.
type Issue struct {
	Field   string
	Message string
}

// Error aggregates the issues found in one subject, such as "config" or "bonus parameters".
type Error struct {
	Subject string
	Issues  []Issue
}

// Error renders one issue per line after a heading naming the subject.
func (err *Error) Error() string {
	subject := "validation"
	if err != nil && err.Subject != "" {
		subject = err.Subject
	}
	if err == nil || len(err.Issues) == 0 {
		return subject + " invalid"
	}
	if len(err.Issues) == 1 {
		issue := err.Issues[0]
		return fmt.Sprintf("%s invalid: %s: %s", subject, issue.Field, issue.Message)
	}
	lines := make([]string, 0, len(err.Issues)+1)
	lines = append(lines, subject+" invalid:")
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("  %s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

// Adder records an issue on a shared collector.
type Adder func(field, message string)

// Collector accumulates issues for one subject.
type Collector struct {
	subject string
	issues  []Issue
}

// NewCollector returns an empty collector for subject.
func NewCollector(subject string) *Collector {
	return &Collector{subject: subject}
}

// Add records a new issue.
func (c *Collector) Add(field, message string) {
	c.issues = append(c.issues, Issue{Field: field, Message: message})
}

// Addf records a new issue with a formatted message.
func (c *Collector) Addf(field, format string, args ...any) {
	c.Add(field, fmt.Sprintf(format, args...))
}

// Result returns an *Error when issues were recorded, otherwise nil.
func (c *Collector) Result() error {
	if len(c.issues) == 0 {
		return nil
	}
	return &Error{Subject: c.subject, Issues: c.issues}
}
