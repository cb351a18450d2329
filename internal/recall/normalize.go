package recall

import "strings"

// Normalize trims surrounding whitespace and line breaks and lowercases a response for matching.
// Internal whitespace is preserved.
func Normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// NormalizeAll returns a normalized copy of values.
func NormalizeAll(values []string) []string {
	normalized := make([]string, 0, len(values))
	for _, value := range values {
		normalized = append(normalized, Normalize(value))
	}
	return normalized
}
