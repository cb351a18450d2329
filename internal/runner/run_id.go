package runner

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"time"
)

const (
	runIDLayout      = "20060102T150405Z"
	runIDSuffixBytes = 6
)

// NewRunID returns a sortable run id: a UTC timestamp plus random hex.
func NewRunID() (string, error) {
	return NewRunIDWithRand(time.Now(), rand.Reader)
}

// NewRunIDWithRand builds a run id from the given clock reading and random source.
func NewRunIDWithRand(now time.Time, r io.Reader) (string, error) {
	if r == nil {
		return "", fmt.Errorf("random reader is nil")
	}
	suffix := make([]byte, runIDSuffixBytes)
	if _, err := io.ReadFull(r, suffix); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return FormatRunID(now, hex.EncodeToString(suffix)), nil
}

func FormatRunID(now time.Time, suffix string) string {
	return fmt.Sprintf("%s-%s", now.UTC().Format(runIDLayout), suffix)
}
