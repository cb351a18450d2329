package runner

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Output file names inside a run directory.
const (
	ResultsFileName = "results.json"
	BonusesFileName = "bonuses.csv"
	ReportFileName  = "report.html"
)

// OutputPaths describes filesystem locations for run outputs.
type OutputPaths struct {
	Root  string
	RunID string
}

// NewOutputPaths validates and constructs output paths metadata.
func NewOutputPaths(root, runID string) (OutputPaths, error) {
	if strings.TrimSpace(root) == "" {
		return OutputPaths{}, fmt.Errorf("output root is empty")
	}
	if strings.TrimSpace(runID) == "" {
		return OutputPaths{}, fmt.Errorf("run ID is empty")
	}
	return OutputPaths{Root: root, RunID: runID}, nil
}

// RunDir returns the directory for a specific run.
func (o OutputPaths) RunDir() string {
	return filepath.Join(o.Root, o.RunID)
}

func (o OutputPaths) ResultsPath() string {
	return filepath.Join(o.RunDir(), ResultsFileName)
}

func (o OutputPaths) BonusesPath() string {
	return filepath.Join(o.RunDir(), BonusesFileName)
}

// ReportPath returns where the HTML report for the run belongs.
func (o OutputPaths) ReportPath() string {
	return filepath.Join(o.RunDir(), ReportFileName)
}
