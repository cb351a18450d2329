package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"recallscore/internal/runner"
)

// LatestRef selects the most recent run in an output directory.
const LatestRef = "latest"

// ResolveRun finds a run by results path, run directory, run id, or "latest".
// It returns the results and the run directory.
func ResolveRun(outputDir, ref string) (runner.Results, string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return runner.Results{}, "", fmt.Errorf("run ref is required")
	}
	if info, err := os.Stat(ref); err == nil {
		path := ref
		if info.IsDir() {
			path = filepath.Join(ref, runner.ResultsFileName)
		}
		results, err := runner.LoadResults(path)
		return results, filepath.Dir(path), err
	}
	runDir := filepath.Join(outputDir, ref)
	if ref == LatestRef {
		latest, err := findLatestRunDir(outputDir)
		if err != nil {
			return runner.Results{}, "", err
		}
		runDir = latest
	}
	if info, err := os.Stat(runDir); err != nil || !info.IsDir() {
		return runner.Results{}, "", fmt.Errorf("run %s not found in %s", ref, outputDir)
	}
	results, err := runner.LoadResults(filepath.Join(runDir, runner.ResultsFileName))
	return results, runDir, err
}

// ListRuns returns the run ids under outputDir that hold results, oldest first.
// Run ids sort by creation time.
func ListRuns(outputDir string) ([]string, error) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return nil, fmt.Errorf("read output dir: %w", err)
	}
	runIDs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(outputDir, entry.Name(), runner.ResultsFileName)); err != nil {
			continue
		}
		runIDs = append(runIDs, entry.Name())
	}
	sort.Strings(runIDs)
	return runIDs, nil
}

func findLatestRunDir(outputDir string) (string, error) {
	runIDs, err := ListRuns(outputDir)
	if err != nil {
		return "", err
	}
	if len(runIDs) == 0 {
		return "", fmt.Errorf("no runs found in %s", outputDir)
	}
	return filepath.Join(outputDir, runIDs[len(runIDs)-1]), nil
}
