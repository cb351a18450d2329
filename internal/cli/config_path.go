package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"recallscore/internal/config"
	"recallscore/internal/experiment"
	"recallscore/internal/report"
	"recallscore/internal/runner"
)

// resolveConfigPath normalizes a config path or finds it from CWD.
func resolveConfigPath(configPath string) (string, error) {
	if strings.TrimSpace(configPath) == "" {
		return config.FindConfigPath("")
	}
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	return abs, nil
}

// loadConfig loads the given or discovered config and returns it with its project root.
// When no path is given and none is found, defaults apply from the working directory.
func loadConfig(configPath string) (experiment.Config, string, error) {
	resolved, err := resolveConfigPath(configPath)
	if errors.Is(err, config.ErrConfigNotFound) {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return experiment.Config{}, "", fmt.Errorf("get working directory: %w", wdErr)
		}
		return config.Default(), wd, nil
	}
	if err != nil {
		return experiment.Config{}, "", err
	}
	cfg, err := config.Load(resolved)
	if err != nil {
		return experiment.Config{}, "", err
	}
	return cfg, config.ProjectRootFromConfigPath(resolved), nil
}

// resolveOutputDir applies an override or anchors a relative config output dir at the project root.
func resolveOutputDir(override string, cfg experiment.Config, projectRoot string) string {
	if strings.TrimSpace(override) != "" {
		return override
	}
	if filepath.IsAbs(cfg.OutputDir) {
		return cfg.OutputDir
	}
	return filepath.Join(projectRoot, cfg.OutputDir)
}

// loadRun resolves a run ref against the configured output directory.
func loadRun(configPath, outputDir, ref string) (experiment.Config, runner.Results, string, error) {
	cfg, root, err := loadConfig(configPath)
	if err != nil {
		return experiment.Config{}, runner.Results{}, "", err
	}
	results, runDir, err := report.ResolveRun(resolveOutputDir(outputDir, cfg, root), ref)
	if err != nil {
		return experiment.Config{}, runner.Results{}, "", err
	}
	return cfg, results, runDir, nil
}
