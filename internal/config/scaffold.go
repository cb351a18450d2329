package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const configTemplate = `version: 1
output_dir: %q
workers: 4
participant_key: "PROLIFIC ID"
strict_schema: false

scoring:
  threshold: 2

bonus:
  per_trial: 0.03125
  target_multiple: 5
  cap: 10.0

# One row per presentation, one entry per recall event. Leave "" for uncued positions.
targets:
  default: []
  participants: {}

ledger:
  cluster_id: 0
  addresses: ["3000"]
  ledger: 1
  code: 1
  funding_account: "experiment"
  scale: 100
  sessions: 1
`

// Scaffold writes a starter config file, refusing to overwrite an existing one.
// An empty outputDir uses DefaultOutputDir.
func Scaffold(configPath, outputDir string) error {
	if configPath == "" {
		return fmt.Errorf("config path is required")
	}
	if strings.TrimSpace(outputDir) == "" {
		outputDir = DefaultOutputDir
	}
	if info, err := os.Stat(configPath); err == nil {
		if info.IsDir() {
			return fmt.Errorf("config path %q is a directory", configPath)
		}
		return fmt.Errorf("config file already exists at %q", configPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(fmt.Sprintf(configTemplate, filepath.ToSlash(outputDir))), 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
