package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recallscore/internal/config"
)

func stubInit(t *testing.T, input, projectRoot string) {
	t.Helper()
	originalInput := initInput
	originalRoot := discoverProjectRoot
	initInput = strings.NewReader(input)
	discoverProjectRoot = func(string) string { return projectRoot }
	t.Cleanup(func() {
		initInput = originalInput
		discoverProjectRoot = originalRoot
	})
}

// TestInitCommandCreatesConfig verifies init writes a loadable config and updates .gitignore.
func TestInitCommandCreatesConfig(t *testing.T) {
	root := t.TempDir()
	configPath := config.ConfigPath(root)
	stubInit(t, "y\nscores\ny\n", root)

	var out, errOut bytes.Buffer
	code := Run([]string{"init", "--config", configPath}, &out, &errOut)
	if code != ExitOK {
		t.Fatalf("expected exit %d, got %d: %s", ExitOK, code, errOut.String())
	}
	if !strings.Contains(out.String(), "Wrote "+configPath) {
		t.Fatalf("expected write message, got %q", out.String())
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("load scaffolded config: %v", err)
	}
	if cfg.OutputDir != "scores" {
		t.Fatalf("expected output dir scores, got %q", cfg.OutputDir)
	}
	gitignore, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		t.Fatalf("read .gitignore: %v", err)
	}
	if string(gitignore) != "scores\n" {
		t.Fatalf("unexpected .gitignore: %q", gitignore)
	}
}

// TestInitCommandDefaultsOutsideGit verifies closed input takes defaults and skips .gitignore.
func TestInitCommandDefaultsOutsideGit(t *testing.T) {
	root := t.TempDir()
	configPath := filepath.Join(root, "recallscore.yml")
	stubInit(t, "", "")

	var out, errOut bytes.Buffer
	if code := Run([]string{"init", "--config", configPath}, &out, &errOut); code != ExitOK {
		t.Fatalf("expected exit %d, got %d: %s", ExitOK, code, errOut.String())
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.OutputDir != config.DefaultOutputDir {
		t.Fatalf("expected default output dir, got %q", cfg.OutputDir)
	}
	if _, err := os.Stat(filepath.Join(root, ".gitignore")); !os.IsNotExist(err) {
		t.Fatalf("expected no .gitignore, got %v", err)
	}
}

// TestInitCommandCancelled verifies answering no leaves nothing behind.
func TestInitCommandCancelled(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "recallscore.yml")
	stubInit(t, "n\n", "")

	var out, errOut bytes.Buffer
	if code := Run([]string{"init", "--config", configPath}, &out, &errOut); code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	if !strings.Contains(errOut.String(), "cancelled") {
		t.Fatalf("expected cancel message, got %q", errOut.String())
	}
	if _, err := os.Stat(configPath); !os.IsNotExist(err) {
		t.Fatalf("expected no config file, got %v", err)
	}
}

// TestInitCommandRefusesOverwrite verifies an existing config is kept.
func TestInitCommandRefusesOverwrite(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "recallscore.yml")
	if err := os.WriteFile(configPath, []byte("version: 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	stubInit(t, "", "")

	var out, errOut bytes.Buffer
	if code := Run([]string{"init", "--config", configPath}, &out, &errOut); code != ExitError {
		t.Fatalf("expected exit %d, got %d", ExitError, code)
	}
	if !strings.Contains(errOut.String(), "already exists") {
		t.Fatalf("expected overwrite warning, got %q", errOut.String())
	}
}

// TestGitignoreEntry verifies results folders are normalized against the project root.
func TestGitignoreEntry(t *testing.T) {
	root := t.TempDir()
	cases := []struct {
		outputDir string
		expected  string
		wantErr   bool
	}{
		{outputDir: ".recallscore/results", expected: ".recallscore/results"},
		{outputDir: "./out/", expected: "out"},
		{outputDir: filepath.Join(root, "abs"), expected: "abs"},
		{outputDir: "../elsewhere", wantErr: true},
		{outputDir: ".", wantErr: true},
	}
	for _, tc := range cases {
		got, err := gitignoreEntry(root, tc.outputDir)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%s: expected error", tc.outputDir)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: %v", tc.outputDir, err)
		}
		if got != tc.expected {
			t.Fatalf("%s: expected %q, got %q", tc.outputDir, tc.expected, got)
		}
	}
}

// TestAddGitignoreEntryIsIdempotent verifies an existing entry is not duplicated.
func TestAddGitignoreEntryIsIdempotent(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".gitignore"), []byte("bin/\nout/"), 0o644); err != nil {
		t.Fatalf("write .gitignore: %v", err)
	}
	updated, err := addGitignoreEntry(root, "out")
	if err != nil {
		t.Fatalf("add entry: %v", err)
	}
	if updated {
		t.Fatalf("expected existing entry to be kept")
	}
	updated, err = addGitignoreEntry(root, "results")
	if err != nil || !updated {
		t.Fatalf("expected new entry, got %v %v", updated, err)
	}
	data, _ := os.ReadFile(filepath.Join(root, ".gitignore"))
	if string(data) != "bin/\nout/\nresults\n" {
		t.Fatalf("unexpected .gitignore: %q", data)
	}
}
