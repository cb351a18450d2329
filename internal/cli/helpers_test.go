package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"recallscore/internal/config"
	"recallscore/internal/report"
	"recallscore/internal/runner"
)

const sampleExport = `[{"PROLIFIC ID":"P-1","trial_type":"item-presentation","word_list":["apple","banana","cherry"]},{"trial_type":"free-recall","recall_words":["banana"]},{"trial_type":"free-recall","recall_words":["chery"]},{"trial_type":"survey","bonus":0.25}]
[{"PROLIFIC ID":"P-2","trial_type":"item-presentation","word_list":["stone"]},{"trial_type":"free-recall"}]
`

type testProject struct {
	root       string
	configPath string
	exportPath string
	outputDir  string
}

// newTestProject scaffolds a config with a local results folder and writes a sample export.
func newTestProject(t *testing.T) testProject {
	t.Helper()
	root := t.TempDir()
	project := testProject{
		root:       root,
		configPath: config.ConfigPath(root),
		exportPath: filepath.Join(root, "export.jsonl"),
		outputDir:  filepath.Join(root, "results"),
	}
	if err := config.Scaffold(project.configPath, "results"); err != nil {
		t.Fatalf("scaffold config: %v", err)
	}
	if err := os.WriteFile(project.exportPath, []byte(sampleExport), 0o644); err != nil {
		t.Fatalf("write export: %v", err)
	}
	return project
}

// score runs the score command and fails the test on a non-zero exit.
func (p testProject) score(t *testing.T, extra ...string) string {
	t.Helper()
	args := append([]string{"score", "--config", p.configPath, "--no-color"}, extra...)
	args = append(args, p.exportPath)
	var out, errOut bytes.Buffer
	if code := Run(args, &out, &errOut); code != ExitOK {
		t.Fatalf("score exit %d: %s", code, errOut.String())
	}
	return out.String()
}

func stubTerminal(t *testing.T, tty bool) {
	t.Helper()
	original := isTerminal
	isTerminal = func(io.Writer) bool { return tty }
	t.Cleanup(func() { isTerminal = original })
}

func loadLatest(p testProject) (runner.Results, string, error) {
	return report.ResolveRun(p.outputDir, report.LatestRef)
}
