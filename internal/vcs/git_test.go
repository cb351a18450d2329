package vcs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"recallscore/internal/testutil"

	"github.com/google/go-cmp/cmp"
)

// TestDescribe verifies provenance is assembled from git output.
func TestDescribe(t *testing.T) {
	ctx := testutil.Context(t, 0)
	root := filepath.Join(t.TempDir(), "memory-study")

	fake := &fakeGitRunner{responses: map[string]string{
		"rev-parse --show-toplevel":   root,
		"rev-parse HEAD":              "commit-3",
		"rev-parse --abbrev-ref HEAD": "main",
		"status --porcelain":          "",
	}}
	client := NewClient(fake)

	got, err := client.Describe(ctx, filepath.Join(root, "data"))
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	expected := Provenance{Project: "memory-study", Commit: "commit-3", Branch: "main"}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatalf("unexpected provenance (-want +got):\n%s", diff)
	}

	fake.responses["status --porcelain"] = " M data/export.jsonl"
	fake.responses["rev-parse --abbrev-ref HEAD"] = "HEAD"
	got, err = client.Describe(ctx, root)
	if err != nil {
		t.Fatalf("describe dirty: %v", err)
	}
	if !got.Dirty || got.Branch != "" {
		t.Fatalf("expected dirty detached provenance, got %+v", got)
	}
}

// TestProjectRootError verifies git failures are wrapped.
func TestProjectRootError(t *testing.T) {
	ctx := testutil.Context(t, 0)
	client := NewClient(&fakeGitRunner{responses: map[string]string{}})
	_, err := client.ProjectRoot(ctx, t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "discover git root") {
		t.Fatalf("expected discover error, got %v", err)
	}
}

type fakeGitRunner struct {
	responses map[string]string
}

func (f *fakeGitRunner) Run(_ context.Context, _ string, args ...string) (string, error) {
	key := strings.Join(args, " ")
	if value, ok := f.responses[key]; ok {
		return value, nil
	}
	return "", fmt.Errorf("unexpected git args: %s", key)
}
