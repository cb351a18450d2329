// Package vcs reads git state for the experiment project a run was scored in.
package vcs

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Provenance identifies the project revision a run was scored against.
type Provenance struct {
	Project string `json:"project"`
	Commit  string `json:"commit"`
	Branch  string `json:"branch,omitempty"`
	Dirty   bool   `json:"dirty"`
}

type gitRunner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

type execGitRunner struct{}

// Run executes a git command and returns trimmed stdout.
func (execGitRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = "no stderr"
		}
		return "", fmt.Errorf("git %s: %w (%s)", strings.Join(args, " "), err, msg)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Client runs git against a project directory.
type Client struct {
	runner gitRunner
}

// NewClient constructs a git client with an optional runner override.
func NewClient(runner gitRunner) Client {
	if runner == nil {
		runner = execGitRunner{}
	}
	return Client{runner: runner}
}

var defaultClient = NewClient(nil)

// ProjectRoot resolves the git root for a starting directory.
func ProjectRoot(ctx context.Context, startDir string) (string, error) {
	return defaultClient.ProjectRoot(ctx, startDir)
}

// Describe returns the provenance of the project containing startDir.
func Describe(ctx context.Context, startDir string) (Provenance, error) {
	return defaultClient.Describe(ctx, startDir)
}

// ProjectRoot resolves the git root for a starting directory.
func (c Client) ProjectRoot(ctx context.Context, startDir string) (string, error) {
	dir := strings.TrimSpace(startDir)
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		dir = wd
	}
	root, err := c.runner.Run(ctx, dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("discover git root: %w", err)
	}
	return root, nil
}

// Describe reads the commit, branch, and dirty state of the project.
// A detached HEAD leaves Branch empty.
func (c Client) Describe(ctx context.Context, startDir string) (Provenance, error) {
	root, err := c.ProjectRoot(ctx, startDir)
	if err != nil {
		return Provenance{}, err
	}
	commit, err := c.runner.Run(ctx, root, "rev-parse", "HEAD")
	if err != nil {
		return Provenance{}, fmt.Errorf("resolve HEAD: %w", err)
	}
	branch, err := c.runner.Run(ctx, root, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return Provenance{}, fmt.Errorf("resolve branch: %w", err)
	}
	if branch == "HEAD" {
		branch = ""
	}
	status, err := c.runner.Run(ctx, root, "status", "--porcelain")
	if err != nil {
		return Provenance{}, fmt.Errorf("check dirty state: %w", err)
	}
	return Provenance{
		Project: filepath.Base(root),
		Commit:  commit,
		Branch:  branch,
		Dirty:   status != "",
	}, nil
}
