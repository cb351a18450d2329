package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"recallscore/internal/runner"
)

// RenderReportHTML renders the report template into a string.
func RenderReportHTML(ctx context.Context, results runner.Results) (string, error) {
	var builder strings.Builder
	if err := ReportPage(results).Render(ctx, &builder); err != nil {
		return "", err
	}
	return builder.String(), nil
}

// WriteReport renders the report for results into path.
func WriteReport(ctx context.Context, path string, results runner.Results) error {
	html, err := RenderReportHTML(ctx, results)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
