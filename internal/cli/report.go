package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"path/filepath"

	"recallscore/internal/runner"
)

func runReport(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file (default: search for .recallscore/config.yml)")
		outputDir := flags.String("output-dir", "", "Override output directory")
		outPath := flags.String("out", "", "Report path (default: report.html in the run directory)")
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}
		ref, ok := optionalRef(cmd, flags, stderr)
		if !ok {
			return ExitUsage
		}

		_, results, runDir, err := loadRun(*configPath, *outputDir, ref)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load run: %v\n", err)
			return ExitError
		}
		target := *outPath
		if target == "" {
			target = filepath.Join(runDir, runner.ReportFileName)
		}
		if err := writeReport(context.Background(), target, results); err != nil {
			fmt.Fprintf(stderr, "Report failed: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "Report: %s\n", target)
		return ExitOK
	}
}
