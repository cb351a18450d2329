package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"

	"recallscore/internal/report"
	"recallscore/internal/runner"
)

var (
	runAndWrite = runner.RunAndWrite
	writeReport = report.WriteReport
)

func runScore(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file (default: search for .recallscore/config.yml)")
		outputDir := flags.String("output-dir", "", "Override output directory")
		verbose := flags.Bool("verbose", false, "Log every session to stderr")
		noColor := flags.Bool("no-color", false, "Disable styled output")
		noReport := flags.Bool("no-report", false, "Skip report.html")
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}
		if flags.NArg() != 1 {
			fmt.Fprintln(stderr, "expected exactly one export file")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		exportPath := flags.Arg(0)

		cfg, projectRoot, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
			return ExitError
		}

		logger := newLogger(*verbose, stderr)
		defer func() {
			_ = logger.Sync()
		}()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		results, paths, err := runAndWrite(ctx, cfg, runner.RunParams{
			ExportPath: exportPath,
			OutputDir:  resolveOutputDir(*outputDir, cfg, projectRoot),
			ProjectDir: projectRoot,
			Deps:       runner.RunDependencies{Logger: logger},
		})
		if err != nil {
			fmt.Fprintf(stderr, "Scoring failed: %v\n", err)
			return ExitError
		}
		if !*noReport {
			if err := writeReport(ctx, paths.ReportPath(), results); err != nil {
				logger.Error("write report", zap.String("path", paths.ReportPath()), zap.Error(err))
				fmt.Fprintf(stderr, "Report failed: %v\n", err)
				return ExitError
			}
		}

		fmt.Fprintln(stdout, report.SummaryTable(results, !useColor(*noColor, stdout)))
		fmt.Fprintf(stdout, "Run %s completed\n", results.RunID)
		fmt.Fprintf(stdout, "Results: %s\n", paths.ResultsPath())
		fmt.Fprintf(stdout, "Bonuses: %s\n", paths.BonusesPath())
		if !*noReport {
			fmt.Fprintf(stdout, "Report: %s\n", paths.ReportPath())
		}
		if failed := results.Summary.SessionsFailed; failed > 0 {
			fmt.Fprintf(stderr, "%d session(s) could not be scored: %s\n", failed, strings.Join(failedParticipants(results), ", "))
		}
		return ExitOK
	}
}

func failedParticipants(results runner.Results) []string {
	var ids []string
	for _, session := range results.Sessions {
		if session.Status != runner.StatusFailed {
			continue
		}
		id := session.ParticipantID
		if id == "" {
			id = fmt.Sprintf("#%d", session.Index)
		}
		ids = append(ids, id)
	}
	return ids
}
