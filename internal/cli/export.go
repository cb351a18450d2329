package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"recallscore/internal/duckdb"
)

func runExport(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file (default: search for .recallscore/config.yml)")
		outputDir := flags.String("output-dir", "", "Override output directory")
		dbPath := flags.String("db", "", "DuckDB database file (created when missing)")
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}
		if strings.TrimSpace(*dbPath) == "" {
			fmt.Fprintln(stderr, "--db is required")
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}
		ref, ok := optionalRef(cmd, flags, stderr)
		if !ok {
			return ExitUsage
		}

		_, results, _, err := loadRun(*configPath, *outputDir, ref)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load run: %v\n", err)
			return ExitError
		}

		ctx := context.Background()
		db, err := duckdb.Open(ctx, *dbPath)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to open database: %v\n", err)
			return ExitError
		}
		defer db.Close()

		summary, err := duckdb.IngestResults(ctx, db, results)
		if err != nil {
			fmt.Fprintf(stderr, "Export failed: %v\n", err)
			return ExitError
		}
		if summary.Skipped {
			fmt.Fprintf(stdout, "Run %s is already in %s\n", summary.RunID, *dbPath)
			return ExitOK
		}
		fmt.Fprintf(stdout, "Exported run %s to %s: %d sessions, %d trials, %d events\n",
			summary.RunID, *dbPath, summary.Sessions, summary.Trials, summary.Events)
		return ExitOK
	}
}
