package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"recallscore/internal/reportserver"
)

// DefaultServeAddr is the listen address for serve.
const DefaultServeAddr = "127.0.0.1:8080"

var serveReports = reportserver.Serve

func runServe(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file (default: search for .recallscore/config.yml)")
		outputDir := flags.String("output-dir", "", "Override output directory")
		addr := flags.String("addr", DefaultServeAddr, "Listen address")
		dbPath := flags.String("db", "", "Also serve this DuckDB export at /data/db.duckdb")
		verbose := flags.Bool("verbose", false, "Log requests that fail to stderr")
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}
		if flags.NArg() > 0 {
			fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(flags.Args(), " "))
			printCommandUsage(cmd, stderr)
			return ExitUsage
		}

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
		serveCfg := reportserver.Config{
			Addr:      *addr,
			OutputDir: resolveOutputDir(*outputDir, cfg, projectRoot),
			DBPath:    *dbPath,
			Logger:    logger,
		}
		fmt.Fprintf(stdout, "Serving %s on http://%s\n", serveCfg.OutputDir, serveCfg.Addr)
		if err := serveReports(ctx, serveCfg); err != nil {
			fmt.Fprintf(stderr, "Serve failed: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}
