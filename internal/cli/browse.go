package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"recallscore/internal/report"
	"recallscore/internal/ui/browse"
)

var runBrowser = browse.Run

// browseInput allows tests to replace the terminal input of the browser.
var browseInput io.Reader = os.Stdin

func runBrowse(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file (default: search for .recallscore/config.yml)")
		outputDir := flags.String("output-dir", "", "Override output directory")
		uiMode := flags.String("ui", "auto", "auto|live|plain")
		noColor := flags.Bool("no-color", false, "Disable styled output")
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}
		ref, ok := optionalRef(cmd, flags, stderr)
		if !ok {
			return ExitUsage
		}
		decision, err := resolveUIMode(*uiMode, stdout)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return ExitUsage
		}
		if decision.warning != "" {
			fmt.Fprintln(stderr, decision.warning)
		}

		_, results, _, err := loadRun(*configPath, *outputDir, ref)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load run: %v\n", err)
			return ExitError
		}
		plain := !useColor(*noColor, stdout)
		if !decision.useLive {
			fmt.Fprintln(stdout, report.SummaryTable(results, plain))
			return ExitOK
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := runBrowser(ctx, results, browseInput, stdout, plain); err != nil {
			fmt.Fprintf(stderr, "Browser failed: %v\n", err)
			return ExitError
		}
		return ExitOK
	}
}
