package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"recallscore/internal/report"
)

const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

type Command struct {
	Name    string
	Summary string
	Usage   []string
	Run     func(args []string, stdout, stderr io.Writer) int
}

func Run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stdout)
		return ExitUsage
	}
	if isHelpArg(args[0]) {
		printUsage(stdout)
		return ExitOK
	}

	cmd := findCommand(args[0])
	if cmd == nil {
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return ExitUsage
	}

	return cmd.Run(args[1:], stdout, stderr)
}

func findCommand(name string) *Command {
	for _, cmd := range commands {
		if cmd.Name == name {
			return cmd
		}
	}
	return nil
}

func isHelpArg(arg string) bool {
	switch arg {
	case "-h", "--help", "help":
		return true
	default:
		return false
	}
}

func wantsHelp(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "-h", "--help":
			return true
		}
	}
	return false
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  recallscore <command> [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, cmd := range commands {
		fmt.Fprintf(w, "  %-9s %s\n", cmd.Name, cmd.Summary)
	}
	fmt.Fprintln(w, "\nUse \"recallscore <command> --help\" for more information.")
}

func printCommandUsage(cmd *Command, w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	for _, line := range cmd.Usage {
		fmt.Fprintf(w, "  %s\n", line)
	}
	if cmd.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", cmd.Summary)
	}
}

// parseFlags parses args and reports the exit code to return when parsing ends the command.
func parseFlags(cmd *Command, flags *flag.FlagSet, args []string, stdout, stderr io.Writer) (int, bool) {
	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			printCommandUsage(cmd, stdout)
			return ExitOK, false
		}
		fmt.Fprintf(stderr, "invalid arguments: %v\n", err)
		printCommandUsage(cmd, stderr)
		return ExitUsage, false
	}
	return ExitOK, true
}

// optionalRef returns the single positional run ref, defaulting to the latest run.
func optionalRef(cmd *Command, flags *flag.FlagSet, stderr io.Writer) (string, bool) {
	switch flags.NArg() {
	case 0:
		return report.LatestRef, true
	case 1:
		return flags.Arg(0), true
	default:
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(flags.Args()[1:], " "))
		printCommandUsage(cmd, stderr)
		return "", false
	}
}

func command(name, summary string, usage []string, runner func(cmd *Command) func(args []string, stdout, stderr io.Writer) int) *Command {
	cmd := &Command{
		Name:    name,
		Summary: summary,
		Usage:   usage,
	}
	cmd.Run = runner(cmd)
	return cmd
}

var commands = []*Command{
	command("init", "Scaffold .recallscore/config.yml", []string{
		"recallscore init [--config <path>]",
	}, runInit),
	command("validate", "Validate .recallscore/config.yml", []string{
		"recallscore validate [--config <path>]",
	}, runValidate),
	command("score", "Score an experiment export and write bonuses", []string{
		"recallscore score [--config <path>] [--output-dir <dir>] [--verbose] [--no-color] [--no-report] <export.jsonl|export.json>",
	}, runScore),
	command("bonuses", "Print the bonus CSV of a run or of an export's recorded bonuses", []string{
		"recallscore bonuses [--config <path>] [--output-dir <dir>] [--out <file>] [run-id|path|latest]",
		"recallscore bonuses --recorded <export.jsonl> [--id-key <key>] [--bonus-key <key>] [--out <file>]",
	}, runBonuses),
	command("report", "Render the HTML report of a run", []string{
		"recallscore report [--config <path>] [--output-dir <dir>] [--out <file>] [run-id|path|latest]",
	}, runReport),
	command("browse", "Browse a run's sessions in the terminal", []string{
		"recallscore browse [--config <path>] [--output-dir <dir>] [--ui auto|live|plain] [--no-color] [run-id|path|latest]",
	}, runBrowse),
	command("serve", "Serve run reports and bonus files over HTTP", []string{
		"recallscore serve [--config <path>] [--output-dir <dir>] [--addr <host:port>] [--db <path>]",
	}, runServe),
	command("export", "Load a run into a DuckDB database", []string{
		"recallscore export --db <path> [--config <path>] [--output-dir <dir>] [run-id|path|latest]",
	}, runExport),
	command("payout", "Post a run's bonuses to the TigerBeetle ledger", []string{
		"recallscore payout [--config <path>] [--output-dir <dir>] [--dry-run] [run-id|path|latest]",
	}, runPayout),
}
