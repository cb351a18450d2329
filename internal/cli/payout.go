package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"recallscore/internal/experiment"
	"recallscore/internal/ledger"
)

// payoutTimeout bounds a posting attempt against an unreachable cluster.
const payoutTimeout = 30 * time.Second

var dialLedger = func(cfg experiment.LedgerConfig) (ledger.Ledger, error) {
	return ledger.Dial(cfg)
}

func runPayout(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file (default: search for .recallscore/config.yml)")
		outputDir := flags.String("output-dir", "", "Override output directory")
		dryRun := flags.Bool("dry-run", false, "Print the planned transfers without posting them")
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}
		ref, ok := optionalRef(cmd, flags, stderr)
		if !ok {
			return ExitUsage
		}

		cfg, results, _, err := loadRun(*configPath, *outputDir, ref)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to load run: %v\n", err)
			return ExitError
		}
		plan, err := ledger.PlanPayouts(cfg.Ledger, results)
		if err != nil {
			fmt.Fprintf(stderr, "Payout failed: %v\n", err)
			return ExitError
		}
		printPlan(stdout, cfg.Ledger, plan)
		if len(plan.Duplicates) > 0 {
			fmt.Fprintf(stderr, "Paying only the first session of: %s\n", strings.Join(plan.Duplicates, ", "))
		}
		if *dryRun || len(plan.Payouts) == 0 {
			return ExitOK
		}

		client, err := dialLedger(cfg.Ledger)
		if err != nil {
			fmt.Fprintf(stderr, "Failed to connect to ledger: %v\n", err)
			return ExitError
		}
		defer client.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		ctx, cancel := context.WithTimeout(ctx, payoutTimeout)
		defer cancel()

		summary, err := ledger.PostPayouts(ctx, client, cfg.Ledger, plan)
		if err != nil {
			fmt.Fprintf(stderr, "Payout failed: %v\n", err)
			return ExitError
		}
		fmt.Fprintf(stdout, "Posted %d payouts (%s), %d already paid\n",
			summary.Posted, formatMinor(summary.Amount, cfg.Ledger.Scale), summary.AlreadyPaid)
		if len(summary.Conflicts) > 0 {
			for _, conflict := range summary.Conflicts {
				fmt.Fprintf(stderr, "conflict for %s: %s\n", conflict.ParticipantID, conflict.Result)
			}
			return ExitError
		}
		return ExitOK
	}
}

func printPlan(w io.Writer, cfg experiment.LedgerConfig, plan ledger.Plan) {
	fmt.Fprintf(w, "Run %s: %d payouts from %q\n", plan.RunID, len(plan.Payouts), cfg.FundingAccount)
	for _, payout := range plan.Payouts {
		fmt.Fprintf(w, "  %-24s %10s\n", payout.ParticipantID, formatMinor(payout.Amount, cfg.Scale))
	}
	fmt.Fprintf(w, "  %-24s %10s\n", "total", formatMinor(plan.Total, cfg.Scale))
	if len(plan.Zero) > 0 {
		fmt.Fprintf(w, "No bonus: %s\n", strings.Join(plan.Zero, ", "))
	}
}

// formatMinor renders minor units in major units with as many decimals as the scale needs.
func formatMinor(amount uint64, scale int64) string {
	if scale <= 1 {
		return strconv.FormatUint(amount, 10)
	}
	digits := len(strconv.FormatInt(scale-1, 10))
	return strconv.FormatFloat(float64(amount)/float64(scale), 'f', digits, 64)
}
