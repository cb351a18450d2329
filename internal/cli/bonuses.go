package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"recallscore/internal/runner"
)

// defaultBonusKey is the field the experiment writes its own bonus estimate to.
const defaultBonusKey = "bonus"

func runBonuses(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
		flags.SetOutput(stderr)
		configPath := flags.String("config", "", "Path to config file (default: search for .recallscore/config.yml)")
		outputDir := flags.String("output-dir", "", "Override output directory")
		outPath := flags.String("out", "", "Write the CSV to a file instead of stdout")
		recorded := flags.String("recorded", "", "Read the bonuses recorded in an export instead of a scored run")
		idKey := flags.String("id-key", "", "Participant id field for --recorded (default: participant_key)")
		bonusKey := flags.String("bonus-key", defaultBonusKey, "Bonus field for --recorded")
		if code, ok := parseFlags(cmd, flags, args, stdout, stderr); !ok {
			return code
		}

		var records []runner.BonusRecord
		if *recorded != "" {
			if flags.NArg() > 0 {
				fmt.Fprintln(stderr, "--recorded does not take a run ref")
				printCommandUsage(cmd, stderr)
				return ExitUsage
			}
			cfg, _, err := loadConfig(*configPath)
			if err != nil {
				fmt.Fprintf(stderr, "Failed to load config: %v\n", err)
				return ExitError
			}
			key := *idKey
			if key == "" {
				key = cfg.ParticipantKey
			}
			records, err = readRecordedBonuses(*recorded, key, *bonusKey, stderr)
			if err != nil {
				fmt.Fprintf(stderr, "Failed to read bonuses: %v\n", err)
				return ExitError
			}
		} else {
			ref, ok := optionalRef(cmd, flags, stderr)
			if !ok {
				return ExitUsage
			}
			_, results, _, err := loadRun(*configPath, *outputDir, ref)
			if err != nil {
				fmt.Fprintf(stderr, "Failed to load run: %v\n", err)
				return ExitError
			}
			records = runner.BonusRecords(results)
		}

		if err := writeBonuses(*outPath, stdout, records); err != nil {
			fmt.Fprintf(stderr, "Failed to write bonuses: %v\n", err)
			return ExitError
		}
		if *outPath != "" {
			fmt.Fprintf(stdout, "Wrote %d bonuses to %s\n", len(records), *outPath)
		}
		return ExitOK
	}
}

func readRecordedBonuses(path, idKey, bonusKey string, stderr io.Writer) ([]runner.BonusRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer file.Close()
	records, skipped, err := runner.ExtractRecordedBonuses(file, idKey, bonusKey)
	if err != nil {
		return nil, err
	}
	for _, line := range skipped {
		fmt.Fprintf(stderr, "skipped line %d: %s\n", line.Line, line.Reason)
	}
	return records, nil
}

func writeBonuses(path string, stdout io.Writer, records []runner.BonusRecord) error {
	if path == "" {
		return runner.WriteBonusCSV(stdout, records)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := runner.WriteBonusCSV(file, records); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
