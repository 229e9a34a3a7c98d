package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"chorus/internal/history"
)

var historyRuns int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded executions and past runs",
	Long: `Show which tasks have a recorded execution and when they last ran.

Examples:
  chorus history
  chorus history --runs 20`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyRuns, "runs", 0, "Also show the N most recent engine runs")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := history.Open(cfg.History)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	records, err := store.List()
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No executions recorded.")
	} else {
		fmt.Printf("%-44s %-10s %-7s %s\n", "NAME", "TAG", "TYPE", "EXECUTED AT")
		for _, rec := range records {
			fmt.Printf("%-44s %-10s %-7s %s\n",
				rec.Name, dash(rec.Tag), rec.Type, rec.ExecutedAt.Format(time.RFC3339))
		}
	}

	if historyRuns > 0 {
		runs, err := store.Runs(historyRuns)
		if err != nil {
			return fmt.Errorf("failed to read runs: %w", err)
		}

		fmt.Printf("\n%-38s %-22s %9s %9s %9s\n", "RUN", "STARTED", "EXECUTED", "SKIPPED", "ERRORED")
		for _, run := range runs {
			fmt.Printf("%-38s %-22s %9d %9d %9d\n",
				run.ID, run.StartedAt.Format(time.RFC3339), run.Executed, run.Skipped, run.Errored)
		}
	}

	return nil
}
