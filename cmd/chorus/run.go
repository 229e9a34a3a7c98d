package main

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"chorus/internal/engine"
	"chorus/internal/history"
	"chorus/internal/task"
)

var (
	runTag     string
	runForce   bool
	runNoTrack bool
)

var runCmd = &cobra.Command{
	Use:   "run [task]",
	Short: "Execute all eligible tasks, or a single one by name",
	Long: `Execute every eligible task across the configured pools, in filename
order. With an argument, execute only the named task; the .task
extension is optional and --tag does not apply.

Examples:
  chorus run
  chorus run --tag db
  chorus run --force 2024_11_01_120000_seed
  chorus run --no-track`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runTag, "tag", "", "Only run tasks whose tag matches exactly")
	runCmd.Flags().BoolVar(&runForce, "force", false, "Re-run tasks already recorded as executed")
	runCmd.Flags().BoolVar(&runNoTrack, "no-track", false, "Neither consult nor update execution history")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	if len(args) == 1 && runTag != "" {
		return fmt.Errorf("--tag cannot be combined with a task name; the name already selects a single task")
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := history.Open(cfg.History)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	eng, err := engine.New(cfg.Pools, task.NewLoader(nil), store)
	if err != nil {
		return err
	}

	tracking := cfg.Tracking() && !runNoTrack
	eng.SetTracking(tracking)
	eng.SetForce(runForce)

	var summary *engine.Summary
	if len(args) == 1 {
		summary, err = eng.RunByName(cmd.Context(), args[0])
		if err != nil {
			if errors.Is(err, engine.ErrNotFound) {
				return fmt.Errorf("no task file matches %q in any pool", args[0])
			}
			return err
		}
	} else {
		summary = eng.Run(cmd.Context(), runTag)
	}

	if tracking {
		run := history.Run{
			StartedAt:  summary.StartedAt,
			FinishedAt: summary.FinishedAt,
			Executed:   len(summary.Executed),
			Skipped:    len(summary.Skipped),
			Errored:    len(summary.Errors),
		}
		if _, err := store.RecordRun(run); err != nil {
			log.Printf("[history] warning: failed to record run: %v", err)
		}
	}

	printSummary(summary)

	if !summary.Success() {
		return fmt.Errorf("%d task(s) failed", len(summary.Errors))
	}
	return nil
}

func printSummary(summary *engine.Summary) {
	for _, file := range summary.Executed {
		fmt.Printf("executed  %s\n", file)
	}
	for _, file := range summary.Skipped {
		fmt.Printf("skipped   %s\n", file)
	}
	for _, e := range summary.Errors {
		if e.Line > 0 {
			fmt.Printf("error     %s:%d: %s\n", e.File, e.Line, e.Message)
		} else {
			fmt.Printf("error     %s: %s\n", e.File, e.Message)
		}
	}

	fmt.Printf("\n%d executed, %d skipped, %d errored in %s\n",
		len(summary.Executed), len(summary.Skipped), len(summary.Errors),
		summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond))
}
