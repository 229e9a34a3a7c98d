package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"chorus/internal/engine"
	"chorus/internal/history"
	"chorus/internal/task"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show discovered tasks and their status",
	Long: `List every task file discovered across the configured pools, in the
order the engine would execute them, with metadata and whether each
has a recorded execution.

Example:
  chorus list`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := history.Open(cfg.History)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	loader := task.NewLoader(nil)
	eng, err := engine.New(cfg.Pools, loader, store)
	if err != nil {
		return err
	}

	files := eng.Discovered()
	if len(files) == 0 {
		fmt.Println("No task files found.")
		for _, pool := range cfg.Pools {
			fmt.Printf("  pool: %s\n", pool)
		}
		return nil
	}

	fmt.Printf("%-44s %-10s %-7s %-14s %-9s %s\n", "FILE", "TAG", "TYPE", "SCHEDULE", "STATUS", "DESCRIPTION")
	for _, path := range files {
		file := filepath.Base(path)

		t, err := loader.Load(path)
		if err != nil {
			fmt.Printf("%-44s %-10s %-7s %-14s %-9s %v\n", file, "-", "-", "-", "invalid", err)
			continue
		}
		if !t.Runnable() {
			fmt.Printf("%-44s %-10s %-7s %-14s %-9s %s\n", file, dash(t.Tag()), string(t.Type()), dash(t.Schedule()), "no-op", t.Description())
			continue
		}

		status := "pending"
		if executed, err := store.HasExecuted(t.Name()); err == nil && executed {
			status = "executed"
		}

		fmt.Printf("%-44s %-10s %-7s %-14s %-9s %s\n",
			file, dash(t.Tag()), string(t.Type()), dash(t.Schedule()), status, t.Description())
	}

	return nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
