package main

import (
	"github.com/spf13/cobra"

	"chorus/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "chorus",
	Short: "Run file-discovered tasks in order, once or on schedule",
	Long: `chorus discovers task files across configured pool directories and
executes the eligible ones in filename order.

Task files are YAML descriptors with a .task extension. Each carries a
tag, a priority, an execution type (once or always), an optional cron
schedule, and up to three lifecycle steps: before, run, after. Run-once
tasks are skipped after their first recorded completion; run-always
tasks execute on every invocation.

  - run       Execute all eligible tasks, or a single one by name
  - list      Show discovered tasks and their status
  - history   Show recorded executions and past runs
  - make      Scaffold a new task file`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ./.chorus/config.yaml)")
}

// loadConfig reads the configuration honoring the --config flag.
func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}
