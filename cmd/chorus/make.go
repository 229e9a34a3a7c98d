package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"chorus/internal/scaffold"
	"chorus/internal/task"
)

var (
	makeDescription string
	makeTag         string
	makePriority    int
	makeType        string
	makeSchedule    string
	makeRun         string
	makeHandler     string
	makePool        string
)

var makeCmd = &cobra.Command{
	Use:   "make <name>",
	Short: "Scaffold a new task file",
	Long: `Create a new task descriptor file in a pool directory. The filename
gets a sortable timestamp prefix so execution order follows creation
order.

Examples:
  chorus make seed-users --tag db --run "psql -f seed.sql"
  chorus make rotate-logs --type always --schedule "0 6 * * *"
  chorus make greet --handler hello`,
	Args: cobra.ExactArgs(1),
	RunE: runMake,
}

func init() {
	makeCmd.Flags().StringVar(&makeDescription, "description", "", "Human-readable description")
	makeCmd.Flags().StringVar(&makeTag, "tag", "", "Grouping tag")
	makeCmd.Flags().IntVar(&makePriority, "priority", 0, "Advisory priority (metadata only)")
	makeCmd.Flags().StringVar(&makeType, "type", "once", "Execution type: once or always")
	makeCmd.Flags().StringVar(&makeSchedule, "schedule", "", "5-field cron schedule")
	makeCmd.Flags().StringVar(&makeRun, "run", "", "Shell command for the run step")
	makeCmd.Flags().StringVar(&makeHandler, "handler", "", "Registered handler name instead of a run command")
	makeCmd.Flags().StringVar(&makePool, "pool", "", "Pool directory (default: first configured pool)")

	rootCmd.AddCommand(makeCmd)
}

func runMake(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dir := makePool
	if dir == "" {
		dir = cfg.Pools[0]
	}

	if makeType != string(task.Once) && makeType != string(task.Always) {
		return fmt.Errorf("invalid type %q: must be once or always", makeType)
	}
	if makeRun != "" && makeHandler != "" {
		return fmt.Errorf("--run and --handler are mutually exclusive")
	}

	path, err := scaffold.Generate(dir, scaffold.Options{
		Name:        args[0],
		Description: makeDescription,
		Tag:         makeTag,
		Priority:    makePriority,
		Type:        task.ExecutionType(makeType),
		Schedule:    makeSchedule,
		Run:         makeRun,
		Handler:     makeHandler,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created %s\n", path)
	return nil
}
