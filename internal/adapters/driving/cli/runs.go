package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/accords-library/search-sync/internal/core/domain"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recent rebuild runs",
	Args:  cobra.NoArgs,
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 10, "maximum number of runs to show (0 = all)")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, _ []string) error {
	opts := configOptions(cmd, nil)
	opts.SkipValidate = true
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	store, closeFn, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	runs, err := store.List(cmd.Context(), runsLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		cmd.Println("No rebuild runs recorded.")
		cmd.Println("Run one with: search-sync rebuild")
		return nil
	}

	cmd.Println("Recent rebuilds:")
	cmd.Println()
	for i := range runs {
		printRun(cmd, &runs[i])
	}
	return nil
}

func printRun(cmd *cobra.Command, run *domain.RebuildRun) {
	cmd.Printf("  %s\n", run.ID)
	cmd.Printf("    Trigger: %s\n", run.Trigger)
	cmd.Printf("    Status: %s\n", run.Status)
	cmd.Printf("    Started: %s\n", run.StartedAt.Local().Format(time.RFC3339))
	if !run.FinishedAt.IsZero() {
		cmd.Printf("    Duration: %s\n", run.Duration().Round(time.Millisecond))
	}
	cmd.Printf("    Deleted indexes: %d\n", run.DeletedIndexes)
	cmd.Printf("    Documents: %d\n", run.Documents)
	if run.Error != "" {
		cmd.Printf("    Error: %s\n", run.Error)
	}
	cmd.Println()
}
