package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/accords-library/search-sync/internal/adapters/driving/tui"
	"github.com/accords-library/search-sync/internal/config"
	"github.com/accords-library/search-sync/internal/core/domain"
	"github.com/accords-library/search-sync/internal/core/ports/driving"
	"github.com/accords-library/search-sync/internal/logger"
)

var (
	rebuildBatchSize int
	rebuildNoTUI     bool
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Wipe every index and rebuild the search index",
	Long: `Deletes every index of the Meilisearch instance, recreates the search
index with its settings and fills it with one document per content item and
language fetched from the Payload CMS.

A progress view is shown when stdout is a terminal.`,
	Args: cobra.NoArgs,
	RunE: runRebuild,
}

func init() {
	rebuildCmd.Flags().IntVar(&rebuildBatchSize, "batch-size", 0, "submit documents in chunks of this size (0 = one request)")
	rebuildCmd.Flags().BoolVar(&rebuildNoTUI, "no-tui", false, "print plain progress lines instead of the progress view")
	rootCmd.AddCommand(rebuildCmd)
}

func runRebuild(cmd *cobra.Command, _ []string) error {
	o := &config.Overrides{}
	if cmd.Flags().Changed("batch-size") {
		o.BatchSize = &rebuildBatchSize
	}
	cfg, err := loadConfig(configOptions(cmd, o))
	if err != nil {
		return err
	}

	rebuilder, closeFn, err := openRebuilder(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx := cmd.Context()
	if !rebuildNoTUI && isTerminal(cmd.OutOrStdout()) {
		return rebuildWithTUI(ctx, cmd, rebuilder)
	}
	return rebuildWithProgress(ctx, cmd, rebuilder)
}

// rebuildWithTUI runs the rebuild behind the progress view. Log lines are
// held back until the view exits.
func rebuildWithTUI(ctx context.Context, cmd *cobra.Command, rebuilder driving.Rebuilder) error {
	model, err := tui.NewApp(&tui.Ports{Rebuilder: rebuilder}, domain.TriggerManual)
	if err != nil {
		return err
	}
	model.WithContext(ctx)

	var logs bytes.Buffer
	logger.SetOutput(&logs)
	runErr := runProgram(model, cmd.OutOrStdout())
	logger.SetOutput(os.Stderr)
	_, _ = logs.WriteTo(cmd.ErrOrStderr())

	if runErr != nil {
		return fmt.Errorf("TUI error: %w", runErr)
	}
	if !model.Done() {
		return fmt.Errorf("rebuild interrupted")
	}
	if err := model.Err(); err != nil {
		return fmt.Errorf("rebuild failed: %w", err)
	}
	printRunSummary(cmd, model.Run())
	return nil
}

// rebuildWithProgress runs the rebuild while printing progress updates.
func rebuildWithProgress(ctx context.Context, cmd *cobra.Command, rebuilder driving.Rebuilder) error {
	cmd.Println("Rebuilding search index...")

	type result struct {
		run *domain.RebuildRun
		err error
	}
	done := make(chan result, 1)
	go func() {
		run, err := rebuilder.Rebuild(ctx, domain.TriggerManual)
		done <- result{run, err}
	}()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	lastProcessed := -1
	for {
		select {
		case res := <-done:
			if lastProcessed >= 0 {
				cmd.Println()
			}
			if res.err != nil {
				return fmt.Errorf("rebuild failed: %w", res.err)
			}
			printRunSummary(cmd, res.run)
			return nil
		case <-ticker.C:
			// Best effort: a status error only skips one update.
			status, err := rebuilder.Status(ctx)
			if err != nil || status == nil || status.ItemsTotal == 0 {
				continue
			}
			if status.ItemsProcessed != lastProcessed {
				cmd.Printf("\rTransforming... %d/%d items, %d documents",
					status.ItemsProcessed, status.ItemsTotal, status.Documents)
				lastProcessed = status.ItemsProcessed
			}
		}
	}
}

func printRunSummary(cmd *cobra.Command, run *domain.RebuildRun) {
	if run == nil {
		cmd.Println("Search index rebuilt.")
		return
	}
	cmd.Printf("Search index rebuilt: %d documents, %d indexes deleted, %s (run %s).\n",
		run.Documents, run.DeletedIndexes, run.Duration().Round(time.Millisecond), run.ID)
}
