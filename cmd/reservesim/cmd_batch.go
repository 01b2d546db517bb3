package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/talgya/bank-reserves/internal/batch"
	"github.com/talgya/bank-reserves/internal/config"
	"github.com/talgya/bank-reserves/internal/entropy"
	"github.com/talgya/bank-reserves/internal/export"
	"github.com/talgya/bank-reserves/internal/persistence"
)

func newBatchCmd() *cobra.Command {
	var (
		configPath string
		output     string
		database   string
		workers    int
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run a parameter sweep",
		Long: `Run every combination of the parameter axes in a sweep file and write
one CSV with the per-step snapshots of every run. Interrupting the sweep
keeps the runs finished so far and marks the remainder cancelled.

Example sweep file:

  grid_sizes:
    - {width: 10, height: 10}
    - {width: 20, height: 20}
  agent_counts: [25, 50]
  reserve_ratios: [0.1, 0.5]
  steps: 500
  iterations: 3
  output: reserves.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadBatch(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("output") {
				cfg.Output = output
			}
			if cmd.Flags().Changed("db") {
				cfg.Database = database
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = workers
			}
			if cfg.BaseSeed == 0 {
				cfg.BaseSeed = entropy.Seed()
				slog.Info("base seed picked", "base_seed", cfg.BaseSeed)
			}

			runner, err := batch.NewRunner(cfg, slog.Default())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			results, runErr := runner.Run(ctx)
			if runErr != nil && !errors.Is(runErr, context.Canceled) {
				return runErr
			}

			if err := export.WriteCSV(cfg.Output, results); err != nil {
				return fmt.Errorf("writing csv: %w", err)
			}

			if cfg.Database != "" {
				db, err := persistence.Open(cfg.Database)
				if err != nil {
					return fmt.Errorf("opening database: %w", err)
				}
				defer db.Close()
				if err := db.SaveBatch(results); err != nil {
					return fmt.Errorf("saving batch: %w", err)
				}
			}

			ok, failed, cancelled := batch.Summarize(results)
			fmt.Printf("sweep finished: %d ok, %d failed, %d cancelled\n", ok, failed, cancelled)
			fmt.Printf("snapshots written to %s\n", cfg.Output)

			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "sweep.yaml", "Sweep description file")
	cmd.Flags().StringVar(&output, "output", "", "Override the sweep file's CSV output path")
	cmd.Flags().StringVar(&database, "db", "", "Also save runs to this SQLite database")
	cmd.Flags().IntVar(&workers, "workers", 0, "Override the number of parallel workers")

	return cmd
}
