package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/talgya/bank-reserves/internal/batch"
	"github.com/talgya/bank-reserves/internal/config"
	"github.com/talgya/bank-reserves/internal/engine"
	"github.com/talgya/bank-reserves/internal/entropy"
	"github.com/talgya/bank-reserves/internal/export"
	"github.com/talgya/bank-reserves/internal/persistence"
)

func newRunCmd() *cobra.Command {
	cfg := config.DefaultSim()
	var csvPath, dbPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a single simulation",
		Long: `Run one simulation and print the final state of the economy.

A seed of 0 picks a fresh one; the seed actually used is always logged
so the run can be reproduced.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Seed == 0 {
				cfg.Seed = entropy.Seed()
			}

			m, err := engine.New(cfg)
			if err != nil {
				return err
			}

			slog.Info("run starting",
				"grid", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
				"people", cfg.People,
				"reserve_ratio", cfg.ReserveRatio,
				"steps", cfg.Steps,
				"seed", cfg.Seed,
			)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			start := time.Now()
			status := batch.StatusOK
			if err := m.Run(ctx, cfg.Steps); err != nil {
				if !errors.Is(err, context.Canceled) {
					return err
				}
				slog.Info("run interrupted, keeping the steps recorded so far",
					"steps_recorded", m.CurrentStep())
				status = batch.StatusCancelled
			} else {
				slog.Info("run finished",
					"steps", m.CurrentStep(),
					"elapsed", time.Since(start).Round(time.Millisecond))
			}

			stats := m.Stats()
			if len(stats) > 0 {
				last := stats[len(stats)-1]
				fmt.Printf("after %d steps: %d rich, %d middle class, %d poor\n",
					last.Step, last.Rich, last.MiddleClass, last.Poor)
				fmt.Printf("money supply $%d ($%d wallets, $%d savings, $%d loans), gini %.3f\n",
					last.TotalMoney, last.TotalWallets, last.TotalSavings, last.TotalLoans, last.Gini)
			}

			result := batch.Result{
				RunID:  uuid.NewString(),
				Combo:  batch.Combo{Sim: cfg},
				Stats:  stats,
				Status: status,
			}

			if csvPath != "" {
				if err := export.WriteCSV(csvPath, []batch.Result{result}); err != nil {
					return fmt.Errorf("writing csv: %w", err)
				}
				slog.Info("snapshots exported", "path", csvPath, "steps", len(stats))
			}

			if dbPath != "" {
				db, err := persistence.Open(dbPath)
				if err != nil {
					return fmt.Errorf("opening database: %w", err)
				}
				defer db.Close()
				if err := db.SaveResult(result); err != nil {
					return fmt.Errorf("saving run: %w", err)
				}
				slog.Info("run saved", "path", dbPath, "run_id", result.RunID)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&cfg.Width, "width", cfg.Width, "Grid width")
	cmd.Flags().IntVar(&cfg.Height, "height", cfg.Height, "Grid height")
	cmd.Flags().IntVar(&cfg.People, "people", cfg.People, "Number of people")
	cmd.Flags().IntVar(&cfg.InitialCash, "initial-cash", cfg.InitialCash, "Starting wallet per person")
	cmd.Flags().BoolVar(&cfg.RandomWallets, "random-wallets", cfg.RandomWallets, "Draw starting wallets uniformly from [1, initial-cash]")
	cmd.Flags().IntVar(&cfg.RichThreshold, "rich-threshold", cfg.RichThreshold, "Working cash level; savings above it count as rich")
	cmd.Flags().Float64Var(&cfg.ReserveRatio, "reserve-ratio", cfg.ReserveRatio, "Fraction of savings reported as required reserves")
	cmd.Flags().IntVar(&cfg.Steps, "steps", cfg.Steps, "Steps to run")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed (0 picks one)")
	cmd.Flags().BoolVar(&cfg.Torus, "torus", cfg.Torus, "Wrap grid edges instead of clipping moves")
	cmd.Flags().StringVar(&csvPath, "csv", "", "Write per-step snapshots to this CSV file")
	cmd.Flags().StringVar(&dbPath, "db", "", "Save the run to this SQLite database")

	return cmd
}
