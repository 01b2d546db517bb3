// Command reservesim runs the bank reserves agent-based simulation.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/talgya/bank-reserves/internal/logging"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "reservesim",
		Short: "Agent-based bank reserves simulation",
		Long: `reservesim runs an agent-based model of a toy economy with a single
fractional-reserve bank. People wander a grid, trade with whoever shares
their cell, and settle up with the bank after every trade.

Run one simulation with "run", or sweep a parameter space with "batch".`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("log-level")
			level, err := logging.ParseLevel(name)
			if err != nil {
				return err
			}
			slog.SetDefault(logging.NewLogger(level, os.Stderr))
			return nil
		},
	}

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newBatchCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("reservesim version %s\n", version)
		},
	}
}
