// Package export writes the batch results table.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/talgya/bank-reserves/internal/batch"
)

// Header is the column layout of the results table: the run's identity
// and configuration, then the per-step aggregates.
var Header = []string{
	"run_id", "width", "height", "people", "initial_cash", "rich_threshold",
	"reserve_ratio", "torus", "seed", "iteration",
	"step", "rich", "middle_class", "poor",
	"total_wallets", "total_savings", "total_loans", "total_money",
	"reserve_requirement", "gini",
}

// WriteCSV writes one row per recorded step of every run, in result
// order. The table is produced once, after the whole batch has finished;
// a failed run contributes the rows it recorded before failing.
func WriteCSV(path string, results []batch.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating results file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, res := range results {
		sim := res.Combo.Sim
		for _, snap := range res.Stats {
			row := []string{
				res.RunID,
				strconv.Itoa(sim.Width),
				strconv.Itoa(sim.Height),
				strconv.Itoa(sim.People),
				strconv.Itoa(sim.InitialCash),
				strconv.Itoa(sim.RichThreshold),
				strconv.FormatFloat(sim.ReserveRatio, 'g', -1, 64),
				strconv.FormatBool(sim.Torus),
				strconv.FormatInt(sim.Seed, 10),
				strconv.Itoa(res.Combo.Iteration),
				strconv.Itoa(snap.Step),
				strconv.Itoa(snap.Rich),
				strconv.Itoa(snap.MiddleClass),
				strconv.Itoa(snap.Poor),
				strconv.Itoa(snap.TotalWallets),
				strconv.Itoa(snap.TotalSavings),
				strconv.Itoa(snap.TotalLoans),
				strconv.Itoa(snap.TotalMoney),
				strconv.FormatFloat(snap.ReserveRequirement, 'g', -1, 64),
				strconv.FormatFloat(snap.Gini, 'g', -1, 64),
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("writing row for run %s step %d: %w", res.RunID, snap.Step, err)
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing results file: %w", err)
	}
	return nil
}
