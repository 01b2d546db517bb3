// Package batch sweeps the parameter space: it expands a sweep
// description into independent runs, executes them on a worker pool, and
// collects their statistics in a deterministic order.
package batch

import "github.com/talgya/bank-reserves/internal/config"

// Combo is one point in the sweep: a full single-run configuration plus
// its position in enumeration order.
type Combo struct {
	Index     int
	Iteration int
	Sim       config.Sim
}

// Enumerate expands the sweep into per-run configurations. The order is
// fixed: grid size, agent count, reserve ratio, initial cash, rich
// threshold, iteration, with the last axis moving fastest. Iteration i
// runs with seed BaseSeed+i.
func Enumerate(b config.Batch) []Combo {
	combos := make([]Combo, 0, b.Combinations()*b.Iterations)
	for _, gs := range b.GridSizes {
		for _, people := range b.AgentCounts {
			for _, ratio := range b.ReserveRatios {
				for _, cash := range b.InitialCash {
					for _, rich := range b.RichThresholds {
						for it := 0; it < b.Iterations; it++ {
							combos = append(combos, Combo{
								Index:     len(combos),
								Iteration: it,
								Sim: config.Sim{
									Width:         gs.Width,
									Height:        gs.Height,
									People:        people,
									InitialCash:   cash,
									RandomWallets: b.RandomWallets,
									RichThreshold: rich,
									ReserveRatio:  ratio,
									Steps:         b.Steps,
									Seed:          b.BaseSeed + int64(it),
									Torus:         b.Torus,
								},
							})
						}
					}
				}
			}
		}
	}
	return combos
}
