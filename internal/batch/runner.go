package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/talgya/bank-reserves/internal/config"
	"github.com/talgya/bank-reserves/internal/engine"
)

// Run outcome statuses.
const (
	StatusOK        = "ok"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// Result is the outcome of one run: its identity, the configuration that
// produced it, and the statistics recorded up to completion or failure.
type Result struct {
	RunID  string
	Combo  Combo
	Stats  []engine.StepStats
	Status string
	Err    string
}

// runFunc executes a single configured run. Swapped out in tests.
type runFunc func(ctx context.Context, sim config.Sim) ([]engine.StepStats, error)

// Runner executes a sweep across a bounded worker pool. Each run owns
// its model outright, so workers share nothing but the results slice,
// which they write at disjoint indexes.
type Runner struct {
	cfg config.Batch
	log *slog.Logger
	run runFunc
}

// NewRunner validates the sweep and builds a runner.
func NewRunner(cfg config.Batch, log *slog.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid sweep: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Runner{cfg: cfg, log: log, run: runSim}, nil
}

// Run executes every combination and iteration of the sweep and returns
// the results in enumeration order, regardless of how workers were
// scheduled. A failing run is recorded and the rest of the sweep still
// completes. On cancellation the remaining runs are marked cancelled and
// the context's error is returned alongside the results so far.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	combos := Enumerate(r.cfg)
	results := make([]Result, len(combos))

	workers := r.cfg.Workers
	if workers > len(combos) {
		workers = len(combos)
	}

	r.log.Info("batch started",
		"combinations", r.cfg.Combinations(),
		"iterations", r.cfg.Iterations,
		"runs", len(combos),
		"workers", workers)

	jobs := make(chan Combo)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for combo := range jobs {
				results[combo.Index] = r.runOne(ctx, combo)
			}
		}()
	}

dispatch:
	for _, combo := range combos {
		select {
		case jobs <- combo:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	// Runs that were never dispatched get an explicit cancelled record.
	for i := range results {
		if results[i].RunID == "" {
			results[i] = Result{
				RunID:  uuid.NewString(),
				Combo:  combos[i],
				Status: StatusCancelled,
				Err:    context.Canceled.Error(),
			}
		}
	}

	ok, failed, cancelled := Summarize(results)
	r.log.Info("batch finished", "ok", ok, "failed", failed, "cancelled", cancelled)
	return results, ctx.Err()
}

// Summarize counts results by status.
func Summarize(results []Result) (ok, failed, cancelled int) {
	for _, res := range results {
		switch res.Status {
		case StatusOK:
			ok++
		case StatusFailed:
			failed++
		case StatusCancelled:
			cancelled++
		}
	}
	return ok, failed, cancelled
}

// runOne executes a single combo and classifies its outcome.
func (r *Runner) runOne(ctx context.Context, combo Combo) Result {
	res := Result{
		RunID:  uuid.NewString(),
		Combo:  combo,
		Status: StatusOK,
	}

	stats, err := r.run(ctx, combo.Sim)
	res.Stats = stats
	switch {
	case err == nil:
		r.log.Debug("run ok", "run", res.RunID, "seed", combo.Sim.Seed, "steps", len(stats))
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		res.Status = StatusCancelled
		res.Err = err.Error()
		r.log.Info("run cancelled", "run", res.RunID, "seed", combo.Sim.Seed, "completed_steps", len(stats))
	default:
		res.Status = StatusFailed
		res.Err = err.Error()
		r.log.Error("run failed", "run", res.RunID, "seed", combo.Sim.Seed, "err", err)
	}
	return res
}

// runSim builds and runs one model. A panic inside the model is a
// defect in that run alone: it is converted into an error here, keeping
// the statistics recorded before the failure, so the rest of the batch
// is unaffected.
func runSim(ctx context.Context, sim config.Sim) (stats []engine.StepStats, err error) {
	var m *engine.Model
	defer func() {
		if rec := recover(); rec != nil {
			if m != nil {
				stats = m.Stats()
			}
			err = fmt.Errorf("run panicked: %v", rec)
		}
	}()

	m, err = engine.New(sim)
	if err != nil {
		return nil, err
	}
	if err := m.Run(ctx, sim.Steps); err != nil {
		return m.Stats(), err
	}
	return m.Stats(), nil
}
