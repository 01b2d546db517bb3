// Package engine runs the bank-reserves model: population setup, the
// stepping loop with its move/trade/balance phases, and the per-step
// statistics every step appends.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/talgya/bank-reserves/internal/agents"
	"github.com/talgya/bank-reserves/internal/bank"
	"github.com/talgya/bank-reserves/internal/config"
	"github.com/talgya/bank-reserves/internal/world"
)

// Every trade moves exactly one of these two amounts.
const (
	TradeHigh = 5
	TradeLow  = 2
)

// progressInterval is how many steps pass between progress log lines.
const progressInterval = 100

// Model owns the complete state of one run: grid, bank, population,
// scheduler, one seeded generator, and the statistics recorded so far.
// Models share nothing, so independent runs may execute concurrently.
type Model struct {
	Config config.Sim

	Grid *world.Grid
	Bank *bank.Bank

	// People is indexed by person ID.
	People []*agents.Person

	rng   *rand.Rand
	sched *Scheduler
	stats []StepStats
	step  int
}

// New validates cfg and builds a ready-to-step model. All randomness,
// including placement and optional wallet draws, comes from a single
// generator seeded with cfg.Seed; per person the draw order is x, y,
// then wallet.
func New(cfg config.Sim) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	m := &Model{
		Config: cfg,
		Grid:   world.NewGrid(cfg.Width, cfg.Height, cfg.Torus),
		Bank:   bank.New(cfg.ReserveRatio),
		People: make([]*agents.Person, 0, cfg.People),
		rng:    rng,
	}
	m.sched = NewScheduler(rng)

	for id := 0; id < cfg.People; id++ {
		pos := m.Grid.RandomPosition(rng)
		wallet := cfg.InitialCash
		if cfg.RandomWallets {
			wallet = 1 + rng.Intn(cfg.InitialCash)
		}
		m.Grid.Place(id, pos)
		m.People = append(m.People, agents.NewPerson(id, pos, wallet, m.Bank))
	}
	return m, nil
}

// Step advances the model one tick: every person is activated once in a
// fresh random order, then the step's statistics are recorded.
func (m *Model) Step() {
	m.step++
	m.sched.Step(m.People, m.activate)
	m.record()
}

// Run advances the model n steps, checking ctx between steps. A
// cancelled run stops at a step boundary, keeps the statistics recorded
// so far, and returns the context's error.
func (m *Model) Run(ctx context.Context, n int) error {
	slog.Debug("run started", "seed", m.Config.Seed, "people", len(m.People), "steps", n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			slog.Info("run cancelled", "seed", m.Config.Seed, "completed_steps", m.step)
			return err
		}
		m.Step()
		if m.step%progressInterval == 0 {
			last := m.stats[len(m.stats)-1]
			slog.Debug("run progress",
				"step", m.step,
				"money", last.TotalMoney,
				"loans", last.TotalLoans,
				"gini", last.Gini)
		}
	}
	slog.Debug("run complete", "seed", m.Config.Seed, "steps", m.step)
	return nil
}

// Stats returns the snapshots recorded so far, one per completed step,
// in step order. Callers must not mutate the returned slice.
func (m *Model) Stats() []StepStats {
	return m.stats
}

// CurrentStep returns the number of completed steps.
func (m *Model) CurrentStep() int {
	return m.step
}

// activate runs one person's activation: move, trade, balance books.
func (m *Model) activate(p *agents.Person) {
	m.move(p)
	m.trade(p)
	p.BalanceBooks(m.Config.RichThreshold)
}

// move relocates p to a random adjacent cell.
func (m *Model) move(p *agents.Person) {
	next := m.Grid.RandomAdjacent(p.Pos, m.rng)
	m.Grid.Move(p.ID, p.Pos, next)
	p.Pos = next
}

// trade runs the co-location lottery for p. The draw order is fixed:
// whether a trade happens, then the partner, then the amount. Payment
// settles inside Pay, so p's wallet is non-negative the moment the
// trade phase ends.
func (m *Model) trade(p *agents.Person) {
	others := m.Grid.Colocated(p.Pos, p.ID)
	if len(others) == 0 {
		return
	}
	if m.rng.Intn(2) != 0 {
		return
	}
	partner := m.People[others[m.rng.Intn(len(others))]]
	amount := TradeLow
	if m.rng.Intn(2) == 0 {
		amount = TradeHigh
	}
	p.Pay(partner, amount)
}

// record appends the completed step's snapshot, auditing the bank
// aggregates against a fresh sum over the population.
func (m *Model) record() {
	snap := StepStats{Step: m.step}
	holdings := make([]int, 0, len(m.People))
	var savings, loans int
	for _, p := range m.People {
		if p.Wallet < 0 {
			panic(fmt.Sprintf("engine: person %d ended step %d with negative wallet %d", p.ID, m.step, p.Wallet))
		}
		switch p.Class(m.Config.RichThreshold) {
		case agents.ClassRich:
			snap.Rich++
		case agents.ClassPoor:
			snap.Poor++
		default:
			snap.MiddleClass++
		}
		snap.TotalWallets += p.Wallet
		savings += p.Savings
		loans += p.Loans
		holdings = append(holdings, p.Wallet+p.Savings)
	}
	if savings != m.Bank.TotalSavings() || loans != m.Bank.TotalLoans() {
		panic(fmt.Sprintf("engine: ledger drift at step %d: people have %d/%d, bank says %d/%d",
			m.step, savings, loans, m.Bank.TotalSavings(), m.Bank.TotalLoans()))
	}
	snap.TotalSavings = savings
	snap.TotalLoans = loans
	snap.TotalMoney = snap.TotalWallets + savings
	snap.ReserveRequirement = m.Bank.ReserveRequirement()
	snap.Gini = Gini(holdings)
	m.stats = append(m.stats, snap)
}
