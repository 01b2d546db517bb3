package engine

import (
	"math/rand"

	"github.com/talgya/bank-reserves/internal/agents"
)

// Scheduler activates the whole population once per step, in a random
// order drawn fresh each step. It shares the model's generator, so a
// seeded run replays the same activation orders.
type Scheduler struct {
	rng *rand.Rand
}

// NewScheduler creates a scheduler drawing activation orders from rng.
func NewScheduler(rng *rand.Rand) *Scheduler {
	return &Scheduler{rng: rng}
}

// Step activates every person exactly once in a fresh permutation. No
// person is skipped or activated twice.
func (s *Scheduler) Step(people []*agents.Person, activate func(*agents.Person)) {
	for _, i := range s.rng.Perm(len(people)) {
		activate(people[i])
	}
}
