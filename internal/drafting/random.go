package drafting

import (
	"math/rand/v2"
	"sync"
)

// RandomSource yields uniform integers in [0, n). Implementations must be safe
// for concurrent use because both length variants are drafted in parallel.
type RandomSource interface {
	IntN(n int) int
}

// LockedRand serializes access to a math/rand/v2 generator
type LockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSeededSource returns a deterministic source for tests and reproducible runs
func NewSeededSource(seed uint64) *LockedRand {
	return &LockedRand{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// IntN implements RandomSource
func (r *LockedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// DefaultSource returns the process-wide unseeded source
func DefaultSource() RandomSource {
	return globalSource{}
}
