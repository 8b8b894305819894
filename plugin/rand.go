package plugin

import "math/rand"

// Rand wraps a deterministic PRNG. The host owns the single instance and
// hands it to every core so that a whole search run is reproducible from one
// seed, the way the teacher's clause-deletion and restart heuristics derive
// all randomness from a single source.
type Rand struct {
	src *rand.Rand
}

// NewRand returns a Rand seeded deterministically.
func NewRand(seed int64) *Rand {
	return &Rand{src: rand.New(rand.NewSource(seed))}
}

// Intn returns a pseudo-random integer in [0, n).
func (r *Rand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return r.src.Intn(n)
}

// Float64 returns a pseudo-random float in [0, 1).
func (r *Rand) Float64() float64 {
	return r.src.Float64()
}

// Bool returns a pseudo-random coin flip.
func (r *Rand) Bool() bool {
	return r.src.Intn(2) == 0
}

// Sign returns -1 or 1 with equal probability.
func (r *Rand) Sign() int {
	if r.Bool() {
		return 1
	}
	return -1
}
