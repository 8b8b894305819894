package plugin

// Config carries the tunables shared by the arithmetic local-search core,
// mirroring the fields of the teacher's struct config in sls_arith_base.h.
// It is a plain struct with functional options rather than a config-file
// layer: this module is an in-process library consumed by a host, it never
// reads its own config from disk or environment.
type Config struct {
	// Cb is carried from the original's score-flattening constant; no
	// code in this module reads it.
	Cb float64
	// L and T are restart/temperature-style knobs carried from the
	// original; no code in this module reads them, in either reward mode.
	L int
	T int
	// MaxNoImprove is the number of consecutive non-improving repair
	// moves after which the outer loop gives up.
	MaxNoImprove int
	// Sp is carried from sls_arith_base.h's m_sp, a pure-random-walk-move
	// probability; like L and T, the original's own repair has no branch
	// that consults it, and neither does this module's Repair.
	Sp float64
	// DscoreMode toggles reward() between dscore_reward and dtt_reward.
	DscoreMode bool
	// EqPairFirstProb is the probability repair_eq tries solve_eq_pairs
	// before cm, per spec section 4.1's "with probability 1/10" rule.
	// The rate is not load-bearing; see spec section 9 open questions.
	EqPairFirstProb float64
	// MaxDoublingFactor bounds solve_eq_pairs' anti-blow-up heuristic:
	// a shifted solution is rejected if it exceeds this factor times the
	// current value in magnitude.
	MaxDoublingFactor float64
}

// DefaultConfig matches the teacher's defaults (L=20, t=45,
// max_no_improve=500000, sp=0.0003) plus the EQ-pair and blow-up knobs
// documented as open questions in spec section 9.
func DefaultConfig() Config {
	return Config{
		L:                 20,
		T:                 45,
		MaxNoImprove:      500000,
		Sp:                0.0003,
		EqPairFirstProb:   0.1,
		MaxDoublingFactor: 2.0,
	}
}

// Option mutates a Config in place.
type Option func(*Config)

// WithMaxNoImprove overrides the improvement-stall bound.
func WithMaxNoImprove(n int) Option {
	return func(c *Config) { c.MaxNoImprove = n }
}

// WithSp overrides Sp, carried from the original but not yet consulted by
// Repair.
func WithSp(sp float64) Option {
	return func(c *Config) { c.Sp = sp }
}

// WithDscoreMode toggles dscore-weighted rewards on.
func WithDscoreMode(on bool) Option {
	return func(c *Config) { c.DscoreMode = on }
}

// WithEqPairFirstProb overrides the repair_eq pre-attempt rate.
func WithEqPairFirstProb(p float64) Option {
	return func(c *Config) { c.EqPairFirstProb = p }
}

// Apply folds opts onto c and returns the result.
func (c Config) Apply(opts ...Option) Config {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
