package arith

import (
	"fmt"
	"math/big"

	"github.com/nbjorner/smtcore/plugin"
)

// Value is the numeric capability spec section 9's "template over numeric
// type" design note asks for: an abstract interface exposing +, -, *, /,
// floor div, gcd, abs, comparison and a lossy Float64 conversion, so the
// engine below is written once and instantiated over two concrete types.
// Modulus and integer square root are not methods of Value: the engine
// derives them from these operations, and there is no exact conversion of a
// value to a rational.
//
// Arithmetic methods return a plain T rather than (T, error): the checked
// 64-bit instantiation instead panics with an overflowPanic on range
// violation, recovered at the Engine's entry points (Repair, RepairUp,
// RepairDown) and converted there into a plugin.Error{Kind: KindOverflow}.
// That recover point is this module's "result sum type... propagated
// through update and the outer loop" from spec section 9 — placed at the
// idiomatic Go panic/recover boundary instead of threaded through every
// arithmetic call, which would otherwise turn every linear-term evaluation
// into an error-checking ladder for an event the Rational instantiation can
// never raise at all.
type Value[T any] interface {
	Add(T) T
	Sub(T) T
	Mul(T) T
	Neg() T
	Abs() T
	Cmp(T) int
	Sign() int
	IsZero() bool
	Equal(T) bool
	String() string
	// FloorDiv returns floor(a/b). b must be non-zero.
	FloorDiv(b T) T
	// Quo returns a/b: true division for Rational, and integer division
	// truncated toward zero for Int64 (exact only when b divides a).
	Quo(b T) T
	// CeilDivAbs returns ceil(|a| / |b|). b must be non-zero.
	CeilDivAbs(b T) T
	// Gcd returns (g, x, y) with g = a*x + b*y and g >= 0, the extended
	// Euclidean data solve_eq_pairs needs (spec section 4.1).
	Gcd(b T) (g, x, y T)
	// MulInt scales by a small machine integer (used for jitter/epsilon).
	MulInt(k int64) T
	// AddInt offsets by a small machine integer.
	AddInt(k int64) T
	// Float64 is a lossy approximation used only for reward-function
	// probability weighting, never for the exact arithmetic invariants
	// of spec section 8.1.
	Float64() float64
}

// Factory constructs values of a Value instantiation. Needed because Go has
// no notion of a "static" constructor reachable from a type parameter alone.
type Factory[T Value[T]] interface {
	Zero() T
	One() T
	FromInt64(n int64) (T, error)
}

// overflowPanic is the internal control-transfer value Int64 arithmetic
// panics with; Engine recovers it at its public entry points.
type overflowPanic struct{ op string }

func overflow(op string) { panic(overflowPanic{op: op}) }

// recoverOverflow converts a recovered overflowPanic into a structural
// error, or re-panics anything else (a genuine programmer error). It goes
// through Wrap rather than Newf so the op that overflowed survives as the
// wrapped error's own message, the same split Notation-gscanner keeps
// between the low-level failure and the Kind-tagged error around it.
func recoverOverflow(errp *error) {
	if r := recover(); r != nil {
		if op, ok := r.(overflowPanic); ok {
			*errp = plugin.Wrap(plugin.KindOverflow, fmt.Errorf("%s overflowed its 64-bit range", op.op), "arithmetic overflow")
			return
		}
		panic(r)
	}
}

// --- Int64: bounded, checked 64-bit integer instantiation ---

// Int64 is the checked fixed-width integer instantiation of Value, the
// analogue of checked_int64<true>. Every operation that would leave the
// int64 range panics via overflow(), to be recovered at the engine boundary.
type Int64 struct{ v int64 }

// NewInt64 wraps n with no range check (n is already a valid int64).
func NewInt64(n int64) Int64 { return Int64{v: n} }

func (a Int64) Int64Value() int64 { return a.v }

func (a Int64) Add(b Int64) Int64 {
	s := a.v + b.v
	if (b.v > 0 && s < a.v) || (b.v < 0 && s > a.v) {
		overflow("add")
	}
	return Int64{v: s}
}

func (a Int64) Sub(b Int64) Int64 {
	if b.v == minInt64 {
		overflow("sub")
	}
	return a.Add(Int64{v: -b.v})
}

func (a Int64) Mul(b Int64) Int64 {
	if a.v == 0 || b.v == 0 {
		return Int64{}
	}
	p := a.v * b.v
	if p/b.v != a.v {
		overflow("mul")
	}
	return Int64{v: p}
}

func (a Int64) Neg() Int64 {
	if a.v == minInt64 {
		overflow("neg")
	}
	return Int64{v: -a.v}
}

func (a Int64) Abs() Int64 {
	if a.v < 0 {
		return a.Neg()
	}
	return a
}

func (a Int64) Cmp(b Int64) int {
	switch {
	case a.v < b.v:
		return -1
	case a.v > b.v:
		return 1
	default:
		return 0
	}
}

func (a Int64) Sign() int {
	switch {
	case a.v < 0:
		return -1
	case a.v > 0:
		return 1
	default:
		return 0
	}
}

func (a Int64) IsZero() bool       { return a.v == 0 }
func (a Int64) Equal(b Int64) bool { return a.v == b.v }
func (a Int64) String() string     { return fmt.Sprintf("%d", a.v) }

func (a Int64) FloorDiv(b Int64) Int64 {
	q := a.v / b.v
	r := a.v % b.v
	if r != 0 && ((r < 0) != (b.v < 0)) {
		q--
	}
	return Int64{v: q}
}

func (a Int64) Quo(b Int64) Int64 {
	if b.v == 0 {
		overflow("quo")
	}
	return Int64{v: a.v / b.v}
}

func (a Int64) CeilDivAbs(b Int64) Int64 {
	av, bv := a.Abs().v, b.Abs().v
	return Int64{v: (av + bv - 1) / bv}
}

func (a Int64) Gcd(b Int64) (g, x, y Int64) {
	gg, xx, yy := extGcd(a.v, b.v)
	if gg < 0 {
		gg, xx, yy = -gg, -xx, -yy
	}
	return Int64{v: gg}, Int64{v: xx}, Int64{v: yy}
}

func (a Int64) MulInt(k int64) Int64 { return a.Mul(Int64{v: k}) }
func (a Int64) AddInt(k int64) Int64 { return a.Add(Int64{v: k}) }
func (a Int64) Float64() float64     { return float64(a.v) }

const minInt64 = -1 << 63

func extGcd(a, b int64) (g, x, y int64) {
	if b == 0 {
		return a, 1, 0
	}
	g1, x1, y1 := extGcd(b, a%b)
	return g1, y1, x1 - (a/b)*y1
}

// int64Factory builds Int64 values. FromInt64 never fails: every int64
// numeral it is handed already fits the 64-bit instantiation.
type int64Factory struct{}

func (int64Factory) Zero() Int64 { return Int64{} }
func (int64Factory) One() Int64  { return Int64{v: 1} }
func (int64Factory) FromInt64(n int64) (Int64, error) { return Int64{v: n}, nil }

// Int64Factory is the Factory instance for the Int64 instantiation.
var Int64Factory Factory[Int64] = int64Factory{}

// --- Rational: arbitrary-precision instantiation ---

// Rational is the arbitrary-precision instantiation of Value, backed by
// math/big the way thaliaarchi-nebula/bigint wraps big.Int for its
// interpreter's numeric tower. No third-party arbitrary-precision rational
// library appears anywhere in the retrieval pack, so this one component is
// deliberately built on the standard library (see DESIGN.md).
type Rational struct{ r big.Rat }

// NewRational wraps a copy of n, so later changes to n do not reach the
// returned Rational.
func NewRational(n *big.Rat) Rational {
	var r Rational
	r.r.Set(n)
	return r
}

func (a Rational) Big() *big.Rat { return &a.r }

func (a Rational) Add(b Rational) Rational {
	var r Rational
	r.r.Add(&a.r, &b.r)
	return r
}

func (a Rational) Sub(b Rational) Rational {
	var r Rational
	r.r.Sub(&a.r, &b.r)
	return r
}

func (a Rational) Mul(b Rational) Rational {
	var r Rational
	r.r.Mul(&a.r, &b.r)
	return r
}

func (a Rational) Neg() Rational {
	var r Rational
	r.r.Neg(&a.r)
	return r
}

func (a Rational) Abs() Rational {
	var r Rational
	r.r.Abs(&a.r)
	return r
}

func (a Rational) Cmp(b Rational) int  { return a.r.Cmp(&b.r) }
func (a Rational) Sign() int           { return a.r.Sign() }
func (a Rational) IsZero() bool        { return a.r.Sign() == 0 }
func (a Rational) Equal(b Rational) bool { return a.r.Cmp(&b.r) == 0 }
func (a Rational) String() string      { return a.r.RatString() }

func (a Rational) FloorDiv(b Rational) Rational {
	var q big.Rat
	q.Quo(&a.r, &b.r)
	num := new(big.Int).Quo(q.Num(), q.Denom())
	if q.Sign() < 0 {
		var rem big.Int
		rem.Mul(num, q.Denom())
		if rem.Cmp(q.Num()) != 0 {
			num.Sub(num, big.NewInt(1))
		}
	}
	var r Rational
	r.r.SetInt(num)
	return r
}

func (a Rational) Quo(b Rational) Rational {
	var r Rational
	r.r.Quo(&a.r, &b.r)
	return r
}

func (a Rational) CeilDivAbs(b Rational) Rational {
	var q big.Rat
	q.Quo(new(big.Rat).Abs(&a.r), new(big.Rat).Abs(&b.r))
	num := new(big.Int).Quo(q.Num(), q.Denom())
	var rem big.Int
	rem.Mul(num, q.Denom())
	if rem.Cmp(q.Num()) != 0 {
		num.Add(num, big.NewInt(1))
	}
	var r Rational
	r.r.SetInt(num)
	return r
}

// Gcd is only meaningful, and only used, on integral Rationals (solve_eq_pairs
// operates over integer coefficients even in the Rational instantiation,
// per spec section 4.1's Bezout construction).
func (a Rational) Gcd(b Rational) (g, x, y Rational) {
	ai, bi := ratToInt(a.r), ratToInt(b.r)
	var gi, xi, yi big.Int
	gi.GCD(&xi, &yi, absInt(ai), absInt(bi))
	if ai.Sign() < 0 {
		xi.Neg(&xi)
	}
	if bi.Sign() < 0 {
		yi.Neg(&yi)
	}
	var rg, rx, ry Rational
	rg.r.SetInt(&gi)
	rx.r.SetInt(&xi)
	ry.r.SetInt(&yi)
	return rg, rx, ry
}

func ratToInt(r big.Rat) *big.Int {
	n := new(big.Int).Set(r.Num())
	return n
}

func absInt(n *big.Int) *big.Int {
	if n.Sign() < 0 {
		return new(big.Int).Neg(n)
	}
	return n
}

func (a Rational) MulInt(k int64) Rational {
	var r Rational
	r.r.Mul(&a.r, big.NewRat(k, 1))
	return r
}

func (a Rational) AddInt(k int64) Rational {
	var r Rational
	r.r.Add(&a.r, big.NewRat(k, 1))
	return r
}

func (a Rational) Float64() float64 {
	f, _ := a.r.Float64()
	return f
}

// rationalFactory builds Rational values; FromInt64 never fails.
type rationalFactory struct{}

func (rationalFactory) Zero() Rational { return Rational{} }
func (rationalFactory) One() Rational  { return NewRational(big.NewRat(1, 1)) }
func (rationalFactory) FromInt64(n int64) (Rational, error) {
	return NewRational(big.NewRat(n, 1)), nil
}

// RationalFactory is the Factory instance for the Rational instantiation.
var RationalFactory Factory[Rational] = rationalFactory{}
