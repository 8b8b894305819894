package arith

import (
	"github.com/nbjorner/smtcore/plugin"
)

// Engine is the arithmetic local-search theory core (spec section 4.1),
// generic over its numeric instantiation the way the teacher's
// arith_base<num_t> template is: Engine[Int64] is the bounded-integer
// instantiation, Engine[Rational] the arbitrary-precision one.
type Engine[T Value[T]] struct {
	ctx     plugin.Context
	ast     Ast[T]
	factory Factory[T]
	cfg     plugin.Config
	tracer  plugin.Tracer

	vars []varInfo[T]
	adds []AddDef[T]
	muls []MulDef[T]
	ops  []OpDef[T]

	boolVars map[plugin.Var]*Ineq[T] // atom()
	expr2var map[int]VarT            // AST expr id -> variable, for mk_term dedup

	stats struct {
		numFlips int
	}

	noImproveStreak int
	lastErr         error
	factorCacheMap  map[string][]T
}

var (
	_ plugin.Plugin = (*Engine[Int64])(nil)
	_ plugin.Plugin = (*Engine[Rational])(nil)
)

// NewEngine constructs an arith Engine for one numeric instantiation.
func NewEngine[T Value[T]](ctx plugin.Context, ast Ast[T], factory Factory[T], tracer plugin.Tracer, opts ...plugin.Option) *Engine[T] {
	cfg := plugin.DefaultConfig().Apply(opts...)
	if tracer == nil {
		tracer = plugin.NoopTracer()
	}
	return &Engine[T]{
		ctx:      ctx,
		ast:      ast,
		factory:  factory,
		cfg:      cfg,
		tracer:   tracer,
		boolVars:       make(map[plugin.Var]*Ineq[T]),
		expr2var:       make(map[int]VarT),
		factorCacheMap: make(map[string][]T),
	}
}

// LastError returns the structural error (overflow, not-implemented) raised
// by the most recent repair attempt, or nil. Numerical repairs never
// propagate errors through return values (spec section 7); this is the
// side channel the outer loop checks after a failed repair to decide
// whether to fall back to the arbitrary-precision instantiation.
func (e *Engine[T]) LastError() error { return e.lastErr }

// IsOverflow reports whether LastError is a bounded-integer range violation,
// the signal a host running the Int64 instantiation checks to decide whether
// to retry the same repair against the Rational instantiation instead.
func (e *Engine[T]) IsOverflow() bool { return plugin.IsKind(e.lastErr, plugin.KindOverflow) }

func (e *Engine[T]) factorCache(n T) ([]T, bool) {
	v, ok := e.factorCacheMap[n.String()]
	return v, ok
}

func (e *Engine[T]) setFactorCache(n T, factors []T) {
	e.factorCacheMap[n.String()] = factors
}

func (e *Engine[T]) zero() T { return e.factory.Zero() }
func (e *Engine[T]) one() T  { return e.factory.One() }

func (e *Engine[T]) value(v VarT) T   { return e.vars[v].Value }
func (e *Engine[T]) isInt(v VarT) bool { return e.vars[v].Sort == SortInt }

func (e *Engine[T]) numVars() int { return len(e.vars) }

// atom looks up the inequality for a Boolean variable, or nil.
func (e *Engine[T]) atom(bv plugin.Var) *Ineq[T] { return e.boolVars[bv] }

// sign reports whether the literal naming bv is currently negated in the
// host's Boolean assignment, the ineq::sign helper from sls_arith_base.h.
func (e *Engine[T]) sign(bv plugin.Var) bool {
	return !e.ctx.IsTrue(plugin.MkLit(bv, false))
}

func (e *Engine[T]) isFixed(v VarT) bool {
	vi := &e.vars[v]
	return vi.HasLo && vi.HasHi && vi.Lo.Value.Equal(vi.Hi.Value) && !vi.Lo.Strict && !vi.Hi.Strict
}

func (e *Engine[T]) inBounds(v VarT, val T) bool {
	vi := &e.vars[v]
	if vi.HasLo {
		c := val.Cmp(vi.Lo.Value)
		if c < 0 || (c == 0 && vi.Lo.Strict) {
			return false
		}
	}
	if vi.HasHi {
		c := val.Cmp(vi.Hi.Value)
		if c > 0 || (c == 0 && vi.Hi.Strict) {
			return false
		}
	}
	return true
}

// mkVar allocates a fresh internal variable bound to expr e.
func (e *Engine[T]) mkVar(ex plugin.Expr) VarT {
	v := VarT(len(e.vars))
	e.vars = append(e.vars, varInfo[T]{
		Expr:    ex,
		Sort:    e.ast.VarSort(ex),
		DefIdx:  -1,
		DefKind: defNone,
	})
	e.expr2var[ex.ID()] = v
	return v
}

func (e *Engine[T]) addBackEdgeMul(v VarT, mulIdx int) {
	e.vars[v].Muls = append(e.vars[v].Muls, mulIdx)
}

func (e *Engine[T]) addBackEdgeAdd(v VarT, addIdx int) {
	e.vars[v].Adds = append(e.vars[v].Adds, addIdx)
}

// invariant checks the laws of spec section 8.1 hold for every atom and
// definition; it is a debug-only scan, never called on a hot path, matching
// the teacher's own invariant()/check_ineqs helpers.
func (e *Engine[T]) invariant() bool {
	for _, a := range e.boolVars {
		if !e.checkIneqInvariant(a) {
			return false
		}
	}
	for _, ad := range e.adds {
		if !e.checkAddInvariant(&ad) {
			return false
		}
	}
	for _, md := range e.muls {
		if !e.checkMulInvariant(&md) {
			return false
		}
	}
	return true
}

func (e *Engine[T]) checkIneqInvariant(a *Ineq[T]) bool {
	sum := e.zero()
	for _, cv := range a.Args {
		sum = sum.Add(cv.Coeff.Mul(e.value(cv.Var)))
	}
	return sum.Equal(a.ArgsValue)
}

func (e *Engine[T]) checkAddInvariant(ad *AddDef[T]) bool {
	sum := ad.Const
	for _, cv := range ad.Args {
		sum = sum.Add(cv.Coeff.Mul(e.value(cv.Var)))
	}
	return sum.Equal(e.value(ad.Result))
}

func (e *Engine[T]) checkMulInvariant(md *MulDef[T]) bool {
	prod := md.Coeff
	for _, v := range md.Monomial {
		prod = prod.Mul(e.value(v))
	}
	return prod.Equal(e.value(md.Result))
}
