package slicing

import "github.com/nbjorner/smtcore/plugin"

// RegisterTerm surfaces one term to the engine ahead of any equality over
// it: an extract application becomes an MkExtract pvar over its freshly
// (or already-)registered base variable, a numeral becomes a value slice,
// anything else becomes a fresh root variable.
func (e *Engine) RegisterTerm(ex plugin.Expr) {
	if _, ok := e.expr2v[ex.ID()]; ok {
		return
	}
	if base, hi, lo, ok := e.ast.AsExtract(ex); ok {
		bv := e.registerExpr(base)
		e.expr2v[ex.ID()] = e.MkExtract(bv, hi, lo)
		return
	}
	if val, ok := e.ast.AsConst(ex); ok {
		e.expr2v[ex.ID()] = e.registerValue(e.ast.BitWidth(ex), val)
		return
	}
	v := e.registerVar(e.ast.BitWidth(ex))
	e.expr2v[ex.ID()] = v
	e.v2expr[v] = ex
}

func (e *Engine) registerExpr(ex plugin.Expr) PVar {
	if v, ok := e.expr2v[ex.ID()]; ok {
		return v
	}
	e.RegisterTerm(ex)
	return e.expr2v[ex.ID()]
}

// SetValue is a no-op: slicing's state is the equivalence structure itself,
// not a numeric assignment a host replay would seed.
func (e *Engine) SetValue(ex plugin.Expr, val plugin.Expr) {}

// GetValue returns nil: the AstManager capability named in spec section 1
// has no numeral-construction entry point. Callers read fixed bits through
// FixedBits instead.
func (e *Engine) GetValue(ex plugin.Expr) plugin.Expr { return nil }

// FixedBits exposes CollectFixed for a host expression already registered
// with the engine.
func (e *Engine) FixedBits(ex plugin.Expr) (mask, value uint64, ok bool) {
	v, ok := e.expr2v[ex.ID()]
	if !ok {
		return 0, 0, false
	}
	mask, value = e.CollectFixed(v)
	return mask, value, true
}

// PropagateLiteral installs a positive equality literal between two
// bit-vector (or extract) expressions as an AssertEqual. Negative bit-vector
// equality literals are not fed into slicing: the disequality conflicts
// this core reports come from attempting to merge already-known-distinct
// value slices while chasing a positive equality, not from negated
// top-level equalities, matching spec section 4.3's scope.
func (e *Engine) PropagateLiteral(lit plugin.Lit) {
	if !lit.IsPos() {
		return
	}
	ex := e.ctx.Atom(lit.Var())
	if ex == nil {
		return
	}
	lhs, rhs, ok := e.ast.IsEq(ex)
	if !ok {
		return
	}
	lv := e.registerExpr(lhs)
	rv := e.registerExpr(rhs)
	e.AssertEqual([]PVar{lv}, []PVar{rv}, Dependency{Kind: DepLit, Lit: lit})
}

// RepairUp and RepairDown are no-ops: slicing never repairs a numeric
// value, it only tracks which bit-slices are provably equal.
func (e *Engine) RepairUp(ex plugin.Expr) bool   { return false }
func (e *Engine) RepairDown(ex plugin.Expr) bool { return false }

// RepairLiteral has nothing to flip for the same reason.
func (e *Engine) RepairLiteral(lit plugin.Lit) {}

// IsSat reports whether no disequality conflict and no e-graph
// inconsistency is currently outstanding.
func (e *Engine) IsSat() bool {
	return len(e.disequal) == 0 && !e.eg.Inconsistent()
}

// Initialize is a no-op: like viable, slicing's state is built up entirely
// from RegisterTerm/PropagateLiteral calls as the host makes them.
func (e *Engine) Initialize() {}

// OnRestart is a no-op: slice equivalences are structural facts derived
// from currently-asserted equalities, not search heuristics a restart
// should forget.
func (e *Engine) OnRestart() {}

// OnRescale is a no-op: bit-vector widths are fixed and never rescale.
func (e *Engine) OnRescale() {}
