package viable

import "github.com/nbjorner/smtcore/plugin"

// RegisterTerm surfaces a bit-vector variable to the engine ahead of any
// constraint over it, the Plugin contract's register_term.
func (e *Engine) RegisterTerm(ex plugin.Expr) {
	e.varFor(ex, e.ast.BitWidth(ex))
}

// SetValue seeds v's last-reported value without installing any constraint
// (used to replay a saved assignment), the Plugin contract's set_value.
func (e *Engine) SetValue(ex plugin.Expr, val plugin.Expr) {
	c, ok := e.ast.AsConst(val)
	if !ok {
		return
	}
	v := e.varFor(ex, e.ast.BitWidth(ex))
	s := e.stateFor(v)
	s.lastValue, s.hasValue = c, true
}

// GetValue turns v's current last-reported value back into a host
// expression. As in arith, the AstManager capability named in spec section
// 1 has no numeral-construction entry point, so this returns nil; callers
// read the raw value via Value instead.
func (e *Engine) GetValue(ex plugin.Expr) plugin.Expr { return nil }

// Value exposes the last value FindViable reported for ex, if any.
func (e *Engine) Value(ex plugin.Expr) (uint64, bool) {
	v, ok := e.expr2v[ex.ID()]
	if !ok {
		return 0, false
	}
	s := e.stateFor(v)
	return s.lastValue, s.hasValue
}

// negate computes the unit constraint equivalent to the negation of
// (kind, bound) at width, or ok=false if the negation has no representable
// CmpKind form at this width (e.g. negating v >= 0, which is always false).
func negate(kind CmpKind, bound uint64, width int) (CmpKind, uint64, bool) {
	n := domainSize(width)
	switch kind {
	case CmpLE:
		if bound+1 >= n {
			return 0, 0, false
		}
		return CmpGE, bound + 1, true
	case CmpGE:
		if bound == 0 {
			return 0, 0, false
		}
		return CmpLE, bound - 1, true
	case CmpEQ:
		return CmpNE, bound, true
	default: // CmpNE
		return CmpEQ, bound, true
	}
}

// PropagateLiteral implements propagate_literal: lit's underlying atom, if
// it is a unit bit-vector comparison, is installed (negated if lit is the
// negative occurrence) as a forbidden-interval constraint on its variable.
func (e *Engine) PropagateLiteral(lit plugin.Lit) {
	ex := e.ctx.Atom(lit.Var())
	if ex == nil {
		return
	}
	vexpr, kind, bound, ok := e.ast.AsUnitConstraint(ex)
	if !ok {
		return
	}
	width := e.ast.BitWidth(vexpr)
	v := e.varFor(vexpr, width)
	src := int(lit.Var())

	if !lit.IsPos() {
		nk, nb, ok2 := negate(kind, bound, width)
		if !ok2 {
			e.AddAlwaysForbidden(v, width, src)
			return
		}
		kind, bound = nk, nb
	}
	e.AddUnitary(v, Constraint{Kind: kind, Bound: bound, Width: width, Src: src})
}

// Propagate runs find_viable over every tracked variable and reports a
// conflict for any that comes back empty, the Plugin contract's propagate.
func (e *Engine) Propagate() bool {
	changed := false
	for v := range e.states {
		res, _, core := e.FindViable(v)
		if res != Empty {
			continue
		}
		lits := make([]plugin.Lit, 0, len(core))
		for _, src := range core {
			bv := plugin.Var(src)
			lits = append(lits, plugin.MkLit(bv, e.ctx.IsTrue(plugin.MkLit(bv, false))))
		}
		e.ctx.SetConflict(lits)
		changed = true
	}
	return changed
}

// RepairUp and RepairDown are no-ops: viable never repairs a value, it only
// narrows and reports the set a value may legally take. Value selection
// happens in find_viable, driven by Propagate.
func (e *Engine) RepairUp(ex plugin.Expr) bool   { return false }
func (e *Engine) RepairDown(ex plugin.Expr) bool { return false }

// RepairLiteral has nothing to flip: viable never disagrees with the
// Boolean assignment on its own atoms, it only restricts the numeric
// domain those atoms jointly imply.
func (e *Engine) RepairLiteral(lit plugin.Lit) {}

// IsSat reports local quiescence: no tracked variable currently has an
// empty viable set.
func (e *Engine) IsSat() bool {
	for _, s := range e.states {
		if s.hasCore {
			return false
		}
	}
	return true
}

// Initialize is a no-op: viable's state is built up entirely from
// PropagateLiteral calls, unlike arith which walks every existing Boolean
// variable up front (viable has no cheap way to recognize "is this atom a
// bit-vector unit constraint" without a literal actually being asserted).
func (e *Engine) Initialize() {}

// OnRestart clears every variable's last-reported value so the next
// find_viable starts its circular walk from the beginning of each layer,
// matching the teacher's own per-restart reset of probe state.
func (e *Engine) OnRestart() {
	for _, s := range e.states {
		s.hasValue = false
	}
}

// OnRescale is a no-op: bit-vector values have a fixed width and never
// accumulate the kind of unbounded magnitude arith's OnRescale corrects for.
func (e *Engine) OnRescale() {}
