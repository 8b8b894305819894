package arith

import "github.com/nbjorner/smtcore/plugin"

// Repair implements spec section 4.1's repair(lit): the atom behind lit
// disagrees with the host's Boolean assignment, so pick and apply a move
// that makes it agree again, falling back to flipping the Boolean itself
// when no numeric move does.
//
// Int64 arithmetic inside the call chain below can panic with an
// overflowPanic; it is recovered here, at the engine's public entry point,
// and converted into a structural error retrievable via LastError.
func (e *Engine[T]) Repair(lit plugin.Lit) {
	defer recoverOverflow(&e.lastErr)
	e.lastErr = nil

	bv := lit.Var()
	ineq := e.atom(bv)
	if ineq == nil {
		return
	}

	e.reward(lit)

	ok := false
	if ineq.Op == IneqEQ {
		ok = e.repairEq(ineq)
	} else if ineq.HasVarToFlip() {
		if newVal, found := e.cm(ineq, ineq.VarToFlip); found {
			ok = e.update(ineq.VarToFlip, newVal)
		}
	}

	if !ok {
		e.tracer.Tracef("repair: no numeric move for bv %d, falling back to flip", bv)
		e.syncBoolean(bv, ineq)
	}
}

// repairEq implements spec section 4.1's repair_eq ordering: with
// probability Config.EqPairFirstProb, try solve_eq_pairs first; otherwise
// try cm+update; either way fall back to solve_eq_pairs if the first
// attempt fails.
func (e *Engine[T]) repairEq(ineq *Ineq[T]) bool {
	if e.ctx.Rand().Float64() < e.cfg.EqPairFirstProb {
		if e.solveEqPairs(ineq) {
			return true
		}
	} else if ineq.HasVarToFlip() {
		if newVal, ok := e.cm(ineq, ineq.VarToFlip); ok {
			if e.update(ineq.VarToFlip, newVal) {
				return true
			}
		}
	}
	return e.solveEqPairs(ineq)
}

// syncBoolean flips bv's Boolean assignment if it disagrees with ineq's
// actual truth value, the last-resort branch of repair and the entirety of
// repair_literal.
func (e *Engine[T]) syncBoolean(bv plugin.Var, ineq *Ineq[T]) {
	assigned := e.ctx.IsTrue(plugin.MkLit(bv, false))
	if ineq.IsTrue() != assigned {
		e.ctx.Flip(bv)
	}
}

// update implements spec section 4.1's update(v, new_value): clamp to
// bounds, push the delta through every atom v occurs in (flipping Booleans
// that now disagree), commit the value, notify the host, and recurse
// through back-edges into AddDef/MulDef results that changed as a result.
func (e *Engine[T]) update(v VarT, newValue T) bool {
	newValue = e.clamp(v, newValue)
	old := e.vars[v].Value
	if old.Equal(newValue) {
		return true
	}
	delta := newValue.Sub(old)

	for _, occ := range e.vars[v].BoolVars {
		ineq := e.boolVars[occ.BVar]
		if ineq == nil {
			continue
		}
		ineq.ArgsValue = ineq.ArgsValue.Add(occ.Coeff.Mul(delta))
		e.syncBoolean(occ.BVar, ineq)
	}

	e.vars[v].Value = newValue
	e.ctx.NewValueEh(e.vars[v].Expr)

	for _, idx := range e.vars[v].Adds {
		ad := &e.adds[idx]
		recomputed := e.evalAdd(ad)
		if !recomputed.Equal(e.vars[ad.Result].Value) {
			if !e.update(ad.Result, recomputed) {
				return false
			}
		}
	}
	for _, idx := range e.vars[v].Muls {
		md := &e.muls[idx]
		recomputed := e.evalMul(md)
		if !recomputed.Equal(e.vars[md.Result].Value) {
			if !e.update(md.Result, recomputed) {
				return false
			}
		}
	}
	return true
}

// clamp snaps newValue into v's bounds, backing off by one unit from a
// strict integer bound so the clamped value still satisfies it exactly.
func (e *Engine[T]) clamp(v VarT, newValue T) T {
	vi := &e.vars[v]
	if vi.HasLo && newValue.Cmp(vi.Lo.Value) < 0 {
		newValue = vi.Lo.Value
		if vi.Lo.Strict && e.isInt(v) {
			newValue = newValue.AddInt(1)
		}
	}
	if vi.HasHi && newValue.Cmp(vi.Hi.Value) > 0 {
		newValue = vi.Hi.Value
		if vi.Hi.Strict && e.isInt(v) {
			newValue = newValue.AddInt(-1)
		}
	}
	return newValue
}

// PropagateLiteral is the Plugin contract's propagate_literal: the host has
// asserted lit, so if the backing atom does not yet agree, repair it.
func (e *Engine[T]) PropagateLiteral(lit plugin.Lit) {
	ineq := e.atom(lit.Var())
	if ineq == nil {
		return
	}
	if ineq.IsTrue() != lit.IsPos() {
		e.Repair(lit)
	}
}

// Propagate scans the host's currently unit clauses for arithmetic atoms
// that disagree with their forced value and repairs them, reporting whether
// it made any change.
func (e *Engine[T]) Propagate() bool {
	changed := false
	for _, lit := range e.ctx.UnitLiterals() {
		ineq := e.atom(lit.Var())
		if ineq == nil {
			continue
		}
		if ineq.IsTrue() != lit.IsPos() {
			e.Repair(lit)
			changed = true
		}
	}
	return changed
}

// RepairUp recomputes ex's value from its definition and propagates the
// result outward through update, the Plugin contract's repair_up.
func (e *Engine[T]) RepairUp(ex plugin.Expr) bool {
	defer recoverOverflow(&e.lastErr)
	e.lastErr = nil

	v, ok := e.expr2var[ex.ID()]
	if !ok {
		return false
	}
	vi := &e.vars[v]
	switch vi.DefKind {
	case defAdd:
		return e.update(v, e.evalAdd(&e.adds[vi.DefIdx]))
	case defMul:
		return e.update(v, e.evalMul(&e.muls[vi.DefIdx]))
	case defOp:
		return e.update(v, e.evalOp(&e.ops[vi.DefIdx]))
	default:
		return false
	}
}

// RepairDown invokes the kind-specific operand repair for ex's definition,
// the Plugin contract's repair_down.
func (e *Engine[T]) RepairDown(ex plugin.Expr) bool {
	defer recoverOverflow(&e.lastErr)
	e.lastErr = nil

	v, ok := e.expr2var[ex.ID()]
	if !ok {
		return false
	}
	vi := &e.vars[v]
	switch vi.DefKind {
	case defAdd:
		return e.repairAdd(vi.DefIdx)
	case defMul:
		return e.repairMul(vi.DefIdx)
	case defOp:
		return e.repairOp(vi.DefIdx)
	default:
		return false
	}
}

// RepairLiteral flips bv's Boolean assignment if the atom's truth value
// disagrees with it, without attempting any numeric move.
func (e *Engine[T]) RepairLiteral(lit plugin.Lit) {
	ineq := e.atom(lit.Var())
	if ineq == nil {
		return
	}
	e.syncBoolean(lit.Var(), ineq)
}

// IsSat reports local quiescence: every atom this engine owns agrees with
// the host's current Boolean assignment.
func (e *Engine[T]) IsSat() bool {
	for bv, ineq := range e.boolVars {
		if ineq.IsTrue() != e.ctx.IsTrue(plugin.MkLit(bv, false)) {
			return false
		}
	}
	return true
}

// Initialize builds every atom from the host's existing Boolean variables
// and snapshots the initial best-value assignment, the Plugin contract's
// initialize.
func (e *Engine[T]) Initialize() {
	for i := 0; i < e.ctx.NumBoolVars(); i++ {
		e.initBoolVar(plugin.Var(i))
	}
	e.saveBestValues()
}
