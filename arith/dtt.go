package arith

// dtt is distance-to-truth: a non-negative magnitude quantifying how far an
// atom is from the truth value selected by `sign`: sign false asks for the
// atom to hold, sign true asks for it to be false (spec section 4.1,
// glossary "Distance-to-truth (dtt)").
func (e *Engine[T]) dtt(sign bool, argsValue T, ineq *Ineq[T]) T {
	zero := e.zero()
	sum := argsValue.Add(ineq.Const)
	switch ineq.Op {
	case IneqLE:
		if sign {
			if sum.Sign() <= 0 {
				return ineq.Const.Neg().Sub(argsValue).AddInt(1)
			}
			return zero
		}
		if sum.Sign() <= 0 {
			return zero
		}
		return sum
	case IneqEQ:
		if sign {
			if sum.IsZero() {
				return e.one()
			}
			return zero
		}
		if sum.IsZero() {
			return zero
		}
		return e.one()
	default: // IneqLT
		if sign {
			if sum.Sign() < 0 {
				return ineq.Const.Neg().Sub(argsValue)
			}
			return zero
		}
		if sum.Sign() < 0 {
			return zero
		}
		return sum.AddInt(1)
	}
}

// dttAt evaluates dtt as if v's value were replaced by newValue, without
// mutating any state: used to score candidate moves before committing them.
func (e *Engine[T]) dttAt(sign bool, ineq *Ineq[T], v VarT, newValue T) T {
	for _, cv := range ineq.Args {
		if cv.Var == v {
			delta := cv.Coeff.Mul(newValue.Sub(e.value(v)))
			return e.dtt(sign, ineq.ArgsValue.Add(delta), ineq)
		}
	}
	return e.one()
}

// cm (critical move) computes a candidate new value for v, occurring in
// ineq with coefficient coeff, that flips ineq's truth value, per the table
// in spec section 4.1. It reports false without mutating anything if no
// such candidate exists.
func (e *Engine[T]) cm(ineq *Ineq[T], v VarT) (T, bool) {
	var coeff T
	found := false
	for _, cv := range ineq.Args {
		if cv.Var == v {
			coeff, found = cv.Coeff, true
			break
		}
	}
	if !found {
		return e.zero(), false
	}
	return e.cmCoeff(ineq, v, coeff)
}

func (e *Engine[T]) cmCoeff(ineq *Ineq[T], v VarT, coeff T) (T, bool) {
	if e.isFixed(v) {
		return e.zero(), false
	}
	bound := ineq.Const.Neg()
	argsv := ineq.ArgsValue
	delta := argsv.Sub(bound)

	wellFormed := func(newValue T) bool {
		newArgs := argsv.Add(coeff.Mul(newValue.Sub(e.value(v))))
		cmp := newArgs.Cmp(bound)
		if ineq.IsTrue() {
			switch ineq.Op {
			case IneqLE:
				return cmp > 0
			case IneqLT:
				return cmp >= 0
			default: // EQ
				return cmp != 0
			}
		}
		switch ineq.Op {
		case IneqLE:
			return cmp <= 0
		case IneqLT:
			return cmp < 0
		default:
			return cmp == 0
		}
	}

	moveToBounds := func(newValue T) (T, bool) {
		if !e.inBounds(v, e.value(v)) {
			return newValue, true
		}
		if e.inBounds(v, newValue) {
			return newValue, true
		}
		vi := &e.vars[v]
		if vi.HasLo && vi.Lo.Value.Cmp(newValue) > 0 {
			newValue = vi.Lo.Value
			if !wellFormed(newValue) {
				newValue = newValue.AddInt(1)
			}
		}
		if vi.HasHi && vi.Hi.Value.Cmp(newValue) < 0 {
			newValue = vi.Hi.Value
			if !wellFormed(newValue) {
				newValue = newValue.AddInt(-1)
			}
		}
		return newValue, wellFormed(newValue) && e.inBounds(v, newValue)
	}

	if ineq.IsTrue() {
		switch ineq.Op {
		case IneqLE:
			d := delta.AddInt(-1)
			nv := e.value(v).Add(e.divide(v, d.Abs().AddInt(int64(e.ctx.Rand().Intn(3))), coeff))
			return moveToBounds(nv)
		case IneqLT:
			nv := e.value(v).Add(e.divide(v, delta.Abs().AddInt(int64(e.ctx.Rand().Intn(3))).AddInt(1), coeff))
			return moveToBounds(nv)
		default: // EQ
			offset := e.one().AddInt(int64(e.ctx.Rand().Intn(3)))
			if e.ctx.Rand().Bool() {
				offset = offset.Neg()
			}
			nv := e.value(v).Add(offset)
			return moveToBounds(nv)
		}
	}
	switch ineq.Op {
	case IneqLE:
		nv := e.value(v).Sub(e.divide(v, delta, coeff))
		return moveToBounds(nv)
	case IneqLT:
		nv := e.value(v).Sub(e.divide(v, delta.AddInt(1), coeff))
		return moveToBounds(nv)
	default: // EQ
		if !e.divides(delta.Neg(), coeff) {
			return e.zero(), false
		}
		nv := e.value(v).Add(delta.Neg().Quo(coeff))
		return moveToBounds(nv)
	}
}

// divide implements spec section 4.1's divide(): for integer variables it
// returns floor((delta + |coeff| - 1) / coeff), which is ceil(delta/coeff)
// when coeff is positive; for real variables exact division.
func (e *Engine[T]) divide(v VarT, delta, coeff T) T {
	if e.isInt(v) {
		return delta.Add(coeff.Abs()).AddInt(-1).FloorDiv(coeff)
	}
	return delta.Quo(coeff)
}
