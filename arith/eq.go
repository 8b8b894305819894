package arith

// solveEqPairs implements spec section 4.1's pair-equation solver: for an
// EQ atom with a non-unit coefficient, find a second variable and solve the
// pair via extended Euclid so both land inside their bounds.
func (e *Engine[T]) solveEqPairs(ineq *Ineq[T]) bool {
	if ineq.Op != IneqEQ {
		return false
	}
	flip := ineq.VarToFlip
	for i := range ineq.Args {
		x := ineq.Args[i]
		if x.Coeff.Abs().Equal(e.one()) {
			continue
		}
		for j := range ineq.Args {
			if i == j {
				continue
			}
			y := ineq.Args[j]
			if y.Var == flip && x.Var != flip {
				continue
			}
			if e.solveEqPairsPair(x.Coeff, x.Var, y.Coeff, y.Var, ineq.Const.Neg()) {
				return true
			}
		}
	}
	return false
}

// ceilDiv returns ceiling(a/b) for any nonzero b, using floor division's
// well known identity ceil(a/b) = -floor(-a/b).
func (e *Engine[T]) ceilDiv(a, b T) T {
	return a.Neg().FloorDiv(b).Neg()
}

// solveEqPairsPair implements the Bezout construction of spec section 4.1:
// g = gcd(a, b) with Bezout coefficients (x0, y0), rejects if g does not
// divide r, scales (x0, y0) by r/g, then tries a handful of integer shifts
// along the general solution (x0 + t*b/g, y0 + t*(-a/g)) to land both x and y
// inside their bounds, rejecting any candidate whose magnitude blows up more
// than Config.MaxDoublingFactor relative to the current value.
func (e *Engine[T]) solveEqPairsPair(a T, x VarT, b T, y VarT, r T) bool {
	if e.isFixed(x) || e.isFixed(y) {
		return false
	}
	g, x0, y0 := a.Gcd(b)
	if g.IsZero() {
		return false
	}
	if !e.divides(r, g) {
		return false
	}
	scale := r.Quo(g)
	x0 = x0.Mul(scale)
	y0 = y0.Mul(scale)
	stepX := b.Quo(g)
	stepY := a.Quo(g).Neg()

	candidates := []T{e.zero()}
	vx, vy := &e.vars[x], &e.vars[y]
	if !stepX.IsZero() {
		if vx.HasLo {
			candidates = append(candidates, e.ceilDiv(vx.Lo.Value.Sub(x0), stepX))
		}
		if vx.HasHi {
			candidates = append(candidates, vx.Hi.Value.Sub(x0).FloorDiv(stepX))
		}
	}
	if !stepY.IsZero() {
		if vy.HasLo {
			candidates = append(candidates, e.ceilDiv(vy.Lo.Value.Sub(y0), stepY))
		}
		if vy.HasHi {
			candidates = append(candidates, vy.Hi.Value.Sub(y0).FloorDiv(stepY))
		}
	}

	curX, curY := e.value(x), e.value(y)
	for _, t := range candidates {
		newX := x0.Add(t.Mul(stepX))
		newY := y0.Add(t.Mul(stepY))
		if !e.inBounds(x, newX) || !e.inBounds(y, newY) {
			continue
		}
		if e.tooFarFrom(curX, newX) || e.tooFarFrom(curY, newY) {
			continue
		}
		ux := e.update(x, newX)
		uy := ux && e.update(y, newY)
		if ux && uy {
			return true
		}
	}
	return false
}

// tooFarFrom applies the "reject if either new value is more than twice the
// current value in magnitude" anti-blow-up heuristic from spec section 4.1,
// parameterized by Config.MaxDoublingFactor per the open question in
// section 9. A current value of zero imposes no bound.
func (e *Engine[T]) tooFarFrom(cur, next T) bool {
	if cur.IsZero() {
		return false
	}
	factor := e.cfg.MaxDoublingFactor
	bound := cur.Abs().Mul(e.floatToNum(factor))
	return next.Abs().Cmp(bound) > 0
}

// floatToNum converts a small configuration float to T via a bounded
// rational approximation (denominator 1000), adequate for a heuristic
// threshold rather than exact arithmetic. The Int64 instantiation truncates
// that approximation to an integer.
func (e *Engine[T]) floatToNum(f float64) T {
	const den = int64(1000)
	num := int64(f * float64(den))
	return e.one().MulInt(num).Quo(e.one().MulInt(den))
}
