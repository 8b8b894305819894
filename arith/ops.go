package arith

import "github.com/nbjorner/smtcore/plugin"

// evalOp computes od's result from its current operand values, per the
// operator semantics of spec section 6.2.
func (e *Engine[T]) evalOp(od *OpDef[T]) T {
	a := e.value(od.Arg1)
	switch od.Op {
	case OpMod:
		b := e.value(od.Arg2)
		return e.mod(a, b)
	case OpRem:
		b := e.value(od.Arg2)
		return e.rem(a, b)
	case OpIdiv:
		b := e.value(od.Arg2)
		if b.IsZero() {
			return e.zero()
		}
		return a.FloorDiv(b)
	case OpDiv:
		b := e.value(od.Arg2)
		if b.IsZero() {
			return e.zero()
		}
		return a.Quo(b)
	case OpAbs:
		return a.Abs()
	case OpToInt:
		return a.FloorDiv(e.one())
	case OpToReal:
		return a
	case OpPower:
		b := e.value(od.Arg2)
		if a.IsZero() && b.IsZero() {
			return e.zero()
		}
		// power of non-trivial arguments is explicitly unimplemented
		// (spec section 6.2); repair_power reports KindNotImplemented,
		// evaluation falls back to the current value so construction
		// never fails.
		return e.value(od.Result)
	default:
		return e.zero()
	}
}

// mod is the mathematical modulus, result in [0, |b|); mod(a, 0) = 0.
func (e *Engine[T]) mod(a, b T) T {
	if b.IsZero() {
		return e.zero()
	}
	bAbs := b.Abs()
	r := a.Sub(a.FloorDiv(bAbs).Mul(bAbs))
	return r
}

// rem is truncated remainder (sign follows the dividend); rem(a, 0) = 0.
func (e *Engine[T]) rem(a, b T) T {
	if b.IsZero() {
		return e.zero()
	}
	r := a.Sub(a.FloorDiv(b).Mul(b))
	if !r.IsZero() && (r.Sign() < 0) != (a.Sign() < 0) {
		r = r.Sub(b)
	}
	return r
}

func (e *Engine[T]) divides(a, b T) bool {
	if b.IsZero() {
		return a.IsZero()
	}
	return e.rem(a, b).IsZero()
}

// repairAdd implements spec section 4.1's repair_add: with probability
// 1/20, overwrite the result to the current sum; otherwise pick a random
// addend and set it to the value that would close the gap.
func (e *Engine[T]) repairAdd(idx int) bool {
	ad := &e.adds[idx]
	if e.ctx.Rand().Intn(20) == 0 {
		return e.update(ad.Result, e.evalAdd(ad))
	}
	if len(ad.Args) == 0 {
		return e.update(ad.Result, e.evalAdd(ad))
	}
	i := e.ctx.Rand().Intn(len(ad.Args))
	cv := ad.Args[i]
	target := e.value(ad.Result)
	others := ad.Const
	for j, other := range ad.Args {
		if j != i {
			others = others.Add(other.Coeff.Mul(e.value(other.Var)))
		}
	}
	delta := target.Sub(others)
	if cv.Coeff.IsZero() {
		return false
	}
	var newVal T
	if e.isInt(cv.Var) && !e.divides(delta, cv.Coeff) {
		if e.ctx.Rand().Bool() {
			newVal = delta.FloorDiv(cv.Coeff)
		} else {
			newVal = delta.FloorDiv(cv.Coeff).AddInt(1)
		}
	} else {
		newVal = delta.Quo(cv.Coeff)
	}
	return e.update(cv.Var, newVal)
}

// repairMul implements spec section 4.1's repair_mul.
func (e *Engine[T]) repairMul(idx int) bool {
	md := &e.muls[idx]
	if e.ctx.Rand().Intn(20) == 0 {
		return e.update(md.Result, e.evalMul(md))
	}
	target := e.value(md.Result)
	if target.IsZero() {
		i := e.ctx.Rand().Intn(len(md.Monomial))
		return e.update(md.Monomial[i], e.zero())
	}
	if e.isInt(md.Monomial[0]) && e.isPerfectSquarePattern(md) {
		if e.repairSquare(md) {
			return true
		}
	}
	if e.repairMul1(md) {
		return true
	}
	return e.repairMulFactor(md)
}

// isPerfectSquarePattern reports whether md is coeff*v*v for a single
// repeated variable, the shape repair_square handles.
func (e *Engine[T]) isPerfectSquarePattern(md *MulDef[T]) bool {
	return len(md.Monomial) == 2 && md.Monomial[0] == md.Monomial[1]
}

func (e *Engine[T]) repairSquare(md *MulDef[T]) bool {
	target := e.value(md.Result).Quo(md.Coeff)
	if target.Sign() < 0 {
		return false
	}
	root := e.sqrt(target)
	jitter := e.ctx.Rand().Intn(3)
	newVal := root.AddInt(int64(jitter))
	return e.update(md.Monomial[0], newVal)
}

// repairMul1 picks one factor and solves for it exactly, provided the other
// factors currently evaluate to a value that evenly divides the target.
func (e *Engine[T]) repairMul1(md *MulDef[T]) bool {
	i := e.ctx.Rand().Intn(len(md.Monomial))
	rest := md.Coeff
	for j, v := range md.Monomial {
		if j != i {
			rest = rest.Mul(e.value(v))
		}
	}
	if rest.IsZero() {
		return false
	}
	target := e.value(md.Result)
	if e.isInt(md.Monomial[i]) && !e.divides(target, rest) {
		return false
	}
	return e.update(md.Monomial[i], target.Quo(rest))
}

// repairMulFactor factors the target into small primes for integer
// monomials and distributes them randomly across the variables (spec section
// 4.1's final repair_mul branch). For a negative target the sign goes to one
// randomly chosen variable; variable bounds, and the sign they allow, are not
// consulted.
func (e *Engine[T]) repairMulFactor(md *MulDef[T]) bool {
	if !e.isInt(md.Monomial[0]) {
		return e.repairMul1(md)
	}
	target := e.value(md.Result)
	if md.Coeff.IsZero() || !e.divides(target, md.Coeff) {
		return false
	}
	remainder := target.Quo(md.Coeff)
	factors := e.factor(remainder.Abs())
	assign := make([]T, len(md.Monomial))
	for i := range assign {
		assign[i] = e.one()
	}
	for _, f := range factors {
		i := e.ctx.Rand().Intn(len(assign))
		assign[i] = assign[i].Mul(f)
	}
	if remainder.Sign() < 0 {
		i := e.ctx.Rand().Intn(len(assign))
		assign[i] = assign[i].Neg()
	}
	ok := true
	for i, v := range md.Monomial {
		if !e.update(v, assign[i]) {
			ok = false
		}
	}
	return ok
}

// repairOp dispatches to the operator-specific repair for od, per spec
// section 4.1.
func (e *Engine[T]) repairOp(idx int) bool {
	od := &e.ops[idx]
	switch od.Op {
	case OpMod:
		return e.repairMod(od)
	case OpRem:
		return e.repairRem(od)
	case OpIdiv:
		return e.repairIdiv(od)
	case OpDiv:
		return e.repairDiv(od)
	case OpAbs:
		return e.repairAbs(od)
	case OpToInt:
		return e.repairToInt(od)
	case OpToReal:
		return e.repairToReal(od)
	case OpPower:
		return e.repairPower(od)
	default:
		return false
	}
}

// repairMod restores result = mod(arg1, arg2) by updating the side chosen
// at random: the dividend, replaced by a - mod(a, b) + result (the value in
// a's current block of |b| that has the result as remainder), or the result
// itself.
func (e *Engine[T]) repairMod(od *OpDef[T]) bool {
	b := e.value(od.Arg2)
	if b.IsZero() {
		return e.update(od.Result, e.zero())
	}
	if e.ctx.Rand().Bool() {
		return e.update(od.Result, e.mod(e.value(od.Arg1), b))
	}
	target := e.value(od.Result)
	a := e.value(od.Arg1)
	newA := a.Sub(e.mod(a, b)).Add(target)
	return e.update(od.Arg1, newA)
}

func (e *Engine[T]) repairRem(od *OpDef[T]) bool {
	b := e.value(od.Arg2)
	if b.IsZero() {
		return e.update(od.Result, e.zero())
	}
	if e.ctx.Rand().Bool() {
		return e.update(od.Result, e.rem(e.value(od.Arg1), b))
	}
	target := e.value(od.Result)
	a := e.value(od.Arg1)
	newA := a.Sub(e.rem(a, b)).Add(target)
	return e.update(od.Arg1, newA)
}

func (e *Engine[T]) repairIdiv(od *OpDef[T]) bool {
	b := e.value(od.Arg2)
	if b.IsZero() {
		return e.update(od.Result, e.zero())
	}
	if e.ctx.Rand().Bool() {
		return e.update(od.Result, e.value(od.Arg1).FloorDiv(b))
	}
	target := e.value(od.Result)
	return e.update(od.Arg1, target.Mul(b))
}

func (e *Engine[T]) repairDiv(od *OpDef[T]) bool {
	b := e.value(od.Arg2)
	if b.IsZero() {
		return e.update(od.Result, e.zero())
	}
	if e.ctx.Rand().Bool() {
		return e.update(od.Result, e.value(od.Arg1).Quo(b))
	}
	target := e.value(od.Result)
	return e.update(od.Arg1, target.Mul(b))
}

func (e *Engine[T]) repairAbs(od *OpDef[T]) bool {
	target := e.value(od.Result)
	if target.Sign() < 0 {
		return false
	}
	if e.ctx.Rand().Bool() {
		return e.update(od.Arg1, target)
	}
	return e.update(od.Arg1, target.Neg())
}

// repairToInt implements spec section 6.2's repair rule: accept if
// val - 1 < arg <= val, else set arg to val.
func (e *Engine[T]) repairToInt(od *OpDef[T]) bool {
	val := e.value(od.Result)
	arg := e.value(od.Arg1)
	lowerExclusive := val.Sub(e.one())
	if arg.Cmp(lowerExclusive) > 0 && arg.Cmp(val) <= 0 {
		return true
	}
	return e.update(od.Arg1, val)
}

func (e *Engine[T]) repairToReal(od *OpDef[T]) bool {
	return e.update(od.Arg1, e.value(od.Result))
}

// repairPower only handles the (0, 0) -> 0 convention; anything else is
// explicitly unimplemented per spec section 6.2.
func (e *Engine[T]) repairPower(od *OpDef[T]) bool {
	if e.value(od.Arg1).IsZero() && e.value(od.Arg2).IsZero() {
		return e.update(od.Result, e.zero())
	}
	e.lastErr = plugin.Newf(plugin.KindNotImplemented, "power of non-trivial arguments")
	return false
}

// factor returns n's prime factorization (with multiplicity) by trial
// division, cached per value the way the teacher's factor() memoizes into
// m_factors.
func (e *Engine[T]) factor(n T) []T {
	if cached, ok := e.factorCache(n); ok {
		return cached
	}
	var factors []T
	one := e.one()
	two := one.Add(one)
	remaining := n
	p := two
	for p.Mul(p).Cmp(remaining) <= 0 {
		for e.divides(remaining, p) && !p.IsZero() {
			factors = append(factors, p)
			remaining = remaining.Quo(p)
		}
		p = p.Add(one)
	}
	if remaining.Cmp(one) > 0 {
		factors = append(factors, remaining)
	}
	e.setFactorCache(n, factors)
	return factors
}

// sqrt returns floor(sqrt(n)) by binary search, for non-negative integer n.
func (e *Engine[T]) sqrt(n T) T {
	if n.Sign() <= 0 {
		return e.zero()
	}
	lo, hi := e.zero(), n
	one := e.one()
	for lo.Cmp(hi) < 0 {
		mid := lo.Add(hi).Add(one).FloorDiv(one.Add(one))
		if mid.Mul(mid).Cmp(n) <= 0 {
			lo = mid
		} else {
			hi = mid.Sub(one)
		}
	}
	return lo
}
