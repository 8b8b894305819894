package arith

import "github.com/nbjorner/smtcore/plugin"

// RegisterTerm canonicalises e (and every subterm reachable from it) into
// AddDef/MulDef/OpDef records and internal variables, per spec section
// 4.1's mk_term. It is idempotent: re-registering an already-seen term is a
// no-op thanks to the expr2var dedup map (the structural-deduplication law
// of spec section 8.2).
func (e *Engine[T]) RegisterTerm(ex plugin.Expr) {
	e.mkTerm(ex)
}

func (e *Engine[T]) mkTerm(ex plugin.Expr) VarT {
	if v, ok := e.expr2var[ex.ID()]; ok {
		return v
	}

	switch {
	case isLinearShape(e.ast, ex):
		term := e.collectLinear(ex)
		return e.finishLinear(ex, term)

	case e.ast.IsMul(ex):
		coeff, vars := e.collectMulFactors(ex, e.one())
		return e.finishMul(ex, coeff, vars)

	default:
		if opKind, ok := e.ast.AsOp(ex); ok {
			return e.finishOp(ex, opKind)
		}
		if c, ok := e.ast.AsNumeral(ex); ok {
			v := e.mkVar(ex)
			e.fixVar(v, c)
			e.vars[v].Value = c
			e.vars[v].BestValue = c
			return v
		}
		return e.mkVar(ex)
	}
}

func isLinearShape[T Value[T]](ast Ast[T], ex plugin.Expr) bool {
	return ast.IsAdd(ex) || ast.IsSub(ex) || ast.IsUMinus(ex)
}

// collectLinear distributes +, - and unary minus into a LinearTerm, per
// spec section 4.1: "additions and subtractions distribute coefficients;
// unary minus negates the coefficient."
func (e *Engine[T]) collectLinear(ex plugin.Expr) LinearTerm[T] {
	term := LinearTerm[T]{Const: e.zero()}
	e.addArgs(&term, ex, e.one())
	return term
}

func (e *Engine[T]) addArgs(term *LinearTerm[T], ex plugin.Expr, sign T) {
	if e.ast.IsAdd(ex) {
		n := e.ast.NumArgs(ex)
		for i := 0; i < n; i++ {
			e.addArgs(term, e.ast.Arg(ex, i), sign)
		}
		return
	}
	if e.ast.IsSub(ex) {
		e.addArgs(term, e.ast.Arg(ex, 0), sign)
		e.addArgs(term, e.ast.Arg(ex, 1), sign.Neg())
		return
	}
	if e.ast.IsUMinus(ex) {
		e.addArgs(term, e.ast.Arg(ex, 0), sign.Neg())
		return
	}
	if c, ok := e.ast.AsNumeral(ex); ok {
		term.Const = term.Const.Add(sign.Mul(c))
		return
	}
	v := e.mkTerm(ex)
	e.addArg(term, sign, v)
}

func (e *Engine[T]) addArg(term *LinearTerm[T], c T, v VarT) {
	for i := range term.Args {
		if term.Args[i].Var == v {
			term.Args[i].Coeff = term.Args[i].Coeff.Add(c)
			return
		}
	}
	term.Args = append(term.Args, coeffVar[T]{Coeff: c, Var: v})
}

// finishLinear turns a canonicalised LinearTerm into a variable, collapsing
// a singleton sum with coefficient 1 and no constant to its sole argument
// (spec section 4.1: "A singleton addition whose sole argument has
// coefficient 1 is collapsed to the argument.").
func (e *Engine[T]) finishLinear(ex plugin.Expr, term LinearTerm[T]) VarT {
	if len(term.Args) == 1 && term.Args[0].Coeff.Equal(e.one()) && term.Const.IsZero() {
		v := term.Args[0].Var
		e.expr2var[ex.ID()] = v
		return v
	}
	if len(term.Args) == 0 {
		v := e.mkVar(ex)
		e.fixVar(v, term.Const)
		e.vars[v].Value = term.Const
		e.vars[v].BestValue = term.Const
		return v
	}
	result := e.mkVar(ex)
	idx := len(e.adds)
	e.adds = append(e.adds, AddDef[T]{LinearTerm: term, Result: result})
	e.vars[result].DefIdx = idx
	e.vars[result].DefKind = defAdd
	for _, cv := range term.Args {
		e.addBackEdgeAdd(cv.Var, idx)
	}
	e.setValue(result, e.evalAdd(&e.adds[idx]))
	return result
}

// collectMulFactors flattens nested multiplications, folding numeral
// factors into coeff, per spec section 4.1: "multiplications fold constant
// factors and promote products-of-more-than-one variable to a fresh MulDef
// variable."
func (e *Engine[T]) collectMulFactors(ex plugin.Expr, coeff T) (T, []VarT) {
	var vars []VarT
	var walk func(plugin.Expr)
	walk = func(x plugin.Expr) {
		switch {
		case e.ast.IsMul(x):
			n := e.ast.NumArgs(x)
			for i := 0; i < n; i++ {
				walk(e.ast.Arg(x, i))
			}
		default:
			if c, ok := e.ast.AsNumeral(x); ok {
				coeff = coeff.Mul(c)
				return
			}
			vars = append(vars, e.mkTerm(x))
		}
	}
	walk(ex)
	return coeff, vars
}

func (e *Engine[T]) finishMul(ex plugin.Expr, coeff T, vars []VarT) VarT {
	switch len(vars) {
	case 0:
		v := e.mkVar(ex)
		e.fixVar(v, coeff)
		e.vars[v].Value = coeff
		e.vars[v].BestValue = coeff
		return v
	case 1:
		if coeff.Equal(e.one()) {
			e.expr2var[ex.ID()] = vars[0]
			return vars[0]
		}
		term := LinearTerm[T]{Const: e.zero(), Args: []coeffVar[T]{{Coeff: coeff, Var: vars[0]}}}
		return e.finishLinearNamed(ex, term)
	default:
		result := e.mkVar(ex)
		idx := len(e.muls)
		e.muls = append(e.muls, MulDef[T]{Result: result, Coeff: coeff, Monomial: vars})
		e.vars[result].DefIdx = idx
		e.vars[result].DefKind = defMul
		for _, v := range vars {
			e.addBackEdgeMul(v, idx)
		}
		e.setValue(result, e.evalMul(&e.muls[idx]))
		return result
	}
}

// finishLinearNamed is finishLinear without the singleton-collapse rule:
// used when a single-variable monomial with a non-unit coefficient must
// still get its own AddDef (and thus its own back-edges) so repair_add can
// touch it.
func (e *Engine[T]) finishLinearNamed(ex plugin.Expr, term LinearTerm[T]) VarT {
	result := e.mkVar(ex)
	idx := len(e.adds)
	e.adds = append(e.adds, AddDef[T]{LinearTerm: term, Result: result})
	e.vars[result].DefIdx = idx
	e.vars[result].DefKind = defAdd
	for _, cv := range term.Args {
		e.addBackEdgeAdd(cv.Var, idx)
	}
	e.setValue(result, e.evalAdd(&e.adds[idx]))
	return result
}

func (e *Engine[T]) finishOp(ex plugin.Expr, op OpKind) VarT {
	n := e.ast.NumArgs(ex)
	arg1 := e.mkTerm(e.ast.Arg(ex, 0))
	arg2 := noVar
	if n > 1 {
		arg2 = e.mkTerm(e.ast.Arg(ex, 1))
	}
	result := e.mkVar(ex)
	idx := len(e.ops)
	e.ops = append(e.ops, OpDef[T]{Result: result, Op: op, Arg1: arg1, Arg2: arg2})
	e.vars[result].DefIdx = idx
	e.vars[result].DefKind = defOp
	e.vars[result].Op = op
	e.setValue(result, e.evalOp(&e.ops[idx]))
	return result
}

// fixVar pins v's bounds to a single value, the representation chosen for
// numerals and fully-constant subterms (they never participate in repair).
func (e *Engine[T]) fixVar(v VarT, c T) {
	e.vars[v].HasLo, e.vars[v].HasHi = true, true
	e.vars[v].Lo = bound[T]{Value: c}
	e.vars[v].Hi = bound[T]{Value: c}
}

// setValue assigns v's value directly, without touching atoms or
// back-edges: used only during initial construction, before v can occur in
// any ineq. Repair moves must go through update() instead.
func (e *Engine[T]) setValue(v VarT, val T) {
	e.vars[v].Value = val
	e.vars[v].BestValue = val
}

func (e *Engine[T]) evalAdd(ad *AddDef[T]) T {
	sum := ad.Const
	for _, cv := range ad.Args {
		sum = sum.Add(cv.Coeff.Mul(e.value(cv.Var)))
	}
	return sum
}

func (e *Engine[T]) evalMul(md *MulDef[T]) T {
	prod := md.Coeff
	for _, v := range md.Monomial {
		prod = prod.Mul(e.value(v))
	}
	return prod
}
