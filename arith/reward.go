package arith

import "github.com/nbjorner/smtcore/plugin"

// dscore estimates the net improvement, across every atom v occurs in, of
// moving v to newValue: positive means fewer atoms disagree with the host's
// Boolean assignment afterwards. Spec section 4.1 describes it as "weighted
// across all clauses a variable participates in"; this sums over atoms
// (each atom corresponds to exactly one Boolean variable, so the two
// views coincide once use-list weighting is folded in via GetWeight).
func (e *Engine[T]) dscore(v VarT, newValue T) float64 {
	score := 0.0
	for _, occ := range e.vars[v].BoolVars {
		ineq := e.boolVars[occ.BVar]
		if ineq == nil {
			continue
		}
		sign := e.sign(occ.BVar)
		before := e.dtt(sign, ineq.ArgsValue, ineq)
		after := e.dttAt(sign, ineq, v, newValue)
		score += before.Float64() - after.Float64()
	}
	return score
}

// dttReward implements spec section 4.1's dtt_reward: for each variable in
// the atom behind lit, estimate the net effect of moving it (via cm) and
// sample one proportional to max(0.1, 0.2, actual), storing the pick on
// ineq.VarToFlip.
func (e *Engine[T]) dttReward(lit plugin.Lit) float64 {
	bv := lit.Var()
	ineq := e.atom(bv)
	if ineq == nil {
		return 0
	}
	if len(ineq.Args) == 0 {
		ineq.ClearVarToFlip()
		return 0
	}
	weights := make([]float64, len(ineq.Args))
	total := 0.0
	for i, cv := range ineq.Args {
		w := 0.0
		if e.isFixed(cv.Var) {
			w = 0
		} else if newVal, ok := e.cmCoeff(ineq, cv.Var, cv.Coeff); ok {
			effect := e.dscore(cv.Var, newVal)
			switch {
			case effect < 0:
				w = 0.1
			case effect == 0:
				w = 0.2
			default:
				w = effect
			}
		} else {
			w = 0.5
		}
		weights[i] = w
		total += w
	}
	if total <= 0 {
		ineq.ClearVarToFlip()
		return 0
	}
	r := e.ctx.Rand().Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r <= acc {
			ineq.SetVarToFlip(ineq.Args[i].Var)
			return total
		}
	}
	ineq.SetVarToFlip(ineq.Args[len(ineq.Args)-1].Var)
	return total
}

// dscoreReward is reward()'s alternate mode: sample directly on dscore
// without a cm probe, the cheaper of the two strategies spec section 4.1
// names.
func (e *Engine[T]) dscoreReward(bv plugin.Var) float64 {
	ineq := e.atom(bv)
	if ineq == nil || len(ineq.Args) == 0 {
		return 0
	}
	weights := make([]float64, len(ineq.Args))
	total := 0.0
	for i, cv := range ineq.Args {
		w := 0.1
		if !e.isFixed(cv.Var) {
			effect := e.dscore(cv.Var, e.value(cv.Var))
			if effect > 0 {
				w = effect
			}
		}
		weights[i] = w
		total += w
	}
	if total <= 0 {
		ineq.ClearVarToFlip()
		return 0
	}
	r := e.ctx.Rand().Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r <= acc {
			ineq.SetVarToFlip(ineq.Args[i].Var)
			break
		}
	}
	return total
}

// reward dispatches between the two scoring strategies per Config.DscoreMode.
func (e *Engine[T]) reward(lit plugin.Lit) float64 {
	if e.cfg.DscoreMode {
		return e.dscoreReward(lit.Var())
	}
	return e.dttReward(lit)
}
