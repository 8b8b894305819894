package datatype

import "github.com/nbjorner/smtcore/plugin"

// collectPathAxioms builds the child->parent edges a path axiom walk needs
// (accessor applications into recursive sorts, and equalities between an
// accessor application and some other term) and then emits the axioms
// themselves.
func (e *Engine) collectPathAxioms() {
	for _, s := range e.ast.Subterms() {
		if _, _, u, ok := e.ast.IsAccessorApp(s); ok && e.ast.IsRecursiveSort(e.ast.Sort(u)) {
			e.addEdge(s, u, 0, false)
		}
	}

	units := make(map[plugin.Lit]bool)
	for _, l := range e.ctx.UnitLiterals() {
		units[l] = true
	}

	for v := plugin.Var(0); int(v) < e.ctx.NumBoolVars(); v++ {
		atom := e.ctx.Atom(v)
		if atom == nil {
			continue
		}
		x, y, ok := e.ast.IsEq(atom)
		if !ok {
			continue
		}
		lp := plugin.MkLit(v, false)
		ln := plugin.MkLit(v, true)

		if _, _, z, ok := e.ast.IsAccessorApp(x); ok && e.ast.IsRecursiveSort(e.ast.Sort(z)) {
			e.recordEqualityEdge(y, z, lp, ln, units)
		}
		if _, _, z, ok := e.ast.IsAccessorApp(y); ok && e.ast.IsRecursiveSort(e.ast.Sort(z)) {
			e.recordEqualityEdge(x, z, lp, ln, units)
		}
	}

	e.addPathAxioms()
}

// recordEqualityEdge adds the child=lp/acc edge relating other to z,
// skipping it entirely when the equality is a unit in its negated polarity
// (the path it would witness can never hold), and dropping the guard
// literal when the equality is unconditionally true.
func (e *Engine) recordEqualityEdge(other, z plugin.Expr, lp, ln plugin.Lit, units map[plugin.Lit]bool) {
	switch {
	case units[lp]:
		e.addEdge(other, z, 0, false)
	case units[ln]:
		// the equality can never hold; no path through it.
	default:
		e.addEdge(other, z, lp, true)
	}
}

// addPathAxioms runs a path-axiom walk starting from every recorded child.
func (e *Engine) addPathAxioms() {
	for cid, edges := range e.parents {
		child := e.exprByID[cid]
		e.walkPath([]plugin.Expr{child}, nil, edges)
	}
}

// walkPath extends path with each of edges' parents in turn. When a parent
// closes a cycle back onto the path, or shares the root's sort (so the
// chain witnesses a disequality the host needs as a clause), it emits a
// clause asserting the accumulated guard negations imply that outcome; it
// then continues the walk through the newly reached parent's own edges, if
// any, to cover longer chains s = acc(...(acc(t))).
func (e *Engine) walkPath(path []plugin.Expr, lits []plugin.Lit, edges []edge) {
	for _, ed := range edges {
		guarded := lits
		if ed.hasLit {
			guarded = append(append([]plugin.Lit{}, lits...), ed.lit.Negation())
		}

		if containsExpr(path, ed.parent) {
			e.ctx.AddClause(guarded)
			continue
		}

		if e.ast.Sort(path[0]) == e.ast.Sort(ed.parent) {
			eqLit := e.ctx.MkLiteral(e.ast.MkEq(path[0], ed.parent))
			e.ctx.AddClause(append(append([]plugin.Lit{}, guarded...), eqLit.Negation()))
		}

		if next, ok := e.parents[ed.parent.ID()]; ok {
			e.walkPath(append(path, ed.parent), guarded, next)
		}
	}
}

func containsExpr(path []plugin.Expr, e plugin.Expr) bool {
	for _, p := range path {
		if p.ID() == e.ID() {
			return true
		}
	}
	return false
}
