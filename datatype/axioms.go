package datatype

import "github.com/nbjorner/smtcore/plugin"

// AddAxioms walks every currently registered subterm and emits the five
// axiom families spec section 4.4 lists, in the order the original emits
// them in: per-constructor recognizer and accessor axioms first, then the
// per-sort exactly-one-recognizer and zero-arity axioms, then (via
// collectPathAxioms) path axioms. It ends by adding every built axiom as a
// unit clause through ctx.MkLiteral/ctx.AddClause.
func (e *Engine) AddAxioms() {
	var axioms []plugin.Expr

	for _, t := range e.ast.Subterms() {
		sort := e.ast.Sort(t)

		if c, ok := e.ast.IsConstructorApp(t); ok {
			axioms = append(axioms, e.constructorAxioms(c, t, sort)...)
			continue
		}
		if c, i, u, ok := e.ast.IsAccessorApp(t); ok {
			if _, isCtor := e.ast.IsConstructorApp(u); !isCtor {
				axioms = append(axioms, e.accessorDefinitionAxiom(c, i, u))
			}
		}
		if e.ast.IsDatatypeSort(sort) {
			axioms = append(axioms, e.sortAxioms(t, sort)...)
		}
	}

	for _, ax := range axioms {
		e.ctx.AddClause([]plugin.Lit{e.ctx.MkLiteral(ax)})
	}

	e.collectPathAxioms()
}

// constructorAxioms emits, for a constructor application t = c(t_1..t_n):
// is_c(t), acc_i(t) = t_i for each field, and ¬is_c2(t) for every sibling
// constructor c2 of the same sort (the asymmetric half of exactly-one,
// restated per constructor application rather than per sort; AddAxioms
// does not pass a constructor application to sortAxioms at all).
func (e *Engine) constructorAxioms(c ConstructorID, t plugin.Expr, sort string) []plugin.Expr {
	var out []plugin.Expr
	out = append(out, e.ast.MkIsC(c, t))

	n := e.ast.ConstructorArity(c)
	for i := 0; i < n; i++ {
		out = append(out, e.ast.MkEq(e.ast.Arg(t, i), e.ast.MkAcc(c, i, t)))
	}

	for _, c2 := range e.ast.ConstructorsOf(sort) {
		if c2 == c {
			continue
		}
		out = append(out, e.ast.MkNot(e.ast.MkIsC(c2, t)))
	}
	return out
}

// accessorDefinitionAxiom emits is_c(u) -> u = c(acc_0(u), ..., acc_{n-1}(u))
// for an accessor application whose argument is not itself a syntactic
// constructor application (spec section 4.4's third family).
func (e *Engine) accessorDefinitionAxiom(c ConstructorID, _ int, u plugin.Expr) plugin.Expr {
	n := e.ast.ConstructorArity(c)
	args := make([]plugin.Expr, n)
	for j := 0; j < n; j++ {
		args[j] = e.ast.MkAcc(c, j, u)
	}
	return e.ast.MkImplies(e.ast.MkIsC(c, u), e.ast.MkEq(u, e.ast.MkCtorApp(c, args)))
}

// sortAxioms emits, for a datatype-sorted term t: the "some constructor
// recognizes t" disjunction, the pairwise "at most one constructor
// recognizes t" clauses, and, for every zero-arity constructor c, is_c(t)
// <=> t = c.
func (e *Engine) sortAxioms(t plugin.Expr, sort string) []plugin.Expr {
	var out []plugin.Expr
	cns := e.ast.ConstructorsOf(sort)

	var ors []plugin.Expr
	for _, c := range cns {
		ors = append(ors, e.ast.MkIsC(c, t))
	}
	out = append(out, e.ast.MkOr(ors))

	for i := 0; i < len(cns); i++ {
		for j := i + 1; j < len(cns); j++ {
			out = append(out, e.ast.MkOr([]plugin.Expr{
				e.ast.MkNot(e.ast.MkIsC(cns[i], t)),
				e.ast.MkNot(e.ast.MkIsC(cns[j], t)),
			}))
		}
	}

	for _, c := range cns {
		if e.ast.ConstructorArity(c) == 0 {
			out = append(out, e.ast.MkIff(e.ast.MkIsC(c, t), e.ast.MkEq(t, e.ast.MkConstVal(c))))
		}
	}
	return out
}
