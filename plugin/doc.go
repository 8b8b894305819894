/*
Package plugin describes the capabilities a theory core needs from its host
and the contract the host expects back from a core.

The host (the top-level SAT/SMT context, its AST manager and its e-graph) is
not part of this module: a core only ever sees it through the Context,
AstManager and EGraph interfaces below. A core itself implements Plugin, and
is driven purely by the host calling register_term/propagate_literal/
propagate/repair_up/repair_down/is_sat, never the other way around.
*/
package plugin

import "fmt"

// Var is a Boolean variable id in the host's clause store.
type Var int32

// Lit is a signed literal over a Var, encoded the way solver.Lit is: even
// values are positive, odd values are negated.
type Lit int32

// MkLit builds the literal for v, negated if neg.
func MkLit(v Var, neg bool) Lit {
	if neg {
		return Lit(v*2) + 1
	}
	return Lit(v * 2)
}

// Var returns the underlying variable of l.
func (l Lit) Var() Var { return Var(l / 2) }

// IsPos is true iff l is the positive occurrence of its variable.
func (l Lit) IsPos() bool { return l%2 == 0 }

// Negation returns the literal for the opposite polarity of the same Var.
func (l Lit) Negation() Lit { return l ^ 1 }

func (l Lit) String() string {
	if l.IsPos() {
		return fmt.Sprintf("%d", l.Var())
	}
	return fmt.Sprintf("-%d", l.Var())
}

// Expr is an opaque handle on a term owned by the host's AST manager. Cores
// never inspect its internals; all structural queries go through AstManager.
type Expr interface {
	// ID is a manager-wide unique, stable identifier, suitable as a map key.
	ID() int
}

// Clause is a host clause, exposed read-only to a core building an
// explanation or scanning use-lists.
type Clause struct {
	Lits   []Lit
	Weight int
}

// Context is the capability surface a core consumes from the host SAT/SMT
// engine: Boolean assignment, clause store, use-lists and randomness.
type Context interface {
	IsTrue(lit Lit) bool
	Flip(v Var)
	Atom(v Var) Expr
	GetClause(idx int) *Clause
	GetUseList(lit Lit) []int
	GetWeight(clauseIdx int) int
	Rand() *Rand
	NumBoolVars() int
	UnitLiterals() []Lit
	Clauses() []*Clause
	NewValueEh(e Expr)
	AddClause(lits []Lit)
	MkLiteral(e Expr) Lit
	SetConflict(core []Lit)
}

// AstManager is the capability surface for term construction and structural
// queries, consumed by register_term/mk_term in every core.
type AstManager interface {
	IsApp(e Expr) bool
	NumArgs(e Expr) int
	Arg(e Expr, i int) Expr
	IsEq(e Expr) (lhs, rhs Expr, ok bool)
	Sort(e Expr) string
}

// EGraph is the capability consumed by the slicing core: merge two enodes
// under a justification, drain propagation, and report/explain conflicts.
type EGraph interface {
	Merge(a, b int, justification int) bool
	Find(n int) int
	Inconsistent() bool
	Propagate() bool
	Explain(a, b int) []int
}
