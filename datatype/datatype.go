// Package datatype elaborates the finite set of background axioms that
// make a recursive SAT encoding sound for algebraic datatype terms: spec
// section 4.4's "brief" axiom elaboration core, grounded on
// _examples/original_source/src/ast/sls/sls_datatype_plugin.cpp.
//
// Unlike arith, viable and slicing this core does no local search or
// propagation of its own: add_axioms runs once per round of term
// registration and hands everything off to the host's clause store as
// ordinary Boolean structure.
package datatype

import "github.com/nbjorner/smtcore/plugin"

// ConstructorID identifies one constructor of one datatype sort. It is
// opaque to this package; AstManager is the only thing that interprets it.
type ConstructorID int

// AstManager is the datatype-specific structural and construction surface
// add_axioms needs on top of plugin.AstManager. The construction methods
// (MkIsC, MkAcc, ...) exist because, unlike slicing's GetValue stub, axiom
// elaboration has no sensible no-op: there is no way to emit "is_c(c(t))"
// without building the expression for it.
type AstManager interface {
	plugin.AstManager

	// Subterms returns every subterm currently registered with the host,
	// the set add_axioms walks.
	Subterms() []plugin.Expr

	// IsDatatypeSort reports whether sort names an algebraic datatype.
	IsDatatypeSort(sort string) bool
	// IsRecursiveSort reports whether sort can contain a value of itself,
	// the condition path axioms are restricted to.
	IsRecursiveSort(sort string) bool

	// ConstructorsOf returns every constructor of a datatype sort.
	ConstructorsOf(sort string) []ConstructorID
	// ConstructorArity returns the number of fields constructor c takes.
	ConstructorArity(c ConstructorID) int

	// IsConstructorApp reports whether e is c(...) for some constructor c.
	IsConstructorApp(e plugin.Expr) (c ConstructorID, ok bool)
	// IsAccessorApp reports whether e is acc_i(u) for some constructor c's
	// i-th accessor, along with the argument u.
	IsAccessorApp(e plugin.Expr) (c ConstructorID, i int, u plugin.Expr, ok bool)

	// MkIsC builds is_c(t), the recognizer application.
	MkIsC(c ConstructorID, t plugin.Expr) plugin.Expr
	// MkAcc builds acc_i(t), c's i-th accessor applied to t.
	MkAcc(c ConstructorID, i int, t plugin.Expr) plugin.Expr
	// MkCtorApp builds c(args...).
	MkCtorApp(c ConstructorID, args []plugin.Expr) plugin.Expr
	// MkConstVal builds the value of a zero-arity constructor.
	MkConstVal(c ConstructorID) plugin.Expr

	MkEq(a, b plugin.Expr) plugin.Expr
	MkNot(e plugin.Expr) plugin.Expr
	MkOr(es []plugin.Expr) plugin.Expr
	MkIff(a, b plugin.Expr) plugin.Expr
	MkImplies(a, b plugin.Expr) plugin.Expr
}

// edge is one path-axiom predecessor: child is known equal to acc_i(parent)
// (or, with hasLit false, unconditionally so), the Go shape of the
// original's parent_t.
type edge struct {
	parent plugin.Expr
	lit    plugin.Lit
	hasLit bool
}

// Engine is the datatype axiom elaboration core.
type Engine struct {
	ctx plugin.Context
	ast AstManager

	parents  map[int][]edge
	exprByID map[int]plugin.Expr
}

var _ plugin.Plugin = (*Engine)(nil)

// NewEngine constructs an empty datatype Engine.
func NewEngine(ctx plugin.Context, ast AstManager) *Engine {
	return &Engine{
		ctx:      ctx,
		ast:      ast,
		parents:  make(map[int][]edge),
		exprByID: make(map[int]plugin.Expr),
	}
}

func (e *Engine) addEdge(child, parent plugin.Expr, lit plugin.Lit, hasLit bool) {
	e.exprByID[child.ID()] = child
	e.exprByID[parent.ID()] = parent
	e.parents[child.ID()] = append(e.parents[child.ID()], edge{parent: parent, lit: lit, hasLit: hasLit})
}
