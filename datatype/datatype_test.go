package datatype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbjorner/smtcore/plugin"
)

// expr is the test package's only plugin.Expr shape: an id plus a free-form
// tag so assertions can tell constructed axiom terms apart without a real
// AST manager backing them.
type expr struct {
	id  int
	tag string
}

func (e *expr) ID() int { return e.id }

// fakeCtx records every clause handed to AddClause and serves a fixed
// MkLiteral/Atom/UnitLiterals table, enough surface for AddAxioms and the
// path-axiom walk to run against.
type fakeCtx struct {
	nextLit plugin.Lit
	litOf   map[int]plugin.Lit
	clauses [][]plugin.Lit
	atoms   []plugin.Expr
	units   []plugin.Lit
}

func newFakeCtx() *fakeCtx { return &fakeCtx{litOf: make(map[int]plugin.Lit)} }

func (c *fakeCtx) IsTrue(plugin.Lit) bool            { return false }
func (c *fakeCtx) Flip(plugin.Var)                   {}
func (c *fakeCtx) Atom(v plugin.Var) plugin.Expr {
	if int(v) < len(c.atoms) {
		return c.atoms[v]
	}
	return nil
}
func (c *fakeCtx) GetClause(int) *plugin.Clause      { return nil }
func (c *fakeCtx) GetUseList(plugin.Lit) []int       { return nil }
func (c *fakeCtx) GetWeight(int) int                 { return 1 }
func (c *fakeCtx) Rand() *plugin.Rand                { return plugin.NewRand(1) }
func (c *fakeCtx) NumBoolVars() int                  { return len(c.atoms) }
func (c *fakeCtx) UnitLiterals() []plugin.Lit        { return c.units }
func (c *fakeCtx) Clauses() []*plugin.Clause         { return nil }
func (c *fakeCtx) NewValueEh(plugin.Expr)            {}
func (c *fakeCtx) AddClause(lits []plugin.Lit) {
	c.clauses = append(c.clauses, append([]plugin.Lit{}, lits...))
}
func (c *fakeCtx) MkLiteral(e plugin.Expr) plugin.Lit {
	if l, ok := c.litOf[e.ID()]; ok {
		return l
	}
	l := c.nextLit
	c.nextLit += 2
	c.litOf[e.ID()] = l
	return l
}
func (c *fakeCtx) SetConflict([]plugin.Lit) {}

// fakeAst is a two-constructor recursive list datatype: nil (zero-arity)
// and cons(head, tail), enough to exercise every axiom family including
// path axioms through tail.
type fakeAst struct {
	nextID   int
	subterms []plugin.Expr
	// ctor 0 = nil, ctor 1 = cons
}

const (
	ctorNil  ConstructorID = 0
	ctorCons ConstructorID = 1
)

func (a *fakeAst) fresh(tag string) *expr {
	a.nextID++
	return &expr{id: a.nextID, tag: tag}
}

func (a *fakeAst) IsApp(plugin.Expr) bool                            { return true }
func (a *fakeAst) NumArgs(e plugin.Expr) int {
	if ex, ok := e.(*expr); ok && ex.tag == "cons" {
		return 2
	}
	return 0
}
func (a *fakeAst) Arg(e plugin.Expr, i int) plugin.Expr {
	return e.(*ctorExpr).args[i]
}
func (a *fakeAst) IsEq(e plugin.Expr) (plugin.Expr, plugin.Expr, bool) {
	ex, ok := e.(*eqExpr)
	if !ok {
		return nil, nil, false
	}
	return ex.lhs, ex.rhs, true
}
func (a *fakeAst) Sort(e plugin.Expr) string {
	ex, ok := e.(*expr)
	if !ok {
		return "list"
	}
	if ex.tag == "elem" {
		return "elem"
	}
	return "list"
}

func (a *fakeAst) Subterms() []plugin.Expr { return a.subterms }
func (a *fakeAst) IsDatatypeSort(sort string) bool  { return sort == "list" }
func (a *fakeAst) IsRecursiveSort(sort string) bool { return sort == "list" }
func (a *fakeAst) ConstructorsOf(sort string) []ConstructorID {
	if sort != "list" {
		return nil
	}
	return []ConstructorID{ctorNil, ctorCons}
}
func (a *fakeAst) ConstructorArity(c ConstructorID) int {
	if c == ctorCons {
		return 2
	}
	return 0
}
func (a *fakeAst) IsConstructorApp(e plugin.Expr) (ConstructorID, bool) {
	ex, ok := e.(*ctorExpr)
	if !ok {
		return 0, false
	}
	return ex.c, true
}
func (a *fakeAst) IsAccessorApp(e plugin.Expr) (ConstructorID, int, plugin.Expr, bool) {
	ex, ok := e.(*accExpr)
	if !ok {
		return 0, 0, nil, false
	}
	return ex.c, ex.i, ex.arg, true
}
func (a *fakeAst) MkIsC(c ConstructorID, t plugin.Expr) plugin.Expr {
	return a.fresh("is_c")
}
func (a *fakeAst) MkAcc(c ConstructorID, i int, t plugin.Expr) plugin.Expr {
	return &accExpr{expr: *a.fresh("acc"), c: c, i: i, arg: t}
}
func (a *fakeAst) MkCtorApp(c ConstructorID, args []plugin.Expr) plugin.Expr {
	return &ctorExpr{expr: *a.fresh("ctorapp"), c: c, args: args}
}
func (a *fakeAst) MkConstVal(c ConstructorID) plugin.Expr { return a.fresh("constval") }
func (a *fakeAst) MkEq(x, y plugin.Expr) plugin.Expr {
	return &eqExpr{expr: *a.fresh("eq"), lhs: x, rhs: y}
}
func (a *fakeAst) MkNot(plugin.Expr) plugin.Expr              { return a.fresh("not") }
func (a *fakeAst) MkOr([]plugin.Expr) plugin.Expr             { return a.fresh("or") }
func (a *fakeAst) MkIff(plugin.Expr, plugin.Expr) plugin.Expr { return a.fresh("iff") }
func (a *fakeAst) MkImplies(plugin.Expr, plugin.Expr) plugin.Expr {
	return a.fresh("implies")
}

type ctorExpr struct {
	expr
	c    ConstructorID
	args []plugin.Expr
}

type accExpr struct {
	expr
	c   ConstructorID
	i   int
	arg plugin.Expr
}

type eqExpr struct {
	expr
	lhs, rhs plugin.Expr
}

func TestConstructorAxiomsEmitted(t *testing.T) {
	ast := &fakeAst{}
	head := ast.fresh("elem")
	t0 := &ctorExpr{expr: *ast.fresh("cons"), c: ctorCons, args: []plugin.Expr{head, ast.fresh("elem")}}
	ast.subterms = []plugin.Expr{t0}

	ctx := newFakeCtx()
	e := NewEngine(ctx, ast)
	e.AddAxioms()

	require.NotEmpty(t, ctx.clauses, "constructor application should emit at least is_c(t) as a unit clause")
}

func TestZeroArityIffEmitted(t *testing.T) {
	ast := &fakeAst{}
	nilTerm := ast.fresh("niltm")
	ast.subterms = []plugin.Expr{nilTerm}

	ctx := newFakeCtx()
	e := NewEngine(ctx, ast)
	e.AddAxioms()

	// sortAxioms on a list-sorted term: the some-constructor disjunction, the
	// one nil/cons pairwise clause, and the iff for zero-arity nil; cons has
	// arity 2 and gets no iff, and there are no accessor terms to walk.
	assert.Len(t, ctx.clauses, 3, "zero-arity nil should add its is_nil(t) <=> t = nil axiom")
}

func TestPathAxiomDetectsSelfCons(t *testing.T) {
	ast := &fakeAst{}
	x := ast.fresh("listvar")
	tail := &accExpr{expr: *ast.fresh("acc"), c: ctorCons, i: 1, arg: x}
	eq := &eqExpr{expr: *ast.fresh("eq"), lhs: x, rhs: tail}
	ast.subterms = []plugin.Expr{x, tail, eq}

	ctx := newFakeCtx()
	ctx.atoms = []plugin.Expr{eq}
	ctx.units = []plugin.Lit{plugin.MkLit(0, false)}

	e := NewEngine(ctx, ast)
	e.collectPathAxioms()

	found := false
	for _, cl := range ctx.clauses {
		if len(cl) == 0 {
			found = true
		}
	}
	assert.True(t, found, "x = tail(x) with tail recursive should derive an empty (unconditional false) clause")
}

func TestPluginIsSatAlwaysTrue(t *testing.T) {
	ast := &fakeAst{}
	ctx := newFakeCtx()
	e := NewEngine(ctx, ast)
	assert.True(t, e.IsSat())
	e.Initialize()
	assert.True(t, e.IsSat())
}
