package arith

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbjorner/smtcore/plugin"
)

// fakeCtx is a minimal plugin.Context stub: enough Boolean-assignment state
// to drive repair, nothing else.
type fakeCtx struct {
	assign map[plugin.Var]bool
	rnd    *plugin.Rand
}

func newFakeCtx(seed int64) *fakeCtx {
	return &fakeCtx{assign: make(map[plugin.Var]bool), rnd: plugin.NewRand(seed)}
}

func (c *fakeCtx) IsTrue(lit plugin.Lit) bool {
	v := c.assign[lit.Var()]
	if lit.IsPos() {
		return v
	}
	return !v
}
func (c *fakeCtx) Flip(v plugin.Var)               { c.assign[v] = !c.assign[v] }
func (c *fakeCtx) Atom(v plugin.Var) plugin.Expr    { return nil }
func (c *fakeCtx) GetClause(idx int) *plugin.Clause { return nil }
func (c *fakeCtx) GetUseList(lit plugin.Lit) []int  { return nil }
func (c *fakeCtx) GetWeight(idx int) int            { return 1 }
func (c *fakeCtx) Rand() *plugin.Rand               { return c.rnd }
func (c *fakeCtx) NumBoolVars() int                 { return 0 }
func (c *fakeCtx) UnitLiterals() []plugin.Lit       { return nil }
func (c *fakeCtx) Clauses() []*plugin.Clause        { return nil }
func (c *fakeCtx) NewValueEh(e plugin.Expr)         {}
func (c *fakeCtx) AddClause(lits []plugin.Lit)      {}
func (c *fakeCtx) MkLiteral(e plugin.Expr) plugin.Lit { return 0 }
func (c *fakeCtx) SetConflict(core []plugin.Lit)    {}

// atomCtx additionally serves a fixed Atom() table and NumBoolVars, for the
// Initialize()-driven integration test.
type atomCtx struct {
	*fakeCtx
	atoms []plugin.Expr
}

func (c *atomCtx) Atom(v plugin.Var) plugin.Expr {
	if int(v) < len(c.atoms) {
		return c.atoms[v]
	}
	return nil
}
func (c *atomCtx) NumBoolVars() int { return len(c.atoms) }

// --- minimal fakeAst, just enough surface for the tests below ---

type varExpr struct{ id int }

func (v varExpr) ID() int { return v.id }

type numExpr struct {
	id  int
	val Int64
}

func (n numExpr) ID() int { return n.id }

type ineqExpr struct {
	id       int
	kind     IneqKind
	lhs, rhs plugin.Expr
}

func (x ineqExpr) ID() int { return x.id }

type fakeAst struct{}

func (fakeAst) IsApp(e plugin.Expr) bool                       { return false }
func (fakeAst) NumArgs(e plugin.Expr) int                      { return 0 }
func (fakeAst) Arg(e plugin.Expr, i int) plugin.Expr            { return nil }
func (fakeAst) IsEq(e plugin.Expr) (plugin.Expr, plugin.Expr, bool) { return nil, nil, false }
func (fakeAst) Sort(e plugin.Expr) string                      { return "Int" }
func (fakeAst) VarSort(e plugin.Expr) Sort                      { return SortInt }
func (fakeAst) AsNumeral(e plugin.Expr) (Int64, bool) {
	n, ok := e.(numExpr)
	if !ok {
		return Int64{}, false
	}
	return n.val, true
}
func (fakeAst) IsAdd(e plugin.Expr) bool    { return false }
func (fakeAst) IsMul(e plugin.Expr) bool    { return false }
func (fakeAst) IsUMinus(e plugin.Expr) bool { return false }
func (fakeAst) IsSub(e plugin.Expr) bool    { return false }
func (fakeAst) AsOp(e plugin.Expr) (OpKind, bool) { return OpNone, false }
func (fakeAst) AsIneq(e plugin.Expr) (IneqKind, plugin.Expr, plugin.Expr, bool) {
	x, ok := e.(ineqExpr)
	if !ok {
		return 0, nil, nil, false
	}
	return x.kind, x.lhs, x.rhs, true
}

// TestRepairLE exercises the full Initialize -> disagreement -> Repair path
// for a single LE atom (x <= 3), the S1 scenario of spec section 8.2.
func TestRepairLE(t *testing.T) {
	atom := ineqExpr{id: 10, kind: IneqLE, lhs: varExpr{id: 1}, rhs: numExpr{id: 2, val: NewInt64(3)}}
	ctx := &atomCtx{fakeCtx: newFakeCtx(1), atoms: []plugin.Expr{atom}}
	ctx.assign[0] = true // x <= 3 asserted true

	e := NewEngine[Int64](ctx, fakeAst{}, Int64Factory, nil)
	e.Initialize()

	vx, ok := e.expr2var[varExpr{id: 1}.ID()]
	require.True(t, ok, "x should have been registered as a variable during Initialize")

	// Force a disagreement: x jumps to 5, violating x <= 3, without going
	// through update (which would immediately resync the Boolean instead).
	ineq := e.boolVars[plugin.Var(0)]
	require.NotNil(t, ineq)
	e.vars[vx].Value = NewInt64(5)
	ineq.ArgsValue = NewInt64(5)
	require.False(t, ineq.IsTrue())

	e.Repair(plugin.MkLit(0, false))

	assert.NoError(t, e.LastError())
	assert.True(t, ineq.IsTrue(), "repaired atom should agree with its asserted truth value")
	assert.True(t, e.value(vx).Cmp(NewInt64(3)) <= 0, "x should have moved back into range, got %s", e.value(vx))
	assert.True(t, ctx.IsTrue(plugin.MkLit(0, false)), "Boolean assignment should be unchanged, a numeric move sufficed")
}

// TestSolveEqPairsNonUnitCoefficient covers S2: an EQ atom 2x + 4y = 10 with
// no unit coefficient, solvable only via solve_eq_pairs's Bezout search.
func TestSolveEqPairsNonUnitCoefficient(t *testing.T) {
	ctx := newFakeCtx(2)
	e := NewEngine[Int64](ctx, fakeAst{}, Int64Factory, nil)

	vx := e.mkVar(varExpr{id: 1})
	vy := e.mkVar(varExpr{id: 2})

	ineq := &Ineq[Int64]{
		LinearTerm: LinearTerm[Int64]{
			Args:  []coeffVar[Int64]{{Coeff: NewInt64(2), Var: vx}, {Coeff: NewInt64(4), Var: vy}},
			Const: NewInt64(-10),
		},
		Op:        IneqEQ,
		VarToFlip: noVar,
	}
	ineq.ArgsValue = e.evalLinear(&ineq.LinearTerm)
	e.boolVars[plugin.Var(0)] = ineq
	e.vars[vx].BoolVars = append(e.vars[vx].BoolVars, boolOcc[Int64]{Coeff: NewInt64(2), BVar: 0})
	e.vars[vy].BoolVars = append(e.vars[vy].BoolVars, boolOcc[Int64]{Coeff: NewInt64(4), BVar: 0})

	require.False(t, ineq.IsTrue())
	ok := e.solveEqPairs(ineq)
	require.True(t, ok, "solve_eq_pairs should find an integer solution to 2x+4y=10")

	assert.True(t, ineq.IsTrue())
	assert.True(t, e.checkIneqInvariant(ineq), "ArgsValue must track the committed variable values")
}

// TestSolveEqPairsNonUnitCoefficientWithBoundForcesShift covers S2 with a
// bound on x that forces solve_eq_pairs to pick a non-zero shift t away from
// its initial Bezout solution, exercising the general-solution family
// (x0 + t*b/g, y0 - t*a/g) rather than only its t=0 case.
func TestSolveEqPairsNonUnitCoefficientWithBoundForcesShift(t *testing.T) {
	ctx := newFakeCtx(2)
	e := NewEngine[Int64](ctx, fakeAst{}, Int64Factory, nil)

	vx := e.mkVar(varExpr{id: 1})
	vy := e.mkVar(varExpr{id: 2})
	e.vars[vx].HasLo = true
	e.vars[vx].Lo = bound[Int64]{Value: NewInt64(7)}

	ineq := &Ineq[Int64]{
		LinearTerm: LinearTerm[Int64]{
			Args:  []coeffVar[Int64]{{Coeff: NewInt64(2), Var: vx}, {Coeff: NewInt64(4), Var: vy}},
			Const: NewInt64(-10),
		},
		Op:        IneqEQ,
		VarToFlip: noVar,
	}
	ineq.ArgsValue = e.evalLinear(&ineq.LinearTerm)
	e.boolVars[plugin.Var(0)] = ineq
	e.vars[vx].BoolVars = append(e.vars[vx].BoolVars, boolOcc[Int64]{Coeff: NewInt64(2), BVar: 0})
	e.vars[vy].BoolVars = append(e.vars[vy].BoolVars, boolOcc[Int64]{Coeff: NewInt64(4), BVar: 0})

	require.False(t, ineq.IsTrue())
	ok := e.solveEqPairs(ineq)
	require.True(t, ok, "solve_eq_pairs should find an integer solution to 2x+4y=10 with x>=7")

	assert.True(t, e.value(vx).Cmp(NewInt64(7)) >= 0, "x should respect its lower bound, got %s", e.value(vx))
	assert.True(t, ineq.IsTrue(), "the shifted candidate must still satisfy 2x+4y=10")
	assert.True(t, e.checkIneqInvariant(ineq), "ArgsValue must track the committed variable values")
}

// TestRepairMulPreservesInvariant covers S3: whatever branch repair_mul
// takes for result = x*y, the MulDef invariant holds on success.
func TestRepairMulPreservesInvariant(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		ctx := newFakeCtx(seed)
		e := NewEngine[Int64](ctx, fakeAst{}, Int64Factory, nil)

		vx := e.mkVar(varExpr{id: 1})
		vy := e.mkVar(varExpr{id: 2})
		e.vars[vx].Value = NewInt64(3)
		e.vars[vy].Value = NewInt64(4)

		vr := e.mkVar(varExpr{id: 3})
		e.vars[vr].Value = NewInt64(20) // inconsistent with x*y = 12

		idx := len(e.muls)
		e.muls = append(e.muls, MulDef[Int64]{Result: vr, Coeff: NewInt64(1), Monomial: []VarT{vx, vy}})
		e.vars[vr].DefIdx, e.vars[vr].DefKind = idx, defMul
		e.addBackEdgeMul(vx, idx)
		e.addBackEdgeMul(vy, idx)

		ok := e.RepairDown(varExpr{id: 3})
		if ok {
			assert.True(t, e.checkMulInvariant(&e.muls[idx]), "seed %d: result must equal x*y after a successful repair_mul", seed)
		}
	}
}

// TestUpdateIdempotent checks spec section 8.2's idempotence law: updating a
// variable to its current value is a no-op, in particular it never flips a
// Boolean that already agreed.
func TestUpdateIdempotent(t *testing.T) {
	ctx := newFakeCtx(3)
	e := NewEngine[Int64](ctx, fakeAst{}, Int64Factory, nil)

	vx := e.mkVar(varExpr{id: 1})
	e.vars[vx].Value = NewInt64(7)

	ineq := &Ineq[Int64]{
		LinearTerm: LinearTerm[Int64]{Args: []coeffVar[Int64]{{Coeff: NewInt64(1), Var: vx}}, Const: NewInt64(-7)},
		Op:         IneqLE,
	}
	ineq.ArgsValue = e.evalLinear(&ineq.LinearTerm)
	e.boolVars[plugin.Var(0)] = ineq
	e.vars[vx].BoolVars = append(e.vars[vx].BoolVars, boolOcc[Int64]{Coeff: NewInt64(1), BVar: 0})
	ctx.assign[0] = true

	ok := e.update(vx, NewInt64(7))
	assert.True(t, ok)
	assert.Equal(t, NewInt64(7), e.value(vx))
	assert.True(t, ctx.assign[0], "no-op update must not touch the Boolean assignment")
}

// TestRegisterTermDedup checks the structural-deduplication law: registering
// the same expression twice yields the same internal variable.
func TestRegisterTermDedup(t *testing.T) {
	ctx := newFakeCtx(4)
	e := NewEngine[Int64](ctx, fakeAst{}, Int64Factory, nil)

	x := varExpr{id: 1}
	v1 := e.mkTerm(x)
	v2 := e.mkTerm(x)
	assert.Equal(t, v1, v2)
	assert.Equal(t, 1, e.numVars())
}
