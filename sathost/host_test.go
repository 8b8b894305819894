package sathost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nbjorner/smtcore/arith"
	"github.com/nbjorner/smtcore/datatype"
	"github.com/nbjorner/smtcore/plugin"
	"github.com/nbjorner/smtcore/slicing"
	"github.com/nbjorner/smtcore/viable"
)

// TestArithOverHost drives arith.Engine against a Manager/Context pair:
// it registers x + y = 3, assigns the atom true, and checks that Initialize
// runs against the shared host without panicking.
func TestArithOverHost(t *testing.T) {
	m := NewManager()
	ctx := NewContext(0, 1)

	x := m.MkArithVar(arith.SortInt)
	y := m.MkArithVar(arith.SortInt)
	three := m.MkIntNum(3, arith.SortInt)
	sum := m.MkAdd(arith.SortInt, x, y)
	eq := m.MkIneq(arith.IneqEQ, sum, three)

	bv := ctx.NewVar(eq)
	ctx.assign[bv] = true

	e := arith.NewEngine[arith.Int64](ctx, m, arith.Int64Factory, nil)
	e.RegisterTerm(sum)
	require.NotPanics(t, e.Initialize)
}

// TestViableAndSlicingShareHost builds a bit-vector variable and registers
// it with both viable and slicing against the same Manager/Context, the
// scenario the host exists to drive: two cores reading the same term graph.
func TestViableAndSlicingShareHost(t *testing.T) {
	m := NewManager()
	ctx := NewContext(0, 1)

	v := m.MkBVVar(8)
	bound := m.MkBVNum(8, 5)
	_ = bound

	vi := viable.NewEngine(ctx, m, 1000)
	vi.RegisterTerm(v)

	sl := slicing.NewEngine(ctx, m)
	sl.RegisterTerm(v)

	assert.True(t, vi.IsSat())
	assert.True(t, sl.IsSat())
}

// TestDatatypeOverHost registers a two-constructor recursive list sort
// (nil, cons) and checks AddAxioms populates the clause store.
func TestDatatypeOverHost(t *testing.T) {
	m := NewManager()
	ctx := NewContext(0, 1)

	const ctorNil datatype.ConstructorID = 0
	const ctorCons datatype.ConstructorID = 1
	m.DeclareDatatype("list", true, map[datatype.ConstructorID]int{ctorNil: 0, ctorCons: 2})

	head := m.MkVar("elem")
	tail := m.MkVar("list")
	m.MkCtorApp(ctorCons, []plugin.Expr{head, tail})

	e := datatype.NewEngine(ctx, m)
	e.AddAxioms()

	assert.NotEmpty(t, ctx.Clauses())
}
