package viable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFindViableSingleton covers S4: a 4-bit variable constrained to
// v >= 5 and v <= 5 must resolve to the singleton value 5.
func TestFindViableSingleton(t *testing.T) {
	e := NewEngine(nil, nil, 0)
	const v VarID = 0

	e.AddUnitary(v, Constraint{Kind: CmpGE, Bound: 5, Width: 4, Src: 1})
	e.AddUnitary(v, Constraint{Kind: CmpLE, Bound: 5, Width: 4, Src: 2})

	res, val, core := e.FindViable(v)
	require.Equal(t, Singleton, res)
	assert.Equal(t, uint64(5), val)
	assert.Nil(t, core)
}

// TestFindViableEmpty covers S5: v <= 3 and v >= 5 leave nothing viable;
// find_viable must report empty with a core naming both constraints.
func TestFindViableEmpty(t *testing.T) {
	e := NewEngine(nil, nil, 0)
	const v VarID = 0

	e.AddUnitary(v, Constraint{Kind: CmpLE, Bound: 3, Width: 4, Src: 7})
	e.AddUnitary(v, Constraint{Kind: CmpGE, Bound: 5, Width: 4, Src: 9})

	res, _, core := e.FindViable(v)
	require.Equal(t, Empty, res)
	assert.ElementsMatch(t, []int{7, 9}, core)
	assert.True(t, e.stateFor(v).hasCore)
}

// TestFindViableMultiple checks the ordinary case: a wide-open domain
// reports multiple and advances on successive calls.
func TestFindViableMultiple(t *testing.T) {
	e := NewEngine(nil, nil, 0)
	const v VarID = 0
	e.AddUnitary(v, Constraint{Kind: CmpNE, Bound: 0, Width: 4, Src: 1})

	res, val1, _ := e.FindViable(v)
	require.Equal(t, Multiple, res)
	assert.NotEqual(t, uint64(0), val1)

	_, val2, _ := e.FindViable(v)
	assert.NotEqual(t, val1, val2, "successive finds should advance through the free range")
}

// TestScopedBacktracking checks that PopScope removes entries added inside
// the scope, per spec section 5's scoped allocator requirement.
func TestScopedBacktracking(t *testing.T) {
	e := NewEngine(nil, nil, 0)
	const v VarID = 0
	e.AddUnitary(v, Constraint{Kind: CmpGE, Bound: 5, Width: 4, Src: 1})

	e.PushScope()
	e.AddUnitary(v, Constraint{Kind: CmpLE, Bound: 5, Width: 4, Src: 2})
	res, _, _ := e.FindViable(v)
	require.Equal(t, Singleton, res)

	e.PopScope()
	res2, _, _ := e.FindViable(v)
	assert.NotEqual(t, Singleton, res2, "the narrowing constraint must be undone on PopScope")
}
