// Package viable maintains, for each bit-vector variable, the set of values
// still allowed by the currently assigned unary constraints, using
// forbidden-interval records layered by bit-width: the PolySAT viable-value
// engine of spec section 4.2, grounded on
// _examples/original_source/src/sat/smt/polysat/viable.h.
package viable

import (
	"github.com/nbjorner/smtcore/internal/arena"
	"github.com/nbjorner/smtcore/plugin"
)

// VarID identifies one bit-vector variable this engine tracks.
type VarID int

// Kind classifies a forbidden-interval entry by the shape of constraint that
// produced it, per spec section 3.2.
type Kind int

const (
	KindUnit Kind = iota
	KindEqualLin
	KindDiseqLin
)

// Entry is one forbidden interval [Lo, Hi) over a bit-vector value, threaded
// into its layer's circular doubly-linked list via Prev/Next arena ids
// (spec section 9's arena-of-indexed-records design note, replacing
// viable.h's pointer-linked entries).
type Entry struct {
	Lo, Hi uint64
	Width  int
	Srcs   []int // constraint indices this entry's dependency merges
	Active bool
	Kind   Kind
	Prev   arena.ID
	Next   arena.ID
}

// state is one variable's Layers(v): per-width circular lists, plus the
// non-unit-multiplier side tables viable.h calls m_equal_lin/m_diseq_lin.
type state struct {
	layers    map[int]arena.ID // width -> head entry id, or arena.Invalid
	equalLin  []arena.ID
	diseqLin  []arena.ID
	lastValue uint64
	hasValue  bool
	hasCore   bool
	core      []int
}

// trailEntry undoes one layer-head mutation on PopScope, since the entry
// arena's own scope only recycles storage, not the per-variable head table
// layered on top of it.
type trailEntry struct {
	v        VarID
	width    int
	prevHead arena.ID
}

// Engine is the PolySAT viable-value core (spec section 4.2), parameterized
// only by bit-width (no numeric type template is needed: bit-vector values
// are plain uint64, the width bounding which bits are significant).
type Engine struct {
	ctx    plugin.Context
	ast    AstManager
	alloc  *arena.Arena[Entry]
	tracer plugin.Tracer

	states map[VarID]*state
	expr2v map[int]VarID
	v2expr map[VarID]plugin.Expr
	vWidth map[VarID]int

	trail     []trailEntry
	scopeMark []int

	budget    int
	probeCost int
}

// SetTracer installs a diagnostics sink for layer-probe and resource-out
// events; the default, if never called, is a no-op tracer.
func (e *Engine) SetTracer(t plugin.Tracer) { e.tracer = t }

// AstManager is the narrow structural surface viable needs beyond
// plugin.AstManager: bit-vector width and constant queries, kept local the
// same way arith.Ast is.
type AstManager interface {
	plugin.AstManager
	// BitWidth reports a bit-vector expression's declared width.
	BitWidth(e plugin.Expr) int
	// AsConst reports whether e is a bit-vector numeral and its value.
	AsConst(e plugin.Expr) (uint64, bool)
	// AsUnitConstraint reports whether e is a unit comparison of a
	// bit-vector variable against a constant, per ule_constraint.cpp's
	// unsigned LE/GE/EQ/NE shapes.
	AsUnitConstraint(e plugin.Expr) (v plugin.Expr, kind CmpKind, bound uint64, ok bool)
}

var _ plugin.Plugin = (*Engine)(nil)

// NewEngine constructs a viable Engine. budget bounds the number of entries
// a layer may hold for find_viable to walk it; a larger layer reports
// resource_out (spec section 7).
func NewEngine(ctx plugin.Context, ast AstManager, budget int) *Engine {
	if budget <= 0 {
		budget = 10000
	}
	return &Engine{
		ctx:    ctx,
		ast:    ast,
		alloc:  arena.New[Entry](),
		tracer: plugin.NoopTracer(),
		states: make(map[VarID]*state),
		expr2v: make(map[int]VarID),
		v2expr: make(map[VarID]plugin.Expr),
		vWidth: make(map[VarID]int),
		budget: budget,
	}
}

// varFor returns the VarID for ex, allocating one (and recording its width)
// on first use.
func (e *Engine) varFor(ex plugin.Expr, width int) VarID {
	if v, ok := e.expr2v[ex.ID()]; ok {
		return v
	}
	v := VarID(len(e.expr2v))
	e.expr2v[ex.ID()] = v
	e.v2expr[v] = ex
	e.vWidth[v] = width
	return v
}

func (e *Engine) stateFor(v VarID) *state {
	s, ok := e.states[v]
	if !ok {
		s = &state{layers: make(map[int]arena.ID)}
		e.states[v] = s
	}
	return s
}

// PushScope opens a new backtracking scope over both the entry arena and the
// per-variable layer-head table, per spec section 5's "scoped acquisition".
func (e *Engine) PushScope() {
	e.alloc.PushScope()
	e.scopeMark = append(e.scopeMark, len(e.trail))
}

// PopScope undoes every entry allocation and layer-head mutation recorded
// since the matching PushScope.
func (e *Engine) PopScope() {
	n := len(e.scopeMark)
	if n == 0 {
		return
	}
	mark := e.scopeMark[n-1]
	e.scopeMark = e.scopeMark[:n-1]
	for i := len(e.trail) - 1; i >= mark; i-- {
		t := e.trail[i]
		e.stateFor(t.v).layers[t.width] = t.prevHead
	}
	e.trail = e.trail[:mark]
	e.alloc.PopScope()
}

// headOf returns width's layer head for v, or arena.Invalid if the layer is
// empty or has never been touched (map lookup on an absent width must not
// be confused with the valid id 0).
func (e *Engine) headOf(v VarID, width int) arena.ID {
	if head, ok := e.stateFor(v).layers[width]; ok {
		return head
	}
	return arena.Invalid
}

func (e *Engine) setHead(v VarID, width int, head arena.ID) {
	s := e.stateFor(v)
	e.trail = append(e.trail, trailEntry{v: v, width: width, prevHead: e.headOf(v, width)})
	s.layers[width] = head
}
