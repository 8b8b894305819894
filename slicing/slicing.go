// Package slicing maintains equivalence of bit-slices across bit-vector
// variables through an e-graph of slice enodes, propagating equalities and
// detecting disequality conflicts: the bit-precise slicing layer of spec
// section 4.3, grounded on _examples/original_source/src/sat/smt/polysat
// (in particular math/polysat/slicing.h and math/polysat/conflict2.h).
package slicing

import (
	"github.com/nbjorner/smtcore/internal/arena"
	"github.com/nbjorner/smtcore/internal/egraph"
	"github.com/nbjorner/smtcore/plugin"
)

// PVar identifies one slice enode: a proper slice of a bit-vector variable,
// an interpreted value slice, or a virtual concat node (spec section 3.3's
// three enode kinds; a fourth, the equality node, is represented directly as
// an egraph merge rather than a materialized enode, since the union-find
// already embodies equivalence and a separate node for it would be inert).
type PVar int

// Invalid is the sentinel PVar, mirroring arena.Invalid.
const Invalid PVar = -1

// NodeKind classifies a SliceInfo entry.
type NodeKind int

const (
	KindVar    NodeKind = iota // proper slice of a bit-vector variable
	KindValue                  // interpreted value slice (a fixed constant)
	KindConcat                 // virtual concat(...) node over several slices
)

// SliceInfo is the per-enode record of spec section 3.3: a cut position (or
// -1 if this slice hasn't been split), a parent pointer, the two children a
// split produces, and the extra fields each NodeKind needs.
type SliceInfo struct {
	Kind  NodeKind
	Width int

	// Base, Lo, Hi are meaningful for KindVar: the root variable this is a
	// slice of, and its absolute bit range [Lo, Hi] within that variable.
	Base   PVar
	Lo, Hi int

	Cut    int // -1 if not yet split
	SubHi  PVar
	SubLo  PVar
	Parent PVar

	Value uint64 // meaningful only for KindValue

	Concat []PVar // children, msb-to-lsb, meaningful only for KindConcat
}

// DepKind tags a Dependency the way math/polysat/conflict2.h's dep_t does:
// no justification, a Boolean literal, or an internal var/slice index.
type DepKind int

const (
	DepNone DepKind = iota
	DepLit
	DepVar
)

// Dependency is the decoded justification of one merge, spec section 3.3's
// tagged dependency value.
type Dependency struct {
	Kind DepKind
	Lit  plugin.Lit
	Var  PVar
}

type conflictRec struct {
	a, b PVar
	dep  Dependency
}

// AstManager is the narrow structural surface slicing needs beyond
// plugin.AstManager.
type AstManager interface {
	plugin.AstManager
	// BitWidth reports a bit-vector expression's declared width.
	BitWidth(e plugin.Expr) int
	// AsExtract reports whether e is an extract(base, hi, lo) application.
	AsExtract(e plugin.Expr) (base plugin.Expr, hi, lo int, ok bool)
	// AsConst reports whether e is a bit-vector numeral and its value.
	AsConst(e plugin.Expr) (uint64, bool)
}

// Engine is the slicing core (spec section 4.3).
type Engine struct {
	ctx    plugin.Context
	ast    AstManager
	tracer plugin.Tracer

	eg    *egraph.EGraph
	infos *arena.Arena[SliceInfo]

	expr2v map[int]PVar
	v2expr map[PVar]plugin.Expr

	extractArgs map[extractKey]PVar // mk_extract's dedup map
	concatIndex map[string]PVar     // dedup for synthesized concat nodes
	classValue  map[int]uint64      // egraph class rep -> folded constant

	needsCongruence []PVar          // m_needs_congruence worklist
	pendingCongr    map[PVar]bool   // membership guard for the worklist
	disequal        []conflictRec   // m_disequality_conflict
	deps            []Dependency    // justification payloads, indexed by id

	trail     []undoOp
	scopeMark []int
}

type extractKey struct {
	v      PVar
	hi, lo int
}

var _ plugin.Plugin = (*Engine)(nil)

// NewEngine constructs an empty slicing Engine.
func NewEngine(ctx plugin.Context, ast AstManager) *Engine {
	return &Engine{
		ctx:         ctx,
		ast:         ast,
		tracer:      plugin.NoopTracer(),
		eg:          egraph.New(),
		infos:       arena.New[SliceInfo](),
		expr2v:      make(map[int]PVar),
		v2expr:      make(map[PVar]plugin.Expr),
		extractArgs: make(map[extractKey]PVar),
		concatIndex: make(map[string]PVar),
		classValue:  make(map[int]uint64),
		pendingCongr: make(map[PVar]bool),
	}
}

// SetTracer installs a diagnostics sink for merge/conflict events; the
// default, if never called, is a no-op tracer.
func (e *Engine) SetTracer(t plugin.Tracer) { e.tracer = t }

func (e *Engine) infoOf(v PVar) *SliceInfo { return e.infos.Get(arena.ID(v)) }

// newNode allocates a fresh enode and its parallel SliceInfo record. It is
// the only place either the egraph or the info arena is allocated from, so
// their ids stay in lockstep.
func (e *Engine) newNode(info SliceInfo) PVar {
	id := e.eg.NewNode()
	got := e.infos.Alloc(info)
	if int(got) != id {
		panic("slicing: egraph and info arena fell out of sync")
	}
	return PVar(id)
}

func (e *Engine) encodeDep(d Dependency) int {
	e.deps = append(e.deps, d)
	return len(e.deps) - 1
}

// markNeedsCongruence schedules root for the next Propagate to install
// concat(base slices of root) = root, per spec section 3.3's invariant.
func (e *Engine) markNeedsCongruence(root PVar) {
	if e.pendingCongr[root] {
		return
	}
	e.pendingCongr[root] = true
	e.needsCongruence = append(e.needsCongruence, root)
	e.trail = append(e.trail, undoOp{kind: undoCongruence, v: root})
}

// PushScope opens a backtracking scope over the enode arena, the e-graph,
// and every dedup/worklist table layered on top of them.
func (e *Engine) PushScope() {
	e.eg.PushScope()
	e.infos.PushScope()
	e.scopeMark = append(e.scopeMark, len(e.trail))
}

// PopScope undoes every split, dedup-table insertion, and congruence-marker
// recorded since the matching PushScope, then rewinds the e-graph and the
// info arena to that point.
func (e *Engine) PopScope() {
	n := len(e.scopeMark)
	if n == 0 {
		return
	}
	mark := e.scopeMark[n-1]
	e.scopeMark = e.scopeMark[:n-1]
	for i := len(e.trail) - 1; i >= mark; i-- {
		e.undoOne(e.trail[i])
	}
	e.trail = e.trail[:mark]
	e.infos.PopScope()
	e.eg.PopScope()
}

type undoKind int

const (
	undoSplit undoKind = iota
	undoExtractArg
	undoConcatIndex
	undoCongruence
	undoDisequal
)

type undoOp struct {
	kind undoKind

	v                  PVar
	prevCut            int
	prevSubHi, prevSubLo PVar

	key  extractKey
	ckey string
}

func (e *Engine) undoOne(op undoOp) {
	switch op.kind {
	case undoSplit:
		info := e.infoOf(op.v)
		info.Cut = op.prevCut
		info.SubHi = op.prevSubHi
		info.SubLo = op.prevSubLo
	case undoExtractArg:
		delete(e.extractArgs, op.key)
	case undoConcatIndex:
		delete(e.concatIndex, op.ckey)
	case undoCongruence:
		delete(e.pendingCongr, op.v)
		if n := len(e.needsCongruence); n > 0 {
			e.needsCongruence = e.needsCongruence[:n-1]
		}
	case undoDisequal:
		if n := len(e.disequal); n > 0 {
			e.disequal = e.disequal[:n-1]
		}
	}
}
