package slicing

// peelFront removes exactly width bits from the front (msb side) of vec,
// splitting the leading element as needed (expanding it into its children
// if it's a concat, or bit-splitting it if it's a variable slice), and
// returns the pieces that make up that leading width plus the remainder.
func (e *Engine) peelFront(vec []PVar, width int) (pieces, rest []PVar) {
	for width > 0 {
		head := vec[0]
		hi := e.infoOf(head)
		switch {
		case hi.Width == width:
			pieces = append(pieces, head)
			vec = vec[1:]
			width = 0
		case hi.Width < width:
			pieces = append(pieces, head)
			vec = vec[1:]
			width -= hi.Width
		case hi.Kind == KindConcat:
			vec = append(append([]PVar{}, hi.Concat...), vec[1:]...)
		default:
			cut := hi.Width - width - 1
			e.splitCore(head, cut)
			hi = e.infoOf(head)
			vec = append([]PVar{hi.SubHi, hi.SubLo}, vec[1:]...)
		}
	}
	return pieces, vec
}

func (e *Engine) collapse(pieces []PVar) PVar {
	if len(pieces) == 1 {
		return pieces[0]
	}
	return e.mkConcatPVar(pieces)
}

// mergePair unions x and y's classes under dep, failing (and recording a
// disequality conflict) if they are known-distinct value slices.
func (e *Engine) mergePair(x, y PVar, dep Dependency) bool {
	xi, yi := e.infoOf(x), e.infoOf(y)
	if xi.Width != yi.Width {
		return false
	}
	a, b := int(x), int(y)
	if e.eg.Find(a) == e.eg.Find(b) {
		return true
	}
	if xi.Kind == KindValue && yi.Kind == KindValue && xi.Value != yi.Value {
		j := e.encodeDep(dep)
		e.eg.SetConflict(a, b, j)
		e.disequal = append(e.disequal, conflictRec{a: x, b: y, dep: dep})
		e.trail = append(e.trail, undoOp{kind: undoDisequal})
		e.tracer.Tracef("mergePair: disequal constants %#x != %#x for slices %d, %d", xi.Value, yi.Value, x, y)
		return false
	}
	j := e.encodeDep(dep)
	e.eg.Merge(a, b, j)
	rep := e.eg.Find(a)
	if xi.Kind == KindValue {
		e.classValue[rep] = xi.Value
	}
	if yi.Kind == KindValue {
		e.classValue[rep] = yi.Value
	}
	e.markNeedsCongruence(xi.Base)
	e.markNeedsCongruence(yi.Base)
	return true
}

// AssertEqual implements spec section 4.3's merge: equates xs and ys,
// ordered msb-to-lsb vectors of equal total width, peeling matching widths
// off the front of each and splitting the wider side as needed. A single
// pvar on either side is simply a one-element vector, covering the
// "two slices" overload; xs or ys with more than one element covers the
// vector overloads.
func (e *Engine) AssertEqual(xs, ys []PVar, dep Dependency) bool {
	xs = append([]PVar{}, xs...)
	ys = append([]PVar{}, ys...)
	for len(xs) > 0 && len(ys) > 0 {
		xw, yw := e.infoOf(xs[0]).Width, e.infoOf(ys[0]).Width
		w := xw
		if yw < w {
			w = yw
		}
		xPieces, xrest := e.peelFront(xs, w)
		yPieces, yrest := e.peelFront(ys, w)
		xs, ys = xrest, yrest
		if !e.mergePair(e.collapse(xPieces), e.collapse(yPieces), dep) {
			return false
		}
	}
	return len(xs) == 0 && len(ys) == 0
}

// CollectFixed walks v's current base decomposition and folds the value of
// every leaf whose class has a known constant into a running (mask, value)
// pair, spec section 4.3's collect_fixed.
func (e *Engine) CollectFixed(v PVar) (mask, value uint64) {
	leaves := e.collectBaseSlices(v)
	offset := 0
	for i := len(leaves) - 1; i >= 0; i-- {
		leaf := leaves[i]
		w := e.infoOf(leaf).Width
		if val, ok := e.classValue[e.eg.Find(int(leaf))]; ok {
			bits := uint64(1)<<uint(w) - 1
			mask |= bits << uint(offset)
			value |= (val & bits) << uint(offset)
		}
		offset += w
	}
	return mask, value
}
