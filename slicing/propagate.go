package slicing

// Propagate drains m_needs_congruence to quiescence: for each pending
// variable, installs concat(base slices) = v in the e-graph (spec section
// 4.3's propagate), then lets the underlying e-graph saturate. It reports
// whether anything changed, the Plugin contract's propagate.
func (e *Engine) Propagate() bool {
	changed := false
	for len(e.needsCongruence) > 0 {
		v := e.needsCongruence[0]
		e.needsCongruence = e.needsCongruence[1:]
		delete(e.pendingCongr, v)

		leaves := e.collectBaseSlices(v)
		concatPV := e.collapse(leaves)
		if e.eg.Find(int(v)) != e.eg.Find(int(concatPV)) {
			if e.mergePair(v, concatPV, Dependency{Kind: DepNone}) {
				changed = true
			}
		}
	}
	if e.eg.Propagate() {
		changed = true
	}
	return changed
}

// ExplainEqual decodes the chain of merges relating x and y back into the
// Dependency values that justify it, spec section 4.3's explain_equal.
func (e *Engine) ExplainEqual(x, y PVar) []Dependency {
	ids := e.eg.Explain(int(x), int(y))
	out := make([]Dependency, 0, len(ids))
	for _, id := range ids {
		out = append(out, e.deps[id])
	}
	return out
}

// Explain concatenates the explanation for every recorded disequality
// conflict plus, if the e-graph itself is inconsistent, that conflict's
// explanation too: spec section 4.3's explain.
func (e *Engine) Explain() []Dependency {
	var out []Dependency
	for _, c := range e.disequal {
		out = append(out, c.dep)
		out = append(out, e.ExplainEqual(c.a, c.b)...)
	}
	if e.eg.Inconsistent() {
		a, b, j := e.eg.Conflict()
		out = append(out, e.deps[j])
		out = append(out, e.ExplainEqual(PVar(a), PVar(b))...)
	}
	return out
}
