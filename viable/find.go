package viable

// FindResult is find_viable's outcome, per spec section 4.2.
type FindResult int

const (
	Empty FindResult = iota
	Singleton
	Multiple
	ResourceOut
)

func (r FindResult) String() string {
	switch r {
	case Empty:
		return "empty"
	case Singleton:
		return "singleton"
	case Multiple:
		return "multiple"
	default:
		return "resource_out"
	}
}

// FindViable implements spec section 4.2's find_viable: walk the forbidden
// entries at v's bit-width starting from the last reported value, and
// report empty (with a conflict core), singleton, multiple or resource_out.
//
// Layers narrower than v's own bit-width (the ones viable.h populates from
// extract-derived sub-constraints via slicing) are stored by AddUnitary but
// not consulted here: this module does not implement the slicing-to-viable
// bit-position feedback loop (that integration is not named anywhere in the
// interfaces this spec exposes), so a hierarchical descent across layers
// would have nothing connecting a narrower layer's positions back to v's.
func (e *Engine) FindViable(v VarID) (FindResult, uint64, []int) {
	width, ok := e.vWidth[v]
	if !ok {
		return Multiple, 0, nil
	}
	entries := e.collectLayer(v, width)
	if len(entries) > e.budget {
		e.tracer.Tracef("find_viable: resource_out for var %d, %d entries over budget %d", v, len(entries), e.budget)
		return ResourceOut, 0, nil
	}

	free := complement(entries, domainSize(width))
	s := e.stateFor(v)
	if len(free) == 0 {
		core := buildCore(entries)
		s.hasCore, s.core = true, core
		return Empty, 0, core
	}
	s.hasCore = false

	val1 := nextFree(free, s.lastValue, s.hasValue)
	val2 := nextFree(free, val1, true)
	s.lastValue, s.hasValue = val1, true

	if val2 == val1 {
		return Singleton, val1, nil
	}
	return Multiple, val1, nil
}

// complement returns the free (non-forbidden) ranges of [0, n) given sorted,
// non-overlapping forbidden entries.
func complement(entries []Entry, n uint64) []Interval {
	var out []Interval
	cursor := uint64(0)
	for _, en := range entries {
		if en.Lo > cursor {
			out = append(out, Interval{Lo: cursor, Hi: en.Lo})
		}
		if en.Hi > cursor {
			cursor = en.Hi
		}
	}
	if cursor < n {
		out = append(out, Interval{Lo: cursor, Hi: n})
	}
	return out
}

// nextFree returns the first free value strictly after `after` (or the
// first free value at all, if hasAfter is false), wrapping back to the
// start of the layer if nothing free remains beyond `after` — the circular
// walk spec section 4.2 describes.
func nextFree(free []Interval, after uint64, hasAfter bool) uint64 {
	if !hasAfter {
		return free[0].Lo
	}
	target := after + 1
	for _, fr := range free {
		if target >= fr.Lo && target < fr.Hi {
			return target
		}
		if fr.Lo > after {
			return fr.Lo
		}
	}
	return free[0].Lo
}

// buildCore implements build_conflict_clause: the union of every covering
// entry's constraint dependencies, deduplicated.
func buildCore(entries []Entry) []int {
	seen := make(map[int]bool)
	var out []int
	for _, en := range entries {
		for _, s := range en.Srcs {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}
