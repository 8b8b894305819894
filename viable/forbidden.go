package viable

// CmpKind is the unit constraint's comparison against a constant, the shape
// _examples/original_source/src/math/polysat/ule_constraint.cpp derives
// half-open forbidden intervals for.
type CmpKind int

const (
	CmpLE CmpKind = iota // v <= k
	CmpGE                // v >= k
	CmpEQ                // v == k
	CmpNE                // v != k
)

// Constraint is one unit bit-vector constraint over a variable of the given
// width, with the dependency (constraint/clause index) an entry built from
// it should remember.
type Constraint struct {
	Kind  CmpKind
	Bound uint64
	Width int
	Src   int
}

// Interval is a half-open forbidden range [Lo, Hi) over [0, 2^Width).
type Interval struct {
	Lo, Hi uint64
}

// domainSize returns 2^width as a uint64 (width <= 63 in practice; bit-vector
// widths beyond that are out of scope for this engine, same as the original
// fixed-width-word assumption).
func domainSize(width int) uint64 {
	return uint64(1) << uint(width)
}

// ForbiddenIntervals computes the forbidden-interval record(s) for a unit
// constraint, following ule_constraint::get_interval's derivation for
// unsigned comparisons against a constant:
//
//	v <= k   forbids (k, 2^w)         i.e. [k+1, 2^w)
//	v >= k   forbids [0, k)
//	v == k   forbids [0, k) and [k+1, 2^w)
//	v != k   forbids [k, k+1)
func ForbiddenIntervals(c Constraint) []Interval {
	n := domainSize(c.Width)
	switch c.Kind {
	case CmpLE:
		if c.Bound+1 >= n {
			return nil
		}
		return []Interval{{Lo: c.Bound + 1, Hi: n}}
	case CmpGE:
		if c.Bound == 0 {
			return nil
		}
		return []Interval{{Lo: 0, Hi: c.Bound}}
	case CmpEQ:
		var out []Interval
		if c.Bound > 0 {
			out = append(out, Interval{Lo: 0, Hi: c.Bound})
		}
		if c.Bound+1 < n {
			out = append(out, Interval{Lo: c.Bound + 1, Hi: n})
		}
		return out
	default: // CmpNE
		return []Interval{{Lo: c.Bound, Hi: c.Bound + 1}}
	}
}
