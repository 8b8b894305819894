package viable

import (
	"sort"

	"github.com/nbjorner/smtcore/internal/arena"
)

// AddAlwaysForbidden forbids the entire domain at width for v, the
// degenerate case of a negated unit constraint whose complement falls
// outside the representable CmpKind shapes (e.g. the negation of v >= 0).
func (e *Engine) AddAlwaysForbidden(v VarID, width int, src int) {
	e.vWidth[v] = width
	e.insertInterval(v, width, Interval{Lo: 0, Hi: domainSize(width)}, src, KindUnit)
}

// AddUnitary implements spec section 4.2's add_unitary: the constraint is
// turned into forbidden-interval records via ForbiddenIntervals and merged
// into v's layer at its bit-width, recording the insertion on the engine's
// trail for backtracking.
func (e *Engine) AddUnitary(v VarID, c Constraint) {
	if w, known := e.vWidth[v]; !known || c.Width > w {
		e.vWidth[v] = c.Width
	}
	for _, iv := range ForbiddenIntervals(c) {
		e.insertInterval(v, c.Width, iv, c.Src, KindUnit)
	}
}

// collectLayer walks width's circular list for v and returns its live
// entries as plain values, sorted by Lo (the list is already maintained in
// that order, but a fresh build is simplest to reason about and cheap: a
// layer rarely holds more than a handful of entries).
func (e *Engine) collectLayer(v VarID, width int) []Entry {
	head := e.headOf(v, width)
	if !head.Valid() {
		return nil
	}
	var out []Entry
	id := head
	for {
		out = append(out, *e.alloc.Get(id))
		id = e.alloc.Get(id).Next
		if id == head {
			break
		}
	}
	return out
}

// insertInterval merges iv (tagged with src/kind) into v's layer at width,
// coalescing it with any existing entries it overlaps or touches, per spec
// section 4.2: "Overlapping existing entries are merged; the merge may
// subsume the new entry entirely."
func (e *Engine) insertInterval(v VarID, width int, iv Interval, src int, kind Kind) {
	entries := e.collectLayer(v, width)
	merged := Entry{Lo: iv.Lo, Hi: iv.Hi, Width: width, Srcs: []int{src}, Active: true, Kind: kind}

	var rest []Entry
	for _, en := range entries {
		if en.Hi < merged.Lo || en.Lo > merged.Hi {
			rest = append(rest, en)
			continue
		}
		if en.Lo < merged.Lo {
			merged.Lo = en.Lo
		}
		if en.Hi > merged.Hi {
			merged.Hi = en.Hi
		}
		merged.Srcs = append(merged.Srcs, en.Srcs...)
	}
	rest = append(rest, merged)
	sort.Slice(rest, func(i, j int) bool { return rest[i].Lo < rest[j].Lo })

	// A coalescing pass can still leave adjacent/overlapping pairs behind
	// when more than two entries chain together; repeat until stable.
	rest = coalesce(rest)

	e.rebuildLayer(v, width, rest)
}

func coalesce(entries []Entry) []Entry {
	if len(entries) < 2 {
		return entries
	}
	out := []Entry{entries[0]}
	for _, en := range entries[1:] {
		last := &out[len(out)-1]
		if en.Lo <= last.Hi {
			if en.Hi > last.Hi {
				last.Hi = en.Hi
			}
			last.Srcs = append(last.Srcs, en.Srcs...)
			continue
		}
		out = append(out, en)
	}
	return out
}

// rebuildLayer reallocates width's layer for v as a fresh circular list over
// entries (already sorted, non-overlapping), and records the head change on
// the trail.
func (e *Engine) rebuildLayer(v VarID, width int, entries []Entry) {
	if len(entries) == 0 {
		e.setHead(v, width, arena.Invalid)
		return
	}
	ids := make([]arena.ID, len(entries))
	for i, en := range entries {
		ids[i] = e.alloc.Alloc(en)
	}
	n := len(ids)
	for i, id := range ids {
		rec := e.alloc.Get(id)
		rec.Prev = ids[(i-1+n)%n]
		rec.Next = ids[(i+1)%n]
	}
	e.setHead(v, width, ids[0])
}
