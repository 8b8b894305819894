// Package arena implements the scope-recycled, index-addressed allocator
// design note in spec section 9: "replace pointer-linked DLL of viable
// entries... with an arena of entries indexed by integer id; prev/next
// become Option<u32>; deletion is logical (set inactive) and arena is
// scope-recycled on pop." Both the Viable engine's forbidden-interval
// entries and the Slicing engine's enodes are arena-indexed records built
// on this package, rather than on pointer-linked structures the way the
// teacher's C++ original does it.
//
// No suitable third-party arena/slab-allocator library appears anywhere in
// the retrieval pack; this is deliberately a small standard-library type.
package arena

// ID indexes a record in an Arena. The first record allocated gets ID 0;
// Invalid (-1) marks "no id". Use Valid to test.
type ID int32

// Invalid is the sentinel for "no id", the Go analogue of Option<u32>::None.
const Invalid ID = -1

// Valid reports whether id refers to an allocated record.
func (id ID) Valid() bool { return id >= 0 }

// Arena is a push/pop-scoped store of T records addressed by ID. Scopes
// mirror the host's push_scope/pop_scope: entries allocated since the
// matching push are discarded (made unreachable; their storage is
// recycled) when the scope pops, as spec section 5 requires of viable's and
// slicing's allocator pools.
type Arena[T any] struct {
	records []T
	scopes  []int
}

// New returns an empty Arena.
func New[T any]() *Arena[T] {
	return &Arena[T]{}
}

// Alloc appends a new record and returns its ID.
func (a *Arena[T]) Alloc(v T) ID {
	id := ID(len(a.records))
	a.records = append(a.records, v)
	return id
}

// Get returns a pointer to the record for id, allowing in-place mutation.
func (a *Arena[T]) Get(id ID) *T {
	return &a.records[id]
}

// Len returns the number of allocated records, including any logically
// deleted ones still occupying storage.
func (a *Arena[T]) Len() int { return len(a.records) }

// PushScope opens a new scope at the current high-water mark.
func (a *Arena[T]) PushScope() {
	a.scopes = append(a.scopes, len(a.records))
}

// PopScope discards every record allocated since the matching PushScope,
// truncating storage back to that mark.
func (a *Arena[T]) PopScope() {
	n := len(a.scopes)
	if n == 0 {
		return
	}
	mark := a.scopes[n-1]
	a.scopes = a.scopes[:n-1]
	a.records = a.records[:mark]
}

// NumScopes reports the current scope nesting depth.
func (a *Arena[T]) NumScopes() int { return len(a.scopes) }
