// Package sathost is a minimal stand-in for the host SAT/SMT engine named
// as an external collaborator in spec section 1: just enough of
// plugin.Context and a combined plugin.AstManager to drive this module's
// own cross-core tests. It is not a search engine — Var/Lit encoding and
// the clause/use-list shapes are adapted from solver/types.go and
// solver/clause.go, but there is no CDCL loop, no watcher propagation, no
// restarts: callers set the Boolean assignment directly and call AddClause
// to grow the store.
package sathost

import "github.com/nbjorner/smtcore/plugin"

// Context is a plain Boolean-assignment and clause store behind
// plugin.Context. Flip and the assignment map are the whole of its
// "solving": a core that needs search drives its own local-search loop and
// calls Flip/IsTrue to read and move the assignment spec section 5
// describes the host as owning.
type Context struct {
	assign  []bool
	clauses []*plugin.Clause
	useList map[plugin.Lit][]int
	atoms   map[plugin.Var]plugin.Expr
	litOf   map[int]plugin.Lit
	rnd     *plugin.Rand
	conflict []plugin.Lit
}

// NewContext returns an empty host with nVars Boolean variables, all
// initially false.
func NewContext(nVars int, seed int64) *Context {
	return &Context{
		assign:  make([]bool, nVars),
		useList: make(map[plugin.Lit][]int),
		atoms:   make(map[plugin.Var]plugin.Expr),
		litOf:   make(map[int]plugin.Lit),
		rnd:     plugin.NewRand(seed),
	}
}

// NewVar grows the assignment table by one variable and returns it,
// optionally associating it with the atom expression e (nil if the
// variable has no atom, e.g. a Tseitin auxiliary).
func (c *Context) NewVar(e plugin.Expr) plugin.Var {
	v := plugin.Var(len(c.assign))
	c.assign = append(c.assign, false)
	if e != nil {
		c.atoms[v] = e
	}
	return v
}

func (c *Context) IsTrue(lit plugin.Lit) bool {
	v := c.assign[lit.Var()]
	if lit.IsPos() {
		return v
	}
	return !v
}

func (c *Context) Flip(v plugin.Var) { c.assign[v] = !c.assign[v] }

func (c *Context) Atom(v plugin.Var) plugin.Expr { return c.atoms[v] }

func (c *Context) GetClause(idx int) *plugin.Clause {
	if idx < 0 || idx >= len(c.clauses) {
		return nil
	}
	return c.clauses[idx]
}

func (c *Context) GetUseList(lit plugin.Lit) []int { return c.useList[lit] }

func (c *Context) GetWeight(idx int) int {
	if cl := c.GetClause(idx); cl != nil {
		return cl.Weight
	}
	return 0
}

func (c *Context) Rand() *plugin.Rand { return c.rnd }

func (c *Context) NumBoolVars() int { return len(c.assign) }

// UnitLiterals returns every literal that is the sole literal of some
// clause in the store: the host's notion of a top-level forced truth,
// consumed by datatype's path-axiom guard classification.
func (c *Context) UnitLiterals() []plugin.Lit {
	var out []plugin.Lit
	for _, cl := range c.clauses {
		if len(cl.Lits) == 1 {
			out = append(out, cl.Lits[0])
		}
	}
	return out
}

func (c *Context) Clauses() []*plugin.Clause { return c.clauses }

// NewValueEh is a no-op: this host has no model-value change callbacks to
// dispatch, since it never runs its own search.
func (c *Context) NewValueEh(plugin.Expr) {}

// AddClause appends a clause with default weight 1 and extends the
// use-list index, mirroring solver/clause.go's NewClause plus
// solver/watcher.go's per-literal occurrence lists, minus the two-watched-
// literal scheme a real CDCL engine needs and this host does not.
func (c *Context) AddClause(lits []plugin.Lit) {
	idx := len(c.clauses)
	c.clauses = append(c.clauses, &plugin.Clause{Lits: append([]plugin.Lit{}, lits...), Weight: 1})
	for _, l := range lits {
		c.useList[l] = append(c.useList[l], idx)
	}
}

// MkLiteral returns the literal for e, allocating a fresh variable (and
// registering e as its atom) the first time e is seen.
func (c *Context) MkLiteral(e plugin.Expr) plugin.Lit {
	if l, ok := c.litOf[e.ID()]; ok {
		return l
	}
	v := c.NewVar(e)
	l := plugin.MkLit(v, false)
	c.litOf[e.ID()] = l
	return l
}

func (c *Context) SetConflict(core []plugin.Lit) { c.conflict = append([]plugin.Lit{}, core...) }

// Conflict returns the core last passed to SetConflict, for tests that
// want to assert a core actually reported one.
func (c *Context) Conflict() []plugin.Lit { return c.conflict }
