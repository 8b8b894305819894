package sathost

import (
	"github.com/nbjorner/smtcore/arith"
	"github.com/nbjorner/smtcore/datatype"
	"github.com/nbjorner/smtcore/plugin"
	"github.com/nbjorner/smtcore/viable"
)

// nodeKind tags Node's single shared representation, standing in for
// whatever concrete AST node type the real host's ast_manager would hand
// back: plain plugin.AstManager structural queries, arith.Ast's linear/
// non-linear shapes, viable's and slicing's bit-vector shapes, and
// datatype.AstManager's constructor/accessor/path shapes all read off the
// same Node.
type nodeKind int

const (
	kVar nodeKind = iota
	kIntNum
	kAdd
	kMul
	kUMinus
	kSub
	kOp
	kIneq
	kEq
	kNot
	kOr
	kIff
	kImplies
	kBVVar
	kBVNum
	kExtract
	kIsC
	kAcc
	kCtorApp
	kConstVal
)

// Node is the single plugin.Expr implementation every AstManager capability
// in this module is asked to inspect.
type Node struct {
	id   int
	kind nodeKind

	sort     string
	arithSrt arith.Sort
	width    int

	intVal arith.Int64
	bvVal  uint64

	args []plugin.Expr

	opKind   arith.OpKind
	ineqKind arith.IneqKind
	cmpKind  viable.CmpKind
	bound    uint64

	ctor   datatype.ConstructorID
	accIdx int

	extractHi, extractLo int
}

func (n *Node) ID() int { return n.id }

// Manager is the combined AstManager every core's narrow extension
// interface embeds plugin.AstManager into, backed by a flat table of Node.
// It is deliberately the union of arith.Ast[arith.Int64], viable.AstManager,
// slicing.AstManager and datatype.AstManager, so a single host can drive
// every core against one shared term graph.
type Manager struct {
	nextID   int
	subterms []plugin.Expr

	recursiveSort map[string]bool
	ctorsOfSort   map[string][]datatype.ConstructorID
	ctorArity     map[datatype.ConstructorID]int
	ctorSort      map[datatype.ConstructorID]string
}

// NewManager returns an empty Manager.
func NewManager() *Manager {
	return &Manager{
		recursiveSort: make(map[string]bool),
		ctorsOfSort:   make(map[string][]datatype.ConstructorID),
		ctorArity:     make(map[datatype.ConstructorID]int),
		ctorSort:      make(map[datatype.ConstructorID]string),
	}
}

func (m *Manager) alloc(n *Node) *Node {
	m.nextID++
	n.id = m.nextID
	m.subterms = append(m.subterms, n)
	return n
}

// MkVar introduces an uninterpreted leaf of the given sort (used as plain
// Boolean atoms, arith variables, or anything else that needs no further
// structure).
func (m *Manager) MkVar(sort string) *Node {
	return m.alloc(&Node{kind: kVar, sort: sort})
}

// MkArithVar introduces an integer- or real-sorted arithmetic variable.
func (m *Manager) MkArithVar(sort arith.Sort) *Node {
	s := "int"
	if sort == arith.SortReal {
		s = "real"
	}
	return m.alloc(&Node{kind: kVar, sort: s, arithSrt: sort})
}

// MkBVVar introduces a bit-vector variable of the given width.
func (m *Manager) MkBVVar(width int) *Node {
	return m.alloc(&Node{kind: kBVVar, sort: "bv", width: width})
}

// MkBVNum introduces a bit-vector numeral.
func (m *Manager) MkBVNum(width int, val uint64) *Node {
	return m.alloc(&Node{kind: kBVNum, sort: "bv", width: width, bvVal: val})
}

// MkExtract builds extract(base, hi, lo).
func (m *Manager) MkExtract(base plugin.Expr, hi, lo int) *Node {
	return m.alloc(&Node{kind: kExtract, sort: "bv", width: hi - lo + 1, args: []plugin.Expr{base}, extractHi: hi, extractLo: lo})
}

// MkIntNum introduces an arithmetic numeral.
func (m *Manager) MkIntNum(v int64, sort arith.Sort) *Node {
	s := "int"
	if sort == arith.SortReal {
		s = "real"
	}
	return m.alloc(&Node{kind: kIntNum, sort: s, arithSrt: sort, intVal: arith.NewInt64(v)})
}

func (m *Manager) mkNary(kind nodeKind, sort string, args ...plugin.Expr) *Node {
	return m.alloc(&Node{kind: kind, sort: sort, args: args})
}

func (m *Manager) MkAdd(sort arith.Sort, args ...plugin.Expr) *Node {
	n := m.mkNary(kAdd, "arith", args...)
	n.arithSrt = sort
	return n
}
func (m *Manager) MkMul(sort arith.Sort, args ...plugin.Expr) *Node {
	n := m.mkNary(kMul, "arith", args...)
	n.arithSrt = sort
	return n
}
func (m *Manager) MkUMinus(sort arith.Sort, a plugin.Expr) *Node {
	n := m.mkNary(kUMinus, "arith", a)
	n.arithSrt = sort
	return n
}
func (m *Manager) MkSub(sort arith.Sort, a, b plugin.Expr) *Node {
	n := m.mkNary(kSub, "arith", a, b)
	n.arithSrt = sort
	return n
}

// MkOp builds a non-linear/definitional operator application.
func (m *Manager) MkOp(kind arith.OpKind, args ...plugin.Expr) *Node {
	n := m.mkNary(kOp, "arith", args...)
	n.opKind = kind
	return n
}

// MkIneq builds an arithmetic comparison.
func (m *Manager) MkIneq(kind arith.IneqKind, lhs, rhs plugin.Expr) *Node {
	n := m.mkNary(kIneq, "bool", lhs, rhs)
	n.ineqKind = kind
	return n
}

// MkUnitConstraint builds a bit-vector unit comparison v <cmp> bound.
func (m *Manager) MkUnitConstraint(v plugin.Expr, kind viable.CmpKind, bound uint64) *Node {
	n := m.mkNary(kIneq, "bool", v)
	n.cmpKind, n.bound = kind, bound
	return n
}

func (m *Manager) MkEq(a, b plugin.Expr) plugin.Expr { return m.mkNary(kEq, "bool", a, b) }
func (m *Manager) MkNot(a plugin.Expr) plugin.Expr    { return m.mkNary(kNot, "bool", a) }
func (m *Manager) MkOr(es []plugin.Expr) plugin.Expr  { return m.mkNary(kOr, "bool", es...) }
func (m *Manager) MkIff(a, b plugin.Expr) plugin.Expr { return m.mkNary(kIff, "bool", a, b) }
func (m *Manager) MkImplies(a, b plugin.Expr) plugin.Expr {
	return m.mkNary(kImplies, "bool", a, b)
}

// DeclareDatatype registers a recursive or non-recursive algebraic sort
// with its constructors and their arities.
func (m *Manager) DeclareDatatype(sort string, recursive bool, arities map[datatype.ConstructorID]int) {
	if recursive {
		m.recursiveSort[sort] = true
	}
	for c, n := range arities {
		m.ctorArity[c] = n
		m.ctorSort[c] = sort
		m.ctorsOfSort[sort] = append(m.ctorsOfSort[sort], c)
	}
}

func (m *Manager) MkIsC(c datatype.ConstructorID, t plugin.Expr) plugin.Expr {
	n := m.mkNary(kIsC, "bool", t)
	n.ctor = c
	return n
}

func (m *Manager) MkAcc(c datatype.ConstructorID, i int, t plugin.Expr) plugin.Expr {
	n := m.mkNary(kAcc, m.ctorSort[c], t)
	n.ctor, n.accIdx = c, i
	return n
}

func (m *Manager) MkCtorApp(c datatype.ConstructorID, args []plugin.Expr) plugin.Expr {
	n := m.mkNary(kCtorApp, m.ctorSort[c], args...)
	n.ctor = c
	return n
}

func (m *Manager) MkConstVal(c datatype.ConstructorID) plugin.Expr {
	n := m.alloc(&Node{kind: kConstVal, sort: m.ctorSort[c]})
	n.ctor = c
	return n
}

// --- plugin.AstManager ---

func (m *Manager) IsApp(e plugin.Expr) bool             { return len(e.(*Node).args) > 0 }
func (m *Manager) NumArgs(e plugin.Expr) int            { return len(e.(*Node).args) }
func (m *Manager) Arg(e plugin.Expr, i int) plugin.Expr { return e.(*Node).args[i] }
func (m *Manager) Sort(e plugin.Expr) string            { return e.(*Node).sort }

func (m *Manager) IsEq(e plugin.Expr) (plugin.Expr, plugin.Expr, bool) {
	n := e.(*Node)
	if n.kind != kEq {
		return nil, nil, false
	}
	return n.args[0], n.args[1], true
}

// --- arith.Ast[arith.Int64] extensions ---

func (m *Manager) VarSort(e plugin.Expr) arith.Sort { return e.(*Node).arithSrt }

func (m *Manager) AsNumeral(e plugin.Expr) (arith.Int64, bool) {
	n := e.(*Node)
	if n.kind != kIntNum {
		return arith.Int64{}, false
	}
	return n.intVal, true
}

func (m *Manager) IsAdd(e plugin.Expr) bool    { return e.(*Node).kind == kAdd }
func (m *Manager) IsMul(e plugin.Expr) bool    { return e.(*Node).kind == kMul }
func (m *Manager) IsUMinus(e plugin.Expr) bool { return e.(*Node).kind == kUMinus }
func (m *Manager) IsSub(e plugin.Expr) bool    { return e.(*Node).kind == kSub }

func (m *Manager) AsOp(e plugin.Expr) (arith.OpKind, bool) {
	n := e.(*Node)
	if n.kind != kOp {
		return arith.OpNone, false
	}
	return n.opKind, true
}

func (m *Manager) AsIneq(e plugin.Expr) (arith.IneqKind, plugin.Expr, plugin.Expr, bool) {
	n := e.(*Node)
	if n.kind != kIneq || len(n.args) != 2 {
		return 0, nil, nil, false
	}
	return n.ineqKind, n.args[0], n.args[1], true
}

// --- viable/slicing bit-vector extensions ---

func (m *Manager) BitWidth(e plugin.Expr) int { return e.(*Node).width }

func (m *Manager) AsConst(e plugin.Expr) (uint64, bool) {
	n := e.(*Node)
	if n.kind != kBVNum {
		return 0, false
	}
	return n.bvVal, true
}

func (m *Manager) AsExtract(e plugin.Expr) (plugin.Expr, int, int, bool) {
	n := e.(*Node)
	if n.kind != kExtract {
		return nil, 0, 0, false
	}
	return n.args[0], n.extractHi, n.extractLo, true
}

func (m *Manager) AsUnitConstraint(e plugin.Expr) (plugin.Expr, viable.CmpKind, uint64, bool) {
	n := e.(*Node)
	if n.kind != kIneq || len(n.args) != 1 {
		return nil, 0, 0, false
	}
	return n.args[0], n.cmpKind, n.bound, true
}

// --- datatype extensions ---

func (m *Manager) Subterms() []plugin.Expr { return m.subterms }

func (m *Manager) IsDatatypeSort(sort string) bool  { return len(m.ctorsOfSort[sort]) > 0 }
func (m *Manager) IsRecursiveSort(sort string) bool { return m.recursiveSort[sort] }

func (m *Manager) ConstructorsOf(sort string) []datatype.ConstructorID { return m.ctorsOfSort[sort] }
func (m *Manager) ConstructorArity(c datatype.ConstructorID) int      { return m.ctorArity[c] }

func (m *Manager) IsConstructorApp(e plugin.Expr) (datatype.ConstructorID, bool) {
	n := e.(*Node)
	if n.kind != kCtorApp {
		return 0, false
	}
	return n.ctor, true
}

func (m *Manager) IsAccessorApp(e plugin.Expr) (datatype.ConstructorID, int, plugin.Expr, bool) {
	n := e.(*Node)
	if n.kind != kAcc {
		return 0, 0, nil, false
	}
	return n.ctor, n.accIdx, n.args[0], true
}
