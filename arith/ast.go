package arith

import "github.com/nbjorner/smtcore/plugin"

// Ast layers the arithmetic-specific structural queries mk_term needs on top
// of the generic plugin.AstManager capability: spec section 1 names the AST
// manager only as "term construction, sort queries, equality/app testing",
// leaving the concrete query surface to the consumer. Viable and Slicing
// need none of this; it is kept local to the arith package rather than
// bloating the shared plugin.AstManager interface every core would have to
// implement against.
type Ast[T Value[T]] interface {
	plugin.AstManager

	// VarSort reports whether e has integer or real sort.
	VarSort(e plugin.Expr) Sort
	// AsNumeral reports whether e is a numeral literal and its value.
	AsNumeral(e plugin.Expr) (T, bool)
	// IsAdd/IsMul/IsUMinus/IsSub classify arithmetic operator applications.
	IsAdd(e plugin.Expr) bool
	IsMul(e plugin.Expr) bool
	IsUMinus(e plugin.Expr) bool
	IsSub(e plugin.Expr) bool
	// AsOp reports a non-linear definitional operator application.
	AsOp(e plugin.Expr) (OpKind, bool)
	// AsIneq reports whether e is a LE/LT/EQ comparison over arithmetic
	// and its operands.
	AsIneq(e plugin.Expr) (kind IneqKind, lhs, rhs plugin.Expr, ok bool)
}
