package plugin

// Plugin is the uniform contract every theory core presents to the host, as
// described in spec section 6.1. The host drives a core purely through these
// methods; a core never calls back into another core.
type Plugin interface {
	RegisterTerm(e Expr)
	SetValue(e Expr, v Expr)
	GetValue(e Expr) Expr
	Initialize()
	PropagateLiteral(lit Lit)
	Propagate() bool
	RepairUp(e Expr) bool
	RepairDown(e Expr) bool
	RepairLiteral(lit Lit)
	IsSat() bool
	OnRestart()
	OnRescale()
}
