package datatype

import "github.com/nbjorner/smtcore/plugin"

// RegisterTerm is a no-op: datatype axioms are elaborated in one pass over
// every subterm (AddAxioms), not incrementally per registration, mirroring
// the original's register_term.
func (e *Engine) RegisterTerm(plugin.Expr) {}

// SetValue is a no-op; this core has no numeric state for the host to set.
func (e *Engine) SetValue(plugin.Expr, plugin.Expr) {}

// GetValue always reports no value: axiom elaboration never produces model
// values of its own, mirroring the original's get_value returning an empty
// expr_ref.
func (e *Engine) GetValue(plugin.Expr) plugin.Expr { return nil }

// Initialize runs the one-shot axiom elaboration pass over every subterm
// the host has registered by the time it calls Initialize, spec section
// 4.4's add_axioms. The Plugin contract has no separate "elaborate axioms"
// entry point, and this is the host's designated once-at-startup hook.
func (e *Engine) Initialize() { e.AddAxioms() }

// PropagateLiteral is a no-op: axioms are plain clauses handed to the host
// once; this core never reacts to individual literal assignments.
func (e *Engine) PropagateLiteral(plugin.Lit) {}

// Propagate always reports no change: there is nothing left to saturate
// once AddAxioms has run.
func (e *Engine) Propagate() bool { return false }

// RepairUp and RepairDown are no-ops: this core has no value-carrying
// variables for the local-search repair loop to adjust.
func (e *Engine) RepairUp(plugin.Expr) bool   { return false }
func (e *Engine) RepairDown(plugin.Expr) bool { return false }

// RepairLiteral is a no-op for the same reason.
func (e *Engine) RepairLiteral(plugin.Lit) {}

// IsSat always reports true: the axioms this core emits are clauses in the
// host's own store, so any violation shows up as a host-level conflict,
// not as a core-local failure.
func (e *Engine) IsSat() bool { return true }

// OnRestart and OnRescale are no-ops: this core keeps no restart- or
// rescale-sensitive state.
func (e *Engine) OnRestart() {}
func (e *Engine) OnRescale() {}
