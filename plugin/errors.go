package plugin

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies the structural errors a core can raise. Numerical local
// repairs never raise these: a failed repair move just returns false and the
// outer loop tries another variable. Only overflow, exhausted resource
// budgets and genuinely unimplemented operator cases propagate to the host,
// matching the error-handling design in spec section 7.
type Kind int

const (
	// KindOverflow: a bounded-integer instantiation produced a value
	// outside its range. The outer loop should fall back to the
	// arbitrary-precision instantiation or report unknown.
	KindOverflow Kind = iota
	// KindResourceOut: a search exceeded its configured probe budget.
	KindResourceOut
	// KindInfeasible: the current assignment has no local repair; the
	// host should treat this as a conflict with an accompanying
	// explanation.
	KindInfeasible
	// KindNotImplemented: an operator case the core deliberately does not
	// implement (e.g. power of non-trivial arguments, is_int, distinct
	// over arithmetic).
	KindNotImplemented
)

func (k Kind) String() string {
	switch k {
	case KindOverflow:
		return "overflow"
	case KindResourceOut:
		return "resource_out"
	case KindInfeasible:
		return "infeasible"
	case KindNotImplemented:
		return "not_implemented"
	default:
		return "unknown"
	}
}

// Error is the structural error type raised by a core towards the host. It
// carries a Kind so callers can errors.As into it and branch on k.Kind.
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string { return e.Kind.String() + ": " + e.msg }

// Newf builds a structural Error of the given kind.
func Newf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches kind to an underlying error, using errors.Wrap the way
// Notation-gscanner's internal/util/http.go wraps I/O failures. Only the
// wrapped text (message, then the underlying error's text) is kept: Error
// has no Unwrap method, so errors.Unwrap and errors.Is do not reach err.
func Wrap(kind Kind, err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, msg: errors.Wrap(err, message).Error()}
}

// IsKind reports whether err (or something it wraps) is a structural Error
// of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
