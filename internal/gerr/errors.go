// Package gerr defines the error taxonomy shared by every layer of the
// geodesy engine (parser, macro resolver, registry, operator
// constructors, and the execution engine).
package gerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind tags the category of failure, per the engine's error taxonomy.
type Kind int

const (
	// Syntax marks malformed definition text.
	Syntax Kind = iota
	// Resolution marks an unknown operator/macro, unresolved macro
	// parameter, or cyclic macro expansion.
	Resolution
	// Construction marks a missing/invalid parameter, unknown
	// ellipsoid, or inconsistent parameter combination.
	Construction
	// Execution marks a catastrophic failure during apply (e.g. a
	// required grid could not be read). Per-point numerical failures
	// are not reported as errors of this kind -- they are aggregated
	// into the failure count returned by apply.
	Execution
	// IO marks a grid (or other resource) load failure.
	IO
	// Invariant marks a programming error: popping an empty stack,
	// exceeding the macro recursion depth.
	Invariant
)

func (k Kind) String() string {
	switch k {
	case Syntax:
		return "syntax"
	case Resolution:
		return "resolution"
	case Construction:
		return "construction"
	case Execution:
		return "execution"
	case IO:
		return "io"
	case Invariant:
		return "invariant"
	default:
		return "unknown"
	}
}

// Error is the engine's tagged error type. It carries the offending
// step index (-1 if not applicable) and parameter name (empty if not
// applicable) alongside a human-readable message and an optional
// wrapped cause.
type Error struct {
	Kind  Kind
	Step  int
	Param string
	msg   string
	cause error
}

func (e *Error) Error() string {
	loc := ""
	if e.Step >= 0 {
		loc += fmt.Sprintf(" step %d", e.Step)
	}
	if e.Param != "" {
		loc += fmt.Sprintf(" param %q", e.Param)
	}
	if loc != "" {
		return fmt.Sprintf("%s:%s: %s", e.Kind, loc, e.msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

func (e *Error) Unwrap() error { return e.cause }

// New builds a bare *Error of the given kind with no step/param
// context.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Step: -1, msg: msg}
}

// Newf builds a bare *Error of the given kind with a formatted
// message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Step: -1, msg: fmt.Sprintf(format, args...)}
}

// AtStep builds an *Error tagged with the offending step index.
func AtStep(kind Kind, step int, msg string) *Error {
	return &Error{Kind: kind, Step: step, msg: msg}
}

// AtParam builds an *Error tagged with the offending step index and
// parameter name.
func AtParam(kind Kind, step int, param, msg string) *Error {
	return &Error{Kind: kind, Step: step, Param: param, msg: msg}
}

// Wrap attaches kind/step/param context to an existing cause, keeping
// the cause inspectable via errors.Unwrap/errors.As.
func Wrap(kind Kind, step int, param string, cause error, msg string) *Error {
	return &Error{
		Kind:  kind,
		Step:  step,
		Param: param,
		msg:   msg,
		cause: errors.WithMessage(cause, msg),
	}
}

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
