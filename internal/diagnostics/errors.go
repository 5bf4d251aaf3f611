// Package diagnostics defines the compiler's error kinds and an accumulator
// for reporting multiple problems from a single invocation.
package diagnostics

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for each error kind in the compiler (spec §7). Call sites
// wrap these with fmt.Errorf("%s: %w", …) so errors.Is still matches the
// kind after context is attached.
var (
	ErrParse                  = errors.New("parse error")
	ErrUnbalancedBraces       = errors.New("unbalanced braces")
	ErrUnknownField           = errors.New("unknown field")
	ErrUnresolvedName         = errors.New("unresolved name")
	ErrUnresolvedMapping      = errors.New("unresolved mapping")
	ErrTypeMismatch           = errors.New("type mismatch")
	ErrTypeConflict           = errors.New("type conflict")
	ErrReturnTypeConflict     = errors.New("return type conflict")
	ErrArityMismatch          = errors.New("arity mismatch")
	ErrDivisionByZero         = errors.New("division by zero")
	ErrIncludeCycle           = errors.New("include cycle")
	ErrDelayUnsupported       = errors.New("delay unsupported")
	ErrIOError                = errors.New("io error")
	ErrUnsupportedMathML      = errors.New("unsupported mathml construct")
)

// Error is a single located diagnostic: a kind (one of the sentinels above),
// a human-readable message, and the source location it pertains to.
type Error struct {
	Kind    error
	Subject string // e.g. a Definition name, file path, or variable name
	Message string
}

func (e *Error) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Subject, e.Message)
}

func (e *Error) Unwrap() error { return e.Kind }

// New builds a located Error for the given kind.
func New(kind error, subject, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Subject: subject, Message: fmt.Sprintf(format, args...)}
}

// List accumulates diagnostics across a phase (e.g. per-Definition semantic
// checks) so one invocation can report multiple problems instead of aborting
// at the first (spec §7).
type List struct {
	errs []*Error
}

// Add appends a diagnostic to the list.
func (l *List) Add(e *Error) {
	l.errs = append(l.errs, e)
}

// Addf is a convenience wrapper around Add/New.
func (l *List) Addf(kind error, subject, format string, args ...interface{}) {
	l.Add(New(kind, subject, format, args...))
}

// Empty reports whether no diagnostics were accumulated.
func (l *List) Empty() bool { return len(l.errs) == 0 }

// Errors returns the accumulated diagnostics in the order they were added.
func (l *List) Errors() []*Error { return l.errs }

// Err returns nil if the list is empty, or a single error joining all
// accumulated diagnostics (one per line) otherwise.
func (l *List) Err() error {
	if l.Empty() {
		return nil
	}
	lines := make([]string, len(l.errs))
	for i, e := range l.errs {
		lines[i] = e.Error()
	}
	return fmt.Errorf("%d diagnostic(s):\n  %s", len(l.errs), strings.Join(lines, "\n  "))
}
