package engine

import (
	"errors"
	"fmt"
)

// ErrNotReady is returned by operations on an engine that has not been
// Reset. Reset selects the backend; nothing can dispatch before it.
var ErrNotReady = errors.New("engine not reset")

// ErrTooFewOperands is returned when the stack holds fewer values than
// the operation's arity. Detected during validation; the stack is
// untouched.
var ErrTooFewOperands = errors.New("too few operands on stack")

// InvariantError reports a shift-accounting mismatch: the stack depth or
// shift count after an operation does not match its documented arity.
// Unreachable while the stack's one-shift-per-consumed-value rule holds.
type InvariantError struct {
	Op         string
	WantDepth  int
	GotDepth   int
	WantShifts uint64
	GotShifts  uint64
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf(
		"shift accounting violated in %s: depth %d want %d, shifts %d want %d",
		e.Op, e.GotDepth, e.WantDepth, e.GotShifts, e.WantShifts)
}

// IsInvariant reports whether err is a shift-accounting violation.
// Uses errors.As to handle wrapped errors.
func IsInvariant(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}
