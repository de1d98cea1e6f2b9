// Package stack implements the 4-slot operand stack.
//
// Slot 0 is the logical top. Push and ShiftOut are the only mutators, and
// each moves exactly one slot-ownership boundary: push shifts every slot
// down one and installs the new value at the top, shift-out returns the
// top and promotes the rest. The historical corruption class (a composed
// operation shifting twice for one consumed value) is made structurally
// impossible for callers: the slot array is unexported and there is no
// offset-based access.
//
// The stack is not safe for concurrent use. The engine guarantees one
// logical execution context at a time.
package stack

import (
	"errors"

	"github.com/roach88/fpstack/internal/fp"
)

// Slots is the fixed capacity, matching the coprocessor's register file.
const Slots = 4

// ErrUnderflow is returned by ShiftOut on an empty stack. The dispatcher
// validates arity before consuming, so seeing this surfaced means a shift
// accounting bug, not a user error.
var ErrUnderflow = errors.New("operand stack underflow")

// Stack is the 4-slot operand stack. The zero value is an empty stack.
type Stack struct {
	slots [Slots]fp.CompactFloat
	depth int
	// shifts counts every ShiftOut ever performed. The dispatcher
	// snapshots it around each operation to verify the one-shift-per-
	// consumed-value rule held.
	shifts uint64
}

// New returns an empty stack.
func New() *Stack { return &Stack{} }

// Depth returns the logical depth, 0..4.
func (s *Stack) Depth() int { return s.depth }

// Shifts returns the monotonic shift-out counter.
func (s *Stack) Shifts() uint64 { return s.shifts }

// Top returns a copy of slot 0 without consuming it. Callers that intend
// to consume must capture this copy before calling ShiftOut.
func (s *Stack) Top() fp.CompactFloat { return s.slots[0] }

// Push installs v in slot 0. Slots 0..2 shift to 1..3; slot 3's previous
// value is discarded, matching the device's register file. Depth saturates
// at 4.
func (s *Stack) Push(v fp.CompactFloat) {
	s.slots[3] = s.slots[2]
	s.slots[2] = s.slots[1]
	s.slots[1] = s.slots[0]
	s.slots[0] = v
	if s.depth < Slots {
		s.depth++
	}
}

// ShiftOut removes the logical top and promotes slots 1..3 to 0..2. Slot 3
// is refilled with canonical zero so stale values cannot resurface. This
// is the single shift of the one-shift-per-consumed-value rule.
func (s *Stack) ShiftOut() (fp.CompactFloat, error) {
	if s.depth == 0 {
		return fp.Zero(), ErrUnderflow
	}
	v := s.slots[0]
	s.slots[0] = s.slots[1]
	s.slots[1] = s.slots[2]
	s.slots[2] = s.slots[3]
	s.slots[3] = fp.Zero()
	s.depth--
	s.shifts++
	return v, nil
}

// Clear empties the stack. Used by Reset only.
func (s *Stack) Clear() {
	*s = Stack{shifts: s.shifts}
}

// Snapshot returns a copy of all four slots, top first. For trace and test
// use only; the copy shares nothing with the live stack.
func (s *Stack) Snapshot() [Slots]fp.CompactFloat { return s.slots }
