// Package engine implements the operation dispatcher: the only surface
// clients call.
//
// The engine owns the 4-slot operand stack and the hardware session. At
// Reset it probes for the coprocessor exactly once and latches the result;
// every operation then routes to the hardware transport or the software
// fallback through one backend interface, with identical stack semantics
// and error contracts on both paths. A Timeout on a single call never
// demotes the latched availability.
//
// Every call runs the same state machine:
//
//	Idle -> ValidatingInputs -> {fail: error, stack untouched}
//	     -> Committing(backend) -> {fail: error, stack restored to
//	        pre-call depth and contents}
//	     -> Applying -> Idle
//
// Operand accounting is the invariant the whole design defends: one shift
// per consumed value. Binary operations consume exactly two shifts and
// push one result; unary operations one shift, one push; Compare reuses
// the binary consumption helper and the subtraction compute, classifies a
// local copy, and pushes nothing: zero shifts beyond the two the
// subtraction consumption performed. The engine snapshots the stack's
// shift counter around every call and turns any mismatch into an
// InvariantError, which is unreachable unless the stack contract itself
// regresses.
//
// The engine assumes one logical execution context; it is not safe for
// concurrent use.
package engine
