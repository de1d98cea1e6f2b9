// Package device drives the coprocessor's command/status/parameter
// register triple.
//
// The host platform owns register addresses; this package sees only the
// Bus port interface. A complete operation is: write operand bytes to the
// parameter register (binary operands byte-interleaved, X before Y), write
// the opcode to the command register, poll the status register's busy bit
// under a hard iteration ceiling, then either read the 7 result bytes back
// from the parameter register or surface the fault code the status
// register carries once busy clears.
//
// Polling is the only suspension in the engine and it is bounded: WaitReady
// returns *TimeoutError after maxIterations without a busy-bit clear, never
// blocking indefinitely. A timeout fails the one call; it does not demote
// the session's availability flag (that is fixed at reset).
//
// SimDevice is a register-accurate software coprocessor used by tests and
// the reference CLI. Its arithmetic is implemented independently of the
// software fallback backend so dual-path consistency tests compare two
// genuinely separate computations.
package device
