// Package trace is the engine's opt-in structured instrumentation.
//
// The dispatcher hands a Recorder copies of what happened (operation
// name, backend label, resulting depth, rendered result, error text),
// stamped with a session token and a monotonic sequence number. Recorders
// cannot alter control flow: Record returns nothing, recorder failures
// are logged and dropped, and no recorder ever holds a reference into
// the live stack or registers.
//
// Two recorders ship: LogRecorder emits slog lines, Store appends to a
// SQLite log that the CLI's trace command reads back in seq order.
package trace
