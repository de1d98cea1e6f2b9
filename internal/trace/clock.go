package trace

import "sync/atomic"

// Clock is a monotonic logical clock stamping trace events. Sequence
// numbers, never wall time, order the log: replays and golden files stay
// byte-stable regardless of when a run happened.
type Clock struct {
	seq atomic.Int64
}

// NewClock returns a clock starting at 0; the first Next is 1.
func NewClock() *Clock { return &Clock{} }

// Next returns the next sequence number. Each call returns a unique,
// strictly increasing value.
func (c *Clock) Next() int64 { return c.seq.Add(1) }

// Current returns the last issued sequence number.
func (c *Clock) Current() int64 { return c.seq.Load() }
