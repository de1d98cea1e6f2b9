package engine

import (
	"log/slog"

	"github.com/roach88/fpstack/internal/device"
	"github.com/roach88/fpstack/internal/fp"
	"github.com/roach88/fpstack/internal/op"
	"github.com/roach88/fpstack/internal/softfp"
	"github.com/roach88/fpstack/internal/stack"
	"github.com/roach88/fpstack/internal/trace"
)

// Backend executes one operation. Implemented by *device.Transport
// (hardware) and *softfp.Backend (software); the dispatcher is agnostic.
type Backend interface {
	Name() string
	Apply(operation op.Op, x fp.CompactFloat, y *fp.CompactFloat) (fp.CompactFloat, error)
}

// Session is the once-per-reset hardware availability record. Written by
// Reset, read-only until the next Reset.
type Session struct {
	// Available is the latched probe result. A Timeout on a later call
	// does not clear it.
	Available bool

	// Token correlates this session's trace events.
	Token string
}

// Engine is the operation dispatcher. It exclusively owns the operand
// stack and the session; callers never receive slot handles.
type Engine struct {
	stack   *stack.Stack
	bus     device.Bus
	hw      *device.Transport
	sw      *softfp.Backend
	backend Backend
	session Session

	maxPoll       int
	forceSoftware bool

	log    *slog.Logger
	rec    trace.Recorder
	clock  *trace.Clock
	tokens trace.TokenSource
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithBus attaches the coprocessor's register bus. Without a bus the
// probe always fails and the engine runs on the software backend.
func WithBus(bus device.Bus) Option {
	return func(e *Engine) { e.bus = bus }
}

// WithMaxPoll bounds the busy-bit polling loop. The default is
// device.DefaultMaxPoll; pick a value covering worst-case device latency,
// polling never blocks past it.
func WithMaxPoll(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxPoll = n
		}
	}
}

// ForceSoftware makes the probe fail regardless of the bus, pinning the
// software backend. Used by configuration and dual-path tests.
func ForceSoftware() Option {
	return func(e *Engine) { e.forceSoftware = true }
}

// WithLogger sets the structured logger. Default discards.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithRecorder attaches opt-in instrumentation. The recorder receives
// copies only and cannot alter control flow. Default: none.
func WithRecorder(rec trace.Recorder) Option {
	return func(e *Engine) { e.rec = rec }
}

// WithTokenSource overrides session token minting, for deterministic
// tests. Default: UUIDv7.
func WithTokenSource(src trace.TokenSource) Option {
	return func(e *Engine) {
		if src != nil {
			e.tokens = src
		}
	}
}

// New constructs an engine. The engine is idle until Reset, which probes
// the hardware and opens the first session; operations before Reset fail
// with ErrNotReady.
func New(opts ...Option) *Engine {
	e := &Engine{
		stack:   stack.New(),
		maxPoll: device.DefaultMaxPoll,
		log:     slog.New(slog.DiscardHandler),
		clock:   trace.NewClock(),
		tokens:  trace.UUIDv7Source{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.sw = softfp.New(e.log)
	if e.bus != nil {
		e.hw = device.NewTransport(e.bus, e.maxPoll, e.log)
	}
	return e
}

// Reset probes hardware presence exactly once, latches the availability
// flag, mints a session token, and clears the stack. The probe is the
// only place the availability flag is written.
func (e *Engine) Reset() {
	available := false
	if e.hw != nil && !e.forceSoftware {
		available = device.Probe(e.bus, e.maxPoll)
	}
	if available {
		e.backend = e.hw
	} else {
		e.backend = e.sw
	}
	e.session = Session{Available: available, Token: e.tokens.Generate()}
	e.stack.Clear()

	e.log.Debug("engine reset", "backend", e.backend.Name(), "session", e.session.Token)
	e.record("reset", "", "", nil)
}

// Session returns the current session record.
func (e *Engine) Session() Session { return e.session }

// BackendName returns the active backend's label, or "" before Reset.
func (e *Engine) BackendName() string {
	if e.backend == nil {
		return ""
	}
	return e.backend.Name()
}

// Depth returns the operand stack's logical depth.
func (e *Engine) Depth() int { return e.stack.Depth() }

func (e *Engine) ready() error {
	if e.backend == nil {
		return ErrNotReady
	}
	return nil
}

// record emits one trace event. A nil recorder costs one branch; the
// event carries copies only.
func (e *Engine) record(opName, backendName, result string, err error) {
	if e.rec == nil {
		return
	}
	ev := trace.Event{
		Seq:     e.clock.Next(),
		Session: e.session.Token,
		Op:      opName,
		Backend: backendName,
		Depth:   e.stack.Depth(),
		Result:  result,
	}
	if err != nil {
		ev.Err = err.Error()
		ev.Result = ""
	}
	e.rec.Record(ev)
}

// renderCompact formats a compact value for traces, shortest form.
func renderCompact(c fp.CompactFloat) string {
	if c.IsZero() {
		return "0"
	}
	return fp.FormatDecimal(fp.ToFloat64(fp.Decode(c)), -1, 0, fp.ModeShortest)
}
