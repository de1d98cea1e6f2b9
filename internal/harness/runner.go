package harness

import (
	"errors"
	"fmt"

	"github.com/roach88/fpstack/internal/device"
	"github.com/roach88/fpstack/internal/engine"
	"github.com/roach88/fpstack/internal/fp"
	"github.com/roach88/fpstack/internal/trace"
)

// Result is one scenario execution on one backend.
type Result struct {
	Scenario string
	Backend  string

	// Trace is the recorded event stream, in seq order.
	Trace []trace.Event

	// Failures lists every expectation that did not hold. Empty means
	// the scenario passed.
	Failures []string
}

// Passed reports whether every expectation held.
func (r *Result) Passed() bool { return len(r.Failures) == 0 }

// collector buffers events; the harness result exposes them.
type collector struct {
	events []trace.Event
}

func (c *collector) Record(ev trace.Event) { c.events = append(c.events, ev) }

// Run executes the scenario on one backend ("hardware" runs the
// simulated coprocessor, "software" pins the fallback).
func Run(s *Scenario, backend string) (*Result, error) {
	col := &collector{}
	opts := []engine.Option{
		engine.WithRecorder(col),
		engine.WithTokenSource(trace.NewFixedTokens(s.Session)),
	}
	switch backend {
	case "hardware":
		opts = append(opts, engine.WithBus(device.NewSimDevice()), engine.WithMaxPoll(32))
	case "software":
		opts = append(opts, engine.ForceSoftware())
	default:
		return nil, fmt.Errorf("scenario %s: unknown backend %q", s.Name, backend)
	}

	e := engine.New(opts...)
	e.Reset()

	res := &Result{Scenario: s.Name, Backend: backend}
	for i, step := range s.Steps {
		if err := runStep(e, step, i, res); err != nil {
			return nil, err
		}
	}
	res.Trace = col.events
	return res, nil
}

// RunAll executes the scenario on every backend it names.
func RunAll(s *Scenario) ([]*Result, error) {
	var out []*Result
	for _, b := range s.Backends {
		r, err := Run(s, b)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func runStep(e *engine.Engine, step Step, idx int, res *Result) error {
	fail := func(format string, args ...any) {
		res.Failures = append(res.Failures,
			fmt.Sprintf("step %d (%s): %s", idx, step.Op, fmt.Sprintf(format, args...)))
	}

	var (
		err      error
		rendered string
		ordering engine.Ordering
	)

	switch step.Op {
	case "push":
		err = e.PushFromString(step.Value)
	case "pull":
		rendered, err = e.PullToString(-1, 0, fp.ModeShortest)
	case "compare":
		ordering, err = e.Compare()
	case "pow":
		err = e.Pow()
	case "add":
		err = e.Add()
	case "sub":
		err = e.Sub()
	case "mul":
		err = e.Mul()
	case "div":
		err = e.Div()
	case "sqrt":
		err = e.Sqrt()
	case "square":
		err = e.Square()
	case "neg":
		err = e.Neg()
	case "sin":
		err = e.Sin()
	case "cos":
		err = e.Cos()
	case "tan":
		err = e.Tan()
	case "atan":
		err = e.Atan()
	case "ln":
		err = e.Ln()
	case "exp":
		err = e.Exp()
	default:
		return fmt.Errorf("scenario %s step %d: unknown op %q", res.Scenario, idx, step.Op)
	}

	expect := step.Expect
	if expect == nil {
		expect = &Expect{}
	}

	if expect.Error == "" {
		if err != nil {
			fail("unexpected error: %v", err)
			return nil
		}
	} else {
		if err == nil {
			fail("expected %s error, got success", expect.Error)
			return nil
		}
		if got := classify(err); got != expect.Error {
			fail("expected %s error, got %s (%v)", expect.Error, got, err)
		}
	}

	if expect.Result != "" && rendered != expect.Result {
		fail("result %q, want %q", rendered, expect.Result)
	}
	if expect.Ordering != "" && ordering.String() != expect.Ordering {
		fail("ordering %s, want %s", ordering, expect.Ordering)
	}
	if expect.Depth != nil && e.Depth() != *expect.Depth {
		fail("depth %d, want %d", e.Depth(), *expect.Depth)
	}
	return nil
}

// classify maps an error to its scenario-facing class name.
func classify(err error) string {
	switch {
	case device.IsTimeout(err):
		return "timeout"
	case device.IsFault(err):
		return "fault"
	case fp.IsParse(err):
		return "parse"
	case fp.IsRange(err) || errors.Is(err, fp.ErrNotFinite):
		return "range"
	case errors.Is(err, engine.ErrTooFewOperands):
		return "underflow"
	case engine.IsInvariant(err):
		return "invariant"
	default:
		return "unknown"
	}
}
