package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fpstack/internal/device"
	"github.com/roach88/fpstack/internal/fp"
	"github.com/roach88/fpstack/internal/testutil"
	"github.com/roach88/fpstack/internal/trace"
)

// newSoft returns a reset engine pinned to the software backend.
func newSoft(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e := New(append([]Option{ForceSoftware()}, opts...)...)
	e.Reset()
	require.Equal(t, "software", e.BackendName())
	return e
}

// newHard returns a reset engine on the simulated coprocessor.
func newHard(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e := New(append([]Option{WithBus(device.NewSimDevice()), WithMaxPoll(16)}, opts...)...)
	e.Reset()
	require.Equal(t, "hardware", e.BackendName())
	require.True(t, e.Session().Available)
	return e
}

// push is a test shorthand for PushFromString.
func push(t *testing.T, e *Engine, s string) {
	t.Helper()
	require.NoError(t, e.PushFromString(s))
}

// pull renders the top in shortest form.
func pull(t *testing.T, e *Engine) string {
	t.Helper()
	s, err := e.PullToString(-1, 0, fp.ModeShortest)
	require.NoError(t, err)
	return s
}

func TestReset_ProbeSelectsBackendOnce(t *testing.T) {
	// Probe succeeds: hardware.
	e := New(WithBus(device.NewSimDevice()), WithMaxPoll(8))
	e.Reset()
	assert.Equal(t, "hardware", e.BackendName())
	assert.True(t, e.Session().Available)

	// No bus: software.
	e = New()
	e.Reset()
	assert.Equal(t, "software", e.BackendName())
	assert.False(t, e.Session().Available)

	// Bus present but probe forced to fail: software.
	e = New(WithBus(device.NewSimDevice()), ForceSoftware())
	e.Reset()
	assert.Equal(t, "software", e.BackendName())
	assert.False(t, e.Session().Available)

	// Dead bus: probe fails, software.
	e = New(WithBus(testutil.BusyBus()), WithMaxPoll(8))
	e.Reset()
	assert.Equal(t, "software", e.BackendName())
}

func TestOpsBeforeResetFail(t *testing.T) {
	e := New()
	assert.ErrorIs(t, e.PushFromString("1"), ErrNotReady)
	assert.ErrorIs(t, e.Add(), ErrNotReady)
	_, err := e.Compare()
	assert.ErrorIs(t, err, ErrNotReady)
	_, err = e.PullToString(2, 0, fp.ModeFixed)
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestReset_ClearsStack(t *testing.T) {
	e := newSoft(t)
	push(t, e, "1")
	push(t, e, "2")
	e.Reset()
	assert.Equal(t, 0, e.Depth())
}

func TestPushFromString_ValidateThenCommit(t *testing.T) {
	e := newSoft(t)
	push(t, e, "10")

	// Parse failure: stack exactly as it was.
	err := e.PushFromString("not a number")
	require.Error(t, err)
	assert.True(t, fp.IsParse(err))
	assert.Equal(t, 1, e.Depth())

	// Range failure after a successful parse: still no mutation.
	err = e.PushFromString("1e300")
	require.Error(t, err)
	assert.Equal(t, 1, e.Depth())
	assert.Equal(t, "10", pull(t, e))
}

func TestPushFromInt(t *testing.T) {
	e := newSoft(t)
	require.NoError(t, e.PushFromInt(-42))
	assert.Equal(t, "-42", pull(t, e))
}

func TestPullToString_Formatting(t *testing.T) {
	e := newSoft(t)
	push(t, e, "7")
	s, err := e.PullToString(2, 8, fp.ModeFixed)
	require.NoError(t, err)
	assert.Equal(t, "    7.00", s)
	assert.Equal(t, 0, e.Depth())

	_, err = e.PullToString(2, 0, fp.ModeFixed)
	assert.ErrorIs(t, err, ErrTooFewOperands)
}

// The six literal scenarios from the engine's contract, run against both
// backends: identical results and classifications.
func TestLiteralScenarios_BothBackends(t *testing.T) {
	backends := map[string]func(*testing.T) *Engine{
		"hardware": func(t *testing.T) *Engine { return newHard(t) },
		"software": func(t *testing.T) *Engine { return newSoft(t) },
	}
	for name, mk := range backends {
		t.Run(name, func(t *testing.T) {
			t.Run("sub_10_3", func(t *testing.T) {
				e := mk(t)
				push(t, e, "10")
				push(t, e, "3")
				require.NoError(t, e.Sub())
				assert.Equal(t, "7", pull(t, e))
			})
			t.Run("sub_3_7", func(t *testing.T) {
				e := mk(t)
				push(t, e, "3")
				push(t, e, "7")
				require.NoError(t, e.Sub())
				assert.Equal(t, "-4", pull(t, e))
			})
			t.Run("sub_6_6_canonical_zero", func(t *testing.T) {
				e := mk(t)
				push(t, e, "6")
				push(t, e, "6")
				require.NoError(t, e.Sub())
				assert.Equal(t, "0", pull(t, e))
			})
			t.Run("compare_10_3", func(t *testing.T) {
				e := mk(t)
				push(t, e, "10")
				push(t, e, "3")
				ord, err := e.Compare()
				require.NoError(t, err)
				assert.Equal(t, GreaterThan, ord)
			})
			t.Run("compare_3_7", func(t *testing.T) {
				e := mk(t)
				push(t, e, "3")
				push(t, e, "7")
				ord, err := e.Compare()
				require.NoError(t, err)
				assert.Equal(t, LessThan, ord)
			})
			t.Run("compare_6_6", func(t *testing.T) {
				e := mk(t)
				push(t, e, "6")
				push(t, e, "6")
				ord, err := e.Compare()
				require.NoError(t, err)
				assert.Equal(t, Equal, ord)
			})
		})
	}
}

func TestTimeout_RestoresStackAndKeepsAvailability(t *testing.T) {
	// Probe sees a ready device, then the device wedges busy forever.
	bus := &testutil.ScriptedBus{Statuses: []byte{0x00, 0x80}}
	e := New(WithBus(bus), WithMaxPoll(8))
	e.Reset()
	require.True(t, e.Session().Available)

	push(t, e, "10")
	push(t, e, "3")

	err := e.Sub()
	require.Error(t, err)
	assert.True(t, device.IsTimeout(err))

	// Pre-call depth restored, operands intact, availability unchanged.
	assert.Equal(t, 2, e.Depth())
	assert.True(t, e.Session().Available, "timeout must not demote availability")
	assert.Equal(t, "3", pull(t, e))
	assert.Equal(t, "10", pull(t, e))
}

func TestTrace_RecordsSessionAndSequence(t *testing.T) {
	var got []trace.Event
	rec := recorderFunc(func(ev trace.Event) { got = append(got, ev) })

	e := New(ForceSoftware(),
		WithRecorder(rec),
		WithTokenSource(trace.NewFixedTokens("session-1")))
	e.Reset()

	push(t, e, "10")
	push(t, e, "3")
	require.NoError(t, e.Sub())

	require.Len(t, got, 4) // reset, push, push, sub
	for i, ev := range got {
		assert.Equal(t, int64(i+1), ev.Seq)
		assert.Equal(t, "session-1", ev.Session)
	}
	assert.Equal(t, "reset", got[0].Op)
	assert.Equal(t, "sub", got[3].Op)
	assert.Equal(t, "software", got[3].Backend)
	assert.Equal(t, "7", got[3].Result)
	assert.Equal(t, 1, got[3].Depth)
}

func TestTrace_RecordsErrors(t *testing.T) {
	var got []trace.Event
	rec := recorderFunc(func(ev trace.Event) { got = append(got, ev) })

	e := New(ForceSoftware(),
		WithRecorder(rec),
		WithTokenSource(trace.NewFixedTokens("session-1")))
	e.Reset()

	push(t, e, "10")
	push(t, e, "0")
	require.Error(t, e.Div())

	last := got[len(got)-1]
	assert.Equal(t, "div", last.Op)
	assert.NotEmpty(t, last.Err)
	assert.Empty(t, last.Result)
	assert.Equal(t, 2, last.Depth, "error events report the restored depth")
}

// recorderFunc adapts a func to trace.Recorder.
type recorderFunc func(trace.Event)

func (f recorderFunc) Record(ev trace.Event) { f(ev) }
