package device

import (
	"log/slog"

	"github.com/roach88/fpstack/internal/fp"
	"github.com/roach88/fpstack/internal/op"
)

// DefaultMaxPoll is the default WaitReady iteration ceiling. A healthy
// device clears busy within a few polls; the ceiling only has to cover
// worst-case transcendental latency with margin.
const DefaultMaxPoll = 256

// Transport drives one coprocessor over a Bus. It implements the backend
// contract the dispatcher selects at reset.
type Transport struct {
	bus     Bus
	maxPoll int
	log     *slog.Logger
}

// NewTransport wraps bus. maxPoll <= 0 selects DefaultMaxPoll; a nil
// logger discards.
func NewTransport(bus Bus, maxPoll int, log *slog.Logger) *Transport {
	if maxPoll <= 0 {
		maxPoll = DefaultMaxPoll
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Transport{bus: bus, maxPoll: maxPoll, log: log}
}

// Name identifies the backend in traces and the probe report.
func (t *Transport) Name() string { return "hardware" }

// SendOperands writes operand bytes to the parameter register.
//
// Unary: the 7 bytes of x in wire order. Binary: the bytes of x and y
// strictly interleaved, x[i] before y[i] for each offset. The device
// de-interleaves on the same rule; any deviation makes it execute with
// corrupted operands, so this function is the only writer of operand
// bytes in the repo.
func (t *Transport) SendOperands(x fp.CompactFloat, y *fp.CompactFloat) {
	if y == nil {
		for i := 0; i < fp.CompactSize; i++ {
			t.bus.WriteParam(x[i])
		}
		return
	}
	for i := 0; i < fp.CompactSize; i++ {
		t.bus.WriteParam(x[i])
		t.bus.WriteParam(y[i])
	}
}

// IssueCommand writes the opcode to the command register.
func (t *Transport) IssueCommand(opcode byte) {
	t.bus.WriteCommand(opcode)
}

// WaitReady polls the status register until the busy bit clears, for at
// most maxIterations polls. Returns *TimeoutError when the bound is
// exhausted and *FaultError when busy cleared with a fault code latched.
func (t *Transport) WaitReady(maxIterations int) error {
	for i := 0; i < maxIterations; i++ {
		status := t.bus.ReadStatus()
		if status&StatusBusy != 0 {
			continue
		}
		if code := status & FaultMask; code != FaultNone {
			return &FaultError{Code: code}
		}
		return nil
	}
	t.log.Warn("device poll bound exhausted", "iterations", maxIterations)
	return &TimeoutError{Iterations: maxIterations}
}

// ReadResult reads the 7 result bytes back from the parameter register.
// Only valid after WaitReady returned nil.
func (t *Transport) ReadResult() fp.CompactFloat {
	var c fp.CompactFloat
	for i := 0; i < fp.CompactSize; i++ {
		c[i] = t.bus.ReadParam()
	}
	return c
}

// Apply runs one complete operation: operands out, opcode, bounded wait,
// result back. For binary operations x is the top-of-stack operand (X)
// and y the earlier-pushed operand (Y); the result is Y op X.
func (t *Transport) Apply(operation op.Op, x fp.CompactFloat, y *fp.CompactFloat) (fp.CompactFloat, error) {
	t.SendOperands(x, y)
	t.IssueCommand(operation.Opcode)
	if err := t.WaitReady(t.maxPoll); err != nil {
		if fe, ok := err.(*FaultError); ok {
			fe.Op = operation.Name
		}
		t.log.Debug("device operation failed", "op", operation.Name, "err", err)
		return fp.Zero(), err
	}
	res := t.ReadResult()
	t.log.Debug("device operation complete", "op", operation.Name, "result", res.String())
	return res, nil
}

// Probe checks device presence: issue NOP and wait briefly for a clean
// busy-bit clear. Called exactly once per engine reset; the result is
// latched into the session for the life of the process.
func Probe(bus Bus, maxIterations int) bool {
	t := NewTransport(bus, maxIterations, nil)
	t.IssueCommand(op.OpcodeNop)
	return t.WaitReady(maxIterations) == nil
}
