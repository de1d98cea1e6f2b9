// Package softfp is the software fallback backend: the same operation
// surface as the hardware transport, computed on the extended form with
// host math routines. The dispatcher selects it when the presence probe
// fails at reset.
//
// Two contracts carried over from the hardware path:
//
//   - Zero fast path. A canonical zero operand is consumed as the float
//     0.0 directly; the generic Decode math is never invoked for it. An
//     earlier iteration of this engine kept a shared conversion buffer
//     that a zero left corrupted, poisoning unrelated later calls; all
//     conversion here is value-in/value-out with no state that outlives
//     a call.
//
//   - Fault taxonomy. Divide by zero, domain errors, and overflow are
//     reported as device fault errors with the same codes the status
//     register would carry, so callers cannot tell the backends apart by
//     error shape.
package softfp

import (
	"log/slog"
	"math"

	"github.com/roach88/fpstack/internal/device"
	"github.com/roach88/fpstack/internal/fp"
	"github.com/roach88/fpstack/internal/op"
)

// Backend computes operations on the host. It holds no mutable state; a
// single value serves any number of engines.
type Backend struct {
	log *slog.Logger
}

// New returns a software backend. A nil logger discards.
func New(log *slog.Logger) *Backend {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Backend{log: log}
}

// Name identifies the backend in traces and the probe report.
func (b *Backend) Name() string { return "software" }

// Apply computes one operation. For binary operations x is the
// top-of-stack operand (X), y the earlier-pushed operand (Y), and the
// result is Y op X, identical to the hardware contract.
func (b *Backend) Apply(operation op.Op, x fp.CompactFloat, y *fp.CompactFloat) (fp.CompactFloat, error) {
	xf := toFloat(x)
	var yf float64
	if y != nil {
		yf = toFloat(*y)
	}

	res, err := compute(operation, xf, yf)
	if err != nil {
		b.log.Debug("software operation failed", "op", operation.Name, "err", err)
		return fp.Zero(), err
	}
	return fromFloat(operation, res)
}

// toFloat converts an operand, taking the zero fast path before any
// generic conversion.
func toFloat(c fp.CompactFloat) float64 {
	if c.IsZero() {
		return 0
	}
	return fp.ToFloat64(fp.Decode(c))
}

// fromFloat encodes a result. Underflow flushes to canonical zero (the
// device does the same); overflow and non-finite results fault.
func fromFloat(operation op.Op, f float64) (fp.CompactFloat, error) {
	if math.IsNaN(f) {
		return fp.Zero(), &device.FaultError{Code: device.FaultDomain, Op: operation.Name}
	}
	if math.IsInf(f, 0) {
		return fp.Zero(), &device.FaultError{Code: device.FaultOverflow, Op: operation.Name}
	}
	if f == 0 {
		return fp.Zero(), nil
	}

	ext, err := fp.FromFloat64(f)
	if err != nil {
		return fp.Zero(), &device.FaultError{Code: device.FaultDomain, Op: operation.Name}
	}
	c, encErr := fp.Encode(ext)
	if encErr == nil {
		return c, nil
	}
	if re, ok := encErr.(*fp.RangeError); ok && !re.Overflow {
		return fp.Zero(), nil
	}
	return fp.Zero(), &device.FaultError{Code: device.FaultOverflow, Op: operation.Name}
}

func compute(operation op.Op, x, y float64) (float64, error) {
	fault := func(code byte) error {
		return &device.FaultError{Code: code, Op: operation.Name}
	}
	switch operation.Opcode {
	case op.OpcodeAdd:
		return y + x, nil
	case op.OpcodeSub:
		return y - x, nil
	case op.OpcodeMul:
		return y * x, nil
	case op.OpcodeDiv:
		if x == 0 {
			return 0, fault(device.FaultDivZero)
		}
		return y / x, nil
	case op.OpcodeSqrt:
		if x < 0 {
			return 0, fault(device.FaultDomain)
		}
		return math.Sqrt(x), nil
	case op.OpcodeSqr:
		return x * x, nil
	case op.OpcodeNeg:
		return -x, nil
	case op.OpcodeSin:
		return math.Sin(x), nil
	case op.OpcodeCos:
		return math.Cos(x), nil
	case op.OpcodeTan:
		return math.Tan(x), nil
	case op.OpcodeAtan:
		return math.Atan(x), nil
	case op.OpcodeLn:
		if x <= 0 {
			return 0, fault(device.FaultDomain)
		}
		return math.Log(x), nil
	case op.OpcodeExp:
		return math.Exp(x), nil
	default:
		return 0, fault(device.FaultDomain)
	}
}
