package device

import (
	"errors"
	"math"

	"github.com/roach88/fpstack/internal/fp"
	"github.com/roach88/fpstack/internal/op"
)

// defaultBusyCycles is how many status polls report busy before a result
// is ready. Two matches the "clears within a few iterations" behavior of
// a fast device and still exercises the polling loop.
const defaultBusyCycles = 2

// SimDevice is a register-accurate software coprocessor behind the Bus
// interface. It buffers parameter writes, executes on the command write,
// holds the busy bit for a configurable number of polls, and latches a
// fault code in the status register exactly as the hardware does.
//
// Its math deliberately does not share code with the softfp backend:
// consistency tests between the two paths compare independent
// implementations.
type SimDevice struct {
	inBuf  []byte
	result fp.CompactFloat
	outPos int

	busyCycles int
	busyLeft   int
	fault      byte
	inject     byte
}

// NewSimDevice returns a simulator with the default busy latency.
func NewSimDevice() *SimDevice {
	return &SimDevice{busyCycles: defaultBusyCycles}
}

// SetBusyCycles overrides how many polls report busy per command. Zero
// means results are ready on the first poll.
func (d *SimDevice) SetBusyCycles(n int) { d.busyCycles = n }

// InjectFault latches a fault code to report after the next command's
// busy period, regardless of what the computation would have produced.
// One-shot; used by error-path tests.
func (d *SimDevice) InjectFault(code byte) { d.inject = code & FaultMask }

// WriteParam buffers one operand byte.
func (d *SimDevice) WriteParam(b byte) {
	// 14 bytes is a full binary operand pair; further writes belong to
	// a protocol violation and overwrite from the start, like a real
	// parameter register index wrapping.
	if len(d.inBuf) >= 2*fp.CompactSize {
		d.inBuf = d.inBuf[:0]
	}
	d.inBuf = append(d.inBuf, b)
}

// ReadParam returns the next result byte, wrapping at the end.
func (d *SimDevice) ReadParam() byte {
	b := d.result[d.outPos]
	d.outPos = (d.outPos + 1) % fp.CompactSize
	return b
}

// ReadStatus returns busy for the configured number of polls after a
// command, then the latched fault code.
func (d *SimDevice) ReadStatus() byte {
	if d.busyLeft > 0 {
		d.busyLeft--
		return StatusBusy
	}
	return d.fault & FaultMask
}

// WriteCommand executes the buffered operands under opcode. The operand
// streams are de-interleaved on the transport's rule: X bytes at even
// offsets, Y bytes at odd offsets. Missing bytes read as zero, which is
// exactly the corruption a caller with a wrong interleave earns.
func (d *SimDevice) WriteCommand(opcode byte) {
	defer func() {
		d.inBuf = d.inBuf[:0]
		d.outPos = 0
	}()

	d.fault = FaultNone
	d.result = fp.Zero()
	d.busyLeft = d.busyCycles

	if d.inject != FaultNone {
		d.fault = d.inject
		d.inject = FaultNone
		if opcode == op.OpcodeNop {
			d.busyLeft = 0
		}
		return
	}

	// NOP answers immediately: it is the presence probe.
	if opcode == op.OpcodeNop {
		d.busyLeft = 0
		return
	}

	operation, ok := byOpcode(opcode)
	if !ok {
		d.fault = FaultDomain
		return
	}

	var xb, yb fp.CompactFloat
	if operation.Arity == op.Binary {
		for i := 0; i < fp.CompactSize; i++ {
			if 2*i < len(d.inBuf) {
				xb[i] = d.inBuf[2*i]
			}
			if 2*i+1 < len(d.inBuf) {
				yb[i] = d.inBuf[2*i+1]
			}
		}
	} else {
		copy(xb[:], d.inBuf)
	}

	x := simToFloat(xb)
	y := simToFloat(yb)

	res, fault := simCompute(opcode, x, y)
	if fault != FaultNone {
		d.fault = fault
		return
	}
	d.result, d.fault = simFromFloat(res)
}

// simCompute is the device ALU. Binary results are Y op X.
func simCompute(opcode byte, x, y float64) (float64, byte) {
	switch opcode {
	case op.OpcodeAdd:
		return y + x, FaultNone
	case op.OpcodeSub:
		return y - x, FaultNone
	case op.OpcodeMul:
		return y * x, FaultNone
	case op.OpcodeDiv:
		if x == 0 {
			return 0, FaultDivZero
		}
		return y / x, FaultNone
	case op.OpcodeSqrt:
		if x < 0 {
			return 0, FaultDomain
		}
		return math.Sqrt(x), FaultNone
	case op.OpcodeSqr:
		return x * x, FaultNone
	case op.OpcodeNeg:
		return -x, FaultNone
	case op.OpcodeSin:
		return math.Sin(x), FaultNone
	case op.OpcodeCos:
		return math.Cos(x), FaultNone
	case op.OpcodeTan:
		return math.Tan(x), FaultNone
	case op.OpcodeAtan:
		return math.Atan(x), FaultNone
	case op.OpcodeLn:
		if x <= 0 {
			return 0, FaultDomain
		}
		return math.Log(x), FaultNone
	case op.OpcodeExp:
		return math.Exp(x), FaultNone
	default:
		return 0, FaultDomain
	}
}

func simToFloat(c fp.CompactFloat) float64 {
	if c.IsZero() {
		return 0
	}
	return fp.ToFloat64(fp.Decode(c))
}

func simFromFloat(f float64) (fp.CompactFloat, byte) {
	if math.IsNaN(f) {
		return fp.Zero(), FaultDomain
	}
	if math.IsInf(f, 0) {
		return fp.Zero(), FaultOverflow
	}
	c, err := fp.EncodeFloat64(f)
	if err == nil {
		return c, FaultNone
	}
	var re *fp.RangeError
	if errors.As(err, &re) && !re.Overflow {
		// Underflow flushes to zero, like the hardware.
		return fp.Zero(), FaultNone
	}
	return fp.Zero(), FaultOverflow
}

func byOpcode(opcode byte) (op.Op, bool) {
	for _, o := range op.All {
		if o.Opcode == opcode {
			return o, true
		}
	}
	return op.Op{}, false
}
