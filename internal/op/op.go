// Package op defines the operation vocabulary shared by the dispatcher
// and both backends: a descriptor per operation carrying its arity and the
// device opcode. The descriptor selects the register interleave order and
// the stack effect; neither backend hardcodes either.
package op

import "fmt"

// Arity is the operand count of an operation.
type Arity int

const (
	// Unary operations consume one operand and produce one result.
	Unary Arity = 1

	// Binary operations consume two operands and produce one result.
	Binary Arity = 2
)

// Device opcodes, written to the command register. The table is fixed;
// both the transport and the simulated device key off it.
const (
	OpcodeNop  byte = 0x00
	OpcodeAdd  byte = 0x01
	OpcodeSub  byte = 0x02
	OpcodeMul  byte = 0x03
	OpcodeDiv  byte = 0x04
	OpcodeSqrt byte = 0x05
	OpcodeSqr  byte = 0x06
	OpcodeNeg  byte = 0x07
	OpcodeSin  byte = 0x08
	OpcodeCos  byte = 0x09
	OpcodeTan  byte = 0x0A
	OpcodeAtan byte = 0x0B
	OpcodeLn   byte = 0x0C
	OpcodeExp  byte = 0x0D
)

// Op describes one operation. Ops are compared by Opcode.
type Op struct {
	Name   string
	Arity  Arity
	Opcode byte
}

func (o Op) String() string { return o.Name }

// The operation table. Pow and Compare are dispatcher compositions and
// have no descriptor here.
var (
	Add  = Op{Name: "add", Arity: Binary, Opcode: OpcodeAdd}
	Sub  = Op{Name: "sub", Arity: Binary, Opcode: OpcodeSub}
	Mul  = Op{Name: "mul", Arity: Binary, Opcode: OpcodeMul}
	Div  = Op{Name: "div", Arity: Binary, Opcode: OpcodeDiv}
	Sqrt = Op{Name: "sqrt", Arity: Unary, Opcode: OpcodeSqrt}
	Sqr  = Op{Name: "square", Arity: Unary, Opcode: OpcodeSqr}
	Neg  = Op{Name: "neg", Arity: Unary, Opcode: OpcodeNeg}
	Sin  = Op{Name: "sin", Arity: Unary, Opcode: OpcodeSin}
	Cos  = Op{Name: "cos", Arity: Unary, Opcode: OpcodeCos}
	Tan  = Op{Name: "tan", Arity: Unary, Opcode: OpcodeTan}
	Atan = Op{Name: "atan", Arity: Unary, Opcode: OpcodeAtan}
	Ln   = Op{Name: "ln", Arity: Unary, Opcode: OpcodeLn}
	Exp  = Op{Name: "exp", Arity: Unary, Opcode: OpcodeExp}
)

// All lists every dispatchable primitive in opcode order.
var All = []Op{Add, Sub, Mul, Div, Sqrt, Sqr, Neg, Sin, Cos, Tan, Atan, Ln, Exp}

// Lookup resolves an operation by name. Used by the CLI and the scenario
// harness; the dispatcher itself uses the descriptors directly.
func Lookup(name string) (Op, error) {
	for _, o := range All {
		if o.Name == name {
			return o, nil
		}
	}
	return Op{}, fmt.Errorf("unknown operation %q", name)
}
