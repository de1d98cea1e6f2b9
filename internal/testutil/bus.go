// Package testutil provides deterministic test doubles: a scripted
// register bus with canned status sequences, and fixed trace tokens via
// the trace package's FixedTokens.
package testutil

// ScriptedBus is a register bus whose status reads follow a canned
// script. It records every write so tests can assert the exact register
// traffic (operand interleave, opcode) an operation produced.
type ScriptedBus struct {
	// Statuses is returned by successive ReadStatus calls; the last
	// entry repeats once the script is exhausted. Empty means "always
	// ready, no fault".
	Statuses []byte
	statusAt int

	// Results is returned by successive ReadParam calls, zero once
	// exhausted.
	Results []byte
	resultAt int

	Commands []byte
	Params   []byte
}

// BusyBus returns a bus whose status register never clears the busy bit.
// Every operation against it times out.
func BusyBus() *ScriptedBus {
	return &ScriptedBus{Statuses: []byte{0x80}}
}

func (b *ScriptedBus) WriteCommand(opcode byte) { b.Commands = append(b.Commands, opcode) }
func (b *ScriptedBus) WriteParam(v byte)        { b.Params = append(b.Params, v) }

func (b *ScriptedBus) ReadParam() byte {
	if b.resultAt >= len(b.Results) {
		return 0
	}
	v := b.Results[b.resultAt]
	b.resultAt++
	return v
}

func (b *ScriptedBus) ReadStatus() byte {
	if len(b.Statuses) == 0 {
		return 0
	}
	v := b.Statuses[b.statusAt]
	if b.statusAt < len(b.Statuses)-1 {
		b.statusAt++
	}
	return v
}
