package device

// Bus is the register port triple the transport drives. The host platform
// maps these onto real addresses; the engine never sees an address.
//
// Implementations are not required to be safe for concurrent use. The
// engine is single-threaded by contract.
type Bus interface {
	// WriteCommand writes an opcode to the command register. The device
	// begins executing on this write.
	WriteCommand(opcode byte)

	// WriteParam writes one operand byte to the parameter register.
	WriteParam(b byte)

	// ReadParam reads one result byte from the parameter register.
	ReadParam() byte

	// ReadStatus reads the status register: bit 7 busy, bits 0-6 fault
	// code once not busy.
	ReadStatus() byte
}
