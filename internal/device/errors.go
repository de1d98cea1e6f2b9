package device

import (
	"errors"
	"fmt"
)

// Status register layout: bit 7 is the busy latch, bits 0-6 carry the
// fault code once busy clears.
const (
	StatusBusy byte = 0x80
	FaultMask  byte = 0x7F
)

// Fault codes reported in the status register's low bits. The software
// fallback backend reports the identical taxonomy so the dispatcher's
// error contract does not depend on the selected backend.
const (
	FaultNone     byte = 0x00
	FaultDivZero  byte = 0x01
	FaultDomain   byte = 0x02 // sqrt/ln of a negative, tan at a pole, ...
	FaultOverflow byte = 0x03
)

func faultName(code byte) string {
	switch code {
	case FaultDivZero:
		return "divide by zero"
	case FaultDomain:
		return "domain error"
	case FaultOverflow:
		return "overflow"
	default:
		return fmt.Sprintf("fault %#02x", code)
	}
}

// TimeoutError reports that the busy bit never cleared within the polling
// bound. It means "hardware unavailable for this call", nothing more.
type TimeoutError struct {
	// Iterations is the polling bound that was exhausted.
	Iterations int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("device busy after %d status polls", e.Iterations)
}

// FaultError reports a device fault code observed after busy cleared.
type FaultError struct {
	// Code is the raw fault code from the status register.
	Code byte

	// Op names the operation that faulted, when known.
	Op string
}

func (e *FaultError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("device fault: %s (op=%s)", faultName(e.Code), e.Op)
	}
	return fmt.Sprintf("device fault: %s", faultName(e.Code))
}

// IsTimeout reports whether err is a polling timeout.
// Uses errors.As to handle wrapped errors.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// IsFault reports whether err is a device fault.
func IsFault(err error) bool {
	var fe *FaultError
	return errors.As(err, &fe)
}

// FaultCode extracts the fault code from err, or FaultNone if err is not
// a fault.
func FaultCode(err error) byte {
	var fe *FaultError
	if errors.As(err, &fe) {
		return fe.Code
	}
	return FaultNone
}
