package fp

import (
	"errors"
	"fmt"
)

// ErrNotFinite is returned when a host float that is NaN or infinite is
// handed to the conversion layer. Neither has a compact representation.
var ErrNotFinite = errors.New("value is not finite")

// RangeError reports that a value's exponent falls outside the compact
// form's representable range.
type RangeError struct {
	// Exp is the unbiased exponent that did not fit.
	Exp int32

	// Overflow is true when the magnitude was too large, false when it
	// was too small (underflow).
	Overflow bool
}

func (e *RangeError) Error() string {
	if e.Overflow {
		return fmt.Sprintf("compact exponent overflow (exp=%d, max=127)", e.Exp)
	}
	return fmt.Sprintf("compact exponent underflow (exp=%d, min=-127)", e.Exp)
}

// IsRange reports whether err is a codec range error.
// Uses errors.As to handle wrapped errors.
func IsRange(err error) bool {
	var re *RangeError
	return errors.As(err, &re)
}

// ParseError reports malformed numeric input text.
type ParseError struct {
	// Input is the offending text.
	Input string

	// Reason is a human-readable description.
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %s", e.Input, e.Reason)
}

// IsParse reports whether err is a numeric parse error.
func IsParse(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
