package fp

import (
	"fmt"
	"strconv"
	"strings"
)

// Mode selects the decimal rendering style for PullToString.
type Mode int

const (
	// ModeFixed renders with a fixed number of fraction digits (%f).
	ModeFixed Mode = iota

	// ModeScientific renders in exponent notation (%e).
	ModeScientific

	// ModeShortest renders the shortest text that parses back to the
	// same value (%g with automatic precision).
	ModeShortest
)

var modeNames = map[Mode]string{
	ModeFixed:      "fixed",
	ModeScientific: "scientific",
	ModeShortest:   "shortest",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts a mode name ("fixed", "scientific", "shortest") to a
// Mode. Unknown names fail with *ParseError.
func ParseMode(s string) (Mode, error) {
	for m, name := range modeNames {
		if s == name {
			return m, nil
		}
	}
	return ModeFixed, &ParseError{Input: s, Reason: "unknown format mode"}
}

// ParseDecimal parses decimal numeric text for the dispatcher's push path.
// Accepts the usual fixed and scientific forms. Failures are *ParseError;
// the caller commits nothing before this returns.
func ParseDecimal(s string) (float64, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0, &ParseError{Input: s, Reason: "empty input"}
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, &ParseError{Input: s, Reason: "invalid number syntax"}
	}
	return f, nil
}

// FormatDecimal renders f per mode and precision, left-padded with spaces
// to width. A precision below zero means "shortest" regardless of mode.
func FormatDecimal(f float64, precision, width int, mode Mode) string {
	var s string
	switch {
	case precision < 0 || mode == ModeShortest:
		s = strconv.FormatFloat(f, 'g', -1, 64)
	case mode == ModeScientific:
		s = strconv.FormatFloat(f, 'e', precision, 64)
	default:
		s = strconv.FormatFloat(f, 'f', precision, 64)
	}
	if width > len(s) {
		s = strings.Repeat(" ", width-len(s)) + s
	}
	return s
}
