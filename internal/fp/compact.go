package fp

import "fmt"

// Byte offsets within the compact form.
const (
	OffExp  = 0 // exponent, excess-128; 0 means zero
	OffMant = 1 // 4 mantissa bytes, big-endian
	OffSign = 5 // sign (bit 7) + flags
	OffExt  = 6 // precision extension byte
)

// CompactSize is the wire size of a compact float in bytes.
const CompactSize = 7

// Bits within the sign/flags byte.
const (
	SignBit     = 0x80 // set = negative
	FlagInexact = 0x01 // set by Encode when mantissa bits were discarded
)

// expBias converts between the stored exponent byte and the unbiased
// exponent. Stored 1..255 maps to unbiased -127..127.
const expBias = 128

// CompactFloat is the coprocessor-native 7-byte float encoding. The zero
// value is the canonical representation of numeric zero.
type CompactFloat [CompactSize]byte

// Zero returns the canonical zero encoding: all seven bytes zero.
func Zero() CompactFloat { return CompactFloat{} }

// IsZero reports whether c encodes zero. Only the exponent byte is
// consulted; it is the sole zero discriminant of the format.
func (c CompactFloat) IsZero() bool { return c[OffExp] == 0 }

// Negative reports whether the sign bit is set.
func (c CompactFloat) Negative() bool { return c[OffSign]&SignBit != 0 }

// Flags returns the flag bits of byte 5 (sign bit masked off).
func (c CompactFloat) Flags() byte { return c[OffSign] &^ SignBit }

// Negated returns c with the sign flipped. Zero is returned unchanged so
// the canonical-zero invariant holds.
func (c CompactFloat) Negated() CompactFloat {
	if c.IsZero() {
		return c
	}
	c[OffSign] ^= SignBit
	return c
}

// String renders the raw bytes plus a decimal approximation, for logs and
// test failure messages. Never used on a wire path.
func (c CompactFloat) String() string {
	if c.IsZero() {
		return "0 [00 00000000 00 00]"
	}
	return fmt.Sprintf("%g [%02x %02x%02x%02x%02x %02x %02x]",
		ToFloat64(Decode(c)),
		c[OffExp], c[OffMant], c[OffMant+1], c[OffMant+2], c[OffMant+3],
		c[OffSign], c[OffExt])
}
