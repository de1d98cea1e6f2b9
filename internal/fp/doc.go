// Package fp implements the number formats shared by every layer of the
// engine: the 7-byte compact form the coprocessor speaks on the wire, and
// the extended-precision in-memory form used for conversion and software
// fallback math.
//
// # Compact form (7 bytes)
//
//	offset 0    exponent, excess-128; byte value 0 means the number is zero
//	offset 1-4  mantissa, big-endian, normalized (bit 7 of byte 1 set)
//	offset 5    sign (bit 7) + flag bits
//	offset 6    precision extension (8 mantissa bits below byte 4)
//
// The exponent byte is the sole zero discriminant: a value is zero if and
// only if byte 0 is zero, and the canonical zero is all seven bytes zero.
// No other byte combination represents zero.
//
// # Zero fast path
//
// Feeding a canonical zero through the generic conversion math corrupts the
// normalization loop's assumptions (it expects a set leading mantissa bit).
// Callers must branch on IsZero before calling Decode; Encode performs the
// check itself and emits the canonical zero without touching the generic
// path. This mirrors the contract the hardware imposes.
package fp
