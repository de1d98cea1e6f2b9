package fp

import "encoding/binary"

// Decode converts a compact value to the extended form.
//
// Callers must take the zero fast path first: branch on c.IsZero() and use
// ExtendedFloat{} directly instead of calling Decode. The generic path
// below assumes a normalized mantissa, which zero does not have. Decode
// still answers the zero input with extended zero so a missed branch
// cannot corrupt state, but the contract is check-before-call.
func Decode(c CompactFloat) ExtendedFloat {
	if c.IsZero() {
		return ExtendedFloat{}
	}
	mant := uint64(binary.BigEndian.Uint32(c[OffMant:OffMant+4]))<<32 |
		uint64(c[OffExt])<<24
	return ExtendedFloat{
		Sign: c[OffSign] >> 7,
		Exp:  int32(c[OffExp]) - expBias,
		Mant: mant,
	}
}

// Encode converts an extended value to the compact form.
//
// Exact zero is emitted as the canonical zero without entering the generic
// conversion path. Values whose exponent falls outside the compact range
// fail with *RangeError. When the mantissa carries more than 40 significant
// bits the low bits are truncated and FlagInexact is set.
func Encode(e ExtendedFloat) (CompactFloat, error) {
	if e.IsZero() {
		return Zero(), nil
	}

	mant := e.Mant
	exp := e.Exp
	for mant&(1<<63) == 0 {
		mant <<= 1
		exp--
	}

	stored := exp + expBias
	if stored > 255 {
		return Zero(), &RangeError{Exp: exp, Overflow: true}
	}
	if stored < 1 {
		return Zero(), &RangeError{Exp: exp, Overflow: false}
	}

	var c CompactFloat
	c[OffExp] = byte(stored)
	binary.BigEndian.PutUint32(c[OffMant:OffMant+4], uint32(mant>>32))
	c[OffExt] = byte(mant >> 24)
	if e.Sign != 0 {
		c[OffSign] = SignBit
	}
	if mant&0xFFFFFF != 0 {
		c[OffSign] |= FlagInexact
	}
	return c, nil
}

// EncodeFloat64 is the FromFloat64+Encode composition used by the
// dispatcher's push paths. Underflowing values are not flushed here; the
// caller decides (the backends flush to zero, the push paths report).
func EncodeFloat64(f float64) (CompactFloat, error) {
	e, err := FromFloat64(f)
	if err != nil {
		return Zero(), err
	}
	return Encode(e)
}
