package fp

import "math"

// ExtendedFloat is the engine-internal extended-precision representation.
//
// A nonzero value is (-1)^Sign * (Mant / 2^64) * 2^Exp with the leading
// mantissa bit (bit 63) set, so the fraction lies in [0.5, 1). Zero is
// Mant == 0 with Exp and Sign zero. The exponent range is a strict
// superset of the compact form's -127..127.
type ExtendedFloat struct {
	Sign uint8 // 0 positive, 1 negative
	Exp  int32 // unbiased exponent
	Mant uint64
}

// IsZero reports whether e is zero.
func (e ExtendedFloat) IsZero() bool { return e.Mant == 0 }

// FromFloat64 converts a host float to the extended form.
// NaN and infinities are not representable and return ErrNotFinite.
func FromFloat64(f float64) (ExtendedFloat, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ExtendedFloat{}, ErrNotFinite
	}
	if f == 0 {
		return ExtendedFloat{}, nil
	}

	bits := math.Float64bits(f)
	sign := uint8(bits >> 63)
	exp := int32((bits >> 52) & 0x7FF)
	mant := bits & 0x000FFFFFFFFFFFFF

	if exp == 0 {
		// Subnormal: normalize by hand.
		e := int32(-1021)
		for mant&(1<<52) == 0 {
			mant <<= 1
			e--
		}
		mant &^= 1 << 52
		exp = 0
		return ExtendedFloat{Sign: sign, Exp: e, Mant: (1 << 63) | (mant << 11)}, nil
	}

	// Normal: 1.m * 2^(exp-1023) == (1.m / 2) * 2^(exp-1022).
	return ExtendedFloat{
		Sign: sign,
		Exp:  exp - 1022,
		Mant: (1 << 63) | (mant << 11),
	}, nil
}

// ToFloat64 converts back to a host float. Values from FromFloat64 round
// trip exactly; extended values with more than 53 significant bits round
// to nearest.
func ToFloat64(e ExtendedFloat) float64 {
	if e.IsZero() {
		return 0
	}
	f := math.Ldexp(float64(e.Mant), int(e.Exp)-64)
	if e.Sign != 0 {
		f = -f
	}
	return f
}
