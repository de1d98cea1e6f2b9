package softfp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fpstack/internal/device"
	"github.com/roach88/fpstack/internal/fp"
	"github.com/roach88/fpstack/internal/op"
)

func compact(t *testing.T, f float64) fp.CompactFloat {
	t.Helper()
	c, err := fp.EncodeFloat64(f)
	require.NoError(t, err)
	return c
}

func apply(t *testing.T, operation op.Op, x, y float64) (fp.CompactFloat, error) {
	t.Helper()
	b := New(nil)
	xc := compact(t, x)
	if operation.Arity == op.Unary {
		return b.Apply(operation, xc, nil)
	}
	yc := compact(t, y)
	return b.Apply(operation, xc, &yc)
}

func TestApply_Arithmetic(t *testing.T) {
	tests := []struct {
		name string
		op   op.Op
		x, y float64
		want float64
	}{
		{"add", op.Add, 3, 10, 13},
		{"sub", op.Sub, 3, 10, 7},
		{"sub_negative", op.Sub, 7, 3, -4},
		{"mul", op.Mul, 4, 2.5, 10},
		{"div", op.Div, 4, 10, 2.5},
		{"sqrt", op.Sqrt, 16, 0, 4},
		{"square", op.Sqr, 12, 0, 144},
		{"neg", op.Neg, 5, 0, -5},
		{"exp_zero", op.Exp, 0, 0, 1},
		{"ln_one", op.Ln, 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := apply(t, tt.op, tt.x, tt.y)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, fp.ToFloat64(fp.Decode(res)), 1e-9)
		})
	}
}

func TestApply_ZeroOperandsUseFastPath(t *testing.T) {
	b := New(nil)

	// add(0, 0): both operands are canonical zero; the result must be
	// canonical zero and no conversion garbage may leak into it.
	z := fp.Zero()
	res, err := b.Apply(op.Add, z, &z)
	require.NoError(t, err)
	assert.Equal(t, fp.Zero(), res)

	// A zero operand beside a nonzero one.
	x := compact(t, 5)
	res, err = b.Apply(op.Add, x, &z)
	require.NoError(t, err)
	assert.Equal(t, 5.0, fp.ToFloat64(fp.Decode(res)))
}

func TestApply_ZeroConversionDoesNotPoisonLaterCalls(t *testing.T) {
	// Regression guard for the shared-scratch failure mode: converting
	// a zero then running unrelated operations must leave them exact.
	b := New(nil)
	z := fp.Zero()
	_, err := b.Apply(op.Neg, z, nil)
	require.NoError(t, err)

	x := compact(t, 3)
	y := compact(t, 10)
	res, err := b.Apply(op.Sub, x, &y)
	require.NoError(t, err)
	assert.Equal(t, 7.0, fp.ToFloat64(fp.Decode(res)))
}

func TestApply_SubEqualYieldsCanonicalZero(t *testing.T) {
	res, err := apply(t, op.Sub, 6, 6)
	require.NoError(t, err)
	assert.Equal(t, fp.Zero(), res)
}

func TestApply_Faults(t *testing.T) {
	tests := []struct {
		name string
		op   op.Op
		x, y float64
		code byte
	}{
		{"div_by_zero", op.Div, 0, 10, device.FaultDivZero},
		{"sqrt_negative", op.Sqrt, -4, 0, device.FaultDomain},
		{"ln_negative", op.Ln, -1, 0, device.FaultDomain},
		{"ln_zero", op.Ln, 0, 0, device.FaultDomain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := apply(t, tt.op, tt.x, tt.y)
			require.Error(t, err)
			assert.True(t, device.IsFault(err))
			assert.Equal(t, tt.code, device.FaultCode(err))
		})
	}
}

func TestApply_OverflowAndUnderflow(t *testing.T) {
	_, err := apply(t, op.Sqr, 1.2676506002282294e30, 0) // (2^100)^2
	require.Error(t, err)
	assert.Equal(t, device.FaultOverflow, device.FaultCode(err))

	res, err := apply(t, op.Sqr, 7.888609052210118e-31, 0) // (2^-100)^2
	require.NoError(t, err)
	assert.True(t, res.IsZero(), "underflow flushes to zero")
}

// TestAgreesWithSimDevice cross-checks the two independent
// implementations over the full operation table.
func TestAgreesWithSimDevice(t *testing.T) {
	soft := New(nil)
	hard := device.NewTransport(device.NewSimDevice(), 16, nil)

	cases := []struct{ x, y float64 }{
		{3, 10}, {7, 3}, {6, 6}, {0.5, -2}, {2, 0.25}, {1, 1},
	}
	for _, operation := range op.All {
		for _, c := range cases {
			xc := compact(t, c.x)
			var yp *fp.CompactFloat
			if operation.Arity == op.Binary {
				yc := compact(t, c.y)
				yp = &yc
			}
			sRes, sErr := soft.Apply(operation, xc, yp)
			hRes, hErr := hard.Apply(operation, xc, yp)

			if sErr != nil || hErr != nil {
				require.Error(t, sErr, "%s(%g,%g)", operation.Name, c.x, c.y)
				require.Error(t, hErr, "%s(%g,%g)", operation.Name, c.x, c.y)
				assert.Equal(t, device.FaultCode(hErr), device.FaultCode(sErr),
					"%s(%g,%g) fault codes", operation.Name, c.x, c.y)
				continue
			}
			assert.Equal(t, hRes, sRes, "%s(%g,%g)", operation.Name, c.x, c.y)
		}
	}
}
