package fp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"10", 10, false},
		{"-3.5", -3.5, false},
		{"  6.0  ", 6, false},
		{"+7", 7, false},
		{"1e3", 1000, false},
		{"2.5e-2", 0.025, false},
		{"", 0, true},
		{"   ", 0, true},
		{"abc", 0, true},
		{"1.2.3", 0, true},
		{"0x10", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDecimal(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsParse(err), "want ParseError, got %T", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDecimal_RejectsInfAndNaN(t *testing.T) {
	// strconv accepts these spellings but the engine has no encoding for
	// them; they must fail at parse time, before any stack mutation.
	for _, in := range []string{"Inf", "-Inf", "NaN"} {
		f, err := ParseDecimal(in)
		if err == nil {
			// Parsed as a number: conversion catches it later.
			_, err = EncodeFloat64(f)
		}
		assert.Error(t, err, "input %q", in)
	}
}

func TestFormatDecimal(t *testing.T) {
	tests := []struct {
		name      string
		f         float64
		precision int
		width     int
		mode      Mode
		want      string
	}{
		{"fixed", 7, 2, 0, ModeFixed, "7.00"},
		{"fixed_negative", -4, 1, 0, ModeFixed, "-4.0"},
		{"fixed_padded", 7, 2, 8, ModeFixed, "    7.00"},
		{"scientific", 1500, 3, 0, ModeScientific, "1.500e+03"},
		{"shortest", 0.5, 4, 0, ModeShortest, "0.5"},
		{"shortest_precision_ignored", 10, -1, 0, ModeFixed, "10"},
		{"width_shorter_than_text", 123, 0, 2, ModeFixed, "123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDecimal(tt.f, tt.precision, tt.width, tt.mode))
		})
	}
}

func TestParseMode(t *testing.T) {
	for name, want := range map[string]Mode{
		"fixed":      ModeFixed,
		"scientific": ModeScientific,
		"shortest":   ModeShortest,
	} {
		got, err := ParseMode(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseMode("hex")
	assert.True(t, IsParse(err))
}
