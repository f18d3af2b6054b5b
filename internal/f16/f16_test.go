// Copyright 2024 The trx Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package f16

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToFloat32(t *testing.T) {
	for _, tc := range []struct {
		name string
		in   Bits
		want float32
	}{
		{"zero", 0x0000, 0},
		{"one", 0x3c00, 1},
		{"minus one", 0xbc00, -1},
		{"two", 0x4000, 2},
		{"max", 0x7bff, 65504},
		{"smallest normal", 0x0400, float32(math.Ldexp(1, -14))},
		{"smallest subnormal", 0x0001, float32(math.Ldexp(1, -24))},
		{"inf", 0x7c00, float32(math.Inf(1))},
		{"-inf", 0xfc00, float32(math.Inf(-1))},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ToFloat32(tc.in))
		})
	}

	negZero := ToFloat32(0x8000)
	require.Equal(t, uint32(0x80000000), math.Float32bits(negZero))
	require.True(t, math.IsNaN(float64(ToFloat32(0x7e00))))
}

func TestFromFloat32(t *testing.T) {
	require.Equal(t, Bits(0x0000), FromFloat32(0))
	require.Equal(t, Bits(0x8000), FromFloat32(float32(math.Copysign(0, -1))))
	require.Equal(t, Bits(0x3c00), FromFloat32(1))
	require.Equal(t, Bits(0x7bff), FromFloat32(65504))
	require.Equal(t, Bits(0x7c00), FromFloat32(1e6))
	require.Equal(t, Bits(0xfc00), FromFloat32(float32(math.Inf(-1))))
	require.True(t, FromFloat32(float32(math.NaN())).IsNaN())
	require.Equal(t, Bits(0), FromFloat32(1e-10))
}

func TestTiesToEven(t *testing.T) {
	step := float32(math.Ldexp(1, -10))
	// halfway between 1.0 and the next value: 1.0 has an even mantissa
	require.Equal(t, Bits(0x3c00), FromFloat32(1+step/2))
	// halfway between an odd and an even mantissa rounds up
	require.Equal(t, Bits(0x3c02), FromFloat32(1+step+step/2))
}

func TestRoundTripAllBits(t *testing.T) {
	// every non-NaN binary16 value survives a trip through float32
	for i := 0; i <= 0xffff; i++ {
		h := Bits(i)
		if h.IsNaN() {
			continue
		}
		require.Equal(t, h, FromFloat32(ToFloat32(h)), "bits %04x", i)
	}
}

func TestEncodeDecode(t *testing.T) {
	src := []float32{0, 1, 2, 3, 4.5, -0.25}
	h := make([]Bits, len(src))
	Encode(h, src)
	got := make([]float32, len(src))
	Decode(got, h)
	require.Equal(t, src, got)
}
