// Copyright 2024 The trx Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package f16 converts between IEEE 754 binary16 bit patterns and float32.
//
// Half-precision values are only ever stored; arithmetic happens in float32.
// Every binary16 value is exactly representable as a float32, so decoding is
// lossless and encoding loses only what binary16 itself can't hold.
package f16

import "math"

// Bits is a raw binary16 value: 1 sign bit, 5 exponent bits (bias 15) and
// 10 fraction bits.
type Bits uint16

const (
	signMask Bits = 0x8000
	expMask  Bits = 0x7c00
	fracMask Bits = 0x03ff

	f32ExpMask  = 0x7f800000
	f32FracMask = 0x007fffff
)

// IsNaN reports whether h is a NaN.
func (h Bits) IsNaN() bool {
	return h&expMask == expMask && h&fracMask != 0
}

// Float32 is shorthand for ToFloat32(h).
func (h Bits) Float32() float32 {
	return ToFloat32(h)
}

// ToFloat32 widens a binary16 value.
func ToFloat32(h Bits) float32 {
	sign := uint32(h&signMask) << 16
	exp := uint32(h&expMask) >> 10
	frac := uint32(h & fracMask)

	switch exp {
	case 0:
		if frac == 0 {
			return math.Float32frombits(sign)
		}
		// subnormal: shift until the implicit bit appears
		e := int32(-14)
		for frac&0x0400 == 0 {
			frac <<= 1
			e--
		}
		frac &= uint32(fracMask)
		return math.Float32frombits(sign | uint32(e+127)<<23 | frac<<13)
	case 0x1f:
		return math.Float32frombits(sign | f32ExpMask | frac<<13)
	default:
		return math.Float32frombits(sign | (exp-15+127)<<23 | frac<<13)
	}
}

// FromFloat32 narrows f to binary16, rounding to nearest with ties to even.
// Values too large become infinities; NaNs stay NaNs.
func FromFloat32(f float32) Bits {
	b := math.Float32bits(f)
	sign := Bits(b>>16) & signMask
	exp := int32(b&f32ExpMask) >> 23
	frac := b & f32FracMask

	if exp == 0xff {
		if frac == 0 {
			return sign | expMask
		}
		payload := Bits(frac>>13) | 0x0200
		return sign | expMask | payload&fracMask
	}
	if exp == 0 {
		// float32 subnormals are far below the binary16 range
		return sign
	}

	e := exp - 127 + 15
	if e >= 0x1f {
		return sign | expMask
	}
	if e <= 0 {
		if e < -10 {
			return sign
		}
		mant := frac | 0x00800000
		shift := uint32(14 - e)
		m := mant >> shift
		rem := mant & (1<<shift - 1)
		half := uint32(1) << (shift - 1)
		if rem > half || (rem == half && m&1 == 1) {
			m++
		}
		// a carry out of the subnormal range lands on the smallest normal,
		// which is exactly the bit pattern m now holds
		return sign | Bits(m)
	}

	m := frac >> 13
	rem := frac & 0x1fff
	if rem > 0x1000 || (rem == 0x1000 && m&1 == 1) {
		m++
		if m == 0x0400 {
			m = 0
			e++
			if e >= 0x1f {
				return sign | expMask
			}
		}
	}
	return sign | Bits(uint32(e)<<10) | Bits(m)
}

// Decode widens src into dst, which must be at least as long as src.
func Decode(dst []float32, src []Bits) {
	_ = dst[:len(src)]
	for i, h := range src {
		dst[i] = ToFloat32(h)
	}
}

// Encode narrows src into dst, which must be at least as long as src.
func Encode(dst []Bits, src []float32) {
	_ = dst[:len(src)]
	for i, f := range src {
		dst[i] = FromFloat32(f)
	}
}
