// Copyright 2021 The trx Authors and Caleb Spare. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package bitset

import "math/bits"

// Bitset is a packed in-memory boolean mask, 64 entries per word.  .bit
// arrays take a byte per element on disk; a Bitset is their compact form.
type Bitset struct {
	bits   []uint64
	length int
}

func getOffsets(off int) (sliceOff int, bitOff uint64) {
	sliceOff = off / 64
	bitOff = uint64(off) % 64
	return
}

// Set sets the bit at position `off` to 1.
func (b *Bitset) Set(off int) {
	if off < 0 || off >= b.length {
		return
	}
	sliceOff, bitOff := getOffsets(off)
	b.bits[sliceOff] |= 1 << bitOff
}

// Clear sets the bit at position `off` to 0.
func (b *Bitset) Clear(off int) {
	if off < 0 || off >= b.length {
		return
	}
	sliceOff, bitOff := getOffsets(off)
	b.bits[sliceOff] &= ^(1 << bitOff)
}

// IsSet returns true if the bit at position `off` is 1.
func (b *Bitset) IsSet(off int) bool {
	if off < 0 || off >= b.length {
		return false
	}
	sliceOff, bitOff := getOffsets(off)
	return b.bits[sliceOff]&(1<<bitOff) != 0
}

func (b *Bitset) Len() int {
	return b.length
}

// Count returns the number of set bits.
func (b *Bitset) Count() int {
	n := 0
	for _, w := range b.bits {
		n += bits.OnesCount64(w)
	}
	return n
}

// New returns a bitset of `length` cleared bits.
func New(length int) *Bitset {
	if length < 0 {
		length = 0
	}
	return &Bitset{
		bits:   make([]uint64, (length+63)/64),
		length: length,
	}
}

// FromBytes packs a byte-per-element mask: any non-zero byte is a set bit.
func FromBytes(mask []byte) *Bitset {
	b := New(len(mask))
	for i, v := range mask {
		if v != 0 {
			b.Set(i)
		}
	}
	return b
}
