// Copyright 2024 The trx Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package memmap

import (
	"encoding/binary"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bpowers/trx/dtype"
	"github.com/bpowers/trx/internal/f16"
)

func newTestArray(t *testing.T, name string, rows, cols int, typ dtype.Type) *Array {
	t.Helper()
	a, err := CreateOrOpen(filepath.Join(t.TempDir(), name), rows, cols, typ)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = a.Close()
	})
	return a
}

func testViewRoundTrip[T Number](t *testing.T, typ dtype.Type, values []T) {
	t.Helper()
	a := newTestArray(t, "v."+typ.Ext(), len(values), 1, typ)
	view, err := ViewOf[T](a)
	require.NoError(t, err)
	require.NoError(t, view.CopyFrom(0, values))
	got, err := view.Slice()
	require.NoError(t, err)
	require.Equal(t, values, got)
}

func TestView_AllTypes(t *testing.T) {
	testViewRoundTrip(t, dtype.Int8, []int8{-128, -1, 0, 127})
	testViewRoundTrip(t, dtype.Int16, []int16{math.MinInt16, -2, 7, math.MaxInt16})
	testViewRoundTrip(t, dtype.Int32, []int32{math.MinInt32, 0, math.MaxInt32})
	testViewRoundTrip(t, dtype.Int64, []int64{math.MinInt64, -5, math.MaxInt64})
	testViewRoundTrip(t, dtype.Uint8, []uint8{0, 1, 255})
	testViewRoundTrip(t, dtype.Uint16, []uint16{0, 65535})
	testViewRoundTrip(t, dtype.Uint32, []uint32{0, 1 << 31, math.MaxUint32})
	testViewRoundTrip(t, dtype.Uint64, []uint64{0, math.MaxUint64})
	testViewRoundTrip(t, dtype.Float32, []float32{-1.25, 0, 3.5e10})
	testViewRoundTrip(t, dtype.Float64, []float64{math.Pi, -math.MaxFloat64, 0})
}

func TestView_LittleEndianRowMajor(t *testing.T) {
	a := newTestArray(t, "m.2.uint16", 2, 2, dtype.Uint16)
	view, err := ViewOf[uint16](a)
	require.NoError(t, err)
	require.NoError(t, view.Set(0, 1, 0x0102))
	require.NoError(t, view.Set(1, 0, 0x0304))

	b := a.Bytes()
	require.Equal(t, uint16(0x0102), binary.LittleEndian.Uint16(b[2:4]))
	require.Equal(t, uint16(0x0304), binary.LittleEndian.Uint16(b[4:6]))
	require.Equal(t, byte(0x02), b[2])
}

func TestView_Bounds(t *testing.T) {
	a := newTestArray(t, "b.3.int32", 2, 3, dtype.Int32)
	view, err := ViewOf[int32](a)
	require.NoError(t, err)
	require.Equal(t, 6, view.Len())

	require.ErrorIs(t, view.Put(6, 1), ErrOutOfRange)
	require.ErrorIs(t, view.Put(-1, 1), ErrOutOfRange)
	_, err = view.Get(6)
	require.ErrorIs(t, err, ErrOutOfRange)
	_, err = view.At(0, 3)
	require.ErrorIs(t, err, ErrOutOfRange)
	require.ErrorIs(t, view.Set(2, 0, 1), ErrOutOfRange)
	_, err = view.Row(2)
	require.ErrorIs(t, err, ErrOutOfRange)
	require.ErrorIs(t, view.CopyFrom(4, []int32{1, 2, 3}), ErrOutOfRange)

	require.NoError(t, view.Fill(-7))
	row, err := view.Row(1)
	require.NoError(t, err)
	require.Equal(t, []int32{-7, -7, -7}, row)
}

func TestView_TypeMismatch(t *testing.T) {
	a := newTestArray(t, "t.int16", 4, 1, dtype.Int16)
	_, err := ViewOf[uint16](a)
	require.ErrorIs(t, err, ErrTypeMismatch)
	_, err = HalfViewOf(a)
	require.ErrorIs(t, err, ErrTypeMismatch)
	_, err = BoolViewOf(a)
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestHalfView(t *testing.T) {
	a := newTestArray(t, "h.float16", 4, 1, dtype.Float16)
	hv, err := HalfViewOf(a)
	require.NoError(t, err)

	require.NoError(t, hv.Put(0, 1))
	require.NoError(t, hv.Put(1, -2.5))
	require.NoError(t, hv.SetBits(2, 0x7bff))
	// rounds to the nearest representable value
	require.NoError(t, hv.Put(3, 0.1))

	bits, err := hv.Bits(0)
	require.NoError(t, err)
	require.Equal(t, f16.Bits(0x3c00), bits)
	require.Equal(t, []byte{0x00, 0x3c}, a.Bytes()[0:2])

	all, err := hv.Slice()
	require.NoError(t, err)
	require.Equal(t, float32(1), all[0])
	require.Equal(t, float32(-2.5), all[1])
	require.Equal(t, float32(65504), all[2])
	require.Equal(t, f16.ToFloat32(f16.FromFloat32(0.1)), all[3])
	require.InDelta(t, 0.1, all[3], 1e-4)

	_, err = hv.Get(4)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestBoolView(t *testing.T) {
	a := newTestArray(t, "mask.bit", 10, 1, dtype.Bit)
	bv, err := BoolViewOf(a)
	require.NoError(t, err)
	require.NoError(t, bv.Put(2, true))
	require.NoError(t, bv.Set(7, 0, true))
	require.NoError(t, bv.Put(7, false))
	require.NoError(t, bv.Put(9, true))

	ok, err := bv.At(2, 0)
	require.NoError(t, err)
	require.True(t, ok)

	bs, err := bv.Bitset()
	require.NoError(t, err)
	require.Equal(t, 10, bs.Len())
	require.Equal(t, 2, bs.Count())
	require.True(t, bs.IsSet(9))
	require.False(t, bs.IsSet(7))
}
