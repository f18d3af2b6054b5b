// Copyright 2024 The trx Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package memmap

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/bpowers/trx/dtype"
	"github.com/bpowers/trx/internal/bitset"
	"github.com/bpowers/trx/internal/f16"
)

// Number is the set of Go types a View can decode.  Half-precision and
// boolean arrays have their own views.
type Number interface {
	int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64
}

func decode[T Number](b []byte) T {
	var v T
	switch p := any(&v).(type) {
	case *int8:
		*p = int8(b[0])
	case *uint8:
		*p = b[0]
	case *int16:
		*p = int16(binary.LittleEndian.Uint16(b))
	case *uint16:
		*p = binary.LittleEndian.Uint16(b)
	case *int32:
		*p = int32(binary.LittleEndian.Uint32(b))
	case *uint32:
		*p = binary.LittleEndian.Uint32(b)
	case *int64:
		*p = int64(binary.LittleEndian.Uint64(b))
	case *uint64:
		*p = binary.LittleEndian.Uint64(b)
	case *float32:
		*p = math.Float32frombits(binary.LittleEndian.Uint32(b))
	case *float64:
		*p = math.Float64frombits(binary.LittleEndian.Uint64(b))
	}
	return v
}

func encode[T Number](b []byte, v T) {
	switch x := any(v).(type) {
	case int8:
		b[0] = byte(x)
	case uint8:
		b[0] = x
	case int16:
		binary.LittleEndian.PutUint16(b, uint16(x))
	case uint16:
		binary.LittleEndian.PutUint16(b, x)
	case int32:
		binary.LittleEndian.PutUint32(b, uint32(x))
	case uint32:
		binary.LittleEndian.PutUint32(b, x)
	case int64:
		binary.LittleEndian.PutUint64(b, uint64(x))
	case uint64:
		binary.LittleEndian.PutUint64(b, x)
	case float32:
		binary.LittleEndian.PutUint32(b, math.Float32bits(x))
	case float64:
		binary.LittleEndian.PutUint64(b, math.Float64bits(x))
	}
}

// elems is the bounds checking shared by all views.
type elems struct {
	a     *Array
	width int
}

func (e elems) index(r, c int) (int, error) {
	if r < 0 || r >= e.a.rows || c < 0 || c >= e.a.cols {
		return 0, fmt.Errorf("(%d, %d) in %d×%d array: %w", r, c, e.a.rows, e.a.cols, ErrOutOfRange)
	}
	return r*e.a.cols + c, nil
}

// slot returns the bytes of element i.
func (e elems) slot(i int) ([]byte, error) {
	b := e.a.Bytes()
	if b == nil {
		return nil, ErrClosed
	}
	n := e.a.Len()
	if i < 0 || i >= n {
		return nil, fmt.Errorf("offset (%d) out of range (len %d): %w", i, n, ErrOutOfRange)
	}
	off := i * e.width
	return b[off : off+e.width : off+e.width], nil
}

func (e elems) Len() int {
	return e.a.Len()
}

func checkType(a *Array, want dtype.Type) error {
	if a.typ != want {
		return fmt.Errorf("%s array viewed as %s: %w", a.typ, want, ErrTypeMismatch)
	}
	return nil
}

// View reads and writes the elements of an array as T.
type View[T Number] struct {
	elems
}

// ViewOf returns a view of a.  T must be the Go type of a's dtype, e.g.
// uint32 for ".uint32" arrays.
func ViewOf[T Number](a *Array) (*View[T], error) {
	t, _ := dtype.Of[T]()
	if err := checkType(a, t); err != nil {
		return nil, err
	}
	return &View[T]{elems{a: a, width: t.Size()}}, nil
}

// Get returns the i-th element in row-major order.
func (v *View[T]) Get(i int) (T, error) {
	b, err := v.slot(i)
	if err != nil {
		var zero T
		return zero, err
	}
	return decode[T](b), nil
}

// Put sets the i-th element in row-major order.
func (v *View[T]) Put(i int, x T) error {
	b, err := v.slot(i)
	if err != nil {
		return err
	}
	encode(b, x)
	return nil
}

func (v *View[T]) At(r, c int) (T, error) {
	i, err := v.index(r, c)
	if err != nil {
		var zero T
		return zero, err
	}
	return v.Get(i)
}

func (v *View[T]) Set(r, c int, x T) error {
	i, err := v.index(r, c)
	if err != nil {
		return err
	}
	return v.Put(i, x)
}

// Row returns a copy of row r.
func (v *View[T]) Row(r int) ([]T, error) {
	if r < 0 || r >= v.a.rows {
		return nil, fmt.Errorf("row %d of %d: %w", r, v.a.rows, ErrOutOfRange)
	}
	out := make([]T, v.a.cols)
	for c := range out {
		x, err := v.Get(r*v.a.cols + c)
		if err != nil {
			return nil, err
		}
		out[c] = x
	}
	return out, nil
}

// Slice returns a copy of every element in row-major order.
func (v *View[T]) Slice() ([]T, error) {
	b := v.a.Bytes()
	if b == nil {
		return nil, ErrClosed
	}
	out := make([]T, v.Len())
	for i := range out {
		off := i * v.width
		out[i] = decode[T](b[off : off+v.width])
	}
	return out, nil
}

// CopyFrom writes src starting at element off.
func (v *View[T]) CopyFrom(off int, src []T) error {
	if off < 0 || off+len(src) > v.Len() {
		return fmt.Errorf("copy of %d at %d into len %d: %w", len(src), off, v.Len(), ErrOutOfRange)
	}
	for i, x := range src {
		if err := v.Put(off+i, x); err != nil {
			return err
		}
	}
	return nil
}

// Fill sets every element to x.
func (v *View[T]) Fill(x T) error {
	for i := 0; i < v.Len(); i++ {
		if err := v.Put(i, x); err != nil {
			return err
		}
	}
	return nil
}

// HalfView reads and writes a float16 array in float32, converting at the
// element boundary.
type HalfView struct {
	elems
}

func HalfViewOf(a *Array) (*HalfView, error) {
	if err := checkType(a, dtype.Float16); err != nil {
		return nil, err
	}
	return &HalfView{elems{a: a, width: 2}}, nil
}

// Bits returns the raw binary16 pattern of element i.
func (v *HalfView) Bits(i int) (f16.Bits, error) {
	b, err := v.slot(i)
	if err != nil {
		return 0, err
	}
	return f16.Bits(binary.LittleEndian.Uint16(b)), nil
}

func (v *HalfView) SetBits(i int, h f16.Bits) error {
	b, err := v.slot(i)
	if err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(b, uint16(h))
	return nil
}

func (v *HalfView) Get(i int) (float32, error) {
	h, err := v.Bits(i)
	if err != nil {
		return 0, err
	}
	return f16.ToFloat32(h), nil
}

// Put stores x rounded to the nearest binary16 value.
func (v *HalfView) Put(i int, x float32) error {
	return v.SetBits(i, f16.FromFloat32(x))
}

func (v *HalfView) At(r, c int) (float32, error) {
	i, err := v.index(r, c)
	if err != nil {
		return 0, err
	}
	return v.Get(i)
}

func (v *HalfView) Set(r, c int, x float32) error {
	i, err := v.index(r, c)
	if err != nil {
		return err
	}
	return v.Put(i, x)
}

// Slice returns every element widened to float32, in row-major order.
func (v *HalfView) Slice() ([]float32, error) {
	b := v.a.Bytes()
	if b == nil {
		return nil, ErrClosed
	}
	out := make([]float32, v.Len())
	for i := range out {
		out[i] = f16.ToFloat32(f16.Bits(binary.LittleEndian.Uint16(b[2*i:])))
	}
	return out, nil
}

// BoolView reads and writes a .bit array, one byte per element.
type BoolView struct {
	elems
}

func BoolViewOf(a *Array) (*BoolView, error) {
	if err := checkType(a, dtype.Bit); err != nil {
		return nil, err
	}
	return &BoolView{elems{a: a, width: 1}}, nil
}

func (v *BoolView) Get(i int) (bool, error) {
	b, err := v.slot(i)
	if err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

func (v *BoolView) Put(i int, x bool) error {
	b, err := v.slot(i)
	if err != nil {
		return err
	}
	if x {
		b[0] = 1
	} else {
		b[0] = 0
	}
	return nil
}

func (v *BoolView) At(r, c int) (bool, error) {
	i, err := v.index(r, c)
	if err != nil {
		return false, err
	}
	return v.Get(i)
}

func (v *BoolView) Set(r, c int, x bool) error {
	i, err := v.index(r, c)
	if err != nil {
		return err
	}
	return v.Put(i, x)
}

// Bitset returns a packed copy of the mask.
func (v *BoolView) Bitset() (*bitset.Bitset, error) {
	b := v.a.Bytes()
	if b == nil {
		return nil, ErrClosed
	}
	return bitset.FromBytes(b), nil
}
