// Copyright 2024 The trx Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package dtype is the registry of element types a TRX array file may hold.
//
// Each type has a canonical filename extension ("int16", "float64", "bit", ...)
// and a fixed byte width.  The registry is built once when the package is
// initialized and is never modified afterwards.
package dtype

import (
	"errors"
	"fmt"

	"github.com/bpowers/trx/internal/f16"
)

// ErrNotFound is returned by Lookup for extensions that aren't in the registry.
var ErrNotFound = errors.New("dtype not found")

// Kind is the category of an element type.
type Kind uint8

const (
	Signed Kind = iota + 1
	Unsigned
	Float
	Bool
)

func (k Kind) String() string {
	switch k {
	case Signed:
		return "signed"
	case Unsigned:
		return "unsigned"
	case Float:
		return "float"
	case Bool:
		return "bool"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Type identifies a supported element type.
type Type uint8

const (
	Invalid Type = iota
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float16
	Float32
	Float64
	// Bit is a boolean mask.  On disk it takes one byte per element.
	Bit
)

// Descriptor describes one entry of the registry.
type Descriptor struct {
	Type Type
	// Ext is the filename extension including the leading dot, e.g. ".int16".
	Ext  string
	Size int
	Kind Kind
}

var descriptors = [...]Descriptor{
	Int8:    {Int8, ".int8", 1, Signed},
	Int16:   {Int16, ".int16", 2, Signed},
	Int32:   {Int32, ".int32", 4, Signed},
	Int64:   {Int64, ".int64", 8, Signed},
	Uint8:   {Uint8, ".uint8", 1, Unsigned},
	Uint16:  {Uint16, ".uint16", 2, Unsigned},
	Uint32:  {Uint32, ".uint32", 4, Unsigned},
	Uint64:  {Uint64, ".uint64", 8, Unsigned},
	Float16: {Float16, ".float16", 2, Float},
	Float32: {Float32, ".float32", 4, Float},
	Float64: {Float64, ".float64", 8, Float},
	Bit:     {Bit, ".bit", 1, Bool},
}

// aliases are accepted when parsing but never produced.
var aliases = map[string]Type{
	".ushort": Uint16,
	".half":   Float16,
}

var byExt = buildIndex()

func buildIndex() map[string]Descriptor {
	m := make(map[string]Descriptor, len(descriptors)+len(aliases))
	for _, d := range descriptors {
		if d.Type == Invalid {
			continue
		}
		if _, ok := m[d.Ext]; ok {
			panic("invariant broken: duplicate dtype extension " + d.Ext)
		}
		m[d.Ext] = d
	}
	for ext, t := range aliases {
		if _, ok := m[ext]; ok {
			panic("invariant broken: duplicate dtype extension " + ext)
		}
		d := descriptors[t]
		d.Ext = ext
		m[ext] = d
	}
	return m
}

// Lookup returns the descriptor registered for ext.  ext must include the
// leading dot and match exactly; lookups are case-sensitive.
func Lookup(ext string) (Descriptor, error) {
	d, ok := byExt[ext]
	if !ok {
		return Descriptor{}, fmt.Errorf("%q: %w", ext, ErrNotFound)
	}
	return d, nil
}

// IsValid reports whether ext names a registered element type.
func IsValid(ext string) bool {
	_, ok := byExt[ext]
	return ok
}

// All returns the canonical descriptors in a stable order.
func All() []Descriptor {
	out := make([]Descriptor, 0, len(descriptors)-1)
	for _, d := range descriptors {
		if d.Type != Invalid {
			out = append(out, d)
		}
	}
	return out
}

func (t Type) valid() bool {
	return t > Invalid && int(t) < len(descriptors)
}

// Descriptor returns the canonical registry entry for t.
func (t Type) Descriptor() (Descriptor, bool) {
	if !t.valid() {
		return Descriptor{}, false
	}
	return descriptors[t], true
}

// Ext returns the canonical extension without the leading dot, the form
// used when encoding filenames.
func (t Type) Ext() string {
	if !t.valid() {
		return ""
	}
	return descriptors[t].Ext[1:]
}

// Size returns the width of one element in bytes, or 0 for an invalid type.
func (t Type) Size() int {
	if !t.valid() {
		return 0
	}
	return descriptors[t].Size
}

func (t Type) Kind() Kind {
	if !t.valid() {
		return 0
	}
	return descriptors[t].Kind
}

func (t Type) String() string {
	if !t.valid() {
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
	return t.Ext()
}

// Of returns the element type stored for Go values of type T.
func Of[T any]() (Type, bool) {
	var zero T
	switch any(zero).(type) {
	case int8:
		return Int8, true
	case int16:
		return Int16, true
	case int32:
		return Int32, true
	case int64:
		return Int64, true
	case uint8:
		return Uint8, true
	case uint16:
		return Uint16, true
	case uint32:
		return Uint32, true
	case uint64:
		return Uint64, true
	case f16.Bits:
		return Float16, true
	case float32:
		return Float32, true
	case float64:
		return Float64, true
	case bool:
		return Bit, true
	}
	return Invalid, false
}
