// Copyright 2024 The trx Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package filename encodes and decodes the names of TRX array files.
//
// A name carries the element type and column count of the array it holds:
//
//	<base>[.<cols>].<dtype>
//
// The column segment is omitted for single-column arrays, so "lengths.uint32"
// is a vector and "positions.3.float32" is an N×3 matrix.
package filename

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bpowers/trx/dtype"
)

var (
	ErrInvalidFilename      = errors.New("invalid filename")
	ErrUnsupportedExtension = errors.New("unsupported file extension")
	ErrInvalidDims          = errors.New("column count must be positive")
)

// Name is the decomposed identity of an array file.
type Name struct {
	Base string
	Cols int
	// Ext is the dtype extension including the leading dot.
	Ext string
}

// Type resolves the element type named by n.Ext.
func (n Name) Type() (dtype.Type, error) {
	d, err := dtype.Lookup(n.Ext)
	if err != nil {
		return dtype.Invalid, fmt.Errorf("%q: %w", n.Ext, ErrUnsupportedExtension)
	}
	return d.Type, nil
}

// String re-encodes n.  Aliased extensions are kept as written.
func (n Name) String() string {
	if n.Cols > 1 {
		return n.Base + "." + strconv.Itoa(n.Cols) + n.Ext
	}
	return n.Base + n.Ext
}

// Encode returns the filename for an array of type t with cols columns.
// Any extension already on the last element of path is replaced; directory
// components are kept.
func Encode(path string, t dtype.Type, cols int) (string, error) {
	if cols < 1 {
		return "", fmt.Errorf("Encode(%q, %s, %d): %w", path, t, cols, ErrInvalidDims)
	}
	ext := t.Ext()
	if ext == "" {
		return "", fmt.Errorf("Encode(%q, %s): %w", path, t, ErrUnsupportedExtension)
	}

	dir, file := filepath.Split(path)
	base := stripExt(file)
	n := Name{Base: base, Cols: cols, Ext: "." + ext}
	return dir + n.String(), nil
}

// stripExt removes a whole encoded suffix when file is already a valid array
// name, and otherwise just its last extension.
func stripExt(file string) string {
	if n, err := Decode(file); err == nil {
		return n.Base
	}
	return strings.TrimSuffix(file, filepath.Ext(file))
}

// Decode splits the final element of name into base, column count and
// dtype extension.
func Decode(name string) (Name, error) {
	file := filepath.Base(name)
	parts := strings.Split(file, ".")
	switch {
	case len(parts) < 2 || parts[0] == "":
		return Name{}, fmt.Errorf("%q: %w", name, ErrInvalidFilename)
	case len(parts) > 3:
		return Name{}, fmt.Errorf("%q: more than one dimension segment: %w", name, ErrInvalidFilename)
	}

	ext := "." + parts[len(parts)-1]
	if !dtype.IsValid(ext) {
		return Name{}, fmt.Errorf("%q: %w", name, ErrUnsupportedExtension)
	}

	cols := 1
	if len(parts) == 3 {
		n, err := strconv.Atoi(parts[1])
		if err != nil || n < 1 || !isDigits(parts[1]) {
			return Name{}, fmt.Errorf("%q: bad dimension %q: %w", name, parts[1], ErrInvalidFilename)
		}
		cols = n
	}

	return Name{Base: parts[0], Cols: cols, Ext: ext}, nil
}

// Atoi accepts a leading sign; dimension segments are plain digits.
func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
