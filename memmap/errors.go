// Copyright 2024 The trx Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package memmap

import "errors"

var (
	ErrInvalidShape = errors.New("rows and cols must be positive")
	ErrTypeMismatch = errors.New("element type doesn't match array dtype")
	ErrOutOfRange   = errors.New("index out of range")
	ErrClosed       = errors.New("array is closed")
	// ErrIO matches every *IOError with errors.Is.
	ErrIO = errors.New("i/o error")
)

// IOError reports a failure of the underlying storage: permissions, space,
// or a missing file for open-only operations.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *IOError) Unwrap() error {
	return e.Err
}

func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

func ioErr(op, path string, err error) error {
	return &IOError{Op: op, Path: path, Err: err}
}
