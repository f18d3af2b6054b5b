// Copyright 2024 The trx Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package trx

import (
	"errors"

	"github.com/bpowers/trx/filename"
	"github.com/bpowers/trx/memmap"
)

var (
	ErrInvalidFilename      = filename.ErrInvalidFilename
	ErrUnsupportedExtension = filename.ErrUnsupportedExtension
	ErrInvalidShape         = memmap.ErrInvalidShape
	ErrTypeMismatch         = memmap.ErrTypeMismatch
	// ErrIO matches every *IOError.
	ErrIO = memmap.ErrIO

	ErrNotFound      = errors.New("array not found")
	ErrAmbiguousName = errors.New("more than one array file has this name")
)

// IOError reports a failure of the underlying storage.
type IOError = memmap.IOError
