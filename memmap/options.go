// Copyright 2024 The trx Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package memmap

import (
	"io"
	"log/slog"
	"os"
)

// Option configures CreateOrOpen and Open.
type Option func(*options)

type options struct {
	logger *slog.Logger
	access AccessPattern
	mode   os.FileMode
}

func newOptions(opts []Option) options {
	o := options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		access: AccessDefault,
		mode:   0644,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets a logger for create/resize/reuse events.  If not provided,
// no logging output is produced.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithAccessPattern advises the kernel how a new mapping will be read.
func WithAccessPattern(p AccessPattern) Option {
	return func(o *options) {
		o.access = p
	}
}

// WithFileMode sets the permissions of files created by CreateOrOpen.
func WithFileMode(mode os.FileMode) Option {
	return func(o *options) {
		o.mode = mode
	}
}
