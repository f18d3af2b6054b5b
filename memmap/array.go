// Copyright 2024 The trx Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package memmap

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"sync/atomic"

	"github.com/dgryski/go-farm"
	"golang.org/x/sys/unix"

	"github.com/bpowers/trx/dtype"
)

// AccessPattern is a hint to the kernel about how a mapping will be read.
type AccessPattern int

const (
	AccessDefault AccessPattern = iota
	AccessSequential
	AccessRandom
	AccessWillNeed
)

// Array is a shared mapping of a file holding a rows×cols matrix of one dtype.
type Array struct {
	path   string
	typ    dtype.Type
	rows   int
	cols   int
	data   []byte
	closed atomic.Bool
}

// byteLen returns rows*cols*width, or an error if that overflows.
func byteLen(rows, cols int, t dtype.Type) (int64, error) {
	if rows <= 0 || cols <= 0 {
		return 0, fmt.Errorf("shape (%d, %d): %w", rows, cols, ErrInvalidShape)
	}
	width := t.Size()
	if width == 0 {
		return 0, fmt.Errorf("%s: %w", t, dtype.ErrNotFound)
	}
	if int64(rows) > math.MaxInt/int64(cols)/int64(width) {
		return 0, fmt.Errorf("shape (%d, %d) of %s too large: %w", rows, cols, t, ErrInvalidShape)
	}
	return int64(rows) * int64(cols) * int64(width), nil
}

// RowBytes returns the length in bytes of one row of cols elements of t.
func RowBytes(cols int, t dtype.Type) (int64, error) {
	return byteLen(1, cols, t)
}

// CreateOrOpen maps the file at path as a rows×cols array of t, creating or
// resizing it as needed:
//
//   - a missing file is created with exactly the required length, all zero
//   - a file of a different length is extended or truncated to the required
//     length; the bytes that survive are unchanged and any new bytes are zero
//   - a file of the required length is mapped as-is and no byte is modified
//
// Calling CreateOrOpen repeatedly with the same shape is idempotent.
func CreateOrOpen(path string, rows, cols int, t dtype.Type, opts ...Option) (*Array, error) {
	o := newOptions(opts)

	size, err := byteLen(rows, cols, t)
	if err != nil {
		return nil, fmt.Errorf("CreateOrOpen(%s): %w", path, err)
	}

	f, created, err := openOrCreate(path, o.mode)
	if err != nil {
		return nil, ioErr("open", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	a, err := resizeAndMap(f, path, rows, cols, t, size, o)
	if err != nil && created {
		_ = os.Remove(path)
	}
	return a, err
}

// openOrCreate opens path read-write, reporting whether this call created it.
func openOrCreate(path string, mode os.FileMode) (*os.File, bool, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, mode)
	if err == nil {
		return f, true, nil
	}
	if !os.IsExist(err) {
		return nil, false, err
	}
	f, err = os.OpenFile(path, os.O_RDWR, 0)
	return f, false, err
}

func resizeAndMap(f *os.File, path string, rows, cols int, t dtype.Type, size int64, o options) (*Array, error) {
	stats, err := f.Stat()
	if err != nil {
		return nil, ioErr("stat", path, err)
	}

	logger := o.logger.With(
		slog.String("path", path),
		slog.String("dtype", t.String()),
		slog.Int("rows", rows),
		slog.Int("cols", cols),
	)

	switch prev := stats.Size(); {
	case prev == size:
		logger.Debug("reusing mapped array", slog.Int64("bytes", size))
	default:
		// ftruncate fills any extension with zero bytes, which for every
		// dtype (including float16) reads back as zero.
		if err := f.Truncate(size); err != nil {
			return nil, ioErr("truncate", path, err)
		}
		if err := allocate(f, prev, size-prev); err != nil {
			return nil, ioErr("fallocate", path, err)
		}
		if prev == 0 {
			logger.Debug("created mapped array", slog.Int64("bytes", size))
		} else {
			logger.Debug("resized mapped array", slog.Int64("from", prev), slog.Int64("bytes", size))
		}
	}

	return mapFile(f, path, rows, cols, t, size, o)
}

// Open maps an existing file as an array of t with cols columns, deriving the
// row count from the file's length.  Unlike CreateOrOpen it never creates or
// resizes anything.
func Open(path string, t dtype.Type, cols int, opts ...Option) (*Array, error) {
	o := newOptions(opts)

	rowBytes, err := byteLen(1, cols, t)
	if err != nil {
		return nil, fmt.Errorf("Open(%s): %w", path, err)
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, ioErr("open", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	stats, err := f.Stat()
	if err != nil {
		return nil, ioErr("stat", path, err)
	}
	size := stats.Size()
	if size == 0 || size%rowBytes != 0 {
		return nil, fmt.Errorf("Open(%s): length %d isn't a positive multiple of %d-byte rows: %w", path, size, rowBytes, ErrInvalidShape)
	}

	return mapFile(f, path, int(size/rowBytes), cols, t, size, o)
}

func mapFile(f *os.File, path string, rows, cols int, t dtype.Type, size int64, o options) (*Array, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, ioErr("mmap", path, err)
	}
	a := &Array{
		path: path,
		typ:  t,
		rows: rows,
		cols: cols,
		data: data,
	}
	if err := a.Advise(o.access); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *Array) Path() string {
	return a.path
}

func (a *Array) Type() dtype.Type {
	return a.typ
}

func (a *Array) Rows() int {
	return a.rows
}

func (a *Array) Cols() int {
	return a.cols
}

// Len returns the number of elements, rows*cols.
func (a *Array) Len() int {
	return a.rows * a.cols
}

// Bytes returns the mapped file contents, or nil once the array is closed.
// The slice must not be used after Close.
func (a *Array) Bytes() []byte {
	if a.closed.Load() {
		return nil
	}
	return a.data
}

// Flush synchronously writes modified pages back to the file.
func (a *Array) Flush() error {
	if a.closed.Load() {
		return ErrClosed
	}
	if err := unix.Msync(a.data, unix.MS_SYNC); err != nil {
		return ioErr("msync", a.path, err)
	}
	return nil
}

// Advise passes an access pattern hint for the whole mapping to the kernel.
func (a *Array) Advise(p AccessPattern) error {
	if a.closed.Load() {
		return ErrClosed
	}
	var advice int
	switch p {
	case AccessSequential:
		advice = unix.MADV_SEQUENTIAL
	case AccessRandom:
		advice = unix.MADV_RANDOM
	case AccessWillNeed:
		advice = unix.MADV_WILLNEED
	default:
		advice = unix.MADV_NORMAL
	}
	if err := unix.Madvise(a.data, advice); err != nil {
		return ioErr("madvise", a.path, err)
	}
	return nil
}

// Fingerprint hashes the mapped bytes.  Two arrays over the same file return
// the same fingerprint once their writes have reached the page cache.
func (a *Array) Fingerprint() (uint64, error) {
	if a.closed.Load() {
		return 0, ErrClosed
	}
	return farm.Hash64(a.data), nil
}

// Close unmaps the array.  It is safe to call more than once; the file
// itself is left in place.
func (a *Array) Close() error {
	if a.closed.Swap(true) {
		return nil
	}
	data := a.data
	a.data = nil
	if err := unix.Munmap(data); err != nil {
		return ioErr("munmap", a.path, err)
	}
	return nil
}

func (a *Array) String() string {
	return fmt.Sprintf("%s (%d×%d %s)", a.path, a.rows, a.cols, a.typ)
}
