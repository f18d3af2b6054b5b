// Copyright 2024 The trx Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package trx

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/dgryski/go-farm"

	"github.com/bpowers/trx/dtype"
	"github.com/bpowers/trx/filename"
	"github.com/bpowers/trx/memmap"
)

// StoreOption configures a Store.
type StoreOption func(*storeOptions)

type storeOptions struct {
	logger *slog.Logger
	access memmap.AccessPattern
}

// WithLogger sets an optional logger for the store and the arrays it maps.
// If not provided, no logging output will be produced.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(opts *storeOptions) {
		opts.logger = logger
	}
}

// WithAccessPattern sets the kernel access hint for every array the store maps.
func WithAccessPattern(p memmap.AccessPattern) StoreOption {
	return func(opts *storeOptions) {
		opts.access = p
	}
}

// Store is a directory of named array files.  Each logical name maps to at
// most one file, whose name also records the array's dtype and column count.
// This directory is what an archive adapter packs into a single .trx file.
type Store struct {
	dir    string
	logger *slog.Logger
	access memmap.AccessPattern
}

// Entry describes one array file in a Store.
type Entry struct {
	Name filename.Name
	Type dtype.Type
	Path string
	Rows int
	Size int64
}

// NewStore opens the store rooted at dir, creating the directory if needed.
func NewStore(dir string, opts ...StoreOption) (*Store, error) {
	var options storeOptions
	options.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, opt := range opts {
		opt(&options)
	}
	if options.logger == nil {
		options.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("filepath.Abs: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &IOError{Op: "mkdir", Path: dir, Err: err}
	}
	return &Store{
		dir:    dir,
		logger: options.logger,
		access: options.access,
	}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) mmapOptions() []memmap.Option {
	return []memmap.Option{
		memmap.WithLogger(s.logger),
		memmap.WithAccessPattern(s.access),
	}
}

// Create maps the array called name with the given dtype and shape, creating,
// growing or truncating its file as memmap.CreateOrOpen does.  A file holding
// the same name under a different dtype or column count is removed first.
func (s *Store) Create(name string, t dtype.Type, rows, cols int) (*memmap.Array, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	path, err := filename.Encode(filepath.Join(s.dir, name), t, cols)
	if err != nil {
		return nil, fmt.Errorf("filename.Encode: %w", err)
	}
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("Create(%s, %d, %d): %w", name, rows, cols, ErrInvalidShape)
	}

	existing, err := s.find(name)
	if err != nil {
		return nil, err
	}
	for _, e := range existing {
		if e.Path == path {
			continue
		}
		if err := os.Remove(e.Path); err != nil {
			return nil, &IOError{Op: "remove", Path: e.Path, Err: err}
		}
		s.logger.Debug("removed stale array file", slog.String("path", e.Path), slog.String("replacement", path))
	}

	a, err := memmap.CreateOrOpen(path, rows, cols, t, s.mmapOptions()...)
	if err != nil {
		return nil, fmt.Errorf("memmap.CreateOrOpen: %w", err)
	}
	return a, nil
}

// Open maps the existing array called name.
func (s *Store) Open(name string) (*memmap.Array, error) {
	e, err := s.Lookup(name)
	if err != nil {
		return nil, err
	}
	a, err := memmap.Open(e.Path, e.Type, e.Name.Cols, s.mmapOptions()...)
	if err != nil {
		return nil, fmt.Errorf("memmap.Open: %w", err)
	}
	return a, nil
}

// Lookup returns the entry for name without mapping it.
func (s *Store) Lookup(name string) (Entry, error) {
	if err := checkName(name); err != nil {
		return Entry{}, err
	}
	matches, err := s.find(name)
	if err != nil {
		return Entry{}, err
	}
	switch len(matches) {
	case 0:
		return Entry{}, fmt.Errorf("%q in %s: %w", name, s.dir, ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return Entry{}, fmt.Errorf("%q in %s: %w", name, s.dir, ErrAmbiguousName)
	}
}

// Remove deletes every file holding the array called name.
func (s *Store) Remove(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	matches, err := s.find(name)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		return fmt.Errorf("%q in %s: %w", name, s.dir, ErrNotFound)
	}
	for _, e := range matches {
		if err := os.Remove(e.Path); err != nil {
			return &IOError{Op: "remove", Path: e.Path, Err: err}
		}
	}
	return nil
}

// List returns every array in the store, sorted by name.  Files whose names
// don't decode as array files are skipped.
func (s *Store) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, &IOError{Op: "readdir", Path: s.dir, Err: err}
	}

	var entries []Entry
	names := make(stringSet)
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		e, err := s.entry(de)
		if err != nil {
			s.logger.Debug("skipping file", slog.String("name", de.Name()), slog.Any("error", err))
			continue
		}
		if names.Contains(e.Name.Base) {
			s.logger.Warn("array name stored in more than one file", slog.String("name", e.Name.Base))
		}
		names.Add(e.Name.Base)
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name.Base != entries[j].Name.Base {
			return entries[i].Name.Base < entries[j].Name.Base
		}
		return entries[i].Path < entries[j].Path
	})
	return entries, nil
}

// Fingerprint hashes the contents of the array e describes.  An empty file
// hashes as no bytes.
func (s *Store) Fingerprint(e Entry) (uint64, error) {
	if e.Size == 0 {
		return farm.Hash64(nil), nil
	}
	a, err := memmap.Open(e.Path, e.Type, e.Name.Cols, s.mmapOptions()...)
	if err != nil {
		return 0, fmt.Errorf("memmap.Open: %w", err)
	}
	defer func() {
		_ = a.Close()
	}()
	return a.Fingerprint()
}

// Digest hashes every array in the store together with its name, dtype and
// shape, so two stores holding the same arrays have the same digest.
func (s *Store) Digest() (uint64, error) {
	entries, err := s.List()
	if err != nil {
		return 0, err
	}
	var digest uint64
	for _, e := range entries {
		sum, err := s.Fingerprint(e)
		if err != nil {
			return 0, err
		}
		key := fmt.Sprintf("%s.%d.%s.%d.%016x", e.Name.Base, e.Name.Cols, e.Type.Ext(), e.Rows, sum)
		digest = farm.Hash64WithSeed([]byte(key), digest)
	}
	return digest, nil
}

func (s *Store) entry(de os.DirEntry) (Entry, error) {
	n, err := filename.Decode(de.Name())
	if err != nil {
		return Entry{}, err
	}
	t, err := n.Type()
	if err != nil {
		return Entry{}, err
	}
	info, err := de.Info()
	if err != nil {
		return Entry{}, &IOError{Op: "stat", Path: de.Name(), Err: err}
	}
	rowBytes, err := memmap.RowBytes(n.Cols, t)
	if err != nil {
		return Entry{}, err
	}
	if info.Size()%rowBytes != 0 {
		return Entry{}, fmt.Errorf("length %d isn't a multiple of %d-byte rows: %w", info.Size(), rowBytes, ErrInvalidShape)
	}
	return Entry{
		Name: n,
		Type: t,
		Path: filepath.Join(s.dir, de.Name()),
		Rows: int(info.Size() / rowBytes),
		Size: info.Size(),
	}, nil
}

func (s *Store) find(name string) ([]Entry, error) {
	all, err := s.List()
	if err != nil {
		return nil, err
	}
	var matches []Entry
	for _, e := range all {
		if e.Name.Base == name {
			matches = append(matches, e)
		}
	}
	return matches, nil
}
