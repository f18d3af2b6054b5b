// Copyright 2024 The trx Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package trx

import (
	"errors"
	"fmt"
	"slices"

	"github.com/bpowers/trx/dtype"
	"github.com/bpowers/trx/memmap"
	"github.com/bpowers/trx/offsets"
)

const (
	OffsetsName   = "offsets"
	PositionsName = "positions"
)

// Sequences is a set of variable-length point sequences (e.g. streamlines)
// stored as two arrays: "offsets", the index of each sequence's first point,
// and "positions", every point of every sequence as rows of 3 float32s.
type Sequences struct {
	offsets   *memmap.Array
	positions *memmap.Array
	offView   *memmap.View[uint64]
	posView   *memmap.View[float32]

	// lengths caches ComputeLengths over the whole offsets array; SetSequence
	// invalidates it.
	lengths []uint32
}

// CreateSequences allocates (or reuses, if already the right size) room for
// nbSequences sequences holding nbPositions points in total.
func CreateSequences(s *Store, nbSequences, nbPositions int) (*Sequences, error) {
	offs, err := s.Create(OffsetsName, dtype.Uint64, nbSequences, 1)
	if err != nil {
		return nil, err
	}
	pos, err := s.Create(PositionsName, dtype.Float32, nbPositions, 3)
	if err != nil {
		_ = offs.Close()
		return nil, err
	}
	return newSequences(offs, pos)
}

// OpenSequences maps the sequences already in s.
func OpenSequences(s *Store) (*Sequences, error) {
	offs, err := s.Open(OffsetsName)
	if err != nil {
		return nil, err
	}
	pos, err := s.Open(PositionsName)
	if err != nil {
		_ = offs.Close()
		return nil, err
	}
	if pos.Cols() != 3 {
		_ = offs.Close()
		_ = pos.Close()
		return nil, fmt.Errorf("positions have %d columns, want 3: %w", pos.Cols(), ErrInvalidShape)
	}
	return newSequences(offs, pos)
}

func newSequences(offs, pos *memmap.Array) (*Sequences, error) {
	offView, err := memmap.ViewOf[uint64](offs)
	if err != nil {
		_ = offs.Close()
		_ = pos.Close()
		return nil, fmt.Errorf("offsets: %w", err)
	}
	posView, err := memmap.ViewOf[float32](pos)
	if err != nil {
		_ = offs.Close()
		_ = pos.Close()
		return nil, fmt.Errorf("positions: %w", err)
	}
	return &Sequences{
		offsets:   offs,
		positions: pos,
		offView:   offView,
		posView:   posView,
	}, nil
}

// Len returns the number of sequences.
func (q *Sequences) Len() int {
	return q.offsets.Rows()
}

// NbPositions returns the number of points across all sequences.
func (q *Sequences) NbPositions() int {
	return q.positions.Rows()
}

// Lengths returns the number of points in each sequence.
func (q *Sequences) Lengths() ([]uint32, error) {
	lengths, err := q.cachedLengths()
	if err != nil {
		return nil, err
	}
	return slices.Clone(lengths), nil
}

func (q *Sequences) cachedLengths() ([]uint32, error) {
	if q.lengths != nil {
		return q.lengths, nil
	}
	offs, err := q.offView.Slice()
	if err != nil {
		return nil, err
	}
	q.lengths = offsets.ComputeLengths(offs, uint64(q.NbPositions()))
	return q.lengths, nil
}

// bounds returns the [start, end) point range of sequence i, with the length
// Lengths reports for it.
func (q *Sequences) bounds(i int) (start, end uint64, err error) {
	if i < 0 || i >= q.Len() {
		return 0, 0, fmt.Errorf("sequence %d of %d: %w", i, q.Len(), memmap.ErrOutOfRange)
	}
	lengths, err := q.cachedLengths()
	if err != nil {
		return 0, 0, err
	}
	if start, err = q.offView.Get(i); err != nil {
		return 0, 0, err
	}
	end = start + uint64(lengths[i])
	if end > uint64(q.NbPositions()) {
		return 0, 0, fmt.Errorf("sequence %d ends at point %d of %d: %w", i, end, q.NbPositions(), memmap.ErrOutOfRange)
	}
	return start, end, nil
}

// Sequence returns a copy of the points of sequence i.
func (q *Sequences) Sequence(i int) ([][3]float32, error) {
	start, end, err := q.bounds(i)
	if err != nil {
		return nil, err
	}
	points := make([][3]float32, 0, end-start)
	for r := start; r < end; r++ {
		row, err := q.posView.Row(int(r))
		if err != nil {
			return nil, err
		}
		points = append(points, [3]float32{row[0], row[1], row[2]})
	}
	return points, nil
}

// SetSequence records that sequence i starts at point start and writes its
// points there.
func (q *Sequences) SetSequence(i int, start uint64, points [][3]float32) error {
	if i < 0 || i >= q.Len() {
		return fmt.Errorf("sequence %d of %d: %w", i, q.Len(), memmap.ErrOutOfRange)
	}
	if start+uint64(len(points)) > uint64(q.NbPositions()) {
		return fmt.Errorf("%d points at %d overflow %d positions: %w", len(points), start, q.NbPositions(), memmap.ErrOutOfRange)
	}
	q.lengths = nil
	if err := q.offView.Put(i, start); err != nil {
		return err
	}
	for j, p := range points {
		if err := q.posView.CopyFrom(int(start+uint64(j))*3, p[:]); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes both arrays back to their files.
func (q *Sequences) Flush() error {
	return errors.Join(q.offsets.Flush(), q.positions.Flush())
}

// Close unmaps both arrays.
func (q *Sequences) Close() error {
	return errors.Join(q.offsets.Close(), q.positions.Close())
}
