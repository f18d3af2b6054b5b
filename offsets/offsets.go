// Copyright 2024 The trx Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package offsets turns the offsets array of a set of variable-length
// sequences into per-sequence lengths.
//
// offsets[i] is the index, in a companion flat buffer, of the first element of
// sequence i.  The length of the last sequence isn't stored; it comes from the
// total number of elements in the flat buffer.
package offsets

import "math"

// Integer is the set of element types an offsets array may use.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// IdentitySentinelSearch returns the rightmost index i found by bisection
// where a[i] == i, or -1.  Over-allocated index arrays are filled with their
// own positions before real data is written, so the result marks where the
// written content ends.
func IdentitySentinelSearch[T Integer](a []T) int {
	return IdentitySentinelSearchRange(a, 0, len(a)-1)
}

// IdentitySentinelSearchRange is IdentitySentinelSearch restricted to
// a[lo:hi+1].  A range that is empty or falls outside a yields -1.
//
// At each step the midpoint is probed: a match is recorded and the search
// continues above it, a miss continues below it.  The array doesn't need to
// be monotonic in the predicate; the result is whatever that bisection path
// finds.
func IdentitySentinelSearchRange[T Integer](a []T, lo, hi int) int {
	if lo < 0 || hi >= len(a) {
		return -1
	}
	found := -1
	for lo <= hi {
		mid := lo + (hi-lo)/2
		if isIdentity(a[mid], mid) {
			found = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return found
}

func isIdentity[T Integer](v T, i int) bool {
	// compare in uint64 so negative values never alias a position
	if v < 0 {
		return false
	}
	return uint64(v) == uint64(i)
}

// ComputeLengths returns the length of every sequence described by offs,
// given total elements in the flat buffer.  The result always has
// max(len(offs), 1) entries; an empty offs yields [0].
//
// For non-decreasing offs, lengths[i] = offs[i+1]-offs[i] and the last length
// is total-offs[N-1], or total when offs[N-1] is past the end.
//
// Non-decreasing offsets are the contract.  Other input never panics and
// never produces a negative (wrapped) length: it is first cut at the end of
// its identity-initialized prefix, as found by IdentitySentinelSearch, and
// every length from that cut onwards is zero except where the remaining
// offsets still step forward.
//
// A length that doesn't fit in a uint32 saturates at math.MaxUint32.
func ComputeLengths[T Integer](offs []T, total uint64) []uint32 {
	n := len(offs)
	if n == 0 {
		return []uint32{0}
	}

	if !isNonDecreasing(offs) {
		if last := IdentitySentinelSearch(offs); last < n-1 {
			return cutLengths(offs, last, total)
		}
	}

	lengths := make([]uint32, n)
	for i := 0; i < n-1; i++ {
		lengths[i] = diff(offs[i], offs[i+1])
	}
	lengths[n-1] = tail(offs[n-1], total)
	return lengths
}

// cutLengths treats slot last+1 as the end of the data: it is replaced by
// total, contributes no length of its own, and nothing after the final offset
// counts.
func cutLengths[T Integer](offs []T, last int, total uint64) []uint32 {
	n := len(offs)
	bounds := make([]uint64, n)
	for i, v := range offs {
		bounds[i] = toUint64(v)
	}
	bounds[last+1] = total

	lengths := make([]uint32, n)
	for i := 0; i < n-1; i++ {
		if bounds[i+1] > bounds[i] {
			lengths[i] = saturate(bounds[i+1] - bounds[i])
		}
	}
	lengths[last+1] = 0
	lengths[n-1] = 0
	return lengths
}

func isNonDecreasing[T Integer](offs []T) bool {
	for i := 1; i < len(offs); i++ {
		if offs[i] < offs[i-1] {
			return false
		}
	}
	return true
}

func toUint64[T Integer](v T) uint64 {
	if v < 0 {
		return 0
	}
	return uint64(v)
}

func diff[T Integer](from, to T) uint32 {
	a, b := toUint64(from), toUint64(to)
	if b <= a {
		return 0
	}
	return saturate(b - a)
}

func tail[T Integer](last T, total uint64) uint32 {
	v := toUint64(last)
	if v > total {
		return saturate(total)
	}
	return saturate(total - v)
}

func saturate(n uint64) uint32 {
	if n > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(n)
}
