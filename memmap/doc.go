// Copyright 2024 The trx Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package memmap stores typed arrays as individually memory-mapped files.
//
// A file holds exactly rows*cols elements of a single dtype with no header,
// footer or checksum.  Elements are little-endian and laid out row-major:
//
//	┌─────────────────────────────┐
//	│ row 0: col 0, col 1, ...    │
//	├─────────────────────────────┤
//	│ row 1: col 0, col 1, ...    │
//	├─────────────────────────────┤
//	│ ...                         │
//	└─────────────────────────────┘
//
// The file is the source of truth.  An *Array is a shared read-write mapping
// over it; closing the Array unmaps the memory but leaves the file in place,
// and two Arrays mapping the same path see the same bytes.
//
// Typed access goes through View, HalfView and BoolView, which bounds-check
// every index and decode elements from the mapped bytes rather than casting
// pointers.
package memmap
