// Copyright 2024 The trx Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package trx stores large sets of variable-length sequences, such as
// tractography streamlines, as a directory of memory-mapped array files.
//
// Every array lives in its own file named <name>[.<cols>].<dtype> (see
// package filename) and is mapped without being read into memory (see
// package memmap).  A Store manages such a directory; Sequences pairs an
// offsets array with a flat positions array and derives per-sequence lengths
// with package offsets.
package trx
