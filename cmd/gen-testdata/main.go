// Copyright 2024 The trx Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// gen-testdata fills a store directory with random streamlines.
package main

import (
	crand "crypto/rand"
	"encoding/binary"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"

	"github.com/bpowers/trx"
	"github.com/bpowers/trx/dtype"
	"github.com/bpowers/trx/memmap"
)

var (
	nSequences = flag.Int("n", 10000, "number of streamlines")
	maxLen     = flag.Int("max-len", 100, "maximum points per streamline")
	verbose    = flag.Bool("v", false, "log array creation")
)

func newRand() *rand.Rand {
	var seedBytes [8]byte
	_, _ = crand.Read(seedBytes[:])
	seed := int64(binary.LittleEndian.Uint64(seedBytes[:]))
	return rand.New(rand.NewSource(seed))
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <dir>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 || *nSequences < 1 || *maxLen < 1 {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "gen-testdata: %s\n", err)
		os.Exit(1)
	}
}

func run(dir string) error {
	var opts []trx.StoreOption
	if *verbose {
		opts = append(opts, trx.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}
	s, err := trx.NewStore(dir, append(opts, trx.WithAccessPattern(memmap.AccessSequential))...)
	if err != nil {
		return err
	}

	rng := newRand()
	lengths := make([]int, *nSequences)
	total := 0
	for i := range lengths {
		lengths[i] = 1 + rng.Intn(*maxLen)
		total += lengths[i]
	}

	q, err := trx.CreateSequences(s, len(lengths), total)
	if err != nil {
		return err
	}
	start := uint64(0)
	for i, n := range lengths {
		points := make([][3]float32, n)
		var p [3]float32
		for j := range points {
			for k := range p {
				p[k] += rng.Float32() - 0.5
			}
			points[j] = p
		}
		if err := q.SetSequence(i, start, points); err != nil {
			_ = q.Close()
			return err
		}
		start += uint64(n)
	}
	if err := q.Flush(); err != nil {
		_ = q.Close()
		return err
	}
	if err := q.Close(); err != nil {
		return err
	}

	// a per-streamline scalar, stored at half precision like many TRX exports
	dps, err := s.Create("mean_length", dtype.Float16, len(lengths), 1)
	if err != nil {
		return err
	}
	hv, err := memmap.HalfViewOf(dps)
	if err != nil {
		_ = dps.Close()
		return err
	}
	for i, n := range lengths {
		if err := hv.Put(i, float32(n)); err != nil {
			_ = dps.Close()
			return err
		}
	}
	if err := dps.Close(); err != nil {
		return err
	}

	digest, err := s.Digest()
	if err != nil {
		return err
	}
	fmt.Printf("wrote %d streamlines (%d points) to %s, digest %016x\n", len(lengths), total, s.Dir(), digest)
	return nil
}
