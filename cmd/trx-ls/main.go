// Copyright 2024 The trx Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// trx-ls lists the arrays in a store directory.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/bpowers/trx"
)

var (
	verbose     = flag.Bool("v", false, "log skipped files")
	fingerprint = flag.Bool("fingerprint", false, "print a hash of every array and of the whole store")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <dir>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "trx-ls: %s\n", err)
		os.Exit(1)
	}
}

func run(dir string) error {
	if _, err := os.Stat(dir); err != nil {
		return err
	}
	var opts []trx.StoreOption
	if *verbose {
		opts = append(opts, trx.WithLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}
	s, err := trx.NewStore(dir, opts...)
	if err != nil {
		return err
	}
	entries, err := s.List()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDTYPE\tROWS\tCOLS\tBYTES\tFINGERPRINT")
	for _, e := range entries {
		fp := "-"
		if *fingerprint {
			sum, err := s.Fingerprint(e)
			if err != nil {
				return err
			}
			fp = fmt.Sprintf("%016x", sum)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n", e.Name.Base, e.Type, e.Rows, e.Name.Cols, e.Size, fp)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if *fingerprint {
		digest, err := s.Digest()
		if err != nil {
			return err
		}
		fmt.Printf("digest %016x\n", digest)
	}
	return nil
}
