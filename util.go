// Copyright 2024 The trx Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package trx

import (
	"fmt"
	"strings"
)

type stringSet map[string]struct{}

func (set stringSet) Contains(s string) bool {
	_, ok := set[s]
	return ok
}

func (set stringSet) Add(s string) {
	set[s] = struct{}{}
}

// checkName rejects array names that can't round trip through a filename:
// the codec splits on dots and a name is a single path element.
func checkName(name string) error {
	if name == "" || strings.ContainsAny(name, `./\`) {
		return fmt.Errorf("array name %q: %w", name, ErrInvalidFilename)
	}
	return nil
}
