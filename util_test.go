// Copyright 2024 The trx Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package trx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckName(t *testing.T) {
	for _, name := range []string{"offsets", "mean_fa", "dps-1"} {
		require.NoError(t, checkName(name))
	}
	for _, name := range []string{"", "a.b", "a/b", `a\b`, ".."} {
		require.ErrorIs(t, checkName(name), ErrInvalidFilename, name)
	}
}

func TestStringSet(t *testing.T) {
	set := make(stringSet)
	require.False(t, set.Contains("a"))
	set.Add("a")
	require.True(t, set.Contains("a"))
	require.False(t, set.Contains("b"))
}
