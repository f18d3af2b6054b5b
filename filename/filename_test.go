// Copyright 2024 The trx Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package filename

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bpowers/trx/dtype"
)

func TestEncode(t *testing.T) {
	for _, tc := range []struct {
		path string
		t    dtype.Type
		cols int
		want string
	}{
		{"mean_fa.bit", dtype.Int16, 4, "mean_fa.4.int16"},
		{"mean_fa.bit", dtype.Float64, 4, "mean_fa.4.float64"},
		{"mean_fa.bit", dtype.Float64, 1, "mean_fa.float64"},
		{"mean_fa", dtype.Bit, 1, "mean_fa.bit"},
		{"mean_fa.4.int16", dtype.Float32, 3, "mean_fa.3.float32"},
		{filepath.Join("dpv", "color.txt"), dtype.Uint8, 3, filepath.Join("dpv", "color.3.uint8")},
	} {
		got, err := Encode(tc.path, tc.t, tc.cols)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	_, err := Encode("mean_fa", dtype.Int16, 0)
	require.ErrorIs(t, err, ErrInvalidDims)
	_, err = Encode("mean_fa", dtype.Invalid, 1)
	require.ErrorIs(t, err, ErrUnsupportedExtension)
}

func TestDecode(t *testing.T) {
	n, err := Decode("mean_fa.float64")
	require.NoError(t, err)
	require.Equal(t, Name{Base: "mean_fa", Cols: 1, Ext: ".float64"}, n)

	n, err = Decode("mean_fa.5.int32")
	require.NoError(t, err)
	require.Equal(t, Name{Base: "mean_fa", Cols: 5, Ext: ".int32"}, n)

	n, err = Decode(filepath.Join("some", "dir", "offsets.ushort"))
	require.NoError(t, err)
	require.Equal(t, Name{Base: "offsets", Cols: 1, Ext: ".ushort"}, n)
	typ, err := n.Type()
	require.NoError(t, err)
	require.Equal(t, dtype.Uint16, typ)
}

func TestDecode_Errors(t *testing.T) {
	for _, tc := range []struct {
		name string
		want error
	}{
		{"mean_fa", ErrInvalidFilename},
		{"mean_fa.5.4.int32", ErrInvalidFilename},
		{"mean_fa.fa", ErrUnsupportedExtension},
		{"mean_fa.5.txt", ErrUnsupportedExtension},
		{"mean_fa.x.int32", ErrInvalidFilename},
		{"mean_fa.0.int32", ErrInvalidFilename},
		{"mean_fa.+3.int32", ErrInvalidFilename},
		{".int32", ErrInvalidFilename},
	} {
		_, err := Decode(tc.name)
		require.ErrorIs(t, err, tc.want, tc.name)
	}
}

func TestRoundTrip(t *testing.T) {
	for _, d := range dtype.All() {
		for _, cols := range []int{1, 4} {
			encoded, err := Encode("mean_fa.bit", d.Type, cols)
			require.NoError(t, err)
			n, err := Decode(encoded)
			require.NoError(t, err)
			require.Equal(t, Name{Base: "mean_fa", Cols: cols, Ext: "." + d.Type.Ext()}, n)
			require.Equal(t, encoded, n.String())
		}
	}
}
