// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromString(t *testing.T) {
	for _, tc := range []struct {
		in       string
		expected *T
	}{
		{"int4", Int4},
		{"INTEGER", Int4},
		{" bigint ", Int8},
		{"double", Float8},
		{"text", Text},
		{"blob", Bytes},
		{"ipv4", INet4},
		{"numeric", Decimal},
		{"char", Char},
	} {
		t.Run(tc.in, func(t *testing.T) {
			typ, err := FromString(tc.in)
			require.NoError(t, err)
			require.True(t, typ.Identical(tc.expected), "got %s", typ)
		})
	}

	typ, err := FromString("char(10)")
	require.NoError(t, err)
	require.Equal(t, CharFamily, typ.Family)
	require.Equal(t, int32(10), typ.Width)
	require.Equal(t, "char(10)", typ.SQLString())

	for _, bad := range []string{"", "char(x)", "char(0)", "uuid"} {
		_, err := FromString(bad)
		require.Error(t, err, bad)
	}
}

func TestEquivalent(t *testing.T) {
	require.True(t, Int2.Equivalent(Float8))
	require.True(t, Decimal.Equivalent(Int8))
	require.True(t, Char.Equivalent(Text))
	require.True(t, Unknown.Equivalent(Bytes))
	require.False(t, Text.Equivalent(Int4))
	require.False(t, Bool.Equivalent(Bit))
}

func TestScalarNames(t *testing.T) {
	for _, typ := range Scalar {
		parsed, err := FromString(typ.SQLString())
		require.NoError(t, err)
		require.True(t, parsed.Identical(typ), "%s", typ)
	}
}
