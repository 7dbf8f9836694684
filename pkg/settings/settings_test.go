// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package settings

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

var boolTA = RegisterBoolSetting("bool.t", "desc", true)
var boolFA = RegisterBoolSetting("bool.f", "", false)
var strFooA = RegisterStringSetting("str.foo", "", "", nil)
var strBarA = RegisterStringSetting("str.bar", "", "bar", NonEmptyString)
var i1A = RegisterIntSetting("i.1", "", 0, nil)
var i2A = RegisterIntSetting("i.2", "", 5, PositiveInt)
var eA = RegisterEnumSetting("sql.e", "", "foo", map[int64]string{1: "foo", 2: "bar", 3: "baz"})

func TestCache(t *testing.T) {
	sv := NewValues()

	t.Run("defaults", func(t *testing.T) {
		require.False(t, boolFA.Get(sv))
		require.True(t, boolTA.Get(sv))
		require.Equal(t, "", strFooA.Get(sv))
		require.Equal(t, "bar", strBarA.Get(sv))
		require.Equal(t, int64(0), i1A.Get(sv))
		require.Equal(t, int64(5), i2A.Get(sv))
		require.Equal(t, int64(1), eA.Get(sv))
		require.Equal(t, "foo", eA.String(sv))
		require.Equal(t, "foo", eA.EncodedDefault())
	})

	t.Run("lookup", func(t *testing.T) {
		s, desc, ok := Lookup("bool.t")
		require.True(t, ok)
		require.Equal(t, "desc", desc)
		require.Equal(t, "b", s.Typ())
		require.Equal(t, "bool.t", s.Key())
		_, _, ok = Lookup("dne")
		require.False(t, ok)
		require.Contains(t, Keys(), "sql.e")
	})

	t.Run("read and write each type", func(t *testing.T) {
		sv := NewValues()
		require.NoError(t, sv.Set("bool.t", EncodeBool(false)))
		require.NoError(t, sv.Set("str.foo", "baz"))
		require.NoError(t, sv.Set("i.2", EncodeInt(3)))
		require.NoError(t, sv.Set("sql.e", "BAZ"))
		require.False(t, boolTA.Get(sv))
		require.Equal(t, "baz", strFooA.Get(sv))
		require.Equal(t, int64(3), i2A.Get(sv))
		require.Equal(t, "baz", eA.String(sv))

		require.NoError(t, sv.Set("sql.e", "2"))
		require.Equal(t, "bar", eA.String(sv))

		// Values containers are independent.
		other := NewValues()
		require.True(t, boolTA.Get(other))
	})

	t.Run("an invalid update preserves the previous value", func(t *testing.T) {
		sv := NewValues()
		require.NoError(t, sv.Set("i.2", "9"))
		require.Error(t, sv.Set("i.2", "false"))
		require.ErrorContains(t, sv.Set("i.2", "0"), "cannot be set to a non-positive value")
		require.Equal(t, int64(9), i2A.Get(sv))

		require.ErrorContains(t, sv.Set("sql.e", "qux"), "'foo', 'bar', 'baz'")
		require.Equal(t, int64(1), eA.Get(sv))

		require.Error(t, sv.Set("str.bar", ""))
		require.Equal(t, "bar", strBarA.Get(sv))

		require.ErrorContains(t, sv.Set("dne", "1"), "unknown setting")
	})
}

func TestLoadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cfg.yaml", []byte(`
bool.f: true
str:
  foo: hello
sql:
  e: bar
`), 0644))
	require.NoError(t, afero.WriteFile(fs, "/cfg.toml", []byte(`
"i.1" = 42

[str]
bar = "toml"
`), 0644))
	require.NoError(t, afero.WriteFile(fs, "/bad.yaml", []byte("i.2: -1\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/cfg.json", []byte("{}"), 0644))

	sv := NewValues()
	require.NoError(t, LoadFile(fs, "/cfg.yaml", sv))
	require.True(t, boolFA.Get(sv))
	require.Equal(t, "hello", strFooA.Get(sv))
	require.Equal(t, "bar", eA.String(sv))

	require.NoError(t, LoadFile(fs, "/cfg.toml", sv))
	require.Equal(t, int64(42), i1A.Get(sv))
	require.Equal(t, "toml", strBarA.Get(sv))

	require.Error(t, LoadFile(fs, "/bad.yaml", sv))
	require.Equal(t, int64(5), i2A.Get(sv))
	require.ErrorContains(t, LoadFile(fs, "/cfg.json", sv), "unsupported")
	require.Error(t, LoadFile(fs, "/missing.yaml", sv))
}
