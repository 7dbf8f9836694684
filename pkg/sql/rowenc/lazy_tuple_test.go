// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rowenc_test

import (
	"testing"

	"github.com/cockroachdb/execcore/pkg/sql/catalog/colinfo"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc/valueside"
	"github.com/cockroachdb/execcore/pkg/sql/sem/tree"
	"github.com/cockroachdb/execcore/pkg/sql/types"
	"github.com/cockroachdb/execcore/pkg/util/leaktest"
	"github.com/stretchr/testify/require"
)

// countingDecoder wraps the text decoder and counts calls per column.
type countingDecoder struct {
	calls map[int]int
	inner valueside.TextSerDe
}

func (c *countingDecoder) Decode(col colinfo.Column, raw []byte) (tree.Datum, error) {
	for i, name := range []string{"id", "name", "score"} {
		if col.Name == name {
			c.calls[i]++
		}
	}
	return c.inner.Decode(col, raw)
}

var testSchema = colinfo.MustNewSchema(
	colinfo.MakeColumn("t.id", types.Int4),
	colinfo.MakeColumn("t.name", types.Text),
	colinfo.MakeColumn("t.score", types.Float8),
)

var nullMarker = []byte(`\N`)

func rawRow(cols ...string) [][]byte {
	raw := make([][]byte, len(cols))
	for i, c := range cols {
		raw[i] = []byte(c)
	}
	return raw
}

func TestLazyTupleDecodeOnce(t *testing.T) {
	defer leaktest.AfterTest(t)()

	dec := &countingDecoder{calls: map[int]int{}}
	tup := rowenc.NewLazyTuple(testSchema, rawRow("7", "alice", "1.5"), dec, nullMarker)

	require.Equal(t, []byte("7"), tup.Raw(0))
	require.Equal(t, tree.DInt4(7), tup.Get(0))
	require.Nil(t, tup.Raw(0), "raw bytes must be released after decoding")
	require.Equal(t, tree.DInt4(7), tup.Get(0))
	require.Equal(t, 1, dec.calls[0])

	// Untouched columns are not decoded.
	require.Zero(t, dec.calls[1])
	require.Equal(t, []byte("alice"), tup.Raw(1))

	v, err := rowenc.GetText(tup, 1)
	require.NoError(t, err)
	require.Equal(t, "alice", v)
	_, _ = rowenc.GetText(tup, 1)
	require.Equal(t, 1, dec.calls[1])
}

func TestLazyTupleNulls(t *testing.T) {
	defer leaktest.AfterTest(t)()

	dec := &countingDecoder{calls: map[int]int{}}
	// A short row: the score column is missing entirely.
	tup := rowenc.NewLazyTuple(testSchema, rawRow("1", `\N`), dec, nullMarker)
	require.Equal(t, 3, tup.Len())
	require.True(t, tup.IsNull(1))
	require.Zero(t, dec.calls[1], "the null marker must not reach the decoder")
	require.True(t, tup.IsNull(2))
	require.True(t, tup.Contains(2))

	// A nil raw column is absent, not NULL.
	raw := rawRow("1", "x", "2")
	raw[1] = nil
	tup = rowenc.NewLazyTuple(testSchema, raw, dec, nullMarker)
	require.Nil(t, tup.Get(1))
	require.False(t, tup.Contains(1))
	require.False(t, tup.IsNull(1))

	_, err := rowenc.GetInt4(tup, 1)
	require.Equal(t, pgcode.DatatypeMismatch, pgerror.GetPGCode(err))
}

func TestLazyTupleDecodeErrors(t *testing.T) {
	defer leaktest.AfterTest(t)()

	dec := valueside.TextSerDe{NullMarker: nullMarker}

	// Lenient: the malformed column reads as NULL and is reported.
	var observed []int
	tup := rowenc.NewLazyTuple(testSchema, rawRow("seven", "bob", "2"), dec, nullMarker)
	tup.SetDecodeErrorHandling(false /* strict */, func(ord int, err error) {
		observed = append(observed, ord)
	})
	require.Equal(t, tree.DNull, tup.Get(0))
	require.NoError(t, tup.Err())
	require.Equal(t, []int{0}, observed)

	// Strict: the column still reads as NULL but the error is retained.
	tup = rowenc.NewLazyTuple(testSchema, rawRow("seven", "bob", "2"), dec, nullMarker)
	tup.SetDecodeErrorHandling(true /* strict */, nil)
	tup.SetOffset(128)
	require.Equal(t, tree.DNull, tup.Get(0))
	err := rowenc.Err(tup)
	require.Error(t, err)
	require.Equal(t, pgcode.DataCorrupted, pgerror.GetPGCode(err))
	require.Contains(t, err.Error(), `decoding column "t.id" at offset 128`)

	frame := rowenc.NewFrameTuple(rowenc.Datums{tree.DInt4(1)}, tup)
	require.Equal(t, err, frame.Err())
}

func TestLazyTuplePutAndReset(t *testing.T) {
	defer leaktest.AfterTest(t)()

	dec := &countingDecoder{calls: map[int]int{}}
	tup := rowenc.NewLazyTuple(testSchema, rawRow("1", "a", "0.5"), dec, nullMarker)
	tup.Put(1, tree.DText("override"))
	require.Nil(t, tup.Raw(1))
	require.Equal(t, tree.DText("override"), tup.Get(1))
	require.Zero(t, dec.calls[1])

	cp := tup.Copy()
	tup.Reset(rawRow("2", "b", "1.5"), 64)
	require.Equal(t, int64(64), tup.Offset())
	require.Equal(t, tree.DInt4(2), tup.Get(0))
	require.Equal(t, tree.DText("b"), tup.Get(1))
	require.Equal(t, tree.DInt4(1), cp.Get(0))
	require.Equal(t, tree.DText("override"), cp.Get(1))
}

func TestCrossRepresentationEquality(t *testing.T) {
	defer leaktest.AfterTest(t)()

	serde := valueside.TextSerDe{NullMarker: nullMarker}
	rows := []rowenc.Datums{
		{tree.DInt4(1), tree.DText("alice"), tree.DFloat8(0.25)},
		{tree.DInt4(-5), tree.DNull, tree.DFloat8(1e10)},
		{tree.DNull, tree.DText(""), tree.DNull},
	}
	for _, row := range rows {
		raw := make([][]byte, row.Len())
		for i := range raw {
			var err error
			raw[i], err = serde.Serialize(make([]byte, 0, 16), testSchema.Column(i), row[i])
			require.NoError(t, err)
		}
		lazy := rowenc.NewLazyTuple(testSchema, raw, serde, nullMarker)
		require.True(t, rowenc.Equal(row, lazy), "%s vs %s", row, lazy)
		require.True(t, rowenc.Equal(lazy, row))
		require.Equal(t, rowenc.Hash(row), rowenc.Hash(lazy))
		for i := 0; i < row.Len(); i++ {
			require.True(t, rowenc.DatumsEqual(row.Get(i), lazy.Get(i)))
		}
	}

	other := rowenc.NewLazyTuple(testSchema, rawRow("1", "alice", "0.5"), serde, nullMarker)
	require.False(t, rowenc.Equal(rows[0], other))
}
