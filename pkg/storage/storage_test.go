// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package storage

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/execcore/pkg/sql/catalog/colinfo"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc"
	"github.com/cockroachdb/execcore/pkg/sql/sem/tree"
	"github.com/cockroachdb/execcore/pkg/sql/types"
	"github.com/cockroachdb/execcore/pkg/util/leaktest"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

var peopleSchema = colinfo.MustNewSchema(
	colinfo.MakeColumn("people.id", types.Int4),
	colinfo.MakeColumn("people.name", types.Text),
	colinfo.MakeColumn("people.score", types.Float8),
	colinfo.MakeColumn("people.ok", types.Bool),
)

func peopleRows() []rowenc.Datums {
	return []rowenc.Datums{
		{tree.DInt4(1), tree.DText("ann"), tree.DFloat8(1.5), tree.DBoolTrue},
		{tree.DInt4(2), tree.DNull, tree.DFloat8(-3), tree.DBoolFalse},
		{tree.DInt4(3), tree.DText(""), tree.DNull, tree.DNull},
	}
}

// scanAll returns the string form of every row of s.
func scanAll(t *testing.T, s Scanner) []string {
	t.Helper()
	var res []string
	for {
		row, err := s.Next()
		require.NoError(t, err)
		if row == nil {
			return res
		}
		res = append(res, rowenc.String(row))
	}
}

func writeAll(t *testing.T, a Appender, rows []rowenc.Datums) {
	t.Helper()
	require.NoError(t, a.Init())
	for _, row := range rows {
		require.NoError(t, a.AddTuple(row))
	}
	require.NoError(t, a.Close())
	require.NoError(t, a.Close())
}

func expectedStrings(rows []rowenc.Datums) []string {
	res := make([]string, len(rows))
	for i := range rows {
		res[i] = rows[i].String()
	}
	return res
}

func TestMemTable(t *testing.T) {
	defer leaktest.AfterTest(t)()

	m := NewMemTable(peopleSchema)
	writeAll(t, m.NewAppender(), peopleRows())
	require.Equal(t, 3, m.Len())
	require.Error(t, m.Append(rowenc.Datums{tree.DInt4(1)}))

	s := m.NewScanner()
	require.NoError(t, s.Init())
	require.Equal(t, expectedStrings(peopleRows()), scanAll(t, s))
	require.NoError(t, s.Reset())
	require.Equal(t, expectedStrings(peopleRows()), scanAll(t, s))
	require.NoError(t, s.Close())
}

func TestTextFile(t *testing.T) {
	defer leaktest.AfterTest(t)()

	fs := afero.NewMemMapFs()
	writeAll(t, NewTextFileAppender(fs, "people.tbl", peopleSchema, ScanOptions{}), peopleRows())

	data, err := afero.ReadFile(fs, "people.tbl")
	require.NoError(t, err)
	require.Equal(t, "1|ann|1.5|t\n2|\\N|-3|f\n3||\\N|\\N\n", string(data))

	s := NewTextFileScanner(fs, "people.tbl", peopleSchema, ScanOptions{})
	require.NoError(t, s.Init())
	defer func() { require.NoError(t, s.Close()) }()

	first := scanAll(t, s)
	if diff := cmp.Diff(expectedStrings(peopleRows()), first); diff != "" {
		t.Fatalf("unexpected rows (-want +got):\n%s", diff)
	}
	require.NoError(t, s.Reset())
	require.Equal(t, first, scanAll(t, s))

	// Row offsets point at the start of each line.
	require.NoError(t, s.Reset())
	var offsets []int64
	for {
		row, err := s.Next()
		require.NoError(t, err)
		if row == nil {
			break
		}
		offsets = append(offsets, row.(*rowenc.LazyTuple).Offset())
	}
	require.Equal(t, []int64{0, 12, 22}, offsets)

	// Values that would break the framing are rejected.
	a := NewTextFileAppender(fs, "bad.tbl", peopleSchema, ScanOptions{})
	require.NoError(t, a.Init())
	err = a.AddTuple(rowenc.Datums{tree.DInt4(1), tree.DText("a|b"), tree.DNull, tree.DNull})
	require.Equal(t, pgcode.InvalidParameterValue, pgerror.GetPGCode(err))
	require.NoError(t, a.Close())
}

func TestTextFileLenientAndStrict(t *testing.T) {
	defer leaktest.AfterTest(t)()

	fs := afero.NewMemMapFs()
	// The second line is short, the third has a malformed id, the fourth
	// has an extra field, and blank lines are skipped.
	content := "1|ann|1.5|t\n2|bob\n\nx|cat|2|f\n4|dan|0|t|extra\n"
	require.NoError(t, afero.WriteFile(fs, "t.tbl", []byte(content), 0644))

	var masked []int
	s := NewTextFileScanner(fs, "t.tbl", peopleSchema, ScanOptions{
		OnDecodeError: func(ordinal int, err error) { masked = append(masked, ordinal) },
	})
	require.NoError(t, s.Init())
	require.Equal(t, []string{
		"[1 ann 1.5 true]",
		"[2 bob NULL NULL]",
		"[NULL cat 2 false]",
		"[4 dan 0 true]",
	}, scanAll(t, s))
	require.Equal(t, []int{0}, masked)
	require.NoError(t, s.Close())

	strict := NewTextFileScanner(fs, "t.tbl", peopleSchema, ScanOptions{Strict: true})
	require.NoError(t, strict.Init())
	defer func() { require.NoError(t, strict.Close()) }()
	var sawErr error
	for {
		row, err := strict.Next()
		require.NoError(t, err)
		if row == nil {
			break
		}
		materialized := rowenc.Materialize(row, nil)
		if err := rowenc.Err(row); err != nil {
			sawErr = err
			require.Equal(t, tree.DNull, materialized[0])
		}
	}
	require.Error(t, sawErr)
	require.Equal(t, pgcode.DataCorrupted, pgerror.GetPGCode(sawErr))
}

func TestTextFileCustomMarkers(t *testing.T) {
	defer leaktest.AfterTest(t)()

	fs := afero.NewMemMapFs()
	opts := ScanOptions{Delimiter: ",", NullMarker: "NULL"}
	writeAll(t, NewTextFileAppender(fs, "c.csv", peopleSchema, opts), peopleRows()[1:2])
	data, err := afero.ReadFile(fs, "c.csv")
	require.NoError(t, err)
	require.Equal(t, "2,NULL,-3,f\n", string(data))

	s := NewTextFileScanner(fs, "c.csv", peopleSchema, opts)
	require.NoError(t, s.Init())
	require.Equal(t, expectedStrings(peopleRows()[1:2]), scanAll(t, s))
	require.NoError(t, s.Close())
}

func TestBlockFile(t *testing.T) {
	defer leaktest.AfterTest(t)()

	allTypes := colinfo.MustNewSchema(
		colinfo.MakeColumn("a.b", types.Bool),
		colinfo.MakeColumn("a.bit", types.Bit),
		colinfo.MakeColumn("a.i2", types.Int2),
		colinfo.MakeColumn("a.i4", types.Int4),
		colinfo.MakeColumn("a.i8", types.Int8),
		colinfo.MakeColumn("a.f4", types.Float4),
		colinfo.MakeColumn("a.f8", types.Float8),
		colinfo.MakeColumn("a.dec", types.Decimal),
		colinfo.MakeColumn("a.c", types.MakeChar(3)),
		colinfo.MakeColumn("a.t", types.Text),
		colinfo.MakeColumn("a.by", types.Bytes),
		colinfo.MakeColumn("a.ip", types.INet4),
	)
	dec, err := tree.ParseDDecimal("12.345")
	require.NoError(t, err)
	var rows []rowenc.Datums
	// Enough rows to span several blocks.
	for i := 0; i < 5000; i++ {
		row := rowenc.Datums{
			tree.MakeDBool(i%2 == 0), tree.DBit(i % 256), tree.DInt2(i), tree.DInt4(-i), tree.DInt8(i * 1000),
			tree.DFloat4(0.5), tree.DFloat8(float64(i) / 4), dec, tree.DChar("abc"),
			tree.DText(fmt.Sprintf("row %d with some padding text", i)), tree.DBytes([]byte{0, byte(i)}),
			tree.MakeDIPv4(10, 0, byte(i>>8), byte(i)),
		}
		if i%7 == 0 {
			row[i%len(row)] = tree.DNull
		}
		rows = append(rows, row)
	}

	for _, codec := range []Codec{SnappyCodec, ZstdCodec, NoCodec} {
		t.Run(codec.String(), func(t *testing.T) {
			fs := afero.NewMemMapFs()
			a, err := NewAppender(fs, BlockFormat, "t.blk", allTypes, ScanOptions{Codec: codec})
			require.NoError(t, err)
			writeAll(t, a, rows)

			s, err := NewScanner(fs, BlockFormat, "t.blk", allTypes, ScanOptions{})
			require.NoError(t, err)
			require.NoError(t, s.Init())
			defer func() { require.NoError(t, s.Close()) }()

			got := scanAll(t, s)
			if diff := cmp.Diff(expectedStrings(rows), got); diff != "" {
				t.Fatalf("unexpected rows (-want +got):\n%s", diff)
			}
			require.NoError(t, s.Reset())
			require.Equal(t, got, scanAll(t, s))
		})
	}
}

func TestBlockFileErrors(t *testing.T) {
	defer leaktest.AfterTest(t)()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "bad.blk", []byte("nope"), 0644))
	s := NewBlockFileScanner(fs, "bad.blk", peopleSchema, ScanOptions{})
	err := s.Init()
	require.Equal(t, pgcode.DataCorrupted, pgerror.GetPGCode(err))
	require.NoError(t, s.Close())

	// A truncated block.
	writeAll(t, NewBlockFileAppender(fs, "t.blk", peopleSchema, ScanOptions{}), peopleRows())
	data, err := afero.ReadFile(fs, "t.blk")
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, "t.blk", data[:len(data)-3], 0644))
	s = NewBlockFileScanner(fs, "t.blk", peopleSchema, ScanOptions{})
	require.NoError(t, s.Init())
	_, err = s.Next()
	require.Equal(t, pgcode.DataCorrupted, pgerror.GetPGCode(err))
	require.NoError(t, s.Close())

	// A missing file is reported with the underlying error.
	s = NewBlockFileScanner(fs, "missing.blk", peopleSchema, ScanOptions{})
	err = s.Init()
	require.Error(t, err)
	require.False(t, pgerror.HasCandidateCode(err))

	_, err = NewScanner(fs, "parquet", "t.blk", peopleSchema, ScanOptions{})
	require.Error(t, err)
	_, err = ParseCodec("lz4")
	require.Error(t, err)
	c, err := ParseCodec("zstd")
	require.NoError(t, err)
	require.Equal(t, ZstdCodec, c)
}

func TestCopy(t *testing.T) {
	defer leaktest.AfterTest(t)()

	fs := afero.NewMemMapFs()
	writeAll(t, NewTextFileAppender(fs, "in.tbl", peopleSchema, ScanOptions{}), peopleRows())

	s := NewTextFileScanner(fs, "in.tbl", peopleSchema, ScanOptions{})
	require.NoError(t, s.Init())
	a := NewBlockFileAppender(fs, "out.blk", peopleSchema, ScanOptions{Codec: ZstdCodec})
	require.NoError(t, a.Init())
	n, err := Copy(s, a)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.NoError(t, errors.CombineErrors(s.Close(), a.Close()))

	out := NewBlockFileScanner(fs, "out.blk", peopleSchema, ScanOptions{})
	require.NoError(t, out.Init())
	require.Equal(t, expectedStrings(peopleRows()), scanAll(t, out))
	require.NoError(t, out.Close())
}
