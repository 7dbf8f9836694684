// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package colinfo

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/execcore/pkg/sql/types"
	"github.com/stretchr/testify/require"
)

func TestSchemaResolution(t *testing.T) {
	emp := MustNewSchema(
		MakeColumn("employee.id", types.Int4),
		MakeColumn("employee.name", types.Text),
		MakeColumn("total", types.Int8),
	)
	people := MustNewSchema(
		MakeColumn("people.id", types.Int4),
		MakeColumn("people.age", types.Int2),
	)
	joined, err := Merge(emp, people)
	require.NoError(t, err)
	require.Equal(t, 5, joined.Len())
	require.Equal(t, []*types.T{types.Int4, types.Text, types.Int8, types.Int4, types.Int2}, joined.Types())

	for _, tc := range []struct {
		name string
		ord  int
		code pgcode.Code
	}{
		{"employee.id", 0, pgcode.Uncategorized},
		{"people.id", 3, pgcode.Uncategorized},
		{"name", 1, pgcode.Uncategorized},
		{"age", 4, pgcode.Uncategorized},
		{"total", 2, pgcode.Uncategorized},
		{"id", -1, pgcode.AmbiguousColumn},
		{"people.name", -1, pgcode.UndefinedColumn},
		{"salary", -1, pgcode.UndefinedColumn},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ord, err := joined.ColumnIndex(tc.name)
			if tc.code == pgcode.Uncategorized {
				require.NoError(t, err)
				require.Equal(t, tc.ord, ord)
				return
			}
			require.Error(t, err)
			require.Equal(t, tc.code, pgerror.GetPGCode(err))
			require.Equal(t, -1, ord)
		})
	}

	_, err = joined.ColumnIndex("salary")
	require.Contains(t, errors.FlattenHints(err), "employee.id int4")
}

func TestSchemaDuplicates(t *testing.T) {
	_, err := NewSchema(MakeColumn("a.x", types.Int4), MakeColumn("a.x", types.Text))
	require.Equal(t, pgcode.DuplicateColumn, pgerror.GetPGCode(err))

	s := MustNewSchema(MakeColumn("a.x", types.Int4))
	_, err = Merge(s, s)
	require.Error(t, err)

	_, err = NewSchema(Column{Name: "untyped"})
	require.Error(t, err)
}

func TestSchemaProject(t *testing.T) {
	s := MustNewSchema(
		MakeColumn("t.a", types.Int4),
		MakeColumn("t.b", types.Text),
		MakeColumn("t.c", types.Bool),
	)
	p, err := s.Project([]int{2, 0})
	require.NoError(t, err)
	require.Equal(t, "(t.c bool, t.a int4)", p.String())
	require.True(t, p.Contains("t.a"))
	require.False(t, p.Contains("t.b"))
	require.Equal(t, "t", p.Column(0).Qualifier)
	require.Equal(t, "c", p.Column(0).Name)
}
