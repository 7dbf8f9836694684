// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package execinfrapb

import (
	"testing"
	"time"

	"github.com/cockroachdb/execcore/pkg/sql/types"
	"github.com/stretchr/testify/require"
)

const antiJoinPlan = `
settings:
  sql.exec.join.algorithm: hash
root:
  core:
    joiner:
      type: left_anti
      on_expr: {op: "=", args: [{col: p.k}, {col: b.k}]}
  post:
    limit: 3
  input:
  - core:
      values:
        columns: ["p.k int4", {name: p.v, type: text}]
        rows: [[0, a], [1, null]]
  - core:
      table_reader:
        path: /data/b.tbl
        format: text
        columns: ["b.k int8"]
        filter: {op: is_not_null, args: [{col: b.k}]}
`

func TestParsePlan(t *testing.T) {
	p, err := ParsePlan([]byte(antiJoinPlan))
	require.NoError(t, err)
	require.Equal(t, "hash", p.Settings["sql.exec.join.algorithm"])

	root := p.Root
	require.Equal(t, "joiner", root.Core.Name())
	require.Equal(t, LeftAntiJoin, root.Core.Joiner.Type)
	require.False(t, root.Core.Joiner.Type.ShouldIncludeRightColsInOutput())
	require.Equal(t, "=(p.k, b.k)", root.Core.Joiner.OnExpr.String())
	require.Equal(t, uint64(3), root.Post.Limit)
	require.False(t, root.Post.Empty())

	values := root.Input[0].Core.Values
	require.Equal(t, []ColumnSpec{{"p.k", "int4"}, {"p.v", "text"}}, values.Columns)
	require.Len(t, values.Rows, 2)
	require.Equal(t, "0", *values.Rows[0][0])
	require.Nil(t, values.Rows[1][1])

	schema, err := MakeSchema(values.Columns)
	require.NoError(t, err)
	require.Equal(t, "(p.k int4, p.v text)", schema.String())

	tr := root.Input[1].Core.TableReader
	require.Equal(t, TextFormat, tr.Format)
	require.Equal(t, "is_not_null(b.k)", tr.Filter.String())
	require.True(t, root.Input[1].Post.Empty())
}

func TestParsePlanErrors(t *testing.T) {
	for _, tc := range []struct {
		plan, err string
	}{
		{`root: {core: {}}`, "exactly one core, found 0"},
		{`root: {core: {values: {}, filterer: {filter: {col: a}}}}`, "exactly one core, found 2"},
		{`root: {core: {filterer: {filter: {col: a}}}}`, "filterer requires 1 inputs, found 0"},
		{`root: {core: {joiner: {type: sideways}}, input: [{core: {values: {}}}, {core: {values: {}}}]}`, "unknown join type"},
		{`root: {core: {values: {columns: ["a"]}}}`, "column must be written"},
		{`root: {core: {values: {}}, bogus: 1}`, "not found"},
		{`root: {core: {projection: {render: []}}, input: [{core: {}}]}`, "projection input 0"},
	} {
		_, err := ParsePlan([]byte(tc.plan))
		require.ErrorContains(t, err, tc.err, tc.plan)
	}

	_, err := MakeSchema([]ColumnSpec{{"t.a", "int4"}, {"t.a", "int8"}})
	require.Error(t, err)
	_, err = MakeSchema([]ColumnSpec{{"t.a", "uuid"}})
	require.ErrorContains(t, err, "column t.a")
}

func TestExpressionBuilders(t *testing.T) {
	e := Op("and",
		Op("<", Col("t.a"), Const("10", "int4")),
		Func("upper", Col("t.s")),
		Expression{Op: "cast", Type: "text", Args: []Expression{{Null: true}}},
	)
	require.Equal(t, "and(<(t.a, 10:int4), upper(t.s), cast:text(NULL))", e.String())

	typ, err := types.FromString(e.Args[0].Args[1].Type)
	require.NoError(t, err)
	require.Equal(t, types.Int4, typ)
}

func TestComponentStats(t *testing.T) {
	s := ComponentStats{
		Component: "hashjoiner",
		Inputs:    []InputStats{{NumTuples: 10}, {NumTuples: 5}},
		Exec:      ExecStats{ExecTime: 1234567 * time.Nanosecond, MaxAllocatedMem: 2048},
		Output:    OutputStats{NumTuples: 5},
	}
	require.Equal(t, []string{
		"left tuples: 10",
		"right tuples: 5",
		"execution time: 1.235ms",
		"max memory allocated: 2.0 KiB",
		"tuples output: 5",
	}, s.StatsForQueryPlan())
	require.Equal(t, "2.0 KiB", s.Stats()["max.memory.allocated"])

	s.MakeDeterministic()
	require.Equal(t, "1µs", s.Stats()["execution.time"])
	require.Equal(t, "1.0 KiB", s.Stats()["max.memory.allocated"])
}
