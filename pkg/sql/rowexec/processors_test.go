// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rowexec

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/cockroachdb/execcore/pkg/settings"
	"github.com/cockroachdb/execcore/pkg/sql/execinfra"
	"github.com/cockroachdb/execcore/pkg/sql/execinfrapb"
	"github.com/cockroachdb/execcore/pkg/sql/execstats"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc"
	"github.com/cockroachdb/execcore/pkg/sql/sem/tree"
	"github.com/cockroachdb/execcore/pkg/util/leaktest"
	"github.com/cockroachdb/execcore/pkg/util/log"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// TestPlans runs the plans of testdata/. The commands are:
//
//	file path=<path>     stores the input in the flow's filesystem.
//	run                  plans and drains the YAML plan of the input and
//	                     prints its rows, or the code of the error.
//	explain              prints the operator tree of the plan.
func TestPlans(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	ctx := context.Background()
	datadriven.Walk(t, "testdata", func(t *testing.T, path string) {
		fs := afero.NewMemMapFs()
		datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
			switch d.Cmd {
			case "file":
				var name string
				d.ScanArgs(t, "path", &name)
				require.NoError(t, afero.WriteFile(fs, name, []byte(d.Input+"\n"), 0644))
				return ""

			case "run", "explain":
				flowCtx := &execinfra.FlowCtx{Settings: settings.NewValues(), Fs: fs}
				spec, err := execinfrapb.ParsePlan([]byte(d.Input))
				if err != nil {
					return fmt.Sprintf("error: %v\n", err)
				}
				op, err := NewOperator(ctx, flowCtx, spec)
				if err != nil {
					return fmt.Sprintf("error: %s\n", pgerror.GetPGCode(err))
				}
				if d.Cmd == "explain" {
					return explain(op)
				}
				rows, err := Drain(ctx, op)
				if err != nil {
					return fmt.Sprintf("error: %s\n", pgerror.GetPGCode(err))
				}
				var b strings.Builder
				for _, row := range rows {
					fmt.Fprintln(&b, row.String())
				}
				return b.String()

			default:
				d.Fatalf(t, "unknown command %s", d.Cmd)
				return ""
			}
		})
	})
}

// explain renders the operator tree rooted at op, one operator per line.
func explain(op execinfra.Operator) string {
	var b strings.Builder
	var walk func(op execinfra.Operator, depth int)
	walk = func(op execinfra.Operator, depth int) {
		n := op.(execinfra.OpNode)
		fmt.Fprintf(&b, "%s%s %s\n", strings.Repeat("  ", depth), n.Stats().Component, op.OutputSchema())
		for _, input := range n.Inputs() {
			walk(input, depth+1)
		}
	}
	walk(op, 0)
	return b.String()
}

const peopleTable = "1|ann|30\n2|bob|x\n3|\\N|41\n4|dan|52\n"

func newPeopleReader(t *testing.T, flowCtx *execinfra.FlowCtx, extra string) execinfra.Operator {
	t.Helper()
	require.NoError(t, afero.WriteFile(flowCtx.Fs, "/people.tbl", []byte(peopleTable), 0644))
	spec, err := execinfrapb.ParsePlan([]byte(`
root:
  core:
    table_reader:
      path: /people.tbl
      columns: ["p.id int4", "p.name text", "p.age int4"]
` + extra))
	require.NoError(t, err)
	op, err := NewOperator(context.Background(), flowCtx, spec)
	require.NoError(t, err)
	return op
}

func TestTableReaderDecodeErrors(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	ctx := context.Background()
	metrics, err := execstats.NewMetrics(nil)
	require.NoError(t, err)
	flowCtx := execinfra.NewTestFlowCtx()
	flowCtx.Metrics = metrics

	// The age of bob does not decode and reads as NULL.
	rows, err := Drain(ctx, newPeopleReader(t, flowCtx, ""))
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, "[2 bob NULL]", rows[1].String())
	require.Equal(t, "[3 NULL 41]", rows[2].String())
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.LazyDecodeErrors))

	// In strict mode the scan fails.
	require.NoError(t, flowCtx.Settings.Set(execinfra.LenientDecode.Key(), "false"))
	_, err = Drain(ctx, newPeopleReader(t, flowCtx, ""))
	require.Equal(t, pgcode.DataCorrupted, pgerror.GetPGCode(err))

	// Unless the column is never read.
	rows, err = Drain(ctx, newPeopleReader(t, flowCtx, `
      render: [{expr: {col: p.name}}]
`))
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, float64(1), testutil.ToFloat64(metrics.LazyDecodeErrors))
}

func TestTableReaderRescan(t *testing.T) {
	defer leaktest.AfterTest(t)()

	ctx := context.Background()
	flowCtx := execinfra.NewTestFlowCtx()
	op := newPeopleReader(t, flowCtx, `
      filter: {op: ">", args: [{col: p.id}, {const: "1"}]}
      render:
      - {name: older, expr: {op: "+", args: [{col: p.age}, {const: "1"}]}}
  post:
    limit: 2
`)
	require.NoError(t, op.Init(ctx))
	first := readAll(t, ctx, op)
	require.Equal(t, []string{"[NULL]", "[42]"}, first)
	require.NoError(t, op.Rescan(ctx))
	require.Equal(t, first, readAll(t, ctx, op))
	require.NoError(t, op.Close(ctx))

	stats := execinfra.CollectStats(op)
	require.Len(t, stats, 2)
	require.Equal(t, limiterOpName, stats[0].Component)
	require.Equal(t, tableReaderOpName, stats[1].Component)
	require.Equal(t, uint64(4), stats[0].Output.NumTuples)
}

func TestLimiter(t *testing.T) {
	defer leaktest.AfterTest(t)()

	ctx := context.Background()
	flowCtx := execinfra.NewTestFlowCtx()
	for _, tc := range []struct {
		offset, limit uint64
		expected      []string
	}{
		{0, 0, []string{"[1 a]", "[2 b]", "[2 c]", "[NULL d]", "[4 e]"}},
		{0, 2, []string{"[1 a]", "[2 b]"}},
		{3, 0, []string{"[NULL d]", "[4 e]"}},
		{1, 1, []string{"[2 b]"}},
		{9, 1, nil},
	} {
		t.Run(fmt.Sprintf("offset=%d/limit=%d", tc.offset, tc.limit), func(t *testing.T) {
			input := mustValues(t, flowCtx, leftSchema, leftRows())
			l := NewLimiter(flowCtx, input, tc.offset, tc.limit)
			require.NoError(t, l.Init(ctx))
			require.Equal(t, tc.expected, readAll(t, ctx, l))
			require.NoError(t, l.Close(ctx))
			if tc.limit > 0 {
				// The input is not read past the last row needed.
				stats := input.Stats()
				require.LessOrEqual(t, stats.Output.NumTuples, tc.offset+tc.limit)
			}
		})
	}
}

func TestFiltererAndProjection(t *testing.T) {
	defer leaktest.AfterTest(t)()

	ctx := context.Background()
	flowCtx := execinfra.NewTestFlowCtx()
	input := mustValues(t, flowCtx, leftSchema, leftRows())

	filter, err := execinfra.ExprFromSpec(
		execinfrapb.Op("is_not_null", execinfrapb.Col("l.k")), leftSchema)
	require.NoError(t, err)
	f, err := NewFilterer(flowCtx, input, filter)
	require.NoError(t, err)

	targets, err := execinfra.TargetsFromSpec([]execinfrapb.TargetSpec{
		{Name: "v", Expr: execinfrapb.Func("upper", execinfrapb.Col("l.v"))},
		{Expr: execinfrapb.Op("*", execinfrapb.Col("l.k"), execinfrapb.Const("10", "int4"))},
	}, leftSchema)
	require.NoError(t, err)
	p, err := NewProjection(flowCtx, f, targets)
	require.NoError(t, err)
	require.Equal(t, "(v text, column2 int4)", p.OutputSchema().String())

	rows, err := Drain(ctx, p)
	require.NoError(t, err)
	require.Equal(t, []rowenc.Datums{
		{tree.DText("A"), tree.DInt4(10)},
		{tree.DText("B"), tree.DInt4(20)},
		{tree.DText("C"), tree.DInt4(20)},
		{tree.DText("E"), tree.DInt4(40)},
	}, rows)

	// A filter must be a predicate.
	notBool, err := execinfra.ExprFromSpec(execinfrapb.Col("l.v"), leftSchema)
	require.NoError(t, err)
	_, err = NewFilterer(flowCtx, mustValues(t, flowCtx, leftSchema, nil), notBool)
	require.Equal(t, pgcode.DatatypeMismatch, pgerror.GetPGCode(err))
}
