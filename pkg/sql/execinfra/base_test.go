// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package execinfra

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/execcore/pkg/sql/catalog/colinfo"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc"
	"github.com/cockroachdb/execcore/pkg/sql/sem/tree"
	"github.com/cockroachdb/execcore/pkg/sql/types"
	"github.com/cockroachdb/execcore/pkg/util/leaktest"
	"github.com/cockroachdb/execcore/pkg/util/log"
	"github.com/stretchr/testify/require"
)

// sliceOp is a leaf operator over a fixed list of rows.
type sliceOp struct {
	OperatorBase
	rows   []rowenc.Datums
	idx    int
	closes int
}

func newSliceOp(flowCtx *FlowCtx, schema *colinfo.Schema, rows ...rowenc.Datums) *sliceOp {
	s := &sliceOp{rows: rows}
	s.InitBase(flowCtx, "slice", schema)
	return s
}

func (s *sliceOp) Init(ctx context.Context) error {
	_, err := s.StartInternal(ctx)
	return err
}

func (s *sliceOp) Next(context.Context) (rowenc.Tuple, error) {
	if err := s.MustBeRunning(); err != nil || s.State == StateExhausted {
		return nil, err
	}
	if s.idx >= len(s.rows) {
		s.MoveToExhausted()
		return nil, nil
	}
	s.idx++
	return s.Emit(s.rows[s.idx-1]), nil
}

func (s *sliceOp) Rescan(ctx context.Context) error {
	s.idx = 0
	return s.RescanInternal(ctx)
}

func (s *sliceOp) Close(ctx context.Context) error {
	if !s.InternalClose() {
		return nil
	}
	s.closes++
	return nil
}

// passOp forwards the rows of its input.
type passOp struct {
	OperatorBase
}

func (p *passOp) Init(ctx context.Context) error {
	_, err := p.StartInternal(ctx)
	return err
}

func (p *passOp) Next(ctx context.Context) (rowenc.Tuple, error) {
	if err := p.MustBeRunning(); err != nil || p.State == StateExhausted {
		return nil, err
	}
	row, err := p.NextInput(ctx, 0)
	if err != nil || row == nil {
		p.MoveToExhausted()
		return nil, err
	}
	return p.Emit(row), nil
}

var kvSchema = colinfo.MustNewSchema(
	colinfo.MakeColumn("kv.k", types.Int4),
	colinfo.MakeColumn("kv.v", types.Text),
)

func kvRows() []rowenc.Datums {
	return []rowenc.Datums{
		{tree.DInt4(1), tree.DText("a")},
		{tree.DInt4(2), tree.DNull},
	}
}

func TestOperatorBaseLifecycle(t *testing.T) {
	defer leaktest.AfterTest(t)()
	defer log.Scope(t).Close(t)

	ctx := context.Background()
	flowCtx := NewTestFlowCtx()
	leaf := newSliceOp(flowCtx, kvSchema, kvRows()...)
	op := &passOp{}
	op.InitBase(flowCtx, "pass", kvSchema, leaf)

	// Next before Init is an assertion failure.
	_, err := op.Next(ctx)
	require.True(t, errors.IsAssertionFailure(err))
	require.Equal(t, pgcode.Internal, pgerror.GetPGCode(err))

	require.NoError(t, op.Init(ctx))
	require.Equal(t, StateRunning, leaf.State)
	require.True(t, errors.IsAssertionFailure(op.Init(ctx)))

	drain := func() []string {
		var res []string
		for {
			row, err := op.Next(ctx)
			require.NoError(t, err)
			if row == nil {
				return res
			}
			res = append(res, rowenc.String(row))
		}
	}
	first := drain()
	require.Equal(t, []string{"[1 a]", "[2 NULL]"}, first)
	// End of stream is stable.
	for i := 0; i < 3; i++ {
		row, err := op.Next(ctx)
		require.NoError(t, err)
		require.Nil(t, row)
	}
	require.Equal(t, StateExhausted, op.State)

	// Rescan replays the same rows.
	require.NoError(t, op.Rescan(ctx))
	require.Equal(t, first, drain())

	stats := CollectStats(op)
	require.Len(t, stats, 2)
	require.Equal(t, "pass", stats[0].Component)
	require.Equal(t, uint64(4), stats[0].Inputs[0].NumTuples)
	require.Equal(t, uint64(4), stats[0].Output.NumTuples)
	require.Equal(t, "slice", stats[1].Component)

	// Close is idempotent and closes the inputs once.
	require.NoError(t, op.Close(ctx))
	require.NoError(t, op.Close(ctx))
	require.Equal(t, 1, leaf.closes)
	require.Equal(t, StateClosed, op.State)

	_, err = op.Next(ctx)
	require.True(t, errors.IsAssertionFailure(err))
	require.True(t, errors.IsAssertionFailure(op.Rescan(ctx)))
}

func TestCloseWithoutInit(t *testing.T) {
	defer leaktest.AfterTest(t)()

	leaf := newSliceOp(NewTestFlowCtx(), kvSchema)
	require.NoError(t, leaf.Close(context.Background()))
	require.Equal(t, 1, leaf.closes)
	require.Equal(t, StateClosed, leaf.State)
}

func TestFlowCtxSettings(t *testing.T) {
	defer leaktest.AfterTest(t)()

	flowCtx := NewTestFlowCtx()
	require.Equal(t, HashJoin, flowCtx.JoinAlgorithm())
	require.Equal(t, 64, flowCtx.HashJoinInitialCapacity())
	require.True(t, flowCtx.LenientDecode())
	require.Equal(t, `\N`, flowCtx.NullMarker())
	require.Equal(t, "|", flowCtx.TextDelimiter())

	require.NoError(t, flowCtx.Settings.Set("sql.exec.join.algorithm", "nested_loop"))
	require.Equal(t, NestedLoopJoin, flowCtx.JoinAlgorithm())
	require.Equal(t, "nested_loop", flowCtx.JoinAlgorithm().String())
	require.Error(t, flowCtx.Settings.Set("sql.exec.join.algorithm", "merge"))
	require.Error(t, flowCtx.Settings.Set("sql.exec.hash_join.initial_capacity", "0"))

	algo, ok := ParseJoinAlgorithm("HASH")
	require.True(t, ok)
	require.Equal(t, HashJoin, algo)
	_, ok = ParseJoinAlgorithm("sort_merge")
	require.False(t, ok)
}
