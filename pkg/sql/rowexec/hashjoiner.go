// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rowexec

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/execcore/pkg/sql/execinfra"
	"github.com/cockroachdb/execcore/pkg/sql/execinfrapb"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/execcore/pkg/sql/rowcontainer"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc"
	"github.com/cockroachdb/execcore/pkg/sql/sem/eval"
	"github.com/cockroachdb/execcore/pkg/util/log"
	"github.com/dustin/go-humanize"
)

// hashJoinerState represents the state of the hash joiner.
type hashJoinerState int

const (
	// hjBuilding is the initial state. The first call to Next reads the
	// whole right input into the hash table.
	hjBuilding hashJoinerState = iota
	// hjNeedProbeTuple represents that the joiner must read the next row of
	// the left input and look it up in the hash table.
	hjNeedProbeTuple
	// hjDrainingMatches represents that the joiner is iterating over the
	// stored rows matching the current probe row.
	hjDrainingMatches
	// hjFinished represents that the left input is exhausted.
	hjFinished
)

func (s hashJoinerState) String() string {
	switch s {
	case hjBuilding:
		return "Building"
	case hjNeedProbeTuple:
		return "NeedProbeTuple"
	case hjDrainingMatches:
		return "DrainingMatches"
	case hjFinished:
		return "Finished"
	}
	return "unknown"
}

// HashJoiner performs an equality join. The right input is the build side:
// it is read entirely into a hash table keyed by the right equality columns
// before the first row is returned. The left input is the probe side and is
// streamed. Rows whose key contains a NULL never match.
//
// A residual ON condition is evaluated for every pair of rows with equal
// keys. A probe row none of whose candidates satisfies it is treated as
// unmatched: a left outer join emits it padded with NULLs and a left anti
// join emits it.
type HashJoiner struct {
	joinerBase

	leftEqCols  []int
	rightEqCols []int

	runningState hashJoinerState
	container    *rowcontainer.HashRowContainer
	probeRow     rowenc.Tuple
	candidates   rowcontainer.HashIterator
	matched      bool
}

var _ execinfra.OpNode = &HashJoiner{}

const hashJoinerOpName = "hashjoiner"

// NewHashJoiner returns a hash join of left and right on the given equality
// columns, which are ordinals of the respective input schemas. onCond, which
// may be nil, is the residual condition evaluated against the left columns
// followed by the right columns.
func NewHashJoiner(
	flowCtx *execinfra.FlowCtx,
	left, right execinfra.Operator,
	joinType execinfrapb.JoinType,
	leftEqCols, rightEqCols []int,
	onCond eval.Expr,
) (*HashJoiner, error) {
	if len(leftEqCols) != len(rightEqCols) {
		return nil, errors.AssertionFailedf(
			"%d left equality columns but %d right ones", len(leftEqCols), len(rightEqCols))
	}
	leftSchema, rightSchema := left.OutputSchema(), right.OutputSchema()
	for i := range leftEqCols {
		l, r := leftEqCols[i], rightEqCols[i]
		if l < 0 || l >= leftSchema.Len() || r < 0 || r >= rightSchema.Len() {
			return nil, errors.AssertionFailedf("equality columns (%d, %d) out of range", l, r)
		}
		if lt, rt := leftSchema.Column(l).Type, rightSchema.Column(r).Type; !lt.Equivalent(rt) {
			return nil, errors.WithHint(
				pgerror.Newf(pgcode.DatatypeMismatch,
					"cannot join %s with %s", leftSchema.Column(l), rightSchema.Column(r)),
				"equality columns must have comparable types")
		}
	}
	h := &HashJoiner{
		leftEqCols:  leftEqCols,
		rightEqCols: rightEqCols,
		container: rowcontainer.NewHashRowContainer(
			rightEqCols, flowCtx.HashJoinInitialCapacity(), flowCtx.Metrics),
	}
	if err := h.joinerBase.init(flowCtx, hashJoinerOpName, left, right, joinType, onCond); err != nil {
		return nil, err
	}
	return h, nil
}

// Next implements the Operator interface.
func (h *HashJoiner) Next(ctx context.Context) (rowenc.Tuple, error) {
	if err := h.MustBeRunning(); err != nil || h.State == execinfra.StateExhausted {
		return nil, err
	}
	for {
		var row rowenc.Tuple
		var err error
		switch h.runningState {
		case hjBuilding:
			err = h.build(ctx)
		case hjNeedProbeTuple:
			err = h.nextProbeTuple(ctx)
		case hjDrainingMatches:
			row, err = h.drainMatches()
		case hjFinished:
			h.MoveToExhausted()
			return nil, nil
		default:
			err = errors.AssertionFailedf("unexpected state %s", h.runningState)
		}
		if err != nil {
			return nil, err
		}
		if row != nil {
			return h.Emit(row), nil
		}
	}
}

// build reads the right input into the hash table.
func (h *HashJoiner) build(ctx context.Context) error {
	for {
		row, err := h.NextInput(ctx, 1)
		if err != nil {
			return err
		}
		if row == nil {
			break
		}
		if _, err := h.container.AddRow(ctx, row); err != nil {
			return err
		}
	}
	log.VEventf(ctx, 1, "built hash table: %d rows, %d keys, %d NULL keys, %s",
		h.container.Len(), h.container.NumKeys(), h.container.NullKeys(),
		humanize.IBytes(uint64(h.container.MemUsage())))
	h.runningState = hjNeedProbeTuple
	return nil
}

// nextProbeTuple reads the next left row and looks up its matches.
func (h *HashJoiner) nextProbeTuple(ctx context.Context) error {
	row, err := h.NextInput(ctx, 0)
	if err != nil {
		return err
	}
	if row == nil {
		h.runningState = hjFinished
		return nil
	}
	h.candidates, err = h.container.Find(row, h.leftEqCols)
	if err != nil {
		return err
	}
	h.probeRow = row
	h.matched = false
	h.runningState = hjDrainingMatches
	return nil
}

// drainMatches returns the next output row for the current probe row, or
// nil once the probe row produced all its output.
func (h *HashJoiner) drainMatches() (rowenc.Tuple, error) {
	for h.candidates.Valid() {
		buildRow := h.candidates.Row()
		h.candidates.Next()
		ok, err := h.matches(h.probeRow, buildRow)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		h.matched = true
		if h.emitsFirstMatchOnly() {
			h.runningState = hjNeedProbeTuple
		}
		return h.render(h.probeRow, buildRow), nil
	}
	h.runningState = hjNeedProbeTuple
	if h.matched {
		return nil, nil
	}
	return h.render(h.probeRow, nil), nil
}

// Rescan implements the Operator interface. The hash table is discarded and
// rebuilt by the next call to Next.
func (h *HashJoiner) Rescan(ctx context.Context) error {
	if err := h.RescanInternal(ctx); err != nil {
		return err
	}
	h.container.Reset(ctx)
	h.runningState = hjBuilding
	h.probeRow = nil
	h.candidates = rowcontainer.HashIterator{}
	return nil
}

// Close implements the Operator interface.
func (h *HashJoiner) Close(ctx context.Context) error {
	if !h.InternalClose() {
		return nil
	}
	h.container.Close(ctx)
	h.probeRow = nil
	return h.CloseInputs(ctx)
}
