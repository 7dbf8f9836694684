// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rowexec

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/execcore/pkg/sql/catalog/colinfo"
	"github.com/cockroachdb/execcore/pkg/sql/execinfra"
	"github.com/cockroachdb/execcore/pkg/sql/execinfrapb"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc"
	"github.com/cockroachdb/execcore/pkg/sql/sem/eval"
)

// joinerBase is the part shared by the joiners: the frame over a pair of
// rows, the ON condition evaluated against it and the NULL row standing in
// for a missing right side.
type joinerBase struct {
	execinfra.OperatorBase

	joinType execinfrapb.JoinType
	// frameSchema is the schema of the left columns followed by the right
	// columns. ON conditions are resolved against it.
	frameSchema *colinfo.Schema
	frame       *rowenc.FrameTuple
	emptyRight  rowenc.Datums

	onCond eval.Expr
	onCtx  eval.Context
}

func (jb *joinerBase) init(
	flowCtx *execinfra.FlowCtx,
	name string,
	left, right execinfra.Operator,
	joinType execinfrapb.JoinType,
	onCond eval.Expr,
) error {
	switch joinType {
	case execinfrapb.InnerJoin, execinfrapb.LeftOuterJoin,
		execinfrapb.LeftSemiJoin, execinfrapb.LeftAntiJoin:
	default:
		return errors.AssertionFailedf("unsupported join type %s", joinType)
	}
	frameSchema, err := colinfo.Merge(left.OutputSchema(), right.OutputSchema())
	if err != nil {
		return err
	}
	if onCond != nil {
		if err := checkPredicate(onCond, frameSchema); err != nil {
			return errors.Wrap(err, "ON condition")
		}
		jb.onCond = onCond
		jb.onCtx = onCond.NewContext()
	}
	jb.joinType = joinType
	jb.frameSchema = frameSchema
	jb.emptyRight = rowenc.NullPadded(right.OutputSchema().Len())
	jb.frame = rowenc.NewFrameTuple(rowenc.NullPadded(left.OutputSchema().Len()), jb.emptyRight)

	outSchema := left.OutputSchema()
	if joinType.ShouldIncludeRightColsInOutput() {
		outSchema = frameSchema
	}
	jb.InitBase(flowCtx, name, outSchema, left, right)
	return nil
}

// Init implements the Operator interface.
func (jb *joinerBase) Init(ctx context.Context) error {
	_, err := jb.StartInternal(ctx)
	return err
}

// matches points the frame at (left, right) and evaluates the ON condition
// against it. A NULL condition is not a match.
func (jb *joinerBase) matches(left, right rowenc.Tuple) (bool, error) {
	jb.frame.Set(left, right)
	if jb.onCond == nil {
		return true, nil
	}
	ok, err := eval.EvalPredicate(jb.onCond, jb.onCtx, jb.frameSchema, jb.frame)
	if err != nil {
		return false, err
	}
	return ok, jb.frame.Err()
}

// render returns the output row for a left row and its match. right is nil
// if the left row had no match; the result is nil if no row is to be
// emitted for the pair.
func (jb *joinerBase) render(left, right rowenc.Tuple) rowenc.Tuple {
	switch jb.joinType {
	case execinfrapb.InnerJoin:
		if right == nil {
			return nil
		}
	case execinfrapb.LeftOuterJoin:
		if right == nil {
			right = jb.emptyRight
		}
	case execinfrapb.LeftSemiJoin:
		if right == nil {
			return nil
		}
		return left
	case execinfrapb.LeftAntiJoin:
		if right != nil {
			return nil
		}
		return left
	}
	jb.frame.Set(left, right)
	return jb.frame
}

// emitsFirstMatchOnly returns whether a left row produces at most one output
// row, in which case its remaining matches need not be visited.
func (jb *joinerBase) emitsFirstMatchOnly() bool {
	return jb.joinType == execinfrapb.LeftSemiJoin || jb.joinType == execinfrapb.LeftAntiJoin
}
