// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package rowexec contains the row-at-a-time operators of an execution plan
// and the planner that turns a physical plan spec into a tree of them.
package rowexec

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/execcore/pkg/sql/catalog/colinfo"
	"github.com/cockroachdb/execcore/pkg/sql/execinfra"
	"github.com/cockroachdb/execcore/pkg/sql/execinfrapb"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc"
	"github.com/cockroachdb/execcore/pkg/sql/sem/eval"
	"github.com/cockroachdb/execcore/pkg/util/log"
)

// NewOperator builds the operator tree of a plan. The setting overrides of
// the plan are applied to flowCtx.Settings first, so they are visible to
// every operator of the flow.
func NewOperator(
	ctx context.Context, flowCtx *execinfra.FlowCtx, spec *execinfrapb.PlanSpec,
) (execinfra.Operator, error) {
	for key, value := range spec.Settings {
		if err := flowCtx.Settings.Set(key, value); err != nil {
			return nil, errors.Wrap(err, "applying plan settings")
		}
	}
	if err := spec.Root.Validate(); err != nil {
		return nil, err
	}
	return newProcessor(ctx, flowCtx, &spec.Root)
}

// newProcessor builds the operator of spec and its inputs, followed by the
// operators implementing its post-processing.
func newProcessor(
	ctx context.Context, flowCtx *execinfra.FlowCtx, spec *execinfrapb.ProcessorSpec,
) (execinfra.Operator, error) {
	inputs := make([]execinfra.Operator, len(spec.Input))
	for i := range spec.Input {
		input, err := newProcessor(ctx, flowCtx, &spec.Input[i])
		if err != nil {
			return nil, err
		}
		inputs[i] = input
	}
	op, err := newProcessorCore(ctx, flowCtx, &spec.Core, inputs)
	if err != nil {
		return nil, errors.Wrapf(err, "planning %s", spec.Core.Name())
	}
	op, err = newPostProcessor(flowCtx, &spec.Post, op)
	if err != nil {
		return nil, errors.Wrapf(err, "planning post-processing of %s", spec.Core.Name())
	}
	return op, nil
}

func newProcessorCore(
	ctx context.Context,
	flowCtx *execinfra.FlowCtx,
	core *execinfrapb.ProcessorCoreUnion,
	inputs []execinfra.Operator,
) (execinfra.Operator, error) {
	switch {
	case core.Values != nil:
		return newValuesFromSpec(flowCtx, core.Values)
	case core.TableReader != nil:
		return newTableReaderFromSpec(flowCtx, core.TableReader)
	case core.Filterer != nil:
		filter, err := execinfra.ExprFromSpec(core.Filterer.Filter, inputs[0].OutputSchema())
		if err != nil {
			return nil, err
		}
		return NewFilterer(flowCtx, inputs[0], filter)
	case core.Projection != nil:
		targets, err := execinfra.TargetsFromSpec(core.Projection.Render, inputs[0].OutputSchema())
		if err != nil {
			return nil, err
		}
		return NewProjection(flowCtx, inputs[0], targets)
	case core.Joiner != nil:
		return newJoiner(ctx, flowCtx, core.Joiner, inputs[0], inputs[1])
	}
	return nil, errors.AssertionFailedf("empty processor core")
}

// newPostProcessor wraps op with the filter, render, offset and limit of
// post, in that order.
func newPostProcessor(
	flowCtx *execinfra.FlowCtx, post *execinfrapb.PostProcessSpec, op execinfra.Operator,
) (execinfra.Operator, error) {
	if post.Filter != nil {
		filter, err := execinfra.ExprFromSpec(*post.Filter, op.OutputSchema())
		if err != nil {
			return nil, err
		}
		if op, err = NewFilterer(flowCtx, op, filter); err != nil {
			return nil, err
		}
	}
	if len(post.Render) > 0 {
		targets, err := execinfra.TargetsFromSpec(post.Render, op.OutputSchema())
		if err != nil {
			return nil, err
		}
		if op, err = NewProjection(flowCtx, op, targets); err != nil {
			return nil, err
		}
	}
	if post.Offset > 0 || post.Limit > 0 {
		op = NewLimiter(flowCtx, op, post.Offset, post.Limit)
	}
	return op, nil
}

// newJoiner chooses the join algorithm. Anti and semi joins always use a
// hash join; the other join types follow the spec's algorithm, or the
// flow's hint if the spec does not name one.
func newJoiner(
	ctx context.Context,
	flowCtx *execinfra.FlowCtx,
	spec *execinfrapb.JoinerSpec,
	left, right execinfra.Operator,
) (execinfra.Operator, error) {
	leftSchema, rightSchema := left.OutputSchema(), right.OutputSchema()
	frameSchema, err := colinfo.Merge(leftSchema, rightSchema)
	if err != nil {
		return nil, err
	}
	var onCond eval.Expr
	if spec.OnExpr != nil {
		if onCond, err = execinfra.ExprFromSpec(*spec.OnExpr, frameSchema); err != nil {
			return nil, errors.Wrap(err, "ON condition")
		}
	}

	algorithm := flowCtx.JoinAlgorithm()
	if spec.Algorithm != "" {
		var ok bool
		if algorithm, ok = execinfra.ParseJoinAlgorithm(spec.Algorithm); !ok {
			return nil, pgerror.Newf(pgcode.InvalidParameterValue,
				"unknown join algorithm %q", spec.Algorithm)
		}
	}
	switch spec.Type {
	case execinfrapb.LeftSemiJoin, execinfrapb.LeftAntiJoin:
		if algorithm != execinfra.HashJoin {
			log.VEventf(ctx, 1, "using a hash join for %s join", spec.Type)
		}
		algorithm = execinfra.HashJoin
	}
	if algorithm == execinfra.NestedLoopJoin {
		return NewNestedLoopJoiner(flowCtx, left, right, spec.Type, onCond)
	}

	var leftEqCols, rightEqCols []int
	residual := onCond
	if len(spec.LeftEqColumns) > 0 || len(spec.RightEqColumns) > 0 {
		if len(spec.LeftEqColumns) != len(spec.RightEqColumns) {
			return nil, pgerror.Newf(pgcode.SyntaxError,
				"%d left equality columns but %d right ones",
				len(spec.LeftEqColumns), len(spec.RightEqColumns))
		}
		if leftEqCols, err = resolveColumns(leftSchema, spec.LeftEqColumns); err != nil {
			return nil, err
		}
		if rightEqCols, err = resolveColumns(rightSchema, spec.RightEqColumns); err != nil {
			return nil, err
		}
	} else if onCond != nil {
		if leftEqCols, rightEqCols, residual, err = eval.ExtractEquiJoinKeys(
			onCond, leftSchema, rightSchema,
		); err != nil {
			return nil, err
		}
	}
	if len(leftEqCols) == 0 {
		log.VEventf(ctx, 1, "hash join without equality columns")
	}
	return NewHashJoiner(flowCtx, left, right, spec.Type, leftEqCols, rightEqCols, residual)
}

func resolveColumns(schema *colinfo.Schema, names []string) ([]int, error) {
	ords := make([]int, len(names))
	for i, name := range names {
		ord, err := schema.ColumnIndex(name)
		if err != nil {
			return nil, err
		}
		ords[i] = ord
	}
	return ords, nil
}

// Drain initializes op, reads all its rows and closes it. The rows are
// copied, so they remain valid after the operator moves on.
func Drain(ctx context.Context, op execinfra.Operator) (_ []rowenc.Datums, retErr error) {
	defer func() {
		retErr = errors.CombineErrors(retErr, op.Close(ctx))
	}()
	if err := op.Init(ctx); err != nil {
		return nil, err
	}
	var alloc rowenc.DatumAlloc
	var rows []rowenc.Datums
	for {
		row, err := op.Next(ctx)
		if err != nil {
			return nil, err
		}
		if row == nil {
			return rows, nil
		}
		copied := alloc.CopyRow(row)
		if err := rowenc.Err(row); err != nil {
			return nil, err
		}
		rows = append(rows, copied)
	}
}
