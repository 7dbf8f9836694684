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
	"github.com/cockroachdb/execcore/pkg/sql/rowenc"
	"github.com/cockroachdb/execcore/pkg/sql/sem/eval"
)

// NestedLoopJoiner joins every row of its left input with every row of its
// right input for which the ON condition holds. The right input is rescanned
// once per left row, so it must be cheap to rescan.
type NestedLoopJoiner struct {
	joinerBase

	leftRow         rowenc.Tuple
	matched         bool
	scanningRight   bool
	needRightRescan bool
}

var _ execinfra.OpNode = &NestedLoopJoiner{}

const nestedLoopJoinerOpName = "nestedloopjoiner"

// NewNestedLoopJoiner returns a nested loop join of left and right. onCond,
// which may be nil, is evaluated against the left columns followed by the
// right columns.
func NewNestedLoopJoiner(
	flowCtx *execinfra.FlowCtx,
	left, right execinfra.Operator,
	joinType execinfrapb.JoinType,
	onCond eval.Expr,
) (*NestedLoopJoiner, error) {
	n := &NestedLoopJoiner{}
	if err := n.joinerBase.init(flowCtx, nestedLoopJoinerOpName, left, right, joinType, onCond); err != nil {
		return nil, err
	}
	return n, nil
}

// Next implements the Operator interface.
func (n *NestedLoopJoiner) Next(ctx context.Context) (rowenc.Tuple, error) {
	if err := n.MustBeRunning(); err != nil || n.State == execinfra.StateExhausted {
		return nil, err
	}
	for {
		if !n.scanningRight {
			row, err := n.NextInput(ctx, 0)
			if err != nil {
				return nil, err
			}
			if row == nil {
				n.MoveToExhausted()
				return nil, nil
			}
			if n.needRightRescan {
				if err := n.Inputs()[1].Rescan(ctx); err != nil {
					return nil, errors.Wrap(err, "rescanning right input")
				}
				n.needRightRescan = false
			}
			n.leftRow = row
			n.matched = false
			n.scanningRight = true
		}

		rightRow, err := n.NextInput(ctx, 1)
		if err != nil {
			return nil, err
		}
		if rightRow == nil {
			n.needRightRescan = true
			n.scanningRight = false
			if n.matched {
				continue
			}
			if out := n.render(n.leftRow, nil); out != nil {
				return n.Emit(out), nil
			}
			continue
		}
		ok, err := n.matches(n.leftRow, rightRow)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		n.matched = true
		if n.emitsFirstMatchOnly() {
			// The rest of the right input is skipped; it is rescanned for the
			// next left row.
			n.scanningRight = false
			n.needRightRescan = true
		}
		if out := n.render(n.leftRow, rightRow); out != nil {
			return n.Emit(out), nil
		}
	}
}

// Rescan implements the Operator interface.
func (n *NestedLoopJoiner) Rescan(ctx context.Context) error {
	if err := n.RescanInternal(ctx); err != nil {
		return err
	}
	n.leftRow = nil
	n.matched = false
	n.scanningRight = false
	n.needRightRescan = false
	return nil
}
