// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rowexec

import (
	"context"

	"github.com/cockroachdb/execcore/pkg/sql/execinfra"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc"
)

// Limiter skips the first offset rows of its input and then passes at most
// limit rows. A limit of zero means no limit. The input is not read past
// the last row passed.
type Limiter struct {
	execinfra.OperatorBase

	offset, limit uint64
	seen, emitted uint64
}

var _ execinfra.OpNode = &Limiter{}

const limiterOpName = "limiter"

// NewLimiter returns an operator applying offset and limit to input.
func NewLimiter(
	flowCtx *execinfra.FlowCtx, input execinfra.Operator, offset, limit uint64,
) *Limiter {
	l := &Limiter{offset: offset, limit: limit}
	l.InitBase(flowCtx, limiterOpName, input.OutputSchema(), input)
	return l
}

// Init implements the Operator interface.
func (l *Limiter) Init(ctx context.Context) error {
	_, err := l.StartInternal(ctx)
	return err
}

// Next implements the Operator interface.
func (l *Limiter) Next(ctx context.Context) (rowenc.Tuple, error) {
	if err := l.MustBeRunning(); err != nil || l.State == execinfra.StateExhausted {
		return nil, err
	}
	for {
		if l.limit > 0 && l.emitted >= l.limit {
			l.MoveToExhausted()
			return nil, nil
		}
		row, err := l.NextInput(ctx, 0)
		if err != nil {
			return nil, err
		}
		if row == nil {
			l.MoveToExhausted()
			return nil, nil
		}
		l.seen++
		if l.seen <= l.offset {
			continue
		}
		l.emitted++
		return l.Emit(row), nil
	}
}

// Rescan implements the Operator interface.
func (l *Limiter) Rescan(ctx context.Context) error {
	if err := l.RescanInternal(ctx); err != nil {
		return err
	}
	l.seen, l.emitted = 0, 0
	return nil
}
