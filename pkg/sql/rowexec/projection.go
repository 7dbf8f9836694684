// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rowexec

import (
	"context"

	"github.com/cockroachdb/execcore/pkg/sql/execinfra"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc"
	"github.com/cockroachdb/execcore/pkg/sql/sem/eval"
)

// Projection computes a target list over the rows of its input. The output
// row is reused across calls to Next.
type Projection struct {
	execinfra.OperatorBase

	projector *execinfra.Projector
	ctxs      []eval.Context
	out       rowenc.Datums
}

var _ execinfra.OpNode = &Projection{}

const projectionOpName = "projection"

// NewProjection returns an operator projecting input onto targets.
func NewProjection(
	flowCtx *execinfra.FlowCtx, input execinfra.Operator, targets []execinfra.Target,
) (*Projection, error) {
	p, err := execinfra.NewTargetProjector(input.OutputSchema(), targets)
	if err != nil {
		return nil, err
	}
	proj := &Projection{
		projector: p,
		ctxs:      p.NewContexts(),
		out:       rowenc.MakeDatums(len(targets)),
	}
	proj.InitBase(flowCtx, projectionOpName, p.OutputSchema(), input)
	return proj, nil
}

// Init implements the Operator interface.
func (p *Projection) Init(ctx context.Context) error {
	_, err := p.StartInternal(ctx)
	return err
}

// Next implements the Operator interface.
func (p *Projection) Next(ctx context.Context) (rowenc.Tuple, error) {
	if err := p.MustBeRunning(); err != nil || p.State == execinfra.StateExhausted {
		return nil, err
	}
	row, err := p.NextInput(ctx, 0)
	if err != nil {
		return nil, err
	}
	if row == nil {
		p.MoveToExhausted()
		return nil, nil
	}
	if err := p.projector.Project(p.ctxs, row, p.out); err != nil {
		return nil, err
	}
	if err := rowenc.Err(row); err != nil {
		return nil, err
	}
	return p.Emit(p.out), nil
}
