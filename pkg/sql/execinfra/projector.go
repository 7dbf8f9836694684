// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package execinfra

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/execcore/pkg/sql/catalog/colinfo"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc"
	"github.com/cockroachdb/execcore/pkg/sql/sem/eval"
)

// Projector computes an output row from an input row, one target
// expression per output column. The projector itself is immutable and may
// be shared; all per-evaluation state lives in the contexts returned by
// NewContexts, so evaluating a row allocates nothing beyond what the target
// expressions themselves produce.
type Projector struct {
	inSchema  *colinfo.Schema
	outSchema *colinfo.Schema
	targets   []eval.Expr
}

// NewProjector returns a projector from rows of inSchema to rows of
// outSchema. The column references of every target are resolved against
// inSchema, and target i must produce a value compatible with output
// column i.
func NewProjector(inSchema, outSchema *colinfo.Schema, targets []eval.Expr) (*Projector, error) {
	if len(targets) != outSchema.Len() {
		return nil, errors.AssertionFailedf(
			"%d targets for output schema %s", len(targets), outSchema)
	}
	for i, target := range targets {
		for _, f := range eval.Fields(target) {
			if _, err := f.Ordinal(inSchema); err != nil {
				return nil, err
			}
		}
		col := outSchema.Column(i)
		if !target.ResolvedType().Equivalent(col.Type) {
			return nil, pgerror.Newf(pgcode.DatatypeMismatch,
				"target %s of type %s cannot produce column %s", target, target.ResolvedType(), col)
		}
	}
	return &Projector{inSchema: inSchema, outSchema: outSchema, targets: targets}, nil
}

// InputSchema returns the schema of the rows passed to Eval.
func (p *Projector) InputSchema() *colinfo.Schema { return p.inSchema }

// OutputSchema returns the schema of the rows filled in by Terminate.
func (p *Projector) OutputSchema() *colinfo.Schema { return p.outSchema }

// NewContexts returns fresh evaluation contexts, one per target.
func (p *Projector) NewContexts() []eval.Context {
	ctxs := make([]eval.Context, len(p.targets))
	for i, target := range p.targets {
		ctxs[i] = target.NewContext()
	}
	return ctxs
}

// Eval evaluates every target against in.
func (p *Projector) Eval(ctxs []eval.Context, in rowenc.Tuple) error {
	for i, target := range p.targets {
		if err := target.Eval(ctxs[i], p.inSchema, in); err != nil {
			return err
		}
	}
	return nil
}

// Terminate stores the result of every target in out.
func (p *Projector) Terminate(ctxs []eval.Context, out rowenc.Tuple) {
	for i, target := range p.targets {
		out.Put(i, target.Terminate(ctxs[i]))
	}
}

// Project evaluates in and stores the result in out.
func (p *Projector) Project(ctxs []eval.Context, in, out rowenc.Tuple) error {
	if err := p.Eval(ctxs, in); err != nil {
		return err
	}
	p.Terminate(ctxs, out)
	return nil
}

// Target is a named output expression.
type Target struct {
	Name string
	Expr eval.Expr
}

// TargetSchema returns the schema of the rows produced by targets: one
// column per target, named after it and typed after its expression.
func TargetSchema(targets []Target) (*colinfo.Schema, error) {
	cols := make([]colinfo.Column, len(targets))
	for i, t := range targets {
		cols[i] = colinfo.MakeColumn(t.Name, t.Expr.ResolvedType())
	}
	return colinfo.NewSchema(cols...)
}

// NewTargetProjector returns a projector for targets along with its output
// schema.
func NewTargetProjector(inSchema *colinfo.Schema, targets []Target) (*Projector, error) {
	outSchema, err := TargetSchema(targets)
	if err != nil {
		return nil, err
	}
	exprs := make([]eval.Expr, len(targets))
	for i := range targets {
		exprs[i] = targets[i].Expr
	}
	return NewProjector(inSchema, outSchema, exprs)
}
