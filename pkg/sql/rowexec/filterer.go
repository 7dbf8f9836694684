// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rowexec

import (
	"context"

	"github.com/cockroachdb/execcore/pkg/sql/catalog/colinfo"
	"github.com/cockroachdb/execcore/pkg/sql/execinfra"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc"
	"github.com/cockroachdb/execcore/pkg/sql/sem/eval"
	"github.com/cockroachdb/execcore/pkg/sql/types"
)

// Filterer passes the rows of its input for which a predicate is true.
type Filterer struct {
	execinfra.OperatorBase

	filter eval.Expr
	ctx    eval.Context
}

var _ execinfra.OpNode = &Filterer{}

const filtererOpName = "filterer"

// NewFilterer returns an operator filtering input with filter, which must be
// a boolean expression over the input's schema.
func NewFilterer(
	flowCtx *execinfra.FlowCtx, input execinfra.Operator, filter eval.Expr,
) (*Filterer, error) {
	if err := checkPredicate(filter, input.OutputSchema()); err != nil {
		return nil, err
	}
	f := &Filterer{filter: filter, ctx: filter.NewContext()}
	f.InitBase(flowCtx, filtererOpName, input.OutputSchema(), input)
	return f, nil
}

// checkPredicate resolves the columns of a predicate and checks that it
// produces a boolean.
func checkPredicate(e eval.Expr, schema *colinfo.Schema) error {
	for _, f := range eval.Fields(e) {
		if _, err := f.Ordinal(schema); err != nil {
			return err
		}
	}
	if typ := e.ResolvedType(); !typ.Equivalent(types.Bool) {
		return pgerror.Newf(pgcode.DatatypeMismatch,
			"argument of filter must be type bool, not type %s", typ)
	}
	return nil
}

// Init implements the Operator interface.
func (f *Filterer) Init(ctx context.Context) error {
	_, err := f.StartInternal(ctx)
	return err
}

// Next implements the Operator interface.
func (f *Filterer) Next(ctx context.Context) (rowenc.Tuple, error) {
	if err := f.MustBeRunning(); err != nil || f.State == execinfra.StateExhausted {
		return nil, err
	}
	for {
		row, err := f.NextInput(ctx, 0)
		if err != nil {
			return nil, err
		}
		if row == nil {
			f.MoveToExhausted()
			return nil, nil
		}
		pass, err := eval.EvalPredicate(f.filter, f.ctx, f.OutputSchema(), row)
		if err != nil {
			return nil, err
		}
		if err := rowenc.Err(row); err != nil {
			return nil, err
		}
		if pass {
			return f.Emit(row), nil
		}
	}
}
