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
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc"
	"github.com/cockroachdb/execcore/pkg/sql/sem/tree"
)

// Values is a leaf operator producing a fixed set of rows.
type Values struct {
	execinfra.OperatorBase

	rows []rowenc.Datums
	idx  int
}

var _ execinfra.OpNode = &Values{}

const valuesOpName = "values"

// NewValues returns an operator producing rows, which must match schema.
// The rows are not copied.
func NewValues(
	flowCtx *execinfra.FlowCtx, schema *colinfo.Schema, rows []rowenc.Datums,
) (*Values, error) {
	for i, row := range rows {
		if len(row) != schema.Len() {
			return nil, errors.AssertionFailedf(
				"row %d has %d columns, expected %d", i, len(row), schema.Len())
		}
		for j, d := range row {
			if d == nil {
				return nil, errors.AssertionFailedf("row %d has no value for column %d", i, j)
			}
			if d != tree.DNull && !d.ResolvedType().Equivalent(schema.Column(j).Type) {
				return nil, pgerror.Newf(pgcode.DatatypeMismatch,
					"value %s of row %d does not fit column %s", d, i, schema.Column(j))
			}
		}
	}
	v := &Values{rows: rows}
	v.InitBase(flowCtx, valuesOpName, schema)
	return v, nil
}

// newValuesFromSpec parses the text values of spec.
func newValuesFromSpec(
	flowCtx *execinfra.FlowCtx, spec *execinfrapb.ValuesCoreSpec,
) (*Values, error) {
	schema, err := execinfrapb.MakeSchema(spec.Columns)
	if err != nil {
		return nil, err
	}
	rows := make([]rowenc.Datums, len(spec.Rows))
	for i, raw := range spec.Rows {
		if len(raw) != schema.Len() {
			return nil, pgerror.Newf(pgcode.SyntaxError,
				"values row %d has %d columns, expected %d", i, len(raw), schema.Len())
		}
		row := make(rowenc.Datums, len(raw))
		for j, s := range raw {
			if s == nil {
				row[j] = tree.DNull
				continue
			}
			d, err := tree.ParseStringAs(schema.Column(j).Type, *s)
			if err != nil {
				return nil, errors.Wrapf(err, "values row %d", i)
			}
			row[j] = d
		}
		rows[i] = row
	}
	return NewValues(flowCtx, schema, rows)
}

// Init implements the Operator interface.
func (v *Values) Init(ctx context.Context) error {
	_, err := v.StartInternal(ctx)
	return err
}

// Next implements the Operator interface.
func (v *Values) Next(ctx context.Context) (rowenc.Tuple, error) {
	if err := v.MustBeRunning(); err != nil || v.State == execinfra.StateExhausted {
		return nil, err
	}
	if v.idx >= len(v.rows) {
		v.MoveToExhausted()
		return nil, nil
	}
	v.idx++
	return v.Emit(v.rows[v.idx-1]), nil
}

// Rescan implements the Operator interface.
func (v *Values) Rescan(ctx context.Context) error {
	if err := v.RescanInternal(ctx); err != nil {
		return err
	}
	v.idx = 0
	return nil
}
