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
	"github.com/cockroachdb/execcore/pkg/storage"
	"github.com/cockroachdb/execcore/pkg/util/log"
)

// TableReader is the leaf operator scanning a table. It optionally filters
// the rows with a qualifier and projects them onto a target list, both
// evaluated against the table's schema.
type TableReader struct {
	execinfra.OperatorBase

	scanner   storage.Scanner
	filter    eval.Expr
	filterCtx eval.Context

	projector *execinfra.Projector
	projCtxs  []eval.Context
	out       rowenc.Datums
}

var _ execinfra.OpNode = &TableReader{}

const tableReaderOpName = "tablereader"

// NewTableReader returns an operator scanning s. filter and targets may be
// nil. The reader takes ownership of the scanner.
func NewTableReader(
	flowCtx *execinfra.FlowCtx, s storage.Scanner, filter eval.Expr, targets []execinfra.Target,
) (*TableReader, error) {
	tr := &TableReader{scanner: s}
	schema := s.Schema()
	if filter != nil {
		if err := checkPredicate(filter, schema); err != nil {
			return nil, err
		}
		tr.filter = filter
		tr.filterCtx = filter.NewContext()
	}
	if len(targets) > 0 {
		p, err := execinfra.NewTargetProjector(schema, targets)
		if err != nil {
			return nil, err
		}
		tr.projector = p
		tr.projCtxs = p.NewContexts()
		tr.out = rowenc.MakeDatums(p.OutputSchema().Len())
		schema = p.OutputSchema()
	}
	tr.InitBase(flowCtx, tableReaderOpName, schema)
	return tr, nil
}

// newTableReaderFromSpec opens the table file named by spec. Decode errors
// are masked according to the flow's settings and counted.
func newTableReaderFromSpec(
	flowCtx *execinfra.FlowCtx, spec *execinfrapb.TableReaderSpec,
) (*TableReader, error) {
	schema, err := execinfrapb.MakeSchema(spec.Columns)
	if err != nil {
		return nil, err
	}
	var filter eval.Expr
	if spec.Filter != nil {
		if filter, err = execinfra.ExprFromSpec(*spec.Filter, schema); err != nil {
			return nil, err
		}
	}
	targets, err := execinfra.TargetsFromSpec(spec.Render, schema)
	if err != nil {
		return nil, err
	}

	var tr *TableReader
	opts := storage.ScanOptions{
		Delimiter:  flowCtx.TextDelimiter(),
		NullMarker: flowCtx.NullMarker(),
		Strict:     !flowCtx.LenientDecode(),
		OnDecodeError: func(ordinal int, err error) {
			flowCtx.Metrics.DecodeErrorMasked()
			if tr != nil && log.V(1) {
				log.Infof(tr.Ctx, "column %s of %s read as NULL: %v",
					schema.Column(ordinal).QualifiedName(), spec.Path, err)
			}
		},
	}
	s, err := storage.NewScanner(flowCtx.Fs, storage.Format(spec.Format), spec.Path, schema, opts)
	if err != nil {
		return nil, err
	}
	tr, err = NewTableReader(flowCtx, s, filter, targets)
	return tr, err
}

// Init implements the Operator interface.
func (tr *TableReader) Init(ctx context.Context) error {
	if _, err := tr.StartInternal(ctx); err != nil {
		return err
	}
	return tr.scanner.Init()
}

// Next implements the Operator interface.
func (tr *TableReader) Next(ctx context.Context) (rowenc.Tuple, error) {
	if err := tr.MustBeRunning(); err != nil || tr.State == execinfra.StateExhausted {
		return nil, err
	}
	for {
		row, err := tr.scanner.Next()
		if err != nil {
			return nil, err
		}
		if row == nil {
			tr.MoveToExhausted()
			return nil, nil
		}
		if tr.filter != nil {
			pass, err := eval.EvalPredicate(tr.filter, tr.filterCtx, tr.scanner.Schema(), row)
			if err != nil {
				return nil, err
			}
			if err := rowenc.Err(row); err != nil {
				return nil, err
			}
			if !pass {
				continue
			}
		}
		if tr.projector != nil {
			if err := tr.projector.Project(tr.projCtxs, row, tr.out); err != nil {
				return nil, err
			}
			if err := rowenc.Err(row); err != nil {
				return nil, err
			}
			row = tr.out
		}
		return tr.Emit(row), nil
	}
}

// Rescan implements the Operator interface.
func (tr *TableReader) Rescan(ctx context.Context) error {
	if err := tr.RescanInternal(ctx); err != nil {
		return err
	}
	return tr.scanner.Reset()
}

// Close implements the Operator interface.
func (tr *TableReader) Close(ctx context.Context) error {
	if !tr.InternalClose() {
		return nil
	}
	if err := tr.scanner.Close(); err != nil {
		return errors.Wrap(err, "closing scanner")
	}
	return nil
}
