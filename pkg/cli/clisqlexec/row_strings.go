// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package clisqlexec

import (
	"context"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/execcore/pkg/sql/execinfra"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc"
	"github.com/cockroachdb/execcore/pkg/sql/sem/tree"
)

// RowStrIter is an iterator over rows rendered as strings. Next returns
// io.EOF after the last row.
type RowStrIter interface {
	Next() (row []string, err error)
	ToSlice() (allRows [][]string, err error)
}

// rowSliceIter wraps a slice of rows that have already been completely
// buffered into memory.
type rowSliceIter struct {
	allRows [][]string
	index   int
}

// NewRowSliceIter returns an iterator over rows already rendered.
func NewRowSliceIter(allRows [][]string) RowStrIter {
	return &rowSliceIter{allRows: allRows}
}

func (iter *rowSliceIter) Next() ([]string, error) {
	if iter.index >= len(iter.allRows) {
		return nil, io.EOF
	}
	row := iter.allRows[iter.index]
	iter.index++
	return row, nil
}

func (iter *rowSliceIter) ToSlice() ([][]string, error) {
	return iter.allRows, nil
}

// opIter renders the rows of an initialized operator as they are produced.
type opIter struct {
	ctx context.Context
	op  execinfra.Operator
	// done is set once the operator returned its last row.
	done bool
}

// NewOperatorIter returns an iterator streaming the rows of op, which must
// have been initialized. The caller keeps the responsibility of closing op.
func NewOperatorIter(ctx context.Context, op execinfra.Operator) RowStrIter {
	return &opIter{ctx: ctx, op: op}
}

func (iter *opIter) Next() ([]string, error) {
	if iter.done {
		return nil, io.EOF
	}
	row, err := iter.op.Next(iter.ctx)
	if err != nil {
		return nil, err
	}
	if row == nil {
		iter.done = true
		return nil, io.EOF
	}
	strs := RowStrings(row)
	if err := rowenc.Err(row); err != nil {
		return nil, err
	}
	return strs, nil
}

func (iter *opIter) ToSlice() ([][]string, error) {
	var allRows [][]string
	for {
		row, err := iter.Next()
		if errors.Is(err, io.EOF) {
			return allRows, nil
		}
		if err != nil {
			return nil, err
		}
		allRows = append(allRows, row)
	}
}

// RowStrings renders every column of row. NULL is rendered as "NULL".
func RowStrings(row rowenc.Tuple) []string {
	strs := make([]string, row.Len())
	for i := range strs {
		strs[i] = FormatDatum(row.Get(i))
	}
	return strs
}

// FormatDatum renders a datum for display. Strings that are not valid
// UTF-8 are rendered with their invalid bytes escaped.
func FormatDatum(d tree.Datum) string {
	if d == nil || d == tree.DNull {
		return "NULL"
	}
	s := d.String()
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, `�`)
	}
	return s
}

// ColumnNames returns the unqualified names of the output columns of op.
func ColumnNames(op execinfra.Operator) []string {
	schema := op.OutputSchema()
	cols := make([]string, schema.Len())
	for i := range cols {
		cols[i] = schema.Column(i).Name
	}
	return cols
}
