// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rowenc

import (
	"bytes"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/execcore/pkg/sql/catalog/colinfo"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/execcore/pkg/sql/sem/tree"
)

// ValueDecoder turns the encoded bytes of one column into a datum. A single
// decoder is shared by every tuple produced by a scanner, so implementations
// must not keep per-row state.
type ValueDecoder interface {
	Decode(col colinfo.Column, raw []byte) (tree.Datum, error)
}

// DecodeErrorObserver is notified of every decode error that a lenient
// LazyTuple replaced with NULL.
type DecodeErrorObserver func(ordinal int, err error)

// LazyTuple is a tuple backed by the raw encoded bytes of each column. A
// column is decoded the first time it is read; the decoded datum is cached
// and the raw bytes are released, so every column is decoded at most once.
//
// Raw bytes equal to the null marker decode to NULL without consulting the
// decoder. A nil marker disables the check. A raw row with fewer columns than the schema (a short line in a
// delimited file) yields NULL for the missing columns, while a nil entry
// within the row marks the column as absent.
//
// By default decode errors are masked: the column becomes NULL and the
// observer, if any, is notified. In strict mode the first error is retained
// and reported by Err, and the column reads as NULL.
type LazyTuple struct {
	schema     *colinfo.Schema
	raw        [][]byte
	values     []tree.Datum
	decoder    ValueDecoder
	nullMarker []byte
	offset     int64

	strict   bool
	observer DecodeErrorObserver
	err      error
}

var _ Tuple = (*LazyTuple)(nil)

// NewLazyTuple constructs a LazyTuple over raw. The tuple does not copy raw,
// the caller must not modify the slices while the tuple is in use.
func NewLazyTuple(
	schema *colinfo.Schema, raw [][]byte, decoder ValueDecoder, nullMarker []byte,
) *LazyTuple {
	return &LazyTuple{
		schema:     schema,
		raw:        raw,
		values:     make([]tree.Datum, schema.Len()),
		decoder:    decoder,
		nullMarker: nullMarker,
	}
}

// SetDecodeErrorHandling configures how decode errors are treated. When
// strict is false errors become NULL and are passed to observer.
func (t *LazyTuple) SetDecodeErrorHandling(strict bool, observer DecodeErrorObserver) {
	t.strict = strict
	t.observer = observer
}

// Reset points the tuple at a new raw row, discarding all decoded values.
// It lets a scanner reuse a single tuple for every row it produces.
func (t *LazyTuple) Reset(raw [][]byte, offset int64) {
	t.raw = raw
	t.offset = offset
	t.err = nil
	for i := range t.values {
		t.values[i] = nil
	}
}

// Schema returns the schema the tuple was built for.
func (t *LazyTuple) Schema() *colinfo.Schema { return t.schema }

// Offset returns the byte offset of the row in its source.
func (t *LazyTuple) Offset() int64 { return t.offset }

// SetOffset sets the byte offset of the row in its source.
func (t *LazyTuple) SetOffset(offset int64) { t.offset = offset }

// Len implements the Tuple interface.
func (t *LazyTuple) Len() int { return len(t.values) }

// Get implements the Tuple interface.
func (t *LazyTuple) Get(i int) tree.Datum {
	if d := t.values[i]; d != nil {
		return d
	}
	if i >= len(t.raw) {
		t.values[i] = tree.DNull
		return tree.DNull
	}
	raw := t.raw[i]
	if raw == nil {
		// Not projected.
		return nil
	}
	t.values[i] = t.decode(i, raw)
	t.raw[i] = nil
	return t.values[i]
}

func (t *LazyTuple) decode(i int, raw []byte) tree.Datum {
	if t.nullMarker != nil && bytes.Equal(raw, t.nullMarker) {
		return tree.DNull
	}
	d, err := t.decoder.Decode(t.schema.Column(i), raw)
	if err == nil {
		return d
	}
	if t.strict {
		if t.err == nil {
			// The barrier keeps the decoder's own code from masking
			// DataCorrupted.
			t.err = pgerror.Wrapf(errors.Handled(err), pgcode.DataCorrupted,
				"decoding column %q at offset %d", t.schema.Column(i).QualifiedName(), t.offset)
		}
	} else if t.observer != nil {
		t.observer(i, err)
	}
	return tree.DNull
}

// Err returns the first decode error retained in strict mode.
func (t *LazyTuple) Err() error { return t.err }

// Put implements the Tuple interface. The new value replaces any raw bytes
// for the column.
func (t *LazyTuple) Put(i int, d tree.Datum) {
	t.values[i] = d
	if i < len(t.raw) {
		t.raw[i] = nil
	}
}

// IsNull implements the Tuple interface.
func (t *LazyTuple) IsNull(i int) bool { return t.Get(i) == tree.DNull }

// Contains implements the Tuple interface.
func (t *LazyTuple) Contains(i int) bool {
	return t.values[i] != nil || i >= len(t.raw) || t.raw[i] != nil
}

// Raw returns the undecoded bytes of column i, or nil if the column was
// already decoded, overwritten or is absent.
func (t *LazyTuple) Raw(i int) []byte {
	if i >= len(t.raw) {
		return nil
	}
	return t.raw[i]
}

// Copy returns an independent LazyTuple sharing the decoder, schema and
// (read-only) raw column bytes but with its own decode cache.
func (t *LazyTuple) Copy() *LazyTuple {
	c := *t
	c.raw = append([][]byte(nil), t.raw...)
	c.values = append([]tree.Datum(nil), t.values...)
	return &c
}

func (t *LazyTuple) String() string {
	return String(t)
}
