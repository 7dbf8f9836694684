// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rowenc

import (
	"strings"

	"github.com/cockroachdb/execcore/pkg/sql/sem/tree"
)

// Tuple is a fixed-width row of datums addressed by ordinal. Len always
// equals the column count of the schema the tuple was produced for.
//
// Get returns nil for a column that is absent (for example not projected by
// a scan), which is distinct from tree.DNull.
//
// A tuple returned by an operator is owned by that operator and is only
// valid until the next call on it. Consumers that need to retain a row must
// copy it (see Materialize and DatumAlloc).
type Tuple interface {
	Len() int
	Get(i int) tree.Datum
	Put(i int, d tree.Datum)
	// IsNull returns whether the column holds tree.DNull.
	IsNull(i int) bool
	// Contains returns whether the column holds a value (possibly NULL).
	Contains(i int) bool
}

// errTuple is implemented by tuples that may fail to produce a value, such
// as a LazyTuple decoding in strict mode.
type errTuple interface {
	Err() error
}

// Err returns the first deferred error recorded by t, if any.
func Err(t Tuple) error {
	if et, ok := t.(errTuple); ok {
		return et.Err()
	}
	return nil
}

// Datums is the eager tuple: a slice of datums owned by the tuple.
type Datums []tree.Datum

var _ Tuple = Datums(nil)

// MakeDatums returns an eager tuple with n absent columns.
func MakeDatums(n int) Datums {
	return make(Datums, n)
}

// Len implements the Tuple interface.
func (d Datums) Len() int { return len(d) }

// Get implements the Tuple interface.
func (d Datums) Get(i int) tree.Datum { return d[i] }

// Put implements the Tuple interface.
func (d Datums) Put(i int, v tree.Datum) { d[i] = v }

// IsNull implements the Tuple interface.
func (d Datums) IsNull(i int) bool { return d[i] == tree.DNull }

// Contains implements the Tuple interface.
func (d Datums) Contains(i int) bool { return d[i] != nil }

// Clear marks every column absent.
func (d Datums) Clear() {
	for i := range d {
		d[i] = nil
	}
}

// CopyFrom copies the values of src into d. Both tuples must have the same
// length.
func (d Datums) CopyFrom(src Tuple) {
	if src.Len() != len(d) {
		panic(errLengthMismatch(len(d), src.Len()))
	}
	for i := range d {
		d[i] = src.Get(i)
	}
}

func (d Datums) String() string {
	return String(d)
}

// String formats a tuple as "[v1 v2 ...]", decoding lazy columns as needed.
// Absent columns are rendered as <unset>.
func String(t Tuple) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, n := 0, t.Len(); i < n; i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		if d := t.Get(i); d == nil {
			b.WriteString("<unset>")
		} else {
			b.WriteString(d.String())
		}
	}
	b.WriteByte(']')
	return b.String()
}
