// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rowenc

import "github.com/cockroachdb/execcore/pkg/sql/sem/tree"

// DatumAlloc provides batch allocation of datum rows, amortizing the cost of
// allocating many small rows (for example the build side of a hash join).
// It is not safe for concurrent use.
type DatumAlloc struct {
	// AllocSize determines the number of datums allocated at once. If zero,
	// defaultDatumAllocSize is used.
	AllocSize int

	datumAlloc []tree.Datum
	ddecimal   []tree.DDecimal
}

const defaultDatumAllocSize = 16 // Arbitrary, could be tuned.
const datumAllocMultiplier = 16  // Arbitrary, could be tuned.

// NewDatums allocates Datums of the specified size.
func (a *DatumAlloc) NewDatums(num int) Datums {
	if num == 0 {
		return nil
	}
	buf := &a.datumAlloc
	if len(*buf) < num {
		extensionSize := defaultDatumAllocSize
		if a.AllocSize != 0 {
			extensionSize = a.AllocSize
		}
		if extTupleLen := num * datumAllocMultiplier; extensionSize < extTupleLen {
			extensionSize = extTupleLen
		}
		*buf = make([]tree.Datum, extensionSize)
	}
	r := (*buf)[:num:num]
	*buf = (*buf)[num:]
	return r
}

// NewDDecimal allocates a DDecimal holding a copy of v.
func (a *DatumAlloc) NewDDecimal(v *tree.DDecimal) *tree.DDecimal {
	buf := &a.ddecimal
	if len(*buf) == 0 {
		allocSize := defaultDatumAllocSize
		if a.AllocSize != 0 {
			allocSize = a.AllocSize
		}
		*buf = make([]tree.DDecimal, allocSize)
	}
	r := &(*buf)[0]
	r.Set(&v.Decimal)
	*buf = (*buf)[1:]
	return r
}

// CopyRow returns an eager copy of t allocated from a. Decimal datums are
// deep-copied so the copy shares no memory with the source.
func (a *DatumAlloc) CopyRow(t Tuple) Datums {
	row := a.NewDatums(t.Len())
	for i := range row {
		d := t.Get(i)
		if dec, ok := d.(*tree.DDecimal); ok {
			d = a.NewDDecimal(dec)
		}
		row[i] = d
	}
	return row
}

// Reset releases the slabs so their memory can be reclaimed once all rows
// handed out are unreferenced.
func (a *DatumAlloc) Reset() {
	a.datumAlloc = nil
	a.ddecimal = nil
}
