// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rowenc

import (
	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc/keyside"
	"github.com/cockroachdb/execcore/pkg/sql/sem/tree"
)

// DatumsEqual returns whether two datums are structurally equal: both absent,
// both NULL, or of the same family and comparing equal.
func DatumsEqual(a, b tree.Datum) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a == tree.DNull || b == tree.DNull {
		return a == b
	}
	if a.ResolvedType().Family != b.ResolvedType().Family {
		return false
	}
	c, err := a.Compare(b)
	return err == nil && c == 0
}

// Equal returns whether a and b hold the same datum sequence. The concrete
// representation does not matter: a LazyTuple equals the Datums it decodes
// to. Lazy columns are decoded as a side effect.
func Equal(a, b Tuple) bool {
	n := a.Len()
	if n != b.Len() {
		return false
	}
	for i := 0; i < n; i++ {
		if !DatumsEqual(a.Get(i), b.Get(i)) {
			return false
		}
	}
	return true
}

// Hash returns a structural hash of t, consistent with Equal.
func Hash(t Tuple) uint64 {
	var scratch [8]tree.Datum
	datums := scratch[:0]
	for i, n := 0, t.Len(); i < n; i++ {
		datums = append(datums, t.Get(i))
	}
	key, _ := keyside.Encode(nil, datums)
	return xxhash.Sum64(key)
}

// Materialize returns an eager copy of t, decoding every column. If dst has
// the right length it is reused.
func Materialize(t Tuple, dst Datums) Datums {
	n := t.Len()
	if len(dst) != n {
		dst = make(Datums, n)
	}
	for i := 0; i < n; i++ {
		dst[i] = t.Get(i)
	}
	return dst
}

// NullPadded returns an eager tuple of n NULLs, used as the missing side of
// an outer join row.
func NullPadded(n int) Datums {
	d := make(Datums, n)
	for i := range d {
		d[i] = tree.DNull
	}
	return d
}

func errLengthMismatch(expected, actual int) error {
	return errors.AssertionFailedf("length mismatch: expected %d columns, found %d", expected, actual)
}
