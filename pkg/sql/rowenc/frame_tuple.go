// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rowenc

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/execcore/pkg/sql/sem/tree"
)

// FrameTuple presents a left and a right tuple as a single row of
// left.Len()+right.Len() columns without copying either side. Joiners keep
// one FrameTuple and re-point it with Set for every candidate pair.
//
// A FrameTuple is read-only: Put panics.
type FrameTuple struct {
	left, right Tuple
	leftLen     int
	rightLen    int
}

var _ Tuple = (*FrameTuple)(nil)

// NewFrameTuple returns a frame over left and right.
func NewFrameTuple(left, right Tuple) *FrameTuple {
	f := &FrameTuple{}
	f.Set(left, right)
	return f
}

// Set re-points the frame at a new pair of tuples.
func (f *FrameTuple) Set(left, right Tuple) {
	f.left, f.right = left, right
	f.leftLen, f.rightLen = left.Len(), right.Len()
}

// SetLeft replaces only the left side.
func (f *FrameTuple) SetLeft(left Tuple) {
	f.left = left
	f.leftLen = left.Len()
}

// SetRight replaces only the right side.
func (f *FrameTuple) SetRight(right Tuple) {
	f.right = right
	f.rightLen = right.Len()
}

// Left returns the left side.
func (f *FrameTuple) Left() Tuple { return f.left }

// Right returns the right side.
func (f *FrameTuple) Right() Tuple { return f.right }

// Len implements the Tuple interface.
func (f *FrameTuple) Len() int { return f.leftLen + f.rightLen }

// Get implements the Tuple interface.
func (f *FrameTuple) Get(i int) tree.Datum {
	if i < f.leftLen {
		return f.left.Get(i)
	}
	return f.right.Get(i - f.leftLen)
}

// Put implements the Tuple interface. It always panics.
func (f *FrameTuple) Put(int, tree.Datum) {
	panic(errors.AssertionFailedf("FrameTuple is read-only"))
}

// IsNull implements the Tuple interface.
func (f *FrameTuple) IsNull(i int) bool {
	if i < f.leftLen {
		return f.left.IsNull(i)
	}
	return f.right.IsNull(i - f.leftLen)
}

// Contains implements the Tuple interface.
func (f *FrameTuple) Contains(i int) bool {
	if i < f.leftLen {
		return f.left.Contains(i)
	}
	return f.right.Contains(i - f.leftLen)
}

// Err returns the deferred error of either side.
func (f *FrameTuple) Err() error {
	if err := Err(f.left); err != nil {
		return err
	}
	return Err(f.right)
}

func (f *FrameTuple) String() string {
	return String(f)
}
