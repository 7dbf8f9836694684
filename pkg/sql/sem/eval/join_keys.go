// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package eval

import "github.com/cockroachdb/execcore/pkg/sql/catalog/colinfo"

// Conjuncts splits e into the operands of its top-level AND chain.
func Conjuncts(e Expr) []Expr {
	if e == nil {
		return nil
	}
	if and, ok := e.(*AndExpr); ok {
		return append(Conjuncts(and.Left), Conjuncts(and.Right)...)
	}
	return []Expr{e}
}

// MakeConjunction folds exprs into a left-deep AND chain. It returns nil if
// exprs is empty.
func MakeConjunction(exprs []Expr) (Expr, error) {
	if len(exprs) == 0 {
		return nil, nil
	}
	res := exprs[0]
	for _, e := range exprs[1:] {
		and, err := NewAnd(res, e)
		if err != nil {
			return nil, err
		}
		res = and
	}
	return res, nil
}

// ExtractEquiJoinKeys finds the equality conjuncts of qual that compare a
// column of left with a column of right. It returns the ordinals of the key
// columns on each side, pairwise, and the conjunction of the remaining
// conjuncts (nil if there are none).
func ExtractEquiJoinKeys(
	qual Expr, left, right *colinfo.Schema,
) (leftOrds, rightOrds []int, residual Expr, _ error) {
	var rest []Expr
	for _, c := range Conjuncts(qual) {
		l, r, ok := equiJoinKeyPair(c, left, right)
		if !ok {
			rest = append(rest, c)
			continue
		}
		leftOrds = append(leftOrds, l)
		rightOrds = append(rightOrds, r)
	}
	residual, err := MakeConjunction(rest)
	if err != nil {
		return nil, nil, nil, err
	}
	return leftOrds, rightOrds, residual, nil
}

func equiJoinKeyPair(e Expr, left, right *colinfo.Schema) (l, r int, ok bool) {
	cmp, ok := e.(*ComparisonExpr)
	if !ok || cmp.Op != EQ {
		return 0, 0, false
	}
	a, aok := cmp.Left.(*FieldExpr)
	b, bok := cmp.Right.(*FieldExpr)
	if !aok || !bok {
		return 0, 0, false
	}
	if lo, ro, found := sideOrdinals(a, b, left, right); found {
		return lo, ro, true
	}
	return sideOrdinals(b, a, left, right)
}

// sideOrdinals resolves a against left only and b against right only.
func sideOrdinals(a, b *FieldExpr, left, right *colinfo.Schema) (l, r int, ok bool) {
	la, l := colinfo.FindColumn(left, a.Name)
	ra, _ := colinfo.FindColumn(right, a.Name)
	lb, _ := colinfo.FindColumn(left, b.Name)
	rb, r := colinfo.FindColumn(right, b.Name)
	if la != colinfo.ExactlyOne || ra != colinfo.NoResults ||
		rb != colinfo.ExactlyOne || lb != colinfo.NoResults {
		return 0, 0, false
	}
	return l, r, true
}
