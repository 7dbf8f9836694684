// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package eval

import (
	"testing"

	"github.com/cockroachdb/execcore/pkg/sql/catalog/colinfo"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc"
	"github.com/cockroachdb/execcore/pkg/sql/sem/tree"
	"github.com/cockroachdb/execcore/pkg/sql/types"
	"github.com/stretchr/testify/require"
)

// sampleExpr builds (t.a + 1) > t.b AND t.s IS NOT NULL.
func sampleExpr() Expr {
	sum := mustExpr(NewBinary(Plus, NewField("t.a", types.Int4), NewConst(tree.DInt4(1))))
	gt := mustExpr(NewComparison(GT, sum, NewField("t.b", types.Int8)))
	return mustExpr(NewAnd(gt, NewIsNull(NewField("t.s", types.Text), true)))
}

func TestWalk(t *testing.T) {
	e := sampleExpr()
	require.Equal(t, "(((t.a + 1) > t.b) AND (t.s IS NOT NULL))", e.String())

	var pre []string
	WalkPreOrder(e, func(e Expr) bool {
		pre = append(pre, e.Kind().String())
		return true
	})
	require.Equal(t, []string{"and", "comparison", "binary", "field", "const", "field", "is-null", "field"}, pre)

	var post []string
	WalkPostOrder(e, func(e Expr) {
		post = append(post, e.Kind().String())
	})
	require.Equal(t, []string{"field", "const", "binary", "field", "comparison", "field", "is-null", "and"}, post)

	// Pruned subtrees are not visited.
	var visited int
	WalkPreOrder(e, func(e Expr) bool {
		visited++
		return e.Kind() != ComparisonKind
	})
	require.Equal(t, 4, visited)

	var names []string
	for _, f := range Fields(e) {
		names = append(names, f.Name)
	}
	require.Equal(t, []string{"t.a", "t.b", "t.s"}, names)
}

func TestEqualAndFingerprint(t *testing.T) {
	a, b := sampleExpr(), sampleExpr()
	require.True(t, Equal(a, b))
	require.Equal(t, Fingerprint(a), Fingerprint(b))

	// Resolving the ordinal of one tree does not change equality.
	_, err := EvalOnce(a, testSchema, testRow(tree.DInt4(1), tree.DInt8(0), tree.DText("x"), tree.DNull, tree.DNull))
	require.NoError(t, err)
	require.True(t, Equal(a, b))

	// Fields are compared by name and type.
	require.True(t, Equal(NewField("t.a", types.Int4), NewField("t.a", types.Int4)))
	require.False(t, Equal(NewField("t.a", types.Int4), NewField("t.a", types.Int8)))
	require.False(t, Equal(NewField("t.a", types.Int4), NewField("t.b", types.Int4)))

	require.False(t, Equal(NewConst(tree.DInt4(1)), NewConst(tree.DInt8(1))))
	require.False(t, Equal(NewConst(tree.DInt4(1)), NewConst(tree.DText("1"))))
	require.NotEqual(t, Fingerprint(NewConst(tree.DInt4(1))), Fingerprint(NewConst(tree.DText("1"))))

	c := mustExpr(NewComparison(LT, NewField("t.a", types.Int4), NewConst(tree.DInt4(1))))
	d := mustExpr(NewComparison(LE, NewField("t.a", types.Int4), NewConst(tree.DInt4(1))))
	require.False(t, Equal(c, d))
	require.NotEqual(t, Fingerprint(c), Fingerprint(d))
}

func TestExtractEquiJoinKeys(t *testing.T) {
	left := colinfo.MustNewSchema(
		colinfo.MakeColumn("l.id", types.Int4),
		colinfo.MakeColumn("l.x", types.Int8),
	)
	right := colinfo.MustNewSchema(
		colinfo.MakeColumn("r.x", types.Int8),
		colinfo.MakeColumn("r.id", types.Int4),
		colinfo.MakeColumn("r.v", types.Text),
	)
	eq := func(a, b string, typ *types.T) Expr {
		return mustExpr(NewComparison(EQ, NewField(a, typ), NewField(b, typ)))
	}
	residualPred := mustExpr(NewComparison(GT, NewField("l.x", types.Int8), NewField("r.x", types.Int8)))
	qual := mustExpr(MakeConjunction([]Expr{
		eq("l.id", "r.id", types.Int4),
		residualPred,
		// Reversed sides are recognized.
		eq("r.x", "l.x", types.Int8),
		// Both sides from one input stay in the residual.
		eq("r.x", "r.id", types.Int8),
	}))
	require.Len(t, Conjuncts(qual), 4)

	leftOrds, rightOrds, residual, err := ExtractEquiJoinKeys(qual, left, right)
	require.NoError(t, err)
	require.Equal(t, []int{0, 1}, leftOrds)
	require.Equal(t, []int{1, 0}, rightOrds)
	require.Equal(t, "((l.x > r.x) AND (r.x = r.id))", residual.String())

	// The residual evaluates against the merged schema.
	merged, err := colinfo.Merge(left, right)
	require.NoError(t, err)
	frame := rowenc.NewFrameTuple(
		rowenc.Datums{tree.DInt4(1), tree.DInt8(5)},
		rowenc.Datums{tree.DInt8(2), tree.DInt4(2), tree.DText("v")},
	)
	ok, err := EvalPredicate(residual, residual.NewContext(), merged, frame)
	require.NoError(t, err)
	require.True(t, ok)

	_, _, residual, err = ExtractEquiJoinKeys(eq("l.id", "r.id", types.Int4), left, right)
	require.NoError(t, err)
	require.Nil(t, residual)

	leftOrds, _, residual, err = ExtractEquiJoinKeys(nil, left, right)
	require.NoError(t, err)
	require.Empty(t, leftOrds)
	require.Nil(t, residual)
}
