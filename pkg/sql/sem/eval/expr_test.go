// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package eval

import (
	"sync"
	"testing"

	"github.com/cockroachdb/execcore/pkg/sql/catalog/colinfo"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc"
	"github.com/cockroachdb/execcore/pkg/sql/sem/tree"
	"github.com/cockroachdb/execcore/pkg/sql/types"
	"github.com/cockroachdb/execcore/pkg/util/leaktest"
	"github.com/stretchr/testify/require"
)

var testSchema = colinfo.MustNewSchema(
	colinfo.MakeColumn("t.a", types.Int4),
	colinfo.MakeColumn("t.b", types.Int8),
	colinfo.MakeColumn("t.s", types.Text),
	colinfo.MakeColumn("t.f", types.Float8),
	colinfo.MakeColumn("t.ok", types.Bool),
)

func testRow(a, b, s, f, ok tree.Datum) rowenc.Datums {
	return rowenc.Datums{a, b, s, f, ok}
}

func mustEval(t *testing.T, e Expr, row rowenc.Tuple) tree.Datum {
	t.Helper()
	d, err := EvalOnce(e, testSchema, row)
	require.NoError(t, err)
	return d
}

func mustExpr[E Expr](e E, err error) E {
	if err != nil {
		panic(err)
	}
	return e
}

func TestFieldExpr(t *testing.T) {
	defer leaktest.AfterTest(t)()

	row := testRow(tree.DInt4(7), tree.DNull, nil, tree.DFloat8(1.5), tree.DBoolTrue)
	require.Equal(t, tree.DInt4(7), mustEval(t, NewField("t.a", types.Int4), row))
	require.Equal(t, tree.DNull, mustEval(t, NewField("b", types.Int8), row))
	// An absent value evaluates to NULL.
	require.Equal(t, tree.DNull, mustEval(t, NewField("t.s", types.Text), row))

	// The ordinal is resolved against the first schema and then cached.
	f := NewField("t.f", types.Float8)
	ord, err := f.Ordinal(testSchema)
	require.NoError(t, err)
	require.Equal(t, 3, ord)
	other := colinfo.MustNewSchema(colinfo.MakeColumn("t.f", types.Float8))
	ord, err = f.Ordinal(other)
	require.NoError(t, err)
	require.Equal(t, 3, ord)

	_, err = EvalOnce(NewField("t.missing", types.Int4), testSchema, row)
	require.Equal(t, pgcode.UndefinedColumn, pgerror.GetPGCode(err))
	_, err = EvalOnce(NewField("t.s", types.Int4), testSchema, row)
	require.Equal(t, pgcode.DatatypeMismatch, pgerror.GetPGCode(err))
}

func TestComparison(t *testing.T) {
	defer leaktest.AfterTest(t)()

	row := testRow(tree.DInt4(7), tree.DInt8(7), tree.DText("x"), tree.DNull, tree.DBoolTrue)
	a := NewField("t.a", types.Int4)
	b := NewField("t.b", types.Int8)
	f := NewField("t.f", types.Float8)
	for _, tc := range []struct {
		op       ComparisonOperator
		l, r     Expr
		expected tree.Datum
	}{
		{EQ, a, b, tree.DBoolTrue},
		{NE, a, b, tree.DBoolFalse},
		{LT, a, NewConst(tree.DFloat8(7.5)), tree.DBoolTrue},
		{GE, b, NewConst(tree.DInt2(8)), tree.DBoolFalse},
		{EQ, a, f, tree.DNull},
		{GT, NewConst(tree.DNull), a, tree.DNull},
		{EQ, NewField("t.s", types.Text), NewConst(tree.DChar("x")), tree.DBoolTrue},
	} {
		e := mustExpr(NewComparison(tc.op, tc.l, tc.r))
		require.Equal(t, tc.expected, mustEval(t, e, row), "%s", e)
	}

	_, err := NewComparison(EQ, a, NewField("t.s", types.Text))
	require.Equal(t, pgcode.DatatypeMismatch, pgerror.GetPGCode(err))

	op, err := ComparisonOperatorFromString("<>")
	require.NoError(t, err)
	require.Equal(t, NE, op)
	_, err = ComparisonOperatorFromString("~")
	require.Error(t, err)
}

func TestThreeValuedLogic(t *testing.T) {
	defer leaktest.AfterTest(t)()

	vals := []tree.Datum{tree.DBoolTrue, tree.DBoolFalse, tree.DNull}
	andTable := [3][3]tree.Datum{
		{tree.DBoolTrue, tree.DBoolFalse, tree.DNull},
		{tree.DBoolFalse, tree.DBoolFalse, tree.DBoolFalse},
		{tree.DNull, tree.DBoolFalse, tree.DNull},
	}
	orTable := [3][3]tree.Datum{
		{tree.DBoolTrue, tree.DBoolTrue, tree.DBoolTrue},
		{tree.DBoolTrue, tree.DBoolFalse, tree.DNull},
		{tree.DBoolTrue, tree.DNull, tree.DNull},
	}
	row := rowenc.Datums{}
	for i, l := range vals {
		for j, r := range vals {
			and := mustExpr(NewAnd(NewConst(l), NewConst(r)))
			require.Equal(t, andTable[i][j], mustEval(t, and, row), "%s", and)
			or := mustExpr(NewOr(NewConst(l), NewConst(r)))
			require.Equal(t, orTable[i][j], mustEval(t, or, row), "%s", or)
		}
		not := mustExpr(NewNot(NewConst(l)))
		require.Equal(t, [3]tree.Datum{tree.DBoolFalse, tree.DBoolTrue, tree.DNull}[i],
			mustEval(t, not, row))
	}

	// The right operand is not evaluated once the result is known.
	unresolvable := NewField("t.missing", types.Bool)
	and := mustExpr(NewAnd(NewConst(tree.DBoolFalse), unresolvable))
	require.Equal(t, tree.DBoolFalse, mustEval(t, and, row))
	or := mustExpr(NewOr(NewConst(tree.DBoolTrue), unresolvable))
	require.Equal(t, tree.DBoolTrue, mustEval(t, or, row))
	_, err := EvalOnce(mustExpr(NewAnd(NewConst(tree.DBoolTrue), unresolvable)), testSchema, row)
	require.Equal(t, pgcode.UndefinedColumn, pgerror.GetPGCode(err))

	_, err = NewAnd(NewConst(tree.DInt4(1)), NewConst(tree.DBoolTrue))
	require.Equal(t, pgcode.DatatypeMismatch, pgerror.GetPGCode(err))
}

func TestIsNullAndBetween(t *testing.T) {
	defer leaktest.AfterTest(t)()

	row := testRow(tree.DInt4(5), tree.DNull, tree.DText("m"), tree.DFloat8(0), tree.DNull)
	a := NewField("t.a", types.Int4)
	b := NewField("t.b", types.Int8)
	require.Equal(t, tree.DBoolFalse, mustEval(t, NewIsNull(a, false), row))
	require.Equal(t, tree.DBoolTrue, mustEval(t, NewIsNull(b, false), row))
	require.Equal(t, tree.DBoolFalse, mustEval(t, NewIsNull(b, true), row))

	c := func(v int32) Expr { return NewConst(tree.DInt4(v)) }
	for _, tc := range []struct {
		from, to       Expr
		not, symmetric bool
		expected       tree.Datum
	}{
		{c(1), c(10), false, false, tree.DBoolTrue},
		{c(5), c(5), false, false, tree.DBoolTrue},
		{c(10), c(1), false, false, tree.DBoolFalse},
		{c(10), c(1), false, true, tree.DBoolTrue},
		{c(1), c(10), true, false, tree.DBoolFalse},
		{c(6), c(10), true, false, tree.DBoolTrue},
		{c(1), b, false, false, tree.DNull},
		{c(6), b, false, false, tree.DBoolFalse},
		{c(10), b, false, true, tree.DNull},
	} {
		e := mustExpr(NewBetween(a, tc.from, tc.to, tc.not, tc.symmetric))
		require.Equal(t, tc.expected, mustEval(t, e, row), "%s", e)
	}
	_, err := NewBetween(a, NewField("t.s", types.Text), c(1), false, false)
	require.Error(t, err)
}

func TestBinaryExpr(t *testing.T) {
	defer leaktest.AfterTest(t)()

	row := rowenc.Datums{}
	dec := func(s string) tree.Datum {
		d, err := tree.ParseDDecimal(s)
		require.NoError(t, err)
		return d
	}
	for _, tc := range []struct {
		op       BinaryOperator
		l, r     tree.Datum
		expected string
		typ      *types.T
	}{
		{Plus, tree.DInt2(1), tree.DInt2(2), "3", types.Int2},
		{Minus, tree.DInt2(1), tree.DInt4(2), "-1", types.Int4},
		{Mult, tree.DInt4(3), tree.DInt8(4), "12", types.Int8},
		{Div, tree.DInt4(7), tree.DInt4(2), "3", types.Int4},
		{Mod, tree.DInt4(-7), tree.DInt4(3), "-1", types.Int4},
		{Plus, tree.DBit(200), tree.DBit(100), "300", types.Int2},
		{Div, tree.DInt4(7), tree.DFloat8(2), "3.5", types.Float8},
		{Mult, tree.DFloat4(1.5), tree.DFloat4(2), "3", types.Float4},
		{Plus, dec("1.25"), tree.DInt4(1), "2.25", types.Decimal},
		{Div, dec("1"), dec("3"), "0.33333333333333333333", types.Decimal},
		{Mod, dec("7.5"), tree.DInt8(2), "1.5", types.Decimal},
		{Plus, tree.DNull, tree.DInt4(1), "NULL", types.Int4},
	} {
		e := mustExpr(NewBinary(tc.op, NewConst(tc.l), NewConst(tc.r)))
		require.Equal(t, tc.typ, e.ResolvedType(), "%s", e)
		require.Equal(t, tc.expected, mustEval(t, e, row).String(), "%s", e)
	}

	for _, tc := range []struct {
		op   BinaryOperator
		l, r tree.Datum
		code pgcode.Code
	}{
		{Div, tree.DInt4(1), tree.DInt4(0), pgcode.DivisionByZero},
		{Mod, tree.DInt8(1), tree.DInt8(0), pgcode.DivisionByZero},
		{Div, tree.DFloat8(1), tree.DFloat8(0), pgcode.DivisionByZero},
		{Div, dec("1"), dec("0"), pgcode.DivisionByZero},
		{Plus, tree.DInt4(1 << 30), tree.DInt4(1 << 30), pgcode.NumericValueOutOfRange},
		{Plus, tree.DInt8(1 << 62), tree.DInt8(1 << 62), pgcode.NumericValueOutOfRange},
		{Minus, tree.DInt8(-1 << 63), tree.DInt8(1), pgcode.NumericValueOutOfRange},
		{Mult, tree.DInt8(1 << 32), tree.DInt8(1 << 32), pgcode.NumericValueOutOfRange},
		{Div, tree.DInt8(-1 << 63), tree.DInt8(-1), pgcode.NumericValueOutOfRange},
	} {
		e := mustExpr(NewBinary(tc.op, NewConst(tc.l), NewConst(tc.r)))
		_, err := EvalOnce(e, testSchema, row)
		require.Equal(t, tc.code, pgerror.GetPGCode(err), "%s: %v", e, err)
	}

	_, err := NewBinary(Plus, NewConst(tree.DText("a")), NewConst(tree.DInt4(1)))
	require.Equal(t, pgcode.DatatypeMismatch, pgerror.GetPGCode(err))
}

func TestFuncAndCast(t *testing.T) {
	defer leaktest.AfterTest(t)()

	row := testRow(tree.DInt4(-3), tree.DNull, tree.DText("abc"), tree.DFloat8(2.5), tree.DBoolTrue)
	upper := mustExpr(NewFunc("UPPER", NewField("t.s", types.Text)))
	require.Equal(t, "upper(t.s)", upper.String())
	require.Equal(t, types.Text, upper.ResolvedType())
	require.Equal(t, tree.DText("ABC"), mustEval(t, upper, row))

	abs := mustExpr(NewFunc("abs", NewField("t.a", types.Int4)))
	require.Equal(t, tree.DInt4(3), mustEval(t, abs, row))

	coalesce := mustExpr(NewFunc("coalesce", NewField("t.b", types.Int8), NewConst(tree.DInt8(9))))
	require.Equal(t, tree.DInt8(9), mustEval(t, coalesce, row))

	_, err := NewFunc("upper", NewField("t.a", types.Int4))
	require.Equal(t, pgcode.UndefinedFunction, pgerror.GetPGCode(err))

	for _, tc := range []struct {
		in       tree.Datum
		typ      *types.T
		expected tree.Datum
	}{
		{tree.DNull, types.Int4, tree.DNull},
		{tree.DInt4(5), types.Int4, tree.DInt4(5)},
		{tree.DInt4(5), types.Text, tree.DText("5")},
		{tree.DFloat8(2.5), types.Int8, tree.DInt8(2)},
		{tree.DFloat8(3.5), types.Int2, tree.DInt2(4)},
		{tree.DInt8(3), types.Float4, tree.DFloat4(3)},
		{tree.DText("42"), types.Int4, tree.DInt4(42)},
		{tree.DText("10.0.0.1"), types.INet4, tree.MakeDIPv4(10, 0, 0, 1)},
		{tree.DBoolTrue, types.Int4, tree.DInt4(1)},
		{tree.DInt2(0), types.Bool, tree.DBoolFalse},
	} {
		d, err := PerformCast(tc.in, tc.typ)
		require.NoError(t, err)
		require.Equal(t, tc.expected, d, "%s::%s", tc.in, tc.typ)
	}
	d, err := PerformCast(tree.DInt4(3), types.Decimal)
	require.NoError(t, err)
	require.Equal(t, "3", d.String())

	_, err = PerformCast(tree.DInt8(1<<40), types.Int4)
	require.Equal(t, pgcode.NumericValueOutOfRange, pgerror.GetPGCode(err))
	_, err = PerformCast(tree.DText("x"), types.Int4)
	require.Equal(t, pgcode.InvalidTextRepresentation, pgerror.GetPGCode(err))
	_, err = PerformCast(tree.MakeDIPv4(1, 2, 3, 4), types.Int4)
	require.Equal(t, pgcode.CannotCoerce, pgerror.GetPGCode(err))

	cast := NewCast(NewField("t.a", types.Int4), types.Text)
	require.Equal(t, "t.a::text", cast.String())
	require.Equal(t, tree.DText("-3"), mustEval(t, cast, row))
}

// TestConcurrentEvaluation evaluates one shared tree from several
// goroutines, each with its own context.
func TestConcurrentEvaluation(t *testing.T) {
	defer leaktest.AfterTest(t)()

	e := mustExpr(NewComparison(GT,
		mustExpr(NewBinary(Mult, NewField("t.a", types.Int4), NewConst(tree.DInt4(2)))),
		NewField("t.b", types.Int8)))
	var wg sync.WaitGroup
	errs := make([]error, 8)
	for g := range errs {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			ctx := e.NewContext()
			for i := 0; i < 100; i++ {
				row := testRow(tree.DInt4(i), tree.DInt8(i+g), tree.DNull, tree.DNull, tree.DNull)
				ok, err := EvalPredicate(e, ctx, testSchema, row)
				if err != nil {
					errs[g] = err
					return
				}
				if ok != (2*i > i+g) {
					errs[g] = pgerror.Newf(pgcode.Internal, "wrong result for i=%d g=%d", i, g)
					return
				}
			}
		}(g)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}
}
