// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package eval

import (
	"fmt"
	"math"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/execcore/pkg/sql/catalog/colinfo"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc"
	"github.com/cockroachdb/execcore/pkg/sql/sem/tree"
	"github.com/cockroachdb/execcore/pkg/sql/types"
)

var (
	// ErrIntOutOfRange is reported when integer arithmetic overflows.
	ErrIntOutOfRange = pgerror.New(pgcode.NumericValueOutOfRange, "integer out of range")
	// ErrFloatOutOfRange is reported when float arithmetic overflows.
	ErrFloatOutOfRange = pgerror.New(pgcode.NumericValueOutOfRange, "float out of range")
	// ErrDivByZero is reported on division or modulo by zero.
	ErrDivByZero = pgerror.New(pgcode.DivisionByZero, "division by zero")
)

// BinaryOperator is an arithmetic operator.
type BinaryOperator int

const (
	Plus BinaryOperator = iota
	Minus
	Mult
	Div
	Mod
)

var binaryOpNames = [...]string{
	Plus:  "+",
	Minus: "-",
	Mult:  "*",
	Div:   "/",
	Mod:   "%",
}

func (op BinaryOperator) String() string {
	if op < 0 || int(op) >= len(binaryOpNames) {
		return fmt.Sprintf("BinaryOperator(%d)", int(op))
	}
	return binaryOpNames[op]
}

// BinaryOperatorFromString parses the textual form of an arithmetic
// operator.
func BinaryOperatorFromString(s string) (BinaryOperator, error) {
	for op, name := range binaryOpNames {
		if name == s {
			return BinaryOperator(op), nil
		}
	}
	return 0, pgerror.Newf(pgcode.UndefinedFunction, "unknown binary operator %q", s)
}

// BinaryExpr applies an arithmetic operator to two numeric operands. The
// operation is performed in the wider of the two operand types: decimal if
// either is decimal, float8 if either is a float (float4 when both are),
// and the wider integer type otherwise. A NULL operand yields NULL.
type BinaryExpr struct {
	Op          BinaryOperator
	Left, Right Expr

	typ *types.T
}

var _ Expr = &BinaryExpr{}

// NewBinary returns an arithmetic expression over two numeric operands.
func NewBinary(op BinaryOperator, left, right Expr) (*BinaryExpr, error) {
	typ, err := binaryResultType(left.ResolvedType(), right.ResolvedType())
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s %s", left, op, right)
	}
	return &BinaryExpr{Op: op, Left: left, Right: right, typ: typ}, nil
}

func binaryResultType(l, r *types.T) (*types.T, error) {
	// An untyped NULL takes the type of the other side.
	if l.Family == types.UnknownFamily {
		l = r
	}
	if r.Family == types.UnknownFamily {
		r = l
	}
	if l.Family == types.UnknownFamily {
		return types.Unknown, nil
	}
	if !l.IsNumeric() || !r.IsNumeric() {
		return nil, pgerror.Newf(pgcode.DatatypeMismatch,
			"unsupported binary operator: <%s> and <%s>", l, r)
	}
	switch {
	case l.Family == types.DecimalFamily || r.Family == types.DecimalFamily:
		return types.Decimal, nil
	case l.Family == types.Float4Family && r.Family == types.Float4Family:
		return types.Float4, nil
	case l.IsFloat() || r.IsFloat():
		return types.Float8, nil
	}
	fam := max(l.Family, r.Family, types.Int2Family)
	switch fam {
	case types.Int2Family:
		return types.Int2, nil
	case types.Int4Family:
		return types.Int4, nil
	}
	return types.Int8, nil
}

type binaryContext struct {
	childContexts
	// Scratch operands for decimal arithmetic.
	l, r apd.Decimal
}

// Kind implements the Expr interface.
func (*BinaryExpr) Kind() Kind { return BinaryKind }

// NewContext implements the Expr interface.
func (e *BinaryExpr) NewContext() Context {
	return &binaryContext{childContexts: makeChildContexts(e.Children())}
}

// Eval implements the Expr interface.
func (e *BinaryExpr) Eval(ctx Context, schema *colinfo.Schema, t rowenc.Tuple) error {
	c := ctx.(*binaryContext)
	l, err := c.evalChild(e.Left, 0, schema, t)
	if err != nil {
		return err
	}
	r, err := c.evalChild(e.Right, 1, schema, t)
	if err != nil {
		return err
	}
	if l == tree.DNull || r == tree.DNull {
		c.res = tree.DNull
		return nil
	}
	var res tree.Datum
	switch {
	case e.typ.Family == types.DecimalFamily:
		res, err = e.evalDecimal(c, l, r)
	case e.typ.IsFloat():
		res, err = e.evalFloat(l, r)
	default:
		res, err = e.evalInt(l, r)
	}
	if err != nil {
		return err
	}
	c.res = res
	return nil
}

func (e *BinaryExpr) evalInt(l, r tree.Datum) (tree.Datum, error) {
	a, err := datumToInt64(l)
	if err != nil {
		return nil, err
	}
	b, err := datumToInt64(r)
	if err != nil {
		return nil, err
	}
	var v int64
	switch e.Op {
	case Plus:
		v = a + b
		if (v < a) != (b < 0) {
			return nil, ErrIntOutOfRange
		}
	case Minus:
		v = a - b
		if (v > a) != (b < 0) {
			return nil, ErrIntOutOfRange
		}
	case Mult:
		v = a * b
		if a != 0 && (v/a != b || (a == -1 && b == math.MinInt64)) {
			return nil, ErrIntOutOfRange
		}
	case Div:
		if b == 0 {
			return nil, ErrDivByZero
		}
		if a == math.MinInt64 && b == -1 {
			return nil, ErrIntOutOfRange
		}
		v = a / b
	case Mod:
		if b == 0 {
			return nil, ErrDivByZero
		}
		if b == -1 {
			v = 0
		} else {
			v = a % b
		}
	default:
		return nil, errors.AssertionFailedf("unknown binary operator %d", e.Op)
	}
	return makeIntDatum(v, e.typ)
}

func (e *BinaryExpr) evalFloat(l, r tree.Datum) (tree.Datum, error) {
	a, err := datumToFloat64(l)
	if err != nil {
		return nil, err
	}
	b, err := datumToFloat64(r)
	if err != nil {
		return nil, err
	}
	var v float64
	switch e.Op {
	case Plus:
		v = a + b
	case Minus:
		v = a - b
	case Mult:
		v = a * b
	case Div:
		if b == 0 {
			return nil, ErrDivByZero
		}
		v = a / b
	case Mod:
		if b == 0 {
			return nil, ErrDivByZero
		}
		v = math.Mod(a, b)
	default:
		return nil, errors.AssertionFailedf("unknown binary operator %d", e.Op)
	}
	if math.IsInf(v, 0) && !math.IsInf(a, 0) && !math.IsInf(b, 0) {
		return nil, ErrFloatOutOfRange
	}
	if e.typ.Family == types.Float4Family {
		if f := float32(v); math.IsInf(float64(f), 0) && !math.IsInf(v, 0) {
			return nil, ErrFloatOutOfRange
		}
		return tree.DFloat4(v), nil
	}
	return tree.DFloat8(v), nil
}

func (e *BinaryExpr) evalDecimal(c *binaryContext, l, r tree.Datum) (tree.Datum, error) {
	if err := tree.ToDecimal(l, &c.l); err != nil {
		return nil, err
	}
	if err := tree.ToDecimal(r, &c.r); err != nil {
		return nil, err
	}
	dd := &tree.DDecimal{}
	var err error
	switch e.Op {
	case Plus:
		_, err = tree.DecimalCtx.Add(&dd.Decimal, &c.l, &c.r)
	case Minus:
		_, err = tree.DecimalCtx.Sub(&dd.Decimal, &c.l, &c.r)
	case Mult:
		_, err = tree.DecimalCtx.Mul(&dd.Decimal, &c.l, &c.r)
	case Div:
		if c.r.IsZero() {
			return nil, ErrDivByZero
		}
		_, err = tree.DecimalCtx.Quo(&dd.Decimal, &c.l, &c.r)
	case Mod:
		if c.r.IsZero() {
			return nil, ErrDivByZero
		}
		_, err = tree.DecimalCtx.Rem(&dd.Decimal, &c.l, &c.r)
	default:
		return nil, errors.AssertionFailedf("unknown binary operator %d", e.Op)
	}
	if err != nil {
		return nil, pgerror.Wrap(err, pgcode.NumericValueOutOfRange, "decimal arithmetic")
	}
	return dd, nil
}

// Terminate implements the Expr interface.
func (*BinaryExpr) Terminate(ctx Context) tree.Datum { return terminate(ctx) }

// ResolvedType implements the Expr interface.
func (e *BinaryExpr) ResolvedType() *types.T { return e.typ }

// Children implements the Expr interface.
func (e *BinaryExpr) Children() []Expr { return []Expr{e.Left, e.Right} }

func (e *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right)
}

func datumToInt64(d tree.Datum) (int64, error) {
	switch t := d.(type) {
	case tree.DBit:
		return int64(t), nil
	case tree.DInt2:
		return int64(t), nil
	case tree.DInt4:
		return int64(t), nil
	case tree.DInt8:
		return int64(t), nil
	}
	return 0, pgerror.Newf(pgcode.DatatypeMismatch, "expected integer, found type %s", d.ResolvedType())
}

func datumToFloat64(d tree.Datum) (float64, error) {
	switch t := d.(type) {
	case tree.DFloat4:
		return float64(t), nil
	case tree.DFloat8:
		return float64(t), nil
	}
	i, err := datumToInt64(d)
	if err != nil {
		return 0, pgerror.Newf(pgcode.DatatypeMismatch, "expected float, found type %s", d.ResolvedType())
	}
	return float64(i), nil
}

// makeIntDatum returns v as a datum of the integer type typ, or an error if
// v does not fit.
func makeIntDatum(v int64, typ *types.T) (tree.Datum, error) {
	switch typ.Family {
	case types.BitFamily:
		if v < 0 || v > math.MaxUint8 {
			return nil, ErrIntOutOfRange
		}
		return tree.DBit(v), nil
	case types.Int2Family:
		if v < math.MinInt16 || v > math.MaxInt16 {
			return nil, ErrIntOutOfRange
		}
		return tree.DInt2(v), nil
	case types.Int4Family:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return nil, ErrIntOutOfRange
		}
		return tree.DInt4(v), nil
	case types.Int8Family:
		return tree.DInt8(v), nil
	}
	return nil, errors.AssertionFailedf("%s is not an integer type", typ)
}
