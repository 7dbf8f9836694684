// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package eval

import (
	"fmt"
	"math"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/execcore/pkg/sql/catalog/colinfo"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc"
	"github.com/cockroachdb/execcore/pkg/sql/sem/tree"
	"github.com/cockroachdb/execcore/pkg/sql/types"
)

// CastExpr converts its operand to Type.
type CastExpr struct {
	Input Expr
	Type  *types.T
}

var _ Expr = &CastExpr{}

// NewCast returns a conversion of input to typ.
func NewCast(input Expr, typ *types.T) *CastExpr {
	return &CastExpr{Input: input, Type: typ}
}

// Kind implements the Expr interface.
func (*CastExpr) Kind() Kind { return CastKind }

// NewContext implements the Expr interface.
func (e *CastExpr) NewContext() Context {
	c := makeChildContexts(e.Children())
	return &c
}

// Eval implements the Expr interface.
func (e *CastExpr) Eval(ctx Context, schema *colinfo.Schema, t rowenc.Tuple) error {
	c := ctx.(*childContexts)
	d, err := c.evalChild(e.Input, 0, schema, t)
	if err != nil {
		return err
	}
	res, err := PerformCast(d, e.Type)
	if err != nil {
		return err
	}
	c.res = res
	return nil
}

// Terminate implements the Expr interface.
func (*CastExpr) Terminate(ctx Context) tree.Datum { return terminate(ctx) }

// ResolvedType implements the Expr interface.
func (e *CastExpr) ResolvedType() *types.T { return e.Type }

// Children implements the Expr interface.
func (e *CastExpr) Children() []Expr { return []Expr{e.Input} }

func (e *CastExpr) String() string { return fmt.Sprintf("%s::%s", e.Input, e.Type) }

// PerformCast converts d to type t. NULL casts to NULL. Conversions between
// numeric types check the range of the target; any value casts to text via
// its string form; other conversions parse the string form of d.
func PerformCast(d tree.Datum, t *types.T) (tree.Datum, error) {
	if d == tree.DNull {
		return tree.DNull, nil
	}
	from := d.ResolvedType()
	if from.Family == t.Family {
		return d, nil
	}
	switch t.Family {
	case types.TextFamily:
		return tree.DText(d.String()), nil
	case types.CharFamily:
		return tree.DChar(d.String()), nil
	}
	if from.IsNumeric() && t.IsNumeric() {
		return castNumeric(d, t)
	}
	if from.Family == types.BoolFamily && t.IsInteger() {
		v := int64(0)
		if d == tree.DBoolTrue {
			v = 1
		}
		return makeIntDatum(v, t)
	}
	if from.IsInteger() && t.Family == types.BoolFamily {
		v, err := datumToInt64(d)
		if err != nil {
			return nil, err
		}
		return tree.MakeDBool(v != 0), nil
	}
	if from.IsString() {
		return tree.ParseStringAs(t, d.String())
	}
	return nil, pgerror.Newf(pgcode.CannotCoerce, "invalid cast: %s -> %s", from, t)
}

func castNumeric(d tree.Datum, t *types.T) (tree.Datum, error) {
	switch {
	case t.IsInteger():
		switch v := d.(type) {
		case tree.DFloat4, tree.DFloat8:
			f, _ := datumToFloat64(v)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, ErrIntOutOfRange
			}
			f = math.RoundToEven(f)
			if f < math.MinInt64 || f >= math.MaxInt64 {
				return nil, ErrIntOutOfRange
			}
			return makeIntDatum(int64(f), t)
		case *tree.DDecimal:
			var r apd.Decimal
			if _, err := tree.DecimalCtx.RoundToIntegralValue(&r, &v.Decimal); err != nil {
				return nil, err
			}
			i, err := r.Int64()
			if err != nil {
				return nil, ErrIntOutOfRange
			}
			return makeIntDatum(i, t)
		}
		i, err := datumToInt64(d)
		if err != nil {
			return nil, err
		}
		return makeIntDatum(i, t)
	case t.IsFloat():
		var f float64
		if dec, ok := d.(*tree.DDecimal); ok {
			var err error
			if f, err = dec.Float64(); err != nil {
				return nil, ErrFloatOutOfRange
			}
		} else {
			var err error
			if f, err = datumToFloat64(d); err != nil {
				return nil, err
			}
		}
		if t.Family == types.Float4Family {
			return tree.DFloat4(f), nil
		}
		return tree.DFloat8(f), nil
	default:
		dd := &tree.DDecimal{}
		if err := tree.ToDecimal(d, &dd.Decimal); err != nil {
			return nil, err
		}
		return dd, nil
	}
}
