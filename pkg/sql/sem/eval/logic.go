// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package eval

import (
	"fmt"

	"github.com/cockroachdb/execcore/pkg/sql/catalog/colinfo"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc"
	"github.com/cockroachdb/execcore/pkg/sql/sem/tree"
	"github.com/cockroachdb/execcore/pkg/sql/types"
)

// and combines two boolean datums under three-valued logic.
func and(l, r tree.Datum) tree.Datum {
	if l == tree.DBoolFalse || r == tree.DBoolFalse {
		return tree.DBoolFalse
	}
	if l == tree.DNull || r == tree.DNull {
		return tree.DNull
	}
	return tree.DBoolTrue
}

// or combines two boolean datums under three-valued logic.
func or(l, r tree.Datum) tree.Datum {
	if l == tree.DBoolTrue || r == tree.DBoolTrue {
		return tree.DBoolTrue
	}
	if l == tree.DNull || r == tree.DNull {
		return tree.DNull
	}
	return tree.DBoolFalse
}

func not(d tree.Datum) tree.Datum {
	if d == tree.DNull {
		return tree.DNull
	}
	return tree.MakeDBool(d != tree.DBoolTrue)
}

func checkBool(op string, exprs ...Expr) error {
	for _, e := range exprs {
		if f := e.ResolvedType().Family; f != types.BoolFamily && f != types.UnknownFamily {
			return pgerror.Newf(pgcode.DatatypeMismatch,
				"argument of %s must be type bool, not type %s", op, e.ResolvedType())
		}
	}
	return nil
}

// AndExpr is the conjunction of two boolean operands. The right operand is
// not evaluated when the left one is false.
type AndExpr struct {
	Left, Right Expr
}

var _ Expr = &AndExpr{}

// NewAnd returns the conjunction of two boolean expressions.
func NewAnd(left, right Expr) (*AndExpr, error) {
	if err := checkBool("AND", left, right); err != nil {
		return nil, err
	}
	return &AndExpr{Left: left, Right: right}, nil
}

// Kind implements the Expr interface.
func (*AndExpr) Kind() Kind { return AndKind }

// NewContext implements the Expr interface.
func (e *AndExpr) NewContext() Context {
	c := makeChildContexts(e.Children())
	return &c
}

// Eval implements the Expr interface.
func (e *AndExpr) Eval(ctx Context, schema *colinfo.Schema, t rowenc.Tuple) error {
	c := ctx.(*childContexts)
	l, err := c.evalChild(e.Left, 0, schema, t)
	if err != nil {
		return err
	}
	if l == tree.DBoolFalse {
		c.res = l
		return nil
	}
	r, err := c.evalChild(e.Right, 1, schema, t)
	if err != nil {
		return err
	}
	c.res = and(l, r)
	return nil
}

// Terminate implements the Expr interface.
func (*AndExpr) Terminate(ctx Context) tree.Datum { return terminate(ctx) }

// ResolvedType implements the Expr interface.
func (*AndExpr) ResolvedType() *types.T { return types.Bool }

// Children implements the Expr interface.
func (e *AndExpr) Children() []Expr { return []Expr{e.Left, e.Right} }

func (e *AndExpr) String() string { return fmt.Sprintf("(%s AND %s)", e.Left, e.Right) }

// OrExpr is the disjunction of two boolean operands. The right operand is
// not evaluated when the left one is true.
type OrExpr struct {
	Left, Right Expr
}

var _ Expr = &OrExpr{}

// NewOr returns the disjunction of two boolean expressions.
func NewOr(left, right Expr) (*OrExpr, error) {
	if err := checkBool("OR", left, right); err != nil {
		return nil, err
	}
	return &OrExpr{Left: left, Right: right}, nil
}

// Kind implements the Expr interface.
func (*OrExpr) Kind() Kind { return OrKind }

// NewContext implements the Expr interface.
func (e *OrExpr) NewContext() Context {
	c := makeChildContexts(e.Children())
	return &c
}

// Eval implements the Expr interface.
func (e *OrExpr) Eval(ctx Context, schema *colinfo.Schema, t rowenc.Tuple) error {
	c := ctx.(*childContexts)
	l, err := c.evalChild(e.Left, 0, schema, t)
	if err != nil {
		return err
	}
	if l == tree.DBoolTrue {
		c.res = l
		return nil
	}
	r, err := c.evalChild(e.Right, 1, schema, t)
	if err != nil {
		return err
	}
	c.res = or(l, r)
	return nil
}

// Terminate implements the Expr interface.
func (*OrExpr) Terminate(ctx Context) tree.Datum { return terminate(ctx) }

// ResolvedType implements the Expr interface.
func (*OrExpr) ResolvedType() *types.T { return types.Bool }

// Children implements the Expr interface.
func (e *OrExpr) Children() []Expr { return []Expr{e.Left, e.Right} }

func (e *OrExpr) String() string { return fmt.Sprintf("(%s OR %s)", e.Left, e.Right) }
