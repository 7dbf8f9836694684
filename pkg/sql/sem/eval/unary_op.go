// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package eval

import (
	"fmt"

	"github.com/cockroachdb/execcore/pkg/sql/catalog/colinfo"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc"
	"github.com/cockroachdb/execcore/pkg/sql/sem/tree"
	"github.com/cockroachdb/execcore/pkg/sql/types"
)

// NotExpr negates a boolean operand. NOT NULL is NULL.
type NotExpr struct {
	Input Expr
}

var _ Expr = &NotExpr{}

// NewNot returns the negation of a boolean expression.
func NewNot(input Expr) (*NotExpr, error) {
	if err := checkBool("NOT", input); err != nil {
		return nil, err
	}
	return &NotExpr{Input: input}, nil
}

// Kind implements the Expr interface.
func (*NotExpr) Kind() Kind { return NotKind }

// NewContext implements the Expr interface.
func (e *NotExpr) NewContext() Context {
	c := makeChildContexts(e.Children())
	return &c
}

// Eval implements the Expr interface.
func (e *NotExpr) Eval(ctx Context, schema *colinfo.Schema, t rowenc.Tuple) error {
	c := ctx.(*childContexts)
	d, err := c.evalChild(e.Input, 0, schema, t)
	if err != nil {
		return err
	}
	c.res = not(d)
	return nil
}

// Terminate implements the Expr interface.
func (*NotExpr) Terminate(ctx Context) tree.Datum { return terminate(ctx) }

// ResolvedType implements the Expr interface.
func (*NotExpr) ResolvedType() *types.T { return types.Bool }

// Children implements the Expr interface.
func (e *NotExpr) Children() []Expr { return []Expr{e.Input} }

func (e *NotExpr) String() string { return fmt.Sprintf("(NOT %s)", e.Input) }

// IsNullExpr is `Input IS NULL`, or `Input IS NOT NULL` when Negated is
// set. Its result is never NULL.
type IsNullExpr struct {
	Input   Expr
	Negated bool
}

var _ Expr = &IsNullExpr{}

// NewIsNull returns a NULL test of input.
func NewIsNull(input Expr, negated bool) *IsNullExpr {
	return &IsNullExpr{Input: input, Negated: negated}
}

// Kind implements the Expr interface.
func (*IsNullExpr) Kind() Kind { return IsNullKind }

// NewContext implements the Expr interface.
func (e *IsNullExpr) NewContext() Context {
	c := makeChildContexts(e.Children())
	return &c
}

// Eval implements the Expr interface.
func (e *IsNullExpr) Eval(ctx Context, schema *colinfo.Schema, t rowenc.Tuple) error {
	c := ctx.(*childContexts)
	d, err := c.evalChild(e.Input, 0, schema, t)
	if err != nil {
		return err
	}
	c.res = tree.MakeDBool((d == tree.DNull) != e.Negated)
	return nil
}

// Terminate implements the Expr interface.
func (*IsNullExpr) Terminate(ctx Context) tree.Datum { return terminate(ctx) }

// ResolvedType implements the Expr interface.
func (*IsNullExpr) ResolvedType() *types.T { return types.Bool }

// Children implements the Expr interface.
func (e *IsNullExpr) Children() []Expr { return []Expr{e.Input} }

func (e *IsNullExpr) String() string {
	if e.Negated {
		return fmt.Sprintf("(%s IS NOT NULL)", e.Input)
	}
	return fmt.Sprintf("(%s IS NULL)", e.Input)
}
