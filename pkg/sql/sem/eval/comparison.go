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

// ComparisonOperator is a binary comparison.
type ComparisonOperator int

const (
	EQ ComparisonOperator = iota
	NE
	LT
	LE
	GT
	GE
)

var comparisonOpNames = [...]string{
	EQ: "=",
	NE: "!=",
	LT: "<",
	LE: "<=",
	GT: ">",
	GE: ">=",
}

func (op ComparisonOperator) String() string {
	if op < 0 || int(op) >= len(comparisonOpNames) {
		return fmt.Sprintf("ComparisonOperator(%d)", int(op))
	}
	return comparisonOpNames[op]
}

// ComparisonOperatorFromString parses the textual form of a comparison
// operator. "<>" is accepted as an alias of "!=".
func ComparisonOperatorFromString(s string) (ComparisonOperator, error) {
	if s == "<>" {
		return NE, nil
	}
	for op, name := range comparisonOpNames {
		if name == s {
			return ComparisonOperator(op), nil
		}
	}
	return 0, pgerror.Newf(pgcode.UndefinedFunction, "unknown comparison operator %q", s)
}

// eval maps the result of tree.Datum.Compare to the truth of the operator.
func (op ComparisonOperator) eval(cmp int) bool {
	switch op {
	case EQ:
		return cmp == 0
	case NE:
		return cmp != 0
	case LT:
		return cmp < 0
	case LE:
		return cmp <= 0
	case GT:
		return cmp > 0
	case GE:
		return cmp >= 0
	}
	return false
}

// ComparisonExpr compares two operands. The result is NULL if either
// operand is NULL.
type ComparisonExpr struct {
	Op          ComparisonOperator
	Left, Right Expr
}

var _ Expr = &ComparisonExpr{}

// NewComparison returns a comparison of two operands whose types are
// comparable.
func NewComparison(op ComparisonOperator, left, right Expr) (*ComparisonExpr, error) {
	if err := checkComparable(op.String(), left, right); err != nil {
		return nil, err
	}
	return &ComparisonExpr{Op: op, Left: left, Right: right}, nil
}

func checkComparable(op string, left, right Expr) error {
	lt, rt := left.ResolvedType(), right.ResolvedType()
	if !lt.Equivalent(rt) {
		return pgerror.Newf(pgcode.DatatypeMismatch,
			"unsupported comparison operator: <%s> %s <%s>", lt, op, rt)
	}
	return nil
}

// Kind implements the Expr interface.
func (*ComparisonExpr) Kind() Kind { return ComparisonKind }

// NewContext implements the Expr interface.
func (e *ComparisonExpr) NewContext() Context {
	c := makeChildContexts(e.Children())
	return &c
}

// Eval implements the Expr interface.
func (e *ComparisonExpr) Eval(ctx Context, schema *colinfo.Schema, t rowenc.Tuple) error {
	c := ctx.(*childContexts)
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
	cmp, err := l.Compare(r)
	if err != nil {
		return err
	}
	c.res = tree.MakeDBool(e.Op.eval(cmp))
	return nil
}

// Terminate implements the Expr interface.
func (*ComparisonExpr) Terminate(ctx Context) tree.Datum { return terminate(ctx) }

// ResolvedType implements the Expr interface.
func (*ComparisonExpr) ResolvedType() *types.T { return types.Bool }

// Children implements the Expr interface.
func (e *ComparisonExpr) Children() []Expr { return []Expr{e.Left, e.Right} }

func (e *ComparisonExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right)
}

// BetweenExpr is `Input [NOT] BETWEEN [SYMMETRIC] From AND To`. It is
// equivalent to `Input >= From AND Input <= To` under three-valued logic.
// With Symmetric set the range also matches with the bounds swapped.
type BetweenExpr struct {
	Input, From, To Expr
	Not             bool
	Symmetric       bool
}

var _ Expr = &BetweenExpr{}

// NewBetween returns a range predicate.
func NewBetween(input, from, to Expr, not, symmetric bool) (*BetweenExpr, error) {
	if err := checkComparable(">=", input, from); err != nil {
		return nil, err
	}
	if err := checkComparable("<=", input, to); err != nil {
		return nil, err
	}
	return &BetweenExpr{Input: input, From: from, To: to, Not: not, Symmetric: symmetric}, nil
}

// Kind implements the Expr interface.
func (*BetweenExpr) Kind() Kind { return BetweenKind }

// NewContext implements the Expr interface.
func (e *BetweenExpr) NewContext() Context {
	c := makeChildContexts(e.Children())
	return &c
}

// Eval implements the Expr interface.
func (e *BetweenExpr) Eval(ctx Context, schema *colinfo.Schema, t rowenc.Tuple) error {
	c := ctx.(*childContexts)
	var vals [3]tree.Datum
	for i, child := range []Expr{e.Input, e.From, e.To} {
		d, err := c.evalChild(child, i, schema, t)
		if err != nil {
			return err
		}
		vals[i] = d
	}
	res, err := between(vals[0], vals[1], vals[2])
	if err != nil {
		return err
	}
	if e.Symmetric {
		swapped, err := between(vals[0], vals[2], vals[1])
		if err != nil {
			return err
		}
		res = or(res, swapped)
	}
	if e.Not {
		res = not(res)
	}
	c.res = res
	return nil
}

func between(in, from, to tree.Datum) (tree.Datum, error) {
	lower, err := compareTruth(GE, in, from)
	if err != nil {
		return nil, err
	}
	upper, err := compareTruth(LE, in, to)
	if err != nil {
		return nil, err
	}
	return and(lower, upper), nil
}

// compareTruth applies op to a and b, yielding NULL when either is NULL.
func compareTruth(op ComparisonOperator, a, b tree.Datum) (tree.Datum, error) {
	if a == tree.DNull || b == tree.DNull {
		return tree.DNull, nil
	}
	cmp, err := a.Compare(b)
	if err != nil {
		return nil, err
	}
	return tree.MakeDBool(op.eval(cmp)), nil
}

// Terminate implements the Expr interface.
func (*BetweenExpr) Terminate(ctx Context) tree.Datum { return terminate(ctx) }

// ResolvedType implements the Expr interface.
func (*BetweenExpr) ResolvedType() *types.T { return types.Bool }

// Children implements the Expr interface.
func (e *BetweenExpr) Children() []Expr { return []Expr{e.Input, e.From, e.To} }

func (e *BetweenExpr) String() string {
	op := "BETWEEN"
	if e.Not {
		op = "NOT " + op
	}
	if e.Symmetric {
		op += " SYMMETRIC"
	}
	return fmt.Sprintf("(%s %s %s AND %s)", e.Input, op, e.From, e.To)
}
