// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package eval evaluates scalar expressions against rows.
//
// An Expr is an immutable node of an expression tree. All state of one
// evaluation lives in a Context obtained from Expr.NewContext, so a single
// compiled tree may be evaluated concurrently or reentrantly as long as
// every evaluation uses its own Context. The contexts of a tree mirror its
// shape: the context of an interior node holds the contexts of its children.
//
// Evaluation is a two step protocol:
//
//	ctx := e.NewContext()
//	if err := e.Eval(ctx, schema, row); err != nil { ... }
//	d := e.Terminate(ctx)
package eval

import (
	"fmt"

	"github.com/cockroachdb/execcore/pkg/sql/catalog/colinfo"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc"
	"github.com/cockroachdb/execcore/pkg/sql/sem/tree"
	"github.com/cockroachdb/execcore/pkg/sql/types"
)

// Kind identifies the concrete node type of an Expr. The set of kinds is
// closed.
type Kind int

const (
	FieldKind Kind = iota
	ConstKind
	ComparisonKind
	AndKind
	OrKind
	NotKind
	BinaryKind
	IsNullKind
	BetweenKind
	FuncKind
	CastKind
)

var kindNames = [...]string{
	FieldKind:      "field",
	ConstKind:      "const",
	ComparisonKind: "comparison",
	AndKind:        "and",
	OrKind:         "or",
	NotKind:        "not",
	BinaryKind:     "binary",
	IsNullKind:     "is-null",
	BetweenKind:    "between",
	FuncKind:       "func",
	CastKind:       "cast",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Expr is a node of an expression tree.
type Expr interface {
	fmt.Stringer

	Kind() Kind

	// NewContext allocates the scratch state for one evaluation of the
	// subtree rooted at this node.
	NewContext() Context

	// Eval computes the value of the node for row t, laid out according to
	// schema, and stores it in ctx. Children are evaluated first.
	Eval(ctx Context, schema *colinfo.Schema, t rowenc.Tuple) error

	// Terminate returns the value computed by the last call to Eval on ctx.
	Terminate(ctx Context) tree.Datum

	// ResolvedType returns the static type of the values produced by Eval.
	ResolvedType() *types.T

	// Children returns the direct operands of the node, in evaluation order.
	Children() []Expr
}

// Context is the per-evaluation state of an Expr. A Context must only be
// passed to the Expr that created it.
type Context interface {
	result() tree.Datum
}

// resultContext is the context of a leaf node.
type resultContext struct {
	res tree.Datum
}

func (c *resultContext) result() tree.Datum { return c.res }

// childContexts holds the contexts of an interior node's children.
type childContexts struct {
	resultContext
	children []Context
}

func makeChildContexts(exprs []Expr) childContexts {
	c := childContexts{children: make([]Context, len(exprs))}
	for i, e := range exprs {
		c.children[i] = e.NewContext()
	}
	return c
}

// evalChild evaluates the i-th child and returns its value.
func (c *childContexts) evalChild(
	e Expr, i int, schema *colinfo.Schema, t rowenc.Tuple,
) (tree.Datum, error) {
	if err := e.Eval(c.children[i], schema, t); err != nil {
		return nil, err
	}
	return e.Terminate(c.children[i]), nil
}

func terminate(ctx Context) tree.Datum {
	return ctx.result()
}

// EvalOnce evaluates e against a single row with a fresh context.
func EvalOnce(e Expr, schema *colinfo.Schema, t rowenc.Tuple) (tree.Datum, error) {
	ctx := e.NewContext()
	if err := e.Eval(ctx, schema, t); err != nil {
		return nil, err
	}
	return e.Terminate(ctx), nil
}

// EvalPredicate evaluates a boolean expression and reports whether it is
// true. NULL is not true.
func EvalPredicate(
	e Expr, ctx Context, schema *colinfo.Schema, t rowenc.Tuple,
) (bool, error) {
	if err := e.Eval(ctx, schema, t); err != nil {
		return false, err
	}
	return tree.IsTrue(e.Terminate(ctx)), nil
}
