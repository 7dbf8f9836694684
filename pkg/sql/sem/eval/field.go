// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package eval

import (
	"sync/atomic"

	"github.com/cockroachdb/execcore/pkg/sql/catalog/colinfo"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc"
	"github.com/cockroachdb/execcore/pkg/sql/sem/tree"
	"github.com/cockroachdb/execcore/pkg/sql/types"
)

// FieldExpr references a column of the input row by name.
//
// The name is resolved against the schema passed to the first Eval and the
// ordinal is cached for the lifetime of the node. A FieldExpr must therefore
// not be evaluated against two schemas that lay the column out differently.
// Two FieldExprs are equal when they have the same name and type; the
// cached ordinal does not take part.
type FieldExpr struct {
	// Name is the qualified (or unambiguous unqualified) column name.
	Name string
	Typ  *types.T

	// ordinal is the resolved column ordinal plus one; zero means the
	// name has not been resolved yet.
	ordinal atomic.Int32
}

var _ Expr = &FieldExpr{}

// NewField returns a reference to the named column of the given type.
func NewField(name string, typ *types.T) *FieldExpr {
	return &FieldExpr{Name: name, Typ: typ}
}

// NewFieldFromColumn returns a reference to col.
func NewFieldFromColumn(col colinfo.Column) *FieldExpr {
	return NewField(col.QualifiedName(), col.Type)
}

// Kind implements the Expr interface.
func (*FieldExpr) Kind() Kind { return FieldKind }

// NewContext implements the Expr interface.
func (*FieldExpr) NewContext() Context { return &resultContext{} }

// Ordinal returns the position of the column in schema, resolving and
// caching it on first use.
func (e *FieldExpr) Ordinal(schema *colinfo.Schema) (int, error) {
	if o := e.ordinal.Load(); o > 0 {
		return int(o - 1), nil
	}
	ord, err := schema.ColumnIndex(e.Name)
	if err != nil {
		return 0, err
	}
	if col := schema.Column(ord); !col.Type.Equivalent(e.Typ) {
		return 0, pgerror.Newf(pgcode.DatatypeMismatch,
			"column %s is of type %s, expected %s", col.QualifiedName(), col.Type, e.Typ)
	}
	// Concurrent resolutions against the same schema store the same value.
	e.ordinal.Store(int32(ord + 1))
	return ord, nil
}

// Eval implements the Expr interface. An absent column evaluates to NULL.
func (e *FieldExpr) Eval(ctx Context, schema *colinfo.Schema, t rowenc.Tuple) error {
	c := ctx.(*resultContext)
	ord, err := e.Ordinal(schema)
	if err != nil {
		return err
	}
	d := t.Get(ord)
	if err := rowenc.Err(t); err != nil {
		return err
	}
	if d == nil {
		d = tree.DNull
	}
	c.res = d
	return nil
}

// Terminate implements the Expr interface.
func (*FieldExpr) Terminate(ctx Context) tree.Datum { return terminate(ctx) }

// ResolvedType implements the Expr interface.
func (e *FieldExpr) ResolvedType() *types.T { return e.Typ }

// Children implements the Expr interface.
func (*FieldExpr) Children() []Expr { return nil }

func (e *FieldExpr) String() string { return e.Name }

// ConstExpr is a literal value.
type ConstExpr struct {
	Datum tree.Datum
}

var _ Expr = &ConstExpr{}

// NewConst returns a literal expression.
func NewConst(d tree.Datum) *ConstExpr {
	return &ConstExpr{Datum: d}
}

// Kind implements the Expr interface.
func (*ConstExpr) Kind() Kind { return ConstKind }

// NewContext implements the Expr interface.
func (*ConstExpr) NewContext() Context { return &resultContext{} }

// Eval implements the Expr interface.
func (e *ConstExpr) Eval(ctx Context, _ *colinfo.Schema, _ rowenc.Tuple) error {
	ctx.(*resultContext).res = e.Datum
	return nil
}

// Terminate implements the Expr interface.
func (*ConstExpr) Terminate(ctx Context) tree.Datum { return terminate(ctx) }

// ResolvedType implements the Expr interface.
func (e *ConstExpr) ResolvedType() *types.T { return e.Datum.ResolvedType() }

// Children implements the Expr interface.
func (*ConstExpr) Children() []Expr { return nil }

func (e *ConstExpr) String() string {
	switch e.Datum.ResolvedType().Family {
	case types.CharFamily, types.TextFamily, types.INet4Family:
		return "'" + e.Datum.String() + "'"
	}
	return e.Datum.String()
}
