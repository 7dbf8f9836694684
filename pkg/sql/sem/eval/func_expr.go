// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package eval

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/execcore/pkg/sql/catalog/colinfo"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc"
	"github.com/cockroachdb/execcore/pkg/sql/sem/builtins"
	"github.com/cockroachdb/execcore/pkg/sql/sem/tree"
	"github.com/cockroachdb/execcore/pkg/sql/types"
)

// FuncExpr is a call of a builtin function. The overload is resolved from
// the argument types when the node is built.
type FuncExpr struct {
	Name string
	Args []Expr

	overload *builtins.Overload
	typ      *types.T
}

var _ Expr = &FuncExpr{}

// NewFunc resolves the named builtin for the given arguments.
func NewFunc(name string, args ...Expr) (*FuncExpr, error) {
	def, err := builtins.Lookup(name)
	if err != nil {
		return nil, err
	}
	argTypes := make([]*types.T, len(args))
	for i, a := range args {
		argTypes[i] = a.ResolvedType()
	}
	o, err := def.Resolve(argTypes)
	if err != nil {
		return nil, err
	}
	return &FuncExpr{
		Name:     def.Name,
		Args:     args,
		overload: o,
		typ:      o.ReturnType(argTypes),
	}, nil
}

type funcContext struct {
	childContexts
	args []tree.Datum
}

// Kind implements the Expr interface.
func (*FuncExpr) Kind() Kind { return FuncKind }

// NewContext implements the Expr interface.
func (e *FuncExpr) NewContext() Context {
	return &funcContext{
		childContexts: makeChildContexts(e.Args),
		args:          make([]tree.Datum, len(e.Args)),
	}
}

// Eval implements the Expr interface.
func (e *FuncExpr) Eval(ctx Context, schema *colinfo.Schema, t rowenc.Tuple) error {
	c := ctx.(*funcContext)
	for i, arg := range e.Args {
		d, err := c.evalChild(arg, i, schema, t)
		if err != nil {
			return err
		}
		c.args[i] = d
	}
	res, err := e.overload.Call(c.args)
	if err != nil {
		return errors.Wrapf(err, "%s()", e.Name)
	}
	c.res = res
	return nil
}

// Terminate implements the Expr interface.
func (*FuncExpr) Terminate(ctx Context) tree.Datum { return terminate(ctx) }

// ResolvedType implements the Expr interface.
func (e *FuncExpr) ResolvedType() *types.T { return e.typ }

// Children implements the Expr interface.
func (e *FuncExpr) Children() []Expr { return e.Args }

func (e *FuncExpr) String() string {
	var b strings.Builder
	b.WriteString(e.Name)
	b.WriteByte('(')
	for i, a := range e.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteByte(')')
	return b.String()
}
