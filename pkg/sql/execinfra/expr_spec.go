// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package execinfra

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/execcore/pkg/sql/catalog/colinfo"
	"github.com/cockroachdb/execcore/pkg/sql/execinfrapb"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/execcore/pkg/sql/sem/eval"
	"github.com/cockroachdb/execcore/pkg/sql/sem/tree"
	"github.com/cockroachdb/execcore/pkg/sql/types"
)

// ExprFromSpec compiles a serialized expression into an expression tree
// whose column references are checked against schema. The returned tree is
// not shared with any other caller.
func ExprFromSpec(spec execinfrapb.Expression, schema *colinfo.Schema) (eval.Expr, error) {
	e, err := exprFromSpec(&spec, schema)
	if err != nil {
		return nil, errors.Wrapf(err, "compiling %s", spec)
	}
	return e, nil
}

func exprFromSpec(spec *execinfrapb.Expression, schema *colinfo.Schema) (eval.Expr, error) {
	switch {
	case spec.Col != "":
		return fieldFromSpec(spec, schema)

	case spec.Const != nil:
		typ, err := constType(spec)
		if err != nil {
			return nil, err
		}
		d, err := tree.ParseStringAs(typ, *spec.Const)
		if err != nil {
			return nil, err
		}
		return eval.NewConst(d), nil

	case spec.Null:
		return eval.NewConst(tree.DNull), nil
	}

	args := make([]eval.Expr, len(spec.Args))
	for i := range spec.Args {
		arg, err := exprFromSpec(&spec.Args[i], schema)
		if err != nil {
			return nil, err
		}
		args[i] = arg
	}
	if spec.Func != "" {
		return eval.NewFunc(spec.Func, args...)
	}
	if spec.Op == "" {
		return nil, pgerror.New(pgcode.SyntaxError, "empty expression")
	}
	return opFromSpec(spec, args)
}

func fieldFromSpec(spec *execinfrapb.Expression, schema *colinfo.Schema) (eval.Expr, error) {
	ord, err := schema.ColumnIndex(spec.Col)
	if err != nil {
		return nil, err
	}
	col := schema.Column(ord)
	if spec.Type == "" {
		return eval.NewFieldFromColumn(col), nil
	}
	typ, err := types.FromString(spec.Type)
	if err != nil {
		return nil, pgerror.Wrap(err, pgcode.SyntaxError, "column reference")
	}
	f := eval.NewField(col.QualifiedName(), typ)
	if _, err := f.Ordinal(schema); err != nil {
		return nil, err
	}
	return f, nil
}

// constType returns the declared type of a literal, or infers one from its
// text: int8 for integers, float8 for other numbers, bool for true and
// false, and text otherwise.
func constType(spec *execinfrapb.Expression) (*types.T, error) {
	if spec.Type != "" {
		typ, err := types.FromString(spec.Type)
		if err != nil {
			return nil, pgerror.Wrap(err, pgcode.SyntaxError, "literal")
		}
		return typ, nil
	}
	s := *spec.Const
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return types.Int8, nil
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return types.Float8, nil
	}
	if l := strings.ToLower(s); l == "true" || l == "false" {
		return types.Bool, nil
	}
	return types.Text, nil
}

func opFromSpec(spec *execinfrapb.Expression, args []eval.Expr) (eval.Expr, error) {
	op := strings.ToLower(spec.Op)
	switch op {
	case "and", "or":
		if len(args) < 2 {
			return nil, wrongArgCount(op, "at least 2", len(args))
		}
		e := args[0]
		for _, arg := range args[1:] {
			var err error
			if op == "and" {
				e, err = eval.NewAnd(e, arg)
			} else {
				e, err = eval.NewOr(e, arg)
			}
			if err != nil {
				return nil, err
			}
		}
		return e, nil

	case "not":
		if len(args) != 1 {
			return nil, wrongArgCount(op, "1", len(args))
		}
		return eval.NewNot(args[0])

	case "is_null", "is_not_null":
		if len(args) != 1 {
			return nil, wrongArgCount(op, "1", len(args))
		}
		return eval.NewIsNull(args[0], op == "is_not_null"), nil

	case "between", "not_between", "between_symmetric", "not_between_symmetric":
		if len(args) != 3 {
			return nil, wrongArgCount(op, "3", len(args))
		}
		not := strings.HasPrefix(op, "not_")
		symmetric := strings.HasSuffix(op, "_symmetric")
		return eval.NewBetween(args[0], args[1], args[2], not, symmetric)

	case "cast":
		if len(args) != 1 {
			return nil, wrongArgCount(op, "1", len(args))
		}
		typ, err := types.FromString(spec.Type)
		if err != nil {
			return nil, pgerror.Wrap(err, pgcode.SyntaxError, "cast")
		}
		return eval.NewCast(args[0], typ), nil
	}

	if len(args) != 2 {
		return nil, wrongArgCount(op, "2", len(args))
	}
	if cmp, err := eval.ComparisonOperatorFromString(op); err == nil {
		return eval.NewComparison(cmp, args[0], args[1])
	}
	bin, err := eval.BinaryOperatorFromString(op)
	if err != nil {
		return nil, pgerror.Newf(pgcode.UndefinedFunction, "unknown operator %q", spec.Op)
	}
	return eval.NewBinary(bin, args[0], args[1])
}

func wrongArgCount(op, expected string, actual int) error {
	return pgerror.Newf(pgcode.SyntaxError,
		"operator %s expects %s arguments, found %d", op, expected, actual)
}

// TargetsFromSpec compiles a render list against schema.
func TargetsFromSpec(specs []execinfrapb.TargetSpec, schema *colinfo.Schema) ([]Target, error) {
	targets := make([]Target, len(specs))
	for i := range specs {
		e, err := ExprFromSpec(specs[i].Expr, schema)
		if err != nil {
			return nil, err
		}
		name := specs[i].Name
		if name == "" {
			if f, ok := e.(*eval.FieldExpr); ok {
				name = f.Name
			} else {
				name = "column" + strconv.Itoa(i+1)
			}
		}
		targets[i] = Target{Name: name, Expr: e}
	}
	return targets, nil
}
