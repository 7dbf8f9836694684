// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package execinfrapb

import (
	"fmt"
	"strings"
)

// Expression is the serialized form of a scalar expression. Exactly one of
// Col, Const, Null, Op or Func identifies the node:
//
//	{col: t.a}                                   column reference
//	{const: "12", type: int8}                    literal, parsed as type
//	{null: true}                                 NULL literal
//	{op: "=", args: [...]}                       operator
//	{func: upper, args: [...]}                   builtin call
//
// Type is optional for column references (the column's type is used) and
// names the target type of a cast ({op: cast, type: text, args: [...]}).
// Operators are the comparisons (= != <> < <= > >=), the arithmetic
// operators (+ - * / %), and, or, not, is_null, is_not_null, between,
// not_between, between_symmetric, not_between_symmetric and cast.
type Expression struct {
	Col   string       `yaml:"col,omitempty"`
	Const *string      `yaml:"const,omitempty"`
	Null  bool         `yaml:"null,omitempty"`
	Type  string       `yaml:"type,omitempty"`
	Op    string       `yaml:"op,omitempty"`
	Func  string       `yaml:"func,omitempty"`
	Args  []Expression `yaml:"args,omitempty"`
}

// Col returns a column reference expression.
func Col(name string) Expression {
	return Expression{Col: name}
}

// Const returns a literal expression.
func Const(value, typ string) Expression {
	return Expression{Const: &value, Type: typ}
}

// Op returns an operator expression.
func Op(op string, args ...Expression) Expression {
	return Expression{Op: op, Args: args}
}

// Func returns a function call expression.
func Func(name string, args ...Expression) Expression {
	return Expression{Func: name, Args: args}
}

func (e Expression) String() string {
	switch {
	case e.Col != "":
		return e.Col
	case e.Const != nil:
		return fmt.Sprintf("%s:%s", *e.Const, e.Type)
	case e.Null:
		return "NULL"
	}
	args := make([]string, len(e.Args))
	for i := range e.Args {
		args[i] = e.Args[i].String()
	}
	name := e.Func
	if name == "" {
		name = e.Op
		if e.Type != "" {
			name += ":" + e.Type
		}
	}
	return fmt.Sprintf("%s(%s)", name, strings.Join(args, ", "))
}
