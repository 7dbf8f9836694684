// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package builtins

import (
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/execcore/pkg/sql/sem/tree"
	"github.com/cockroachdb/execcore/pkg/sql/types"
)

func stringOverloads(info string, fn func(string) string) []Overload {
	return []Overload{
		{
			Types:      []*types.T{types.Text},
			ReturnType: fixedReturnType(types.Text),
			Fn: func(args []tree.Datum) (tree.Datum, error) {
				return tree.DText(fn(string(args[0].(tree.DText)))), nil
			},
			Info: info,
		},
		{
			Types:      []*types.T{types.Char},
			ReturnType: identityReturnType,
			Fn: func(args []tree.Datum) (tree.Datum, error) {
				return tree.DChar(fn(string(args[0].(tree.DChar)))), nil
			},
			Info: info,
		},
	}
}

func initStringBuiltins() {
	register("upper", stringOverloads("Converts all characters to upper case.", strings.ToUpper)...)
	register("lower", stringOverloads("Converts all characters to lower case.", strings.ToLower)...)

	register("length",
		Overload{
			Types:      []*types.T{types.Text},
			ReturnType: fixedReturnType(types.Int4),
			Fn: func(args []tree.Datum) (tree.Datum, error) {
				return tree.DInt4(utf8.RuneCountInString(string(args[0].(tree.DText)))), nil
			},
			Info: "Calculates the number of characters.",
		},
		Overload{
			Types:      []*types.T{types.Char},
			ReturnType: fixedReturnType(types.Int4),
			Fn: func(args []tree.Datum) (tree.Datum, error) {
				return tree.DInt4(utf8.RuneCountInString(string(args[0].(tree.DChar)))), nil
			},
			Info: "Calculates the number of characters.",
		},
		Overload{
			Types:      []*types.T{types.Bytes},
			ReturnType: fixedReturnType(types.Int4),
			Fn: func(args []tree.Datum) (tree.Datum, error) {
				return tree.DInt4(len(args[0].(tree.DBytes))), nil
			},
			Info: "Calculates the number of bytes.",
		},
	)

	register("concat", Overload{
		Types:             []*types.T{nil},
		Variadic:          true,
		ReturnType:        fixedReturnType(types.Text),
		CalledOnNullInput: true,
		Fn: func(args []tree.Datum) (tree.Datum, error) {
			var b strings.Builder
			for _, d := range args {
				if d == tree.DNull {
					continue
				}
				b.WriteString(d.String())
			}
			return tree.DText(b.String()), nil
		},
		Info: "Concatenates the text form of the arguments, skipping NULLs.",
	})

	register("coalesce", Overload{
		Types:             []*types.T{nil},
		Variadic:          true,
		ReturnType:        firstNonNullReturnType,
		CalledOnNullInput: true,
		Fn: func(args []tree.Datum) (tree.Datum, error) {
			for _, d := range args {
				if d != tree.DNull {
					return d, nil
				}
			}
			return tree.DNull, nil
		},
		Info: "Returns the first non-NULL argument.",
	})
}
