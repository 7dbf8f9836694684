// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package builtins

import (
	"math"

	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/execcore/pkg/sql/sem/tree"
	"github.com/cockroachdb/execcore/pkg/sql/types"
)

var errAbsOfMinInt = pgerror.New(pgcode.NumericValueOutOfRange, "abs of min integer value")

func initMathBuiltins() {
	absInfo := "Calculates the absolute value of the argument."
	register("abs",
		Overload{
			Types:      []*types.T{types.Int2},
			ReturnType: identityReturnType,
			Fn: func(args []tree.Datum) (tree.Datum, error) {
				x := args[0].(tree.DInt2)
				if x == math.MinInt16 {
					return nil, errAbsOfMinInt
				}
				if x < 0 {
					x = -x
				}
				return x, nil
			},
			Info: absInfo,
		},
		Overload{
			Types:      []*types.T{types.Int4},
			ReturnType: identityReturnType,
			Fn: func(args []tree.Datum) (tree.Datum, error) {
				x := args[0].(tree.DInt4)
				if x == math.MinInt32 {
					return nil, errAbsOfMinInt
				}
				if x < 0 {
					x = -x
				}
				return x, nil
			},
			Info: absInfo,
		},
		Overload{
			Types:      []*types.T{types.Int8},
			ReturnType: identityReturnType,
			Fn: func(args []tree.Datum) (tree.Datum, error) {
				x := args[0].(tree.DInt8)
				if x == math.MinInt64 {
					return nil, errAbsOfMinInt
				}
				if x < 0 {
					x = -x
				}
				return x, nil
			},
			Info: absInfo,
		},
		Overload{
			Types:      []*types.T{types.Float4},
			ReturnType: identityReturnType,
			Fn: func(args []tree.Datum) (tree.Datum, error) {
				return tree.DFloat4(math.Abs(float64(args[0].(tree.DFloat4)))), nil
			},
			Info: absInfo,
		},
		Overload{
			Types:      []*types.T{types.Float8},
			ReturnType: identityReturnType,
			Fn: func(args []tree.Datum) (tree.Datum, error) {
				return tree.DFloat8(math.Abs(float64(args[0].(tree.DFloat8)))), nil
			},
			Info: absInfo,
		},
		Overload{
			Types:      []*types.T{types.Decimal},
			ReturnType: identityReturnType,
			Fn: func(args []tree.Datum) (tree.Datum, error) {
				dd := &tree.DDecimal{}
				dd.Abs(&args[0].(*tree.DDecimal).Decimal)
				return dd, nil
			},
			Info: absInfo,
		},
	)
}
