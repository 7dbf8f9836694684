// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rowenc

import (
	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/execcore/pkg/sql/sem/tree"
)

// Typed column accessors. Each reads column i and unwraps the expected
// variant, failing with a DatatypeMismatch error rather than coercing.

// GetBool reads a BOOL column.
func GetBool(t Tuple, i int) (bool, error) { return tree.AsBool(t.Get(i)) }

// GetByte reads a BIT column.
func GetByte(t Tuple, i int) (byte, error) { return tree.AsByte(t.Get(i)) }

// GetInt2 reads an INT2 column.
func GetInt2(t Tuple, i int) (int16, error) { return tree.AsInt16(t.Get(i)) }

// GetInt4 reads an INT4 column.
func GetInt4(t Tuple, i int) (int32, error) { return tree.AsInt32(t.Get(i)) }

// GetInt8 reads an INT8 column.
func GetInt8(t Tuple, i int) (int64, error) { return tree.AsInt64(t.Get(i)) }

// GetFloat4 reads a FLOAT4 column.
func GetFloat4(t Tuple, i int) (float32, error) { return tree.AsFloat32(t.Get(i)) }

// GetFloat8 reads a FLOAT8 column.
func GetFloat8(t Tuple, i int) (float64, error) { return tree.AsFloat64(t.Get(i)) }

// GetDecimal reads a DECIMAL column.
func GetDecimal(t Tuple, i int) (*apd.Decimal, error) { return tree.AsDecimal(t.Get(i)) }

// GetText reads a TEXT or CHAR column.
func GetText(t Tuple, i int) (string, error) { return tree.AsText(t.Get(i)) }

// GetBytes reads a BYTES column.
func GetBytes(t Tuple, i int) ([]byte, error) { return tree.AsBytes(t.Get(i)) }

// GetIPv4 reads an INET4 column.
func GetIPv4(t Tuple, i int) (tree.DIPv4, error) { return tree.AsIPv4(t.Get(i)) }
