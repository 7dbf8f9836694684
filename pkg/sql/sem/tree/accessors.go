// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package tree

import (
	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/execcore/pkg/sql/types"
)

// The As* accessors unwrap a datum of exactly the requested variant. They
// never coerce: an int4 datum is not readable through AsInt64. NULL is
// reported as a mismatch as well, callers that accept NULL check for it
// first.

// AsBool returns the value of a DBool.
func AsBool(d Datum) (bool, error) {
	if v, ok := d.(DBool); ok {
		return bool(v), nil
	}
	return false, makeAccessError(d, types.Bool)
}

// AsByte returns the value of a DBit.
func AsByte(d Datum) (byte, error) {
	if v, ok := d.(DBit); ok {
		return byte(v), nil
	}
	return 0, makeAccessError(d, types.Bit)
}

// AsInt16 returns the value of a DInt2.
func AsInt16(d Datum) (int16, error) {
	if v, ok := d.(DInt2); ok {
		return int16(v), nil
	}
	return 0, makeAccessError(d, types.Int2)
}

// AsInt32 returns the value of a DInt4.
func AsInt32(d Datum) (int32, error) {
	if v, ok := d.(DInt4); ok {
		return int32(v), nil
	}
	return 0, makeAccessError(d, types.Int4)
}

// AsInt64 returns the value of a DInt8.
func AsInt64(d Datum) (int64, error) {
	if v, ok := d.(DInt8); ok {
		return int64(v), nil
	}
	return 0, makeAccessError(d, types.Int8)
}

// AsFloat32 returns the value of a DFloat4.
func AsFloat32(d Datum) (float32, error) {
	if v, ok := d.(DFloat4); ok {
		return float32(v), nil
	}
	return 0, makeAccessError(d, types.Float4)
}

// AsFloat64 returns the value of a DFloat8.
func AsFloat64(d Datum) (float64, error) {
	if v, ok := d.(DFloat8); ok {
		return float64(v), nil
	}
	return 0, makeAccessError(d, types.Float8)
}

// AsDecimal returns the value of a DDecimal. The result must not be
// modified.
func AsDecimal(d Datum) (*apd.Decimal, error) {
	if v, ok := d.(*DDecimal); ok {
		return &v.Decimal, nil
	}
	return nil, makeAccessError(d, types.Decimal)
}

// AsText returns the string held by a DText or DChar. Both are text
// variants and share a representation.
func AsText(d Datum) (string, error) {
	switch v := d.(type) {
	case DText:
		return string(v), nil
	case DChar:
		return string(v), nil
	}
	return "", makeAccessError(d, types.Text)
}

// AsBytes returns the value of a DBytes.
func AsBytes(d Datum) ([]byte, error) {
	if v, ok := d.(DBytes); ok {
		return []byte(v), nil
	}
	return nil, makeAccessError(d, types.Bytes)
}

// AsIPv4 returns the value of a DIPv4.
func AsIPv4(d Datum) (DIPv4, error) {
	if v, ok := d.(DIPv4); ok {
		return v, nil
	}
	return 0, makeAccessError(d, types.INet4)
}

// IsTrue returns whether d is the boolean true. NULL and false are both
// not true, which is the filtering semantics of WHERE and ON.
func IsTrue(d Datum) bool {
	v, ok := d.(DBool)
	return ok && bool(v)
}

func makeAccessError(d Datum, want *types.T) error {
	if d == nil {
		return pgerror.Newf(pgcode.DatatypeMismatch, "expected %s, found absent value", want)
	}
	return pgerror.Newf(pgcode.DatatypeMismatch,
		"expected %s, found %s value %s", want, d.ResolvedType(), d)
}
