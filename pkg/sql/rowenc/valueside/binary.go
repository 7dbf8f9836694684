// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package valueside

import (
	"encoding/binary"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/execcore/pkg/sql/catalog/colinfo"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc"
	"github.com/cockroachdb/execcore/pkg/sql/sem/tree"
	"github.com/cockroachdb/execcore/pkg/sql/types"
)

// BinarySerDe is the compact encoding of column values: fixed-width
// big-endian integers and IEEE floats, raw bytes for text and blobs, four
// bytes for an address and the decimal's string form. It does not encode
// NULL; the row framing of the block file marks NULL columns.
type BinarySerDe struct{}

var _ rowenc.ValueDecoder = BinarySerDe{}

// Serialize appends the binary encoding of d to buf.
func (BinarySerDe) Serialize(buf []byte, col colinfo.Column, d tree.Datum) ([]byte, error) {
	if d == tree.DNull {
		return nil, errors.AssertionFailedf("NULL has no binary value encoding")
	}
	if err := checkType(col, d); err != nil {
		return nil, err
	}
	switch t := d.(type) {
	case tree.DBool:
		if t {
			return append(buf, 1), nil
		}
		return append(buf, 0), nil
	case tree.DBit:
		return append(buf, byte(t)), nil
	case tree.DInt2:
		return binary.BigEndian.AppendUint16(buf, uint16(t)), nil
	case tree.DInt4:
		return binary.BigEndian.AppendUint32(buf, uint32(t)), nil
	case tree.DInt8:
		return binary.BigEndian.AppendUint64(buf, uint64(t)), nil
	case tree.DFloat4:
		return binary.BigEndian.AppendUint32(buf, math.Float32bits(float32(t))), nil
	case tree.DFloat8:
		return binary.BigEndian.AppendUint64(buf, math.Float64bits(float64(t))), nil
	case *tree.DDecimal:
		return append(buf, t.String()...), nil
	case tree.DChar:
		return append(buf, t...), nil
	case tree.DText:
		return append(buf, t...), nil
	case tree.DBytes:
		return append(buf, t...), nil
	case tree.DIPv4:
		return binary.BigEndian.AppendUint32(buf, uint32(t)), nil
	}
	return nil, unsupportedDatum(col, d)
}

// Decode implements rowenc.ValueDecoder.
func (BinarySerDe) Decode(col colinfo.Column, raw []byte) (tree.Datum, error) {
	fam := familyOf(col)
	if n := fixedWidth(fam); n > 0 && len(raw) != n {
		return nil, errors.Newf("expected %d bytes for %s, found %d", n, col.Type, len(raw))
	}
	switch fam {
	case types.BoolFamily:
		switch raw[0] {
		case 0:
			return tree.DBool(false), nil
		case 1:
			return tree.DBool(true), nil
		}
		return nil, errors.Newf("invalid bool byte 0x%02x", raw[0])
	case types.BitFamily:
		return tree.DBit(raw[0]), nil
	case types.Int2Family:
		return tree.DInt2(int16(binary.BigEndian.Uint16(raw))), nil
	case types.Int4Family:
		return tree.DInt4(int32(binary.BigEndian.Uint32(raw))), nil
	case types.Int8Family:
		return tree.DInt8(int64(binary.BigEndian.Uint64(raw))), nil
	case types.Float4Family:
		return tree.DFloat4(math.Float32frombits(binary.BigEndian.Uint32(raw))), nil
	case types.Float8Family:
		return tree.DFloat8(math.Float64frombits(binary.BigEndian.Uint64(raw))), nil
	case types.DecimalFamily:
		return tree.ParseDDecimal(string(raw))
	case types.CharFamily:
		return tree.DChar(raw), nil
	case types.TextFamily:
		return tree.DText(raw), nil
	case types.BytesFamily:
		return tree.DBytes(raw), nil
	case types.INet4Family:
		return tree.DIPv4(binary.BigEndian.Uint32(raw)), nil
	}
	return nil, errors.AssertionFailedf("unsupported column type %s", col.Type)
}

func fixedWidth(fam types.Family) int {
	switch fam {
	case types.BoolFamily, types.BitFamily:
		return 1
	case types.Int2Family:
		return 2
	case types.Int4Family, types.Float4Family, types.INet4Family:
		return 4
	case types.Int8Family, types.Float8Family:
		return 8
	}
	return 0
}
