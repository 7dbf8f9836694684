// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package keyside

import (
	"encoding/binary"
	"math"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/execcore/pkg/sql/sem/tree"
)

// Tags that prefix every encoded value.
const (
	nullTag    byte = 0x00
	absentTag  byte = 0x01
	falseTag   byte = 0x10
	trueTag    byte = 0x11
	intTag     byte = 0x20
	floatTag   byte = 0x30
	decimalTag byte = 0x38
	textTag    byte = 0x40
	bytesTag   byte = 0x50
	inet4Tag   byte = 0x60
)

// Encode appends the canonical encoding of datums to buf. hasNull reports
// whether any of the datums is NULL or absent; a key with a NULL never
// matches under SQL equality, so callers typically skip such keys.
func Encode(buf []byte, datums []tree.Datum) (_ []byte, hasNull bool) {
	for _, d := range datums {
		var null bool
		buf, null = EncodeDatum(buf, d)
		hasNull = hasNull || null
	}
	return buf, hasNull
}

// EncodeDatum appends the canonical encoding of a single datum.
func EncodeDatum(buf []byte, d tree.Datum) (_ []byte, isNull bool) {
	switch t := d.(type) {
	case nil:
		return append(buf, absentTag), true
	case tree.DBool:
		if t {
			return append(buf, trueTag), false
		}
		return append(buf, falseTag), false
	case tree.DBit:
		return encodeInt(buf, int64(t)), false
	case tree.DInt2:
		return encodeInt(buf, int64(t)), false
	case tree.DInt4:
		return encodeInt(buf, int64(t)), false
	case tree.DInt8:
		return encodeInt(buf, int64(t)), false
	case tree.DFloat4:
		return encodeFloat(buf, float64(t)), false
	case tree.DFloat8:
		return encodeFloat(buf, float64(t)), false
	case *tree.DDecimal:
		return encodeDecimal(buf, &t.Decimal), false
	case tree.DChar:
		return encodeBytes(buf, textTag, string(t)), false
	case tree.DText:
		return encodeBytes(buf, textTag, string(t)), false
	case tree.DBytes:
		return encodeBytes(buf, bytesTag, string(t)), false
	case tree.DIPv4:
		buf = append(buf, inet4Tag)
		return binary.BigEndian.AppendUint32(buf, uint32(t)), false
	}
	if d == tree.DNull {
		return append(buf, nullTag), true
	}
	panic(errors.AssertionFailedf("unsupported datum type %T", d))
}

func encodeInt(buf []byte, v int64) []byte {
	buf = append(buf, intTag)
	return binary.BigEndian.AppendUint64(buf, uint64(v))
}

// encodeFloat encodes integral values that fit in an int64 as integers so
// that 3.0 and 3 produce the same key.
func encodeFloat(buf []byte, f float64) []byte {
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return encodeInt(buf, int64(f))
	}
	if math.IsNaN(f) {
		f = math.NaN()
	}
	buf = append(buf, floatTag)
	return binary.BigEndian.AppendUint64(buf, math.Float64bits(f))
}

// encodeDecimal picks the narrowest exact representation: integer, then
// float64, then the reduced decimal text.
func encodeDecimal(buf []byte, d *apd.Decimal) []byte {
	if d.Form == apd.Finite {
		var reduced apd.Decimal
		reduced.Reduce(d)
		if reduced.Exponent >= 0 {
			if i, err := reduced.Int64(); err == nil {
				return encodeInt(buf, i)
			}
		}
		if f, err := reduced.Float64(); err == nil {
			var back apd.Decimal
			if _, err := back.SetFloat64(f); err == nil && back.Cmp(&reduced) == 0 {
				return encodeFloat(buf, f)
			}
		}
		return encodeBytes(buf, decimalTag, reduced.String())
	}
	switch {
	case d.Form == apd.Infinite && d.Negative:
		return encodeFloat(buf, math.Inf(-1))
	case d.Form == apd.Infinite:
		return encodeFloat(buf, math.Inf(1))
	}
	return encodeFloat(buf, math.NaN())
}

func encodeBytes(buf []byte, tag byte, s string) []byte {
	buf = append(buf, tag)
	buf = binary.AppendUvarint(buf, uint64(len(s)))
	return append(buf, s...)
}
