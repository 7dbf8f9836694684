// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package keyside

import (
	"encoding/binary"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/execcore/pkg/sql/sem/tree"
)

// Decode decodes a value encoded by EncodeDatum from a key. The result
// carries the normalized family: integers decode as INT8, non-integral
// floats as FLOAT8 and text as TEXT. Absent values decode as nil.
func Decode(key []byte) (_ tree.Datum, remainingKey []byte, _ error) {
	if len(key) == 0 {
		return nil, nil, errors.New("empty key")
	}
	tag, key := key[0], key[1:]
	switch tag {
	case nullTag:
		return tree.DNull, key, nil
	case absentTag:
		return nil, key, nil
	case falseTag:
		return tree.DBool(false), key, nil
	case trueTag:
		return tree.DBool(true), key, nil
	case intTag:
		if len(key) < 8 {
			return nil, nil, errors.Newf("insufficient bytes to decode int: %d", len(key))
		}
		return tree.DInt8(int64(binary.BigEndian.Uint64(key))), key[8:], nil
	case floatTag:
		if len(key) < 8 {
			return nil, nil, errors.Newf("insufficient bytes to decode float: %d", len(key))
		}
		return tree.DFloat8(math.Float64frombits(binary.BigEndian.Uint64(key))), key[8:], nil
	case inet4Tag:
		if len(key) < 4 {
			return nil, nil, errors.Newf("insufficient bytes to decode inet4: %d", len(key))
		}
		return tree.DIPv4(binary.BigEndian.Uint32(key)), key[4:], nil
	case textTag, bytesTag, decimalTag:
		n, w := binary.Uvarint(key)
		if w <= 0 || uint64(len(key)-w) < n {
			return nil, nil, errors.Newf("malformed length-prefixed value")
		}
		s := string(key[w : w+int(n)])
		key = key[w+int(n):]
		switch tag {
		case textTag:
			return tree.DText(s), key, nil
		case bytesTag:
			return tree.DBytes(s), key, nil
		}
		d, err := tree.ParseDDecimal(s)
		return d, key, err
	}
	return nil, nil, errors.Newf("unknown key tag 0x%02x", tag)
}

// DecodeAll decodes every value of a key.
func DecodeAll(key []byte) ([]tree.Datum, error) {
	var datums []tree.Datum
	for len(key) > 0 {
		d, rest, err := Decode(key)
		if err != nil {
			return nil, err
		}
		datums = append(datums, d)
		key = rest
	}
	return datums, nil
}
