// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package tree

import (
	"encoding/base64"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/execcore/pkg/sql/types"
)

// ParseStringAs reads s as type t. If t is Text or Char, s is returned
// unchanged. Bytes are expected in standard base64. Otherwise s is parsed
// with the given type's Parse func.
func ParseStringAs(t *types.T, s string) (Datum, error) {
	switch t.Family {
	case types.BoolFamily:
		return ParseDBool(s)
	case types.BitFamily:
		v, err := parseInt(s, 8, t, true /* unsigned */)
		return DBit(v), err
	case types.Int2Family:
		v, err := parseInt(s, 16, t, false)
		return DInt2(v), err
	case types.Int4Family:
		v, err := parseInt(s, 32, t, false)
		return DInt4(v), err
	case types.Int8Family:
		v, err := parseInt(s, 64, t, false)
		return DInt8(v), err
	case types.Float4Family:
		f, err := parseFloat(s, 32, t)
		return DFloat4(f), err
	case types.Float8Family:
		f, err := parseFloat(s, 64, t)
		return DFloat8(f), err
	case types.DecimalFamily:
		return ParseDDecimal(strings.TrimSpace(s))
	case types.CharFamily:
		return DChar(s), nil
	case types.TextFamily:
		return DText(s), nil
	case types.BytesFamily:
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, makeParseError(s, t, err)
		}
		return DBytes(b), nil
	case types.INet4Family:
		return ParseDIPv4(strings.TrimSpace(s))
	}
	return nil, errors.AssertionFailedf("unknown type %s", t)
}

// ParseDBool parses and returns the DBool Datum value represented by the
// provided string, or an error if parsing is unsuccessful.
func ParseDBool(s string) (DBool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "t", "true", "y", "yes", "on", "1":
		return DBool(true), nil
	case "f", "false", "n", "no", "off", "0":
		return DBool(false), nil
	}
	return false, makeParseError(s, types.Bool, nil)
}

func parseInt(s string, bitSize int, t *types.T, unsigned bool) (int64, error) {
	s = strings.TrimSpace(s)
	if unsigned {
		v, err := strconv.ParseUint(s, 10, bitSize)
		if err != nil {
			return 0, makeParseError(s, t, err)
		}
		return int64(v), nil
	}
	v, err := strconv.ParseInt(s, 10, bitSize)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, pgerror.Newf(pgcode.NumericValueOutOfRange, "%s out of range for type %s", s, t)
		}
		return 0, makeParseError(s, t, err)
	}
	return v, nil
}

func parseFloat(s string, bitSize int, t *types.T) (float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "nan":
		return math.NaN(), nil
	case "infinity", "inf", "+infinity", "+inf":
		return math.Inf(1), nil
	case "-infinity", "-inf":
		return math.Inf(-1), nil
	}
	f, err := strconv.ParseFloat(s, bitSize)
	if err != nil {
		var numErr *strconv.NumError
		if !errors.As(err, &numErr) || !errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, makeParseError(s, t, err)
		}
	}
	return f, nil
}

func makeParseError(s string, typ *types.T, err error) error {
	if err != nil {
		return pgerror.Wrapf(err, pgcode.InvalidTextRepresentation,
			"could not parse %q as type %s", s, typ)
	}
	return pgerror.Newf(pgcode.InvalidTextRepresentation,
		"could not parse %q as type %s", s, typ)
}
