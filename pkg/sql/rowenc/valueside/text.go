// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package valueside

import (
	"encoding/base64"
	"strconv"

	"github.com/cockroachdb/execcore/pkg/sql/catalog/colinfo"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc"
	"github.com/cockroachdb/execcore/pkg/sql/sem/tree"
	"github.com/cockroachdb/execcore/pkg/sql/types"
)

// TextSerDe is the text encoding of column values: numbers as decimal
// strings, booleans as t/f, bytes in standard base64, addresses as dotted
// quads and everything textual verbatim. NULL is written as NullMarker.
type TextSerDe struct {
	NullMarker []byte
}

var _ rowenc.ValueDecoder = TextSerDe{}

// Serialize appends the text encoding of d to buf.
func (s TextSerDe) Serialize(buf []byte, col colinfo.Column, d tree.Datum) ([]byte, error) {
	if d == tree.DNull {
		return append(buf, s.NullMarker...), nil
	}
	if err := checkType(col, d); err != nil {
		return nil, err
	}
	switch t := d.(type) {
	case tree.DBool:
		if t {
			return append(buf, 't'), nil
		}
		return append(buf, 'f'), nil
	case tree.DBit:
		return strconv.AppendUint(buf, uint64(t), 10), nil
	case tree.DInt2:
		return strconv.AppendInt(buf, int64(t), 10), nil
	case tree.DInt4:
		return strconv.AppendInt(buf, int64(t), 10), nil
	case tree.DInt8:
		return strconv.AppendInt(buf, int64(t), 10), nil
	case tree.DFloat4, tree.DFloat8, *tree.DDecimal, tree.DIPv4:
		return append(buf, d.String()...), nil
	case tree.DChar:
		return append(buf, t...), nil
	case tree.DText:
		return append(buf, t...), nil
	case tree.DBytes:
		return base64.StdEncoding.AppendEncode(buf, []byte(t)), nil
	}
	return nil, unsupportedDatum(col, d)
}

// Decode implements rowenc.ValueDecoder.
func (s TextSerDe) Decode(col colinfo.Column, raw []byte) (tree.Datum, error) {
	if s.NullMarker != nil && string(raw) == string(s.NullMarker) {
		return tree.DNull, nil
	}
	return tree.ParseStringAs(col.Type, string(raw))
}

func checkType(col colinfo.Column, d tree.Datum) error {
	if d == nil {
		return pgerror.Newf(pgcode.InvalidParameterValue,
			"no value for column %q", col.QualifiedName())
	}
	typ := d.ResolvedType()
	if typ.Family != col.Type.Family {
		return pgerror.Newf(pgcode.DatatypeMismatch,
			"value type %s doesn't match type %s of column %q", typ, col.Type, col.QualifiedName())
	}
	return nil
}

func unsupportedDatum(col colinfo.Column, d tree.Datum) error {
	return pgerror.Newf(pgcode.DatatypeMismatch,
		"cannot encode %T for column %q of type %s", d, col.QualifiedName(), col.Type)
}

// familyOf is a shorthand used by the binary codec.
func familyOf(col colinfo.Column) types.Family { return col.Type.Family }
