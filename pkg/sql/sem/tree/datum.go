// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package tree

import (
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"unsafe"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/execcore/pkg/sql/types"
)

// Datum represents a single typed SQL value, possibly NULL.
type Datum interface {
	fmt.Stringer
	// ResolvedType returns the type of the datum.
	ResolvedType() *types.T
	// Compare returns -1 if the receiver is less than other, 0 if receiver is
	// equal to other and +1 if receiver is greater than other. NULL sorts
	// before every other value. Numeric datums of different families compare
	// by value; any other pair of differing families is a type mismatch.
	Compare(other Datum) (int, error)
	// Size returns a lower bound on the total size of the receiver in bytes,
	// including memory that is pointed at by the receiver.
	Size() uintptr
}

var (
	// DNull is the NULL Datum.
	DNull Datum = dNull{}

	// DBoolTrue is a pointer-free DBool(true) usable as a Datum.
	DBoolTrue Datum = DBool(true)
	// DBoolFalse is DBool(false).
	DBoolFalse Datum = DBool(false)
)

// DBool is the boolean Datum.
type DBool bool

// MakeDBool converts its argument to a Datum.
func MakeDBool(b bool) DBool {
	return DBool(b)
}

// ResolvedType implements the Datum interface.
func (DBool) ResolvedType() *types.T { return types.Bool }

// Compare implements the Datum interface.
func (d DBool) Compare(other Datum) (int, error) {
	if other == DNull {
		// NULL is less than any non-NULL value.
		return 1, nil
	}
	v, ok := other.(DBool)
	if !ok {
		return 0, makeUnsupportedComparisonError(d, other)
	}
	switch {
	case !bool(d) && bool(v):
		return -1, nil
	case bool(d) && !bool(v):
		return 1, nil
	}
	return 0, nil
}

func (d DBool) String() string { return strconv.FormatBool(bool(d)) }

// Size implements the Datum interface.
func (d DBool) Size() uintptr { return unsafe.Sizeof(d) }

// DBit is the single-byte Datum.
type DBit uint8

// NewDBit is a helper routine to create a DBit.
func NewDBit(b byte) DBit { return DBit(b) }

// ResolvedType implements the Datum interface.
func (DBit) ResolvedType() *types.T { return types.Bit }

// Compare implements the Datum interface.
func (d DBit) Compare(other Datum) (int, error) { return compareNumeric(d, other) }

func (d DBit) String() string { return strconv.Itoa(int(d)) }

// Size implements the Datum interface.
func (d DBit) Size() uintptr { return unsafe.Sizeof(d) }

// DInt2 is the 2-byte integer Datum.
type DInt2 int16

// NewDInt2 is a helper routine to create a DInt2.
func NewDInt2(v int16) DInt2 { return DInt2(v) }

// ResolvedType implements the Datum interface.
func (DInt2) ResolvedType() *types.T { return types.Int2 }

// Compare implements the Datum interface.
func (d DInt2) Compare(other Datum) (int, error) { return compareNumeric(d, other) }

func (d DInt2) String() string { return strconv.FormatInt(int64(d), 10) }

// Size implements the Datum interface.
func (d DInt2) Size() uintptr { return unsafe.Sizeof(d) }

// DInt4 is the 4-byte integer Datum.
type DInt4 int32

// NewDInt4 is a helper routine to create a DInt4.
func NewDInt4(v int32) DInt4 { return DInt4(v) }

// ResolvedType implements the Datum interface.
func (DInt4) ResolvedType() *types.T { return types.Int4 }

// Compare implements the Datum interface.
func (d DInt4) Compare(other Datum) (int, error) { return compareNumeric(d, other) }

func (d DInt4) String() string { return strconv.FormatInt(int64(d), 10) }

// Size implements the Datum interface.
func (d DInt4) Size() uintptr { return unsafe.Sizeof(d) }

// DInt8 is the 8-byte integer Datum.
type DInt8 int64

// NewDInt8 is a helper routine to create a DInt8.
func NewDInt8(v int64) DInt8 { return DInt8(v) }

// ResolvedType implements the Datum interface.
func (DInt8) ResolvedType() *types.T { return types.Int8 }

// Compare implements the Datum interface.
func (d DInt8) Compare(other Datum) (int, error) { return compareNumeric(d, other) }

func (d DInt8) String() string { return strconv.FormatInt(int64(d), 10) }

// Size implements the Datum interface.
func (d DInt8) Size() uintptr { return unsafe.Sizeof(d) }

// DFloat4 is the single-precision float Datum.
type DFloat4 float32

// NewDFloat4 is a helper routine to create a DFloat4.
func NewDFloat4(v float32) DFloat4 { return DFloat4(v) }

// ResolvedType implements the Datum interface.
func (DFloat4) ResolvedType() *types.T { return types.Float4 }

// Compare implements the Datum interface.
func (d DFloat4) Compare(other Datum) (int, error) { return compareNumeric(d, other) }

func (d DFloat4) String() string { return formatFloat(float64(d), 32) }

// Size implements the Datum interface.
func (d DFloat4) Size() uintptr { return unsafe.Sizeof(d) }

// DFloat8 is the double-precision float Datum.
type DFloat8 float64

// NewDFloat8 is a helper routine to create a DFloat8.
func NewDFloat8(v float64) DFloat8 { return DFloat8(v) }

// ResolvedType implements the Datum interface.
func (DFloat8) ResolvedType() *types.T { return types.Float8 }

// Compare implements the Datum interface.
func (d DFloat8) Compare(other Datum) (int, error) { return compareNumeric(d, other) }

func (d DFloat8) String() string { return formatFloat(float64(d), 64) }

// Size implements the Datum interface.
func (d DFloat8) Size() uintptr { return unsafe.Sizeof(d) }

func formatFloat(f float64, bitSize int) string {
	if math.IsInf(f, 1) {
		return "Infinity"
	} else if math.IsInf(f, -1) {
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'g', -1, bitSize)
}

// DDecimal is the arbitrary-precision decimal Datum.
type DDecimal struct {
	apd.Decimal
}

// DecimalCtx is the default context for decimal operations. Any change
// in the exponent limits must still guarantee a safe conversion to the
// postgres binary decimal format.
var DecimalCtx = &apd.Context{
	Precision:   20,
	Rounding:    apd.RoundHalfUp,
	MaxExponent: 2000,
	MinExponent: -2000,
	Traps:       apd.DefaultTraps,
}

// ParseDDecimal parses and returns the *DDecimal Datum value represented by
// the provided string, or an error if parsing is unsuccessful.
func ParseDDecimal(s string) (*DDecimal, error) {
	dd := &DDecimal{}
	if _, _, err := dd.SetString(s); err != nil {
		return nil, pgerror.Wrapf(err, pgcode.InvalidTextRepresentation,
			"could not parse %q as type decimal", s)
	}
	return dd, nil
}

// NewDDecimalFromInt returns a decimal holding the given integer.
func NewDDecimalFromInt(v int64) *DDecimal {
	dd := &DDecimal{}
	dd.SetInt64(v)
	return dd
}

// ResolvedType implements the Datum interface.
func (*DDecimal) ResolvedType() *types.T { return types.Decimal }

// Compare implements the Datum interface.
func (d *DDecimal) Compare(other Datum) (int, error) { return compareNumeric(d, other) }

func (d *DDecimal) String() string { return d.Decimal.String() }

// Size implements the Datum interface.
func (d *DDecimal) Size() uintptr {
	return unsafe.Sizeof(*d) + uintptr(d.Coeff.BitLen()/8)
}

// DChar is the fixed-width text Datum.
type DChar string

// NewDChar is a helper routine to create a DChar.
func NewDChar(s string) DChar { return DChar(s) }

// ResolvedType implements the Datum interface.
func (d DChar) ResolvedType() *types.T {
	if len(d) <= 1 {
		return types.Char
	}
	return types.MakeChar(int32(len(d)))
}

// Compare implements the Datum interface.
func (d DChar) Compare(other Datum) (int, error) { return compareString(string(d), d, other) }

func (d DChar) String() string { return string(d) }

// Size implements the Datum interface.
func (d DChar) Size() uintptr { return unsafe.Sizeof(d) + uintptr(len(d)) }

// DText is the variable-width text Datum.
type DText string

// NewDText is a helper routine to create a DText.
func NewDText(s string) DText { return DText(s) }

// ResolvedType implements the Datum interface.
func (DText) ResolvedType() *types.T { return types.Text }

// Compare implements the Datum interface.
func (d DText) Compare(other Datum) (int, error) { return compareString(string(d), d, other) }

func (d DText) String() string { return string(d) }

// Size implements the Datum interface.
func (d DText) Size() uintptr { return unsafe.Sizeof(d) + uintptr(len(d)) }

// DBytes is the opaque bytes Datum. The underlying type is a string
// because we want the immutability.
type DBytes string

// NewDBytes is a helper routine to create a DBytes.
func NewDBytes(b []byte) DBytes { return DBytes(b) }

// ResolvedType implements the Datum interface.
func (DBytes) ResolvedType() *types.T { return types.Bytes }

// Compare implements the Datum interface.
func (d DBytes) Compare(other Datum) (int, error) {
	if other == DNull {
		return 1, nil
	}
	v, ok := other.(DBytes)
	if !ok {
		return 0, makeUnsupportedComparisonError(d, other)
	}
	return compareOrdered(d, v), nil
}

func (d DBytes) String() string { return `\x` + hex.EncodeToString([]byte(d)) }

// Size implements the Datum interface.
func (d DBytes) Size() uintptr { return unsafe.Sizeof(d) + uintptr(len(d)) }

// DIPv4 is an IPv4 address Datum, stored in network byte order as a
// big-endian integer.
type DIPv4 uint32

// MakeDIPv4 builds an address from its four octets.
func MakeDIPv4(a, b, c, d byte) DIPv4 {
	return DIPv4(uint32(a)<<24 | uint32(b)<<16 | uint32(c)<<8 | uint32(d))
}

// ParseDIPv4 parses a dotted-quad address.
func ParseDIPv4(s string) (DIPv4, error) {
	var octets [4]uint32
	idx, n, digits := 0, uint32(0), 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == '.' {
			if digits == 0 || idx > 3 {
				return 0, makeParseError(s, types.INet4, nil)
			}
			octets[idx] = n
			idx, n, digits = idx+1, 0, 0
			continue
		}
		c := s[i]
		if c < '0' || c > '9' || digits == 3 {
			return 0, makeParseError(s, types.INet4, nil)
		}
		n = n*10 + uint32(c-'0')
		digits++
		if n > 255 {
			return 0, makeParseError(s, types.INet4, nil)
		}
	}
	if idx != 4 {
		return 0, makeParseError(s, types.INet4, nil)
	}
	return DIPv4(octets[0]<<24 | octets[1]<<16 | octets[2]<<8 | octets[3]), nil
}

// Octets returns the four bytes of the address.
func (d DIPv4) Octets() [4]byte {
	return [4]byte{byte(d >> 24), byte(d >> 16), byte(d >> 8), byte(d)}
}

// ResolvedType implements the Datum interface.
func (DIPv4) ResolvedType() *types.T { return types.INet4 }

// Compare implements the Datum interface.
func (d DIPv4) Compare(other Datum) (int, error) {
	if other == DNull {
		return 1, nil
	}
	v, ok := other.(DIPv4)
	if !ok {
		return 0, makeUnsupportedComparisonError(d, other)
	}
	return compareOrdered(d, v), nil
}

func (d DIPv4) String() string {
	o := d.Octets()
	return fmt.Sprintf("%d.%d.%d.%d", o[0], o[1], o[2], o[3])
}

// Size implements the Datum interface.
func (d DIPv4) Size() uintptr { return unsafe.Sizeof(d) }

type dNull struct{}

// ResolvedType implements the Datum interface.
func (dNull) ResolvedType() *types.T { return types.Unknown }

// Compare implements the Datum interface.
func (d dNull) Compare(other Datum) (int, error) {
	if other == DNull {
		return 0, nil
	}
	return -1, nil
}

func (dNull) String() string { return "NULL" }

// Size implements the Datum interface.
func (d dNull) Size() uintptr { return unsafe.Sizeof(d) }

func compareOrdered[T ~string | ~uint32](a, b T) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

func compareString(s string, d, other Datum) (int, error) {
	if other == DNull {
		return 1, nil
	}
	var v string
	switch t := other.(type) {
	case DText:
		v = string(t)
	case DChar:
		v = string(t)
	default:
		return 0, makeUnsupportedComparisonError(d, other)
	}
	return compareOrdered(s, v), nil
}

// numericKind orders the numeric representations by how much they can hold;
// a comparison is performed in the wider of the two.
type numericKind int

const (
	notNumeric numericKind = iota
	intKind
	floatKind
	decimalKind
)

func classifyNumeric(d Datum) (numericKind, int64, float64) {
	switch t := d.(type) {
	case DBit:
		return intKind, int64(t), 0
	case DInt2:
		return intKind, int64(t), 0
	case DInt4:
		return intKind, int64(t), 0
	case DInt8:
		return intKind, int64(t), 0
	case DFloat4:
		return floatKind, 0, float64(t)
	case DFloat8:
		return floatKind, 0, float64(t)
	case *DDecimal:
		return decimalKind, 0, 0
	}
	return notNumeric, 0, 0
}

func compareNumeric(d, other Datum) (int, error) {
	if other == DNull {
		return 1, nil
	}
	lk, li, lf := classifyNumeric(d)
	rk, ri, rf := classifyNumeric(other)
	if rk == notNumeric {
		return 0, makeUnsupportedComparisonError(d, other)
	}
	switch {
	case lk == intKind && rk == intKind:
		if li < ri {
			return -1, nil
		} else if li > ri {
			return 1, nil
		}
		return 0, nil
	case lk == decimalKind || rk == decimalKind:
		var l, r apd.Decimal
		if err := ToDecimal(d, &l); err != nil {
			return 0, err
		}
		if err := ToDecimal(other, &r); err != nil {
			return 0, err
		}
		return l.Cmp(&r), nil
	}
	switch {
	case lk == intKind:
		return compareIntFloat(li, rf), nil
	case rk == intKind:
		return -compareIntFloat(ri, lf), nil
	}
	return compareFloats(lf, rf), nil
}

// compareIntFloat compares i and f exactly. Converting i to a float64 would
// lose precision above 2^53 and make distinct values compare equal.
func compareIntFloat(i int64, f float64) int {
	switch {
	case math.IsNaN(f):
		return 1
	case f >= math.MaxInt64:
		// float64(math.MaxInt64) is 2^63, which no int64 reaches.
		return -1
	case f < math.MinInt64:
		return 1
	}
	t := math.Trunc(f)
	if ti := int64(t); i < ti {
		return -1
	} else if i > ti {
		return 1
	}
	// i is the integral part of f.
	if f > t {
		return -1
	} else if f < t {
		return 1
	}
	return 0
}

// compareFloats orders NaN before every other value, matching Postgres.
func compareFloats(a, b float64) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	if a == b {
		return 0
	}
	if math.IsNaN(a) {
		if math.IsNaN(b) {
			return 0
		}
		return -1
	}
	return 1
}

// ToDecimal stores the value of the numeric datum d into dst.
func ToDecimal(d Datum, dst *apd.Decimal) error {
	k, i, f := classifyNumeric(d)
	switch k {
	case intKind:
		dst.SetInt64(i)
		return nil
	case floatKind:
		if _, err := dst.SetFloat64(f); err != nil {
			return pgerror.Wrapf(err, pgcode.NumericValueOutOfRange, "cannot convert %s to decimal", d)
		}
		return nil
	case decimalKind:
		dst.Set(&d.(*DDecimal).Decimal)
		return nil
	}
	return errors.AssertionFailedf("%T is not numeric", d)
}

func makeUnsupportedComparisonError(d, other Datum) error {
	return pgerror.Newf(pgcode.DatatypeMismatch,
		"unsupported comparison: %s to %s", d.ResolvedType(), other.ResolvedType())
}
