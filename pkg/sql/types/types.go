// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package types

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Family groups types that share a physical representation. Every Datum
// variant maps to exactly one family.
type Family int

const (
	// UnknownFamily is the family of the NULL literal and of expressions whose
	// type cannot be determined.
	UnknownFamily Family = iota
	BoolFamily
	// BitFamily is a single byte.
	BitFamily
	Int2Family
	Int4Family
	Int8Family
	Float4Family
	Float8Family
	DecimalFamily
	// CharFamily is fixed-width text; Width holds the declared length.
	CharFamily
	TextFamily
	BytesFamily
	INet4Family
)

var familyNames = [...]string{
	UnknownFamily: "unknown",
	BoolFamily:    "bool",
	BitFamily:     "bit",
	Int2Family:    "int2",
	Int4Family:    "int4",
	Int8Family:    "int8",
	Float4Family:  "float4",
	Float8Family:  "float8",
	DecimalFamily: "decimal",
	CharFamily:    "char",
	TextFamily:    "text",
	BytesFamily:   "bytes",
	INet4Family:   "inet4",
}

func (f Family) String() string {
	if f < 0 || int(f) >= len(familyNames) {
		return fmt.Sprintf("Family(%d)", int(f))
	}
	return familyNames[f]
}

// T describes the type of a column or of an expression result. Instances are
// immutable; the package-level singletons should be shared.
type T struct {
	Family Family
	// Width is the declared length for CHAR columns, zero otherwise.
	Width int32
}

var (
	// Unknown is the type of NULL.
	Unknown = &T{Family: UnknownFamily}
	Bool    = &T{Family: BoolFamily}
	Bit     = &T{Family: BitFamily}
	Int2    = &T{Family: Int2Family}
	Int4    = &T{Family: Int4Family}
	Int8    = &T{Family: Int8Family}
	Float4  = &T{Family: Float4Family}
	Float8  = &T{Family: Float8Family}
	Decimal = &T{Family: DecimalFamily}
	// Char is CHAR(1).
	Char  = &T{Family: CharFamily, Width: 1}
	Text  = &T{Family: TextFamily}
	Bytes = &T{Family: BytesFamily}
	INet4 = &T{Family: INet4Family}
)

// Scalar contains every type that a column may be declared with.
var Scalar = []*T{Bool, Bit, Int2, Int4, Int8, Float4, Float8, Decimal, Char, Text, Bytes, INet4}

// MakeChar returns a CHAR type with the given width.
func MakeChar(width int32) *T {
	if width <= 1 {
		return Char
	}
	return &T{Family: CharFamily, Width: width}
}

// Identical returns true if both types have the same family and width.
func (t *T) Identical(other *T) bool {
	return t.Family == other.Family && t.Width == other.Width
}

// Equivalent returns true if values of the two types can be compared without
// a cast. Unknown is equivalent to everything.
func (t *T) Equivalent(other *T) bool {
	if t.Family == UnknownFamily || other.Family == UnknownFamily {
		return true
	}
	if t.IsNumeric() && other.IsNumeric() {
		return true
	}
	if t.IsString() && other.IsString() {
		return true
	}
	return t.Family == other.Family
}

// IsNumeric returns true for integer, float and decimal families.
func (t *T) IsNumeric() bool {
	return t.IsInteger() || t.IsFloat() || t.Family == DecimalFamily
}

// IsInteger returns true for the integer families (including BIT).
func (t *T) IsInteger() bool {
	switch t.Family {
	case BitFamily, Int2Family, Int4Family, Int8Family:
		return true
	}
	return false
}

// IsFloat returns true for FLOAT4 and FLOAT8.
func (t *T) IsFloat() bool {
	return t.Family == Float4Family || t.Family == Float8Family
}

// IsString returns true for CHAR and TEXT.
func (t *T) IsString() bool {
	return t.Family == CharFamily || t.Family == TextFamily
}

// String implements fmt.Stringer.
func (t *T) String() string {
	return t.SQLString()
}

// SQLString returns the name of the type as it would be written in a schema
// declaration, e.g. "char(10)".
func (t *T) SQLString() string {
	if t.Family == CharFamily && t.Width > 1 {
		return "char(" + strconv.Itoa(int(t.Width)) + ")"
	}
	return t.Family.String()
}

// FixedSize returns the number of bytes a value of this type occupies in a
// fixed-width layout, or a nominal size for variable-width types.
func (t *T) FixedSize() int {
	switch t.Family {
	case BoolFamily, BitFamily:
		return 1
	case CharFamily:
		if t.Width > 0 {
			return int(t.Width)
		}
		return 1
	case Int2Family:
		return 2
	case Int4Family, Float4Family, INet4Family:
		return 4
	case Int8Family, Float8Family:
		return 8
	case TextFamily, BytesFamily, DecimalFamily:
		return 256
	}
	return 0
}

var aliases = map[string]*T{
	"bool":     Bool,
	"boolean":  Bool,
	"bit":      Bit,
	"byte":     Bit,
	"int2":     Int2,
	"smallint": Int2,
	"short":    Int2,
	"int4":     Int4,
	"int":      Int4,
	"integer":  Int4,
	"int8":     Int8,
	"bigint":   Int8,
	"long":     Int8,
	"float4":   Float4,
	"real":     Float4,
	"float":    Float4,
	"float8":   Float8,
	"double":   Float8,
	"decimal":  Decimal,
	"numeric":  Decimal,
	"char":     Char,
	"text":     Text,
	"string":   Text,
	"varchar":  Text,
	"bytes":    Bytes,
	"blob":     Bytes,
	"bytea":    Bytes,
	"inet4":    INet4,
	"ipv4":     INet4,
}

// FromString parses a type name as written in plan and schema files. It
// accepts the canonical family names, common SQL aliases and "char(N)".
func FromString(s string) (*T, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(name, "char(") && strings.HasSuffix(name, ")") {
		w, err := strconv.Atoi(name[len("char(") : len(name)-1])
		if err != nil || w <= 0 {
			return nil, errors.Newf("invalid char width in type %q", s)
		}
		return MakeChar(int32(w)), nil
	}
	if t, ok := aliases[name]; ok {
		return t, nil
	}
	return nil, errors.Newf("unknown type %q", s)
}
