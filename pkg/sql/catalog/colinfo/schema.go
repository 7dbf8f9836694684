// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package colinfo

import (
	"strings"

	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/execcore/pkg/sql/types"
)

// Column describes one column of a row source.
type Column struct {
	// Qualifier is the name of the table or relation that owns the column. It
	// may be empty for computed columns.
	Qualifier string
	Name      string
	Type      *types.T
}

// MakeColumn constructs a Column from a qualified name such as "emp.id". A
// name without a dot has an empty qualifier.
func MakeColumn(qualifiedName string, typ *types.T) Column {
	if i := strings.LastIndexByte(qualifiedName, '.'); i >= 0 {
		return Column{Qualifier: qualifiedName[:i], Name: qualifiedName[i+1:], Type: typ}
	}
	return Column{Name: qualifiedName, Type: typ}
}

// QualifiedName returns "qualifier.name", or just the name when there is no
// qualifier.
func (c Column) QualifiedName() string {
	if c.Qualifier == "" {
		return c.Name
	}
	return c.Qualifier + "." + c.Name
}

func (c Column) String() string {
	return c.QualifiedName() + " " + c.Type.SQLString()
}

// Schema is an ordered list of columns. It is immutable once constructed
// and can be shared between operators and expression trees.
type Schema struct {
	cols []Column
	// byQualified maps the qualified name to the ordinal.
	byQualified map[string]int
	// byName maps unqualified names to all ordinals that carry them.
	byName map[string][]int
}

// NewSchema builds a schema from the given columns. Duplicate qualified names
// are rejected.
func NewSchema(cols ...Column) (*Schema, error) {
	s := &Schema{
		cols:        append([]Column(nil), cols...),
		byQualified: make(map[string]int, len(cols)),
		byName:      make(map[string][]int, len(cols)),
	}
	for i, c := range s.cols {
		if c.Type == nil {
			return nil, pgerror.Newf(pgcode.InvalidParameterValue, "column %q has no type", c.QualifiedName())
		}
		qn := c.QualifiedName()
		if _, ok := s.byQualified[qn]; ok {
			return nil, pgerror.Newf(pgcode.DuplicateColumn, "column %q specified more than once", qn)
		}
		s.byQualified[qn] = i
		s.byName[c.Name] = append(s.byName[c.Name], i)
	}
	return s, nil
}

// MustNewSchema is like NewSchema but panics on error. It is intended for
// tests and static schemas.
func MustNewSchema(cols ...Column) *Schema {
	s, err := NewSchema(cols...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of columns.
func (s *Schema) Len() int { return len(s.cols) }

// Column returns the i-th column.
func (s *Schema) Column(i int) Column { return s.cols[i] }

// Columns returns the columns. The slice must not be modified.
func (s *Schema) Columns() []Column { return s.cols }

// Types returns the column types in order.
func (s *Schema) Types() []*types.T {
	typs := make([]*types.T, len(s.cols))
	for i := range s.cols {
		typs[i] = s.cols[i].Type
	}
	return typs
}

// Contains returns whether the schema has a column with the given qualified
// name.
func (s *Schema) Contains(qualifiedName string) bool {
	_, ok := s.byQualified[qualifiedName]
	return ok
}

// ColumnIndex resolves a column name to its ordinal. See ResolveColumn for
// the lookup rules. A name that cannot be resolved is an error, there is no
// sentinel ordinal.
func (s *Schema) ColumnIndex(name string) (int, error) {
	return ResolveColumn(s, name)
}

// Merge returns the concatenation of left and right, the schema of a join
// frame. The qualified names of the two sides must be disjoint.
func Merge(left, right *Schema) (*Schema, error) {
	cols := make([]Column, 0, left.Len()+right.Len())
	cols = append(cols, left.cols...)
	cols = append(cols, right.cols...)
	return NewSchema(cols...)
}

// Project returns the schema made of the given ordinals of s, in order.
func (s *Schema) Project(ordinals []int) (*Schema, error) {
	cols := make([]Column, len(ordinals))
	for i, ord := range ordinals {
		cols[i] = s.cols[ord]
	}
	return NewSchema(cols...)
}

func (s *Schema) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, c := range s.cols {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(c.String())
	}
	b.WriteByte(')')
	return b.String()
}
