// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package colinfo

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgerror"
)

// NumResolutionResults represents the number of results in the lookup
// of columns matching a given name.
type NumResolutionResults int

const (
	// NoResults for when there is no result.
	NoResults NumResolutionResults = iota
	// ExactlyOne indicates just one column matching the requested name.
	ExactlyOne
	// MoreThanOne signals an ambiguous match.
	MoreThanOne
)

// FindColumn looks up a column by name without raising errors. A qualified
// name ("emp.id") must match exactly. A name without a qualifier matches a
// column with that exact (unqualified) qualified name first, and otherwise
// any column whose Name is equal.
func FindColumn(s *Schema, name string) (NumResolutionResults, int) {
	if ord, ok := s.byQualified[name]; ok {
		return ExactlyOne, ord
	}
	ords := s.byName[name]
	switch len(ords) {
	case 0:
		return NoResults, -1
	case 1:
		return ExactlyOne, ords[0]
	}
	return MoreThanOne, -1
}

// ResolveColumn performs name resolution for a column reference. Failing to
// resolve the name is reported as UndefinedColumn, an ambiguous unqualified
// name as AmbiguousColumn.
func ResolveColumn(s *Schema, name string) (int, error) {
	res, ord := FindColumn(s, name)
	switch res {
	case ExactlyOne:
		return ord, nil
	case MoreThanOne:
		return -1, pgerror.Newf(pgcode.AmbiguousColumn, "column reference %q is ambiguous", name)
	}
	err := pgerror.Newf(pgcode.UndefinedColumn, "column %q does not exist", name)
	if s.Len() > 0 {
		err = errors.WithHintf(err, "available columns: %s", s)
	}
	return -1, err
}
