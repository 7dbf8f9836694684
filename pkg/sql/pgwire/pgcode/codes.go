// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package pgcode defines the subset of PostgreSQL error codes surfaced by the
// execution core.
package pgcode

// Code is a PostgreSQL SQLSTATE.
type Code struct {
	code string
}

// MakeCode constructs a Code from its five-character SQLSTATE.
func MakeCode(s string) Code {
	return Code{code: s}
}

// String returns the SQLSTATE.
func (c Code) String() string {
	return c.code
}

// SafeValue implements redact.SafeValue; codes never contain user data.
func (c Code) SafeValue() {}

// PG error codes from: https://www.postgresql.org/docs/current/errcodes-appendix.html.
var (
	// Uncategorized is used when no code was attached to an error.
	Uncategorized = MakeCode("XXUUU")

	// Section: Class 22 - Data Exception
	DataException             = MakeCode("22000")
	DivisionByZero            = MakeCode("22012")
	NumericValueOutOfRange    = MakeCode("22003")
	InvalidTextRepresentation = MakeCode("22P02")

	// Section: Class 42 - Syntax Error or Access Rule Violation
	CannotCoerce          = MakeCode("42846")
	DatatypeMismatch      = MakeCode("42804")
	UndefinedColumn       = MakeCode("42703")
	UndefinedFunction     = MakeCode("42883")
	AmbiguousColumn       = MakeCode("42702")
	DuplicateColumn       = MakeCode("42701")
	InvalidParameterValue = MakeCode("22023")
	SyntaxError           = MakeCode("42601")

	// Section: Class 58 - System Error
	Io = MakeCode("58030")

	// Section: Class XX - Internal Error
	Internal      = MakeCode("XX000")
	DataCorrupted = MakeCode("XX001")
)
