// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package storage contains the leaves of an execution plan: scanners that
// produce the rows of a table and appenders that write them. Tables live in
// memory, in delimited text files or in compressed block files; file based
// tables are accessed through an afero.Fs.
package storage

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/execcore/pkg/sql/catalog/colinfo"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc"
	"github.com/spf13/afero"
)

// Scanner produces the rows of a table. Next returns nil at the end of the
// table. The returned tuple is only valid until the next call to Next or
// Reset.
type Scanner interface {
	Init() error
	Next() (rowenc.Tuple, error)
	// Reset rewinds the scanner to the first row.
	Reset() error
	Close() error
	Schema() *colinfo.Schema
}

// Appender writes rows to a table.
type Appender interface {
	Init() error
	AddTuple(t rowenc.Tuple) error
	// Flush makes the rows added so far durable in the underlying storage.
	Flush() error
	Close() error
}

// Format identifies the encoding of a table file.
type Format string

const (
	// TextFormat is a delimited text file, one row per line.
	TextFormat Format = "text"
	// BlockFormat is a file of compressed blocks of binary encoded rows.
	BlockFormat Format = "block"
)

// ScanOptions configures how file scanners decode rows.
type ScanOptions struct {
	// Delimiter separates fields in text files. Defaults to "|".
	Delimiter string
	// NullMarker is the text encoding of NULL. Defaults to `\N`.
	NullMarker string
	// Strict makes decode errors fail the scan instead of reading as NULL.
	Strict bool
	// OnDecodeError is called for every decode error masked as NULL.
	OnDecodeError rowenc.DecodeErrorObserver
	// Codec is the block compression used by block file appenders.
	Codec Codec
}

const (
	defaultDelimiter  = "|"
	defaultNullMarker = `\N`
)

func (o ScanOptions) delimiter() string {
	if o.Delimiter == "" {
		return defaultDelimiter
	}
	return o.Delimiter
}

func (o ScanOptions) nullMarker() string {
	if o.NullMarker == "" {
		return defaultNullMarker
	}
	return o.NullMarker
}

// NewScanner returns a scanner over the table file at path.
func NewScanner(
	fs afero.Fs, format Format, path string, schema *colinfo.Schema, opts ScanOptions,
) (Scanner, error) {
	switch format {
	case TextFormat, "":
		return NewTextFileScanner(fs, path, schema, opts), nil
	case BlockFormat:
		return NewBlockFileScanner(fs, path, schema, opts), nil
	}
	return nil, errors.Newf("unknown storage format %q", format)
}

// NewAppender returns an appender creating the table file at path.
func NewAppender(
	fs afero.Fs, format Format, path string, schema *colinfo.Schema, opts ScanOptions,
) (Appender, error) {
	switch format {
	case TextFormat, "":
		return NewTextFileAppender(fs, path, schema, opts), nil
	case BlockFormat:
		return NewBlockFileAppender(fs, path, schema, opts), nil
	}
	return nil, errors.Newf("unknown storage format %q", format)
}

// Copy appends every row of s to a and returns the number of rows copied.
// Both must have been initialized.
func Copy(s Scanner, a Appender) (int, error) {
	n := 0
	for {
		t, err := s.Next()
		if err != nil {
			return n, err
		}
		if t == nil {
			return n, a.Flush()
		}
		if err := a.AddTuple(t); err != nil {
			return n, err
		}
		n++
	}
}
