// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package storage

import (
	"bufio"
	"bytes"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/execcore/pkg/sql/catalog/colinfo"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc/valueside"
	"github.com/spf13/afero"
)

// TextFileScanner reads a delimited text file. Each non-empty line is a row
// and its fields are the encoded column values, see valueside.TextSerDe.
// Rows are returned as LazyTuples, so a column is only parsed when it is
// read. A line with fewer fields than the schema reads NULL for the missing
// columns; extra fields are ignored.
type TextFileScanner struct {
	fs     afero.Fs
	path   string
	schema *colinfo.Schema
	delim  []byte

	f      afero.File
	r      *bufio.Reader
	offset int64
	tuple  *rowenc.LazyTuple
}

var _ Scanner = &TextFileScanner{}

// NewTextFileScanner returns a scanner over the text file at path. The
// file is opened by Init.
func NewTextFileScanner(
	fs afero.Fs, path string, schema *colinfo.Schema, opts ScanOptions,
) *TextFileScanner {
	nullMarker := []byte(opts.nullMarker())
	t := rowenc.NewLazyTuple(schema, nil, valueside.TextSerDe{NullMarker: nullMarker}, nullMarker)
	t.SetDecodeErrorHandling(opts.Strict, opts.OnDecodeError)
	return &TextFileScanner{
		fs:     fs,
		path:   path,
		schema: schema,
		delim:  []byte(opts.delimiter()),
		tuple:  t,
	}
}

// Init implements the Scanner interface.
func (s *TextFileScanner) Init() error {
	if s.f != nil {
		return errors.AssertionFailedf("scanner for %s initialized twice", s.path)
	}
	f, err := s.fs.Open(s.path)
	if err != nil {
		return errors.Wrapf(err, "opening table file")
	}
	s.f = f
	s.r = bufio.NewReader(f)
	s.offset = 0
	return nil
}

// Next implements the Scanner interface.
func (s *TextFileScanner) Next() (rowenc.Tuple, error) {
	if s.r == nil {
		return nil, errors.AssertionFailedf("scanner for %s is not initialized", s.path)
	}
	for {
		start := s.offset
		line, err := s.r.ReadBytes('\n')
		s.offset += int64(len(line))
		if err != nil && err != io.EOF {
			return nil, errors.Wrapf(err, "reading %s", s.path)
		}
		line = bytes.TrimSuffix(line, []byte{'\n'})
		line = bytes.TrimSuffix(line, []byte{'\r'})
		if len(line) == 0 {
			if err == io.EOF {
				return nil, nil
			}
			continue
		}
		// ReadBytes returns a fresh slice, so the fields may alias it.
		fields := bytes.Split(line, s.delim)
		if len(fields) > s.schema.Len() {
			fields = fields[:s.schema.Len()]
		}
		s.tuple.Reset(fields, start)
		return s.tuple, nil
	}
}

// Reset implements the Scanner interface.
func (s *TextFileScanner) Reset() error {
	if s.f == nil {
		return errors.AssertionFailedf("scanner for %s is not initialized", s.path)
	}
	if _, err := s.f.Seek(0, io.SeekStart); err != nil {
		return errors.Wrapf(err, "rewinding %s", s.path)
	}
	s.r.Reset(s.f)
	s.offset = 0
	return nil
}

// Close implements the Scanner interface.
func (s *TextFileScanner) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	s.r = nil
	return err
}

// Schema implements the Scanner interface.
func (s *TextFileScanner) Schema() *colinfo.Schema { return s.schema }

// TextFileAppender writes a delimited text file.
type TextFileAppender struct {
	fs     afero.Fs
	path   string
	schema *colinfo.Schema
	serde  valueside.TextSerDe
	delim  []byte

	f   afero.File
	w   *bufio.Writer
	buf []byte
}

var _ Appender = &TextFileAppender{}

// NewTextFileAppender returns an appender that creates (or truncates) the
// text file at path on Init.
func NewTextFileAppender(
	fs afero.Fs, path string, schema *colinfo.Schema, opts ScanOptions,
) *TextFileAppender {
	return &TextFileAppender{
		fs:     fs,
		path:   path,
		schema: schema,
		serde:  valueside.TextSerDe{NullMarker: []byte(opts.nullMarker())},
		delim:  []byte(opts.delimiter()),
	}
}

// Init implements the Appender interface.
func (a *TextFileAppender) Init() error {
	f, err := a.fs.Create(a.path)
	if err != nil {
		return errors.Wrapf(err, "creating table file")
	}
	a.f = f
	a.w = bufio.NewWriter(f)
	return nil
}

// AddTuple implements the Appender interface. Values whose encoding
// contains the delimiter or a line break cannot be represented.
func (a *TextFileAppender) AddTuple(t rowenc.Tuple) error {
	if t.Len() != a.schema.Len() {
		return errors.Newf("row has %d columns, table has %d", t.Len(), a.schema.Len())
	}
	buf := a.buf[:0]
	for i := 0; i < t.Len(); i++ {
		if i > 0 {
			buf = append(buf, a.delim...)
		}
		start := len(buf)
		var err error
		col := a.schema.Column(i)
		buf, err = a.serde.Serialize(buf, col, t.Get(i))
		if err != nil {
			return err
		}
		if v := buf[start:]; bytes.Contains(v, a.delim) || bytes.ContainsAny(v, "\r\n") {
			return pgerror.Newf(pgcode.InvalidParameterValue,
				"value of column %q contains the delimiter or a line break", col.QualifiedName())
		}
	}
	if err := rowenc.Err(t); err != nil {
		return err
	}
	buf = append(buf, '\n')
	a.buf = buf
	_, err := a.w.Write(buf)
	return err
}

// Flush implements the Appender interface.
func (a *TextFileAppender) Flush() error {
	return a.w.Flush()
}

// Close implements the Appender interface.
func (a *TextFileAppender) Close() error {
	if a.f == nil {
		return nil
	}
	err := errors.CombineErrors(a.w.Flush(), a.f.Close())
	a.f = nil
	return err
}
