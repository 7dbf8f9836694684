// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package storage

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/execcore/pkg/sql/catalog/colinfo"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc"
)

// MemTable is a table of eager rows kept in memory.
type MemTable struct {
	schema *colinfo.Schema
	rows   []rowenc.Datums
	alloc  rowenc.DatumAlloc
}

// NewMemTable returns an empty table.
func NewMemTable(schema *colinfo.Schema) *MemTable {
	return &MemTable{schema: schema}
}

// Schema returns the schema of the table.
func (m *MemTable) Schema() *colinfo.Schema { return m.schema }

// Len returns the number of rows.
func (m *MemTable) Len() int { return len(m.rows) }

// Append stores a copy of t.
func (m *MemTable) Append(t rowenc.Tuple) error {
	if t.Len() != m.schema.Len() {
		return errors.Newf("row has %d columns, table has %d", t.Len(), m.schema.Len())
	}
	row := m.alloc.CopyRow(t)
	if err := rowenc.Err(t); err != nil {
		return err
	}
	m.rows = append(m.rows, row)
	return nil
}

// NewScanner returns a scanner over the rows of the table. Rows appended
// while a scan is in progress may or may not be returned by it.
func (m *MemTable) NewScanner() Scanner {
	return &memScanner{table: m}
}

// NewAppender returns an appender adding rows to the table.
func (m *MemTable) NewAppender() Appender {
	return &memAppender{table: m}
}

type memScanner struct {
	table *MemTable
	idx   int
}

var _ Scanner = &memScanner{}

func (s *memScanner) Init() error {
	s.idx = 0
	return nil
}

func (s *memScanner) Next() (rowenc.Tuple, error) {
	if s.idx >= len(s.table.rows) {
		return nil, nil
	}
	s.idx++
	return s.table.rows[s.idx-1], nil
}

func (s *memScanner) Reset() error {
	s.idx = 0
	return nil
}

func (s *memScanner) Close() error { return nil }

func (s *memScanner) Schema() *colinfo.Schema { return s.table.schema }

type memAppender struct {
	table *MemTable
}

var _ Appender = &memAppender{}

func (a *memAppender) Init() error                   { return nil }
func (a *memAppender) AddTuple(t rowenc.Tuple) error { return a.table.Append(t) }
func (a *memAppender) Flush() error                  { return nil }
func (a *memAppender) Close() error                  { return nil }
