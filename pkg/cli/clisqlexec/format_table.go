// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package clisqlexec renders the result rows of a plan for the command
// line.
package clisqlexec

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"
)

// TableDisplayFormat identifies the format with which result rows are
// printed.
type TableDisplayFormat int

// The following constants identify the supported table formats.
const (
	TableDisplayTSV TableDisplayFormat = iota
	TableDisplayCSV
	TableDisplayTable
	TableDisplayRecords
	// TableDisplayLastFormat is the sentinel used to iterate over formats.
	TableDisplayLastFormat
)

var displayFormatNames = [...]string{
	TableDisplayTSV:     "tsv",
	TableDisplayCSV:     "csv",
	TableDisplayTable:   "table",
	TableDisplayRecords: "records",
}

// Type implements the pflag.Value interface.
func (f *TableDisplayFormat) Type() string { return "string" }

// String implements the pflag.Value interface.
func (f *TableDisplayFormat) String() string {
	if *f < 0 || *f >= TableDisplayLastFormat {
		return fmt.Sprintf("TableDisplayFormat(%d)", int(*f))
	}
	return displayFormatNames[*f]
}

// Set implements the pflag.Value interface.
func (f *TableDisplayFormat) Set(s string) error {
	for i, name := range displayFormatNames {
		if name == s {
			*f = TableDisplayFormat(i)
			return nil
		}
	}
	return errors.Newf("invalid table display format: %s "+
		"(possible values: tsv, csv, table, records)", s)
}

// PrintQueryOutput writes the rows of allRows to w in the given format,
// preceded by the column names. It returns the number of rows written.
func PrintQueryOutput(
	w io.Writer, cols []string, allRows RowStrIter, displayFormat TableDisplayFormat,
) (int, error) {
	switch displayFormat {
	case TableDisplayTable:
		// Initialize tablewriter and set column names as the header row.
		table := tablewriter.NewWriter(w)
		table.SetAutoFormatHeaders(false)
		table.SetAutoWrapText(false)
		table.SetHeader(cols)
		nRows := 0
		for {
			row, err := allRows.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nRows, err
			}
			for i, r := range row {
				row[i] = expandTabsAndNewLines(r)
			}
			table.Append(row)
			nRows++
		}
		table.Render()
		fmt.Fprintf(w, "(%d row%s)\n", nRows, pluralize(nRows))
		return nRows, nil

	case TableDisplayTSV, TableDisplayCSV:
		allRowsSlice, err := allRows.ToSlice()
		if err != nil {
			return 0, err
		}
		csvWriter := csv.NewWriter(w)
		if displayFormat == TableDisplayTSV {
			csvWriter.Comma = '\t'
		}
		_ = csvWriter.Write(cols)
		_ = csvWriter.WriteAll(allRowsSlice)
		return len(allRowsSlice), csvWriter.Error()

	case TableDisplayRecords:
		maxColWidth := 0
		for _, col := range cols {
			if colLen := utf8.RuneCountInString(col); colLen > maxColWidth {
				maxColWidth = colLen
			}
		}
		nRows := 0
		for {
			row, err := allRows.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nRows, err
			}
			nRows++
			fmt.Fprintf(w, "-[ RECORD %d ]\n", nRows)
			for j, r := range row {
				for l, line := range strings.Split(r, "\n") {
					colLabel := cols[j]
					if l > 0 {
						colLabel = ""
					}
					fmt.Fprintf(w, "%-*s | %s\n", maxColWidth, colLabel, line)
				}
			}
		}
		return nRows, nil
	}
	return 0, errors.AssertionFailedf("unknown display format %d", displayFormat)
}

// expandTabsAndNewLines ensures that multi-line row strings that may
// contain tabs are properly formatted: tabs are expanded to spaces, and
// newline characters are marked visually. Marking newline characters is
// especially important in single-column results where the underlying
// TableWriter would not otherwise show the difference between one
// multi-line row and two one-line rows.
func expandTabsAndNewLines(s string) string {
	var buf strings.Builder
	col := 0
	for _, r := range s {
		switch r {
		case '\t':
			n := 4 - col%4
			buf.WriteString(strings.Repeat(" ", n))
			col += n
		case '\n':
			buf.WriteString("␤\n")
			col = 0
		default:
			buf.WriteRune(r)
			col++
		}
	}
	return buf.String()
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
