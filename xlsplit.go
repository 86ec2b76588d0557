// Copyright 2020, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package xlsplit splits large datasets into bounded spreadsheet segments
// (sheets of one workbook, or separate workbook files) and streams them to
// their destination without materializing the whole document in memory.
package xlsplit

import (
	"errors"
	"io"
)

// Assembler owns the segment lifecycle of one partitioned write.
// OpenSegment may only be called after the previous segment is Closed.
//
// Closing a segment finalizes it: its rows are durably written and no
// further appends are accepted. Closing the Assembler releases whatever
// the implementation kept open (the shared workbook, its output stream).
type Assembler interface {
	io.Closer
	OpenSegment(entry PlanEntry) (Segment, error)
}

// Segment is one bounded writable unit. AppendRow appends below any
// header row the implementation wrote on open. Flush moves rows buffered
// since the previous Flush into backing storage.
type Segment interface {
	io.Closer
	AppendRow(values ...Value) error
	Flush() error
}

// Sink is the byte destination of a finalized segment.
// Implementations write to local files, S3, or any other destination.
type Sink interface {
	io.Writer
	io.Closer
}

// Style is a style for a column/row/cell.
type Style struct {
	// Format is the number format
	Format string
	// FontBold is true if the font is bold
	FontBold bool
}

// Column contains the Name of the column and header's style and column's style.
type Column struct {
	Name           string
	Header, Column Style
}

// HasHeader reports whether any column carries a header name.
func HasHeader(cols []Column) bool {
	for _, c := range cols {
		if c.Name != "" {
			return true
		}
	}
	return false
}

var (
	ErrTooManyRows      = errors.New("too many rows")
	ErrInvalidCapacity  = errors.New("invalid capacity")
	ErrSegmentFinalized = errors.New("segment already finalized")
	ErrSegmentOpen      = errors.New("previous segment still open")
)

// Number is a string that contains a number.
// It is written as a true numeric cell, with no attempt to keep the
// literal digits - use a plain string for that.
type Number string
