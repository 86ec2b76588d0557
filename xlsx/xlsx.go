// Copyright 2020, 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

// Package xlsx implements xlsplit assemblers on the Office Open XML
// document model of github.com/xuri/excelize/v2.
package xlsx

import (
	"fmt"
	"io"

	"github.com/UNO-SOFT/xlsplit"
	"github.com/xuri/excelize/v2"
)

// MaxRowCount is the structural row ceiling of a worksheet. Segment
// capacities must not exceed it.
const MaxRowCount = 1_048_576

var _ = (xlsplit.Assembler)((*Writer)(nil))

// Writer assembles segments as sheets of one shared workbook: segment n
// becomes sheet base, base2, base3, ... Rows stream through excelize
// stream writers, which spool to temporary files, so finalizing a sheet
// flushes it out of heap memory; the workbook itself is serialized to w
// once, on Close.
type Writer struct {
	w        io.Writer
	xl       *excelize.File
	styles   *styleCache
	base     string
	segments int
	open     bool
}

// NewWriter returns a sheet-per-segment assembler writing to w.
// base is the sheet naming base ("Sheet" gives Sheet, Sheet2, ...).
func NewWriter(w io.Writer, base string) *Writer {
	xl := excelize.NewFile()
	return &Writer{w: w, xl: xl, styles: &styleCache{xl: xl}, base: base}
}

func (xlw *Writer) OpenSegment(entry xlsplit.PlanEntry) (xlsplit.Segment, error) {
	if xlw.open {
		return nil, xlsplit.ErrSegmentOpen
	}
	if xlw.xl == nil {
		return nil, fmt.Errorf("writer already closed")
	}
	name := entry.SheetName(xlw.base)
	if xlw.segments == 0 {
		if err := xlw.xl.SetSheetName("Sheet1", name); err != nil {
			return nil, err
		}
	} else if _, err := xlw.xl.NewSheet(name); err != nil {
		return nil, err
	}
	seg, err := newSegment(xlw.xl, xlw.styles, name, entry)
	if err != nil {
		return nil, err
	}
	seg.finalize = func() error { xlw.open = false; return nil }
	xlw.segments++
	xlw.open = true
	return seg, nil
}

// Close serializes the workbook to the underlying writer. The segment
// being filled, if any, must be closed first.
func (xlw *Writer) Close() error {
	if xlw == nil || xlw.xl == nil {
		return nil
	}
	if xlw.open {
		return xlsplit.ErrSegmentOpen
	}
	xl, w := xlw.xl, xlw.w
	xlw.xl, xlw.w = nil, nil
	_, err := xl.WriteTo(w)
	if closeErr := xl.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// segment is the open, mutable window of one sheet. Appended rows
// collect in batch until Flush hands them to the stream writer; Close
// flushes what is left and ends the sheet's stream.
type segment struct {
	sw        *excelize.StreamWriter
	styles    *styleCache
	finalize  func() error
	name      string
	batch     []xlsplit.Row
	colStyles []int
	row       int64 // next row number, 1-based, header included
	closed    bool
}

func newSegment(xl *excelize.File, styles *styleCache, name string, entry xlsplit.PlanEntry) (*segment, error) {
	sw, err := xl.NewStreamWriter(name)
	if err != nil {
		return nil, fmt.Errorf("stream %q: %w", name, err)
	}
	seg := &segment{sw: sw, styles: styles, name: name, row: 1}
	for _, c := range entry.Columns {
		s, err := styles.get(c.Column)
		if err != nil {
			return nil, err
		}
		seg.colStyles = append(seg.colStyles, s)
	}
	if entry.HasHeader {
		header := make([]any, len(entry.Columns))
		for i, c := range entry.Columns {
			s, err := styles.get(c.Header)
			if err != nil {
				return nil, err
			}
			header[i] = excelize.Cell{StyleID: s, Value: c.Name}
		}
		if err = sw.SetRow("A1", header); err != nil {
			return nil, fmt.Errorf("%s header: %w", name, err)
		}
		seg.row++
	}
	return seg, nil
}

func (s *segment) AppendRow(values ...xlsplit.Value) error {
	if s.closed {
		return xlsplit.ErrSegmentFinalized
	}
	if s.row+int64(len(s.batch)) > MaxRowCount {
		return xlsplit.ErrTooManyRows
	}
	row := make(xlsplit.Row, len(values))
	copy(row, values)
	s.batch = append(s.batch, row)
	return nil
}

func (s *segment) Flush() error {
	if s.closed {
		return xlsplit.ErrSegmentFinalized
	}
	for _, row := range s.batch {
		cells := make([]any, len(row))
		for i, v := range row {
			colStyle := 0
			if i < len(s.colStyles) {
				colStyle = s.colStyles[i]
			}
			c, err := s.styles.encode(v, colStyle)
			if err != nil {
				return err
			}
			cells[i] = c
		}
		axis, err := excelize.CoordinatesToCellName(1, int(s.row))
		if err != nil {
			return fmt.Errorf("%s/%d: %w", s.name, s.row, err)
		}
		if err = s.sw.SetRow(axis, cells); err != nil {
			return fmt.Errorf("%s[%s]: %w", s.name, axis, err)
		}
		s.row++
	}
	s.batch = s.batch[:0]
	return nil
}

func (s *segment) Close() error {
	if s.closed {
		return nil
	}
	if err := s.Flush(); err != nil {
		return err
	}
	s.closed = true
	if err := s.sw.Flush(); err != nil {
		return fmt.Errorf("%s: %w", s.name, err)
	}
	if s.finalize != nil {
		return s.finalize()
	}
	return nil
}

// styleCache caches excelize style IDs per workbook.
type styleCache struct {
	xl        *excelize.File
	styles    map[string]int
	textStyle int
}

func (sc *styleCache) get(style xlsplit.Style) (int, error) {
	if !style.FontBold && style.Format == "" {
		return 0, nil
	}
	k := fmt.Sprintf("%t\t%s", style.FontBold, style.Format)
	if s, ok := sc.styles[k]; ok {
		return s, nil
	}
	var st excelize.Style
	if style.FontBold {
		st.Font = &excelize.Font{Bold: true}
	}
	if style.Format != "" {
		st.CustomNumFmt = &style.Format
	}
	s, err := sc.xl.NewStyle(&st)
	if err != nil {
		return 0, err
	}
	if sc.styles == nil {
		sc.styles = make(map[string]int)
	}
	sc.styles[k] = s
	return s, nil
}

// text returns the style carrying the "@" (text) number format, which
// keeps numeric-looking literals character-for-character.
func (sc *styleCache) text() (int, error) {
	if sc.textStyle != 0 {
		return sc.textStyle, nil
	}
	s, err := sc.get(xlsplit.Style{Format: "@"})
	if err == nil {
		sc.textStyle = s
	}
	return s, err
}

// encode maps a Value to its cell representation. Text matching a pure
// integer/decimal literal keeps its exact digits under the "@" format
// instead of being re-normalized as a number; everything else maps to
// its native cell kind.
func (sc *styleCache) encode(v xlsplit.Value, colStyle int) (excelize.Cell, error) {
	switch v.Kind() {
	case xlsplit.KindNumber:
		return excelize.Cell{StyleID: colStyle, Value: v.Float64()}, nil
	case xlsplit.KindBool:
		return excelize.Cell{StyleID: colStyle, Value: v.Bool()}, nil
	case xlsplit.KindTime:
		return excelize.Cell{StyleID: colStyle, Value: v.Time()}, nil
	case xlsplit.KindFormula:
		return excelize.Cell{StyleID: colStyle, Formula: v.String()}, nil
	default:
		if s := v.String(); xlsplit.NumericText(s) {
			textStyle, err := sc.text()
			if err != nil {
				return excelize.Cell{}, err
			}
			return excelize.Cell{StyleID: textStyle, Value: s}, nil
		}
		return excelize.Cell{StyleID: colStyle, Value: v.String()}, nil
	}
}
