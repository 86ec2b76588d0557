// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsplit

import (
	"database/sql"
	"io"
)

// RowSource yields raw, uncoerced records one at a time, returning
// io.EOF when exhausted. A source may be single-pass and must not be
// assumed rewindable; the returned slice is only valid until the next
// call.
type RowSource interface {
	Next() ([]any, error)
}

// RowIterator yields encoded rows, io.EOF when exhausted.
type RowIterator interface {
	Next() (Row, error)
}

type sliceSource struct {
	rows [][]any
	i    int
}

// SliceSource returns a RowSource over in-memory records.
func SliceSource(rows [][]any) RowSource { return &sliceSource{rows: rows} }

func (s *sliceSource) Next() ([]any, error) {
	if s.i >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.i]
	s.i++
	return row, nil
}

type sqlSource struct {
	rows *sql.Rows
	vals []any
	ptrs []any
}

// SQLSource returns a RowSource that scans successive records of a
// query result. The caller keeps ownership of rows and closes it; the
// source stops at the end of the result set or on the first scan error.
func SQLSource(rows *sql.Rows) (RowSource, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	s := &sqlSource{rows: rows, vals: make([]any, len(cols)), ptrs: make([]any, len(cols))}
	for i := range s.vals {
		s.ptrs[i] = &s.vals[i]
	}
	return s, nil
}

func (s *sqlSource) Next() ([]any, error) {
	if !s.rows.Next() {
		if err := s.rows.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	if err := s.rows.Scan(s.ptrs...); err != nil {
		return nil, err
	}
	return s.vals, nil
}

type encodeIterator struct {
	src RowSource
}

// Encode adapts a RowSource into a RowIterator, coercing each record
// with ValueOf on the caller's goroutine. See EncodeParallel for the
// fan-out variant.
func Encode(src RowSource) RowIterator { return encodeIterator{src: src} }

func (it encodeIterator) Next() (Row, error) {
	record, err := it.src.Next()
	if err != nil {
		return nil, err
	}
	return ValuesOf(record), nil
}
