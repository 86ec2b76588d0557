// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsplit

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PlanEntry describes one segment of a partitioned write: a 1-based
// ordinal and the contiguous window of dataset rows it covers.
// End is exclusive. Entries from a Planner are provisional: End marks
// the capacity window, and the stream may run out before filling it.
//
// Columns carries the header metadata the assembler replicates at
// segment creation; every segment of a write receives the same columns.
type PlanEntry struct {
	Index     int
	Start     int64
	End       int64
	Columns   []Column
	HasHeader bool
}

// Rows returns the number of data rows the entry covers.
func (e PlanEntry) Rows() int64 { return e.End - e.Start }

// SheetName returns the sheet name for the entry in single-file mode:
// base for the first segment, base2, base3, ... after.
func (e PlanEntry) SheetName(base string) string {
	if e.Index <= 1 {
		return base
	}
	return fmt.Sprintf("%s%d", base, e.Index)
}

// FileName returns the output file name for the entry in multi-file
// mode: <base>_<index>.<ext>.
func (e PlanEntry) FileName(path string) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_%d%s", strings.TrimSuffix(path, ext), e.Index, ext)
}

// Planner yields successive segment entries for a stream whose total
// row count is not known up front: entry n covers the capacity window
// starting at row (n-1)*capacity. Every entry carries the same column
// metadata, so assemblers replicate the header on each segment.
type Planner struct {
	columns  []Column
	capacity int64
	start    int64
	index    int
}

// NewPlanner returns an incremental planner with at most capacity data
// rows per segment.
func NewPlanner(capacity int64, cols ...Column) (*Planner, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}
	return &Planner{capacity: capacity, columns: cols}, nil
}

// Next yields the entry of the next segment.
func (p *Planner) Next() PlanEntry {
	p.index++
	e := PlanEntry{
		Index:     p.index,
		Start:     p.start,
		End:       p.start + p.capacity,
		Columns:   p.columns,
		HasHeader: HasHeader(p.columns),
	}
	p.start += p.capacity
	return e
}

// Plan partitions a known total of totalRows rows into segments of at
// most capacity data rows each. Every row lands in exactly one segment,
// in order; all segments but the last cover exactly capacity rows. Even
// an empty dataset yields one (possibly header-only) segment. An exact
// multiple of capacity yields no trailing empty segment.
func Plan(totalRows, capacity int64, cols ...Column) ([]PlanEntry, error) {
	if totalRows < 0 {
		return nil, fmt.Errorf("negative row count %d", totalRows)
	}
	p, err := NewPlanner(capacity, cols...)
	if err != nil {
		return nil, err
	}
	n := (totalRows + capacity - 1) / capacity
	if n == 0 {
		n = 1
	}
	entries := make([]PlanEntry, 0, n)
	for i := int64(0); i < n; i++ {
		e := p.Next()
		if e.End > totalRows {
			e.End = totalRows
		}
		entries = append(entries, e)
	}
	return entries, nil
}
