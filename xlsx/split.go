// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"fmt"

	"github.com/UNO-SOFT/xlsplit"
	"github.com/xuri/excelize/v2"
)

var _ = (xlsplit.Assembler)((*SplitWriter)(nil))

// SplitWriter assembles each segment as its own workbook file: segment
// n holds a single "Sheet1" and is serialized to its sink when closed,
// after which the workbook is discarded, so no finished segment's
// encoded state is retained. The sink is only created at finalize time;
// an aborted segment leaves no output behind.
type SplitWriter struct {
	newSink func(xlsplit.PlanEntry) (xlsplit.Sink, error)
	open    bool
}

// NewSplitWriter returns a file-per-segment assembler naming outputs
// <base>_<n><ext> after path.
func NewSplitWriter(path string) *SplitWriter {
	return NewSplitWriterFunc(func(entry xlsplit.PlanEntry) (xlsplit.Sink, error) {
		return xlsplit.NewFileSink(entry.FileName(path))
	})
}

// NewSplitWriterFunc returns a file-per-segment assembler with a
// caller-supplied sink per segment (local file, S3, ...).
func NewSplitWriterFunc(newSink func(xlsplit.PlanEntry) (xlsplit.Sink, error)) *SplitWriter {
	return &SplitWriter{newSink: newSink}
}

func (fw *SplitWriter) OpenSegment(entry xlsplit.PlanEntry) (xlsplit.Segment, error) {
	if fw.open {
		return nil, xlsplit.ErrSegmentOpen
	}
	xl := excelize.NewFile()
	seg, err := newSegment(xl, &styleCache{xl: xl}, "Sheet1", entry)
	if err != nil {
		xl.Close()
		return nil, err
	}
	seg.finalize = func() error {
		defer xl.Close()
		fw.open = false
		sink, err := fw.newSink(entry)
		if err != nil {
			return err
		}
		if err = xl.Write(sink); err != nil {
			// Do not let a half-written segment look complete.
			if ab, ok := sink.(interface{ Abort() error }); ok {
				_ = ab.Abort()
			} else {
				sink.Close()
			}
			return fmt.Errorf("segment %d: %w", entry.Index, err)
		}
		return sink.Close()
	}
	fw.open = true
	return seg, nil
}

// Close reports whether a segment was left open; the SplitWriter itself
// holds no other state between segments.
func (fw *SplitWriter) Close() error {
	if fw.open {
		return xlsplit.ErrSegmentOpen
	}
	return nil
}
