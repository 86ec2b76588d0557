// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsplit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// DefaultBatchSize is the number of rows written between explicit
// flushes when the caller does not override it.
const DefaultBatchSize = 1000

type config struct {
	capacity  int64
	batchSize int
	columns   []Column
	logger    *slog.Logger
	workers   int
}

// Option configures a partitioned write.
type Option func(*config)

// WithCapacity sets the maximum number of data rows per segment,
// excluding the header. It must not exceed the structural row ceiling
// of the active document format.
func WithCapacity(rows int64) Option {
	return func(c *config) { c.capacity = rows }
}

// WithBatchSize sets how many rows are written between flushes
// (default DefaultBatchSize).
func WithBatchSize(rows int) Option {
	return func(c *config) { c.batchSize = rows }
}

// WithColumns sets column metadata. If any column is named, every
// segment starts with an identical header row.
func WithColumns(cols ...Column) Option {
	return func(c *config) { c.columns = cols }
}

// WithLogger sets a logger for per-segment progress.
func WithLogger(lg *slog.Logger) Option {
	return func(c *config) { c.logger = lg }
}

// WithEncodeWorkers fans row coercion out over n goroutines. Appending
// stays on the calling goroutine and row order is preserved.
func WithEncodeWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

// Stats describes a finished partitioned write.
type Stats struct {
	Rows     int64
	Segments int
	Flushes  int
}

// Copy pulls every record of src, encodes it, and appends it to
// segments opened from asm, rolling to a new segment whenever the
// capacity is reached and flushing after every batch. It never looks
// ahead of the row being written and keeps at most one batch encoded
// in memory beyond what the sink buffers.
//
// On failure the whole write is abandoned: the error carries the
// segment ordinal and absolute row offset, segments already finalized
// stay where they were written, and the segment being filled is left
// unfinalized. The caller still owns asm and closes it.
//
// ctx is checked when a segment or a batch boundary is crossed.
func Copy(ctx context.Context, asm Assembler, src RowSource, opts ...Option) (Stats, error) {
	var stats Stats
	cfg := config{batchSize: DefaultBatchSize}
	for _, o := range opts {
		o(&cfg)
	}
	planner, err := NewPlanner(cfg.capacity, cfg.columns...)
	if err != nil {
		return stats, err
	}
	if cfg.batchSize <= 0 {
		cfg.batchSize = DefaultBatchSize
	}

	var it RowIterator
	if cfg.workers > 1 {
		pit, stop := EncodeParallel(ctx, src, cfg.workers)
		defer stop()
		it = pit
	} else {
		it = Encode(src)
	}

	entry := planner.Next()
	seg, err := asm.OpenSegment(entry)
	if err != nil {
		return stats, fmt.Errorf("open segment %d: %w", entry.Index, err)
	}
	stats.Segments = 1

	var fill, inBatch int64
	for {
		row, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("segment %d: read row %d: %w", entry.Index, stats.Rows, err)
		}
		if fill == cfg.capacity {
			if err = seg.Close(); err != nil {
				return stats, fmt.Errorf("finalize segment %d: %w", entry.Index, err)
			}
			if cfg.logger != nil {
				cfg.logger.Info("segment finalized", "segment", entry.Index, "rows", fill)
			}
			if err = ctx.Err(); err != nil {
				return stats, err
			}
			entry = planner.Next()
			if seg, err = asm.OpenSegment(entry); err != nil {
				return stats, fmt.Errorf("open segment %d: %w", entry.Index, err)
			}
			stats.Segments++
			fill, inBatch = 0, 0
		}
		if err = seg.AppendRow(row...); err != nil {
			return stats, fmt.Errorf("segment %d: append row %d: %w", entry.Index, stats.Rows, err)
		}
		fill++
		inBatch++
		stats.Rows++
		if inBatch == int64(cfg.batchSize) {
			if err = seg.Flush(); err != nil {
				return stats, fmt.Errorf("segment %d: flush at row %d: %w", entry.Index, stats.Rows, err)
			}
			stats.Flushes++
			inBatch = 0
			if err = ctx.Err(); err != nil {
				return stats, err
			}
		}
	}
	if err = seg.Close(); err != nil {
		return stats, fmt.Errorf("finalize segment %d: %w", entry.Index, err)
	}
	if cfg.logger != nil {
		cfg.logger.Info("write finished",
			"rows", stats.Rows, "segments", stats.Segments, "flushes", stats.Flushes)
	}
	return stats, nil
}
