// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsplit

import (
	"context"
	"io"

	"golang.org/x/sync/errgroup"
)

type indexedRecord struct {
	record []any
	index  int64
}

type indexedRow struct {
	row   Row
	index int64
}

type parallelIterator struct {
	group   *errgroup.Group
	results chan indexedRow
	pending map[int64]Row
	next    int64
	done    bool
	err     error
}

// EncodeParallel coerces records on workers goroutines while a single
// consumer appends them: Next delivers rows in original dataset order,
// reordering out-of-order arrivals through a buffer keyed by row index.
// The source itself is still read sequentially, one feeder goroutine,
// never more than a few records ahead of the consumer.
//
// stop must be called when the consumer abandons the iterator early so
// the workers do not leak; it is a no-op after normal exhaustion.
func EncodeParallel(ctx context.Context, src RowSource, workers int) (RowIterator, func()) {
	ctx, cancel := context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)
	records := make(chan indexedRecord, workers)
	results := make(chan indexedRow, workers)

	g.Go(func() error {
		defer close(records)
		for i := int64(0); ; i++ {
			record, err := src.Next()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			// Sources may reuse the record slice between calls.
			rec := make([]any, len(record))
			copy(rec, record)
			select {
			case records <- indexedRecord{record: rec, index: i}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	var wg errgroup.Group
	for range workers {
		wg.Go(func() error {
			for rec := range records {
				select {
				case results <- indexedRow{row: ValuesOf(rec.record), index: rec.index}:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}
	g.Go(func() error {
		defer close(results)
		return wg.Wait()
	})

	return &parallelIterator{group: g, results: results, pending: make(map[int64]Row)}, cancel
}

func (p *parallelIterator) Next() (Row, error) {
	if p.done {
		return nil, p.finish()
	}
	for {
		if row, ok := p.pending[p.next]; ok {
			delete(p.pending, p.next)
			p.next++
			return row, nil
		}
		ir, ok := <-p.results
		if !ok {
			p.done = true
			return nil, p.finish()
		}
		p.pending[ir.index] = ir.row
	}
}

func (p *parallelIterator) finish() error {
	if p.err == nil {
		if err := p.group.Wait(); err != nil {
			p.err = err
		} else {
			p.err = io.EOF
		}
	}
	return p.err
}
