// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsplit

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeParallelOrder(t *testing.T) {
	it, stop := EncodeParallel(context.Background(), &countSource{n: 5000}, 8)
	defer stop()

	for i := 0; i < 5000; i++ {
		row, err := it.Next()
		require.NoError(t, err)
		require.Equal(t, float64(i), row[0].Float64(), "row %d out of order", i)
	}
	_, err := it.Next()
	assert.ErrorIs(t, err, io.EOF)
	// Exhausted iterators keep reporting EOF.
	_, err = it.Next()
	assert.ErrorIs(t, err, io.EOF)
}

type failingSource struct {
	n, i int
	err  error
}

func (f *failingSource) Next() ([]any, error) {
	if f.i >= f.n {
		return nil, f.err
	}
	f.i++
	return []any{f.i}, nil
}

func TestEncodeParallelSourceError(t *testing.T) {
	boom := errors.New("source boom")
	it, stop := EncodeParallel(context.Background(), &failingSource{n: 100, err: boom}, 4)
	defer stop()

	var err error
	for err == nil {
		_, err = it.Next()
	}
	assert.ErrorIs(t, err, boom)
}

func TestEncodeParallelStop(t *testing.T) {
	it, stop := EncodeParallel(context.Background(), &countSource{n: 1_000_000}, 4)
	row, err := it.Next()
	require.NoError(t, err)
	require.Equal(t, float64(0), row[0].Float64())
	// Abandon mid-stream; stop must unblock the feeder and workers.
	stop()
}
