// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/UNO-SOFT/xlsplit"
)

func writeWorkbook(t *testing.T, rows [][]any, opts ...xlsplit.Option) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	asm := NewWriter(&buf, "Data")
	_, err := xlsplit.Copy(context.Background(), asm, xlsplit.SliceSource(rows), opts...)
	require.NoError(t, err)
	require.NoError(t, asm.Close())

	xl, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	t.Cleanup(func() { xl.Close() })
	return xl
}

func TestLeadingZerosRoundTrip(t *testing.T) {
	xl := writeWorkbook(t, [][]any{
		{"000123"},
		{"30"},
		{30},
		{"-12.50"},
		{"plain text"},
	}, xlsplit.WithCapacity(100))

	assert.Equal(t, "000123", CellString(xl, "Data", "A1"),
		"literal digits survive the round trip")
	assert.Equal(t, "30", CellString(xl, "Data", "A2"))
	assert.Equal(t, "30", CellString(xl, "Data", "A3"))
	assert.Equal(t, "-12.50", CellString(xl, "Data", "A4"))
	assert.Equal(t, "plain text", CellString(xl, "Data", "A5"))
}

func TestValueKinds(t *testing.T) {
	xl := writeWorkbook(t, [][]any{
		{"text", 1.5, true, xlsplit.Number("0042")},
	}, xlsplit.WithCapacity(100))

	assert.Equal(t, "text", CellString(xl, "Data", "A1"))
	assert.Equal(t, "1.5", CellString(xl, "Data", "B1"))

	ct, err := xl.GetCellType("Data", "C1")
	require.NoError(t, err)
	assert.Equal(t, excelize.CellTypeBool, ct)
	// Number strings become true numeric cells, digits re-normalized.
	assert.Equal(t, "42", CellString(xl, "Data", "D1"))
}

func TestSheetPerSegment(t *testing.T) {
	rows := make([][]any, 5)
	for i := range rows {
		rows[i] = []any{i, fmt.Sprintf("row-%d", i)}
	}
	xl := writeWorkbook(t, rows,
		xlsplit.WithCapacity(2),
		xlsplit.WithColumns(
			xlsplit.Column{Name: "id", Header: xlsplit.Style{FontBold: true}},
			xlsplit.Column{Name: "name", Header: xlsplit.Style{FontBold: true}},
		))

	assert.Equal(t, []string{"Data", "Data2", "Data3"}, xl.GetSheetList())

	i := 0
	for _, sheet := range xl.GetSheetList() {
		got := SheetRows(xl, sheet)
		require.NotEmpty(t, got)
		require.Equal(t, []string{"id", "name"}, got[0],
			"%s starts with the header row", sheet)
		for _, row := range got[1:] {
			require.Equal(t, fmt.Sprintf("row-%d", i), row[1])
			i++
		}
		require.LessOrEqual(t, len(got)-1, 2)
	}
	assert.Equal(t, 5, i, "concatenated segments reproduce the dataset")
}

func TestHeaderOnlyWorkbook(t *testing.T) {
	xl := writeWorkbook(t, nil,
		xlsplit.WithCapacity(10),
		xlsplit.WithColumns(xlsplit.Column{Name: "id"}))

	require.Equal(t, []string{"Data"}, xl.GetSheetList())
	require.Equal(t, [][]string{{"id"}}, SheetRows(xl, "Data"))
}

func TestSplitFiles(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.xlsx")
	rows := make([][]any, 7)
	for i := range rows {
		rows[i] = []any{i}
	}
	asm := NewSplitWriter(out)
	stats, err := xlsplit.Copy(context.Background(), asm, xlsplit.SliceSource(rows),
		xlsplit.WithCapacity(3),
		xlsplit.WithColumns(xlsplit.Column{Name: "id"}))
	require.NoError(t, err)
	require.NoError(t, asm.Close())
	require.Equal(t, 3, stats.Segments)

	i := 0
	for n := 1; n <= 3; n++ {
		fn := filepath.Join(dir, fmt.Sprintf("out_%d.xlsx", n))
		xl, err := excelize.OpenFile(fn)
		require.NoError(t, err, fn)
		got := SheetRows(xl, "Sheet1")
		require.NotEmpty(t, got)
		require.Equal(t, "id", got[0][0])
		for _, row := range got[1:] {
			require.Equal(t, fmt.Sprint(i), row[0])
			i++
		}
		require.NoError(t, xl.Close())
	}
	assert.Equal(t, 7, i)

	_, err = os.Stat(filepath.Join(dir, "out_4.xlsx"))
	assert.True(t, os.IsNotExist(err), "no trailing empty segment file")
}

func TestSegmentLifecycle(t *testing.T) {
	var buf bytes.Buffer
	asm := NewWriter(&buf, "Data")
	seg, err := asm.OpenSegment(xlsplit.PlanEntry{Index: 1})
	require.NoError(t, err)

	// Only one segment may be open, and the workbook cannot be
	// serialized around an open segment.
	_, err = asm.OpenSegment(xlsplit.PlanEntry{Index: 2})
	assert.ErrorIs(t, err, xlsplit.ErrSegmentOpen)
	assert.ErrorIs(t, asm.Close(), xlsplit.ErrSegmentOpen)

	require.NoError(t, seg.AppendRow(xlsplit.Text("x")))
	require.NoError(t, seg.Close())
	assert.ErrorIs(t, seg.AppendRow(xlsplit.Text("y")), xlsplit.ErrSegmentFinalized)
	assert.NoError(t, seg.Close(), "closing a finalized segment is a no-op")

	require.NoError(t, asm.Close())
	require.NoError(t, asm.Close(), "double close is fine")
}

func TestRowCeiling(t *testing.T) {
	var buf bytes.Buffer
	asm := NewWriter(&buf, "Data")
	sg, err := asm.OpenSegment(xlsplit.PlanEntry{Index: 1})
	require.NoError(t, err)

	// Seed the segment so the next append lands on the last writable
	// worksheet row.
	sg.(*segment).row = MaxRowCount

	require.NoError(t, sg.AppendRow(xlsplit.Text("last")))
	assert.ErrorIs(t, sg.AppendRow(xlsplit.Text("overflow")), xlsplit.ErrTooManyRows)
	assert.ErrorIs(t, sg.AppendRow(xlsplit.Text("still overflow")), xlsplit.ErrTooManyRows)

	require.NoError(t, sg.Close())
	require.NoError(t, asm.Close())
}

func TestReadHelpersAbsent(t *testing.T) {
	xl := writeWorkbook(t, [][]any{{1}}, xlsplit.WithCapacity(10))

	assert.Equal(t, "", CellString(xl, "NoSuchSheet", "A1"))
	assert.Equal(t, "", CellString(xl, "Data", "ZZ999"))
	assert.Equal(t, 0, RowCount(xl, "NoSuchSheet"))
	assert.Equal(t, 1, RowCount(xl, "Data"))
	assert.Nil(t, SheetRows(xl, "NoSuchSheet"))
}
