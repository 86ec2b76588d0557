// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsx

import "github.com/xuri/excelize/v2"

// Lookup helpers return empty results for sheets, rows or cells that do
// not exist, instead of an error.

// CellString returns the formatted value of the cell ("A1" style
// reference), or "" if the sheet or cell is absent.
func CellString(xl *excelize.File, sheet, cell string) string {
	v, err := xl.GetCellValue(sheet, cell)
	if err != nil {
		return ""
	}
	return v
}

// RowCount returns the number of rows in sheet, 0 if it does not exist.
func RowCount(xl *excelize.File, sheet string) int {
	rows, err := xl.GetRows(sheet)
	if err != nil {
		return 0
	}
	return len(rows)
}

// SheetRows returns all rows of sheet as formatted strings, nil if the
// sheet does not exist.
func SheetRows(xl *excelize.File, sheet string) [][]string {
	rows, err := xl.GetRows(sheet)
	if err != nil {
		return nil
	}
	return rows
}
