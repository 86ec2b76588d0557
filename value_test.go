// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsplit

import (
	"database/sql"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNumericText(t *testing.T) {
	for s, want := range map[string]bool{
		"000123": true,
		"30":     true,
		"-12":    true,
		"-12.50": true,
		"0.0":    true,
		"":       false,
		"-":      false,
		".5":     false,
		"1.":     false,
		"1.2.3":  false,
		"12a":    false,
		"a12":    false,
		"1e5":    false,
		"+12":    false,
		" 12":    false,
	} {
		assert.Equal(t, want, NumericText(s), "%q", s)
	}
}

func TestValueOf(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, KindText, ValueOf("hello").Kind())
	assert.Equal(t, KindText, ValueOf("000123").Kind(), "preservation is the encoder's call, not the coercion's")
	assert.Equal(t, KindNumber, ValueOf(42).Kind())
	assert.Equal(t, KindNumber, ValueOf(int64(42)).Kind())
	assert.Equal(t, KindNumber, ValueOf(uint16(42)).Kind())
	assert.Equal(t, KindNumber, ValueOf(4.2).Kind())
	assert.Equal(t, KindBool, ValueOf(true).Kind())
	assert.Equal(t, KindTime, ValueOf(now).Kind())
	assert.Equal(t, now, ValueOf(now).Time())

	// Number opts out of literal preservation.
	v := ValueOf(Number("0123"))
	assert.Equal(t, KindNumber, v.Kind())
	assert.Equal(t, 123.0, v.Float64())
	assert.Equal(t, KindText, ValueOf(Number("not a number")).Kind())

	// Nil and invalid SQL nullables degrade to empty text.
	for _, in := range []any{
		nil,
		time.Time{},
		sql.NullTime{},
		sql.NullString{},
		sql.NullInt64{},
		sql.NullFloat64{},
	} {
		got := ValueOf(in)
		assert.Equal(t, KindText, got.Kind(), "%#v", in)
		assert.Equal(t, "", got.String(), "%#v", in)
	}
	assert.Equal(t, 7.0, ValueOf(sql.NullInt64{Int64: 7, Valid: true}).Float64())
	assert.Equal(t, "x", ValueOf(sql.NullString{String: "x", Valid: true}).String())

	assert.Equal(t, "bytes", ValueOf([]byte("bytes")).String())
	// fmt.Stringer
	assert.Equal(t, "127.0.0.1", ValueOf(net.IPv4(127, 0, 0, 1)).String())
	// Anything else falls back to its default textual form, never failing.
	assert.Equal(t, "[1 2]", ValueOf([]int{1, 2}).String())
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "1.5", Num(1.5).String())
	assert.Equal(t, "100000", Num(100000).String())
	assert.Equal(t, "true", Bool(true).String())
	assert.Equal(t, "2026-08-29",
		Time(time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)).String(),
		"midnight stays a bare date")
	assert.Equal(t, "2026-08-29 10:30:00",
		Time(time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)).String())
	assert.Equal(t, "SUM(A1:A5)", Formula("SUM(A1:A5)").String())
	var zero Value
	assert.Equal(t, "", zero.String())
}
