// Copyright 2026 Tamás Gulácsi.
//
// SPDX-License-Identifier: Apache-2.0

package xlsplit

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"strconv"
	"time"
)

// Kind is the type tag of a Value.
type Kind uint8

const (
	KindText Kind = iota
	KindNumber
	KindBool
	KindTime
	KindFormula
)

// String returns a human-readable name for the Kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindNumber:
		return "Number"
	case KindBool:
		return "Bool"
	case KindTime:
		return "Time"
	case KindFormula:
		return "Formula"
	default:
		return "Unknown"
	}
}

// Value is a tagged union over the cell kinds a segment can hold.
// The zero Value is empty text.
type Value struct {
	text string
	num  float64
	t    time.Time
	kind Kind
	b    bool
}

// Row is one ordered record of a dataset, column index implied by position.
type Row []Value

func Text(s string) Value       { return Value{kind: KindText, text: s} }
func Num(f float64) Value       { return Value{kind: KindNumber, num: f} }
func Bool(b bool) Value         { return Value{kind: KindBool, b: b} }
func Time(t time.Time) Value    { return Value{kind: KindTime, t: t} }
func Formula(expr string) Value { return Value{kind: KindFormula, text: expr} }

func (v Value) Kind() Kind      { return v.kind }
func (v Value) Float64() float64 { return v.num }
func (v Value) Bool() bool      { return v.b }
func (v Value) Time() time.Time { return v.t }

// String returns the display form of the value, the same form the CSV
// export writes.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindTime:
		if h, m, sec := v.t.Clock(); h == 0 && m == 0 && sec == 0 && v.t.Nanosecond() == 0 {
			return v.t.Format("2006-01-02")
		}
		return v.t.Format("2006-01-02 15:04:05")
	default:
		return v.text
	}
}

// ValueOf coerces an arbitrary input to a Value. Unrecognized types
// degrade to their default textual form; ValueOf never fails.
func ValueOf(v any) Value {
	if v == nil {
		return Text("")
	}
	if vr, ok := v.(driver.Valuer); ok {
		if vv, err := vr.Value(); err == nil {
			v = vv
		}
	}
	switch x := v.(type) {
	case Value:
		return x
	case string:
		return Text(x)
	case Number:
		if f, err := strconv.ParseFloat(string(x), 64); err == nil {
			return Num(f)
		}
		return Text(string(x))
	case []byte:
		return Text(string(x))
	case float64:
		return Num(x)
	case float32:
		return Num(float64(x))
	case int:
		return Num(float64(x))
	case int8:
		return Num(float64(x))
	case int16:
		return Num(float64(x))
	case int32:
		return Num(float64(x))
	case int64:
		return Num(float64(x))
	case uint:
		return Num(float64(x))
	case uint8:
		return Num(float64(x))
	case uint16:
		return Num(float64(x))
	case uint32:
		return Num(float64(x))
	case uint64:
		return Num(float64(x))
	case bool:
		return Bool(x)
	case time.Time:
		if x.IsZero() {
			return Text("")
		}
		return Time(x)
	case sql.NullTime:
		if !x.Valid || x.Time.IsZero() {
			return Text("")
		}
		return Time(x.Time)
	case sql.NullFloat64:
		if !x.Valid {
			return Text("")
		}
		return Num(x.Float64)
	case sql.NullInt64:
		if !x.Valid {
			return Text("")
		}
		return Num(float64(x.Int64))
	case sql.NullString:
		if !x.Valid {
			return Text("")
		}
		return Text(x.String)
	case fmt.Stringer:
		return Text(x.String())
	default:
		return Text(fmt.Sprint(x))
	}
}

// ValuesOf coerces a raw record with ValueOf, element by element.
func ValuesOf(record []any) Row {
	row := make(Row, len(record))
	for i, v := range record {
		row[i] = ValueOf(v)
	}
	return row
}

// NumericText reports whether s is a pure integer or decimal literal
// (an optional leading '-', digits, optionally '.' and more digits).
// Such text is written with a text-preserving display format so the
// literal digits, leading zeros included, survive a round trip.
func NumericText(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '-' {
		i++
	}
	digits := 0
	for ; i < len(s) && '0' <= s[i] && s[i] <= '9'; i++ {
		digits++
	}
	if digits == 0 {
		return false
	}
	if i == len(s) {
		return true
	}
	if s[i] != '.' {
		return false
	}
	i++
	frac := 0
	for ; i < len(s) && '0' <= s[i] && s[i] <= '9'; i++ {
		frac++
	}
	return frac > 0 && i == len(s)
}
