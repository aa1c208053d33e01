// Package sheet is the narrow cell-level contract the mapper reads and writes
// through, with an in-memory workbook and an excelize-backed one.
package sheet

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"time"
)

var ErrUnsupportedValue = errors.New("unsupported cell value")

// Kind is the type of a cell value.
type Kind int

const (
	KindBlank Kind = iota
	KindString
	KindNumber
	KindBool
	KindDate
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindBlank:
		return "blank"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// Value is a typed cell value. Only the field matching Kind is meaningful.
type Value struct {
	Kind Kind
	Str  string
	Num  float64
	Bool bool
	Time time.Time
	// Format is the number format to display the value with, if any.
	Format string
}

// Blank is the empty cell.
var Blank = Value{}

// String returns a string cell.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Number returns a numeric cell.
func Number(f float64) Value { return Value{Kind: KindNumber, Num: f} }

// Bool returns a boolean cell.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Date returns a date cell.
func Date(t time.Time) Value { return Value{Kind: KindDate, Time: t} }

// IsBlank reports whether the cell holds nothing, an empty string included.
func (v Value) IsBlank() bool {
	return v.Kind == KindBlank || (v.Kind == KindString && v.Str == "")
}

// Interface returns the value as nil, string, float64, bool or time.Time.
func (v Value) Interface() any {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return v.Num
	case KindBool:
		return v.Bool
	case KindDate:
		return v.Time
	default:
		return nil
	}
}

// Text renders the value the way header matching sees it.
func (v Value) Text() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindDate:
		return v.Time.Format(time.RFC3339)
	default:
		return ""
	}
}

// Equal reports whether v and o hold the same kind and value.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return v.IsBlank() && o.IsBlank()
	}

	switch v.Kind {
	case KindString:
		return v.Str == o.Str
	case KindNumber:
		return v.Num == o.Num
	case KindBool:
		return v.Bool == o.Bool
	case KindDate:
		return v.Time.Equal(o.Time)
	default:
		return true
	}
}

// WithFormat returns a copy of v carrying format.
func (v Value) WithFormat(format string) Value {
	v.Format = format
	return v
}

// ValueOf converts a Go value into a cell value. Numbers of any width become
// KindNumber, fmt.Stringer values become strings, nil becomes Blank.
func ValueOf(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Blank, nil
	case Value:
		return t, nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case time.Time:
		return Date(t), nil
	case float64:
		return Number(t), nil
	case fmt.Stringer:
		return String(t.String()), nil
	}

	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(float64(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Number(float64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return Number(rv.Float()), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Blank, nil
		}

		return ValueOf(rv.Elem().Interface())
	default:
		return Blank, fmt.Errorf("%w: %T", ErrUnsupportedValue, x)
	}
}
