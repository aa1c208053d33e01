package primitive

import (
	"encoding"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"sheet-mapper/options"
	"sheet-mapper/sheet"
)

var (
	ErrUnsupportedType = errors.New("unsupported property type")
	ErrNotAllowed      = errors.New("conversion not allowed")
	ErrInvalidValue    = errors.New("invalid cell value")
	ErrOutOfRange      = errors.New("value out of range")
	ErrInvalidEnum     = errors.New("invalid enum value")
)

// maxExactInt is the largest integer a float64 cell holds exactly. Larger
// integers are written as text.
const maxExactInt = 1 << 53

var (
	textUnmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	textMarshalerType   = reflect.TypeFor[encoding.TextMarshaler]()
	validatorType       = reflect.TypeFor[interface{ IsValid() bool }]()
)

var datetimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
}

// Supported reports whether the default conversion handles t. Pointer types
// are supported when their element type is.
func Supported(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return FromReflectType(t) != 0 || reflect.PointerTo(t).Implements(textUnmarshalerType)
}

// FromCell converts a cell into a value of type t. A blank cell yields the
// invalid reflect.Value, meaning the property keeps its current value.
// Pointer types receive a pointer to the converted element.
func FromCell(v sheet.Value, t reflect.Type, format string, allowed options.CategoryEnum) (reflect.Value, error) {
	if v.IsBlank() {
		return reflect.Value{}, nil
	}

	if t.Kind() == reflect.Pointer {
		elem, err := FromCell(v, t.Elem(), format, allowed)
		if err != nil || !elem.IsValid() {
			return elem, err
		}

		p := reflect.New(t.Elem())
		p.Elem().Set(elem)

		return p, nil
	}

	kind := FromReflectType(t)

	if (kind == 0 || kind == KindPrimitiveEnum) && v.Kind == sheet.KindString &&
		reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return unmarshalText(v.Str, t)
	}

	if kind == 0 {
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}

	if !Allowed(ConversionPair{v.Kind, kind}, allowed) {
		return reflect.Value{}, fmt.Errorf("%w: %s cell into %s", ErrNotAllowed, v.Kind, t)
	}

	switch {
	case kind == KindAny:
		return reflect.ValueOf(v.Interface()), nil
	case kind == KindPrimitiveEnum:
		return toEnum(v, t, allowed)
	case kind.IsNumber():
		return toNumber(v, t, kind, allowed)
	case kind == KindBool:
		return toBool(v, t)
	case kind == KindString:
		return toString(v, t, format)
	case kind == KindTime:
		return toTime(v, format)
	case kind == KindDuration:
		return toDuration(v)
	default:
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
}

func unmarshalText(s string, t reflect.Type) (reflect.Value, error) {
	p := reflect.New(t)

	if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
		return reflect.Value{}, fmt.Errorf("%w: %q as %s: %w", ErrInvalidValue, s, t, err)
	}

	return validate(p.Elem())
}

func validate(v reflect.Value) (reflect.Value, error) {
	if v.Type().Implements(validatorType) && !v.Interface().(interface{ IsValid() bool }).IsValid() {
		return reflect.Value{}, fmt.Errorf("%w: %v for %s", ErrInvalidEnum, v.Interface(), v.Type())
	}

	return v, nil
}

func toEnum(v sheet.Value, t reflect.Type, allowed options.CategoryEnum) (reflect.Value, error) {
	base := baseKind(t)

	var (
		out reflect.Value
		err error
	)

	switch base {
	case KindString:
		out = reflect.ValueOf(v.Text()).Convert(t)
	case KindInt64, KindUint64:
		num := v
		if v.Kind == sheet.KindString {
			if num, err = parseNumber(v.Str); err != nil {
				return reflect.Value{}, err
			}
		}

		// enums never truncate
		bt := baseType(t)

		n, err := toNumber(num, bt, FromReflectType(bt), allowed&^options.CategoryUnsafeNumber)
		if err != nil {
			return reflect.Value{}, err
		}

		out = n.Convert(t)
	default:
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}

	return validate(out)
}

// baseType returns the predeclared type with the same kind as t.
func baseType(t reflect.Type) reflect.Type {
	switch t.Kind() {
	case reflect.Int:
		return reflect.TypeFor[int]()
	case reflect.Int8:
		return reflect.TypeFor[int8]()
	case reflect.Int16:
		return reflect.TypeFor[int16]()
	case reflect.Int32:
		return reflect.TypeFor[int32]()
	case reflect.Int64:
		return reflect.TypeFor[int64]()
	case reflect.Uint:
		return reflect.TypeFor[uint]()
	case reflect.Uint8:
		return reflect.TypeFor[uint8]()
	case reflect.Uint16:
		return reflect.TypeFor[uint16]()
	case reflect.Uint32:
		return reflect.TypeFor[uint32]()
	case reflect.Uint64:
		return reflect.TypeFor[uint64]()
	default:
		return reflect.TypeFor[string]()
	}
}

func parseNumber(s string) (sheet.Value, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return sheet.Blank, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, s)
	}

	return sheet.Number(f), nil
}

func toNumber(v sheet.Value, t reflect.Type, kind KindEnum, allowed options.CategoryEnum) (reflect.Value, error) {
	out := reflect.New(t).Elem()

	var f float64

	switch v.Kind {
	case sheet.KindNumber:
		f = v.Num
	case sheet.KindBool:
		if v.Bool {
			f = 1
		}
	case sheet.KindString:
		s := strings.TrimSpace(v.Str)

		// exact parse first so that wide integers keep every digit
		if kind.IsSigned() {
			if i, err := strconv.ParseInt(s, 10, 64); err == nil {
				if out.OverflowInt(i) {
					return reflect.Value{}, fmt.Errorf("%w: %s for %s", ErrOutOfRange, s, t)
				}

				out.SetInt(i)

				return out, nil
			}
		} else if kind.IsUnsigned() {
			if u, err := strconv.ParseUint(s, 10, 64); err == nil {
				if out.OverflowUint(u) {
					return reflect.Value{}, fmt.Errorf("%w: %s for %s", ErrOutOfRange, s, t)
				}

				out.SetUint(u)

				return out, nil
			}
		}

		n, err := parseNumber(s)
		if err != nil {
			return reflect.Value{}, err
		}

		f = n.Num
	default:
		return reflect.Value{}, fmt.Errorf("%w: %s cell into %s", ErrNotAllowed, v.Kind, t)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return reflect.Value{}, fmt.Errorf("%w: %v for %s", ErrOutOfRange, f, t)
	}

	if kind.IsFloat() {
		if out.OverflowFloat(f) {
			return reflect.Value{}, fmt.Errorf("%w: %v for %s", ErrOutOfRange, f, t)
		}

		out.SetFloat(f)

		return out, nil
	}

	if f != math.Trunc(f) {
		if !allowed.Has(options.CategoryUnsafeNumber) {
			return reflect.Value{}, fmt.Errorf("%w: %v has a fraction, %s is an integer", ErrNotAllowed, f, t)
		}

		f = math.Trunc(f)
	}

	if kind.IsSigned() {
		if f < math.MinInt64 || f >= math.MaxInt64 || out.OverflowInt(int64(f)) {
			return reflect.Value{}, fmt.Errorf("%w: %v for %s", ErrOutOfRange, f, t)
		}

		out.SetInt(int64(f))

		return out, nil
	}

	if f < 0 || f >= math.MaxUint64 || out.OverflowUint(uint64(f)) {
		return reflect.Value{}, fmt.Errorf("%w: %v for %s", ErrOutOfRange, f, t)
	}

	out.SetUint(uint64(f))

	return out, nil
}

func toBool(v sheet.Value, t reflect.Type) (reflect.Value, error) {
	out := reflect.New(t).Elem()

	switch v.Kind {
	case sheet.KindBool:
		out.SetBool(v.Bool)
	case sheet.KindNumber:
		switch v.Num {
		case 0:
			out.SetBool(false)
		case 1:
			out.SetBool(true)
		default:
			return reflect.Value{}, fmt.Errorf("%w: %v is not 0 or 1", ErrInvalidValue, v.Num)
		}
	case sheet.KindString:
		b, ok := parseBool(v.Str)
		if !ok {
			return reflect.Value{}, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, v.Str)
		}

		out.SetBool(b)
	default:
		return reflect.Value{}, fmt.Errorf("%w: %s cell into %s", ErrNotAllowed, v.Kind, t)
	}

	return out, nil
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "y", "yes", "on":
		return true, true
	case "0", "f", "false", "n", "no", "off":
		return false, true
	default:
		return false, false
	}
}

func toString(v sheet.Value, t reflect.Type, format string) (reflect.Value, error) {
	s := v.Text()
	if v.Kind == sheet.KindDate && format != "" {
		s = v.Time.Format(Layout(format))
	}

	return reflect.ValueOf(s).Convert(t), nil
}

func toTime(v sheet.Value, format string) (reflect.Value, error) {
	switch v.Kind {
	case sheet.KindDate:
		return reflect.ValueOf(v.Time), nil
	case sheet.KindNumber:
		tm, err := sheet.ExcelDateToTime(v.Num)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: serial date %v: %w", ErrInvalidValue, v.Num, err)
		}

		return reflect.ValueOf(tm), nil
	case sheet.KindString:
		s := strings.TrimSpace(v.Str)

		if format != "" {
			tm, err := time.Parse(Layout(format), s)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("%w: %q does not match format %q: %w", ErrInvalidValue, s, format, err)
			}

			return reflect.ValueOf(tm), nil
		}

		for _, layout := range datetimeLayouts {
			if tm, err := time.Parse(layout, s); err == nil {
				return reflect.ValueOf(tm), nil
			}
		}

		return reflect.Value{}, fmt.Errorf("%w: %q is not a date", ErrInvalidValue, s)
	default:
		return reflect.Value{}, fmt.Errorf("%w: %s cell into time", ErrNotAllowed, v.Kind)
	}
}

// excelEpoch is the day a time-only cell is anchored to.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

func toDuration(v sheet.Value) (reflect.Value, error) {
	switch v.Kind {
	case sheet.KindNumber:
		return reflect.ValueOf(time.Duration(math.Round(v.Num * float64(24*time.Hour)))), nil
	case sheet.KindDate:
		if v.Time.Year() < 1900 {
			return reflect.ValueOf(v.Time.Sub(excelEpoch)), nil
		}

		midnight := time.Date(v.Time.Year(), v.Time.Month(), v.Time.Day(), 0, 0, 0, 0, v.Time.Location())

		return reflect.ValueOf(v.Time.Sub(midnight)), nil
	case sheet.KindString:
		s := strings.TrimSpace(v.Str)

		if d, err := time.ParseDuration(s); err == nil {
			return reflect.ValueOf(d), nil
		}

		if d, ok := parseClock(s); ok {
			return reflect.ValueOf(d), nil
		}

		return reflect.Value{}, fmt.Errorf("%w: %q is not a duration", ErrInvalidValue, s)
	default:
		return reflect.Value{}, fmt.Errorf("%w: %s cell into duration", ErrNotAllowed, v.Kind)
	}
}

// parseClock parses h:mm and h:mm:ss with an unbounded hour count.
func parseClock(s string) (time.Duration, bool) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}

	var d time.Duration

	for i, unit := range []time.Duration{time.Hour, time.Minute, time.Second}[:len(parts)] {
		n, err := strconv.ParseFloat(parts[i], 64)
		if err != nil || n < 0 {
			return 0, false
		}

		d += time.Duration(n * float64(unit))
	}

	return d, true
}

// ToCell converts a property value into a cell. Nil pointers and interfaces
// yield Blank. Times are written as dates carrying an Excel format, or as
// text when format is a Go layout.
func ToCell(v reflect.Value, format string) (sheet.Value, error) {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return sheet.Blank, nil
		}

		v = v.Elem()
	}

	if !v.IsValid() {
		return sheet.Blank, nil
	}

	t := v.Type()
	kind := FromReflectType(t)

	// an unset enum came from a blank cell and goes back as one
	if v.IsZero() && v.CanInterface() && t.Implements(validatorType) &&
		!v.Interface().(interface{ IsValid() bool }).IsValid() {
		return sheet.Blank, nil
	}

	if (kind == 0 || kind == KindPrimitiveEnum) && t.Implements(textMarshalerType) {
		text, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return sheet.Blank, fmt.Errorf("%w: %s: %w", ErrInvalidValue, t, err)
		}

		return sheet.String(string(text)), nil
	}

	excelFormat := format
	if IsLayout(format) {
		excelFormat = ""
	}

	switch {
	case kind == KindTime:
		tm := v.Interface().(time.Time)
		if IsLayout(format) {
			return sheet.String(tm.Format(format)), nil
		}

		return sheet.Date(tm).WithFormat(excelFormat), nil
	case kind == KindDuration:
		d := time.Duration(v.Int())
		if format == "" {
			return sheet.String(d.String()), nil
		}

		return sheet.Number(float64(d) / float64(24*time.Hour)).WithFormat(excelFormat), nil
	case kind == KindPrimitiveEnum && t.Kind() == reflect.String:
		return sheet.String(v.String()), nil
	case kind == KindPrimitiveEnum && v.CanInt():
		return sheet.Number(float64(v.Int())), nil
	case kind == KindPrimitiveEnum:
		return sheet.Number(float64(v.Uint())), nil
	case kind.IsSigned():
		if n := v.Int(); n > maxExactInt || n < -maxExactInt {
			return sheet.String(strconv.FormatInt(n, 10)), nil
		}

		return sheet.Number(float64(v.Int())).WithFormat(excelFormat), nil
	case kind.IsUnsigned():
		if n := v.Uint(); n > maxExactInt {
			return sheet.String(strconv.FormatUint(n, 10)), nil
		}

		return sheet.Number(float64(v.Uint())).WithFormat(excelFormat), nil
	case kind.IsFloat():
		return sheet.Number(v.Float()).WithFormat(excelFormat), nil
	case kind == KindBool:
		return sheet.Bool(v.Bool()), nil
	case kind == KindString:
		return sheet.String(v.String()), nil
	default:
		return sheet.Blank, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}
}
