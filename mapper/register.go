package mapper

import (
	"fmt"
	"reflect"
	"strings"

	"sheet-mapper/column"
	"sheet-mapper/internal/match"
)

// Option adjusts a registration made with Map or MapDynamic.
type Option func(*registration)

// Overwrite sets whether the registration overrides fields already set by
// earlier registrations of the same property. The default is true.
func Overwrite(overwrite bool) Option {
	return func(r *registration) { r.overwrite = overwrite }
}

// Format sets the custom number/date format of the column.
func Format(format string) Option {
	return func(r *registration) { r.attr.CustomFormat = format }
}

// TryTake sets a custom take resolver.
func TryTake(fn column.TakeFunc) Option {
	return func(r *registration) { r.attr.TryTake = fn }
}

// TryPut sets a custom put resolver.
func TryPut(fn column.PutFunc) Option {
	return func(r *registration) { r.attr.TryPut = fn }
}

// IgnoreErrors swallows the column's conversion and resolver failures.
func IgnoreErrors(ignore bool) Option {
	return func(r *registration) { r.attr.IgnoreErrors = column.TristateOf(ignore) }
}

// UseLastNonBlank lets blank cells inherit the last non-blank value above them.
func UseLastNonBlank(use bool) Option {
	return func(r *registration) { r.attr.UseLastNonBlankValue = column.TristateOf(use) }
}

// positioned builds an unbound attribute from an int index, a string header
// or nil (no position).
func positioned(key any) (column.Attribute, error) {
	switch k := key.(type) {
	case nil:
		return column.New(), nil
	case int:
		if k < 0 {
			return column.Attribute{}, fmt.Errorf("%w: negative index %d", ErrInvalidKey, k)
		}

		return column.NewIndex(k), nil
	case string:
		if strings.TrimSpace(k) == "" {
			return column.Attribute{}, fmt.Errorf("%w: blank header", ErrInvalidKey)
		}

		return column.NewName(k), nil
	default:
		return column.Attribute{}, fmt.Errorf("%w: %T", ErrInvalidKey, key)
	}
}

func newRegistration(attr column.Attribute, opts []Option) registration {
	reg := registration{attr: attr, overwrite: true}
	for _, opt := range opts {
		opt(&reg)
	}

	return reg
}

// Map binds property of record type T to the column identified by key: an
// int index, a string header, or nil to leave the position to struct tags
// and the field name. For dynamic record types property is the slot key.
func Map[T any](m *Mapper, key any, property string, opts ...Option) error {
	r, err := m.recordOf(reflect.TypeFor[T]())
	if err != nil {
		return err
	}

	attr, err := positioned(key)
	if err != nil {
		return err
	}

	return m.mapAttribute(r, attr, property, opts)
}

// MapDynamic binds the slot key of a dynamic map[string]any record to a
// column. An empty key uses the header text.
func MapDynamic(m *Mapper, key any, slot string, opts ...Option) error {
	return Map[map[string]any](m, key, slot, opts...)
}

func (m *Mapper) mapAttribute(r *record, attr column.Attribute, property string, opts []Option) error {
	if r.dynamic {
		if property == "" {
			property = attr.Name
		}

		if property == "" {
			return fmt.Errorf("%w: a dynamic column needs a slot key or a header", column.ErrNoKey)
		}

		attr.PropertyName = property
	} else {
		p, ok := r.property(property)
		if !ok {
			return unknownProperty(r, property)
		}

		attr = attr.WithProperty(p)
	}

	reg := newRegistration(attr, opts)
	r.register(reg.attr, reg.overwrite)
	m.invalidate()

	return nil
}

func unknownProperty(r *record, property string) error {
	err := fmt.Errorf("%w: %s has no property %q", ErrUnknownProperty, r.name, property)
	if s := match.Suggest(property, r.propertyNames(), match.DefaultSuggestions); len(s) > 0 {
		err = fmt.Errorf("%w (did you mean %s?)", err, strings.Join(s, ", "))
	}

	return err
}

// Ignore excludes properties of record type T from mapping.
func Ignore[T any](m *Mapper, properties ...string) error {
	r, err := m.recordOf(reflect.TypeFor[T]())
	if err != nil {
		return err
	}

	for _, name := range properties {
		attr := column.New()
		attr.Ignored = column.True

		if err := m.mapAttribute(r, attr, name, nil); err != nil {
			return err
		}
	}

	return nil
}

// UseFormat sets the default format for every property of type V (or *V)
// without a custom format.
func UseFormat[V any](m *Mapper, format string) {
	m.formats[reflect.TypeFor[V]()] = format
}

// UseFactory makes Take build records of type T with fn instead of the zero
// value. A failing factory fails the row only.
func UseFactory[T any](m *Mapper, fn func() (T, error)) error {
	r, err := m.recordOf(reflect.TypeFor[T]())
	if err != nil {
		return err
	}

	if fn == nil {
		r.factory = nil
		return nil
	}

	r.factory = func() (any, error) { return fn() }

	return nil
}
