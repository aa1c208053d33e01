package mapper

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"sheet-mapper/column"
	"sheet-mapper/internal/analyze"
	"sheet-mapper/internal/common"
	"sheet-mapper/internal/diagnostic"
	"sheet-mapper/primitive"
)

type registration struct {
	attr      column.Attribute
	overwrite bool
}

// record describes one record type known to the mapper.
type record struct {
	// rtype is the type argument of Take and Put.
	rtype reflect.Type
	// st is the struct type behind rtype, nil for dynamic records.
	st      reflect.Type
	name    string
	dynamic bool
	props   []*column.Property
	markers []column.Attribute
	diags   diagnostic.Diagnostics

	registrations []registration
	factory       func() (any, error)

	// set caches the authoritative set until the next registration.
	set *column.Set
}

func isDynamicType(t reflect.Type) bool {
	return t.Kind() == reflect.Map &&
		t.Key().Kind() == reflect.String &&
		t.Elem().Kind() == reflect.Interface &&
		t.Elem().NumMethod() == 0
}

func newRecord(t reflect.Type) (*record, error) {
	if isDynamicType(t) {
		return &record{rtype: t, name: t.String(), dynamic: true}, nil
	}

	st, err := analyze.StructType(t)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}

	props, err := analyze.Properties(st)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}

	r := &record{
		rtype: t,
		st:    st,
		name:  common.QualifiedName(st.PkgPath(), st.Name()),
		props: props,
	}

	markers, diags := analyze.Markers(r.name, props)
	r.markers = markers
	r.diags = *diags

	return r, nil
}

func (r *record) property(name string) (*column.Property, bool) {
	return analyze.PropertyByName(r.props, name)
}

func (r *record) propertyNames() []string {
	return common.Map(r.props, func(p *column.Property) string { return p.Name })
}

func (r *record) register(attr column.Attribute, overwrite bool) {
	r.registrations = append(r.registrations, registration{attr: attr, overwrite: overwrite})
	r.set = nil
}

// authoritative merges registrations, then struct tags, then field names.
func (r *record) authoritative(log *zap.Logger) *column.Set {
	if r.set != nil {
		return r.set
	}

	set := column.NewSet()
	merge := func(attr column.Attribute, overwrite bool) {
		cleared, err := set.Merge(attr, overwrite)
		if err != nil {
			log.Warn("column registration skipped", zap.String("type", r.name), zap.Error(err))
			return
		}

		for _, key := range cleared {
			log.Debug("column index reassigned",
				zap.String("type", r.name),
				zap.String("from", key),
				zap.String("to", attr.Key()),
				zap.Int("index", attr.Index))
		}
	}

	for _, reg := range r.registrations {
		merge(reg.attr, reg.overwrite)
	}

	for _, attr := range r.markers {
		merge(attr, false)
	}

	for _, p := range r.props {
		merge(column.NewName(p.Name).WithProperty(p), false)
	}

	r.set = set

	return set
}

// instance is a record under construction.
type instance struct {
	// holder is a pointer to the struct, or the map of a dynamic record.
	holder reflect.Value
}

// target is handed to custom resolvers.
func (in instance) target() any {
	return in.holder.Interface()
}

func (r *record) newInstance() (in instance, err error) {
	if r.factory == nil {
		if r.dynamic {
			return instance{holder: reflect.MakeMap(r.rtype)}, nil
		}

		return instance{holder: reflect.New(r.st)}, nil
	}

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: panic: %v", ErrFactory, p)
		}
	}()

	v, err := r.factory()
	if err != nil {
		return instance{}, fmt.Errorf("%w: %w", ErrFactory, err)
	}

	return r.wrap(reflect.ValueOf(v))
}

// wrap turns a value of rtype into an instance. Struct values are copied.
func (r *record) wrap(v reflect.Value) (instance, error) {
	switch {
	case r.dynamic:
		if !v.IsValid() || v.IsNil() {
			return instance{holder: reflect.MakeMap(r.rtype)}, nil
		}

		return instance{holder: v}, nil

	case r.rtype.Kind() == reflect.Pointer:
		if !v.IsValid() || v.IsNil() {
			return instance{}, fmt.Errorf("%w: nil %s", ErrNilRecord, r.rtype)
		}

		return instance{holder: v}, nil

	default:
		ptr := reflect.New(r.st)
		ptr.Elem().Set(v)

		return instance{holder: ptr}, nil
	}
}

// value returns the instance as rtype.
func (r *record) value(in instance) any {
	if !r.dynamic && r.rtype.Kind() != reflect.Pointer {
		return in.holder.Elem().Interface()
	}

	return in.holder.Interface()
}

// supported reports whether the default converter handles the attribute's
// property; custom resolvers make every column supported.
func supported(attr column.Attribute, dynamic bool) bool {
	if attr.TryTake != nil || attr.TryPut != nil || dynamic {
		return true
	}

	if attr.Property == nil {
		return false
	}

	return primitive.Supported(attr.Property.Type)
}
