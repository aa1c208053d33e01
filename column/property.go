package column

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrNotStruct       = errors.New("target is not a struct")
	ErrNotAssignable   = errors.New("value is not assignable to property")
	ErrPropertyMissing = errors.New("property not reachable")
)

// Property is a handle to one exported field of a struct type. Promoted
// fields of embedded structs are addressed through their full index path.
type Property struct {
	// Name is the Go field name.
	Name string
	// Index is the field index path as accepted by reflect.Value.FieldByIndex.
	Index []int
	// Type is the declared field type.
	Type reflect.Type
	// Tag is the raw struct tag of the field.
	Tag reflect.StructTag
}

// Nullable reports whether the property is a pointer, i.e. may hold no value.
func (p *Property) Nullable() bool {
	return p.Type.Kind() == reflect.Pointer
}

// Underlying returns the element type for nullable properties and the
// declared type otherwise.
func (p *Property) Underlying() reflect.Type {
	if p.Nullable() {
		return p.Type.Elem()
	}

	return p.Type
}

// Get reads the property from target, which must be a struct or a pointer to
// one. The second result is false when a nil embedded pointer hides the field.
func (p *Property) Get(target reflect.Value) (reflect.Value, bool) {
	v, err := p.field(target, false)
	if err != nil {
		return reflect.Value{}, false
	}

	return v, true
}

// Set assigns x to the property on target. Target must be addressable (a
// pointer to a struct); nil embedded pointers on the path are allocated.
func (p *Property) Set(target, x reflect.Value) error {
	f, err := p.field(target, true)
	if err != nil {
		return err
	}

	if !f.CanSet() {
		return fmt.Errorf("%w: %s is not settable", ErrPropertyMissing, p.Name)
	}

	if !x.IsValid() {
		f.SetZero()
		return nil
	}

	if !x.Type().AssignableTo(f.Type()) {
		return fmt.Errorf("%w: %s to %s (%s)", ErrNotAssignable, x.Type(), p.Name, f.Type())
	}

	f.Set(x)

	return nil
}

func (p *Property) field(target reflect.Value, alloc bool) (reflect.Value, error) {
	v := reflect.Indirect(target)
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrNotStruct, v.Kind())
	}

	for i, x := range p.Index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !alloc || !v.CanSet() {
					return reflect.Value{}, fmt.Errorf("%w: %s", ErrPropertyMissing, p.Name)
				}

				v.Set(reflect.New(v.Type().Elem()))
			}

			v = v.Elem()
		}

		v = v.Field(x)
	}

	return v, nil
}
