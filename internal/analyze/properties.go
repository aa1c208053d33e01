package analyze

import (
	"fmt"
	"reflect"
	"time"

	"sheet-mapper/column"
	"sheet-mapper/internal/diagnostic"
)

// StructType returns the struct type behind t, dereferencing one pointer.
func StructType(t reflect.Type) (reflect.Type, error) {
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %v", column.ErrNotStruct, t)
	}

	return t, nil
}

// Properties lists the exported fields of a struct type in declaration
// order. Fields promoted from embedded structs follow the embedding field;
// the embedding field itself is not a property unless it is time.Time.
func Properties(t reflect.Type) ([]*column.Property, error) {
	st, err := StructType(t)
	if err != nil {
		return nil, err
	}

	var props []*column.Property

	for _, f := range reflect.VisibleFields(st) {
		if !f.IsExported() {
			continue
		}

		if f.Anonymous && isEmbeddedStruct(f.Type) {
			continue
		}

		props = append(props, &column.Property{
			Name:  f.Name,
			Index: f.Index,
			Type:  f.Type,
			Tag:   f.Tag,
		})
	}

	return props, nil
}

func isEmbeddedStruct(t reflect.Type) bool {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t.Kind() == reflect.Struct && t != reflect.TypeOf(time.Time{})
}

// PropertyByName finds a property by its Go field name.
func PropertyByName(props []*column.Property, name string) (*column.Property, bool) {
	for _, p := range props {
		if p.Name == name {
			return p, true
		}
	}

	return nil, false
}

// Markers parses the static `column` tag of every property into an
// attribute bound to it. Properties without a tag are skipped; malformed
// tags are reported and skipped.
func Markers(typeName string, props []*column.Property) ([]column.Attribute, *diagnostic.Diagnostics) {
	diags := &diagnostic.Diagnostics{}

	var attrs []column.Attribute

	for _, p := range props {
		tag, ok := p.Tag.Lookup(column.TagKey)
		if !ok {
			continue
		}

		attr, err := column.ParseTag(tag)
		if err != nil {
			diags.AddError(diagnostic.CodeInvalidMarker, err.Error(), typeName, p.Name)
			continue
		}

		attrs = append(attrs, attr.WithProperty(p))
	}

	return attrs, diags
}
