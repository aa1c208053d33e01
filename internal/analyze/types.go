package analyze

import (
	"go/types"
	"reflect"

	"sheet-mapper/column"
	"sheet-mapper/internal/common"
)

// TypeID identifies a named type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "sheet-mapper/examples/orders"
	Name    string // e.g., "Order"
}

// String returns the fully qualified name.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Short returns the package alias and name, e.g. "orders.Order".
func (t TypeID) Short() string {
	return common.QualifiedName(t.PkgPath, t.Name)
}

// TypeKind tells how a loaded type lands in a sheet.
type TypeKind int

const (
	KindOther   TypeKind = iota // maps, interfaces, channels, funcs
	KindValue                   // basic types and named types over them
	KindOpaque                  // structs from packages outside the load, e.g. time.Time
	KindStruct                  // structs declared in the loaded packages
	KindPointer                 // pointer to Elem
	KindSlice                   // slice or array of Elem
)

func (k TypeKind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindOpaque:
		return "opaque"
	case KindStruct:
		return "struct"
	case KindPointer:
		return "pointer"
	case KindSlice:
		return "slice"
	default:
		return common.UnknownStr
	}
}

// TypeInfo describes a loaded type.
type TypeInfo struct {
	ID     TypeID      // empty for unnamed types such as *T or []T
	Kind   TypeKind
	Elem   *TypeInfo   // for pointers and slices
	Fields []FieldInfo // exported fields of structs
	GoType types.Type
}

// IsCell reports whether a value of the type fits in one cell: values,
// opaque structs and pointers to either.
func (t *TypeInfo) IsCell() bool {
	switch t.Kind {
	case KindValue, KindOpaque:
		return true
	case KindPointer:
		return t.Elem != nil && t.Elem.IsCell()
	default:
		return false
	}
}

// FieldInfo describes an exported struct field.
type FieldInfo struct {
	Name     string
	Type     *TypeInfo
	Tag      reflect.StructTag
	Embedded bool
	Index    []int // field index path, promoted fields included
}

// Marker parses the field's `column` tag. The second result is false when
// the field has no tag.
func (f *FieldInfo) Marker() (column.Attribute, bool, error) {
	tag, ok := f.Tag.Lookup(column.TagKey)
	if !ok {
		return column.New(), false, nil
	}

	attr, err := column.ParseTag(tag)

	return attr, true, err
}
