package analyze

import (
	"errors"
	"fmt"
	"go/types"
	"reflect"

	"golang.org/x/tools/go/packages"
)

const loadMode = packages.NeedName | packages.NeedTypes | packages.NeedImports

// LoadStruct loads the packages matching pattern and returns the exported
// struct typeName declared in one of them. Structs from other packages stay
// opaque, since they convert to a single cell the way time.Time does.
func LoadStruct(pattern, typeName string) (*TypeInfo, error) {
	pkgs, err := packages.Load(&packages.Config{Mode: loadMode}, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs []error

	loaded := make(map[string]bool, len(pkgs))

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}

		loaded[pkg.PkgPath] = true
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %w", errors.Join(errs...))
	}

	l := &loader{loaded: loaded, seen: make(map[types.Type]*TypeInfo)}

	for _, pkg := range pkgs {
		obj, ok := pkg.Types.Scope().Lookup(typeName).(*types.TypeName)
		if !ok || !obj.Exported() {
			continue
		}

		info := l.typeOf(obj.Type())
		if info.Kind != KindStruct {
			return nil, fmt.Errorf("type %s is not a struct (kind: %s)", info.ID, info.Kind)
		}

		return info, nil
	}

	return nil, fmt.Errorf("type %s not found in %s", typeName, pattern)
}

type loader struct {
	loaded map[string]bool
	seen   map[types.Type]*TypeInfo // recursive types resolve to the same node
}

func (l *loader) typeOf(t types.Type) *TypeInfo {
	t = types.Unalias(t)

	if info, ok := l.seen[t]; ok {
		return info
	}

	info := &TypeInfo{GoType: t}
	l.seen[t] = info

	switch tt := t.(type) {
	case *types.Named:
		l.named(tt, info)
	case *types.Basic:
		info.Kind = KindValue
	case *types.Pointer:
		info.Kind = KindPointer
		info.Elem = l.typeOf(tt.Elem())
	case *types.Slice:
		info.Kind = KindSlice
		info.Elem = l.typeOf(tt.Elem())
	case *types.Array:
		info.Kind = KindSlice
		info.Elem = l.typeOf(tt.Elem())
	case *types.Struct:
		info.Kind = KindStruct
		l.fields(tt, info)
	default:
		info.Kind = KindOther
	}

	return info
}

func (l *loader) named(named *types.Named, info *TypeInfo) {
	obj := named.Obj()
	if obj.Pkg() != nil {
		info.ID = TypeID{PkgPath: obj.Pkg().Path(), Name: obj.Name()}
	} else {
		info.ID = TypeID{Name: obj.Name()}
	}

	switch ut := named.Underlying().(type) {
	case *types.Struct:
		if !l.loaded[info.ID.PkgPath] {
			info.Kind = KindOpaque
			return
		}

		info.Kind = KindStruct
		l.fields(ut, info)
	default:
		// Status int, Tags []string and the like take the shape of what
		// they wrap
		under := l.typeOf(ut)
		info.Kind = under.Kind
		info.Elem = under.Elem
	}
}

func (l *loader) fields(st *types.Struct, info *TypeInfo) {
	for i := range st.NumFields() {
		field := st.Field(i)
		if !field.Exported() {
			continue
		}

		info.Fields = append(info.Fields, FieldInfo{
			Name:     field.Name(),
			Type:     l.typeOf(field.Type()),
			Tag:      reflect.StructTag(st.Tag(i)),
			Embedded: field.Embedded(),
			Index:    []int{i},
		})
	}
}

// Flatten returns the exported fields of a struct with embedded struct
// fields replaced by their promoted fields. Index paths are extended so
// they address the promoted field from the outer struct.
func Flatten(info *TypeInfo) []FieldInfo {
	return flatten(info, nil, map[*TypeInfo]bool{})
}

func flatten(info *TypeInfo, prefix []int, seen map[*TypeInfo]bool) []FieldInfo {
	if info == nil || seen[info] {
		return nil
	}

	seen[info] = true
	defer delete(seen, info)

	var out []FieldInfo

	for _, f := range info.Fields {
		index := append(append([]int(nil), prefix...), f.Index...)

		if f.Embedded {
			inner := f.Type
			if inner != nil && inner.Kind == KindPointer {
				inner = inner.Elem
			}

			if inner != nil && inner.Kind == KindStruct {
				out = append(out, flatten(inner, index, seen)...)
				continue
			}
		}

		f.Index = index
		out = append(out, f)
	}

	return out
}
