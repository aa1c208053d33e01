// Package analyze enumerates the properties of record types.
//
// At run time it walks a reflect.Type and exposes each exported field,
// promoted fields of embedded structs included, as a column.Property along
// with its static `column` marker. For tooling it loads packages with
// golang.org/x/tools/go/packages and builds the same view from go/types,
// which is what mapping-file scaffolding works from.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: how a loaded type lands in a sheet (value, opaque, struct...)
//   - FieldInfo: field name, type, tag and embedding
package analyze
