package mapping

import (
	"sheet-mapper/internal/analyze"
)

// Scaffold builds a type mapping listing every exported single-cell field
// of a loaded struct, promoted fields included. Positions and options come from the
// `column` tag; untagged fields are mapped by their name.
func Scaffold(info *analyze.TypeInfo) (TypeMapping, error) {
	tm := TypeMapping{Name: info.ID.Short()}

	for _, f := range analyze.Flatten(info) {
		attr, tagged, err := f.Marker()
		if err != nil {
			return tm, err
		}

		if attr.Ignored.IsTrue() {
			tm.Ignore = append(tm.Ignore, f.Name)
			continue
		}

		// collections are filled by column filters, which files cannot express
		if f.Type != nil && !f.Type.IsCell() {
			continue
		}

		cm := ColumnMapping{
			Property: f.Name,
			Column:   NameKey(f.Name),
			Format:   attr.CustomFormat,
		}

		if tagged {
			switch {
			case attr.Index >= 0:
				cm.Column = IndexKey(attr.Index)
			case attr.Name != "":
				cm.Column = NameKey(attr.Name)
			}

			if attr.IgnoreErrors.IsSet() {
				v := attr.IgnoreErrors.IsTrue()
				cm.IgnoreErrors = &v
			}

			if attr.UseLastNonBlankValue.IsSet() {
				v := attr.UseLastNonBlankValue.IsTrue()
				cm.LastNonBlank = &v
			}
		}

		tm.Columns = append(tm.Columns, cm)
	}

	return tm, nil
}

// NewFile returns an empty mapping file of the current version.
func NewFile(types ...TypeMapping) *File {
	return &File{Version: CurrentVersion, Types: types}
}
