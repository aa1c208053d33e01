package mapper

import (
	"reflect"

	"sheet-mapper/internal/diagnostic"
	"sheet-mapper/internal/match"
	"sheet-mapper/sheet"
)

// ResolvedColumn describes one column a Take of the record type would read.
type ResolvedColumn struct {
	// Index is the physical zero-based column index.
	Index int `json:"index" yaml:"index"`
	// Letter is the spreadsheet column name, e.g. "C".
	Letter string `json:"letter" yaml:"letter"`
	// Header is the header cell text, empty without a header row.
	Header string `json:"header,omitempty" yaml:"header,omitempty"`
	// Key is the property name or dynamic slot.
	Key string `json:"key,omitempty" yaml:"key,omitempty"`
	// Source is how the column was bound: index, name, filter or dynamic.
	Source string `json:"source" yaml:"source"`
	// Match is the header match tier of columns bound by name.
	Match string `json:"match,omitempty" yaml:"match,omitempty"`
	// Format is the effective cell format.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// Resolution is the outcome of resolving a record type against a sheet.
type Resolution struct {
	Type        string                  `json:"type"    yaml:"type"`
	Sheet       string                  `json:"sheet"   yaml:"sheet"`
	Columns     []ResolvedColumn        `json:"columns" yaml:"columns"`
	Diagnostics []diagnostic.Diagnostic `json:"-"       yaml:"-"`
}

// Warnings returns the formatted warnings of the resolution.
func (r *Resolution) Warnings() []string {
	var out []string

	for _, d := range r.Diagnostics {
		if d.Severity == diagnostic.DiagnosticWarning {
			out = append(out, d.String())
		}
	}

	return out
}

// Resolve reports how Take would bind the columns of the sheet at
// sheetIndex for record type T, without reading any data row.
func Resolve[T any](m *Mapper, sheetIndex int) (*Resolution, error) {
	p, err := m.prepareTake(reflect.TypeFor[T](), sheetIndex)
	if err != nil {
		return nil, err
	}

	res := &Resolution{
		Type:        p.r.name,
		Sheet:       p.sh.Name(),
		Diagnostics: p.table.Diagnostics.All(),
	}

	for _, c := range p.table.Columns {
		rc := ResolvedColumn{
			Index:  c.Index,
			Letter: sheet.ColumnName(c.Index),
			Header: c.Header.Text(),
			Key:    c.Key,
			Source: c.Source.String(),
			Format: m.columnFormat(c.Attribute),
		}

		if rc.Key == "" {
			rc.Key = c.Attribute.Key()
		}

		if c.Tier != match.TierNone {
			rc.Match = c.Tier.String()
		}

		res.Columns = append(res.Columns, rc)
	}

	return res, nil
}
