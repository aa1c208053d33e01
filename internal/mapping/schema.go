package mapping

import (
	"strconv"

	"sheet-mapper/column"
)

// File represents the root of a mapping definition file.
type File struct {
	// Version of the mapping schema.
	Version string `toml:"version,omitempty" yaml:"version,omitempty"`

	// Options override the mapper configuration.
	Options *Options `toml:"options,omitempty" yaml:"options,omitempty"`

	// Formats maps a Go type name (e.g. "time.Time", "float64") to the
	// default cell format used for it.
	Formats map[string]string `toml:"formats,omitempty" yaml:"formats,omitempty"`

	// Types lists the per-type column mappings.
	Types []TypeMapping `toml:"types" yaml:"types"`
}

// Options mirror the mapper configuration; nil fields keep the current value.
type Options struct {
	HasHeader     *bool         `toml:"has_header,omitempty"      yaml:"has_header,omitempty"`
	HeaderRow     *int          `toml:"header_row,omitempty"      yaml:"header_row,omitempty"`
	SkipBlankRows *bool         `toml:"skip_blank_rows,omitempty" yaml:"skip_blank_rows,omitempty"`
	IgnoreErrors  *bool         `toml:"ignore_errors,omitempty"   yaml:"ignore_errors,omitempty"`
	Conversions   StringOrArray `toml:"conversions,omitempty"     yaml:"conversions,omitempty"`
}

// TypeMapping declares the columns of one record type.
type TypeMapping struct {
	// Name identifies the record type: its Go name (e.g. "Order" or
	// "orders.Order") or the name of a dynamic sample.
	Name string `toml:"name" yaml:"name"`

	// Ignore lists properties that should not be mapped.
	Ignore StringOrArray `toml:"ignore,omitempty" yaml:"ignore,omitempty"`

	// Columns defines explicit property-to-column mappings.
	Columns []ColumnMapping `toml:"columns,omitempty" yaml:"columns,omitempty"`
}

// ColumnMapping binds one property to a column.
type ColumnMapping struct {
	// Property is the Go field name, or the slot key of a dynamic record.
	Property string `toml:"property" yaml:"property"`

	// Column is the header text or zero-based index; unset keeps the
	// position declared elsewhere.
	Column ColumnKey `toml:"column" yaml:"column,omitempty"`

	// Format is an Excel number/date format or a Go time layout.
	Format string `toml:"format,omitempty" yaml:"format,omitempty"`

	Ignore       bool  `toml:"ignore,omitempty"         yaml:"ignore,omitempty"`
	IgnoreErrors *bool `toml:"ignore_errors,omitempty"  yaml:"ignore_errors,omitempty"`
	LastNonBlank *bool `toml:"last_non_blank,omitempty" yaml:"last_non_blank,omitempty"`

	// Overwrite defaults to true, like a call to the Go API.
	Overwrite *bool `toml:"overwrite,omitempty" yaml:"overwrite,omitempty"`
}

// Attribute converts the mapping into a column descriptor without a bound
// property.
func (c *ColumnMapping) Attribute() column.Attribute {
	attr := c.Column.Attribute()
	attr.PropertyName = c.Property
	attr.CustomFormat = c.Format

	if c.Ignore {
		attr.Ignored = column.True
	}

	if c.IgnoreErrors != nil {
		attr.IgnoreErrors = column.TristateOf(*c.IgnoreErrors)
	}

	if c.LastNonBlank != nil {
		attr.UseLastNonBlankValue = column.TristateOf(*c.LastNonBlank)
	}

	return attr
}

// ShouldOverwrite reports the overwrite flag, true when unset.
func (c *ColumnMapping) ShouldOverwrite() bool {
	return c.Overwrite == nil || *c.Overwrite
}

// StringOrArray represents a value that can be either a single string or an array of strings.
type StringOrArray []string

type keyKind int

const (
	keyNone keyKind = iota
	keyIndex
	keyName
)

// ColumnKey is a column position written either as a zero-based index or as
// header text.
type ColumnKey struct {
	kind  keyKind
	index int
	name  string
}

// IndexKey returns a key addressing the column at index.
func IndexKey(index int) ColumnKey {
	return ColumnKey{kind: keyIndex, index: index}
}

// NameKey returns a key addressing the column whose header is name. An empty
// name yields the zero key.
func NameKey(name string) ColumnKey {
	if name == "" {
		return ColumnKey{}
	}

	return ColumnKey{kind: keyName, name: name}
}

// Index returns the column index, if the key is one.
func (k ColumnKey) Index() (int, bool) {
	return k.index, k.kind == keyIndex
}

// Name returns the header text, if the key is one.
func (k ColumnKey) Name() (string, bool) {
	return k.name, k.kind == keyName
}

// IsZero reports whether the key is unset.
func (k ColumnKey) IsZero() bool {
	return k.kind == keyNone
}

// Attribute returns a descriptor positioned by the key.
func (k ColumnKey) Attribute() column.Attribute {
	switch k.kind {
	case keyIndex:
		return column.NewIndex(k.index)
	case keyName:
		return column.NewName(k.name)
	default:
		return column.New()
	}
}

// String returns the index in decimal or the quoted header text.
func (k ColumnKey) String() string {
	switch k.kind {
	case keyIndex:
		return strconv.Itoa(k.index)
	case keyName:
		return strconv.Quote(k.name)
	default:
		return ""
	}
}
