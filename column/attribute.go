package column

import (
	"fmt"
	"strings"
)

// NoIndex marks an Attribute whose column index is not bound.
const NoIndex = -1

// Attribute describes one property-to-column mapping candidate. Any field may
// be unset; unset fields are filled by lower-priority sources during merge.
type Attribute struct {
	// Index is the zero-based column index, or NoIndex.
	Index int
	// Name is the header text of the column, or "" when unbound.
	Name string
	// PropertyName overrides the slot key of a dynamic record.
	PropertyName string
	// Property is the bound property, nil for dynamic and filtered columns.
	Property *Property
	// Ignored excludes the property (or column) from mapping.
	Ignored Tristate
	// IgnoreErrors swallows conversion and resolver failures of the column.
	IgnoreErrors Tristate
	// UseLastNonBlankValue lets a blank cell inherit the last non-blank value
	// above it in the same column, which is how merged cells read back.
	UseLastNonBlankValue Tristate
	// CustomFormat is an Excel number/date format or a Go time layout.
	CustomFormat string
	// TryTake overrides the default conversion when taking.
	TryTake TakeFunc
	// TryPut overrides the default formatting when putting.
	TryPut PutFunc
}

// New returns an Attribute with no position.
func New() Attribute {
	return Attribute{Index: NoIndex}
}

// NewIndex returns an Attribute bound to the column at index.
func NewIndex(index int) Attribute {
	return Attribute{Index: index}
}

// NewName returns an Attribute bound to the column whose header is name.
func NewName(name string) Attribute {
	return Attribute{Index: NoIndex, Name: name}
}

// HasPosition reports whether the attribute names a column by index or header.
func (a Attribute) HasPosition() bool {
	return a.Index >= 0 || a.Name != ""
}

// Key identifies the attribute inside a Set: the bound property name, or the
// dynamic PropertyName when no property is bound.
func (a Attribute) Key() string {
	if a.Property != nil {
		return a.Property.Name
	}

	return a.PropertyName
}

// WithIndex returns a copy of a bound to index.
func (a Attribute) WithIndex(index int) Attribute {
	a.Index = index
	return a
}

// WithProperty returns a copy of a bound to p.
func (a Attribute) WithProperty(p *Property) Attribute {
	a.Property = p
	return a
}

// MergeFrom returns a copy of a with fields taken from src. Index and Name
// form one positional key: it is taken when src has a position and either
// overwrite is set or a has none. Every other field is taken when src sets it
// and either overwrite is set or a leaves it unset.
func (a Attribute) MergeFrom(src Attribute, overwrite bool) Attribute {
	if src.HasPosition() && (overwrite || !a.HasPosition()) {
		a.Index = src.Index
		a.Name = src.Name
	}

	if src.Property != nil && (overwrite || a.Property == nil) {
		a.Property = src.Property
	}

	if src.PropertyName != "" && (overwrite || a.PropertyName == "") {
		a.PropertyName = src.PropertyName
	}

	if src.UseLastNonBlankValue.IsSet() && (overwrite || !a.UseLastNonBlankValue.IsSet()) {
		a.UseLastNonBlankValue = src.UseLastNonBlankValue
	}

	if src.Ignored.IsSet() && (overwrite || !a.Ignored.IsSet()) {
		a.Ignored = src.Ignored
	}

	if src.CustomFormat != "" && (overwrite || a.CustomFormat == "") {
		a.CustomFormat = src.CustomFormat
	}

	if src.IgnoreErrors.IsSet() && (overwrite || !a.IgnoreErrors.IsSet()) {
		a.IgnoreErrors = src.IgnoreErrors
	}

	if src.TryTake != nil && (overwrite || a.TryTake == nil) {
		a.TryTake = src.TryTake
	}

	if src.TryPut != nil && (overwrite || a.TryPut == nil) {
		a.TryPut = src.TryPut
	}

	return a
}

// Header returns the text to write in a synthesized header row.
func (a Attribute) Header() string {
	switch {
	case a.Name != "":
		return a.Name
	case a.PropertyName != "":
		return a.PropertyName
	case a.Property != nil:
		return a.Property.Name
	default:
		return ""
	}
}

// String returns a compact description used in diagnostics.
func (a Attribute) String() string {
	var parts []string

	if k := a.Key(); k != "" {
		parts = append(parts, k)
	}

	if a.Index >= 0 {
		parts = append(parts, fmt.Sprintf("index=%d", a.Index))
	}

	if a.Name != "" {
		parts = append(parts, fmt.Sprintf("name=%q", a.Name))
	}

	if a.Ignored.IsTrue() {
		parts = append(parts, "ignored")
	}

	return "{" + strings.Join(parts, " ") + "}"
}
