package plan

import (
	"slices"

	"sheet-mapper/column"
	"sheet-mapper/internal/common"
	"sheet-mapper/internal/diagnostic"
	"sheet-mapper/internal/match"
	"sheet-mapper/sheet"
)

// Source indicates how a column entered the table.
type Source int

const (
	// SourceIndex - bound by the descriptor's explicit index.
	SourceIndex Source = iota
	// SourceName - bound by matching the descriptor's name against the header.
	SourceName
	// SourceFilter - an unmapped column accepted by the filter.
	SourceFilter
	// SourceDynamic - an unmapped column turned into a dynamic record slot.
	SourceDynamic
)

// String returns a human-readable source name.
func (s Source) String() string {
	switch s {
	case SourceIndex:
		return "index"
	case SourceName:
		return "name"
	case SourceFilter:
		return "filter"
	case SourceDynamic:
		return "dynamic"
	default:
		return common.UnknownStr
	}
}

// Column is one entry of the resolution table.
type Column struct {
	// Index is the physical zero-based column index.
	Index int
	// Header is the header cell, Blank when the sheet has no header row.
	Header sheet.Value
	// HeaderValue is the header as seen by resolvers; a filter may have
	// replaced it.
	HeaderValue any
	// Attribute is the descriptor bound to the column.
	Attribute column.Attribute
	// Source specifies how the column was bound.
	Source Source
	// Tier is the header match strength for SourceName columns.
	Tier match.Tier
	// Key is the slot name in a dynamic record.
	Key string
}

// Info returns a fresh column context for the given row.
func (c *Column) Info(row int) *column.Info {
	return &column.Info{
		HeaderValue: c.HeaderValue,
		Attribute:   c.Attribute,
		RowNumber:   row,
	}
}

// Table is the resolved list of columns in physical order.
type Table struct {
	// Columns sorted by Index.
	Columns []Column
	// Width is the number of header cells, 0 without a header row.
	Width int
	// Diagnostics contains all warnings from resolution.
	Diagnostics diagnostic.Diagnostics
}

// Column returns the table entry bound to the physical column index.
func (t *Table) Column(index int) (*Column, bool) {
	i, found := slices.BinarySearchFunc(t.Columns, index, func(c Column, index int) int {
		return c.Index - index
	})
	if !found {
		return nil, false
	}

	return &t.Columns[i], true
}

// Clone returns a copy whose columns can be modified without touching t.
func (t *Table) Clone() *Table {
	return &Table{
		Columns: slices.Clone(t.Columns),
		Width:   t.Width,
		Diagnostics: diagnostic.Diagnostics{
			Errors:   slices.Clone(t.Diagnostics.Errors),
			Warnings: slices.Clone(t.Diagnostics.Warnings),
			Infos:    slices.Clone(t.Diagnostics.Infos),
		},
	}
}

// Warnings returns the formatted warning diagnostics.
func (t *Table) Warnings() []string {
	return common.Map(t.Diagnostics.Warnings, diagnostic.Diagnostic.String)
}
