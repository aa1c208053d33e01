// Package column describes how one property of a record type maps to one
// column of a sheet, and merges several partial descriptions of the same
// property into one authoritative descriptor.
//
// # Sources of mapping intent
//
// A property can be described by:
//   - a static struct tag, e.g. `column:"Amount,format=0.00"`
//   - a runtime registration (mapper.Map or a mapping file)
//   - the implicit default (the field name is the header name)
//
// Each source yields an [Attribute]. Attributes are merged into a [Set] keyed
// by property, with per-field overwrite semantics (see [Attribute.MergeFrom]).
// A column index can be owned by at most one property at a time; a merge that
// claims an index clears it from every other descriptor (see [Set.Merge]).
//
// # Tag syntax
//
//	column:"<name>[,index=N][,ignore][,ignoreerrors][,lastnonblank][,property=P][,format=F]"
//	column:"-"
//
// The format option consumes the remainder of the tag so that number formats
// containing commas ("#,##0.00") can be written verbatim.
package column
