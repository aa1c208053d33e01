// Package mapper maps spreadsheet rows to Go records and back.
//
// A Mapper wraps a workbook. Record types are plain structs (or pointers to
// them) whose exported fields become properties, or maps with string keys for
// dynamic records. Columns are bound to properties from three sources, in
// decreasing priority:
//  1. Registrations made with Map, Ignore, MapDynamic or a mapping file
//  2. `column` struct tags
//  3. The field name, matched against the header text
//
// Take projects the rows of a sheet lazily into records; Put writes records
// back. Conversion failures never abort a call: they are reported per row in
// RowInfo, while a missing sheet or header is returned as an error.
//
// A Mapper is not safe for concurrent use.
package mapper
