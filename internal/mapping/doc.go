// Package mapping provides the schema, parsing and validation of declarative
// column mapping files. A mapping file registers the same column descriptors
// the Go API does, so a sheet layout can change without recompiling.
//
// YAML and TOML are both accepted; the format follows the file extension.
//
// # Schema Overview
//
//	version: "1"
//	options:
//	  has_header: true
//	  header_row: 0
//	  skip_blank_rows: true
//	  ignore_errors: false
//	  conversions: [safe_number, text_number, serial_date]
//	formats:
//	  time.Time: yyyy-mm-dd      # default format per Go type
//	types:
//	  - name: Order              # record type name (or dynamic sample name)
//	    ignore: [Internal]
//	    columns:
//	      - property: Customer
//	        column: Client       # header text ...
//	      - property: Notes
//	        column: 6            # ... or zero-based index
//	        format: "@"
//	        last_non_blank: true
//	        ignore_errors: true
//	        overwrite: false
//
// # Priority Order
//
// Columns declared in a mapping file are registrations: they take precedence
// over `column` struct tags, which take precedence over the field name. Within
// a file, later entries for the same property override earlier ones unless
// they set overwrite: false.
package mapping
