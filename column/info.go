package column

// Info is the column context handed to filters and custom resolvers.
type Info struct {
	// HeaderValue is the typed header cell value (string, float64, bool,
	// time.Time or nil). A Filter may replace it; the replacement is kept for
	// the column and seen by every later resolver call.
	HeaderValue any
	// CurrentValue is the cell value being taken, or the value to be written
	// when putting. A PutFunc assigns it.
	CurrentValue any
	// Attribute is a copy of the descriptor bound to the column.
	Attribute Attribute
	// RowNumber is the zero-based physical row being processed, -1 for the header.
	RowNumber int
}

// TakeFunc populates target (a pointer to the record being built) from the
// column. Returning false reports a column-level failure.
type TakeFunc func(col *Info, target any) bool

// PutFunc computes col.CurrentValue from source (a pointer to the record
// being written). Returning false skips the cell and reports a column-level
// failure.
type PutFunc func(col *Info, source any) bool

// Filter decides whether an otherwise unmapped column takes part in mapping.
type Filter func(col *Info) bool
