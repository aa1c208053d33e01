package mapper

import (
	"go.uber.org/zap"

	"sheet-mapper/options"
)

// Config holds configuration for taking and putting rows.
type Config struct {
	// HasHeader is false when the sheet has no header row; only columns
	// registered by index are mapped then.
	HasHeader bool
	// HeaderRow is the zero-based row holding the header. Without a header
	// it is the first data row.
	HeaderRow int
	// SkipBlankRows skips rows whose mapped cells are all blank.
	SkipBlankRows bool
	// IgnoreErrors swallows every column-level failure.
	IgnoreErrors bool
	// Conversions enables the lenient conversions of the default converter.
	Conversions options.CategoryEnum
	// Logger receives call tracing and resolution warnings.
	Logger *zap.Logger
}

// DefaultConfig returns the default mapper configuration.
func DefaultConfig() Config {
	return Config{
		HasHeader:     true,
		HeaderRow:     0,
		SkipBlankRows: false,
		IgnoreErrors:  false,
		Conversions:   options.CategoryAll,
		Logger:        zap.NewNop(),
	}
}

func (c Config) firstDataRow() int {
	if c.HasHeader {
		return c.HeaderRow + 1
	}

	return c.HeaderRow
}
