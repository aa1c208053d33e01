package mapper

import (
	"fmt"

	"sheet-mapper/sheet"
)

// NoColumn is the ErrorColumnIndex of rows without a column error, and of
// rows whose record could not be constructed.
const NoColumn = -1

// ColumnError is a failure confined to one cell.
type ColumnError struct {
	// Column is the physical column index.
	Column int
	// Key names the property or dynamic slot.
	Key string
	Err error
}

func (e ColumnError) Error() string {
	if e.Column == NoColumn {
		return e.Err.Error()
	}

	if e.Key == "" {
		return fmt.Sprintf("column %s: %v", sheet.ColumnName(e.Column), e.Err)
	}

	return fmt.Sprintf("column %s (%s): %v", sheet.ColumnName(e.Column), e.Key, e.Err)
}

func (e ColumnError) Unwrap() error {
	return e.Err
}

// RowInfo is the result of taking or putting one row.
type RowInfo[T any] struct {
	// RowNumber is the zero-based physical row.
	RowNumber int
	// Value is the record; the zero value when it could not be constructed.
	Value T
	// ErrorColumnIndex is the column of the first error, or NoColumn.
	ErrorColumnIndex int
	// ErrorMessage describes the first error.
	ErrorMessage string
	// Errors lists every unignored error of the row in column order.
	Errors []ColumnError
}

// HasError reports whether the row recorded an error.
func (r RowInfo[T]) HasError() bool {
	return r.ErrorMessage != ""
}

type rowErrors struct {
	list []ColumnError
}

func (e *rowErrors) add(col int, key string, err error) {
	e.list = append(e.list, ColumnError{Column: col, Key: key, Err: err})
}

func fill[T any](info *RowInfo[T], errs rowErrors) {
	info.ErrorColumnIndex = NoColumn
	info.Errors = errs.list

	if len(errs.list) > 0 {
		info.ErrorColumnIndex = errs.list[0].Column
		info.ErrorMessage = errs.list[0].Err.Error()
	}
}
