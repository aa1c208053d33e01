package sheet

import (
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

var (
	ErrSheetNotFound = errors.New("sheet not found")
	ErrOutOfRange    = errors.New("cell position out of range")
)

// Workbook exposes sheets by zero-based index.
type Workbook interface {
	SheetCount() int
	Sheet(index int) (Sheet, error)
}

// Sheet exposes cells by zero-based row and column. Implementations are not
// safe for concurrent use.
type Sheet interface {
	Name() string
	// RowCount is one past the last physical row index.
	RowCount() int
	// Width is one past the last physical cell index in row, 0 for a missing row.
	Width(row int) int
	// Cell returns Blank for cells that do not exist.
	Cell(row, col int) (Value, error)
	SetCell(row, col int, v Value) error
}

// ColumnName returns the spreadsheet letters of a zero-based column index.
func ColumnName(col int) string {
	name, err := excelize.ColumnNumberToName(col + 1)
	if err != nil {
		return fmt.Sprintf("#%d", col)
	}

	return name
}

// ExcelDateToTime converts an Excel serial date (1900 date system) to a time.
func ExcelDateToTime(serial float64) (time.Time, error) {
	return excelize.ExcelDateToTime(serial, false)
}

// excelEpoch is day zero of the 1900 date system once the 1900 leap-year bug
// is accounted for.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// TimeToExcelDate converts t to an Excel serial date (1900 date system). The
// wall clock of t is used as is, matching how spreadsheets store dates.
func TimeToExcelDate(t time.Time) float64 {
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	serial := wall.Sub(excelEpoch).Hours() / 24

	// serials before 1900-03-01 are shifted by the fictitious 1900-02-29
	if serial < 61 {
		serial--
	}

	return serial
}
