package sheet

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Excel adapts an excelize workbook to Workbook.
type Excel struct {
	file   *excelize.File
	styles map[string]int // custom number format -> style id
}

// NewExcel wraps an open excelize file.
func NewExcel(f *excelize.File) *Excel {
	return &Excel{file: f, styles: make(map[string]int)}
}

// OpenExcel opens the workbook at path.
func OpenExcel(path string) (*Excel, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}

	return NewExcel(f), nil
}

// File returns the underlying excelize file.
func (e *Excel) File() *excelize.File {
	return e.file
}

// SheetCount implements Workbook.
func (e *Excel) SheetCount() int {
	return len(e.file.GetSheetList())
}

// Sheet implements Workbook.
func (e *Excel) Sheet(index int) (Sheet, error) {
	names := e.file.GetSheetList()
	if index < 0 || index >= len(names) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrSheetNotFound, index, len(names))
	}

	sh := &excelSheet{book: e, name: names[index]}
	if _, err := sh.snapshot(); err != nil {
		return nil, err
	}

	return sh, nil
}

// SaveAs writes the workbook to path.
func (e *Excel) SaveAs(path string) error {
	if err := e.file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}

	return nil
}

// Close releases the workbook.
func (e *Excel) Close() error {
	return e.file.Close()
}

func (e *Excel) formatStyle(format string) (int, error) {
	if id, ok := e.styles[format]; ok {
		return id, nil
	}

	id, err := e.file.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return 0, fmt.Errorf("failed to create style for format %q: %w", format, err)
	}

	e.styles[format] = id

	return id, nil
}

type excelSheet struct {
	book *Excel
	name string
	rows [][]string // GetRows snapshot, dropped on write
	err  error      // failure of the last snapshot
}

func (s *excelSheet) Name() string {
	return s.name
}

// snapshot reads the sheet once. A read failure is kept and returned by
// Cell; RowCount and Width then report an empty sheet.
func (s *excelSheet) snapshot() ([][]string, error) {
	if s.rows == nil && s.err == nil {
		rows, err := s.book.file.GetRows(s.name, excelize.Options{RawCellValue: true})
		if err != nil {
			s.err = fmt.Errorf("failed to read sheet %s: %w", s.name, err)
			return nil, s.err
		}

		s.rows = rows
	}

	return s.rows, s.err
}

func (s *excelSheet) RowCount() int {
	rows, _ := s.snapshot()
	return len(rows)
}

func (s *excelSheet) Width(row int) int {
	rows, _ := s.snapshot()
	if row < 0 || row >= len(rows) {
		return 0
	}

	return len(rows[row])
}

func (s *excelSheet) Cell(row, col int) (Value, error) {
	if _, err := s.snapshot(); err != nil {
		return Blank, err
	}

	f := s.book.file

	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return Blank, fmt.Errorf("%w: %w", ErrOutOfRange, err)
	}

	raw, err := f.GetCellValue(s.name, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return Blank, fmt.Errorf("failed to read %s!%s: %w", s.name, cell, err)
	}

	if raw == "" {
		return Blank, nil
	}

	typ, err := f.GetCellType(s.name, cell)
	if err != nil {
		return Blank, fmt.Errorf("failed to read type of %s!%s: %w", s.name, cell, err)
	}

	switch typ {
	case excelize.CellTypeBool:
		return Bool(raw == "1" || strings.EqualFold(raw, "true")), nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula, excelize.CellTypeError:
		return String(raw), nil
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			return Date(t), nil
		}

		return String(raw), nil
	}

	num, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return String(raw), nil
	}

	if s.isDateCell(cell) {
		if t, err := ExcelDateToTime(num); err == nil {
			return Date(t), nil
		}
	}

	return Number(num), nil
}

func (s *excelSheet) SetCell(row, col int, v Value) error {
	f := s.book.file

	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOutOfRange, err)
	}

	s.rows, s.err = nil, nil

	switch v.Kind {
	case KindString:
		err = f.SetCellStr(s.name, cell, v.Str)
	case KindNumber:
		err = f.SetCellFloat(s.name, cell, v.Num, -1, 64)
	case KindBool:
		err = f.SetCellBool(s.name, cell, v.Bool)
	case KindDate:
		err = f.SetCellValue(s.name, cell, v.Time)
	default:
		err = f.SetCellValue(s.name, cell, nil)
	}

	if err != nil {
		return fmt.Errorf("failed to write %s!%s: %w", s.name, cell, err)
	}

	if v.Format == "" {
		return nil
	}

	style, err := s.book.formatStyle(v.Format)
	if err != nil {
		return err
	}

	return f.SetCellStyle(s.name, cell, cell, style)
}

func (s *excelSheet) isDateCell(cell string) bool {
	idx, err := s.book.file.GetCellStyle(s.name, cell)
	if err != nil || idx == 0 {
		return false
	}

	style, err := s.book.file.GetStyle(idx)
	if err != nil || style == nil {
		return false
	}

	if style.CustomNumFmt != nil {
		return IsDateFormat(*style.CustomNumFmt)
	}

	return isBuiltinDateFormat(style.NumFmt)
}

func isBuiltinDateFormat(id int) bool {
	return (id >= 14 && id <= 22) || (id >= 27 && id <= 36) || (id >= 45 && id <= 47) || (id >= 50 && id <= 58)
}

// IsDateFormat reports whether an Excel number format renders dates or times.
// Quoted literals and bracketed sections are ignored.
func IsDateFormat(format string) bool {
	var (
		quoted  bool
		bracket bool
	)

	lower := strings.ToLower(format)
	if lower == "general" {
		return false
	}

	for i := 0; i < len(lower); i++ {
		c := lower[i]

		switch {
		case c == '"':
			quoted = !quoted
		case quoted:
		case c == '[':
			bracket = true
		case c == ']':
			bracket = false
		case bracket:
		case c == '\\':
			i++
		case strings.IndexByte("ydhms", c) >= 0:
			return true
		}
	}

	return false
}
