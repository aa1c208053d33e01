package sheet

import (
	"fmt"
)

// Memory is an in-process Workbook. The zero value has no sheets.
type Memory struct {
	sheets []*MemorySheet
}

// NewMemory creates a workbook with one empty sheet per name.
func NewMemory(names ...string) *Memory {
	m := &Memory{}
	for _, n := range names {
		m.AddSheet(n)
	}

	return m
}

// AddSheet appends an empty sheet and returns it.
func (m *Memory) AddSheet(name string) *MemorySheet {
	s := &MemorySheet{name: name}
	m.sheets = append(m.sheets, s)

	return s
}

// SheetCount implements Workbook.
func (m *Memory) SheetCount() int {
	return len(m.sheets)
}

// Sheet implements Workbook.
func (m *Memory) Sheet(index int) (Sheet, error) {
	if index < 0 || index >= len(m.sheets) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrSheetNotFound, index, len(m.sheets))
	}

	return m.sheets[index], nil
}

// MemorySheet is a sparse grid of values.
type MemorySheet struct {
	name string
	rows [][]Value
}

// Name implements Sheet.
func (s *MemorySheet) Name() string {
	return s.name
}

// RowCount implements Sheet.
func (s *MemorySheet) RowCount() int {
	return len(s.rows)
}

// Width implements Sheet.
func (s *MemorySheet) Width(row int) int {
	if row < 0 || row >= len(s.rows) {
		return 0
	}

	return len(s.rows[row])
}

// Cell implements Sheet.
func (s *MemorySheet) Cell(row, col int) (Value, error) {
	if row < 0 || col < 0 {
		return Blank, fmt.Errorf("%w: (%d,%d)", ErrOutOfRange, row, col)
	}

	if row >= len(s.rows) || col >= len(s.rows[row]) {
		return Blank, nil
	}

	return s.rows[row][col], nil
}

// SetCell implements Sheet. The grid grows as needed.
func (s *MemorySheet) SetCell(row, col int, v Value) error {
	if row < 0 || col < 0 {
		return fmt.Errorf("%w: (%d,%d)", ErrOutOfRange, row, col)
	}

	for len(s.rows) <= row {
		s.rows = append(s.rows, nil)
	}

	for len(s.rows[row]) <= col {
		s.rows[row] = append(s.rows[row], Blank)
	}

	s.rows[row][col] = v

	return nil
}

// Set stores a Go value converted with ValueOf. It panics on unsupported
// values and is meant for building fixtures.
func (s *MemorySheet) Set(row, col int, x any) *MemorySheet {
	v, err := ValueOf(x)
	if err != nil {
		panic(err)
	}

	if err := s.SetCell(row, col, v); err != nil {
		panic(err)
	}

	return s
}

// SetRow stores values starting at column 0 of row.
func (s *MemorySheet) SetRow(row int, values ...any) *MemorySheet {
	for col, x := range values {
		s.Set(row, col, x)
	}

	return s
}
