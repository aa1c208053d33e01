package mapper

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheet-mapper/column"
	"sheet-mapper/primitive"
	"sheet-mapper/sheet"
)

func TestTake_ByHeader(t *testing.T) {
	book, _ := peopleBook()
	m := newMapper(book)

	rows := takeAll[person](t, m)
	requireNoRowErrors(t, rows)

	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].RowNumber)
	assert.Equal(t, 2, rows[1].RowNumber)
	assert.Equal(t, []person{
		{Name: "Ann", Age: 34, Email: "ann@example.com"},
		{Name: "Bob", Age: 41, Email: "bob@example.com"},
	}, values(rows))
}

func TestTake_PointerRecords(t *testing.T) {
	book, _ := peopleBook()
	m := newMapper(book)

	rows := takeAll[*person](t, m)
	requireNoRowErrors(t, rows)

	require.Len(t, rows, 2)
	assert.Equal(t, &person{Name: "Bob", Age: 41, Email: "bob@example.com"}, rows[1].Value)
}

func TestTake_HeaderMatchTiers(t *testing.T) {
	book := sheet.NewMemory()
	sh := book.AddSheet("People")
	sh.SetRow(0, " NAME ", "e-mail", "age")
	sh.SetRow(1, "Ann", "ann@example.com", 34)

	m := newMapper(book)

	rows := takeAll[person](t, m)
	requireNoRowErrors(t, rows)
	assert.Equal(t, person{Name: "Ann", Age: 34, Email: "ann@example.com"}, rows[0].Value)
}

func TestTake_HeaderRow(t *testing.T) {
	book := sheet.NewMemory()
	sh := book.AddSheet("People")
	sh.SetRow(0, "People export")
	sh.SetRow(2, "Name", "Age")
	sh.SetRow(3, "Ann", 34)

	cfg := DefaultConfig()
	cfg.HeaderRow = 2

	rows, err := TakeAll[person](New(book, cfg), 0)
	require.NoError(t, err)
	requireNoRowErrors(t, rows)

	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].RowNumber)
	assert.Equal(t, person{Name: "Ann", Age: 34}, rows[0].Value)
}

func TestTake_WithoutHeader(t *testing.T) {
	book := sheet.NewMemory()
	sh := book.AddSheet("People")
	sh.SetRow(0, "Ann", 34, "ann@example.com")
	sh.SetRow(1, "Bob", 41)

	cfg := DefaultConfig()
	cfg.HasHeader = false

	m := New(book, cfg)
	require.NoError(t, Map[person](m, 0, "Name"))
	require.NoError(t, Map[person](m, 2, "Email"))

	rows, err := TakeAll[person](m, 0)
	require.NoError(t, err)
	requireNoRowErrors(t, rows)

	assert.Equal(t, []person{
		{Name: "Ann", Email: "ann@example.com"},
		{Name: "Bob"},
	}, values(rows))
	assert.Equal(t, 0, rows[0].RowNumber)
}

func TestTake_ColumnFailuresAreIndependent(t *testing.T) {
	book, sh := peopleBook()
	sh.SetRow(3, "Cid", "old", "cid@example.com")
	sh.SetRow(4, "Dee", date(2020, 1, 1), "dee@example.com", "", "not a date")
	sh.Set(0, 4, "Joined")

	m := newMapper(book)

	rows := takeAll[person](t, m)
	require.Len(t, rows, 4)

	cid := rows[2]
	assert.True(t, cid.HasError())
	assert.Equal(t, 1, cid.ErrorColumnIndex)
	assert.Equal(t, person{Name: "Cid", Email: "cid@example.com"}, cid.Value)
	require.Len(t, cid.Errors, 1)
	assert.Equal(t, "Age", cid.Errors[0].Key)
	require.ErrorIs(t, cid.Errors[0], primitive.ErrInvalidValue)

	dee := rows[3]
	assert.Equal(t, 1, dee.ErrorColumnIndex)
	assert.Equal(t, "Dee", dee.Value.Name)
	assert.Equal(t, "dee@example.com", dee.Value.Email)
	require.Len(t, dee.Errors, 2)
	assert.Equal(t, []int{1, 4}, []int{dee.Errors[0].Column, dee.Errors[1].Column})
	require.ErrorIs(t, dee.Errors[0], primitive.ErrNotAllowed)
	require.ErrorIs(t, dee.Errors[1], primitive.ErrInvalidValue)
	assert.Equal(t, dee.Errors[0].Err.Error(), dee.ErrorMessage)
	assert.Contains(t, dee.Errors[1].Error(), "column E (Joined)")
}

func TestTake_IgnoreErrors(t *testing.T) {
	book, sh := peopleBook()
	sh.SetRow(3, "Cid", "old", "cid@example.com")

	t.Run("column", func(t *testing.T) {
		m := newMapper(book)
		require.NoError(t, Map[person](m, nil, "Age", IgnoreErrors(true)))

		rows := takeAll[person](t, m)
		requireNoRowErrors(t, rows)
		assert.Equal(t, person{Name: "Cid", Email: "cid@example.com"}, rows[2].Value)
	})

	t.Run("global", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.IgnoreErrors = true

		rows, err := TakeAll[person](New(book, cfg), 0)
		require.NoError(t, err)
		requireNoRowErrors(t, rows)
	})
}

func TestTake_Conversions(t *testing.T) {
	book := sheet.NewMemory()
	sh := book.AddSheet("People")
	sh.SetRow(0, "Name", "Age")
	sh.SetRow(1, "Ann", "34")

	cfg := DefaultConfig()
	cfg.Conversions = 0

	rows, err := TakeAll[person](New(book, cfg), 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.ErrorIs(t, rows[0].Errors[0], primitive.ErrNotAllowed)

	rows = takeAll[person](t, newMapper(book))
	requireNoRowErrors(t, rows)
	assert.Equal(t, 34, rows[0].Value.Age)
}

func TestTake_BlankCellsKeepValues(t *testing.T) {
	book, sh := peopleBook()
	sh.SetRow(3, "Cid", nil, "")

	m := newMapper(book)
	require.NoError(t, UseFactory(m, func() (person, error) {
		return person{Age: -1, Email: "unknown"}, nil
	}))

	rows := takeAll[person](t, m)
	requireNoRowErrors(t, rows)
	assert.Equal(t, person{Name: "Cid", Age: -1, Email: "unknown"}, rows[2].Value)
}

func TestTake_UseLastNonBlank(t *testing.T) {
	type item struct {
		Group string
		Item  string
	}

	book := sheet.NewMemory()
	sh := book.AddSheet("Items")
	sh.SetRow(0, "Group", "Item")
	sh.SetRow(1, nil, "u")
	sh.SetRow(2, "A", "x")
	sh.SetRow(3, nil, "y")
	sh.SetRow(4, "B", "z")
	sh.SetRow(5, "", "w")
	sh.SetRow(6, nil, nil)
	sh.SetRow(7, nil, "v")

	m := newMapper(book)
	require.NoError(t, Map[item](m, nil, "Group", UseLastNonBlank(true)))

	rows := takeAll[item](t, m)
	requireNoRowErrors(t, rows)
	assert.Equal(t, []item{
		{"", "u"},
		{"A", "x"},
		{"A", "y"},
		{"B", "z"},
		{"B", "w"},
		{"B", ""},
		{"B", "v"},
	}, values(rows))

	// a blank row stays blank for SkipBlankRows even though it inherits
	m.cfg.SkipBlankRows = true

	rows = takeAll[item](t, m)
	require.Len(t, rows, 6)
	assert.Equal(t, 7, rows[5].RowNumber)
	assert.Equal(t, item{"B", "v"}, rows[5].Value)
}

func TestTake_SkipsEmptyRows(t *testing.T) {
	book, sh := peopleBook()
	sh.SetRow(4, "Dee", 22)

	rows := takeAll[person](t, newMapper(book))
	requireNoRowErrors(t, rows)

	// row 3 does not exist in the grid
	require.Len(t, rows, 3)
	assert.Equal(t, 4, rows[2].RowNumber)
}

func TestTake_IsLazyAndRestarts(t *testing.T) {
	book, sh := peopleBook()
	m := newMapper(book)

	seq, err := Take[person](m, 0)
	require.NoError(t, err)

	// rows added after Take but before iteration are seen
	sh.SetRow(3, "Cid", 29)

	var names []string
	for row := range seq {
		names = append(names, row.Value.Name)
		if len(names) == 2 {
			break
		}
	}

	assert.Equal(t, []string{"Ann", "Bob"}, names)

	names = names[:0]
	for row := range seq {
		names = append(names, row.Value.Name)
	}

	assert.Equal(t, []string{"Ann", "Bob", "Cid"}, names)
}

func TestTake_UseFormat(t *testing.T) {
	type event struct {
		Name string
		At   time.Time
	}

	book := sheet.NewMemory()
	sh := book.AddSheet("Events")
	sh.SetRow(0, "Name", "At")
	sh.SetRow(1, "launch", "3/15/2023 9:05")
	sh.SetRow(2, "review", sheet.Number(45001.5))

	m := newMapper(book)
	UseFormat[time.Time](m, "m/d/yyyy h:mm")

	rows := takeAll[event](t, m)
	requireNoRowErrors(t, rows)

	assert.Equal(t, time.Date(2023, 3, 15, 9, 5, 0, 0, time.UTC), rows[0].Value.At)
	assert.WithinDuration(t, time.Date(2023, 3, 16, 12, 0, 0, 0, time.UTC), rows[1].Value.At, time.Millisecond)
}

func TestTake_CustomResolverOverridesInvalidEnum(t *testing.T) {
	book := sheet.NewMemory()
	sh := book.AddSheet("Tickets")
	sh.SetRow(0, "Title", "Level")
	sh.SetRow(1, "crash", 11)
	sh.SetRow(2, "typo", 1)

	m := newMapper(book)

	rows := takeAll[ticket](t, m)
	require.True(t, rows[0].HasError())
	require.ErrorIs(t, rows[0].Errors[0], primitive.ErrInvalidEnum)
	assert.Equal(t, ticket{Title: "crash"}, rows[0].Value)

	require.NoError(t, Map[ticket](m, nil, "Level", TryTake(func(col *column.Info, target any) bool {
		n, ok := col.CurrentValue.(float64)
		if !ok {
			return false
		}

		lv := level(n)
		if n > 10 {
			lv = levelHigh
		}

		target.(*ticket).Level = lv

		return true
	})))

	rows = takeAll[ticket](t, m)
	requireNoRowErrors(t, rows)
	assert.Equal(t, []ticket{
		{Title: "crash", Level: levelHigh},
		{Title: "typo", Level: levelLow},
	}, values(rows))
}

func TestTake_ResolverFailures(t *testing.T) {
	book, _ := peopleBook()
	m := newMapper(book)

	require.NoError(t, Map[person](m, nil, "Age", TryTake(func(col *column.Info, _ any) bool {
		return col.RowNumber != 1
	})))
	require.NoError(t, Map[person](m, nil, "Email", TryTake(func(col *column.Info, _ any) bool {
		if col.RowNumber == 2 {
			panic("bad email")
		}

		return true
	})))

	rows := takeAll[person](t, m)
	require.Len(t, rows, 2)

	require.ErrorIs(t, rows[0].Errors[0], ErrResolver)
	assert.Equal(t, 1, rows[0].ErrorColumnIndex)

	require.ErrorIs(t, rows[1].Errors[0], ErrResolver)
	assert.Equal(t, 2, rows[1].ErrorColumnIndex)
	assert.Contains(t, rows[1].ErrorMessage, "bad email")
	assert.Equal(t, "Bob", rows[1].Value.Name)
}

func TestTake_FilterIntoCollection(t *testing.T) {
	type scores struct {
		Name   string
		Scores []float64
	}

	book := sheet.NewMemory()
	sh := book.AddSheet("Scores")
	sh.SetRow(0, "Name", 31, 32, 33, "Total")
	sh.SetRow(1, "Ann", 1.5, 9, 2.5, 13)
	sh.SetRow(2, "Bob", 3, 9, nil, 12)

	m := newMapper(book)

	var offered []any

	m.MapFilter(func(col *column.Info) bool {
		offered = append(offered, col.HeaderValue)
		n, ok := col.HeaderValue.(float64)

		return ok && (n == 31 || n == 33)
	}, func(col *column.Info, target any) bool {
		s := target.(*scores)
		if col.CurrentValue != nil {
			s.Scores = append(s.Scores, col.CurrentValue.(float64))
		}

		return true
	}, nil)

	rows := takeAll[scores](t, m)
	requireNoRowErrors(t, rows)

	assert.Equal(t, []scores{
		{Name: "Ann", Scores: []float64{1.5, 2.5}},
		{Name: "Bob", Scores: []float64{3}},
	}, values(rows))
	assert.Equal(t, []any{31.0, 32.0, 33.0, "Total"}, offered)
}

func TestFilter_DatedColumnsIntoCollection(t *testing.T) {
	type schedule struct {
		Name  string
		Slots []string
	}

	book := sheet.NewMemory()
	sh := book.AddSheet("Schedule")
	sh.Set(0, 0, "Name").Set(0, 31, date(2023, 3, 15)).Set(0, 32, "Note").Set(0, 33, date(2023, 4, 15))
	sh.Set(1, 0, "Ann").Set(1, 31, "aBC").Set(1, 32, "skip").Set(1, 33, "BCD")

	m := newMapper(book)
	m.MapFilter(func(col *column.Info) bool {
		return col.Attribute.Index == 31 || col.Attribute.Index == 33
	}, func(col *column.Info, target any) bool {
		s := target.(*schedule)
		s.Slots = append(s.Slots, col.HeaderValue.(time.Time).Format("2006-01-02")+fmt.Sprint(col.CurrentValue))

		return true
	}, func(col *column.Info, _ any) bool {
		col.CurrentValue = "_Put"
		return true
	})

	rows := takeAll[schedule](t, m)
	requireNoRowErrors(t, rows)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"2023-03-15aBC", "2023-04-15BCD"}, rows[0].Value.Slots)

	put, err := PutSlice(m, values(rows), 0)
	require.NoError(t, err)
	requireNoRowErrors(t, put)

	for _, tt := range []struct {
		col  int
		want any
	}{
		{col: 0, want: "Ann"},
		{col: 31, want: "_Put"},
		{col: 32, want: "skip"},
		{col: 33, want: "_Put"},
	} {
		cell, err := sh.Cell(1, tt.col)
		require.NoError(t, err)
		assert.Equal(t, tt.want, cell.Interface(), "column %d", tt.col)
	}
}

func TestTake_DynamicRecords(t *testing.T) {
	book := sheet.NewMemory()
	sh := book.AddSheet("Any")
	sh.SetRow(0, "Name", "Age", "Name", "")
	sh.SetRow(1, "Ann", 34, "dup", "ignored")
	sh.SetRow(2, "Bob", nil)

	m := newMapper(book)
	require.NoError(t, MapDynamic(m, 1, "years"))

	rows := takeAll[map[string]any](t, m)
	requireNoRowErrors(t, rows)

	assert.Equal(t, []map[string]any{
		{"Name": "Ann", "years": 34.0},
		{"Name": "Bob", "years": nil},
	}, values(rows))

	res, err := Resolve[map[string]any](m, 0)
	require.NoError(t, err)
	require.Len(t, res.Warnings(), 1)
	assert.Contains(t, res.Warnings()[0], "duplicate_header")
}

func TestTake_DynamicWithDateSerialHeader(t *testing.T) {
	book := sheet.NewMemory()
	sh := book.AddSheet("Sales")
	sh.SetRow(0, "Region", 45000, 45001)
	sh.SetRow(1, "North", 10, 12)
	sh.SetRow(2, "South", 7, nil)

	m := newMapper(book)
	require.NoError(t, MapDynamic(m, "Region", ""))

	m.MapFilter(func(col *column.Info) bool {
		serial, ok := col.HeaderValue.(float64)
		if !ok {
			return false
		}

		day, err := sheet.ExcelDateToTime(serial)
		if err != nil {
			return false
		}

		col.HeaderValue = day

		return true
	}, func(col *column.Info, target any) bool {
		day := col.HeaderValue.(time.Time)
		target.(map[string]any)[day.Format(time.DateOnly)] = col.CurrentValue

		return true
	}, nil)

	rows := takeAll[map[string]any](t, m)
	requireNoRowErrors(t, rows)

	assert.Equal(t, []map[string]any{
		{"Region": "North", "2023-03-15": 10.0, "2023-03-16": 12.0},
		{"Region": "South", "2023-03-15": 7.0, "2023-03-16": nil},
	}, values(rows))
}

func TestColumnError_Error(t *testing.T) {
	err := fmt.Errorf("bad")

	assert.Equal(t, "bad", ColumnError{Column: NoColumn, Err: err}.Error())
	assert.Equal(t, "column C: bad", ColumnError{Column: 2, Err: err}.Error())
	assert.Equal(t, "column AA (Total): bad", ColumnError{Column: 26, Key: "Total", Err: err}.Error())
}
