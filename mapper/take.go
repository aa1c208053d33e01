package mapper

import (
	"fmt"
	"iter"
	"reflect"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sheet-mapper/column"
	"sheet-mapper/internal/plan"
	"sheet-mapper/primitive"
	"sheet-mapper/sheet"
)

// Take projects the data rows of the sheet at sheetIndex into records of
// type T. Rows are read as the sequence is pulled; every iteration starts
// over from the first data row. The sheet must not change while iterating.
//
// T is a struct, a pointer to a struct, or a map with string keys and
// interface values for dynamic records.
func Take[T any](m *Mapper, sheetIndex int) (iter.Seq[RowInfo[T]], error) {
	p, err := m.prepareTake(reflect.TypeFor[T](), sheetIndex)
	if err != nil {
		return nil, err
	}

	return func(yield func(RowInfo[T]) bool) {
		for row := range p.rows() {
			info := RowInfo[T]{RowNumber: row.number}
			if row.value != nil {
				info.Value = row.value.(T)
			}

			fill(&info, row.errs)

			if !yield(info) {
				return
			}
		}
	}, nil
}

// TakeAll collects Take into a slice.
func TakeAll[T any](m *Mapper, sheetIndex int) ([]RowInfo[T], error) {
	seq, err := Take[T](m, sheetIndex)
	if err != nil {
		return nil, err
	}

	var out []RowInfo[T]
	for info := range seq {
		out = append(out, info)
	}

	return out, nil
}

type takeRow struct {
	number int
	value  any
	errs   rowErrors
}

type takePass struct {
	m     *Mapper
	r     *record
	sh    sheet.Sheet
	table *plan.Table
}

func (m *Mapper) prepareTake(t reflect.Type, sheetIndex int) (*takePass, error) {
	r, err := m.recordOf(t)
	if err != nil {
		return nil, err
	}

	sh, err := m.sheetAt(sheetIndex)
	if err != nil {
		return nil, err
	}

	header, err := m.readHeader(sh)
	if err != nil {
		return nil, err
	}

	if m.cfg.HasHeader && len(header) == 0 {
		return nil, fmt.Errorf("%w: sheet %q row %d", ErrHeaderNotFound, sh.Name(), m.cfg.HeaderRow)
	}

	table, err := m.table(r, sheetIndex, sh, header)
	if err != nil {
		return nil, err
	}

	return &takePass{m: m, r: r, sh: sh, table: table}, nil
}

func (p *takePass) rows() iter.Seq[takeRow] {
	return func(yield func(takeRow) bool) {
		call := uuid.NewString()
		log := p.m.log.With(zap.String("call", call), zap.String("type", p.r.name), zap.String("sheet", p.sh.Name()))
		log.Debug("take started", zap.Int("columns", len(p.table.Columns)))

		// last non-blank value per column, scoped to this iteration
		last := make(map[int]sheet.Value)
		count := 0

		defer func() {
			log.Debug("take finished", zap.Int("rows", count))
		}()

		for number := p.m.cfg.firstDataRow(); number < p.sh.RowCount(); number++ {
			if p.sh.Width(number) == 0 {
				continue
			}

			cells, blank, errs := p.readCells(number, last)
			if p.m.cfg.SkipBlankRows && blank {
				continue
			}

			row := p.takeRow(number, cells, errs, log)
			count++

			if !yield(row) {
				return
			}
		}
	}
}

// readCells reads the table's cells of a row, applying blank-cell
// inheritance. blank reports whether every cell read was blank before
// inheritance.
func (p *takePass) readCells(number int, last map[int]sheet.Value) (cells []sheet.Value, blank bool, errs map[int]error) {
	cells = make([]sheet.Value, len(p.table.Columns))
	blank = true

	for i := range p.table.Columns {
		col := &p.table.Columns[i]

		cell, err := p.sh.Cell(number, col.Index)
		if err != nil {
			if errs == nil {
				errs = make(map[int]error)
			}

			errs[col.Index] = err

			continue
		}

		if cell.IsBlank() {
			if prev, ok := last[col.Index]; ok && col.Attribute.UseLastNonBlankValue.IsTrue() {
				cell = prev
			}
		} else {
			last[col.Index] = cell
			blank = false
		}

		cells[i] = cell
	}

	return cells, blank, errs
}

func (p *takePass) takeRow(number int, cells []sheet.Value, readErrs map[int]error, log *zap.Logger) takeRow {
	row := takeRow{number: number}

	in, err := p.r.newInstance()
	if err != nil {
		log.Debug("record construction failed", zap.Int("row", number), zap.Error(err))
		row.errs.add(NoColumn, "", err)

		return row
	}

	for i := range p.table.Columns {
		col := &p.table.Columns[i]
		if err, failed := readErrs[col.Index]; failed {
			p.m.report(&row.errs, col, err, number, log)
			continue
		}

		if err := p.takeCell(in, col, cells[i], number); err != nil {
			p.m.report(&row.errs, col, err, number, log)
		}
	}

	row.value = p.r.value(in)

	return row
}

// report records a column error unless the column or the mapper ignores errors.
func (m *Mapper) report(errs *rowErrors, col *plan.Column, err error, number int, log *zap.Logger) {
	ignored := col.Attribute.IgnoreErrors.IsTrue() || m.cfg.IgnoreErrors

	log.Debug("column failed",
		zap.Int("row", number),
		zap.String("column", sheet.ColumnName(col.Index)),
		zap.String("key", col.Key),
		zap.Bool("ignored", ignored),
		zap.Error(err))

	if !ignored {
		errs.add(col.Index, col.Key, err)
	}
}

func (p *takePass) takeCell(in instance, col *plan.Column, cell sheet.Value, number int) error {
	attr := col.Attribute

	if attr.TryTake != nil {
		info := col.Info(number)
		info.CurrentValue = cell.Interface()

		return callTake(attr.TryTake, info, in.target())
	}

	if p.r.dynamic {
		if col.Key == "" {
			return nil
		}

		v := cell.Interface()
		key := reflect.ValueOf(col.Key).Convert(p.r.rtype.Key())
		in.holder.SetMapIndex(key, reflect.ValueOf(&v).Elem())

		return nil
	}

	// filtered column without a take resolver
	if attr.Property == nil {
		return nil
	}

	v, err := primitive.FromCell(cell, attr.Property.Type, p.m.columnFormat(attr), p.m.cfg.Conversions)
	if err != nil {
		return err
	}

	if !v.IsValid() {
		return nil
	}

	return attr.Property.Set(in.holder, v)
}

func callTake(fn column.TakeFunc, info *column.Info, target any) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: panic: %v", ErrResolver, p)
		}
	}()

	if !fn(info, target) {
		return ErrResolver
	}

	return nil
}
