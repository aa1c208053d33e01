package mapper

import (
	"fmt"
	"iter"
	"reflect"
	"slices"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sheet-mapper/column"
	"sheet-mapper/internal/plan"
	"sheet-mapper/primitive"
	"sheet-mapper/sheet"
)

// Put writes items to the sheet at sheetIndex, one per row from the first
// data row on. Rows below the last item are left untouched. A missing
// header row is written first: from the mapped properties for struct
// records, from the registered slots and the sorted keys of the first item
// for dynamic records.
//
// The returned RowInfo slice reports the column errors of every row written.
func Put[T any](m *Mapper, items iter.Seq[T], sheetIndex int) ([]RowInfo[T], error) {
	r, err := m.recordOf(reflect.TypeFor[T]())
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

	next, stop := iter.Pull(items)
	defer stop()

	item, ok := next()

	if m.cfg.HasHeader && len(header) == 0 {
		var sample reflect.Value
		if ok {
			sample = reflect.ValueOf(any(item))
		}

		header, err = m.writeHeader(r, sh, sample)
		if err != nil {
			return nil, err
		}
	}

	table, err := m.table(r, sheetIndex, sh, header)
	if err != nil {
		return nil, err
	}

	pass := &putPass{m: m, r: r, sh: sh, table: table}
	log := m.log.With(zap.String("call", uuid.NewString()), zap.String("type", r.name), zap.String("sheet", sh.Name()))
	log.Debug("put started", zap.Int("columns", len(table.Columns)))

	var out []RowInfo[T]

	for number := m.cfg.firstDataRow(); ok; number++ {
		info := RowInfo[T]{RowNumber: number, Value: item}
		fill(&info, pass.putRow(number, reflect.ValueOf(any(item)), log))
		out = append(out, info)

		item, ok = next()
	}

	log.Debug("put finished", zap.Int("rows", len(out)))

	return out, nil
}

// PutSlice writes items with Put.
func PutSlice[T any](m *Mapper, items []T, sheetIndex int) ([]RowInfo[T], error) {
	return Put(m, slices.Values(items), sheetIndex)
}

type putPass struct {
	m     *Mapper
	r     *record
	sh    sheet.Sheet
	table *plan.Table
}

func (p *putPass) putRow(number int, item reflect.Value, log *zap.Logger) rowErrors {
	var errs rowErrors

	in, err := p.r.wrap(item)
	if err != nil {
		errs.add(NoColumn, "", err)
		return errs
	}

	for i := range p.table.Columns {
		col := &p.table.Columns[i]
		if err := p.putCell(in, col, number); err != nil {
			p.m.report(&errs, col, err, number, log)
		}
	}

	return errs
}

func (p *putPass) putCell(in instance, col *plan.Column, number int) error {
	attr := col.Attribute
	format := p.m.columnFormat(attr)

	if attr.TryPut != nil {
		existing, err := p.sh.Cell(number, col.Index)
		if err != nil {
			return err
		}

		info := col.Info(number)
		info.CurrentValue = existing.Interface()

		if err := callPut(attr.TryPut, info, in.target()); err != nil {
			return err
		}

		cell, ok := info.CurrentValue.(sheet.Value)
		if !ok {
			cell, err = primitive.ToCell(reflect.ValueOf(info.CurrentValue), format)
			if err != nil {
				return err
			}
		}

		return p.sh.SetCell(number, col.Index, cell)
	}

	var v reflect.Value

	switch {
	case p.r.dynamic:
		if col.Key == "" {
			return nil
		}

		v = in.holder.MapIndex(reflect.ValueOf(col.Key).Convert(p.r.rtype.Key()))

		// a missing slot leaves the cell alone
		if !v.IsValid() {
			return nil
		}

	case attr.Property == nil:
		return nil

	default:
		// unreachable through a nil embedded pointer: the cell is blank
		v, _ = attr.Property.Get(in.holder)
	}

	cell, err := primitive.ToCell(v, format)
	if err != nil {
		return err
	}

	return p.sh.SetCell(number, col.Index, cell)
}

func callPut(fn column.PutFunc, info *column.Info, source any) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: panic: %v", ErrResolver, p)
		}
	}()

	if !fn(info, source) {
		return ErrResolver
	}

	return nil
}

// writeHeader synthesizes and writes the header row. Columns with an
// explicit index keep it; the others fill the free columns from the left.
func (m *Mapper) writeHeader(r *record, sh sheet.Sheet, sample reflect.Value) ([]sheet.Value, error) {
	set := r.authoritative(m.log)

	var attrs []column.Attribute

	if r.dynamic {
		covered := make(map[string]bool)

		for _, attr := range set.Attributes() {
			covered[attr.Key()] = true
			covered[attr.Name] = true

			if !attr.Ignored.IsTrue() {
				attrs = append(attrs, attr)
			}
		}

		if sample.IsValid() && sample.Kind() == reflect.Map {
			var keys []string

			for _, k := range sample.MapKeys() {
				if key := k.String(); !covered[key] {
					keys = append(keys, key)
				}
			}

			sort.Strings(keys)

			for _, key := range keys {
				attrs = append(attrs, column.NewName(key))
			}
		}
	} else {
		for _, p := range r.props {
			attr, ok := set.Get(p.Name)
			if ok && !attr.Ignored.IsTrue() && supported(attr, false) {
				attrs = append(attrs, attr)
			}
		}
	}

	header := layoutHeader(attrs)

	for c, v := range header {
		if v.IsBlank() {
			continue
		}

		if err := sh.SetCell(m.cfg.HeaderRow, c, v); err != nil {
			return nil, fmt.Errorf("header cell %s: %w", sheet.ColumnName(c), err)
		}
	}

	m.log.Debug("header written", zap.String("type", r.name), zap.String("sheet", sh.Name()),
		zap.Int("columns", len(attrs)))

	return header, nil
}

func layoutHeader(attrs []column.Attribute) []sheet.Value {
	placed := make(map[int]string)

	var floating []string

	for _, attr := range attrs {
		text := attr.Header()
		if text == "" {
			continue
		}

		if _, taken := placed[attr.Index]; attr.Index >= 0 && !taken {
			placed[attr.Index] = text
			continue
		}

		floating = append(floating, text)
	}

	next := 0

	for _, text := range floating {
		for {
			if _, taken := placed[next]; !taken {
				break
			}

			next++
		}

		placed[next] = text
	}

	width := 0
	for c := range placed {
		width = max(width, c+1)
	}

	header := make([]sheet.Value, width)
	for c, text := range placed {
		header[c] = sheet.String(text)
	}

	return header
}
