package mapper

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"go.uber.org/zap"

	"sheet-mapper/column"
	"sheet-mapper/internal/diagnostic"
	"sheet-mapper/internal/plan"
	"sheet-mapper/sheet"
)

var (
	ErrHeaderNotFound  = errors.New("header row not found")
	ErrUnsupportedType = errors.New("unsupported record type")
	ErrInvalidKey      = errors.New("column key must be an int index or a string header")
	ErrUnknownProperty = errors.New("unknown property")
	ErrFactory         = errors.New("record factory failed")
	ErrNilRecord       = errors.New("nil record")
	ErrResolver        = errors.New("custom resolver failed")
	ErrInvalidMapping  = errors.New("invalid mapping file")
)

type filterState struct {
	filter column.Filter
	take   column.TakeFunc
	put    column.PutFunc
}

type tableKey struct {
	rtype  reflect.Type
	sheet  int
	name   string
	header string
}

// Mapper maps the sheets of one workbook.
type Mapper struct {
	book    sheet.Workbook
	cfg     Config
	log     *zap.Logger
	records map[reflect.Type]*record
	formats map[reflect.Type]string
	filter  *filterState
	tables  map[tableKey]*plan.Table
}

// New creates a Mapper over book.
func New(book sheet.Workbook, cfg Config) *Mapper {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
		cfg.Logger = log
	}

	return &Mapper{
		book:    book,
		cfg:     cfg,
		log:     log,
		records: make(map[reflect.Type]*record),
		formats: make(map[reflect.Type]string),
		tables:  make(map[tableKey]*plan.Table),
	}
}

// Config returns the current configuration.
func (m *Mapper) Config() Config {
	return m.cfg
}

// Workbook returns the mapped workbook.
func (m *Mapper) Workbook() sheet.Workbook {
	return m.book
}

// MapFilter registers a filter for columns no descriptor claims. Accepted
// columns are taken with take and put with put; either may be nil. The
// filter may replace the column's HeaderValue, and resolvers see the
// replacement. A nil filter removes the registration.
func (m *Mapper) MapFilter(filter column.Filter, take column.TakeFunc, put column.PutFunc) {
	if filter == nil {
		m.filter = nil
	} else {
		m.filter = &filterState{filter: filter, take: take, put: put}
	}

	m.invalidate()
}

// SheetIndex returns the index of the sheet called name.
func (m *Mapper) SheetIndex(name string) (int, error) {
	for i := range m.book.SheetCount() {
		sh, err := m.book.Sheet(i)
		if err != nil {
			return 0, err
		}

		if sh.Name() == name {
			return i, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", sheet.ErrSheetNotFound, name)
}

func (m *Mapper) invalidate() {
	clear(m.tables)

	for _, r := range m.records {
		r.set = nil
	}
}

func (m *Mapper) recordOf(t reflect.Type) (*record, error) {
	if r, ok := m.records[t]; ok {
		return r, nil
	}

	r, err := newRecord(t)
	if err != nil {
		return nil, err
	}

	for _, d := range r.diags.Errors {
		m.log.Warn("invalid column tag", zap.String("type", r.name), zap.String("property", d.Column),
			zap.String("error", d.Message))
	}

	m.records[t] = r

	return r, nil
}

// formatFor returns the UseFormat format of t or of its element type.
func (m *Mapper) formatFor(t reflect.Type) string {
	if f, ok := m.formats[t]; ok {
		return f
	}

	if t.Kind() == reflect.Pointer {
		return m.formats[t.Elem()]
	}

	return ""
}

func (m *Mapper) columnFormat(attr column.Attribute) string {
	if attr.CustomFormat != "" {
		return attr.CustomFormat
	}

	if attr.Property != nil {
		return m.formatFor(attr.Property.Type)
	}

	return ""
}

func (m *Mapper) sheetAt(index int) (sheet.Sheet, error) {
	sh, err := m.book.Sheet(index)
	if err != nil {
		return nil, fmt.Errorf("sheet %d: %w", index, err)
	}

	return sh, nil
}

// readHeader returns the header cells, or nil when the header row is empty.
func (m *Mapper) readHeader(sh sheet.Sheet) ([]sheet.Value, error) {
	if !m.cfg.HasHeader || m.cfg.HeaderRow >= sh.RowCount() {
		return nil, nil
	}

	width := sh.Width(m.cfg.HeaderRow)
	header := make([]sheet.Value, width)

	for c := range width {
		v, err := sh.Cell(m.cfg.HeaderRow, c)
		if err != nil {
			return nil, fmt.Errorf("header cell %s: %w", sheet.ColumnName(c), err)
		}

		header[c] = v
	}

	return header, nil
}

func headerKey(header []sheet.Value) string {
	var b strings.Builder

	for _, h := range header {
		fmt.Fprintf(&b, "%d:%s\x1f", h.Kind, h.Text())
	}

	return b.String()
}

// table resolves the record's columns against header, reusing the table of
// an earlier call with the same header.
func (m *Mapper) table(r *record, sheetIndex int, sh sheet.Sheet, header []sheet.Value) (*plan.Table, error) {
	key := tableKey{rtype: r.rtype, sheet: sheetIndex, name: sh.Name(), header: headerKey(header)}
	if t, ok := m.tables[key]; ok {
		return t.Clone(), nil
	}

	req := plan.Request{
		TypeName:   r.name,
		Header:     header,
		HasHeader:  m.cfg.HasHeader,
		Attributes: r.authoritative(m.log).Attributes(),
		Dynamic:    r.dynamic,
	}

	if m.filter != nil {
		req.Filter = m.filter.filter
		req.FilterTake = m.filter.take
		req.FilterPut = m.filter.put
	}

	t, err := plan.Resolve(req)
	if err != nil {
		return nil, err
	}

	t.Diagnostics.Merge(r.diags)

	for _, c := range t.Columns {
		if !supported(c.Attribute, r.dynamic) && c.Attribute.Property != nil {
			t.Diagnostics.AddWarning(diagnostic.CodeUnsupportedType,
				fmt.Sprintf("%s has no default conversion; register a resolver", c.Attribute.Property.Type),
				r.name, c.Attribute.Key())
		}
	}

	for _, w := range t.Warnings() {
		m.log.Warn("column resolution", zap.String("type", r.name), zap.String("sheet", sh.Name()),
			zap.String("warning", w))
	}

	m.tables[key] = t

	return t.Clone(), nil
}
