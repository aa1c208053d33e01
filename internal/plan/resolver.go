package plan

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"sheet-mapper/column"
	"sheet-mapper/internal/diagnostic"
	"sheet-mapper/internal/match"
	"sheet-mapper/sheet"
)

var ErrFilterPanic = errors.New("column filter panicked")

// Request is the input of a resolution.
type Request struct {
	// TypeName labels diagnostics.
	TypeName string
	// Header holds the header row cells in physical order.
	Header []sheet.Value
	// HasHeader is false when the sheet has no header row; only index
	// descriptors can then be resolved.
	HasHeader bool
	// Attributes are the descriptors of the authoritative set in declaration order.
	Attributes []column.Attribute
	// Filter decides about columns no descriptor claims.
	Filter column.Filter
	// FilterTake and FilterPut become the resolvers of accepted columns.
	FilterTake column.TakeFunc
	FilterPut  column.PutFunc
	// Dynamic turns unclaimed columns into record slots keyed by header text.
	Dynamic bool
}

type resolver struct {
	req     Request
	table   *Table
	texts   []string
	claimed map[int]bool
	bound   []bool
	keys    map[string]int
}

// Resolve binds the descriptors of req to physical columns.
func Resolve(req Request) (*Table, error) {
	r := &resolver{
		req:     req,
		table:   &Table{},
		claimed: make(map[int]bool),
		bound:   make([]bool, len(req.Attributes)),
		keys:    make(map[string]int),
	}

	if req.HasHeader {
		r.table.Width = len(req.Header)
		r.texts = make([]string, len(req.Header))

		for i, h := range req.Header {
			r.texts[i] = strings.TrimSpace(h.Text())
		}
	}

	r.resolveIndexes()
	r.resolveNames()
	r.reportUnbound()

	if err := r.resolveRemaining(); err != nil {
		return nil, err
	}

	sort.SliceStable(r.table.Columns, func(i, j int) bool {
		return r.table.Columns[i].Index < r.table.Columns[j].Index
	})

	return r.table, nil
}

func (r *resolver) header(index int) sheet.Value {
	if index < len(r.req.Header) {
		return r.req.Header[index]
	}

	return sheet.Blank
}

// bind claims the column for the descriptor. Ignored descriptors claim the
// column without entering the table.
func (r *resolver) bind(i, index int, source Source, tier match.Tier) {
	attr := r.req.Attributes[i]

	r.bound[i] = true
	r.claimed[index] = true

	if attr.Ignored.IsTrue() {
		return
	}

	header := r.header(index)

	key := attr.Key()
	if key == "" && index < len(r.texts) {
		key = r.texts[index]
	}

	r.add(Column{
		Index:       index,
		Header:      header,
		HeaderValue: header.Interface(),
		Attribute:   attr.WithIndex(index),
		Source:      source,
		Tier:        tier,
		Key:         key,
	})
}

func (r *resolver) add(c Column) {
	if r.req.Dynamic && c.Key != "" {
		if prev, dup := r.keys[c.Key]; dup {
			r.table.Diagnostics.AddWarning(diagnostic.CodeDuplicateHeader,
				fmt.Sprintf("column %s repeats the key of column %s and is skipped",
					sheet.ColumnName(c.Index), sheet.ColumnName(prev)),
				r.req.TypeName, c.Key)

			return
		}

		r.keys[c.Key] = c.Index
	}

	r.table.Columns = append(r.table.Columns, c)
}

func (r *resolver) resolveIndexes() {
	for i, attr := range r.req.Attributes {
		if attr.Index < 0 {
			continue
		}

		if r.req.HasHeader && attr.Index >= r.table.Width {
			r.bound[i] = true
			r.table.Diagnostics.AddWarning(diagnostic.CodeIndexOutOfRange,
				fmt.Sprintf("index %d is beyond the header width %d", attr.Index, r.table.Width),
				r.req.TypeName, attr.Key())

			continue
		}

		if r.claimed[attr.Index] {
			r.bound[i] = true
			r.table.Diagnostics.AddWarning(diagnostic.CodeIndexReassigned,
				fmt.Sprintf("column %s is already bound", sheet.ColumnName(attr.Index)),
				r.req.TypeName, attr.Key())

			continue
		}

		r.bind(i, attr.Index, SourceIndex, match.TierNone)
	}
}

func (r *resolver) resolveNames() {
	if !r.req.HasHeader {
		return
	}

	for _, tier := range match.Tiers {
		for index, text := range r.texts {
			if r.claimed[index] {
				continue
			}

			for i, attr := range r.req.Attributes {
				if r.bound[i] || attr.Name == "" {
					continue
				}

				if match.Compare(text, attr.Name) == tier {
					r.bind(i, index, SourceName, tier)
					break
				}
			}
		}
	}
}

func (r *resolver) reportUnbound() {
	for i, attr := range r.req.Attributes {
		if r.bound[i] || attr.Name == "" || attr.Ignored.IsTrue() {
			continue
		}

		if !r.req.HasHeader {
			r.table.Diagnostics.AddInfo(diagnostic.CodeColumnNotFound,
				fmt.Sprintf("column %q needs a header row", attr.Name),
				r.req.TypeName, attr.Key())

			continue
		}

		r.table.Diagnostics.AddWarning(diagnostic.CodeColumnNotFound,
			fmt.Sprintf("no header matches %q", attr.Name),
			r.req.TypeName, attr.Key())
		r.table.Diagnostics.Last().Suggestions = match.Suggest(attr.Name, r.texts, match.DefaultSuggestions)
	}
}

func (r *resolver) resolveRemaining() error {
	if !r.req.HasHeader || (r.req.Filter == nil && !r.req.Dynamic) {
		return nil
	}

	for index, text := range r.texts {
		if r.claimed[index] {
			continue
		}

		header := r.header(index)

		if r.req.Filter == nil {
			if text == "" {
				continue
			}

			r.add(Column{
				Index:       index,
				Header:      header,
				HeaderValue: header.Interface(),
				Attribute:   column.NewName(text).WithIndex(index),
				Source:      SourceDynamic,
				Key:         text,
			})

			continue
		}

		info := &column.Info{
			HeaderValue: header.Interface(),
			Attribute:   column.NewName(text).WithIndex(index),
			RowNumber:   -1,
		}

		ok, err := r.offer(info)
		if err != nil {
			return err
		}

		if !ok {
			r.table.Diagnostics.AddInfo(diagnostic.CodeFilterRejected,
				"column rejected by filter", r.req.TypeName, sheet.ColumnName(index))

			continue
		}

		attr := info.Attribute.WithIndex(index)
		if attr.TryTake == nil {
			attr.TryTake = r.req.FilterTake
		}

		if attr.TryPut == nil {
			attr.TryPut = r.req.FilterPut
		}

		source := SourceFilter
		key := attr.Key()

		if r.req.Dynamic {
			source = SourceDynamic

			if key == "" {
				key = headerKey(info.HeaderValue, text)
			}
		}

		r.add(Column{
			Index:       index,
			Header:      header,
			HeaderValue: info.HeaderValue,
			Attribute:   attr,
			Source:      source,
			Key:         key,
		})
	}

	return nil
}

func (r *resolver) offer(info *column.Info) (ok bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w at column %s: %v", ErrFilterPanic,
				sheet.ColumnName(info.Attribute.Index), p)
		}
	}()

	return r.req.Filter(info), nil
}

// headerKey renders a header value a filter may have replaced.
func headerKey(v any, fallback string) string {
	if v == nil {
		return fallback
	}

	if cell, err := sheet.ValueOf(v); err == nil && !cell.IsBlank() {
		return cell.Text()
	}

	return fmt.Sprint(v)
}
