package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheet-mapper/column"
	"sheet-mapper/internal/diagnostic"
	"sheet-mapper/internal/match"
	"sheet-mapper/sheet"
)

func headerOf(texts ...string) []sheet.Value {
	out := make([]sheet.Value, len(texts))
	for i, s := range texts {
		out[i] = sheet.String(s)
	}

	return out
}

func prop(name string) *column.Property {
	return &column.Property{Name: name}
}

func named(property, name string) column.Attribute {
	return column.NewName(name).WithProperty(prop(property))
}

func indexed(property string, index int) column.Attribute {
	return column.NewIndex(index).WithProperty(prop(property))
}

func keysOf(t *Table) map[int]string {
	out := map[int]string{}
	for _, c := range t.Columns {
		out[c.Index] = c.Attribute.Key()
	}

	return out
}

func TestResolve_IndexAndName(t *testing.T) {
	table, err := Resolve(Request{
		Header:    headerOf("Id", "Customer", "Amount", "Notes"),
		HasHeader: true,
		Attributes: []column.Attribute{
			named("Amount", "Amount"),
			indexed("Notes", 3),
			named("ID", "Id"),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 4, table.Width)
	assert.Equal(t, map[int]string{0: "ID", 2: "Amount", 3: "Notes"}, keysOf(table))
	assert.Empty(t, table.Diagnostics.Warnings)

	for i := 1; i < len(table.Columns); i++ {
		assert.Less(t, table.Columns[i-1].Index, table.Columns[i].Index, "table follows physical order")
	}

	notes, ok := table.Column(3)
	require.True(t, ok)
	assert.Equal(t, SourceIndex, notes.Source)
	assert.Equal(t, 3, notes.Attribute.Index)

	amount, ok := table.Column(2)
	require.True(t, ok)
	assert.Equal(t, SourceName, amount.Source)
	assert.Equal(t, match.TierExact, amount.Tier)
	assert.Equal(t, "Amount", amount.HeaderValue)

	_, ok = table.Column(1)
	assert.False(t, ok)
}

func TestResolve_HeaderTiers(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   int
		tier   match.Tier
	}{
		{name: "exact beats fold", header: []string{"ORDER ID", "Order ID"}, want: 1, tier: match.TierExact},
		{name: "fold beats normalized", header: []string{"order_id", "order id"}, want: 1, tier: match.TierFold},
		{name: "normalized", header: []string{"Name", "order-id"}, want: 1, tier: match.TierNormalized},
		{name: "first physical column within a tier", header: []string{"ORDER ID", "order id"}, want: 0, tier: match.TierFold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := Resolve(Request{
				Header:     headerOf(tt.header...),
				HasHeader:  true,
				Attributes: []column.Attribute{named("ID", "Order ID")},
			})
			require.NoError(t, err)
			require.Len(t, table.Columns, 1)
			assert.Equal(t, tt.want, table.Columns[0].Index)
			assert.Equal(t, tt.tier, table.Columns[0].Tier)
		})
	}
}

func TestResolve_DeclarationOrderWinsTies(t *testing.T) {
	table, err := Resolve(Request{
		Header:    headerOf("Name", "Name"),
		HasHeader: true,
		Attributes: []column.Attribute{
			named("First", "Name"),
			named("Second", "Name"),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, map[int]string{0: "First", 1: "Second"}, keysOf(table))
}

func TestResolve_Diagnostics(t *testing.T) {
	table, err := Resolve(Request{
		TypeName:  "Order",
		Header:    headerOf("Customer", "Amount"),
		HasHeader: true,
		Attributes: []column.Attribute{
			named("Client", "Custmer"),
			indexed("Notes", 5),
		},
	})
	require.NoError(t, err)

	assert.Empty(t, table.Columns)
	require.Len(t, table.Diagnostics.Warnings, 2)

	outOfRange := table.Diagnostics.Warnings[0]
	assert.Equal(t, diagnostic.CodeIndexOutOfRange, outOfRange.Code)
	assert.Equal(t, "Notes", outOfRange.Column)

	missing := table.Diagnostics.Warnings[1]
	assert.Equal(t, diagnostic.CodeColumnNotFound, missing.Code)
	assert.Equal(t, []string{"Customer"}, missing.Suggestions)
	assert.Contains(t, table.Warnings()[1], "did you mean Customer?")
}

func TestResolve_IgnoredClaimsColumn(t *testing.T) {
	ignored := named("Secret", "Secret")
	ignored.Ignored = column.True

	var offered []string

	table, err := Resolve(Request{
		Header:     headerOf("Secret", "Extra"),
		HasHeader:  true,
		Attributes: []column.Attribute{ignored},
		Filter: func(col *column.Info) bool {
			offered = append(offered, col.Attribute.Name)
			return false
		},
	})
	require.NoError(t, err)

	assert.Empty(t, table.Columns)
	assert.Equal(t, []string{"Extra"}, offered, "ignored columns are never offered to the filter")
	assert.Empty(t, table.Diagnostics.Warnings)
}

func TestResolve_NoHeader(t *testing.T) {
	table, err := Resolve(Request{
		Header:    nil,
		HasHeader: false,
		Attributes: []column.Attribute{
			indexed("Far", 40),
			named("Name", "Name"),
		},
		Filter:  func(*column.Info) bool { return true },
		Dynamic: true,
	})
	require.NoError(t, err)

	require.Len(t, table.Columns, 1)
	assert.Equal(t, 40, table.Columns[0].Index, "width is not checked without a header")
	assert.True(t, table.Columns[0].Header.IsBlank())
	assert.Empty(t, table.Diagnostics.Warnings)
	require.Len(t, table.Diagnostics.Infos, 1)
	assert.Equal(t, diagnostic.CodeColumnNotFound, table.Diagnostics.Infos[0].Code)
}

func TestResolve_Filter(t *testing.T) {
	serial := 45000.0
	day := time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)

	take := func(*column.Info, any) bool { return true }

	table, err := Resolve(Request{
		Header:     []sheet.Value{sheet.String("Name"), sheet.Number(serial), sheet.String("Skip"), sheet.Number(45001)},
		HasHeader:  true,
		Attributes: []column.Attribute{named("Name", "Name")},
		Filter: func(col *column.Info) bool {
			f, ok := col.HeaderValue.(float64)
			if !ok {
				return false
			}

			if f == serial {
				col.HeaderValue = day
			}

			return true
		},
		FilterTake: take,
	})
	require.NoError(t, err)

	require.Len(t, table.Columns, 3)
	assert.Equal(t, map[int]string{0: "Name", 1: "", 3: ""}, keysOf(table))

	first, ok := table.Column(1)
	require.True(t, ok)
	assert.Equal(t, SourceFilter, first.Source)
	assert.Equal(t, day, first.HeaderValue, "a filter may reinterpret the header")
	assert.Equal(t, sheet.Number(serial), first.Header)
	assert.Equal(t, "45000", first.Attribute.Name)
	assert.NotNil(t, first.Attribute.TryTake)
	assert.Nil(t, first.Attribute.TryPut)

	second, ok := table.Column(3)
	require.True(t, ok)
	assert.InDelta(t, 45001.0, second.HeaderValue, 0)

	require.Len(t, table.Diagnostics.Infos, 1)
	assert.Equal(t, diagnostic.CodeFilterRejected, table.Diagnostics.Infos[0].Code)
}

func TestResolve_FilterPanic(t *testing.T) {
	_, err := Resolve(Request{
		Header:    headerOf("A"),
		HasHeader: true,
		Filter:    func(*column.Info) bool { panic("boom") },
	})
	require.ErrorIs(t, err, ErrFilterPanic)
	assert.ErrorContains(t, err, "boom")
}

func TestResolve_Dynamic(t *testing.T) {
	slot := column.NewName("Total").WithIndex(column.NoIndex)
	slot.PropertyName = "sum"

	table, err := Resolve(Request{
		Header:     headerOf("Name", "", "Total", "Name", "Age"),
		HasHeader:  true,
		Attributes: []column.Attribute{slot},
		Dynamic:    true,
	})
	require.NoError(t, err)

	keys := map[int]string{}
	for _, c := range table.Columns {
		keys[c.Index] = c.Key
	}

	assert.Equal(t, map[int]string{0: "Name", 2: "sum", 4: "Age"}, keys)

	total, ok := table.Column(2)
	require.True(t, ok)
	assert.Equal(t, SourceName, total.Source)

	age, ok := table.Column(4)
	require.True(t, ok)
	assert.Equal(t, SourceDynamic, age.Source)

	require.Len(t, table.Diagnostics.Warnings, 1)
	assert.Equal(t, diagnostic.CodeDuplicateHeader, table.Diagnostics.Warnings[0].Code)
}

func TestResolve_DynamicWithFilter(t *testing.T) {
	table, err := Resolve(Request{
		Header:    []sheet.Value{sheet.String("Keep"), sheet.String("Drop"), sheet.Number(45000)},
		HasHeader: true,
		Dynamic:   true,
		Filter: func(col *column.Info) bool {
			if col.Attribute.Name == "Drop" {
				return false
			}

			if _, ok := col.HeaderValue.(float64); ok {
				col.HeaderValue = "serial"
			}

			return true
		},
	})
	require.NoError(t, err)

	keys := map[int]string{}
	for _, c := range table.Columns {
		keys[c.Index] = c.Key
		assert.Equal(t, SourceDynamic, c.Source)
	}

	assert.Equal(t, map[int]string{0: "Keep", 2: "serial"}, keys)
}

func TestTable_Clone(t *testing.T) {
	table, err := Resolve(Request{
		Header:     headerOf("Name", "Age"),
		HasHeader:  true,
		Attributes: []column.Attribute{named("Name", "Name"), named("Lost", "Lots")},
	})
	require.NoError(t, err)

	clone := table.Clone()
	clone.Columns[0].HeaderValue = "changed"
	clone.Diagnostics.AddWarning(diagnostic.CodeDuplicateHeader, "x", "", "")

	assert.Equal(t, "Name", table.Columns[0].HeaderValue)
	assert.Len(t, table.Diagnostics.Warnings, 1)
	assert.Len(t, clone.Diagnostics.Warnings, 2)
}

func TestColumn_Info(t *testing.T) {
	c := Column{Index: 2, HeaderValue: "H", Attribute: named("P", "H").WithIndex(2)}

	info := c.Info(7)
	assert.Equal(t, "H", info.HeaderValue)
	assert.Equal(t, 7, info.RowNumber)
	assert.Nil(t, info.CurrentValue)

	info.Attribute.Name = "mutated"
	assert.Equal(t, "H", c.Attribute.Name)
}

func TestSource_String(t *testing.T) {
	assert.Equal(t, "index", SourceIndex.String())
	assert.Equal(t, "name", SourceName.String())
	assert.Equal(t, "filter", SourceFilter.String())
	assert.Equal(t, "dynamic", SourceDynamic.String())
	assert.Equal(t, "unknown", Source(42).String())
}
