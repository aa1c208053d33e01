package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheet-mapper/internal/analyze"
)

func TestScaffold(t *testing.T) {
	info, err := analyze.LoadStruct("sheet-mapper/examples/orders", "Order")
	require.NoError(t, err)

	tm, err := Scaffold(info)
	require.NoError(t, err)

	assert.Equal(t, "orders.Order", tm.Name)
	assert.Equal(t, StringOrArray{"Internal"}, tm.Ignore)

	byProperty := map[string]ColumnMapping{}
	for _, cm := range tm.Columns {
		byProperty[cm.Property] = cm
	}

	assert.Len(t, byProperty, 8)
	assert.Equal(t, NameKey("Order ID"), byProperty["ID"].Column)
	assert.Equal(t, IndexKey(6), byProperty["Notes"].Column)
	require.NotNil(t, byProperty["Notes"].LastNonBlank)
	assert.True(t, *byProperty["Notes"].LastNonBlank)
	assert.Equal(t, "#,##0.00", byProperty["Amount"].Format)
	assert.Equal(t, NameKey("Updated By"), byProperty["UpdatedBy"].Column)

	line, err := analyze.LoadStruct("sheet-mapper/examples/orders", "Line")
	require.NoError(t, err)

	tm, err = Scaffold(line)
	require.NoError(t, err)
	require.Len(t, tm.Columns, 4)
	assert.Equal(t, NameKey("SKU"), tm.Columns[1].Column, "untagged fields map by name")

	res := Validate(NewFile(tm), map[string][]string{"orders.Line": {"OrderID", "SKU", "Quantity", "Price"}})
	assert.True(t, res.IsValid(), "%v", res.Error())
}

func TestScaffold_SkipsCollections(t *testing.T) {
	value := &analyze.TypeInfo{Kind: analyze.KindValue}

	info := &analyze.TypeInfo{
		ID:   analyze.TypeID{PkgPath: "example.com/inventory", Name: "Item"},
		Kind: analyze.KindStruct,
		Fields: []analyze.FieldInfo{
			{Name: "Name", Type: value, Index: []int{0}},
			{Name: "Sizes", Type: &analyze.TypeInfo{Kind: analyze.KindSlice, Elem: value}, Index: []int{1}},
			{Name: "Meta", Type: &analyze.TypeInfo{Kind: analyze.KindOther}, Index: []int{2}},
		},
	}

	tm, err := Scaffold(info)
	require.NoError(t, err)

	assert.Equal(t, "inventory.Item", tm.Name)
	require.Len(t, tm.Columns, 1)
	assert.Equal(t, "Name", tm.Columns[0].Property)
}
