package analyze

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheet-mapper/column"
	"sheet-mapper/examples/orders"
	"sheet-mapper/internal/diagnostic"
)

func TestProperties(t *testing.T) {
	props, err := Properties(reflect.TypeFor[*orders.Order]())
	require.NoError(t, err)

	names := make([]string, 0, len(props))
	for _, p := range props {
		names = append(names, p.Name)
	}

	assert.Equal(t, []string{
		"ID", "Customer", "Status", "Amount", "OrderedAt", "Notes", "Internal", "UpdatedBy", "UpdatedAt",
	}, names)

	updatedBy, ok := PropertyByName(props, "UpdatedBy")
	require.True(t, ok)
	assert.Equal(t, []int{7, 0}, updatedBy.Index)

	_, ok = PropertyByName(props, "Audit")
	assert.False(t, ok, "embedded structs contribute their fields, not themselves")

	_, err = Properties(reflect.TypeFor[int]())
	assert.ErrorIs(t, err, column.ErrNotStruct)
}

func TestProperties_SkipsUnexported(t *testing.T) {
	type row struct {
		Name   string
		hidden int
	}

	props, err := Properties(reflect.TypeFor[row]())
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, "Name", props[0].Name)
}

func TestMarkers(t *testing.T) {
	props, err := Properties(reflect.TypeFor[orders.Order]())
	require.NoError(t, err)

	attrs, diags := Markers("orders.Order", props)
	require.False(t, diags.HasErrors(), "%v", diags.Error())
	require.Len(t, attrs, len(props), "every Order field carries a marker")

	byProperty := map[string]column.Attribute{}
	for _, a := range attrs {
		require.NotNil(t, a.Property)
		byProperty[a.Property.Name] = a
	}

	assert.Equal(t, "Order ID", byProperty["ID"].Name)
	assert.Equal(t, 6, byProperty["Notes"].Index)
	assert.True(t, byProperty["Notes"].UseLastNonBlankValue.IsTrue())
	assert.True(t, byProperty["Internal"].Ignored.IsTrue())
	assert.Equal(t, "m/d/yyyy", byProperty["OrderedAt"].CustomFormat)
	assert.Equal(t, "yyyy-mm-dd hh:mm", byProperty["UpdatedAt"].CustomFormat)
}

func TestMarkers_InvalidTag(t *testing.T) {
	type row struct {
		Good string `column:"Good"`
		Bad  string `column:"Bad,colour=red"`
		None string
	}

	props, err := Properties(reflect.TypeFor[row]())
	require.NoError(t, err)

	attrs, diags := Markers("row", props)
	require.Len(t, attrs, 1)
	assert.Equal(t, "Good", attrs[0].Name)

	require.Len(t, diags.Errors, 1)
	assert.Equal(t, diagnostic.CodeInvalidMarker, diags.Errors[0].Code)
	assert.Equal(t, "Bad", diags.Errors[0].Column)
}
