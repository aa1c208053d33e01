package mapping

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheet-mapper/column"
)

const sampleYAML = `
version: "1"
options:
  has_header: true
  header_row: 2
  conversions: safe_number
formats:
  time.Time: yyyy-mm-dd
types:
  - name: Order
    ignore: Internal
    columns:
      - property: Customer
        column: Client
      - property: Notes
        column: 6
        format: "@"
        last_non_blank: true
        ignore_errors: false
        overwrite: false
      - property: Year
        column: "2024"
`

const sampleTOML = `
version = "1"

[options]
has_header = true
header_row = 2
conversions = "safe_number"

[formats]
"time.Time" = "yyyy-mm-dd"

[[types]]
name = "Order"
ignore = "Internal"

  [[types.columns]]
  property = "Customer"
  column = "Client"

  [[types.columns]]
  property = "Notes"
  column = 6
  format = "@"
  last_non_blank = true
  ignore_errors = false
  overwrite = false

  [[types.columns]]
  property = "Year"
  column = "2024"
`

func assertSample(t *testing.T, mf *File) {
	t.Helper()

	assert.Equal(t, "1", mf.Version)
	require.NotNil(t, mf.Options)
	require.NotNil(t, mf.Options.HasHeader)
	assert.True(t, *mf.Options.HasHeader)
	require.NotNil(t, mf.Options.HeaderRow)
	assert.Equal(t, 2, *mf.Options.HeaderRow)
	assert.Nil(t, mf.Options.SkipBlankRows)
	assert.Equal(t, StringOrArray{"safe_number"}, mf.Options.Conversions)
	assert.Equal(t, map[string]string{"time.Time": "yyyy-mm-dd"}, mf.Formats)

	require.Len(t, mf.Types, 1)
	tm := mf.Types[0]
	assert.Equal(t, "Order", tm.Name)
	assert.Equal(t, StringOrArray{"Internal"}, tm.Ignore)
	require.Len(t, tm.Columns, 3)

	customer := tm.Columns[0]
	name, ok := customer.Column.Name()
	require.True(t, ok)
	assert.Equal(t, "Client", name)
	assert.True(t, customer.ShouldOverwrite())

	notes := tm.Columns[1]
	index, ok := notes.Column.Index()
	require.True(t, ok)
	assert.Equal(t, 6, index)
	assert.False(t, notes.ShouldOverwrite())

	attr := notes.Attribute()
	assert.Equal(t, 6, attr.Index)
	assert.Equal(t, "Notes", attr.PropertyName)
	assert.Equal(t, "@", attr.CustomFormat)
	assert.Equal(t, column.True, attr.UseLastNonBlankValue)
	assert.Equal(t, column.False, attr.IgnoreErrors)
	assert.Equal(t, column.Unset, attr.Ignored)

	year, ok := tm.Columns[2].Column.Name()
	require.True(t, ok, "quoted digits are header text")
	assert.Equal(t, "2024", year)
}

func TestParse_YAML(t *testing.T) {
	mf, err := Parse([]byte(sampleYAML), FormatYAML)
	require.NoError(t, err)
	assertSample(t, mf)
}

func TestParse_TOML(t *testing.T) {
	mf, err := Parse([]byte(sampleTOML), FormatTOML)
	require.NoError(t, err)
	assertSample(t, mf)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
	}{
		{name: "unknown yaml key", data: "types: []\ncolour: red\n", format: FormatYAML},
		{name: "unknown toml key", data: "colour = \"red\"\n", format: FormatTOML},
		{name: "negative yaml index", data: "types:\n  - name: A\n    columns:\n      - property: X\n        column: -1\n", format: FormatYAML},
		{name: "negative toml index", data: "[[types]]\nname = \"A\"\n[[types.columns]]\nproperty = \"X\"\ncolumn = -1\n", format: FormatTOML},
		{name: "yaml column list", data: "types:\n  - name: A\n    columns:\n      - property: X\n        column: [1]\n", format: FormatYAML},
		{name: "bad yaml", data: "types: [", format: FormatYAML},
		{name: "unknown format", data: "", format: "json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format)
			assert.Error(t, err)
		})
	}
}

func TestParse_Defaults(t *testing.T) {
	mf, err := Parse(nil, FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, CurrentVersion, mf.Version)
	assert.Empty(t, mf.Types)
}

func TestFormatOf(t *testing.T) {
	for path, want := range map[string]Format{
		"a.yaml":    FormatYAML,
		"dir/b.YML": FormatYAML,
		"c.toml":    FormatTOML,
	} {
		got, err := FormatOf(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatOf("mapping.json")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestMarshal_RoundTrip(t *testing.T) {
	for _, format := range []Format{FormatYAML, FormatTOML} {
		t.Run(string(format), func(t *testing.T) {
			mf, err := Parse([]byte(sampleYAML), FormatYAML)
			require.NoError(t, err)

			data, err := Marshal(mf, format)
			require.NoError(t, err)

			back, err := Parse(data, format)
			require.NoError(t, err, string(data))
			assertSample(t, back)
		})
	}
}

func TestWriteFile_LoadFile(t *testing.T) {
	mf := NewFile(TypeMapping{
		Name:    "Line",
		Columns: []ColumnMapping{{Property: "SKU", Column: NameKey("Article")}},
	})

	for _, name := range []string{"m.yaml", "m.toml"} {
		path := filepath.Join(t.TempDir(), name)
		require.NoError(t, WriteFile(mf, path))

		back, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, mf, back)
	}

	assert.ErrorIs(t, WriteFile(mf, filepath.Join(t.TempDir(), "m.txt")), ErrUnknownFormat)

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadFile_OrdersSample(t *testing.T) {
	mf, err := LoadFile(filepath.Join("..", "..", "examples", "orders", "mapping.yaml"))
	require.NoError(t, err)

	diags := Validate(mf, map[string][]string{
		"Order": {"ID", "Customer", "Status", "Amount", "OrderedAt", "Notes", "Internal", "UpdatedBy", "UpdatedAt"},
		"Line":  {"OrderID", "SKU", "Quantity", "Price"},
	})
	assert.True(t, diags.IsValid(), "%v", diags.Error())
	assert.Empty(t, diags.Warnings)
}

func TestColumnKey(t *testing.T) {
	assert.True(t, ColumnKey{}.IsZero())
	assert.True(t, NameKey("").IsZero())
	assert.Equal(t, column.New(), ColumnKey{}.Attribute())
	assert.Equal(t, column.NewIndex(0), IndexKey(0).Attribute())
	assert.Equal(t, column.NewName("A"), NameKey("A").Attribute())
	assert.Equal(t, "3", IndexKey(3).String())
	assert.Equal(t, `"A"`, NameKey("A").String())
	assert.Equal(t, "", ColumnKey{}.String())
}
