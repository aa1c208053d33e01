package mapper

import (
	"fmt"
	"reflect"
	"time"

	"go.uber.org/zap"

	"sheet-mapper/column"
	"sheet-mapper/internal/common"
	"sheet-mapper/internal/mapping"
	"sheet-mapper/options"
)

// Dynamic names a mapping-file type applied to dynamic map[string]any
// records. Pass it as a sample to LoadMappings or ApplyMappings.
type Dynamic string

// MappingFormat is the serialization of a mapping file.
type MappingFormat = mapping.Format

const (
	MappingYAML = mapping.FormatYAML
	MappingTOML = mapping.FormatTOML
)

// builtinTypes are the type names a mapping file may attach formats to
// without a sample.
var builtinTypes = func() map[string]reflect.Type {
	types := []reflect.Type{
		reflect.TypeFor[string](),
		reflect.TypeFor[bool](),
		reflect.TypeFor[int](),
		reflect.TypeFor[int8](),
		reflect.TypeFor[int16](),
		reflect.TypeFor[int32](),
		reflect.TypeFor[int64](),
		reflect.TypeFor[uint](),
		reflect.TypeFor[uint8](),
		reflect.TypeFor[uint16](),
		reflect.TypeFor[uint32](),
		reflect.TypeFor[uint64](),
		reflect.TypeFor[float32](),
		reflect.TypeFor[float64](),
		reflect.TypeFor[time.Time](),
		reflect.TypeFor[time.Duration](),
	}

	out := make(map[string]reflect.Type, len(types))
	for _, t := range types {
		out[t.String()] = t
	}

	return out
}()

// LoadMappings applies the mapping file at path. The format follows the
// file extension (.yaml, .yml or .toml).
//
// samples tell the mapper which record types the file may name: a value or
// pointer of each struct type, and a Dynamic for each type name bound to
// dynamic records. A struct type is named by its bare or package-qualified
// name, e.g. "Order" or "orders.Order".
func (m *Mapper) LoadMappings(path string, samples ...any) error {
	mf, err := mapping.LoadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMapping, err)
	}

	return m.apply(mf, samples)
}

// ApplyMappings applies a mapping file held in memory.
func (m *Mapper) ApplyMappings(data []byte, format MappingFormat, samples ...any) error {
	mf, err := mapping.Parse(data, format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMapping, err)
	}

	return m.apply(mf, samples)
}

type sampleType struct {
	r *record
	// name is set for Dynamic samples.
	name string
}

func (m *Mapper) samples(samples []any) (map[string]sampleType, error) {
	out := make(map[string]sampleType)

	for _, s := range samples {
		if name, ok := s.(Dynamic); ok {
			r, err := m.recordOf(reflect.TypeFor[map[string]any]())
			if err != nil {
				return nil, err
			}

			out[string(name)] = sampleType{r: r, name: string(name)}

			continue
		}

		if s == nil {
			return nil, fmt.Errorf("%w: nil sample", ErrUnsupportedType)
		}

		r, err := m.recordOf(reflect.TypeOf(s))
		if err != nil {
			return nil, err
		}

		if r.dynamic {
			return nil, fmt.Errorf("%w: name dynamic samples with Dynamic", ErrUnsupportedType)
		}

		out[r.st.Name()] = sampleType{r: r}
		out[common.QualifiedName(r.st.PkgPath(), r.st.Name())] = sampleType{r: r}
	}

	return out, nil
}

func (m *Mapper) apply(mf *mapping.File, samples []any) error {
	types, err := m.samples(samples)
	if err != nil {
		return err
	}

	known := make(map[string][]string, len(types))
	for name, st := range types {
		if st.r.dynamic {
			known[name] = nil
		} else {
			known[name] = st.r.propertyNames()
		}
	}

	diags := mapping.Validate(mf, known)
	if diags.HasErrors() {
		return fmt.Errorf("%w: %w", ErrInvalidMapping, diags.Error())
	}

	for _, w := range diags.Warnings {
		m.log.Warn("mapping file", zap.String("warning", w.String()))
	}

	cfg, err := applyOptions(m.cfg, mf.Options)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMapping, err)
	}

	formats, err := formatTypes(mf.Formats, types)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidMapping, err)
	}

	for i := range mf.Types {
		tm := &mf.Types[i]
		if err := m.applyType(types[tm.Name].r, tm); err != nil {
			return fmt.Errorf("%w: type %s: %w", ErrInvalidMapping, tm.Name, err)
		}
	}

	m.cfg = cfg

	for t, format := range formats {
		m.formats[t] = format
	}

	m.invalidate()

	m.log.Debug("mapping applied", zap.Int("types", len(mf.Types)), zap.Int("formats", len(formats)))

	return nil
}

func applyOptions(cfg Config, opts *mapping.Options) (Config, error) {
	if opts == nil {
		return cfg, nil
	}

	if opts.HasHeader != nil {
		cfg.HasHeader = *opts.HasHeader
	}

	if opts.HeaderRow != nil {
		cfg.HeaderRow = *opts.HeaderRow
	}

	if opts.SkipBlankRows != nil {
		cfg.SkipBlankRows = *opts.SkipBlankRows
	}

	if opts.IgnoreErrors != nil {
		cfg.IgnoreErrors = *opts.IgnoreErrors
	}

	if !opts.Conversions.IsEmpty() {
		conv, err := options.ParseCategories(opts.Conversions)
		if err != nil {
			return cfg, err
		}

		cfg.Conversions = conv
	}

	return cfg, nil
}

// formatTypes resolves the type names of the formats section against the
// builtin types and the property types of the samples.
func formatTypes(formats map[string]string, samples map[string]sampleType) (map[reflect.Type]string, error) {
	if len(formats) == 0 {
		return nil, nil
	}

	byName := make(map[string]reflect.Type, len(builtinTypes))
	for name, t := range builtinTypes {
		byName[name] = t
	}

	for _, st := range samples {
		for _, p := range st.r.props {
			t := p.Type
			if t.Kind() == reflect.Pointer {
				t = t.Elem()
			}

			byName[t.String()] = t
		}
	}

	out := make(map[reflect.Type]string, len(formats))

	for name, format := range formats {
		t, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("formats: no type named %q", name)
		}

		out[t] = format
	}

	return out, nil
}

func (m *Mapper) applyType(r *record, tm *mapping.TypeMapping) error {
	for _, name := range tm.Ignore {
		attr := column.New()
		attr.Ignored = column.True

		if err := m.mapAttribute(r, attr, name, nil); err != nil {
			return err
		}
	}

	for i := range tm.Columns {
		cm := &tm.Columns[i]

		attr := cm.Attribute()
		attr.PropertyName = ""

		if err := m.mapAttribute(r, attr, cm.Property, []Option{Overwrite(cm.ShouldOverwrite())}); err != nil {
			return err
		}
	}

	return nil
}
