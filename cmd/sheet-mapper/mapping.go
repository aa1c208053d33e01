package main

import (
	"errors"
	"fmt"
	"strings"

	"sheet-mapper/internal/mapping"
	"sheet-mapper/mapper"
)

var errNoType = errors.New("mapping type not found")

// applyMapping applies one type of the mapping file to dynamic rows. Only
// the column bindings and the options carry over; formats name Go types
// and have no effect on dynamic records.
func (f *sheetFlags) applyMapping(m *mapper.Mapper) error {
	if f.mapping == "" {
		if f.typeName != "" {
			return errors.New("--type requires --mapping")
		}

		return nil
	}

	mf, err := mapping.LoadFile(f.mapping)
	if err != nil {
		return err
	}

	tm, err := selectType(mf, f.typeName)
	if err != nil {
		return err
	}

	mf.Types = []mapping.TypeMapping{tm}
	mf.Formats = nil

	data, err := mapping.Marshal(mf, mapping.FormatYAML)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	return m.ApplyMappings(data, mapper.MappingYAML, mapper.Dynamic(tm.Name))
}

// selectType finds the named type. An empty name selects the only type of
// the file.
func selectType(mf *mapping.File, name string) (mapping.TypeMapping, error) {
	names := make([]string, 0, len(mf.Types))

	for _, tm := range mf.Types {
		if tm.Name == name || (name == "" && len(mf.Types) == 1) {
			return tm, nil
		}

		names = append(names, tm.Name)
	}

	if name == "" {
		return mapping.TypeMapping{}, fmt.Errorf("%w: choose one with --type (%s)", errNoType, strings.Join(names, ", "))
	}

	return mapping.TypeMapping{}, fmt.Errorf("%w: %q (have %s)", errNoType, name, strings.Join(names, ", "))
}
