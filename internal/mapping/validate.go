package mapping

import (
	"fmt"
	"slices"
	"sort"

	"sheet-mapper/internal/diagnostic"
	"sheet-mapper/internal/match"
	"sheet-mapper/options"
)

// Validate checks a mapping file. known maps every type the file may name to
// its property names; a nil entry marks a dynamic type whose slots are free.
// With a nil known map only structural checks run.
func Validate(mf *File, known map[string][]string) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if mf == nil {
		res.AddError("mapping_is_nil", "mapping file is nil", "", "")
		return res
	}

	if mf.Version != CurrentVersion {
		res.AddError("unsupported_version", fmt.Sprintf("unsupported version %q", mf.Version), "", "")
	}

	validateOptions(res, mf.Options)

	for typeName, format := range mf.Formats {
		if format == "" {
			res.AddWarning("empty_format", "format is empty", typeName, "")
		}
	}

	typeNames := make([]string, 0, len(known))
	for name := range known {
		typeNames = append(typeNames, name)
	}

	sort.Strings(typeNames)

	seenTypes := map[string]struct{}{}

	for i := range mf.Types {
		tm := &mf.Types[i]
		if tm.Name == "" {
			res.AddError("missing_type_name", fmt.Sprintf("types[%d] has no name", i), "", "")
			continue
		}

		if _, ok := seenTypes[tm.Name]; ok {
			res.AddError("duplicate_type", fmt.Sprintf("type %q is declared twice", tm.Name), tm.Name, "")
			continue
		}

		seenTypes[tm.Name] = struct{}{}

		if known == nil {
			validateTypeMapping(res, tm, nil, true)
			continue
		}

		props, ok := known[tm.Name]
		if !ok {
			res.AddError("type_not_found", fmt.Sprintf("type %q is not registered", tm.Name), tm.Name, "")
			res.Errors[len(res.Errors)-1].Suggestions = match.Suggest(tm.Name, typeNames, match.DefaultSuggestions)

			continue
		}

		validateTypeMapping(res, tm, props, props == nil)
	}

	return res
}

func validateOptions(res *diagnostic.Diagnostics, opts *Options) {
	if opts == nil {
		return
	}

	if opts.HeaderRow != nil && *opts.HeaderRow < 0 {
		res.AddError("invalid_header_row", fmt.Sprintf("header_row %d is negative", *opts.HeaderRow), "", "")
	}

	if _, err := options.ParseCategories(opts.Conversions); err != nil {
		res.AddError("invalid_conversion", err.Error(), "", "")
	}
}

func validateTypeMapping(res *diagnostic.Diagnostics, tm *TypeMapping, props []string, free bool) {
	check := func(code, property string) {
		if free || slices.Contains(props, property) {
			return
		}

		res.AddError(code, fmt.Sprintf("property %q does not exist", property), tm.Name, property)
		res.Errors[len(res.Errors)-1].Suggestions = match.Suggest(property, props, match.DefaultSuggestions)
	}

	for _, p := range tm.Ignore {
		check(diagnostic.CodeUnknownProperty, p)
	}

	seen := map[string]int{}

	for i := range tm.Columns {
		cm := &tm.Columns[i]
		if cm.Property == "" {
			res.AddError("missing_property", fmt.Sprintf("columns[%d] has no property", i), tm.Name, cm.Column.String())
			continue
		}

		check(diagnostic.CodeUnknownProperty, cm.Property)

		if prev, ok := seen[cm.Property]; ok {
			res.AddWarning("duplicate_property",
				fmt.Sprintf("columns[%d] repeats columns[%d]; later entries are merged over earlier ones", i, prev),
				tm.Name, cm.Property)
		}

		seen[cm.Property] = i

		if cm.Column.IsZero() && cm.Format == "" && !cm.Ignore &&
			cm.IgnoreErrors == nil && cm.LastNonBlank == nil {
			res.AddWarning("empty_column_mapping", "mapping sets nothing", tm.Name, cm.Property)
		}
	}
}
