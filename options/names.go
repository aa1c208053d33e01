package options

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownCategory = errors.New("unknown conversion category")

var categoryNames = []struct {
	name     string
	category CategoryEnum
}{
	{"safe_number", CategorySafeNumber},
	{"unsafe_number", CategoryUnsafeNumber},
	{"text_number", CategoryTextNumber},
	{"numeric_bool", CategoryNumericBool},
	{"textual_bool", CategoryTextualBool},
	{"datetime", CategoryDatetime},
	{"serial_date", CategorySerialDate},
	{"duration", CategoryDuration},
	{"day_fraction", CategoryDayFraction},
	{"enum_string", CategoryEnumString},
}

// ParseCategories combines category names as written in mapping files.
// "all" and "none" are accepted as well.
func ParseCategories(names []string) (CategoryEnum, error) {
	var res CategoryEnum

	for _, name := range names {
		switch n := strings.ToLower(strings.TrimSpace(name)); n {
		case "all":
			res |= CategoryAll
		case "none", "":
		default:
			c, ok := lookup(n)
			if !ok {
				return CategoryNone, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
			}

			res |= c
		}
	}

	return res, nil
}

// Names returns the names of the categories selected in e, in declaration
// order. CategoryAll is reported as "all".
func (e CategoryEnum) Names() []string {
	if e == CategoryAll {
		return []string{"all"}
	}

	var out []string

	for _, c := range categoryNames {
		if e.Has(c.category) {
			out = append(out, c.name)
		}
	}

	return out
}

// String joins Names with "|", or returns "none".
func (e CategoryEnum) String() string {
	if e == CategoryNone {
		return "none"
	}

	return strings.Join(e.Names(), "|")
}

func lookup(name string) (CategoryEnum, bool) {
	for _, c := range categoryNames {
		if c.name == name {
			return c.category, true
		}
	}

	return CategoryNone, false
}
