package column

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// TagKey is the struct tag key holding static column markers.
const TagKey = "column"

var ErrInvalidTag = errors.New("invalid column tag")

// ParseTag parses the value of a `column` struct tag into an Attribute
// without a bound property. An empty tag yields an empty Attribute.
func ParseTag(tag string) (Attribute, error) {
	a := New()

	if tag == "" {
		return a, nil
	}

	if tag == "-" {
		a.Ignored = True
		return a, nil
	}

	name, rest, _ := strings.Cut(tag, ",")
	a.Name = strings.TrimSpace(name)

	for rest != "" {
		var opt string

		// format swallows everything after it, commas included
		if strings.HasPrefix(strings.TrimSpace(rest), "format=") {
			a.CustomFormat = strings.TrimPrefix(strings.TrimSpace(rest), "format=")
			break
		}

		opt, rest, _ = strings.Cut(rest, ",")
		opt = strings.TrimSpace(opt)

		key, value, hasValue := strings.Cut(opt, "=")

		switch key {
		case "":
			continue
		case "index":
			if !hasValue {
				return a, fmt.Errorf("%w %q: index needs a value", ErrInvalidTag, tag)
			}

			i, err := strconv.Atoi(value)
			if err != nil || i < 0 {
				return a, fmt.Errorf("%w %q: bad index %q", ErrInvalidTag, tag, value)
			}

			a.Index = i
		case "property":
			a.PropertyName = value
		case "ignore":
			a.Ignored = True
		case "ignoreerrors":
			a.IgnoreErrors = True
		case "lastnonblank":
			a.UseLastNonBlankValue = True
		default:
			return a, fmt.Errorf("%w %q: unknown option %q", ErrInvalidTag, tag, key)
		}
	}

	return a, nil
}
