package mapping

import (
	"fmt"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"

	"sheet-mapper/internal/common"
)

// --- StringOrArray methods ---

// UnmarshalYAML implements custom YAML unmarshaling for StringOrArray.
// Accepts either a single string or an array of strings.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string

		err := node.Decode(&arr)
		if err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("expected string or array, got %v", node.Kind)
	}
}

// MarshalYAML implements custom YAML marshaling for StringOrArray.
// Outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}

	return []string(s), nil
}

// UnmarshalTOML accepts a string or an array of strings.
func (s *StringOrArray) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case string:
		if v != "" {
			*s = StringOrArray{v}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case []any:
		arr := make(StringOrArray, 0, len(v))

		for _, e := range v {
			str, ok := e.(string)
			if !ok {
				return fmt.Errorf("expected string in array, got %T", e)
			}

			arr = append(arr, str)
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("expected string or array, got %T", data)
	}
}

// First returns the first element or empty string if empty.
func (s StringOrArray) First() string {
	if v, ok := common.First(s); ok {
		return v
	}

	return ""
}

// IsEmpty returns true if the array is empty.
func (s StringOrArray) IsEmpty() bool {
	return common.IsEmpty(s)
}

// Contains returns true if the array contains the given string.
func (s StringOrArray) Contains(str string) bool {
	return slices.Contains(s, str)
}

// --- ColumnKey methods ---

// UnmarshalYAML accepts an integer index or a header string. Quoted digits
// ("2024") are header text.
func (k *ColumnKey) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("expected column index or name, got %v", node.Kind)
	}

	if node.Tag == "!!int" {
		var i int

		err := node.Decode(&i)
		if err != nil {
			return err
		}

		return k.setIndex(int64(i))
	}

	var str string

	err := node.Decode(&str)
	if err != nil {
		return err
	}

	*k = NameKey(str)

	return nil
}

// MarshalYAML writes the index as an integer and the name as a string.
func (k ColumnKey) MarshalYAML() (any, error) {
	switch k.kind {
	case keyIndex:
		return k.index, nil
	case keyName:
		return k.name, nil
	default:
		return nil, nil
	}
}

// UnmarshalTOML accepts an integer index or a header string.
func (k *ColumnKey) UnmarshalTOML(data any) error {
	switch v := data.(type) {
	case int64:
		return k.setIndex(v)
	case string:
		*k = NameKey(v)
		return nil
	default:
		return fmt.Errorf("expected column index or name, got %T", data)
	}
}

// MarshalTOML writes the index as an integer and the name as a basic string.
// The zero key is written as an empty string.
func (k ColumnKey) MarshalTOML() ([]byte, error) {
	if k.kind == keyIndex {
		return []byte(strconv.Itoa(k.index)), nil
	}

	return []byte(strconv.Quote(k.name)), nil
}

func (k *ColumnKey) setIndex(i int64) error {
	if i < 0 {
		return fmt.Errorf("column index %d is negative", i)
	}

	*k = IndexKey(int(i))

	return nil
}
