package column

import (
	"errors"
	"fmt"
)

// ErrNoKey is returned when merging an Attribute that is bound to neither a
// property nor a dynamic property name.
var ErrNoKey = errors.New("attribute has no property key")

// Set is the authoritative, per-property set of attributes. Keys keep their
// first-merge order so that repeated runs over the same registration
// sequence produce the same table.
type Set struct {
	keys  []string
	attrs map[string]Attribute
}

// NewSet creates an empty Set.
func NewSet() *Set {
	return &Set{attrs: make(map[string]Attribute)}
}

// Len returns the number of properties in the set.
func (s *Set) Len() int {
	return len(s.keys)
}

// Get returns the attribute stored for key.
func (s *Set) Get(key string) (Attribute, bool) {
	a, ok := s.attrs[key]
	return a, ok
}

// Attributes returns copies of all attributes in merge order.
func (s *Set) Attributes() []Attribute {
	out := make([]Attribute, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, s.attrs[k])
	}

	return out
}

// Clone returns an independent copy of the set.
func (s *Set) Clone() *Set {
	c := &Set{
		keys:  append([]string(nil), s.keys...),
		attrs: make(map[string]Attribute, len(s.attrs)),
	}

	for k, v := range s.attrs {
		c.attrs[k] = v
	}

	return c
}

// Merge folds in into the set under in.Key().
//
// Without overwrite, an index already owned by another key is dropped from
// in before merging. When the merge leaves the key owning in's index, the
// index is cleared from every other key. The keys whose index was cleared are
// returned in merge order.
func (s *Set) Merge(in Attribute, overwrite bool) ([]string, error) {
	key := in.Key()
	if key == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoKey, in)
	}

	isIndexSet := in.Index >= 0

	if isIndexSet && !overwrite && s.ownerOf(in.Index, key) != "" {
		in.Index = NoIndex
		isIndexSet = false
	}

	if existing, ok := s.attrs[key]; ok {
		isIndexSet = isIndexSet && (existing.Index != in.Index || overwrite)
		existing = existing.MergeFrom(in, overwrite)
		isIndexSet = isIndexSet && existing.Index == in.Index
		s.attrs[key] = existing
	} else {
		s.keys = append(s.keys, key)
		s.attrs[key] = in
	}

	if !isIndexSet {
		return nil, nil
	}

	var cleared []string

	for _, k := range s.keys {
		if k == key {
			continue
		}

		if a := s.attrs[k]; a.Index == in.Index {
			s.attrs[k] = a.WithIndex(NoIndex)
			cleared = append(cleared, k)
		}
	}

	return cleared, nil
}

// ownerOf returns the key other than self that owns index, or "".
func (s *Set) ownerOf(index int, self string) string {
	for _, k := range s.keys {
		if k != self && s.attrs[k].Index == index {
			return k
		}
	}

	return ""
}
