package object

import (
	"iter"

	"protowalk/pkg/value"
)

// PropertyStore holds the own properties of a single object in insertion
// order. Overwriting a name keeps its original position.
type PropertyStore struct {
	values    map[string]value.Value
	propNames []string
}

func newPropertyStore() *PropertyStore {
	return &PropertyStore{values: make(map[string]value.Value)}
}

// Set inserts or overwrites an own entry.
func (s *PropertyStore) Set(name string, v value.Value) {
	if _, exists := s.values[name]; !exists {
		s.propNames = append(s.propNames, name)
	}
	s.values[name] = v
}

// Get returns the own value for name. ok is false when the name is absent.
func (s *PropertyStore) Get(name string) (value.Value, bool) {
	v, ok := s.values[name]
	if !ok {
		return value.Undefined(), false
	}
	return v, true
}

// Has reports whether name is an own entry.
func (s *PropertyStore) Has(name string) bool {
	_, ok := s.values[name]
	return ok
}

// Delete removes an own entry. Absent names are ignored.
func (s *PropertyStore) Delete(name string) {
	if _, exists := s.values[name]; !exists {
		return
	}
	delete(s.values, name)
	for i, n := range s.propNames {
		if n == name {
			copy(s.propNames[i:], s.propNames[i+1:])
			s.propNames = s.propNames[:len(s.propNames)-1]
			break
		}
	}
}

// Names yields own names in insertion order. Each range over the result
// starts from the beginning.
func (s *PropertyStore) Names() iter.Seq[string] {
	return func(yield func(string) bool) {
		for i := 0; i < len(s.propNames); i++ {
			if !yield(s.propNames[i]) {
				return
			}
		}
	}
}

// Keys returns a copy of the own names in insertion order.
func (s *PropertyStore) Keys() []string {
	keys := make([]string, len(s.propNames))
	copy(keys, s.propNames)
	return keys
}

// Len returns the number of own entries.
func (s *PropertyStore) Len() int { return len(s.propNames) }
