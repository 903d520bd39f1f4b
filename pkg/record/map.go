package record

import (
	"iter"
	"slices"
)

// Map is an insertion-ordered mapping from string keys to values.
//
// The zero Map is not usable; create one with [NewMap], [Empty] or [Parse].
// A Map is not safe for concurrent mutation. Records returned by the registry
// client are never mutated after construction and may be read concurrently.
type Map struct {
	keys []string
	vals map[string]Value
}

// NewMap returns an empty map ready for Set.
func NewMap() *Map {
	return &Map{vals: make(map[string]Value)}
}

// Empty returns the canonical empty record.
func Empty() *Map { return NewMap() }

// Len returns the number of entries. A nil map has length zero.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// IsEmpty reports whether m has no entries.
func (m *Map) IsEmpty() bool { return m.Len() == 0 }

// Keys returns the keys in order. The slice is a copy.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

// Has reports whether key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Value, bool) {
	if m == nil {
		return Value{}, false
	}
	v, ok := m.vals[key]
	return v, ok
}

// Set stores v under key. An existing key keeps its position; a new key is
// appended.
func (m *Map) Set(key string, v Value) {
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = v
}

// Delete removes key if present.
func (m *Map) Delete(key string) {
	if _, ok := m.vals[key]; !ok {
		return
	}
	delete(m.vals, key)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })
}

// All iterates over entries in order.
func (m *Map) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.vals[k]) {
				return
			}
		}
	}
}

// Clone returns a shallow copy: nested maps and lists are shared.
func (m *Map) Clone() *Map {
	out := &Map{
		keys: slices.Clone(m.keys),
		vals: make(map[string]Value, m.Len()),
	}
	for k, v := range m.All() {
		out.vals[k] = v
	}
	return out
}

// Equal reports whether m and o hold the same entries, ignoring order.
// A nil map equals an empty one.
func (m *Map) Equal(o *Map) bool {
	if m.Len() != o.Len() {
		return false
	}
	for k, v := range m.All() {
		ov, ok := o.Get(k)
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Interface converts m to a map[string]any, losing key order.
func (m *Map) Interface() map[string]any {
	out := make(map[string]any, m.Len())
	for k, v := range m.All() {
		out[k] = v.Interface()
	}
	return out
}
