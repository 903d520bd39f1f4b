package record

import (
	"encoding/json"
	"fmt"
)

// Kind identifies which variant a [Value] holds.
type Kind uint8

// Value kinds, mirroring the JSON data model.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindMap
	KindList
)

var kindNames = [...]string{"null", "bool", "number", "string", "map", "list"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Value is a JSON value. The zero Value is null.
//
// Values are immutable once built: constructors copy nothing, so callers must
// not modify a list or map after wrapping it.
type Value struct {
	kind Kind
	b    bool
	s    string // string payload or number text
	m    *Map
	l    []Value
}

// Null returns the null value.
func Null() Value { return Value{} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a JSON number without converting it to float64.
func Number(n json.Number) Value { return Value{kind: KindNumber, s: string(n)} }

// Int wraps an integer as a number.
func Int(n int64) Value { return Value{kind: KindNumber, s: fmt.Sprint(n)} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// MapOf wraps a map. A nil map is treated as empty.
func MapOf(m *Map) Value {
	if m == nil {
		m = NewMap()
	}
	return Value{kind: KindMap, m: m}
}

// List wraps a sequence of values.
func List(vs ...Value) Value { return Value{kind: KindList, l: vs} }

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean and whether v is a bool.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the number and whether v is a number.
func (v Value) AsNumber() (json.Number, bool) {
	if v.kind != KindNumber {
		return "", false
	}
	return json.Number(v.s), true
}

// AsString returns the string and whether v is a string.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.s, true
}

// AsMap returns the map and whether v is a map.
func (v Value) AsMap() (*Map, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.m, true
}

// AsList returns the list and whether v is a list.
func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return v.l, true
}

// Str returns the string payload, or "" for non-strings.
func (v Value) Str() string {
	s, _ := v.AsString()
	return s
}

// Equal reports whether v and o hold the same JSON value.
// Map comparison ignores key order; list comparison does not.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == o.b
	case KindNumber, KindString:
		return v.s == o.s
	case KindMap:
		return v.m.Equal(o.m)
	case KindList:
		if len(v.l) != len(o.l) {
			return false
		}
		for i := range v.l {
			if !v.l[i].Equal(o.l[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Interface converts v to the plain Go representation used by encoding/json
// (nil, bool, json.Number, string, map[string]any, []any).
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return json.Number(v.s)
	case KindString:
		return v.s
	case KindMap:
		return v.m.Interface()
	case KindList:
		out := make([]any, len(v.l))
		for i, e := range v.l {
			out[i] = e.Interface()
		}
		return out
	}
	return nil
}
