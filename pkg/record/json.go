package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrNotObject is returned by [Parse] and [Decode] when the document is valid
// JSON but its top level is not an object.
var ErrNotObject = errors.New("record: top-level JSON value is not an object")

// Parse decodes a JSON document whose top level is an object.
// A top-level null decodes to an empty record.
func Parse(data []byte) (*Map, error) {
	return Decode(bytes.NewReader(data))
}

// Decode reads a single JSON object from r. Trailing data after the object
// is an error.
func Decode(r io.Reader) (*Map, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("record: trailing data after JSON value")
	}

	switch v.kind {
	case KindMap:
		return v.m, nil
	case KindNull:
		return Empty(), nil
	}
	return nil, fmt.Errorf("%w (got %s)", ErrNotObject, v.kind)
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return Value{}, io.ErrUnexpectedEOF
		}
		return Value{}, err
	}

	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return Value{}, fmt.Errorf("record: unexpected delimiter %q", t)
	}
	return Value{}, fmt.Errorf("record: unexpected token %v", tok)
}

func decodeObject(dec *json.Decoder) (Value, error) {
	m := NewMap()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Value{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Value{}, fmt.Errorf("record: object key is %T, not string", tok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		m.Set(key, v)
	}
	// closing '}'
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return MapOf(m), nil
}

func decodeArray(dec *json.Decoder) (Value, error) {
	l := []Value{}
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return Value{}, err
		}
		l = append(l, v)
	}
	if _, err := dec.Token(); err != nil {
		return Value{}, err
	}
	return List(l...), nil
}

// MarshalJSON encodes m with its keys in order. A nil map encodes as {}.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := m.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON replaces the contents of m with a decoded JSON object.
func (m *Map) UnmarshalJSON(data []byte) error {
	decoded, err := Parse(data)
	if err != nil {
		return err
	}
	*m = *decoded
	return nil
}

// MarshalJSON encodes v, preserving map key order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes any JSON value into v.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	decoded, err := decodeValue(dec)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

func (m *Map) encode(buf *bytes.Buffer) error {
	buf.WriteByte('{')
	i := 0
	for k, v := range m.All() {
		if i > 0 {
			buf.WriteByte(',')
		}
		i++
		key, err := json.Marshal(k)
		if err != nil {
			return err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if err := v.encode(buf); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func (v Value) encode(buf *bytes.Buffer) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		if v.b {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case KindNumber:
		if v.s == "" {
			buf.WriteByte('0')
			return nil
		}
		if !json.Valid([]byte(v.s)) {
			return fmt.Errorf("record: invalid number %q", v.s)
		}
		buf.WriteString(v.s)
	case KindString:
		s, err := json.Marshal(v.s)
		if err != nil {
			return err
		}
		buf.Write(s)
	case KindMap:
		return v.m.encode(buf)
	case KindList:
		buf.WriteByte('[')
		for i, e := range v.l {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := e.encode(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		return fmt.Errorf("record: unknown kind %s", v.kind)
	}
	return nil
}
