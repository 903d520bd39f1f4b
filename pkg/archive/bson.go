package archive

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/matzehuels/chouse/pkg/errors"
	"github.com/matzehuels/chouse/pkg/record"
)

// ToBSON converts a record to an ordered BSON document.
func ToBSON(m *record.Map) (bson.D, error) {
	d := make(bson.D, 0, m.Len())
	for k, v := range m.All() {
		bv, err := toBSONValue(v)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "field %q", k)
		}
		d = append(d, bson.E{Key: k, Value: bv})
	}
	return d, nil
}

func toBSONValue(v record.Value) (any, error) {
	switch v.Kind() {
	case record.KindNull:
		return nil, nil
	case record.KindBool:
		b, _ := v.AsBool()
		return b, nil
	case record.KindNumber:
		n, _ := v.AsNumber()
		return toBSONNumber(n)
	case record.KindString:
		return v.Str(), nil
	case record.KindMap:
		m, _ := v.AsMap()
		return ToBSON(m)
	case record.KindList:
		l, _ := v.AsList()
		a := make(bson.A, 0, len(l))
		for _, e := range l {
			bv, err := toBSONValue(e)
			if err != nil {
				return nil, err
			}
			a = append(a, bv)
		}
		return a, nil
	}
	return nil, fmt.Errorf("unknown kind %s", v.Kind())
}

func toBSONNumber(n json.Number) (any, error) {
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", n)
	}
	return f, nil
}

// FromBSON converts a BSON document back to a record.
func FromBSON(d bson.D) (*record.Map, error) {
	m := record.NewMap()
	for _, e := range d {
		v, err := fromBSONValue(e.Value)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidResponse, err, "field %q", e.Key)
		}
		m.Set(e.Key, v)
	}
	return m, nil
}

func fromBSONValue(v any) (record.Value, error) {
	switch t := v.(type) {
	case nil:
		return record.Null(), nil
	case bool:
		return record.Bool(t), nil
	case int32:
		return record.Int(int64(t)), nil
	case int64:
		return record.Int(t), nil
	case float64:
		if math.IsInf(t, 0) || math.IsNaN(t) {
			return record.Value{}, fmt.Errorf("non-finite number %v", t)
		}
		return record.Number(json.Number(strconv.FormatFloat(t, 'g', -1, 64))), nil
	case string:
		return record.String(t), nil
	case primitive.DateTime:
		return record.String(t.Time().UTC().Format(time.RFC3339Nano)), nil
	case bson.D:
		m, err := FromBSON(t)
		if err != nil {
			return record.Value{}, err
		}
		return record.MapOf(m), nil
	case bson.M:
		// Unordered; only produced by foreign writers.
		d := make(bson.D, 0, len(t))
		for k, e := range t {
			d = append(d, bson.E{Key: k, Value: e})
		}
		return fromBSONValue(d)
	case bson.A:
		l := make([]record.Value, 0, len(t))
		for _, e := range t {
			rv, err := fromBSONValue(e)
			if err != nil {
				return record.Value{}, err
			}
			l = append(l, rv)
		}
		return record.List(l...), nil
	}
	return record.Value{}, fmt.Errorf("unsupported BSON type %T", v)
}
