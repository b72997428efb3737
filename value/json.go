// SPDX-License-Identifier: Apache-2.0

package value

import (
	"encoding/json"
	"fmt"
)

// FromJSON converts a decoded JSON value (as produced by a json.Decoder with
// UseNumber enabled) into a Value. json.Number is split into Int or Float
// depending on whether it parses as an integer, so "1" and "1.0" land on
// different Kinds the way the rest of the engine expects integers and
// floats to be distinguishable.
func FromJSON(raw interface{}) (Value, error) {
	switch t := raw.(type) {
	case nil:
		return NullValue, nil
	case bool:
		return OfBool(t), nil
	case string:
		return OfString(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return OfInt(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("value.FromJSON: %q is not a number: %w", t, err)
		}
		return OfFloat(f), nil
	case []interface{}:
		items := make([]Value, len(t))
		for i, elem := range t {
			v, err := FromJSON(elem)
			if err != nil {
				return Value{}, err
			}
			items[i] = v
		}
		return OfList(items...), nil
	case map[string]interface{}:
		mp := make(map[string]Value, len(t))
		for k, elem := range t {
			v, err := FromJSON(elem)
			if err != nil {
				return Value{}, err
			}
			mp[k] = v
		}
		return OfMap(mp), nil
	default:
		return Value{}, fmt.Errorf("value.FromJSON: unsupported type %T", raw)
	}
}

// ToJSON converts a Value into a plain Go value suitable for json.Marshal.
func ToJSON(v Value) interface{} {
	switch v.kind {
	case Null:
		return nil
	case Int:
		return v.i
	case Float:
		return v.f
	case Bool:
		return v.b
	case String:
		return v.s
	case List:
		out := make([]interface{}, len(v.list))
		for i, elem := range v.list {
			out[i] = ToJSON(elem)
		}
		return out
	case Map:
		out := make(map[string]interface{}, len(v.mp))
		for k, elem := range v.mp {
			out[k] = ToJSON(elem)
		}
		return out
	default:
		return nil
	}
}
