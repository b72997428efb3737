// SPDX-License-Identifier: Apache-2.0

package value

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// decoderConfig mirrors the teacher's mapstructureDecoderConfig in
// stream/stream_funcs.go: Squash lets embedded struct fields decode from
// the same map level as their containing struct.
var decoderConfig = mapstructure.DecoderConfig{Squash: true}

// ToStruct decodes a Map Value into target, a pointer to a struct, the same
// way the teacher's stream.MapToStruct decodes a map[string]interface{}
// stream element into a struct. It exists so a mapper/folder/reducer
// callback can pull a typed view out of an opaque nested Value without
// every caller hand-rolling its own mapstructure wiring.
func ToStruct(v Value, target interface{}) error {
	mp, isa := v.AsMap()
	if !isa {
		return fmt.Errorf("value.ToStruct: value is a %s, not a map", v.Kind())
	}

	plain := make(map[string]interface{}, len(mp))
	for k, elem := range mp {
		plain[k] = toPlain(elem)
	}

	cfg := decoderConfig
	cfg.Result = target
	decoder, err := mapstructure.NewDecoder(&cfg)
	if err != nil {
		return err
	}

	return decoder.Decode(plain)
}

// toPlain recursively unwraps a Value into the plain interface{} shape
// mapstructure decodes from (numbers, bools, strings, []interface{}, map[string]interface{}).
func toPlain(v Value) interface{} {
	switch v.Kind() {
	case Null:
		return nil
	case Int:
		i, _ := v.AsInt()
		return i
	case Float:
		f, _ := v.AsFloat()
		return f
	case Bool:
		b, _ := v.AsBool()
		return b
	case String:
		s, _ := v.AsString()
		return s
	case List:
		list, _ := v.AsList()
		out := make([]interface{}, len(list))
		for i, elem := range list {
			out[i] = toPlain(elem)
		}
		return out
	case Map:
		mp, _ := v.AsMap()
		out := make(map[string]interface{}, len(mp))
		for k, elem := range mp {
			out[k] = toPlain(elem)
		}
		return out
	default:
		return nil
	}
}
