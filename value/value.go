// SPDX-License-Identifier: Apache-2.0

// Package value implements the tagged scalar union every Record field holds:
// 64-bit integers, 64-bit floats, booleans, strings, null, and two opaque
// carriers (ordered lists and string-keyed maps) that pass through the
// engine untouched for user callbacks to interpret.
//
// The comparison and equality helpers below play the role the teacher
// module's funcs.LessThan/funcs.EqualTo family plays for reflect-typed
// values, except Value already carries its own tag, so no reflection is
// needed to tell two values apart.
package value

import (
	"fmt"
	"math/big"

	"github.com/bantling/compgraph/internal/errs"
)

// Kind identifies which alternative of the Value union is populated.
type Kind int

const (
	// Null is the zero Kind: Value{} is the null value.
	Null Kind = iota
	Int
	Float
	Bool
	String
	// List is an opaque ordered sequence of Value, carried through untouched.
	List
	// Map is an opaque string-keyed mapping of Value, carried through untouched.
	Map
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Int:
		return "int"
	case Float:
		return "float"
	case Bool:
		return "bool"
	case String:
		return "string"
	case List:
		return "list"
	case Map:
		return "map"
	default:
		return "unknown"
	}
}

// Value is an immutable tagged scalar (or opaque compound) value.
type Value struct {
	kind Kind
	i    int64
	f    float64
	b    bool
	s    string
	list []Value
	mp   map[string]Value
}

// NullValue is the singular null Value, returned wherever a field is absent.
var NullValue = Value{kind: Null}

// OfInt constructs an Int Value.
func OfInt(i int64) Value { return Value{kind: Int, i: i} }

// OfFloat constructs a Float Value.
func OfFloat(f float64) Value { return Value{kind: Float, f: f} }

// OfBool constructs a Bool Value.
func OfBool(b bool) Value { return Value{kind: Bool, b: b} }

// OfString constructs a String Value.
func OfString(s string) Value { return Value{kind: String, s: s} }

// OfList constructs a List Value from a copy of items, so later mutation of
// the caller's slice cannot reach back into the Value.
func OfList(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)
	return Value{kind: List, list: cp}
}

// OfMap constructs a Map Value from a shallow copy of m.
func OfMap(m map[string]Value) Value {
	cp := make(map[string]Value, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Value{kind: Map, mp: cp}
}

// Kind returns which alternative of the union is populated.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is the null value.
func (v Value) IsNull() bool { return v.kind == Null }

// AsInt returns the wrapped int64 and true, or (0, false) if v is not Int.
func (v Value) AsInt() (int64, bool) {
	if v.kind != Int {
		return 0, false
	}
	return v.i, true
}

// AsFloat returns the wrapped float64 and true, or (0, false) if v is not Float.
func (v Value) AsFloat() (float64, bool) {
	if v.kind != Float {
		return 0, false
	}
	return v.f, true
}

// AsBool returns the wrapped bool and true, or (false, false) if v is not Bool.
func (v Value) AsBool() (bool, bool) {
	if v.kind != Bool {
		return false, false
	}
	return v.b, true
}

// AsString returns the wrapped string and true, or ("", false) if v is not String.
func (v Value) AsString() (string, bool) {
	if v.kind != String {
		return "", false
	}
	return v.s, true
}

// AsList returns the wrapped slice and true, or (nil, false) if v is not List.
func (v Value) AsList() ([]Value, bool) {
	if v.kind != List {
		return nil, false
	}
	return v.list, true
}

// AsMap returns the wrapped map and true, or (nil, false) if v is not Map.
func (v Value) AsMap() (map[string]Value, bool) {
	if v.kind != Map {
		return nil, false
	}
	return v.mp, true
}

// Equal reports structural equality: same Kind and same contents, with the
// single exception that Int and Float never compare equal to each other
// even when numerically equivalent (ordering coerces across the two, but
// equality does not - equality is definitionally "same tag, same value").
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case Null:
		return true
	case Int:
		return v.i == other.i
	case Float:
		return v.f == other.f
	case Bool:
		return v.b == other.b
	case String:
		return v.s == other.s
	case List:
		if len(v.list) != len(other.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(other.list[i]) {
				return false
			}
		}
		return true
	case Map:
		if len(v.mp) != len(other.mp) {
			return false
		}
		for k, mv := range v.mp {
			ov, present := other.mp[k]
			if !present || !mv.Equal(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Compare orders two Values of the same primitive tag: int and float compare
// numerically (mixing coerces to float), strings compare lexicographically by
// code point, bool is false < true, and null equals null. Null also compares
// below every scalar tag (Int, Float, Bool, String), so a composite key built
// from records where a field is present in some and absent in others - which
// Record.Get/Key surface as NullValue - still has a total order: this is what
// lets Sort and Reduce treat an absent key field as "sorts first", per CORE
// §3.3's "absent field treated as null" precondition. Comparing across
// incompatible non-null tags - or comparing a List/Map, which has no defined
// order even against null - returns a TypeMismatch error, as required at
// sort/join key evaluation time.
func Compare(a, b Value) (int, error) {
	const op = "value.Compare"

	if a.kind == Null && b.kind == Null {
		return 0, nil
	}

	if a.kind == Null && isOrderedScalar(b.kind) {
		return -1, nil
	}
	if b.kind == Null && isOrderedScalar(a.kind) {
		return 1, nil
	}

	switch {
	case a.kind == Int && b.kind == Int:
		return compareInt64(a.i, b.i), nil

	case a.kind == Float && b.kind == Float:
		return compareFloat64(a.f, b.f), nil

	case a.kind == Int && b.kind == Float:
		return compareFloat64(float64(a.i), b.f), nil

	case a.kind == Float && b.kind == Int:
		return compareFloat64(a.f, float64(b.i)), nil

	case a.kind == Bool && b.kind == Bool:
		if a.b == b.b {
			return 0, nil
		}
		if !a.b {
			return -1, nil
		}
		return 1, nil

	case a.kind == String && b.kind == String:
		switch {
		case a.s < b.s:
			return -1, nil
		case a.s > b.s:
			return 1, nil
		default:
			return 0, nil
		}

	default:
		return 0, errs.Newf(errs.TypeMismatch, op, "cannot compare %s and %s", a.kind, b.kind)
	}
}

// isOrderedScalar reports whether kind is one Null is defined to compare
// against (every scalar tag); List and Map have no defined order at all,
// so Null does not special-case them either - they fall through to the
// TypeMismatch default like any other cross-tag comparison involving them.
func isOrderedScalar(k Kind) bool {
	switch k {
	case Int, Float, Bool, String:
		return true
	default:
		return false
	}
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// String renders v for diagnostics; it is not a serialization format.
func (v Value) String() string {
	switch v.kind {
	case Null:
		return "null"
	case Int:
		return fmt.Sprintf("%d", v.i)
	case Float:
		return new(big.Float).SetFloat64(v.f).Text('g', -1)
	case Bool:
		return fmt.Sprintf("%t", v.b)
	case String:
		return v.s
	case List:
		return fmt.Sprintf("%v", v.list)
	case Map:
		return fmt.Sprintf("%v", v.mp)
	default:
		return "<invalid>"
	}
}
