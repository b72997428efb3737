// SPDX-License-Identifier: Apache-2.0

// Package record implements Record, the unordered field-name-to-Value
// mapping that flows through every Stream. Records are treated as
// immutable once emitted: the builder methods below return a new Record
// rather than mutating the receiver, except that a mapper callback is
// explicitly allowed to mutate the fresh Record the engine hands it,
// per the contract in CORE §3.
package record

import "github.com/bantling/compgraph/value"

// Record is a small, unordered mapping from field name to value.Value.
// Records are typically small; a plain map is the teacher's own choice
// for exactly this kind of small, string-keyed structure (see
// stream.MapToStruct's map[string]interface{} element type), so Record
// follows suit rather than introducing a sorted-array variant that
// nothing in the corpus demonstrates.
type Record map[string]value.Value

// New returns an empty Record ready to be populated.
func New() Record {
	return Record{}
}

// Of builds a Record from alternating field name / value.Value pairs, purely
// as a terse constructor for literals in tests and examples.
func Of(pairs ...interface{}) Record {
	r := New()
	for i := 0; i+1 < len(pairs); i += 2 {
		name := pairs[i].(string)
		v := pairs[i+1].(value.Value)
		r[name] = v
	}
	return r
}

// Get returns the value of field name, or value.NullValue if absent, per the
// "absent field is treated as null" rule used throughout sort/reduce/join
// key extraction.
func (r Record) Get(name string) value.Value {
	if v, present := r[name]; present {
		return v
	}
	return value.NullValue
}

// Has reports whether name is present in r (distinct from being present
// but holding an explicit null Value).
func (r Record) Has(name string) bool {
	_, present := r[name]
	return present
}

// Clone returns a shallow copy of r: a new top-level map, same Values.
// Values are themselves immutable, so a shallow copy is a full copy for
// every purpose the engine cares about.
func (r Record) Clone() Record {
	cp := make(Record, len(r))
	for k, v := range r {
		cp[k] = v
	}
	return cp
}

// With returns a clone of r with name set to v, leaving r unmodified.
func (r Record) With(name string, v value.Value) Record {
	cp := r.Clone()
	cp[name] = v
	return cp
}

// Without returns a clone of r with name removed, leaving r unmodified.
func (r Record) Without(name string) Record {
	cp := r.Clone()
	delete(cp, name)
	return cp
}

// Merge returns a new Record containing every field of r and other; a field
// present in both takes other's value. Merge is a plain union with no
// collision renaming - the join kernel applies its own collision rule
// (mergeRecords) and does not call Merge.
func Merge(r, other Record) Record {
	out := r.Clone()
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Key extracts the composite key tuple for the given ordered field names,
// used identically by Sort, Reduce, and Join.
func (r Record) Key(fields []string) []value.Value {
	key := make([]value.Value, len(fields))
	for i, f := range fields {
		key[i] = r.Get(f)
	}
	return key
}

// Equal reports whether r and other have exactly the same fields with
// structurally equal values.
func (r Record) Equal(other Record) bool {
	if len(r) != len(other) {
		return false
	}
	for k, v := range r {
		ov, present := other[k]
		if !present || !v.Equal(ov) {
			return false
		}
	}
	return true
}
