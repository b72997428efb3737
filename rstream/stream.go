// SPDX-License-Identifier: Apache-2.0

// Package rstream implements Stream, the single-use pull iterator of
// Records that every operator kernel consumes and produces. It plays the
// same role the teacher module's iter.Iter plays for interface{} values:
// a function of shape func() (item, hasItem bool) wrapped so Next/Value
// can be called in the conventional two-step pull-iterator protocol, with
// one addition the teacher's Iter does not need - each step can also fail,
// so every Stream carries an error that poisons it for the remainder of
// its lifetime once set.
package rstream

import "github.com/bantling/compgraph/record"

// nextFunc returns the next Record, whether one was available, and any
// error encountered producing it. Once it returns (_, false, err) with a
// non-nil err, or (_, false, nil), it must never be called again.
type nextFunc func() (record.Record, bool, error)

// Stream is a finite, single-use, lazily produced sequence of Records.
type Stream struct {
	next       nextFunc
	nextCalled bool
	value      record.Record
	err        error
	exhausted  bool
}

// New wraps an arbitrary nextFunc in a Stream.
func New(next nextFunc) *Stream {
	return &Stream{next: next}
}

// Of wraps a fixed, already-in-memory slice of Records into a Stream,
// mirroring the teacher's iter.Of convenience constructor.
func Of(records ...record.Record) *Stream {
	idx := 0
	return New(func() (record.Record, bool, error) {
		if idx == len(records) {
			return nil, false, nil
		}
		r := records[idx]
		idx++
		return r, true, nil
	})
}

// Empty returns a Stream with no records.
func Empty() *Stream {
	return Of()
}

// Failed returns a Stream whose first Next() call surfaces err.
func Failed(err error) *Stream {
	return New(func() (record.Record, bool, error) {
		return nil, false, err
	})
}

// Next advances the Stream and reports whether a Value is available. Once
// Next returns false, it continues to return false; the caller must then
// check Err to distinguish normal end-of-stream from failure.
func (s *Stream) Next() bool {
	if s.exhausted {
		return false
	}

	if s.nextCalled {
		return true
	}

	r, hasNext, err := s.next()
	if err != nil {
		s.err = err
		s.exhausted = true
		return false
	}

	if !hasNext {
		s.exhausted = true
		return false
	}

	s.value = r
	s.nextCalled = true
	return true
}

// Value returns the Record retrieved by the prior call to Next. Panics if
// Next has not been called, or returned false, since the last Value call -
// the same contract the teacher's iter.Iter.Value enforces.
func (s *Stream) Value() record.Record {
	if !s.nextCalled {
		panic("rstream: Value called without a preceding successful Next")
	}
	s.nextCalled = false
	return s.value
}

// Err returns the error that ended the Stream, or nil if it ended normally
// (or has not ended yet).
func (s *Stream) Err() error {
	return s.err
}

// ToSlice drains the Stream into a slice, the operation Sort and the right
// side of Join need to fully materialize their input. Returns the first
// error encountered, if any.
func (s *Stream) ToSlice() ([]record.Record, error) {
	out := []record.Record{}
	for s.Next() {
		out = append(out, s.Value())
	}
	return out, s.Err()
}
