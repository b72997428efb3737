// SPDX-License-Identifier: Apache-2.0

package rstream

import "github.com/bantling/compgraph/record"

// teeBuffer is the shared backing store behind every consumer returned by
// Tee: the first consumer to ask for an index beyond what's buffered pulls
// from source and appends, so however the consumers interleave their
// reads, each record is pulled from source exactly once.
type teeBuffer struct {
	source *Stream
	buf    []record.Record
	err    error
	done   bool
}

func (t *teeBuffer) at(i int) (record.Record, bool, error) {
	for i >= len(t.buf) {
		if t.done {
			return nil, false, t.err
		}

		if !t.source.Next() {
			t.done = true
			t.err = t.source.Err()
			return nil, false, t.err
		}

		t.buf = append(t.buf, t.source.Value())
	}

	return t.buf[i], true, nil
}

// Tee splits source into n independent Streams, each iterating the same
// sequence of Records from the start. This is the engine's answer to Open
// Question (iii): a source binding consumed by both sides of a Join need
// not be restartable by the caller, because the first consumer to read it
// within a Run transparently tees it so later consumers see the same
// Stream. Every returned Stream must eventually be drained (or abandoned)
// independently; none of them re-reads source directly.
func Tee(source *Stream, n int) []*Stream {
	factory := LazyTee(source)
	streams := make([]*Stream, n)
	for c := 0; c < n; c++ {
		streams[c] = factory()
	}
	return streams
}

// LazyTee wraps source in a shared buffer and returns a factory that
// produces a fresh independent consumer Stream each time it is called,
// without requiring the consumer count to be known upfront. Every
// consumer, the first included, reads through the shared buffer, so each
// record pulled from source stays buffered while the factory or any of its
// consumers is reachable, whether one consumer is created or several.
func LazyTee(source *Stream) func() *Stream {
	shared := &teeBuffer{source: source}
	return func() *Stream {
		idx := 0
		return New(func() (record.Record, bool, error) {
			r, ok, err := shared.at(idx)
			if ok {
				idx++
			}
			return r, ok, err
		})
	}
}
