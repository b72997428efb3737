// SPDX-License-Identifier: Apache-2.0

package ops

import (
	"github.com/bantling/compgraph/internal/errs"
	"github.com/bantling/compgraph/record"
	"github.com/bantling/compgraph/rstream"
	"github.com/bantling/compgraph/value"
)

// Reducer consumes one maximal contiguous same-key group as a sub-stream
// and produces a lazy sequence of output Records for that group. This is
// the closest of the five kernels to the teacher's Finisher.GroupBy
// (stream/finisher.go), except GroupBy collects every group into memory
// before calling its accumulator, where Reduce hands the callback a live
// sub-stream instead so a group can be processed without buffering it.
type Reducer func(group *rstream.Stream) *rstream.Stream

// cursor is a one-record look-ahead buffer over a Stream, the minimum
// buffering Reduce needs to detect a group boundary without over-reading:
// CORE §4.5 caps the engine's own buffering at exactly this one record.
type cursor struct {
	input       *rstream.Stream
	buffered    record.Record
	hasBuffered bool
	exhausted   bool
	err         error
}

func (c *cursor) peek() (record.Record, bool, error) {
	if !c.hasBuffered && !c.exhausted {
		if c.input.Next() {
			c.buffered = c.input.Value()
			c.hasBuffered = true
		} else {
			c.err = c.input.Err()
			c.exhausted = true
		}
	}

	if c.hasBuffered {
		return c.buffered, true, nil
	}
	return nil, false, c.err
}

func (c *cursor) pop() (record.Record, bool, error) {
	r, ok, err := c.peek()
	if ok {
		c.hasBuffered = false
	}
	return r, ok, err
}

// keysEqual reports whether two composite key tuples of equal length are
// value-equal field by field, surfacing a TypeMismatch if any pair of
// fields has incompatible tags - the same rule Sort's key comparison uses.
func keysEqual(op string, a, b []value.Value) (bool, error) {
	for i := range a {
		c, err := value.Compare(a[i], b[i])
		if err != nil {
			return false, errs.Wrap(err, errs.TypeMismatch, op, "comparing group key")
		}
		if c != 0 {
			return false, nil
		}
	}
	return true, nil
}

// Reduce groups input - which must already be sorted by keys, a precondition
// the engine documents but does not verify - into maximal contiguous runs of
// equal key, invokes reducer once per run with a sub-stream over that run,
// and forwards the reducer's output in order. Empty input produces empty
// output; a run of one record still invokes reducer once.
func Reduce(input *rstream.Stream, keys []string, reducer Reducer) *rstream.Stream {
	const op = "ops.Reduce"

	if len(keys) == 0 {
		return rstream.Failed(errs.New(errs.InvalidSpec, op, "reduce key list must be non-empty"))
	}

	cur := &cursor{input: input}

	var (
		currentOutput *rstream.Stream
		activeGroup   *rstream.Stream
		groupActive   bool
	)

	return rstream.New(func() (record.Record, bool, error) {
		for {
			if currentOutput != nil {
				if currentOutput.Next() {
					return currentOutput.Value(), true, nil
				}
				if err := currentOutput.Err(); err != nil {
					return nil, false, errs.Wrap(err, errs.CallbackFailure, op, "reducer callback failed")
				}
				currentOutput = nil
			}

			if groupActive {
				// The reducer may not have consumed every record of the
				// previous group; drain whatever it left behind so the
				// next group starts from a clean key boundary.
				for activeGroup.Next() {
				}
				if err := activeGroup.Err(); err != nil {
					return nil, false, err
				}
				groupActive = false
			}

			first, ok, err := cur.peek()
			if err != nil {
				return nil, false, err
			}
			if !ok {
				return nil, false, nil
			}

			groupKey := first.Key(keys)
			groupStream := rstream.New(func() (record.Record, bool, error) {
				r, ok, err := cur.peek()
				if err != nil {
					return nil, false, err
				}
				if !ok {
					return nil, false, nil
				}

				eq, err := keysEqual(op, r.Key(keys), groupKey)
				if err != nil {
					return nil, false, err
				}
				if !eq {
					return nil, false, nil
				}

				cur.pop()
				return r, true, nil
			})

			activeGroup = groupStream
			groupActive = true

			out := reducer(groupStream)
			if out == nil {
				out = rstream.Empty()
			}
			currentOutput = out
		}
	})
}
