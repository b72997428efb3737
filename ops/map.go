// SPDX-License-Identifier: Apache-2.0

// Package ops implements the five operator kernels named in CORE §4: Map,
// Sort, Fold, Reduce, and Join. Each kernel is a pure function from one or
// two input Streams plus parameters to an output Stream - none of them
// hold state beyond what a single Stream instance needs to produce its
// output, matching the "each operator owns its buffers" resource model.
package ops

import (
	"fmt"

	"github.com/bantling/compgraph/internal/errs"
	"github.com/bantling/compgraph/record"
	"github.com/bantling/compgraph/rstream"
)

// Mapper transforms one input Record into a lazy sequence of zero or more
// output Records, mirroring the teacher's Stream.Map / Stream.FlatMap
// (stream/stream.go) collapsed into a single one-to-many shape, since a
// one-to-one mapper is just a Mapper whose Stream always yields one Record.
type Mapper func(r record.Record) (*rstream.Stream, error)

// Map concatenates the Mapper's output, in input order, for every Record of
// input. If the Mapper or the Stream it returns fails, the failure is
// wrapped as a CallbackFailure naming the offending input Record and
// poisons the output Stream from that point on, the same way a failed
// upstream pull poisons every stream built atop the teacher's iter.Iter.
func Map(input *rstream.Stream, mapper Mapper) *rstream.Stream {
	const op = "ops.Map"

	var (
		current   *rstream.Stream
		currentIn record.Record
	)

	return rstream.New(func() (record.Record, bool, error) {
		for {
			if current != nil {
				if current.Next() {
					return current.Value(), true, nil
				}

				if err := current.Err(); err != nil {
					return nil, false, errs.Wrap(err, errs.CallbackFailure, op, fmt.Sprintf("mapper sub-stream failed for input record %v", currentIn))
				}

				current = nil
			}

			if !input.Next() {
				return nil, false, input.Err()
			}

			in := input.Value()
			sub, err := mapper(in)
			if err != nil {
				return nil, false, errs.Wrap(err, errs.CallbackFailure, op, fmt.Sprintf("mapper callback failed for input record %v", in))
			}

			current = sub
			currentIn = in
		}
	})
}
