// SPDX-License-Identifier: Apache-2.0

package ops

import (
	"github.com/bantling/compgraph/internal/errs"
	"github.com/bantling/compgraph/record"
	"github.com/bantling/compgraph/rstream"
	"github.com/bantling/compgraph/value"
)

// Folder combines the running state with one input Record to produce the
// next state, the same left-fold shape as the teacher's Finisher.Reduce
// (stream/finisher.go): `result = f(result, it.Value())` for every element
// of the source, starting from an identity value.
type Folder func(state value.Value, r record.Record) (value.Value, error)

// Fold runs Folder once per input Record, strictly left-to-right, and
// produces a single output Record holding the final state - or the initial
// state, per Open Question (i), if input is empty. The output Stream is
// otherwise built the same way every other kernel builds its output: lazily,
// so nothing runs until the caller calls Next - the whole left fold happens
// inside that one Next call.
func Fold(input *rstream.Stream, folder Folder, initial value.Value) *rstream.Stream {
	const op = "ops.Fold"

	done := false

	return rstream.New(func() (record.Record, bool, error) {
		if done {
			return nil, false, nil
		}
		done = true

		state := initial
		for input.Next() {
			r := input.Value()
			next, err := folder(state, r)
			if err != nil {
				return nil, false, errs.Wrap(err, errs.CallbackFailure, op, "folder callback failed")
			}
			state = next
		}

		if err := input.Err(); err != nil {
			return nil, false, err
		}

		out, isa := state.AsMap()
		if !isa {
			return nil, false, errs.Newf(errs.InvalidSpec, op, "fold state must be a map-shaped value, got %s", state.Kind())
		}

		result := record.New()
		for k, v := range out {
			result[k] = v
		}
		return result, true, nil
	})
}
