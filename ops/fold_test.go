// SPDX-License-Identifier: Apache-2.0

package ops

import (
	"testing"

	"github.com/bantling/compgraph/record"
	"github.com/bantling/compgraph/rstream"
	"github.com/bantling/compgraph/value"
	"github.com/stretchr/testify/assert"
)

func sumFolder(state value.Value, r record.Record) (value.Value, error) {
	mp, _ := state.AsMap()
	sx, _ := mp["x"].AsInt()
	rx, _ := r.Get("x").AsInt()
	return value.OfMap(map[string]value.Value{"x": value.OfInt(sx + rx)}), nil
}

func TestFoldSum(t *testing.T) {
	in := rstream.Of(
		record.Of("x", value.OfInt(1)),
		record.Of("x", value.OfInt(2)),
		record.Of("x", value.OfInt(3)),
	)

	initial := value.OfMap(map[string]value.Value{"x": value.OfInt(0)})
	out, err := Fold(in, sumFolder, initial).ToSlice()
	assert.NoError(t, err)
	assert.Len(t, out, 1)

	x, _ := out[0].Get("x").AsInt()
	assert.Equal(t, int64(6), x)
}

func TestFoldEmptyInputEmitsInitialState(t *testing.T) {
	initial := value.OfMap(map[string]value.Value{"x": value.OfInt(0)})
	out, err := Fold(rstream.Empty(), sumFolder, initial).ToSlice()
	assert.NoError(t, err)
	assert.Len(t, out, 1)

	x, _ := out[0].Get("x").AsInt()
	assert.Equal(t, int64(0), x)
}

func TestFoldCallbackFailure(t *testing.T) {
	failing := func(state value.Value, r record.Record) (value.Value, error) {
		return value.Value{}, assertError
	}

	in := rstream.Of(record.Of("x", value.OfInt(1)))
	_, err := Fold(in, failing, value.OfMap(nil)).ToSlice()
	assert.Error(t, err)
}

var assertError = &foldTestError{}

type foldTestError struct{}

func (e *foldTestError) Error() string { return "fold callback boom" }
