// SPDX-License-Identifier: Apache-2.0

package ops

import (
	"errors"
	"testing"

	"github.com/bantling/compgraph/record"
	"github.com/bantling/compgraph/rstream"
	"github.com/bantling/compgraph/value"
	"github.com/stretchr/testify/assert"
)

func identityMapper(r record.Record) (*rstream.Stream, error) {
	return rstream.Of(r), nil
}

func TestMapIdentity(t *testing.T) {
	in := rstream.Of(
		record.Of("a", value.OfInt(1)),
		record.Of("a", value.OfInt(2)),
	)

	out, err := Map(in, identityMapper).ToSlice()
	assert.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestMapOneToMany(t *testing.T) {
	splitWords := func(r record.Record) (*rstream.Stream, error) {
		text, _ := r.Get("text").AsString()
		var recs []record.Record
		for _, w := range splitSpaces(text) {
			recs = append(recs, record.Of("word", value.OfString(w)))
		}
		return rstream.Of(recs...), nil
	}

	in := rstream.Of(record.Of("text", value.OfString("a b a")))
	out, err := Map(in, splitWords).ToSlice()
	assert.NoError(t, err)
	assert.Len(t, out, 3)
}

func TestMapOneToZero(t *testing.T) {
	dropAll := func(r record.Record) (*rstream.Stream, error) {
		return rstream.Empty(), nil
	}

	in := rstream.Of(record.Of("a", value.OfInt(1)))
	out, err := Map(in, dropAll).ToSlice()
	assert.NoError(t, err)
	assert.Empty(t, out)
}

func TestMapCallbackFailure(t *testing.T) {
	sentinel := errors.New("boom")
	failing := func(r record.Record) (*rstream.Stream, error) {
		return nil, sentinel
	}

	in := rstream.Of(record.Of("a", value.OfInt(1)))
	_, err := Map(in, failing).ToSlice()
	assert.Error(t, err)
}

func TestMapComposition(t *testing.T) {
	addOne := func(r record.Record) (*rstream.Stream, error) {
		i, _ := r.Get("a").AsInt()
		return rstream.Of(r.With("a", value.OfInt(i+1))), nil
	}
	double := func(r record.Record) (*rstream.Stream, error) {
		i, _ := r.Get("a").AsInt()
		return rstream.Of(r.With("a", value.OfInt(i*2))), nil
	}

	in := rstream.Of(record.Of("a", value.OfInt(3)))

	composed, err := Map(Map(in, addOne), double).ToSlice()
	assert.NoError(t, err)
	i, _ := composed[0].Get("a").AsInt()
	assert.Equal(t, int64(8), i) // (3+1)*2
}

func splitSpaces(s string) []string {
	var out []string
	start := -1
	for i, r := range s {
		if r == ' ' {
			if start >= 0 {
				out = append(out, s[start:i])
				start = -1
			}
		} else if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}
