// SPDX-License-Identifier: Apache-2.0

package record

import (
	"testing"

	"github.com/bantling/compgraph/value"
	"github.com/stretchr/testify/assert"
)

func TestGetAbsentIsNull(t *testing.T) {
	r := Of("a", value.OfInt(1))
	assert.True(t, r.Get("missing").IsNull())
	assert.False(t, r.Has("missing"))
	assert.True(t, r.Has("a"))
}

func TestWithDoesNotMutateOriginal(t *testing.T) {
	r := Of("a", value.OfInt(1))
	r2 := r.With("b", value.OfInt(2))

	assert.False(t, r.Has("b"))
	assert.True(t, r2.Has("b"))
}

func TestWithoutDoesNotMutateOriginal(t *testing.T) {
	r := Of("a", value.OfInt(1), "b", value.OfInt(2))
	r2 := r.Without("b")

	assert.True(t, r.Has("b"))
	assert.False(t, r2.Has("b"))
}

func TestMerge(t *testing.T) {
	r1 := Of("a", value.OfInt(1))
	r2 := Of("b", value.OfInt(2))

	m := Merge(r1, r2)
	assert.Equal(t, int64(1), mustInt(m.Get("a")))
	assert.Equal(t, int64(2), mustInt(m.Get("b")))
}

func TestKey(t *testing.T) {
	r := Of("x", value.OfInt(1), "y", value.OfString("z"))
	key := r.Key([]string{"x", "y", "missing"})

	assert.Len(t, key, 3)
	assert.True(t, key[0].Equal(value.OfInt(1)))
	assert.True(t, key[1].Equal(value.OfString("z")))
	assert.True(t, key[2].IsNull())
}

func TestEqual(t *testing.T) {
	r1 := Of("a", value.OfInt(1))
	r2 := Of("a", value.OfInt(1))
	r3 := Of("a", value.OfInt(2))

	assert.True(t, r1.Equal(r2))
	assert.False(t, r1.Equal(r3))
}

func mustInt(v value.Value) int64 {
	i, _ := v.AsInt()
	return i
}
