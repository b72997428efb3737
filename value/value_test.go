// SPDX-License-Identifier: Apache-2.0

package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOfAndAs(t *testing.T) {
	i := OfInt(5)
	iv, isa := i.AsInt()
	assert.True(t, isa)
	assert.Equal(t, int64(5), iv)
	_, isa = i.AsFloat()
	assert.False(t, isa)

	f := OfFloat(1.5)
	fv, isa := f.AsFloat()
	assert.True(t, isa)
	assert.Equal(t, 1.5, fv)

	b := OfBool(true)
	bv, isa := b.AsBool()
	assert.True(t, isa)
	assert.True(t, bv)

	s := OfString("hi")
	sv, isa := s.AsString()
	assert.True(t, isa)
	assert.Equal(t, "hi", sv)

	assert.True(t, NullValue.IsNull())
}

func TestOfListCopies(t *testing.T) {
	items := []Value{OfInt(1), OfInt(2)}
	v := OfList(items...)

	items[0] = OfInt(99)

	list, _ := v.AsList()
	iv, _ := list[0].AsInt()
	assert.Equal(t, int64(1), iv)
}

func TestOfMapCopies(t *testing.T) {
	m := map[string]Value{"a": OfInt(1)}
	v := OfMap(m)

	m["a"] = OfInt(99)

	mp, _ := v.AsMap()
	iv, _ := mp["a"].AsInt()
	assert.Equal(t, int64(1), iv)
}

func TestEqual(t *testing.T) {
	assert.True(t, OfInt(1).Equal(OfInt(1)))
	assert.False(t, OfInt(1).Equal(OfInt(2)))
	// int and float never equal, even with the same numeric value
	assert.False(t, OfInt(1).Equal(OfFloat(1)))
	assert.True(t, NullValue.Equal(NullValue))
	assert.True(t, OfList(OfInt(1), OfInt(2)).Equal(OfList(OfInt(1), OfInt(2))))
	assert.False(t, OfList(OfInt(1)).Equal(OfList(OfInt(1), OfInt(2))))
	assert.True(t, OfMap(map[string]Value{"a": OfInt(1)}).Equal(OfMap(map[string]Value{"a": OfInt(1)})))
}

func TestCompareNumeric(t *testing.T) {
	c, err := Compare(OfInt(1), OfInt(2))
	assert.NoError(t, err)
	assert.Equal(t, -1, c)

	// mixing int and float coerces to float
	c, err = Compare(OfInt(2), OfFloat(2.0))
	assert.NoError(t, err)
	assert.Equal(t, 0, c)

	c, err = Compare(OfFloat(3.5), OfInt(3))
	assert.NoError(t, err)
	assert.Equal(t, 1, c)
}

func TestCompareStringsAndBools(t *testing.T) {
	c, err := Compare(OfString("a"), OfString("b"))
	assert.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = Compare(OfBool(false), OfBool(true))
	assert.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = Compare(NullValue, NullValue)
	assert.NoError(t, err)
	assert.Equal(t, 0, c)
}

func TestCompareMixedTagsIsTypeMismatch(t *testing.T) {
	_, err := Compare(OfString("a"), OfInt(1))
	assert.Error(t, err)

	_, err = Compare(OfList(OfInt(1)), OfList(OfInt(1)))
	assert.Error(t, err)
}

func TestCompareNullSortsBelowEveryScalar(t *testing.T) {
	c, err := Compare(NullValue, OfInt(1))
	assert.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = Compare(OfInt(1), NullValue)
	assert.NoError(t, err)
	assert.Equal(t, 1, c)

	c, err = Compare(NullValue, OfString("a"))
	assert.NoError(t, err)
	assert.Equal(t, -1, c)

	c, err = Compare(NullValue, OfBool(false))
	assert.NoError(t, err)
	assert.Equal(t, -1, c)
}

func TestCompareNullAgainstListOrMapIsTypeMismatch(t *testing.T) {
	_, err := Compare(NullValue, OfList(OfInt(1)))
	assert.Error(t, err)

	_, err = Compare(NullValue, OfMap(map[string]Value{"a": OfInt(1)}))
	assert.Error(t, err)
}
