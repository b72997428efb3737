// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bantling/compgraph/record"
	"github.com/bantling/compgraph/rstream"
	"github.com/bantling/compgraph/value"
	"github.com/stretchr/testify/assert"
)

func TestDecodeLinesDistinguishesIntAndFloat(t *testing.T) {
	in := strings.NewReader("{\"a\": 1, \"b\": 1.5}\n{\"a\": 2, \"b\": 2.0}\n")

	out, err := DecodeLines(in).ToSlice()
	assert.NoError(t, err)
	assert.Len(t, out, 2)

	a0, isInt := out[0].Get("a").AsInt()
	assert.True(t, isInt)
	assert.Equal(t, int64(1), a0)

	b0, isFloat := out[0].Get("b").AsFloat()
	assert.True(t, isFloat)
	assert.Equal(t, 1.5, b0)

	_, isInt = out[1].Get("b").AsInt()
	assert.False(t, isInt, "2.0 must decode as Float, not Int")
}

func TestDecodeLinesSkipsBlankLines(t *testing.T) {
	in := strings.NewReader("{\"a\": 1}\n\n{\"a\": 2}\n")
	out, err := DecodeLines(in).ToSlice()
	assert.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestEncodeLinesRoundTrip(t *testing.T) {
	records := []record.Record{
		record.Of("a", value.OfInt(1), "s", value.OfString("x")),
		record.Of("a", value.OfInt(2), "s", value.OfString("y")),
	}

	var buf bytes.Buffer
	err := EncodeLines(&buf, rstream.Of(records...))
	assert.NoError(t, err)

	roundTripped, err := DecodeLines(&buf).ToSlice()
	assert.NoError(t, err)
	assert.Len(t, roundTripped, 2)

	a0, _ := roundTripped[0].Get("a").AsInt()
	s0, _ := roundTripped[0].Get("s").AsString()
	assert.Equal(t, int64(1), a0)
	assert.Equal(t, "x", s0)
}

func TestDecodeLinesMalformedJSONFails(t *testing.T) {
	in := strings.NewReader("{not json}\n")
	_, err := DecodeLines(in).ToSlice()
	assert.Error(t, err)
}
