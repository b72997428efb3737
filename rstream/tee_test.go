// SPDX-License-Identifier: Apache-2.0

package rstream

import (
	"testing"

	"github.com/bantling/compgraph/record"
	"github.com/bantling/compgraph/value"
	"github.com/stretchr/testify/assert"
)

func TestTeeIndependentConsumers(t *testing.T) {
	source := Of(
		record.Of("a", value.OfInt(1)),
		record.Of("a", value.OfInt(2)),
		record.Of("a", value.OfInt(3)),
	)

	streams := Tee(source, 2)

	// Fully drain the first consumer before touching the second.
	first, err := streams[0].ToSlice()
	assert.NoError(t, err)
	assert.Len(t, first, 3)

	second, err := streams[1].ToSlice()
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTeeInterleavedConsumers(t *testing.T) {
	source := Of(
		record.Of("a", value.OfInt(1)),
		record.Of("a", value.OfInt(2)),
	)

	streams := Tee(source, 2)

	assert.True(t, streams[1].Next())
	assert.True(t, streams[0].Next())
	assert.Equal(t, streams[1].Value(), streams[0].Value())
}
