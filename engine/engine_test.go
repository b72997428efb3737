// SPDX-License-Identifier: Apache-2.0

package engine

import (
	"testing"

	"github.com/bantling/compgraph/graph"
	"github.com/bantling/compgraph/record"
	"github.com/bantling/compgraph/rstream"
	"github.com/bantling/compgraph/value"
	"github.com/stretchr/testify/assert"
)

func TestRunProducesRunIDAndStream(t *testing.T) {
	g := graph.New("src")
	bindings := graph.Bindings{"src": rstream.Of(record.Of("a", value.OfInt(1)))}

	res := Run(g, bindings)
	assert.NotEmpty(t, res.RunID)

	out, err := res.Stream.ToSlice()
	assert.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestRunGeneratesDistinctIDsAcrossCalls(t *testing.T) {
	g := graph.New("src")

	res1 := Run(g, graph.Bindings{"src": rstream.Empty()})
	res2 := Run(g, graph.Bindings{"src": rstream.Empty()})

	assert.NotEqual(t, res1.RunID, res2.RunID)
}

func TestRunSurfacesGraphErrors(t *testing.T) {
	g := graph.New("missing")
	res := Run(g, graph.Bindings{})

	_, err := res.Stream.ToSlice()
	assert.Error(t, err)
}
