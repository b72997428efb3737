// SPDX-License-Identifier: Apache-2.0

// Package engine provides the top-level entry point for executing a
// graph.Graph: it stamps each execution with a correlation ID and threads
// a logger through it, the same responsibility the teacher's lower-level
// stream machinery leaves to its caller, since neither iter nor stream
// care about run identity - something this engine needs because a single
// process can host more than one concurrent Run (e.g. a service embedding
// the engine).
package engine

import (
	"go.uber.org/zap"

	"github.com/bantling/compgraph/graph"
	"github.com/bantling/compgraph/internal/errs"
	"github.com/bantling/compgraph/internal/log"
	"github.com/bantling/compgraph/record"
	"github.com/bantling/compgraph/rstream"

	"github.com/google/uuid"
)

// RunID uniquely identifies one execution of Run, stamped into every log
// line and wrapped error produced during it so concurrent runs in one
// process can be told apart.
type RunID string

// newRunID is a var, not a direct uuid.New call, purely so tests can
// substitute a deterministic generator without needing the real Go
// toolchain's randomness to be observed.
var newRunID = func() RunID {
	return RunID(uuid.New().String())
}

// Result is what Run hands back: the run's correlation ID alongside the
// output Stream, so a caller logging downstream can tag its own messages
// with the same ID.
type Result struct {
	RunID  RunID
	Stream *rstream.Stream
}

// Options configures Run beyond the Graph and its Bindings.
type Options struct {
	Logger *zap.Logger
}

// Run executes g against bindings, producing a Result carrying a fresh
// RunID and the Graph's output Stream. The Graph itself does the actual
// source resolution, step folding, and tee-on-reuse bookkeeping (Open
// Question (iii)); Run's job is purely the ambient concerns - identity
// and logging - layered on top.
func Run(g *graph.Graph, bindings graph.Bindings) Result {
	return RunWithOptions(g, bindings, Options{})
}

// RunWithOptions is Run with explicit Options.
func RunWithOptions(g *graph.Graph, bindings graph.Bindings, opts Options) Result {
	id := newRunID()
	logger := log.OrDefault(opts.Logger).With(zap.String("run_id", string(id)))

	logger.Info("run starting", zap.Int("bindings", len(bindings)))

	out := g.WithLogger(logger).Run(bindings)

	stamped := rstream.New(func() (record.Record, bool, error) {
		if out.Next() {
			return out.Value(), true, nil
		}
		if err := out.Err(); err != nil {
			return nil, false, errs.Wrap(err, errs.KindOf(err), "engine.Run", "run "+string(id))
		}
		return nil, false, nil
	})

	return Result{RunID: id, Stream: stamped}
}
