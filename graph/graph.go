// SPDX-License-Identifier: Apache-2.0

// Package graph implements Graph, the declarative builder for a
// multi-stage transformation pipeline over record streams, and the driver
// that walks a built Graph against concrete source bindings. A Graph is
// inert until Run is called: building one only records an ordered list of
// operator steps against a single source label, the same separation the
// teacher module draws between building a stream.Stream pipeline (lazy,
// composable) and actually pulling values from it.
package graph

import (
	"go.uber.org/zap"

	"github.com/bantling/compgraph/internal/errs"
	"github.com/bantling/compgraph/internal/log"
	"github.com/bantling/compgraph/ops"
	"github.com/bantling/compgraph/record"
	"github.com/bantling/compgraph/rstream"
	"github.com/bantling/compgraph/value"
)

// Bindings maps a source label referenced by a Graph to a Stream the
// engine can read Records from. Within a single Run a binding is read once
// for every Graph in the tree that names its label (typically the outer
// Graph and a Join's other Graph naming the same source); the engine tees
// internally, so Bindings itself never needs to hand out a restartable
// Stream (Open Question (iii)).
type Bindings map[string]*rstream.Stream

// stepKind tags which operator a recorded step applies, so Run can fold
// the step list without a type switch on concrete operator structs.
type stepKind int

const (
	stepMap stepKind = iota
	stepSort
	stepFold
	stepReduce
	stepJoin
)

func (k stepKind) String() string {
	switch k {
	case stepMap:
		return "map"
	case stepSort:
		return "sort"
	case stepFold:
		return "fold"
	case stepReduce:
		return "reduce"
	case stepJoin:
		return "join"
	default:
		return "unknown"
	}
}

// step is one recorded operator application, carrying only the fields its
// stepKind needs; the rest are zero.
type step struct {
	kind stepKind

	mapper ops.Mapper

	sortKeys []string

	folder  ops.Folder
	initial value.Value

	reduceKeys []string
	reducer    ops.Reducer

	joinOther    *Graph
	joinLeftKey  string
	joinRightKey string
	joinStrategy ops.Strategy
	joinOpts     ops.JoinOptions
}

// Graph is an ordered recipe: a single source label plus the operator
// steps applied to it, in the order they were appended. Builder methods
// mutate and return the same *Graph so calls chain, mirroring the
// teacher's own fluent stream.Stream builder methods.
type Graph struct {
	source string
	steps  []step
	logger *zap.Logger
}

// New starts a Graph rooted at the named source binding.
func New(source string) *Graph {
	return &Graph{source: source}
}

// WithLogger attaches a logger used for diagnostic messages during Run.
// A nil logger (or never calling WithLogger) falls back to a no-op logger.
func (g *Graph) WithLogger(l *zap.Logger) *Graph {
	g.logger = l
	return g
}

// Map appends a Map step.
func (g *Graph) Map(mapper ops.Mapper) *Graph {
	g.steps = append(g.steps, step{kind: stepMap, mapper: mapper})
	return g
}

// Sort appends a Sort step over the given key fields.
func (g *Graph) Sort(keys ...string) *Graph {
	g.steps = append(g.steps, step{kind: stepSort, sortKeys: keys})
	return g
}

// Fold appends a Fold step with the given callback and initial state.
func (g *Graph) Fold(folder ops.Folder, initial value.Value) *Graph {
	g.steps = append(g.steps, step{kind: stepFold, folder: folder, initial: initial})
	return g
}

// Reduce appends a Reduce step grouping by the given key fields.
func (g *Graph) Reduce(reducer ops.Reducer, keys ...string) *Graph {
	g.steps = append(g.steps, step{kind: stepReduce, reducer: reducer, reduceKeys: keys})
	return g
}

// Join appends a Join step against another Graph, run under the same
// Bindings when this Graph is executed (CORE §3.4, §4.6).
func (g *Graph) Join(other *Graph, leftKey, rightKey string, strategy ops.Strategy) *Graph {
	return g.JoinWithOptions(other, leftKey, rightKey, strategy, ops.JoinOptions{})
}

// JoinWithOptions is Join with explicit ops.JoinOptions (e.g. NullKeysMatch).
func (g *Graph) JoinWithOptions(other *Graph, leftKey, rightKey string, strategy ops.Strategy, opts ops.JoinOptions) *Graph {
	g.steps = append(g.steps, step{
		kind:         stepJoin,
		joinOther:    other,
		joinLeftKey:  leftKey,
		joinRightKey: rightKey,
		joinStrategy: strategy,
		joinOpts:     opts,
	})
	return g
}

// Run resolves this Graph's source label against bindings, folds its
// operator steps left to right over the resulting Stream, and returns the
// final Stream. Every Run call is a fresh execution: a Graph caches
// nothing across calls, and re-running with the same Bindings re-reads
// the sources named. Each label in bindings is wrapped in a lazy tee
// factory for the duration of this call, so a label read by more than one
// step across the whole graph tree (typically: the outer graph and a
// Join's other Graph naming the same source) is teed transparently
// instead of racing to drain the same underlying Stream twice (Open
// Question (iii)). Every label is read through its tee's shared buffer,
// including a label read only once.
func (g *Graph) Run(bindings Bindings) *rstream.Stream {
	sources := make(map[string]func() *rstream.Stream, len(bindings))
	for label, s := range bindings {
		sources[label] = rstream.LazyTee(s)
	}
	return g.run(sources)
}

// run is Run's recursive worker: sources is shared, by reference, across
// every Graph in the tree rooted at the top-level Run call, so a label
// referenced from more than one place resolves to the same teeBuffer.
func (g *Graph) run(sources map[string]func() *rstream.Stream) *rstream.Stream {
	const op = "graph.Graph.Run"
	logger := log.OrDefault(g.logger)

	newSource, present := sources[g.source]
	if !present {
		return rstream.Failed(errs.Newf(errs.UnboundSource, op, "no binding for source %q", g.source))
	}

	logger.Debug("graph run starting", zap.String("source", g.source), zap.Int("steps", len(g.steps)))

	s := newSource()
	for _, st := range g.steps {
		switch st.kind {
		case stepMap:
			s = wrapStepLogging(logger, st.kind.String(), ops.Map(s, st.mapper))
		case stepSort:
			s = wrapStepLogging(logger, st.kind.String(), ops.Sort(s, st.sortKeys))
		case stepFold:
			s = wrapStepLogging(logger, st.kind.String(), ops.Fold(s, st.folder, st.initial))
		case stepReduce:
			s = wrapStepLogging(logger, st.kind.String(), ops.Reduce(s, st.reduceKeys, st.reducer))
		case stepJoin:
			name := string(st.joinStrategy)

			rightRecords, err := st.joinOther.run(sources).ToSlice()
			if err != nil {
				logger.Error("operator step failed materializing join right side", zap.String("op", name), zap.Error(err))
				return rstream.Failed(err)
			}
			if len(rightRecords) == 0 {
				logger.Warn("join right side produced zero rows", zap.String("op", name))
			}

			joined := ops.JoinWithOptions(s, rstream.Of(rightRecords...), st.joinLeftKey, st.joinRightKey, st.joinStrategy, st.joinOpts)
			s = wrapStepLogging(logger, name, joined)
		}
	}

	return s
}

// wrapStepLogging layers the entry/exit/failure logging SPEC_FULL.md §1.1
// commits a Graph run to around a single operator step's output Stream:
// Debug when the step first produces output and when it's exhausted,
// Error if it ends with a CallbackFailure (every other end-of-stream,
// including a clean finish or a non-callback error, stays at Debug/silent
// since those aren't the "operator terminates a run" case the Error level
// is reserved for).
func wrapStepLogging(logger *zap.Logger, name string, s *rstream.Stream) *rstream.Stream {
	started := false

	return rstream.New(func() (record.Record, bool, error) {
		if !started {
			started = true
			logger.Debug("operator step entry", zap.String("op", name))
		}

		if s.Next() {
			return s.Value(), true, nil
		}

		if err := s.Err(); err != nil {
			if errs.KindOf(err) == errs.CallbackFailure {
				logger.Error("operator step terminated run", zap.String("op", name), zap.Error(err))
			}
			return nil, false, err
		}

		logger.Debug("operator step exit", zap.String("op", name))
		return nil, false, nil
	})
}
