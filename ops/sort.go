// SPDX-License-Identifier: Apache-2.0

package ops

import (
	"container/heap"
	"sort"

	"github.com/bantling/compgraph/internal/errs"
	"github.com/bantling/compgraph/record"
	"github.com/bantling/compgraph/rstream"
	"github.com/bantling/compgraph/value"
)

// DefaultSpillThreshold is the input size above which Sort stops sorting one
// giant in-memory slice in a single pass and instead sorts fixed-size runs,
// then k-way merges them on output - the "external-style sort" SPEC_FULL §4.1 calls
// for. It is large enough that ordinary pipelines never take the spill
// path; tests that want to exercise it pass a small SortOptions.SpillThreshold.
const DefaultSpillThreshold = 1 << 18

// SortOptions configures the Sort kernel.
type SortOptions struct {
	// SpillThreshold is the maximum number of records held in one sorted
	// run. Zero or negative means DefaultSpillThreshold.
	SpillThreshold int
}

// Sort stably sorts input ascending by the composite key named by keys,
// using DefaultSpillThreshold, following the teacher's Finisher.Sort
// (materialize the whole stream, then sort.Slice it) except materializing
// into runs and merging once the input is large enough to warrant it, and
// using sort.SliceStable rather than sort.Slice since CORE §4.3 requires
// stability.
func Sort(input *rstream.Stream, keys []string) *rstream.Stream {
	return SortWithOptions(input, keys, SortOptions{})
}

// SortWithOptions is Sort with an explicit SpillThreshold.
func SortWithOptions(input *rstream.Stream, keys []string, opts SortOptions) *rstream.Stream {
	const op = "ops.Sort"

	if len(keys) == 0 {
		return rstream.Failed(errs.New(errs.InvalidSpec, op, "sort key list must be non-empty"))
	}

	threshold := opts.SpillThreshold
	if threshold <= 0 {
		threshold = DefaultSpillThreshold
	}

	var (
		prepared bool
		merged   []record.Record
		idx      int
	)

	return rstream.New(func() (record.Record, bool, error) {
		if !prepared {
			prepared = true

			buf, err := input.ToSlice()
			if err != nil {
				return nil, false, err
			}

			if len(buf) <= threshold {
				if err := stableSortRun(buf, keys); err != nil {
					return nil, false, err
				}
				merged = buf
			} else {
				m, err := spillSort(buf, keys, threshold)
				if err != nil {
					return nil, false, err
				}
				merged = m
			}
		}

		if idx >= len(merged) {
			return nil, false, nil
		}

		r := merged[idx]
		idx++
		return r, true, nil
	})
}

// compareByKey compares two Records by the composite key tuple named by
// keys: absent fields are null (record.Record.Key already applies that
// rule), first non-equal field decides, and a mixed-tag comparison on any
// key field is a TypeMismatch.
func compareByKey(a, b record.Record, keys []string) (int, error) {
	const op = "ops.Sort"

	ak, bk := a.Key(keys), b.Key(keys)
	for i := range ak {
		c, err := value.Compare(ak[i], bk[i])
		if err != nil {
			return 0, errs.Wrap(err, errs.TypeMismatch, op, "comparing key field "+keys[i])
		}
		if c != 0 {
			return c, nil
		}
	}
	return 0, nil
}

// stableSortRun sorts buf in place by keys, stably, stopping and returning
// the first comparison error encountered (sort.SliceStable has no error
// return, so the less func latches the first failure and reports "equal"
// for every comparison after that to let the sort finish without panicking).
func stableSortRun(buf []record.Record, keys []string) error {
	var cmpErr error

	sort.SliceStable(buf, func(i, j int) bool {
		if cmpErr != nil {
			return false
		}

		c, err := compareByKey(buf[i], buf[j], keys)
		if err != nil {
			cmpErr = err
			return false
		}
		return c < 0
	})

	return cmpErr
}

// run is one sorted, fixed-size chunk being merged by spillSort. baseIndex
// is the chunk's starting offset in the original buffer, used to break
// exact key ties in original input order so the merge stays stable even
// though it is interleaving several independently-sorted runs.
type run struct {
	records   []record.Record
	pos       int
	baseIndex int
}

func (r *run) peek() record.Record { return r.records[r.pos] }
func (r *run) empty() bool         { return r.pos >= len(r.records) }
func (r *run) index() int          { return r.baseIndex + r.pos }

// runHeap is a container/heap min-heap of runs ordered by each run's next
// unconsumed record, giving the merge phase of the external sort its k-way
// merge. container/heap is the standard library's own priority queue and
// no example repo in the corpus ships a third-party one, so it is used
// directly here (see DESIGN.md).
type runHeap struct {
	runs []*run
	keys []string
	err  error
}

func (h *runHeap) Len() int { return len(h.runs) }

func (h *runHeap) Less(i, j int) bool {
	if h.err != nil {
		return false
	}
	c, err := compareByKey(h.runs[i].peek(), h.runs[j].peek(), h.keys)
	if err != nil {
		h.err = err
		return false
	}
	if c != 0 {
		return c < 0
	}
	// Exact key tie: break it by original input position to keep the merge stable.
	return h.runs[i].index() < h.runs[j].index()
}

func (h *runHeap) Swap(i, j int) { h.runs[i], h.runs[j] = h.runs[j], h.runs[i] }

func (h *runHeap) Push(x interface{}) { h.runs = append(h.runs, x.(*run)) }

func (h *runHeap) Pop() interface{} {
	old := h.runs
	n := len(old)
	item := old[n-1]
	h.runs = old[:n-1]
	return item
}

// spillSort splits buf into runs of at most runSize records, sorts each run
// independently and stably, then merges them via a k-way heap merge - the
// external-style sort algorithm SPEC_FULL §4.1 adds on top of CORE §4.3.
// Runs are held in memory (the Non-goal of "no persistence of intermediate
// state" rules out spilling to real disk files) as slices of buf, so the
// whole input stays in memory during the merge alongside the merged output.
func spillSort(buf []record.Record, keys []string, runSize int) ([]record.Record, error) {
	var runs []*run
	for start := 0; start < len(buf); start += runSize {
		end := start + runSize
		if end > len(buf) {
			end = len(buf)
		}

		chunk := buf[start:end]
		if err := stableSortRun(chunk, keys); err != nil {
			return nil, err
		}
		runs = append(runs, &run{records: chunk, baseIndex: start})
	}

	h := &runHeap{keys: keys}
	for _, r := range runs {
		if !r.empty() {
			h.runs = append(h.runs, r)
		}
	}
	heap.Init(h)

	merged := make([]record.Record, 0, len(buf))
	for h.Len() > 0 {
		top := h.runs[0]
		merged = append(merged, top.peek())
		top.pos++

		if h.err != nil {
			return nil, h.err
		}

		if top.empty() {
			heap.Pop(h)
		} else {
			heap.Fix(h, 0)
		}

		if h.err != nil {
			return nil, h.err
		}
	}

	return merged, nil
}
