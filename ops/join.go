// SPDX-License-Identifier: Apache-2.0

package ops

import (
	"github.com/bantling/compgraph/internal/errs"
	"github.com/bantling/compgraph/record"
	"github.com/bantling/compgraph/rstream"
	"github.com/bantling/compgraph/value"
)

// Strategy selects one of the five Join behaviors named in CORE §4.6.
type Strategy string

const (
	Inner Strategy = "inner"
	Left  Strategy = "left"
	Right Strategy = "right"
	Full  Strategy = "full"
	Cross Strategy = "cross"
)

func (s Strategy) valid() bool {
	switch s {
	case Inner, Left, Right, Full, Cross:
		return true
	default:
		return false
	}
}

// JoinOptions configures Join beyond its required parameters.
type JoinOptions struct {
	// NullKeysMatch opts into null keys matching each other. The CORE
	// default, used whenever JoinOptions is the zero value, is "null never
	// matches" (Open Question (ii)), matching SQL equality semantics.
	NullKeysMatch bool
}

// Join combines left and right by equality of the named key fields (ignored
// entirely for Cross), following the hash-join algorithm of CORE §4.6: the
// right side is fully materialized and indexed first (skipped for Cross),
// then left is streamed once, probing the index. Field collisions (L and R
// sharing a field name) are renamed to "<name>_left" / "<name>_right"; see
// mergeRecords for the exact rule, including how it behaves for the
// unmatched rows Left/Right/Full can produce.
func Join(left, right *rstream.Stream, leftKey, rightKey string, strategy Strategy) *rstream.Stream {
	return JoinWithOptions(left, right, leftKey, rightKey, strategy, JoinOptions{})
}

// JoinWithOptions is Join with explicit JoinOptions.
func JoinWithOptions(left, right *rstream.Stream, leftKey, rightKey string, strategy Strategy, opts JoinOptions) *rstream.Stream {
	const op = "ops.Join"

	if !strategy.valid() {
		return rstream.Failed(errs.Newf(errs.BadStrategy, op, "unknown join strategy %q", strategy))
	}

	if strategy == Cross {
		return crossJoin(left, right)
	}

	rightRecords, err := right.ToSlice()
	if err != nil {
		return rstream.Failed(err)
	}

	index := map[scalarKey][]int{}
	for i, r := range rightRecords {
		rv := r.Get(rightKey)
		k, indexable, err := scalarKeyOf(rv, opts.NullKeysMatch)
		if err != nil {
			return rstream.Failed(errs.Wrap(err, errs.TypeMismatch, op, "right join key"))
		}
		if !indexable {
			continue
		}
		index[k] = append(index[k], i)
	}

	matched := make([]bool, len(rightRecords))

	var (
		// pendingMatches holds the already-merged output rows for the left
		// record currently being processed, in right-input order, so a left
		// record that hits several right records emits them one at a time.
		pendingMatches []record.Record
		leftDone       bool
		rightIdx       int
	)

	emitUnmatchedRight := strategy == Right || strategy == Full
	emitUnmatchedLeft := strategy == Left || strategy == Full

	return rstream.New(func() (record.Record, bool, error) {
		for {
			if len(pendingMatches) > 0 {
				r := pendingMatches[0]
				pendingMatches = pendingMatches[1:]
				return r, true, nil
			}

			if leftDone {
				if !emitUnmatchedRight {
					return nil, false, nil
				}
				for rightIdx < len(rightRecords) {
					i := rightIdx
					rightIdx++
					if !matched[i] {
						return mergeRecords(nil, rightRecords[i], leftKey, rightKey), true, nil
					}
				}
				return nil, false, nil
			}

			if !left.Next() {
				leftDone = true
				if err := left.Err(); err != nil {
					return nil, false, err
				}
				continue
			}

			l := left.Value()
			lv := l.Get(leftKey)
			k, indexable, err := scalarKeyOf(lv, opts.NullKeysMatch)
			if err != nil {
				return nil, false, errs.Wrap(err, errs.TypeMismatch, op, "left join key")
			}

			var idxs []int
			if indexable {
				idxs = index[k]
			}

			if len(idxs) == 0 {
				if emitUnmatchedLeft {
					return mergeRecords(l, nil, leftKey, rightKey), true, nil
				}
				continue
			}

			for _, i := range idxs {
				matched[i] = true
				pendingMatches = append(pendingMatches, mergeRecords(l, rightRecords[i], leftKey, rightKey))
			}
		}
	})
}

// crossJoin is the Cartesian product: the key pair is ignored entirely, the
// right side is fully materialized once, and output order is left-input
// major, right-input minor, per CORE §4.6 and the cross product scenario in
// CORE §8.
func crossJoin(left, right *rstream.Stream) *rstream.Stream {
	rightRecords, err := right.ToSlice()
	if err != nil {
		return rstream.Failed(err)
	}

	var (
		l        record.Record
		haveLeft bool
		rightIdx int
	)

	return rstream.New(func() (record.Record, bool, error) {
		for {
			if haveLeft && rightIdx < len(rightRecords) {
				r := rightRecords[rightIdx]
				rightIdx++
				return mergeRecords(l, r, "", ""), true, nil
			}

			if !left.Next() {
				return nil, false, left.Err()
			}

			l = left.Value()
			haveLeft = true
			rightIdx = 0

			if len(rightRecords) == 0 {
				haveLeft = false
			}
		}
	})
}

// mergeRecords applies the field collision rule: any field name present in
// both l and r is renamed to "<name>_left" / "<name>_right" in the output;
// everything else copies through unchanged. For an unmatched row - l or r
// is nil, which Left/Right/Full can produce - there is no actual pair to
// inspect for overlap, so the engine fixes the one case CORE §4.6 calls out
// explicitly: if the join key field names are equal, the present side's key
// field is still renamed with its own suffix, exactly as if the (absent)
// other side had supplied the same field name. The missing side's fields
// are omitted entirely rather than represented with explicit nulls - the
// chosen, documented representation for CORE §8 scenario 4.
func mergeRecords(l, r record.Record, leftKeyName, rightKeyName string) record.Record {
	out := record.New()
	keysCollide := leftKeyName != "" && leftKeyName == rightKeyName

	if l != nil {
		for k, v := range l {
			name := k
			switch {
			case r != nil && r.Has(k):
				name = k + "_left"
			case r == nil && keysCollide && k == leftKeyName:
				name = k + "_left"
			}
			out[name] = v
		}
	}

	if r != nil {
		for k, v := range r {
			name := k
			switch {
			case l != nil && l.Has(k):
				name = k + "_right"
			case l == nil && keysCollide && k == rightKeyName:
				name = k + "_right"
			}
			out[name] = v
		}
	}

	return out
}

// scalarKey is a comparable representation of a scalar value.Value, used as
// a hash-join index key. Kind is always part of the key so Int(2) and
// Float(2.0) - which CORE's value equality keeps distinct - never collide.
type scalarKey struct {
	kind value.Kind
	i    int64
	f    float64
	b    bool
	s    string
}

// scalarKeyOf converts a join key field's Value into a scalarKey. Null
// values are not indexable unless nullMatches is set (the default "null
// never matches" policy of Open Question (ii)), in which case they index
// under the zero scalarKey{kind: value.Null} bucket like any other value.
// List and Map values are never valid join keys.
func scalarKeyOf(v value.Value, nullMatches bool) (scalarKey, bool, error) {
	switch v.Kind() {
	case value.Null:
		if !nullMatches {
			return scalarKey{}, false, nil
		}
		return scalarKey{kind: value.Null}, true, nil
	case value.Int:
		i, _ := v.AsInt()
		return scalarKey{kind: value.Int, i: i}, true, nil
	case value.Float:
		f, _ := v.AsFloat()
		return scalarKey{kind: value.Float, f: f}, true, nil
	case value.Bool:
		b, _ := v.AsBool()
		return scalarKey{kind: value.Bool, b: b}, true, nil
	case value.String:
		s, _ := v.AsString()
		return scalarKey{kind: value.String, s: s}, true, nil
	default:
		return scalarKey{}, false, errs.Newf(errs.TypeMismatch, "ops.Join", "join key must be a scalar value, got %s", v.Kind())
	}
}
