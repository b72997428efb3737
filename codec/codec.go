// SPDX-License-Identifier: Apache-2.0

// Package codec is the engine's one serialization format: newline-delimited
// JSON, one object per line. It is an external collaborator the way
// cmd/compgraph is - importable by a caller, but never imported by
// graph, ops, or engine - so the core's "consumes any iterator of records"
// contract never grows a hidden dependency on a wire format.
package codec

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"

	"github.com/bantling/compgraph/record"
	"github.com/bantling/compgraph/rstream"
	"github.com/bantling/compgraph/value"
)

// DecodeLines reads one JSON object per line from r and produces a Stream
// of Records, lazily: no line is read until the caller calls Next. Each
// object is decoded with json.Number enabled, so value.FromJSON can tell
// integer and floating-point JSON numbers apart.
func DecodeLines(r io.Reader) *rstream.Stream {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	return rstream.New(func() (record.Record, bool, error) {
		for scanner.Scan() {
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			dec := json.NewDecoder(bytes.NewReader(line))
			dec.UseNumber()

			var raw map[string]interface{}
			if err := dec.Decode(&raw); err != nil {
				return nil, false, err
			}

			rec := record.New()
			for k, elem := range raw {
				v, err := value.FromJSON(elem)
				if err != nil {
					return nil, false, err
				}
				rec[k] = v
			}
			return rec, true, nil
		}

		return nil, false, scanner.Err()
	})
}

// EncodeLines drains s, writing one JSON object per line to w.
func EncodeLines(w io.Writer, s *rstream.Stream) error {
	enc := json.NewEncoder(w)

	for s.Next() {
		r := s.Value()
		plain := make(map[string]interface{}, len(r))
		for k, v := range r {
			plain[k] = value.ToJSON(v)
		}
		if err := enc.Encode(plain); err != nil {
			return err
		}
	}

	return s.Err()
}
