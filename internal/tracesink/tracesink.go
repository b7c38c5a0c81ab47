/*
 * Copyright (c) 2026 Maelstrom Toolkit Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

/*
Package tracesink is an optional append-only record of every envelope
a node's Runtime has sent or received — useful when a harness run goes
wrong and the participant's stderr log alone doesn't explain why.
Disabled unless Config.TraceFile is set (§3 of SPEC_FULL.md).

One JSON line per envelope, optionally compressed by snappy, lz4, or
zstd depending on Config.TraceCompression — the same three algorithms
the teacher's internal/compression package declared but never
implemented a backend for.
*/
package tracesink

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/flydb-labs/maelstrom/internal/envelope"
)

// Algorithm names a trace-file compression backend.
type Algorithm int

const (
	AlgorithmNone Algorithm = iota
	AlgorithmSnappy
	AlgorithmLZ4
	AlgorithmZstd
)

// ParseAlgorithm parses the string form used in Config.TraceCompression.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch s {
	case "", "none":
		return AlgorithmNone, nil
	case "snappy":
		return AlgorithmSnappy, nil
	case "lz4":
		return AlgorithmLZ4, nil
	case "zstd":
		return AlgorithmZstd, nil
	default:
		return AlgorithmNone, fmt.Errorf("unknown trace compression algorithm: %s", s)
	}
}

// direction marks which side of the wire a recorded envelope crossed.
type direction string

const (
	directionIn  direction = "in"
	directionOut direction = "out"
)

// record is one line of the trace file.
type record struct {
	Direction direction         `json:"dir"`
	Envelope  envelope.Envelope `json:"envelope"`
}

// Sink appends envelopes to a file, optionally compressed. A nil *Sink
// is valid and Record is then a no-op, so callers don't need a
// separate "tracing enabled" check at every call site.
type Sink struct {
	mu     sync.Mutex
	file   *os.File
	writer io.Writer
	closer func() error
}

// Open creates (or truncates) path and wraps it with the given
// compression algorithm. Passing AlgorithmNone writes plain
// newline-delimited JSON.
func Open(path string, algo Algorithm) (*Sink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("open trace file: %w", err)
	}

	buffered := bufio.NewWriter(f)
	s := &Sink{file: f}

	switch algo {
	case AlgorithmNone:
		s.writer = buffered
		s.closer = buffered.Flush
	case AlgorithmSnappy:
		w := snappy.NewBufferedWriter(buffered)
		s.writer = w
		s.closer = func() error {
			if err := w.Close(); err != nil {
				return err
			}
			return buffered.Flush()
		}
	case AlgorithmLZ4:
		w := lz4.NewWriter(buffered)
		s.writer = w
		s.closer = func() error {
			if err := w.Close(); err != nil {
				return err
			}
			return buffered.Flush()
		}
	case AlgorithmZstd:
		w, err := zstd.NewWriter(buffered)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("create zstd writer: %w", err)
		}
		s.writer = w
		s.closer = func() error {
			if err := w.Close(); err != nil {
				return err
			}
			return buffered.Flush()
		}
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported algorithm %d", algo)
	}

	return s, nil
}

// Record appends env to the trace file. inbound distinguishes a
// message the node received from one it has sent.
func (s *Sink) Record(env envelope.Envelope, inbound bool) error {
	if s == nil {
		return nil
	}

	dir := directionOut
	if inbound {
		dir = directionIn
	}

	line, err := json.Marshal(record{Direction: dir, Envelope: env})
	if err != nil {
		return fmt.Errorf("marshal trace record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.writer.Write(line); err != nil {
		return err
	}
	_, err = s.writer.Write([]byte{'\n'})
	return err
}

// Close flushes and closes the underlying file. Safe to call on a nil
// *Sink.
func (s *Sink) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.closer(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
