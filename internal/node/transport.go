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

package node

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/flydb-labs/maelstrom/internal/envelope"
	"github.com/flydb-labs/maelstrom/internal/tracesink"
)

// maxLineSize bounds a single protocol line. Maelstrom workloads never
// send anything close to this; it exists to fail loudly on a corrupt
// stream instead of growing memory unboundedly.
const maxLineSize = 64 * 1024 * 1024

// reader decodes one envelope per line from an io.Reader. A read or
// parse error is fatal (spec §4.1, §7.1) and surfaces as an error from
// Next; end-of-stream surfaces as io.EOF, which the Runtime treats as a
// clean shutdown rather than a failure.
type reader struct {
	scanner *bufio.Scanner
}

func newReader(r io.Reader) *reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &reader{scanner: sc}
}

func (r *reader) Next() (envelope.Envelope, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return envelope.Envelope{}, fmt.Errorf("node: reading stdin: %w", err)
		}
		return envelope.Envelope{}, io.EOF
	}

	line := r.scanner.Bytes()
	var env envelope.Envelope
	if err := json.Unmarshal(line, &env); err != nil {
		return envelope.Envelope{}, fmt.Errorf("node: malformed envelope: %w", err)
	}
	return env, nil
}

// writer serialises envelopes to an io.Writer, one JSON object per
// line, and owns the outbound sequence counter (spec §4.1: "The writer
// owns the outbound sequence counter").
type writer struct {
	mu     sync.Mutex
	w      io.Writer
	nodeID string
	nextID int
	sink   *tracesink.Sink
}

func newWriter(w io.Writer, nodeID string) *writer {
	return &writer{w: w, nodeID: nodeID}
}

// Write assigns the next outbound msg_id, merges it (and inReplyTo, if
// any) into payload, and flushes one line to the underlying writer. A
// partial write is fatal (spec §5: "Partial writes to stdout are
// fatal").
func (w *writer) Write(dest string, inReplyTo *int, payload any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	id := w.nextID
	w.nextID++

	body, err := envelope.Merge(payload, id, inReplyTo)
	if err != nil {
		return fmt.Errorf("node: encoding outbound body: %w", err)
	}

	env := envelope.Envelope{Src: w.nodeID, Dest: dest, Body: body}
	line, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("node: encoding outbound envelope: %w", err)
	}
	line = append(line, '\n')

	n, err := w.w.Write(line)
	if err != nil {
		return fmt.Errorf("node: writing stdout: %w", err)
	}
	if n != len(line) {
		return fmt.Errorf("node: partial write to stdout (%d of %d bytes)", n, len(line))
	}
	if w.sink != nil {
		_ = w.sink.Record(env, false)
	}
	return nil
}
