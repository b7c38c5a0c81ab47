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

package tracesink

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/flydb-labs/maelstrom/internal/envelope"
)

func TestParseAlgorithm(t *testing.T) {
	cases := map[string]Algorithm{
		"":       AlgorithmNone,
		"none":   AlgorithmNone,
		"snappy": AlgorithmSnappy,
		"lz4":    AlgorithmLZ4,
		"zstd":   AlgorithmZstd,
	}
	for s, want := range cases {
		got, err := ParseAlgorithm(s)
		if err != nil {
			t.Fatalf("ParseAlgorithm(%q): %v", s, err)
		}
		if got != want {
			t.Errorf("ParseAlgorithm(%q) = %v, want %v", s, got, want)
		}
	}
	if _, err := ParseAlgorithm("bogus"); err == nil {
		t.Error("expected error for unknown algorithm")
	}
}

func TestNilSinkIsNoop(t *testing.T) {
	var s *Sink
	env := envelope.Envelope{Src: "c1", Dest: "n1", Body: json.RawMessage(`{"type":"echo"}`)}
	if err := s.Record(env, true); err != nil {
		t.Fatalf("nil sink Record should be a no-op, got %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("nil sink Close should be a no-op, got %v", err)
	}
}

func TestRecordEachAlgorithm(t *testing.T) {
	for _, algo := range []Algorithm{AlgorithmNone, AlgorithmSnappy, AlgorithmLZ4, AlgorithmZstd} {
		path := filepath.Join(t.TempDir(), "trace.log")
		sink, err := Open(path, algo)
		if err != nil {
			t.Fatalf("Open(%v): %v", algo, err)
		}

		env := envelope.Envelope{Src: "c1", Dest: "n1", Body: json.RawMessage(`{"type":"echo","msg_id":1}`)}
		if err := sink.Record(env, true); err != nil {
			t.Fatalf("Record(%v): %v", algo, err)
		}
		if err := sink.Close(); err != nil {
			t.Fatalf("Close(%v): %v", algo, err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat trace file: %v", err)
		}
		if info.Size() == 0 {
			t.Errorf("algorithm %v produced an empty trace file", algo)
		}
	}
}
