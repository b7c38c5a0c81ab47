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

package raft

import (
	"bytes"
	"encoding/gob"
	"os"
)

// PersistentState is the subset of Raft state that must survive a
// restart: term, votedFor, commitLen, and the log itself (spec §9).
type PersistentState[C any] struct {
	Term      int
	VotedFor  string
	CommitLen int
	Log       []LogEntry[C]
}

// Persister durably stores PersistentState across restarts. The
// engine calls Save after every mutation to persistent state and Load
// once at construction.
type Persister[C any] interface {
	Save(PersistentState[C])
	Load() (PersistentState[C], bool)
}

// NoopPersister discards everything — the default for harness runs,
// where the test harness itself kills and never resumes nodes, so
// there is nothing to recover.
type NoopPersister[C any] struct{}

func (NoopPersister[C]) Save(PersistentState[C])            {}
func (NoopPersister[C]) Load() (PersistentState[C], bool) { var z PersistentState[C]; return z, false }

// FilePersister gob-encodes PersistentState to a file on every Save,
// for the (non-harness) case an operator runs a long-lived Raft
// cluster by hand and wants a node to recover its vote/log on restart
// instead of silently risking a double-vote in the same term.
type FilePersister[C any] struct {
	path string
}

// NewFilePersister returns a persister writing to path.
func NewFilePersister[C any](path string) *FilePersister[C] {
	return &FilePersister[C]{path: path}
}

func (p *FilePersister[C]) Save(state PersistentState[C]) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(state); err != nil {
		return
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return
	}
	_ = os.Rename(tmp, p.path)
}

func (p *FilePersister[C]) Load() (PersistentState[C], bool) {
	var state PersistentState[C]
	data, err := os.ReadFile(p.path)
	if err != nil {
		return state, false
	}
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&state); err != nil {
		return state, false
	}
	return state, true
}
