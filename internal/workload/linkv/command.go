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

package linkv

import "github.com/flydb-labs/maelstrom/internal/value"

// commandKind discriminates the two mutations that go through Raft.
// Reads never do — they're served from local state directly (spec
// §4.8's dirty-read design note).
type commandKind int

const (
	commandWrite commandKind = iota
	commandCas
)

// command is the payload Raft replicates: either an unconditional write
// or a compare-and-swap.
type command struct {
	Kind commandKind `json:"kind"`
	Key  value.Value `json:"key"`
	// Write uses Value; Cas uses From/To.
	Value value.Value `json:"value"`
	From  value.Value `json:"from"`
	To    value.Value `json:"to"`
}

// reply identifies which client is waiting on a command's outcome, and
// with which msg_id to answer — exactly the correlation linkv needs to
// reply from inside Raft's commit loop instead of the original request
// handler (spec §4.8).
type reply struct {
	MsgID  int    `json:"msg_id"`
	Client string `json:"client"`
}

// raftCommand is the concrete C type parameterising this workload's
// Raft[C] engine: the command itself, tagged with the node that
// originated it (so only that node replies once it's committed) and the
// client correlation needed to answer.
type raftCommand struct {
	Origin  string  `json:"origin"`
	Reply   reply   `json:"reply"`
	Command command `json:"command"`
}
