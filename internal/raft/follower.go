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

func (r *Raft[C]) onAppendRequest(term int, req AppendRequest[C]) RPC[C] {
	if term > r.term {
		r.term = term
		r.votedFor = ""
	}

	r.timer.Reset()

	if r.term == term {
		r.role = Follower
		r.leader = req.Leader
	}

	termOK := term == r.term
	logOK := len(r.log) >= req.PrefixLen &&
		(req.PrefixLen == 0 || r.log[req.PrefixLen-1].Term == req.PrefixTerm)

	var ack *int
	if termOK && logOK {
		n := req.PrefixLen + len(req.Suffix)
		r.appendEntries(req.PrefixLen, req.CommitLen, req.Suffix)
		ack = &n
	}

	r.persist()

	return RPC[C]{
		Term: term,
		Type: RPCAppendResponse,
		AppendResponse: &AppendResponse{
			Follower: r.id,
			Ack:      ack,
		},
	}
}

// appendEntries reconciles the local log with the leader's suffix
// starting at prefix, per Raft §5.3: if the last local entry that the
// suffix overlaps conflicts in term with the suffix's entry at that
// index, the log is truncated back to prefix before the new suffix is
// appended. An empty suffix (a
// heartbeat) never truncates anything past prefix — there is nothing
// new to reconcile against.
func (r *Raft[C]) appendEntries(prefix, commit int, suffix []LogEntry[C]) {
	if len(suffix) > 0 && len(r.log) > prefix {
		lastNewIndex := min(len(r.log), prefix+len(suffix)) - 1
		if r.log[lastNewIndex].Term != suffix[lastNewIndex-prefix].Term {
			r.log = r.log[:prefix]
		}
	}

	if prefix+len(suffix) > len(r.log) {
		start := len(r.log) - prefix
		r.log = append(r.log, suffix[start:]...)
	}

	if commit > r.commitLen {
		r.commitLen = commit
	}

	r.persist()
}
