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

func (r *Raft[C]) onReplicate() Delivery[C] {
	addressed := make([]Addressed[C], 0, len(r.nodes)-1)

	for _, node := range r.nodes {
		if node == r.id {
			continue
		}

		prefixLen := r.sentLen[node]
		suffix := append([]LogEntry[C]{}, r.log[prefixLen:]...)

		prefixTerm := 0
		if prefixLen > 0 {
			prefixTerm = r.log[prefixLen-1].Term
		}

		addressed = append(addressed, Addressed[C]{
			To: node,
			RPC: RPC[C]{
				Term: r.term,
				Type: RPCAppendRequest,
				AppendRequest: &AppendRequest[C]{
					Leader:     r.id,
					PrefixLen:  prefixLen,
					PrefixTerm: prefixTerm,
					CommitLen:  r.commitLen,
					Suffix:     suffix,
				},
			},
		})
	}

	return Delivery[C]{Kind: DeliveryMulticast, Multi: addressed}
}

func (r *Raft[C]) onAppendResponse(term int, resp AppendResponse) {
	if term > r.term {
		r.term = term
		r.votedFor = ""
		r.persist()

		r.role = Follower
		r.timer.Reset()
		return
	}

	if term != r.term || r.role != Leader {
		return
	}

	if resp.Ack != nil {
		ack := *resp.Ack
		if ack >= r.ackedLen[resp.Follower] {
			r.sentLen[resp.Follower] = ack
			r.ackedLen[resp.Follower] = ack
			r.commitCommands()
		}
	} else if r.sentLen[resp.Follower] > 0 {
		r.sentLen[resp.Follower]--
	}
}

func (r *Raft[C]) commitCommands() {
	commit := r.commitLen

	for commit < len(r.log) {
		acks := 0
		for _, node := range r.nodes {
			if r.ackedLen[node] > commit {
				acks++
			}
		}

		if acks >= r.majority() {
			commit++
		} else {
			break
		}
	}

	r.commitLen = commit
	r.persist()
}
