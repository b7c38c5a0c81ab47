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

func (r *Raft[C]) onTimeout() Delivery[C] {
	r.term++
	r.votedFor = r.id
	r.persist()

	r.role = Candidate
	r.votesReceived = map[string]bool{r.id: true}

	lastLogIndex := len(r.log)
	lastLogTerm := r.lastLogTerm()

	r.timer.Reset()

	return Delivery[C]{
		Kind: DeliveryBroadcast,
		RPC: RPC[C]{
			Term: r.term,
			Type: RPCVoteRequest,
			VoteRequest: &VoteRequest{
				Candidate:    r.id,
				LastLogIndex: lastLogIndex,
				LastLogTerm:  lastLogTerm,
			},
		},
	}
}

func (r *Raft[C]) lastLogTerm() int {
	if len(r.log) == 0 {
		return 0
	}
	return r.log[len(r.log)-1].Term
}

func (r *Raft[C]) onVoteRequest(term int, req VoteRequest) RPC[C] {
	if term > r.term {
		r.term = term
		r.votedFor = ""
		r.role = Follower
	}

	lastIndex := len(r.log)
	lastTerm := r.lastLogTerm()

	termOK := term == r.term
	logOK := req.LastLogTerm > lastTerm ||
		(req.LastLogTerm == lastTerm && req.LastLogIndex >= lastIndex)
	voteOK := r.votedFor == "" || r.votedFor == req.Candidate

	granted := false
	if termOK && logOK && voteOK {
		r.votedFor = req.Candidate
		granted = true
	}

	r.persist()

	return RPC[C]{
		Term: term,
		Type: RPCVoteResponse,
		VoteResponse: &VoteResponse{
			Voter:   r.id,
			Granted: granted,
		},
	}
}

func (r *Raft[C]) onVoteResponse(term int, resp VoteResponse) {
	if term > r.term {
		r.term = term
		r.votedFor = ""
		r.persist()

		r.role = Follower
		r.timer.Reset()
		return
	}

	if resp.Granted && term == r.term && r.role == Candidate {
		r.votesReceived[resp.Voter] = true

		if len(r.votesReceived) >= r.majority() {
			r.role = Leader
			r.leader = r.id
			r.timer.Reset()

			for _, node := range r.nodes {
				r.sentLen[node] = len(r.log)
				r.ackedLen[node] = 0
			}
		}
	}
}
