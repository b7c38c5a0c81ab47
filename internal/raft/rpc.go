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

// RPCType discriminates the payload carried by an RPC envelope. Go has
// no tagged-union sugar, so RPC carries every variant as an optional
// pointer field and RPCType says which one is populated — callers
// switch on Type, not on which pointer is non-nil.
type RPCType int

const (
	RPCVoteRequest RPCType = iota
	RPCVoteResponse
	RPCAppendRequest
	RPCAppendResponse
	RPCForwardRequest
)

// RPC is the envelope every Raft message travels in, wrapped by the
// workload in its own `raft` message type and forwarded into Process.
type RPC[C any] struct {
	Term int     `json:"term"`
	Type RPCType `json:"type"`

	VoteRequest     *VoteRequest      `json:"vote_request,omitempty"`
	VoteResponse    *VoteResponse     `json:"vote_response,omitempty"`
	AppendRequest   *AppendRequest[C] `json:"append_request,omitempty"`
	AppendResponse  *AppendResponse   `json:"append_response,omitempty"`
	ForwardRequest  *ForwardRequest[C] `json:"forward_request,omitempty"`
}

// VoteRequest is a candidate's solicitation for a vote.
type VoteRequest struct {
	Candidate     string `json:"candidate"`
	LastLogIndex  int    `json:"last_log_index"`
	LastLogTerm   int    `json:"last_log_term"`
}

// VoteResponse answers a VoteRequest.
type VoteResponse struct {
	Voter   string `json:"voter"`
	Granted bool   `json:"granted"`
}

// AppendRequest replicates a suffix of the leader's log (or, with an
// empty Suffix, serves as a heartbeat).
type AppendRequest[C any] struct {
	Leader     string        `json:"leader"`
	PrefixLen  int           `json:"prefix_len"`
	PrefixTerm int           `json:"prefix_term"`
	CommitLen  int           `json:"commit_len"`
	Suffix     []LogEntry[C] `json:"suffix"`
}

// AppendResponse reports how far a follower's log now extends, or nil
// Ack if the append was rejected (term/log mismatch).
type AppendResponse struct {
	Follower string `json:"follower"`
	Ack      *int   `json:"ack"`
}

// ForwardRequest asks the leader to apply a command on a follower's
// behalf (only the leader appends to the log, so a follower that knows
// the leader forwards the command there instead of applying it locally).
type ForwardRequest[C any] struct {
	Follower string `json:"follower"`
	Command  C      `json:"command"`
}

// DeliveryKind says how many peers a Delivery targets.
type DeliveryKind int

const (
	DeliveryUnicast DeliveryKind = iota
	DeliveryBroadcast
	DeliveryMulticast
)

// Delivery is the engine's instruction to the caller about what RPC to
// send where. Unicast/Broadcast carry a single RPC (To empty for
// Broadcast, sent to every peer); Multicast carries a distinct RPC per
// destination (used by on-replicate, since each follower gets its own
// AppendRequest suffix).
type Delivery[C any] struct {
	Kind DeliveryKind
	To   string
	RPC  RPC[C]

	Multi []Addressed[C]
}

// Addressed pairs a destination with the RPC meant for it, used by
// Kind == DeliveryMulticast.
type Addressed[C any] struct {
	To  string
	RPC RPC[C]
}
