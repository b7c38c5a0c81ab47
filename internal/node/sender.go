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

// outbound is one enqueued emission, buffered until the Runtime's next
// flush point.
type outbound struct {
	dest      string
	inReplyTo *int
	payload   any
}

// Sender is a cheap-to-copy handle workload callbacks use to enqueue
// outbound envelopes. Send is non-blocking and cannot fail from the
// workload's point of view — the channel is unbounded (spec §4.2); a
// blocked send would be a Runtime bug, not a workload one.
type Sender struct {
	nodeID string
	queue  chan outbound
}

func newSender(nodeID string, queue chan outbound) Sender {
	return Sender{nodeID: nodeID, queue: queue}
}

// NodeID returns the id this Sender emits envelopes from.
func (s Sender) NodeID() string {
	return s.nodeID
}

// Send enqueues payload addressed to dest. Pass inReplyTo non-nil to
// answer a specific inbound msg_id; pass nil for unsolicited sends
// (gossip, forwarded commands, Raft RPCs).
func (s Sender) Send(dest string, inReplyTo *int, payload any) {
	s.queue <- outbound{dest: dest, inReplyTo: inReplyTo, payload: payload}
}

// Reply is shorthand for Send answering a specific inbound msg_id.
func (s Sender) Reply(dest string, inReplyTo int, payload any) {
	s.Send(dest, &inReplyTo, payload)
}
