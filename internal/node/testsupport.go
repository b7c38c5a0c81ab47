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

// Sent is one enqueued outbound emission, exposed so workload package
// tests can exercise a Node's Message/Event methods directly against a
// Sender without spinning up a full Runtime and a pair of pipes.
type Sent struct {
	Dest      string
	InReplyTo *int
	Payload   any
}

// NewTestSender returns a Sender backed by a buffered channel, plus a
// drain function returning everything enqueued since the last call to
// it. Buffer must be large enough to hold whatever a single test step
// enqueues; Send blocks (like the real Runtime's channel would) if it
// fills up.
func NewTestSender(nodeID string, buffer int) (Sender, func() []Sent) {
	queue := make(chan outbound, buffer)
	tx := newSender(nodeID, queue)

	drain := func() []Sent {
		var out []Sent
		for {
			select {
			case ob := <-queue:
				out = append(out, Sent{Dest: ob.dest, InReplyTo: ob.inReplyTo, Payload: ob.payload})
			default:
				return out
			}
		}
	}

	return tx, drain
}
