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

/*
Package node provides the Maelstrom node runtime: the event loop that
multiplexes inbound protocol messages and periodic timer events into a
single, serial stream of callbacks against a workload.

Runtime Overview:
=================

A workload implements the Node interface. The Runtime owns everything
around it: reading stdin, writing stdout, assigning outbound sequence
ids, and merging the timer streams a workload asked for. The contract
(spec §4.3) is that Init/Message/Event are never invoked concurrently
with each other and never re-entered — a workload never needs a mutex.
*/
package node

import "github.com/flydb-labs/maelstrom/internal/envelope"

// Node is the trait-style contract every workload implements.
type Node interface {
	// Init is called exactly once, before any Message/Event callback,
	// with this process's id and the full cluster membership.
	Init(nodeID string, nodeIDs []string, tx Sender) error

	// Message handles one inbound envelope. The Runtime has only checked
	// that msg.Body parses as a header; whether its "type" is one the
	// workload recognises is not checked, and an unrecognised type is a
	// protocol violation the workload treats as fatal (spec §6, §7.3).
	Message(msg envelope.Envelope, tx Sender) error

	// Event handles one fired timer event, identified by the same
	// value the workload registered it with in Timers().
	Event(event any, tx Sender) error
}

// TimerSpec registers a periodic event with the Runtime. Event is
// cloned (by value, since it is typically a small comparable constant
// such as a string or int) and delivered once per Interval.
type TimerSpec struct {
	Interval int64 // milliseconds
	Event    any
}

// Timers is implemented by workloads that want periodic events
// alongside inbound messages (the gossip workloads' anti-entropy tick,
// Raft's election/heartbeat tick). Workloads with no timers (echo,
// unique, txnkv) simply don't implement it.
type Timers interface {
	Timers() []TimerSpec
}
