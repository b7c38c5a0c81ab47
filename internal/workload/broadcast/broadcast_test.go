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

package broadcast

import (
	"encoding/json"
	"testing"

	"github.com/flydb-labs/maelstrom/internal/envelope"
	"github.com/flydb-labs/maelstrom/internal/node"
)

func newTestNode(t *testing.T, id string, peers []string) (*Node, node.Sender, func() []node.Sent) {
	t.Helper()
	n := New()
	tx, drain := node.NewTestSender(id, 16)
	if err := n.Init(id, append([]string{id}, peers...), tx); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return n, tx, drain
}

func TestBroadcastInsertsAndAcks(t *testing.T) {
	n, tx, drain := newTestNode(t, "n1", []string{"n2"})

	body, _ := json.Marshal(broadcastBody{Type: "broadcast", MsgID: 1, Message: json.Number("5")})
	if err := n.Message(envelope.Envelope{Src: "c1", Dest: "n1", Body: body}, tx); err != nil {
		t.Fatalf("Message: %v", err)
	}

	sent := drain()
	if len(sent) != 1 {
		t.Fatalf("expected 1 ack, got %d", len(sent))
	}
	if n.set.Len() != 1 {
		t.Fatalf("expected the message to be recorded locally, got set size %d", n.set.Len())
	}
}

func TestReadReturnsEverythingSeen(t *testing.T) {
	n, tx, drain := newTestNode(t, "n1", []string{"n2"})

	for _, m := range []string{"1", "2", "3"} {
		body, _ := json.Marshal(broadcastBody{Type: "broadcast", MsgID: 1, Message: json.Number(m)})
		_ = n.Message(envelope.Envelope{Src: "c1", Dest: "n1", Body: body}, tx)
	}
	drain()

	readReq, _ := json.Marshal(readBody{Type: "read", MsgID: 2})
	if err := n.Message(envelope.Envelope{Src: "c1", Dest: "n1", Body: readReq}, tx); err != nil {
		t.Fatalf("Message: %v", err)
	}
	sent := drain()
	if len(sent) != 1 {
		t.Fatalf("expected 1 read_ok, got %d", len(sent))
	}
	got := sent[0].Payload.(readOkBody)
	if len(got.Messages) != 3 {
		t.Fatalf("expected all 3 messages back, got %+v", got)
	}
}

func TestGossipTickSendsOnlyTheMissingDelta(t *testing.T) {
	n, tx, drain := newTestNode(t, "n1", []string{"n2"})

	body, _ := json.Marshal(broadcastBody{Type: "broadcast", MsgID: 1, Message: json.Number("5")})
	_ = n.Message(envelope.Envelope{Src: "c1", Dest: "n1", Body: body}, tx)
	drain()

	if err := n.Event(gossipTick, tx); err != nil {
		t.Fatalf("Event: %v", err)
	}
	sent := drain()
	if len(sent) != 1 || sent[0].Dest != "n2" {
		t.Fatalf("expected exactly one gossip to n2, got %+v", sent)
	}
	gb := sent[0].Payload.(gossipBody)
	if len(gb.Messages) != 1 || gb.Messages[0] != "5" {
		t.Fatalf("unexpected gossip payload: %+v", gb)
	}

	// n1 records "5" as seen by n2 only once n2 gossips it back, so
	// simulate that inbound gossip; a second tick then has nothing new
	// to share with n2 and sends nothing further.
	ackBody, _ := json.Marshal(gossipBody{Type: "gossip", Messages: []json.Number{"5"}})
	if err := n.Message(envelope.Envelope{Src: "n2", Dest: "n1", Body: ackBody}, tx); err != nil {
		t.Fatalf("Message: %v", err)
	}
	drain()

	if err := n.Event(gossipTick, tx); err != nil {
		t.Fatalf("Event: %v", err)
	}
	if sent := drain(); len(sent) != 0 {
		t.Fatalf("expected no further gossip once n2 has seen everything, got %+v", sent)
	}
}

func TestTopologyRestrictsNeighbors(t *testing.T) {
	n, tx, drain := newTestNode(t, "n1", []string{"n2", "n3"})

	topo, _ := json.Marshal(topologyBody{
		Type:     "topology",
		MsgID:    1,
		Topology: map[string][]string{"n1": {"n2"}},
	})
	if err := n.Message(envelope.Envelope{Src: "c1", Dest: "n1", Body: topo}, tx); err != nil {
		t.Fatalf("Message: %v", err)
	}
	drain()

	if len(n.neighbors) != 1 || n.neighbors[0] != "n2" {
		t.Fatalf("expected neighbours to be restricted to [n2], got %v", n.neighbors)
	}
}
