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

package gcounter

import (
	"encoding/json"
	"testing"

	"github.com/flydb-labs/maelstrom/internal/envelope"
	"github.com/flydb-labs/maelstrom/internal/node"
)

func TestAddAccumulatesLocally(t *testing.T) {
	n := New()
	tx, drain := node.NewTestSender("n1", 8)
	_ = n.Init("n1", []string{"n1", "n2"}, tx)

	add, _ := json.Marshal(addBody{Type: "add", MsgID: 1, Delta: 5})
	if err := n.Message(envelope.Envelope{Src: "c1", Dest: "n1", Body: add}, tx); err != nil {
		t.Fatalf("Message: %v", err)
	}
	drain()
	if n.acc != 5 {
		t.Fatalf("expected acc == 5, got %d", n.acc)
	}
}

func TestReadSumsLocalAndObservedPeers(t *testing.T) {
	n := New()
	tx, drain := node.NewTestSender("n1", 8)
	_ = n.Init("n1", []string{"n1", "n2"}, tx)

	add, _ := json.Marshal(addBody{Type: "add", MsgID: 1, Delta: 3})
	_ = n.Message(envelope.Envelope{Src: "c1", Dest: "n1", Body: add}, tx)
	drain()

	gossip, _ := json.Marshal(gossipBody{Type: "gossip", Value: 10})
	if err := n.Message(envelope.Envelope{Src: "n2", Dest: "n1", Body: gossip}, tx); err != nil {
		t.Fatalf("Message: %v", err)
	}
	sent := drain()
	if len(sent) != 1 {
		t.Fatalf("expected a gossip_ok reply, got %d messages", len(sent))
	}
	gok := sent[0].Payload.(gossipOkBody)
	if gok.Value != 10 {
		t.Fatalf("expected gossip_ok to echo the received value 10, got %d", gok.Value)
	}

	read, _ := json.Marshal(readBody{Type: "read", MsgID: 2})
	if err := n.Message(envelope.Envelope{Src: "c1", Dest: "n1", Body: read}, tx); err != nil {
		t.Fatalf("Message: %v", err)
	}
	sent = drain()
	got := sent[0].Payload.(readOkBody)
	if got.Value != 13 {
		t.Fatalf("expected read to return acc(3) + observed(10) == 13, got %d", got.Value)
	}
}

func TestGossipTickOnlyTargetsUnconfirmedPeers(t *testing.T) {
	n := New()
	tx, drain := node.NewTestSender("n1", 8)
	_ = n.Init("n1", []string{"n1", "n2"}, tx)

	add, _ := json.Marshal(addBody{Type: "add", MsgID: 1, Delta: 4})
	_ = n.Message(envelope.Envelope{Src: "c1", Dest: "n1", Body: add}, tx)
	drain()

	if err := n.Event(gossipTick, tx); err != nil {
		t.Fatalf("Event: %v", err)
	}
	sent := drain()
	if len(sent) != 1 || sent[0].Dest != "n2" {
		t.Fatalf("expected one gossip to n2, got %+v", sent)
	}

	gossipOk, _ := json.Marshal(gossipOkBody{Type: "gossip_ok", Value: 4})
	if err := n.Message(envelope.Envelope{Src: "n2", Dest: "n1", Body: gossipOk}, tx); err != nil {
		t.Fatalf("Message: %v", err)
	}
	drain()

	if err := n.Event(gossipTick, tx); err != nil {
		t.Fatalf("Event: %v", err)
	}
	if sent := drain(); len(sent) != 0 {
		t.Fatalf("expected no gossip once n2 has confirmed the current value, got %+v", sent)
	}
}
