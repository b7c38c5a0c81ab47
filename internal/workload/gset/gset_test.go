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

package gset

import (
	"encoding/json"
	"testing"

	"github.com/flydb-labs/maelstrom/internal/envelope"
	"github.com/flydb-labs/maelstrom/internal/node"
)

func TestAddAndRead(t *testing.T) {
	n := New()
	tx, drain := node.NewTestSender("n1", 8)
	_ = n.Init("n1", []string{"n1", "n2"}, tx)

	add, _ := json.Marshal(addBody{Type: "add", MsgID: 1, Element: json.Number("7")})
	if err := n.Message(envelope.Envelope{Src: "c1", Dest: "n1", Body: add}, tx); err != nil {
		t.Fatalf("Message: %v", err)
	}
	drain()

	read, _ := json.Marshal(readBody{Type: "read", MsgID: 2})
	if err := n.Message(envelope.Envelope{Src: "c1", Dest: "n1", Body: read}, tx); err != nil {
		t.Fatalf("Message: %v", err)
	}
	sent := drain()
	if len(sent) != 1 {
		t.Fatalf("expected 1 reply, got %d", len(sent))
	}
	got := sent[0].Payload.(readOkBody)
	if len(got.Value) != 1 || got.Value[0] != "7" {
		t.Fatalf("unexpected read_ok: %+v", got)
	}
}

func TestReplicateTickSendsFullSetToEveryPeer(t *testing.T) {
	n := New()
	tx, drain := node.NewTestSender("n1", 8)
	_ = n.Init("n1", []string{"n1", "n2", "n3"}, tx)

	add, _ := json.Marshal(addBody{Type: "add", MsgID: 1, Element: json.Number("1")})
	_ = n.Message(envelope.Envelope{Src: "c1", Dest: "n1", Body: add}, tx)
	drain()

	if err := n.Event(replicateTick, tx); err != nil {
		t.Fatalf("Event: %v", err)
	}
	sent := drain()
	if len(sent) != 2 {
		t.Fatalf("expected replication to both peers, got %d messages", len(sent))
	}
	for _, s := range sent {
		if s.Dest != "n2" && s.Dest != "n3" {
			t.Fatalf("unexpected destination %q", s.Dest)
		}
		rb := s.Payload.(replicateBody)
		if len(rb.Elements) != 1 || rb.Elements[0] != "1" {
			t.Fatalf("unexpected replicate payload: %+v", rb)
		}
	}
}

func TestReplicateMerges(t *testing.T) {
	n := New()
	tx, drain := node.NewTestSender("n2", 8)
	_ = n.Init("n2", []string{"n1", "n2"}, tx)

	repl, _ := json.Marshal(replicateBody{Type: "replicate", Elements: []json.Number{"1", "2"}})
	if err := n.Message(envelope.Envelope{Src: "n1", Dest: "n2", Body: repl}, tx); err != nil {
		t.Fatalf("Message: %v", err)
	}
	if sent := drain(); len(sent) != 0 {
		t.Fatalf("expected no reply to an unsolicited replicate, got %+v", sent)
	}
	if n.set.Len() != 2 {
		t.Fatalf("expected both elements merged in, got size %d", n.set.Len())
	}
}
