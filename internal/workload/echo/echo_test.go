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

package echo

import (
	"encoding/json"
	"testing"

	"github.com/flydb-labs/maelstrom/internal/envelope"
	"github.com/flydb-labs/maelstrom/internal/node"
)

func TestEchoRepliesWithSamePayload(t *testing.T) {
	n := New()
	tx, drain := node.NewTestSender("n1", 4)
	if err := n.Init("n1", []string{"n1"}, tx); err != nil {
		t.Fatalf("Init: %v", err)
	}

	body, _ := json.Marshal(echoBody{Type: "echo", MsgID: 1, Echo: "hello"})
	err := n.Message(envelope.Envelope{Src: "c1", Dest: "n1", Body: body}, tx)
	if err != nil {
		t.Fatalf("Message: %v", err)
	}

	sent := drain()
	if len(sent) != 1 {
		t.Fatalf("expected 1 reply, got %d", len(sent))
	}
	reply, ok := sent[0].Payload.(echoOkBody)
	if !ok {
		t.Fatalf("expected echoOkBody payload, got %T", sent[0].Payload)
	}
	if reply.Echo != "hello" || reply.Type != "echo_ok" {
		t.Fatalf("unexpected reply: %+v", reply)
	}
	if sent[0].Dest != "c1" || sent[0].InReplyTo == nil || *sent[0].InReplyTo != 1 {
		t.Fatalf("unexpected addressing: %+v", sent[0])
	}
}

func TestEchoRejectsUnknownType(t *testing.T) {
	n := New()
	tx, _ := node.NewTestSender("n1", 4)
	_ = n.Init("n1", []string{"n1"}, tx)

	body, _ := json.Marshal(map[string]any{"type": "bogus", "msg_id": 1})
	if err := n.Message(envelope.Envelope{Src: "c1", Dest: "n1", Body: body}, tx); err == nil {
		t.Fatal("expected an error for an unrecognised message type")
	}
}
