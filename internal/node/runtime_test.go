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

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/flydb-labs/maelstrom/internal/envelope"
)

// fakeNode echoes every message body back to its sender, unmodified
// apart from a "pong" type swap, so Runtime tests can assert on a
// single well-known reply shape without depending on any real
// workload package.
type fakeNode struct {
	initNodeID string
	initPeers  []string
	received   []envelope.Envelope
}

func (f *fakeNode) Init(nodeID string, nodeIDs []string, tx Sender) error {
	f.initNodeID = nodeID
	f.initPeers = nodeIDs
	return nil
}

func (f *fakeNode) Message(msg envelope.Envelope, tx Sender) error {
	f.received = append(f.received, msg)
	var body struct {
		MsgID int `json:"msg_id"`
	}
	_ = json.Unmarshal(msg.Body, &body)
	tx.Reply(msg.Src, body.MsgID, map[string]string{"type": "pong"})
	return nil
}

func (f *fakeNode) Event(event any, tx Sender) error { return nil }

func TestRuntimeRunPerformsInitHandshake(t *testing.T) {
	in := strings.NewReader(`{"src":"c1","dest":"n1","body":{"type":"init","msg_id":1,"node_id":"n1","node_ids":["n1","n2"]}}` + "\n")
	var out bytes.Buffer

	n := &fakeNode{}
	rt := New(n, in, &out, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rt.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if n.initNodeID != "n1" {
		t.Fatalf("expected init node id n1, got %q", n.initNodeID)
	}
	if len(n.initPeers) != 2 {
		t.Fatalf("expected 2 peers, got %v", n.initPeers)
	}

	var reply envelope.Envelope
	if err := json.Unmarshal(bytes.TrimSpace(out.Bytes()), &reply); err != nil {
		t.Fatalf("unmarshal init_ok line: %v", err)
	}
	if reply.Src != "n1" || reply.Dest != "c1" {
		t.Fatalf("unexpected init_ok addressing: %+v", reply)
	}
	var body struct {
		Type      string `json:"type"`
		InReplyTo int    `json:"in_reply_to"`
	}
	if err := json.Unmarshal(reply.Body, &body); err != nil {
		t.Fatalf("unmarshal init_ok body: %v", err)
	}
	if body.Type != "init_ok" || body.InReplyTo != 1 {
		t.Fatalf("unexpected init_ok body: %+v", body)
	}
}

func TestRuntimeRunDispatchesMessagesAfterInit(t *testing.T) {
	in := strings.NewReader(
		`{"src":"c1","dest":"n1","body":{"type":"init","msg_id":1,"node_id":"n1","node_ids":["n1"]}}` + "\n" +
			`{"src":"c1","dest":"n1","body":{"type":"ping","msg_id":2}}` + "\n",
	)
	var out bytes.Buffer

	n := &fakeNode{}
	rt := New(n, in, &out, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rt.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(n.received) != 1 {
		t.Fatalf("expected 1 dispatched message, got %d", len(n.received))
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected init_ok + pong, got %d lines: %v", len(lines), lines)
	}
	var pong envelope.Envelope
	if err := json.Unmarshal([]byte(lines[1]), &pong); err != nil {
		t.Fatalf("unmarshal pong line: %v", err)
	}
	var pongBody struct {
		Type      string `json:"type"`
		InReplyTo int    `json:"in_reply_to"`
	}
	if err := json.Unmarshal(pong.Body, &pongBody); err != nil {
		t.Fatalf("unmarshal pong body: %v", err)
	}
	if pongBody.Type != "pong" || pongBody.InReplyTo != 2 {
		t.Fatalf("unexpected pong body: %+v", pongBody)
	}
}

func TestRuntimeRunRejectsNonInitFirstMessage(t *testing.T) {
	in := strings.NewReader(`{"src":"c1","dest":"n1","body":{"type":"echo","msg_id":1,"echo":"hi"}}` + "\n")
	var out bytes.Buffer

	rt := New(&fakeNode{}, in, &out, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rt.Run(ctx); err == nil {
		t.Fatal("expected an error when the first message isn't init")
	}
}
