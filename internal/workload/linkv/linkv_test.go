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

package linkv

import (
	"encoding/json"
	"testing"

	"github.com/flydb-labs/maelstrom/internal/envelope"
	"github.com/flydb-labs/maelstrom/internal/node"
	"github.com/flydb-labs/maelstrom/internal/value"
)

func TestReadMissingKeyReturnsNilValue(t *testing.T) {
	n := New()
	tx, drain := node.NewTestSender("n1", 8)
	_ = n.Init("n1", []string{"n1"}, tx)

	req, _ := json.Marshal(readBody{Type: "read", MsgID: 1, Key: value.Of(float64(9))})
	if err := n.Message(envelope.Envelope{Src: "c1", Dest: "n1", Body: req}, tx); err != nil {
		t.Fatalf("Message: %v", err)
	}
	sent := drain()
	if len(sent) != 1 {
		t.Fatalf("expected 1 reply, got %d", len(sent))
	}
	reply, ok := sent[0].Payload.(readOkBody)
	if !ok || reply.Type != "read_ok" || reply.Value != nil {
		t.Fatalf("expected read_ok with a nil value, got %+v", sent[0].Payload)
	}
}

// TestWriteWithNoKnownLeaderDropsSilently exercises the path a fresh
// node takes before any election has happened: Apply reports false and
// submit drops the command rather than answering at all (the client's
// Maelstrom library retries on timeout — spec §4.7).
func TestWriteWithNoKnownLeaderDropsSilently(t *testing.T) {
	n := New()
	tx, drain := node.NewTestSender("n1", 8)
	_ = n.Init("n1", []string{"n1", "n2", "n3"}, tx)

	req, _ := json.Marshal(writeBody{Type: "write", MsgID: 1, Key: value.Of(float64(1)), Value: value.Of(float64(2))})
	if err := n.Message(envelope.Envelope{Src: "c1", Dest: "n1", Body: req}, tx); err != nil {
		t.Fatalf("Message: %v", err)
	}
	if sent := drain(); len(sent) != 0 {
		t.Fatalf("expected nothing sent before any leader is known, got %+v", sent)
	}
}

// The remaining tests exercise applyCommitted directly rather than
// driving a full multi-node Raft election: the consensus engine itself
// is already covered by internal/raft's own tests, so here the goal is
// only to pin the KV semantics a committed command produces.

func TestApplyCommittedWriteRepliesOnlyForOrigin(t *testing.T) {
	n := New()
	tx, drain := node.NewTestSender("n1", 8)
	_ = n.Init("n1", []string{"n1"}, tx)

	key := value.Of(float64(1))
	val := value.Of(float64(100))

	n.applyCommitted(raftCommand{
		Origin:  "n1",
		Reply:   reply{MsgID: 5, Client: "c1"},
		Command: command{Kind: commandWrite, Key: key, Value: val},
	}, tx)

	sent := drain()
	if len(sent) != 1 || sent[0].Dest != "c1" {
		t.Fatalf("expected a reply to the originating client, got %+v", sent)
	}
	stored, ok := n.store[key.Key()]
	if !ok || !stored.Equal(val) {
		t.Fatalf("expected the write to be stored, got %+v (ok=%v)", stored, ok)
	}

	// A command that originated elsewhere must still apply locally but
	// never reply from this node.
	n.applyCommitted(raftCommand{
		Origin:  "n2",
		Reply:   reply{MsgID: 6, Client: "c2"},
		Command: command{Kind: commandWrite, Key: value.Of(float64(2)), Value: value.Of(float64(9))},
	}, tx)
	if sent := drain(); len(sent) != 0 {
		t.Fatalf("expected no reply for a command this node did not originate, got %+v", sent)
	}
}

func TestApplyCommittedCasSuccess(t *testing.T) {
	n := New()
	tx, drain := node.NewTestSender("n1", 8)
	_ = n.Init("n1", []string{"n1"}, tx)

	key := value.Of(float64(1))
	n.store[key.Key()] = value.Of(float64(10))

	n.applyCommitted(raftCommand{
		Origin:  "n1",
		Reply:   reply{MsgID: 1, Client: "c1"},
		Command: command{Kind: commandCas, Key: key, From: value.Of(float64(10)), To: value.Of(float64(20))},
	}, tx)

	sent := drain()
	if len(sent) != 1 {
		t.Fatalf("expected 1 reply, got %d", len(sent))
	}
	if _, ok := sent[0].Payload.(map[string]string); !ok {
		t.Fatalf("expected cas_ok map payload, got %T", sent[0].Payload)
	}
	if got := n.store[key.Key()]; !got.Equal(value.Of(float64(20))) {
		t.Fatalf("expected stored value to become 20, got %v", got.Raw())
	}
}

func TestApplyCommittedCasMismatchReturnsPreconditionFailed(t *testing.T) {
	n := New()
	tx, drain := node.NewTestSender("n1", 8)
	_ = n.Init("n1", []string{"n1"}, tx)

	key := value.Of(float64(1))
	n.store[key.Key()] = value.Of(float64(10))

	n.applyCommitted(raftCommand{
		Origin:  "n1",
		Reply:   reply{MsgID: 1, Client: "c1"},
		Command: command{Kind: commandCas, Key: key, From: value.Of(float64(999)), To: value.Of(float64(20))},
	}, tx)

	sent := drain()
	errBody, ok := sent[0].Payload.(envelope.ErrorBody)
	if !ok || errBody.Code != envelope.CodePreconditionFailed {
		t.Fatalf("expected a precondition-failed error, got %+v", sent[0].Payload)
	}
	if got := n.store[key.Key()]; !got.Equal(value.Of(float64(10))) {
		t.Fatalf("expected stored value to be unchanged, got %v", got.Raw())
	}
}

func TestApplyCommittedCasMissingKeyReturnsKeyDoesNotExist(t *testing.T) {
	n := New()
	tx, drain := node.NewTestSender("n1", 8)
	_ = n.Init("n1", []string{"n1"}, tx)

	n.applyCommitted(raftCommand{
		Origin:  "n1",
		Reply:   reply{MsgID: 1, Client: "c1"},
		Command: command{Kind: commandCas, Key: value.Of(float64(42)), From: value.Of(float64(1)), To: value.Of(float64(2))},
	}, tx)

	sent := drain()
	errBody, ok := sent[0].Payload.(envelope.ErrorBody)
	if !ok || errBody.Code != envelope.CodeKeyDoesNotExist {
		t.Fatalf("expected a key-does-not-exist error, got %+v", sent[0].Payload)
	}
}
