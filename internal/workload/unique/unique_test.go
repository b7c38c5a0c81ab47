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

package unique

import (
	"encoding/json"
	"testing"

	"github.com/flydb-labs/maelstrom/internal/envelope"
	"github.com/flydb-labs/maelstrom/internal/node"
)

func TestGenerateReturnsDistinctIDs(t *testing.T) {
	n := New()
	tx, drain := node.NewTestSender("n1", 4)
	_ = n.Init("n1", []string{"n1"}, tx)

	body, _ := json.Marshal(generateBody{Type: "generate", MsgID: 1})
	if err := n.Message(envelope.Envelope{Src: "c1", Dest: "n1", Body: body}, tx); err != nil {
		t.Fatalf("Message: %v", err)
	}
	if err := n.Message(envelope.Envelope{Src: "c1", Dest: "n1", Body: body}, tx); err != nil {
		t.Fatalf("Message: %v", err)
	}

	sent := drain()
	if len(sent) != 2 {
		t.Fatalf("expected 2 replies, got %d", len(sent))
	}
	first := sent[0].Payload.(generateOkBody)
	second := sent[1].Payload.(generateOkBody)
	if len(first.ID) != 26 || len(second.ID) != 26 {
		t.Fatalf("expected 26-character ids, got %q and %q", first.ID, second.ID)
	}
	if first.ID == second.ID {
		t.Fatalf("expected distinct ids, both were %q", first.ID)
	}
}
