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

// Package echo implements the trivial echo workload: whatever a client
// sends back verbatim, tagged echo_ok. It exists mainly as the smallest
// possible Node implementation to exercise the runtime against.
package echo

import (
	"encoding/json"
	"fmt"

	"github.com/flydb-labs/maelstrom/internal/envelope"
	"github.com/flydb-labs/maelstrom/internal/node"
)

// Node replies to every echo with the same payload.
type Node struct {
	id string
}

// New returns an unstarted echo Node.
func New() *Node {
	return &Node{}
}

func (n *Node) Init(nodeID string, nodeIDs []string, tx node.Sender) error {
	n.id = nodeID
	return nil
}

type echoBody struct {
	Type  string `json:"type"`
	Echo  string `json:"echo"`
	MsgID int    `json:"msg_id"`
}

type echoOkBody struct {
	Type string `json:"type"`
	Echo string `json:"echo"`
}

func (n *Node) Message(msg envelope.Envelope, tx node.Sender) error {
	header, err := envelope.ParseHeader(msg.Body)
	if err != nil {
		return fmt.Errorf("echo: malformed body: %w", err)
	}
	switch header.Type {
	case "echo":
		var body echoBody
		if err := json.Unmarshal(msg.Body, &body); err != nil {
			return fmt.Errorf("echo: malformed echo body: %w", err)
		}
		tx.Reply(msg.Src, body.MsgID, echoOkBody{Type: "echo_ok", Echo: body.Echo})
		return nil
	default:
		return fmt.Errorf("echo: unrecognised message type %q", header.Type)
	}
}

func (n *Node) Event(event any, tx node.Sender) error {
	return nil
}
