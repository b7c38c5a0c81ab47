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

// Package unique implements the unique-id-generation workload: every
// generate request gets back a fresh, globally unique, time-ordered id
// (spec §4.9). No coordination between nodes is required — the id's
// timestamp prefix plus random tail makes collisions between concurrent
// generators on different nodes astronomically unlikely.
package unique

import (
	"encoding/json"
	"fmt"

	"github.com/flydb-labs/maelstrom/internal/envelope"
	"github.com/flydb-labs/maelstrom/internal/id"
	"github.com/flydb-labs/maelstrom/internal/node"
)

// Node replies to every generate with a fresh id.
type Node struct {
	nodeID string
}

// New returns an unstarted unique-id Node.
func New() *Node {
	return &Node{}
}

func (n *Node) Init(nodeID string, nodeIDs []string, tx node.Sender) error {
	n.nodeID = nodeID
	return nil
}

type generateBody struct {
	Type  string `json:"type"`
	MsgID int    `json:"msg_id"`
}

type generateOkBody struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

func (n *Node) Message(msg envelope.Envelope, tx node.Sender) error {
	header, err := envelope.ParseHeader(msg.Body)
	if err != nil {
		return fmt.Errorf("unique: malformed body: %w", err)
	}
	switch header.Type {
	case "generate":
		var body generateBody
		if err := json.Unmarshal(msg.Body, &body); err != nil {
			return fmt.Errorf("unique: malformed generate body: %w", err)
		}
		tx.Reply(msg.Src, body.MsgID, generateOkBody{Type: "generate_ok", ID: id.Generate()})
		return nil
	default:
		return fmt.Errorf("unique: unrecognised message type %q", header.Type)
	}
}

func (n *Node) Event(event any, tx node.Sender) error {
	return nil
}
