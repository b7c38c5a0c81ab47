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
Package txnkv implements the transactional KV workload (spec §4.6): a
transaction is an ordered list of read/append micro-ops against
integer-keyed lists, executed atomically (free, since the runtime never
re-enters a Message callback) and echoed back with every read filled in.
*/
package txnkv

import (
	"encoding/json"
	"fmt"

	"github.com/flydb-labs/maelstrom/internal/envelope"
	"github.com/flydb-labs/maelstrom/internal/node"
)

// Node dispatches txn requests against a store.
type Node struct {
	id    string
	store *store
}

// New returns an unstarted transactional-KV Node.
func New() *Node {
	return &Node{store: newStore()}
}

func (n *Node) Init(nodeID string, nodeIDs []string, tx node.Sender) error {
	n.id = nodeID
	return nil
}

type txnBody struct {
	Type  string `json:"type"`
	MsgID int    `json:"msg_id"`
	Txn   []op   `json:"txn"`
}

type txnOkBody struct {
	Type string `json:"type"`
	Txn  []op   `json:"txn"`
}

func (n *Node) Message(msg envelope.Envelope, tx node.Sender) error {
	header, err := envelope.ParseHeader(msg.Body)
	if err != nil {
		return fmt.Errorf("txnkv: malformed body: %w", err)
	}

	switch header.Type {
	case "txn":
		var body txnBody
		if err := json.Unmarshal(msg.Body, &body); err != nil {
			return fmt.Errorf("txnkv: malformed txn body: %w", err)
		}
		applied := n.store.apply(body.Txn)
		tx.Reply(msg.Src, body.MsgID, txnOkBody{Type: "txn_ok", Txn: applied})
		return nil

	default:
		return fmt.Errorf("txnkv: unrecognised message type %q", header.Type)
	}
}

func (n *Node) Event(event any, tx node.Sender) error {
	return nil
}
