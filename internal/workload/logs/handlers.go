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
Package logs implements the kafka-style append-only log workload (spec
§4.5): per-key logs that clients append to with send, read forward from
an offset with poll, and checkpoint with commit_offsets /
list_committed_offsets. Unlike the gossip workloads this one is
single-node per key — there is no cross-node replication here, matching
the upstream design where each log's home node is whichever one first
receives traffic for its key.
*/
package logs

import (
	"encoding/json"
	"fmt"

	"github.com/flydb-labs/maelstrom/internal/envelope"
	"github.com/flydb-labs/maelstrom/internal/node"
)

// Node dispatches log operations against a store.
type Node struct {
	id    string
	store *store
}

// New returns an unstarted log Node.
func New() *Node {
	return &Node{store: newStore()}
}

func (n *Node) Init(nodeID string, nodeIDs []string, tx node.Sender) error {
	n.id = nodeID
	return nil
}

type sendBody struct {
	Type  string `json:"type"`
	MsgID int    `json:"msg_id"`
	Key   string `json:"key"`
	Msg   int64  `json:"msg"`
}

type sendOkBody struct {
	Type   string `json:"type"`
	Offset int64  `json:"offset"`
}

type pollBody struct {
	Type    string           `json:"type"`
	MsgID   int              `json:"msg_id"`
	Offsets map[string]int64 `json:"offsets"`
}

type pollOkBody struct {
	Type string                `json:"type"`
	Msgs map[string][][2]int64 `json:"msgs"`
}

type commitOffsetsBody struct {
	Type    string           `json:"type"`
	MsgID   int              `json:"msg_id"`
	Offsets map[string]int64 `json:"offsets"`
}

type listCommittedOffsetsBody struct {
	Type  string   `json:"type"`
	MsgID int      `json:"msg_id"`
	Keys  []string `json:"keys"`
}

type listCommittedOffsetsOkBody struct {
	Type    string           `json:"type"`
	Offsets map[string]int64 `json:"offsets"`
}

func (n *Node) Message(msg envelope.Envelope, tx node.Sender) error {
	header, err := envelope.ParseHeader(msg.Body)
	if err != nil {
		return fmt.Errorf("logs: malformed body: %w", err)
	}

	switch header.Type {
	case "send":
		var body sendBody
		if err := json.Unmarshal(msg.Body, &body); err != nil {
			return fmt.Errorf("logs: malformed send body: %w", err)
		}
		offset := n.store.logFor(body.Key).push(body.Msg)
		tx.Reply(msg.Src, body.MsgID, sendOkBody{Type: "send_ok", Offset: offset})
		return nil

	case "poll":
		var body pollBody
		if err := json.Unmarshal(msg.Body, &body); err != nil {
			return fmt.Errorf("logs: malformed poll body: %w", err)
		}
		msgs := make(map[string][][2]int64, len(body.Offsets))
		for key, from := range body.Offsets {
			l, ok := n.store.existing(key)
			if !ok {
				continue
			}
			entries := l.poll(from)
			if len(entries) == 0 {
				continue
			}
			pairs := make([][2]int64, len(entries))
			for i, e := range entries {
				pairs[i] = [2]int64{e.offset, e.msg}
			}
			msgs[key] = pairs
		}
		tx.Reply(msg.Src, body.MsgID, pollOkBody{Type: "poll_ok", Msgs: msgs})
		return nil

	case "commit_offsets":
		var body commitOffsetsBody
		if err := json.Unmarshal(msg.Body, &body); err != nil {
			return fmt.Errorf("logs: malformed commit_offsets body: %w", err)
		}
		for key, offset := range body.Offsets {
			n.store.logFor(key).commit(offset)
		}
		tx.Reply(msg.Src, body.MsgID, map[string]string{"type": "commit_offsets_ok"})
		return nil

	case "list_committed_offsets":
		var body listCommittedOffsetsBody
		if err := json.Unmarshal(msg.Body, &body); err != nil {
			return fmt.Errorf("logs: malformed list_committed_offsets body: %w", err)
		}
		offsets := make(map[string]int64, len(body.Keys))
		for _, key := range body.Keys {
			if l, ok := n.store.existing(key); ok {
				offsets[key] = l.committedOffset()
			}
		}
		tx.Reply(msg.Src, body.MsgID, listCommittedOffsetsOkBody{Type: "list_committed_offsets_ok", Offsets: offsets})
		return nil

	default:
		return fmt.Errorf("logs: unrecognised message type %q", header.Type)
	}
}

func (n *Node) Event(event any, tx node.Sender) error {
	return nil
}
