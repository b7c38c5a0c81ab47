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
Package gset implements the grow-only-set CRDT workload (spec §4.4): add
is a local union, read returns the whole set, and anti-entropy is full-
state periodic replication to every other node rather than broadcast's
delta-based gossip — simpler, at the cost of resending the whole set on
every tick regardless of what a peer already has.
*/
package gset

import (
	"encoding/json"
	"fmt"

	"github.com/flydb-labs/maelstrom/internal/envelope"
	"github.com/flydb-labs/maelstrom/internal/node"
	"github.com/flydb-labs/maelstrom/internal/value"
)

const replicateTick = "replicate"

// replicateIntervalMs follows the gossip cadence this toolkit's config
// layer exposes (Config.GossipIntervalMs) rather than hard-coding the
// original's 3-second period, which was tuned for a slower test harness.
const replicateIntervalMs = 200

// Node holds the grow-only set and the full peer list to replicate to.
type Node struct {
	id             string
	others         []string
	set            *value.SortedSet
	replicateEvery int // ms
}

// New returns an unstarted g-set Node using the default replication
// cadence.
func New() *Node {
	return NewWithInterval(replicateIntervalMs)
}

// NewWithInterval returns an unstarted g-set Node replicating every
// intervalMs, as configured via internal/config.
func NewWithInterval(intervalMs int) *Node {
	return &Node{set: value.NewSortedSet(), replicateEvery: intervalMs}
}

func (n *Node) Init(nodeID string, nodeIDs []string, tx node.Sender) error {
	n.id = nodeID
	for _, id := range nodeIDs {
		if id != nodeID {
			n.others = append(n.others, id)
		}
	}
	return nil
}

func (n *Node) Timers() []node.TimerSpec {
	return []node.TimerSpec{{Interval: int64(n.replicateEvery), Event: replicateTick}}
}

type addBody struct {
	Type    string      `json:"type"`
	MsgID   int         `json:"msg_id"`
	Element json.Number `json:"element"`
}

type readBody struct {
	Type  string `json:"type"`
	MsgID int    `json:"msg_id"`
}

type readOkBody struct {
	Type  string        `json:"type"`
	Value []json.Number `json:"value"`
}

type replicateBody struct {
	Type     string        `json:"type"`
	Elements []json.Number `json:"elements"`
}

func (n *Node) Message(msg envelope.Envelope, tx node.Sender) error {
	header, err := envelope.ParseHeader(msg.Body)
	if err != nil {
		return fmt.Errorf("gset: malformed body: %w", err)
	}

	switch header.Type {
	case "add":
		var body addBody
		if err := json.Unmarshal(msg.Body, &body); err != nil {
			return fmt.Errorf("gset: malformed add body: %w", err)
		}
		n.set.Add(value.Of(body.Element))
		tx.Reply(msg.Src, body.MsgID, map[string]string{"type": "add_ok"})
		return nil

	case "read":
		var body readBody
		if err := json.Unmarshal(msg.Body, &body); err != nil {
			return fmt.Errorf("gset: malformed read body: %w", err)
		}
		tx.Reply(msg.Src, body.MsgID, readOkBody{Type: "read_ok", Value: toNumbers(n.set.Values())})
		return nil

	case "replicate":
		var body replicateBody
		if err := json.Unmarshal(msg.Body, &body); err != nil {
			return fmt.Errorf("gset: malformed replicate body: %w", err)
		}
		for _, e := range body.Elements {
			n.set.Add(value.Of(e))
		}
		// No reply: replication is unsolicited, like gossip.
		return nil

	default:
		return fmt.Errorf("gset: unrecognised message type %q", header.Type)
	}
}

func (n *Node) Event(event any, tx node.Sender) error {
	if event != replicateTick {
		return nil
	}
	if n.set.Len() == 0 {
		return nil
	}
	elements := toNumbers(n.set.Values())
	for _, peer := range n.others {
		tx.Send(peer, nil, replicateBody{Type: "replicate", Elements: elements})
	}
	return nil
}

func toNumbers(values []value.Value) []json.Number {
	out := make([]json.Number, 0, len(values))
	for _, v := range values {
		if num, ok := v.Raw().(json.Number); ok {
			out = append(out, num)
		}
	}
	return out
}
