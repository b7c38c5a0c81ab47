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
Package gcounter implements the grow-only counter CRDT workload (spec
§4.4). Each node holds a private, strictly-monotone accumulator plus,
per peer, a (observed, confirmed) pair: observed is the largest value
that peer has told us it holds; confirmed is the largest value we know
that peer has received from us. read sums the local accumulator with
every peer's last observed value — a classic G-Counter read, not a
cluster-wide convergent merge — and anti-entropy only re-sends to a peer
once its confirmed value falls behind our own accumulator.
*/
package gcounter

import (
	"encoding/json"
	"fmt"

	"github.com/flydb-labs/maelstrom/internal/envelope"
	"github.com/flydb-labs/maelstrom/internal/node"
)

const gossipTick = "gossip"

// gossipIntervalMs matches the original's ~800ms anti-entropy cadence.
const gossipIntervalMs = 800

// peerState is what a node knows about one other peer's counter.
type peerState struct {
	observed  int64 // largest value p has told us it holds
	confirmed int64 // largest value we know p has received from us
}

// Node holds the local accumulator and per-peer state.
type Node struct {
	id          string
	acc         int64
	peers       map[string]*peerState
	gossipEvery int // ms
}

// New returns an unstarted g-counter Node using the default anti-entropy
// cadence.
func New() *Node {
	return NewWithInterval(gossipIntervalMs)
}

// NewWithInterval returns an unstarted g-counter Node gossiping every
// intervalMs, as configured via internal/config.
func NewWithInterval(intervalMs int) *Node {
	return &Node{peers: make(map[string]*peerState), gossipEvery: intervalMs}
}

func (n *Node) Init(nodeID string, nodeIDs []string, tx node.Sender) error {
	n.id = nodeID
	for _, id := range nodeIDs {
		if id != nodeID {
			n.peers[id] = &peerState{}
		}
	}
	return nil
}

func (n *Node) Timers() []node.TimerSpec {
	return []node.TimerSpec{{Interval: int64(n.gossipEvery), Event: gossipTick}}
}

type addBody struct {
	Type  string `json:"type"`
	MsgID int    `json:"msg_id"`
	Delta int64  `json:"delta"`
}

type readBody struct {
	Type  string `json:"type"`
	MsgID int    `json:"msg_id"`
}

type readOkBody struct {
	Type  string `json:"type"`
	Value int64  `json:"value"`
}

type gossipBody struct {
	Type  string `json:"type"`
	MsgID int    `json:"msg_id"`
	Value int64  `json:"value"`
}

type gossipOkBody struct {
	Type  string `json:"type"`
	Value int64  `json:"value"`
}

func (n *Node) Message(msg envelope.Envelope, tx node.Sender) error {
	header, err := envelope.ParseHeader(msg.Body)
	if err != nil {
		return fmt.Errorf("gcounter: malformed body: %w", err)
	}

	switch header.Type {
	case "add":
		var body addBody
		if err := json.Unmarshal(msg.Body, &body); err != nil {
			return fmt.Errorf("gcounter: malformed add body: %w", err)
		}
		n.acc += body.Delta
		tx.Reply(msg.Src, body.MsgID, map[string]string{"type": "add_ok"})
		return nil

	case "read":
		var body readBody
		if err := json.Unmarshal(msg.Body, &body); err != nil {
			return fmt.Errorf("gcounter: malformed read body: %w", err)
		}
		total := n.acc
		for _, p := range n.peers {
			total += p.observed
		}
		tx.Reply(msg.Src, body.MsgID, readOkBody{Type: "read_ok", Value: total})
		return nil

	case "gossip":
		var body gossipBody
		if err := json.Unmarshal(msg.Body, &body); err != nil {
			return fmt.Errorf("gcounter: malformed gossip body: %w", err)
		}
		p := n.peerState(msg.Src)
		if body.Value > p.observed {
			p.observed = body.Value
		}
		// Echo the same value back so the sender learns exactly which
		// reading we confirmed, not our own (possibly larger) total.
		tx.Send(msg.Src, nil, gossipOkBody{Type: "gossip_ok", Value: body.Value})
		return nil

	case "gossip_ok":
		var body gossipOkBody
		if err := json.Unmarshal(msg.Body, &body); err != nil {
			return fmt.Errorf("gcounter: malformed gossip_ok body: %w", err)
		}
		p := n.peerState(msg.Src)
		if body.Value > p.confirmed {
			p.confirmed = body.Value
		}
		return nil

	default:
		return fmt.Errorf("gcounter: unrecognised message type %q", header.Type)
	}
}

func (n *Node) Event(event any, tx node.Sender) error {
	if event != gossipTick {
		return nil
	}
	for peer, p := range n.peers {
		if p.confirmed < n.acc {
			tx.Send(peer, nil, gossipBody{Type: "gossip", Value: n.acc})
		}
	}
	return nil
}

func (n *Node) peerState(id string) *peerState {
	p, ok := n.peers[id]
	if !ok {
		p = &peerState{}
		n.peers[id] = p
	}
	return p
}
