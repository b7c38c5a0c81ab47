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
Package broadcast implements the delta-gossip broadcast workload (spec
§4.4): every node keeps the full set of messages it has ever seen, plus,
per neighbour, the subset that neighbour is already known to have (so
anti-entropy only ever sends what's missing instead of the whole set).

Topology is supplied late via a topology message (not at init) and
restricts gossip fan-out to a subset of the cluster rather than every
peer — unlike the g-set and g-counter workloads, which always gossip to
the full node list.
*/
package broadcast

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/flydb-labs/maelstrom/internal/envelope"
	"github.com/flydb-labs/maelstrom/internal/node"
	"github.com/flydb-labs/maelstrom/internal/value"
)

// gossipTick is the sole timer event this workload registers.
const gossipTick = "gossip"

// gossipIntervalMs matches spec §4.4's "≈200 ms" anti-entropy cadence.
const gossipIntervalMs = 200

// Node tracks the locally-known message set plus, per neighbour, what
// that neighbour is already known to hold.
type Node struct {
	id          string
	neighbors   []string
	set         *value.SortedSet
	seen        map[string]*value.SortedSet
	gossipEvery int // ms
}

// New returns an unstarted broadcast Node using spec.md's suggested
// gossip cadence.
func New() *Node {
	return NewWithInterval(gossipIntervalMs)
}

// NewWithInterval returns an unstarted broadcast Node gossiping every
// intervalMs, as configured via internal/config.
func NewWithInterval(intervalMs int) *Node {
	return &Node{set: value.NewSortedSet(), seen: make(map[string]*value.SortedSet), gossipEvery: intervalMs}
}

func (n *Node) Init(nodeID string, nodeIDs []string, tx node.Sender) error {
	n.id = nodeID
	// Until a topology message arrives, gossip to every other node;
	// topology only ever narrows this.
	for _, id := range nodeIDs {
		if id != nodeID {
			n.neighbors = append(n.neighbors, id)
			n.seen[id] = value.NewSortedSet()
		}
	}
	return nil
}

func (n *Node) Timers() []node.TimerSpec {
	return []node.TimerSpec{{Interval: int64(n.gossipEvery), Event: gossipTick}}
}

type broadcastBody struct {
	Type    string      `json:"type"`
	MsgID   int         `json:"msg_id"`
	Message json.Number `json:"message"`
}

type readBody struct {
	Type  string `json:"type"`
	MsgID int    `json:"msg_id"`
}

type readOkBody struct {
	Type     string        `json:"type"`
	Messages []json.Number `json:"messages"`
}

type topologyBody struct {
	Type     string              `json:"type"`
	MsgID    int                 `json:"msg_id"`
	Topology map[string][]string `json:"topology"`
}

type gossipBody struct {
	Type     string        `json:"type"`
	Messages []json.Number `json:"messages"`
}

func (n *Node) Message(msg envelope.Envelope, tx node.Sender) error {
	header, err := envelope.ParseHeader(msg.Body)
	if err != nil {
		return fmt.Errorf("broadcast: malformed body: %w", err)
	}

	switch header.Type {
	case "broadcast":
		var body broadcastBody
		if err := json.Unmarshal(msg.Body, &body); err != nil {
			return fmt.Errorf("broadcast: malformed broadcast body: %w", err)
		}
		n.set.Add(value.Of(body.Message))
		tx.Reply(msg.Src, body.MsgID, map[string]string{"type": "broadcast_ok"})
		return nil

	case "read":
		var body readBody
		if err := json.Unmarshal(msg.Body, &body); err != nil {
			return fmt.Errorf("broadcast: malformed read body: %w", err)
		}
		tx.Reply(msg.Src, body.MsgID, readOkBody{Type: "read_ok", Messages: toNumbers(n.set.Values())})
		return nil

	case "topology":
		var body topologyBody
		if err := json.Unmarshal(msg.Body, &body); err != nil {
			return fmt.Errorf("broadcast: malformed topology body: %w", err)
		}
		n.neighbors = body.Topology[n.id]
		sort.Strings(n.neighbors)
		for _, nb := range n.neighbors {
			if _, ok := n.seen[nb]; !ok {
				n.seen[nb] = value.NewSortedSet()
			}
		}
		tx.Reply(msg.Src, body.MsgID, map[string]string{"type": "topology_ok"})
		return nil

	case "gossip":
		var body gossipBody
		if err := json.Unmarshal(msg.Body, &body); err != nil {
			return fmt.Errorf("broadcast: malformed gossip body: %w", err)
		}
		dstSeen, ok := n.seen[msg.Src]
		if !ok {
			dstSeen = value.NewSortedSet()
			n.seen[msg.Src] = dstSeen
		}
		for _, m := range body.Messages {
			v := value.Of(m)
			n.set.Add(v)
			dstSeen.Add(v)
		}
		// No reply: gossip is unsolicited anti-entropy, not a request.
		return nil

	default:
		return fmt.Errorf("broadcast: unrecognised message type %q", header.Type)
	}
}

func (n *Node) Event(event any, tx node.Sender) error {
	if event != gossipTick {
		return nil
	}
	for _, neighbor := range n.neighbors {
		delta := n.set.Difference(n.seen[neighbor])
		if len(delta) == 0 {
			continue
		}
		tx.Send(neighbor, nil, gossipBody{Type: "gossip", Messages: toNumbers(delta)})
	}
	return nil
}

func toNumbers(values []value.Value) []json.Number {
	out := make([]json.Number, 0, len(values))
	for _, v := range values {
		if n, ok := v.Raw().(json.Number); ok {
			out = append(out, n)
		}
	}
	return out
}
