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
Package linkv implements the linearizable KV workload (spec §4.8): reads
are served directly from local state (a deliberate dirty read — this
workload does not pay Raft's round trip for reads), while write and cas
are wrapped as commands, routed through internal/raft, and answered only
once the originating node observes them committed. A node that receives
a write/cas it isn't currently the Raft leader for forwards it instead
of answering immediately; the client simply sees a slower round trip.
A write/cas that arrives while this node knows no leader is dropped
without a reply and is not retried.
*/
package linkv

import (
	"encoding/json"
	"fmt"

	"github.com/flydb-labs/maelstrom/internal/envelope"
	"github.com/flydb-labs/maelstrom/internal/errors"
	"github.com/flydb-labs/maelstrom/internal/node"
	"github.com/flydb-labs/maelstrom/internal/raft"
	"github.com/flydb-labs/maelstrom/internal/value"
)

const (
	raftTick         = "raft_tick"
	raftTickInterval = 50 // ms, spec §4.7
)

// Node drives a Raft[raftCommand] engine as the replicated state
// machine behind a key/value store.
type Node struct {
	id    string
	store map[string]value.Value // keyed by value.Value.Key()
	raft  *raft.Raft[raftCommand]

	persister        raft.Persister[raftCommand]
	electionBaseMs   int
	electionJitterMs int
}

// New returns an unstarted linkv Node using an in-memory Raft log and
// spec.md's suggested election timing.
func New() *Node {
	return NewWithConfig(raft.NoopPersister[raftCommand]{}, 1000, 1000)
}

// NewWithConfig returns an unstarted linkv Node with an explicit Raft
// persister and election timeout, as configured via internal/config.
func NewWithConfig(persister raft.Persister[raftCommand], electionBaseMs, electionJitterMs int) *Node {
	return &Node{
		store:            make(map[string]value.Value),
		persister:        persister,
		electionBaseMs:   electionBaseMs,
		electionJitterMs: electionJitterMs,
	}
}

// NewWithRaftDir is the constructor cmd/maelstrom-linkv uses: raftCommand
// is unexported, so callers outside this package configure persistence
// by directory path instead of building a raft.Persister themselves.
// An empty raftDir keeps Raft state in memory only.
func NewWithRaftDir(raftDir string, electionBaseMs, electionJitterMs int) *Node {
	var persister raft.Persister[raftCommand]
	if raftDir == "" {
		persister = raft.NoopPersister[raftCommand]{}
	} else {
		persister = raft.NewFilePersister[raftCommand](raftDir + "/linkv.state")
	}
	return NewWithConfig(persister, electionBaseMs, electionJitterMs)
}

func (n *Node) Init(nodeID string, nodeIDs []string, tx node.Sender) error {
	n.id = nodeID
	n.raft = raft.New[raftCommand](nodeID, nodeIDs, n.electionBaseMs, n.electionJitterMs, n.persister)
	return nil
}

func (n *Node) Timers() []node.TimerSpec {
	return []node.TimerSpec{{Interval: raftTickInterval, Event: raftTick}}
}

type readBody struct {
	Type  string      `json:"type"`
	MsgID int         `json:"msg_id"`
	Key   value.Value `json:"key"`
}

type readOkBody struct {
	Type  string       `json:"type"`
	Value *value.Value `json:"value,omitempty"`
}

type writeBody struct {
	Type  string      `json:"type"`
	MsgID int         `json:"msg_id"`
	Key   value.Value `json:"key"`
	Value value.Value `json:"value"`
}

type casBody struct {
	Type  string      `json:"type"`
	MsgID int         `json:"msg_id"`
	Key   value.Value `json:"key"`
	From  value.Value `json:"from"`
	To    value.Value `json:"to"`
}

type raftBody struct {
	Type string               `json:"type"`
	RPC  raft.RPC[raftCommand] `json:"rpc"`
}

func (n *Node) Message(msg envelope.Envelope, tx node.Sender) error {
	header, err := envelope.ParseHeader(msg.Body)
	if err != nil {
		return fmt.Errorf("linkv: malformed body: %w", err)
	}

	switch header.Type {
	case "read":
		var body readBody
		if err := json.Unmarshal(msg.Body, &body); err != nil {
			return fmt.Errorf("linkv: malformed read body: %w", err)
		}
		// A miss replies read_ok with a nil value rather than an error,
		// matching linkv.rs's Read => ReadOk { value: self.store.get(&key).cloned() }.
		v, ok := n.store[body.Key.Key()]
		if !ok {
			tx.Reply(msg.Src, body.MsgID, readOkBody{Type: "read_ok"})
			return nil
		}
		tx.Reply(msg.Src, body.MsgID, readOkBody{Type: "read_ok", Value: &v})
		return nil

	case "write":
		var body writeBody
		if err := json.Unmarshal(msg.Body, &body); err != nil {
			return fmt.Errorf("linkv: malformed write body: %w", err)
		}
		n.submit(raftCommand{
			Origin: n.id,
			Reply:  reply{MsgID: body.MsgID, Client: msg.Src},
			Command: command{
				Kind:  commandWrite,
				Key:   body.Key,
				Value: body.Value,
			},
		}, tx)
		return nil

	case "cas":
		var body casBody
		if err := json.Unmarshal(msg.Body, &body); err != nil {
			return fmt.Errorf("linkv: malformed cas body: %w", err)
		}
		n.submit(raftCommand{
			Origin: n.id,
			Reply:  reply{MsgID: body.MsgID, Client: msg.Src},
			Command: command{
				Kind: commandCas,
				Key:  body.Key,
				From: body.From,
				To:   body.To,
			},
		}, tx)
		return nil

	case "raft":
		var body raftBody
		if err := json.Unmarshal(msg.Body, &body); err != nil {
			return fmt.Errorf("linkv: malformed raft body: %w", err)
		}
		if d, ok := n.raft.Process(msg.Src, body.RPC); ok {
			n.deliver(d, tx)
		}
		n.drainCommitted(tx)
		return nil

	default:
		return fmt.Errorf("linkv: unrecognised message type %q", header.Type)
	}
}

func (n *Node) Event(event any, tx node.Sender) error {
	if event != raftTick {
		return nil
	}
	if d, ok := n.raft.Tick(); ok {
		n.deliver(d, tx)
	}
	n.drainCommitted(tx)
	return nil
}

// submit routes a write/cas command through Raft. If no leader is known
// yet, Apply reports false and the request is simply dropped — spec
// §4.7 leaves retry to the client, which Maelstrom's client libraries
// already do on timeout.
func (n *Node) submit(cmd raftCommand, tx node.Sender) {
	d, ok := n.raft.Apply(cmd)
	if !ok {
		return
	}
	n.deliver(d, tx)
}

// drainCommitted applies every newly committed command to the local
// store, replying only when this node originated the command — the
// same mechanism a client's read of its own write relies on.
func (n *Node) drainCommitted(tx node.Sender) {
	for {
		cmd, ok := n.raft.Consume()
		if !ok {
			return
		}
		n.applyCommitted(cmd, tx)
	}
}

func (n *Node) applyCommitted(cmd raftCommand, tx node.Sender) {
	switch cmd.Command.Kind {
	case commandWrite:
		key := cmd.Command.Key
		n.store[key.Key()] = cmd.Command.Value
		if cmd.Origin == n.id {
			tx.Reply(cmd.Reply.Client, cmd.Reply.MsgID, map[string]string{"type": "write_ok"})
		}

	case commandCas:
		key := cmd.Command.Key
		var payload any
		if existing, ok := n.store[key.Key()]; !ok {
			payload = errors.KeyDoesNotExist(keyLabel(key)).MarshalPayload()
		} else if !existing.Equal(cmd.Command.From) {
			payload = errors.PreconditionFailed(keyLabel(key), cmd.Command.From.Raw(), existing.Raw()).MarshalPayload()
		} else {
			n.store[key.Key()] = cmd.Command.To
			payload = map[string]string{"type": "cas_ok"}
		}
		if cmd.Origin == n.id {
			tx.Reply(cmd.Reply.Client, cmd.Reply.MsgID, payload)
		}
	}
}

// keyLabel renders a key for an error message's human-readable text;
// the actual lookup always goes through Value.Key(), a structural hash
// unsuitable for display.
func keyLabel(key value.Value) string {
	return fmt.Sprintf("%v", key.Raw())
}

// deliver fans a Raft Delivery out to the wire as one or more "raft"
// messages.
func (n *Node) deliver(d raft.Delivery[raftCommand], tx node.Sender) {
	switch d.Kind {
	case raft.DeliveryUnicast:
		tx.Send(d.To, nil, raftBody{Type: "raft", RPC: d.RPC})
	case raft.DeliveryBroadcast:
		for _, peer := range n.raft.Others() {
			tx.Send(peer, nil, raftBody{Type: "raft", RPC: d.RPC})
		}
	case raft.DeliveryMulticast:
		for _, a := range d.Multi {
			tx.Send(a.To, nil, raftBody{Type: "raft", RPC: a.RPC})
		}
	}
}
