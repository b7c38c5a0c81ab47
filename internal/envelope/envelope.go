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
Package envelope defines the Maelstrom wire envelope and the handful of
control-protocol payloads every workload shares (init/init_ok, error).

Wire Format:
============

	{ "src": "n1", "dest": "c1",
	  "body": { "msg_id": 3, "in_reply_to": 1, "type": "echo_ok", ... } }

`src`/`dest` identify sender and recipient node/client ids. `body.type` is
the snake_case discriminant of a per-workload payload sum; the remaining
body fields are specific to that type. `msg_id` is the sender's own
outbound sequence number; `in_reply_to` (when present) echoes the `msg_id`
of the request this body answers.

Field naming note: this toolkit's originating spec calls the field `dst`
in prose but the actual Maelstrom wire dialect (and every client library
that speaks it) spells it `dest`. This package uses `dest`, matching the
wire.
*/
package envelope

import "encoding/json"

// Envelope is the outer message shape exchanged over stdio.
type Envelope struct {
	Src  string          `json:"src"`
	Dest string          `json:"dest"`
	Body json.RawMessage `json:"body"`
}

// Header captures the three fields every body carries regardless of
// payload type, so a handler can inspect them without knowing the
// concrete payload shape yet.
type Header struct {
	Type      string `json:"type"`
	MsgID     *int   `json:"msg_id,omitempty"`
	InReplyTo *int   `json:"in_reply_to,omitempty"`
}

// ParseHeader extracts the header fields from a raw body.
func ParseHeader(body json.RawMessage) (Header, error) {
	var h Header
	if err := json.Unmarshal(body, &h); err != nil {
		return Header{}, err
	}
	return h, nil
}

// InitBody is the first inbound payload on every connection.
type InitBody struct {
	Type     string   `json:"type"`
	MsgID    int      `json:"msg_id"`
	NodeID   string   `json:"node_id"`
	NodeIDs  []string `json:"node_ids"`
}

// InitOkBody replies to InitBody.
type InitOkBody struct {
	Type      string `json:"type"`
	InReplyTo int    `json:"in_reply_to"`
}

// ErrorBody is the Maelstrom application-error payload (§7 of the spec:
// application errors are reported this way, never as a Go error crossing
// the event-loop boundary).
type ErrorBody struct {
	Type string `json:"type"`
	Code int    `json:"code"`
	Text string `json:"text,omitempty"`
}

// Standard Maelstrom error codes.
const (
	CodeTimeout              = 0
	CodeNotSupported         = 10
	CodeTemporarilyUnavailable = 11
	CodeMalformedRequest     = 12
	CodeCrash                = 13
	CodeAbort                = 14
	CodeKeyDoesNotExist      = 20
	CodeKeyAlreadyExists     = 21
	CodePreconditionFailed   = 22
	CodeTxnConflict          = 30
)

// Merge decodes payload into a JSON object and stamps in msgID and,
// when present, inReplyTo — producing the final outbound body bytes.
// This is how the transport turns a typed, Go-side payload struct (which
// already carries its own "type" field) into the wire body without every
// payload type needing msg_id/in_reply_to fields of its own.
func Merge(payload any, msgID int, inReplyTo *int) (json.RawMessage, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, err
	}

	idBytes, err := json.Marshal(msgID)
	if err != nil {
		return nil, err
	}
	obj["msg_id"] = idBytes

	if inReplyTo != nil {
		replyBytes, err := json.Marshal(*inReplyTo)
		if err != nil {
			return nil, err
		}
		obj["in_reply_to"] = replyBytes
	}

	return json.Marshal(obj)
}
