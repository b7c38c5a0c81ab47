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

package txnkv

import (
	"encoding/json"
	"fmt"
)

// opKind discriminates the two micro-op shapes a transaction can carry
// (spec §4.6).
type opKind string

const (
	opRead   opKind = "r"
	opAppend opKind = "append"
)

// op is one micro-op within a transaction. The wire encoding is not a
// tagged object but a bare 3-element array `[fn, key, value]`, so op
// implements json.Marshaler/Unmarshaler by hand instead of relying on
// struct-tag-driven (un)marshalling.
//
// For a read, Value carries the read result: null when the op is sent
// (nothing read yet) and either the stored list or null when it comes
// back in txn_ok. For an append, Value is always the single integer to
// push onto the key's list.
type op struct {
	Kind  opKind
	Key   int64
	Value []int64 // read result; nil means "no list" (missing key or unread)
	Has   bool    // whether Value is present (vs. JSON null) — append always has it inline instead
	Item  int64   // append's value
}

func (o op) MarshalJSON() ([]byte, error) {
	var third any
	switch o.Kind {
	case opAppend:
		third = o.Item
	case opRead:
		if o.Has {
			third = o.Value
		} else {
			third = nil
		}
	default:
		return nil, fmt.Errorf("txnkv: unknown op kind %q", o.Kind)
	}
	return json.Marshal([3]any{o.Kind, o.Key, third})
}

func (o *op) UnmarshalJSON(data []byte) error {
	var raw [3]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("txnkv: op is not a 3-element array: %w", err)
	}

	var kind opKind
	if err := json.Unmarshal(raw[0], &kind); err != nil {
		return fmt.Errorf("txnkv: op[0] is not a string: %w", err)
	}

	var key int64
	if err := json.Unmarshal(raw[1], &key); err != nil {
		return fmt.Errorf("txnkv: op[1] is not an integer key: %w", err)
	}

	switch kind {
	case opRead:
		var val []int64
		if string(raw[2]) == "null" {
			*o = op{Kind: opRead, Key: key, Has: false}
			return nil
		}
		if err := json.Unmarshal(raw[2], &val); err != nil {
			return fmt.Errorf("txnkv: op[2] is not a list for a read: %w", err)
		}
		*o = op{Kind: opRead, Key: key, Value: val, Has: true}
		return nil

	case opAppend:
		var item int64
		if err := json.Unmarshal(raw[2], &item); err != nil {
			return fmt.Errorf("txnkv: op[2] is not an integer for an append: %w", err)
		}
		*o = op{Kind: opAppend, Key: key, Item: item}
		return nil

	default:
		return fmt.Errorf("txnkv: unknown op kind %q", kind)
	}
}
