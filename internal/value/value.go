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
Package value wraps arbitrary decoded JSON (null, bool, number, string,
array, object) with structural equality and a structural hash, so it can
key maps and sets in workload code that otherwise only ever sees
interface{} values out of encoding/json (spec §3, §9).

Hashing walks containers recursively and folds each leaf into a BLAKE2b
state: scalars contribute their canonical bytes, arrays contribute their
elements in order, and objects contribute key then hashed value for each
entry in sorted key order. A decoded map[string]interface{} has no
order of its own, so the hash sorts every object's keys itself, for
values from Of and Parse alike (spec §9's key-ordering caveat):
structurally-equal-but-differently-ordered JSON hashes equal.
*/
package value

import (
	"encoding/json"
	"fmt"
	"sort"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/text/unicode/norm"
)

// Value is a structural wrapper around decoded JSON.
type Value struct {
	raw any
}

// Of wraps an already-decoded JSON value (as produced by
// encoding/json.Unmarshal into an `any`).
func Of(raw any) Value {
	return Value{raw: raw}
}

// Parse decodes raw JSON bytes into a Value. The source encoding's key
// order is not kept; hashing sorts object keys itself.
func Parse(data []byte) (Value, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Value{}, err
	}
	return Value{raw: canonicalize(raw)}, nil
}

// Raw returns the underlying decoded value.
func (v Value) Raw() any { return v.raw }

func canonicalize(raw any) any {
	switch t := raw.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[k] = canonicalize(v)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, v := range t {
			out[i] = canonicalize(v)
		}
		return out
	default:
		return t
	}
}

// Equal reports structural equality.
func (v Value) Equal(other Value) bool {
	return equalAny(v.raw, other.raw)
}

func equalAny(a, b any) bool {
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bvv, ok := bv[k]
			if !ok || !equalAny(v, bvv) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i, v := range av {
			if !equalAny(v, bv[i]) {
				return false
			}
		}
		return true
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	default:
		return false
	}
}

// Hash returns a structural digest: a == b (per Equal) implies
// Hash(a) == Hash(b) (spec §8).
func (v Value) Hash() [32]byte {
	h, _ := blake2b.New256(nil)
	hashInto(h, v.raw)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func hashInto(h interface{ Write([]byte) (int, error) }, raw any) {
	switch t := raw.(type) {
	case nil:
		_, _ = h.Write([]byte{0x00})
	case bool:
		if t {
			_, _ = h.Write([]byte{0x01, 1})
		} else {
			_, _ = h.Write([]byte{0x01, 0})
		}
	case float64:
		_, _ = h.Write([]byte{0x02})
		_, _ = h.Write([]byte(fmt.Sprintf("%g", t)))
	case string:
		_, _ = h.Write([]byte{0x03})
		_, _ = h.Write([]byte(norm.NFC.String(t)))
	case []any:
		_, _ = h.Write([]byte{0x04})
		for _, elem := range t {
			hashInto(h, elem)
		}
	case map[string]any:
		_, _ = h.Write([]byte{0x05})
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_, _ = h.Write([]byte(norm.NFC.String(k)))
			hashInto(h, t[k])
		}
	default:
		_, _ = h.Write([]byte{0xFF})
		_, _ = h.Write([]byte(fmt.Sprintf("%v", t)))
	}
}

// Key returns a string suitable for use as a Go map key — encoding/json
// can't hash arrays/objects directly, so workloads that need a JSON
// value as a map key use this instead of the raw value.
func (v Value) Key() string {
	h := v.Hash()
	return string(h[:])
}

// MarshalJSON round-trips the wrapped value.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw)
}

// UnmarshalJSON decodes into a canonicalized Value.
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// GobEncode/GobDecode route through the JSON representation: the raw
// field is an unexported interface{} gob cannot see into directly, and
// linkv's Raft commands carry Values that a FilePersister needs to
// round-trip to disk.
func (v Value) GobEncode() ([]byte, error) {
	return v.MarshalJSON()
}

func (v *Value) GobDecode(data []byte) error {
	return v.UnmarshalJSON(data)
}
