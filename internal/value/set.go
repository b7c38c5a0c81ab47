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

package value

import (
	"encoding/json"
	"sort"
)

// SortedSet is a set of Values with deterministic iteration order,
// keyed by structural equality. The gossip workloads (broadcast, g-set)
// use this instead of a bare map so that anti-entropy deltas and "read"
// replies are reproducible across runs — a plain Go map would still be
// correct, just nondeterministic to observe, which makes the workloads
// harder to test.
type SortedSet struct {
	byKey map[string]Value
}

// NewSortedSet returns an empty set.
func NewSortedSet() *SortedSet {
	return &SortedSet{byKey: make(map[string]Value)}
}

// Add inserts v, returning true if it was not already present.
func (s *SortedSet) Add(v Value) bool {
	k := v.Key()
	if _, ok := s.byKey[k]; ok {
		return false
	}
	s.byKey[k] = v
	return true
}

// Contains reports whether v is a member.
func (s *SortedSet) Contains(v Value) bool {
	_, ok := s.byKey[v.Key()]
	return ok
}

// Len returns the number of members.
func (s *SortedSet) Len() int {
	return len(s.byKey)
}

// Values returns the members in a deterministic order (by canonical
// JSON encoding).
func (s *SortedSet) Values() []Value {
	out := make([]Value, 0, len(s.byKey))
	for _, v := range s.byKey {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		return lessCanonical(out[i], out[j])
	})
	return out
}

// Difference returns the members of s not present in other — used by
// the gossip workloads to compute `local \ seen[peer]` (spec §4.4).
func (s *SortedSet) Difference(other *SortedSet) []Value {
	out := make([]Value, 0)
	for k, v := range s.byKey {
		if _, ok := other.byKey[k]; !ok {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return lessCanonical(out[i], out[j])
	})
	return out
}

func lessCanonical(a, b Value) bool {
	ab, _ := json.Marshal(a.raw)
	bb, _ := json.Marshal(b.raw)
	return string(ab) < string(bb)
}
