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

// store holds one append-only list per key, auto-created on first
// write. There is no cross-node replication: a transaction only ever
// touches the single node that receives it (spec §4.6 — the runtime's
// single-threaded dispatch is what makes "atomic per inbound message"
// true for free).
type store struct {
	lists map[int64][]int64
}

func newStore() *store {
	return &store{lists: make(map[int64][]int64)}
}

// read returns the list under key and whether it exists at all
// (distinguishing an empty list from a never-written key).
func (s *store) read(key int64) ([]int64, bool) {
	v, ok := s.lists[key]
	return v, ok
}

// append pushes value onto key's list, creating it if necessary.
func (s *store) append(key int64, value int64) {
	s.lists[key] = append(s.lists[key], value)
}

// apply executes a transaction's ops in order against the store,
// mutating each read op in place with its result, and returns the same
// slice so the caller can echo it back as txn_ok.
func (s *store) apply(txn []op) []op {
	for i := range txn {
		switch txn[i].Kind {
		case opRead:
			list, ok := s.read(txn[i].Key)
			txn[i].Value = list
			txn[i].Has = ok
		case opAppend:
			s.append(txn[i].Key, txn[i].Item)
		}
	}
	return txn
}
