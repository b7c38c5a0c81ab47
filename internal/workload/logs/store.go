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

package logs

import "sort"

// entry is one (offset, message) pair in a log.
type entry struct {
	offset int64
	msg    int64
}

// log is a single per-key append-only log. Entries are stored as
// (offset, message) pairs in a flat slice rather than a dense
// offset-indexed array, and poll locates its starting point with a
// binary search — offsets are assigned densely by push here, so the
// binary search degenerates to a direct index, but keeping the search
// means commit never needs to reshape the slice (spec §4.5: "no
// rejection for stale values... last write wins").
type log struct {
	entries   []entry
	committed int64
}

// push appends msg and returns its newly assigned offset. Offsets start
// at 1 so that offset 0 unambiguously means "nothing committed yet".
func (l *log) push(msg int64) int64 {
	var next int64 = 1
	if n := len(l.entries); n > 0 {
		next = l.entries[n-1].offset + 1
	}
	l.entries = append(l.entries, entry{offset: next, msg: msg})
	return next
}

// poll returns up to maxPoll entries with offset >= from, in order.
func (l *log) poll(from int64) []entry {
	start := sort.Search(len(l.entries), func(i int) bool {
		return l.entries[i].offset >= from
	})
	end := start + maxPoll
	if end > len(l.entries) {
		end = len(l.entries)
	}
	if start >= end {
		return nil
	}
	out := make([]entry, end-start)
	copy(out, l.entries[start:end])
	return out
}

// maxPoll bounds how many entries a single poll response returns per
// key (spec §4.5).
const maxPoll = 20

// commit sets the committed-offset pointer. It never validates against
// the log's actual bounds: a stale or out-of-range commit simply
// overwrites the previous pointer, per spec §4.5's explicit
// last-write-wins rule.
func (l *log) commit(offset int64) {
	l.committed = offset
}

// committedOffset returns the last committed pointer (0 if never
// committed).
func (l *log) committedOffset() int64 {
	return l.committed
}

// store holds one log per key, created on first use.
type store struct {
	logs map[string]*log
}

func newStore() *store {
	return &store{logs: make(map[string]*log)}
}

func (s *store) logFor(key string) *log {
	l, ok := s.logs[key]
	if !ok {
		l = &log{}
		s.logs[key] = l
	}
	return l
}

// existing returns the log for key without creating one, so poll and
// list-committed-offsets can silently omit keys they've never heard of
// (spec §4.5: "omit unknown keys").
func (s *store) existing(key string) (*log, bool) {
	l, ok := s.logs[key]
	return l, ok
}
