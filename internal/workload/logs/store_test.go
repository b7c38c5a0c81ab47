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

import "testing"

func offsets(entries []entry) []int64 {
	out := make([]int64, len(entries))
	for i, e := range entries {
		out[i] = e.offset
	}
	return out
}

func equalOffsets(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestLogPush(t *testing.T) {
	var l log
	if got := l.push(12); got != 1 {
		t.Fatalf("first push: want offset 1, got %d", got)
	}
	if got := l.push(23); got != 2 {
		t.Fatalf("second push: want offset 2, got %d", got)
	}
	if got := l.push(58); got != 3 {
		t.Fatalf("third push: want offset 3, got %d", got)
	}
}

func TestLogPoll(t *testing.T) {
	var l log
	l.push(12)
	l.push(23)

	if got, want := offsets(l.poll(1)), []int64{1, 2}; !equalOffsets(got, want) {
		t.Fatalf("poll(1): got %v, want %v", got, want)
	}
	if got, want := offsets(l.poll(2)), []int64{2}; !equalOffsets(got, want) {
		t.Fatalf("poll(2): got %v, want %v", got, want)
	}
	if got := l.poll(3); len(got) != 0 {
		t.Fatalf("poll(3): want empty, got %v", got)
	}
	if got := l.poll(4); len(got) != 0 {
		t.Fatalf("poll(4): want empty, got %v", got)
	}

	l.push(58)
	if got, want := offsets(l.poll(1)), []int64{1, 2, 3}; !equalOffsets(got, want) {
		t.Fatalf("poll(1) after third push: got %v, want %v", got, want)
	}
}

func TestLogPollCapsAtTwenty(t *testing.T) {
	var l log
	for i := 0; i < 30; i++ {
		l.push(int64(i))
	}
	if got := l.poll(1); len(got) != maxPoll {
		t.Fatalf("expected poll to cap at %d entries, got %d", maxPoll, len(got))
	}
}

func TestLogCommit(t *testing.T) {
	var l log
	l.push(12)
	l.push(23)
	l.commit(2)
	if got := l.committedOffset(); got != 2 {
		t.Fatalf("committedOffset: got %d, want 2", got)
	}
	// Last write wins, even if it moves the pointer backwards or past
	// the end of the log (spec §4.5).
	l.commit(1)
	if got := l.committedOffset(); got != 1 {
		t.Fatalf("committedOffset after second commit: got %d, want 1", got)
	}
}

func TestStoreOmitsUnknownKeys(t *testing.T) {
	s := newStore()
	if _, ok := s.existing("missing"); ok {
		t.Fatal("expected existing to report false for a key never pushed to")
	}
	s.logFor("k1").push(1)
	if _, ok := s.existing("k1"); !ok {
		t.Fatal("expected existing to report true once a key has an entry")
	}
}
