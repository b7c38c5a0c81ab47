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

package raft

import (
	"math/rand"
	"time"
)

// ElectionTimer tracks a single randomized election-timeout deadline,
// drawing a fresh timeout ∈ [base, base+jitter) on every Reset (not
// just at construction) so a follower that keeps hearing from a
// leader never converges on a fixed, easy-to-starve period.
type ElectionTimer struct {
	baseMs   int
	jitterMs int
	last     time.Time
	timeout  time.Duration
}

// NewElectionTimer returns a timer whose first deadline is
// base+[0,jitter) milliseconds from now.
func NewElectionTimer(baseMs, jitterMs int) *ElectionTimer {
	t := &ElectionTimer{baseMs: baseMs, jitterMs: jitterMs}
	t.Reset()
	return t
}

// Expired reports whether the deadline has passed.
func (t *ElectionTimer) Expired() bool {
	return time.Since(t.last) > t.timeout
}

// Reset restarts the deadline from now and draws a fresh timeout
// within [base, base+jitter).
func (t *ElectionTimer) Reset() {
	jitter := 0
	if t.jitterMs > 0 {
		jitter = rand.Intn(t.jitterMs)
	}
	t.timeout = time.Duration(t.baseMs+jitter) * time.Millisecond
	t.last = time.Now()
}
