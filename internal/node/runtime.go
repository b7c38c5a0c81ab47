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

package node

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/flydb-labs/maelstrom/internal/envelope"
	"github.com/flydb-labs/maelstrom/internal/logging"
	"github.com/flydb-labs/maelstrom/internal/tracesink"
)

// Runtime drives a Node: it waits for the init handshake, then
// multiplexes inbound envelopes and timer events into serial
// Message/Event callbacks, draining the Sender queue to stdout between
// every dispatch (spec §4.3).
type Runtime struct {
	node   Node
	in     io.Reader
	out    io.Writer
	log    *logging.Logger
	nodeID string
	sink   *tracesink.Sink
}

// New constructs a Runtime. in/out are typically os.Stdin/os.Stdout;
// tests pass pipes instead.
func New(n Node, in io.Reader, out io.Writer, log *logging.Logger) *Runtime {
	if log == nil {
		log = logging.Discard()
	}
	return &Runtime{node: n, in: in, out: out, log: log}
}

// WithSink attaches a trace sink: every envelope sent or received is
// additionally appended to it (Config.TraceFile). Passing nil disables
// tracing, which is also the zero-value default.
func (rt *Runtime) WithSink(sink *tracesink.Sink) *Runtime {
	rt.sink = sink
	return rt
}

// timerFiring is what a timer goroutine sends on the shared timer
// channel: the workload-supplied event value, replayed once per tick.
type timerFiring struct {
	event any
}

// Run blocks until stdin is closed (clean exit, nil error) or a fatal
// protocol/IO error occurs (spec §7.1: parse/read errors are fatal at
// process level).
func (rt *Runtime) Run(ctx context.Context) error {
	r := newReader(rt.in)
	w := newWriter(rt.out, "")
	w.sink = rt.sink

	// 1. Wait for and process the init handshake before anything else.
	first, err := r.Next()
	if err != nil {
		return err
	}
	initBody, err := decodeInit(first.Body)
	if err != nil {
		return fmt.Errorf("node: first message was not init: %w", err)
	}
	if rt.sink != nil {
		_ = rt.sink.Record(first, true)
	}
	rt.nodeID = initBody.NodeID
	w.nodeID = initBody.NodeID
	rt.log = rt.log.With("node", rt.nodeID)

	queue := make(chan outbound, 1024)
	tx := newSender(rt.nodeID, queue)

	if err := rt.node.Init(initBody.NodeID, initBody.NodeIDs, tx); err != nil {
		return fmt.Errorf("node: init callback: %w", err)
	}
	tx.Reply(first.Src, initBody.MsgID, envelope.InitOkBody{Type: "init_ok"})
	rt.log.Debug("init handshake complete", "peers", len(initBody.NodeIDs))

	// 2. Set up the merged inbound/timer streams and flush loop.
	cctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(cctx)

	inboundCh := make(chan envelope.Envelope)
	g.Go(func() error {
		defer close(inboundCh)
		for {
			env, err := r.Next()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			select {
			case inboundCh <- env:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	timerCh := make(chan timerFiring)
	if tw, ok := rt.node.(Timers); ok {
		for _, spec := range tw.Timers() {
			spec := spec
			g.Go(func() error {
				ticker := time.NewTicker(time.Duration(spec.Interval) * time.Millisecond)
				defer ticker.Stop()
				for {
					select {
					case <-gctx.Done():
						return nil
					case <-ticker.C:
						select {
						case timerCh <- timerFiring{event: spec.Event}:
						case <-gctx.Done():
							return nil
						}
					}
				}
			})
		}
	}

	// 3. Main dispatch loop: drain outbound queue, then wait for the
	// next input of either kind.
	done := false
	for !done {
		if err := rt.drain(w, queue); err != nil {
			return err
		}

		select {
		case env, ok := <-inboundCh:
			if !ok {
				done = true
				continue
			}
			if err := rt.dispatchMessage(env, tx); err != nil {
				return err
			}
		case t := <-timerCh:
			if err := rt.node.Event(t.event, tx); err != nil {
				return fmt.Errorf("node: event callback: %w", err)
			}
		}
	}

	// Final drain: a message handled on the last loop iteration may
	// have enqueued replies that haven't been flushed yet.
	if err := rt.drain(w, queue); err != nil {
		return err
	}

	// Stop the timer goroutines now that input has ended; the reader
	// goroutine has already returned (it's what produced EOF above).
	cancel()
	return g.Wait()
}

func (rt *Runtime) dispatchMessage(env envelope.Envelope, tx Sender) error {
	if _, err := envelope.ParseHeader(env.Body); err != nil {
		return fmt.Errorf("node: malformed body from %s: %w", env.Src, err)
	}
	if rt.sink != nil {
		_ = rt.sink.Record(env, true)
	}
	if err := rt.node.Message(env, tx); err != nil {
		return fmt.Errorf("node: message callback: %w", err)
	}
	return nil
}

// drain flushes every currently-queued outbound envelope before the
// Runtime waits for the next input (spec §4.3 step a, §5: "Outbound
// emissions within one callback retain their enqueue order and are all
// flushed before the next dispatch").
func (rt *Runtime) drain(w *writer, queue chan outbound) error {
	for {
		select {
		case ob := <-queue:
			if err := w.Write(ob.dest, ob.inReplyTo, ob.payload); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func decodeInit(body []byte) (envelope.InitBody, error) {
	var ib envelope.InitBody
	if err := json.Unmarshal(body, &ib); err != nil {
		return envelope.InitBody{}, err
	}
	if ib.Type != "init" {
		return envelope.InitBody{}, fmt.Errorf("expected type \"init\", got %q", ib.Type)
	}
	return ib, nil
}
