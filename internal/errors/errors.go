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
Package errors defines the structured error type workloads raise, and
its mapping onto Maelstrom's wire error codes (spec §7). A
MaelstromError is either an application error — returned to the client
as an `error` body — or a protocol error, which the runtime treats as
fatal because it indicates the node itself is in a state the harness
cannot recover from (a malformed envelope, a write that can't be
completed).
*/
package errors

import (
	"fmt"

	"github.com/flydb-labs/maelstrom/internal/envelope"
)

// Category distinguishes errors the runtime can hand back to a client
// from errors that mean the node's own loop cannot continue.
type Category int

const (
	// CategoryApplication errors are returned to the requesting client
	// as an `error` message; the node keeps running.
	CategoryApplication Category = iota
	// CategoryProtocol errors are fatal: the runtime logs and exits.
	CategoryProtocol
)

func (c Category) String() string {
	if c == CategoryProtocol {
		return "protocol"
	}
	return "application"
}

// MaelstromError is the structured error a workload turns into a wire
// `error` reply via MarshalPayload.
type MaelstromError struct {
	Code     int
	Category Category
	Text     string
	Cause    error
}

func (e *MaelstromError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (code %d): %s: %v", e.Category, e.Code, e.Text, e.Cause)
	}
	return fmt.Sprintf("%s (code %d): %s", e.Category, e.Code, e.Text)
}

func (e *MaelstromError) Unwrap() error { return e.Cause }

// WithCause attaches an underlying error, preserved via Unwrap but not
// exposed on the wire.
func (e *MaelstromError) WithCause(cause error) *MaelstromError {
	return &MaelstromError{Code: e.Code, Category: e.Category, Text: e.Text, Cause: cause}
}

// MarshalPayload produces the wire `error` body (spec §7).
func (e *MaelstromError) MarshalPayload() envelope.ErrorBody {
	return envelope.ErrorBody{Type: "error", Code: e.Code, Text: e.Text}
}

func newApp(code int, text string) *MaelstromError {
	return &MaelstromError{Code: code, Category: CategoryApplication, Text: text}
}

// KeyDoesNotExist is returned by a cas against a missing key (code 20).
func KeyDoesNotExist(key string) *MaelstromError {
	return newApp(envelope.CodeKeyDoesNotExist, fmt.Sprintf("key %q does not exist", key))
}

// PreconditionFailed is returned by a cas whose `from` value does not
// match the stored value (code 22).
func PreconditionFailed(key string, expected, actual any) *MaelstromError {
	return newApp(envelope.CodePreconditionFailed,
		fmt.Sprintf("cas expected %v for key %q but found %v", expected, key, actual))
}

// Protocol wraps a fatal transport/decoding error (crash, code 13).
// The runtime logs it and terminates rather than replying to a client.
func Protocol(format string, args ...any) *MaelstromError {
	return &MaelstromError{Code: envelope.CodeCrash, Category: CategoryProtocol, Text: fmt.Sprintf(format, args...)}
}

// As extracts a *MaelstromError from err, if one is present anywhere
// in its Unwrap chain.
func As(err error) (*MaelstromError, bool) {
	for err != nil {
		if me, ok := err.(*MaelstromError); ok {
			return me, true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}
