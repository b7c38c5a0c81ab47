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

package errors

import (
	"errors"
	"testing"

	"github.com/flydb-labs/maelstrom/internal/envelope"
)

func TestConstructorCodes(t *testing.T) {
	cases := []struct {
		name string
		err  *MaelstromError
		code int
	}{
		{"KeyDoesNotExist", KeyDoesNotExist("foo"), envelope.CodeKeyDoesNotExist},
		{"PreconditionFailed", PreconditionFailed("foo", 1, 2), envelope.CodePreconditionFailed},
		{"Protocol", Protocol("bad envelope: %s", "eof"), envelope.CodeCrash},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if c.err.Code != c.code {
				t.Fatalf("expected code %d, got %d", c.code, c.err.Code)
			}
			if c.err.Error() == "" {
				t.Fatal("expected non-empty Error() message")
			}
		})
	}
}

func TestCategorySeparatesProtocolFromApplication(t *testing.T) {
	if KeyDoesNotExist("x").Category != CategoryApplication {
		t.Fatal("expected application category")
	}
	if Protocol("boom").Category != CategoryProtocol {
		t.Fatal("expected protocol category")
	}
}

func TestMarshalPayload(t *testing.T) {
	err := PreconditionFailed("x", 1, 2)
	body := err.MarshalPayload()
	if body.Type != "error" || body.Code != envelope.CodePreconditionFailed {
		t.Fatalf("unexpected payload: %+v", body)
	}
	if body.Text == "" {
		t.Fatal("expected non-empty text")
	}
}

func TestWithCausePreservesUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	wrapped := KeyDoesNotExist("x").WithCause(cause)
	if !errors.Is(wrapped, cause) {
		t.Fatal("expected errors.Is to find the wrapped cause")
	}
}

func TestAsFindsMaelstromError(t *testing.T) {
	wrapped := KeyDoesNotExist("x").WithCause(errors.New("inner"))
	var plain error = wrapped
	me, ok := As(plain)
	if !ok {
		t.Fatal("expected As to find a *MaelstromError")
	}
	if me.Code != envelope.CodeKeyDoesNotExist {
		t.Fatalf("unexpected code %d", me.Code)
	}
}
