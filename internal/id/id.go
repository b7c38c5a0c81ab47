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
Package id generates time-ordered 128-bit identifiers for the unique-id
workload (spec §4.9): a 48-bit millisecond Unix timestamp prefix
followed by 80 bits of randomness, rendered as a 26-character string
over Crockford's base32 alphabet, so ids from different milliseconds
always sort lexicographically by time. Two ids generated in the same
millisecond are ordered by their random tails, not by generation order.
*/
package id

import (
	"crypto/rand"
	"time"
)

const encoding = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"

// Generate returns a new id using the current wall-clock time.
func Generate() string {
	return generateAt(time.Now())
}

func generateAt(t time.Time) string {
	var buf [16]byte

	ms := uint64(t.UnixMilli())
	buf[0] = byte(ms >> 40)
	buf[1] = byte(ms >> 32)
	buf[2] = byte(ms >> 24)
	buf[3] = byte(ms >> 16)
	buf[4] = byte(ms >> 8)
	buf[5] = byte(ms)

	if _, err := rand.Read(buf[6:]); err != nil {
		// crypto/rand.Read only fails if the OS entropy source is
		// broken, which this process cannot recover from either way;
		// panicking here matches the original's unwrap-on-failure.
		panic("id: failed to read random tail: " + err.Error())
	}

	return encode(buf)
}

// encode renders the 128-bit value as 26 Crockford base32 characters,
// 5 bits at a time, most-significant bit first. As in ULID text form, the
// 128 bits are preceded by two zero bits to fill 130 = 26×5, so the first
// character is always in 0-7.
func encode(buf [16]byte) string {
	var out [26]byte
	var bitBuf uint64
	bitLen := uint(2)
	src := 0
	for i := range out {
		for bitLen < 5 && src < len(buf) {
			bitBuf = bitBuf<<8 | uint64(buf[src])
			bitLen += 8
			src++
		}
		if bitLen < 5 {
			out[i] = encoding[(bitBuf<<(5-bitLen))&0x1F]
			bitLen = 0
			continue
		}
		shift := bitLen - 5
		out[i] = encoding[(bitBuf>>shift)&0x1F]
		bitLen = shift
	}
	return string(out[:])
}
