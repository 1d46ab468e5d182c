// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package frame turns a stream of bytes on one TCP connection half into a
// lazy sequence of complete byte frames, and back.
//
// A Framer is pure policy: given the bytes accumulated so far, it decides
// whether a complete frame sits at the front of the buffer. FrameReader
// owns a non-blocking socket half, a growable Accumulator, and a Framer; it
// issues at most one read syscall per call to ReadFrame and hands complete
// frames to the caller as they become available. FrameWriter owns the
// other half and writes one frame atomically, finishing a partial write
// within the same call rather than exposing a half-written frame to the
// caller.
//
// Wire format (LengthPrefixFramer, the length-prefixed framer this package
// ships): a 1-byte header followed by optional extended length bytes, then
// the payload. Let L be the payload length in bytes:
//   - 0 <= L <= 253: header[0] = L, no extended length.
//   - 254 <= L <= 65535: header[0] = 0xFE, next 2 bytes encode L.
//   - 65536 <= L <= 2^56-1: header[0] = 0xFF, next 7 bytes encode L.
//
// Maximum representable payload is 2^56-1; Encode rejects a larger payload
// with lnkerr.ErrTooLong. The read side does not check ReadLimit.
package frame

import "code.hybscloud.com/link/status"

// Frame is an owned, immutable byte sequence representing exactly one
// application message at the wire level.
type Frame = []byte

// Framer decides where one frame ends inside an accumulating buffer.
//
// GetFrame inspects acc for a complete frame at the front. If one is
// present, it removes exactly those bytes (via acc.Advance) and returns
// them with ok=true. If no complete frame is present it returns ok=false
// and must not mutate acc.
type Framer interface {
	GetFrame(acc *Accumulator) (frame Frame, ok bool)
}

// Encoder is the write-side complement of a Framer: it knows how to wrap a
// payload in whatever header the matching Framer expects to strip back
// off. A Framer implementation and its Encoder implementation must always
// be used together for a given direction, since they agree on one wire
// format.
type Encoder interface {
	// EncodedLen returns how many bytes Encode will write for a payload of
	// length payloadLen.
	EncodedLen(payloadLen int) int
	// Encode writes payload's framed wire encoding into dst, which must be
	// at least EncodedLen(len(payload)) bytes, and returns the number of
	// bytes written.
	Encode(dst []byte, payload []byte) (int, error)
}

// ReadStatus and WriteStatus alias the shared status types for frame-level
// operations, for readability at call sites.
type (
	ReadStatus  = status.Recv[Frame]
	WriteStatus = status.Send
)
