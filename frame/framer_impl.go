// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package frame

import (
	"encoding/binary"

	"code.hybscloud.com/link/internal/bo"
)

// FixedSizeFramer treats every frame as exactly N bytes. It is the
// simplest Framer: it yields a frame as soon as N bytes have accumulated.
type FixedSizeFramer struct {
	N int
}

// NewFixedSizeFramer returns a FixedSizeFramer for frames of exactly n bytes.
func NewFixedSizeFramer(n int) FixedSizeFramer {
	return FixedSizeFramer{N: n}
}

func (f FixedSizeFramer) GetFrame(acc *Accumulator) (Frame, bool) {
	if f.N <= 0 || acc.Len() < f.N {
		return nil, false
	}
	out := make([]byte, f.N)
	copy(out, acc.Bytes()[:f.N])
	acc.Advance(f.N)
	return out, true
}

// EncodedLen returns N regardless of payload length: every frame this
// Framer emits is exactly N bytes, with no separate header.
func (f FixedSizeFramer) EncodedLen(int) int { return f.N }

// Encode copies payload verbatim into dst; payload must be exactly N
// bytes, matching GetFrame's expectation on the read side.
func (f FixedSizeFramer) Encode(dst []byte, payload []byte) (int, error) {
	if len(payload) != f.N {
		return 0, errInvalidArgument
	}
	return copy(dst, payload), nil
}

var (
	_ Framer  = FixedSizeFramer{}
	_ Encoder = FixedSizeFramer{}
	_ Framer  = LengthPrefixFramer{}
	_ Encoder = LengthPrefixFramer{}
)

const (
	frameHeaderLen          = 1
	framePayloadMaxLen8Bits = 1<<8 - 3
	framePayloadMaxLen16    = 1<<16 - 1
	framePayloadMaxLen56    = 1<<56 - 1
)

// LengthPrefixFramer implements the compact length-prefix wire format
// documented in the package doc comment: a 1-byte header, optional extended
// length bytes, then the payload.
//
// ReadLimit is stored but not consulted: GetFrame waits for whatever
// payload length a header announces, up to 2^56-1, and neither GetFrame
// nor FrameReader reports ErrTooLong for an oversized incoming frame.
type LengthPrefixFramer struct {
	ByteOrder binary.ByteOrder
	ReadLimit int64
}

// NewLengthPrefixFramer returns a LengthPrefixFramer using network byte
// order (big-endian), matching TCP convention.
func NewLengthPrefixFramer() LengthPrefixFramer {
	return LengthPrefixFramer{ByteOrder: binary.BigEndian}
}

// NewLengthPrefixFramerNative returns a LengthPrefixFramer using the
// machine's native byte order, intended for same-host transports (e.g.
// Unix domain sockets) where there is no cross-endian peer.
func NewLengthPrefixFramerNative() LengthPrefixFramer {
	return LengthPrefixFramer{ByteOrder: bo.Native()}
}

// GetFrame reads the header (including any extended length) at the front
// of acc and, once the whole payload it announces is buffered, removes
// header and payload from acc and returns the payload.
func (f LengthPrefixFramer) GetFrame(acc *Accumulator) (Frame, bool) {
	order := f.ByteOrder
	if order == nil {
		order = binary.BigEndian
	}
	b := acc.Bytes()
	if len(b) < frameHeaderLen {
		return nil, false
	}
	var exLen, payloadLen int64
	switch b[0] {
	case framePayloadMaxLen8Bits + 1:
		exLen = 2
	case framePayloadMaxLen8Bits + 2:
		exLen = 7
	default:
		payloadLen = int64(b[0])
	}
	total := frameHeaderLen + exLen
	if int64(len(b)) < total {
		return nil, false
	}
	if exLen == 2 {
		payloadLen = int64(order.Uint16(b[frameHeaderLen:total]))
	} else if exLen == 7 {
		var tmp [8]byte
		copy(tmp[:], b[:total])
		if order == binary.LittleEndian {
			u64 := binary.LittleEndian.Uint64(tmp[:])
			payloadLen = int64(u64 >> 8)
		} else {
			// Big-endian: the 7 length bytes occupy tmp[1:8]; shift the
			// 1-byte tag out of the low end by reading as if tmp[0] were
			// the most-significant byte of an 8-byte big-endian integer,
			// then masking off that tag's contribution.
			u64 := binary.BigEndian.Uint64(tmp[:])
			payloadLen = int64(u64 & framePayloadMaxLen56)
		}
	}
	need := total + payloadLen
	if int64(len(b)) < need {
		return nil, false
	}
	out := make([]byte, payloadLen)
	copy(out, b[total:need])
	acc.Advance(int(need))
	return out, true
}

// Encode writes payload's length-prefixed wire encoding into dst,
// returning the number of bytes written, or lnkerr.ErrTooLong if payload
// exceeds the maximum representable length.
func (f LengthPrefixFramer) Encode(dst []byte, payload []byte) (int, error) {
	order := f.ByteOrder
	if order == nil {
		order = binary.BigEndian
	}
	l := int64(len(payload))
	if l > framePayloadMaxLen56 {
		return 0, errTooLong
	}
	switch {
	case l <= framePayloadMaxLen8Bits:
		dst[0] = byte(l)
		copy(dst[1:], payload)
		return 1 + len(payload), nil
	case l <= framePayloadMaxLen16:
		dst[0] = framePayloadMaxLen8Bits + 1
		order.PutUint16(dst[1:3], uint16(l))
		copy(dst[3:], payload)
		return 3 + len(payload), nil
	default:
		dst[0] = framePayloadMaxLen8Bits + 2
		var tmp [8]byte
		if order == binary.LittleEndian {
			binary.LittleEndian.PutUint64(tmp[:], uint64(l)<<8)
		} else {
			binary.BigEndian.PutUint64(tmp[:], uint64(l))
		}
		copy(dst[1:8], tmp[1:8])
		copy(dst[8:], payload)
		return 8 + len(payload), nil
	}
}

// EncodedLen returns the total number of bytes (header, including any
// extended length, plus the payload) that Encode will write for a payload
// of length l.
func (f LengthPrefixFramer) EncodedLen(l int) int {
	switch {
	case l <= framePayloadMaxLen8Bits:
		return 1 + l
	case l <= framePayloadMaxLen16:
		return 3 + l
	default:
		return 8 + l
	}
}
