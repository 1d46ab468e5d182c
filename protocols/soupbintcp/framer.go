// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package soupbintcp

import (
	"encoding/binary"

	"code.hybscloud.com/link/frame"
	"code.hybscloud.com/link/lnkerr"
)

const maxPacketLen = 1<<16 - 1

// Framer implements frame.Framer and frame.Encoder using SoupBinTCP's own
// wire convention: a 2-byte big-endian length prefix counting the bytes
// that follow it (the packet-type tag plus its payload), not a length
// byte that also encodes itself. This is distinct from frame's generic
// LengthPrefixFramer, whose compact variable-width header does not match
// a real SoupBinTCP session.
type Framer struct{}

func (Framer) GetFrame(acc *frame.Accumulator) (frame.Frame, bool) {
	b := acc.Bytes()
	if len(b) < 2 {
		return nil, false
	}
	n := int(binary.BigEndian.Uint16(b[:2]))
	if len(b) < 2+n {
		return nil, false
	}
	out := make([]byte, n)
	copy(out, b[2:2+n])
	acc.Advance(2 + n)
	return out, true
}

func (Framer) EncodedLen(payloadLen int) int { return 2 + payloadLen }

func (Framer) Encode(dst []byte, payload []byte) (int, error) {
	if len(payload) > maxPacketLen {
		return 0, lnkerr.ErrTooLong
	}
	binary.BigEndian.PutUint16(dst[:2], uint16(len(payload)))
	n := copy(dst[2:], payload)
	return 2 + n, nil
}

var (
	_ frame.Framer  = Framer{}
	_ frame.Encoder = Framer{}
)
