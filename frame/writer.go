// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package frame

import (
	"runtime"
	"time"

	"code.hybscloud.com/link/status"
)

// FrameWriter owns the other half of a socket shared with a FrameReader.
// WriteFrame treats a frame as atomic on the wire: either all of its bytes
// land, or none do.
type FrameWriter struct {
	conn halfCloser
}

// NewFrameWriter wraps conn for non-blocking, atomic frame writes.
func NewFrameWriter(conn halfCloser) *FrameWriter {
	return &FrameWriter{conn: conn}
}

// WriteFrame attempts to write all of bytes as one frame.
//
// If the very first attempt would block with zero bytes written, WriteFrame
// returns WouldBlock without having put anything on the wire. Once any
// bytes have gone out, WriteFrame busy-loops (yielding between attempts)
// until the rest follows or a genuine error occurs — a frame is never left
// half-written on the wire, because that would desynchronize the peer's
// framer.
func (w *FrameWriter) WriteFrame(bytes []byte) (status.Send, error) {
	off := 0
	for off < len(bytes) {
		if err := w.conn.SetWriteDeadline(time.Now()); err != nil {
			return status.SendWouldBlock, err
		}
		n, err := w.conn.Write(bytes[off:])
		if n > 0 {
			off += n
		}
		if err != nil {
			if isWouldBlock(err) {
				if off == 0 {
					return status.SendWouldBlock, nil
				}
				// Partial write in flight: this frame must land atomically.
				// Treat the blocked remainder as a retry signal, not an
				// error the caller can act on.
				runtime.Gosched()
				continue
			}
			_ = w.conn.Close()
			return status.SendWouldBlock, err
		}
		if n == 0 && off < len(bytes) {
			_ = w.conn.Close()
			return status.SendWouldBlock, errConnectionReset
		}
	}
	return status.SendCompleted, nil
}

// Close shuts down the underlying socket. Safe to call more than once.
func (w *FrameWriter) Close() error {
	return w.conn.Close()
}
