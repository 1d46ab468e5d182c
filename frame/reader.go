// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package frame

import (
	"errors"
	"io"
	"net"
	"time"

	"code.hybscloud.com/link/status"
)

// halfCloser is satisfied by *net.TCPConn and *net.UnixConn: a net.Conn
// whose read and write directions can be shut down independently.
type halfCloser interface {
	net.Conn
	CloseRead() error
	CloseWrite() error
}

// FrameReader owns a non-blocking TCP half, a growable accumulator
// pre-sized to MaxMsgSize, and a Framer policy. Dropping it (calling
// Close) shuts down the underlying socket, which delivers FIN to the peer
// and causes the paired FrameWriter to fail subsequent writes.
type FrameReader struct {
	conn       halfCloser
	framer     Framer
	acc        *Accumulator
	maxMsgSize int
}

// NewFrameReader wraps conn for non-blocking, framed reads. maxMsgSize
// sizes both the initial accumulator reservation and the per-syscall read
// request.
func NewFrameReader(conn halfCloser, framer Framer, maxMsgSize int) *FrameReader {
	return &FrameReader{
		conn:       conn,
		framer:     framer,
		acc:        NewAccumulator(maxMsgSize),
		maxMsgSize: maxMsgSize,
	}
}

// ReadFrame issues at most one read syscall and returns the resulting
// status: Completed(frame) if one was already buffered or became complete
// after this read; Completed(nil)-as-EOF if the peer closed cleanly with
// an empty accumulator; WouldBlock if nothing is ready yet.
//
// A read that returns 0 bytes with a non-empty accumulator indicates the
// peer closed mid-frame; ReadFrame shuts down the local write half and
// returns an error wrapping lnkerr.ErrConnectionReset.
func (r *FrameReader) ReadFrame() (status.Recv[Frame], error) {
	if f, ok := r.framer.GetFrame(r.acc); ok {
		return status.Completed(f), nil
	}

	n, err := r.readOnce()
	if err != nil {
		if isWouldBlock(err) {
			return status.RecvWouldBlock[Frame](), nil
		}
		if errors.Is(err, io.EOF) {
			_ = r.conn.CloseWrite()
			if r.acc.Len() == 0 {
				return status.CompletedEOF[Frame](), nil
			}
			return status.Recv[Frame]{}, errConnectionReset
		}
		_ = r.conn.CloseWrite()
		return status.Recv[Frame]{}, err
	}

	if n == 0 {
		// A zero-byte, nil-error read violates io.Reader's contract; treat
		// it the same as peer-closed-mid-frame if bytes are pending,
		// otherwise as a clean close.
		_ = r.conn.CloseWrite()
		if r.acc.Len() == 0 {
			return status.CompletedEOF[Frame](), nil
		}
		return status.Recv[Frame]{}, errConnectionReset
	}

	if f, ok := r.framer.GetFrame(r.acc); ok {
		return status.Completed(f), nil
	}
	return status.RecvWouldBlock[Frame](), nil
}

// readOnce performs exactly one read syscall into the accumulator's spare
// capacity via the immediate-deadline trick: SetReadDeadline(time.Now())
// makes the subsequent Read a single non-blocking attempt instead of
// parking the goroutine on the runtime network poller.
func (r *FrameReader) readOnce() (int, error) {
	size := r.maxMsgSize
	if size <= 0 {
		size = 4096
	}
	dst := r.acc.Grow(size)
	if err := r.conn.SetReadDeadline(time.Now()); err != nil {
		return 0, err
	}
	n, err := r.conn.Read(dst)
	if n > 0 {
		r.acc.Commit(n)
	}
	return n, err
}

// Close shuts down the underlying socket. Safe to call more than once.
func (r *FrameReader) Close() error {
	return r.conn.Close()
}

func isWouldBlock(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) {
		return ne.Timeout()
	}
	return false
}
