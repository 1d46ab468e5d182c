// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package conn

import (
	"net"

	"code.hybscloud.com/link/callback"
	"code.hybscloud.com/link/conid"
	"code.hybscloud.com/link/message"
	"code.hybscloud.com/link/status"
)

// CltRecver is the read half of a connection: a message.MessageRecver plus
// the shared callback and an optional protocol. Exclusively owns the
// underlying frame.FrameReader.
type CltRecver[SendT, RecvT any] struct {
	id       conid.ID
	tc       *net.TCPConn
	mr       *message.MessageRecver[RecvT]
	callback callback.RecvSend[SendT, RecvT]
	protocol Protocol[SendT, RecvT]
}

func newCltRecver[SendT, RecvT any](
	id conid.ID,
	tc *net.TCPConn,
	mr *message.MessageRecver[RecvT],
	cb callback.RecvSend[SendT, RecvT],
	protocol Protocol[SendT, RecvT],
) *CltRecver[SendT, RecvT] {
	return &CltRecver[SendT, RecvT]{id: id, tc: tc, mr: mr, callback: cb, protocol: protocol}
}

// ID returns the connection identity this recver belongs to.
func (r *CltRecver[SendT, RecvT]) ID() conid.ID { return r.id }

// RawConn exposes the underlying *net.TCPConn, e.g. so a reactor can
// register its file descriptor for readiness notification.
func (r *CltRecver[SendT, RecvT]) RawConn() *net.TCPConn { return r.tc }

// OnReadableEvent services one readiness notification by attempting a
// single Recv, translating its outcome into a status.PollEvent for a
// reactor's dispatch loop. It always passes a nil sender to Recv: a
// CltRecver registered standalone with a reactor has no paired sender a
// protocol could reply through (see Recv's doc comment).
func (r *CltRecver[SendT, RecvT]) OnReadableEvent() (status.PollEvent, error) {
	st, err := r.Recv(nil)
	if err != nil {
		return status.PollTerminate, err
	}
	if st.IsEOF() {
		return status.PollTerminate, nil
	}
	if st.IsWouldBlock() {
		return status.PollWouldBlock, nil
	}
	return status.PollCompleted, nil
}

// Recv reads at most one frame's worth of progress and deserializes it if
// complete. sender, when non-nil, is offered to the protocol's OnRecv hook
// so it can reply on the same connection (e.g. echoing a heartbeat); pass
// nil to disable auto-reply, which is the only way to invoke a protocol
// hook that needs a sender without storing one inside the protocol itself.
func (r *CltRecver[SendT, RecvT]) Recv(sender *CltSender[SendT, RecvT]) (status.Recv[RecvT], error) {
	st, err := r.mr.Recv()
	if err != nil {
		return st, err
	}
	msg, ok := st.Value()
	if !ok {
		return st, nil
	}
	r.callback.OnRecv(r.id, &msg)
	if r.protocol != nil {
		r.protocol.OnRecv(r.id, &msg, sender)
	}
	return status.Completed(msg), nil
}

// Close shuts down the underlying socket, which also fails the paired
// CltSender's next write.
func (r *CltRecver[SendT, RecvT]) Close() error { return r.mr.Close() }
