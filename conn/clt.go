// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package conn

import (
	"net"
	"time"

	"code.hybscloud.com/link/callback"
	"code.hybscloud.com/link/conid"
	"code.hybscloud.com/link/frame"
	"code.hybscloud.com/link/lnkerr"
	"code.hybscloud.com/link/message"
	"code.hybscloud.com/link/status"
)

// Clt is an unsplit connection: a CltRecver and a CltSender sharing one
// kernel socket. Closing either half, or Clt itself, shuts down both
// directions.
type Clt[SendT, RecvT any] struct {
	id     conid.ID
	tc     *net.TCPConn
	recver *CltRecver[SendT, RecvT]
	sender *CltSender[SendT, RecvT]
}

// newClt builds the frame/message layers over an already-connected TCP
// socket and runs the protocol's OnConnected hook, if any. Shared by
// Connect and by svc's accept path so both construct a Clt identically.
// framer governs how bytes split into frames on the wire; enc is its
// write-side complement; messenger (de)serializes a frame's payload into
// SendT/RecvT values. These are independent axes — a caller may reuse one
// LengthPrefixFramer across many differently-typed Messengers.
func newClt[SendT, RecvT any](
	tc *net.TCPConn,
	id conid.ID,
	framer frame.Framer,
	enc frame.Encoder,
	messenger message.Messenger[SendT, RecvT],
	cb callback.RecvSend[SendT, RecvT],
	protocol Protocol[SendT, RecvT],
	maxMsgSize int,
) (*Clt[SendT, RecvT], error) {
	fr := frame.NewFrameReader(tc, framer, maxMsgSize)
	fw := frame.NewFrameWriter(tc)

	mr := message.NewMessageRecver[RecvT](fr, messenger)
	ms := message.NewMessageSender[SendT](fw, messenger, enc, maxMsgSize)

	c := &Clt[SendT, RecvT]{
		id:     id,
		tc:     tc,
		recver: newCltRecver[SendT, RecvT](id, tc, mr, cb, protocol),
		sender: newCltSender[SendT, RecvT](id, tc, ms, cb),
	}

	if protocol != nil {
		if err := protocol.OnConnected(c); err != nil {
			_ = tc.Close()
			return nil, lnkerr.Wrap(id, "on_connected", err)
		}
	}
	return c, nil
}

// Connect dials addr, retrying every retryAfter until timeout elapses, then
// constructs a Clt and runs protocol's handshake if supplied. It fails with
// lnkerr.ErrTimedOut once the budget is exhausted without a connection.
func Connect[SendT, RecvT any](
	addr string,
	timeout, retryAfter time.Duration,
	framer frame.Framer,
	enc frame.Encoder,
	messenger message.Messenger[SendT, RecvT],
	cb callback.RecvSend[SendT, RecvT],
	protocol Protocol[SendT, RecvT],
	name string,
	maxMsgSize int,
) (*Clt[SendT, RecvT], error) {
	deadline := time.Now().Add(timeout)
	emptyID := conid.ID{Name: name, Role: conid.RoleClt}

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, lnkerr.Wrap(emptyID, "connect", lnkerr.ErrTimedOut)
		}

		dialTimeout := remaining
		if retryAfter > 0 && retryAfter < dialTimeout {
			dialTimeout = retryAfter
		}

		c, err := net.DialTimeout("tcp", addr, dialTimeout)
		if err == nil {
			tc := c.(*net.TCPConn)
			id := conid.ID{Name: name, Role: conid.RoleClt, Local: tc.LocalAddr(), Peer: tc.RemoteAddr()}
			return newClt[SendT, RecvT](tc, id, framer, enc, messenger, cb, protocol, maxMsgSize)
		}

		if time.Until(deadline) <= 0 {
			return nil, lnkerr.Wrap(emptyID, "connect", lnkerr.ErrTimedOut)
		}
		if retryAfter > 0 {
			time.Sleep(retryAfter)
		}
	}
}

// ID returns the connection identity.
func (c *Clt[SendT, RecvT]) ID() conid.ID { return c.id }

// RawConn exposes the underlying *net.TCPConn so a caller or protocol
// implementation can set socket options (TCP_NODELAY, keepalive, SO_LINGER)
// before or after the handshake; this core sets none of them itself.
func (c *Clt[SendT, RecvT]) RawConn() *net.TCPConn { return c.tc }

// Recv delegates to the recver half, offering it this Clt's own sender so
// a protocol's auto-reply hook can respond on the same connection.
func (c *Clt[SendT, RecvT]) Recv() (status.Recv[RecvT], error) {
	return c.recver.Recv(c.sender)
}

// Send delegates to the sender half.
func (c *Clt[SendT, RecvT]) Send(msg SendT) (status.Send, error) {
	return c.sender.Send(msg)
}

// OnReadableEvent services one readiness notification, passing this Clt's
// own sender so a protocol's auto-reply hook still works when registered
// with a reactor unsplit.
func (c *Clt[SendT, RecvT]) OnReadableEvent() (status.PollEvent, error) {
	st, err := c.recver.Recv(c.sender)
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

// Split returns the Clt's two independently ownable halves. After Split,
// the caller is responsible for passing a sender to CltRecver.Recv if
// auto-reply is still desired.
func (c *Clt[SendT, RecvT]) Split() (*CltRecver[SendT, RecvT], *CltSender[SendT, RecvT]) {
	return c.recver, c.sender
}

// Close shuts down the shared socket, which fails both halves.
func (c *Clt[SendT, RecvT]) Close() error { return c.tc.Close() }
