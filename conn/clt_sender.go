// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package conn

import (
	"errors"
	"net"

	"code.hybscloud.com/link/callback"
	"code.hybscloud.com/link/conid"
	"code.hybscloud.com/link/message"
	"code.hybscloud.com/link/status"
)

// errWouldBlock stands in for the WouldBlock status when OnFail needs an
// error value; it is never returned to a caller, only handed to a
// callback, since WouldBlock is a status here, not an error.
var errWouldBlock = errors.New("link: send would block")

// CltSender is the write half of a connection: a message.MessageSender
// plus the shared callback. Exclusively owns the underlying frame.FrameWriter.
type CltSender[SendT, RecvT any] struct {
	id       conid.ID
	tc       *net.TCPConn
	ms       *message.MessageSender[SendT]
	callback callback.RecvSend[SendT, RecvT]
}

func newCltSender[SendT, RecvT any](
	id conid.ID,
	tc *net.TCPConn,
	ms *message.MessageSender[SendT],
	cb callback.RecvSend[SendT, RecvT],
) *CltSender[SendT, RecvT] {
	return &CltSender[SendT, RecvT]{id: id, tc: tc, ms: ms, callback: cb}
}

// ID returns the connection identity this sender belongs to.
func (s *CltSender[SendT, RecvT]) ID() conid.ID { return s.id }

// RawConn exposes the underlying *net.TCPConn, e.g. so a reactor can
// register its file descriptor for write-readiness notification.
func (s *CltSender[SendT, RecvT]) RawConn() *net.TCPConn { return s.tc }

// Send serializes and writes msg as one frame. Exactly one of OnSent or
// OnFail on the callback is observed, always preceded by exactly one
// OnSend, matching message.MessageSender's own one-shot-serialize
// contract.
func (s *CltSender[SendT, RecvT]) Send(msg SendT) (status.Send, error) {
	s.callback.OnSend(s.id, &msg)

	st, err := s.ms.Send(msg)
	if err != nil {
		s.callback.OnFail(s.id, &msg, err)
		return st, err
	}
	if st.IsWouldBlock() {
		s.callback.OnFail(s.id, &msg, errWouldBlock)
		return st, nil
	}
	s.callback.OnSent(s.id, &msg)
	return st, nil
}

// Close shuts down the underlying socket, which also fails the paired
// CltRecver's next read.
func (s *CltSender[SendT, RecvT]) Close() error { return s.ms.Close() }
