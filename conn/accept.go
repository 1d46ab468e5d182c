// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package conn

import (
	"net"

	"code.hybscloud.com/link/callback"
	"code.hybscloud.com/link/conid"
	"code.hybscloud.com/link/frame"
	"code.hybscloud.com/link/message"
)

// NewAccepted wraps an already-accepted TCP connection as a Clt, running
// protocol's OnConnected hook exactly as Connect does. Used by svc's
// acceptor, which owns the listening socket and only needs this package to
// build the per-connection layers once a peer is accepted.
func NewAccepted[SendT, RecvT any](
	tc *net.TCPConn,
	name string,
	framer frame.Framer,
	enc frame.Encoder,
	messenger message.Messenger[SendT, RecvT],
	cb callback.RecvSend[SendT, RecvT],
	protocol Protocol[SendT, RecvT],
	maxMsgSize int,
) (*Clt[SendT, RecvT], error) {
	id := conid.ID{Name: name, Role: conid.RoleSvc, Local: tc.LocalAddr(), Peer: tc.RemoteAddr()}
	return newClt[SendT, RecvT](tc, id, framer, enc, messenger, cb, protocol, maxMsgSize)
}
