// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package conn layers per-connection policy (callbacks, an optional
// handshake/auto-reply protocol) over message.MessageRecver/MessageSender:
// CltRecver and CltSender are the two independently ownable halves, Clt is
// the unsplit pair.
package conn

import "code.hybscloud.com/link/conid"

// Protocol is an optional set of hooks layered over a connection's
// Messenger. All three are optional in the sense that a nil Protocol
// disables handshake and auto-reply without changing any other behavior.
type Protocol[SendT, RecvT any] interface {
	// OnConnected runs once the socket is available and before the Clt is
	// handed back to the caller, on both the connect and accept paths. It
	// may send and receive synchronously on the just-opened connection to
	// perform a handshake; returning an error fails the connect/accept and
	// the socket is closed.
	OnConnected(clt *Clt[SendT, RecvT]) error

	// OnRecv runs after the connection's CallbackRecv, given the sender
	// half of the same connection so it can reply (e.g. echoing a
	// heartbeat). sender may be nil if the caller driving Recv did not
	// supply one, in which case OnRecv must not attempt to reply.
	OnRecv(id conid.ID, msg *RecvT, sender *CltSender[SendT, RecvT])

	// Keepalive emits a periodic message via sender. It is invoked by an
	// external scheduler, not by anything in this package.
	Keepalive(sender *CltSender[SendT, RecvT])
}
