// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package svc is the server side of this module: a non-blocking acceptor
// over a *net.TCPListener, plus a pool.CltsPool every accepted connection
// is admitted to.
package svc

import (
	"errors"
	"net"
	"time"

	"code.hybscloud.com/link/callback"
	"code.hybscloud.com/link/conid"
	"code.hybscloud.com/link/conn"
	"code.hybscloud.com/link/frame"
	"code.hybscloud.com/link/lnkerr"
	"code.hybscloud.com/link/message"
	"code.hybscloud.com/link/status"
)

// Acceptor wraps a *net.TCPListener for non-blocking accept, building each
// accepted socket into a conn.Clt the same way conn.Connect does.
type Acceptor[SendT, RecvT any] struct {
	id         conid.ID
	ln         *net.TCPListener
	name       string
	framer     frame.Framer
	enc        frame.Encoder
	messenger  message.Messenger[SendT, RecvT]
	callback   callback.RecvSend[SendT, RecvT]
	protocol   conn.Protocol[SendT, RecvT]
	maxMsgSize int
}

// NewAcceptor resolves and binds addr, returning a listener ready for
// non-blocking Accept calls.
func NewAcceptor[SendT, RecvT any](
	addr string,
	name string,
	framer frame.Framer,
	enc frame.Encoder,
	messenger message.Messenger[SendT, RecvT],
	cb callback.RecvSend[SendT, RecvT],
	protocol conn.Protocol[SendT, RecvT],
	maxMsgSize int,
) (*Acceptor[SendT, RecvT], error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, lnkerr.Wrap(conid.ID{Name: name, Role: conid.RoleSvc}, "bind", err)
	}
	ln, err := net.ListenTCP("tcp", tcpAddr)
	if err != nil {
		return nil, lnkerr.Wrap(conid.ID{Name: name, Role: conid.RoleSvc}, "bind", err)
	}
	return &Acceptor[SendT, RecvT]{
		id:         conid.ID{Name: name, Role: conid.RoleSvc, Local: ln.Addr()},
		ln:         ln,
		name:       name,
		framer:     framer,
		enc:        enc,
		messenger:  messenger,
		callback:   cb,
		protocol:   protocol,
		maxMsgSize: maxMsgSize,
	}, nil
}

// ID returns the listener's identity.
func (a *Acceptor[SendT, RecvT]) ID() conid.ID { return a.id }

// Addr returns the bound listening address.
func (a *Acceptor[SendT, RecvT]) Addr() net.Addr { return a.ln.Addr() }

// RawListener exposes the underlying *net.TCPListener, e.g. so a reactor
// can register its file descriptor for readiness notification.
func (a *Acceptor[SendT, RecvT]) RawListener() *net.TCPListener { return a.ln }

// Accept performs one non-blocking AcceptTCP. A timeout with nothing
// waiting reports status.AcceptWouldBlock rather than an error.
func (a *Acceptor[SendT, RecvT]) Accept() (status.Accept[*conn.Clt[SendT, RecvT]], error) {
	if err := a.ln.SetDeadline(time.Now()); err != nil {
		return status.Accept[*conn.Clt[SendT, RecvT]]{}, lnkerr.Wrap(a.id, "accept", err)
	}
	tc, err := a.ln.AcceptTCP()
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return status.AcceptWouldBlock[*conn.Clt[SendT, RecvT]](), nil
		}
		return status.Accept[*conn.Clt[SendT, RecvT]]{}, lnkerr.Wrap(a.id, "accept", err)
	}
	clt, err := conn.NewAccepted[SendT, RecvT](tc, a.name, a.framer, a.enc, a.messenger, a.callback, a.protocol, a.maxMsgSize)
	if err != nil {
		return status.Accept[*conn.Clt[SendT, RecvT]]{}, err
	}
	return status.Accepted(clt), nil
}

// Close stops accepting new connections. In-flight Clts are unaffected.
func (a *Acceptor[SendT, RecvT]) Close() error { return a.ln.Close() }
