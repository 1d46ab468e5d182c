// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package soupbintcp

import (
	"errors"
	"sync"
	"time"

	"code.hybscloud.com/link/conid"
	"code.hybscloud.com/link/conn"
	"code.hybscloud.com/link/lnkerr"
)

// ErrLoginRejected reports that the peer's LoginAccepted/Rejected reply
// was a rejection.
var ErrLoginRejected = errors.New("link: soupbintcp: login rejected")

// CltProtocol performs the client side of a SoupBinTCP login handshake on
// connect, and replies to ServerHeartbeat with ClientHeartbeat on recv.
type CltProtocol struct {
	Username         string
	Password         string
	RequestedSession string
	RequestedSeqNum  string
	LoginTimeout     time.Duration

	mu      sync.Mutex
	Session string
	SeqNum  string
}

// OnConnected sends a LoginRequest and busywaits for LoginAccepted or
// LoginRejected within LoginTimeout, mirroring the spin-with-deadline
// style this module's pools use for any other busywait-until-timeout
// operation.
func (p *CltProtocol) OnConnected(clt *conn.Clt[Packet, Packet]) error {
	if _, err := clt.Send(LoginRequest(p.Username, p.Password, p.RequestedSession, p.RequestedSeqNum)); err != nil {
		return err
	}

	timeout := p.LoginTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	deadline := time.Now().Add(timeout)
	for {
		st, err := clt.Recv()
		if err != nil {
			return err
		}
		if msg, ok := st.Value(); ok {
			switch msg.Type {
			case PacketLoginAccepted:
				p.mu.Lock()
				p.Session, p.SeqNum = msg.Session, msg.SeqNum
				p.mu.Unlock()
				return nil
			case PacketLoginRejected:
				return ErrLoginRejected
			}
			continue // any other packet before login completes is ignored
		}
		if st.IsEOF() {
			return lnkerr.ErrConnectionReset
		}
		if time.Now().After(deadline) {
			return lnkerr.ErrTimedOut
		}
	}
}

// OnRecv answers a ServerHeartbeat with a ClientHeartbeat. Any other
// packet is left to the caller's own CallbackRecv.
func (p *CltProtocol) OnRecv(_ conid.ID, msg *Packet, sender *conn.CltSender[Packet, Packet]) {
	if msg.Type == PacketServerHeartbeat && sender != nil {
		_, _ = sender.Send(ClientHeartbeat())
	}
}

// Keepalive sends a ClientHeartbeat.
func (p *CltProtocol) Keepalive(sender *conn.CltSender[Packet, Packet]) {
	_, _ = sender.Send(ClientHeartbeat())
}

// Authorize decides whether a LoginRequest's credentials are accepted, and
// which session/sequence number to reply with.
type Authorize func(username, password string) (session, seqNum string, ok bool)

// SvcProtocol performs the server side of a SoupBinTCP session: it answers
// a LoginRequest with LoginAccepted or LoginRejected via Authorize, and
// answers a ClientHeartbeat with nothing (the client does not expect a
// reply to its own heartbeat).
type SvcProtocol struct {
	Authorize Authorize
}

// OnConnected is a no-op: the server does not initiate anything on
// accept, it waits for the client's LoginRequest in OnRecv.
func (p *SvcProtocol) OnConnected(*conn.Clt[Packet, Packet]) error { return nil }

// OnRecv answers a LoginRequest with LoginAccepted or LoginRejected.
func (p *SvcProtocol) OnRecv(_ conid.ID, msg *Packet, sender *conn.CltSender[Packet, Packet]) {
	if msg.Type != PacketLoginRequest || sender == nil {
		return
	}
	if p.Authorize == nil {
		_, _ = sender.Send(LoginRejected(RejectNotAuthorized))
		return
	}
	session, seqNum, ok := p.Authorize(msg.Username, msg.Password)
	if !ok {
		_, _ = sender.Send(LoginRejected(RejectNotAuthorized))
		return
	}
	_, _ = sender.Send(LoginAccepted(session, seqNum))
}

// Keepalive sends a ServerHeartbeat.
func (p *SvcProtocol) Keepalive(sender *conn.CltSender[Packet, Packet]) {
	_, _ = sender.Send(ServerHeartbeat())
}

var (
	_ conn.Protocol[Packet, Packet] = (*CltProtocol)(nil)
	_ conn.Protocol[Packet, Packet] = (*SvcProtocol)(nil)
)
