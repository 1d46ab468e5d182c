// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package svc

import (
	"net"

	"code.hybscloud.com/link/conid"
	"code.hybscloud.com/link/conn"
	"code.hybscloud.com/link/lnkerr"
	"code.hybscloud.com/link/pool"
	"code.hybscloud.com/link/status"
)

// PoolAcceptor is the split counterpart of Svc: it owns the listener but no
// single pool, instead handing each accepted connection's two halves to two
// independent pools that may be drained from different goroutines than the
// one calling PoolAccept.
type PoolAcceptor[SendT, RecvT any] struct {
	acceptor *Acceptor[SendT, RecvT]
	recvers  *pool.CltRecversPool[SendT, RecvT]
	senders  *pool.CltSendersPool[SendT, RecvT]
}

// ID returns the listener's identity.
func (a *PoolAcceptor[SendT, RecvT]) ID() conid.ID { return a.acceptor.ID() }

// RawListener exposes the underlying *net.TCPListener, e.g. so a reactor
// can register its file descriptor for readiness notification.
func (a *PoolAcceptor[SendT, RecvT]) RawListener() *net.TCPListener { return a.acceptor.RawListener() }

// PoolAccept accepts at most one waiting connection, splits it, and offers
// both halves to their respective pools' admission channels. It is the
// counterpart to Svc.PoolAccept for a caller that wants its recv and send
// traffic serviced by separate goroutines.
func (a *PoolAcceptor[SendT, RecvT]) PoolAccept() (status.PoolAccept, error) {
	recver, sender, ok, err := a.acceptOne()
	if err != nil || !ok {
		return status.PoolAcceptWouldBlock, err
	}
	if !a.senders.Offer(sender) || !a.recvers.Offer(recver) {
		_ = recver.Close()
		return status.PoolAcceptWouldBlock, lnkerr.Wrap(recver.ID(), "pool_accept", lnkerr.ErrChannelClosed)
	}
	return status.PoolAccepted, nil
}

// AcceptRecver accepts at most one waiting connection, offers its sender
// half to the senders pool's admission channel, and returns the recver half
// directly rather than through a channel — the shape a reactor's Acceptor
// item needs, since the reactor inserts the returned recver into its own
// slab instead of relying on CltRecversPool.PoolAccept to pick it up later.
func (a *PoolAcceptor[SendT, RecvT]) AcceptRecver() (status.Accept[*conn.CltRecver[SendT, RecvT]], error) {
	recver, sender, ok, err := a.acceptOne()
	if err != nil || !ok {
		return status.Accept[*conn.CltRecver[SendT, RecvT]]{}, err
	}
	if !a.senders.Offer(sender) {
		_ = recver.Close()
		return status.Accept[*conn.CltRecver[SendT, RecvT]]{}, lnkerr.Wrap(recver.ID(), "accept_recver", lnkerr.ErrChannelClosed)
	}
	return status.Accepted(recver), nil
}

func (a *PoolAcceptor[SendT, RecvT]) acceptOne() (*conn.CltRecver[SendT, RecvT], *conn.CltSender[SendT, RecvT], bool, error) {
	st, err := a.acceptor.Accept()
	if err != nil {
		return nil, nil, false, err
	}
	clt, ok := st.Value()
	if !ok {
		return nil, nil, false, nil
	}
	recver, sender := clt.Split()
	return recver, sender, true, nil
}

// Close stops the listener.
func (a *PoolAcceptor[SendT, RecvT]) Close() error { return a.acceptor.Close() }
