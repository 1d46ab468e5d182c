// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package svc

import (
	"github.com/sirupsen/logrus"

	"code.hybscloud.com/link/callback"
	"code.hybscloud.com/link/conid"
	"code.hybscloud.com/link/conn"
	"code.hybscloud.com/link/frame"
	"code.hybscloud.com/link/message"
	"code.hybscloud.com/link/pool"
	"code.hybscloud.com/link/status"
)

// Svc is a bound listener plus a pool.CltsPool every accepted connection is
// admitted to directly. It is the unsplit server endpoint: one goroutine
// drives PoolAccept, Send, and Recv over whichever connections are
// currently live.
type Svc[SendT, RecvT any] struct {
	acceptor *Acceptor[SendT, RecvT]
	pool     *pool.CltsPool[SendT, RecvT]
}

// Bind listens on addr and returns an Svc with an empty pool sized for
// maxConnections. log may be nil, in which case the pool falls back to
// logrus.StandardLogger().
func Bind[SendT, RecvT any](
	addr string,
	name string,
	framer frame.Framer,
	enc frame.Encoder,
	messenger message.Messenger[SendT, RecvT],
	cb callback.RecvSend[SendT, RecvT],
	protocol conn.Protocol[SendT, RecvT],
	maxMsgSize int,
	maxConnections int,
	log logrus.FieldLogger,
) (*Svc[SendT, RecvT], error) {
	acceptor, err := NewAcceptor[SendT, RecvT](addr, name, framer, enc, messenger, cb, protocol, maxMsgSize)
	if err != nil {
		return nil, err
	}
	return &Svc[SendT, RecvT]{
		acceptor: acceptor,
		pool:     pool.NewCltsPool[SendT, RecvT](maxConnections, log),
	}, nil
}

// ID returns the listener's identity.
func (s *Svc[SendT, RecvT]) ID() conid.ID { return s.acceptor.ID() }

// Len reports the number of live connections currently pooled.
func (s *Svc[SendT, RecvT]) Len() int { return s.pool.Len() }

// Pool exposes the underlying CltsPool for callers that want direct access
// to its busywait variants.
func (s *Svc[SendT, RecvT]) Pool() *pool.CltsPool[SendT, RecvT] { return s.pool }

// PoolAccept accepts at most one waiting connection and admits it to the
// pool directly, bypassing the pool's own admission channel — there is only
// one goroutine here, so there is nothing to hand off to.
func (s *Svc[SendT, RecvT]) PoolAccept() (status.PoolAccept, error) {
	st, err := s.acceptor.Accept()
	if err != nil {
		return status.PoolAcceptWouldBlock, err
	}
	clt, ok := st.Value()
	if !ok {
		return status.PoolAcceptWouldBlock, nil
	}
	if err := s.pool.Add(clt); err != nil {
		_ = clt.Close()
		return status.PoolAcceptWouldBlock, nil
	}
	return status.PoolAccepted, nil
}

// Accept accepts at most one waiting connection without touching the pool.
// Used by a caller that wants to manage admission itself.
func (s *Svc[SendT, RecvT]) Accept() (status.Accept[*conn.Clt[SendT, RecvT]], error) {
	return s.acceptor.Accept()
}

// Send round-robins a message out to the next live connection in the pool.
func (s *Svc[SendT, RecvT]) Send(msg SendT) (status.Send, error) { return s.pool.Send(msg) }

// Recv round-robins a receive attempt across the pool.
func (s *Svc[SendT, RecvT]) Recv() (status.Recv[RecvT], error) { return s.pool.Recv() }

// Split separates the listener from its pool: the returned PoolAcceptor
// feeds two independent pools, one per direction, each servable from a
// different goroutine than the acceptor's own.
func (s *Svc[SendT, RecvT]) Split() (*PoolAcceptor[SendT, RecvT], *pool.CltRecversPool[SendT, RecvT], *pool.CltSendersPool[SendT, RecvT]) {
	capacity := s.pool.Capacity()
	recvers := pool.NewCltRecversPool[SendT, RecvT](capacity, nil)
	senders := pool.NewCltSendersPool[SendT, RecvT](capacity, nil)
	acceptor := &PoolAcceptor[SendT, RecvT]{
		acceptor: s.acceptor,
		recvers:  recvers,
		senders:  senders,
	}
	return acceptor, recvers, senders
}

// Close stops the listener. Already-pooled connections are unaffected.
func (s *Svc[SendT, RecvT]) Close() error { return s.acceptor.Close() }
