// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pool

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"code.hybscloud.com/link/conn"
	"code.hybscloud.com/link/lnkerr"
	"code.hybscloud.com/link/status"
)

// CltRecversPool is a round-robin pool of conn.CltRecver halves, fed by an
// inbound admission channel. It is the recv side produced by Svc.Split:
// once a Clt is split, its recver and sender halves are admitted to two
// independent pools and round-robin independently, so CltRecversPool never
// passes a sender to CltRecver.Recv — auto-reply only works on an unsplit
// Clt or CltRecver explicitly paired with its own sender by the caller.
type CltRecversPool[SendT, RecvT any] struct {
	rr  *RoundRobinPool[*conn.CltRecver[SendT, RecvT]]
	in  chan *conn.CltRecver[SendT, RecvT]
	log logrus.FieldLogger
}

// NewCltRecversPool returns an empty pool with room for capacity halves.
func NewCltRecversPool[SendT, RecvT any](capacity int, log logrus.FieldLogger) *CltRecversPool[SendT, RecvT] {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CltRecversPool[SendT, RecvT]{
		rr:  NewRoundRobinPool[*conn.CltRecver[SendT, RecvT]](capacity),
		in:  make(chan *conn.CltRecver[SendT, RecvT], capacity),
		log: log,
	}
}

func (p *CltRecversPool[SendT, RecvT]) Len() int          { return p.rr.Len() }
func (p *CltRecversPool[SendT, RecvT]) IsEmpty() bool     { return p.rr.IsEmpty() }
func (p *CltRecversPool[SendT, RecvT]) HasCapacity() bool { return p.rr.HasCapacity() }

// Offer attempts a non-blocking send of recver down the admission channel.
func (p *CltRecversPool[SendT, RecvT]) Offer(recver *conn.CltRecver[SendT, RecvT]) bool {
	select {
	case p.in <- recver:
		return true
	default:
		return false
	}
}

// PoolAccept drains the admission channel once, admitting a waiting recver
// if capacity permits.
func (p *CltRecversPool[SendT, RecvT]) PoolAccept() status.PoolAccept {
	select {
	case recver := <-p.in:
		if err := p.rr.Add(recver); err != nil {
			p.log.WithField("con_name", recver.ID().Name).Warnf("pool: dropping recver at capacity: %v", err)
			_ = recver.Close()
			return status.PoolAcceptWouldBlock
		}
		return status.PoolAccepted
	default:
		return status.PoolAcceptWouldBlock
	}
}

// Recv round-robins to the next live recver. Each call also runs one
// PoolAccept, opportunistically admitting a newly available recver.
func (p *CltRecversPool[SendT, RecvT]) Recv() (status.Recv[RecvT], error) {
	recver, ok := p.rr.RoundRobin()
	if !ok {
		if p.PoolAccept() == status.PoolAccepted {
			return p.Recv()
		}
		return status.Recv[RecvT]{}, lnkerr.ErrNotConnected
	}
	st, err := recver.Recv(nil)
	if err != nil {
		dead, _ := p.rr.RemoveLastUsed()
		p.log.WithField("con_name", dead.ID().Name).Warnf("pool: dropping recver after error: %v", err)
		_ = dead.Close()
		p.PoolAccept()
		return st, err
	}
	if st.IsEOF() {
		dead, _ := p.rr.RemoveLastUsed()
		p.log.WithField("con_name", dead.ID().Name).Info("pool: recver closed cleanly, evicting")
		_ = dead.Close()
	}
	p.PoolAccept()
	return st, nil
}

// RecvBusywaitTimeout spins calling Recv until it completes, errors with
// something other than NotConnected, or timeout elapses.
func (p *CltRecversPool[SendT, RecvT]) RecvBusywaitTimeout(timeout time.Duration) (status.Recv[RecvT], error) {
	deadline := time.Now().Add(timeout)
	for {
		st, err := p.Recv()
		if err != nil {
			if errors.Is(err, lnkerr.ErrNotConnected) {
				if time.Now().After(deadline) {
					return st, err
				}
				continue
			}
			return st, err
		}
		if !st.IsWouldBlock() {
			return st, nil
		}
		if time.Now().After(deadline) {
			return st, nil
		}
	}
}

// RecvBusywait spins calling Recv forever, hoping a new recver arrives if
// the pool is currently empty.
func (p *CltRecversPool[SendT, RecvT]) RecvBusywait() (status.Recv[RecvT], error) {
	for {
		st, err := p.Recv()
		if err != nil {
			if errors.Is(err, lnkerr.ErrNotConnected) {
				continue
			}
			return st, err
		}
		if !st.IsWouldBlock() {
			return st, nil
		}
	}
}
