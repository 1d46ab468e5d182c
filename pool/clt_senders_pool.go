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

// CltSendersPool is a round-robin pool of conn.CltSender halves, fed by an
// inbound admission channel. It is the send side produced by Svc.Split.
type CltSendersPool[SendT, RecvT any] struct {
	rr  *RoundRobinPool[*conn.CltSender[SendT, RecvT]]
	in  chan *conn.CltSender[SendT, RecvT]
	log logrus.FieldLogger
}

// NewCltSendersPool returns an empty pool with room for capacity halves.
func NewCltSendersPool[SendT, RecvT any](capacity int, log logrus.FieldLogger) *CltSendersPool[SendT, RecvT] {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CltSendersPool[SendT, RecvT]{
		rr:  NewRoundRobinPool[*conn.CltSender[SendT, RecvT]](capacity),
		in:  make(chan *conn.CltSender[SendT, RecvT], capacity),
		log: log,
	}
}

func (p *CltSendersPool[SendT, RecvT]) Len() int          { return p.rr.Len() }
func (p *CltSendersPool[SendT, RecvT]) IsEmpty() bool     { return p.rr.IsEmpty() }
func (p *CltSendersPool[SendT, RecvT]) HasCapacity() bool { return p.rr.HasCapacity() }

// Offer attempts a non-blocking send of sender down the admission channel.
func (p *CltSendersPool[SendT, RecvT]) Offer(sender *conn.CltSender[SendT, RecvT]) bool {
	select {
	case p.in <- sender:
		return true
	default:
		return false
	}
}

// PoolAccept drains the admission channel once, admitting a waiting sender
// if capacity permits.
func (p *CltSendersPool[SendT, RecvT]) PoolAccept() status.PoolAccept {
	select {
	case sender := <-p.in:
		if err := p.rr.Add(sender); err != nil {
			p.log.WithField("con_name", sender.ID().Name).Warnf("pool: dropping sender at capacity: %v", err)
			_ = sender.Close()
			return status.PoolAcceptWouldBlock
		}
		return status.PoolAccepted
	default:
		return status.PoolAcceptWouldBlock
	}
}

// Send round-robins to the next live sender and sends msg on it. Each call
// also runs one PoolAccept, opportunistically admitting a newly available
// sender.
func (p *CltSendersPool[SendT, RecvT]) Send(msg SendT) (status.Send, error) {
	sender, ok := p.rr.RoundRobin()
	if !ok {
		if p.PoolAccept() == status.PoolAccepted {
			return p.Send(msg)
		}
		return status.SendWouldBlock, lnkerr.ErrNotConnected
	}
	st, err := sender.Send(msg)
	if err != nil {
		dead, _ := p.rr.RemoveLastUsed()
		p.log.WithField("con_name", dead.ID().Name).Warnf("pool: dropping sender after error: %v", err)
		_ = dead.Close()
		p.PoolAccept()
		return st, err
	}
	p.PoolAccept()
	return st, nil
}

// SendBusywaitTimeout spins calling Send until it completes, errors with
// something other than NotConnected, or timeout elapses.
func (p *CltSendersPool[SendT, RecvT]) SendBusywaitTimeout(msg SendT, timeout time.Duration) (status.Send, error) {
	deadline := time.Now().Add(timeout)
	for {
		st, err := p.Send(msg)
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

// SendBusywait spins calling Send forever, hoping a new sender arrives if
// the pool is currently empty.
func (p *CltSendersPool[SendT, RecvT]) SendBusywait(msg SendT) (status.Send, error) {
	for {
		st, err := p.Send(msg)
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
