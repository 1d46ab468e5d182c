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

// CltsPool is a round-robin pool of unsplit conn.Clt endpoints, fed by an
// inbound admission channel drained lazily via PoolAccept. It is the pool
// an unsplit Svc keeps: Svc.PoolAccept both accepts a connection and feeds
// it here.
type CltsPool[SendT, RecvT any] struct {
	rr  *RoundRobinPool[*conn.Clt[SendT, RecvT]]
	in  chan *conn.Clt[SendT, RecvT]
	log logrus.FieldLogger
}

// NewCltsPool returns an empty pool with room for capacity endpoints. log
// may be nil, in which case logrus.StandardLogger() is used.
func NewCltsPool[SendT, RecvT any](capacity int, log logrus.FieldLogger) *CltsPool[SendT, RecvT] {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CltsPool[SendT, RecvT]{
		rr:  NewRoundRobinPool[*conn.Clt[SendT, RecvT]](capacity),
		in:  make(chan *conn.Clt[SendT, RecvT], capacity),
		log: log,
	}
}

func (p *CltsPool[SendT, RecvT]) Len() int          { return p.rr.Len() }
func (p *CltsPool[SendT, RecvT]) IsEmpty() bool     { return p.rr.IsEmpty() }
func (p *CltsPool[SendT, RecvT]) HasCapacity() bool { return p.rr.HasCapacity() }
func (p *CltsPool[SendT, RecvT]) Capacity() int     { return p.rr.Capacity() }

// Add inserts clt directly, bypassing the admission channel. Used by an
// owner that already holds the Clt on the pool's own goroutine (e.g. a
// caller building a pool by hand, or an unsplit Svc accepting and inserting
// in one step).
func (p *CltsPool[SendT, RecvT]) Add(clt *conn.Clt[SendT, RecvT]) error {
	return p.rr.Add(clt)
}

// Clear drops every endpoint from the pool without closing them.
func (p *CltsPool[SendT, RecvT]) Clear() { p.rr.Clear() }

// Offer attempts a non-blocking send of clt down the admission channel, for
// a producer on a different goroutine than the pool's owner. It reports
// whether the channel accepted it; a full channel means the owner isn't
// draining fast enough and the caller should back off or drop the clt.
func (p *CltsPool[SendT, RecvT]) Offer(clt *conn.Clt[SendT, RecvT]) bool {
	select {
	case p.in <- clt:
		return true
	default:
		return false
	}
}

// PoolAccept drains the admission channel once. A waiting endpoint is
// admitted if capacity permits; at capacity it is dropped, logged, and
// closed.
func (p *CltsPool[SendT, RecvT]) PoolAccept() status.PoolAccept {
	select {
	case clt := <-p.in:
		if err := p.rr.Add(clt); err != nil {
			p.log.WithField("con_name", clt.ID().Name).Warnf("pool: dropping endpoint at capacity: %v", err)
			_ = clt.Close()
			return status.PoolAcceptWouldBlock
		}
		return status.PoolAccepted
	default:
		return status.PoolAcceptWouldBlock
	}
}

// Send round-robins to the next live endpoint and sends msg on it.
// Failure removes the offending endpoint. An empty pool tries one
// PoolAccept before giving up with lnkerr.ErrNotConnected.
func (p *CltsPool[SendT, RecvT]) Send(msg SendT) (status.Send, error) {
	clt, ok := p.rr.RoundRobin()
	if !ok {
		p.PoolAccept()
		if clt, ok = p.rr.RoundRobin(); !ok {
			return status.SendWouldBlock, lnkerr.ErrNotConnected
		}
	}
	st, err := clt.Send(msg)
	if err != nil {
		dead, _ := p.rr.RemoveLastUsed()
		p.log.WithField("con_name", dead.ID().Name).Warnf("pool: dropping endpoint after send error: %v", err)
		_ = dead.Close()
		p.PoolAccept()
		return st, err
	}
	p.PoolAccept()
	return st, nil
}

// Recv round-robins to the next live endpoint and receives from it. A
// clean close evicts the endpoint; an error evicts and propagates it. An
// empty pool tries one PoolAccept before giving up with
// lnkerr.ErrNotConnected.
func (p *CltsPool[SendT, RecvT]) Recv() (status.Recv[RecvT], error) {
	clt, ok := p.rr.RoundRobin()
	if !ok {
		p.PoolAccept()
		if clt, ok = p.rr.RoundRobin(); !ok {
			return status.Recv[RecvT]{}, lnkerr.ErrNotConnected
		}
	}
	st, err := clt.Recv()
	if err != nil {
		dead, _ := p.rr.RemoveLastUsed()
		p.log.WithField("con_name", dead.ID().Name).Warnf("pool: dropping endpoint after recv error: %v", err)
		_ = dead.Close()
		p.PoolAccept()
		return st, err
	}
	if st.IsEOF() {
		dead, _ := p.rr.RemoveLastUsed()
		p.log.WithField("con_name", dead.ID().Name).Info("pool: endpoint closed cleanly, evicting")
		_ = dead.Close()
	}
	p.PoolAccept()
	return st, nil
}

// SendBusywaitTimeout spins calling Send until it returns Completed, a
// non-NotConnected error, or timeout elapses. Unlike Send, NotConnected is
// transient here: a new endpoint may be admitted mid-wait.
func (p *CltsPool[SendT, RecvT]) SendBusywaitTimeout(msg SendT, timeout time.Duration) (status.Send, error) {
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

// SendBusywait spins calling Send forever until it returns Completed or a
// non-NotConnected error.
func (p *CltsPool[SendT, RecvT]) SendBusywait(msg SendT) (status.Send, error) {
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

// RecvBusywaitTimeout is Send's receive-side mirror of SendBusywaitTimeout.
func (p *CltsPool[SendT, RecvT]) RecvBusywaitTimeout(timeout time.Duration) (status.Recv[RecvT], error) {
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

// RecvBusywait spins calling Recv forever until it returns Completed or a
// non-NotConnected error.
func (p *CltsPool[SendT, RecvT]) RecvBusywait() (status.Recv[RecvT], error) {
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
