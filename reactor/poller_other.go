// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !linux

package reactor

import (
	"sync"
	"syscall"
	"time"
)

// spinPoller is the portable fallback selector for platforms without an
// epoll binding in golang.org/x/sys/unix. It has no real readiness
// multiplexing: wait reports every currently-registered token as
// "readable" on each call, relying on the non-blocking deadline trick
// every PollRecv/PollAccept already uses internally to make an
// unnecessary poll a cheap WouldBlock rather than a real syscall block.
// Fairness across more tokens than one wait's buffer holds is not
// guaranteed within a single call, only across repeated calls.
type spinPoller struct {
	mu     sync.Mutex
	next   uint64
	tokens map[uint64]struct{}
}

func newPoller() (poller, error) {
	return &spinPoller{tokens: make(map[uint64]struct{})}, nil
}

func (p *spinPoller) add(_ syscall.Conn) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	tok := p.next
	p.next++
	p.tokens[tok] = struct{}{}
	return tok, nil
}

func (p *spinPoller) remove(token uint64) error {
	p.mu.Lock()
	delete(p.tokens, token)
	p.mu.Unlock()
	return nil
}

func (p *spinPoller) wait(buf []pollEvent, timeoutMillis int) (int, error) {
	p.mu.Lock()
	n := 0
	for tok := range p.tokens {
		if n >= len(buf) {
			break
		}
		buf[n] = pollEvent{token: tok}
		n++
	}
	p.mu.Unlock()

	if n == 0 && timeoutMillis > 0 {
		time.Sleep(time.Duration(timeoutMillis) * time.Millisecond)
	}
	return n, nil
}

func (p *spinPoller) close() error { return nil }
