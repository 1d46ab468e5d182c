// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package reactor

import (
	"sync"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"code.hybscloud.com/link/status"
)

// PollHandler is a single-threaded readiness reactor: a selector, an events
// buffer, and a slab of registered items keyed by the token their add
// returned. It owns nothing callers can reach; New is typically followed by
// Add calls and then Spawn, which dedicates a goroutine to the dispatch
// loop.
type PollHandler struct {
	mu     sync.Mutex
	poller poller
	items  map[uint64]item
	log    logrus.FieldLogger
	stopCh chan struct{}
	once   sync.Once
}

// New builds a PollHandler with an OS-appropriate selector: epoll on Linux,
// a portable spin fallback elsewhere. log may be nil, in which case
// logrus.StandardLogger() is used.
func New(log logrus.FieldLogger) (*PollHandler, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	p, err := newPoller()
	if err != nil {
		return nil, err
	}
	return &PollHandler{
		poller: p,
		items:  make(map[uint64]item),
		log:    log,
		stopCh: make(chan struct{}),
	}, nil
}

// Add registers a PollAccept. On its acceptor's readable event, the
// reactor accepts one connection and inserts the resulting PollRecv into
// its own slab.
func (h *PollHandler) Add(acceptor PollAccept) error {
	return h.addItem(item{kind: kindAcceptor, acceptor: acceptor}, acceptor.RawListener())
}

// AddRecv registers a standalone PollRecv directly, for a caller that
// already holds a receiver rather than an acceptor that yields one.
func (h *PollHandler) AddRecv(recver PollRecv) error {
	return h.addItem(item{kind: kindRecver, recver: recver}, recver.RawConn())
}

func (h *PollHandler) addItem(it item, sc syscall.Conn) error {
	tok, err := h.poller.add(sc)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.items[tok] = it
	h.mu.Unlock()
	return nil
}

// Len reports how many items are currently registered.
func (h *PollHandler) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.items)
}

// Spawn dedicates a goroutine to the dispatch loop. A fatal selector error
// (anything but one that the loop already treats as transient) panics the
// goroutine, since there is no caller left on the stack to return it to.
func (h *PollHandler) Spawn(name string) {
	go func() {
		if err := h.Run(); err != nil {
			h.log.WithField("reactor", name).Panicf("link: reactor: fatal: %v", err)
		}
	}()
}

// Go registers the dispatch loop with eg instead of a bare goroutine, for
// a caller orchestrating several components (more than one PollHandler, or
// a reactor alongside a separately-threaded pool consumer) that wants one
// place to Wait on and propagate every goroutine's error.
func (h *PollHandler) Go(eg *errgroup.Group) {
	eg.Go(h.Run)
}

// Stop signals Run to return after its current wait call. Safe to call
// more than once.
func (h *PollHandler) Stop() {
	h.once.Do(func() { close(h.stopCh) })
}

// Run executes the dispatch loop until Stop is called or the selector
// reports a non-transient error. It blocks the calling goroutine; Spawn
// wraps it for the common case of a dedicated reactor goroutine.
func (h *PollHandler) Run() error {
	defer h.poller.close()

	events := make([]pollEvent, 128)
	for {
		select {
		case <-h.stopCh:
			return nil
		default:
		}

		n, err := h.poller.wait(events, 1000)
		if err != nil {
			if err == errPollInterrupted {
				continue
			}
			return err
		}

		if h.dispatch(events[:n]) {
			// Level-triggered re-read: a socket that delivered a
			// multi-frame burst may still have more buffered even
			// though its single readiness event was already consumed.
			if n2, err := h.poller.wait(events, 0); err == nil && n2 > 0 {
				h.dispatch(events[:n2])
			}
		}
	}
}

func (h *PollHandler) dispatch(events []pollEvent) bool {
	progressed := false

	h.mu.Lock()
	snapshot := make(map[uint64]item, len(events))
	for _, ev := range events {
		if it, ok := h.items[ev.token]; ok {
			snapshot[ev.token] = it
		}
	}
	h.mu.Unlock()

	for _, ev := range events {
		it, ok := snapshot[ev.token]
		if !ok {
			continue // removed earlier this pass
		}
		switch it.kind {
		case kindRecver:
			if h.serviceRecver(ev.token, it.recver) {
				progressed = true
			}
		case kindAcceptor:
			if h.serviceAcceptor(ev.token, it.acceptor) {
				progressed = true
			}
		}
	}
	return progressed
}

func (h *PollHandler) serviceRecver(token uint64, recver PollRecv) bool {
	ev, err := recver.OnReadableEvent()
	if err != nil {
		h.log.Warnf("link: reactor: recver error, deregistering: %v", err)
		h.remove(token)
		return false
	}
	switch ev {
	case status.PollCompleted:
		return true
	case status.PollTerminate:
		h.remove(token)
	}
	return false
}

func (h *PollHandler) serviceAcceptor(token uint64, acceptor PollAccept) bool {
	recver, ok, err := acceptor.PollAccept()
	if err != nil {
		h.log.Warnf("link: reactor: acceptor error, deregistering: %v", err)
		h.remove(token)
		return false
	}
	if !ok {
		return false
	}
	if err := h.AddRecv(recver); err != nil {
		h.log.Warnf("link: reactor: failed to register accepted recver: %v", err)
		return false
	}
	return true
}

func (h *PollHandler) remove(token uint64) {
	h.mu.Lock()
	_, ok := h.items[token]
	delete(h.items, token)
	h.mu.Unlock()
	if ok {
		_ = h.poller.remove(token)
	}
}
