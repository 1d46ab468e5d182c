// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package reactor

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// epollPoller is the Linux readiness selector. Tokens are the registered
// file descriptor itself: epoll's event data carries it back on wait,
// there is no need for a separate token allocator.
type epollPoller struct {
	epfd int
}

func newPoller() (poller, error) {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	return &epollPoller{epfd: fd}, nil
}

func rawFd(sc syscall.Conn) (int, error) {
	rc, err := sc.SyscallConn()
	if err != nil {
		return 0, err
	}
	var fd int
	if err := rc.Control(func(p uintptr) { fd = int(p) }); err != nil {
		return 0, err
	}
	return fd, nil
}

func (p *epollPoller) add(sc syscall.Conn) (uint64, error) {
	fd, err := rawFd(sc)
	if err != nil {
		return 0, err
	}
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
	if err := unix.EpollCtl(p.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return 0, err
	}
	return uint64(fd), nil
}

func (p *epollPoller) remove(token uint64) error {
	fd := int(token)
	return unix.EpollCtl(p.epfd, unix.EPOLL_CTL_DEL, fd, nil)
}

func (p *epollPoller) wait(buf []pollEvent, timeoutMillis int) (int, error) {
	raw := make([]unix.EpollEvent, len(buf))
	n, err := unix.EpollWait(p.epfd, raw, timeoutMillis)
	if err != nil {
		if err == unix.EINTR {
			return 0, errPollInterrupted
		}
		return 0, err
	}
	for i := 0; i < n; i++ {
		buf[i] = pollEvent{token: uint64(raw[i].Fd)}
	}
	return n, nil
}

func (p *epollPoller) close() error { return unix.Close(p.epfd) }
