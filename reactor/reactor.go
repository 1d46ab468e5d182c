// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package reactor is a single-threaded, readiness-driven dispatcher over a
// heterogeneous set of acceptors and receivers. It services many
// connections from one goroutine by polling a single readiness selector
// instead of blocking in a read or accept call per connection.
package reactor

import (
	"errors"
	"net"

	"code.hybscloud.com/link/status"
)

// PollRecv is a readiness-driven receiver: an event source plus a hook
// serviced once per readable notification. conn.CltRecver and conn.Clt both
// satisfy this interface without importing this package.
type PollRecv interface {
	RawConn() *net.TCPConn
	OnReadableEvent() (status.PollEvent, error)
}

// PollAccept is a readiness-driven acceptor: a listening socket that, on
// readable event, yields at most one new PollRecv for the reactor to
// register in its own slab. svc.PoolAcceptor satisfies this interface via
// its PollAccept/RawListener methods.
type PollAccept interface {
	RawListener() *net.TCPListener
	PollAccept() (PollRecv, bool, error)
}

var errPollInterrupted = errors.New("link: reactor: poll interrupted")

type itemKind uint8

const (
	kindRecver itemKind = iota
	kindAcceptor
)

type item struct {
	kind     itemKind
	recver   PollRecv
	acceptor PollAccept
}

type pollEvent struct {
	token uint64
}
