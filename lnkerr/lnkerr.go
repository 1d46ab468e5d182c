// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package lnkerr defines the error kinds surfaced by this module and a
// single wrapping type that attaches the connection identity and the
// operation name that failed, so callers can errors.Is against a sentinel
// while logs and callbacks still see the connection it happened on.
package lnkerr

import (
	"errors"
	"fmt"

	"code.hybscloud.com/link/conid"
)

var (
	// ErrConnectionReset reports that the peer dropped the connection mid-frame,
	// or that a write observed a zero-byte result with bytes still remaining.
	ErrConnectionReset = errors.New("link: connection reset")

	// ErrBrokenPipe reports that the local half was already shut down, usually
	// because the paired half was dropped.
	ErrBrokenPipe = errors.New("link: broken pipe")

	// ErrNotConnected reports that a pool had no live endpoint and its inbound
	// channel yielded nothing. Transient inside a busywait call, final
	// otherwise.
	ErrNotConnected = errors.New("link: not connected")

	// ErrTimedOut reports that a connect budget was exhausted before the
	// connection (and any protocol handshake) completed.
	ErrTimedOut = errors.New("link: timed out")

	// ErrChannelClosed reports that an acceptor could not publish a new
	// endpoint because a pool's admission channel did not take it (the
	// non-blocking offer found the channel full). Fatal for the acceptor.
	ErrChannelClosed = errors.New("link: channel closed")

	// ErrOutOfMemory reports that a RoundRobinPool was at capacity on Add.
	ErrOutOfMemory = errors.New("link: out of memory")

	// ErrTooLong reports that a frame length exceeds a configured limit or the
	// wire format's maximum representable length.
	ErrTooLong = errors.New("link: message too long")

	// ErrInvalidArgument reports a nil or otherwise invalid constructor argument.
	ErrInvalidArgument = errors.New("link: invalid argument")
)

// Error wraps a sentinel with the connection identity and operation name
// that observed it. It implements Unwrap so errors.Is/As see through to
// the sentinel.
type Error struct {
	ConID conid.ID
	Op    string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("link: %s: %s: %v", e.ConID, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap attaches con and op to err. Wrap(id, op, nil) returns nil.
func Wrap(id conid.ID, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{ConID: id, Op: op, Err: err}
}
