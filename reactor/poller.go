// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package reactor

import "syscall"

// poller is the readiness-selector abstraction a PollHandler drives. add
// assigns and returns the token future wait calls report readiness under;
// remove deregisters it. wait blocks for at most timeoutMillis (0 means
// return immediately, negative means block indefinitely) and reports how
// many of buf it filled.
type poller interface {
	add(sc syscall.Conn) (token uint64, err error)
	remove(token uint64) error
	wait(buf []pollEvent, timeoutMillis int) (int, error)
	close() error
}
