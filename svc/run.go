// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package svc

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// RunAcceptLoop drives acceptor.PoolAccept in a loop on a goroutine managed
// by eg, sleeping idle between empty polls, until ctx is canceled. This is
// the usual way to run the PoolAcceptor handle Svc.Split returns on its own
// thread, independent of whatever threads drain the recvers/senders pools.
func RunAcceptLoop[SendT, RecvT any](ctx context.Context, eg *errgroup.Group, acceptor *PoolAcceptor[SendT, RecvT], idle time.Duration) {
	eg.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			st, err := acceptor.PoolAccept()
			if err != nil {
				return err
			}
			if st.IsWouldBlock() {
				time.Sleep(idle)
			}
		}
	})
}
