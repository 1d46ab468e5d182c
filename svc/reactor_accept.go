// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package svc

import "code.hybscloud.com/link/reactor"

// PollAccept services one readiness notification on the listening socket
// for a reactor.PollHandler: at most one connection is accepted, its
// sender half is offered to the senders pool, and its recver half is
// returned directly so the reactor can insert it into its own slab as a
// new PollRecv, exactly as AcceptRecver does.
func (a *PoolAcceptor[SendT, RecvT]) PollAccept() (reactor.PollRecv, bool, error) {
	st, err := a.AcceptRecver()
	if err != nil {
		return nil, false, err
	}
	recver, ok := st.Value()
	if !ok {
		return nil, false, nil
	}
	return recver, true, nil
}
