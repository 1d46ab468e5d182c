// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package callback

import "code.hybscloud.com/link/conid"

// Chain fans a single event out to an ordered list of callbacks, invoked
// in list order.
type Chain[SendT, RecvT any] []RecvSend[SendT, RecvT]

func (c Chain[SendT, RecvT]) OnRecv(id conid.ID, msg *RecvT) {
	for _, cb := range c {
		cb.OnRecv(id, msg)
	}
}

func (c Chain[SendT, RecvT]) OnSend(id conid.ID, msg *SendT) {
	for _, cb := range c {
		cb.OnSend(id, msg)
	}
}

func (c Chain[SendT, RecvT]) OnSent(id conid.ID, msg *SendT) {
	for _, cb := range c {
		cb.OnSent(id, msg)
	}
}

func (c Chain[SendT, RecvT]) OnFail(id conid.ID, msg *SendT, err error) {
	for _, cb := range c {
		cb.OnFail(id, msg, err)
	}
}

var _ RecvSend[struct{}, struct{}] = Chain[struct{}, struct{}]{}
