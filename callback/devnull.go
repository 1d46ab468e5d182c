// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package callback

import "code.hybscloud.com/link/conid"

// DevNull discards every event. It is the zero-cost default when a caller
// has no need to observe traffic.
type DevNull[SendT, RecvT any] struct{}

func (DevNull[SendT, RecvT]) OnRecv(conid.ID, *RecvT)             {}
func (DevNull[SendT, RecvT]) OnSend(conid.ID, *SendT)             {}
func (DevNull[SendT, RecvT]) OnSent(conid.ID, *SendT)             {}
func (DevNull[SendT, RecvT]) OnFail(conid.ID, *SendT, error)      {}

var _ RecvSend[struct{}, struct{}] = DevNull[struct{}, struct{}]{}
