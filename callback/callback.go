// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package callback defines the observer hooks a Clt or pool endpoint
// invokes around every received and sent message, plus the supplied
// implementations: DevNull, Logger, Counter, Chain, and Store.
//
// Contract: for any message handed to Send, exactly one of OnSent or
// OnFail is observed, always preceded by exactly one OnSend. For any
// received message, OnRecv is observed exactly once before the caller's
// Recv returns it.
package callback

import "code.hybscloud.com/link/conid"

// Recv observes received messages.
type Recv[RecvT any] interface {
	OnRecv(id conid.ID, msg *RecvT)
}

// Send observes outgoing messages. OnSend runs before serialization and
// may mutate msg (e.g. stamp a sequence number); OnSent runs after a
// successful write; OnFail runs after WouldBlock or any write error.
type Send[SendT any] interface {
	OnSend(id conid.ID, msg *SendT)
	OnSent(id conid.ID, msg *SendT)
	OnFail(id conid.ID, msg *SendT, err error)
}

// RecvSend is the union used by a Clt that both sends and receives.
type RecvSend[SendT, RecvT any] interface {
	Recv[RecvT]
	Send[SendT]
}
