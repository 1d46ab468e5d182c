// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package callback

import (
	"code.hybscloud.com/link/conid"
	"code.hybscloud.com/link/eventstore"
)

// Store appends every event to an eventstore.Store, letting tests assert
// on ordering and content after the fact via Store.Find.
type Store[SendT, RecvT any] struct {
	Events *eventstore.Store
}

// NewStore returns a Store backed by events.
func NewStore[SendT, RecvT any](events *eventstore.Store) Store[SendT, RecvT] {
	return Store[SendT, RecvT]{Events: events}
}

func (s Store[SendT, RecvT]) OnRecv(id conid.ID, msg *RecvT) {
	s.Events.Append(id, eventstore.DirRecv, *msg)
}

func (s Store[SendT, RecvT]) OnSend(id conid.ID, msg *SendT) {
	s.Events.Append(id, eventstore.DirSend, *msg)
}

func (s Store[SendT, RecvT]) OnSent(id conid.ID, msg *SendT) {
	s.Events.Append(id, eventstore.DirSent, *msg)
}

func (s Store[SendT, RecvT]) OnFail(id conid.ID, msg *SendT, _ error) {
	s.Events.Append(id, eventstore.DirFail, *msg)
}

var _ RecvSend[struct{}, struct{}] = Store[struct{}, struct{}]{}
