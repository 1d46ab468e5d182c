// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package conid identifies one TCP endpoint for the lifetime of a
// connection. An ID is the key callbacks, logs, and the event store use to
// correlate events with the connection that produced them.
package conid

import (
	"fmt"
	"net"
)

// Role distinguishes a client-side endpoint from a server-accepted one.
type Role uint8

const (
	RoleClt Role = iota
	RoleSvc
)

func (r Role) String() string {
	if r == RoleSvc {
		return "Svc"
	}
	return "Clt"
}

// ID is a connection's identity: a short logical name plus the local and
// peer addresses. Local and Peer are nil until the socket is bound,
// accepted, or connected; once populated they are immutable for the life
// of the connection.
type ID struct {
	Name  string
	Role  Role
	Local net.Addr
	Peer  net.Addr
}

func (id ID) String() string {
	local, peer := "?", "?"
	if id.Local != nil {
		local = id.Local.String()
	}
	if id.Peer != nil {
		peer = id.Peer.String()
	}
	return fmt.Sprintf("%s{name:%s, local:%s, peer:%s}", id.Role, id.Name, local, peer)
}
