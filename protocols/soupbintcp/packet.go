// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package soupbintcp is a trimmed SoupBinTCP-like Messenger and Protocol:
// a session-layer login handshake and heartbeat auto-reply over the
// generic message/conn machinery, fielding the packet types a SoupBinTCP
// session actually exchanges rather than this module's general-purpose
// framing.
package soupbintcp

import "code.hybscloud.com/link/lnkerr"

// PacketType is the 1-byte tag every packet leads with on the wire.
type PacketType byte

const (
	PacketLoginRequest    PacketType = 'L'
	PacketLoginAccepted   PacketType = 'A'
	PacketLoginRejected   PacketType = 'J'
	PacketSequencedData   PacketType = 'S'
	PacketServerHeartbeat PacketType = 'H'
	PacketClientHeartbeat PacketType = 'R'
	PacketLogoutRequest   PacketType = 'O'
	PacketEndOfSession    PacketType = 'Z'
)

func (t PacketType) String() string {
	switch t {
	case PacketLoginRequest:
		return "LoginRequest"
	case PacketLoginAccepted:
		return "LoginAccepted"
	case PacketLoginRejected:
		return "LoginRejected"
	case PacketSequencedData:
		return "SequencedData"
	case PacketServerHeartbeat:
		return "ServerHeartbeat"
	case PacketClientHeartbeat:
		return "ClientHeartbeat"
	case PacketLogoutRequest:
		return "LogoutRequest"
	case PacketEndOfSession:
		return "EndOfSession"
	default:
		return "Unknown"
	}
}

// RejectReason is LoginRejected's single payload byte.
type RejectReason byte

const (
	RejectNotAuthorized       RejectReason = 'A'
	RejectSessionNotAvailable RejectReason = 'S'
)

// Fixed field widths, space-padded on the wire, matching SoupBinTCP 3.0's
// alphanumeric (left-justified, space-filled) convention.
const (
	usernameLen = 6
	passwordLen = 10
	sessionLen  = 10
	seqNumLen   = 20
)

// Packet is one SoupBinTCP session-layer message. Only the fields that
// belong to Type are meaningful; Deserialize populates just those.
type Packet struct {
	Type PacketType

	// LoginRequest
	Username         string
	Password         string
	RequestedSession string
	RequestedSeqNum  string

	// LoginAccepted
	Session string
	SeqNum  string

	// LoginRejected
	Reject RejectReason

	// SequencedData
	Payload []byte
}

func LoginRequest(username, password, session, seqNum string) Packet {
	return Packet{Type: PacketLoginRequest, Username: username, Password: password, RequestedSession: session, RequestedSeqNum: seqNum}
}

func LoginAccepted(session, seqNum string) Packet {
	return Packet{Type: PacketLoginAccepted, Session: session, SeqNum: seqNum}
}

func LoginRejected(reason RejectReason) Packet {
	return Packet{Type: PacketLoginRejected, Reject: reason}
}

func SequencedData(payload []byte) Packet {
	return Packet{Type: PacketSequencedData, Payload: payload}
}

func ServerHeartbeat() Packet { return Packet{Type: PacketServerHeartbeat} }
func ClientHeartbeat() Packet { return Packet{Type: PacketClientHeartbeat} }
func LogoutRequest() Packet   { return Packet{Type: PacketLogoutRequest} }
func EndOfSession() Packet    { return Packet{Type: PacketEndOfSession} }

func padTrunc(s string, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = ' '
	}
	copy(out, s)
	if len(s) > n {
		copy(out, s[:n])
	}
	return out
}

func trimPad(b []byte) string {
	i := len(b)
	for i > 0 && b[i-1] == ' ' {
		i--
	}
	return string(b[:i])
}

var errUnknownPacketType = lnkerr.ErrInvalidArgument
