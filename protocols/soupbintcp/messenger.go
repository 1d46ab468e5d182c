// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package soupbintcp

import "code.hybscloud.com/link/frame"

// Messenger (de)serializes Packet values, shared by both the client and
// server side of a session since a SoupBinTCP connection's two directions
// exchange the same packet vocabulary at different points in the
// handshake and data phase.
type Messenger struct{}

// EncodedLen returns the unframed payload length (the 1-byte type tag
// plus msg's fixed fields or data) MessageSender must reserve.
func (Messenger) EncodedLen(msg Packet) int {
	switch msg.Type {
	case PacketLoginRequest:
		return 1 + usernameLen + passwordLen + sessionLen + seqNumLen
	case PacketLoginAccepted:
		return 1 + sessionLen + seqNumLen
	case PacketLoginRejected:
		return 1 + 1
	case PacketSequencedData:
		return 1 + len(msg.Payload)
	default: // heartbeats, logout, end of session: tag only
		return 1
	}
}

// Serialize writes msg's wire representation (without any frame header)
// into dst.
func (Messenger) Serialize(dst []byte, msg Packet) (int, error) {
	dst[0] = byte(msg.Type)
	switch msg.Type {
	case PacketLoginRequest:
		n := 1
		n += copy(dst[n:], padTrunc(msg.Username, usernameLen))
		n += copy(dst[n:], padTrunc(msg.Password, passwordLen))
		n += copy(dst[n:], padTrunc(msg.RequestedSession, sessionLen))
		n += copy(dst[n:], padTrunc(msg.RequestedSeqNum, seqNumLen))
		return n, nil
	case PacketLoginAccepted:
		n := 1
		n += copy(dst[n:], padTrunc(msg.Session, sessionLen))
		n += copy(dst[n:], padTrunc(msg.SeqNum, seqNumLen))
		return n, nil
	case PacketLoginRejected:
		dst[1] = byte(msg.Reject)
		return 2, nil
	case PacketSequencedData:
		return 1 + copy(dst[1:], msg.Payload), nil
	case PacketServerHeartbeat, PacketClientHeartbeat, PacketLogoutRequest, PacketEndOfSession:
		return 1, nil
	default:
		return 0, errUnknownPacketType
	}
}

// Deserialize turns one complete frame back into a Packet.
func (Messenger) Deserialize(f frame.Frame) (Packet, error) {
	if len(f) < 1 {
		return Packet{}, errUnknownPacketType
	}
	t := PacketType(f[0])
	body := f[1:]
	switch t {
	case PacketLoginRequest:
		if len(body) < usernameLen+passwordLen+sessionLen+seqNumLen {
			return Packet{}, errUnknownPacketType
		}
		o := 0
		username := trimPad(body[o : o+usernameLen])
		o += usernameLen
		password := trimPad(body[o : o+passwordLen])
		o += passwordLen
		session := trimPad(body[o : o+sessionLen])
		o += sessionLen
		seqNum := trimPad(body[o : o+seqNumLen])
		return LoginRequest(username, password, session, seqNum), nil
	case PacketLoginAccepted:
		if len(body) < sessionLen+seqNumLen {
			return Packet{}, errUnknownPacketType
		}
		session := trimPad(body[:sessionLen])
		seqNum := trimPad(body[sessionLen : sessionLen+seqNumLen])
		return LoginAccepted(session, seqNum), nil
	case PacketLoginRejected:
		if len(body) < 1 {
			return Packet{}, errUnknownPacketType
		}
		return LoginRejected(RejectReason(body[0])), nil
	case PacketSequencedData:
		payload := make([]byte, len(body))
		copy(payload, body)
		return SequencedData(payload), nil
	case PacketServerHeartbeat:
		return ServerHeartbeat(), nil
	case PacketClientHeartbeat:
		return ClientHeartbeat(), nil
	case PacketLogoutRequest:
		return LogoutRequest(), nil
	case PacketEndOfSession:
		return EndOfSession(), nil
	default:
		return Packet{}, errUnknownPacketType
	}
}
