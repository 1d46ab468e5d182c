// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package soupbintcp_test

import (
	"testing"
	"time"

	"code.hybscloud.com/link/callback"
	"code.hybscloud.com/link/conn"
	"code.hybscloud.com/link/protocols/soupbintcp"
	"code.hybscloud.com/link/svc"
)

func roundtrip(t *testing.T, msg soupbintcp.Packet) soupbintcp.Packet {
	t.Helper()
	var m soupbintcp.Messenger
	buf := make([]byte, m.EncodedLen(msg))
	n, err := m.Serialize(buf, msg)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	out, err := m.Deserialize(buf[:n])
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	return out
}

func TestMessengerRoundTripsLoginRequest(t *testing.T) {
	in := soupbintcp.LoginRequest("alice", "s3cr3t", "sess01", "1")
	out := roundtrip(t, in)
	if out.Type != soupbintcp.PacketLoginRequest || out.Username != "alice" || out.Password != "s3cr3t" ||
		out.RequestedSession != "sess01" || out.RequestedSeqNum != "1" {
		t.Fatalf("got %+v", out)
	}
}

func TestMessengerRoundTripsLoginAccepted(t *testing.T) {
	out := roundtrip(t, soupbintcp.LoginAccepted("sess01", "42"))
	if out.Type != soupbintcp.PacketLoginAccepted || out.Session != "sess01" || out.SeqNum != "42" {
		t.Fatalf("got %+v", out)
	}
}

func TestMessengerRoundTripsLoginRejected(t *testing.T) {
	out := roundtrip(t, soupbintcp.LoginRejected(soupbintcp.RejectNotAuthorized))
	if out.Type != soupbintcp.PacketLoginRejected || out.Reject != soupbintcp.RejectNotAuthorized {
		t.Fatalf("got %+v", out)
	}
}

func TestMessengerRoundTripsSequencedData(t *testing.T) {
	out := roundtrip(t, soupbintcp.SequencedData([]byte("hello world")))
	if out.Type != soupbintcp.PacketSequencedData || string(out.Payload) != "hello world" {
		t.Fatalf("got %+v", out)
	}
}

func TestMessengerRoundTripsHeartbeatsAndSessionEnders(t *testing.T) {
	for _, in := range []soupbintcp.Packet{
		soupbintcp.ServerHeartbeat(),
		soupbintcp.ClientHeartbeat(),
		soupbintcp.LogoutRequest(),
		soupbintcp.EndOfSession(),
	} {
		out := roundtrip(t, in)
		if out.Type != in.Type {
			t.Fatalf("got %+v, want type %v", out, in.Type)
		}
	}
}

func bindSoupSvc(t *testing.T, authorize soupbintcp.Authorize) *svc.Svc[soupbintcp.Packet, soupbintcp.Packet] {
	t.Helper()
	s, err := svc.Bind[soupbintcp.Packet, soupbintcp.Packet](
		"127.0.0.1:0", "soupbin-svc",
		soupbintcp.Framer{}, soupbintcp.Framer{},
		soupbintcp.Messenger{}, callback.DevNull[soupbintcp.Packet, soupbintcp.Packet]{},
		&soupbintcp.SvcProtocol{Authorize: authorize},
		4096, 4, nil,
	)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// driveSvc continuously accepts and services the server side of a
// handshake (PoolAccept admits the raw socket; Recv is what actually reads
// the LoginRequest bytes and fires SvcProtocol.OnRecv's auto-reply) until
// stop is closed. The client's login handshake runs synchronously inside
// conn.Connect, so something must be pumping the server side concurrently
// or the client would block forever waiting for a reply.
func driveSvc(t *testing.T, s *svc.Svc[soupbintcp.Packet, soupbintcp.Packet], stop <-chan struct{}) {
	t.Helper()
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
			}
			if s.Len() == 0 {
				_, _ = s.PoolAccept()
			} else {
				_, _ = s.Recv()
			}
			time.Sleep(time.Millisecond)
		}
	}()
}

func TestLoginHandshakeAcceptsValidCredentials(t *testing.T) {
	s := bindSoupSvc(t, func(username, password string) (string, string, bool) {
		if username == "alice" && password == "s3cr3t" {
			return "sess01", "1", true
		}
		return "", "", false
	})
	stop := make(chan struct{})
	t.Cleanup(func() { close(stop) })
	driveSvc(t, s, stop)

	clt := &soupbintcp.CltProtocol{Username: "alice", Password: "s3cr3t", RequestedSession: "sess01", RequestedSeqNum: "1", LoginTimeout: 2 * time.Second}
	c, err := conn.Connect[soupbintcp.Packet, soupbintcp.Packet](
		s.ID().Local.String(), 2*time.Second, 20*time.Millisecond,
		soupbintcp.Framer{}, soupbintcp.Framer{},
		soupbintcp.Messenger{}, callback.DevNull[soupbintcp.Packet, soupbintcp.Packet]{},
		clt, "soupbin-clt", 4096,
	)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer c.Close()

	if clt.Session != "sess01" || clt.SeqNum != "1" {
		t.Fatalf("got session=%q seqNum=%q, want sess01/1", clt.Session, clt.SeqNum)
	}
}

func TestLoginHandshakeRejectsInvalidCredentials(t *testing.T) {
	s := bindSoupSvc(t, func(string, string) (string, string, bool) { return "", "", false })
	stop := make(chan struct{})
	t.Cleanup(func() { close(stop) })
	driveSvc(t, s, stop)

	clt := &soupbintcp.CltProtocol{Username: "mallory", Password: "wrong", LoginTimeout: 2 * time.Second}
	_, err := conn.Connect[soupbintcp.Packet, soupbintcp.Packet](
		s.ID().Local.String(), 2*time.Second, 20*time.Millisecond,
		soupbintcp.Framer{}, soupbintcp.Framer{},
		soupbintcp.Messenger{}, callback.DevNull[soupbintcp.Packet, soupbintcp.Packet]{},
		clt, "soupbin-clt", 4096,
	)
	if err == nil {
		t.Fatal("expected Connect to fail on login rejection")
	}
}
