// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package message

import (
	"net"
	"testing"
	"time"

	"code.hybscloud.com/link/frame"
)

// textMessenger is a minimal Messenger[string,string] used only to
// exercise MessageRecver/MessageSender plumbing.
type textMessenger struct{}

func (textMessenger) EncodedLen(msg string) int { return len(msg) }

func (textMessenger) Serialize(dst []byte, msg string) (int, error) {
	return copy(dst, msg), nil
}

func (textMessenger) Deserialize(f frame.Frame) (string, error) {
	return string(f), nil
}

func tcpLoopback(t *testing.T) (client, server *net.TCPConn, closeAll func()) {
	t.Helper()
	ln, err := net.ListenTCP("tcp", &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("ListenTCP: %v", err)
	}
	accepted := make(chan *net.TCPConn, 1)
	go func() {
		c, aerr := ln.AcceptTCP()
		if aerr == nil {
			accepted <- c
		}
	}()
	cli, err := net.DialTCP("tcp", nil, ln.Addr().(*net.TCPAddr))
	if err != nil {
		t.Fatalf("DialTCP: %v", err)
	}
	select {
	case server = <-accepted:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for accept")
	}
	_ = ln.Close()
	return cli, server, func() {
		_ = cli.Close()
		_ = server.Close()
	}
}

func TestMessageRoundTrip(t *testing.T) {
	cli, srv, closeAll := tcpLoopback(t)
	defer closeAll()

	lf := frame.NewLengthPrefixFramer()
	sender := NewMessageSender[string](frame.NewFrameWriter(cli), textMessenger{}, lf, 4096)
	recver := NewMessageRecver[string](frame.NewFrameReader(srv, lf, 4096), textMessenger{})

	want := "Hello Frm Client Msg"
	st, err := sender.Send(want)
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if st.IsWouldBlock() {
		t.Fatal("Send unexpectedly would block")
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		rs, rerr := recver.Recv()
		if rerr != nil {
			t.Fatalf("Recv: %v", rerr)
		}
		if got, ok := rs.Value(); ok {
			if got != want {
				t.Fatalf("got %q, want %q", got, want)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for message")
		}
		time.Sleep(time.Millisecond)
	}
}
