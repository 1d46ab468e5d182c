// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package svc_test

import (
	"testing"
	"time"

	"code.hybscloud.com/link/callback"
	"code.hybscloud.com/link/conn"
	"code.hybscloud.com/link/frame"
	"code.hybscloud.com/link/svc"
)

type echoMessenger struct{}

func (echoMessenger) EncodedLen(msg string) int { return len(msg) }
func (echoMessenger) Serialize(dst []byte, msg string) (int, error) {
	return copy(dst, msg), nil
}
func (echoMessenger) Deserialize(f frame.Frame) (string, error) { return string(f), nil }

func bindEchoSvc(t *testing.T, maxConnections int) *svc.Svc[string, string] {
	t.Helper()
	s, err := svc.Bind[string, string](
		"127.0.0.1:0", "echo-svc",
		frame.NewLengthPrefixFramer(), frame.NewLengthPrefixFramer(),
		echoMessenger{}, callback.DevNull[string, string]{}, nil,
		256, maxConnections, nil,
	)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSvcPoolAcceptAdmitsNewConnection(t *testing.T) {
	s := bindEchoSvc(t, 4)

	clt, err := conn.Connect[string, string](
		s.ID().Local.String(), 2*time.Second, 20*time.Millisecond,
		frame.NewLengthPrefixFramer(), frame.NewLengthPrefixFramer(),
		echoMessenger{}, callback.DevNull[string, string]{}, nil, "echo-clt", 256,
	)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer clt.Close()

	deadline := time.Now().Add(time.Second)
	for s.Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for PoolAccept to admit the connection")
		}
		if _, err := s.PoolAccept(); err != nil {
			t.Fatalf("PoolAccept: %v", err)
		}
		time.Sleep(time.Millisecond)
	}

	if _, err := clt.Send("ping"); err != nil {
		t.Fatalf("clt.Send: %v", err)
	}

	deadline = time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		st, err := s.Recv()
		if err != nil {
			t.Fatalf("Recv: %v", err)
		}
		if v, ok := st.Value(); ok {
			if v != "ping" {
				t.Fatalf("expected ping, got %q", v)
			}
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for pooled recv")
}

func TestSvcAcceptBypassesPool(t *testing.T) {
	s := bindEchoSvc(t, 4)

	clt, err := conn.Connect[string, string](
		s.ID().Local.String(), 2*time.Second, 20*time.Millisecond,
		frame.NewLengthPrefixFramer(), frame.NewLengthPrefixFramer(),
		echoMessenger{}, callback.DevNull[string, string]{}, nil, "echo-clt", 256,
	)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer clt.Close()

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		st, err := s.Accept()
		if err != nil {
			t.Fatalf("Accept: %v", err)
		}
		if accepted, ok := st.Value(); ok {
			defer accepted.Close()
			if s.Len() != 0 {
				t.Fatal("Accept must not touch the pool")
			}
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for Accept")
}

func TestSvcSplitFeedsIndependentPools(t *testing.T) {
	s := bindEchoSvc(t, 4)
	acceptor, recvers, senders := s.Split()
	defer acceptor.Close()

	clt, err := conn.Connect[string, string](
		s.ID().Local.String(), 2*time.Second, 20*time.Millisecond,
		frame.NewLengthPrefixFramer(), frame.NewLengthPrefixFramer(),
		echoMessenger{}, callback.DevNull[string, string]{}, nil, "echo-clt", 256,
	)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer clt.Close()

	deadline := time.Now().Add(time.Second)
	for recvers.Len() == 0 || senders.Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for PoolAccept to admit both halves")
		}
		if _, err := acceptor.PoolAccept(); err != nil {
			t.Fatalf("PoolAccept: %v", err)
		}
		// The acceptor only offers halves to the admission channels; each
		// pool admits them on its own PoolAccept.
		recvers.PoolAccept()
		senders.PoolAccept()
		time.Sleep(time.Millisecond)
	}

	if _, err := clt.Send("split-ping"); err != nil {
		t.Fatalf("clt.Send: %v", err)
	}

	deadline = time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		st, err := recvers.Recv()
		if err != nil {
			t.Fatalf("Recv: %v", err)
		}
		if v, ok := st.Value(); ok {
			if v != "split-ping" {
				t.Fatalf("expected split-ping, got %q", v)
			}
			if _, err := senders.Send("split-pong"); err != nil {
				t.Fatalf("senders.Send: %v", err)
			}
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for pooled recv on the split recver pool")
}
