// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pool_test

import (
	"errors"
	"net"
	"testing"
	"time"

	"code.hybscloud.com/link/callback"
	"code.hybscloud.com/link/conn"
	"code.hybscloud.com/link/frame"
	"code.hybscloud.com/link/lnkerr"
	"code.hybscloud.com/link/pool"
)

type echoMessenger struct{}

func (echoMessenger) EncodedLen(msg string) int { return len(msg) }
func (echoMessenger) Serialize(dst []byte, msg string) (int, error) {
	return copy(dst, msg), nil
}
func (echoMessenger) Deserialize(f frame.Frame) (string, error) { return string(f), nil }

func dialPair(t *testing.T, name string) (*conn.Clt[string, string], *conn.Clt[string, string]) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	accepted := make(chan *net.TCPConn, 1)
	go func() {
		c, err := ln.Accept()
		_ = ln.Close()
		if err == nil {
			accepted <- c.(*net.TCPConn)
		}
	}()

	clt, err := conn.Connect[string, string](
		ln.Addr().String(), 2*time.Second, 20*time.Millisecond,
		frame.NewLengthPrefixFramer(), frame.NewLengthPrefixFramer(),
		echoMessenger{}, callback.DevNull[string, string]{}, nil, name+"-clt", 256,
	)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	svcConn := <-accepted
	svcClt, err := conn.NewAccepted[string, string](
		svcConn, name+"-svc",
		frame.NewLengthPrefixFramer(), frame.NewLengthPrefixFramer(),
		echoMessenger{}, callback.DevNull[string, string]{}, nil, 256,
	)
	if err != nil {
		t.Fatalf("NewAccepted: %v", err)
	}
	return clt, svcClt
}

func TestCltsPoolAddAndRecv(t *testing.T) {
	p := pool.NewCltsPool[string, string](2, nil)

	cltA, svcA := dialPair(t, "a")
	cltB, svcB := dialPair(t, "b")
	defer cltA.Close()
	defer cltB.Close()
	defer svcA.Close()
	defer svcB.Close()

	if err := p.Add(svcA); err != nil {
		t.Fatalf("Add svcA: %v", err)
	}
	if err := p.Add(svcB); err != nil {
		t.Fatalf("Add svcB: %v", err)
	}
	if p.Len() != 2 {
		t.Fatalf("expected len 2, got %d", p.Len())
	}

	if _, err := cltA.Send("hi-a"); err != nil {
		t.Fatalf("cltA.Send: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		st, err := p.Recv()
		if err != nil {
			t.Fatalf("Recv: %v", err)
		}
		if v, ok := st.Value(); ok {
			if v != "hi-a" {
				t.Fatalf("expected hi-a, got %q", v)
			}
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("timed out waiting for pooled recv")
}

func TestCltsPoolSendReturnsNotConnectedWhenEmpty(t *testing.T) {
	p := pool.NewCltsPool[string, string](1, nil)
	if _, err := p.Send("x"); !errors.Is(err, lnkerr.ErrNotConnected) {
		t.Fatalf("expected NotConnected error on empty pool, got %v", err)
	}
	if _, err := p.Recv(); !errors.Is(err, lnkerr.ErrNotConnected) {
		t.Fatalf("expected NotConnected error on empty pool, got %v", err)
	}
}
