// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package reactor_test

import (
	"testing"
	"time"

	"code.hybscloud.com/link/callback"
	"code.hybscloud.com/link/conn"
	"code.hybscloud.com/link/eventstore"
	"code.hybscloud.com/link/frame"
	"code.hybscloud.com/link/reactor"
	"code.hybscloud.com/link/svc"
)

type echoMessenger struct{}

func (echoMessenger) EncodedLen(msg string) int { return len(msg) }
func (echoMessenger) Serialize(dst []byte, msg string) (int, error) {
	return copy(dst, msg), nil
}
func (echoMessenger) Deserialize(f frame.Frame) (string, error) { return string(f), nil }

// TestReactorFansInTwoAcceptors registers two independent svc.PoolAcceptors
// with one PollHandler, connects one Clt to each, and asserts that both
// messages land in the shared event store under their own con_id name —
// one reactor goroutine servicing two heterogeneous listening ports.
func TestReactorFansInTwoAcceptors(t *testing.T) {
	events := eventstore.New()

	h, err := reactor.New(nil)
	if err != nil {
		t.Fatalf("reactor.New: %v", err)
	}

	svcA := bindSplitSvc(t, h, events, "svc-a")
	svcB := bindSplitSvc(t, h, events, "svc-b")

	h.Spawn("fan-in")
	t.Cleanup(h.Stop)

	cltA, err := conn.Connect[string, string](
		svcA.ID().Local.String(), 2*time.Second, 20*time.Millisecond,
		frame.NewLengthPrefixFramer(), frame.NewLengthPrefixFramer(),
		echoMessenger{}, callback.DevNull[string, string]{}, nil, "clt-a", 256,
	)
	if err != nil {
		t.Fatalf("Connect a: %v", err)
	}
	defer cltA.Close()

	cltB, err := conn.Connect[string, string](
		svcB.ID().Local.String(), 2*time.Second, 20*time.Millisecond,
		frame.NewLengthPrefixFramer(), frame.NewLengthPrefixFramer(),
		echoMessenger{}, callback.DevNull[string, string]{}, nil, "clt-b", 256,
	)
	if err != nil {
		t.Fatalf("Connect b: %v", err)
	}
	defer cltB.Close()

	if _, err := cltA.Send("hello-a"); err != nil {
		t.Fatalf("cltA.Send: %v", err)
	}
	if _, err := cltB.Send("hello-b"); err != nil {
		t.Fatalf("cltB.Send: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	if _, ok := events.Find("svc-a", func(e eventstore.Entry) bool {
		return e.Dir == eventstore.DirRecv && e.Message == "hello-a"
	}, deadline); !ok {
		t.Fatal("expected hello-a to arrive at svc-a's event store")
	}
	if _, ok := events.Find("svc-b", func(e eventstore.Entry) bool {
		return e.Dir == eventstore.DirRecv && e.Message == "hello-b"
	}, deadline); !ok {
		t.Fatal("expected hello-b to arrive at svc-b's event store")
	}
}

func bindSplitSvc(t *testing.T, h *reactor.PollHandler, events *eventstore.Store, name string) *svc.Svc[string, string] {
	t.Helper()
	cb := callback.NewStore[string, string](events)
	s, err := svc.Bind[string, string](
		"127.0.0.1:0", name,
		frame.NewLengthPrefixFramer(), frame.NewLengthPrefixFramer(),
		echoMessenger{}, cb, nil,
		256, 4, nil,
	)
	if err != nil {
		t.Fatalf("Bind %s: %v", name, err)
	}
	t.Cleanup(func() { _ = s.Close() })

	acceptor, _, _ := s.Split()
	if err := h.Add(acceptor); err != nil {
		t.Fatalf("Add acceptor %s: %v", name, err)
	}
	return s
}
