// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pool_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/link/lnkerr"
	"code.hybscloud.com/link/pool"
)

func TestRoundRobinPoolCapacity(t *testing.T) {
	p := pool.NewRoundRobinPool[int](2)
	if err := p.Add(1); err != nil {
		t.Fatalf("Add(1): %v", err)
	}
	if err := p.Add(2); err != nil {
		t.Fatalf("Add(2): %v", err)
	}
	if err := p.Add(3); !errors.Is(err, lnkerr.ErrOutOfMemory) {
		t.Fatalf("Add(3): expected ErrOutOfMemory, got %v", err)
	}
	if p.Len() != 2 {
		t.Fatalf("expected len 2, got %d", p.Len())
	}
}

func TestRoundRobinPoolVisitsAllBeforeRevisit(t *testing.T) {
	p := pool.NewRoundRobinPool[int](3)
	_ = p.Add(1)
	_ = p.Add(2)
	_ = p.Add(3)

	seen := map[int]bool{}
	for i := 0; i < 3; i++ {
		v, ok := p.RoundRobin()
		if !ok {
			t.Fatal("expected a value")
		}
		if seen[v] {
			t.Fatalf("revisited %d before seeing all endpoints", v)
		}
		seen[v] = true
	}
	if len(seen) != 3 {
		t.Fatalf("expected to see all 3, saw %d", len(seen))
	}
}

func TestRoundRobinPoolRemoveLastUsedPreservesRotation(t *testing.T) {
	p := pool.NewRoundRobinPool[int](3)
	_ = p.Add(1)
	_ = p.Add(2)
	_ = p.Add(3)

	v, _ := p.RoundRobin() // 1
	if v != 1 {
		t.Fatalf("expected 1, got %d", v)
	}
	removed, ok := p.RemoveLastUsed()
	if !ok || removed != 1 {
		t.Fatalf("expected to remove 1, got %d ok=%v", removed, ok)
	}
	if p.Len() != 2 {
		t.Fatalf("expected len 2 after removal, got %d", p.Len())
	}

	v, _ = p.RoundRobin()
	if v != 2 {
		t.Fatalf("expected cursor to continue at 2, got %d", v)
	}
	v, _ = p.RoundRobin()
	if v != 3 {
		t.Fatalf("expected 3, got %d", v)
	}
	v, _ = p.RoundRobin()
	if v != 2 {
		t.Fatalf("expected wraparound to 2, got %d", v)
	}
}

func TestRoundRobinPoolEmpty(t *testing.T) {
	p := pool.NewRoundRobinPool[int](1)
	if _, ok := p.RoundRobin(); ok {
		t.Fatal("expected no value from an empty pool")
	}
	if _, ok := p.RemoveLastUsed(); ok {
		t.Fatal("expected RemoveLastUsed to fail with no prior RoundRobin")
	}
}
