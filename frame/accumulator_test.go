// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package frame

import "testing"

func TestAccumulatorGrowCommitAdvance(t *testing.T) {
	a := NewAccumulator(8)

	dst := a.Grow(4)
	copy(dst, []byte("abcd"))
	a.Commit(4)
	if got := string(a.Bytes()); got != "abcd" {
		t.Fatalf("Bytes() = %q, want %q", got, "abcd")
	}

	a.Advance(2)
	if got := string(a.Bytes()); got != "cd" {
		t.Fatalf("Bytes() after Advance = %q, want %q", got, "cd")
	}

	// Grow beyond remaining capacity forces compaction/reallocation but
	// preserves unread bytes.
	dst = a.Grow(64)
	copy(dst, []byte("EFGH"))
	a.Commit(4)
	if got := string(a.Bytes()); got != "cdEFGH" {
		t.Fatalf("Bytes() after grow = %q, want %q", got, "cdEFGH")
	}
}

func TestAccumulatorAdvanceFullyDrainsToZero(t *testing.T) {
	a := NewAccumulator(4)
	dst := a.Grow(4)
	copy(dst, []byte("data"))
	a.Commit(4)
	a.Advance(4)
	if a.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", a.Len())
	}
	// After fully draining, Grow should reuse from offset 0, not keep
	// growing unboundedly.
	dst = a.Grow(4)
	if cap(dst) < 4 {
		t.Fatalf("Grow(4) returned insufficient capacity: %d", cap(dst))
	}
}

func TestAccumulatorAdvancePastLenPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic advancing past Len()")
		}
	}()
	a := NewAccumulator(4)
	a.Advance(1)
}
