// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package pool provides fixed-capacity, round-robin collections of
// endpoints fed by a lazily-drained admission channel: RoundRobinPool is
// the generic container, CltsPool/CltRecversPool/CltSendersPool wrap it
// with the admission and send/recv policy conn.Clt and its halves need.
package pool

import "code.hybscloud.com/link/lnkerr"

// RoundRobinPool is a fixed-capacity, insertion-ordered collection with a
// rotating cursor. It is single-threaded: the only accessor is expected to
// be the goroutine that owns the pool, so no internal locking is done.
type RoundRobinPool[T any] struct {
	items    []T
	capacity int
	cursor   int
	lastIdx  int
	hasLast  bool
}

// NewRoundRobinPool returns an empty pool that holds at most capacity
// items. capacity must be positive.
func NewRoundRobinPool[T any](capacity int) *RoundRobinPool[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &RoundRobinPool[T]{
		items:    make([]T, 0, capacity),
		capacity: capacity,
	}
}

// Len returns the number of items currently held.
func (p *RoundRobinPool[T]) Len() int { return len(p.items) }

// Capacity returns the maximum number of items the pool can hold.
func (p *RoundRobinPool[T]) Capacity() int { return p.capacity }

// IsEmpty reports whether the pool holds no items.
func (p *RoundRobinPool[T]) IsEmpty() bool { return len(p.items) == 0 }

// HasCapacity reports whether Add would currently succeed.
func (p *RoundRobinPool[T]) HasCapacity() bool { return len(p.items) < p.capacity }

// Add appends item, failing with lnkerr.ErrOutOfMemory once the pool is at
// capacity.
func (p *RoundRobinPool[T]) Add(item T) error {
	if !p.HasCapacity() {
		return lnkerr.ErrOutOfMemory
	}
	p.items = append(p.items, item)
	return nil
}

// Clear empties the pool and resets the cursor.
func (p *RoundRobinPool[T]) Clear() {
	p.items = p.items[:0]
	p.cursor = 0
	p.hasLast = false
}

// All returns the pool's items in insertion order. The returned slice
// aliases the pool's backing array and must not be retained across a call
// that mutates the pool.
func (p *RoundRobinPool[T]) All() []T { return p.items }

// RoundRobin returns the item at the cursor and advances it, wrapping at
// the end of the slice. It returns ok=false iff the pool is empty.
func (p *RoundRobinPool[T]) RoundRobin() (item T, ok bool) {
	if len(p.items) == 0 {
		p.hasLast = false
		return item, false
	}
	idx := p.cursor % len(p.items)
	p.lastIdx = idx
	p.hasLast = true
	p.cursor = idx + 1
	return p.items[idx], true
}

// RemoveLastUsed removes the item RoundRobin most recently returned — the
// caller has just observed it as dead — preserving the relative order of
// the rest and the cursor's forward progress through them. It returns
// ok=false if RoundRobin has not returned an item since the pool was
// created or last cleared, or if that item was already removed.
func (p *RoundRobinPool[T]) RemoveLastUsed() (item T, ok bool) {
	if !p.hasLast || p.lastIdx >= len(p.items) {
		p.hasLast = false
		return item, false
	}
	idx := p.lastIdx
	item = p.items[idx]
	p.items = append(p.items[:idx], p.items[idx+1:]...)
	if p.cursor > idx {
		p.cursor--
	}
	p.hasLast = false
	return item, true
}
