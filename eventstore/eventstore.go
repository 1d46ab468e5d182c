// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package eventstore provides an ordered, append-only log of callback
// events behind a single mutex, matching the external EventStore
// collaborator spec.md describes for callback.Store. Append is O(1); Find
// is a reverse scan filtered by connection name and a predicate, retried
// on a short sleep loop until a deadline — the same retry-until-deadline
// shape as the Rust original's core/src/stores/canonical_store.rs.
package eventstore

import (
	"sync"
	"time"

	"code.hybscloud.com/link/conid"
)

// Direction classifies which callback produced an Entry.
type Direction uint8

const (
	DirRecv Direction = iota
	DirSend
	DirSent
	DirFail
)

func (d Direction) String() string {
	switch d {
	case DirRecv:
		return "Recv"
	case DirSend:
		return "Send"
	case DirSent:
		return "Sent"
	case DirFail:
		return "Fail"
	default:
		return "Unknown"
	}
}

// Entry is one recorded event.
type Entry struct {
	ConID   conid.ID
	At      time.Time
	Elapsed time.Duration
	Dir     Direction
	Message any
}

// Store is a mutex-guarded, append-only event log.
type Store struct {
	mu      sync.Mutex
	entries []Entry
	start   time.Time

	// pollInterval governs Find's retry cadence; defaults to 10ms.
	pollInterval time.Duration
}

// New returns an empty Store.
func New() *Store {
	return &Store{start: time.Now(), pollInterval: 10 * time.Millisecond}
}

// Append adds one entry. O(1) amortized.
func (s *Store) Append(id conid.ID, dir Direction, msg any) {
	now := time.Now()
	s.mu.Lock()
	s.entries = append(s.entries, Entry{ConID: id, At: now, Elapsed: now.Sub(s.start), Dir: dir, Message: msg})
	s.mu.Unlock()
}

// Len returns the number of recorded entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// All returns a snapshot copy of every recorded entry, oldest first.
func (s *Store) All() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Find reverse-scans entries whose ConID.Name equals name and that satisfy
// pred, returning the most recently appended match. If none is found yet,
// it sleeps pollInterval and retries until deadline elapses.
func (s *Store) Find(name string, pred func(Entry) bool, deadline time.Time) (Entry, bool) {
	for {
		if e, ok := s.findOnce(name, pred); ok {
			return e, true
		}
		if !time.Now().Before(deadline) {
			return Entry{}, false
		}
		time.Sleep(s.pollInterval)
	}
}

func (s *Store) findOnce(name string, pred func(Entry) bool) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].ConID.Name == name && pred(s.entries[i]) {
			return s.entries[i], true
		}
	}
	return Entry{}, false
}
