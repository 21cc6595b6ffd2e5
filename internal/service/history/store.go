// Package history keeps the bounded, chronologically ordered log of analyses.
package history

import (
	"sync"

	model "github.com/zhouzirui/z-mood/backend/internal/model/emotion"
)

// DefaultCapacity is the number of entries retained before eviction starts.
const DefaultCapacity = 100

// Store is an in-memory FIFO of entries. Insertion order is chronological
// order; once full, every Add evicts the oldest entry. Add is serialized by a
// write lock and readers receive copies taken under a read lock.
type Store struct {
	mu       sync.RWMutex
	capacity int
	entries  []model.Entry
}

// NewStore returns an empty store. A non-positive capacity selects DefaultCapacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{
		capacity: capacity,
		entries:  make([]model.Entry, 0, capacity),
	}
}

// Capacity returns the retention bound.
func (s *Store) Capacity() int {
	return s.capacity
}

// Add appends entry, evicting the oldest entry when the store is full.
func (s *Store) Add(entry model.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) >= s.capacity {
		// Shift in place so the backing array never grows past capacity.
		n := copy(s.entries, s.entries[len(s.entries)-s.capacity+1:])
		s.entries = s.entries[:n]
	}
	s.entries = append(s.entries, entry)
}

// All returns every retained entry, oldest first.
func (s *Store) All() []model.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.entries)
}

// Recent returns the last min(n, Count()) entries, oldest first.
func (s *Store) Recent(n int) []model.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if n <= 0 {
		return []model.Entry{}
	}
	if n > len(s.entries) {
		n = len(s.entries)
	}
	return clone(s.entries[len(s.entries)-n:])
}

// Older returns the window of up to n entries immediately preceding the most
// recent n. It is empty while the store holds n entries or fewer.
func (s *Store) Older(n int) []model.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	length := len(s.entries)
	if n < 0 || length <= n {
		return []model.Entry{}
	}
	start := length - 2*n
	if start < 0 {
		start = 0
	}
	return clone(s.entries[start : length-n])
}

// Windows returns Recent(n) and Older(n) from a single consistent snapshot.
func (s *Store) Windows(n int) (recent, older []model.Entry) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	length := len(s.entries)
	if n <= 0 {
		return []model.Entry{}, []model.Entry{}
	}
	split := length - n
	if split < 0 {
		split = 0
	}
	recent = clone(s.entries[split:])
	if length <= n {
		return recent, []model.Entry{}
	}
	start := length - 2*n
	if start < 0 {
		start = 0
	}
	return recent, clone(s.entries[start:split])
}

// Count returns the number of retained entries.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Clear drops every entry.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = s.entries[:0]
}

func clone(entries []model.Entry) []model.Entry {
	copied := make([]model.Entry, len(entries))
	copy(copied, entries)
	return copied
}
