package reminder

import (
	"sort"
	"sync"

	"github.com/GriffinCanCode/AgentOS/assistant/internal/shared/id"
)

// Store holds reminders by ID. IDs come from a process-lifetime sequence and
// are never reused.
type Store struct {
	mu    sync.RWMutex
	items map[int64]Reminder
	seq   id.Sequence
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{items: make(map[int64]Reminder)}
}

// NextID allocates the next reminder ID, starting at 1.
func (s *Store) NextID() int64 {
	return s.seq.Next()
}

// Put inserts or replaces r
func (s *Store) Put(r Reminder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[r.ID] = r
}

// Get returns the reminder with the given ID
func (s *Store) Get(id int64) (Reminder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.items[id]
	return r, ok
}

// Update applies fn to the stored reminder and returns the result.
func (s *Store) Update(id int64, fn func(*Reminder)) (Reminder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.items[id]
	if !ok {
		return Reminder{}, false
	}
	fn(&r)
	s.items[id] = r
	return r, true
}

// Remove deletes and returns the reminder with the given ID
func (s *Store) Remove(id int64) (Reminder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.items[id]
	if ok {
		delete(s.items, id)
	}
	return r, ok
}

// List returns every stored reminder ordered by ID.
func (s *Store) List() []Reminder {
	s.mu.RLock()
	out := make([]Reminder, 0, len(s.items))
	for _, r := range s.items {
		out = append(out, r)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns how many stored reminders have the given status.
func (s *Store) Count(status Status) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, r := range s.items {
		if r.Status == status {
			n++
		}
	}
	return n
}

// Len returns the number of stored reminders
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}
