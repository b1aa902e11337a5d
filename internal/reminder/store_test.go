package reminder

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreIDsAreUniqueAndIncreasing(t *testing.T) {
	s := NewStore()

	var (
		mu  sync.Mutex
		ids = make(map[int64]bool)
		wg  sync.WaitGroup
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := s.NextID()
			s.Put(Reminder{ID: id, Status: StatusActive})
			mu.Lock()
			ids[id] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, ids, 50)
	assert.Equal(t, 50, s.Len())
	list := s.List()
	for i := range list {
		assert.Equal(t, int64(i+1), list[i].ID)
	}
	assert.Equal(t, int64(51), s.NextID())
}

func TestStoreUpdateAndRemove(t *testing.T) {
	s := NewStore()
	s.Put(Reminder{ID: 1, Status: StatusActive})

	r, ok := s.Update(1, func(r *Reminder) { r.Status = StatusCompleted })
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, r.Status)
	assert.Equal(t, 1, s.Count(StatusCompleted))
	assert.Equal(t, 0, s.Count(StatusActive))

	_, ok = s.Update(2, func(*Reminder) {})
	assert.False(t, ok)

	_, ok = s.Remove(1)
	assert.True(t, ok)
	_, ok = s.Remove(1)
	assert.False(t, ok)
	_, ok = s.Get(1)
	assert.False(t, ok)
}
