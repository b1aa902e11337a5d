package id

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixedIDs(t *testing.T) {
	req := NewRequestID()
	batch := NewBatchID()

	assert.True(t, strings.HasPrefix(req.String(), "req_"))
	assert.True(t, strings.HasPrefix(batch.String(), "batch_"))
	assert.NotEqual(t, req.String(), NewRequestID().String())
}

func TestIDsSortInCreationOrder(t *testing.T) {
	g := NewGenerator()
	prev := g.Generate().String()
	for i := 0; i < 100; i++ {
		next := g.Generate().String()
		assert.Less(t, prev, next)
		prev = next
	}
}

func TestTimestamp(t *testing.T) {
	before := time.Now().Add(-time.Second)
	ts, err := Timestamp(NewRequestID().String())
	require.NoError(t, err)
	assert.True(t, ts.After(before))

	_, err = Timestamp("req_not-a-ulid")
	assert.Error(t, err)
}

func TestSequenceIsUniqueUnderConcurrency(t *testing.T) {
	var seq Sequence
	const workers, perWorker = 8, 250

	var (
		mu   sync.Mutex
		seen = make(map[int64]bool)
		wg   sync.WaitGroup
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				v := seq.Next()
				mu.Lock()
				seen[v] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
	assert.Equal(t, int64(workers*perWorker), seq.Last())
	assert.False(t, seen[0])
}
