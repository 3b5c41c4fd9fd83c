package notify

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFOIdentity(t *testing.T) {
	q := NewQueue()

	first := NewEmailJob("a@example.com", "one", "body")
	second := NewEmailJob("b@example.com", "two", "body")
	q.Enqueue(first)
	q.Enqueue(second)

	assert.True(t, q.AnyQueued())
	assert.Equal(t, 2, q.Len())

	got, ok := q.TryDequeue()
	require.True(t, ok)
	assert.Equal(t, first.JobID, got.JobID)

	got, ok = q.TryDequeue()
	require.True(t, ok)
	assert.Equal(t, second.JobID, got.JobID)

	_, ok = q.TryDequeue()
	assert.False(t, ok)
	assert.False(t, q.AnyQueued())
}

func TestQueueConcurrentProducersConsumers(t *testing.T) {
	const producers = 8
	const jobsPerProducer = 200

	q := NewQueue()

	var produce sync.WaitGroup
	for p := 0; p < producers; p++ {
		produce.Add(1)
		go func() {
			defer produce.Done()
			for i := 0; i < jobsPerProducer; i++ {
				q.Enqueue(NewEmailJob("c@example.com", "t", "b"))
			}
		}()
	}
	produce.Wait()

	// Every job comes out exactly once, across competing consumers.
	seen := make(map[string]int)
	var mu sync.Mutex
	var consume sync.WaitGroup
	for c := 0; c < 4; c++ {
		consume.Add(1)
		go func() {
			defer consume.Done()
			for {
				job, ok := q.TryDequeue()
				if !ok {
					return
				}
				mu.Lock()
				seen[job.JobID]++
				mu.Unlock()
			}
		}()
	}
	consume.Wait()

	assert.Len(t, seen, producers*jobsPerProducer)
	for id, count := range seen {
		assert.Equal(t, 1, count, "job %s dequeued %d times", id, count)
	}
	assert.Equal(t, 0, q.Len())
}
