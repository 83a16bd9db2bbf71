package stepid

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterSequence(t *testing.T) {
	c := NewCounter("SJ")
	assert.Equal(t, "SJ1", c.Next())
	assert.Equal(t, "SJ2", c.Next())
	assert.Equal(t, "SJ", c.Marker())

	other := NewCounter("WFTM")
	assert.Equal(t, "WFTM1", other.Next(), "counters do not share state")
}

func TestCounterConcurrentUnique(t *testing.T) {
	c := NewCounter("DDM")
	const n = 64

	var (
		mu   sync.Mutex
		seen = make(map[string]struct{}, n)
		wg   sync.WaitGroup
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id := c.Next()
			mu.Lock()
			seen[id] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, n)
}

func TestNewRunID(t *testing.T) {
	id := NewRunID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, NewRunID())
}
